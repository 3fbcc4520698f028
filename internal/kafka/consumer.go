package kafka

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

type Handler func(ctx context.Context, key, value []byte) error

type Consumer struct {
	reader *kafka.Reader
	handle Handler
}

func NewConsumer(brokers, groupID, topic string, h Handler) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:        strings.Split(brokers, ","),
			GroupID:        groupID,
			Topic:          topic,
			MinBytes:       10e3,
			MaxBytes:       10e6,
			CommitInterval: time.Second,
		}),
		handle: h,
	}
}

// Run fetches messages until ctx is cancelled. A failed message is retried
// in place before its offset is committed; skipping ahead would let the
// interval commit of a later offset commit past the failure. Handlers are
// expected to be idempotent.
func (c *Consumer) Run(ctx context.Context) error {
	defer func() {
		_ = c.reader.Close()
	}()

	log.Printf("[Kafka] consumer started | group=%s | topic=%s",
		c.reader.Config().GroupID, c.reader.Config().Topic)

	for {
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Println("[Kafka] consumer shutting down")
				return nil
			}
			log.Printf("[Kafka] fetch error: %v", err)
			time.Sleep(time.Second)
			continue
		}

		for {
			err := c.handle(ctx, m.Key, m.Value)
			if err == nil {
				break
			}
			log.Printf("[Kafka] handler error, retrying: %v", err)
			select {
			case <-ctx.Done():
				log.Println("[Kafka] consumer shutting down")
				return nil
			case <-time.After(time.Second):
			}
		}

		if err := c.reader.CommitMessages(ctx, m); err != nil {
			log.Printf("[Kafka] commit error: %v", err)
		}
	}
}
