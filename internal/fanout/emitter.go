package fanout

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"social-feed-service/internal/kafka"
	"social-feed-service/internal/metrics"
)

// Emitter accepts a transition event without blocking the caller. The
// primary operation has already committed by the time Emit is called, so
// emitter failures are logged and swallowed, never surfaced.
type Emitter interface {
	Emit(ev Event)
}

// KafkaEmitter buffers events and publishes them from a background
// goroutine so the engagement path never waits on the broker.
type KafkaEmitter struct {
	producer *kafka.Producer
	events   chan Event
	done     chan struct{}
}

func NewKafkaEmitter(producer *kafka.Producer) *KafkaEmitter {
	e := &KafkaEmitter{
		producer: producer,
		events:   make(chan Event, 1024),
		done:     make(chan struct{}),
	}
	go e.run()
	return e
}

func (e *KafkaEmitter) Emit(ev Event) {
	select {
	case e.events <- ev:
	default:
		// a full buffer must not block the engagement path
		metrics.FanoutDropped.Inc()
		log.Printf("[fanout] buffer full, dropped event id=%s kind=%s", ev.ID, ev.Kind)
	}
}

func (e *KafkaEmitter) run() {
	for ev := range e.events {
		b, err := json.Marshal(ev)
		if err != nil {
			log.Printf("[fanout] encode event id=%s: %v", ev.ID, err)
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := e.producer.Publish(ctx, ev.RecipientID, b); err != nil {
			log.Printf("[fanout] publish event id=%s: %v", ev.ID, err)
		}
		cancel()
	}
	close(e.done)
}

// Close drains the buffer and stops the publisher goroutine.
func (e *KafkaEmitter) Close() {
	close(e.events)
	<-e.done
}
