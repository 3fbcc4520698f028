package fanout

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"social-feed-service/internal/kafka"
	"social-feed-service/internal/metrics"
	"social-feed-service/internal/notification"
)

// Dedup remembers which event ids have already been persisted so a
// redelivered event can be skipped without another insert. An id is marked
// only after its notification is stored; an event that failed to persist
// stays unmarked and the retry goes through the full path again.
type Dedup interface {
	Seen(ctx context.Context, key string) (bool, error)
	Mark(ctx context.Context, key string) error
}

type redisDedup struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisDedup(rdb *redis.Client) Dedup {
	return &redisDedup{rdb: rdb, ttl: 24 * time.Hour}
}

func (d *redisDedup) Seen(ctx context.Context, key string) (bool, error) {
	n, err := d.rdb.Exists(ctx, "fanout:evt:"+key).Result()
	return n > 0, err
}

func (d *redisDedup) Mark(ctx context.Context, key string) error {
	return d.rdb.Set(ctx, "fanout:evt:"+key, "1", d.ttl).Err()
}

// MemoryDedup backs tests.
type MemoryDedup struct {
	seen map[string]struct{}
}

func NewMemoryDedup() *MemoryDedup {
	return &MemoryDedup{seen: make(map[string]struct{})}
}

func (d *MemoryDedup) Seen(ctx context.Context, key string) (bool, error) {
	_, ok := d.seen[key]
	return ok, nil
}

func (d *MemoryDedup) Mark(ctx context.Context, key string) error {
	d.seen[key] = struct{}{}
	return nil
}

// NewEventHandler builds the consumer-side handler: decode, dedupe,
// persist, mark. A persistence error is returned with the event id still
// unmarked, so a redelivery retries the insert; the insert itself is
// idempotent on the event id, which keeps the path duplicate-free even
// when the mark is lost.
func NewEventHandler(dedup Dedup, svc notification.Service) kafka.Handler {
	return func(ctx context.Context, key, value []byte) error {
		var ev Event
		if err := json.Unmarshal(value, &ev); err != nil {
			// a malformed event will never decode; drop it
			log.Printf("[fanout] decode event key=%s: %v", string(key), err)
			return nil
		}

		seen, err := dedup.Seen(ctx, ev.ID)
		if err != nil {
			// dedup store down: fall through to the idempotent insert
			log.Printf("[fanout] dedup check id=%s: %v", ev.ID, err)
		} else if seen {
			metrics.FanoutDuplicates.Inc()
			return nil
		}

		if err := svc.Create(ctx, ev.ID, ev.Kind, ev.RecipientID, ev.SenderID, ev.PostID, ev.CreatedAt); err != nil {
			return err
		}
		if err := dedup.Mark(ctx, ev.ID); err != nil {
			log.Printf("[fanout] dedup mark id=%s: %v", ev.ID, err)
		}
		return nil
	}
}
