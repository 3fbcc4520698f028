package fanout

import (
	"time"

	"social-feed-service/internal/notification"
)

// Event describes one qualifying state transition (new like, new comment,
// new follow). The event id identifies the transition, so redelivery of the
// same event can be deduplicated on the consumer side.
type Event struct {
	ID          string            `json:"id"`
	Kind        notification.Kind `json:"kind"`
	RecipientID string            `json:"recipientId"`
	SenderID    string            `json:"senderId"`
	PostID      uint              `json:"postId,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
}
