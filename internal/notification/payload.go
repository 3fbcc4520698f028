package notification

import (
	"time"

	"social-feed-service/internal/user"
)

// PostRef is the small post projection embedded in like and comment
// notifications.
type PostRef struct {
	ID      uint   `json:"id"`
	Content string `json:"content"`
}

type Response struct {
	ID        string    `json:"id"`
	Sender    user.Ref  `json:"sender"`
	Kind      Kind      `json:"kind"`
	Post      *PostRef  `json:"post,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

type MarkReadRequest struct {
	NotificationIDs []string `json:"notificationIds"`
}
