package notification

import "time"

type Kind string

const (
	KindFollow  Kind = "follow"
	KindLike    Kind = "like"
	KindComment Kind = "comment"
)

// Notification is created by fan-out only, never by direct user action.
// PostID is set for like/comment kinds, zero for follow.
type Notification struct {
	ID          string `gorm:"primaryKey;size:36"`
	RecipientID string `gorm:"size:64;index:idx_notifications_recipient"`
	SenderID    string `gorm:"size:64"`
	Kind        Kind   `gorm:"size:16"`
	PostID      uint
	Read        bool `gorm:"default:false"`
	CreatedAt   time.Time
}
