package follow

import "time"

// Follow is the single materialization of the dual-owned edge: the row
// (follower, followee) backs both the follower's "following" set and the
// followee's "followers" set. The per-user counters live on the user rows
// and change in the same transaction as this row.
type Follow struct {
	FollowerID string `gorm:"primaryKey;size:64"`
	FolloweeID string `gorm:"primaryKey;size:64;index:idx_follows_followee"`
	CreatedAt  time.Time
}
