package user

import "time"

// User is the social-graph projection of an account. Credentials live in the
// identity service; only the fields the feed needs are materialized here.
type User struct {
	ID             string `gorm:"primaryKey;size:64"`
	Username       string `gorm:"size:64;uniqueIndex"`
	FullName       string `gorm:"size:128"`
	Bio            string `gorm:"size:280"`
	AvatarURL      string
	FollowersCount int64
	FollowingCount int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
