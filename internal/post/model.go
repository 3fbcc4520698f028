package post

import "time"

const MaxContentLen = 280

// Post carries denormalized engagement counters. LikesCount must always
// equal the number of Like rows for the post, CommentsCount the number of
// Comment rows; every mutation goes through the repository transactions
// that keep set and counter in step.
type Post struct {
	ID            uint   `gorm:"primaryKey"`
	AuthorID      string `gorm:"size:64;index:idx_posts_author"`
	Content       string `gorm:"size:280"`
	ImageURL      string
	LikesCount    int64
	CommentsCount int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Comment is owned by its post; comments are append-only and keep their
// insertion order.
type Comment struct {
	ID        uint   `gorm:"primaryKey"`
	PostID    uint   `gorm:"index:idx_comments_post"`
	AuthorID  string `gorm:"size:64"`
	Content   string `gorm:"size:280"`
	CreatedAt time.Time
}

// Like is one member of a post's like set.
type Like struct {
	PostID    uint   `gorm:"primaryKey"`
	UserID    string `gorm:"primaryKey;size:64"`
	CreatedAt time.Time
}
