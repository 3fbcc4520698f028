package post

import (
	"time"

	"social-feed-service/internal/user"
)

type CreatePostRequest struct {
	Content  string `json:"content"`
	ImageURL string `json:"imageUrl"`
}

type CommentRequest struct {
	Content string `json:"content"`
}

type CommentResponse struct {
	ID        uint      `json:"id"`
	PostID    uint      `json:"postId"`
	Author    user.Ref  `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

type PostResponse struct {
	ID            uint              `json:"id"`
	Author        user.Ref          `json:"author"`
	Content       string            `json:"content"`
	ImageURL      string            `json:"imageUrl"`
	LikesCount    int64             `json:"likesCount"`
	CommentsCount int64             `json:"commentsCount"`
	Comments      []CommentResponse `json:"comments"`
	IsLiked       bool              `json:"isLiked"`
	CreatedAt     time.Time         `json:"createdAt"`
}

type ToggleLikeResponse struct {
	Message    string `json:"message"`
	IsLiked    bool   `json:"isLiked"`
	LikesCount int64  `json:"likesCount"`
}
