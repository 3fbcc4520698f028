package migrate

import (
	"social-feed-service/internal/follow"
	"social-feed-service/internal/notification"
	"social-feed-service/internal/post"
	"social-feed-service/internal/user"
	"social-feed-service/pkg/db"
)

func AutoMigrateAll(store *db.Store) error {
	return store.DB.AutoMigrate(
		&user.User{},
		&follow.Follow{},
		&post.Post{},
		&post.Comment{},
		&post.Like{},
		&notification.Notification{},
	)
}
