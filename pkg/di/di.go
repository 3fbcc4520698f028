package di

import (
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"social-feed-service/internal/fanout"
	"social-feed-service/internal/follow"
	"social-feed-service/internal/notification"
	"social-feed-service/internal/post"
	"social-feed-service/internal/user"
)

type Container struct {
	UserService         user.Service
	PostService         post.Service
	FollowService       follow.Service
	NotificationService notification.Service
	Dedup               fanout.Dedup
}

func BuildContainer(db *gorm.DB, rdb *redis.Client, emitter fanout.Emitter) *Container {
	userRepo := user.NewRepository(db)

	followRepo := follow.NewRepository(db)
	followService := follow.NewService(followRepo, emitter)

	userService := user.NewService(userRepo, followService)

	postRepo := post.NewRepository(db)
	postService := post.NewService(postRepo, userRepo, emitter)

	notifRepo := notification.NewRepository(db)
	notifService := notification.NewService(notifRepo, userRepo, postRepo, notification.NewRedisCache(rdb))

	return &Container{
		UserService:         userService,
		PostService:         postService,
		FollowService:       followService,
		NotificationService: notifService,
		Dedup:               fanout.NewRedisDedup(rdb),
	}
}
