package follow

import (
	"context"
	"time"

	"github.com/google/uuid"

	"social-feed-service/internal/apperr"
	"social-feed-service/internal/fanout"
	"social-feed-service/internal/metrics"
	"social-feed-service/internal/notification"
)

type Service interface {
	// Toggle flips the follow edge from actor to target. A follow
	// notification goes out only on the not-following -> following
	// transition, never on unfollow.
	Toggle(ctx context.Context, actorID, targetID string) (bool, error)
	IsFollowing(ctx context.Context, viewerID, targetID string) (bool, error)
}

type service struct {
	repo    Repository
	emitter fanout.Emitter
}

func NewService(repo Repository, emitter fanout.Emitter) Service {
	return &service{repo: repo, emitter: emitter}
}

func (s *service) Toggle(ctx context.Context, actorID, targetID string) (bool, error) {
	if actorID == targetID {
		return false, apperr.InvalidOperation("cannot follow yourself")
	}

	following, err := s.repo.Toggle(ctx, actorID, targetID)
	if err != nil {
		return false, err
	}

	if following {
		metrics.Transitions.WithLabelValues("follow", "on").Inc()
		s.emitter.Emit(fanout.Event{
			ID:          uuid.NewString(),
			Kind:        notification.KindFollow,
			RecipientID: targetID,
			SenderID:    actorID,
			CreatedAt:   time.Now().UTC(),
		})
	} else {
		metrics.Transitions.WithLabelValues("follow", "off").Inc()
	}
	return following, nil
}

func (s *service) IsFollowing(ctx context.Context, viewerID, targetID string) (bool, error) {
	return s.repo.IsFollowing(ctx, viewerID, targetID)
}
