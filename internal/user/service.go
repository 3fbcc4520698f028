package user

import (
	"context"

	"social-feed-service/internal/apperr"
)

// FollowChecker is the slice of the follow service the profile read side
// needs. Declared here so this package does not import the follow package.
type FollowChecker interface {
	IsFollowing(ctx context.Context, viewerID, targetID string) (bool, error)
}

type Service interface {
	GetProfile(ctx context.Context, viewerID, targetID string) (*ProfileResponse, error)
	IsFollowing(ctx context.Context, viewerID, targetID string) (bool, error)
	// SyncProfile upserts the caller's own projection; a principal can
	// never write another principal's record.
	SyncProfile(ctx context.Context, actorID, targetID string, req SyncProfileRequest) error
}

type service struct {
	repo    Repository
	follows FollowChecker
}

func NewService(repo Repository, follows FollowChecker) Service {
	return &service{repo: repo, follows: follows}
}

func (s *service) GetProfile(ctx context.Context, viewerID, targetID string) (*ProfileResponse, error) {
	u, err := s.repo.Get(ctx, targetID)
	if err != nil {
		return nil, err
	}
	isFollowing, err := s.follows.IsFollowing(ctx, viewerID, targetID)
	if err != nil {
		return nil, err
	}
	return &ProfileResponse{
		ID:             u.ID,
		Username:       u.Username,
		FullName:       u.FullName,
		Bio:            u.Bio,
		AvatarURL:      u.AvatarURL,
		FollowersCount: u.FollowersCount,
		FollowingCount: u.FollowingCount,
		IsFollowing:    isFollowing,
	}, nil
}

func (s *service) IsFollowing(ctx context.Context, viewerID, targetID string) (bool, error) {
	if _, err := s.repo.Get(ctx, targetID); err != nil {
		return false, err
	}
	return s.follows.IsFollowing(ctx, viewerID, targetID)
}

func (s *service) SyncProfile(ctx context.Context, actorID, targetID string, req SyncProfileRequest) error {
	if actorID != targetID {
		return apperr.InvalidOperation("cannot update another user's profile")
	}
	if req.Username == "" {
		return apperr.Validation("username is required")
	}
	if len([]rune(req.Bio)) > 280 {
		return apperr.Validation("bio exceeds 280 characters")
	}
	return s.repo.Upsert(ctx, &User{
		ID:        targetID,
		Username:  req.Username,
		FullName:  req.FullName,
		Bio:       req.Bio,
		AvatarURL: req.AvatarURL,
	})
}
