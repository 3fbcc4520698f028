package follow

import (
	"context"
	"sync"

	"social-feed-service/internal/apperr"
	"social-feed-service/internal/user"
)

type edge struct{ follower, followee string }

// MemoryRepository implements the same atomic edge+counter contract as the
// gorm repository, with a single mutex serializing all toggles.
type MemoryRepository struct {
	mu    sync.Mutex
	edges map[edge]struct{}
	users *user.MemoryRepository
}

func NewMemoryRepository(users *user.MemoryRepository) *MemoryRepository {
	return &MemoryRepository{
		edges: make(map[edge]struct{}),
		users: users,
	}
}

func (r *MemoryRepository) Toggle(ctx context.Context, actorID, targetID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.users.Get(ctx, targetID); err != nil {
		return false, err
	}
	if _, err := r.users.Get(ctx, actorID); err != nil {
		return false, err
	}

	e := edge{follower: actorID, followee: targetID}
	if _, ok := r.edges[e]; ok {
		delete(r.edges, e)
		if err := r.users.Bump(targetID, -1, 0); err != nil {
			return false, apperr.Internal("bump followers", err)
		}
		if err := r.users.Bump(actorID, 0, -1); err != nil {
			return false, apperr.Internal("bump following", err)
		}
		return false, nil
	}

	r.edges[e] = struct{}{}
	if err := r.users.Bump(targetID, 1, 0); err != nil {
		return false, apperr.Internal("bump followers", err)
	}
	if err := r.users.Bump(actorID, 0, 1); err != nil {
		return false, apperr.Internal("bump following", err)
	}
	return true, nil
}

func (r *MemoryRepository) IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.edges[edge{follower: followerID, followee: followeeID}]
	return ok, nil
}
