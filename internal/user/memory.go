package user

import (
	"context"
	"sync"

	"social-feed-service/internal/apperr"
)

// MemoryRepository keeps users in a map. Used by tests and as a stand-in
// where no database is available.
type MemoryRepository struct {
	mu    sync.RWMutex
	users map[string]User
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{users: make(map[string]User)}
}

func (r *MemoryRepository) Get(ctx context.Context, id string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	return &u, nil
}

func (r *MemoryRepository) GetMany(ctx context.Context, ids []string) (map[string]*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]*User, len(ids))
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			c := u
			out[id] = &c
		}
	}
	return out, nil
}

func (r *MemoryRepository) Upsert(ctx context.Context, u *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := *u
	if prev, ok := r.users[u.ID]; ok {
		// profile sync never touches the follow counters
		c.FollowersCount = prev.FollowersCount
		c.FollowingCount = prev.FollowingCount
	}
	r.users[u.ID] = c
	return nil
}

// Bump adjusts the denormalized follow counters. Callers are responsible
// for applying it under the same critical section as the edge change.
func (r *MemoryRepository) Bump(id string, followersDelta, followingDelta int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return apperr.NotFound("user not found")
	}
	u.FollowersCount += followersDelta
	u.FollowingCount += followingDelta
	r.users[id] = u
	return nil
}
