package notification

import (
	"context"
	"sort"
	"sync"
)

type MemoryRepository struct {
	mu   sync.Mutex
	rows map[string]Notification
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{rows: make(map[string]Notification)}
}

func (r *MemoryRepository) Insert(ctx context.Context, n *Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[n.ID]; ok {
		return nil
	}
	r.rows[n.ID] = *n
	return nil
}

func (r *MemoryRepository) List(ctx context.Context, recipientID string, limit int) ([]Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Notification
	for _, n := range r.rows {
		if n.RecipientID == recipientID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryRepository) MarkRead(ctx context.Context, recipientID string, ids []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range ids {
		if n, ok := r.rows[id]; ok && n.RecipientID == recipientID {
			n.Read = true
			r.rows[id] = n
		}
	}
	return nil
}

func (r *MemoryRepository) MarkAllRead(ctx context.Context, recipientID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, n := range r.rows {
		if n.RecipientID == recipientID {
			n.Read = true
			r.rows[id] = n
		}
	}
	return nil
}

// MemoryPostSource is a fixed id -> content map standing in for the post
// repository in tests.
type MemoryPostSource map[uint]string

func (s MemoryPostSource) ContentsFor(ctx context.Context, postIDs []uint) (map[uint]string, error) {
	out := make(map[uint]string, len(postIDs))
	for _, id := range postIDs {
		if content, ok := s[id]; ok {
			out[id] = content
		}
	}
	return out, nil
}

func (r *MemoryRepository) UnreadCount(ctx context.Context, recipientID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64
	for _, n := range r.rows {
		if n.RecipientID == recipientID && !n.Read {
			count++
		}
	}
	return count, nil
}
