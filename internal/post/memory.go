package post

import (
	"context"
	"sort"
	"sync"
	"time"

	"social-feed-service/internal/apperr"
)

// MemoryRepository implements Repository over maps with one mutex. It honors
// the same atomic set+counter contract as the gorm repository, so the
// concurrency properties of the services can be exercised without a
// database.
type MemoryRepository struct {
	mu       sync.Mutex
	posts    map[uint]*Post
	comments map[uint][]Comment
	likes    map[uint]map[string]struct{}
	nextPost uint
	nextComm uint
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		posts:    make(map[uint]*Post),
		comments: make(map[uint][]Comment),
		likes:    make(map[uint]map[string]struct{}),
	}
}

func (r *MemoryRepository) Create(ctx context.Context, p *Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextPost++
	p.ID = r.nextPost
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	c := *p
	r.posts[p.ID] = &c
	r.likes[p.ID] = make(map[string]struct{})
	return nil
}

func (r *MemoryRepository) Get(ctx context.Context, id uint) (*Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.posts[id]
	if !ok {
		return nil, apperr.NotFound("post not found")
	}
	c := *p
	return &c, nil
}

func (r *MemoryRepository) List(ctx context.Context) ([]Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Post, 0, len(r.posts))
	for _, p := range r.posts {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepository) ListByAuthor(ctx context.Context, authorID string) ([]Post, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, p := range all {
		if p.AuthorID == authorID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *MemoryRepository) CommentsFor(ctx context.Context, postIDs []uint) (map[uint][]Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[uint][]Comment, len(postIDs))
	for _, id := range postIDs {
		if cs, ok := r.comments[id]; ok {
			out[id] = append([]Comment(nil), cs...)
		}
	}
	return out, nil
}

func (r *MemoryRepository) ContentsFor(ctx context.Context, postIDs []uint) (map[uint]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[uint]string, len(postIDs))
	for _, id := range postIDs {
		if p, ok := r.posts[id]; ok {
			out[id] = p.Content
		}
	}
	return out, nil
}

func (r *MemoryRepository) LikedSet(ctx context.Context, viewerID string, postIDs []uint) (map[uint]bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[uint]bool, len(postIDs))
	for _, id := range postIDs {
		if set, ok := r.likes[id]; ok {
			if _, liked := set[viewerID]; liked {
				out[id] = true
			}
		}
	}
	return out, nil
}

func (r *MemoryRepository) ToggleLike(ctx context.Context, postID uint, userID string) (*LikeResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.posts[postID]
	if !ok {
		return nil, apperr.NotFound("post not found")
	}

	set := r.likes[postID]
	if _, liked := set[userID]; liked {
		delete(set, userID)
		p.LikesCount--
		return &LikeResult{Liked: false, LikesCount: p.LikesCount, AuthorID: p.AuthorID}, nil
	}
	set[userID] = struct{}{}
	p.LikesCount++
	return &LikeResult{Liked: true, LikesCount: p.LikesCount, AuthorID: p.AuthorID}, nil
}

func (r *MemoryRepository) AddComment(ctx context.Context, postID uint, authorID, content string) (*Comment, string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.posts[postID]
	if !ok {
		return nil, "", apperr.NotFound("post not found")
	}

	r.nextComm++
	c := Comment{
		ID:        r.nextComm,
		PostID:    postID,
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	r.comments[postID] = append(r.comments[postID], c)
	p.CommentsCount++
	return &c, p.AuthorID, nil
}
