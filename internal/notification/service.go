package notification

import (
	"context"
	"time"

	"social-feed-service/internal/apperr"
	"social-feed-service/internal/user"
)

// listCap bounds the notification list response.
const listCap = 50

// PostSource loads the content of the posts notifications point at. The
// post repository satisfies it.
type PostSource interface {
	ContentsFor(ctx context.Context, postIDs []uint) (map[uint]string, error)
}

type Service interface {
	// Create persists a notification derived from one fan-out event. The
	// id is the event id, which makes the call idempotent under
	// redelivery.
	Create(ctx context.Context, id string, kind Kind, recipientID, senderID string, postID uint, createdAt time.Time) error
	List(ctx context.Context, recipientID string) ([]Response, error)
	MarkRead(ctx context.Context, recipientID string, ids []string) error
	MarkAllRead(ctx context.Context, recipientID string) error
	UnreadCount(ctx context.Context, recipientID string) (int64, error)
}

type service struct {
	repo  Repository
	users user.Repository
	posts PostSource
	cache CountCache
}

func NewService(repo Repository, users user.Repository, posts PostSource, cache CountCache) Service {
	return &service{repo: repo, users: users, posts: posts, cache: cache}
}

func (s *service) Create(ctx context.Context, id string, kind Kind, recipientID, senderID string, postID uint, createdAt time.Time) error {
	n := &Notification{
		ID:          id,
		RecipientID: recipientID,
		SenderID:    senderID,
		Kind:        kind,
		PostID:      postID,
		CreatedAt:   createdAt,
	}
	if err := s.repo.Insert(ctx, n); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, recipientID)
	return nil
}

func (s *service) List(ctx context.Context, recipientID string) ([]Response, error) {
	items, err := s.repo.List(ctx, recipientID, listCap)
	if err != nil {
		return nil, err
	}

	senderIDs := make([]string, 0, len(items))
	seenSenders := make(map[string]struct{})
	postIDs := make([]uint, 0, len(items))
	seenPosts := make(map[uint]struct{})
	for _, n := range items {
		if _, ok := seenSenders[n.SenderID]; !ok {
			seenSenders[n.SenderID] = struct{}{}
			senderIDs = append(senderIDs, n.SenderID)
		}
		if n.PostID != 0 {
			if _, ok := seenPosts[n.PostID]; !ok {
				seenPosts[n.PostID] = struct{}{}
				postIDs = append(postIDs, n.PostID)
			}
		}
	}
	senders, err := s.users.GetMany(ctx, senderIDs)
	if err != nil {
		return nil, err
	}
	contents, err := s.posts.ContentsFor(ctx, postIDs)
	if err != nil {
		return nil, err
	}

	out := make([]Response, 0, len(items))
	for _, n := range items {
		var post *PostRef
		if n.PostID != 0 {
			post = &PostRef{ID: n.PostID, Content: contents[n.PostID]}
		}
		out = append(out, Response{
			ID:        n.ID,
			Sender:    user.RefOf(senders[n.SenderID]),
			Kind:      n.Kind,
			Post:      post,
			Read:      n.Read,
			CreatedAt: n.CreatedAt,
		})
	}
	return out, nil
}

func (s *service) MarkRead(ctx context.Context, recipientID string, ids []string) error {
	if len(ids) == 0 {
		return apperr.Validation("invalid notification IDs")
	}
	for _, id := range ids {
		if id == "" {
			return apperr.Validation("invalid notification IDs")
		}
	}
	if err := s.repo.MarkRead(ctx, recipientID, ids); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, recipientID)
	return nil
}

func (s *service) MarkAllRead(ctx context.Context, recipientID string) error {
	if err := s.repo.MarkAllRead(ctx, recipientID); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, recipientID)
	return nil
}

func (s *service) UnreadCount(ctx context.Context, recipientID string) (int64, error) {
	if n, ok := s.cache.Get(ctx, recipientID); ok {
		return n, nil
	}
	n, err := s.repo.UnreadCount(ctx, recipientID)
	if err != nil {
		return 0, err
	}
	s.cache.Set(ctx, recipientID, n)
	return n, nil
}
