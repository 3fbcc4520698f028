package post

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"social-feed-service/internal/apperr"
	"social-feed-service/internal/fanout"
	"social-feed-service/internal/metrics"
	"social-feed-service/internal/notification"
	"social-feed-service/internal/user"
)

type Service interface {
	CreatePost(ctx context.Context, actorID, content, imageURL string) (*PostResponse, error)
	GetPost(ctx context.Context, viewerID string, postID uint) (*PostResponse, error)
	ListPosts(ctx context.Context, viewerID string) ([]PostResponse, error)
	ListUserPosts(ctx context.Context, viewerID, authorID string) ([]PostResponse, error)
	// ToggleLike flips the actor's like on the post. A like notification
	// goes to the author only on the unliked -> liked transition, and not
	// when the actor likes their own post.
	ToggleLike(ctx context.Context, postID uint, actorID string) (*ToggleLikeResponse, error)
	AddComment(ctx context.Context, postID uint, actorID, content string) (*CommentResponse, error)
}

type service struct {
	repo    Repository
	users   user.Repository
	emitter fanout.Emitter
}

func NewService(repo Repository, users user.Repository, emitter fanout.Emitter) Service {
	return &service{repo: repo, users: users, emitter: emitter}
}

func validateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return apperr.Validation("content is required")
	}
	if len([]rune(content)) > MaxContentLen {
		return apperr.Validation("content exceeds 280 characters")
	}
	return nil
}

func (s *service) CreatePost(ctx context.Context, actorID, content, imageURL string) (*PostResponse, error) {
	if err := validateContent(content); err != nil {
		return nil, err
	}

	p := &Post{AuthorID: actorID, Content: content, ImageURL: imageURL}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	authors, err := s.users.GetMany(ctx, []string{actorID})
	if err != nil {
		return nil, err
	}
	resp := toResponse(*p, authors, nil, false)
	return &resp, nil
}

func (s *service) GetPost(ctx context.Context, viewerID string, postID uint) (*PostResponse, error) {
	p, err := s.repo.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	out, err := s.project(ctx, viewerID, []Post{*p})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

func (s *service) ListPosts(ctx context.Context, viewerID string) ([]PostResponse, error) {
	posts, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.project(ctx, viewerID, posts)
}

func (s *service) ListUserPosts(ctx context.Context, viewerID, authorID string) ([]PostResponse, error) {
	posts, err := s.repo.ListByAuthor(ctx, authorID)
	if err != nil {
		return nil, err
	}
	return s.project(ctx, viewerID, posts)
}

// project fills in comments, author refs and the per-viewer liked flag.
func (s *service) project(ctx context.Context, viewerID string, posts []Post) ([]PostResponse, error) {
	ids := make([]uint, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}

	comments, err := s.repo.CommentsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	liked, err := s.repo.LikedSet(ctx, viewerID, ids)
	if err != nil {
		return nil, err
	}

	authorIDs := make([]string, 0, len(posts))
	seen := make(map[string]struct{})
	collect := func(id string) {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			authorIDs = append(authorIDs, id)
		}
	}
	for _, p := range posts {
		collect(p.AuthorID)
		for _, c := range comments[p.ID] {
			collect(c.AuthorID)
		}
	}
	authors, err := s.users.GetMany(ctx, authorIDs)
	if err != nil {
		return nil, err
	}

	out := make([]PostResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, toResponse(p, authors, comments[p.ID], liked[p.ID]))
	}
	return out, nil
}

func toResponse(p Post, authors map[string]*user.User, comments []Comment, isLiked bool) PostResponse {
	cs := make([]CommentResponse, 0, len(comments))
	for _, c := range comments {
		cs = append(cs, CommentResponse{
			ID:        c.ID,
			PostID:    c.PostID,
			Author:    user.RefOf(authors[c.AuthorID]),
			Content:   c.Content,
			CreatedAt: c.CreatedAt,
		})
	}
	return PostResponse{
		ID:            p.ID,
		Author:        user.RefOf(authors[p.AuthorID]),
		Content:       p.Content,
		ImageURL:      p.ImageURL,
		LikesCount:    p.LikesCount,
		CommentsCount: p.CommentsCount,
		Comments:      cs,
		IsLiked:       isLiked,
		CreatedAt:     p.CreatedAt,
	}
}

func (s *service) ToggleLike(ctx context.Context, postID uint, actorID string) (*ToggleLikeResponse, error) {
	res, err := s.repo.ToggleLike(ctx, postID, actorID)
	if err != nil {
		return nil, err
	}

	msg := "Post unliked"
	if res.Liked {
		msg = "Post liked"
		metrics.Transitions.WithLabelValues("like", "on").Inc()
		if res.AuthorID != actorID {
			s.emitter.Emit(fanout.Event{
				ID:          uuid.NewString(),
				Kind:        notification.KindLike,
				RecipientID: res.AuthorID,
				SenderID:    actorID,
				PostID:      postID,
				CreatedAt:   time.Now().UTC(),
			})
		}
	} else {
		metrics.Transitions.WithLabelValues("like", "off").Inc()
	}

	return &ToggleLikeResponse{Message: msg, IsLiked: res.Liked, LikesCount: res.LikesCount}, nil
}

func (s *service) AddComment(ctx context.Context, postID uint, actorID, content string) (*CommentResponse, error) {
	if err := validateContent(content); err != nil {
		return nil, err
	}

	c, postAuthor, err := s.repo.AddComment(ctx, postID, actorID, content)
	if err != nil {
		return nil, err
	}

	metrics.Transitions.WithLabelValues("comment", "on").Inc()
	if postAuthor != actorID {
		s.emitter.Emit(fanout.Event{
			ID:          uuid.NewString(),
			Kind:        notification.KindComment,
			RecipientID: postAuthor,
			SenderID:    actorID,
			PostID:      postID,
			CreatedAt:   time.Now().UTC(),
		})
	}

	authors, err := s.users.GetMany(ctx, []string{actorID})
	if err != nil {
		return nil, err
	}
	return &CommentResponse{
		ID:        c.ID,
		PostID:    c.PostID,
		Author:    user.RefOf(authors[actorID]),
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
	}, nil
}
