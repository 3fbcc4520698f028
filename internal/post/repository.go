package post

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"social-feed-service/internal/apperr"
)

// LikeResult is the committed outcome of one like toggle.
type LikeResult struct {
	Liked      bool
	LikesCount int64
	AuthorID   string
}

type Repository interface {
	Create(ctx context.Context, p *Post) error
	Get(ctx context.Context, id uint) (*Post, error)
	List(ctx context.Context) ([]Post, error)
	ListByAuthor(ctx context.Context, authorID string) ([]Post, error)
	// CommentsFor loads the ordered comment sequences for a batch of posts.
	CommentsFor(ctx context.Context, postIDs []uint) (map[uint][]Comment, error)
	// ContentsFor loads just the content column for a batch of posts.
	ContentsFor(ctx context.Context, postIDs []uint) (map[uint]string, error)
	// LikedSet reports which of the given posts the viewer has liked.
	LikedSet(ctx context.Context, viewerID string, postIDs []uint) (map[uint]bool, error)
	// ToggleLike flips the viewer's membership in the post's like set and
	// the counter as one atomic unit. Toggles on the same post serialize.
	ToggleLike(ctx context.Context, postID uint, userID string) (*LikeResult, error)
	// AddComment appends a comment and increments the counter atomically.
	// Returns the stored comment and the post's author id.
	AddComment(ctx context.Context, postID uint, authorID, content string) (*Comment, string, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, p *Post) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return apperr.Internal("create post", err)
	}
	return nil
}

func (r *repository) Get(ctx context.Context, id uint) (*Post, error) {
	var p Post
	err := r.db.WithContext(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("post not found")
	}
	if err != nil {
		return nil, apperr.Internal("load post", err)
	}
	return &p, nil
}

func (r *repository) List(ctx context.Context) ([]Post, error) {
	var posts []Post
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&posts).Error; err != nil {
		return nil, apperr.Internal("list posts", err)
	}
	return posts, nil
}

func (r *repository) ListByAuthor(ctx context.Context, authorID string) ([]Post, error) {
	var posts []Post
	err := r.db.WithContext(ctx).Where("author_id = ?", authorID).
		Order("created_at DESC").Find(&posts).Error
	if err != nil {
		return nil, apperr.Internal("list posts by author", err)
	}
	return posts, nil
}

func (r *repository) CommentsFor(ctx context.Context, postIDs []uint) (map[uint][]Comment, error) {
	out := make(map[uint][]Comment, len(postIDs))
	if len(postIDs) == 0 {
		return out, nil
	}
	var comments []Comment
	err := r.db.WithContext(ctx).Where("post_id IN ?", postIDs).
		Order("post_id, id").Find(&comments).Error
	if err != nil {
		return nil, apperr.Internal("load comments", err)
	}
	for _, c := range comments {
		out[c.PostID] = append(out[c.PostID], c)
	}
	return out, nil
}

func (r *repository) ContentsFor(ctx context.Context, postIDs []uint) (map[uint]string, error) {
	out := make(map[uint]string, len(postIDs))
	if len(postIDs) == 0 {
		return out, nil
	}
	var posts []Post
	err := r.db.WithContext(ctx).Select("id", "content").
		Where("id IN ?", postIDs).Find(&posts).Error
	if err != nil {
		return nil, apperr.Internal("load post contents", err)
	}
	for _, p := range posts {
		out[p.ID] = p.Content
	}
	return out, nil
}

func (r *repository) LikedSet(ctx context.Context, viewerID string, postIDs []uint) (map[uint]bool, error) {
	out := make(map[uint]bool, len(postIDs))
	if len(postIDs) == 0 {
		return out, nil
	}
	var likes []Like
	err := r.db.WithContext(ctx).Where("user_id = ? AND post_id IN ?", viewerID, postIDs).
		Find(&likes).Error
	if err != nil {
		return nil, apperr.Internal("load likes", err)
	}
	for _, l := range likes {
		out[l.PostID] = true
	}
	return out, nil
}

func (r *repository) ToggleLike(ctx context.Context, postID uint, userID string) (*LikeResult, error) {
	var result LikeResult

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The row lock is the unit of mutual exclusion: concurrent
		// toggles on the same post queue behind it, so the counter can
		// never diverge from the like set.
		var p Post
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, postID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("post not found")
		}
		if err != nil {
			return err
		}

		var like Like
		err = tx.First(&like, "post_id = ? AND user_id = ?", postID, userID).Error
		switch {
		case err == nil:
			if err := tx.Delete(&Like{}, "post_id = ? AND user_id = ?", postID, userID).Error; err != nil {
				return err
			}
			if err := tx.Model(&Post{}).Where("id = ?", postID).
				Update("likes_count", gorm.Expr("likes_count - 1")).Error; err != nil {
				return err
			}
			result = LikeResult{Liked: false, LikesCount: p.LikesCount - 1, AuthorID: p.AuthorID}
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(&Like{PostID: postID, UserID: userID}).Error; err != nil {
				return err
			}
			if err := tx.Model(&Post{}).Where("id = ?", postID).
				Update("likes_count", gorm.Expr("likes_count + 1")).Error; err != nil {
				return err
			}
			result = LikeResult{Liked: true, LikesCount: p.LikesCount + 1, AuthorID: p.AuthorID}
		default:
			return err
		}
		return nil
	})

	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return nil, err
		}
		return nil, apperr.Internal("toggle like", err)
	}
	return &result, nil
}

func (r *repository) AddComment(ctx context.Context, postID uint, authorID, content string) (*Comment, string, error) {
	var (
		comment    Comment
		postAuthor string
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p Post
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, postID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("post not found")
		}
		if err != nil {
			return err
		}
		postAuthor = p.AuthorID

		comment = Comment{PostID: postID, AuthorID: authorID, Content: content}
		if err := tx.Create(&comment).Error; err != nil {
			return err
		}
		return tx.Model(&Post{}).Where("id = ?", postID).
			Update("comments_count", gorm.Expr("comments_count + 1")).Error
	})

	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return nil, "", err
		}
		return nil, "", apperr.Internal("add comment", err)
	}
	return &comment, postAuthor, nil
}
