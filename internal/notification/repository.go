package notification

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"social-feed-service/internal/apperr"
)

type Repository interface {
	// Insert is idempotent on the notification id, so a redelivered
	// fan-out event cannot create a duplicate row.
	Insert(ctx context.Context, n *Notification) error
	// List returns the recipient's notifications newest first, capped.
	List(ctx context.Context, recipientID string, limit int) ([]Notification, error)
	// MarkRead touches only rows owned by recipientID; foreign ids in the
	// list are ignored.
	MarkRead(ctx context.Context, recipientID string, ids []string) error
	MarkAllRead(ctx context.Context, recipientID string) error
	UnreadCount(ctx context.Context, recipientID string) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Insert(ctx context.Context, n *Notification) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(n).Error
	if err != nil {
		return apperr.Internal("insert notification", err)
	}
	return nil
}

func (r *repository) List(ctx context.Context, recipientID string, limit int) ([]Notification, error) {
	var out []Notification
	err := r.db.WithContext(ctx).
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, apperr.Internal("list notifications", err)
	}
	return out, nil
}

func (r *repository) MarkRead(ctx context.Context, recipientID string, ids []string) error {
	err := r.db.WithContext(ctx).Model(&Notification{}).
		Where("recipient_id = ? AND id IN ?", recipientID, ids).
		Update("read", true).Error
	if err != nil {
		return apperr.Internal("mark notifications read", err)
	}
	return nil
}

func (r *repository) MarkAllRead(ctx context.Context, recipientID string) error {
	err := r.db.WithContext(ctx).Model(&Notification{}).
		Where("recipient_id = ?", recipientID).
		Update("read", true).Error
	if err != nil {
		return apperr.Internal("mark all notifications read", err)
	}
	return nil
}

func (r *repository) UnreadCount(ctx context.Context, recipientID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Notification{}).
		Where("recipient_id = ? AND read = ?", recipientID, false).
		Count(&count).Error
	if err != nil {
		return 0, apperr.Internal("count unread notifications", err)
	}
	return count, nil
}
