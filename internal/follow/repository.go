package follow

import (
	"context"
	"errors"
	"sort"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"social-feed-service/internal/apperr"
	"social-feed-service/internal/user"
)

type Repository interface {
	// Toggle flips the follow edge between actor and target and adjusts
	// both users' counters in one atomic unit. Returns the new state.
	Toggle(ctx context.Context, actorID, targetID string) (following bool, err error)
	IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Toggle(ctx context.Context, actorID, targetID string) (bool, error) {
	var following bool

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock both user rows in ascending id order so two opposing
		// toggles cannot deadlock. The row locks serialize all toggles
		// touching either user.
		ids := []string{actorID, targetID}
		sort.Strings(ids)

		var users []user.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id IN ?", ids).Order("id").Find(&users).Error; err != nil {
			return err
		}
		if len(users) != 2 {
			return apperr.NotFound("user not found")
		}

		var existing Follow
		err := tx.First(&existing, "follower_id = ? AND followee_id = ?", actorID, targetID).Error
		switch {
		case err == nil:
			// unfollow: remove the edge, decrement both sides
			if err := tx.Delete(&Follow{}, "follower_id = ? AND followee_id = ?", actorID, targetID).Error; err != nil {
				return err
			}
			if err := bumpCounts(tx, actorID, targetID, -1); err != nil {
				return err
			}
			following = false
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(&Follow{FollowerID: actorID, FolloweeID: targetID}).Error; err != nil {
				return err
			}
			if err := bumpCounts(tx, actorID, targetID, 1); err != nil {
				return err
			}
			following = true
		default:
			return err
		}
		return nil
	})

	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return false, err
		}
		return false, apperr.Internal("toggle follow", err)
	}
	return following, nil
}

func bumpCounts(tx *gorm.DB, actorID, targetID string, delta int) error {
	if err := tx.Model(&user.User{}).Where("id = ?", actorID).
		Update("following_count", gorm.Expr("following_count + ?", delta)).Error; err != nil {
		return err
	}
	return tx.Model(&user.User{}).Where("id = ?", targetID).
		Update("followers_count", gorm.Expr("followers_count + ?", delta)).Error
}

func (r *repository) IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&count).Error
	if err != nil {
		return false, apperr.Internal("check follow", err)
	}
	return count > 0, nil
}
