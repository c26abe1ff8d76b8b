package repository

import (
	"context"

	"orbit/internal/models"
	"orbit/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowRepository persists the directed follow relation and keeps both
// sides' counters in step with it.
type FollowRepository interface {
	// Toggle follows or unfollows depending on the current state and
	// reports the resulting state. It is idempotent under races: a lost
	// insert race is a no-op "already followed", a lost delete race a
	// no-op "already unfollowed"; counters move only when a row actually
	// changed.
	Toggle(ctx context.Context, followerID, followingID uint) (followed bool, err error)
	IsFollowing(ctx context.Context, followerID, followingID uint) (bool, error)
	ListFollowers(ctx context.Context, userID uint, limit, offset int) ([]models.User, error)
	ListFollowing(ctx context.Context, userID uint, limit, offset int) ([]models.User, error)
}

type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository creates a new follow repository.
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) Toggle(ctx context.Context, followerID, followingID uint) (bool, error) {
	defer observability.TrackQuery("toggle", "follows")()

	var followed bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.Follow{}).
			Where("follower_id = ? AND following_id = ?", followerID, followingID).
			Count(&existing).Error; err != nil {
			return err
		}

		if existing > 0 {
			followed = false
			res := tx.Where("follower_id = ? AND following_id = ?", followerID, followingID).
				Delete(&models.Follow{})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				// A concurrent request already unfollowed.
				return nil
			}
			if err := tx.Model(&models.User{}).Where("id = ?", followingID).
				UpdateColumn("followers_count", gorm.Expr("followers_count - 1")).Error; err != nil {
				return err
			}
			return tx.Model(&models.User{}).Where("id = ?", followerID).
				UpdateColumn("following_count", gorm.Expr("following_count - 1")).Error
		}

		followed = true
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.Follow{FollowerID: followerID, FollowingID: followingID})
		if res.Error != nil {
			if isUniqueViolation(res.Error) {
				// A concurrent request already followed.
				return nil
			}
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		if err := tx.Model(&models.User{}).Where("id = ?", followingID).
			UpdateColumn("followers_count", gorm.Expr("followers_count + 1")).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", followerID).
			UpdateColumn("following_count", gorm.Expr("following_count + 1")).Error
	})
	return followed, err
}

func (r *followRepository) IsFollowing(ctx context.Context, followerID, followingID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	return count > 0, err
}

func (r *followRepository) ListFollowers(ctx context.Context, userID uint, limit, offset int) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.following_id = ?", userID).
		Order("follows.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error
	return users, err
}

func (r *followRepository) ListFollowing(ctx context.Context, userID uint, limit, offset int) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Joins("JOIN follows ON follows.following_id = users.id").
		Where("follows.follower_id = ?", userID).
		Order("follows.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error
	return users, err
}
