package repository

import (
	"context"

	"orbit/internal/models"
	"orbit/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EngagementRepository persists likes, shares, and comments. Insert and
// counter increment are one transaction; the composite unique indexes are
// the authority on duplicates, surfaced as 409s.
type EngagementRepository interface {
	Like(ctx context.Context, userID, postID uint) error
	HasLiked(ctx context.Context, userID, postID uint) (bool, error)
	Share(ctx context.Context, userID, postID uint) error
	HasShared(ctx context.Context, userID, postID uint) (bool, error)
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetComment(ctx context.Context, id uint) (*models.Comment, error)
}

type engagementRepository struct {
	db *gorm.DB
}

// NewEngagementRepository creates a new engagement repository.
func NewEngagementRepository(db *gorm.DB) EngagementRepository {
	return &engagementRepository{db: db}
}

// Like inserts the (post, user) like row and increments likes_count.
// ON CONFLICT DO NOTHING keeps the insert race-free: a concurrent duplicate
// affects zero rows and is reported as a conflict without touching the
// counter.
func (r *engagementRepository) Like(ctx context.Context, userID, postID uint) error {
	defer observability.TrackQuery("create", "likes")()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.Like{PostID: postID, UserID: userID})
		if res.Error != nil {
			if isUniqueViolation(res.Error) {
				observability.MutationConflicts.WithLabelValues("likes").Inc()
				return models.NewConflictError("Post already liked")
			}
			return res.Error
		}
		if res.RowsAffected == 0 {
			observability.MutationConflicts.WithLabelValues("likes").Inc()
			return models.NewConflictError("Post already liked")
		}
		return tx.Model(&models.Post{}).Where("id = ?", postID).
			UpdateColumn("likes_count", gorm.Expr("likes_count + 1")).Error
	})
}

func (r *engagementRepository) HasLiked(ctx context.Context, userID, postID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).Count(&count).Error
	return count > 0, err
}

// Share mirrors Like for the shares relation.
func (r *engagementRepository) Share(ctx context.Context, userID, postID uint) error {
	defer observability.TrackQuery("create", "shares")()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.Share{PostID: postID, UserID: userID})
		if res.Error != nil {
			if isUniqueViolation(res.Error) {
				observability.MutationConflicts.WithLabelValues("shares").Inc()
				return models.NewConflictError("Post already shared")
			}
			return res.Error
		}
		if res.RowsAffected == 0 {
			observability.MutationConflicts.WithLabelValues("shares").Inc()
			return models.NewConflictError("Post already shared")
		}
		return tx.Model(&models.Post{}).Where("id = ?", postID).
			UpdateColumn("shares_count", gorm.Expr("shares_count + 1")).Error
	})
}

func (r *engagementRepository) HasShared(ctx context.Context, userID, postID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Share{}).
		Where("user_id = ? AND post_id = ?", userID, postID).Count(&count).Error
	return count > 0, err
}

// CreateComment inserts the comment and increments the post's
// comments_count in one transaction. Parent validation happens in the
// service layer before this call.
func (r *engagementRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	defer observability.TrackQuery("create", "comments")()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).Where("id = ?", comment.PostID).
			UpdateColumn("comments_count", gorm.Expr("comments_count + 1")).Error
	})
}

func (r *engagementRepository) GetComment(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		return nil, translateNotFound(err, "Comment", id)
	}
	return &comment, nil
}
