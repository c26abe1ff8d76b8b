package repository

import (
	"context"

	"orbit/internal/models"
	"orbit/internal/observability"

	"gorm.io/gorm"
)

// Sort modes accepted by List.
const (
	SortRecent   = "recent"
	SortPopular  = "popular"
	SortTrending = "trending"
)

// ListFilter narrows and orders a post listing.
type ListFilter struct {
	Limit      int
	Offset     int
	Sort       string
	Visibility models.PostVisibility
	UserID     uint // restrict to this author when non-zero
	ViewerID   uint // authenticated viewer, 0 for anonymous
}

// PostUpdate is a typed partial update for posts: only non-nil fields are
// written, each as a parameterized assignment in a single statement.
type PostUpdate struct {
	Content    *string
	MediaURL   *string
	MediaType  *models.MediaType
	Visibility *models.PostVisibility
}

// Empty reports whether no field is present.
func (u PostUpdate) Empty() bool {
	return u.Content == nil && u.MediaURL == nil && u.MediaType == nil && u.Visibility == nil
}

func (u PostUpdate) assignments() map[string]interface{} {
	set := map[string]interface{}{}
	if u.Content != nil {
		set["content"] = *u.Content
	}
	if u.MediaURL != nil {
		set["media_url"] = *u.MediaURL
	}
	if u.MediaType != nil {
		set["media_type"] = *u.MediaType
	}
	if u.Visibility != nil {
		set["visibility"] = *u.Visibility
	}
	return set
}

// PostRepository defines the interface for post data operations.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	List(ctx context.Context, filter ListFilter) ([]*models.Post, error)
	Update(ctx context.Context, id uint, update PostUpdate) (*models.Post, error)
	Delete(ctx context.Context, id uint) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// Create inserts the post and increments the owner's posts_count in one
// transaction.
func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	defer observability.TrackQuery("create", "posts")()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(post).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", post.UserID).
			UpdateColumn("posts_count", gorm.Expr("posts_count + 1")).Error
	})
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Preload("User").First(&post, id).Error; err != nil {
		return nil, translateNotFound(err, "Post", id)
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, filter ListFilter) ([]*models.Post, error) {
	defer observability.TrackQuery("list", "posts")()

	q := r.db.WithContext(ctx).Model(&models.Post{}).Preload("User")

	switch filter.Visibility {
	case models.VisibilityPrivate:
		// Only the owner sees private posts.
		q = q.Where("visibility = ? AND user_id = ?", models.VisibilityPrivate, filter.ViewerID)
	case models.VisibilityFollowersOnly:
		q = q.Where(
			"visibility = ? AND (user_id = ? OR user_id IN (SELECT following_id FROM follows WHERE follower_id = ?))",
			models.VisibilityFollowersOnly, filter.ViewerID, filter.ViewerID)
	default:
		q = q.Where("visibility = ?", models.VisibilityPublic)
	}

	if filter.UserID != 0 {
		q = q.Where("user_id = ?", filter.UserID)
	}

	switch filter.Sort {
	case SortPopular:
		q = q.Order("likes_count DESC, created_at DESC")
	case SortTrending:
		q = q.Order("(likes_count + comments_count + shares_count) DESC, created_at DESC")
	default: // SortRecent and anything unrecognized
		q = q.Order("created_at DESC")
	}

	var posts []*models.Post
	err := q.Limit(filter.Limit).Offset(filter.Offset).Find(&posts).Error
	return posts, err
}

func (r *postRepository) Update(ctx context.Context, id uint, update PostUpdate) (*models.Post, error) {
	defer observability.TrackQuery("update", "posts")()
	if update.Empty() {
		return nil, models.NewValidationError("No recognized fields to update")
	}

	res := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).Updates(update.assignments())
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, models.NewNotFoundError("Post", id)
	}

	return r.GetByID(ctx, id)
}

// Delete removes the post, its comments/likes/shares, and decrements the
// owner's posts_count, all in one transaction.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	defer observability.TrackQuery("delete", "posts")()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, id).Error; err != nil {
			return translateNotFound(err, "Post", id)
		}

		for _, m := range []interface{}{&models.Comment{}, &models.Like{}, &models.Share{}} {
			if err := tx.Where("post_id = ?", id).Delete(m).Error; err != nil {
				return err
			}
		}
		if err := tx.Delete(&models.Post{}, id).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", post.UserID).
			UpdateColumn("posts_count", gorm.Expr("posts_count - 1")).Error
	})
}
