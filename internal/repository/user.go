package repository

import (
	"context"
	"errors"

	"orbit/internal/models"
	"orbit/internal/observability"

	"gorm.io/gorm"
)

// ProfileUpdate is a typed partial update: only non-nil fields are written,
// each as a parameterized assignment in a single statement.
type ProfileUpdate struct {
	Username    *string
	DisplayName *string
	Bio         *string
	Avatar      *string
	Location    *string
	Website     *string
}

// Empty reports whether no field is present.
func (u ProfileUpdate) Empty() bool {
	return u.Username == nil && u.DisplayName == nil && u.Bio == nil &&
		u.Avatar == nil && u.Location == nil && u.Website == nil
}

func (u ProfileUpdate) assignments() map[string]interface{} {
	set := map[string]interface{}{}
	if u.Username != nil {
		set["username"] = *u.Username
	}
	if u.DisplayName != nil {
		set["display_name"] = *u.DisplayName
	}
	if u.Bio != nil {
		set["bio"] = *u.Bio
	}
	if u.Avatar != nil {
		set["avatar"] = *u.Avatar
	}
	if u.Location != nil {
		set["location"] = *u.Location
	}
	if u.Website != nil {
		set["website"] = *u.Website
	}
	return set
}

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, id uint, update ProfileUpdate) (*models.User, error)
	Delete(ctx context.Context, id uint) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	defer observability.TrackQuery("create", "users")()
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			observability.MutationConflicts.WithLabelValues("users").Inc()
			return models.NewConflictError("Email or username already taken")
		}
		return err
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translateNotFound(err, "User", id)
	}
	return &user, nil
}

// GetByEmail returns (nil, nil) when no user has the given email, so login
// can distinguish "unknown user" from a store failure.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, id uint, update ProfileUpdate) (*models.User, error) {
	defer observability.TrackQuery("update", "users")()
	if update.Empty() {
		return nil, models.NewValidationError("No recognized fields to update")
	}

	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(update.assignments())
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			observability.MutationConflicts.WithLabelValues("users").Inc()
			return nil, models.NewConflictError("Username already taken")
		}
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, models.NewNotFoundError("User", id)
	}

	return r.GetByID(ctx, id)
}

// Delete removes the user and all owned content in one transaction,
// adjusting every surviving denormalized counter: likes/comments/shares the
// user placed on other users' posts, and follow edges in both directions.
func (r *userRepository) Delete(ctx context.Context, id uint) error {
	defer observability.TrackQuery("delete", "users")()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, id).Error; err != nil {
			return translateNotFound(err, "User", id)
		}

		// Drop the user's own posts first so later counter fixups only see
		// engagement rows that point at surviving posts.
		var ownPostIDs []uint
		if err := tx.Model(&models.Post{}).Where("user_id = ?", id).Pluck("id", &ownPostIDs).Error; err != nil {
			return err
		}
		if len(ownPostIDs) > 0 {
			for _, m := range []interface{}{&models.Comment{}, &models.Like{}, &models.Share{}} {
				if err := tx.Where("post_id IN ?", ownPostIDs).Delete(m).Error; err != nil {
					return err
				}
			}
			if err := tx.Where("id IN ?", ownPostIDs).Delete(&models.Post{}).Error; err != nil {
				return err
			}
		}

		// Likes and shares the user placed on surviving posts.
		if err := tx.Exec(
			`UPDATE posts SET likes_count = likes_count - 1
			 WHERE id IN (SELECT post_id FROM likes WHERE user_id = ?)`, id).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Exec(
			`UPDATE posts SET shares_count = shares_count - 1
			 WHERE id IN (SELECT post_id FROM shares WHERE user_id = ?)`, id).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Share{}).Error; err != nil {
			return err
		}

		// The user's comments on surviving posts, including reply subtrees
		// rooted at them.
		var commentRoots []uint
		if err := tx.Model(&models.Comment{}).Where("user_id = ?", id).Pluck("id", &commentRoots).Error; err != nil {
			return err
		}
		if err := deleteCommentTrees(tx, commentRoots); err != nil {
			return err
		}

		// Follow edges in both directions adjust the surviving side.
		if err := tx.Exec(
			`UPDATE users SET followers_count = followers_count - 1
			 WHERE id IN (SELECT following_id FROM follows WHERE follower_id = ?)`, id).Error; err != nil {
			return err
		}
		if err := tx.Exec(
			`UPDATE users SET following_count = following_count - 1
			 WHERE id IN (SELECT follower_id FROM follows WHERE following_id = ?)`, id).Error; err != nil {
			return err
		}
		if err := tx.Where("follower_id = ? OR following_id = ?", id, id).Delete(&models.Follow{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.User{}, id).Error
	})
}

// deleteCommentTrees deletes the given comments and all their descendant
// replies level by level, decrementing each affected post's comments_count
// within the caller's transaction.
func deleteCommentTrees(tx *gorm.DB, roots []uint) error {
	level := roots
	for len(level) > 0 {
		var next []uint
		if err := tx.Model(&models.Comment{}).Where("parent_id IN ?", level).Pluck("id", &next).Error; err != nil {
			return err
		}
		if err := tx.Exec(
			`UPDATE posts SET comments_count = comments_count -
			   (SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id AND comments.id IN ?)
			 WHERE id IN (SELECT DISTINCT post_id FROM comments WHERE id IN ?)`,
			level, level).Error; err != nil {
			return err
		}
		if err := tx.Where("id IN ?", level).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		level = next
	}
	return nil
}
