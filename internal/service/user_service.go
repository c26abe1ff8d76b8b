package service

import (
	"context"

	"orbit/internal/models"
	"orbit/internal/repository"
	"orbit/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
}

type UpdateProfileInput struct {
	UserID uint
	Update repository.ProfileUpdate
}

type DeleteAccountInput struct {
	UserID   uint
	Password string
}

func NewUserService(userRepo repository.UserRepository, followRepo repository.FollowRepository) *UserService {
	return &UserService{userRepo: userRepo, followRepo: followRepo}
}

func (s *UserService) GetProfile(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	if in.Update.Empty() {
		return nil, models.NewValidationError("No recognized fields to update")
	}
	if in.Update.Username != nil {
		if err := validation.ValidateUsername(*in.Update.Username); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
	}
	return s.userRepo.UpdateProfile(ctx, in.UserID, in.Update)
}

// ToggleFollow follows the target if not currently followed, otherwise
// unfollows. The returned flag reports the resulting state.
func (s *UserService) ToggleFollow(ctx context.Context, followerID, targetID uint) (followed bool, err error) {
	if followerID == targetID {
		return false, models.NewValidationError("You cannot follow yourself")
	}
	if _, err := s.userRepo.GetByID(ctx, targetID); err != nil {
		return false, err
	}
	return s.followRepo.Toggle(ctx, followerID, targetID)
}

func (s *UserService) ListFollowers(ctx context.Context, userID uint, limit, offset int) ([]models.User, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.followRepo.ListFollowers(ctx, userID, limit, offset)
}

func (s *UserService) ListFollowing(ctx context.Context, userID uint, limit, offset int) ([]models.User, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.followRepo.ListFollowing(ctx, userID, limit, offset)
}

// DeleteAccount re-verifies the caller's password before the cascading
// delete. A valid token alone is not enough for this operation.
func (s *UserService) DeleteAccount(ctx context.Context, in DeleteAccountInput) error {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		return models.NewUnauthorizedError("Password is incorrect")
	}
	return s.userRepo.Delete(ctx, in.UserID)
}
