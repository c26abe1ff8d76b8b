// Package service contains the application's business logic, sitting
// between HTTP handlers and repositories. Services validate input, enforce
// ownership and precondition ordering (existence before ownership before
// uniqueness), and leave atomicity to the repository layer.
package service

import (
	"context"
	"fmt"

	"orbit/internal/models"
	"orbit/internal/repository"
)

type PostService struct {
	postRepo   repository.PostRepository
	followRepo repository.FollowRepository
}

type CreatePostInput struct {
	UserID     uint
	Content    string
	MediaURL   string
	MediaType  string
	Visibility string
	// VisibilitySet distinguishes an omitted visibility (defaults to
	// public) from an explicit invalid one (rejected).
	VisibilitySet bool
}

type ListPostsInput struct {
	Limit      int
	Offset     int
	Sort       string
	Visibility string
	UserID     uint
	ViewerID   uint
}

type UpdatePostInput struct {
	RequesterID uint
	PostID      uint
	Update      repository.PostUpdate
}

type DeletePostInput struct {
	RequesterID   uint
	RequesterRole models.UserRole
	PostID        uint
}

func NewPostService(postRepo repository.PostRepository, followRepo repository.FollowRepository) *PostService {
	return &PostService{postRepo: postRepo, followRepo: followRepo}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > models.MaxPostContentLen {
		return nil, models.NewValidationError(
			fmt.Sprintf("Content too long (max %d characters)", models.MaxPostContentLen))
	}

	visibility := models.VisibilityPublic
	if in.VisibilitySet {
		visibility = models.PostVisibility(in.Visibility)
		if !visibility.Valid() {
			return nil, models.NewValidationError("Invalid visibility")
		}
	}

	var mediaType models.MediaType
	if in.MediaType != "" {
		mediaType = models.MediaType(in.MediaType)
		if !mediaType.Valid() {
			return nil, models.NewValidationError("Invalid media_type")
		}
	}

	post := &models.Post{
		UserID:     in.UserID,
		Content:    in.Content,
		MediaURL:   in.MediaURL,
		MediaType:  mediaType,
		Visibility: visibility,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

// GetPost returns the post if the viewer may read it. Non-public posts are
// reported as absent to viewers without access, so existence is not leaked.
func (s *PostService) GetPost(ctx context.Context, id uint, viewerID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch post.Visibility {
	case models.VisibilityPrivate:
		if post.UserID != viewerID {
			return nil, models.NewNotFoundError("Post", id)
		}
	case models.VisibilityFollowersOnly:
		if post.UserID != viewerID {
			if viewerID == 0 {
				return nil, models.NewNotFoundError("Post", id)
			}
			following, err := s.followRepo.IsFollowing(ctx, viewerID, post.UserID)
			if err != nil {
				return nil, err
			}
			if !following {
				return nil, models.NewNotFoundError("Post", id)
			}
		}
	}
	return post, nil
}

func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) ([]*models.Post, error) {
	visibility := models.VisibilityPublic
	if in.Visibility != "" {
		visibility = models.PostVisibility(in.Visibility)
		if !visibility.Valid() {
			return nil, models.NewValidationError("Invalid visibility")
		}
	}
	if visibility != models.VisibilityPublic && in.ViewerID == 0 {
		return nil, models.NewUnauthorizedError("Authentication required for non-public listings")
	}

	return s.postRepo.List(ctx, repository.ListFilter{
		Limit:      in.Limit,
		Offset:     in.Offset,
		Sort:       in.Sort,
		Visibility: visibility,
		UserID:     in.UserID,
		ViewerID:   in.ViewerID,
	})
}

// UpdatePost applies a partial update. Existence is checked before
// ownership so an unowned request on a missing post yields 404, not 403.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if post.UserID != in.RequesterID {
		return nil, models.NewForbiddenError("You can only update your own posts")
	}
	if in.Update.Empty() {
		return nil, models.NewValidationError("No recognized fields to update")
	}

	if in.Update.Content != nil {
		if *in.Update.Content == "" {
			return nil, models.NewValidationError("Content cannot be empty")
		}
		if len(*in.Update.Content) > models.MaxPostContentLen {
			return nil, models.NewValidationError(
				fmt.Sprintf("Content too long (max %d characters)", models.MaxPostContentLen))
		}
	}
	if in.Update.Visibility != nil && !in.Update.Visibility.Valid() {
		return nil, models.NewValidationError("Invalid visibility")
	}
	if in.Update.MediaType != nil && *in.Update.MediaType != "" && !in.Update.MediaType.Valid() {
		return nil, models.NewValidationError("Invalid media_type")
	}

	return s.postRepo.Update(ctx, in.PostID, in.Update)
}

// DeletePost removes a post. Owners may always delete; admins may delete
// anyone's post. Existence is checked before ownership.
func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return err
	}
	if post.UserID != in.RequesterID && in.RequesterRole != models.RoleAdmin {
		return models.NewForbiddenError("You can only delete your own posts")
	}
	return s.postRepo.Delete(ctx, in.PostID)
}
