package service

import (
	"context"
	"fmt"

	"orbit/internal/models"
	"orbit/internal/repository"
)

type EngagementService struct {
	engagementRepo repository.EngagementRepository
	postRepo       repository.PostRepository
}

type CreateCommentInput struct {
	UserID   uint
	PostID   uint
	Content  string
	ParentID *uint
}

func NewEngagementService(engagementRepo repository.EngagementRepository, postRepo repository.PostRepository) *EngagementService {
	return &EngagementService{engagementRepo: engagementRepo, postRepo: postRepo}
}

// LikePost records a like. Post existence is checked first (404), then the
// fast-path duplicate check (409); the unique index catches anything that
// slips between the check and the insert.
func (s *EngagementService) LikePost(ctx context.Context, userID, postID uint) (*models.Post, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	liked, err := s.engagementRepo.HasLiked(ctx, userID, postID)
	if err != nil {
		return nil, err
	}
	if liked {
		return nil, models.NewConflictError("Post already liked")
	}
	if err := s.engagementRepo.Like(ctx, userID, postID); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, postID)
}

// SharePost mirrors LikePost. The tier gate runs in middleware before this
// is reached.
func (s *EngagementService) SharePost(ctx context.Context, userID, postID uint) (*models.Post, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	shared, err := s.engagementRepo.HasShared(ctx, userID, postID)
	if err != nil {
		return nil, err
	}
	if shared {
		return nil, models.NewConflictError("Post already shared")
	}
	if err := s.engagementRepo.Share(ctx, userID, postID); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, postID)
}

// CreateComment validates content and, when a parent is given, verifies the
// parent exists under the same post so reply trees never span posts.
func (s *EngagementService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > models.MaxCommentContentLen {
		return nil, models.NewValidationError(
			fmt.Sprintf("Content too long (max %d characters)", models.MaxCommentContentLen))
	}

	if _, err := s.postRepo.GetByID(ctx, in.PostID); err != nil {
		return nil, err
	}

	if in.ParentID != nil {
		parent, err := s.engagementRepo.GetComment(ctx, *in.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.PostID != in.PostID {
			return nil, models.NewNotFoundError("Comment", *in.ParentID)
		}
	}

	comment := &models.Comment{
		PostID:   in.PostID,
		UserID:   in.UserID,
		Content:  in.Content,
		ParentID: in.ParentID,
	}
	if err := s.engagementRepo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}
