package service

import (
	"context"
	"strings"
	"testing"

	"orbit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikePost_Precedence(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	// Missing post: 404 before any uniqueness check.
	postRepo := noopPostRepo()
	postRepo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		return nil, models.NewNotFoundError("Post", id)
	}
	svc := NewEngagementService(noopEngagementRepo(), postRepo)
	_, err := svc.LikePost(ctx, 1, 9)
	assertCode(t, err, models.CodeNotFound)

	// Already liked: 409 from the fast-path read.
	engRepo := noopEngagementRepo()
	engRepo.hasLikedFn = func(_ context.Context, _, _ uint) (bool, error) { return true, nil }
	svc = NewEngagementService(engRepo, noopPostRepo())
	_, err = svc.LikePost(ctx, 1, 9)
	assertCode(t, err, models.CodeConflict)

	// The store-level constraint still backs up the fast path: a conflict
	// from the insert itself surfaces as the same 409.
	engRepo = noopEngagementRepo()
	engRepo.likeFn = func(_ context.Context, _, _ uint) error {
		return models.NewConflictError("Post already liked")
	}
	svc = NewEngagementService(engRepo, noopPostRepo())
	_, err = svc.LikePost(ctx, 1, 9)
	assertCode(t, err, models.CodeConflict)
}

func TestLikePost_ReturnsFreshCounters(t *testing.T) {
	t.Parallel()

	postRepo := noopPostRepo()
	calls := 0
	postRepo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		calls++
		likes := 0
		if calls > 1 {
			likes = 1
		}
		return &models.Post{ID: id, UserID: 2, LikesCount: likes}, nil
	}
	svc := NewEngagementService(noopEngagementRepo(), postRepo)

	post, err := svc.LikePost(context.Background(), 1, 9)
	require.NoError(t, err)
	assert.Equal(t, 1, post.LikesCount)
}

func TestSharePost_Precedence(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	postRepo := noopPostRepo()
	postRepo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		return nil, models.NewNotFoundError("Post", id)
	}
	svc := NewEngagementService(noopEngagementRepo(), postRepo)
	_, err := svc.SharePost(ctx, 1, 9)
	assertCode(t, err, models.CodeNotFound)

	engRepo := noopEngagementRepo()
	engRepo.hasSharedFn = func(_ context.Context, _, _ uint) (bool, error) { return true, nil }
	svc = NewEngagementService(engRepo, noopPostRepo())
	_, err = svc.SharePost(ctx, 1, 9)
	assertCode(t, err, models.CodeConflict)

	svc = NewEngagementService(noopEngagementRepo(), noopPostRepo())
	_, err = svc.SharePost(ctx, 1, 9)
	assert.NoError(t, err)
}

func TestCreateComment_Validation(t *testing.T) {
	t.Parallel()
	svc := NewEngagementService(noopEngagementRepo(), noopPostRepo())
	ctx := context.Background()

	_, err := svc.CreateComment(ctx, CreateCommentInput{UserID: 1, PostID: 2})
	assertCode(t, err, models.CodeValidation)

	_, err = svc.CreateComment(ctx, CreateCommentInput{
		UserID: 1, PostID: 2, Content: strings.Repeat("x", models.MaxCommentContentLen+1),
	})
	assertCode(t, err, models.CodeValidation)
}

func TestCreateComment_ParentMustShareThePost(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	parentID := uint(4)

	// Parent on another post: 404, no cross-post reply trees.
	engRepo := noopEngagementRepo()
	engRepo.getCommentFn = func(_ context.Context, id uint) (*models.Comment, error) {
		return &models.Comment{ID: id, PostID: 99}, nil
	}
	svc := NewEngagementService(engRepo, noopPostRepo())
	_, err := svc.CreateComment(ctx, CreateCommentInput{UserID: 1, PostID: 2, Content: "hi", ParentID: &parentID})
	assertCode(t, err, models.CodeNotFound)

	// Missing parent: 404.
	engRepo = noopEngagementRepo()
	engRepo.getCommentFn = func(_ context.Context, id uint) (*models.Comment, error) {
		return nil, models.NewNotFoundError("Comment", id)
	}
	svc = NewEngagementService(engRepo, noopPostRepo())
	_, err = svc.CreateComment(ctx, CreateCommentInput{UserID: 1, PostID: 2, Content: "hi", ParentID: &parentID})
	assertCode(t, err, models.CodeNotFound)

	// Parent on the same post: accepted.
	engRepo = noopEngagementRepo()
	engRepo.getCommentFn = func(_ context.Context, id uint) (*models.Comment, error) {
		return &models.Comment{ID: id, PostID: 2}, nil
	}
	svc = NewEngagementService(engRepo, noopPostRepo())
	comment, err := svc.CreateComment(ctx, CreateCommentInput{UserID: 1, PostID: 2, Content: "hi", ParentID: &parentID})
	require.NoError(t, err)
	assert.Equal(t, &parentID, comment.ParentID)
}

func TestCreateComment_MissingPost(t *testing.T) {
	t.Parallel()

	postRepo := noopPostRepo()
	postRepo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		return nil, models.NewNotFoundError("Post", id)
	}
	svc := NewEngagementService(noopEngagementRepo(), postRepo)

	_, err := svc.CreateComment(context.Background(), CreateCommentInput{UserID: 1, PostID: 2, Content: "hi"})
	assertCode(t, err, models.CodeNotFound)
}
