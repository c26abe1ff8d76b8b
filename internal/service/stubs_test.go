package service

import (
	"context"

	"orbit/internal/models"
	"orbit/internal/repository"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn  func(context.Context, *models.Post) error
	getByIDFn func(context.Context, uint) (*models.Post, error)
	listFn    func(context.Context, repository.ListFilter) ([]*models.Post, error)
	updateFn  func(context.Context, uint, repository.PostUpdate) (*models.Post, error)
	deleteFn  func(context.Context, uint) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) List(ctx context.Context, filter repository.ListFilter) ([]*models.Post, error) {
	return s.listFn(ctx, filter)
}
func (s *postRepoStub) Update(ctx context.Context, id uint, update repository.PostUpdate) (*models.Post, error) {
	return s.updateFn(ctx, id, update)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn: func(_ context.Context, p *models.Post) error {
			p.ID = 1
			return nil
		},
		getByIDFn: func(_ context.Context, id uint) (*models.Post, error) {
			return &models.Post{ID: id, UserID: 1, Visibility: models.VisibilityPublic}, nil
		},
		listFn: func(_ context.Context, _ repository.ListFilter) ([]*models.Post, error) {
			return nil, nil
		},
		updateFn: func(_ context.Context, id uint, _ repository.PostUpdate) (*models.Post, error) {
			return &models.Post{ID: id}, nil
		},
		deleteFn: func(_ context.Context, _ uint) error { return nil },
	}
}

// engagementRepoStub is a stub for repository.EngagementRepository.
type engagementRepoStub struct {
	likeFn          func(context.Context, uint, uint) error
	hasLikedFn      func(context.Context, uint, uint) (bool, error)
	shareFn         func(context.Context, uint, uint) error
	hasSharedFn     func(context.Context, uint, uint) (bool, error)
	createCommentFn func(context.Context, *models.Comment) error
	getCommentFn    func(context.Context, uint) (*models.Comment, error)
}

func (s *engagementRepoStub) Like(ctx context.Context, userID, postID uint) error {
	return s.likeFn(ctx, userID, postID)
}
func (s *engagementRepoStub) HasLiked(ctx context.Context, userID, postID uint) (bool, error) {
	return s.hasLikedFn(ctx, userID, postID)
}
func (s *engagementRepoStub) Share(ctx context.Context, userID, postID uint) error {
	return s.shareFn(ctx, userID, postID)
}
func (s *engagementRepoStub) HasShared(ctx context.Context, userID, postID uint) (bool, error) {
	return s.hasSharedFn(ctx, userID, postID)
}
func (s *engagementRepoStub) CreateComment(ctx context.Context, comment *models.Comment) error {
	return s.createCommentFn(ctx, comment)
}
func (s *engagementRepoStub) GetComment(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getCommentFn(ctx, id)
}

func noopEngagementRepo() *engagementRepoStub {
	return &engagementRepoStub{
		likeFn:      func(_ context.Context, _, _ uint) error { return nil },
		hasLikedFn:  func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		shareFn:     func(_ context.Context, _, _ uint) error { return nil },
		hasSharedFn: func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		createCommentFn: func(_ context.Context, c *models.Comment) error {
			c.ID = 1
			return nil
		},
		getCommentFn: func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, PostID: 1}, nil
		},
	}
}

// followRepoStub is a stub for repository.FollowRepository.
type followRepoStub struct {
	toggleFn        func(context.Context, uint, uint) (bool, error)
	isFollowingFn   func(context.Context, uint, uint) (bool, error)
	listFollowersFn func(context.Context, uint, int, int) ([]models.User, error)
	listFollowingFn func(context.Context, uint, int, int) ([]models.User, error)
}

func (s *followRepoStub) Toggle(ctx context.Context, followerID, followingID uint) (bool, error) {
	return s.toggleFn(ctx, followerID, followingID)
}
func (s *followRepoStub) IsFollowing(ctx context.Context, followerID, followingID uint) (bool, error) {
	return s.isFollowingFn(ctx, followerID, followingID)
}
func (s *followRepoStub) ListFollowers(ctx context.Context, userID uint, limit, offset int) ([]models.User, error) {
	return s.listFollowersFn(ctx, userID, limit, offset)
}
func (s *followRepoStub) ListFollowing(ctx context.Context, userID uint, limit, offset int) ([]models.User, error) {
	return s.listFollowingFn(ctx, userID, limit, offset)
}

func noopFollowRepo() *followRepoStub {
	return &followRepoStub{
		toggleFn:        func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		isFollowingFn:   func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		listFollowersFn: func(_ context.Context, _ uint, _, _ int) ([]models.User, error) { return nil, nil },
		listFollowingFn: func(_ context.Context, _ uint, _, _ int) ([]models.User, error) { return nil, nil },
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	createFn        func(context.Context, *models.User) error
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByEmailFn    func(context.Context, string) (*models.User, error)
	updateProfileFn func(context.Context, uint, repository.ProfileUpdate) (*models.User, error)
	deleteFn        func(context.Context, uint) error
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) UpdateProfile(ctx context.Context, id uint, update repository.ProfileUpdate) (*models.User, error) {
	return s.updateProfileFn(ctx, id, update)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn: func(_ context.Context, u *models.User) error {
			u.ID = 1
			return nil
		},
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Username: "stub"}, nil
		},
		getByEmailFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		updateProfileFn: func(_ context.Context, id uint, _ repository.ProfileUpdate) (*models.User, error) {
			return &models.User{ID: id}, nil
		},
		deleteFn: func(_ context.Context, _ uint) error { return nil },
	}
}
