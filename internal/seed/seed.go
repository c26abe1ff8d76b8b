// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"

	"orbit/internal/models"
	"orbit/internal/repository"

	"gorm.io/gorm"
)

// Options control how much data the seeder generates.
type Options struct {
	Users int
	Posts int
}

// Seeder populates the database through the repository layer so every
// denormalized counter stays consistent with its relation.
type Seeder struct {
	db             *gorm.DB
	factory        *Factory
	userRepo       repository.UserRepository
	postRepo       repository.PostRepository
	engagementRepo repository.EngagementRepository
	followRepo     repository.FollowRepository
}

// NewSeeder creates a Seeder bound to the provided GORM DB.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{
		db:             db,
		factory:        NewFactory(),
		userRepo:       repository.NewUserRepository(db),
		postRepo:       repository.NewPostRepository(db),
		engagementRepo: repository.NewEngagementRepository(db),
		followRepo:     repository.NewFollowRepository(db),
	}
}

// ClearAll removes all seeded data. Child tables go first so foreign keys
// never dangle mid-wipe.
func (s *Seeder) ClearAll() error {
	for _, m := range []interface{}{
		&models.Comment{}, &models.Like{}, &models.Share{},
		&models.Follow{}, &models.Post{}, &models.User{},
	} {
		if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(m).Error; err != nil {
			return err
		}
	}
	log.Println("cleared existing data")
	return nil
}

// Run generates users across all tiers, a follow mesh, posts, and
// engagement on those posts.
func (s *Seeder) Run(opts Options) error {
	ctx := context.Background()

	users, err := s.seedUsers(ctx, opts.Users)
	if err != nil {
		return fmt.Errorf("seeding users: %w", err)
	}
	if err := s.seedFollows(ctx, users); err != nil {
		return fmt.Errorf("seeding follows: %w", err)
	}
	posts, err := s.seedPosts(ctx, users, opts.Posts)
	if err != nil {
		return fmt.Errorf("seeding posts: %w", err)
	}
	if err := s.seedEngagement(ctx, users, posts); err != nil {
		return fmt.Errorf("seeding engagement: %w", err)
	}

	log.Printf("seeded %d users and %d posts", len(users), len(posts))
	return nil
}

func (s *Seeder) seedUsers(ctx context.Context, count int) ([]*models.User, error) {
	if count < 3 {
		count = 3
	}
	users := make([]*models.User, 0, count)
	for i := 0; i < count; i++ {
		user := s.factory.BuildUser()
		// Cycle tiers so every level is represented; the first user is an
		// admin for moderation flows.
		switch i % 3 {
		case 0:
			user.Tier = models.TierFree
		case 1:
			user.Tier = models.TierPremium
		case 2:
			user.Tier = models.TierEnterprise
		}
		if i == 0 {
			user.Role = models.RoleAdmin
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			var appErr *models.AppError
			if errors.As(err, &appErr) && appErr.Code == models.CodeConflict {
				continue // generated duplicate username, skip
			}
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func (s *Seeder) seedFollows(ctx context.Context, users []*models.User) error {
	for _, follower := range users {
		targets := rand.Intn(len(users)/2 + 1)
		for i := 0; i < targets; i++ {
			target := users[rand.Intn(len(users))]
			if target.ID == follower.ID {
				continue
			}
			// Toggle is idempotent; re-following an already-followed user
			// just flips it back, which is harmless noise for demo data.
			if _, err := s.followRepo.Toggle(ctx, follower.ID, target.ID); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Seeder) seedPosts(ctx context.Context, users []*models.User, count int) ([]*models.Post, error) {
	posts := make([]*models.Post, 0, count)
	for i := 0; i < count; i++ {
		owner := users[rand.Intn(len(users))]
		post := s.factory.BuildPost(owner)
		if err := s.postRepo.Create(ctx, post); err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func (s *Seeder) seedEngagement(ctx context.Context, users []*models.User, posts []*models.Post) error {
	for _, post := range posts {
		likers := rand.Intn(len(users))
		for i := 0; i < likers; i++ {
			user := users[rand.Intn(len(users))]
			if err := ignoreConflict(s.engagementRepo.Like(ctx, user.ID, post.ID)); err != nil {
				return err
			}
		}

		commenters := rand.Intn(4)
		for i := 0; i < commenters; i++ {
			user := users[rand.Intn(len(users))]
			comment := s.factory.BuildComment(user, post)
			if err := s.engagementRepo.CreateComment(ctx, comment); err != nil {
				return err
			}
		}

		// Shares come only from premium and enterprise users, matching the
		// tier gate on the API.
		sharers := rand.Intn(3)
		for i := 0; i < sharers; i++ {
			user := users[rand.Intn(len(users))]
			if user.Tier == models.TierFree {
				continue
			}
			if err := ignoreConflict(s.engagementRepo.Share(ctx, user.ID, post.ID)); err != nil {
				return err
			}
		}
	}
	return nil
}

func ignoreConflict(err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) && appErr.Code == models.CodeConflict {
		return nil
	}
	return err
}
