package seed

import (
	"fmt"
	"math/rand"
	"time"

	"orbit/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
)

// seedPassword is the shared password for all generated users.
const seedPassword = "password123"

// Factory builds domain entities with generated content. It does not
// persist anything; the Seeder routes entities through the repositories.
type Factory struct {
	passwordHash string
}

// NewFactory creates a Factory and pre-hashes the shared seed password so
// bcrypt runs once, not per user.
func NewFactory() *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	hash, _ := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	return &Factory{passwordHash: string(hash)}
}

// BuildUser constructs a sample user. Optional overrides may modify the
// generated user before it is persisted.
func (f *Factory) BuildUser(overrides ...func(*models.User)) *models.User {
	user := &models.User{
		Username:    fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(100, 999)),
		Email:       gofakeit.Email(),
		Password:    f.passwordHash,
		DisplayName: gofakeit.Name(),
		Bio:         gofakeit.Sentence(10),
		Avatar:      fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
		Location:    gofakeit.City(),
		Website:     gofakeit.URL(),
		Tier:        models.TierFree,
		Role:        models.RoleUser,
	}
	for _, override := range overrides {
		override(user)
	}
	return user
}

// BuildPost constructs a sample post for the given owner with a realistic
// created_at spread over the last 90 days.
func (f *Factory) BuildPost(owner *models.User, overrides ...func(*models.Post)) *models.Post {
	post := &models.Post{
		UserID:     owner.ID,
		Content:    gofakeit.Paragraph(1, 3, 8, "\n"),
		Visibility: models.VisibilityPublic,
	}

	// Mostly public, a sprinkling of restricted posts.
	switch rand.Intn(10) {
	case 0:
		post.Visibility = models.VisibilityPrivate
	case 1:
		post.Visibility = models.VisibilityFollowersOnly
	}

	if rand.Intn(3) == 0 {
		post.MediaURL = fmt.Sprintf("https://picsum.photos/seed/%s/800/800", gofakeit.UUID())
		post.MediaType = models.MediaImage
	}

	daysBack := rand.Intn(90)
	hoursBack := rand.Intn(24)
	post.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)

	for _, override := range overrides {
		override(post)
	}
	return post
}

// BuildComment constructs a sample comment by user on post.
func (f *Factory) BuildComment(user *models.User, post *models.Post) *models.Comment {
	return &models.Comment{
		PostID:  post.ID,
		UserID:  user.ID,
		Content: gofakeit.Sentence(12),
	}
}
