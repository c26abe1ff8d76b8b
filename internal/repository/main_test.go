package repository

import (
	"context"
	"fmt"
	"testing"

	"orbit/internal/database"
	"orbit/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory SQLite database for one test. The DSN
// is keyed by test name so parallel tests never share state.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "hashed",
		Tier:     models.TierFree,
		Role:     models.RoleUser,
	}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), user))
	return user
}

func createTestPost(t *testing.T, db *gorm.DB, userID uint, content string) *models.Post {
	t.Helper()
	post := &models.Post{
		UserID:     userID,
		Content:    content,
		Visibility: models.VisibilityPublic,
	}
	require.NoError(t, NewPostRepository(db).Create(context.Background(), post))
	return post
}

// counters re-reads the post row and returns its denormalized counters.
func postCounters(t *testing.T, db *gorm.DB, postID uint) (likes, comments, shares int) {
	t.Helper()
	var post models.Post
	require.NoError(t, db.First(&post, postID).Error)
	return post.LikesCount, post.CommentsCount, post.SharesCount
}

func userCounters(t *testing.T, db *gorm.DB, userID uint) (followers, following, posts int) {
	t.Helper()
	var user models.User
	require.NoError(t, db.First(&user, userID).Error)
	return user.FollowersCount, user.FollowingCount, user.PostsCount
}
