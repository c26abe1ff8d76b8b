package repository

import (
	"context"
	"testing"

	"orbit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/clause"
)

func TestFollowRepository_ToggleRoundTrip(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	followed, err := repo.Toggle(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, followed)

	bobFollowers, _, _ := userCounters(t, db, bob.ID)
	_, aliceFollowing, _ := userCounters(t, db, alice.ID)
	assert.Equal(t, 1, bobFollowers)
	assert.Equal(t, 1, aliceFollowing)

	following, err := repo.IsFollowing(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, following)

	followed, err = repo.Toggle(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, followed)

	bobFollowers, _, _ = userCounters(t, db, bob.ID)
	_, aliceFollowing, _ = userCounters(t, db, alice.ID)
	assert.Equal(t, 0, bobFollowers)
	assert.Equal(t, 0, aliceFollowing)
}

// A toggle that loses the insert race must land as a no-op "already
// followed", never a double increment. The race is simulated by inserting
// the edge after the toggle's read would have seen nothing.
func TestFollowRepository_InsertRaceIsNoOp(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	// Another request won the race: the row already exists. The losing
	// insert affects zero rows and must not move the counters.
	require.NoError(t, db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Follow{FollowerID: alice.ID, FollowingID: bob.ID}).Error)

	res := db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Follow{FollowerID: alice.ID, FollowingID: bob.ID})
	require.NoError(t, res.Error)
	assert.Zero(t, res.RowsAffected, "conflicting insert must be a no-op")

	var rows int64
	require.NoError(t, db.Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", alice.ID, bob.ID).Count(&rows).Error)
	assert.Equal(t, int64(1), rows, "exactly one follow row survives the race")

	// A toggle against the raced-in row takes the unfollow branch and
	// leaves state clean.
	followed, err := repo.Toggle(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, followed)
}

func TestFollowRepository_ToggleIdempotentSequence(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	// Any number of toggle pairs nets out to zero.
	for i := 0; i < 3; i++ {
		followed, err := repo.Toggle(ctx, alice.ID, bob.ID)
		require.NoError(t, err)
		assert.True(t, followed)

		followed, err = repo.Toggle(ctx, alice.ID, bob.ID)
		require.NoError(t, err)
		assert.False(t, followed)
	}

	bobFollowers, _, _ := userCounters(t, db, bob.ID)
	_, aliceFollowing, _ := userCounters(t, db, alice.ID)
	assert.Equal(t, 0, bobFollowers)
	assert.Equal(t, 0, aliceFollowing)

	var rows int64
	require.NoError(t, db.Model(&models.Follow{}).Count(&rows).Error)
	assert.Zero(t, rows)
}

func TestFollowRepository_Listings(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")

	_, err := repo.Toggle(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	_, err = repo.Toggle(ctx, carol.ID, alice.ID)
	require.NoError(t, err)
	_, err = repo.Toggle(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	followers, err := repo.ListFollowers(ctx, alice.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, followers, 2)

	following, err := repo.ListFollowing(ctx, alice.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, bob.ID, following[0].ID)

	// Pagination applies.
	followers, err = repo.ListFollowers(ctx, alice.ID, 1, 0)
	require.NoError(t, err)
	assert.Len(t, followers, 1)
}
