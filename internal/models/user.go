// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// UserTier is a user's subscription level. Tiers are ordered:
// free < premium < enterprise.
type UserTier string

const (
	// TierFree is the default tier for new accounts.
	TierFree UserTier = "free"
	// TierPremium unlocks sharing.
	TierPremium UserTier = "premium"
	// TierEnterprise is the highest tier.
	TierEnterprise UserTier = "enterprise"
)

// Valid reports whether t is a recognized tier.
func (t UserTier) Valid() bool {
	switch t {
	case TierFree, TierPremium, TierEnterprise:
		return true
	}
	return false
}

// UserRole is a user's role. Roles are exact-match, not hierarchical,
// and orthogonal to tiers.
type UserRole string

const (
	// RoleUser is the default role.
	RoleUser UserRole = "user"
	// RoleAdmin may delete any post.
	RoleAdmin UserRole = "admin"
)

// Valid reports whether r is a recognized role.
func (r UserRole) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User represents a user account in the Orbit application.
//
// FollowersCount, FollowingCount and PostsCount are denormalized counters.
// Every mutation that changes the underlying relation adjusts them in the
// same transaction, so they always equal the true relation cardinality.
type User struct {
	ID          uint     `gorm:"primaryKey" json:"id"`
	Username    string   `gorm:"uniqueIndex;not null" json:"username"`
	Email       string   `gorm:"uniqueIndex;not null" json:"email"`
	Password    string   `gorm:"not null" json:"-"`
	DisplayName string   `json:"display_name"`
	Bio         string   `json:"bio"`
	Avatar      string   `json:"avatar"`
	Location    string   `json:"location"`
	Website     string   `json:"website"`
	Tier        UserTier `gorm:"type:varchar(20);not null;default:'free'" json:"tier"`
	Role        UserRole `gorm:"type:varchar(20);not null;default:'user'" json:"role"`

	FollowersCount int `gorm:"not null;default:0" json:"followers_count"`
	FollowingCount int `gorm:"not null;default:0" json:"following_count"`
	PostsCount     int `gorm:"not null;default:0" json:"posts_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Posts []Post `gorm:"foreignKey:UserID" json:"posts,omitempty"`
}

// Summary is the public projection of a user returned by auth and
// profile endpoints.
type UserSummary struct {
	ID             uint     `json:"id"`
	Username       string   `json:"username"`
	Email          string   `json:"email,omitempty"`
	DisplayName    string   `json:"display_name"`
	Avatar         string   `json:"avatar"`
	Tier           UserTier `json:"tier"`
	Role           UserRole `json:"role"`
	FollowersCount int      `json:"followers_count"`
	FollowingCount int      `json:"following_count"`
	PostsCount     int      `json:"posts_count"`
}

// Summary returns the public projection of u.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		DisplayName:    u.DisplayName,
		Avatar:         u.Avatar,
		Tier:           u.Tier,
		Role:           u.Role,
		FollowersCount: u.FollowersCount,
		FollowingCount: u.FollowingCount,
		PostsCount:     u.PostsCount,
	}
}
