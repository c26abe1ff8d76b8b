// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// PostVisibility controls who may read a post.
type PostVisibility string

const (
	// VisibilityPublic posts are readable by anyone.
	VisibilityPublic PostVisibility = "public"
	// VisibilityPrivate posts are readable only by their owner.
	VisibilityPrivate PostVisibility = "private"
	// VisibilityFollowersOnly posts are readable by the owner's followers.
	VisibilityFollowersOnly PostVisibility = "followers_only"
)

// Valid reports whether v is a recognized visibility.
func (v PostVisibility) Valid() bool {
	switch v {
	case VisibilityPublic, VisibilityPrivate, VisibilityFollowersOnly:
		return true
	}
	return false
}

// MediaType is the kind of media attached to a post.
type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
	MediaGif   MediaType = "gif"
)

// Valid reports whether m is a recognized media type.
func (m MediaType) Valid() bool {
	switch m {
	case MediaImage, MediaVideo, MediaGif:
		return true
	}
	return false
}

// MaxPostContentLen is the maximum post content length in bytes.
const MaxPostContentLen = 5000

// Post represents a post in the Orbit application.
//
// LikesCount, CommentsCount and SharesCount are denormalized counters kept
// in sync with the likes/comments/shares relations inside the same
// transaction as the relation change.
type Post struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	UserID     uint           `gorm:"not null;index" json:"user_id"`
	User       User           `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Content    string         `gorm:"type:text;not null" json:"content"`
	MediaURL   string         `json:"media_url,omitempty"`
	MediaType  MediaType      `gorm:"type:varchar(10)" json:"media_type,omitempty"`
	Visibility PostVisibility `gorm:"type:varchar(20);not null;default:'public';index" json:"visibility"`

	LikesCount    int `gorm:"not null;default:0" json:"likes_count"`
	CommentsCount int `gorm:"not null;default:0" json:"comments_count"`
	SharesCount   int `gorm:"not null;default:0" json:"shares_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
