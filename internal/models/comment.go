package models

import (
	"time"
)

// MaxCommentContentLen is the maximum comment content length in bytes.
const MaxCommentContentLen = 1000

// Comment represents a comment on a post. ParentID, when set, references
// another comment on the same post, forming a reply tree.
type Comment struct {
	ID       uint     `gorm:"primaryKey" json:"id"`
	PostID   uint     `gorm:"not null;index" json:"post_id"`
	Post     Post     `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	UserID   uint     `gorm:"not null;index" json:"user_id"`
	User     User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Content  string   `gorm:"type:text;not null" json:"content"`
	ParentID *uint    `gorm:"index" json:"parent_id,omitempty"`
	Parent   *Comment `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
