package models

import (
	"time"

	"threadline/internal/content"
)

// KindPosts is the content registry tag for posts.
const KindPosts = "posts"

// Post is the built-in commentable content type. Comments reference it
// through its (kind, id) pair rather than a direct foreign key, so any
// other registered entity works the same way.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Ref returns the polymorphic reference identifying this post.
func (p *Post) Ref() content.Ref {
	return content.Ref{Kind: KindPosts, ID: p.ID}
}
