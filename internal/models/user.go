// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"threadline/internal/content"
)

// KindUsers is the content registry tag for user profiles.
const KindUsers = "users"

// User is a registered account. Identified comments reference a User;
// user profiles are themselves commentable content.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email     string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Ref returns the polymorphic reference identifying this user.
func (u *User) Ref() content.Ref {
	return content.Ref{Kind: KindUsers, ID: u.ID}
}
