package entities

import (
	"time"
)

// User is an account on the document server. Readers that configure this
// server as their remote backend sign in as one of these accounts.
type User struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	UID            string     `gorm:"uniqueIndex;size:64" json:"uid"` // Owner identity of the account's flashcards
	Username       string     `gorm:"uniqueIndex;size:100" json:"username"`
	PasswordHash   string     `gorm:"size:100" json:"-"`
	TokenHash      string     `gorm:"index;size:64" json:"-"` // SHA-256 of the current API token
	TokenExpiresAt *time.Time `json:"-"`
	LastLoginAt    *time.Time `json:"last_login_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}
