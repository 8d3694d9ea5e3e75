// Package users provides database operations for document-server accounts.
//
// # Usage
//
//	repo := users.NewRepository(db)
//	user, err := repo.GetByTokenHash(auth.HashToken(token))
package users

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mrlokans/interlinear/internal/entities"
)

// Repository handles all user database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new users repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create stores a new account with a freshly assigned UID.
func (r *Repository) Create(username, passwordHash string) (*entities.User, error) {
	user := &entities.User{
		UID:          uuid.NewString(),
		Username:     username,
		PasswordHash: passwordHash,
	}

	if err := r.db.Create(user).Error; err != nil {
		return nil, err
	}

	return user, nil
}

// GetByUsername retrieves a user by username.
func (r *Repository) GetByUsername(username string) (*entities.User, error) {
	var user entities.User
	err := r.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByTokenHash retrieves a user by the hash of their API token.
func (r *Repository) GetByTokenHash(tokenHash string) (*entities.User, error) {
	var user entities.User
	err := r.db.Where("token_hash = ?", tokenHash).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateToken replaces the user's API token hash and records the login.
func (r *Repository) UpdateToken(id uint, tokenHash string, expiresAt *time.Time) error {
	return r.db.Model(&entities.User{}).Where("id = ?", id).Updates(map[string]any{
		"token_hash":       tokenHash,
		"token_expires_at": expiresAt,
		"last_login_at":    time.Now(),
	}).Error
}

// Count returns the number of accounts.
func (r *Repository) Count() (int64, error) {
	var total int64
	err := r.db.Model(&entities.User{}).Count(&total).Error
	return total, err
}
