// Package flashcards provides database operations for saved word flashcards.
//
// The same repository backs two things: the local fallback backend of the
// annotation store, and the document collection served to remote readers.
//
// # Usage
//
//	repo := flashcards.NewRepository(db)
//	cards, err := repo.ListByOwner("local-user-1a2b3c4d")
package flashcards

import (
	"errors"

	"gorm.io/gorm"

	"github.com/mrlokans/interlinear/internal/entities"
)

// Repository handles all flashcard database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new flashcard repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new flashcard. ID, UserID and CreatedAt must be set by the caller.
func (r *Repository) Create(card *entities.Flashcard) error {
	return r.db.Create(card).Error
}

// ListByOwner returns the owner's flashcards, newest first.
// Cards with equal timestamps come back in reverse insertion order.
func (r *Repository) ListByOwner(userID string) ([]entities.Flashcard, error) {
	cards := []entities.Flashcard{}
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("rowid DESC").
		Find(&cards).Error
	return cards, err
}

// Delete removes a flashcard by ID. Reports whether a row was removed.
func (r *Repository) Delete(id string) (bool, error) {
	result := r.db.Where("id = ?", id).Delete(&entities.Flashcard{})
	return result.RowsAffected > 0, result.Error
}

// DeleteForOwner removes a flashcard only if it belongs to userID.
func (r *Repository) DeleteForOwner(id, userID string) (bool, error) {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&entities.Flashcard{})
	return result.RowsAffected > 0, result.Error
}

// LatestCreatedAt returns the newest creation timestamp across all owners,
// or 0 for an empty table.
func (r *Repository) LatestCreatedAt() (int64, error) {
	var card entities.Flashcard
	err := r.db.Order("created_at DESC").First(&card).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return card.CreatedAt, nil
}
