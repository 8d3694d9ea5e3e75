package annotations

import (
	"fmt"
	"sync"
	"time"

	"github.com/mrlokans/interlinear/internal/entities"
)

// Repository is the flashcard table.
type Repository interface {
	Create(card *entities.Flashcard) error
	ListByOwner(userID string) ([]entities.Flashcard, error)
	Delete(id string) (bool, error)
	DeleteForOwner(id, userID string) (bool, error)
	LatestCreatedAt() (int64, error)
}

// Collection serializes writes to a flashcard table and stamps each new card
// with a strictly increasing millisecond timestamp. It backs both the local
// backend and the document API.
type Collection struct {
	mu   sync.Mutex
	repo Repository
	mint func(createdAt int64) string
	now  func() time.Time
	last int64
}

// NewCollection seeds the clock from the newest stored card so timestamps
// keep increasing across restarts.
func NewCollection(repo Repository, mint func(createdAt int64) string) (*Collection, error) {
	latest, err := repo.LatestCreatedAt()
	if err != nil {
		return nil, fmt.Errorf("failed to read latest flashcard timestamp: %w", err)
	}
	return &Collection{
		repo: repo,
		mint: mint,
		now:  time.Now,
		last: latest,
	}, nil
}

// tick must be called with mu held.
func (c *Collection) tick() int64 {
	ms := c.now().UnixMilli()
	if ms <= c.last {
		ms = c.last + 1
	}
	c.last = ms
	return ms
}

// Insert creates a card for draft.Owner.
func (c *Collection) Insert(draft Draft) (*entities.Flashcard, error) {
	if draft.Owner == "" {
		return nil, ErrNoOwner
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	createdAt := c.tick()
	card := &entities.Flashcard{
		ID:             c.mint(createdAt),
		UserID:         draft.Owner,
		WordAnalysis:   draft.Analysis,
		VerseReference: draft.VerseReference,
		CreatedAt:      createdAt,
	}
	if err := c.repo.Create(card); err != nil {
		return nil, fmt.Errorf("failed to store flashcard: %w", err)
	}
	return card, nil
}

// List returns the owner's cards, newest first.
func (c *Collection) List(owner string) ([]entities.Flashcard, error) {
	if owner == "" {
		return nil, ErrNoOwner
	}
	cards, err := c.repo.ListByOwner(owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list flashcards: %w", err)
	}
	return cards, nil
}

// Remove deletes a card by id. Absent ids return ErrNotFound.
func (c *Collection) Remove(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed, err := c.repo.Delete(id)
	if err != nil {
		return fmt.Errorf("failed to delete flashcard: %w", err)
	}
	if !removed {
		return ErrNotFound
	}
	return nil
}

// RemoveForOwner deletes a card only if owner holds it. Another owner's id
// returns ErrNotFound, same as an absent one.
func (c *Collection) RemoveForOwner(id, owner string) error {
	if owner == "" {
		return ErrNoOwner
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	removed, err := c.repo.DeleteForOwner(id, owner)
	if err != nil {
		return fmt.Errorf("failed to delete flashcard: %w", err)
	}
	if !removed {
		return ErrNotFound
	}
	return nil
}
