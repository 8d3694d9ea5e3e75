package annotations

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/mrlokans/interlinear/internal/entities"
	"github.com/mrlokans/interlinear/internal/identity"
)

// Store is the flashcard contract the reader uses.
type Store struct {
	local  Backend
	remote Backend
}

// NewStore fixes the backends for the process lifetime. Pass a nil remote
// when no document server is configured; every owner is then local.
func NewStore(local, remote Backend) *Store {
	return &Store{local: local, remote: remote}
}

// RemoteConfigured reports whether a document server backend exists.
func (s *Store) RemoteConfigured() bool {
	return s.remote != nil
}

// BackendFor returns which backend owns the given identity's cards.
func (s *Store) BackendFor(owner string) BackendKind {
	if s.remote == nil || identity.IsLocalID(owner) {
		return BackendLocal
	}
	return BackendRemote
}

func (s *Store) backend(kind BackendKind) Backend {
	if kind == BackendRemote {
		return s.remote
	}
	return s.local
}

// Save creates a flashcard for owner in the owner's backend.
func (s *Store) Save(ctx context.Context, owner string, analysis entities.WordAnalysis, verseRef string) (*entities.Flashcard, error) {
	if owner == "" {
		return nil, ErrNoOwner
	}

	kind := s.BackendFor(owner)
	card, err := s.backend(kind).Create(ctx, Draft{
		Owner:          owner,
		Analysis:       analysis,
		VerseReference: verseRef,
	})
	if err != nil {
		log.Printf("[STORE] Failed to save flashcard for %s in %s backend: %v", owner, kind, err)
		return nil, err
	}

	log.Printf("[STORE] Saved flashcard %s (%s) for %s", card.ID, analysis.Original, owner)
	return card, nil
}

// ListByOwner returns the owner's cards, newest first.
func (s *Store) ListByOwner(ctx context.Context, owner string) ([]entities.Flashcard, error) {
	if owner == "" {
		return nil, ErrNoOwner
	}
	return s.backend(s.BackendFor(owner)).ListByOwner(ctx, owner)
}

// Delete removes a card by id, routed by the id's own tag. Absent ids are
// not an error. A remote id with no remote backend has nothing to delete.
func (s *Store) Delete(ctx context.Context, rawID string) error {
	id, err := ParseFlashcardID(rawID)
	if err != nil {
		// No stored flashcard can carry a malformed id.
		log.Printf("[STORE] Ignoring delete of %q: %v", rawID, err)
		return nil
	}

	backend := s.backend(id.Kind)
	if backend == nil {
		return nil
	}

	err = backend.Delete(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("delete flashcard %s: %w", id, err)
	}

	log.Printf("[STORE] Deleted flashcard %s", id)
	return nil
}
