// Package annotations stores flashcards behind one contract over two backends.
//
// The local backend keeps flashcards in this process's sqlite database. The
// remote backend talks to a document server over HTTP. Store picks one per
// call from the owner's identity shape, and only if a remote backend was
// configured at startup. A failing remote never falls back to local.
package annotations

import (
	"context"
	"errors"

	"github.com/mrlokans/interlinear/internal/entities"
)

var (
	// ErrStoreUnavailable means the remote backend could not be reached or refused the request.
	ErrStoreUnavailable = errors.New("flashcard store unavailable")
	// ErrNotFound is returned by backends for absent ids. Store.Delete swallows it.
	ErrNotFound         = errors.New("flashcard not found")
	ErrNoOwner          = errors.New("flashcard owner is required")
	ErrInvalidID        = errors.New("invalid flashcard id")
)

// Draft is what a caller provides to create a flashcard. The backend assigns
// the id and the timestamp.
type Draft struct {
	Owner          string
	Analysis       entities.WordAnalysis
	VerseReference string
}

// Backend is one concrete flashcard storage.
type Backend interface {
	Kind() BackendKind
	Create(ctx context.Context, draft Draft) (*entities.Flashcard, error)
	// ListByOwner returns only the owner's cards, newest first.
	ListByOwner(ctx context.Context, owner string) ([]entities.Flashcard, error)
	Delete(ctx context.Context, id FlashcardID) error
}
