package http

import (
	"context"

	"github.com/mrlokans/interlinear/internal/annotations"
	"github.com/mrlokans/interlinear/internal/entities"
	"github.com/mrlokans/interlinear/internal/identity"
	"github.com/mrlokans/interlinear/internal/session"
)

// This file collects the interfaces the controllers consume. Each controller
// depends only on the operations it calls, which keeps test fakes small.

// SessionController is the reader state machine.
type SessionController interface {
	Snapshot() session.Snapshot
	SetBook(book string) error
	SetChapter(chapter int) error
	Retry() error
	SelectWord(verse int, word string) error
	CloseSelection()
	RetryAnalysis() error
	Save() (session.SaveResult, error)
	SetViewMode(mode entities.ViewMode) error
}

// IdentityProvider is the sign-in flow.
type IdentityProvider interface {
	Current() *identity.Identity
	SignIn(ctx context.Context) error
	SignOut(ctx context.Context) error
}

// FlashcardStore is the reader's view of the annotation store.
type FlashcardStore interface {
	ListByOwner(ctx context.Context, owner string) ([]entities.Flashcard, error)
	Delete(ctx context.Context, id string) error
	BackendFor(owner string) annotations.BackendKind
	RemoteConfigured() bool
}

// DocumentStore is the owner-scoped collection served to remote readers.
type DocumentStore interface {
	Insert(draft annotations.Draft) (*entities.Flashcard, error)
	List(owner string) ([]entities.Flashcard, error)
	RemoveForOwner(id, owner string) error
}

// TokenIssuer exchanges credentials for an API token.
type TokenIssuer interface {
	IssueToken(username, password string) (string, *entities.User, error)
}

// LoginLimiter tracks failed token exchanges.
type LoginLimiter interface {
	RecordFailure(ip, username string) bool
	RecordSuccess(ip, username string)
}

// Pinger checks a dependency is reachable.
type Pinger interface {
	Ping() error
}
