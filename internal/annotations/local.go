package annotations

import (
	"context"
	"strconv"

	"github.com/mrlokans/interlinear/internal/entities"
)

// LocalBackend keeps flashcards in the local database. Ids are
// "local-<unix ms>", unique because the collection clock never repeats.
type LocalBackend struct {
	cards *Collection
}

// NewLocalBackend creates the fallback backend over the flashcard table.
func NewLocalBackend(repo Repository) (*LocalBackend, error) {
	cards, err := NewCollection(repo, func(createdAt int64) string {
		return LocalID(strconv.FormatInt(createdAt, 10)).String()
	})
	if err != nil {
		return nil, err
	}
	return &LocalBackend{cards: cards}, nil
}

func (b *LocalBackend) Kind() BackendKind {
	return BackendLocal
}

func (b *LocalBackend) Create(ctx context.Context, draft Draft) (*entities.Flashcard, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return b.cards.Insert(draft)
}

func (b *LocalBackend) ListByOwner(ctx context.Context, owner string) ([]entities.Flashcard, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return b.cards.List(owner)
}

func (b *LocalBackend) Delete(ctx context.Context, id FlashcardID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.cards.Remove(id.String())
}
