package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/interlinear/internal/annotations"
	"github.com/mrlokans/interlinear/internal/entities"
)

// FlashcardsController lists and deletes the signed-in reader's flashcards.
type FlashcardsController struct {
	provider IdentityProvider
	store    FlashcardStore
}

func NewFlashcardsController(provider IdentityProvider, store FlashcardStore) *FlashcardsController {
	return &FlashcardsController{provider: provider, store: store}
}

type flashcardListResponse struct {
	Flashcards []entities.Flashcard    `json:"flashcards"`
	Total      int                     `json:"total"`
	Backend    annotations.BackendKind `json:"backend"`
}

// owner returns the signed-in user id, or responds 401.
func (fc *FlashcardsController) owner(c *gin.Context) (string, bool) {
	id := fc.provider.Current()
	if id == nil {
		respondError(c, http.StatusUnauthorized, CodeSignInRequired, "sign in to see your flashcards")
		return "", false
	}
	return id.UserID, true
}

// List returns the reader's flashcards, newest first.
// GET /api/me/flashcards
func (fc *FlashcardsController) List(c *gin.Context) {
	owner, ok := fc.owner(c)
	if !ok {
		return
	}

	cards, err := fc.store.ListByOwner(c.Request.Context(), owner)
	if err != nil {
		fc.storeError(c, err, "list flashcards")
		return
	}

	c.JSON(http.StatusOK, flashcardListResponse{
		Flashcards: cards,
		Total:      len(cards),
		Backend:    fc.store.BackendFor(owner),
	})
}

// Delete removes one of the reader's flashcards. Unknown ids and ids held by
// another owner are a no-op.
// DELETE /api/me/flashcards/:id
func (fc *FlashcardsController) Delete(c *gin.Context) {
	owner, ok := fc.owner(c)
	if !ok {
		return
	}

	id := c.Param("id")
	if _, err := annotations.ParseFlashcardID(id); err != nil {
		respondBadRequest(c, "invalid flashcard id")
		return
	}

	cards, err := fc.store.ListByOwner(c.Request.Context(), owner)
	if err != nil {
		fc.storeError(c, err, "delete flashcard")
		return
	}
	if !containsCard(cards, id) {
		c.Status(http.StatusNoContent)
		return
	}

	if err := fc.store.Delete(c.Request.Context(), id); err != nil {
		fc.storeError(c, err, "delete flashcard")
		return
	}
	c.Status(http.StatusNoContent)
}

func (fc *FlashcardsController) storeError(c *gin.Context, err error, context string) {
	if errors.Is(err, annotations.ErrStoreUnavailable) {
		respondStoreUnavailable(c, err, context)
		return
	}
	respondInternalError(c, err, context)
}

func containsCard(cards []entities.Flashcard, id string) bool {
	for _, card := range cards {
		if card.ID == id {
			return true
		}
	}
	return false
}
