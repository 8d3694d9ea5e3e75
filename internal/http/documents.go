package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/mrlokans/interlinear/internal/annotations"
	"github.com/mrlokans/interlinear/internal/auth"
	"github.com/mrlokans/interlinear/internal/entities"
)

// DocumentsController serves the flashcard document API. Every request is
// scoped to the owner resolved from its bearer token.
type DocumentsController struct {
	documents DocumentStore
	tokens    TokenIssuer
	limiter   LoginLimiter
}

func NewDocumentsController(documents DocumentStore, tokens TokenIssuer, limiter LoginLimiter) *DocumentsController {
	return &DocumentsController{documents: documents, tokens: tokens, limiter: limiter}
}

type tokenResponse struct {
	Token    string `json:"token"`
	UID      string `json:"uid"`
	Username string `json:"username"`
}

// IssueToken exchanges username and password for an API token.
// POST /api/auth/token
func (dc *DocumentsController) IssueToken(c *gin.Context) {
	var req auth.TokenRequest
	// The rate limiter may already have consumed the body.
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		respondBadRequest(c, "username and password are required")
		return
	}

	token, user, err := dc.tokens.IssueToken(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) || errors.Is(err, auth.ErrInvalidPassword) {
			dc.recordFailure(c.ClientIP(), req.Username)
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid credentials"})
			return
		}
		respondInternalError(c, err, "issue token")
		return
	}
	if dc.limiter != nil {
		dc.limiter.RecordSuccess(c.ClientIP(), req.Username)
	}

	c.JSON(http.StatusOK, tokenResponse{Token: token, UID: user.UID, Username: user.Username})
}

func (dc *DocumentsController) recordFailure(ip, username string) {
	if dc.limiter == nil {
		return
	}
	if dc.limiter.RecordFailure(ip, username) {
		log.Printf("[AUTH] Locked out %s for user %q after repeated failures", ip, username)
	}
}

// Create stores a flashcard for the token's owner.
// POST /api/flashcards
func (dc *DocumentsController) Create(c *gin.Context) {
	var req annotations.CreateFlashcardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "analysis is required")
		return
	}
	if req.Analysis.Original == "" {
		respondBadRequest(c, "analysis.original is required")
		return
	}

	card, err := dc.documents.Insert(annotations.Draft{
		Owner:          auth.GetOwnerUID(c),
		Analysis:       req.Analysis,
		VerseReference: req.VerseReference,
	})
	if err != nil {
		respondInternalError(c, err, "create flashcard")
		return
	}

	respondCreated(c, card)
}

// List returns the token owner's flashcards, newest first.
// GET /api/flashcards
func (dc *DocumentsController) List(c *gin.Context) {
	cards, err := dc.documents.List(auth.GetOwnerUID(c))
	if err != nil {
		respondInternalError(c, err, "list flashcards")
		return
	}
	if cards == nil {
		cards = []entities.Flashcard{}
	}

	c.JSON(http.StatusOK, annotations.FlashcardList{Flashcards: cards, Total: len(cards)})
}

// Delete removes one of the token owner's flashcards.
// DELETE /api/flashcards/:id
func (dc *DocumentsController) Delete(c *gin.Context) {
	err := dc.documents.RemoveForOwner(c.Param("id"), auth.GetOwnerUID(c))
	switch {
	case err == nil:
		c.Status(http.StatusNoContent)
	case errors.Is(err, annotations.ErrNotFound):
		respondNotFound(c, "flashcard")
	default:
		respondInternalError(c, err, "delete flashcard")
	}
}
