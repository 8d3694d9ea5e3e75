package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/interlinear/internal/annotations"
	"github.com/mrlokans/interlinear/internal/identity"
)

type IdentityController struct {
	provider IdentityProvider
	store    FlashcardStore
}

func NewIdentityController(provider IdentityProvider, store FlashcardStore) *IdentityController {
	return &IdentityController{provider: provider, store: store}
}

type identityResponse struct {
	Identity         *identity.Identity      `json:"identity"`
	Kind             identity.Kind           `json:"kind,omitempty"`
	Backend          annotations.BackendKind `json:"backend,omitempty"`
	RemoteConfigured bool                    `json:"remote_configured"`
}

func (ic *IdentityController) current() identityResponse {
	resp := identityResponse{
		Identity:         ic.provider.Current(),
		RemoteConfigured: ic.store.RemoteConfigured(),
	}
	if resp.Identity != nil {
		resp.Kind = resp.Identity.Kind()
		resp.Backend = ic.store.BackendFor(resp.Identity.UserID)
	}
	return resp
}

// GetIdentity returns who is signed in and where their flashcards live.
// GET /api/identity
func (ic *IdentityController) GetIdentity(c *gin.Context) {
	c.JSON(http.StatusOK, ic.current())
}

// SignIn runs the sign-in flow and waits for its outcome.
// POST /api/identity/sign-in
func (ic *IdentityController) SignIn(c *gin.Context) {
	if err := ic.provider.SignIn(c.Request.Context()); err != nil {
		respondError(c, http.StatusBadGateway, CodeSignInFailed, "sign-in failed")
		return
	}
	c.JSON(http.StatusOK, ic.current())
}

// SignOut forgets the current identity.
// POST /api/identity/sign-out
func (ic *IdentityController) SignOut(c *gin.Context) {
	if err := ic.provider.SignOut(c.Request.Context()); err != nil {
		respondInternalError(c, err, "sign out")
		return
	}
	c.JSON(http.StatusOK, ic.current())
}
