package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/interlinear/internal/annotations"
	"github.com/mrlokans/interlinear/internal/entities"
	"github.com/mrlokans/interlinear/internal/identity"
)

const demoOwner = identity.LocalPrefix + "abcd1234"

func meRouter(id *fakeIdentity, store *fakeFlashcards) http.Handler {
	return NewRouter(RouterConfig{Session: &fakeSession{}, Identity: id, Flashcards: store})
}

func demoCards() []entities.Flashcard {
	return []entities.Flashcard{
		{ID: "local-1700000000002", UserID: demoOwner, WordAnalysis: entities.WordAnalysis{Original: "λόγος"}, CreatedAt: 1700000000002},
		{ID: "local-1700000000001", UserID: demoOwner, WordAnalysis: entities.WordAnalysis{Original: "ἀρχῇ"}, CreatedAt: 1700000000001},
		{ID: "local-1700000000000", UserID: identity.LocalPrefix + "someone", WordAnalysis: entities.WordAnalysis{Original: "θεός"}},
	}
}

func TestIdentity_Endpoints(t *testing.T) {
	id := &fakeIdentity{}
	router := meRouter(id, &fakeFlashcards{})

	w := doJSON(t, router, "GET", "/api/identity", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp identityResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Nil(t, resp.Identity)
	assert.Empty(t, resp.Kind)
	assert.False(t, resp.RemoteConfigured)

	w = doJSON(t, router, "POST", "/api/identity/sign-in", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Identity)
	assert.Equal(t, demoOwner, resp.Identity.UserID)
	assert.Equal(t, identity.KindLocal, resp.Kind)
	assert.Equal(t, annotations.BackendLocal, resp.Backend)

	w = doJSON(t, router, "POST", "/api/identity/sign-out", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, id.signOut)
}

func TestIdentity_SignInFailure(t *testing.T) {
	id := &fakeIdentity{signIn: fmt.Errorf("%w: connection refused", identity.ErrSignInFailed)}
	w := doJSON(t, meRouter(id, &fakeFlashcards{remote: true}), "POST", "/api/identity/sign-in", nil)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestFlashcards_List(t *testing.T) {
	t.Run("requires an identity", func(t *testing.T) {
		w := doJSON(t, meRouter(&fakeIdentity{}, &fakeFlashcards{}), "GET", "/api/me/flashcards", nil)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, CodeSignInRequired, resp.Code)
	})

	t.Run("returns only the owner's cards", func(t *testing.T) {
		id := &fakeIdentity{current: &identity.Identity{UserID: demoOwner}}
		w := doJSON(t, meRouter(id, &fakeFlashcards{cards: demoCards()}), "GET", "/api/me/flashcards", nil)

		require.Equal(t, http.StatusOK, w.Code)
		var resp flashcardListResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 2, resp.Total)
		assert.Equal(t, "λόγος", resp.Flashcards[0].WordAnalysis.Original)
		assert.Equal(t, annotations.BackendLocal, resp.Backend)
	})

	t.Run("unavailable store", func(t *testing.T) {
		id := &fakeIdentity{current: &identity.Identity{UserID: "remote-uid"}}
		store := &fakeFlashcards{remote: true, listErr: fmt.Errorf("%w: timeout", annotations.ErrStoreUnavailable)}
		w := doJSON(t, meRouter(id, store), "GET", "/api/me/flashcards", nil)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("unexpected store error", func(t *testing.T) {
		id := &fakeIdentity{current: &identity.Identity{UserID: demoOwner}}
		w := doJSON(t, meRouter(id, &fakeFlashcards{listErr: errors.New("disk")}), "GET", "/api/me/flashcards", nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestFlashcards_Delete(t *testing.T) {
	owner := &identity.Identity{UserID: demoOwner}

	t.Run("own card is deleted", func(t *testing.T) {
		store := &fakeFlashcards{cards: demoCards()}
		w := doJSON(t, meRouter(&fakeIdentity{current: owner}, store), "DELETE", "/api/me/flashcards/local-1700000000001", nil)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, []string{"local-1700000000001"}, store.deleted)
	})

	t.Run("someone else's card is left alone", func(t *testing.T) {
		store := &fakeFlashcards{cards: demoCards()}
		w := doJSON(t, meRouter(&fakeIdentity{current: owner}, store), "DELETE", "/api/me/flashcards/local-1700000000000", nil)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, store.deleted)
	})

	t.Run("unknown id is a no-op", func(t *testing.T) {
		store := &fakeFlashcards{cards: demoCards()}
		w := doJSON(t, meRouter(&fakeIdentity{current: owner}, store), "DELETE", "/api/me/flashcards/local-42", nil)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, store.deleted)
	})

	t.Run("malformed id", func(t *testing.T) {
		w := doJSON(t, meRouter(&fakeIdentity{current: owner}, &fakeFlashcards{}), "DELETE", "/api/me/flashcards/local-", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("requires an identity", func(t *testing.T) {
		store := &fakeFlashcards{cards: demoCards()}
		w := doJSON(t, meRouter(&fakeIdentity{}, store), "DELETE", "/api/me/flashcards/local-1700000000001", nil)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Empty(t, store.deleted)
	})
}
