package annotations

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mrlokans/interlinear/internal/entities"
)

// TokenSource supplies the bearer token for document requests.
type TokenSource interface {
	Token() string
}

// CreateFlashcardRequest is the document API body for a new card.
type CreateFlashcardRequest struct {
	Analysis       entities.WordAnalysis `json:"analysis" binding:"required"`
	VerseReference string                `json:"verse_reference"`
}

// FlashcardList is the document API listing response.
type FlashcardList struct {
	Flashcards []entities.Flashcard `json:"flashcards"`
	Total      int                  `json:"total"`
}

// RemoteBackend stores flashcards on a document server.
type RemoteBackend struct {
	httpClient *http.Client
	baseURL    string
	tokens     TokenSource
}

// NewRemoteBackend creates a client for the document API at baseURL.
func NewRemoteBackend(baseURL string, timeout time.Duration, tokens TokenSource) *RemoteBackend {
	return &RemoteBackend{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		tokens:     tokens,
	}
}

func (b *RemoteBackend) Kind() BackendKind {
	return BackendRemote
}

func (b *RemoteBackend) Create(ctx context.Context, draft Draft) (*entities.Flashcard, error) {
	if draft.Owner == "" {
		return nil, ErrNoOwner
	}

	body, err := json.Marshal(CreateFlashcardRequest{
		Analysis:       draft.Analysis,
		VerseReference: draft.VerseReference,
	})
	if err != nil {
		return nil, fmt.Errorf("encode flashcard: %w", err)
	}

	resp, err := b.do(ctx, http.MethodPost, "/api/flashcards", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return nil, statusError(resp)
	}

	var card entities.Flashcard
	if err := json.NewDecoder(resp.Body).Decode(&card); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrStoreUnavailable, err)
	}
	if card.ID == "" {
		return nil, fmt.Errorf("%w: response without id", ErrStoreUnavailable)
	}
	if card.UserID != draft.Owner {
		return nil, fmt.Errorf("%w: card stored for another account", ErrStoreUnavailable)
	}
	return &card, nil
}

func (b *RemoteBackend) ListByOwner(ctx context.Context, owner string) ([]entities.Flashcard, error) {
	if owner == "" {
		return nil, ErrNoOwner
	}

	resp, err := b.do(ctx, http.MethodGet, "/api/flashcards", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var list FlashcardList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrStoreUnavailable, err)
	}

	// The server scopes by token; the owner filter guards against a token
	// that belongs to someone else.
	cards := make([]entities.Flashcard, 0, len(list.Flashcards))
	for _, card := range list.Flashcards {
		if card.UserID == owner {
			cards = append(cards, card)
		}
	}
	return cards, nil
}

func (b *RemoteBackend) Delete(ctx context.Context, id FlashcardID) error {
	resp, err := b.do(ctx, http.MethodDelete, "/api/flashcards/"+url.PathEscape(id.String()), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNoContent, http.StatusOK:
		return nil
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return statusError(resp)
	}
}

func (b *RemoteBackend) do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	token := b.tokens.Token()
	if token == "" {
		return nil, fmt.Errorf("%w: not signed in to document server", ErrStoreUnavailable)
	}

	req, err := http.NewRequestWithContext(ctx, method, b.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return resp, nil
}

func statusError(resp *http.Response) error {
	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w: document server rejected token", ErrStoreUnavailable)
	}
	return fmt.Errorf("%w: unexpected status %d", ErrStoreUnavailable, resp.StatusCode)
}
