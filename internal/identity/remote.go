package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"

	"github.com/mrlokans/interlinear/internal/config"
)

// RemoteProvider signs in to a document server with configured credentials.
type RemoteProvider struct {
	httpClient *http.Client
	baseURL    string
	username   string
	password   string

	tokenMu sync.RWMutex
	token   string

	*notifier
}

type tokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token    string `json:"token"`
	UID      string `json:"uid"`
	Username string `json:"username"`
}

// NewRemoteProvider creates a provider for the configured document server.
func NewRemoteProvider(cfg config.Remote) (*RemoteProvider, error) {
	if !cfg.Configured() {
		return nil, ErrRemoteNotConfigured
	}
	return &RemoteProvider{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		username:   cfg.Username,
		password:   cfg.Password,
		notifier:   newNotifier(),
	}, nil
}

func (p *RemoteProvider) Current() *Identity {
	return p.get()
}

// Token returns the bearer token of the current session, or "".
func (p *RemoteProvider) Token() string {
	p.tokenMu.RLock()
	defer p.tokenMu.RUnlock()
	return p.token
}

// SignIn exchanges the configured credentials for an API token.
func (p *RemoteProvider) SignIn(ctx context.Context) error {
	body, err := json.Marshal(tokenRequest{Username: p.username, Password: p.password})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSignInFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/auth/token", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: create request: %v", ErrSignInFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		log.Printf("[IDENTITY] Sign-in request failed: %v", err)
		return fmt.Errorf("%w: %v", ErrSignInFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[IDENTITY] Sign-in rejected with status %d", resp.StatusCode)
		return fmt.Errorf("%w: unexpected status %d", ErrSignInFailed, resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrSignInFailed, err)
	}
	if tr.Token == "" || tr.UID == "" {
		return fmt.Errorf("%w: incomplete token response", ErrSignInFailed)
	}

	p.tokenMu.Lock()
	p.token = tr.Token
	p.tokenMu.Unlock()

	name := tr.Username
	if name == "" {
		name = p.username
	}
	log.Printf("[IDENTITY] Signed in to %s as %s", p.baseURL, name)
	p.set(&Identity{UserID: tr.UID, DisplayName: name})
	return nil
}

// SignOut forgets the token.
func (p *RemoteProvider) SignOut(_ context.Context) error {
	p.tokenMu.Lock()
	p.token = ""
	p.tokenMu.Unlock()

	log.Printf("[IDENTITY] Signed out")
	p.set(nil)
	return nil
}

func (p *RemoteProvider) Subscribe(fn func(*Identity)) func() {
	return p.subscribe(fn)
}
