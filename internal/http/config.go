package http

import (
	"github.com/mrlokans/interlinear/internal/auth"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Reader surface
	Session    SessionController
	Identity   IdentityProvider
	Flashcards FlashcardStore

	// Document API served to remote readers. Disabled when Documents is nil.
	Documents   DocumentStore
	Tokens      TokenIssuer
	Validator   auth.TokenValidator
	RateLimiter *auth.RateLimiter

	// CSRF protection for the reader surface. Disabled when the secret is empty.
	CSRFSecret    []byte
	SecureCookies bool

	// Health
	Database         Pinger
	Version          string
	GenerationReady  bool
	RemoteConfigured bool
}
