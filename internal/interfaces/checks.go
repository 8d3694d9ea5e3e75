package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/interlinear/internal/annotations"
	"github.com/mrlokans/interlinear/internal/auth"
	"github.com/mrlokans/interlinear/internal/database"
	"github.com/mrlokans/interlinear/internal/database/flashcards"
	"github.com/mrlokans/interlinear/internal/database/users"
	"github.com/mrlokans/interlinear/internal/generation"
	"github.com/mrlokans/interlinear/internal/http"
	"github.com/mrlokans/interlinear/internal/identity"
	"github.com/mrlokans/interlinear/internal/session"
)

// =============================================================================
// Data Access Layer
// =============================================================================

var _ annotations.Repository = (*flashcards.Repository)(nil)
var _ auth.UserRepository = (*users.Repository)(nil)
var _ identity.SettingsStore = (*database.Database)(nil)
var _ http.Pinger = (*database.Database)(nil)

// =============================================================================
// Annotation Store
// =============================================================================

var _ annotations.Backend = (*annotations.LocalBackend)(nil)
var _ annotations.Backend = (*annotations.RemoteBackend)(nil)
var _ annotations.TokenSource = (*identity.RemoteProvider)(nil)
var _ session.FlashcardStore = (*annotations.Store)(nil)
var _ http.FlashcardStore = (*annotations.Store)(nil)
var _ http.DocumentStore = (*annotations.Collection)(nil)

// =============================================================================
// Identity and Accounts
// =============================================================================

var _ identity.Provider = (*identity.LocalProvider)(nil)
var _ identity.Provider = (*identity.RemoteProvider)(nil)
var _ session.SignInStarter = (identity.Provider)(nil)
var _ http.IdentityProvider = (identity.Provider)(nil)
var _ auth.TokenValidator = (*auth.Service)(nil)
var _ http.TokenIssuer = (*auth.Service)(nil)
var _ http.LoginLimiter = (*auth.RateLimiter)(nil)

// =============================================================================
// Reading Session
// =============================================================================

var _ generation.Client = (*generation.OpenAIClient)(nil)
var _ generation.Client = generation.Unconfigured{}
var _ http.SessionController = (*session.Controller)(nil)
