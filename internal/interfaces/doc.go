// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - annotations.Repository: flashcard rows, owner-scoped (internal/annotations/collection.go)
//   - auth.UserRepository: document server accounts (internal/auth/service.go)
//   - identity.SettingsStore: the durable identity slot (internal/identity/local.go)
//
// ## Flashcard Storage
//
//   - annotations.Backend: one place flashcards live, local or remote (internal/annotations/backend.go)
//   - annotations.TokenSource: bearer token for the remote backend (internal/annotations/remote.go)
//
// ## External Service Interfaces
//
//   - generation.Client: chapter text and word analyses (internal/generation/client.go)
//   - identity.Provider: sign-in flow and identity change notifications (internal/identity/identity.go)
//
// ## Presentation Boundary
//
//   - http.SessionController, http.IdentityProvider, http.FlashcardStore,
//     http.DocumentStore: what the controllers consume (internal/http/stores.go)
//
// # Adding a New Flashcard Backend
//
//  1. Implement annotations.Backend in internal/annotations/
//
//     type SyncBackend struct {
//         client *http.Client
//     }
//
//     func (b *SyncBackend) Kind() BackendKind
//     func (b *SyncBackend) Create(ctx context.Context, draft Draft) (*entities.Flashcard, error)
//     func (b *SyncBackend) ListByOwner(ctx context.Context, owner string) ([]entities.Flashcard, error)
//     func (b *SyncBackend) Delete(ctx context.Context, id FlashcardID) error
//
//     var _ Backend = (*SyncBackend)(nil)
//
//  2. Choose it in entrypoint.go
//
// # Adding a New Generation Provider
//
//  1. Implement generation.Client in internal/generation/
//
//     func (c *OllamaClient) FetchChapter(ctx context.Context, book string, chapter int) (*entities.ChapterData, error)
//     func (c *OllamaClient) AnalyzeWord(ctx context.Context, word, verseContext string) (*entities.WordAnalysis, error)
//
//     var _ Client = (*OllamaClient)(nil)
//
//  2. Configure in entrypoint.go
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for examples.
package interfaces
