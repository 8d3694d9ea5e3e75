package entrypoint

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mrlokans/interlinear/internal/annotations"
	"github.com/mrlokans/interlinear/internal/auth"
	"github.com/mrlokans/interlinear/internal/config"
	"github.com/mrlokans/interlinear/internal/database"
	"github.com/mrlokans/interlinear/internal/database/flashcards"
	"github.com/mrlokans/interlinear/internal/database/users"
	"github.com/mrlokans/interlinear/internal/generation"
	http_controllers "github.com/mrlokans/interlinear/internal/http"
	"github.com/mrlokans/interlinear/internal/identity"
	"github.com/mrlokans/interlinear/internal/session"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// kill (no param) sends SIGTERM, kill -2 is SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	// Stop background work only after in-flight requests have drained.
	if onShutdown != nil {
		onShutdown(ctx)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Interlinear v%s", version)

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	local, err := annotations.NewLocalBackend(flashcards.NewRepository(db.DB))
	if err != nil {
		log.Fatalf("Failed to initialize local flashcard store: %v", err)
	}

	// The backend choice is made once here and never revisited.
	var provider identity.Provider
	var remote annotations.Backend
	if cfg.Remote.Configured() {
		remoteProvider, err := identity.NewRemoteProvider(cfg.Remote)
		if err != nil {
			log.Fatalf("Failed to initialize remote identity: %v", err)
		}
		provider = remoteProvider
		remote = annotations.NewRemoteBackend(cfg.Remote.URL, cfg.Remote.Timeout, remoteProvider)
		log.Printf("Flashcard backend: remote (%s)", cfg.Remote.URL)
	} else {
		localProvider, err := identity.NewLocalProvider(db)
		if err != nil {
			log.Fatalf("Failed to initialize local identity: %v", err)
		}
		provider = localProvider
		log.Printf("Flashcard backend: local (set REMOTE_URL to use a document server)")
	}
	store := annotations.NewStore(local, remote)

	var gen generation.Client = generation.Unconfigured{}
	if cfg.Generation.Configured() {
		client, err := generation.NewOpenAIClient(cfg.Generation)
		if err != nil {
			log.Fatalf("Failed to initialize generation client: %v", err)
		}
		gen = client
	} else {
		log.Printf("WARNING: GENERATION_API_KEY is not set. Chapters and word analyses will fail until it is configured.")
	}

	ctrl := session.New(gen, store, provider, session.Options{
		InitialBook:    cfg.Reader.InitialBook,
		InitialChapter: cfg.Reader.InitialChapter,
	})
	unsubscribe := provider.Subscribe(ctrl.SetIdentity)
	if err := ctrl.Start(); err != nil {
		log.Fatalf("Failed to start reading session: %v", err)
	}

	routerCfg := http_controllers.RouterConfig{
		Session:          ctrl,
		Identity:         provider,
		Flashcards:       store,
		CSRFSecret:       csrfSecret(cfg.Auth.CSRFSecret),
		SecureCookies:    cfg.Auth.SecureCookies,
		Database:         db,
		Version:          version,
		GenerationReady:  cfg.Generation.Configured(),
		RemoteConfigured: cfg.Remote.Configured(),
	}

	var rateLimiter *auth.RateLimiter
	if cfg.Documents.Enabled {
		documents, err := annotations.NewCollection(flashcards.NewRepository(db.DB), func(int64) string {
			return uuid.NewString()
		})
		if err != nil {
			log.Fatalf("Failed to initialize document store: %v", err)
		}

		authService := auth.NewService(users.NewRepository(db.DB), cfg.Auth)
		rateLimiter = auth.NewRateLimiter(cfg.Auth)

		routerCfg.Documents = documents
		routerCfg.Tokens = authService
		routerCfg.Validator = authService
		routerCfg.RateLimiter = rateLimiter

		if hasUsers, _ := authService.HasUsers(); !hasUsers {
			log.Printf("Document API enabled but no accounts exist. Create one with 'create-user'.")
		}
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		unsubscribe()
		ctrl.Close()
		if rateLimiter != nil {
			rateLimiter.Stop()
		}
	}

	Serve(router, cfg, onShutdown)
}

// csrfSecret accepts a hex-encoded or raw secret. Empty disables CSRF.
func csrfSecret(configured string) []byte {
	if configured == "" {
		log.Printf("AUTH_CSRF_SECRET is not set. Reader routes are not CSRF-protected.")
		return nil
	}
	if secret, err := hex.DecodeString(configured); err == nil {
		return secret
	}
	return []byte(configured)
}
