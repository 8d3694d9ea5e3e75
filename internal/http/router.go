package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/interlinear/internal/auth"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// The reader surface is registered when a session is configured, the
// document API when a document store is configured.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Apply security headers to all responses
	router.Use(auth.SecurityHeadersMiddleware())
	if cfg.SecureCookies {
		router.Use(auth.StrictTransportSecurityMiddleware())
	}

	health := NewHealthController(cfg.Database, cfg.Version, cfg.GenerationReady, cfg.RemoteConfigured)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	if cfg.Session != nil {
		registerReaderRoutes(router, cfg)
	}
	if cfg.Documents != nil && cfg.Tokens != nil && cfg.Validator != nil {
		registerDocumentRoutes(router, cfg)
	}

	return router
}

func registerReaderRoutes(router *gin.Engine, cfg RouterConfig) {
	api := router.Group("/api")
	if len(cfg.CSRFSecret) > 0 {
		api.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies, cfg.Validator))
	}

	reader := NewReaderController(cfg.Session)
	api.GET("/books", reader.Books)
	api.GET("/session", reader.GetSession)
	api.POST("/session/book", reader.SetBook)
	api.POST("/session/chapter", reader.SetChapter)
	api.POST("/session/retry", reader.Retry)
	api.POST("/session/selection", reader.SelectWord)
	api.DELETE("/session/selection", reader.CloseSelection)
	api.POST("/session/selection/retry", reader.RetryAnalysis)
	api.POST("/session/save", reader.Save)
	api.POST("/session/view-mode", reader.SetViewMode)

	if cfg.Identity != nil && cfg.Flashcards != nil {
		identity := NewIdentityController(cfg.Identity, cfg.Flashcards)
		api.GET("/identity", identity.GetIdentity)
		api.POST("/identity/sign-in", identity.SignIn)
		api.POST("/identity/sign-out", identity.SignOut)

		flashcards := NewFlashcardsController(cfg.Identity, cfg.Flashcards)
		api.GET("/me/flashcards", flashcards.List)
		api.DELETE("/me/flashcards/:id", flashcards.Delete)
	}
}

func registerDocumentRoutes(router *gin.Engine, cfg RouterConfig) {
	var limiter LoginLimiter
	tokenHandlers := []gin.HandlerFunc{}
	if cfg.RateLimiter != nil {
		limiter = cfg.RateLimiter
		tokenHandlers = append(tokenHandlers, cfg.RateLimiter.Middleware())
	}

	documents := NewDocumentsController(cfg.Documents, cfg.Tokens, limiter)
	router.POST("/api/auth/token", append(tokenHandlers, documents.IssueToken)...)

	cards := router.Group("/api/flashcards", auth.NewMiddleware(cfg.Validator).Handler())
	cards.GET("", documents.List)
	cards.POST("", documents.Create)
	cards.DELETE("/:id", documents.Delete)
}
