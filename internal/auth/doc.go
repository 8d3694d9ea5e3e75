// Package auth provides authentication for the document API.
//
// Readers that use this server as their remote backend sign in by
// exchanging a username and password for an API token, then send the
// token as a Bearer header on every document request. Only the token's
// SHA-256 hash is stored.
//
// # Configuration
//
//	AUTH_BCRYPT_COST=12          # bcrypt cost factor for passwords
//	AUTH_TOKEN_EXPIRY=720h       # API token lifetime (30 days default)
//	AUTH_CSRF_SECRET=<32 bytes>  # Enables CSRF protection for reader routes
//	AUTH_SECURE_COOKIES=true     # HTTPS-only CSRF cookie
//
// # Usage
//
//	authService := auth.NewService(users.NewRepository(db.DB), cfg.Auth)
//	bearer := auth.NewMiddleware(authService)
//	documents := router.Group("/api/flashcards", bearer.Handler())
//
// Extract the account in handlers:
//
//	uid := auth.GetOwnerUID(c)
package auth
