package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
)

// CSRFTokenHeader is the header the reader UI echoes the token back in.
const CSRFTokenHeader = "X-CSRF-Token"

// CSRFMiddleware protects the reader routes with gorilla/csrf.
// Requests carrying a bearer token that the validator accepts are not
// cookie-authenticated and skip the check. A nil validator never skips.
func CSRFMiddleware(secret []byte, secure bool, validator TokenValidator) gin.HandlerFunc {
	protect := csrf.Protect(
		secret,
		csrf.Secure(secure),
		csrf.HttpOnly(true),
		csrf.SameSite(csrf.SameSiteStrictMode),
		csrf.Path("/"),
		csrf.RequestHeader(CSRFTokenHeader),
		csrf.ErrorHandler(http.HandlerFunc(csrfErrorHandler)),
	)

	return func(c *gin.Context) {
		if hasValidBearer(c, validator) {
			c.Next()
			return
		}

		passed := false
		handler := protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			passed = true
			c.Header(CSRFTokenHeader, csrf.Token(r))
			c.Request = r
			c.Next()
		}))

		req := c.Request
		if !secure {
			req = csrf.PlaintextHTTPRequest(req)
		}
		handler.ServeHTTP(c.Writer, req)
		if !passed {
			c.Abort()
		}
	}
}

func csrfErrorHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	_, _ = w.Write([]byte(`{"error":"CSRF token invalid or missing","code":403}`))
}

func hasValidBearer(c *gin.Context, validator TokenValidator) bool {
	if validator == nil {
		return false
	}
	token, ok := BearerToken(c.GetHeader("Authorization"))
	if !ok {
		return false
	}
	_, err := validator.ValidateToken(token)
	return err == nil
}
