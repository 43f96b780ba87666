package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"taxintake-backend/internal/identity"
	"taxintake-backend/internal/sessions"
	"taxintake-backend/internal/shared/metrics"
	"taxintake-backend/internal/shared/telemetry"
)

const (
	sessionEmailKey = "sessionEmail"

	// SignInPath is where unauthenticated traffic lands.
	SignInPath = "/auth"
	// ProtectedRoot is where an already-authenticated visit to the
	// sign-in page lands.
	ProtectedRoot = "/admin"
)

// Decision is the outcome of one guard evaluation.
type Decision struct {
	Allow      bool
	RedirectTo string
}

// ValidateFunc confirms a credential pair against the identity provider.
type ValidateFunc func(ctx context.Context, accessToken, refreshToken string) (identity.Session, error)

// Decide evaluates the guard for one navigation. With no access token the
// provider is never consulted; otherwise the pair must validate. The
// returned session is only meaningful when the decision allows.
func Decide(ctx context.Context, creds sessions.Credentials, ok bool, validate ValidateFunc) (Decision, identity.Session) {
	if !ok || creds.AccessToken == "" {
		return Decision{RedirectTo: SignInPath}, identity.Session{}
	}

	sess, err := validate(ctx, creds.AccessToken, creds.RefreshToken)
	if err != nil {
		return Decision{RedirectTo: SignInPath}, identity.Session{}
	}
	return Decision{Allow: true}, sess
}

// Guard protects a route group: unauthenticated or rejected sessions are
// redirected to the sign-in page. Runs on every matching request; nothing
// is cached between requests.
func Guard(store *sessions.Store, gateway identity.Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		creds, ok := store.Read(c)
		decision, sess := Decide(c.Request.Context(), creds, ok, gateway.Validate)
		if !decision.Allow {
			metrics.IncGuardRedirect()
			telemetry.Info("guard.redirect", map[string]any{
				"request_id": RequestIDFromContext(c),
				"path":       c.Request.URL.Path,
			})
			c.Redirect(http.StatusFound, decision.RedirectTo)
			c.Abort()
			return
		}

		// Validation may have rotated the tokens.
		if sess.AccessToken != creds.AccessToken || sess.RefreshToken != creds.RefreshToken {
			store.Write(c, sess)
		}
		c.Set(sessionEmailKey, sess.Email)
		c.Next()
	}
}

// RedirectAuthed sends a visitor who already holds a valid session away
// from the sign-in page and into the protected section.
func RedirectAuthed(store *sessions.Store, gateway identity.Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		creds, ok := store.Read(c)
		decision, _ := Decide(c.Request.Context(), creds, ok, gateway.Validate)
		if decision.Allow {
			c.Redirect(http.StatusFound, ProtectedRoot)
			c.Abort()
			return
		}
		c.Next()
	}
}

// SessionEmailFromContext fetches the signed-in email set by Guard.
func SessionEmailFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(sessionEmailKey)
	if email, ok := val.(string); ok {
		return email
	}
	return ""
}
