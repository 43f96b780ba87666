package sessions

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taxintake-backend/internal/identity"
)

// Cookie names for the stored credential pair.
const (
	AccessCookie  = "sb-access-token"
	RefreshCookie = "sb-refresh-token"
)

// Credentials is the raw token pair read back from client storage. It says
// nothing about validity; that is the identity gateway's call.
type Credentials struct {
	AccessToken  string
	RefreshToken string
}

// Store reads and writes the session cookie pair. Cookies are scoped to
// path "/", SameSite strict, and marked Secure outside dev-like
// environments so local HTTP still works.
type Store struct {
	secure bool
}

// NewStore constructs a Store.
func NewStore(secure bool) *Store {
	return &Store{secure: secure}
}

// Read returns the stored credential pair. The second return is false when
// no access token is present.
func (s *Store) Read(c *gin.Context) (Credentials, bool) {
	access, err := c.Cookie(AccessCookie)
	if err != nil || access == "" {
		return Credentials{}, false
	}
	refresh, _ := c.Cookie(RefreshCookie)
	return Credentials{AccessToken: access, RefreshToken: refresh}, true
}

// Write persists a session into the cookie pair.
func (s *Store) Write(c *gin.Context, sess identity.Session) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(AccessCookie, sess.AccessToken, 0, "/", "", s.secure, true)
	c.SetCookie(RefreshCookie, sess.RefreshToken, 0, "/", "", s.secure, true)
}

// Clear removes both cookies.
func (s *Store) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(AccessCookie, "", -1, "/", "", s.secure, true)
	c.SetCookie(RefreshCookie, "", -1, "/", "", s.secure, true)
}
