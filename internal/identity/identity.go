package identity

import (
	"context"
	"fmt"
)

// Session is an opaque credential pair issued by the identity provider.
// Holding both tokens is necessary but not sufficient: callers must run
// them through Validate before treating the holder as authenticated.
type Session struct {
	AccessToken  string
	RefreshToken string
	Email        string
}

// User is the provider's view of an authenticated account.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Gateway wraps the identity provider's session operations. Every method
// performs one network round trip; failures surface once, with no retries.
type Gateway interface {
	SignUp(ctx context.Context, email, password string) (Session, error)
	SignIn(ctx context.Context, email, password string) (Session, error)
	SignOut(ctx context.Context, accessToken string) error
	// Validate confirms a stored credential pair against the provider,
	// refreshing with the refresh token when the access token is rejected.
	// The returned session carries the tokens that are now valid.
	Validate(ctx context.Context, accessToken, refreshToken string) (Session, error)
	CurrentUser(ctx context.Context, accessToken string) (User, error)
}

// AuthError carries the provider's rejection verbatim.
type AuthError struct {
	Status  int
	Message string
}

func (e *AuthError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("identity provider: %s (status %d)", e.Message, e.Status)
	}
	return "identity provider: " + e.Message
}
