package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"taxintake-backend/internal/identity"
	"taxintake-backend/internal/sessions"
)

type fakeGateway struct {
	signInSession identity.Session
	signInErr     error
	signUpSession identity.Session
	signUpErr     error
}

func (f *fakeGateway) SignUp(ctx context.Context, email, password string) (identity.Session, error) {
	return f.signUpSession, f.signUpErr
}

func (f *fakeGateway) SignIn(ctx context.Context, email, password string) (identity.Session, error) {
	return f.signInSession, f.signInErr
}

func (f *fakeGateway) SignOut(ctx context.Context, accessToken string) error { return nil }

func (f *fakeGateway) Validate(ctx context.Context, accessToken, refreshToken string) (identity.Session, error) {
	return identity.Session{}, &identity.AuthError{Status: 401, Message: "invalid JWT"}
}

func (f *fakeGateway) CurrentUser(ctx context.Context, accessToken string) (identity.User, error) {
	return identity.User{}, nil
}

func newTestRouter(gw identity.Gateway) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.SetHTMLTemplate(Templates())
	h := NewHandler(gw, sessions.NewStore(false))
	h.RegisterPublicRoutes(r)
	h.RegisterAuthRoutes(r, r)
	return r
}

func postForm(r *gin.Engine, path string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func cookieValue(resp *httptest.ResponseRecorder, name string) (string, bool) {
	for _, c := range resp.Result().Cookies() {
		if c.Name == name {
			return c.Value, true
		}
	}
	return "", false
}

func TestLandingPage(t *testing.T) {
	r := newTestRouter(&fakeGateway{})

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "Welcome to Tax Details App") {
		t.Fatalf("landing page missing heading")
	}
}

func TestAuthPageModes(t *testing.T) {
	r := newTestRouter(&fakeGateway{})

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/auth", nil))
	if !strings.Contains(resp.Body.String(), "Sign In") {
		t.Fatalf("expected sign-in page")
	}

	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/auth?mode=signup", nil))
	if !strings.Contains(resp.Body.String(), "Sign Up") {
		t.Fatalf("expected sign-up page")
	}
}

func TestSignInSetsCookiesAndRedirects(t *testing.T) {
	gw := &fakeGateway{signInSession: identity.Session{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		Email:        "admin@example.com",
	}}
	r := newTestRouter(gw)

	resp := postForm(r, "/auth/signin", url.Values{
		"email":    {"admin@example.com"},
		"password": {"secret"},
	})

	if resp.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", resp.Code)
	}
	if loc := resp.Header().Get("Location"); loc != "/admin" {
		t.Fatalf("redirect to %q, want /admin", loc)
	}
	if v, ok := cookieValue(resp, sessions.AccessCookie); !ok || v != "access-1" {
		t.Fatalf("access cookie = %q, %v", v, ok)
	}
	if v, ok := cookieValue(resp, sessions.RefreshCookie); !ok || v != "refresh-1" {
		t.Fatalf("refresh cookie = %q, %v", v, ok)
	}
}

func TestSignInShowsProviderMessage(t *testing.T) {
	gw := &fakeGateway{signInErr: &identity.AuthError{Status: 400, Message: "Invalid login credentials"}}
	r := newTestRouter(gw)

	resp := postForm(r, "/auth/signin", url.Values{
		"email":    {"admin@example.com"},
		"password": {"wrong"},
	})

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
	// The page surfaces the provider's message verbatim.
	if !strings.Contains(resp.Body.String(), "Invalid login credentials") {
		t.Fatalf("provider message missing from page: %s", resp.Body.String())
	}
	if _, ok := cookieValue(resp, sessions.AccessCookie); ok {
		t.Fatalf("no cookies should be set on failed sign-in")
	}
}

func TestSignUpWithImmediateSession(t *testing.T) {
	gw := &fakeGateway{signUpSession: identity.Session{
		AccessToken:  "access-2",
		RefreshToken: "refresh-2",
		Email:        "new@example.com",
	}}
	r := newTestRouter(gw)

	resp := postForm(r, "/auth/signup", url.Values{
		"email":    {"new@example.com"},
		"password": {"secret"},
	})

	if resp.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", resp.Code)
	}
	if _, ok := cookieValue(resp, sessions.AccessCookie); !ok {
		t.Fatalf("expected session cookies after sign-up")
	}
}

func TestSignUpPendingConfirmation(t *testing.T) {
	gw := &fakeGateway{signUpSession: identity.Session{Email: "new@example.com"}}
	r := newTestRouter(gw)

	resp := postForm(r, "/auth/signup", url.Values{
		"email":    {"new@example.com"},
		"password": {"secret"},
	})

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "Check your email") {
		t.Fatalf("expected confirmation notice")
	}
	if _, ok := cookieValue(resp, sessions.AccessCookie); ok {
		t.Fatalf("no cookies without a session")
	}
}

func TestSignUpDuplicateShowsProviderMessage(t *testing.T) {
	gw := &fakeGateway{signUpErr: &identity.AuthError{Status: 422, Message: "User already registered"}}
	r := newTestRouter(gw)

	resp := postForm(r, "/auth/signup", url.Values{
		"email":    {"taken@example.com"},
		"password": {"secret"},
	})

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "User already registered") {
		t.Fatalf("provider message missing from page")
	}
}
