package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

const clientTimeout = 10 * time.Second

// Client talks to a GoTrue-style identity provider over REST. Password
// sign-in and refresh go through the provider's OAuth token endpoint;
// sign-up, sign-out, and user lookup are plain REST calls. The anon API
// key rides along on every request.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  *oauth2.Config
}

// NewClient constructs a Client for the provider at baseURL.
func NewClient(baseURL, anonKey string) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("identity provider URL is required")
	}
	if strings.TrimSpace(anonKey) == "" {
		return nil, fmt.Errorf("identity provider API key is required")
	}

	httpClient := &http.Client{
		Timeout: clientTimeout,
		Transport: &apiKeyTransport{
			key:  anonKey,
			next: http.DefaultTransport,
		},
	}

	return &Client{
		baseURL: baseURL,
		http:    httpClient,
		tokens: &oauth2.Config{
			Endpoint: oauth2.Endpoint{
				TokenURL:  baseURL + "/auth/v1/token",
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
	}, nil
}

// SignUp registers a new account and returns the session the provider
// issued for it.
func (c *Client) SignUp(ctx context.Context, email, password string) (Session, error) {
	if email == "" || password == "" {
		return Session{}, &AuthError{Message: "email and password are required"}
	}

	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return Session{}, fmt.Errorf("marshal signup request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/v1/signup", bytes.NewReader(body))
	if err != nil {
		return Session{}, fmt.Errorf("build signup request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Session{}, fmt.Errorf("signup request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Session{}, decodeAuthError(resp)
	}

	var payload struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		User         User   `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Session{}, fmt.Errorf("decode signup response: %w", err)
	}
	if payload.AccessToken == "" {
		return Session{}, &AuthError{Message: "account created; email confirmation required before sign-in"}
	}

	return Session{
		AccessToken:  payload.AccessToken,
		RefreshToken: payload.RefreshToken,
		Email:        payload.User.Email,
	}, nil
}

// SignIn exchanges credentials for a session via the password grant.
func (c *Client) SignIn(ctx context.Context, email, password string) (Session, error) {
	if email == "" || password == "" {
		return Session{}, &AuthError{Message: "email and password are required"}
	}

	tok, err := c.tokens.PasswordCredentialsToken(c.oauthContext(ctx), email, password)
	if err != nil {
		return Session{}, wrapTokenError(err)
	}

	return Session{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		Email:        email,
	}, nil
}

// SignOut invalidates the session server-side. Callers remain responsible
// for clearing any locally stored credentials.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/v1/logout", nil)
	if err != nil {
		return fmt.Errorf("build logout request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("logout request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAuthError(resp)
	}
	return nil
}

// Validate confirms a stored credential pair. If the provider rejects the
// access token and a refresh token is present, one refresh is attempted;
// the returned session carries whichever tokens ended up valid.
func (c *Client) Validate(ctx context.Context, accessToken, refreshToken string) (Session, error) {
	if accessToken == "" {
		return Session{}, &AuthError{Message: "missing access token"}
	}

	user, err := c.CurrentUser(ctx, accessToken)
	if err == nil {
		return Session{AccessToken: accessToken, RefreshToken: refreshToken, Email: user.Email}, nil
	}

	var authErr *AuthError
	if !errors.As(err, &authErr) || refreshToken == "" {
		return Session{}, err
	}

	seed := &oauth2.Token{RefreshToken: refreshToken}
	tok, err := c.tokens.TokenSource(c.oauthContext(ctx), seed).Token()
	if err != nil {
		return Session{}, wrapTokenError(err)
	}

	user, err = c.CurrentUser(ctx, tok.AccessToken)
	if err != nil {
		return Session{}, err
	}

	newRefresh := refreshToken
	if tok.RefreshToken != "" {
		newRefresh = tok.RefreshToken
	}
	return Session{AccessToken: tok.AccessToken, RefreshToken: newRefresh, Email: user.Email}, nil
}

// CurrentUser fetches the account behind an access token.
func (c *Client) CurrentUser(ctx context.Context, accessToken string) (User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return User{}, fmt.Errorf("build user request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return User{}, fmt.Errorf("user request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return User{}, decodeAuthError(resp)
	}

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return User{}, fmt.Errorf("decode user response: %w", err)
	}
	return user, nil
}

// oauthContext routes the oauth2 package's token requests through the
// api-key transport.
func (c *Client) oauthContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, c.http)
}

func wrapTokenError(err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		status := 0
		if retrieveErr.Response != nil {
			status = retrieveErr.Response.StatusCode
		}
		msg := providerMessage(retrieveErr.Body)
		if msg == "" {
			msg = "credentials rejected"
		}
		return &AuthError{Status: status, Message: msg}
	}
	return fmt.Errorf("token request: %w", err)
}

func decodeAuthError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 8<<10))
	msg := providerMessage(body)
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &AuthError{Status: resp.StatusCode, Message: msg}
}

// providerMessage pulls a human-readable message out of the provider's
// error body, whichever of its historical field names it used.
func providerMessage(body []byte) string {
	var payload struct {
		ErrorDescription string `json:"error_description"`
		Msg              string `json:"msg"`
		Message          string `json:"message"`
		ErrorField       string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	for _, candidate := range []string{payload.ErrorDescription, payload.Msg, payload.Message, payload.ErrorField} {
		if strings.TrimSpace(candidate) != "" {
			return candidate
		}
	}
	return ""
}

type apiKeyTransport struct {
	key  string
	next http.RoundTripper
}

func (t *apiKeyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.Header.Set("apikey", t.key)
	return t.next.RoundTrip(clone)
}

var _ Gateway = (*Client)(nil)
