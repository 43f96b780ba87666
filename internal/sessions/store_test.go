package sessions

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"taxintake-backend/internal/identity"
)

func TestWriteThenRead(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := NewStore(true)

	router := gin.New()
	router.GET("/set", func(c *gin.Context) {
		store.Write(c, identity.Session{AccessToken: "acc", RefreshToken: "ref"})
		c.Status(http.StatusOK)
	})
	router.GET("/get", func(c *gin.Context) {
		creds, ok := store.Read(c)
		if !ok {
			c.Status(http.StatusUnauthorized)
			return
		}
		c.String(http.StatusOK, creds.AccessToken+":"+creds.RefreshToken)
	})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/set", nil))

	cookies := resp.Result().Cookies()
	if len(cookies) != 2 {
		t.Fatalf("expected 2 cookies, got %d", len(cookies))
	}
	for _, cookie := range cookies {
		if cookie.Path != "/" {
			t.Errorf("cookie %s path = %q, want /", cookie.Name, cookie.Path)
		}
		if !cookie.Secure {
			t.Errorf("cookie %s should be secure", cookie.Name)
		}
		if cookie.SameSite != http.SameSiteStrictMode {
			t.Errorf("cookie %s samesite = %v, want strict", cookie.Name, cookie.SameSite)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/get", nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if got := resp.Body.String(); got != "acc:ref" {
		t.Fatalf("expected acc:ref, got %q", got)
	}
}

func TestReadMissingAccessToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := NewStore(false)

	router := gin.New()
	router.GET("/get", func(c *gin.Context) {
		if _, ok := store.Read(c); ok {
			c.Status(http.StatusOK)
			return
		}
		c.Status(http.StatusUnauthorized)
	})

	// A refresh token alone does not count as stored credentials.
	req := httptest.NewRequest(http.MethodGet, "/get", nil)
	req.AddCookie(&http.Cookie{Name: RefreshCookie, Value: "ref"})
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestClearExpiresBothCookies(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := NewStore(true)

	router := gin.New()
	router.GET("/clear", func(c *gin.Context) {
		store.Clear(c)
		c.Status(http.StatusOK)
	})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/clear", nil))

	cleared := 0
	for _, cookie := range resp.Result().Cookies() {
		if cookie.Name != AccessCookie && cookie.Name != RefreshCookie {
			continue
		}
		if cookie.MaxAge >= 0 || cookie.Value != "" {
			t.Errorf("cookie %s not cleared: value=%q maxAge=%d", cookie.Name, cookie.Value, cookie.MaxAge)
		}
		cleared++
	}
	if cleared != 2 {
		t.Fatalf("expected both cookies cleared, got %d", cleared)
	}
	if !strings.Contains(resp.Header().Get("Set-Cookie"), AccessCookie) {
		t.Fatalf("expected Set-Cookie headers present")
	}
}
