package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"taxintake-backend/internal/identity"
	"taxintake-backend/internal/sessions"
	"taxintake-backend/internal/shared/telemetry"
)

// Handler serves the landing page and the sign-in and sign-up flow.
type Handler struct {
	Gateway  identity.Gateway
	Sessions *sessions.Store
}

// NewHandler constructs a Handler.
func NewHandler(gateway identity.Gateway, store *sessions.Store) *Handler {
	return &Handler{Gateway: gateway, Sessions: store}
}

// RegisterPublicRoutes attaches the landing page.
func (h *Handler) RegisterPublicRoutes(r gin.IRoutes) {
	r.GET("/", h.landing)
}

// RegisterAuthRoutes attaches the sign-in page and the credential
// endpoints. The page route should additionally carry the
// redirect-authed middleware so signed-in visitors skip it.
func (h *Handler) RegisterAuthRoutes(page gin.IRoutes, actions gin.IRoutes) {
	page.GET("/auth", h.authPage)
	actions.POST("/auth/signin", h.signIn)
	actions.POST("/auth/signup", h.signUp)
}

type authView struct {
	Email  string
	Error  string
	Notice string
	SignUp bool
}

func (h *Handler) landing(c *gin.Context) {
	c.HTML(http.StatusOK, "landing.html", nil)
}

func (h *Handler) authPage(c *gin.Context) {
	c.HTML(http.StatusOK, "auth.html", authView{SignUp: c.Query("mode") == "signup"})
}

func (h *Handler) signIn(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")

	sess, err := h.Gateway.SignIn(c.Request.Context(), email, password)
	if err != nil {
		c.HTML(authErrorStatus(err), "auth.html", authView{
			Email: email,
			Error: authErrorMessage(err),
		})
		return
	}

	h.Sessions.Write(c, sess)
	telemetry.Info("auth.signin", map[string]any{"email": email})
	c.Redirect(http.StatusFound, "/admin")
}

func (h *Handler) signUp(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")

	sess, err := h.Gateway.SignUp(c.Request.Context(), email, password)
	if err != nil {
		c.HTML(authErrorStatus(err), "auth.html", authView{
			Email:  email,
			Error:  authErrorMessage(err),
			SignUp: true,
		})
		return
	}

	telemetry.Info("auth.signup", map[string]any{"email": email})
	if sess.AccessToken == "" {
		// Providers with email confirmation enabled return no session
		// until the address is verified.
		c.HTML(http.StatusOK, "auth.html", authView{
			Email:  email,
			Notice: "Account created. Check your email to confirm, then sign in.",
		})
		return
	}

	h.Sessions.Write(c, sess)
	c.Redirect(http.StatusFound, "/admin")
}

// authErrorMessage surfaces the provider's own message so the page
// shows the same text the provider returned, falling back to a generic
// line for transport failures.
func authErrorMessage(err error) string {
	var aerr *identity.AuthError
	if errors.As(err, &aerr) && aerr.Message != "" {
		return aerr.Message
	}
	return "An unexpected error occurred. Please try again."
}

func authErrorStatus(err error) int {
	var aerr *identity.AuthError
	if errors.As(err, &aerr) && aerr.Status >= 400 && aerr.Status < 500 {
		return http.StatusUnauthorized
	}
	return http.StatusBadGateway
}
