// Package dashboard renders the guarded admin views.
package dashboard

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taxintake-backend/internal/identity"
	"taxintake-backend/internal/sessions"
	"taxintake-backend/internal/shared/server/middleware"
	"taxintake-backend/internal/shared/telemetry"
	"taxintake-backend/internal/submissions"
)

// Handler serves the admin table and the sign-out action.
type Handler struct {
	Subs     *submissions.Service
	Gateway  identity.Gateway
	Sessions *sessions.Store
}

// NewHandler constructs a Handler.
func NewHandler(subs *submissions.Service, gateway identity.Gateway, store *sessions.Store) *Handler {
	return &Handler{Subs: subs, Gateway: gateway, Sessions: store}
}

// RegisterRoutes attaches the admin pages to a guarded group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.page)
	rg.POST("/signout", h.signOut)
}

type documentLink struct {
	Name string
	URL  string
}

type dashboardView struct {
	Email       string
	Submissions []submissions.Submission
	Documents   []documentLink
}

func (h *Handler) page(c *gin.Context) {
	view := dashboardView{Email: middleware.SessionEmailFromContext(c)}

	subs, err := h.Subs.List(c.Request.Context())
	if err != nil {
		telemetry.Error("dashboard.list_submissions", map[string]any{"error": err.Error()})
		c.HTML(http.StatusInternalServerError, "admin.html", view)
		return
	}
	view.Submissions = subs

	// A listing failure leaves the table usable without the document
	// section rather than failing the whole page.
	names, err := h.Subs.ListStoredObjectNames(c.Request.Context())
	if err != nil {
		telemetry.Warn("dashboard.list_documents", map[string]any{"error": err.Error()})
	}
	for _, name := range names {
		link := documentLink{Name: name}
		if url, ok := h.Subs.ResolvePublicURL(name); ok {
			link.URL = url
		}
		view.Documents = append(view.Documents, link)
	}

	c.HTML(http.StatusOK, "admin.html", view)
}

func (h *Handler) signOut(c *gin.Context) {
	if creds, ok := h.Sessions.Read(c); ok {
		if err := h.Gateway.SignOut(c.Request.Context(), creds.AccessToken); err != nil {
			// Local cookies are cleared regardless so the browser
			// session ends even when the provider call fails.
			telemetry.Warn("dashboard.signout", map[string]any{"error": err.Error()})
		}
	}
	h.Sessions.Clear(c)
	c.Redirect(http.StatusFound, middleware.SignInPath)
}
