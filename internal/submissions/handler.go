package submissions

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"taxintake-backend/internal/shared/server/respond"
)

const maxSubmissionSize = 25 << 20 // form fields plus all attached documents

// Handler wires the submission form and listing API to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterFormRoutes attaches the public form routes.
func (h *Handler) RegisterFormRoutes(r gin.IRoutes) {
	r.GET("/form", h.formPage)
	r.POST("/form", h.submit)
}

// RegisterAPIRoutes attaches the JSON listing to a guarded group.
func (h *Handler) RegisterAPIRoutes(rg *gin.RouterGroup) {
	rg.GET("/submissions", h.listJSON)
}

type formView struct {
	Values  SubmissionInput
	Error   string
	Success bool
}

func (h *Handler) formPage(c *gin.Context) {
	c.HTML(http.StatusOK, "form.html", formView{})
}

func (h *Handler) submit(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSubmissionSize)

	input := SubmissionInput{
		BusinessName: c.PostForm("businessName"),
		OwnerName:    c.PostForm("ownerName"),
		Email:        c.PostForm("email"),
		Phone:        c.PostForm("phone"),
		Location:     c.PostForm("location"),
		BusinessType: c.PostForm("businessType"),
		PreparerName: c.PostForm("preparerName"),
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.HTML(http.StatusBadRequest, "form.html", formView{
			Values: input,
			Error:  "Could not read the submitted form. Please try again.",
		})
		return
	}

	var files []FileUpload
	var closers []interface{ Close() error }
	defer func() {
		for _, closer := range closers {
			_ = closer.Close()
		}
	}()
	for _, header := range form.File["documents"] {
		f, err := header.Open()
		if err != nil {
			c.HTML(http.StatusBadRequest, "form.html", formView{
				Values: input,
				Error:  "Could not read an attached document. Please try again.",
			})
			return
		}
		closers = append(closers, f)
		files = append(files, FileUpload{Name: header.Filename, Content: f})
	}

	_, err = h.Svc.Submit(c.Request.Context(), input, files)
	if err == nil {
		c.HTML(http.StatusOK, "form.html", formView{Success: true})
		return
	}

	// A failed submission re-renders the form with the fields intact.
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		c.HTML(http.StatusBadRequest, "form.html", formView{
			Values: input,
			Error:  validationMessage(verr),
		})
	default:
		var uerr *UploadError
		if errors.As(err, &uerr) {
			c.HTML(http.StatusBadGateway, "form.html", formView{
				Values: input,
				Error:  "File upload failed. Please try again.",
			})
			return
		}
		c.HTML(http.StatusBadGateway, "form.html", formView{
			Values: input,
			Error:  "Failed to save tax details. Please try again.",
		})
	}
}

func validationMessage(verr *ValidationError) string {
	switch verr.Field {
	case "email":
		return "Please enter a valid email address."
	case "phone":
		return "Please enter a valid phone number."
	case "documents":
		return "Please upload at least one document."
	default:
		return "Please check the form and try again."
	}
}

func (h *Handler) listJSON(c *gin.Context) {
	subs, err := h.Svc.List(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list submissions", nil)
		return
	}

	resp := make([]SubmissionResponse, 0, len(subs))
	for _, sub := range subs {
		resp = append(resp, toResponse(sub))
	}
	respond.JSON(c, http.StatusOK, resp)
}
