package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"sundial/internal/api"
	"sundial/internal/domain"
	"sundial/internal/errors"
	"sundial/internal/validation"
)

// Handler adapts API operations to gin routes
type Handler struct {
	api api.API
}

// NewHandler creates a handler over a
func NewHandler(a api.API) *Handler {
	return &Handler{api: a}
}

// statusFor maps a result onto an HTTP status
func statusFor(result api.Result, created bool) int {
	switch result.Status {
	case api.StatusOK:
		if created {
			return http.StatusCreated
		}
		return http.StatusOK
	case api.StatusUnauthenticated:
		return http.StatusUnauthorized
	case api.StatusNotFound:
		return http.StatusNotFound
	case api.StatusInvalid:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func render(c *gin.Context, result api.Result, created bool) {
	c.JSON(statusFor(result, created), result)
}

// pathID parses the :id segment; anything but a positive integer is not found
func pathID(c *gin.Context, resource string) (int64, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		render(c, api.FromError(errors.NewNotFoundError(resource, raw), nil), false)
		return 0, false
	}
	return id, true
}

func bindFailure(err error) api.Result {
	return api.FromError(errors.NewValidationError("the request body could not be read", err), nil)
}

// Health reports liveness
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Setup creates the caller's Uncategorized root if needed
func (h *Handler) Setup(c *gin.Context) {
	render(c, h.api.Setup(c.Request.Context()), false)
}

// ListCategories handles GET /api/categories
func (h *Handler) ListCategories(c *gin.Context) {
	render(c, h.api.ListCategories(c.Request.Context()), false)
}

// CategoryTree handles GET /api/categories/tree
func (h *Handler) CategoryTree(c *gin.Context) {
	render(c, h.api.CategoryTree(c.Request.Context()), false)
}

// GetCategory handles GET /api/categories/:id
func (h *Handler) GetCategory(c *gin.Context) {
	id, ok := pathID(c, "category")
	if !ok {
		return
	}
	render(c, h.api.GetCategory(c.Request.Context(), id), false)
}

// CreateCategory handles POST /api/categories
func (h *Handler) CreateCategory(c *gin.Context) {
	var form validation.CategoryForm
	if err := c.ShouldBind(&form); err != nil {
		render(c, bindFailure(err), false)
		return
	}
	render(c, h.api.SaveCategory(c.Request.Context(), 0, form), true)
}

// UpdateCategory handles PUT /api/categories/:id
func (h *Handler) UpdateCategory(c *gin.Context) {
	id, ok := pathID(c, "category")
	if !ok {
		return
	}
	var form validation.CategoryForm
	if err := c.ShouldBind(&form); err != nil {
		render(c, bindFailure(err), false)
		return
	}
	render(c, h.api.SaveCategory(c.Request.Context(), id, form), false)
}

// ListEntries handles GET /api/entries?from=&to=&category=&limit=
func (h *Handler) ListEntries(c *gin.Context) {
	opts, ve := searchOptions(c)
	if ve.HasErrors() {
		render(c, api.FromError(errors.NewValidationError("invalid search", ve), nil), false)
		return
	}
	render(c, h.api.ListEntries(c.Request.Context(), opts), false)
}

// GetEntry handles GET /api/entries/:id
func (h *Handler) GetEntry(c *gin.Context) {
	id, ok := pathID(c, "log entry")
	if !ok {
		return
	}
	render(c, h.api.GetEntry(c.Request.Context(), id), false)
}

// CreateEntry handles POST /api/entries
func (h *Handler) CreateEntry(c *gin.Context) {
	var form validation.EntryForm
	if err := c.ShouldBind(&form); err != nil {
		render(c, bindFailure(err), false)
		return
	}
	render(c, h.api.SaveEntry(c.Request.Context(), 0, form), true)
}

// UpdateEntry handles PUT /api/entries/:id
func (h *Handler) UpdateEntry(c *gin.Context) {
	id, ok := pathID(c, "log entry")
	if !ok {
		return
	}
	var form validation.EntryForm
	if err := c.ShouldBind(&form); err != nil {
		render(c, bindFailure(err), false)
		return
	}
	render(c, h.api.SaveEntry(c.Request.Context(), id, form), false)
}

// searchOptions reads the entry filters from the query string
func searchOptions(c *gin.Context) (domain.SearchOptions, *validation.ValidationError) {
	var opts domain.SearchOptions
	ve := validation.NewValidationError()

	if raw := c.Query("from"); raw != "" {
		if t, err := validation.ParseDateTime(raw); err == nil {
			opts.StartTime = &t
		} else {
			ve.AddInvalidFormatError("from", raw, "a date-time")
		}
	}
	if raw := c.Query("to"); raw != "" {
		if t, err := validation.ParseDateTime(raw); err == nil {
			opts.EndTime = &t
		} else {
			ve.AddInvalidFormatError("to", raw, "a date-time")
		}
	}
	if raw := c.Query("category"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil && id > 0 {
			opts.CategoryID = &id
		} else {
			ve.AddInvalidValueError("category", raw, "must be a category id")
		}
	}
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			opts.Limit = n
		} else {
			ve.AddInvalidValueError("limit", raw, "must be a positive integer")
		}
	}
	return opts, ve
}
