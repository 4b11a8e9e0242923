package entities

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"letterdesk/internal/files"
	"letterdesk/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterFileRoutes attaches the entity view of a resume under the
// files group, matching the route shape of the upload surface.
func (h *Handler) RegisterFileRoutes(rg *gin.RouterGroup) {
	rg.GET("/resume/:id/entities", h.forResume)
}

// RegisterRoutes attaches the selection routes to the entities group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/resume/:id/select", h.saveSelection)
	rg.GET("/resume/:id/selected", h.selected)
}

func (h *Handler) forResume(c *gin.Context) {
	ents, sel, err := h.Svc.ForResume(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, files.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "Resume file not found.", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to extract entities", nil)
		return
	}
	respond.OK(c, gin.H{"entities": ents, "selected": sel})
}

func (h *Handler) saveSelection(c *gin.Context) {
	var sel Selection
	if err := c.ShouldBindJSON(&sel); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	err := h.Svc.SaveSelection(c.Request.Context(), c.Param("id"), sel)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "Entity list cannot be empty.", nil)
		case errors.Is(err, files.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "Resume file not found.", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal", "failed to save selection", nil)
		}
		return
	}
	respond.OK(c, gin.H{"status": "success", "message": "Entities selected."})
}

func (h *Handler) selected(c *gin.Context) {
	sel, err := h.Svc.Selection(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, files.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "Resume file not found.", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to load selection", nil)
		return
	}
	respond.OK(c, gin.H{"data": sel})
}
