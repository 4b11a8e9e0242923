package research

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

// RegisterRoutes attaches research routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/resume/:id", h.run)
}

func (h *Handler) run(c *gin.Context) {
	data, err := h.Svc.Run(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNoSelection):
			respond.Error(c, http.StatusBadRequest, "validation_error", "No entities selected for research.", nil)
		case errors.Is(err, files.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "Resume file not found.", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal", "research failed", nil)
		}
		return
	}
	respond.OK(c, gin.H{"data": data})
}
