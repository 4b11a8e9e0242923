package letters

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"letterdesk/internal/files"
	"letterdesk/internal/shared/server/respond"
)

// Handler exposes letter generation and retrieval over HTTP.
type Handler struct {
	Service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.generate)
	rg.GET("/letter/:id", h.download)
	rg.DELETE("/letter/:id", h.delete)
	rg.GET("/resume/:id/letters", h.listForResume)
}

func (h *Handler) generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid request body", err.Error())
		return
	}

	letter, err := h.Service.Generate(c.Request.Context(), GenerateInput{
		PrincipalResumeID:  req.Personalities.Principal.Resume.FileID,
		GranteeResumeID:    req.Personalities.Grantee.Resume.FileID,
		Circumstances:      req.Personalities.Circumstances,
		RecommendationType: req.Recommendation.Type,
		Directives:         req.Recommendation.Directives,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrSamePair):
			respond.Error(c, http.StatusBadRequest, "same_pair", "Principal and grantee cannot be the same resume.", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "invalid_request", err.Error(), nil)
		case errors.Is(err, files.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "resume not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to generate letter", nil)
		}
		return
	}

	respond.JSON(c, http.StatusCreated, gin.H{"letter_id": letter.LetterID})
}

func (h *Handler) download(c *gin.Context) {
	letter, body, err := h.Service.Open(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "letter not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to open letter", nil)
		return
	}
	defer body.Close()

	c.Header("Content-Disposition", `attachment; filename="`+letter.Filename+"."+letter.FileExtension+`"`)
	c.Header("Content-Type", docxMime)
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, body)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.Service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "letter not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to delete letter", nil)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listForResume(c *gin.Context) {
	lettersList, err := h.Service.ListByResume(c.Request.Context(), c.Param("id"))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list letters", nil)
		return
	}

	out := make([]letterResponse, 0, len(lettersList))
	for _, letter := range lettersList {
		out = append(out, toResponse(letter))
	}
	respond.JSON(c, http.StatusOK, gin.H{"letters": out})
}
