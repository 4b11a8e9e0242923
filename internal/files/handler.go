package files

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"letterdesk/internal/shared/server/respond"
)

const defaultMaxUploadSize = 10 << 20 // 10MB

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches resume file routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/resume", h.list)
	rg.POST("/resume", h.upload)
	rg.GET("/resume/:id", h.download)
	rg.DELETE("/resume/:id", h.remove)
}

func (h *Handler) list(c *gin.Context) {
	resumes, err := h.Svc.List(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to list resumes", nil)
		return
	}
	out := make([]resumeResponse, 0, len(resumes))
	for _, r := range resumes {
		out = append(out, toResponse(r))
	}
	respond.OK(c, out)
}

func (h *Handler) upload(c *gin.Context) {
	maxBytes := h.Svc.MaxBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxUploadSize
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}

	resume, created, err := h.Svc.Upload(c.Request.Context(), fileHeader.Filename, content)
	if err != nil {
		switch {
		case errors.Is(err, ErrFileType):
			respond.Error(c, http.StatusBadRequest, "validation_error", "Invalid file type. Only pdf, docx allowed.", nil)
		case errors.Is(err, ErrTooLarge):
			respond.Error(c, http.StatusBadRequest, "validation_error", "File is too large.", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal", "failed to upload resume", nil)
		}
		return
	}

	status := http.StatusCreated
	if !created {
		status = http.StatusOK
	}
	respond.JSON(c, status, gin.H{"file_id": resume.FileID})
}

func (h *Handler) download(c *gin.Context) {
	resume, body, err := h.Svc.Open(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "File not found.", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to open resume", nil)
		return
	}
	defer body.Close()

	c.Header("Content-Disposition", `attachment; filename="`+resume.Filename+"."+resume.FileExtension+`"`)
	c.DataFromReader(http.StatusOK, resume.SizeBytes, resume.MimeType, body, nil)
}

func (h *Handler) remove(c *gin.Context) {
	err := h.Svc.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "File not found.", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to delete resume", nil)
		return
	}
	c.Status(http.StatusNoContent)
}
