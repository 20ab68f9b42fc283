package documents

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"docintake/internal/shared/server/respond"
	"docintake/internal/shared/telemetry"
	"docintake/internal/shared/util"
)

// multipartOverhead is the allowance for boundaries and part headers on top
// of MaxUploadBytes.
const multipartOverhead = 1 << 20

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches document routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/upload", h.upload)
	rg.GET("/documents", h.list)
	rg.GET("/documents/:id", h.get)
	rg.GET("/documents/:id/file", h.download)
}

func (h *Handler) upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxUploadBytes+multipartOverhead)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		if isBodyTooLarge(err) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "too_large", "File too large (max 10MB)", nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	if fileHeader.Size > MaxUploadBytes {
		respond.Error(c, http.StatusRequestEntityTooLarge, "too_large", "File too large (max 10MB)", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	doc, err := h.Svc.Upload(c.Request.Context(), fileHeader.Filename, file)
	if err != nil {
		switch {
		case errors.Is(err, ErrTooLarge):
			respond.Error(c, http.StatusRequestEntityTooLarge, "too_large", "File too large (max 10MB)", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "file name is required", nil)
		default:
			telemetry.Error("upload.failed", map[string]any{"filename": fileHeader.Filename, "error": err})
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to upload document", nil)
		}
		return
	}

	c.Set("documentId", doc.ID)
	respond.OK(c, UploadResponse{ID: doc.ID, Summary: doc.Summary})
}

func (h *Handler) list(c *gin.Context) {
	docs, err := h.Svc.List(c.Request.Context())
	if err != nil {
		telemetry.Error("documents.list.failed", map[string]any{"error": err})
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list documents", nil)
		return
	}

	resp := make([]DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		resp = append(resp, toResponse(doc))
	}
	respond.OK(c, resp)
}

func (h *Handler) get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	doc, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		h.fetchError(c, err)
		return
	}
	respond.OK(c, toResponse(doc))
}

func (h *Handler) download(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	doc, rc, err := h.Svc.OpenFile(c.Request.Context(), id)
	if err != nil {
		h.fetchError(c, err)
		return
	}
	defer rc.Close()

	contentType := doc.MimeType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	size := doc.SizeBytes
	if size <= 0 {
		size = -1
	}
	c.DataFromReader(http.StatusOK, size, contentType, rc, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=\"%s\"", util.HeaderFileName(doc.FileName)),
	})
}

func (h *Handler) fetchError(c *gin.Context, err error) {
	if errors.Is(err, ErrNotFound) {
		respond.Error(c, http.StatusNotFound, "not_found", "Document not found", nil)
		return
	}
	if errors.Is(err, ErrFileMissing) {
		respond.Error(c, http.StatusNotFound, "file_not_found", "Stored file not found", nil)
		return
	}
	telemetry.Error("documents.fetch.failed", map[string]any{"error": err})
	respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch document", nil)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "document id must be an integer", nil)
		return 0, false
	}
	c.Set("documentId", id)
	return id, true
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return true
	}
	return strings.Contains(err.Error(), "request body too large")
}
