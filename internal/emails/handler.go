package emails

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"docintake/internal/documents"
	"docintake/internal/shared/server/respond"
	"docintake/internal/shared/telemetry"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches email routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/send-email", h.send)
	rg.GET("/email-history", h.history)
}

func (h *Handler) send(c *gin.Context) {
	var req SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	c.Set("documentId", *req.DocumentID)

	entry, err := h.Svc.Send(c.Request.Context(), *req.DocumentID, req.Recipient, req.Message)
	if err != nil {
		if errors.Is(err, documents.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "Document not found", nil)
			return
		}
		telemetry.Error("email.record.failed", map[string]any{"document_id": *req.DocumentID, "error": err})
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to record email", nil)
		return
	}

	respond.OK(c, SendResponse{Status: entry.Status})
}

func (h *Handler) history(c *gin.Context) {
	entries, err := h.Svc.History(c.Request.Context())
	if err != nil {
		telemetry.Error("email.history.failed", map[string]any{"error": err})
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list email history", nil)
		return
	}

	resp := make([]EntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, toResponse(e))
	}
	respond.OK(c, resp)
}
