package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/hrdesk/backend/internal/audit"
	"github.com/hrdesk/backend/internal/http/middleware"
	"github.com/hrdesk/backend/internal/identity"
	"github.com/hrdesk/backend/internal/models"
)

// StatusClientClosedRequest is reported when the caller disconnects before
// the reply is ready.
const StatusClientClosedRequest = 499

// ChatService is the orchestrator as seen by the HTTP layer.
type ChatService interface {
	Handle(ctx context.Context, req models.ChatRequest, identity models.IdentityContext) (models.ChatOutcome, error)
}

type Handler struct {
	Chat           ChatService
	Auditor        *audit.Auditor
	Validator      *validator.Validate
	Logger         zerolog.Logger
	RequestTimeout time.Duration
}

type AuditTrail struct {
	CorrelationID string              `json:"correlation_id"`
	Entries       []models.AuditEntry `json:"entries"`
}

// @Summary Health check
// @Description Reports whether the configured audit stores are reachable
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]any
// @Router /healthz [get]
func (h *Handler) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()
	for _, p := range h.Auditor.Pingers() {
		if err := p.Ping(ctx); err != nil {
			writeError(c, http.StatusServiceUnavailable, "AUDIT_STORE_UNAVAILABLE", "Audit store unavailable", err.Error())
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary Send a chat message
// @Description Classifies the message, answers it and flags it for human escalation when needed
// @Tags chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param X-Correlation-ID header string false "Correlation id echoed in the response"
// @Param request body models.ChatRequest true "Chat message"
// @Success 200 {object} models.ChatOutcome
// @Failure 400 {object} map[string]any
// @Failure 401 {object} map[string]any
// @Router /api/chat [post]
func (h *Handler) ChatMessage(c *gin.Context) {
	correlationID := middleware.CorrelationID(c)
	ident, err := identity.Extract(middleware.PrincipalFrom(c), correlationID)
	if err != nil {
		writeError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required", nil)
		return
	}

	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}
	req.SubmittedAt = time.Now().UTC()

	ctx := c.Request.Context()
	h.Auditor.Log(ctx, audit.ActionChatRequest, ident.EmployeeID, correlationID, map[string]any{
		"message":   req.Message,
		"ticketRef": req.TicketRef,
	})

	if h.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.RequestTimeout)
		defer cancel()
	}

	outcome, err := h.Chat.Handle(ctx, req, ident)
	if err != nil {
		h.Auditor.Log(ctx, audit.ActionChatResponse, ident.EmployeeID, correlationID, map[string]any{
			"status": "canceled",
		})
		if errors.Is(err, context.DeadlineExceeded) {
			writeError(c, http.StatusGatewayTimeout, "TIMEOUT", "Request timed out", nil)
			return
		}
		if errors.Is(err, context.Canceled) {
			writeError(c, StatusClientClosedRequest, "CLIENT_CLOSED_REQUEST", "Request canceled", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "CHAT_ERROR", "Chat failed", err.Error())
		return
	}

	h.Auditor.Log(ctx, audit.ActionChatResponse, ident.EmployeeID, correlationID, map[string]any{
		"intent":    outcome.Intent,
		"escalated": outcome.Escalated,
	})
	c.JSON(http.StatusOK, outcome)
}

// @Summary Current identity
// @Description Returns the identity the chat pipeline sees for the caller
// @Tags identity
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.IdentityContext
// @Failure 401 {object} map[string]any
// @Router /api/me [get]
func (h *Handler) Me(c *gin.Context) {
	ident, err := identity.Extract(middleware.PrincipalFrom(c), middleware.CorrelationID(c))
	if err != nil {
		writeError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required", nil)
		return
	}
	c.JSON(http.StatusOK, ident)
}

// @Summary Audit trail
// @Description Lists the audit entries recorded under one correlation id
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param correlation_id path string true "Correlation id"
// @Success 200 {object} AuditTrail
// @Failure 404 {object} map[string]any
// @Failure 501 {object} map[string]any
// @Router /api/admin/audit/{correlation_id} [get]
func (h *Handler) AuditTrail(c *gin.Context) {
	reader, ok := h.Auditor.Reader()
	if !ok {
		writeError(c, http.StatusNotImplemented, "NOT_QUERYABLE", "Configured audit sinks cannot be queried", audit.ErrNotQueryable.Error())
		return
	}
	id := c.Param("correlation_id")
	entries, err := reader.ListByCorrelation(c.Request.Context(), id)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "AUDIT_STORE_ERROR", "Failed to load audit trail", err.Error())
		return
	}
	if len(entries) == 0 {
		writeError(c, http.StatusNotFound, "NOT_FOUND", "No audit entries for correlation id", nil)
		return
	}
	c.JSON(http.StatusOK, AuditTrail{CorrelationID: id, Entries: entries})
}

func writeError(c *gin.Context, status int, code string, message string, details any) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}
