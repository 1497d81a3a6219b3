package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/schoolworks/fee_billing_app/internal/apperrors"
	portssvc "github.com/schoolworks/fee_billing_app/internal/core/ports/services"
	"github.com/schoolworks/fee_billing_app/internal/dto"
	"github.com/schoolworks/fee_billing_app/internal/middleware"
)

// auditHandler handles HTTP requests for the audit trail.
type auditHandler struct {
	auditService portssvc.AuditSvc
}

func newAuditHandler(as portssvc.AuditSvc) *auditHandler {
	return &auditHandler{auditService: as}
}

// registerAuditRoutes registers routes related to the audit trail.
func registerAuditRoutes(rg *gin.RouterGroup, auditService portssvc.AuditSvc) {
	h := newAuditHandler(auditService)

	rg.GET("/audit-events", h.listAuditEvents)
}

// listAuditEvents godoc
// @Summary List the audit trail of an entity
// @Description Returns the audit events recorded against one entity, newest first
// @Tags audit
// @Produce  json
// @Param   entityType query string true "Entity type, e.g. FeeVoucher"
// @Param   entityID query string true "Entity ID"
// @Success 200 {object} dto.ListAuditEventsResponse
// @Failure 400 {object} map[string]string "Missing entityType or entityID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list audit events"
// @Security BearerAuth
// @Router /audit-events [get]
func (h *auditHandler) listAuditEvents(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	entityType := c.Query("entityType")
	entityID := c.Query("entityID")

	events, err := h.auditService.ListAuditEventsByEntity(c.Request.Context(), entityType, entityID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to list audit events from service",
			slog.String("entity_type", entityType),
			slog.String("entity_id", entityID),
			slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list audit events"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListAuditEventsResponse(events))
}
