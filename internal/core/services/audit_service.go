package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/schoolworks/fee_billing_app/internal/apperrors"
	"github.com/schoolworks/fee_billing_app/internal/core/domain"
	portsrepo "github.com/schoolworks/fee_billing_app/internal/core/ports/repositories"
	portssvc "github.com/schoolworks/fee_billing_app/internal/core/ports/services"
	"github.com/schoolworks/fee_billing_app/internal/middleware"
)

// auditService reads back the audit trail the other services write.
type auditService struct {
	auditRepo portsrepo.AuditRecorder
}

// NewAuditService creates a new AuditService.
func NewAuditService(auditRepo portsrepo.AuditRecorder) portssvc.AuditSvc {
	return &auditService{auditRepo: auditRepo}
}

// Ensure auditService implements the portssvc.AuditSvc interface
var _ portssvc.AuditSvc = (*auditService)(nil)

func (s *auditService) ListAuditEventsByEntity(ctx context.Context, entityType string, entityID string) ([]domain.AuditEvent, error) {
	if entityType == "" || entityID == "" {
		return nil, apperrors.NewValidationFailedError("entityType and entityID are required")
	}
	events, err := s.auditRepo.ListAuditEventsByEntity(ctx, entityType, entityID)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to list audit events",
			slog.String("error", err.Error()),
			slog.String("entity_type", entityType),
			slog.String("entity_id", entityID))
		return nil, fmt.Errorf("failed to list audit events: %w", err)
	}
	if events == nil {
		return []domain.AuditEvent{}, nil
	}
	return events, nil
}
