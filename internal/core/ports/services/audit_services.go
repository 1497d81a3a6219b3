package services

import (
	"context"

	"github.com/schoolworks/fee_billing_app/internal/core/domain"
)

// AuditSvc exposes the audit trail recorded against billing entities.
type AuditSvc interface {
	// ListAuditEventsByEntity returns the audit events recorded for one
	// entity, newest first.
	ListAuditEventsByEntity(ctx context.Context, entityType string, entityID string) ([]domain.AuditEvent, error)
}
