package repositories

import (
	"context"

	"github.com/schoolworks/fee_billing_app/internal/core/domain"
)

// AuditRecorder persists billing audit events. Recording is best-effort
// from the caller's point of view; failures are logged, not propagated.
type AuditRecorder interface {
	RecordAuditEvent(ctx context.Context, event domain.AuditEvent) error
	ListAuditEventsByEntity(ctx context.Context, entityType string, entityID string) ([]domain.AuditEvent, error)
}
