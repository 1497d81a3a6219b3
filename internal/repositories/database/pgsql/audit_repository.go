package pgsql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/schoolworks/fee_billing_app/internal/core/domain"
	portsrepo "github.com/schoolworks/fee_billing_app/internal/core/ports/repositories"
)

type PgxAuditRepository struct {
	BaseRepository
}

// newPgxAuditRepository creates a new repository for the audit trail.
func newPgxAuditRepository(pool *pgxpool.Pool) portsrepo.AuditRecorder {
	return &PgxAuditRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAuditRepository implements portsrepo.AuditRecorder
var _ portsrepo.AuditRecorder = (*PgxAuditRepository)(nil)

func (r *PgxAuditRepository) RecordAuditEvent(ctx context.Context, event domain.AuditEvent) error {
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO audit_logs (event_id, action, entity_type, entity_id, actor_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`,
		event.EventID,
		event.Action,
		event.EntityType,
		event.EntityID,
		event.ActorID,
		event.Details,
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record audit event %s for %s %s: %w", event.Action, event.EntityType, event.EntityID, err)
	}
	return nil
}

func (r *PgxAuditRepository) ListAuditEventsByEntity(ctx context.Context, entityType, entityID string) ([]domain.AuditEvent, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT event_id, action, entity_type, entity_id, actor_id, details, created_at
		FROM audit_logs
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY created_at DESC;
	`, entityType, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit events for %s %s: %w", entityType, entityID, err)
	}
	defer rows.Close()

	events := []domain.AuditEvent{}
	for rows.Next() {
		var e domain.AuditEvent
		var details sql.NullString
		if err := rows.Scan(
			&e.EventID,
			&e.Action,
			&e.EntityType,
			&e.EntityID,
			&e.ActorID,
			&details,
			&e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan audit event row: %w", err)
		}
		e.Details = details.String
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit event rows: %w", err)
	}
	return events, nil
}
