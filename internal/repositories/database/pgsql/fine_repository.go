package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/schoolworks/fee_billing_app/internal/apperrors"
	"github.com/schoolworks/fee_billing_app/internal/core/domain"
	portsrepo "github.com/schoolworks/fee_billing_app/internal/core/ports/repositories"
	"github.com/schoolworks/fee_billing_app/internal/models"
	"github.com/schoolworks/fee_billing_app/internal/utils/mapping"
)

type PgxFineTierRepository struct {
	BaseRepository
}

// newPgxFineTierRepository creates a new repository for fine tier data.
func newPgxFineTierRepository(pool *pgxpool.Pool) portsrepo.FineTierRepositoryFacade {
	return &PgxFineTierRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxFineTierRepository implements portsrepo.FineTierRepositoryFacade
var _ portsrepo.FineTierRepositoryFacade = (*PgxFineTierRepository)(nil)

const fineTierColumns = `fine_id, class_id, days_after_due, fine_type, fine_value, is_active,
	created_at, created_by, last_updated_at, last_updated_by`

func scanFineTier(row pgx.Row) (*models.FineTier, error) {
	var m models.FineTier
	err := row.Scan(
		&m.FineID,
		&m.ClassID,
		&m.DaysAfterDue,
		&m.FineType,
		&m.FineValue,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgxFineTierRepository) SaveFineTier(ctx context.Context, tier domain.FineTier) error {
	m := mapping.ToModelFineTier(tier)
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO fine_structures (fine_id, class_id, days_after_due, fine_type, fine_value, is_active,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`,
		m.FineID,
		m.ClassID,
		m.DaysAfterDue,
		m.FineType,
		m.FineValue,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: fine tier for class %s at %d days already exists", apperrors.ErrDuplicate, m.ClassID, m.DaysAfterDue)
		}
		return fmt.Errorf("failed to save fine tier %s: %w", m.FineID, err)
	}
	return nil
}

func (r *PgxFineTierRepository) FindFineTierByID(ctx context.Context, fineID string) (*domain.FineTier, error) {
	query := `SELECT ` + fineTierColumns + ` FROM fine_structures WHERE fine_id = $1;`
	m, err := scanFineTier(r.Pool.QueryRow(ctx, query, fineID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find fine tier by ID %s: %w", fineID, err)
	}
	t := mapping.ToDomainFineTier(*m)
	return &t, nil
}

func (r *PgxFineTierRepository) queryFineTiers(ctx context.Context, query string, args ...any) ([]domain.FineTier, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query fine tiers: %w", err)
	}
	defer rows.Close()

	tiers := []models.FineTier{}
	for rows.Next() {
		m, err := scanFineTier(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fine tier row: %w", err)
		}
		tiers = append(tiers, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fine tier rows: %w", err)
	}
	return mapping.ToDomainFineTierSlice(tiers), nil
}

func (r *PgxFineTierRepository) ListFineTiersByClass(ctx context.Context, classID string) ([]domain.FineTier, error) {
	query := `SELECT ` + fineTierColumns + ` FROM fine_structures WHERE class_id = $1 AND is_active = TRUE ORDER BY days_after_due;`
	return r.queryFineTiers(ctx, query, classID)
}

// FindApplicableTiers returns the escalation tiers already crossed, most
// escalated first; callers take the first row as the tier in effect.
func (r *PgxFineTierRepository) FindApplicableTiers(ctx context.Context, classID string, daysOverdue int) ([]domain.FineTier, error) {
	query := `
		SELECT ` + fineTierColumns + `
		FROM fine_structures
		WHERE class_id = $1 AND is_active = TRUE AND days_after_due <= $2
		ORDER BY days_after_due DESC;
	`
	return r.queryFineTiers(ctx, query, classID, daysOverdue)
}

func (r *PgxFineTierRepository) UpdateFineTier(ctx context.Context, tier domain.FineTier) error {
	m := mapping.ToModelFineTier(tier)
	tag, err := r.Pool.Exec(ctx, `
		UPDATE fine_structures
		SET fine_type = $2, fine_value = $3, is_active = $4, last_updated_at = $5, last_updated_by = $6
		WHERE fine_id = $1;
	`,
		m.FineID,
		m.FineType,
		m.FineValue,
		m.IsActive,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update fine tier %s: %w", m.FineID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
