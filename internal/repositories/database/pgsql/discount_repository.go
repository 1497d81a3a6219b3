package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/schoolworks/fee_billing_app/internal/apperrors"
	"github.com/schoolworks/fee_billing_app/internal/core/domain"
	portsrepo "github.com/schoolworks/fee_billing_app/internal/core/ports/repositories"
	"github.com/schoolworks/fee_billing_app/internal/models"
	"github.com/schoolworks/fee_billing_app/internal/utils/mapping"
)

type PgxDiscountRepository struct {
	BaseRepository
}

// newPgxDiscountRepository creates a new repository for student discount data.
func newPgxDiscountRepository(pool *pgxpool.Pool) portsrepo.DiscountRepositoryFacade {
	return &PgxDiscountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxDiscountRepository implements portsrepo.DiscountRepositoryFacade
var _ portsrepo.DiscountRepositoryFacade = (*PgxDiscountRepository)(nil)

const discountColumns = `discount_id, student_id, fee_category_id, discount_type, discount_value, reason, valid_from, valid_to, is_active,
	created_at, created_by, last_updated_at, last_updated_by`

func scanDiscount(row pgx.Row) (*models.StudentDiscount, error) {
	var m models.StudentDiscount
	var reason sql.NullString
	var validTo sql.NullTime

	err := row.Scan(
		&m.DiscountID,
		&m.StudentID,
		&m.FeeCategoryID,
		&m.DiscountType,
		&m.DiscountValue,
		&reason,
		&m.ValidFrom,
		&validTo,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	m.Reason = reason.String
	if validTo.Valid {
		t := validTo.Time
		m.ValidTo = &t
	}
	return &m, nil
}

func (r *PgxDiscountRepository) SaveDiscount(ctx context.Context, discount domain.StudentDiscount) error {
	m := mapping.ToModelDiscount(discount)
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO student_discounts (discount_id, student_id, fee_category_id, discount_type, discount_value, reason, valid_from, valid_to, is_active,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`,
		m.DiscountID,
		m.StudentID,
		m.FeeCategoryID,
		m.DiscountType,
		m.DiscountValue,
		m.Reason,
		m.ValidFrom,
		m.ValidTo,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && (pgErr.Code == "23505" || pgErr.Code == "23P01") {
			return fmt.Errorf("%w: student %s already has an active discount for category %s in this window", apperrors.ErrDuplicate, m.StudentID, m.FeeCategoryID)
		}
		return fmt.Errorf("failed to save discount %s: %w", m.DiscountID, err)
	}
	return nil
}

func (r *PgxDiscountRepository) FindDiscountByID(ctx context.Context, discountID string) (*domain.StudentDiscount, error) {
	query := `SELECT ` + discountColumns + ` FROM student_discounts WHERE discount_id = $1;`
	m, err := scanDiscount(r.Pool.QueryRow(ctx, query, discountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find discount by ID %s: %w", discountID, err)
	}
	d := mapping.ToDomainDiscount(*m)
	return &d, nil
}

func (r *PgxDiscountRepository) queryDiscounts(ctx context.Context, query string, args ...any) ([]domain.StudentDiscount, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query discounts: %w", err)
	}
	defer rows.Close()

	discounts := []models.StudentDiscount{}
	for rows.Next() {
		m, err := scanDiscount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan discount row: %w", err)
		}
		discounts = append(discounts, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating discount rows: %w", err)
	}
	return mapping.ToDomainDiscountSlice(discounts), nil
}

func (r *PgxDiscountRepository) ListDiscountsByStudent(ctx context.Context, studentID string) ([]domain.StudentDiscount, error) {
	query := `SELECT ` + discountColumns + ` FROM student_discounts WHERE student_id = $1 ORDER BY created_at DESC;`
	return r.queryDiscounts(ctx, query, studentID)
}

// FindValidDiscounts returns active discounts whose window contains onDate,
// newest creation first so the first row wins the integrity fallback.
func (r *PgxDiscountRepository) FindValidDiscounts(ctx context.Context, studentID, categoryID string, onDate time.Time) ([]domain.StudentDiscount, error) {
	query := `
		SELECT ` + discountColumns + `
		FROM student_discounts
		WHERE student_id = $1 AND fee_category_id = $2 AND is_active = TRUE
		  AND valid_from <= $3
		  AND (valid_to IS NULL OR valid_to >= $3)
		ORDER BY created_at DESC;
	`
	return r.queryDiscounts(ctx, query, studentID, categoryID, onDate)
}

// ListOverlappingDiscounts finds active discounts whose window intersects
// [from, to]; a NULL to on either side means open-ended.
func (r *PgxDiscountRepository) ListOverlappingDiscounts(ctx context.Context, studentID, categoryID string, from time.Time, to *time.Time) ([]domain.StudentDiscount, error) {
	query := `
		SELECT ` + discountColumns + `
		FROM student_discounts
		WHERE student_id = $1 AND fee_category_id = $2 AND is_active = TRUE
		  AND (valid_to IS NULL OR valid_to >= $3)
		  AND ($4::date IS NULL OR valid_from <= $4);
	`
	return r.queryDiscounts(ctx, query, studentID, categoryID, from, to)
}

func (r *PgxDiscountRepository) UpdateDiscount(ctx context.Context, discount domain.StudentDiscount) error {
	m := mapping.ToModelDiscount(discount)
	tag, err := r.Pool.Exec(ctx, `
		UPDATE student_discounts
		SET discount_type = $2, discount_value = $3, reason = $4, valid_from = $5, valid_to = $6, is_active = $7,
		    last_updated_at = $8, last_updated_by = $9
		WHERE discount_id = $1;
	`,
		m.DiscountID,
		m.DiscountType,
		m.DiscountValue,
		m.Reason,
		m.ValidFrom,
		m.ValidTo,
		m.IsActive,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23P01" {
			return fmt.Errorf("%w: student %s already has an active discount for category %s in this window", apperrors.ErrDuplicate, m.StudentID, m.FeeCategoryID)
		}
		return fmt.Errorf("failed to update discount %s: %w", m.DiscountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeactivateExpiredDiscounts flips active discounts whose window has ended.
// Set-based and idempotent; a second run on the same date affects zero rows.
func (r *PgxDiscountRepository) DeactivateExpiredDiscounts(ctx context.Context, asOf time.Time, updatedBy string, updatedAt time.Time) (int64, error) {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE student_discounts
		SET is_active = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE is_active = TRUE AND valid_to IS NOT NULL AND valid_to < $1;
	`, asOf, updatedAt, updatedBy)
	if err != nil {
		return 0, fmt.Errorf("failed to deactivate expired discounts: %w", err)
	}
	return tag.RowsAffected(), nil
}
