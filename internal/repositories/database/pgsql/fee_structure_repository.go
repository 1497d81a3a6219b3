package pgsql

import (
	"context"
	"database/sql"
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

type PgxFeeStructureRepository struct {
	BaseRepository
}

// newPgxFeeStructureRepository creates a new repository for fee category and structure data.
func newPgxFeeStructureRepository(pool *pgxpool.Pool) portsrepo.FeeStructureRepositoryFacade {
	return &PgxFeeStructureRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxFeeStructureRepository implements portsrepo.FeeStructureRepositoryFacade
var _ portsrepo.FeeStructureRepositoryFacade = (*PgxFeeStructureRepository)(nil)

func (r *PgxFeeStructureRepository) SaveFeeCategory(ctx context.Context, category domain.FeeCategory) error {
	m := mapping.ToModelFeeCategory(category)
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO fee_categories (category_id, name, description, is_active, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`,
		m.CategoryID,
		m.Name,
		m.Description,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: fee category %q already exists", apperrors.ErrDuplicate, m.Name)
		}
		return fmt.Errorf("failed to save fee category %s: %w", m.CategoryID, err)
	}
	return nil
}

func (r *PgxFeeStructureRepository) FindFeeCategoryByID(ctx context.Context, categoryID string) (*domain.FeeCategory, error) {
	var m models.FeeCategory
	var description sql.NullString
	err := r.Pool.QueryRow(ctx, `
		SELECT category_id, name, description, is_active, created_at, created_by, last_updated_at, last_updated_by
		FROM fee_categories
		WHERE category_id = $1;
	`, categoryID).Scan(
		&m.CategoryID,
		&m.Name,
		&description,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find fee category by ID %s: %w", categoryID, err)
	}
	m.Description = description.String
	c := mapping.ToDomainFeeCategory(m)
	return &c, nil
}

func (r *PgxFeeStructureRepository) ListFeeCategories(ctx context.Context, activeOnly bool) ([]domain.FeeCategory, error) {
	query := `
		SELECT category_id, name, description, is_active, created_at, created_by, last_updated_at, last_updated_by
		FROM fee_categories
		WHERE ($1 = FALSE OR is_active = TRUE)
		ORDER BY name;
	`
	rows, err := r.Pool.Query(ctx, query, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to query fee categories: %w", err)
	}
	defer rows.Close()

	categories := []domain.FeeCategory{}
	for rows.Next() {
		var m models.FeeCategory
		var description sql.NullString
		if err := rows.Scan(
			&m.CategoryID,
			&m.Name,
			&description,
			&m.IsActive,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan fee category row: %w", err)
		}
		m.Description = description.String
		categories = append(categories, mapping.ToDomainFeeCategory(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fee category rows: %w", err)
	}
	return categories, nil
}

func (r *PgxFeeStructureRepository) UpdateFeeCategory(ctx context.Context, category domain.FeeCategory) error {
	m := mapping.ToModelFeeCategory(category)
	tag, err := r.Pool.Exec(ctx, `
		UPDATE fee_categories
		SET name = $2, description = $3, is_active = $4, last_updated_at = $5, last_updated_by = $6
		WHERE category_id = $1;
	`,
		m.CategoryID,
		m.Name,
		m.Description,
		m.IsActive,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: fee category %q already exists", apperrors.ErrDuplicate, m.Name)
		}
		return fmt.Errorf("failed to update fee category %s: %w", m.CategoryID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxFeeStructureRepository) SaveFeeStructure(ctx context.Context, structure domain.FeeStructure) error {
	m := mapping.ToModelFeeStructure(structure)
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO fee_structures (structure_id, class_id, fee_category_id, amount, is_monthly, is_active,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`,
		m.StructureID,
		m.ClassID,
		m.FeeCategoryID,
		m.Amount,
		m.IsMonthly,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: fee structure for class %s and category %s already exists", apperrors.ErrDuplicate, m.ClassID, m.FeeCategoryID)
		}
		return fmt.Errorf("failed to save fee structure %s: %w", m.StructureID, err)
	}
	return nil
}

func (r *PgxFeeStructureRepository) FindFeeStructureByID(ctx context.Context, structureID string) (*domain.FeeStructure, error) {
	var m models.FeeStructure
	err := r.Pool.QueryRow(ctx, `
		SELECT structure_id, class_id, fee_category_id, amount, is_monthly, is_active,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM fee_structures
		WHERE structure_id = $1;
	`, structureID).Scan(
		&m.StructureID,
		&m.ClassID,
		&m.FeeCategoryID,
		&m.Amount,
		&m.IsMonthly,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find fee structure by ID %s: %w", structureID, err)
	}
	s := mapping.ToDomainFeeStructure(m)
	return &s, nil
}

func (r *PgxFeeStructureRepository) ListFeeStructuresByClass(ctx context.Context, classID string) ([]domain.FeeStructure, error) {
	query := `
		SELECT structure_id, class_id, fee_category_id, amount, is_monthly, is_active,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM fee_structures
		WHERE class_id = $1 AND is_active = TRUE
		ORDER BY created_at;
	`
	rows, err := r.Pool.Query(ctx, query, classID)
	if err != nil {
		return nil, fmt.Errorf("failed to query fee structures for class %s: %w", classID, err)
	}
	defer rows.Close()

	structures := []models.FeeStructure{}
	for rows.Next() {
		var m models.FeeStructure
		if err := rows.Scan(
			&m.StructureID,
			&m.ClassID,
			&m.FeeCategoryID,
			&m.Amount,
			&m.IsMonthly,
			&m.IsActive,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan fee structure row: %w", err)
		}
		structures = append(structures, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fee structure rows: %w", err)
	}
	return mapping.ToDomainFeeStructureSlice(structures), nil
}

func (r *PgxFeeStructureRepository) UpdateFeeStructure(ctx context.Context, structure domain.FeeStructure) error {
	m := mapping.ToModelFeeStructure(structure)
	tag, err := r.Pool.Exec(ctx, `
		UPDATE fee_structures
		SET amount = $2, is_monthly = $3, is_active = $4, last_updated_at = $5, last_updated_by = $6
		WHERE structure_id = $1;
	`,
		m.StructureID,
		m.Amount,
		m.IsMonthly,
		m.IsActive,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update fee structure %s: %w", m.StructureID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
