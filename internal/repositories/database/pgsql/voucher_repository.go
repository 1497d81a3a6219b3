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

type PgxVoucherRepository struct {
	BaseRepository
}

// newPgxVoucherRepository creates a new repository for voucher and line data.
func newPgxVoucherRepository(pool *pgxpool.Pool) portsrepo.VoucherRepositoryFacade {
	return &PgxVoucherRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxVoucherRepository implements portsrepo.VoucherRepositoryFacade
var _ portsrepo.VoucherRepositoryFacade = (*PgxVoucherRepository)(nil)

const voucherColumns = `voucher_id, voucher_number, student_id, voucher_type, month_year, issue_date, due_date,
	total_amount, paid_amount, fine_amount, status, payment_date, notes,
	created_at, created_by, last_updated_at, last_updated_by`

// scanVoucher reads one voucher row in voucherColumns order.
func scanVoucher(row pgx.Row) (*models.FeeVoucher, error) {
	var m models.FeeVoucher
	var monthYear, notes sql.NullString
	var paymentDate sql.NullTime

	err := row.Scan(
		&m.VoucherID,
		&m.VoucherNumber,
		&m.StudentID,
		&m.VoucherType,
		&monthYear,
		&m.IssueDate,
		&m.DueDate,
		&m.TotalAmount,
		&m.PaidAmount,
		&m.FineAmount,
		&m.Status,
		&paymentDate,
		&notes,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	m.MonthYear = monthYear.String
	m.Notes = notes.String
	if paymentDate.Valid {
		t := paymentDate.Time
		m.PaymentDate = &t
	}
	return &m, nil
}

// nextVoucherNumber allocates the next number for a (prefix, period) pair
// inside the caller's transaction. The upsert-returning statement serializes
// concurrent allocations on the sequence row, so two creators can never draw
// the same value.
func nextVoucherNumber(ctx context.Context, tx pgx.Tx, voucherType domain.VoucherType, issueDate time.Time) (string, error) {
	prefix := voucherType.NumberPrefix()
	period := issueDate.Format("0601") // yyMM

	var seq int64
	err := tx.QueryRow(ctx, `
		INSERT INTO voucher_sequences (prefix, period, last_value)
		VALUES ($1, $2, 1)
		ON CONFLICT (prefix, period)
		DO UPDATE SET last_value = voucher_sequences.last_value + 1
		RETURNING last_value;
	`, prefix, period).Scan(&seq)
	if err != nil {
		return "", fmt.Errorf("failed to allocate voucher number for %s-%s: %w", prefix, period, err)
	}
	return fmt.Sprintf("%s-%s-%05d", prefix, period, seq), nil
}

// SaveVoucher inserts the voucher and its lines in one transaction, drawing
// the voucher number from the per-(prefix, period) sequence.
func (r *PgxVoucherRepository) SaveVoucher(ctx context.Context, voucher domain.FeeVoucher, lines []domain.VoucherLine) (string, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer r.Rollback(ctx, tx)

	number, err := nextVoucherNumber(ctx, tx, voucher.VoucherType, voucher.IssueDate)
	if err != nil {
		return "", err
	}

	m := mapping.ToModelVoucher(voucher)
	m.VoucherNumber = number

	_, err = tx.Exec(ctx, `
		INSERT INTO fee_vouchers (voucher_id, voucher_number, student_id, voucher_type, month_year, issue_date, due_date,
			total_amount, paid_amount, fine_amount, status, payment_date, notes,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`,
		m.VoucherID,
		m.VoucherNumber,
		m.StudentID,
		m.VoucherType,
		m.MonthYear,
		m.IssueDate,
		m.DueDate,
		m.TotalAmount,
		m.PaidAmount,
		m.FineAmount,
		m.Status,
		m.PaymentDate,
		m.Notes,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return "", fmt.Errorf("%w: voucher number %s already exists", apperrors.ErrDuplicate, number)
		}
		return "", fmt.Errorf("failed to insert voucher %s: %w", m.VoucherID, err)
	}

	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO fee_voucher_lines (line_id, voucher_id, fee_category_id, original_amount, discount_amount, final_amount,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	for _, line := range lines {
		ml := mapping.ToModelVoucherLine(line)
		batch.Queue(lineQuery,
			ml.LineID,
			ml.VoucherID,
			ml.FeeCategoryID,
			ml.OriginalAmount,
			ml.DiscountAmount,
			ml.FinalAmount,
			ml.CreatedAt,
			ml.CreatedBy,
			ml.LastUpdatedAt,
			ml.LastUpdatedBy,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return "", fmt.Errorf("failed to insert voucher lines for %s: %w", m.VoucherID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return "", err
	}
	return number, nil
}

func (r *PgxVoucherRepository) FindVoucherByID(ctx context.Context, voucherID string) (*domain.FeeVoucher, error) {
	query := `SELECT ` + voucherColumns + ` FROM fee_vouchers WHERE voucher_id = $1;`
	m, err := scanVoucher(r.Pool.QueryRow(ctx, query, voucherID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find voucher by ID %s: %w", voucherID, err)
	}
	v := mapping.ToDomainVoucher(*m)
	return &v, nil
}

func (r *PgxVoucherRepository) FindVoucherByNumber(ctx context.Context, voucherNumber string) (*domain.FeeVoucher, error) {
	query := `SELECT ` + voucherColumns + ` FROM fee_vouchers WHERE voucher_number = $1;`
	m, err := scanVoucher(r.Pool.QueryRow(ctx, query, voucherNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find voucher by number %s: %w", voucherNumber, err)
	}
	v := mapping.ToDomainVoucher(*m)
	return &v, nil
}

func (r *PgxVoucherRepository) FindVoucherLines(ctx context.Context, voucherID string) ([]domain.VoucherLine, error) {
	query := `
		SELECT line_id, voucher_id, fee_category_id, original_amount, discount_amount, final_amount,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM fee_voucher_lines
		WHERE voucher_id = $1
		ORDER BY created_at, line_id;
	`
	rows, err := r.Pool.Query(ctx, query, voucherID)
	if err != nil {
		return nil, fmt.Errorf("failed to query voucher lines for %s: %w", voucherID, err)
	}
	defer rows.Close()

	lines := []models.VoucherLine{}
	for rows.Next() {
		var ml models.VoucherLine
		if err := rows.Scan(
			&ml.LineID,
			&ml.VoucherID,
			&ml.FeeCategoryID,
			&ml.OriginalAmount,
			&ml.DiscountAmount,
			&ml.FinalAmount,
			&ml.CreatedAt,
			&ml.CreatedBy,
			&ml.LastUpdatedAt,
			&ml.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan voucher line: %w", err)
		}
		lines = append(lines, ml)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating voucher lines: %w", err)
	}
	return mapping.ToDomainVoucherLineSlice(lines), nil
}

// queryVouchers runs a query selecting voucherColumns and scans all rows.
func (r *PgxVoucherRepository) queryVouchers(ctx context.Context, query string, args ...any) ([]domain.FeeVoucher, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query vouchers: %w", err)
	}
	defer rows.Close()

	vouchers := []domain.FeeVoucher{}
	for rows.Next() {
		m, err := scanVoucher(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan voucher row: %w", err)
		}
		vouchers = append(vouchers, mapping.ToDomainVoucher(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating voucher rows: %w", err)
	}
	return vouchers, nil
}

func (r *PgxVoucherRepository) ListVouchersByStudent(ctx context.Context, studentID string) ([]domain.FeeVoucher, error) {
	query := `SELECT ` + voucherColumns + ` FROM fee_vouchers WHERE student_id = $1 ORDER BY issue_date DESC, voucher_number DESC;`
	return r.queryVouchers(ctx, query, studentID)
}

func (r *PgxVoucherRepository) ListVouchersByStatus(ctx context.Context, status domain.VoucherStatus) ([]domain.FeeVoucher, error) {
	query := `SELECT ` + voucherColumns + ` FROM fee_vouchers WHERE status = $1 ORDER BY due_date, voucher_number;`
	return r.queryVouchers(ctx, query, string(status))
}

func (r *PgxVoucherRepository) ListVouchersByMonthYear(ctx context.Context, monthYear string) ([]domain.FeeVoucher, error) {
	query := `SELECT ` + voucherColumns + ` FROM fee_vouchers WHERE month_year = $1 ORDER BY voucher_number;`
	return r.queryVouchers(ctx, query, monthYear)
}

func (r *PgxVoucherRepository) ListVouchersIssuedBetween(ctx context.Context, from, to time.Time) ([]domain.FeeVoucher, error) {
	query := `SELECT ` + voucherColumns + ` FROM fee_vouchers WHERE issue_date >= $1 AND issue_date <= $2 ORDER BY issue_date, voucher_number;`
	return r.queryVouchers(ctx, query, from, to)
}

func (r *PgxVoucherRepository) FindOverdueVouchers(ctx context.Context, asOf time.Time) ([]domain.FeeVoucher, error) {
	query := `SELECT ` + voucherColumns + ` FROM fee_vouchers WHERE status = 'PENDING' AND due_date < $1 ORDER BY due_date;`
	return r.queryVouchers(ctx, query, asOf)
}

func (r *PgxVoucherRepository) ListPendingVoucherIDs(ctx context.Context) ([]string, error) {
	rows, err := r.Pool.Query(ctx, `SELECT voucher_id FROM fee_vouchers WHERE status = 'PENDING' ORDER BY due_date;`)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending voucher IDs: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan voucher ID: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating voucher IDs: %w", err)
	}
	return ids, nil
}

// UpdateVoucher persists the mutable fields of a voucher. The total amount
// and lines are immutable once created.
func (r *PgxVoucherRepository) UpdateVoucher(ctx context.Context, voucher domain.FeeVoucher) error {
	m := mapping.ToModelVoucher(voucher)
	tag, err := r.Pool.Exec(ctx, `
		UPDATE fee_vouchers
		SET paid_amount = $2, fine_amount = $3, status = $4, payment_date = $5, notes = $6,
		    last_updated_at = $7, last_updated_by = $8
		WHERE voucher_id = $1;
	`,
		m.VoucherID,
		m.PaidAmount,
		m.FineAmount,
		m.Status,
		m.PaymentDate,
		m.Notes,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update voucher %s: %w", m.VoucherID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// MarkVouchersOverdue flips all pending vouchers past their due date in one
// set-based statement. Re-running with the same date affects zero rows.
func (r *PgxVoucherRepository) MarkVouchersOverdue(ctx context.Context, asOf time.Time, updatedBy string, updatedAt time.Time) (int64, error) {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE fee_vouchers
		SET status = 'OVERDUE', last_updated_at = $2, last_updated_by = $3
		WHERE status = 'PENDING' AND due_date < $1;
	`, asOf, updatedAt, updatedBy)
	if err != nil {
		return 0, fmt.Errorf("failed to mark vouchers overdue: %w", err)
	}
	return tag.RowsAffected(), nil
}
