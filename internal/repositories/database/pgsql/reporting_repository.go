package pgsql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/schoolworks/fee_billing_app/internal/core/domain"
	portsrepo "github.com/schoolworks/fee_billing_app/internal/core/ports/repositories"
	"github.com/schoolworks/fee_billing_app/internal/models"
	"github.com/schoolworks/fee_billing_app/internal/utils/mapping"
)

type PgxReportingRepository struct {
	BaseRepository
}

// newPgxReportingRepository creates a read-only repository for aggregate
// collection and defaulter queries.
func newPgxReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingReader {
	return &PgxReportingRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxReportingRepository implements portsrepo.ReportingReader
var _ portsrepo.ReportingReader = (*PgxReportingRepository)(nil)

// FindOverdueVoucherRows returns every voucher that is overdue as of the
// given date joined with its student and the student's active class. A
// PENDING voucher past its due date counts even if no sweep has flipped its
// status yet.
func (r *PgxReportingRepository) FindOverdueVoucherRows(ctx context.Context, asOf time.Time) ([]domain.OverdueVoucherRow, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT v.voucher_id, v.voucher_number, v.student_id, v.voucher_type, v.month_year, v.issue_date, v.due_date,
		       v.total_amount, v.paid_amount, v.fine_amount, v.status, v.payment_date, v.notes,
		       v.created_at, v.created_by, v.last_updated_at, v.last_updated_by,
		       s.student_id, s.registration_number, s.full_name, s.is_active,
		       COALESCE(e.class_id, '')
		FROM fee_vouchers v
		JOIN students s ON s.student_id = v.student_id
		LEFT JOIN student_enrollments e ON e.student_id = v.student_id AND e.is_active = TRUE
		WHERE v.status = 'OVERDUE' OR (v.status = 'PENDING' AND v.due_date < $1)
		ORDER BY v.due_date, v.voucher_number;
	`, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to query overdue voucher rows: %w", err)
	}
	defer rows.Close()

	result := []domain.OverdueVoucherRow{}
	for rows.Next() {
		var m models.FeeVoucher
		var monthYear, notes sql.NullString
		var paymentDate sql.NullTime
		var student domain.Student
		var classID string

		if err := rows.Scan(
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
			&student.StudentID,
			&student.RegistrationNumber,
			&student.FullName,
			&student.IsActive,
			&classID,
		); err != nil {
			return nil, fmt.Errorf("failed to scan overdue voucher row: %w", err)
		}
		m.MonthYear = monthYear.String
		m.Notes = notes.String
		if paymentDate.Valid {
			t := paymentDate.Time
			m.PaymentDate = &t
		}
		result = append(result, domain.OverdueVoucherRow{
			Voucher: mapping.ToDomainVoucher(m),
			Student: student,
			ClassID: classID,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating overdue voucher rows: %w", err)
	}
	return result, nil
}

func (r *PgxReportingRepository) CountVouchersByStatus(ctx context.Context) (map[domain.VoucherStatus]int64, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT status, COUNT(*)
		FROM fee_vouchers
		GROUP BY status;
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to count vouchers by status: %w", err)
	}
	defer rows.Close()

	counts := map[domain.VoucherStatus]int64{}
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan voucher count row: %w", err)
		}
		counts[domain.VoucherStatus(status)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating voucher count rows: %w", err)
	}
	return counts, nil
}

func (r *PgxReportingRepository) SumCollectionBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.Pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM fee_payments
		WHERE payment_date >= $1 AND payment_date <= $2;
	`, from, to).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum collection between %s and %s: %w",
			from.Format("2006-01-02"), to.Format("2006-01-02"), err)
	}
	return total, nil
}

// SummarizeMonth aggregates one billing month's vouchers in a single grouped
// query. Cancelled vouchers appear in the counts but not in the money totals.
func (r *PgxReportingRepository) SummarizeMonth(ctx context.Context, monthYear string) (*domain.MonthCollectionStats, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT status, COUNT(*),
		       COALESCE(SUM(total_amount), 0),
		       COALESCE(SUM(fine_amount), 0),
		       COALESCE(SUM(paid_amount), 0)
		FROM fee_vouchers
		WHERE month_year = $1
		GROUP BY status;
	`, monthYear)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize month %s: %w", monthYear, err)
	}
	defer rows.Close()

	stats := &domain.MonthCollectionStats{
		MonthYear:      monthYear,
		CountsByStatus: map[domain.VoucherStatus]int64{},
		TotalBilled:    decimal.Zero,
		TotalFines:     decimal.Zero,
		TotalCollected: decimal.Zero,
	}
	for rows.Next() {
		var status string
		var count int64
		var billed, fines, collected decimal.Decimal
		if err := rows.Scan(&status, &count, &billed, &fines, &collected); err != nil {
			return nil, fmt.Errorf("failed to scan month summary row: %w", err)
		}
		stats.CountsByStatus[domain.VoucherStatus(status)] = count
		if domain.VoucherStatus(status) != domain.VoucherCancelled {
			stats.TotalBilled = stats.TotalBilled.Add(billed)
			stats.TotalFines = stats.TotalFines.Add(fines)
			stats.TotalCollected = stats.TotalCollected.Add(collected)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating month summary rows: %w", err)
	}
	return stats, nil
}

// SumOutstandingByStatus totals total_amount + fine_amount - paid_amount over
// every voucher in one of the given statuses.
func (r *PgxReportingRepository) SumOutstandingByStatus(ctx context.Context, statuses []domain.VoucherStatus) (decimal.Decimal, error) {
	values := make([]string, 0, len(statuses))
	for _, s := range statuses {
		values = append(values, string(s))
	}
	var total decimal.Decimal
	err := r.Pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(total_amount + fine_amount - paid_amount), 0)
		FROM fee_vouchers
		WHERE status = ANY($1);
	`, values).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum outstanding amounts: %w", err)
	}
	return total, nil
}
