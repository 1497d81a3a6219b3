package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/schoolworks/fee_billing_app/internal/apperrors"
	"github.com/schoolworks/fee_billing_app/internal/core/domain"
	portsrepo "github.com/schoolworks/fee_billing_app/internal/core/ports/repositories"
	"github.com/schoolworks/fee_billing_app/internal/models"
	"github.com/schoolworks/fee_billing_app/internal/utils/mapping"
)

type PgxPaymentRepository struct {
	BaseRepository
}

// newPgxPaymentRepository creates a new repository for payment data.
func newPgxPaymentRepository(pool *pgxpool.Pool) portsrepo.PaymentRepositoryFacade {
	return &PgxPaymentRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxPaymentRepository implements portsrepo.PaymentRepositoryFacade
var _ portsrepo.PaymentRepositoryFacade = (*PgxPaymentRepository)(nil)

const paymentColumns = `payment_id, voucher_id, method, amount, payment_date, reference_number, bank_name, notes, received_by,
	created_at, created_by, last_updated_at, last_updated_by`

func scanPayment(row pgx.Row) (*models.Payment, error) {
	var m models.Payment
	err := row.Scan(
		&m.PaymentID,
		&m.VoucherID,
		&m.Method,
		&m.Amount,
		&m.PaymentDate,
		&m.ReferenceNumber,
		&m.BankName,
		&m.Notes,
		&m.ReceivedBy,
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

// RecordPayment inserts the payment and applies it to the voucher in one
// transaction. The voucher row is locked and the remaining balance
// re-checked under the lock; a concurrent payment that got there first and
// consumed the balance causes this one to fail validation instead of
// overpaying.
func (r *PgxPaymentRepository) RecordPayment(ctx context.Context, payment domain.Payment) (*domain.FeeVoucher, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	query := `SELECT ` + voucherColumns + ` FROM fee_vouchers WHERE voucher_id = $1 FOR UPDATE;`
	mv, err := scanVoucher(tx.QueryRow(ctx, query, payment.VoucherID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock voucher %s: %w", payment.VoucherID, err)
	}
	voucher := mapping.ToDomainVoucher(*mv)

	if voucher.Status == domain.VoucherCancelled || voucher.Status == domain.VoucherPaid {
		return nil, apperrors.NewValidationFailedError("voucher is cancelled or already paid")
	}
	if payment.Amount.GreaterThan(voucher.RemainingAmount()) {
		return nil, apperrors.NewValidationFailedError("payment exceeds the voucher's remaining amount")
	}

	mp := mapping.ToModelPayment(payment)
	_, err = tx.Exec(ctx, `
		INSERT INTO fee_payments (payment_id, voucher_id, method, amount, payment_date, reference_number, bank_name, notes, received_by,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`,
		mp.PaymentID,
		mp.VoucherID,
		mp.Method,
		mp.Amount,
		mp.PaymentDate,
		mp.ReferenceNumber,
		mp.BankName,
		mp.Notes,
		mp.ReceivedBy,
		mp.CreatedAt,
		mp.CreatedBy,
		mp.LastUpdatedAt,
		mp.LastUpdatedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert payment %s: %w", mp.PaymentID, err)
	}

	voucher.ApplyPayment(payment.Amount, payment.PaymentDate)
	voucher.LastUpdatedAt = payment.CreatedAt
	voucher.LastUpdatedBy = payment.CreatedBy

	um := mapping.ToModelVoucher(voucher)
	_, err = tx.Exec(ctx, `
		UPDATE fee_vouchers
		SET paid_amount = $2, status = $3, payment_date = $4, last_updated_at = $5, last_updated_by = $6
		WHERE voucher_id = $1;
	`,
		um.VoucherID,
		um.PaidAmount,
		um.Status,
		um.PaymentDate,
		um.LastUpdatedAt,
		um.LastUpdatedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to apply payment to voucher %s: %w", um.VoucherID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &voucher, nil
}

func (r *PgxPaymentRepository) FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM fee_payments WHERE payment_id = $1;`
	m, err := scanPayment(r.Pool.QueryRow(ctx, query, paymentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find payment by ID %s: %w", paymentID, err)
	}
	p := mapping.ToDomainPayment(*m)
	return &p, nil
}

func (r *PgxPaymentRepository) queryPayments(ctx context.Context, query string, args ...any) ([]domain.Payment, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments: %w", err)
	}
	defer rows.Close()

	payments := []models.Payment{}
	for rows.Next() {
		m, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment row: %w", err)
		}
		payments = append(payments, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payment rows: %w", err)
	}
	return mapping.ToDomainPaymentSlice(payments), nil
}

func (r *PgxPaymentRepository) ListPaymentsByVoucher(ctx context.Context, voucherID string) ([]domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM fee_payments WHERE voucher_id = $1 ORDER BY payment_date, created_at;`
	return r.queryPayments(ctx, query, voucherID)
}

func (r *PgxPaymentRepository) ListPaymentsByReference(ctx context.Context, referenceNumber string) ([]domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM fee_payments WHERE reference_number = $1 ORDER BY payment_date;`
	return r.queryPayments(ctx, query, referenceNumber)
}

func (r *PgxPaymentRepository) ListPaymentsByDateRange(ctx context.Context, from, to time.Time) ([]domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM fee_payments WHERE payment_date >= $1 AND payment_date <= $2 ORDER BY payment_date;`
	return r.queryPayments(ctx, query, from, to)
}

func (r *PgxPaymentRepository) SumPaymentsBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.Pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM fee_payments
		WHERE payment_date >= $1 AND payment_date <= $2;
	`, from, to).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum payments: %w", err)
	}
	return total, nil
}
