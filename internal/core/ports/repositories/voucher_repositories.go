package repositories

import (
	"context"
	"time"

	"github.com/schoolworks/fee_billing_app/internal/core/domain"
)

// VoucherReader defines read operations for voucher data
type VoucherReader interface {
	// FindVoucherByID retrieves a voucher (without lines) by its unique identifier.
	FindVoucherByID(ctx context.Context, voucherID string) (*domain.FeeVoucher, error)

	// FindVoucherByNumber retrieves a voucher by its printed voucher number.
	FindVoucherByNumber(ctx context.Context, voucherNumber string) (*domain.FeeVoucher, error)

	// FindVoucherLines retrieves all line items of a voucher.
	FindVoucherLines(ctx context.Context, voucherID string) ([]domain.VoucherLine, error)

	// ListVouchersByStudent retrieves a student's vouchers, newest issue date first.
	ListVouchersByStudent(ctx context.Context, studentID string) ([]domain.FeeVoucher, error)

	// ListVouchersByStatus retrieves all vouchers in the given lifecycle state.
	ListVouchersByStatus(ctx context.Context, status domain.VoucherStatus) ([]domain.FeeVoucher, error)

	// ListVouchersByMonthYear retrieves vouchers carrying the given MM-YYYY tag.
	ListVouchersByMonthYear(ctx context.Context, monthYear string) ([]domain.FeeVoucher, error)

	// ListVouchersIssuedBetween retrieves vouchers with issue date in [from, to].
	ListVouchersIssuedBetween(ctx context.Context, from, to time.Time) ([]domain.FeeVoucher, error)

	// FindOverdueVouchers retrieves PENDING vouchers whose due date has passed as of the given date.
	FindOverdueVouchers(ctx context.Context, asOf time.Time) ([]domain.FeeVoucher, error)

	// ListPendingVoucherIDs retrieves the IDs of all PENDING vouchers.
	ListPendingVoucherIDs(ctx context.Context) ([]string, error)
}

// VoucherWriter defines write operations for voucher data
type VoucherWriter interface {
	// SaveVoucher persists a voucher and its lines in one transaction,
	// allocating the voucher number from the per-(prefix, period) sequence.
	// The assigned number is returned.
	SaveVoucher(ctx context.Context, voucher domain.FeeVoucher, lines []domain.VoucherLine) (string, error)

	// UpdateVoucher persists the mutable fields of a voucher (paid amount,
	// fine amount, status, payment date, notes) plus audit columns.
	UpdateVoucher(ctx context.Context, voucher domain.FeeVoucher) error

	// MarkVouchersOverdue flips every PENDING voucher past its due date to
	// OVERDUE and returns the number of rows changed. Safe to re-run.
	MarkVouchersOverdue(ctx context.Context, asOf time.Time, updatedBy string, updatedAt time.Time) (int64, error)
}

// VoucherRepositoryFacade combines all voucher-related repository interfaces
type VoucherRepositoryFacade interface {
	VoucherReader
	VoucherWriter
}
