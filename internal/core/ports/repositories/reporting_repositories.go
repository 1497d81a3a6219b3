package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/schoolworks/fee_billing_app/internal/core/domain"
)

// ReportingReader exposes the aggregate queries behind collection and
// defaulter reporting.
type ReportingReader interface {
	// FindOverdueVoucherRows retrieves every voucher that is overdue as of
	// the given date, joined with its student and current class.
	FindOverdueVoucherRows(ctx context.Context, asOf time.Time) ([]domain.OverdueVoucherRow, error)

	// CountVouchersByStatus returns voucher counts keyed by status.
	CountVouchersByStatus(ctx context.Context) (map[domain.VoucherStatus]int64, error)

	// SumCollectionBetween totals payments received in [from, to].
	SumCollectionBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error)

	// SumOutstandingByStatus totals remaining balances of vouchers in the
	// given statuses.
	SumOutstandingByStatus(ctx context.Context, statuses []domain.VoucherStatus) (decimal.Decimal, error)

	// SummarizeMonth aggregates the vouchers carrying the given MM-YYYY tag:
	// per-status counts plus billed, fine and collected totals over the
	// non-cancelled vouchers.
	SummarizeMonth(ctx context.Context, monthYear string) (*domain.MonthCollectionStats, error)
}
