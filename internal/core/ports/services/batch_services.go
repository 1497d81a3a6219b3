package services

import (
	"context"
	"time"

	"github.com/schoolworks/fee_billing_app/internal/dto"
)

// BatchSvc runs the scheduled billing sweeps. Each operation is safe to
// re-run; repeated runs over the same data converge instead of compounding.
type BatchSvc interface {
	// GenerateMonthlyVouchers builds a voucher for every active student in
	// scope for the billing period, skipping students already billed and
	// classes with no fee structures.
	GenerateMonthlyVouchers(ctx context.Context, req dto.GenerateBatchRequest, userID string) (*dto.GenerateBatchResult, error)

	// ProcessOverdueSweep flips pending vouchers past their due date to
	// overdue.
	ProcessOverdueSweep(ctx context.Context, asOf time.Time, userID string) (*dto.BatchResult, error)

	// ApplyFineSweep recomputes fines for the given vouchers as of a date,
	// or for every pending voucher when voucherIDs is empty.
	ApplyFineSweep(ctx context.Context, voucherIDs []string, asOf time.Time, userID string) (*dto.BatchResult, error)

	// ExpireDiscounts deactivates discounts whose validity ended before the
	// given date.
	ExpireDiscounts(ctx context.Context, asOf time.Time, userID string) (*dto.BatchResult, error)

	// RunDailyMaintenance runs the overdue sweep, fine sweep and discount
	// expiry in order and reports per-step counts.
	RunDailyMaintenance(ctx context.Context, asOf time.Time, userID string) (*dto.MaintenanceResult, error)
}
