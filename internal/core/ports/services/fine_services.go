package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/schoolworks/fee_billing_app/internal/core/domain"
	"github.com/schoolworks/fee_billing_app/internal/dto"
)

// FineReaderSvc defines read operations for fine tiers and fine computation
type FineReaderSvc interface {
	// GetFineTierByID retrieves a tier by its unique identifier.
	GetFineTierByID(ctx context.Context, fineID string) (*domain.FineTier, error)

	// ListFineTiersByClass retrieves a class's escalation ladder.
	ListFineTiersByClass(ctx context.Context, classID string) ([]domain.FineTier, error)

	// ComputeFineForVoucher evaluates the fine a voucher should carry as of
	// a date. Returns zero for vouchers that are not pending, not past due,
	// or whose student has no active enrollment.
	ComputeFineForVoucher(ctx context.Context, voucher domain.FeeVoucher, asOf time.Time) (decimal.Decimal, error)

	// CalculateFines previews the fines the given vouchers would carry as of
	// a date, keyed by voucher ID, without writing anything.
	CalculateFines(ctx context.Context, voucherIDs []string, asOf time.Time) (map[string]decimal.Decimal, error)
}

// FineWriterSvc defines write operations for fine tiers and voucher fines
type FineWriterSvc interface {
	// CreateFineTier persists a new escalation tier for a class.
	CreateFineTier(ctx context.Context, req dto.CreateFineTierRequest, userID string) (*domain.FineTier, error)

	// UpdateFineTier persists mutable fields of an existing tier.
	UpdateFineTier(ctx context.Context, fineID string, req dto.UpdateFineTierRequest, userID string) (*domain.FineTier, error)

	// ApplyFineToVoucher recomputes and stores a voucher's fine as of a
	// date, replacing any previously stored fine. Reapplying on the same
	// date is a no-op.
	ApplyFineToVoucher(ctx context.Context, voucherID string, asOf time.Time, userID string) (*domain.FeeVoucher, error)

	// WaiveFine zeroes a voucher's fine with a reason.
	WaiveFine(ctx context.Context, voucherID string, reason string, userID string) (*domain.FeeVoucher, error)
}

// FineSvcFacade combines all fine-related service interfaces
type FineSvcFacade interface {
	FineReaderSvc
	FineWriterSvc
}
