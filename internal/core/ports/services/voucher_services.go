package services

import (
	"context"
	"time"

	"github.com/schoolworks/fee_billing_app/internal/core/domain"
	"github.com/schoolworks/fee_billing_app/internal/dto"
)

// VoucherReaderSvc defines read operations for fee vouchers
type VoucherReaderSvc interface {
	// GetVoucherByID retrieves a voucher and its lines by unique identifier.
	GetVoucherByID(ctx context.Context, voucherID string) (*domain.FeeVoucher, error)

	// GetVoucherByNumber retrieves a voucher by its human-readable number.
	GetVoucherByNumber(ctx context.Context, voucherNumber string) (*domain.FeeVoucher, error)

	// ListVouchersByStudent retrieves a student's vouchers, newest first.
	ListVouchersByStudent(ctx context.Context, studentID string) ([]domain.FeeVoucher, error)

	// ListVouchersByStatus retrieves vouchers in a given status.
	ListVouchersByStatus(ctx context.Context, status domain.VoucherStatus) ([]domain.FeeVoucher, error)

	// ListVouchersIssuedBetween retrieves vouchers issued in [from, to].
	ListVouchersIssuedBetween(ctx context.Context, from, to time.Time) ([]domain.FeeVoucher, error)
}

// VoucherWriterSvc defines write operations for fee vouchers
type VoucherWriterSvc interface {
	// CreateVoucher persists a new voucher from explicit line items.
	CreateVoucher(ctx context.Context, req dto.CreateVoucherRequest, userID string) (*domain.FeeVoucher, error)

	// GenerateMonthlyVoucher builds and persists a student's voucher for a
	// billing period from the class fee structure, applying any valid
	// discounts per line.
	GenerateMonthlyVoucher(ctx context.Context, req dto.GenerateVoucherRequest, userID string) (*domain.FeeVoucher, error)

	// CancelVoucher voids a voucher with a reason. Paid vouchers cannot be
	// cancelled.
	CancelVoucher(ctx context.Context, voucherID string, reason string, userID string) (*domain.FeeVoucher, error)
}

// VoucherSvcFacade combines all voucher-related service interfaces
type VoucherSvcFacade interface {
	VoucherReaderSvc
	VoucherWriterSvc
}
