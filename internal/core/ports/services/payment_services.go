package services

import (
	"context"
	"time"

	"github.com/schoolworks/fee_billing_app/internal/core/domain"
	"github.com/schoolworks/fee_billing_app/internal/dto"
)

// PaymentReaderSvc defines read operations for payments
type PaymentReaderSvc interface {
	// GetPaymentByID retrieves a payment by its unique identifier.
	GetPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error)

	// ListPaymentsByVoucher retrieves a voucher's payments in receipt order.
	ListPaymentsByVoucher(ctx context.Context, voucherID string) ([]domain.Payment, error)

	// ListPaymentsByDateRange retrieves payments received in [from, to].
	ListPaymentsByDateRange(ctx context.Context, from, to time.Time) ([]domain.Payment, error)

	// ListPaymentsByReference retrieves payments by bank or receipt reference.
	ListPaymentsByReference(ctx context.Context, referenceNumber string) ([]domain.Payment, error)
}

// PaymentWriterSvc defines write operations for payments
type PaymentWriterSvc interface {
	// RecordPayment validates and applies a payment against a voucher,
	// returning the voucher in its post-payment state.
	RecordPayment(ctx context.Context, req dto.RecordPaymentRequest, userID string) (*domain.FeeVoucher, error)
}

// PaymentSvcFacade combines all payment-related service interfaces
type PaymentSvcFacade interface {
	PaymentReaderSvc
	PaymentWriterSvc
}
