package repositories

import (
	"context"
	"time"

	"github.com/schoolworks/fee_billing_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PaymentReader defines read operations for payment data
type PaymentReader interface {
	// FindPaymentByID retrieves a payment by its unique identifier.
	FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error)

	// ListPaymentsByVoucher retrieves all payments recorded against a voucher, oldest first.
	ListPaymentsByVoucher(ctx context.Context, voucherID string) ([]domain.Payment, error)

	// ListPaymentsByReference retrieves payments carrying the given reference number.
	ListPaymentsByReference(ctx context.Context, referenceNumber string) ([]domain.Payment, error)

	// ListPaymentsByDateRange retrieves payments whose payment date falls in [from, to].
	ListPaymentsByDateRange(ctx context.Context, from, to time.Time) ([]domain.Payment, error)

	// SumPaymentsBetween totals payment amounts with payment date in [from, to].
	SumPaymentsBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
}

// PaymentWriter defines write operations for payment data
type PaymentWriter interface {
	// RecordPayment inserts the payment and applies it to the voucher in one
	// transaction. The voucher row is locked and the remaining balance is
	// re-checked under the lock, so two concurrent payments cannot jointly
	// overpay. Returns the voucher as updated by the payment.
	RecordPayment(ctx context.Context, payment domain.Payment) (*domain.FeeVoucher, error)
}

// PaymentRepositoryFacade combines all payment-related repository interfaces
type PaymentRepositoryFacade interface {
	PaymentReader
	PaymentWriter
}
