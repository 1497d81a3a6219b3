package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/schoolworks/fee_billing_app/internal/apperrors"
	"github.com/schoolworks/fee_billing_app/internal/core/domain"
	portsrepo "github.com/schoolworks/fee_billing_app/internal/core/ports/repositories"
	portssvc "github.com/schoolworks/fee_billing_app/internal/core/ports/services"
	"github.com/schoolworks/fee_billing_app/internal/dto"
	"github.com/schoolworks/fee_billing_app/internal/middleware"
)

var (
	ErrPaymentAmountSign = errors.New("payment amount must be greater than 0")
	ErrPaymentExceedsDue = errors.New("payment exceeds the voucher's remaining amount")
	ErrPaymentFutureDate = errors.New("payment date must not be in the future")
	ErrVoucherNotPayable = errors.New("voucher is cancelled or already paid")
)

// paymentService validates and applies payments. The payment insert and the
// voucher balance update share one transaction in the repository, which also
// revalidates the remaining amount under a row lock so concurrent payments
// cannot jointly overpay.
type paymentService struct {
	paymentRepo portsrepo.PaymentRepositoryFacade
	voucherRepo portsrepo.VoucherRepositoryFacade
	fineSvc     portssvc.FineSvcFacade
	auditRepo   portsrepo.AuditRecorder
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(paymentRepo portsrepo.PaymentRepositoryFacade, voucherRepo portsrepo.VoucherRepositoryFacade, fineSvc portssvc.FineSvcFacade, auditRepo portsrepo.AuditRecorder) portssvc.PaymentSvcFacade {
	return &paymentService{
		paymentRepo: paymentRepo,
		voucherRepo: voucherRepo,
		fineSvc:     fineSvc,
		auditRepo:   auditRepo,
	}
}

// Ensure paymentService implements the portssvc.PaymentSvcFacade interface
var _ portssvc.PaymentSvcFacade = (*paymentService)(nil)

func (s *paymentService) GetPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	return s.paymentRepo.FindPaymentByID(ctx, paymentID)
}

func (s *paymentService) ListPaymentsByVoucher(ctx context.Context, voucherID string) ([]domain.Payment, error) {
	payments, err := s.paymentRepo.ListPaymentsByVoucher(ctx, voucherID)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to list payments for voucher", slog.String("error", err.Error()), slog.String("voucher_id", voucherID))
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	if payments == nil {
		return []domain.Payment{}, nil
	}
	return payments, nil
}

func (s *paymentService) ListPaymentsByDateRange(ctx context.Context, from, to time.Time) ([]domain.Payment, error) {
	payments, err := s.paymentRepo.ListPaymentsByDateRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	if payments == nil {
		return []domain.Payment{}, nil
	}
	return payments, nil
}

func (s *paymentService) ListPaymentsByReference(ctx context.Context, referenceNumber string) ([]domain.Payment, error) {
	if referenceNumber == "" {
		return nil, apperrors.NewValidationFailedError("reference number is required")
	}
	payments, err := s.paymentRepo.ListPaymentsByReference(ctx, referenceNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	if payments == nil {
		return []domain.Payment{}, nil
	}
	return payments, nil
}

// RecordPayment validates the payment against the voucher's current state,
// then hands the insert plus balance update to the repository as one atomic
// unit. The pre-check here gives callers a clean error before the
// transaction; the repository re-checks under the lock.
func (s *paymentService) RecordPayment(ctx context.Context, req dto.RecordPaymentRequest, userID string) (*domain.FeeVoucher, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, apperrors.NewValidationFailedError(ErrPaymentAmountSign.Error())
	}
	// Payment date is day precision; a payment dated today is never future.
	if startOfDay(req.PaymentDate).After(startOfDay(time.Now())) {
		return nil, apperrors.NewValidationFailedError(ErrPaymentFutureDate.Error())
	}

	voucher, err := s.voucherRepo.FindVoucherByID(ctx, req.VoucherID)
	if err != nil {
		return nil, err
	}
	if voucher.Status == domain.VoucherCancelled || voucher.Status == domain.VoucherPaid {
		return nil, apperrors.NewValidationFailedError(ErrVoucherNotPayable.Error())
	}

	// A pending voucher past its due date may not have been swept yet; bring
	// its fine up to date first so the payment settles the true obligation.
	if voucher.Status == domain.VoucherPending && voucher.IsOverdueAsOf(time.Now()) {
		voucher, err = s.fineSvc.ApplyFineToVoucher(ctx, req.VoucherID, time.Now(), userID)
		if err != nil {
			return nil, fmt.Errorf("failed to refresh fine before payment: %w", err)
		}
	}

	if req.Amount.GreaterThan(voucher.RemainingAmount()) {
		return nil, apperrors.NewValidationFailedError(ErrPaymentExceedsDue.Error())
	}

	now := time.Now()
	payment := domain.Payment{
		PaymentID:       uuid.NewString(),
		VoucherID:       req.VoucherID,
		Method:          req.Method,
		Amount:          req.Amount,
		PaymentDate:     req.PaymentDate,
		ReferenceNumber: req.ReferenceNumber,
		BankName:        req.BankName,
		Notes:           req.Notes,
		ReceivedBy:      userID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	updated, err := s.paymentRepo.RecordPayment(ctx, payment)
	if err != nil {
		if !errors.Is(err, apperrors.ErrValidation) {
			logger.Error("Failed to record payment", slog.String("error", err.Error()), slog.String("voucher_id", req.VoucherID))
		}
		return nil, err
	}

	s.recordAudit(ctx, "RECORD_PAYMENT", payment.PaymentID, userID,
		fmt.Sprintf("voucher=%s amount=%s method=%s", payment.VoucherID, payment.Amount, payment.Method))
	logger.Info("Payment recorded",
		slog.String("payment_id", payment.PaymentID),
		slog.String("voucher_id", payment.VoucherID),
		slog.String("amount", payment.Amount.String()),
		slog.String("voucher_status", string(updated.Status)))
	return updated, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func (s *paymentService) recordAudit(ctx context.Context, action, entityID, actorID, details string) {
	event := domain.AuditEvent{
		EventID:    uuid.NewString(),
		Action:     action,
		EntityType: "Payment",
		EntityID:   entityID,
		ActorID:    actorID,
		Details:    details,
		CreatedAt:  time.Now(),
	}
	if err := s.auditRepo.RecordAuditEvent(ctx, event); err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to record audit event", slog.String("error", err.Error()), slog.String("action", action))
	}
}
