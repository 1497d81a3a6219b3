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
	ErrVoucherNoLines        = errors.New("voucher must have at least one line item")
	ErrLineAmountSign        = errors.New("line original amount must be greater than 0")
	ErrLineDiscountRange     = errors.New("line discount must not be negative or exceed the original amount")
	ErrMonthlyNeedsPeriod    = errors.New("monthly voucher requires a monthYear tag")
	ErrDueBeforeIssue        = errors.New("due date must not be before issue date")
	ErrNoMonthlyStructures   = errors.New("class has no active monthly fee structures")
	ErrVoucherNotCancellable = errors.New("a paid voucher cannot be cancelled")
)

// voucherService builds vouchers from charges and governs their lifecycle
// outside of payment flow.
type voucherService struct {
	voucherRepo      portsrepo.VoucherRepositoryFacade
	feeStructureRepo portsrepo.FeeStructureRepositoryFacade
	studentRepo      portsrepo.StudentReader
	discountSvc      portssvc.DiscountSvcFacade
	auditRepo        portsrepo.AuditRecorder
}

// NewVoucherService creates a new VoucherService.
func NewVoucherService(voucherRepo portsrepo.VoucherRepositoryFacade, feeStructureRepo portsrepo.FeeStructureRepositoryFacade, studentRepo portsrepo.StudentReader, discountSvc portssvc.DiscountSvcFacade, auditRepo portsrepo.AuditRecorder) portssvc.VoucherSvcFacade {
	return &voucherService{
		voucherRepo:      voucherRepo,
		feeStructureRepo: feeStructureRepo,
		studentRepo:      studentRepo,
		discountSvc:      discountSvc,
		auditRepo:        auditRepo,
	}
}

// Ensure voucherService implements the portssvc.VoucherSvcFacade interface
var _ portssvc.VoucherSvcFacade = (*voucherService)(nil)

func (s *voucherService) GetVoucherByID(ctx context.Context, voucherID string) (*domain.FeeVoucher, error) {
	voucher, err := s.voucherRepo.FindVoucherByID(ctx, voucherID)
	if err != nil {
		return nil, err
	}
	lines, err := s.voucherRepo.FindVoucherLines(ctx, voucherID)
	if err != nil {
		return nil, err
	}
	voucher.Lines = lines
	return voucher, nil
}

func (s *voucherService) GetVoucherByNumber(ctx context.Context, voucherNumber string) (*domain.FeeVoucher, error) {
	voucher, err := s.voucherRepo.FindVoucherByNumber(ctx, voucherNumber)
	if err != nil {
		return nil, err
	}
	lines, err := s.voucherRepo.FindVoucherLines(ctx, voucher.VoucherID)
	if err != nil {
		return nil, err
	}
	voucher.Lines = lines
	return voucher, nil
}

func (s *voucherService) ListVouchersByStudent(ctx context.Context, studentID string) ([]domain.FeeVoucher, error) {
	vouchers, err := s.voucherRepo.ListVouchersByStudent(ctx, studentID)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to list vouchers for student", slog.String("error", err.Error()), slog.String("student_id", studentID))
		return nil, fmt.Errorf("failed to list vouchers: %w", err)
	}
	if vouchers == nil {
		return []domain.FeeVoucher{}, nil
	}
	return vouchers, nil
}

func (s *voucherService) ListVouchersByStatus(ctx context.Context, status domain.VoucherStatus) ([]domain.FeeVoucher, error) {
	vouchers, err := s.voucherRepo.ListVouchersByStatus(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list vouchers: %w", err)
	}
	if vouchers == nil {
		return []domain.FeeVoucher{}, nil
	}
	return vouchers, nil
}

func (s *voucherService) ListVouchersIssuedBetween(ctx context.Context, from, to time.Time) ([]domain.FeeVoucher, error) {
	if to.Before(from) {
		return nil, apperrors.NewValidationFailedError("date range end must not precede its start")
	}
	vouchers, err := s.voucherRepo.ListVouchersIssuedBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list vouchers: %w", err)
	}
	if vouchers == nil {
		return []domain.FeeVoucher{}, nil
	}
	return vouchers, nil
}

// CreateVoucher builds a voucher from explicit charges, resolving the
// discount in effect for each line's category on the issue date. The total
// is the sum of line final amounts; the voucher number is assigned by the
// repository from the per-(prefix, period) sequence.
func (s *voucherService) CreateVoucher(ctx context.Context, req dto.CreateVoucherRequest, userID string) (*domain.FeeVoucher, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if len(req.Lines) == 0 {
		return nil, apperrors.NewValidationFailedError(ErrVoucherNoLines.Error())
	}
	if req.DueDate.Before(req.IssueDate) {
		return nil, apperrors.NewValidationFailedError(ErrDueBeforeIssue.Error())
	}
	if req.VoucherType == domain.VoucherMonthly && req.MonthYear == "" {
		return nil, apperrors.NewValidationFailedError(ErrMonthlyNeedsPeriod.Error())
	}

	student, err := s.studentRepo.FindStudentByID(ctx, req.StudentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("student %s not found", req.StudentID))
		}
		return nil, err
	}

	now := time.Now()
	voucherID := uuid.NewString()
	total := decimal.Zero
	lines := make([]domain.VoucherLine, 0, len(req.Lines))

	for _, lineReq := range req.Lines {
		if lineReq.OriginalAmount.LessThanOrEqual(decimal.Zero) {
			return nil, apperrors.NewValidationFailedError(ErrLineAmountSign.Error())
		}
		var discountAmount, finalAmount decimal.Decimal
		if lineReq.DiscountAmount != nil {
			// An explicit line discount bypasses resolution entirely.
			if lineReq.DiscountAmount.IsNegative() || lineReq.DiscountAmount.GreaterThan(lineReq.OriginalAmount) {
				return nil, apperrors.NewValidationFailedError(ErrLineDiscountRange.Error())
			}
			discountAmount = *lineReq.DiscountAmount
			finalAmount = lineReq.OriginalAmount.Sub(discountAmount)
		} else {
			calc, err := s.discountSvc.CalculateDiscountedAmount(ctx, student.StudentID, lineReq.FeeCategoryID, lineReq.OriginalAmount, req.IssueDate)
			if err != nil {
				return nil, err
			}
			discountAmount = calc.DiscountAmount
			finalAmount = calc.NetAmount
		}
		line := domain.VoucherLine{
			LineID:         uuid.NewString(),
			VoucherID:      voucherID,
			FeeCategoryID:  lineReq.FeeCategoryID,
			OriginalAmount: lineReq.OriginalAmount,
			DiscountAmount: discountAmount,
			FinalAmount:    finalAmount,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
		total = total.Add(line.FinalAmount)
		lines = append(lines, line)
	}

	voucher := domain.FeeVoucher{
		VoucherID:   voucherID,
		StudentID:   student.StudentID,
		VoucherType: req.VoucherType,
		MonthYear:   req.MonthYear,
		IssueDate:   req.IssueDate,
		DueDate:     req.DueDate,
		TotalAmount: total,
		PaidAmount:  decimal.Zero,
		FineAmount:  decimal.Zero,
		Status:      domain.VoucherPending,
		Notes:       req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	number, err := s.voucherRepo.SaveVoucher(ctx, voucher, lines)
	if err != nil {
		logger.Error("Failed to save voucher", slog.String("error", err.Error()), slog.String("student_id", student.StudentID))
		return nil, err
	}
	voucher.VoucherNumber = number
	voucher.Lines = lines

	s.recordAudit(ctx, "CREATE_FEE_VOUCHER", voucher.VoucherID, userID,
		fmt.Sprintf("number=%s student=%s total=%s", number, voucher.StudentID, voucher.TotalAmount))
	logger.Info("Voucher created",
		slog.String("voucher_id", voucher.VoucherID),
		slog.String("voucher_number", number),
		slog.String("total", voucher.TotalAmount.String()))
	return &voucher, nil
}

// GenerateMonthlyVoucher builds a student's voucher for a billing period
// from the active monthly fee structures of the student's class. A class
// with no monthly structures yields ErrNoMonthlyStructures so batch callers
// can skip the student rather than fail.
func (s *voucherService) GenerateMonthlyVoucher(ctx context.Context, req dto.GenerateVoucherRequest, userID string) (*domain.FeeVoucher, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	classID, err := s.studentRepo.GetActiveEnrollmentClassID(ctx, req.StudentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("student %s has no active enrollment", req.StudentID))
		}
		return nil, err
	}

	structures, err := s.feeStructureRepo.ListFeeStructuresByClass(ctx, classID)
	if err != nil {
		return nil, fmt.Errorf("failed to list fee structures: %w", err)
	}

	lines := make([]dto.VoucherLineRequest, 0, len(structures))
	for _, structure := range structures {
		if !structure.IsMonthly {
			continue
		}
		lines = append(lines, dto.VoucherLineRequest{
			FeeCategoryID:  structure.FeeCategoryID,
			OriginalAmount: structure.Amount,
		})
	}
	if len(lines) == 0 {
		logger.Warn("No active monthly fee structures for class, skipping voucher generation",
			slog.String("class_id", classID),
			slog.String("student_id", req.StudentID))
		return nil, apperrors.NewValidationFailedError(ErrNoMonthlyStructures.Error())
	}

	return s.CreateVoucher(ctx, dto.CreateVoucherRequest{
		StudentID:   req.StudentID,
		VoucherType: domain.VoucherMonthly,
		MonthYear:   req.MonthYear,
		IssueDate:   req.IssueDate,
		DueDate:     req.DueDate,
		Lines:       lines,
	}, userID)
}

func (s *voucherService) CancelVoucher(ctx context.Context, voucherID string, reason string, userID string) (*domain.FeeVoucher, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if reason == "" {
		return nil, apperrors.NewValidationFailedError("cancellation reason is required")
	}

	voucher, err := s.voucherRepo.FindVoucherByID(ctx, voucherID)
	if err != nil {
		return nil, err
	}
	if !voucher.Cancel(reason) {
		return nil, apperrors.NewConflictError(ErrVoucherNotCancellable.Error())
	}

	voucher.LastUpdatedAt = time.Now()
	voucher.LastUpdatedBy = userID

	if err := s.voucherRepo.UpdateVoucher(ctx, *voucher); err != nil {
		logger.Error("Failed to cancel voucher", slog.String("error", err.Error()), slog.String("voucher_id", voucherID))
		return nil, err
	}

	s.recordAudit(ctx, "CANCEL_FEE_VOUCHER", voucherID, userID, fmt.Sprintf("reason=%s", reason))
	logger.Info("Voucher cancelled", slog.String("voucher_id", voucherID))
	return voucher, nil
}

func (s *voucherService) recordAudit(ctx context.Context, action, entityID, actorID, details string) {
	event := domain.AuditEvent{
		EventID:    uuid.NewString(),
		Action:     action,
		EntityType: "FeeVoucher",
		EntityID:   entityID,
		ActorID:    actorID,
		Details:    details,
		CreatedAt:  time.Now(),
	}
	if err := s.auditRepo.RecordAuditEvent(ctx, event); err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to record audit event", slog.String("error", err.Error()), slog.String("action", action))
	}
}
