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
	ErrFineValueRange = errors.New("percentage fine value must be greater than 0 and at most 100")
	ErrFineValueSign  = errors.New("fixed fine value must be greater than 0")
	ErrFineTierExists = errors.New("class already has a fine tier at this days-after-due threshold")
	ErrNoFineToWaive  = errors.New("voucher carries no fine to waive")
)

// fineService resolves escalation tiers and computes voucher fines. Fines
// are recomputed from scratch on every run and stored as a replacement, so
// re-running a sweep on the same date never double-applies.
type fineService struct {
	fineRepo    portsrepo.FineTierRepositoryFacade
	voucherRepo portsrepo.VoucherRepositoryFacade
	studentRepo portsrepo.StudentReader
	auditRepo   portsrepo.AuditRecorder
}

// NewFineService creates a new FineService.
func NewFineService(fineRepo portsrepo.FineTierRepositoryFacade, voucherRepo portsrepo.VoucherRepositoryFacade, studentRepo portsrepo.StudentReader, auditRepo portsrepo.AuditRecorder) portssvc.FineSvcFacade {
	return &fineService{
		fineRepo:    fineRepo,
		voucherRepo: voucherRepo,
		studentRepo: studentRepo,
		auditRepo:   auditRepo,
	}
}

// Ensure fineService implements the portssvc.FineSvcFacade interface
var _ portssvc.FineSvcFacade = (*fineService)(nil)

func validateFineValue(fineType domain.FineType, value decimal.Decimal) error {
	switch fineType {
	case domain.FinePercentage:
		if value.LessThanOrEqual(decimal.Zero) || value.GreaterThan(decimal.NewFromInt(100)) {
			return apperrors.NewValidationFailedError(ErrFineValueRange.Error())
		}
	case domain.FineFixedAmount:
		if value.LessThanOrEqual(decimal.Zero) {
			return apperrors.NewValidationFailedError(ErrFineValueSign.Error())
		}
	default:
		return apperrors.NewValidationFailedError(fmt.Sprintf("unknown fine type: %s", fineType))
	}
	return nil
}

func (s *fineService) GetFineTierByID(ctx context.Context, fineID string) (*domain.FineTier, error) {
	return s.fineRepo.FindFineTierByID(ctx, fineID)
}

func (s *fineService) ListFineTiersByClass(ctx context.Context, classID string) ([]domain.FineTier, error) {
	tiers, err := s.fineRepo.ListFineTiersByClass(ctx, classID)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to list fine tiers", slog.String("error", err.Error()), slog.String("class_id", classID))
		return nil, fmt.Errorf("failed to list fine tiers: %w", err)
	}
	if tiers == nil {
		return []domain.FineTier{}, nil
	}
	return tiers, nil
}

// ComputeFineForVoucher recomputes a voucher's fine as of a date. The highest
// applicable tier wins; tiers never stack. Vouchers that are not pending, not
// yet due, or whose student has no active enrollment get a zero fine.
func (s *fineService) ComputeFineForVoucher(ctx context.Context, voucher domain.FeeVoucher, asOf time.Time) (decimal.Decimal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if voucher.Status != domain.VoucherPending {
		return decimal.Zero, nil
	}
	daysOverdue := voucher.DaysOverdue(asOf)
	if daysOverdue == 0 {
		return decimal.Zero, nil
	}

	classID, err := s.studentRepo.GetActiveEnrollmentClassID(ctx, voucher.StudentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// A fine cannot be escalated without a class rule set to
			// attribute it to. Soft no-op, not an error.
			logger.Warn("No active enrollment for student, skipping fine",
				slog.String("student_id", voucher.StudentID),
				slog.String("voucher_id", voucher.VoucherID))
			return decimal.Zero, nil
		}
		return decimal.Zero, fmt.Errorf("failed to resolve enrollment: %w", err)
	}

	tiers, err := s.fineRepo.FindApplicableTiers(ctx, classID, daysOverdue)
	if err != nil {
		logger.Error("Failed to find applicable fine tiers", slog.String("error", err.Error()), slog.String("class_id", classID))
		return decimal.Zero, fmt.Errorf("failed to find fine tiers: %w", err)
	}
	if len(tiers) == 0 {
		return decimal.Zero, nil
	}
	return tiers[0].CalculateFine(voucher.TotalAmount), nil
}

func (s *fineService) CalculateFines(ctx context.Context, voucherIDs []string, asOf time.Time) (map[string]decimal.Decimal, error) {
	fines := make(map[string]decimal.Decimal, len(voucherIDs))
	for _, voucherID := range voucherIDs {
		voucher, err := s.voucherRepo.FindVoucherByID(ctx, voucherID)
		if err != nil {
			return nil, err
		}
		fine, err := s.ComputeFineForVoucher(ctx, *voucher, asOf)
		if err != nil {
			return nil, err
		}
		fines[voucherID] = fine
	}
	return fines, nil
}

func (s *fineService) CreateFineTier(ctx context.Context, req dto.CreateFineTierRequest, userID string) (*domain.FineTier, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := validateFineValue(req.FineType, req.FineValue); err != nil {
		return nil, err
	}

	now := time.Now()
	tier := domain.FineTier{
		FineID:       uuid.NewString(),
		ClassID:      req.ClassID,
		DaysAfterDue: req.DaysAfterDue,
		FineType:     req.FineType,
		FineValue:    req.FineValue,
		IsActive:     true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.fineRepo.SaveFineTier(ctx, tier); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, apperrors.NewConflictError(ErrFineTierExists.Error())
		}
		logger.Error("Failed to save fine tier", slog.String("error", err.Error()), slog.String("class_id", req.ClassID))
		return nil, err
	}

	s.recordAudit(ctx, "CREATE_FINE_TIER", tier.FineID, userID,
		fmt.Sprintf("class=%s daysAfterDue=%d type=%s value=%s", tier.ClassID, tier.DaysAfterDue, tier.FineType, tier.FineValue))
	logger.Info("Fine tier created", slog.String("fine_id", tier.FineID), slog.String("class_id", tier.ClassID), slog.Int("days_after_due", tier.DaysAfterDue))
	return &tier, nil
}

func (s *fineService) UpdateFineTier(ctx context.Context, fineID string, req dto.UpdateFineTierRequest, userID string) (*domain.FineTier, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	tier, err := s.fineRepo.FindFineTierByID(ctx, fineID)
	if err != nil {
		return nil, err
	}

	if req.FineType != nil {
		tier.FineType = *req.FineType
	}
	if req.FineValue != nil {
		tier.FineValue = *req.FineValue
	}
	if err := validateFineValue(tier.FineType, tier.FineValue); err != nil {
		return nil, err
	}
	if req.IsActive != nil {
		tier.IsActive = *req.IsActive
	}

	tier.LastUpdatedAt = time.Now()
	tier.LastUpdatedBy = userID

	if err := s.fineRepo.UpdateFineTier(ctx, *tier); err != nil {
		logger.Error("Failed to update fine tier", slog.String("error", err.Error()), slog.String("fine_id", fineID))
		return nil, err
	}

	s.recordAudit(ctx, "UPDATE_FINE_TIER", fineID, userID, "")
	return tier, nil
}

// ApplyFineToVoucher recomputes and stores one voucher's fine as of a date.
// The stored amount is replaced, not incremented, and a voucher now past due
// is flipped to overdue in the same update.
func (s *fineService) ApplyFineToVoucher(ctx context.Context, voucherID string, asOf time.Time, userID string) (*domain.FeeVoucher, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	voucher, err := s.voucherRepo.FindVoucherByID(ctx, voucherID)
	if err != nil {
		return nil, err
	}
	// Recomputation only applies to pending vouchers; a fine already carried
	// by an overdue or settled voucher stays as stored.
	if voucher.Status != domain.VoucherPending {
		return voucher, nil
	}

	fine, err := s.ComputeFineForVoucher(ctx, *voucher, asOf)
	if err != nil {
		return nil, err
	}
	if fine.IsZero() && voucher.FineAmount.IsZero() {
		return voucher, nil
	}

	previous := voucher.FineAmount
	voucher.FineAmount = fine
	if voucher.IsOverdueAsOf(asOf) {
		voucher.MarkOverdue()
	}
	voucher.LastUpdatedAt = time.Now()
	voucher.LastUpdatedBy = userID

	if err := s.voucherRepo.UpdateVoucher(ctx, *voucher); err != nil {
		logger.Error("Failed to apply fine to voucher", slog.String("error", err.Error()), slog.String("voucher_id", voucherID))
		return nil, err
	}

	if !previous.Equal(fine) {
		s.recordAudit(ctx, "APPLY_FINE", voucherID, userID,
			fmt.Sprintf("previous=%s fine=%s asOf=%s", previous, fine, asOf.Format("2006-01-02")))
		logger.Info("Fine applied to voucher",
			slog.String("voucher_id", voucherID),
			slog.String("fine", fine.String()))
	}
	return voucher, nil
}

func (s *fineService) WaiveFine(ctx context.Context, voucherID string, reason string, userID string) (*domain.FeeVoucher, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if reason == "" {
		return nil, apperrors.NewValidationFailedError("waive reason is required")
	}

	voucher, err := s.voucherRepo.FindVoucherByID(ctx, voucherID)
	if err != nil {
		return nil, err
	}
	if voucher.FineAmount.IsZero() {
		return nil, apperrors.NewValidationFailedError(ErrNoFineToWaive.Error())
	}

	waived := voucher.FineAmount
	voucher.FineAmount = decimal.Zero
	if voucher.Notes != "" {
		voucher.Notes += "; "
	}
	voucher.Notes += "Fine waived: " + reason
	voucher.LastUpdatedAt = time.Now()
	voucher.LastUpdatedBy = userID

	if err := s.voucherRepo.UpdateVoucher(ctx, *voucher); err != nil {
		logger.Error("Failed to waive fine", slog.String("error", err.Error()), slog.String("voucher_id", voucherID))
		return nil, err
	}

	s.recordAudit(ctx, "WAIVE_FINE", voucherID, userID, fmt.Sprintf("waived=%s reason=%s", waived, reason))
	logger.Info("Fine waived", slog.String("voucher_id", voucherID), slog.String("waived", waived.String()))
	return voucher, nil
}

func (s *fineService) recordAudit(ctx context.Context, action, entityID, actorID, details string) {
	entityType := "FeeVoucher"
	if action == "CREATE_FINE_TIER" || action == "UPDATE_FINE_TIER" {
		entityType = "FineTier"
	}
	event := domain.AuditEvent{
		EventID:    uuid.NewString(),
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		ActorID:    actorID,
		Details:    details,
		CreatedAt:  time.Now(),
	}
	if err := s.auditRepo.RecordAuditEvent(ctx, event); err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to record audit event", slog.String("error", err.Error()), slog.String("action", action))
	}
}
