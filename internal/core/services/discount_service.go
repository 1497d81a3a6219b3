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
	ErrDiscountValueRange = errors.New("percentage discount value must be greater than 0 and at most 100")
	ErrDiscountValueSign  = errors.New("fixed discount value must be greater than 0")
	ErrDiscountWindow     = errors.New("discount validTo must not be before validFrom")
	ErrDiscountOverlap    = errors.New("student already has an active discount for this category in the given window")
)

// discountService manages student discounts and resolves the discount in
// effect during voucher generation.
type discountService struct {
	discountRepo portsrepo.DiscountRepositoryFacade
	studentRepo  portsrepo.StudentReader
	auditRepo    portsrepo.AuditRecorder
}

// NewDiscountService creates a new DiscountService.
func NewDiscountService(discountRepo portsrepo.DiscountRepositoryFacade, studentRepo portsrepo.StudentReader, auditRepo portsrepo.AuditRecorder) portssvc.DiscountSvcFacade {
	return &discountService{
		discountRepo: discountRepo,
		studentRepo:  studentRepo,
		auditRepo:    auditRepo,
	}
}

// Ensure discountService implements the portssvc.DiscountSvcFacade interface
var _ portssvc.DiscountSvcFacade = (*discountService)(nil)

// validateDiscountValue enforces the value rules per discount type.
func validateDiscountValue(discountType domain.DiscountType, value decimal.Decimal) error {
	switch discountType {
	case domain.DiscountPercentage:
		if value.LessThanOrEqual(decimal.Zero) || value.GreaterThan(decimal.NewFromInt(100)) {
			return apperrors.NewValidationFailedError(ErrDiscountValueRange.Error())
		}
	case domain.DiscountFixedAmount:
		if value.LessThanOrEqual(decimal.Zero) {
			return apperrors.NewValidationFailedError(ErrDiscountValueSign.Error())
		}
	default:
		return apperrors.NewValidationFailedError(fmt.Sprintf("unknown discount type: %s", discountType))
	}
	return nil
}

func (s *discountService) GetDiscountByID(ctx context.Context, discountID string) (*domain.StudentDiscount, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	discount, err := s.discountRepo.FindDiscountByID(ctx, discountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find discount by ID", slog.String("error", err.Error()), slog.String("discount_id", discountID))
		}
		return nil, err
	}
	return discount, nil
}

func (s *discountService) ListDiscountsByStudent(ctx context.Context, studentID string) ([]domain.StudentDiscount, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	discounts, err := s.discountRepo.ListDiscountsByStudent(ctx, studentID)
	if err != nil {
		logger.Error("Failed to list discounts for student", slog.String("error", err.Error()), slog.String("student_id", studentID))
		return nil, fmt.Errorf("failed to list discounts: %w", err)
	}
	if discounts == nil {
		return []domain.StudentDiscount{}, nil
	}
	return discounts, nil
}

// ResolveValidDiscount picks the discount in effect for the (student,
// category) pair on a date. The overlap check at creation time should keep
// this to at most one row; if bad data slipped in, the newest grant wins and
// the anomaly is logged.
func (s *discountService) ResolveValidDiscount(ctx context.Context, studentID string, feeCategoryID string, onDate time.Time) (*domain.StudentDiscount, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	discounts, err := s.discountRepo.FindValidDiscounts(ctx, studentID, feeCategoryID, onDate)
	if err != nil {
		logger.Error("Failed to query valid discounts", slog.String("error", err.Error()), slog.String("student_id", studentID), slog.String("category_id", feeCategoryID))
		return nil, fmt.Errorf("failed to resolve discount: %w", err)
	}
	if len(discounts) == 0 {
		return nil, nil
	}
	if len(discounts) > 1 {
		logger.Warn("Multiple valid discounts found for student and category, using newest",
			slog.String("student_id", studentID),
			slog.String("category_id", feeCategoryID),
			slog.Int("count", len(discounts)))
	}
	return &discounts[0], nil
}

func (s *discountService) CalculateDiscountedAmount(ctx context.Context, studentID string, feeCategoryID string, originalAmount decimal.Decimal, onDate time.Time) (dto.DiscountCalculation, error) {
	calc := dto.DiscountCalculation{
		OriginalAmount: originalAmount,
		DiscountAmount: decimal.Zero,
		NetAmount:      originalAmount,
	}
	discount, err := s.ResolveValidDiscount(ctx, studentID, feeCategoryID, onDate)
	if err != nil {
		return calc, err
	}
	if discount == nil {
		return calc, nil
	}
	calc.DiscountAmount = discount.CalculateDiscount(originalAmount)
	calc.NetAmount = originalAmount.Sub(calc.DiscountAmount)
	calc.DiscountID = discount.DiscountID
	return calc, nil
}

func (s *discountService) CreateDiscount(ctx context.Context, req dto.CreateDiscountRequest, userID string) (*domain.StudentDiscount, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := validateDiscountValue(req.DiscountType, req.DiscountValue); err != nil {
		return nil, err
	}
	if req.ValidTo != nil && req.ValidTo.Before(req.ValidFrom) {
		return nil, apperrors.NewValidationFailedError(ErrDiscountWindow.Error())
	}

	if _, err := s.studentRepo.FindStudentByID(ctx, req.StudentID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("student %s not found", req.StudentID))
		}
		return nil, err
	}

	// The candidate window must not intersect any active discount on the
	// same category, in full, not just on its start date.
	overlapping, err := s.discountRepo.ListOverlappingDiscounts(ctx, req.StudentID, req.FeeCategoryID, req.ValidFrom, req.ValidTo)
	if err != nil {
		logger.Error("Failed to check discount overlap", slog.String("error", err.Error()), slog.String("student_id", req.StudentID))
		return nil, fmt.Errorf("failed to check discount overlap: %w", err)
	}
	if len(overlapping) > 0 {
		return nil, apperrors.NewConflictError(ErrDiscountOverlap.Error())
	}

	now := time.Now()
	discount := domain.StudentDiscount{
		DiscountID:    uuid.NewString(),
		StudentID:     req.StudentID,
		FeeCategoryID: req.FeeCategoryID,
		DiscountType:  req.DiscountType,
		DiscountValue: req.DiscountValue,
		Reason:        req.Reason,
		ValidFrom:     req.ValidFrom,
		ValidTo:       req.ValidTo,
		IsActive:      true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.discountRepo.SaveDiscount(ctx, discount); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			// Constraint backstop for a race between two concurrent grants.
			return nil, apperrors.NewConflictError(ErrDiscountOverlap.Error())
		}
		logger.Error("Failed to save discount", slog.String("error", err.Error()), slog.String("discount_id", discount.DiscountID))
		return nil, err
	}

	s.recordAudit(ctx, "CREATE_DISCOUNT", discount.DiscountID, userID,
		fmt.Sprintf("type=%s value=%s student=%s category=%s", discount.DiscountType, discount.DiscountValue, discount.StudentID, discount.FeeCategoryID))
	logger.Info("Discount created", slog.String("discount_id", discount.DiscountID), slog.String("student_id", discount.StudentID))
	return &discount, nil
}

// ApplyBulkDiscount grants the same discount to every listed student. Each
// grant is independent: a student whose window collides with an existing
// active discount is skipped, a student that fails for any other reason is
// recorded under Errors, and the rest of the batch proceeds either way.
func (s *discountService) ApplyBulkDiscount(ctx context.Context, req dto.BulkDiscountRequest, userID string) (dto.BulkDiscountResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	result := dto.BulkDiscountResult{Requested: len(req.StudentIDs)}

	// Reject a bad value or window once, before touching any student.
	if err := validateDiscountValue(req.DiscountType, req.DiscountValue); err != nil {
		return result, err
	}
	if req.ValidTo != nil && req.ValidTo.Before(req.ValidFrom) {
		return result, apperrors.NewValidationFailedError(ErrDiscountWindow.Error())
	}

	for _, studentID := range req.StudentIDs {
		single := dto.CreateDiscountRequest{
			StudentID:     studentID,
			FeeCategoryID: req.FeeCategoryID,
			DiscountType:  req.DiscountType,
			DiscountValue: req.DiscountValue,
			Reason:        req.Reason,
			ValidFrom:     req.ValidFrom,
			ValidTo:       req.ValidTo,
		}
		if _, err := s.CreateDiscount(ctx, single, userID); err != nil {
			if errors.Is(err, apperrors.ErrConflict) || errors.Is(err, apperrors.ErrDuplicate) {
				result.Skipped++
				continue
			}
			result.Failed++
			if result.Errors == nil {
				result.Errors = make(map[string]string)
			}
			result.Errors[studentID] = err.Error()
			logger.Warn("Bulk discount grant failed for student",
				slog.String("student_id", studentID), slog.String("error", err.Error()))
			continue
		}
		result.Granted++
	}

	logger.Info("Bulk discount applied",
		slog.Int("requested", result.Requested),
		slog.Int("granted", result.Granted),
		slog.Int("skipped", result.Skipped),
		slog.Int("failed", result.Failed))
	return result, nil
}

func (s *discountService) UpdateDiscount(ctx context.Context, discountID string, req dto.UpdateDiscountRequest, userID string) (*domain.StudentDiscount, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	discount, err := s.discountRepo.FindDiscountByID(ctx, discountID)
	if err != nil {
		return nil, err
	}

	if req.DiscountValue != nil {
		if err := validateDiscountValue(discount.DiscountType, *req.DiscountValue); err != nil {
			return nil, err
		}
		discount.DiscountValue = *req.DiscountValue
	}
	if req.Reason != nil {
		discount.Reason = *req.Reason
	}
	if req.ValidTo != nil {
		if req.ValidTo.Before(discount.ValidFrom) {
			return nil, apperrors.NewValidationFailedError(ErrDiscountWindow.Error())
		}
		discount.ValidTo = req.ValidTo
	}

	discount.LastUpdatedAt = time.Now()
	discount.LastUpdatedBy = userID

	if err := s.discountRepo.UpdateDiscount(ctx, *discount); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, apperrors.NewConflictError(ErrDiscountOverlap.Error())
		}
		logger.Error("Failed to update discount", slog.String("error", err.Error()), slog.String("discount_id", discountID))
		return nil, err
	}

	s.recordAudit(ctx, "UPDATE_DISCOUNT", discountID, userID, "")
	return discount, nil
}

func (s *discountService) ToggleDiscountActive(ctx context.Context, discountID string, active bool, userID string) (*domain.StudentDiscount, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	discount, err := s.discountRepo.FindDiscountByID(ctx, discountID)
	if err != nil {
		return nil, err
	}
	if discount.IsActive == active {
		return discount, nil
	}

	if active {
		// Reactivation must re-pass the overlap check; the window may now
		// collide with a discount granted while this one was inactive.
		overlapping, err := s.discountRepo.ListOverlappingDiscounts(ctx, discount.StudentID, discount.FeeCategoryID, discount.ValidFrom, discount.ValidTo)
		if err != nil {
			return nil, fmt.Errorf("failed to check discount overlap: %w", err)
		}
		for _, other := range overlapping {
			if other.DiscountID != discountID {
				return nil, apperrors.NewConflictError(ErrDiscountOverlap.Error())
			}
		}
	}

	discount.IsActive = active
	discount.LastUpdatedAt = time.Now()
	discount.LastUpdatedBy = userID

	if err := s.discountRepo.UpdateDiscount(ctx, *discount); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			// The exclusion constraint caught a window granted between the
			// overlap check and this write.
			return nil, apperrors.NewConflictError(ErrDiscountOverlap.Error())
		}
		logger.Error("Failed to toggle discount", slog.String("error", err.Error()), slog.String("discount_id", discountID))
		return nil, err
	}

	action := "DEACTIVATE_DISCOUNT"
	if active {
		action = "ACTIVATE_DISCOUNT"
	}
	s.recordAudit(ctx, action, discountID, userID, "")
	return discount, nil
}

func (s *discountService) ExpireOldDiscounts(ctx context.Context, asOf time.Time, userID string) (int64, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	count, err := s.discountRepo.DeactivateExpiredDiscounts(ctx, asOf, userID, time.Now())
	if err != nil {
		logger.Error("Failed to expire discounts", slog.String("error", err.Error()))
		return 0, fmt.Errorf("failed to expire discounts: %w", err)
	}
	if count > 0 {
		s.recordAudit(ctx, "EXPIRE_DISCOUNTS", "", userID, fmt.Sprintf("expired=%d asOf=%s", count, asOf.Format("2006-01-02")))
		logger.Info("Expired discounts", slog.Int64("count", count))
	}
	return count, nil
}

// recordAudit writes an audit event, logging rather than failing the
// operation when the write itself fails.
func (s *discountService) recordAudit(ctx context.Context, action, entityID, actorID, details string) {
	event := domain.AuditEvent{
		EventID:    uuid.NewString(),
		Action:     action,
		EntityType: "StudentDiscount",
		EntityID:   entityID,
		ActorID:    actorID,
		Details:    details,
		CreatedAt:  time.Now(),
	}
	if err := s.auditRepo.RecordAuditEvent(ctx, event); err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to record audit event", slog.String("error", err.Error()), slog.String("action", action))
	}
}
