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
	ErrStructureAmountSign = errors.New("fee structure amount must be greater than 0")
	ErrStructureExists     = errors.New("class already has a fee structure for this category")
	ErrCategoryExists      = errors.New("fee category name already exists")
)

// feeStructureService administers fee categories and the per-class base
// charges that voucher generation reads.
type feeStructureService struct {
	feeStructureRepo portsrepo.FeeStructureRepositoryFacade
	auditRepo        portsrepo.AuditRecorder
}

// NewFeeStructureService creates a new FeeStructureService.
func NewFeeStructureService(feeStructureRepo portsrepo.FeeStructureRepositoryFacade, auditRepo portsrepo.AuditRecorder) portssvc.FeeStructureSvcFacade {
	return &feeStructureService{
		feeStructureRepo: feeStructureRepo,
		auditRepo:        auditRepo,
	}
}

// Ensure feeStructureService implements the portssvc.FeeStructureSvcFacade interface
var _ portssvc.FeeStructureSvcFacade = (*feeStructureService)(nil)

func (s *feeStructureService) GetFeeCategoryByID(ctx context.Context, categoryID string) (*domain.FeeCategory, error) {
	return s.feeStructureRepo.FindFeeCategoryByID(ctx, categoryID)
}

func (s *feeStructureService) ListFeeCategories(ctx context.Context, activeOnly bool) ([]domain.FeeCategory, error) {
	categories, err := s.feeStructureRepo.ListFeeCategories(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list fee categories: %w", err)
	}
	if categories == nil {
		return []domain.FeeCategory{}, nil
	}
	return categories, nil
}

func (s *feeStructureService) GetFeeStructureByID(ctx context.Context, structureID string) (*domain.FeeStructure, error) {
	return s.feeStructureRepo.FindFeeStructureByID(ctx, structureID)
}

func (s *feeStructureService) ListFeeStructuresByClass(ctx context.Context, classID string) ([]domain.FeeStructure, error) {
	structures, err := s.feeStructureRepo.ListFeeStructuresByClass(ctx, classID)
	if err != nil {
		return nil, fmt.Errorf("failed to list fee structures: %w", err)
	}
	if structures == nil {
		return []domain.FeeStructure{}, nil
	}
	return structures, nil
}

func (s *feeStructureService) CreateFeeCategory(ctx context.Context, req dto.CreateFeeCategoryRequest, userID string) (*domain.FeeCategory, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now()
	category := domain.FeeCategory{
		CategoryID:  uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		IsActive:    true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.feeStructureRepo.SaveFeeCategory(ctx, category); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, apperrors.NewConflictError(ErrCategoryExists.Error())
		}
		logger.Error("Failed to save fee category", slog.String("error", err.Error()), slog.String("name", req.Name))
		return nil, err
	}

	s.recordAudit(ctx, "CREATE_FEE_CATEGORY", "FeeCategory", category.CategoryID, userID, fmt.Sprintf("name=%s", category.Name))
	logger.Info("Fee category created", slog.String("category_id", category.CategoryID), slog.String("name", category.Name))
	return &category, nil
}

func (s *feeStructureService) UpdateFeeCategory(ctx context.Context, categoryID string, req dto.UpdateFeeCategoryRequest, userID string) (*domain.FeeCategory, error) {
	category, err := s.feeStructureRepo.FindFeeCategoryByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.Description != nil {
		category.Description = *req.Description
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}
	category.LastUpdatedAt = time.Now()
	category.LastUpdatedBy = userID

	if err := s.feeStructureRepo.UpdateFeeCategory(ctx, *category); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, apperrors.NewConflictError(ErrCategoryExists.Error())
		}
		return nil, err
	}

	s.recordAudit(ctx, "UPDATE_FEE_CATEGORY", "FeeCategory", categoryID, userID, "")
	return category, nil
}

func (s *feeStructureService) CreateFeeStructure(ctx context.Context, req dto.CreateFeeStructureRequest, userID string) (*domain.FeeStructure, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, apperrors.NewValidationFailedError(ErrStructureAmountSign.Error())
	}
	if _, err := s.feeStructureRepo.FindFeeCategoryByID(ctx, req.FeeCategoryID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("fee category %s not found", req.FeeCategoryID))
		}
		return nil, err
	}

	now := time.Now()
	structure := domain.FeeStructure{
		StructureID:   uuid.NewString(),
		ClassID:       req.ClassID,
		FeeCategoryID: req.FeeCategoryID,
		Amount:        req.Amount,
		IsMonthly:     req.IsMonthly,
		IsActive:      true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.feeStructureRepo.SaveFeeStructure(ctx, structure); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, apperrors.NewConflictError(ErrStructureExists.Error())
		}
		logger.Error("Failed to save fee structure", slog.String("error", err.Error()), slog.String("class_id", req.ClassID))
		return nil, err
	}

	s.recordAudit(ctx, "CREATE_FEE_STRUCTURE", "FeeStructure", structure.StructureID, userID,
		fmt.Sprintf("class=%s category=%s amount=%s", structure.ClassID, structure.FeeCategoryID, structure.Amount))
	logger.Info("Fee structure created", slog.String("structure_id", structure.StructureID), slog.String("class_id", structure.ClassID))
	return &structure, nil
}

func (s *feeStructureService) UpdateFeeStructure(ctx context.Context, structureID string, req dto.UpdateFeeStructureRequest, userID string) (*domain.FeeStructure, error) {
	structure, err := s.feeStructureRepo.FindFeeStructureByID(ctx, structureID)
	if err != nil {
		return nil, err
	}

	if req.Amount != nil {
		if req.Amount.LessThanOrEqual(decimal.Zero) {
			return nil, apperrors.NewValidationFailedError(ErrStructureAmountSign.Error())
		}
		structure.Amount = *req.Amount
	}
	if req.IsMonthly != nil {
		structure.IsMonthly = *req.IsMonthly
	}
	if req.IsActive != nil {
		structure.IsActive = *req.IsActive
	}
	structure.LastUpdatedAt = time.Now()
	structure.LastUpdatedBy = userID

	if err := s.feeStructureRepo.UpdateFeeStructure(ctx, *structure); err != nil {
		return nil, err
	}

	s.recordAudit(ctx, "UPDATE_FEE_STRUCTURE", "FeeStructure", structureID, userID, "")
	return structure, nil
}

func (s *feeStructureService) recordAudit(ctx context.Context, action, entityType, entityID, actorID, details string) {
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
