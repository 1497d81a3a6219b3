package services

import (
	"context"

	"github.com/schoolworks/fee_billing_app/internal/core/domain"
	"github.com/schoolworks/fee_billing_app/internal/dto"
)

// FeeStructureReaderSvc defines read operations for fee categories and structures
type FeeStructureReaderSvc interface {
	GetFeeCategoryByID(ctx context.Context, categoryID string) (*domain.FeeCategory, error)
	ListFeeCategories(ctx context.Context, activeOnly bool) ([]domain.FeeCategory, error)
	GetFeeStructureByID(ctx context.Context, structureID string) (*domain.FeeStructure, error)
	ListFeeStructuresByClass(ctx context.Context, classID string) ([]domain.FeeStructure, error)
}

// FeeStructureWriterSvc defines write operations for fee categories and structures
type FeeStructureWriterSvc interface {
	CreateFeeCategory(ctx context.Context, req dto.CreateFeeCategoryRequest, userID string) (*domain.FeeCategory, error)
	UpdateFeeCategory(ctx context.Context, categoryID string, req dto.UpdateFeeCategoryRequest, userID string) (*domain.FeeCategory, error)
	CreateFeeStructure(ctx context.Context, req dto.CreateFeeStructureRequest, userID string) (*domain.FeeStructure, error)
	UpdateFeeStructure(ctx context.Context, structureID string, req dto.UpdateFeeStructureRequest, userID string) (*domain.FeeStructure, error)
}

// FeeStructureSvcFacade combines category and structure service interfaces
type FeeStructureSvcFacade interface {
	FeeStructureReaderSvc
	FeeStructureWriterSvc
}
