package repositories

import (
	"context"

	"github.com/schoolworks/fee_billing_app/internal/core/domain"
)

// FeeCategoryReader defines read operations for fee categories
type FeeCategoryReader interface {
	FindFeeCategoryByID(ctx context.Context, categoryID string) (*domain.FeeCategory, error)
	ListFeeCategories(ctx context.Context, activeOnly bool) ([]domain.FeeCategory, error)
}

// FeeCategoryWriter defines write operations for fee categories
type FeeCategoryWriter interface {
	SaveFeeCategory(ctx context.Context, category domain.FeeCategory) error
	UpdateFeeCategory(ctx context.Context, category domain.FeeCategory) error
}

// FeeStructureReader defines read operations for class fee structures
type FeeStructureReader interface {
	FindFeeStructureByID(ctx context.Context, structureID string) (*domain.FeeStructure, error)

	// ListFeeStructuresByClass retrieves the active fee structures for a
	// class. An empty slice means the class has no billable fees
	// configured.
	ListFeeStructuresByClass(ctx context.Context, classID string) ([]domain.FeeStructure, error)
}

// FeeStructureWriter defines write operations for class fee structures
type FeeStructureWriter interface {
	// SaveFeeStructure inserts a new structure. A unique-constraint hit on
	// (class, category) maps to apperrors.ErrDuplicate.
	SaveFeeStructure(ctx context.Context, structure domain.FeeStructure) error
	UpdateFeeStructure(ctx context.Context, structure domain.FeeStructure) error
}

// FeeStructureRepositoryFacade combines category and structure repository interfaces
type FeeStructureRepositoryFacade interface {
	FeeCategoryReader
	FeeCategoryWriter
	FeeStructureReader
	FeeStructureWriter
}
