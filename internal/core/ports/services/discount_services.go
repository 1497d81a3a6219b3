package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/schoolworks/fee_billing_app/internal/core/domain"
	"github.com/schoolworks/fee_billing_app/internal/dto"
)

// DiscountReaderSvc defines read operations for student discounts
type DiscountReaderSvc interface {
	// GetDiscountByID retrieves a discount by its unique identifier.
	GetDiscountByID(ctx context.Context, discountID string) (*domain.StudentDiscount, error)

	// ListDiscountsByStudent retrieves a student's discounts, newest first.
	ListDiscountsByStudent(ctx context.Context, studentID string) ([]domain.StudentDiscount, error)

	// ResolveValidDiscount returns the discount in effect for a student and
	// fee category on a date, or nil when none applies.
	ResolveValidDiscount(ctx context.Context, studentID string, feeCategoryID string, onDate time.Time) (*domain.StudentDiscount, error)

	// CalculateDiscountedAmount returns the discount value and the net
	// payable for an original amount, given the discount in effect.
	CalculateDiscountedAmount(ctx context.Context, studentID string, feeCategoryID string, originalAmount decimal.Decimal, onDate time.Time) (dto.DiscountCalculation, error)
}

// DiscountWriterSvc defines write operations for student discounts
type DiscountWriterSvc interface {
	// CreateDiscount persists a new discount after validating its value and
	// checking for overlapping active discounts on the same category.
	CreateDiscount(ctx context.Context, req dto.CreateDiscountRequest, userID string) (*domain.StudentDiscount, error)

	// ApplyBulkDiscount grants the same discount to each listed student,
	// isolating per-student outcomes: overlap conflicts are counted as
	// skipped and other failures are collected without aborting the batch.
	ApplyBulkDiscount(ctx context.Context, req dto.BulkDiscountRequest, userID string) (dto.BulkDiscountResult, error)

	// UpdateDiscount persists mutable fields of an existing discount.
	UpdateDiscount(ctx context.Context, discountID string, req dto.UpdateDiscountRequest, userID string) (*domain.StudentDiscount, error)

	// ToggleDiscountActive flips a discount's active flag.
	ToggleDiscountActive(ctx context.Context, discountID string, active bool, userID string) (*domain.StudentDiscount, error)

	// ExpireOldDiscounts deactivates discounts whose validity window ended
	// before asOf, returning how many were touched.
	ExpireOldDiscounts(ctx context.Context, asOf time.Time, userID string) (int64, error)
}

// DiscountSvcFacade combines all discount-related service interfaces
type DiscountSvcFacade interface {
	DiscountReaderSvc
	DiscountWriterSvc
}
