package repositories

import (
	"context"
	"time"

	"github.com/schoolworks/fee_billing_app/internal/core/domain"
)

// DiscountReader defines read operations for student discount data
type DiscountReader interface {
	// FindDiscountByID retrieves a discount by its unique identifier.
	FindDiscountByID(ctx context.Context, discountID string) (*domain.StudentDiscount, error)

	// ListDiscountsByStudent retrieves a student's active discounts.
	ListDiscountsByStudent(ctx context.Context, studentID string) ([]domain.StudentDiscount, error)

	// FindValidDiscounts retrieves every active discount for the (student,
	// category) pair whose window contains onDate, newest creation first.
	// Under the creation-time overlap check there should be at most one;
	// callers must tolerate more (data-integrity fallback).
	FindValidDiscounts(ctx context.Context, studentID, categoryID string, onDate time.Time) ([]domain.StudentDiscount, error)

	// ListOverlappingDiscounts retrieves active discounts for the (student,
	// category) pair whose windows intersect [from, to]; to is nil for an
	// open-ended candidate window.
	ListOverlappingDiscounts(ctx context.Context, studentID, categoryID string, from time.Time, to *time.Time) ([]domain.StudentDiscount, error)
}

// DiscountWriter defines write operations for student discount data
type DiscountWriter interface {
	// SaveDiscount inserts a new discount. A unique-constraint hit on the
	// active (student, category) pair maps to apperrors.ErrDuplicate.
	SaveDiscount(ctx context.Context, discount domain.StudentDiscount) error

	// UpdateDiscount persists mutable fields (type, value, reason, window, active flag).
	UpdateDiscount(ctx context.Context, discount domain.StudentDiscount) error

	// DeactivateExpiredDiscounts flips active discounts whose validTo has
	// passed to inactive, returning the number of rows changed.
	DeactivateExpiredDiscounts(ctx context.Context, asOf time.Time, updatedBy string, updatedAt time.Time) (int64, error)
}

// DiscountRepositoryFacade combines all discount-related repository interfaces
type DiscountRepositoryFacade interface {
	DiscountReader
	DiscountWriter
}
