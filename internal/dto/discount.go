package dto

import (
	"time"

	"github.com/schoolworks/fee_billing_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateDiscountRequest defines the data needed to grant a student a discount.
type CreateDiscountRequest struct {
	StudentID     string              `json:"studentID" binding:"required"`
	FeeCategoryID string              `json:"feeCategoryID" binding:"required"`
	DiscountType  domain.DiscountType `json:"discountType" binding:"required,oneof=PERCENTAGE FIXED_AMOUNT"`
	DiscountValue decimal.Decimal     `json:"discountValue" binding:"required"`
	Reason        string              `json:"reason" binding:"required"`
	ValidFrom     time.Time           `json:"validFrom" binding:"required"`
	ValidTo       *time.Time          `json:"validTo"` // nil means open-ended
}

// BulkDiscountRequest grants the same discount to many students at once.
type BulkDiscountRequest struct {
	StudentIDs    []string            `json:"studentIDs" binding:"required,min=1"`
	FeeCategoryID string              `json:"feeCategoryID" binding:"required"`
	DiscountType  domain.DiscountType `json:"discountType" binding:"required,oneof=PERCENTAGE FIXED_AMOUNT"`
	DiscountValue decimal.Decimal     `json:"discountValue" binding:"required"`
	Reason        string              `json:"reason" binding:"required"`
	ValidFrom     time.Time           `json:"validFrom" binding:"required"`
	ValidTo       *time.Time          `json:"validTo"` // nil means open-ended
}

// BulkDiscountResult reports the per-student outcome of a bulk grant.
// Students with an overlapping active discount are skipped, other failures
// are collected without aborting the rest of the batch.
type BulkDiscountResult struct {
	Requested int               `json:"requested"`
	Granted   int               `json:"granted"`
	Skipped   int               `json:"skipped"`
	Failed    int               `json:"failed"`
	Errors    map[string]string `json:"errors,omitempty"` // studentID -> failure reason
}

// UpdateDiscountRequest defines the data allowed for updating a discount.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateDiscountRequest struct {
	DiscountValue *decimal.Decimal `json:"discountValue"`
	Reason        *string          `json:"reason"`
	ValidTo       *time.Time       `json:"validTo"`
}

// DiscountResponse defines the data returned for a discount.
// Mirrors domain.StudentDiscount.
type DiscountResponse struct {
	DiscountID    string              `json:"discountID"`
	StudentID     string              `json:"studentID"`
	FeeCategoryID string              `json:"feeCategoryID"`
	DiscountType  domain.DiscountType `json:"discountType"`
	DiscountValue decimal.Decimal     `json:"discountValue"`
	Reason        string              `json:"reason"`
	ValidFrom     time.Time           `json:"validFrom"`
	ValidTo       *time.Time          `json:"validTo,omitempty"`
	IsActive      bool                `json:"isActive"`
	CreatedAt     time.Time           `json:"createdAt"`
	CreatedBy     string              `json:"createdBy"`
	LastUpdatedAt time.Time           `json:"lastUpdatedAt"`
	LastUpdatedBy string              `json:"lastUpdatedBy"`
}

// DiscountCalculation is the outcome of applying the discount in effect to
// an original amount.
type DiscountCalculation struct {
	OriginalAmount decimal.Decimal `json:"originalAmount"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	NetAmount      decimal.Decimal `json:"netAmount"`
	DiscountID     string          `json:"discountID,omitempty"` // empty when no discount applied
}

// ToDiscountResponse converts a domain.StudentDiscount to DiscountResponse DTO
func ToDiscountResponse(d *domain.StudentDiscount) DiscountResponse {
	return DiscountResponse{
		DiscountID:    d.DiscountID,
		StudentID:     d.StudentID,
		FeeCategoryID: d.FeeCategoryID,
		DiscountType:  d.DiscountType,
		DiscountValue: d.DiscountValue,
		Reason:        d.Reason,
		ValidFrom:     d.ValidFrom,
		ValidTo:       d.ValidTo,
		IsActive:      d.IsActive,
		CreatedAt:     d.CreatedAt,
		CreatedBy:     d.CreatedBy,
		LastUpdatedAt: d.LastUpdatedAt,
		LastUpdatedBy: d.LastUpdatedBy,
	}
}

// ToListDiscountResponse converts a slice of domain.StudentDiscount to DiscountResponse DTOs
func ToListDiscountResponse(discounts []domain.StudentDiscount) []DiscountResponse {
	res := make([]DiscountResponse, len(discounts))
	for i := range discounts {
		res[i] = ToDiscountResponse(&discounts[i])
	}
	return res
}

// ListDiscountsResponse wraps the list of discounts.
type ListDiscountsResponse struct {
	Discounts []DiscountResponse `json:"discounts"`
}
