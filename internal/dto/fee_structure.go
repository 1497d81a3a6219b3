package dto

import (
	"time"

	"github.com/schoolworks/fee_billing_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateFeeCategoryRequest defines the data needed to create a fee category.
type CreateFeeCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// UpdateFeeCategoryRequest defines the data allowed for updating a category.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateFeeCategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"isActive"`
}

// CreateFeeStructureRequest defines the data needed to bind a category and
// amount to a class.
type CreateFeeStructureRequest struct {
	ClassID       string          `json:"classID" binding:"required"`
	FeeCategoryID string          `json:"feeCategoryID" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	IsMonthly     bool            `json:"isMonthly"`
}

// UpdateFeeStructureRequest defines the data allowed for updating a structure.
type UpdateFeeStructureRequest struct {
	Amount    *decimal.Decimal `json:"amount"`
	IsMonthly *bool            `json:"isMonthly"`
	IsActive  *bool            `json:"isActive"`
}

// FeeCategoryResponse defines the data returned for a fee category.
// Mirrors domain.FeeCategory.
type FeeCategoryResponse struct {
	CategoryID    string    `json:"categoryID"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}

// FeeStructureResponse defines the data returned for a fee structure.
// Mirrors domain.FeeStructure.
type FeeStructureResponse struct {
	StructureID   string          `json:"structureID"`
	ClassID       string          `json:"classID"`
	FeeCategoryID string          `json:"feeCategoryID"`
	Amount        decimal.Decimal `json:"amount"`
	IsMonthly     bool            `json:"isMonthly"`
	IsActive      bool            `json:"isActive"`
	CreatedAt     time.Time       `json:"createdAt"`
	CreatedBy     string          `json:"createdBy"`
	LastUpdatedAt time.Time       `json:"lastUpdatedAt"`
	LastUpdatedBy string          `json:"lastUpdatedBy"`
}

// ToFeeCategoryResponse converts a domain.FeeCategory to FeeCategoryResponse DTO
func ToFeeCategoryResponse(c *domain.FeeCategory) FeeCategoryResponse {
	return FeeCategoryResponse{
		CategoryID:    c.CategoryID,
		Name:          c.Name,
		Description:   c.Description,
		IsActive:      c.IsActive,
		CreatedAt:     c.CreatedAt,
		CreatedBy:     c.CreatedBy,
		LastUpdatedAt: c.LastUpdatedAt,
		LastUpdatedBy: c.LastUpdatedBy,
	}
}

// ToListFeeCategoryResponse converts a slice of domain.FeeCategory to DTOs
func ToListFeeCategoryResponse(categories []domain.FeeCategory) []FeeCategoryResponse {
	res := make([]FeeCategoryResponse, len(categories))
	for i := range categories {
		res[i] = ToFeeCategoryResponse(&categories[i])
	}
	return res
}

// ToFeeStructureResponse converts a domain.FeeStructure to FeeStructureResponse DTO
func ToFeeStructureResponse(s *domain.FeeStructure) FeeStructureResponse {
	return FeeStructureResponse{
		StructureID:   s.StructureID,
		ClassID:       s.ClassID,
		FeeCategoryID: s.FeeCategoryID,
		Amount:        s.Amount,
		IsMonthly:     s.IsMonthly,
		IsActive:      s.IsActive,
		CreatedAt:     s.CreatedAt,
		CreatedBy:     s.CreatedBy,
		LastUpdatedAt: s.LastUpdatedAt,
		LastUpdatedBy: s.LastUpdatedBy,
	}
}

// ToListFeeStructureResponse converts a slice of domain.FeeStructure to DTOs
func ToListFeeStructureResponse(structures []domain.FeeStructure) []FeeStructureResponse {
	res := make([]FeeStructureResponse, len(structures))
	for i := range structures {
		res[i] = ToFeeStructureResponse(&structures[i])
	}
	return res
}

// ListFeeCategoriesResponse wraps the list of fee categories.
type ListFeeCategoriesResponse struct {
	Categories []FeeCategoryResponse `json:"categories"`
}

// ListFeeStructuresResponse wraps the list of fee structures.
type ListFeeStructuresResponse struct {
	Structures []FeeStructureResponse `json:"structures"`
}
