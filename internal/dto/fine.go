package dto

import (
	"time"

	"github.com/schoolworks/fee_billing_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateFineTierRequest defines the data needed to add a fine escalation
// tier to a class ladder.
type CreateFineTierRequest struct {
	ClassID      string          `json:"classID" binding:"required"`
	DaysAfterDue int             `json:"daysAfterDue" binding:"required,min=1"`
	FineType     domain.FineType `json:"fineType" binding:"required,oneof=PERCENTAGE FIXED_AMOUNT"`
	FineValue    decimal.Decimal `json:"fineValue" binding:"required"`
}

// UpdateFineTierRequest defines the data allowed for updating a tier.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateFineTierRequest struct {
	FineType  *domain.FineType `json:"fineType"`
	FineValue *decimal.Decimal `json:"fineValue"`
	IsActive  *bool            `json:"isActive"`
}

// CalculateFinesRequest asks for a fine preview over a set of vouchers.
// A zero AsOf means today.
type CalculateFinesRequest struct {
	VoucherIDs []string  `json:"voucherIDs" binding:"required,min=1"`
	AsOf       time.Time `json:"asOf"`
}

// CalculateFinesResponse maps each requested voucher to the fine it would
// carry. Nothing is persisted by the preview.
type CalculateFinesResponse struct {
	AsOf  time.Time                  `json:"asOf"`
	Fines map[string]decimal.Decimal `json:"fines"`
}

// WaiveFineRequest carries the reason a voucher's fine is being waived.
type WaiveFineRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// FineTierResponse defines the data returned for a fine tier.
// Mirrors domain.FineTier.
type FineTierResponse struct {
	FineID        string          `json:"fineID"`
	ClassID       string          `json:"classID"`
	DaysAfterDue  int             `json:"daysAfterDue"`
	FineType      domain.FineType `json:"fineType"`
	FineValue     decimal.Decimal `json:"fineValue"`
	IsActive      bool            `json:"isActive"`
	CreatedAt     time.Time       `json:"createdAt"`
	CreatedBy     string          `json:"createdBy"`
	LastUpdatedAt time.Time       `json:"lastUpdatedAt"`
	LastUpdatedBy string          `json:"lastUpdatedBy"`
}

// ToFineTierResponse converts a domain.FineTier to FineTierResponse DTO
func ToFineTierResponse(t *domain.FineTier) FineTierResponse {
	return FineTierResponse{
		FineID:        t.FineID,
		ClassID:       t.ClassID,
		DaysAfterDue:  t.DaysAfterDue,
		FineType:      t.FineType,
		FineValue:     t.FineValue,
		IsActive:      t.IsActive,
		CreatedAt:     t.CreatedAt,
		CreatedBy:     t.CreatedBy,
		LastUpdatedAt: t.LastUpdatedAt,
		LastUpdatedBy: t.LastUpdatedBy,
	}
}

// ToListFineTierResponse converts a slice of domain.FineTier to FineTierResponse DTOs
func ToListFineTierResponse(tiers []domain.FineTier) []FineTierResponse {
	res := make([]FineTierResponse, len(tiers))
	for i := range tiers {
		res[i] = ToFineTierResponse(&tiers[i])
	}
	return res
}

// ListFineTiersResponse wraps the list of fine tiers.
type ListFineTiersResponse struct {
	FineTiers []FineTierResponse `json:"fineTiers"`
}
