package domain

import (
	"github.com/schoolworks/fee_billing_app/internal/utils/money"
	"github.com/shopspring/decimal"
)

// FineType selects how a fine tier's value is interpreted.
type FineType string

const (
	FinePercentage  FineType = "PERCENTAGE"
	FineFixedAmount FineType = "FIXED_AMOUNT"
)

// FineTier is one escalation rung: for a class, once a voucher is at least
// DaysAfterDue days overdue, this tier's calculation applies. Tiers for a
// class form an escalation ladder and the highest applicable tier wins;
// tiers never stack.
type FineTier struct {
	FineID       string          `json:"fineID"` // Primary Key (UUID)
	ClassID      string          `json:"classID"`
	DaysAfterDue int             `json:"daysAfterDue"` // Unique per class
	FineType     FineType        `json:"fineType"`
	FineValue    decimal.Decimal `json:"fineValue"`
	IsActive     bool            `json:"isActive"`
	AuditFields
}

// CalculateFine computes the fine for a voucher total. Percentage fines are
// taken of the voucher total; fixed fines are uncapped.
func (f *FineTier) CalculateFine(voucherTotal decimal.Decimal) decimal.Decimal {
	switch f.FineType {
	case FinePercentage:
		return money.PercentageOf(voucherTotal, f.FineValue)
	case FineFixedAmount:
		return f.FineValue
	default:
		return decimal.Zero
	}
}
