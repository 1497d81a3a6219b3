package domain

import (
	"time"

	"github.com/schoolworks/fee_billing_app/internal/utils/money"
	"github.com/shopspring/decimal"
)

// DiscountType selects how a discount value is interpreted.
type DiscountType string

const (
	DiscountPercentage  DiscountType = "PERCENTAGE"
	DiscountFixedAmount DiscountType = "FIXED_AMOUNT"
)

// StudentDiscount is a time-bounded override reducing one student's charge in
// one fee category. At most one valid discount may exist per (student,
// category) pair at any instant.
type StudentDiscount struct {
	DiscountID    string          `json:"discountID"` // Primary Key (UUID)
	StudentID     string          `json:"studentID"`
	FeeCategoryID string          `json:"feeCategoryID"`
	DiscountType  DiscountType    `json:"discountType"`
	DiscountValue decimal.Decimal `json:"discountValue"`
	Reason        string          `json:"reason,omitempty"`
	ValidFrom     time.Time       `json:"validFrom"`
	ValidTo       *time.Time      `json:"validTo,omitempty"` // nil = open-ended
	IsActive      bool            `json:"isActive"`
	AuditFields
}

// IsValidOn reports whether the discount is active and its window contains
// the given date.
func (d *StudentDiscount) IsValidOn(date time.Time) bool {
	day := truncateToDay(date)
	return d.IsActive &&
		!truncateToDay(d.ValidFrom).After(day) &&
		(d.ValidTo == nil || !truncateToDay(*d.ValidTo).Before(day))
}

// Overlaps reports whether the discount's window intersects [from, to].
// A nil to means the candidate window is open-ended.
func (d *StudentDiscount) Overlaps(from time.Time, to *time.Time) bool {
	if d.ValidTo != nil && truncateToDay(*d.ValidTo).Before(truncateToDay(from)) {
		return false
	}
	if to != nil && truncateToDay(d.ValidFrom).After(truncateToDay(*to)) {
		return false
	}
	return true
}

// CalculateDiscount computes the discount amount for an original charge.
// The result never exceeds the original amount, whatever the type or value.
// Inactive discounts contribute zero.
func (d *StudentDiscount) CalculateDiscount(originalAmount decimal.Decimal) decimal.Decimal {
	if !d.IsActive {
		return decimal.Zero
	}
	var amount decimal.Decimal
	switch d.DiscountType {
	case DiscountPercentage:
		amount = money.PercentageOf(originalAmount, d.DiscountValue)
	case DiscountFixedAmount:
		amount = d.DiscountValue
	default:
		return decimal.Zero
	}
	return money.CapAt(amount, originalAmount)
}
