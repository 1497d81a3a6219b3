package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// StudentDiscount is the student_discounts row.
type StudentDiscount struct {
	DiscountID    string          `json:"discountID"`
	StudentID     string          `json:"studentID"`
	FeeCategoryID string          `json:"feeCategoryID"`
	DiscountType  string          `json:"discountType"`
	DiscountValue decimal.Decimal `json:"discountValue"`
	Reason        string          `json:"reason"`
	ValidFrom     time.Time       `json:"validFrom"`
	ValidTo       *time.Time      `json:"validTo"`
	IsActive      bool            `json:"isActive"`
	AuditFields
}
