package models

import "github.com/shopspring/decimal"

// FineTier is the fine_structures row. (class_id, days_after_due) is unique.
type FineTier struct {
	FineID       string          `json:"fineID"`
	ClassID      string          `json:"classID"`
	DaysAfterDue int             `json:"daysAfterDue"`
	FineType     string          `json:"fineType"`
	FineValue    decimal.Decimal `json:"fineValue"`
	IsActive     bool            `json:"isActive"`
	AuditFields
}
