package models

import "github.com/shopspring/decimal"

// FeeCategory is the fee_categories row.
type FeeCategory struct {
	CategoryID  string `json:"categoryID"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsActive    bool   `json:"isActive"`
	AuditFields
}

// FeeStructure is the fee_structures row. (class_id, fee_category_id) is unique.
type FeeStructure struct {
	StructureID   string          `json:"structureID"`
	ClassID       string          `json:"classID"`
	FeeCategoryID string          `json:"feeCategoryID"`
	Amount        decimal.Decimal `json:"amount"`
	IsMonthly     bool            `json:"isMonthly"`
	IsActive      bool            `json:"isActive"`
	AuditFields
}
