package domain

import "github.com/shopspring/decimal"

// FeeCategory names one kind of charge (tuition, transport, lab, ...).
type FeeCategory struct {
	CategoryID  string `json:"categoryID"` // Primary Key (UUID)
	Name        string `json:"name"`       // Unique
	Description string `json:"description,omitempty"`
	IsActive    bool   `json:"isActive"`
	AuditFields
}

// FeeStructure is the base charge for a (class, category) pair. It is input
// to voucher generation and is not mutated by the billing engine itself.
type FeeStructure struct {
	StructureID   string          `json:"structureID"` // Primary Key (UUID)
	ClassID       string          `json:"classID"`
	FeeCategoryID string          `json:"feeCategoryID"` // Unique with ClassID
	Amount        decimal.Decimal `json:"amount"`
	IsMonthly     bool            `json:"isMonthly"`
	IsActive      bool            `json:"isActive"`
	AuditFields
}
