package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// VoucherStatus is the stored lifecycle state of a fee voucher.
type VoucherStatus string

const (
	VoucherPending   VoucherStatus = "PENDING"
	VoucherPaid      VoucherStatus = "PAID"
	VoucherOverdue   VoucherStatus = "OVERDUE"
	VoucherCancelled VoucherStatus = "CANCELLED"
)

// FeeVoucher is the fee_vouchers row.
type FeeVoucher struct {
	VoucherID     string          `json:"voucherID"`
	VoucherNumber string          `json:"voucherNumber"`
	StudentID     string          `json:"studentID"`
	VoucherType   string          `json:"voucherType"`
	MonthYear     string          `json:"monthYear"`
	IssueDate     time.Time       `json:"issueDate"`
	DueDate       time.Time       `json:"dueDate"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	PaidAmount    decimal.Decimal `json:"paidAmount"`
	FineAmount    decimal.Decimal `json:"fineAmount"`
	Status        VoucherStatus   `json:"status"`
	PaymentDate   *time.Time      `json:"paymentDate"`
	Notes         string          `json:"notes"`
	AuditFields
}

// VoucherLine is the fee_voucher_lines row. Lines are immutable once written.
type VoucherLine struct {
	LineID         string          `json:"lineID"`
	VoucherID      string          `json:"voucherID"`
	FeeCategoryID  string          `json:"feeCategoryID"`
	OriginalAmount decimal.Decimal `json:"originalAmount"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	FinalAmount    decimal.Decimal `json:"finalAmount"`
	AuditFields
}
