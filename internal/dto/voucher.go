package dto

import (
	"time"

	"github.com/schoolworks/fee_billing_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// VoucherLineRequest defines one line item of a voucher creation request.
// An explicit DiscountAmount overrides discount resolution for the line.
type VoucherLineRequest struct {
	FeeCategoryID  string           `json:"feeCategoryID" binding:"required"`
	OriginalAmount decimal.Decimal  `json:"originalAmount" binding:"required"`
	DiscountAmount *decimal.Decimal `json:"discountAmount"`
}

// CreateVoucherRequest defines the data needed to create a voucher from
// explicit line items. MonthYear is only required for monthly vouchers.
type CreateVoucherRequest struct {
	StudentID   string               `json:"studentID" binding:"required"`
	VoucherType domain.VoucherType   `json:"voucherType" binding:"required,oneof=ADMISSION MONTHLY INSTALLMENT"`
	MonthYear   string               `json:"monthYear" binding:"required_if=VoucherType MONTHLY,omitempty,monthyear"`
	IssueDate   time.Time            `json:"issueDate" binding:"required"`
	DueDate     time.Time            `json:"dueDate" binding:"required"`
	Notes       string               `json:"notes"`
	Lines       []VoucherLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// GenerateVoucherRequest defines the data needed to generate a student's
// voucher for a billing period from the class fee structure.
type GenerateVoucherRequest struct {
	StudentID string    `json:"studentID" binding:"required"`
	MonthYear string    `json:"monthYear" binding:"required,monthyear"`
	IssueDate time.Time `json:"issueDate" binding:"required"`
	DueDate   time.Time `json:"dueDate" binding:"required"`
}

// CancelVoucherRequest carries the reason a voucher is being voided.
type CancelVoucherRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// VoucherLineResponse defines the data returned for a voucher line.
type VoucherLineResponse struct {
	LineID         string          `json:"lineID"`
	FeeCategoryID  string          `json:"feeCategoryID"`
	OriginalAmount decimal.Decimal `json:"originalAmount"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	FinalAmount    decimal.Decimal `json:"finalAmount"`
}

// VoucherResponse defines the data returned for a voucher.
// Mirrors domain.FeeVoucher.
type VoucherResponse struct {
	VoucherID       string                `json:"voucherID"`
	VoucherNumber   string                `json:"voucherNumber"`
	StudentID       string                `json:"studentID"`
	VoucherType     domain.VoucherType    `json:"voucherType"`
	MonthYear       string                `json:"monthYear"`
	IssueDate       time.Time             `json:"issueDate"`
	DueDate         time.Time             `json:"dueDate"`
	TotalAmount     decimal.Decimal       `json:"totalAmount"`
	PaidAmount      decimal.Decimal       `json:"paidAmount"`
	FineAmount      decimal.Decimal       `json:"fineAmount"`
	RemainingAmount decimal.Decimal       `json:"remainingAmount"`
	Status          domain.VoucherStatus  `json:"status"`
	PaymentDate     *time.Time            `json:"paymentDate,omitempty"`
	Notes           string                `json:"notes,omitempty"`
	Lines           []VoucherLineResponse `json:"lines,omitempty"`
	CreatedAt       time.Time             `json:"createdAt"`
	CreatedBy       string                `json:"createdBy"`
	LastUpdatedAt   time.Time             `json:"lastUpdatedAt"`
	LastUpdatedBy   string                `json:"lastUpdatedBy"`
}

// ToVoucherResponse converts a domain.FeeVoucher to VoucherResponse DTO
func ToVoucherResponse(v *domain.FeeVoucher) VoucherResponse {
	lines := make([]VoucherLineResponse, len(v.Lines))
	for i, l := range v.Lines {
		lines[i] = VoucherLineResponse{
			LineID:         l.LineID,
			FeeCategoryID:  l.FeeCategoryID,
			OriginalAmount: l.OriginalAmount,
			DiscountAmount: l.DiscountAmount,
			FinalAmount:    l.FinalAmount,
		}
	}
	return VoucherResponse{
		VoucherID:       v.VoucherID,
		VoucherNumber:   v.VoucherNumber,
		StudentID:       v.StudentID,
		VoucherType:     v.VoucherType,
		MonthYear:       v.MonthYear,
		IssueDate:       v.IssueDate,
		DueDate:         v.DueDate,
		TotalAmount:     v.TotalAmount,
		PaidAmount:      v.PaidAmount,
		FineAmount:      v.FineAmount,
		RemainingAmount: v.RemainingAmount(),
		Status:          v.Status,
		PaymentDate:     v.PaymentDate,
		Notes:           v.Notes,
		Lines:           lines,
		CreatedAt:       v.CreatedAt,
		CreatedBy:       v.CreatedBy,
		LastUpdatedAt:   v.LastUpdatedAt,
		LastUpdatedBy:   v.LastUpdatedBy,
	}
}

// ToListVoucherResponse converts a slice of domain.FeeVoucher to VoucherResponse DTOs
func ToListVoucherResponse(vouchers []domain.FeeVoucher) []VoucherResponse {
	res := make([]VoucherResponse, len(vouchers))
	for i := range vouchers {
		res[i] = ToVoucherResponse(&vouchers[i])
	}
	return res
}

// ListVouchersResponse wraps the list of vouchers.
type ListVouchersResponse struct {
	Vouchers []VoucherResponse `json:"vouchers"`
}
