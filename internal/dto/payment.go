package dto

import (
	"time"

	"github.com/schoolworks/fee_billing_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RecordPaymentRequest defines the data needed to record a payment
// against a voucher.
type RecordPaymentRequest struct {
	VoucherID       string               `json:"voucherID" binding:"required"`
	Method          domain.PaymentMethod `json:"method" binding:"required,oneof=CASH BANK_TRANSFER CHEQUE ONLINE CARD"`
	Amount          decimal.Decimal      `json:"amount" binding:"required"`
	PaymentDate     time.Time            `json:"paymentDate" binding:"required"`
	ReferenceNumber string               `json:"referenceNumber"`
	BankName        string               `json:"bankName"`
	Notes           string               `json:"notes"`
}

// PaymentResponse defines the data returned for a payment.
// Mirrors domain.Payment.
type PaymentResponse struct {
	PaymentID       string               `json:"paymentID"`
	VoucherID       string               `json:"voucherID"`
	Method          domain.PaymentMethod `json:"method"`
	Amount          decimal.Decimal      `json:"amount"`
	PaymentDate     time.Time            `json:"paymentDate"`
	ReferenceNumber string               `json:"referenceNumber,omitempty"`
	BankName        string               `json:"bankName,omitempty"`
	Notes           string               `json:"notes,omitempty"`
	ReceivedBy      string               `json:"receivedBy"`
	CreatedAt       time.Time            `json:"createdAt"`
}

// ToPaymentResponse converts a domain.Payment to PaymentResponse DTO
func ToPaymentResponse(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		PaymentID:       p.PaymentID,
		VoucherID:       p.VoucherID,
		Method:          p.Method,
		Amount:          p.Amount,
		PaymentDate:     p.PaymentDate,
		ReferenceNumber: p.ReferenceNumber,
		BankName:        p.BankName,
		Notes:           p.Notes,
		ReceivedBy:      p.ReceivedBy,
		CreatedAt:       p.CreatedAt,
	}
}

// ToListPaymentResponse converts a slice of domain.Payment to PaymentResponse DTOs
func ToListPaymentResponse(payments []domain.Payment) []PaymentResponse {
	res := make([]PaymentResponse, len(payments))
	for i := range payments {
		res[i] = ToPaymentResponse(&payments[i])
	}
	return res
}

// ListPaymentsResponse wraps the list of payments.
type ListPaymentsResponse struct {
	Payments []PaymentResponse `json:"payments"`
}
