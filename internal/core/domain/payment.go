package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod identifies how a payment was made.
type PaymentMethod string

const (
	PayCash         PaymentMethod = "CASH"
	PayBankTransfer PaymentMethod = "BANK_TRANSFER"
	PayCheque       PaymentMethod = "CHEQUE"
	PayOnline       PaymentMethod = "ONLINE"
	PayCard         PaymentMethod = "CARD"
)

// Payment is one settlement event against a voucher. Payments are financial
// records: immutable once created, never deleted.
type Payment struct {
	PaymentID       string          `json:"paymentID"` // Primary Key (UUID)
	VoucherID       string          `json:"voucherID"` // FK -> fee_vouchers
	Method          PaymentMethod   `json:"method"`
	Amount          decimal.Decimal `json:"amount"` // Positive value
	PaymentDate     time.Time       `json:"paymentDate"`
	ReferenceNumber string          `json:"referenceNumber,omitempty"`
	BankName        string          `json:"bankName,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	ReceivedBy      string          `json:"receivedBy"` // UserID Reference
	AuditFields
}
