package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is the fee_payments row. Financial record: insert-only.
type Payment struct {
	PaymentID       string          `json:"paymentID"`
	VoucherID       string          `json:"voucherID"`
	Method          string          `json:"method"`
	Amount          decimal.Decimal `json:"amount"`
	PaymentDate     time.Time       `json:"paymentDate"`
	ReferenceNumber string          `json:"referenceNumber"`
	BankName        string          `json:"bankName"`
	Notes           string          `json:"notes"`
	ReceivedBy      string          `json:"receivedBy"`
	AuditFields
}
