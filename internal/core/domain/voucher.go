package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// VoucherType classifies what a fee voucher bills for.
type VoucherType string

const (
	VoucherAdmission   VoucherType = "ADMISSION"
	VoucherMonthly     VoucherType = "MONTHLY"
	VoucherInstallment VoucherType = "INSTALLMENT"
)

// VoucherStatus is the lifecycle state of a fee voucher.
//
// PENDING -> {PAID, OVERDUE, CANCELLED}; OVERDUE -> {PAID, CANCELLED};
// PAID and CANCELLED are terminal.
type VoucherStatus string

const (
	VoucherPending   VoucherStatus = "PENDING"
	VoucherPaid      VoucherStatus = "PAID"
	VoucherOverdue   VoucherStatus = "OVERDUE"
	VoucherCancelled VoucherStatus = "CANCELLED"
)

// FeeVoucher is one billing obligation for one student for one period/type.
// TotalAmount must always equal the sum of line final amounts; the remaining
// balance is derived, never stored.
type FeeVoucher struct {
	VoucherID     string          `json:"voucherID"`     // Primary Key (UUID)
	VoucherNumber string          `json:"voucherNumber"` // Unique, format <PFX>-<YYMM>-<NNNNN>
	StudentID     string          `json:"studentID"`     // FK -> students
	VoucherType   VoucherType     `json:"voucherType"`
	MonthYear     string          `json:"monthYear,omitempty"` // MM-YYYY tag for monthly vouchers
	IssueDate     time.Time       `json:"issueDate"`
	DueDate       time.Time       `json:"dueDate"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	PaidAmount    decimal.Decimal `json:"paidAmount"`
	FineAmount    decimal.Decimal `json:"fineAmount"`
	Status        VoucherStatus   `json:"status"`
	PaymentDate   *time.Time      `json:"paymentDate,omitempty"` // Set on full settlement
	Notes         string          `json:"notes,omitempty"`
	Lines         []VoucherLine   `json:"lines,omitempty"`
	AuditFields
}

// VoucherLine is one charge-category component of a voucher, net of its own
// discount. Immutable once created.
type VoucherLine struct {
	LineID         string          `json:"lineID"`
	VoucherID      string          `json:"voucherID"`
	FeeCategoryID  string          `json:"feeCategoryID"`
	OriginalAmount decimal.Decimal `json:"originalAmount"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	FinalAmount    decimal.Decimal `json:"finalAmount"` // original - discount
	AuditFields
}

// RemainingAmount derives the outstanding balance: total + fine - paid.
func (v *FeeVoucher) RemainingAmount() decimal.Decimal {
	return v.TotalAmount.Add(v.FineAmount).Sub(v.PaidAmount)
}

// IsPaid reports whether the voucher is fully settled.
func (v *FeeVoucher) IsPaid() bool {
	return v.Status == VoucherPaid
}

// IsOverdueAsOf reports whether the voucher is overdue on the given date.
// A PENDING voucher past its due date counts as overdue even if the sweep has
// not flipped its stored status yet.
func (v *FeeVoucher) IsOverdueAsOf(date time.Time) bool {
	return v.Status == VoucherOverdue ||
		(v.Status == VoucherPending && v.DueDate.Before(truncateToDay(date)))
}

// MarkOverdue transitions PENDING -> OVERDUE. Calling it on a voucher in any
// other state is a no-op, which makes the overdue sweep idempotent.
func (v *FeeVoucher) MarkOverdue() bool {
	if v.Status != VoucherPending {
		return false
	}
	v.Status = VoucherOverdue
	return true
}

// ApplyPayment increases the paid amount and transitions to PAID once the
// total obligation (including fine) is covered. The payment date is stamped
// on full settlement only.
func (v *FeeVoucher) ApplyPayment(amount decimal.Decimal, on time.Time) {
	v.PaidAmount = v.PaidAmount.Add(amount)
	if v.PaidAmount.GreaterThanOrEqual(v.TotalAmount.Add(v.FineAmount)) {
		v.Status = VoucherPaid
		paid := truncateToDay(on)
		v.PaymentDate = &paid
	}
}

// Cancel transitions to CANCELLED and appends the reason to the notes.
// Returns false if the voucher is already PAID; a settled voucher is final.
func (v *FeeVoucher) Cancel(reason string) bool {
	if v.Status == VoucherPaid {
		return false
	}
	v.Status = VoucherCancelled
	if v.Notes != "" {
		v.Notes += "; "
	}
	v.Notes += "Cancelled: " + reason
	return true
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DaysOverdue returns the whole days between the due date and asOf, zero if
// not yet due.
func (v *FeeVoucher) DaysOverdue(asOf time.Time) int {
	days := int(truncateToDay(asOf).Sub(truncateToDay(v.DueDate)).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// NumberPrefix returns the voucher-number prefix for a voucher type.
func (t VoucherType) NumberPrefix() string {
	switch t {
	case VoucherAdmission:
		return "ADM"
	case VoucherInstallment:
		return "INS"
	default:
		return "MON"
	}
}
