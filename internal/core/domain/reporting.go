package domain

import "github.com/shopspring/decimal"

// OverdueVoucherRow joins an overdue voucher with the student it bills and
// the student's current class, as needed by defaulter aggregation.
type OverdueVoucherRow struct {
	Voucher FeeVoucher
	Student Student
	ClassID string // Active enrollment class; empty if none resolvable
}

// MonthCollectionStats aggregates the vouchers of one billing month.
// Totals exclude cancelled vouchers; CountsByStatus includes every status.
type MonthCollectionStats struct {
	MonthYear      string
	CountsByStatus map[VoucherStatus]int64
	TotalBilled    decimal.Decimal // total_amount over non-cancelled vouchers
	TotalFines     decimal.Decimal
	TotalCollected decimal.Decimal
}
