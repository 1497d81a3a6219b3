package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaulterReportRequest defines the filters for a defaulter report run.
// A zero AsOf means today; empty ClassID and zero MinDaysOverdue mean no
// filtering.
type DefaulterReportRequest struct {
	AsOf           time.Time `json:"asOf"`
	ClassID        string    `json:"classID"`
	MinDaysOverdue int       `json:"minDaysOverdue"`
}

// DefaulterVoucherRow is one overdue voucher inside a defaulter entry.
type DefaulterVoucherRow struct {
	VoucherID       string          `json:"voucherID"`
	VoucherNumber   string          `json:"voucherNumber"`
	MonthYear       string          `json:"monthYear"`
	DueDate         time.Time       `json:"dueDate"`
	DaysOverdue     int             `json:"daysOverdue"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	FineAmount      decimal.Decimal `json:"fineAmount"`
	RemainingAmount decimal.Decimal `json:"remainingAmount"`
}

// DefaulterEntry aggregates one student's overdue position.
type DefaulterEntry struct {
	StudentID          string                `json:"studentID"`
	RegistrationNumber string                `json:"registrationNumber"`
	StudentName        string                `json:"studentName"`
	ClassID            string                `json:"classID"`
	VoucherCount       int                   `json:"voucherCount"`
	TotalOutstanding   decimal.Decimal       `json:"totalOutstanding"`
	TotalFines         decimal.Decimal       `json:"totalFines"`
	OldestDueDate      time.Time             `json:"oldestDueDate"`
	DaysSinceOldestDue int                   `json:"daysSinceOldestDue"`
	Vouchers           []DefaulterVoucherRow `json:"vouchers"`
}

// DefaulterReport is the full defaulter listing, worst defaulters first.
type DefaulterReport struct {
	AsOf    time.Time        `json:"asOf"`
	Entries []DefaulterEntry `json:"entries"`
	Summary struct {
		StudentCount     int             `json:"studentCount"`
		VoucherCount     int             `json:"voucherCount"`
		TotalOutstanding decimal.Decimal `json:"totalOutstanding"`
	} `json:"summary"`
}

// MonthlyCollectionReport summarizes how much of one billing month's dues
// have been recovered. CollectionRate is a percentage with two decimals;
// cancelled vouchers count in VoucherCounts but not in the money figures.
type MonthlyCollectionReport struct {
	MonthYear        string           `json:"monthYear"`
	VoucherCounts    map[string]int64 `json:"voucherCounts"`
	TotalBilled      decimal.Decimal  `json:"totalBilled"`
	TotalFines       decimal.Decimal  `json:"totalFines"`
	TotalCollected   decimal.Decimal  `json:"totalCollected"`
	TotalOutstanding decimal.Decimal  `json:"totalOutstanding"`
	CollectionRate   decimal.Decimal  `json:"collectionRate"`
}

// CollectionSummary totals collections and outstanding balances for a period.
type CollectionSummary struct {
	FromDate         time.Time        `json:"fromDate"`
	ToDate           time.Time        `json:"toDate"`
	TotalCollected   decimal.Decimal  `json:"totalCollected"`
	TotalOutstanding decimal.Decimal  `json:"totalOutstanding"`
	VoucherCounts    map[string]int64 `json:"voucherCounts"`
}
