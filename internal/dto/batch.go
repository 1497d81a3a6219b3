package dto

import "time"

// GenerateBatchRequest defines the scope of a monthly voucher generation
// run. An explicit student list wins over a class filter; with neither, the
// run covers every active student.
type GenerateBatchRequest struct {
	StudentIDs []string  `json:"studentIDs"`
	ClassID    string    `json:"classID"`
	MonthYear  string    `json:"monthYear" binding:"required,monthyear"`
	IssueDate  time.Time `json:"issueDate" binding:"required"`
	DueDate    time.Time `json:"dueDate" binding:"required"`
}

// BatchRunRequest defines the cutoff date for a sweep run. A zero AsOf
// means today.
type BatchRunRequest struct {
	AsOf time.Time `json:"asOf"`
}

// FineSweepRequest defines the scope of a fine recomputation run. An empty
// VoucherIDs list means every pending voucher.
type FineSweepRequest struct {
	VoucherIDs []string  `json:"voucherIDs"`
	AsOf       time.Time `json:"asOf"`
}

// GenerateBatchResult reports the outcome of a voucher generation run. Each
// student is independent; skips and failures never abort sibling students.
type GenerateBatchResult struct {
	Generated []VoucherResponse `json:"generated"`
	Skipped   int64             `json:"skipped"`
	Failed    int64             `json:"failed"`
	Errors    []string          `json:"errors,omitempty"`
}

// BatchResult summarizes one sweep run.
type BatchResult struct {
	Processed int64    `json:"processed"`
	Skipped   int64    `json:"skipped"`
	Failed    int64    `json:"failed"`
	Errors    []string `json:"errors,omitempty"`
}

// MaintenanceResult summarizes a full daily maintenance run.
type MaintenanceResult struct {
	RanAt          time.Time   `json:"ranAt"`
	OverdueSweep   BatchResult `json:"overdueSweep"`
	FineSweep      BatchResult `json:"fineSweep"`
	DiscountExpiry BatchResult `json:"discountExpiry"`
}
