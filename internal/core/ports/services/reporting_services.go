package services

import (
	"context"
	"time"

	"github.com/schoolworks/fee_billing_app/internal/dto"
)

// DefaulterSvc builds the defaulter report consumed by the front office.
type DefaulterSvc interface {
	// GetDefaulterReport returns every student carrying overdue vouchers as
	// of a date, worst defaulters first. The request may narrow the report
	// to one class or to a minimum days-overdue threshold.
	GetDefaulterReport(ctx context.Context, req dto.DefaulterReportRequest) (*dto.DefaulterReport, error)
}

// ReportingSvc exposes collection and outstanding summaries.
type ReportingSvc interface {
	// GetCollectionSummary totals collections in [from, to] alongside
	// voucher counts and outstanding balances.
	GetCollectionSummary(ctx context.Context, from, to time.Time) (*dto.CollectionSummary, error)

	// GetMonthlyCollectionReport summarizes one billing month: voucher
	// counts, billed and collected totals, and the collection percentage.
	GetMonthlyCollectionReport(ctx context.Context, monthYear string) (*dto.MonthlyCollectionReport, error)
}
