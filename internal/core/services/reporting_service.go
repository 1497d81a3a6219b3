package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/schoolworks/fee_billing_app/internal/apperrors"
	"github.com/schoolworks/fee_billing_app/internal/core/domain"
	portsrepo "github.com/schoolworks/fee_billing_app/internal/core/ports/repositories"
	portssvc "github.com/schoolworks/fee_billing_app/internal/core/ports/services"
	"github.com/schoolworks/fee_billing_app/internal/dto"
	"github.com/schoolworks/fee_billing_app/internal/middleware"
)

// reportingService exposes collection totals for the back office.
type reportingService struct {
	reportingRepo portsrepo.ReportingReader
}

// NewReportingService creates a new ReportingService.
func NewReportingService(reportingRepo portsrepo.ReportingReader) portssvc.ReportingSvc {
	return &reportingService{reportingRepo: reportingRepo}
}

// Ensure reportingService implements the portssvc.ReportingSvc interface
var _ portssvc.ReportingSvc = (*reportingService)(nil)

func (s *reportingService) GetCollectionSummary(ctx context.Context, from, to time.Time) (*dto.CollectionSummary, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	collected, err := s.reportingRepo.SumCollectionBetween(ctx, from, to)
	if err != nil {
		logger.Error("Failed to sum collections", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to build collection summary: %w", err)
	}

	outstanding, err := s.reportingRepo.SumOutstandingByStatus(ctx, []domain.VoucherStatus{domain.VoucherPending, domain.VoucherOverdue})
	if err != nil {
		logger.Error("Failed to sum outstanding balances", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to build collection summary: %w", err)
	}

	counts, err := s.reportingRepo.CountVouchersByStatus(ctx)
	if err != nil {
		logger.Error("Failed to count vouchers by status", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to build collection summary: %w", err)
	}

	summary := &dto.CollectionSummary{
		FromDate:         from,
		ToDate:           to,
		TotalCollected:   collected,
		TotalOutstanding: outstanding,
		VoucherCounts:    make(map[string]int64, len(counts)),
	}
	for status, count := range counts {
		summary.VoucherCounts[string(status)] = count
	}
	return summary, nil
}

// GetMonthlyCollectionReport summarizes one billing month. The collection
// rate is collected over billed plus fines, as a percentage rounded to two
// decimals; a month with nothing billed reports a zero rate.
func (s *reportingService) GetMonthlyCollectionReport(ctx context.Context, monthYear string) (*dto.MonthlyCollectionReport, error) {
	if _, err := time.Parse("01-2006", monthYear); err != nil {
		return nil, apperrors.NewValidationFailedError("monthYear must be in MM-YYYY format")
	}

	stats, err := s.reportingRepo.SummarizeMonth(ctx, monthYear)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to summarize month", slog.String("error", err.Error()), slog.String("month_year", monthYear))
		return nil, fmt.Errorf("failed to build monthly collection report: %w", err)
	}

	receivable := stats.TotalBilled.Add(stats.TotalFines)
	rate := decimal.Zero
	if receivable.IsPositive() {
		rate = stats.TotalCollected.Mul(decimal.NewFromInt(100)).DivRound(receivable, 2)
	}

	report := &dto.MonthlyCollectionReport{
		MonthYear:        stats.MonthYear,
		VoucherCounts:    make(map[string]int64, len(stats.CountsByStatus)),
		TotalBilled:      stats.TotalBilled,
		TotalFines:       stats.TotalFines,
		TotalCollected:   stats.TotalCollected,
		TotalOutstanding: receivable.Sub(stats.TotalCollected),
		CollectionRate:   rate,
	}
	for status, count := range stats.CountsByStatus {
		report.VoucherCounts[string(status)] = count
	}
	return report, nil
}
