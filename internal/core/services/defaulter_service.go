package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	portsrepo "github.com/schoolworks/fee_billing_app/internal/core/ports/repositories"
	portssvc "github.com/schoolworks/fee_billing_app/internal/core/ports/services"
	"github.com/schoolworks/fee_billing_app/internal/dto"
	"github.com/schoolworks/fee_billing_app/internal/middleware"
)

// defaulterService aggregates overdue vouchers into the per-student
// defaulter report. Read-only; it never mutates voucher state.
type defaulterService struct {
	reportingRepo portsrepo.ReportingReader
}

// NewDefaulterService creates a new DefaulterService.
func NewDefaulterService(reportingRepo portsrepo.ReportingReader) portssvc.DefaulterSvc {
	return &defaulterService{reportingRepo: reportingRepo}
}

// Ensure defaulterService implements the portssvc.DefaulterSvc interface
var _ portssvc.DefaulterSvc = (*defaulterService)(nil)

func (s *defaulterService) GetDefaulterReport(ctx context.Context, req dto.DefaulterReportRequest) (*dto.DefaulterReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	asOf := req.AsOf
	if asOf.IsZero() {
		asOf = time.Now()
	}

	rows, err := s.reportingRepo.FindOverdueVoucherRows(ctx, asOf)
	if err != nil {
		logger.Error("Failed to query overdue vouchers", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to build defaulter report: %w", err)
	}

	byStudent := make(map[string]*dto.DefaulterEntry)
	var order []string
	for _, row := range rows {
		if req.ClassID != "" && row.ClassID != req.ClassID {
			continue
		}
		daysOverdue := row.Voucher.DaysOverdue(asOf)
		if daysOverdue < req.MinDaysOverdue {
			continue
		}

		entry, ok := byStudent[row.Student.StudentID]
		if !ok {
			entry = &dto.DefaulterEntry{
				StudentID:          row.Student.StudentID,
				RegistrationNumber: row.Student.RegistrationNumber,
				StudentName:        row.Student.FullName,
				ClassID:            row.ClassID,
				TotalOutstanding:   decimal.Zero,
				TotalFines:         decimal.Zero,
				OldestDueDate:      row.Voucher.DueDate,
			}
			byStudent[row.Student.StudentID] = entry
			order = append(order, row.Student.StudentID)
		}

		entry.VoucherCount++
		entry.TotalOutstanding = entry.TotalOutstanding.Add(row.Voucher.RemainingAmount())
		entry.TotalFines = entry.TotalFines.Add(row.Voucher.FineAmount)
		if row.Voucher.DueDate.Before(entry.OldestDueDate) {
			entry.OldestDueDate = row.Voucher.DueDate
		}
		entry.Vouchers = append(entry.Vouchers, dto.DefaulterVoucherRow{
			VoucherID:       row.Voucher.VoucherID,
			VoucherNumber:   row.Voucher.VoucherNumber,
			MonthYear:       row.Voucher.MonthYear,
			DueDate:         row.Voucher.DueDate,
			DaysOverdue:     daysOverdue,
			TotalAmount:     row.Voucher.TotalAmount,
			FineAmount:      row.Voucher.FineAmount,
			RemainingAmount: row.Voucher.RemainingAmount(),
		})
	}

	report := &dto.DefaulterReport{AsOf: asOf, Entries: make([]dto.DefaulterEntry, 0, len(byStudent))}
	for _, studentID := range order {
		entry := byStudent[studentID]
		entry.DaysSinceOldestDue = daysBetween(entry.OldestDueDate, asOf)
		report.Entries = append(report.Entries, *entry)
		report.Summary.StudentCount++
		report.Summary.VoucherCount += entry.VoucherCount
		report.Summary.TotalOutstanding = report.Summary.TotalOutstanding.Add(entry.TotalOutstanding)
	}

	// Longest-overdue students first; ties broken by outstanding amount so
	// the ordering is stable across runs.
	sort.SliceStable(report.Entries, func(i, j int) bool {
		if report.Entries[i].DaysSinceOldestDue != report.Entries[j].DaysSinceOldestDue {
			return report.Entries[i].DaysSinceOldestDue > report.Entries[j].DaysSinceOldestDue
		}
		return report.Entries[i].TotalOutstanding.GreaterThan(report.Entries[j].TotalOutstanding)
	})

	logger.Debug("Defaulter report built",
		slog.Int("students", report.Summary.StudentCount),
		slog.Int("vouchers", report.Summary.VoucherCount))
	return report, nil
}

func daysBetween(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, to.Location())
	days := int(t.Sub(f).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}
