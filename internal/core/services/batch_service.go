package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/schoolworks/fee_billing_app/internal/apperrors"
	"github.com/schoolworks/fee_billing_app/internal/core/domain"
	portsrepo "github.com/schoolworks/fee_billing_app/internal/core/ports/repositories"
	portssvc "github.com/schoolworks/fee_billing_app/internal/core/ports/services"
	"github.com/schoolworks/fee_billing_app/internal/dto"
	"github.com/schoolworks/fee_billing_app/internal/middleware"
)

// batchService orchestrates the recurring billing sweeps. Every sweep is
// idempotent per entity, so a partially completed run is recovered by simply
// re-invoking it; there is no whole-batch rollback.
type batchService struct {
	voucherRepo portsrepo.VoucherRepositoryFacade
	studentRepo portsrepo.StudentReader
	voucherSvc  portssvc.VoucherSvcFacade
	fineSvc     portssvc.FineSvcFacade
	discountSvc portssvc.DiscountSvcFacade
}

// NewBatchService creates a new BatchService.
func NewBatchService(voucherRepo portsrepo.VoucherRepositoryFacade, studentRepo portsrepo.StudentReader, voucherSvc portssvc.VoucherSvcFacade, fineSvc portssvc.FineSvcFacade, discountSvc portssvc.DiscountSvcFacade) portssvc.BatchSvc {
	return &batchService{
		voucherRepo: voucherRepo,
		studentRepo: studentRepo,
		voucherSvc:  voucherSvc,
		fineSvc:     fineSvc,
		discountSvc: discountSvc,
	}
}

// Ensure batchService implements the portssvc.BatchSvc interface
var _ portssvc.BatchSvc = (*batchService)(nil)

// resolveCohort expands the generation request into the target student IDs.
func (s *batchService) resolveCohort(ctx context.Context, req dto.GenerateBatchRequest) ([]string, error) {
	if len(req.StudentIDs) > 0 {
		return req.StudentIDs, nil
	}
	if req.ClassID != "" {
		students, err := s.studentRepo.ListActiveStudentsByClass(ctx, req.ClassID)
		if err != nil {
			return nil, fmt.Errorf("failed to list students for class %s: %w", req.ClassID, err)
		}
		ids := make([]string, len(students))
		for i, st := range students {
			ids[i] = st.StudentID
		}
		return ids, nil
	}
	byClass, err := s.studentRepo.ListAllActiveStudents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active students: %w", err)
	}
	var ids []string
	for _, students := range byClass {
		for _, st := range students {
			ids = append(ids, st.StudentID)
		}
	}
	return ids, nil
}

// GenerateMonthlyVouchers builds a voucher per cohort student for the billing
// period. Students already billed for the period are skipped, which makes the
// run re-invokable after a partial failure without duplicate billing.
func (s *batchService) GenerateMonthlyVouchers(ctx context.Context, req dto.GenerateBatchRequest, userID string) (*dto.GenerateBatchResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	cohort, err := s.resolveCohort(ctx, req)
	if err != nil {
		return nil, err
	}

	existing, err := s.voucherRepo.ListVouchersByMonthYear(ctx, req.MonthYear)
	if err != nil {
		return nil, fmt.Errorf("failed to list vouchers for period %s: %w", req.MonthYear, err)
	}
	alreadyBilled := make(map[string]bool, len(existing))
	for _, v := range existing {
		if v.VoucherType == domain.VoucherMonthly && v.Status != domain.VoucherCancelled {
			alreadyBilled[v.StudentID] = true
		}
	}

	result := &dto.GenerateBatchResult{Generated: []dto.VoucherResponse{}}
	for _, studentID := range cohort {
		if alreadyBilled[studentID] {
			result.Skipped++
			continue
		}
		voucher, err := s.voucherSvc.GenerateMonthlyVoucher(ctx, dto.GenerateVoucherRequest{
			StudentID: studentID,
			MonthYear: req.MonthYear,
			IssueDate: req.IssueDate,
			DueDate:   req.DueDate,
		}, userID)
		if err != nil {
			// A class with no monthly structures is an expected skip. Any
			// other failure is logged and excluded without aborting the
			// remaining students.
			if errors.Is(err, apperrors.ErrValidation) || errors.Is(err, apperrors.ErrNotFound) {
				result.Skipped++
				continue
			}
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("student %s: %v", studentID, err))
			logger.Error("Voucher generation failed for student",
				slog.String("student_id", studentID),
				slog.String("error", err.Error()))
			continue
		}
		result.Generated = append(result.Generated, dto.ToVoucherResponse(voucher))
	}

	logger.Info("Monthly voucher generation complete",
		slog.String("month_year", req.MonthYear),
		slog.Int("generated", len(result.Generated)),
		slog.Int64("skipped", result.Skipped),
		slog.Int64("failed", result.Failed))
	return result, nil
}

// ProcessOverdueSweep flips pending vouchers past their due date to overdue
// in one set-based statement. Re-running on the same date changes nothing.
func (s *batchService) ProcessOverdueSweep(ctx context.Context, asOf time.Time, userID string) (*dto.BatchResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	count, err := s.voucherRepo.MarkVouchersOverdue(ctx, asOf, userID, time.Now())
	if err != nil {
		logger.Error("Overdue sweep failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("overdue sweep failed: %w", err)
	}

	logger.Info("Overdue sweep complete", slog.Int64("marked", count))
	return &dto.BatchResult{Processed: count}, nil
}

// ApplyFineSweep recomputes fines voucher by voucher, each in its own
// transaction, so one bad voucher cannot poison the rest of the sweep.
func (s *batchService) ApplyFineSweep(ctx context.Context, voucherIDs []string, asOf time.Time, userID string) (*dto.BatchResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	ids := voucherIDs
	if len(ids) == 0 {
		var err error
		ids, err = s.voucherRepo.ListPendingVoucherIDs(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list pending vouchers: %w", err)
		}
	}

	result := &dto.BatchResult{}
	for _, voucherID := range ids {
		if _, err := s.fineSvc.ApplyFineToVoucher(ctx, voucherID, asOf, userID); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("voucher %s: %v", voucherID, err))
			logger.Error("Fine application failed for voucher",
				slog.String("voucher_id", voucherID),
				slog.String("error", err.Error()))
			continue
		}
		result.Processed++
	}

	logger.Info("Fine sweep complete",
		slog.Int64("processed", result.Processed),
		slog.Int64("failed", result.Failed))
	return result, nil
}

func (s *batchService) ExpireDiscounts(ctx context.Context, asOf time.Time, userID string) (*dto.BatchResult, error) {
	count, err := s.discountSvc.ExpireOldDiscounts(ctx, asOf, userID)
	if err != nil {
		return nil, err
	}
	return &dto.BatchResult{Processed: count}, nil
}

// RunDailyMaintenance runs the fine sweep over pending vouchers, then the
// overdue sweep, then discount expiry. Fines go first so a voucher crossing
// its due date is fined in the same run that flips it to overdue. A failed
// step is reported but does not stop the later steps; each step is
// independently re-runnable.
func (s *batchService) RunDailyMaintenance(ctx context.Context, asOf time.Time, userID string) (*dto.MaintenanceResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	result := &dto.MaintenanceResult{RanAt: time.Now()}

	if fine, err := s.ApplyFineSweep(ctx, nil, asOf, userID); err != nil {
		result.FineSweep.Errors = append(result.FineSweep.Errors, err.Error())
		logger.Error("Daily maintenance: fine sweep failed", slog.String("error", err.Error()))
	} else {
		result.FineSweep = *fine
	}

	if overdue, err := s.ProcessOverdueSweep(ctx, asOf, userID); err != nil {
		result.OverdueSweep.Errors = append(result.OverdueSweep.Errors, err.Error())
		logger.Error("Daily maintenance: overdue sweep failed", slog.String("error", err.Error()))
	} else {
		result.OverdueSweep = *overdue
	}

	if expiry, err := s.ExpireDiscounts(ctx, asOf, userID); err != nil {
		result.DiscountExpiry.Errors = append(result.DiscountExpiry.Errors, err.Error())
		logger.Error("Daily maintenance: discount expiry failed", slog.String("error", err.Error()))
	} else {
		result.DiscountExpiry = *expiry
	}

	logger.Info("Daily maintenance complete",
		slog.Int64("fines_processed", result.FineSweep.Processed),
		slog.Int64("overdue_marked", result.OverdueSweep.Processed),
		slog.Int64("discounts_expired", result.DiscountExpiry.Processed))
	return result, nil
}
