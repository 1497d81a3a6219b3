package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/schoolworks/fee_billing_app/internal/apperrors"
	"github.com/schoolworks/fee_billing_app/internal/core/domain"
	portssvc "github.com/schoolworks/fee_billing_app/internal/core/ports/services"
	"github.com/schoolworks/fee_billing_app/internal/core/services"
	"github.com/schoolworks/fee_billing_app/internal/dto"
)

type BatchServiceTestSuite struct {
	suite.Suite
	mockVoucherRepo *MockVoucherRepository
	mockStudentRepo *MockStudentRepository
	mockVoucherSvc  *MockVoucherService
	mockFineSvc     *MockFineService
	mockDiscountSvc *MockDiscountService
	service         portssvc.BatchSvc
}

func (suite *BatchServiceTestSuite) SetupTest() {
	suite.mockVoucherRepo = new(MockVoucherRepository)
	suite.mockStudentRepo = new(MockStudentRepository)
	suite.mockVoucherSvc = new(MockVoucherService)
	suite.mockFineSvc = new(MockFineService)
	suite.mockDiscountSvc = new(MockDiscountService)
	suite.service = services.NewBatchService(
		suite.mockVoucherRepo,
		suite.mockStudentRepo,
		suite.mockVoucherSvc,
		suite.mockFineSvc,
		suite.mockDiscountSvc,
	)
}

func (suite *BatchServiceTestSuite) TestGenerateMonthlyVouchers_SkipsAlreadyBilled() {
	ctx := context.Background()
	userID := uuid.NewString()
	billed := "student-billed"
	fresh := "student-fresh"

	req := dto.GenerateBatchRequest{
		StudentIDs: []string{billed, fresh},
		MonthYear:  "02-2026",
		IssueDate:  time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		DueDate:    time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
	}

	// The billed student already holds a non-cancelled monthly voucher for
	// the period; re-running the batch must not bill them twice.
	suite.mockVoucherRepo.On("ListVouchersByMonthYear", ctx, "02-2026").
		Return([]domain.FeeVoucher{
			{VoucherID: uuid.NewString(), StudentID: billed, VoucherType: domain.VoucherMonthly, Status: domain.VoucherPending},
		}, nil).Once()
	suite.mockVoucherSvc.On("GenerateMonthlyVoucher", ctx, mock.MatchedBy(func(r dto.GenerateVoucherRequest) bool {
		return r.StudentID == fresh && r.MonthYear == "02-2026"
	}), userID).Return(&domain.FeeVoucher{
		VoucherID:   uuid.NewString(),
		StudentID:   fresh,
		VoucherType: domain.VoucherMonthly,
		Status:      domain.VoucherPending,
		TotalAmount: decimal.NewFromInt(1200),
	}, nil).Once()

	result, err := suite.service.GenerateMonthlyVouchers(ctx, req, userID)

	suite.Require().NoError(err)
	suite.Require().Len(result.Generated, 1)
	suite.Equal(fresh, result.Generated[0].StudentID)
	suite.Equal(int64(1), result.Skipped)
	suite.Zero(result.Failed)

	suite.mockVoucherSvc.AssertExpectations(suite.T())
	suite.mockVoucherSvc.AssertNumberOfCalls(suite.T(), "GenerateMonthlyVoucher", 1)
}

func (suite *BatchServiceTestSuite) TestGenerateMonthlyVouchers_CancelledVoucherDoesNotBlock() {
	ctx := context.Background()
	userID := uuid.NewString()
	studentID := "student-1"

	req := dto.GenerateBatchRequest{
		StudentIDs: []string{studentID},
		MonthYear:  "02-2026",
		IssueDate:  time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		DueDate:    time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
	}

	suite.mockVoucherRepo.On("ListVouchersByMonthYear", ctx, "02-2026").
		Return([]domain.FeeVoucher{
			{VoucherID: uuid.NewString(), StudentID: studentID, VoucherType: domain.VoucherMonthly, Status: domain.VoucherCancelled},
		}, nil).Once()
	suite.mockVoucherSvc.On("GenerateMonthlyVoucher", ctx, mock.AnythingOfType("dto.GenerateVoucherRequest"), userID).
		Return(&domain.FeeVoucher{VoucherID: uuid.NewString(), StudentID: studentID, Status: domain.VoucherPending}, nil).Once()

	result, err := suite.service.GenerateMonthlyVouchers(ctx, req, userID)

	suite.Require().NoError(err)
	suite.Len(result.Generated, 1)
	suite.Zero(result.Skipped)
}

func (suite *BatchServiceTestSuite) TestGenerateMonthlyVouchers_SkipOnNoStructures() {
	ctx := context.Background()
	userID := uuid.NewString()
	studentID := "student-1"

	req := dto.GenerateBatchRequest{
		StudentIDs: []string{studentID},
		MonthYear:  "02-2026",
		IssueDate:  time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		DueDate:    time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
	}

	suite.mockVoucherRepo.On("ListVouchersByMonthYear", ctx, "02-2026").
		Return([]domain.FeeVoucher{}, nil).Once()
	suite.mockVoucherSvc.On("GenerateMonthlyVoucher", ctx, mock.AnythingOfType("dto.GenerateVoucherRequest"), userID).
		Return(nil, apperrors.NewValidationFailedError("class has no active monthly fee structures")).Once()

	result, err := suite.service.GenerateMonthlyVouchers(ctx, req, userID)

	suite.Require().NoError(err)
	suite.Empty(result.Generated)
	suite.Equal(int64(1), result.Skipped)
	suite.Zero(result.Failed)
	suite.Empty(result.Errors)
}

func (suite *BatchServiceTestSuite) TestGenerateMonthlyVouchers_FailureIsolation() {
	ctx := context.Background()
	userID := uuid.NewString()
	failing := "student-failing"
	fresh := "student-fresh"

	req := dto.GenerateBatchRequest{
		StudentIDs: []string{failing, fresh},
		MonthYear:  "02-2026",
		IssueDate:  time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		DueDate:    time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
	}

	suite.mockVoucherRepo.On("ListVouchersByMonthYear", ctx, "02-2026").
		Return([]domain.FeeVoucher{}, nil).Once()
	suite.mockVoucherSvc.On("GenerateMonthlyVoucher", ctx, mock.MatchedBy(func(r dto.GenerateVoucherRequest) bool {
		return r.StudentID == failing
	}), userID).Return(nil, assert.AnError).Once()
	suite.mockVoucherSvc.On("GenerateMonthlyVoucher", ctx, mock.MatchedBy(func(r dto.GenerateVoucherRequest) bool {
		return r.StudentID == fresh
	}), userID).Return(&domain.FeeVoucher{
		VoucherID: uuid.NewString(),
		StudentID: fresh,
		Status:    domain.VoucherPending,
	}, nil).Once()

	result, err := suite.service.GenerateMonthlyVouchers(ctx, req, userID)

	suite.Require().NoError(err)
	suite.Require().Len(result.Generated, 1)
	suite.Equal(fresh, result.Generated[0].StudentID)
	suite.Equal(int64(1), result.Failed)
	suite.Require().Len(result.Errors, 1)
	suite.Contains(result.Errors[0], failing)

	suite.mockVoucherSvc.AssertExpectations(suite.T())
}

func (suite *BatchServiceTestSuite) TestGenerateMonthlyVouchers_ClassCohort() {
	ctx := context.Background()
	userID := uuid.NewString()

	req := dto.GenerateBatchRequest{
		ClassID:   "class-5a",
		MonthYear: "02-2026",
		IssueDate: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		DueDate:   time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
	}

	suite.mockStudentRepo.On("ListActiveStudentsByClass", ctx, "class-5a").
		Return([]domain.Student{
			{StudentID: "student-1", IsActive: true},
			{StudentID: "student-2", IsActive: true},
		}, nil).Once()
	suite.mockVoucherRepo.On("ListVouchersByMonthYear", ctx, "02-2026").
		Return([]domain.FeeVoucher{}, nil).Once()
	suite.mockVoucherSvc.On("GenerateMonthlyVoucher", ctx, mock.AnythingOfType("dto.GenerateVoucherRequest"), userID).
		Return(&domain.FeeVoucher{VoucherID: uuid.NewString(), Status: domain.VoucherPending}, nil).Twice()

	result, err := suite.service.GenerateMonthlyVouchers(ctx, req, userID)

	suite.Require().NoError(err)
	suite.Len(result.Generated, 2)
	suite.mockStudentRepo.AssertExpectations(suite.T())
}

func (suite *BatchServiceTestSuite) TestProcessOverdueSweep() {
	ctx := context.Background()
	userID := uuid.NewString()
	asOf := time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC)

	suite.mockVoucherRepo.On("MarkVouchersOverdue", ctx, asOf, userID, mock.AnythingOfType("time.Time")).
		Return(int64(3), nil).Once()

	result, err := suite.service.ProcessOverdueSweep(ctx, asOf, userID)

	suite.Require().NoError(err)
	suite.Equal(int64(3), result.Processed)
	suite.mockVoucherRepo.AssertExpectations(suite.T())
}

func (suite *BatchServiceTestSuite) TestApplyFineSweep_DefaultsToAllPending() {
	ctx := context.Background()
	userID := uuid.NewString()
	asOf := time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC)

	suite.mockVoucherRepo.On("ListPendingVoucherIDs", ctx).
		Return([]string{"v-1", "v-2"}, nil).Once()
	suite.mockFineSvc.On("ApplyFineToVoucher", ctx, "v-1", asOf, userID).
		Return(&domain.FeeVoucher{VoucherID: "v-1"}, nil).Once()
	suite.mockFineSvc.On("ApplyFineToVoucher", ctx, "v-2", asOf, userID).
		Return(&domain.FeeVoucher{VoucherID: "v-2"}, nil).Once()

	result, err := suite.service.ApplyFineSweep(ctx, nil, asOf, userID)

	suite.Require().NoError(err)
	suite.Equal(int64(2), result.Processed)
	suite.Zero(result.Failed)

	suite.mockFineSvc.AssertExpectations(suite.T())
}

func (suite *BatchServiceTestSuite) TestApplyFineSweep_FailureIsolation() {
	ctx := context.Background()
	userID := uuid.NewString()
	asOf := time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC)

	suite.mockFineSvc.On("ApplyFineToVoucher", ctx, "v-bad", asOf, userID).
		Return(nil, assert.AnError).Once()
	suite.mockFineSvc.On("ApplyFineToVoucher", ctx, "v-good", asOf, userID).
		Return(&domain.FeeVoucher{VoucherID: "v-good"}, nil).Once()

	result, err := suite.service.ApplyFineSweep(ctx, []string{"v-bad", "v-good"}, asOf, userID)

	suite.Require().NoError(err)
	suite.Equal(int64(1), result.Processed)
	suite.Equal(int64(1), result.Failed)
	suite.Require().Len(result.Errors, 1)
	suite.Contains(result.Errors[0], "v-bad")
	suite.mockVoucherRepo.AssertNotCalled(suite.T(), "ListPendingVoucherIDs", mock.Anything)
}

func (suite *BatchServiceTestSuite) TestRunDailyMaintenance_StepOrder() {
	ctx := context.Background()
	userID := uuid.NewString()
	asOf := time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC)

	var order []string
	suite.mockVoucherRepo.On("ListPendingVoucherIDs", ctx).
		Run(func(mock.Arguments) { order = append(order, "fine") }).
		Return([]string{}, nil).Once()
	suite.mockVoucherRepo.On("MarkVouchersOverdue", ctx, asOf, userID, mock.AnythingOfType("time.Time")).
		Run(func(mock.Arguments) { order = append(order, "overdue") }).
		Return(int64(2), nil).Once()
	suite.mockDiscountSvc.On("ExpireOldDiscounts", ctx, asOf, userID).
		Run(func(mock.Arguments) { order = append(order, "expiry") }).
		Return(int64(1), nil).Once()

	result, err := suite.service.RunDailyMaintenance(ctx, asOf, userID)

	suite.Require().NoError(err)
	// Fines must be computed before the overdue flip so a voucher crossing
	// its due date is fined in the same run.
	suite.Equal([]string{"fine", "overdue", "expiry"}, order)
	suite.Equal(int64(2), result.OverdueSweep.Processed)
	suite.Equal(int64(1), result.DiscountExpiry.Processed)
	suite.False(result.RanAt.IsZero())
}

func (suite *BatchServiceTestSuite) TestRunDailyMaintenance_VoucherCrossingDueDateFinedAndFlipped() {
	ctx := context.Background()
	userID := uuid.NewString()
	voucherID := uuid.NewString()
	asOf := time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC)

	// The voucher fell due before asOf and is still pending. One run must
	// both charge its fine and flip it to overdue, fine first.
	var order []string
	suite.mockVoucherRepo.On("ListPendingVoucherIDs", ctx).
		Return([]string{voucherID}, nil).Once()
	fined := &domain.FeeVoucher{
		VoucherID:   voucherID,
		Status:      domain.VoucherPending,
		DueDate:     asOf.AddDate(0, 0, -3),
		TotalAmount: decimal.NewFromInt(1000),
		FineAmount:  decimal.NewFromInt(100),
	}
	suite.mockFineSvc.On("ApplyFineToVoucher", ctx, voucherID, asOf, userID).
		Run(func(mock.Arguments) { order = append(order, "fine") }).
		Return(fined, nil).Once()
	suite.mockVoucherRepo.On("MarkVouchersOverdue", ctx, asOf, userID, mock.AnythingOfType("time.Time")).
		Run(func(mock.Arguments) { order = append(order, "overdue") }).
		Return(int64(1), nil).Once()
	suite.mockDiscountSvc.On("ExpireOldDiscounts", ctx, asOf, userID).
		Return(int64(0), nil).Once()

	result, err := suite.service.RunDailyMaintenance(ctx, asOf, userID)

	suite.Require().NoError(err)
	suite.Equal([]string{"fine", "overdue"}, order)
	suite.Equal(int64(1), result.FineSweep.Processed)
	suite.Equal(int64(1), result.OverdueSweep.Processed)

	suite.mockFineSvc.AssertExpectations(suite.T())
	suite.mockVoucherRepo.AssertExpectations(suite.T())
}

func (suite *BatchServiceTestSuite) TestRunDailyMaintenance_StepFailureDoesNotStopRun() {
	ctx := context.Background()
	userID := uuid.NewString()
	asOf := time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC)

	suite.mockVoucherRepo.On("ListPendingVoucherIDs", ctx).
		Return([]string{}, nil).Once()
	suite.mockVoucherRepo.On("MarkVouchersOverdue", ctx, asOf, userID, mock.AnythingOfType("time.Time")).
		Return(int64(0), assert.AnError).Once()
	suite.mockDiscountSvc.On("ExpireOldDiscounts", ctx, asOf, userID).
		Return(int64(4), nil).Once()

	result, err := suite.service.RunDailyMaintenance(ctx, asOf, userID)

	suite.Require().NoError(err)
	suite.NotEmpty(result.OverdueSweep.Errors)
	suite.Equal(int64(4), result.DiscountExpiry.Processed)
	suite.mockDiscountSvc.AssertExpectations(suite.T())
}

func TestBatchServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BatchServiceTestSuite))
}
