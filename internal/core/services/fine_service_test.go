package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/schoolworks/fee_billing_app/internal/apperrors"
	"github.com/schoolworks/fee_billing_app/internal/core/domain"
	portssvc "github.com/schoolworks/fee_billing_app/internal/core/ports/services"
	"github.com/schoolworks/fee_billing_app/internal/core/services"
	"github.com/schoolworks/fee_billing_app/internal/dto"
)

type FineServiceTestSuite struct {
	suite.Suite
	mockFineRepo    *MockFineTierRepository
	mockVoucherRepo *MockVoucherRepository
	mockStudentRepo *MockStudentRepository
	mockAuditRepo   *MockAuditRepository
	service         portssvc.FineSvcFacade
}

func (suite *FineServiceTestSuite) SetupTest() {
	suite.mockFineRepo = new(MockFineTierRepository)
	suite.mockVoucherRepo = new(MockVoucherRepository)
	suite.mockStudentRepo = new(MockStudentRepository)
	suite.mockAuditRepo = new(MockAuditRepository)
	suite.service = services.NewFineService(suite.mockFineRepo, suite.mockVoucherRepo, suite.mockStudentRepo, suite.mockAuditRepo)
}

func percentTier(classID string, daysAfterDue int, pct int64) domain.FineTier {
	return domain.FineTier{
		FineID:       uuid.NewString(),
		ClassID:      classID,
		DaysAfterDue: daysAfterDue,
		FineType:     domain.FinePercentage,
		FineValue:    decimal.NewFromInt(pct),
		IsActive:     true,
	}
}

func (suite *FineServiceTestSuite) TestComputeFine_PercentageOfTotal() {
	ctx := context.Background()
	asOf := time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC)

	// Due 10 days ago, 1000 total, 10% tier at 7 days: fine is 100.
	voucher := domain.FeeVoucher{
		VoucherID:   uuid.NewString(),
		StudentID:   "student-1",
		Status:      domain.VoucherPending,
		DueDate:     time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
		TotalAmount: decimal.NewFromInt(1000),
	}

	suite.mockStudentRepo.On("GetActiveEnrollmentClassID", ctx, "student-1").Return("class-5a", nil).Once()
	suite.mockFineRepo.On("FindApplicableTiers", ctx, "class-5a", 10).
		Return([]domain.FineTier{percentTier("class-5a", 7, 10)}, nil).Once()

	fine, err := suite.service.ComputeFineForVoucher(ctx, voucher, asOf)

	suite.Require().NoError(err)
	suite.True(fine.Equal(decimal.NewFromInt(100)), "expected 100, got %s", fine)

	suite.mockFineRepo.AssertExpectations(suite.T())
	suite.mockStudentRepo.AssertExpectations(suite.T())
}

func (suite *FineServiceTestSuite) TestCalculateFines_PreviewsWithoutPersisting() {
	ctx := context.Background()
	asOf := time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC)

	overdue := domain.FeeVoucher{
		VoucherID:   "v-overdue",
		StudentID:   "student-1",
		Status:      domain.VoucherPending,
		DueDate:     time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
		TotalAmount: decimal.NewFromInt(1000),
	}
	settled := domain.FeeVoucher{
		VoucherID:   "v-paid",
		StudentID:   "student-2",
		Status:      domain.VoucherPaid,
		DueDate:     time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
		TotalAmount: decimal.NewFromInt(500),
	}

	suite.mockVoucherRepo.On("FindVoucherByID", ctx, "v-overdue").Return(&overdue, nil).Once()
	suite.mockVoucherRepo.On("FindVoucherByID", ctx, "v-paid").Return(&settled, nil).Once()
	suite.mockStudentRepo.On("GetActiveEnrollmentClassID", ctx, "student-1").Return("class-5a", nil).Once()
	suite.mockFineRepo.On("FindApplicableTiers", ctx, "class-5a", 10).
		Return([]domain.FineTier{percentTier("class-5a", 7, 10)}, nil).Once()

	fines, err := suite.service.CalculateFines(ctx, []string{"v-overdue", "v-paid"}, asOf)

	suite.Require().NoError(err)
	suite.Require().Len(fines, 2)
	suite.True(fines["v-overdue"].Equal(decimal.NewFromInt(100)))
	suite.True(fines["v-paid"].IsZero())
	suite.mockVoucherRepo.AssertNotCalled(suite.T(), "UpdateVoucher", mock.Anything, mock.Anything)
	suite.mockVoucherRepo.AssertExpectations(suite.T())
}

func (suite *FineServiceTestSuite) TestComputeFine_HighestApplicableTierWins() {
	ctx := context.Background()
	asOf := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	// 19 days overdue with tiers at 7 (5%) and 15 (10%): the repository
	// returns applicable tiers highest threshold first and only the first
	// applies; tiers never stack.
	voucher := domain.FeeVoucher{
		VoucherID:   uuid.NewString(),
		StudentID:   "student-1",
		Status:      domain.VoucherPending,
		DueDate:     time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
		TotalAmount: decimal.NewFromInt(1000),
	}

	suite.mockStudentRepo.On("GetActiveEnrollmentClassID", ctx, "student-1").Return("class-5a", nil).Once()
	suite.mockFineRepo.On("FindApplicableTiers", ctx, "class-5a", 19).
		Return([]domain.FineTier{
			percentTier("class-5a", 15, 10),
			percentTier("class-5a", 7, 5),
		}, nil).Once()

	fine, err := suite.service.ComputeFineForVoucher(ctx, voucher, asOf)

	suite.Require().NoError(err)
	suite.True(fine.Equal(decimal.NewFromInt(100)), "expected 100, got %s", fine)
}

func (suite *FineServiceTestSuite) TestComputeFine_FixedAmountTier() {
	ctx := context.Background()
	asOf := time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC)

	voucher := domain.FeeVoucher{
		VoucherID:   uuid.NewString(),
		StudentID:   "student-1",
		Status:      domain.VoucherPending,
		DueDate:     time.Date(2026, 2, 12, 0, 0, 0, 0, time.UTC),
		TotalAmount: decimal.NewFromInt(500),
	}

	fixed := domain.FineTier{
		FineID:       uuid.NewString(),
		ClassID:      "class-5a",
		DaysAfterDue: 7,
		FineType:     domain.FineFixedAmount,
		FineValue:    decimal.NewFromInt(250),
		IsActive:     true,
	}

	suite.mockStudentRepo.On("GetActiveEnrollmentClassID", ctx, "student-1").Return("class-5a", nil).Once()
	suite.mockFineRepo.On("FindApplicableTiers", ctx, "class-5a", 8).
		Return([]domain.FineTier{fixed}, nil).Once()

	fine, err := suite.service.ComputeFineForVoucher(ctx, voucher, asOf)

	suite.Require().NoError(err)
	suite.True(fine.Equal(decimal.NewFromInt(250)))
}

func (suite *FineServiceTestSuite) TestComputeFine_NotPendingIsZero() {
	ctx := context.Background()

	voucher := domain.FeeVoucher{
		VoucherID:   uuid.NewString(),
		StudentID:   "student-1",
		Status:      domain.VoucherPaid,
		DueDate:     time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
		TotalAmount: decimal.NewFromInt(1000),
	}

	fine, err := suite.service.ComputeFineForVoucher(ctx, voucher, time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC))

	suite.Require().NoError(err)
	suite.True(fine.IsZero())
	suite.mockFineRepo.AssertNotCalled(suite.T(), "FindApplicableTiers", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *FineServiceTestSuite) TestComputeFine_NotYetDueIsZero() {
	ctx := context.Background()
	asOf := time.Date(2026, 2, 5, 0, 0, 0, 0, time.UTC)

	voucher := domain.FeeVoucher{
		VoucherID:   uuid.NewString(),
		StudentID:   "student-1",
		Status:      domain.VoucherPending,
		DueDate:     time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
		TotalAmount: decimal.NewFromInt(1000),
	}

	fine, err := suite.service.ComputeFineForVoucher(ctx, voucher, asOf)

	suite.Require().NoError(err)
	suite.True(fine.IsZero())
	suite.mockStudentRepo.AssertNotCalled(suite.T(), "GetActiveEnrollmentClassID", mock.Anything, mock.Anything)
}

func (suite *FineServiceTestSuite) TestComputeFine_NoEnrollmentIsZero() {
	ctx := context.Background()
	asOf := time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC)

	voucher := domain.FeeVoucher{
		VoucherID:   uuid.NewString(),
		StudentID:   "student-1",
		Status:      domain.VoucherPending,
		DueDate:     time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
		TotalAmount: decimal.NewFromInt(1000),
	}

	suite.mockStudentRepo.On("GetActiveEnrollmentClassID", ctx, "student-1").Return("", apperrors.ErrNotFound).Once()

	fine, err := suite.service.ComputeFineForVoucher(ctx, voucher, asOf)

	suite.Require().NoError(err)
	suite.True(fine.IsZero())
	suite.mockFineRepo.AssertNotCalled(suite.T(), "FindApplicableTiers", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *FineServiceTestSuite) TestComputeFine_NoApplicableTiersIsZero() {
	ctx := context.Background()
	asOf := time.Date(2026, 2, 13, 0, 0, 0, 0, time.UTC)

	voucher := domain.FeeVoucher{
		VoucherID:   uuid.NewString(),
		StudentID:   "student-1",
		Status:      domain.VoucherPending,
		DueDate:     time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
		TotalAmount: decimal.NewFromInt(1000),
	}

	suite.mockStudentRepo.On("GetActiveEnrollmentClassID", ctx, "student-1").Return("class-5a", nil).Once()
	suite.mockFineRepo.On("FindApplicableTiers", ctx, "class-5a", 3).
		Return([]domain.FineTier{}, nil).Once()

	fine, err := suite.service.ComputeFineForVoucher(ctx, voucher, asOf)

	suite.Require().NoError(err)
	suite.True(fine.IsZero())
}

func (suite *FineServiceTestSuite) TestApplyFineToVoucher_StoresFineAndMarksOverdue() {
	ctx := context.Background()
	userID := uuid.NewString()
	voucherID := uuid.NewString()
	asOf := time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC)

	voucher := &domain.FeeVoucher{
		VoucherID:   voucherID,
		StudentID:   "student-1",
		Status:      domain.VoucherPending,
		DueDate:     time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
		TotalAmount: decimal.NewFromInt(1000),
	}

	suite.mockVoucherRepo.On("FindVoucherByID", ctx, voucherID).Return(voucher, nil).Once()
	suite.mockStudentRepo.On("GetActiveEnrollmentClassID", ctx, "student-1").Return("class-5a", nil).Once()
	suite.mockFineRepo.On("FindApplicableTiers", ctx, "class-5a", 10).
		Return([]domain.FineTier{percentTier("class-5a", 7, 10)}, nil).Once()

	var persisted domain.FeeVoucher
	suite.mockVoucherRepo.On("UpdateVoucher", ctx, mock.AnythingOfType("domain.FeeVoucher")).
		Run(func(args mock.Arguments) {
			persisted = args.Get(1).(domain.FeeVoucher)
		}).Return(nil).Once()
	suite.mockAuditRepo.On("RecordAuditEvent", ctx, mock.AnythingOfType("domain.AuditEvent")).Return(nil).Once()

	updated, err := suite.service.ApplyFineToVoucher(ctx, voucherID, asOf, userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(updated)
	suite.True(updated.FineAmount.Equal(decimal.NewFromInt(100)))
	suite.Equal(domain.VoucherOverdue, updated.Status)
	suite.True(persisted.FineAmount.Equal(decimal.NewFromInt(100)))
	suite.Equal(domain.VoucherOverdue, persisted.Status)
	suite.Equal(userID, persisted.LastUpdatedBy)

	suite.mockVoucherRepo.AssertExpectations(suite.T())
	suite.mockAuditRepo.AssertExpectations(suite.T())
}

func (suite *FineServiceTestSuite) TestApplyFineToVoucher_UnchangedFineSkipsAudit() {
	ctx := context.Background()
	voucherID := uuid.NewString()
	asOf := time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC)

	// Re-running a sweep on the same date recomputes the identical fine; the
	// replacement write happens but no audit event is emitted.
	voucher := &domain.FeeVoucher{
		VoucherID:   voucherID,
		StudentID:   "student-1",
		Status:      domain.VoucherPending,
		DueDate:     time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
		TotalAmount: decimal.NewFromInt(1000),
		FineAmount:  decimal.NewFromInt(100),
	}

	suite.mockVoucherRepo.On("FindVoucherByID", ctx, voucherID).Return(voucher, nil).Once()
	suite.mockStudentRepo.On("GetActiveEnrollmentClassID", ctx, "student-1").Return("class-5a", nil).Once()
	suite.mockFineRepo.On("FindApplicableTiers", ctx, "class-5a", 10).
		Return([]domain.FineTier{percentTier("class-5a", 7, 10)}, nil).Once()
	suite.mockVoucherRepo.On("UpdateVoucher", ctx, mock.AnythingOfType("domain.FeeVoucher")).Return(nil).Once()

	updated, err := suite.service.ApplyFineToVoucher(ctx, voucherID, asOf, uuid.NewString())

	suite.Require().NoError(err)
	suite.True(updated.FineAmount.Equal(decimal.NewFromInt(100)))
	suite.mockAuditRepo.AssertNotCalled(suite.T(), "RecordAuditEvent", mock.Anything, mock.Anything)
}

func (suite *FineServiceTestSuite) TestApplyFineToVoucher_NonPendingUntouched() {
	ctx := context.Background()
	voucherID := uuid.NewString()

	voucher := &domain.FeeVoucher{
		VoucherID:   voucherID,
		Status:      domain.VoucherOverdue,
		FineAmount:  decimal.NewFromInt(50),
		TotalAmount: decimal.NewFromInt(1000),
	}

	suite.mockVoucherRepo.On("FindVoucherByID", ctx, voucherID).Return(voucher, nil).Once()

	updated, err := suite.service.ApplyFineToVoucher(ctx, voucherID, time.Now(), uuid.NewString())

	suite.Require().NoError(err)
	suite.True(updated.FineAmount.Equal(decimal.NewFromInt(50)))
	suite.mockVoucherRepo.AssertNotCalled(suite.T(), "UpdateVoucher", mock.Anything, mock.Anything)
}

func (suite *FineServiceTestSuite) TestCreateFineTier_Success() {
	ctx := context.Background()
	userID := uuid.NewString()

	req := dto.CreateFineTierRequest{
		ClassID:      "class-5a",
		DaysAfterDue: 7,
		FineType:     domain.FinePercentage,
		FineValue:    decimal.NewFromInt(10),
	}

	suite.mockFineRepo.On("SaveFineTier", ctx, mock.AnythingOfType("domain.FineTier")).Return(nil).Once()
	suite.mockAuditRepo.On("RecordAuditEvent", ctx, mock.AnythingOfType("domain.AuditEvent")).Return(nil).Once()

	tier, err := suite.service.CreateFineTier(ctx, req, userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(tier)
	suite.NotEmpty(tier.FineID)
	suite.Equal(7, tier.DaysAfterDue)
	suite.True(tier.IsActive)
	suite.Equal(userID, tier.CreatedBy)

	suite.mockFineRepo.AssertExpectations(suite.T())
}

func (suite *FineServiceTestSuite) TestCreateFineTier_DuplicateThreshold() {
	ctx := context.Background()

	req := dto.CreateFineTierRequest{
		ClassID:      "class-5a",
		DaysAfterDue: 7,
		FineType:     domain.FinePercentage,
		FineValue:    decimal.NewFromInt(10),
	}

	suite.mockFineRepo.On("SaveFineTier", ctx, mock.AnythingOfType("domain.FineTier")).
		Return(apperrors.ErrDuplicate).Once()

	tier, err := suite.service.CreateFineTier(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(tier)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *FineServiceTestSuite) TestCreateFineTier_PercentageOutOfRange() {
	ctx := context.Background()

	req := dto.CreateFineTierRequest{
		ClassID:      "class-5a",
		DaysAfterDue: 7,
		FineType:     domain.FinePercentage,
		FineValue:    decimal.NewFromInt(150),
	}

	tier, err := suite.service.CreateFineTier(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(tier)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockFineRepo.AssertNotCalled(suite.T(), "SaveFineTier", mock.Anything, mock.Anything)
}

func (suite *FineServiceTestSuite) TestWaiveFine_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	voucherID := uuid.NewString()

	voucher := &domain.FeeVoucher{
		VoucherID:   voucherID,
		Status:      domain.VoucherOverdue,
		TotalAmount: decimal.NewFromInt(1000),
		FineAmount:  decimal.NewFromInt(100),
	}

	suite.mockVoucherRepo.On("FindVoucherByID", ctx, voucherID).Return(voucher, nil).Once()
	suite.mockVoucherRepo.On("UpdateVoucher", ctx, mock.AnythingOfType("domain.FeeVoucher")).Return(nil).Once()
	suite.mockAuditRepo.On("RecordAuditEvent", ctx, mock.AnythingOfType("domain.AuditEvent")).Return(nil).Once()

	updated, err := suite.service.WaiveFine(ctx, voucherID, "principal approval", userID)

	suite.Require().NoError(err)
	suite.True(updated.FineAmount.IsZero())
	suite.Contains(updated.Notes, "Fine waived: principal approval")

	suite.mockVoucherRepo.AssertExpectations(suite.T())
	suite.mockAuditRepo.AssertExpectations(suite.T())
}

func (suite *FineServiceTestSuite) TestWaiveFine_NoFineToWaive() {
	ctx := context.Background()
	voucherID := uuid.NewString()

	voucher := &domain.FeeVoucher{
		VoucherID:   voucherID,
		Status:      domain.VoucherPending,
		TotalAmount: decimal.NewFromInt(1000),
		FineAmount:  decimal.Zero,
	}

	suite.mockVoucherRepo.On("FindVoucherByID", ctx, voucherID).Return(voucher, nil).Once()

	updated, err := suite.service.WaiveFine(ctx, voucherID, "request", uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(updated)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockVoucherRepo.AssertNotCalled(suite.T(), "UpdateVoucher", mock.Anything, mock.Anything)
}

func TestFineServiceTestSuite(t *testing.T) {
	suite.Run(t, new(FineServiceTestSuite))
}
