package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/schoolworks/fee_billing_app/internal/apperrors"
	"github.com/schoolworks/fee_billing_app/internal/core/domain"
	portssvc "github.com/schoolworks/fee_billing_app/internal/core/ports/services"
	"github.com/schoolworks/fee_billing_app/internal/core/services"
)

type ReportingServiceTestSuite struct {
	suite.Suite
	mockReportingRepo *MockReportingRepository
	service           portssvc.ReportingSvc
}

func (suite *ReportingServiceTestSuite) SetupTest() {
	suite.mockReportingRepo = new(MockReportingRepository)
	suite.service = services.NewReportingService(suite.mockReportingRepo)
}

func (suite *ReportingServiceTestSuite) TestGetCollectionSummary() {
	ctx := context.Background()
	from := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)

	suite.mockReportingRepo.On("SumCollectionBetween", ctx, from, to).
		Return(decimal.NewFromInt(54000), nil).Once()
	suite.mockReportingRepo.On("SumOutstandingByStatus", ctx, []domain.VoucherStatus{domain.VoucherPending, domain.VoucherOverdue}).
		Return(decimal.NewFromInt(12500), nil).Once()
	suite.mockReportingRepo.On("CountVouchersByStatus", ctx).
		Return(map[domain.VoucherStatus]int64{
			domain.VoucherPaid:    45,
			domain.VoucherPending: 8,
			domain.VoucherOverdue: 3,
		}, nil).Once()

	summary, err := suite.service.GetCollectionSummary(ctx, from, to)

	suite.Require().NoError(err)
	suite.True(summary.TotalCollected.Equal(decimal.NewFromInt(54000)))
	suite.True(summary.TotalOutstanding.Equal(decimal.NewFromInt(12500)))
	suite.Equal(int64(45), summary.VoucherCounts["PAID"])
	suite.Equal(int64(3), summary.VoucherCounts["OVERDUE"])
	suite.Equal(from, summary.FromDate)
	suite.Equal(to, summary.ToDate)

	suite.mockReportingRepo.AssertExpectations(suite.T())
}

func (suite *ReportingServiceTestSuite) TestGetMonthlyCollectionReport() {
	ctx := context.Background()

	suite.mockReportingRepo.On("SummarizeMonth", ctx, "02-2026").
		Return(&domain.MonthCollectionStats{
			MonthYear: "02-2026",
			CountsByStatus: map[domain.VoucherStatus]int64{
				domain.VoucherPaid:      30,
				domain.VoucherPending:   8,
				domain.VoucherOverdue:   2,
				domain.VoucherCancelled: 1,
			},
			TotalBilled:    decimal.NewFromInt(39000),
			TotalFines:     decimal.NewFromInt(1000),
			TotalCollected: decimal.NewFromInt(30000),
		}, nil).Once()

	report, err := suite.service.GetMonthlyCollectionReport(ctx, "02-2026")

	suite.Require().NoError(err)
	suite.Equal("02-2026", report.MonthYear)
	suite.True(report.TotalOutstanding.Equal(decimal.NewFromInt(10000)))
	suite.True(report.CollectionRate.Equal(decimal.NewFromInt(75)), "30000 of 40000 receivable is 75 percent")
	suite.Equal(int64(1), report.VoucherCounts["CANCELLED"])

	suite.mockReportingRepo.AssertExpectations(suite.T())
}

func (suite *ReportingServiceTestSuite) TestGetMonthlyCollectionReport_EmptyMonth() {
	ctx := context.Background()

	suite.mockReportingRepo.On("SummarizeMonth", ctx, "07-2026").
		Return(&domain.MonthCollectionStats{
			MonthYear:      "07-2026",
			CountsByStatus: map[domain.VoucherStatus]int64{},
			TotalBilled:    decimal.Zero,
			TotalFines:     decimal.Zero,
			TotalCollected: decimal.Zero,
		}, nil).Once()

	report, err := suite.service.GetMonthlyCollectionReport(ctx, "07-2026")

	suite.Require().NoError(err)
	suite.True(report.CollectionRate.IsZero())
	suite.True(report.TotalOutstanding.IsZero())

	suite.mockReportingRepo.AssertExpectations(suite.T())
}

func (suite *ReportingServiceTestSuite) TestGetMonthlyCollectionReport_BadMonthFormat() {
	ctx := context.Background()

	_, err := suite.service.GetMonthlyCollectionReport(ctx, "2026-02")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockReportingRepo.AssertNotCalled(suite.T(), "SummarizeMonth", ctx, "2026-02")
}

func TestReportingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}
