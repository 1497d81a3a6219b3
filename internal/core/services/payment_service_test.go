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

type PaymentServiceTestSuite struct {
	suite.Suite
	mockPaymentRepo *MockPaymentRepository
	mockVoucherRepo *MockVoucherRepository
	mockFineSvc     *MockFineService
	mockAuditRepo   *MockAuditRepository
	service         portssvc.PaymentSvcFacade
}

func (suite *PaymentServiceTestSuite) SetupTest() {
	suite.mockPaymentRepo = new(MockPaymentRepository)
	suite.mockVoucherRepo = new(MockVoucherRepository)
	suite.mockFineSvc = new(MockFineService)
	suite.mockAuditRepo = new(MockAuditRepository)
	suite.service = services.NewPaymentService(suite.mockPaymentRepo, suite.mockVoucherRepo, suite.mockFineSvc, suite.mockAuditRepo)
}

// pendingVoucher builds a not-yet-due pending voucher.
func pendingVoucher(voucherID string, total, paid, fine int64) *domain.FeeVoucher {
	return &domain.FeeVoucher{
		VoucherID:   voucherID,
		Status:      domain.VoucherPending,
		DueDate:     time.Now().AddDate(0, 0, 10),
		TotalAmount: decimal.NewFromInt(total),
		PaidAmount:  decimal.NewFromInt(paid),
		FineAmount:  decimal.NewFromInt(fine),
	}
}

func (suite *PaymentServiceTestSuite) TestRecordPayment_PartialPayment() {
	ctx := context.Background()
	userID := uuid.NewString()
	voucherID := uuid.NewString()
	paymentDate := time.Now().AddDate(0, 0, -1)

	req := dto.RecordPaymentRequest{
		VoucherID:   voucherID,
		Method:      domain.PayCash,
		Amount:      decimal.NewFromInt(300),
		PaymentDate: paymentDate,
	}

	suite.mockVoucherRepo.On("FindVoucherByID", ctx, voucherID).
		Return(pendingVoucher(voucherID, 1000, 400, 0), nil).Once()
	updated := pendingVoucher(voucherID, 1000, 700, 0)
	suite.mockPaymentRepo.On("RecordPayment", ctx, mock.AnythingOfType("domain.Payment")).
		Return(updated, nil).Once()
	suite.mockAuditRepo.On("RecordAuditEvent", ctx, mock.AnythingOfType("domain.AuditEvent")).Return(nil).Once()

	voucher, err := suite.service.RecordPayment(ctx, req, userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(voucher)
	suite.Equal(domain.VoucherPending, voucher.Status)
	suite.True(voucher.PaidAmount.Equal(decimal.NewFromInt(700)))
	suite.True(voucher.RemainingAmount().Equal(decimal.NewFromInt(300)))

	// The persisted payment carries the acting user and the request fields.
	recorded := suite.mockPaymentRepo.Calls[0].Arguments.Get(1).(domain.Payment)
	suite.NotEmpty(recorded.PaymentID)
	suite.Equal(voucherID, recorded.VoucherID)
	suite.Equal(domain.PayCash, recorded.Method)
	suite.Equal(userID, recorded.ReceivedBy)
	suite.True(recorded.Amount.Equal(decimal.NewFromInt(300)))

	suite.mockPaymentRepo.AssertExpectations(suite.T())
	suite.mockVoucherRepo.AssertExpectations(suite.T())
}

func (suite *PaymentServiceTestSuite) TestRecordPayment_FullSettlement() {
	ctx := context.Background()
	voucherID := uuid.NewString()

	req := dto.RecordPaymentRequest{
		VoucherID:   voucherID,
		Method:      domain.PayBankTransfer,
		Amount:      decimal.NewFromInt(550),
		PaymentDate: time.Now().AddDate(0, 0, -1),
	}

	// Voucher carries a 50 fine; settlement must cover total plus fine.
	suite.mockVoucherRepo.On("FindVoucherByID", ctx, voucherID).
		Return(pendingVoucher(voucherID, 500, 0, 50), nil).Once()
	settled := pendingVoucher(voucherID, 500, 550, 50)
	settled.Status = domain.VoucherPaid
	suite.mockPaymentRepo.On("RecordPayment", ctx, mock.AnythingOfType("domain.Payment")).
		Return(settled, nil).Once()
	suite.mockAuditRepo.On("RecordAuditEvent", ctx, mock.AnythingOfType("domain.AuditEvent")).Return(nil).Once()

	voucher, err := suite.service.RecordPayment(ctx, req, uuid.NewString())

	suite.Require().NoError(err)
	suite.Equal(domain.VoucherPaid, voucher.Status)
	suite.True(voucher.RemainingAmount().IsZero())

	suite.mockPaymentRepo.AssertExpectations(suite.T())
}

func (suite *PaymentServiceTestSuite) TestRecordPayment_ExceedsRemaining() {
	ctx := context.Background()
	voucherID := uuid.NewString()

	// 1000 total, 500 already paid: remaining is 500, a 600 payment must fail.
	req := dto.RecordPaymentRequest{
		VoucherID:   voucherID,
		Method:      domain.PayCash,
		Amount:      decimal.NewFromInt(600),
		PaymentDate: time.Now().AddDate(0, 0, -1),
	}

	suite.mockVoucherRepo.On("FindVoucherByID", ctx, voucherID).
		Return(pendingVoucher(voucherID, 1000, 500, 0), nil).Once()

	voucher, err := suite.service.RecordPayment(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(voucher)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockPaymentRepo.AssertNotCalled(suite.T(), "RecordPayment", mock.Anything, mock.Anything)
}

func (suite *PaymentServiceTestSuite) TestRecordPayment_NonPositiveAmount() {
	ctx := context.Background()

	req := dto.RecordPaymentRequest{
		VoucherID:   uuid.NewString(),
		Method:      domain.PayCash,
		Amount:      decimal.Zero,
		PaymentDate: time.Now().AddDate(0, 0, -1),
	}

	voucher, err := suite.service.RecordPayment(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(voucher)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockVoucherRepo.AssertNotCalled(suite.T(), "FindVoucherByID", mock.Anything, mock.Anything)
}

func (suite *PaymentServiceTestSuite) TestRecordPayment_FutureDateRejected() {
	ctx := context.Background()

	req := dto.RecordPaymentRequest{
		VoucherID:   uuid.NewString(),
		Method:      domain.PayCash,
		Amount:      decimal.NewFromInt(100),
		PaymentDate: time.Now().AddDate(0, 0, 2),
	}

	voucher, err := suite.service.RecordPayment(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(voucher)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockVoucherRepo.AssertNotCalled(suite.T(), "FindVoucherByID", mock.Anything, mock.Anything)
}

func (suite *PaymentServiceTestSuite) TestRecordPayment_CancelledVoucher() {
	ctx := context.Background()
	voucherID := uuid.NewString()

	req := dto.RecordPaymentRequest{
		VoucherID:   voucherID,
		Method:      domain.PayCash,
		Amount:      decimal.NewFromInt(100),
		PaymentDate: time.Now().AddDate(0, 0, -1),
	}

	cancelled := pendingVoucher(voucherID, 1000, 0, 0)
	cancelled.Status = domain.VoucherCancelled
	suite.mockVoucherRepo.On("FindVoucherByID", ctx, voucherID).Return(cancelled, nil).Once()

	voucher, err := suite.service.RecordPayment(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(voucher)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockPaymentRepo.AssertNotCalled(suite.T(), "RecordPayment", mock.Anything, mock.Anything)
}

func (suite *PaymentServiceTestSuite) TestRecordPayment_OverdueVoucherAccepted() {
	ctx := context.Background()
	voucherID := uuid.NewString()

	req := dto.RecordPaymentRequest{
		VoucherID:   voucherID,
		Method:      domain.PayOnline,
		Amount:      decimal.NewFromInt(100),
		PaymentDate: time.Now().AddDate(0, 0, -1),
	}

	overdue := pendingVoucher(voucherID, 1000, 0, 100)
	overdue.Status = domain.VoucherOverdue
	suite.mockVoucherRepo.On("FindVoucherByID", ctx, voucherID).Return(overdue, nil).Once()
	updated := pendingVoucher(voucherID, 1000, 100, 100)
	updated.Status = domain.VoucherOverdue
	suite.mockPaymentRepo.On("RecordPayment", ctx, mock.AnythingOfType("domain.Payment")).
		Return(updated, nil).Once()
	suite.mockAuditRepo.On("RecordAuditEvent", ctx, mock.AnythingOfType("domain.AuditEvent")).Return(nil).Once()

	voucher, err := suite.service.RecordPayment(ctx, req, uuid.NewString())

	suite.Require().NoError(err)
	suite.Equal(domain.VoucherOverdue, voucher.Status)
	suite.mockPaymentRepo.AssertExpectations(suite.T())
}

func (suite *PaymentServiceTestSuite) TestRecordPayment_UnsweptFineRefreshedBeforeAcceptance() {
	ctx := context.Background()
	userID := uuid.NewString()
	voucherID := uuid.NewString()

	// 550 settles the voucher only once the unswept fine is applied;
	// against the stale state it would exceed the remaining 500.
	req := dto.RecordPaymentRequest{
		VoucherID:   voucherID,
		Method:      domain.PayBankTransfer,
		Amount:      decimal.NewFromInt(550),
		PaymentDate: time.Now().AddDate(0, 0, -1),
	}

	stale := pendingVoucher(voucherID, 500, 0, 0)
	stale.DueDate = time.Now().AddDate(0, 0, -5)
	suite.mockVoucherRepo.On("FindVoucherByID", ctx, voucherID).Return(stale, nil).Once()

	refreshed := pendingVoucher(voucherID, 500, 0, 50)
	refreshed.Status = domain.VoucherOverdue
	refreshed.DueDate = stale.DueDate
	suite.mockFineSvc.On("ApplyFineToVoucher", ctx, voucherID, mock.AnythingOfType("time.Time"), userID).
		Return(refreshed, nil).Once()

	settled := pendingVoucher(voucherID, 500, 550, 50)
	settled.Status = domain.VoucherPaid
	suite.mockPaymentRepo.On("RecordPayment", ctx, mock.AnythingOfType("domain.Payment")).
		Return(settled, nil).Once()
	suite.mockAuditRepo.On("RecordAuditEvent", ctx, mock.AnythingOfType("domain.AuditEvent")).Return(nil).Once()

	voucher, err := suite.service.RecordPayment(ctx, req, userID)

	suite.Require().NoError(err)
	suite.Equal(domain.VoucherPaid, voucher.Status)
	suite.True(voucher.RemainingAmount().IsZero())

	suite.mockFineSvc.AssertExpectations(suite.T())
	suite.mockPaymentRepo.AssertExpectations(suite.T())
}

func (suite *PaymentServiceTestSuite) TestRecordPayment_TodayLaterClockAccepted() {
	ctx := context.Background()
	voucherID := uuid.NewString()

	// Dated today but with a wall clock ahead of now; day precision
	// means it is not a future payment.
	now := time.Now()
	req := dto.RecordPaymentRequest{
		VoucherID:   voucherID,
		Method:      domain.PayCash,
		Amount:      decimal.NewFromInt(100),
		PaymentDate: time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location()),
	}

	suite.mockVoucherRepo.On("FindVoucherByID", ctx, voucherID).
		Return(pendingVoucher(voucherID, 1000, 0, 0), nil).Once()
	suite.mockPaymentRepo.On("RecordPayment", ctx, mock.AnythingOfType("domain.Payment")).
		Return(pendingVoucher(voucherID, 1000, 100, 0), nil).Once()
	suite.mockAuditRepo.On("RecordAuditEvent", ctx, mock.AnythingOfType("domain.AuditEvent")).Return(nil).Once()

	_, err := suite.service.RecordPayment(ctx, req, uuid.NewString())

	suite.Require().NoError(err)
	suite.mockPaymentRepo.AssertExpectations(suite.T())
}

func (suite *PaymentServiceTestSuite) TestListPaymentsByVoucher_NilBecomesEmpty() {
	ctx := context.Background()
	voucherID := uuid.NewString()

	suite.mockPaymentRepo.On("ListPaymentsByVoucher", ctx, voucherID).
		Return([]domain.Payment(nil), nil).Once()

	payments, err := suite.service.ListPaymentsByVoucher(ctx, voucherID)

	suite.Require().NoError(err)
	suite.NotNil(payments)
	suite.Empty(payments)
}

func TestPaymentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PaymentServiceTestSuite))
}
