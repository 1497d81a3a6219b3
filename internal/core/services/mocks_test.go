package services_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/schoolworks/fee_billing_app/internal/core/domain"
	"github.com/schoolworks/fee_billing_app/internal/dto"
)

// MockVoucherRepository is a mock type for the VoucherRepositoryFacade interface
type MockVoucherRepository struct {
	mock.Mock
}

func (m *MockVoucherRepository) FindVoucherByID(ctx context.Context, voucherID string) (*domain.FeeVoucher, error) {
	args := m.Called(ctx, voucherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FeeVoucher), args.Error(1)
}

func (m *MockVoucherRepository) FindVoucherByNumber(ctx context.Context, voucherNumber string) (*domain.FeeVoucher, error) {
	args := m.Called(ctx, voucherNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FeeVoucher), args.Error(1)
}

func (m *MockVoucherRepository) FindVoucherLines(ctx context.Context, voucherID string) ([]domain.VoucherLine, error) {
	args := m.Called(ctx, voucherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.VoucherLine), args.Error(1)
}

func (m *MockVoucherRepository) ListVouchersByStudent(ctx context.Context, studentID string) ([]domain.FeeVoucher, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FeeVoucher), args.Error(1)
}

func (m *MockVoucherRepository) ListVouchersByStatus(ctx context.Context, status domain.VoucherStatus) ([]domain.FeeVoucher, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FeeVoucher), args.Error(1)
}

func (m *MockVoucherRepository) ListVouchersByMonthYear(ctx context.Context, monthYear string) ([]domain.FeeVoucher, error) {
	args := m.Called(ctx, monthYear)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FeeVoucher), args.Error(1)
}

func (m *MockVoucherRepository) ListVouchersIssuedBetween(ctx context.Context, from, to time.Time) ([]domain.FeeVoucher, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FeeVoucher), args.Error(1)
}

func (m *MockVoucherRepository) FindOverdueVouchers(ctx context.Context, asOf time.Time) ([]domain.FeeVoucher, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FeeVoucher), args.Error(1)
}

func (m *MockVoucherRepository) ListPendingVoucherIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockVoucherRepository) SaveVoucher(ctx context.Context, voucher domain.FeeVoucher, lines []domain.VoucherLine) (string, error) {
	args := m.Called(ctx, voucher, lines)
	return args.String(0), args.Error(1)
}

func (m *MockVoucherRepository) UpdateVoucher(ctx context.Context, voucher domain.FeeVoucher) error {
	args := m.Called(ctx, voucher)
	return args.Error(0)
}

func (m *MockVoucherRepository) MarkVouchersOverdue(ctx context.Context, asOf time.Time, updatedBy string, updatedAt time.Time) (int64, error) {
	args := m.Called(ctx, asOf, updatedBy, updatedAt)
	return args.Get(0).(int64), args.Error(1)
}

// MockPaymentRepository is a mock type for the PaymentRepositoryFacade interface
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) ListPaymentsByVoucher(ctx context.Context, voucherID string) ([]domain.Payment, error) {
	args := m.Called(ctx, voucherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) ListPaymentsByReference(ctx context.Context, referenceNumber string) ([]domain.Payment, error) {
	args := m.Called(ctx, referenceNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) ListPaymentsByDateRange(ctx context.Context, from, to time.Time) ([]domain.Payment, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) SumPaymentsBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockPaymentRepository) RecordPayment(ctx context.Context, payment domain.Payment) (*domain.FeeVoucher, error) {
	args := m.Called(ctx, payment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FeeVoucher), args.Error(1)
}

// MockDiscountRepository is a mock type for the DiscountRepositoryFacade interface
type MockDiscountRepository struct {
	mock.Mock
}

func (m *MockDiscountRepository) FindDiscountByID(ctx context.Context, discountID string) (*domain.StudentDiscount, error) {
	args := m.Called(ctx, discountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StudentDiscount), args.Error(1)
}

func (m *MockDiscountRepository) ListDiscountsByStudent(ctx context.Context, studentID string) ([]domain.StudentDiscount, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StudentDiscount), args.Error(1)
}

func (m *MockDiscountRepository) FindValidDiscounts(ctx context.Context, studentID, categoryID string, onDate time.Time) ([]domain.StudentDiscount, error) {
	args := m.Called(ctx, studentID, categoryID, onDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StudentDiscount), args.Error(1)
}

func (m *MockDiscountRepository) ListOverlappingDiscounts(ctx context.Context, studentID, categoryID string, from time.Time, to *time.Time) ([]domain.StudentDiscount, error) {
	args := m.Called(ctx, studentID, categoryID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StudentDiscount), args.Error(1)
}

func (m *MockDiscountRepository) SaveDiscount(ctx context.Context, discount domain.StudentDiscount) error {
	args := m.Called(ctx, discount)
	return args.Error(0)
}

func (m *MockDiscountRepository) UpdateDiscount(ctx context.Context, discount domain.StudentDiscount) error {
	args := m.Called(ctx, discount)
	return args.Error(0)
}

func (m *MockDiscountRepository) DeactivateExpiredDiscounts(ctx context.Context, asOf time.Time, updatedBy string, updatedAt time.Time) (int64, error) {
	args := m.Called(ctx, asOf, updatedBy, updatedAt)
	return args.Get(0).(int64), args.Error(1)
}

// MockFineTierRepository is a mock type for the FineTierRepositoryFacade interface
type MockFineTierRepository struct {
	mock.Mock
}

func (m *MockFineTierRepository) FindFineTierByID(ctx context.Context, fineID string) (*domain.FineTier, error) {
	args := m.Called(ctx, fineID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FineTier), args.Error(1)
}

func (m *MockFineTierRepository) ListFineTiersByClass(ctx context.Context, classID string) ([]domain.FineTier, error) {
	args := m.Called(ctx, classID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FineTier), args.Error(1)
}

func (m *MockFineTierRepository) FindApplicableTiers(ctx context.Context, classID string, daysOverdue int) ([]domain.FineTier, error) {
	args := m.Called(ctx, classID, daysOverdue)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FineTier), args.Error(1)
}

func (m *MockFineTierRepository) SaveFineTier(ctx context.Context, tier domain.FineTier) error {
	args := m.Called(ctx, tier)
	return args.Error(0)
}

func (m *MockFineTierRepository) UpdateFineTier(ctx context.Context, tier domain.FineTier) error {
	args := m.Called(ctx, tier)
	return args.Error(0)
}

// MockFeeStructureRepository is a mock type for the FeeStructureRepositoryFacade interface
type MockFeeStructureRepository struct {
	mock.Mock
}

func (m *MockFeeStructureRepository) FindFeeCategoryByID(ctx context.Context, categoryID string) (*domain.FeeCategory, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FeeCategory), args.Error(1)
}

func (m *MockFeeStructureRepository) ListFeeCategories(ctx context.Context, activeOnly bool) ([]domain.FeeCategory, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FeeCategory), args.Error(1)
}

func (m *MockFeeStructureRepository) SaveFeeCategory(ctx context.Context, category domain.FeeCategory) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockFeeStructureRepository) UpdateFeeCategory(ctx context.Context, category domain.FeeCategory) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockFeeStructureRepository) FindFeeStructureByID(ctx context.Context, structureID string) (*domain.FeeStructure, error) {
	args := m.Called(ctx, structureID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FeeStructure), args.Error(1)
}

func (m *MockFeeStructureRepository) ListFeeStructuresByClass(ctx context.Context, classID string) ([]domain.FeeStructure, error) {
	args := m.Called(ctx, classID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FeeStructure), args.Error(1)
}

func (m *MockFeeStructureRepository) SaveFeeStructure(ctx context.Context, structure domain.FeeStructure) error {
	args := m.Called(ctx, structure)
	return args.Error(0)
}

func (m *MockFeeStructureRepository) UpdateFeeStructure(ctx context.Context, structure domain.FeeStructure) error {
	args := m.Called(ctx, structure)
	return args.Error(0)
}

// MockStudentRepository is a mock type for the StudentReader interface
type MockStudentRepository struct {
	mock.Mock
}

func (m *MockStudentRepository) FindStudentByID(ctx context.Context, studentID string) (*domain.Student, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Student), args.Error(1)
}

func (m *MockStudentRepository) GetActiveEnrollmentClassID(ctx context.Context, studentID string) (string, error) {
	args := m.Called(ctx, studentID)
	return args.String(0), args.Error(1)
}

func (m *MockStudentRepository) ListActiveStudentsByClass(ctx context.Context, classID string) ([]domain.Student, error) {
	args := m.Called(ctx, classID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Student), args.Error(1)
}

func (m *MockStudentRepository) ListAllActiveStudents(ctx context.Context) (map[string][]domain.Student, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]domain.Student), args.Error(1)
}

// MockReportingRepository is a mock type for the ReportingReader interface
type MockReportingRepository struct {
	mock.Mock
}

func (m *MockReportingRepository) FindOverdueVoucherRows(ctx context.Context, asOf time.Time) ([]domain.OverdueVoucherRow, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OverdueVoucherRow), args.Error(1)
}

func (m *MockReportingRepository) CountVouchersByStatus(ctx context.Context) (map[domain.VoucherStatus]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.VoucherStatus]int64), args.Error(1)
}

func (m *MockReportingRepository) SumCollectionBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockReportingRepository) SumOutstandingByStatus(ctx context.Context, statuses []domain.VoucherStatus) (decimal.Decimal, error) {
	args := m.Called(ctx, statuses)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockReportingRepository) SummarizeMonth(ctx context.Context, monthYear string) (*domain.MonthCollectionStats, error) {
	args := m.Called(ctx, monthYear)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MonthCollectionStats), args.Error(1)
}

// MockAuditRepository is a mock type for the AuditRecorder interface
type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) RecordAuditEvent(ctx context.Context, event domain.AuditEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockAuditRepository) ListAuditEventsByEntity(ctx context.Context, entityType string, entityID string) ([]domain.AuditEvent, error) {
	args := m.Called(ctx, entityType, entityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AuditEvent), args.Error(1)
}

// MockDiscountService is a mock type for the DiscountSvcFacade interface,
// used where a service under test depends on the discount service rather
// than the discount repository.
type MockDiscountService struct {
	mock.Mock
}

func (m *MockDiscountService) GetDiscountByID(ctx context.Context, discountID string) (*domain.StudentDiscount, error) {
	args := m.Called(ctx, discountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StudentDiscount), args.Error(1)
}

func (m *MockDiscountService) ListDiscountsByStudent(ctx context.Context, studentID string) ([]domain.StudentDiscount, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StudentDiscount), args.Error(1)
}

func (m *MockDiscountService) ResolveValidDiscount(ctx context.Context, studentID string, feeCategoryID string, onDate time.Time) (*domain.StudentDiscount, error) {
	args := m.Called(ctx, studentID, feeCategoryID, onDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StudentDiscount), args.Error(1)
}

func (m *MockDiscountService) CalculateDiscountedAmount(ctx context.Context, studentID string, feeCategoryID string, originalAmount decimal.Decimal, onDate time.Time) (dto.DiscountCalculation, error) {
	args := m.Called(ctx, studentID, feeCategoryID, originalAmount, onDate)
	return args.Get(0).(dto.DiscountCalculation), args.Error(1)
}

func (m *MockDiscountService) CreateDiscount(ctx context.Context, req dto.CreateDiscountRequest, userID string) (*domain.StudentDiscount, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StudentDiscount), args.Error(1)
}

func (m *MockDiscountService) ApplyBulkDiscount(ctx context.Context, req dto.BulkDiscountRequest, userID string) (dto.BulkDiscountResult, error) {
	args := m.Called(ctx, req, userID)
	return args.Get(0).(dto.BulkDiscountResult), args.Error(1)
}

func (m *MockDiscountService) UpdateDiscount(ctx context.Context, discountID string, req dto.UpdateDiscountRequest, userID string) (*domain.StudentDiscount, error) {
	args := m.Called(ctx, discountID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StudentDiscount), args.Error(1)
}

func (m *MockDiscountService) ToggleDiscountActive(ctx context.Context, discountID string, active bool, userID string) (*domain.StudentDiscount, error) {
	args := m.Called(ctx, discountID, active, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StudentDiscount), args.Error(1)
}

func (m *MockDiscountService) ExpireOldDiscounts(ctx context.Context, asOf time.Time, userID string) (int64, error) {
	args := m.Called(ctx, asOf, userID)
	return args.Get(0).(int64), args.Error(1)
}

// MockVoucherService is a mock type for the VoucherSvcFacade interface,
// used by the batch service tests.
type MockVoucherService struct {
	mock.Mock
}

func (m *MockVoucherService) GetVoucherByID(ctx context.Context, voucherID string) (*domain.FeeVoucher, error) {
	args := m.Called(ctx, voucherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FeeVoucher), args.Error(1)
}

func (m *MockVoucherService) GetVoucherByNumber(ctx context.Context, voucherNumber string) (*domain.FeeVoucher, error) {
	args := m.Called(ctx, voucherNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FeeVoucher), args.Error(1)
}

func (m *MockVoucherService) ListVouchersByStudent(ctx context.Context, studentID string) ([]domain.FeeVoucher, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FeeVoucher), args.Error(1)
}

func (m *MockVoucherService) ListVouchersByStatus(ctx context.Context, status domain.VoucherStatus) ([]domain.FeeVoucher, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FeeVoucher), args.Error(1)
}

func (m *MockVoucherService) ListVouchersIssuedBetween(ctx context.Context, from, to time.Time) ([]domain.FeeVoucher, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FeeVoucher), args.Error(1)
}

func (m *MockVoucherService) CreateVoucher(ctx context.Context, req dto.CreateVoucherRequest, userID string) (*domain.FeeVoucher, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FeeVoucher), args.Error(1)
}

func (m *MockVoucherService) GenerateMonthlyVoucher(ctx context.Context, req dto.GenerateVoucherRequest, userID string) (*domain.FeeVoucher, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FeeVoucher), args.Error(1)
}

func (m *MockVoucherService) CancelVoucher(ctx context.Context, voucherID string, reason string, userID string) (*domain.FeeVoucher, error) {
	args := m.Called(ctx, voucherID, reason, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FeeVoucher), args.Error(1)
}

// MockFineService is a mock type for the FineSvcFacade interface, used by
// the batch service tests.
type MockFineService struct {
	mock.Mock
}

func (m *MockFineService) GetFineTierByID(ctx context.Context, fineID string) (*domain.FineTier, error) {
	args := m.Called(ctx, fineID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FineTier), args.Error(1)
}

func (m *MockFineService) ListFineTiersByClass(ctx context.Context, classID string) ([]domain.FineTier, error) {
	args := m.Called(ctx, classID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FineTier), args.Error(1)
}

func (m *MockFineService) ComputeFineForVoucher(ctx context.Context, voucher domain.FeeVoucher, asOf time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, voucher, asOf)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockFineService) CalculateFines(ctx context.Context, voucherIDs []string, asOf time.Time) (map[string]decimal.Decimal, error) {
	args := m.Called(ctx, voucherIDs, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]decimal.Decimal), args.Error(1)
}

func (m *MockFineService) CreateFineTier(ctx context.Context, req dto.CreateFineTierRequest, userID string) (*domain.FineTier, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FineTier), args.Error(1)
}

func (m *MockFineService) UpdateFineTier(ctx context.Context, fineID string, req dto.UpdateFineTierRequest, userID string) (*domain.FineTier, error) {
	args := m.Called(ctx, fineID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FineTier), args.Error(1)
}

func (m *MockFineService) ApplyFineToVoucher(ctx context.Context, voucherID string, asOf time.Time, userID string) (*domain.FeeVoucher, error) {
	args := m.Called(ctx, voucherID, asOf, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FeeVoucher), args.Error(1)
}

func (m *MockFineService) WaiveFine(ctx context.Context, voucherID string, reason string, userID string) (*domain.FeeVoucher, error) {
	args := m.Called(ctx, voucherID, reason, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FeeVoucher), args.Error(1)
}
