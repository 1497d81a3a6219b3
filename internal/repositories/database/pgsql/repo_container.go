package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/schoolworks/fee_billing_app/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	voucherRepo := newPgxVoucherRepository(dbPool)
	paymentRepo := newPgxPaymentRepository(dbPool)
	discountRepo := newPgxDiscountRepository(dbPool)
	fineTierRepo := newPgxFineTierRepository(dbPool)
	feeStructureRepo := newPgxFeeStructureRepository(dbPool)
	studentRepo := newPgxStudentRepository(dbPool)
	reportingRepo := newPgxReportingRepository(dbPool)
	auditRepo := newPgxAuditRepository(dbPool)

	return portsrepo.RepositoryProvider{
		VoucherRepo:      voucherRepo,
		PaymentRepo:      paymentRepo,
		DiscountRepo:     discountRepo,
		FineTierRepo:     fineTierRepo,
		FeeStructureRepo: feeStructureRepo,
		StudentRepo:      studentRepo,
		ReportingRepo:    reportingRepo,
		AuditRepo:        auditRepo,
	}
}
