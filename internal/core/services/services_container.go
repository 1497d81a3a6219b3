package services

import (
	portsrepo "github.com/schoolworks/fee_billing_app/internal/core/ports/repositories"
	portssvc "github.com/schoolworks/fee_billing_app/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Discount service first since voucher generation depends on it
	container.Discount = NewDiscountService(repos.DiscountRepo, repos.StudentRepo, repos.AuditRepo)

	container.Voucher = NewVoucherService(repos.VoucherRepo, repos.FeeStructureRepo, repos.StudentRepo, container.Discount, repos.AuditRepo)
	container.Fine = NewFineService(repos.FineTierRepo, repos.VoucherRepo, repos.StudentRepo, repos.AuditRepo)
	// Payment takes the fine service to refresh an unswept fine before
	// accepting payment on a past-due voucher.
	container.Payment = NewPaymentService(repos.PaymentRepo, repos.VoucherRepo, container.Fine, repos.AuditRepo)
	container.FeeStructure = NewFeeStructureService(repos.FeeStructureRepo, repos.AuditRepo)

	container.Batch = NewBatchService(repos.VoucherRepo, repos.StudentRepo, container.Voucher, container.Fine, container.Discount)
	container.Defaulter = NewDefaulterService(repos.ReportingRepo)
	container.Reporting = NewReportingService(repos.ReportingRepo)
	container.Audit = NewAuditService(repos.AuditRepo)

	return container
}
