package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	VoucherRepo      VoucherRepositoryFacade
	PaymentRepo      PaymentRepositoryFacade
	DiscountRepo     DiscountRepositoryFacade
	FineTierRepo     FineTierRepositoryFacade
	FeeStructureRepo FeeStructureRepositoryFacade
	StudentRepo      StudentReader
	ReportingRepo    ReportingReader
	AuditRepo        AuditRecorder
}
