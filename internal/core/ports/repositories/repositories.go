package repositories

// RepositoryProvider bundles all repository facades for service wiring.
type RepositoryProvider struct {
	Account   AccountRepositoryFacade
	Voucher   VoucherRepositoryWithTx
	Period    PeriodRepository
	Audit     AuditRepository
	Reporting ReportingRepository
}
