package services

// ServiceContainer bundles all service facades for handler wiring.
type ServiceContainer struct {
	Account   AccountSvcFacade
	RateRes   TaxRateResolverSvc
	Posting   PostingSvcFacade
	Closing   ClosingSvcFacade
	Audit     AuditSvcFacade
	Returns   ReturnsSvcFacade
	Reporting ReportingSvcFacade
}
