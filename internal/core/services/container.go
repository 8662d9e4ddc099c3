package services

import (
	portsrepo "github.com/bahikhata/bahikhata_backend/internal/core/ports/repositories"
	portssvc "github.com/bahikhata/bahikhata_backend/internal/core/ports/services"
	"github.com/bahikhata/bahikhata_backend/pkg/config"
)

// NewServiceContainer wires the service layer over the repositories. The
// closing service is built before the posting service because posting
// consults it for period locks.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	accountSvc := NewAccountService(repos.Account)
	rateSvc := NewRateResolverService(cfg.DefaultGSTRate)
	closingSvc := NewClosingService(repos.Period, repos.Reporting)
	postingSvc := NewPostingService(repos.Voucher, accountSvc, rateSvc, closingSvc, cfg.DefaultSupplierState)
	auditSvc := NewAuditService(repos.Voucher, repos.Audit, cfg.DuplicateWindow, cfg.AuditCriticalThreshold)
	returnsSvc := NewReturnsService(repos.Voucher, cfg.B2CLargeThreshold)
	reportingSvc := NewReportingService(repos.Reporting)

	return &portssvc.ServiceContainer{
		Account:   accountSvc,
		RateRes:   rateSvc,
		Posting:   postingSvc,
		Closing:   closingSvc,
		Audit:     auditSvc,
		Returns:   returnsSvc,
		Reporting: reportingSvc,
	}
}
