package pgsql

import (
	portsrepo "github.com/bahikhata/bahikhata_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	voucherRepo := newPgxVoucherRepository(dbPool, accountRepo)
	periodRepo := newPgxPeriodRepository(dbPool)
	auditRepo := newPgxAuditRepository(dbPool)
	reportingRepo := newReportingRepository(dbPool)

	return portsrepo.RepositoryProvider{
		Account:   accountRepo,
		Voucher:   voucherRepo,
		Period:    periodRepo,
		Audit:     auditRepo,
		Reporting: reportingRepo,
	}
}
