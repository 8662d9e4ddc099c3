package repositories

import (
	"context"
	"time"

	"github.com/bahikhata/bahikhata_backend/internal/core/domain"
)

// AuditRepository defines operations for audit runs, their issues, and
// externally reported balances.
type AuditRepository interface {
	// SaveAuditRun persists an immutable audit run with its issues.
	SaveAuditRun(ctx context.Context, run domain.AuditRun) error

	// ListAuditRuns retrieves the most recent audit runs of a business.
	ListAuditRuns(ctx context.Context, businessID string, limit int) ([]domain.AuditRun, error)

	// SaveExternalBalance records an externally reported settlement balance.
	SaveExternalBalance(ctx context.Context, balance domain.ExternalBalance) error

	// FindExternalBalances retrieves external balances reported for a window.
	FindExternalBalances(ctx context.Context, businessID string, from, to time.Time) ([]domain.ExternalBalance, error)
}
