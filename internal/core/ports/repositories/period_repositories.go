package repositories

import (
	"context"
	"time"

	"github.com/bahikhata/bahikhata_backend/internal/core/domain"
)

// PeriodRepository defines operations for accounting periods and their
// statement snapshots.
type PeriodRepository interface {
	// CreatePeriod persists a new accounting period definition.
	CreatePeriod(ctx context.Context, period domain.AccountingPeriod) error

	// FindPeriodByID retrieves a period by its identifier.
	FindPeriodByID(ctx context.Context, periodID string) (*domain.AccountingPeriod, error)

	// FindPeriodsCovering retrieves all periods of a business whose span
	// contains the given date.
	FindPeriodsCovering(ctx context.Context, businessID string, date time.Time) ([]domain.AccountingPeriod, error)

	// FindOpenFinerPeriods retrieves OPEN periods of finer granularity
	// than periodType overlapping [start, end].
	FindOpenFinerPeriods(ctx context.Context, businessID string, periodType domain.PeriodType, start, end time.Time) ([]domain.AccountingPeriod, error)

	// ListPeriodsByBusiness retrieves all periods of a business.
	ListPeriodsByBusiness(ctx context.Context, businessID string) ([]domain.AccountingPeriod, error)

	// UpdatePeriodStatus transitions the period state machine and records
	// closing metadata when transitioning to CLOSED.
	UpdatePeriodStatus(ctx context.Context, periodID string, status domain.PeriodStatus, closedBy string, closedAt *time.Time, statementIDs []string, updatedBy string, updatedAt time.Time) error

	// MarkPeriodReopened transitions CLOSED -> OPEN and increments the
	// reopen counter.
	MarkPeriodReopened(ctx context.Context, periodID string, updatedBy string, updatedAt time.Time) error

	// TryAcquireClosingLock takes the per-(business, period) closing lock
	// without blocking; returns false when another closing is in flight.
	TryAcquireClosingLock(ctx context.Context, businessID, periodID string) (bool, error)

	// ReleaseClosingLock releases the closing lock.
	ReleaseClosingLock(ctx context.Context, businessID, periodID string) error

	// SaveStatement persists a statement snapshot.
	SaveStatement(ctx context.Context, statement domain.Statement) error

	// MarkStatementsStale invalidates all statements of a period without
	// deleting them.
	MarkStatementsStale(ctx context.Context, periodID string) error

	// ListStatementsByPeriod retrieves all statement snapshots of a period.
	ListStatementsByPeriod(ctx context.Context, periodID string) ([]domain.Statement, error)
}
