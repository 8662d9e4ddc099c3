package services

import (
	"context"
	"time"

	"github.com/bahikhata/bahikhata_backend/internal/core/domain"
	"github.com/bahikhata/bahikhata_backend/internal/dto"
)

// ClosingSvcFacade drives the period-closing state machine.
type ClosingSvcFacade interface {
	// CreatePeriod defines a new accounting period.
	CreatePeriod(ctx context.Context, businessID string, req dto.CreatePeriodRequest, userID string) (*domain.AccountingPeriod, error)

	// GetPeriod retrieves a period.
	GetPeriod(ctx context.Context, businessID, periodID string) (*domain.AccountingPeriod, error)

	// ListPeriods retrieves all periods of a business.
	ListPeriods(ctx context.Context, businessID string) ([]domain.AccountingPeriod, error)

	// ClosePeriod runs the closing pipeline: trial balance, then the
	// statements the period tier requires. Fails with
	// ErrTrialBalanceUnbalanced (hard stop), ErrPeriodAlreadyClosed or
	// ErrClosingInProgress.
	ClosePeriod(ctx context.Context, businessID, periodID, userID string, opts dto.CloseOptions) (*domain.ClosingResult, error)

	// ReopenPeriod transitions CLOSED -> OPEN and marks the period's
	// statements stale without deleting them.
	ReopenPeriod(ctx context.Context, businessID, periodID, userID string) (*domain.AccountingPeriod, error)

	// EnsurePostable rejects postings dated inside a CLOSING or CLOSED
	// period with ErrPeriodLocked / ErrPeriodClosed.
	EnsurePostable(ctx context.Context, businessID string, date time.Time) error

	// ListStatements retrieves the statement snapshots of a period.
	ListStatements(ctx context.Context, businessID, periodID string) ([]domain.Statement, error)
}
