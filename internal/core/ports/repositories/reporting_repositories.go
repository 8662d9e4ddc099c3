package repositories

import (
	"context"
	"time"

	"github.com/bahikhata/bahikhata_backend/internal/core/domain"
)

// ReportingRepository defines operations for retrieving financial report data.
type ReportingRepository interface {
	// GetTrialBalanceData retrieves per-account debit/credit sums as of a date.
	GetTrialBalanceData(ctx context.Context, businessID string, asOf time.Time) ([]domain.TrialBalanceRow, error)

	// GetIncomeStatementData retrieves net amounts of income and expense
	// accounts for a period, split by statement placement.
	GetIncomeStatementData(ctx context.Context, businessID string, from, to time.Time) (*domain.IncomeStatementData, error)

	// GetBalanceSheetData retrieves net asset, liability and equity
	// account amounts as of a date.
	GetBalanceSheetData(ctx context.Context, businessID string, asOf time.Time) (assets, liabilities, equity []domain.AccountAmount, err error)
}
