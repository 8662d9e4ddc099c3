package services

import (
	"context"
	"time"

	"github.com/bahikhata/bahikhata_backend/internal/core/domain"
)

// ReportingSvcFacade serves ad-hoc financial reports outside of closing.
type ReportingSvcFacade interface {
	// TrialBalance generates a trial balance as of a date.
	TrialBalance(ctx context.Context, businessID string, asOf time.Time) (*domain.TrialBalanceReport, error)

	// ProfitAndLoss generates a profit and loss report for a period.
	ProfitAndLoss(ctx context.Context, businessID string, from, to time.Time) (*domain.PAndLReport, error)

	// BalanceSheet generates a balance sheet as of a date.
	BalanceSheet(ctx context.Context, businessID string, asOf time.Time) (*domain.BalanceSheetReport, error)
}
