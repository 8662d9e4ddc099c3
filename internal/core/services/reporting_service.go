package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bahikhata/bahikhata_backend/internal/core/domain"
	portsrepo "github.com/bahikhata/bahikhata_backend/internal/core/ports/repositories"
	portssvc "github.com/bahikhata/bahikhata_backend/internal/core/ports/services"
	"github.com/bahikhata/bahikhata_backend/internal/middleware"
	"github.com/shopspring/decimal"
)

// reportingService serves ad-hoc financial reports straight from ledger
// data, without the closing state machine.
type reportingService struct {
	reportingRepo portsrepo.ReportingRepository
}

// NewReportingService creates a new ReportingSvcFacade.
func NewReportingService(reportingRepo portsrepo.ReportingRepository) portssvc.ReportingSvcFacade {
	return &reportingService{reportingRepo: reportingRepo}
}

// Ensure reportingService implements the portssvc.ReportingSvcFacade interface
var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

// TrialBalance generates a trial balance as of a date.
func (s *reportingService) TrialBalance(ctx context.Context, businessID string, asOf time.Time) (*domain.TrialBalanceReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	rows, err := s.reportingRepo.GetTrialBalanceData(ctx, businessID, asOf)
	if err != nil {
		logger.Error("Failed to get trial balance data", slog.String("error", err.Error()), slog.String("business_id", businessID))
		return nil, fmt.Errorf("failed to generate trial balance: %w", err)
	}
	return buildTrialBalance(rows), nil
}

// buildTrialBalance totals the per-account rows into a report.
func buildTrialBalance(rows []domain.TrialBalanceRow) *domain.TrialBalanceReport {
	report := &domain.TrialBalanceReport{
		Rows:        rows,
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
	}
	for _, row := range rows {
		report.TotalDebit = report.TotalDebit.Add(row.Debit)
		report.TotalCredit = report.TotalCredit.Add(row.Credit)
	}
	return report
}

// ProfitAndLoss generates a profit and loss report for a period.
func (s *reportingService) ProfitAndLoss(ctx context.Context, businessID string, from, to time.Time) (*domain.PAndLReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	data, err := s.reportingRepo.GetIncomeStatementData(ctx, businessID, from, to)
	if err != nil {
		logger.Error("Failed to get income statement data", slog.String("error", err.Error()), slog.String("business_id", businessID))
		return nil, fmt.Errorf("failed to generate profit and loss report: %w", err)
	}
	return buildProfitAndLoss(data, nil), nil
}

// buildProfitAndLoss derives the P&L from income statement data. When a
// trading account was prepared, its gross profit carries over; otherwise
// gross profit is direct income net of direct expenses.
func buildProfitAndLoss(data *domain.IncomeStatementData, trading *domain.TradingAccountReport) *domain.PAndLReport {
	var grossProfit decimal.Decimal
	if trading != nil {
		grossProfit = trading.GrossProfit
	} else {
		grossProfit = sumAmounts(data.DirectIncome).Sub(sumAmounts(data.DirectExpenses))
	}

	otherIncomeTotal := sumAmounts(data.OtherIncome)
	expensesTotal := sumAmounts(data.OperatingExpenses)

	return &domain.PAndLReport{
		GrossProfit: grossProfit,
		OtherIncome: data.OtherIncome,
		Expenses:    data.OperatingExpenses,
		NetProfit:   grossProfit.Add(otherIncomeTotal).Sub(expensesTotal),
	}
}

// buildTradingAccount derives the trading account from income statement data.
func buildTradingAccount(data *domain.IncomeStatementData) *domain.TradingAccountReport {
	netSales := sumAmounts(data.DirectIncome)
	cogs := sumAmounts(data.DirectExpenses)
	return &domain.TradingAccountReport{
		NetSales:        netSales,
		CostOfGoodsSold: cogs,
		GrossProfit:     netSales.Sub(cogs),
	}
}

// BalanceSheet generates a balance sheet as of a date.
func (s *reportingService) BalanceSheet(ctx context.Context, businessID string, asOf time.Time) (*domain.BalanceSheetReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	assets, liabilities, equity, err := s.reportingRepo.GetBalanceSheetData(ctx, businessID, asOf)
	if err != nil {
		logger.Error("Failed to get balance sheet data", slog.String("error", err.Error()), slog.String("business_id", businessID))
		return nil, fmt.Errorf("failed to generate balance sheet: %w", err)
	}
	return buildBalanceSheet(assets, liabilities, equity), nil
}

// buildBalanceSheet totals the sides and records the discrepancy instead of
// forcing the sheet to balance.
func buildBalanceSheet(assets, liabilities, equity []domain.AccountAmount) *domain.BalanceSheetReport {
	totalAssets := sumAmounts(assets)
	totalLiabilities := sumAmounts(liabilities)
	totalEquity := sumAmounts(equity)
	return &domain.BalanceSheetReport{
		Assets:           assets,
		Liabilities:      liabilities,
		Equity:           equity,
		TotalAssets:      totalAssets,
		TotalLiabilities: totalLiabilities,
		TotalEquity:      totalEquity,
		Discrepancy:      totalAssets.Sub(totalLiabilities.Add(totalEquity)),
	}
}

func sumAmounts(amounts []domain.AccountAmount) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a.NetAmount)
	}
	return total
}
