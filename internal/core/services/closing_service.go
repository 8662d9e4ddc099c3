package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/bahikhata/bahikhata_backend/internal/apperrors"
	"github.com/bahikhata/bahikhata_backend/internal/core/domain"
	portsrepo "github.com/bahikhata/bahikhata_backend/internal/core/ports/repositories"
	portssvc "github.com/bahikhata/bahikhata_backend/internal/core/ports/services"
	"github.com/bahikhata/bahikhata_backend/internal/dto"
	"github.com/bahikhata/bahikhata_backend/internal/middleware"
	"github.com/bahikhata/bahikhata_backend/internal/utils/gst"
	"github.com/shopspring/decimal"
)

var (
	ErrPeriodAlreadyClosed    = errors.New("period is already closed")
	ErrClosingInProgress      = errors.New("a closing run is already in progress for this period")
	ErrTrialBalanceUnbalanced = errors.New("trial balance does not balance")
	ErrFinerPeriodsOpen       = errors.New("finer-grained periods within this span are still open")
	ErrPeriodLocked           = errors.New("period is being closed; postings are locked")
	ErrPeriodClosed           = errors.New("period is closed; reopen it before posting")
	ErrInvalidPeriodSpan      = errors.New("period start date must be before its end date")
	ErrPeriodNotClosed        = errors.New("only a closed period can be reopened")
)

// closingService drives the period-closing state machine: OPEN -> CLOSING
// -> CLOSED, with reopening back to OPEN. Statement snapshots are generated
// in tier order and persisted before the period transitions to CLOSED.
type closingService struct {
	periodRepo    portsrepo.PeriodRepository
	reportingRepo portsrepo.ReportingRepository
}

// NewClosingService creates a new ClosingSvcFacade.
func NewClosingService(periodRepo portsrepo.PeriodRepository, reportingRepo portsrepo.ReportingRepository) portssvc.ClosingSvcFacade {
	return &closingService{periodRepo: periodRepo, reportingRepo: reportingRepo}
}

// Ensure closingService implements the portssvc.ClosingSvcFacade interface
var _ portssvc.ClosingSvcFacade = (*closingService)(nil)

// CreatePeriod defines a new accounting period.
func (s *closingService) CreatePeriod(ctx context.Context, businessID string, req dto.CreatePeriodRequest, userID string) (*domain.AccountingPeriod, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.StartDate.Before(req.EndDate) {
		return nil, ErrInvalidPeriodSpan
	}

	now := time.Now().UTC()
	period := domain.AccountingPeriod{
		PeriodID:   uuid.NewString(),
		BusinessID: businessID,
		PeriodType: req.PeriodType,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Status:     domain.PeriodOpen,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.periodRepo.CreatePeriod(ctx, period); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			logger.Error("Failed to create period", slog.String("error", err.Error()), slog.String("business_id", businessID))
		}
		return nil, err
	}

	logger.Info("Accounting period created",
		slog.String("period_id", period.PeriodID),
		slog.String("period_type", string(period.PeriodType)),
		slog.String("business_id", businessID),
	)
	return &period, nil
}

// GetPeriod retrieves a period scoped to a business.
func (s *closingService) GetPeriod(ctx context.Context, businessID, periodID string) (*domain.AccountingPeriod, error) {
	period, err := s.periodRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		return nil, err
	}
	if period.BusinessID != businessID {
		// Obscure existence across businesses
		return nil, apperrors.ErrNotFound
	}
	return period, nil
}

// ListPeriods retrieves all periods of a business.
func (s *closingService) ListPeriods(ctx context.Context, businessID string) ([]domain.AccountingPeriod, error) {
	return s.periodRepo.ListPeriodsByBusiness(ctx, businessID)
}

// ClosePeriod runs the closing pipeline. The trial balance gates the run:
// an imbalance beyond tolerance aborts before any statement is written. A
// balance-sheet discrepancy is reported but does not roll back the close.
func (s *closingService) ClosePeriod(ctx context.Context, businessID, periodID, userID string, opts dto.CloseOptions) (*domain.ClosingResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	acquired, err := s.periodRepo.TryAcquireClosingLock(ctx, businessID, periodID)
	if err != nil {
		logger.Error("Failed to acquire closing lock", slog.String("error", err.Error()), slog.String("period_id", periodID))
		return nil, fmt.Errorf("failed to acquire closing lock: %w", err)
	}
	if !acquired {
		return nil, ErrClosingInProgress
	}
	defer func() {
		if releaseErr := s.periodRepo.ReleaseClosingLock(ctx, businessID, periodID); releaseErr != nil {
			logger.Error("Failed to release closing lock", slog.String("error", releaseErr.Error()), slog.String("period_id", periodID))
		}
	}()

	// Status is read under the lock: a concurrent closer that finished
	// between our call and the lock grant is seen as CLOSED here.
	period, err := s.GetPeriod(ctx, businessID, periodID)
	if err != nil {
		return nil, err
	}
	switch period.Status {
	case domain.PeriodClosed:
		return nil, ErrPeriodAlreadyClosed
	case domain.PeriodClosing:
		return nil, ErrClosingInProgress
	}

	// A quarter or year cannot close over months that are still open
	finer, err := s.periodRepo.FindOpenFinerPeriods(ctx, businessID, period.PeriodType, period.StartDate, period.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to check finer periods: %w", err)
	}
	if len(finer) > 0 {
		return nil, fmt.Errorf("%w: %d open", ErrFinerPeriodsOpen, len(finer))
	}

	now := time.Now().UTC()
	if err := s.periodRepo.UpdatePeriodStatus(ctx, periodID, domain.PeriodClosing, "", nil, nil, userID, now); err != nil {
		return nil, fmt.Errorf("failed to mark period closing: %w", err)
	}
	// On any failure past this point the period reverts to OPEN so the
	// posting lock does not outlive the failed run.
	reopen := func() {
		if revertErr := s.periodRepo.UpdatePeriodStatus(ctx, periodID, domain.PeriodOpen, "", nil, nil, userID, time.Now().UTC()); revertErr != nil {
			logger.Error("Failed to revert period to open after aborted closing", slog.String("error", revertErr.Error()), slog.String("period_id", periodID))
		}
	}

	result, err := s.generateStatements(ctx, businessID, period, userID, opts)
	if err != nil {
		reopen()
		return nil, err
	}

	closedAt := time.Now().UTC()
	if err := s.periodRepo.UpdatePeriodStatus(ctx, periodID, domain.PeriodClosed, userID, &closedAt, result.StatementIDs, userID, closedAt); err != nil {
		reopen()
		return nil, fmt.Errorf("failed to mark period closed: %w", err)
	}

	period.Status = domain.PeriodClosed
	period.ClosedAt = &closedAt
	period.ClosedBy = userID
	period.StatementIDs = result.StatementIDs
	result.Period = *period

	logger.Info("Period closed",
		slog.String("period_id", periodID),
		slog.String("business_id", businessID),
		slog.Int("statements", len(result.StatementIDs)),
		slog.Bool("balance_sheet_balanced", result.BalanceSheetBalanced),
	)
	return result, nil
}

// generateStatements produces and persists the statements the period tier
// requires. Monthly closings stop at the trial balance; quarterly add the
// income statements; annual add the balance sheet and ratios.
func (s *closingService) generateStatements(ctx context.Context, businessID string, period *domain.AccountingPeriod, userID string, opts dto.CloseOptions) (*domain.ClosingResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	rows, err := s.reportingRepo.GetTrialBalanceData(ctx, businessID, period.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to compute trial balance: %w", err)
	}
	tb := buildTrialBalance(rows)
	if diff := tb.Difference(); diff.Abs().GreaterThan(gst.Tolerance) {
		logger.Warn("Trial balance unbalanced, aborting close",
			slog.String("period_id", period.PeriodID),
			slog.String("difference", diff.String()),
		)
		return nil, fmt.Errorf("%w: difference %s", ErrTrialBalanceUnbalanced, diff)
	}

	result := &domain.ClosingResult{TrialBalance: tb, BalanceSheetBalanced: true}
	if err := s.saveStatement(ctx, businessID, period.PeriodID, domain.StatementTrialBalance, tb, userID, result); err != nil {
		return nil, err
	}

	wantIncome := period.PeriodType == domain.PeriodQuarterly || period.PeriodType == domain.PeriodAnnual
	wantBalanceSheet := period.PeriodType == domain.PeriodAnnual || opts.IncludeBalanceSheet

	if wantIncome {
		data, err := s.reportingRepo.GetIncomeStatementData(ctx, businessID, period.StartDate, period.EndDate)
		if err != nil {
			return nil, fmt.Errorf("failed to compute income statement data: %w", err)
		}
		if opts.HoldsInventory {
			result.Trading = buildTradingAccount(data)
			if err := s.saveStatement(ctx, businessID, period.PeriodID, domain.StatementTradingAccount, result.Trading, userID, result); err != nil {
				return nil, err
			}
		}
		result.PAndL = buildProfitAndLoss(data, result.Trading)
		if err := s.saveStatement(ctx, businessID, period.PeriodID, domain.StatementProfitAndLoss, result.PAndL, userID, result); err != nil {
			return nil, err
		}
	}

	if wantBalanceSheet {
		assets, liabilities, equity, err := s.reportingRepo.GetBalanceSheetData(ctx, businessID, period.EndDate)
		if err != nil {
			return nil, fmt.Errorf("failed to compute balance sheet data: %w", err)
		}
		result.BalanceSheet = buildBalanceSheet(assets, liabilities, equity)
		if result.BalanceSheet.Discrepancy.Abs().GreaterThan(gst.Tolerance) {
			// Reported, not rolled back: the earlier statements stand
			result.BalanceSheetBalanced = false
			logger.Warn("Balance sheet discrepancy",
				slog.String("period_id", period.PeriodID),
				slog.String("discrepancy", result.BalanceSheet.Discrepancy.String()),
			)
		}
		if err := s.saveStatement(ctx, businessID, period.PeriodID, domain.StatementBalanceSheet, result.BalanceSheet, userID, result); err != nil {
			return nil, err
		}
		if period.PeriodType == domain.PeriodAnnual {
			result.Ratios = computeRatios(result.BalanceSheet, result.PAndL, result.Trading)
		}
	}

	return result, nil
}

// saveStatement serializes a report body, persists it as a FINAL snapshot
// and records its ID on the result.
func (s *closingService) saveStatement(ctx context.Context, businessID, periodID string, statementType domain.StatementType, body any, userID string, result *domain.ClosingResult) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to serialize %s statement: %w", statementType, err)
	}
	statement := domain.Statement{
		StatementID:   uuid.NewString(),
		BusinessID:    businessID,
		PeriodID:      periodID,
		StatementType: statementType,
		Status:        domain.StatementFinal,
		GeneratedAt:   time.Now().UTC(),
		GeneratedBy:   userID,
		Body:          payload,
	}
	if err := s.periodRepo.SaveStatement(ctx, statement); err != nil {
		return fmt.Errorf("failed to save %s statement: %w", statementType, err)
	}
	result.StatementIDs = append(result.StatementIDs, statement.StatementID)
	return nil
}

// computeRatios derives presentation ratios from the closing statements.
// Ratios whose denominator is zero are omitted rather than forced.
func computeRatios(bs *domain.BalanceSheetReport, pnl *domain.PAndLReport, trading *domain.TradingAccountReport) *domain.FinancialRatios {
	ratios := &domain.FinancialRatios{}

	currentAssets, stock := decimal.Zero, decimal.Zero
	for _, a := range bs.Assets {
		switch a.SubType {
		case domain.SubTypeCash, domain.SubTypeBank, domain.SubTypeReceivable, domain.SubTypeStock, domain.SubTypeTaxCredit:
			currentAssets = currentAssets.Add(a.NetAmount)
			if a.SubType == domain.SubTypeStock {
				stock = stock.Add(a.NetAmount)
			}
		}
	}
	currentLiabilities := decimal.Zero
	for _, l := range bs.Liabilities {
		switch l.SubType {
		case domain.SubTypePayable, domain.SubTypeTaxPayable:
			currentLiabilities = currentLiabilities.Add(l.NetAmount)
		}
	}

	if !currentLiabilities.IsZero() {
		current := currentAssets.Div(currentLiabilities).Round(2)
		quick := currentAssets.Sub(stock).Div(currentLiabilities).Round(2)
		ratios.CurrentRatio = &current
		ratios.QuickRatio = &quick
	}
	if !bs.TotalEquity.IsZero() {
		debtEquity := bs.TotalLiabilities.Div(bs.TotalEquity).Round(2)
		ratios.DebtEquity = &debtEquity
	}
	if pnl != nil {
		netSales := pnl.GrossProfit
		if trading != nil {
			netSales = trading.NetSales
		}
		if !netSales.IsZero() {
			gross := pnl.GrossProfit.Div(netSales).Mul(decimal.NewFromInt(100)).Round(2)
			net := pnl.NetProfit.Div(netSales).Mul(decimal.NewFromInt(100)).Round(2)
			ratios.GrossProfitMargin = &gross
			ratios.NetProfitMargin = &net
		}
	}
	return ratios
}

// ReopenPeriod transitions CLOSED -> OPEN and marks the period's statements
// stale. The snapshots stay on record for audit.
func (s *closingService) ReopenPeriod(ctx context.Context, businessID, periodID, userID string) (*domain.AccountingPeriod, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	period, err := s.GetPeriod(ctx, businessID, periodID)
	if err != nil {
		return nil, err
	}
	if period.Status != domain.PeriodClosed {
		return nil, fmt.Errorf("%w: status is %s", ErrPeriodNotClosed, period.Status)
	}

	now := time.Now().UTC()
	if err := s.periodRepo.MarkPeriodReopened(ctx, periodID, userID, now); err != nil {
		logger.Error("Failed to reopen period", slog.String("error", err.Error()), slog.String("period_id", periodID))
		return nil, err
	}
	if err := s.periodRepo.MarkStatementsStale(ctx, periodID); err != nil {
		logger.Error("Failed to mark statements stale", slog.String("error", err.Error()), slog.String("period_id", periodID))
		return nil, fmt.Errorf("failed to invalidate statements: %w", err)
	}

	logger.Info("Period reopened", slog.String("period_id", periodID), slog.String("business_id", businessID))
	return s.periodRepo.FindPeriodByID(ctx, periodID)
}

// EnsurePostable rejects postings dated inside a CLOSING or CLOSED period.
func (s *closingService) EnsurePostable(ctx context.Context, businessID string, date time.Time) error {
	periods, err := s.periodRepo.FindPeriodsCovering(ctx, businessID, date)
	if err != nil {
		return fmt.Errorf("failed to check period status: %w", err)
	}
	for _, p := range periods {
		switch p.Status {
		case domain.PeriodClosing:
			return fmt.Errorf("%w: period %s", ErrPeriodLocked, p.PeriodID)
		case domain.PeriodClosed:
			return fmt.Errorf("%w: period %s", ErrPeriodClosed, p.PeriodID)
		}
	}
	return nil
}

// ListStatements retrieves the statement snapshots of a period.
func (s *closingService) ListStatements(ctx context.Context, businessID, periodID string) ([]domain.Statement, error) {
	if _, err := s.GetPeriod(ctx, businessID, periodID); err != nil {
		return nil, err
	}
	return s.periodRepo.ListStatementsByPeriod(ctx, periodID)
}
