package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
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
	ErrAuditInProgress = errors.New("an audit is already running for this business")
	ErrInvalidWindow   = errors.New("audit window start must be before its end")
)

// auditService scans a business's ledger for consistency issues and
// applies the fixes that are safe to automate. Every pass is persisted as
// an immutable run record, fixes included.
type auditService struct {
	voucherRepo portsrepo.VoucherRepositoryFacade
	auditRepo   portsrepo.AuditRepository

	duplicateWindow   time.Duration
	criticalThreshold int

	mu       sync.Mutex
	inFlight map[string]bool
}

// NewAuditService creates a new AuditSvcFacade.
func NewAuditService(voucherRepo portsrepo.VoucherRepositoryFacade, auditRepo portsrepo.AuditRepository, duplicateWindow time.Duration, criticalThreshold int) portssvc.AuditSvcFacade {
	return &auditService{
		voucherRepo:       voucherRepo,
		auditRepo:         auditRepo,
		duplicateWindow:   duplicateWindow,
		criticalThreshold: criticalThreshold,
		inFlight:          make(map[string]bool),
	}
}

// Ensure auditService implements the portssvc.AuditSvcFacade interface
var _ portssvc.AuditSvcFacade = (*auditService)(nil)

// RunAudit executes all checks over the window and persists the run.
func (s *auditService) RunAudit(ctx context.Context, businessID string, req dto.RunAuditRequest, userID string) (*domain.AuditRun, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.WindowStart.Before(req.WindowEnd) {
		return nil, ErrInvalidWindow
	}

	s.mu.Lock()
	if s.inFlight[businessID] {
		s.mu.Unlock()
		return nil, ErrAuditInProgress
	}
	s.inFlight[businessID] = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.inFlight, businessID)
		s.mu.Unlock()
	}()

	startedAt := time.Now().UTC()
	run := domain.AuditRun{
		RunID:       uuid.NewString(),
		BusinessID:  businessID,
		WindowStart: req.WindowStart,
		WindowEnd:   req.WindowEnd,
		StartedAt:   startedAt,
		TriggeredBy: userID,
	}

	vouchers, err := s.voucherRepo.ListVouchersByDateRange(ctx, businessID, req.WindowStart, req.WindowEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to load vouchers for audit: %w", err)
	}

	issues := []domain.Issue{}
	issues = append(issues, s.checkLedgerImbalance(ctx, run.RunID, businessID, req, vouchers)...)
	issues = append(issues, s.checkTaxMismatch(ctx, run.RunID, vouchers, req.AutoFix, userID)...)
	issues = append(issues, s.checkDuplicates(ctx, run.RunID, vouchers, req.AutoFix)...)
	issues = append(issues, s.checkSequenceGaps(ctx, run.RunID, businessID, req)...)
	issues = append(issues, s.checkMisclassification(ctx, run.RunID, vouchers, req.AutoFix, userID)...)
	issues = append(issues, s.checkReconciliation(ctx, run.RunID, businessID, req)...)

	run.FinishedAt = time.Now().UTC()
	run.Issues = issues
	run.TotalIssues = len(issues)
	for _, issue := range issues {
		if issue.FixApplied {
			run.AutoFixed++
		}
	}
	run.Remaining = run.TotalIssues - run.AutoFixed
	run.Status = gradeRun(issues, run.Remaining, s.criticalThreshold)

	if err := s.auditRepo.SaveAuditRun(ctx, run); err != nil {
		logger.Error("Failed to persist audit run", slog.String("error", err.Error()), slog.String("run_id", run.RunID))
		return nil, fmt.Errorf("failed to save audit run: %w", err)
	}

	logger.Info("Audit run completed",
		slog.String("run_id", run.RunID),
		slog.String("business_id", businessID),
		slog.Int("total_issues", run.TotalIssues),
		slog.Int("auto_fixed", run.AutoFixed),
		slog.String("status", string(run.Status)),
	)
	return &run, nil
}

// gradeRun maps a run's findings to its deterministic overall status.
func gradeRun(issues []domain.Issue, remaining, criticalThreshold int) domain.AuditStatus {
	if remaining == 0 {
		return domain.AuditCorrect
	}
	if remaining >= criticalThreshold {
		return domain.AuditCritical
	}
	for _, issue := range issues {
		if issue.Severity == domain.SeverityCritical && !issue.FixApplied {
			return domain.AuditCritical
		}
	}
	return domain.AuditNeedsAttention
}

// checkLedgerImbalance verifies that the window's debits equal its credits
// overall and per voucher. Imbalance means a storage-level defect and is
// never auto-fixed.
func (s *auditService) checkLedgerImbalance(ctx context.Context, runID, businessID string, req dto.RunAuditRequest, vouchers []domain.Voucher) []domain.Issue {
	logger := middleware.GetLoggerFromCtx(ctx)
	issues := []domain.Issue{}

	debits, credits, err := s.voucherRepo.LedgerTotals(ctx, businessID, req.WindowStart, req.WindowEnd)
	if err != nil {
		logger.Error("Ledger totals check failed", slog.String("error", err.Error()))
		return issues
	}
	if !debits.Equal(credits) {
		issues = append(issues, domain.Issue{
			IssueID:  uuid.NewString(),
			RunID:    runID,
			Kind:     domain.IssueLedgerImbalance,
			Severity: domain.SeverityCritical,
			Detail:   "window debit total does not equal credit total",
			Expected: &debits,
			Actual:   &credits,
		})
	}

	if len(vouchers) == 0 {
		return issues
	}
	voucherIDs := make([]string, len(vouchers))
	for i, v := range vouchers {
		voucherIDs[i] = v.VoucherID
	}
	linesMap, err := s.voucherRepo.FindLinesByVoucherIDs(ctx, voucherIDs)
	if err != nil {
		logger.Error("Per-voucher balance check failed", slog.String("error", err.Error()))
		return issues
	}
	for _, v := range vouchers {
		v.Lines = linesMap[v.VoucherID]
		if imbalance := v.Imbalance(); !imbalance.IsZero() {
			zero := decimal.Zero
			issues = append(issues, domain.Issue{
				IssueID:    uuid.NewString(),
				RunID:      runID,
				Kind:       domain.IssueLedgerImbalance,
				Severity:   domain.SeverityCritical,
				VoucherIDs: []string{v.VoucherID},
				Detail:     fmt.Sprintf("voucher #%d lines do not balance", v.VoucherNumber),
				Expected:   &zero,
				Actual:     &imbalance,
			})
		}
	}
	return issues
}

// checkTaxMismatch recomputes each voucher's tax from its recorded taxable
// value and rate and flags disagreements beyond tolerance. The fix rewrites
// the breakdown with the recomputed components.
func (s *auditService) checkTaxMismatch(ctx context.Context, runID string, vouchers []domain.Voucher, autoFix bool, userID string) []domain.Issue {
	logger := middleware.GetLoggerFromCtx(ctx)
	issues := []domain.Issue{}

	for _, v := range vouchers {
		if v.Tax == nil || v.Tax.Levy == domain.LevyExempt {
			continue
		}
		ext, err := gst.AddToBase(v.Tax.TaxableValue, v.Tax.Rate)
		if err != nil {
			continue
		}
		expected := gst.SplitComponents(ext.Tax, v.Tax.Jurisdiction.IntraState())
		recorded := v.Tax.Components.Total()
		if gst.WithinTolerance(recorded, expected.Total()) {
			continue
		}

		expectedTotal := expected.Total()
		issue := domain.Issue{
			IssueID:     uuid.NewString(),
			RunID:       runID,
			Kind:        domain.IssueTaxMismatch,
			Severity:    domain.SeverityError,
			VoucherIDs:  []string{v.VoucherID},
			Detail:      fmt.Sprintf("recorded tax on voucher #%d disagrees with rate %s%% on %s", v.VoucherNumber, v.Tax.Rate, v.Tax.TaxableValue),
			Expected:    &expectedTotal,
			Actual:      &recorded,
			AutoFixable: true,
		}
		if autoFix {
			fixed := *v.Tax
			fixed.Components = expected
			if err := s.voucherRepo.UpdateTaxBreakdown(ctx, v.VoucherID, fixed, userID, time.Now().UTC()); err != nil {
				logger.Error("Tax mismatch auto-fix failed", slog.String("error", err.Error()), slog.String("voucher_id", v.VoucherID))
			} else {
				issue.FixApplied = true
				issue.FixDetail = fmt.Sprintf("tax recomputed from %s to %s", recorded, expectedTotal)
			}
		}
		issues = append(issues, issue)
	}
	return issues
}

// checkDuplicates flags vouchers of the same type, counterparty and amount
// recorded within the duplicate window of each other. Only the later
// voucher of a pair is deleted on auto-fix; the earlier stays.
func (s *auditService) checkDuplicates(ctx context.Context, runID string, vouchers []domain.Voucher, autoFix bool) []domain.Issue {
	logger := middleware.GetLoggerFromCtx(ctx)
	issues := []domain.Issue{}

	type dupKey struct {
		voucherType  domain.VoucherType
		counterparty string
		amount       string
	}
	byKey := make(map[dupKey][]domain.Voucher)
	for _, v := range vouchers {
		key := dupKey{v.VoucherType, v.CounterpartyName, v.Amount.String()}
		byKey[key] = append(byKey[key], v)
	}

	for _, group := range byKey {
		if len(group) < 2 {
			continue
		}
		sort.Slice(group, func(i, j int) bool { return group[i].CreatedAt.Before(group[j].CreatedAt) })
		for i := 1; i < len(group); i++ {
			earlier, later := group[i-1], group[i]
			if later.CreatedAt.Sub(earlier.CreatedAt) > s.duplicateWindow {
				continue
			}
			issue := domain.Issue{
				IssueID:     uuid.NewString(),
				RunID:       runID,
				Kind:        domain.IssueDuplicateEntry,
				Severity:    domain.SeverityWarning,
				VoucherIDs:  []string{earlier.VoucherID, later.VoucherID},
				Detail:      fmt.Sprintf("vouchers #%d and #%d record the same %s of %s within %s", earlier.VoucherNumber, later.VoucherNumber, earlier.VoucherType, earlier.Amount, s.duplicateWindow),
				AutoFixable: true,
			}
			if autoFix {
				if err := s.voucherRepo.DeleteVoucher(ctx, later.VoucherID); err != nil {
					logger.Error("Duplicate auto-fix failed", slog.String("error", err.Error()), slog.String("voucher_id", later.VoucherID))
				} else {
					issue.FixApplied = true
					issue.FixDetail = fmt.Sprintf("deleted later duplicate #%d, kept #%d", later.VoucherNumber, earlier.VoucherNumber)
				}
			}
			issues = append(issues, issue)
		}
	}
	return issues
}

// checkSequenceGaps detects missing voucher numbers in the window. Gaps
// are reported only; the numbering authority is the posting path.
func (s *auditService) checkSequenceGaps(ctx context.Context, runID, businessID string, req dto.RunAuditRequest) []domain.Issue {
	logger := middleware.GetLoggerFromCtx(ctx)
	issues := []domain.Issue{}

	numbers, err := s.voucherRepo.ListVoucherNumbers(ctx, businessID, req.WindowStart, req.WindowEnd)
	if err != nil {
		logger.Error("Sequence gap check failed", slog.String("error", err.Error()))
		return issues
	}
	for i := 1; i < len(numbers); i++ {
		if numbers[i] == numbers[i-1]+1 {
			continue
		}
		issues = append(issues, domain.Issue{
			IssueID:  uuid.NewString(),
			RunID:    runID,
			Kind:     domain.IssueSequenceGap,
			Severity: domain.SeverityWarning,
			Detail:   fmt.Sprintf("voucher numbers jump from %d to %d", numbers[i-1], numbers[i]),
		})
	}
	return issues
}

// checkMisclassification flags vouchers whose amount sign contradicts
// their type. The fix reclassifies the voucher to its return counterpart
// with the positive amount.
func (s *auditService) checkMisclassification(ctx context.Context, runID string, vouchers []domain.Voucher, autoFix bool, userID string) []domain.Issue {
	logger := middleware.GetLoggerFromCtx(ctx)
	issues := []domain.Issue{}

	for _, v := range vouchers {
		if !v.Amount.IsNegative() {
			continue
		}
		returnType, ok := v.VoucherType.ReturnType()
		issue := domain.Issue{
			IssueID:     uuid.NewString(),
			RunID:       runID,
			Kind:        domain.IssueMisclassification,
			Severity:    domain.SeverityError,
			VoucherIDs:  []string{v.VoucherID},
			Detail:      fmt.Sprintf("voucher #%d is a %s with negative amount %s", v.VoucherNumber, v.VoucherType, v.Amount),
			AutoFixable: ok,
		}
		if ok && autoFix {
			if err := s.voucherRepo.UpdateVoucherType(ctx, v.VoucherID, returnType, v.Amount.Neg(), userID, time.Now().UTC()); err != nil {
				logger.Error("Misclassification auto-fix failed", slog.String("error", err.Error()), slog.String("voucher_id", v.VoucherID))
			} else {
				issue.FixApplied = true
				issue.FixDetail = fmt.Sprintf("reclassified %s as %s with amount %s", v.VoucherType, returnType, v.Amount.Neg())
			}
		}
		issues = append(issues, issue)
	}
	return issues
}

// checkReconciliation compares externally reported settlement balances
// against what the ledger derives for the same date.
func (s *auditService) checkReconciliation(ctx context.Context, runID, businessID string, req dto.RunAuditRequest) []domain.Issue {
	logger := middleware.GetLoggerFromCtx(ctx)
	issues := []domain.Issue{}

	balances, err := s.auditRepo.FindExternalBalances(ctx, businessID, req.WindowStart, req.WindowEnd)
	if err != nil {
		logger.Error("Reconciliation check failed", slog.String("error", err.Error()))
		return issues
	}
	for _, ext := range balances {
		derived, err := s.voucherRepo.AccountLedgerBalance(ctx, businessID, ext.AccountID, ext.AsOf)
		if err != nil {
			logger.Error("Failed to derive ledger balance for reconciliation",
				slog.String("error", err.Error()),
				slog.String("account_id", ext.AccountID),
			)
			continue
		}
		if gst.WithinTolerance(derived, ext.Balance) {
			continue
		}
		reported := ext.Balance
		issues = append(issues, domain.Issue{
			IssueID:   uuid.NewString(),
			RunID:     runID,
			Kind:      domain.IssueReconciliationGap,
			Severity:  domain.SeverityError,
			AccountID: ext.AccountID,
			Detail:    fmt.Sprintf("ledger balance %s disagrees with %s-reported balance %s as of %s", derived, ext.ReportedBy, ext.Balance, ext.AsOf.Format("2006-01-02")),
			Expected:  &reported,
			Actual:    &derived,
		})
	}
	return issues
}

// ListRuns retrieves recent audit runs.
func (s *auditService) ListRuns(ctx context.Context, businessID string, limit int) ([]domain.AuditRun, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.auditRepo.ListAuditRuns(ctx, businessID, limit)
}

// ReportExternalBalance records an externally observed settlement balance.
func (s *auditService) ReportExternalBalance(ctx context.Context, businessID string, req dto.ExternalBalanceRequest, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.AccountID == "" {
		return fmt.Errorf("%w: account ID is required", apperrors.ErrValidation)
	}
	balance := domain.ExternalBalance{
		BusinessID: businessID,
		AccountID:  req.AccountID,
		AsOf:       req.AsOf,
		Balance:    req.Balance,
		ReportedBy: req.ReportedBy,
		ReportedAt: time.Now().UTC(),
	}
	if err := s.auditRepo.SaveExternalBalance(ctx, balance); err != nil {
		logger.Error("Failed to save external balance", slog.String("error", err.Error()), slog.String("account_id", req.AccountID))
		return err
	}
	return nil
}
