package pgsql

import (
	"context"
	"time"

	"github.com/bahikhata/bahikhata_backend/internal/apperrors"
	"github.com/bahikhata/bahikhata_backend/internal/core/domain"
	portsrepo "github.com/bahikhata/bahikhata_backend/internal/core/ports/repositories"
	"github.com/bahikhata/bahikhata_backend/internal/models"
	"github.com/bahikhata/bahikhata_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxAuditRepository struct {
	BaseRepository
}

// newPgxAuditRepository creates a new repository for audit run data.
func newPgxAuditRepository(pool *pgxpool.Pool) portsrepo.AuditRepository {
	return &PgxAuditRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAuditRepository implements portsrepo.AuditRepository
var _ portsrepo.AuditRepository = (*PgxAuditRepository)(nil)

// SaveAuditRun persists an immutable audit run with its issues in one
// transaction.
func (r *PgxAuditRepository) SaveAuditRun(ctx context.Context, run domain.AuditRun) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	defer r.Rollback(ctx, tx)

	modelRun := mapping.ToModelAuditRun(run)
	runQuery := `
		INSERT INTO audit_runs (run_id, business_id, window_start, window_end, started_at, finished_at, total_issues, auto_fixed, remaining, status, triggered_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err = tx.Exec(ctx, runQuery,
		modelRun.RunID,
		modelRun.BusinessID,
		modelRun.WindowStart,
		modelRun.WindowEnd,
		modelRun.StartedAt,
		modelRun.FinishedAt,
		modelRun.TotalIssues,
		modelRun.AutoFixed,
		modelRun.Remaining,
		modelRun.Status,
		modelRun.TriggeredBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert audit run "+modelRun.RunID, err)
	}

	batch := &pgx.Batch{}
	issueQuery := `
		INSERT INTO audit_issues (issue_id, run_id, kind, severity, voucher_ids, account_id, detail, expected, actual, auto_fixable, fix_applied, fix_detail)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	for _, issue := range run.Issues {
		modelIssue, mapErr := mapping.ToModelAuditIssue(issue)
		if mapErr != nil {
			return apperrors.NewAppError(500, "failed to map audit issue "+issue.IssueID, mapErr)
		}
		batch.Queue(issueQuery,
			modelIssue.IssueID,
			modelIssue.RunID,
			modelIssue.Kind,
			modelIssue.Severity,
			modelIssue.VoucherIDs,
			modelIssue.AccountID,
			modelIssue.Detail,
			modelIssue.Expected,
			modelIssue.Actual,
			modelIssue.AutoFixable,
			modelIssue.FixApplied,
			modelIssue.FixDetail,
		)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to execute issue batch for audit run "+modelRun.RunID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return apperrors.NewAppError(500, "failed to commit audit run "+modelRun.RunID, err)
	}
	return nil
}

// ListAuditRuns retrieves the most recent audit runs of a business, with
// their issues attached.
func (r *PgxAuditRepository) ListAuditRuns(ctx context.Context, businessID string, limit int) ([]domain.AuditRun, error) {
	if limit <= 0 {
		limit = 20
	}

	runQuery := `
		SELECT run_id, business_id, window_start, window_end, started_at, finished_at, total_issues, auto_fixed, remaining, status, triggered_by
		FROM audit_runs
		WHERE business_id = $1
		ORDER BY started_at DESC
		LIMIT $2;
	`
	rows, err := r.Pool.Query(ctx, runQuery, businessID, limit)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query audit runs for business "+businessID, err)
	}
	defer rows.Close()

	runs := []domain.AuditRun{}
	runIDs := []string{}
	for rows.Next() {
		var m models.AuditRun
		if err := rows.Scan(
			&m.RunID,
			&m.BusinessID,
			&m.WindowStart,
			&m.WindowEnd,
			&m.StartedAt,
			&m.FinishedAt,
			&m.TotalIssues,
			&m.AutoFixed,
			&m.Remaining,
			&m.Status,
			&m.TriggeredBy,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan audit run row", err)
		}
		runs = append(runs, mapping.ToDomainAuditRun(m))
		runIDs = append(runIDs, m.RunID)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating audit run rows", err)
	}

	if len(runIDs) == 0 {
		return runs, nil
	}

	issueQuery := `
		SELECT issue_id, run_id, kind, severity, voucher_ids, account_id, detail, expected, actual, auto_fixable, fix_applied, fix_detail
		FROM audit_issues
		WHERE run_id = ANY($1)
		ORDER BY run_id, issue_id;
	`
	issueRows, err := r.Pool.Query(ctx, issueQuery, runIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query audit issues", err)
	}
	defer issueRows.Close()

	issuesByRun := make(map[string][]domain.Issue)
	for issueRows.Next() {
		var m models.AuditIssue
		if err := issueRows.Scan(
			&m.IssueID,
			&m.RunID,
			&m.Kind,
			&m.Severity,
			&m.VoucherIDs,
			&m.AccountID,
			&m.Detail,
			&m.Expected,
			&m.Actual,
			&m.AutoFixable,
			&m.FixApplied,
			&m.FixDetail,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan audit issue row", err)
		}
		issue, mapErr := mapping.ToDomainAuditIssue(m)
		if mapErr != nil {
			return nil, apperrors.NewAppError(500, "failed to map audit issue "+m.IssueID, mapErr)
		}
		issuesByRun[m.RunID] = append(issuesByRun[m.RunID], issue)
	}
	if err := issueRows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating audit issue rows", err)
	}

	for i := range runs {
		runs[i].Issues = issuesByRun[runs[i].RunID]
	}
	return runs, nil
}

// SaveExternalBalance records an externally reported settlement balance.
// Re-reports for the same (business, account, as-of) overwrite the earlier value.
func (r *PgxAuditRepository) SaveExternalBalance(ctx context.Context, balance domain.ExternalBalance) error {
	m := mapping.ToModelExternalBalance(balance)

	query := `
		INSERT INTO external_balances (business_id, account_id, as_of, balance, reported_by, reported_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (business_id, account_id, as_of)
		DO UPDATE SET balance = EXCLUDED.balance, reported_by = EXCLUDED.reported_by, reported_at = EXCLUDED.reported_at;
	`
	_, err := r.Pool.Exec(ctx, query, m.BusinessID, m.AccountID, m.AsOf, m.Balance, m.ReportedBy, m.ReportedAt)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save external balance for account "+m.AccountID, err)
	}
	return nil
}

// FindExternalBalances retrieves external balances reported for a window.
func (r *PgxAuditRepository) FindExternalBalances(ctx context.Context, businessID string, from, to time.Time) ([]domain.ExternalBalance, error) {
	query := `
		SELECT business_id, account_id, as_of, balance, reported_by, reported_at
		FROM external_balances
		WHERE business_id = $1 AND as_of >= $2 AND as_of <= $3
		ORDER BY as_of, account_id;
	`
	rows, err := r.Pool.Query(ctx, query, businessID, from, to)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query external balances for business "+businessID, err)
	}
	defer rows.Close()

	balances := []models.ExternalBalance{}
	for rows.Next() {
		var m models.ExternalBalance
		if err := rows.Scan(&m.BusinessID, &m.AccountID, &m.AsOf, &m.Balance, &m.ReportedBy, &m.ReportedAt); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan external balance row", err)
		}
		balances = append(balances, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating external balance rows", err)
	}

	return mapping.ToDomainExternalBalanceSlice(balances), nil
}
