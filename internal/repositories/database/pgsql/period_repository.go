package pgsql

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/bahikhata/bahikhata_backend/internal/apperrors"
	"github.com/bahikhata/bahikhata_backend/internal/core/domain"
	portsrepo "github.com/bahikhata/bahikhata_backend/internal/core/ports/repositories"
	"github.com/bahikhata/bahikhata_backend/internal/models"
	"github.com/bahikhata/bahikhata_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxPeriodRepository struct {
	BaseRepository

	// Advisory locks are session scoped, so each held lock pins the pool
	// connection it was taken on until release.
	lockMu    sync.Mutex
	lockConns map[int64]*pgxpool.Conn
}

// newPgxPeriodRepository creates a new repository for accounting period data.
func newPgxPeriodRepository(pool *pgxpool.Pool) portsrepo.PeriodRepository {
	return &PgxPeriodRepository{
		BaseRepository: BaseRepository{Pool: pool},
		lockConns:      make(map[int64]*pgxpool.Conn),
	}
}

// Ensure PgxPeriodRepository implements portsrepo.PeriodRepository
var _ portsrepo.PeriodRepository = (*PgxPeriodRepository)(nil)

const periodColumns = `period_id, business_id, period_type, start_date, end_date, status, closed_at, closed_by, statement_ids, reopen_count, created_at, created_by, last_updated_at, last_updated_by`

func scanPeriodRow(row pgx.Row) (models.AccountingPeriod, error) {
	var m models.AccountingPeriod
	err := row.Scan(
		&m.PeriodID,
		&m.BusinessID,
		&m.PeriodType,
		&m.StartDate,
		&m.EndDate,
		&m.Status,
		&m.ClosedAt,
		&m.ClosedBy,
		&m.StatementIDs,
		&m.ReopenCount,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// CreatePeriod persists a new accounting period definition.
func (r *PgxPeriodRepository) CreatePeriod(ctx context.Context, period domain.AccountingPeriod) error {
	modelPeriod, err := mapping.ToModelAccountingPeriod(period)
	if err != nil {
		return apperrors.NewAppError(500, "failed to map period "+period.PeriodID, err)
	}

	query := `
		INSERT INTO accounting_periods (` + periodColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err = r.Pool.Exec(ctx, query,
		modelPeriod.PeriodID,
		modelPeriod.BusinessID,
		modelPeriod.PeriodType,
		modelPeriod.StartDate,
		modelPeriod.EndDate,
		modelPeriod.Status,
		modelPeriod.ClosedAt,
		modelPeriod.ClosedBy,
		modelPeriod.StatementIDs,
		modelPeriod.ReopenCount,
		modelPeriod.CreatedAt,
		modelPeriod.CreatedBy,
		modelPeriod.LastUpdatedAt,
		modelPeriod.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: period for the same span already exists", apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to insert period "+modelPeriod.PeriodID, err)
	}
	return nil
}

// FindPeriodByID retrieves a period by its identifier.
func (r *PgxPeriodRepository) FindPeriodByID(ctx context.Context, periodID string) (*domain.AccountingPeriod, error) {
	query := `
		SELECT ` + periodColumns + `
		FROM accounting_periods
		WHERE period_id = $1;
	`
	modelPeriod, err := scanPeriodRow(r.Pool.QueryRow(ctx, query, periodID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find period by ID "+periodID, err)
	}

	domainPeriod, err := mapping.ToDomainAccountingPeriod(modelPeriod)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to map period "+periodID, err)
	}
	return &domainPeriod, nil
}

// FindPeriodsCovering retrieves all periods of a business whose span
// contains the given date.
func (r *PgxPeriodRepository) FindPeriodsCovering(ctx context.Context, businessID string, date time.Time) ([]domain.AccountingPeriod, error) {
	query := `
		SELECT ` + periodColumns + `
		FROM accounting_periods
		WHERE business_id = $1 AND start_date <= $2 AND end_date >= $2
		ORDER BY start_date;
	`
	return r.queryPeriods(ctx, query, businessID, date)
}

// FindOpenFinerPeriods retrieves OPEN periods of finer granularity than
// periodType overlapping [start, end].
func (r *PgxPeriodRepository) FindOpenFinerPeriods(ctx context.Context, businessID string, periodType domain.PeriodType, start, end time.Time) ([]domain.AccountingPeriod, error) {
	finer := []string{}
	switch periodType {
	case domain.PeriodAnnual:
		finer = []string{string(domain.PeriodMonthly), string(domain.PeriodQuarterly)}
	case domain.PeriodQuarterly:
		finer = []string{string(domain.PeriodMonthly)}
	default:
		return []domain.AccountingPeriod{}, nil
	}

	query := `
		SELECT ` + periodColumns + `
		FROM accounting_periods
		WHERE business_id = $1 AND period_type = ANY($2) AND status = 'OPEN'
			AND start_date <= $3 AND end_date >= $4
		ORDER BY start_date;
	`
	return r.queryPeriods(ctx, query, businessID, finer, end, start)
}

// ListPeriodsByBusiness retrieves all periods of a business.
func (r *PgxPeriodRepository) ListPeriodsByBusiness(ctx context.Context, businessID string) ([]domain.AccountingPeriod, error) {
	query := `
		SELECT ` + periodColumns + `
		FROM accounting_periods
		WHERE business_id = $1
		ORDER BY start_date DESC, period_type;
	`
	return r.queryPeriods(ctx, query, businessID)
}

func (r *PgxPeriodRepository) queryPeriods(ctx context.Context, query string, args ...interface{}) ([]domain.AccountingPeriod, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query periods", err)
	}
	defer rows.Close()

	periods := []models.AccountingPeriod{}
	for rows.Next() {
		m, err := scanPeriodRow(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan period row", err)
		}
		periods = append(periods, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating period rows", err)
	}

	return mapping.ToDomainAccountingPeriodSlice(periods)
}

// UpdatePeriodStatus transitions the period state machine and records
// closing metadata when transitioning to CLOSED.
func (r *PgxPeriodRepository) UpdatePeriodStatus(ctx context.Context, periodID string, status domain.PeriodStatus, closedBy string, closedAt *time.Time, statementIDs []string, updatedBy string, updatedAt time.Time) error {
	modelPeriod, err := mapping.ToModelAccountingPeriod(domain.AccountingPeriod{StatementIDs: statementIDs})
	if err != nil {
		return apperrors.NewAppError(500, "failed to marshal statement IDs for period "+periodID, err)
	}

	query := `
		UPDATE accounting_periods
		SET status = $1, closed_by = $2, closed_at = $3, statement_ids = $4, last_updated_by = $5, last_updated_at = $6
		WHERE period_id = $7;
	`
	tag, err := r.Pool.Exec(ctx, query, status, closedBy, closedAt, modelPeriod.StatementIDs, updatedBy, updatedAt, periodID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update status for period "+periodID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// MarkPeriodReopened transitions CLOSED -> OPEN and increments the reopen counter.
func (r *PgxPeriodRepository) MarkPeriodReopened(ctx context.Context, periodID string, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE accounting_periods
		SET status = 'OPEN', reopen_count = reopen_count + 1, last_updated_by = $1, last_updated_at = $2
		WHERE period_id = $3 AND status = 'CLOSED';
	`
	tag, err := r.Pool.Exec(ctx, query, updatedBy, updatedAt, periodID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to reopen period "+periodID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// closingLockKey derives the advisory lock key for a (business, period) pair.
func closingLockKey(businessID, periodID string) int64 {
	h := fnv.New64a()
	h.Write([]byte(businessID))
	h.Write([]byte{0})
	h.Write([]byte(periodID))
	return int64(h.Sum64())
}

// TryAcquireClosingLock takes the per-(business, period) closing lock
// without blocking; returns false when another closing is in flight.
// The lock is session scoped, so the connection it was taken on is held
// out of the pool until ReleaseClosingLock unlocks on that same session.
func (r *PgxPeriodRepository) TryAcquireClosingLock(ctx context.Context, businessID, periodID string) (bool, error) {
	key := closingLockKey(businessID, periodID)

	conn, err := r.Pool.Acquire(ctx)
	if err != nil {
		return false, apperrors.NewAppError(500, "failed to acquire connection for closing lock on period "+periodID, err)
	}

	var acquired bool
	if err := conn.QueryRow(ctx, `SELECT pg_try_advisory_lock($1);`, key).Scan(&acquired); err != nil {
		conn.Release()
		return false, apperrors.NewAppError(500, "failed to acquire closing lock for period "+periodID, err)
	}
	if !acquired {
		conn.Release()
		return false, nil
	}

	r.lockMu.Lock()
	r.lockConns[key] = conn
	r.lockMu.Unlock()
	return true, nil
}

// ReleaseClosingLock releases the closing lock on the connection that
// holds it and returns that connection to the pool.
func (r *PgxPeriodRepository) ReleaseClosingLock(ctx context.Context, businessID, periodID string) error {
	key := closingLockKey(businessID, periodID)

	r.lockMu.Lock()
	conn, held := r.lockConns[key]
	delete(r.lockConns, key)
	r.lockMu.Unlock()
	if !held {
		return apperrors.NewAppError(500, "closing lock for period "+periodID+" was not held", nil)
	}
	defer conn.Release()

	var released bool
	if err := conn.QueryRow(ctx, `SELECT pg_advisory_unlock($1);`, key).Scan(&released); err != nil {
		return apperrors.NewAppError(500, "failed to release closing lock for period "+periodID, err)
	}
	if !released {
		return apperrors.NewAppError(500, "closing lock for period "+periodID+" was not held", nil)
	}
	return nil
}

const statementColumns = `statement_id, business_id, period_id, statement_type, status, generated_at, generated_by, body`

// SaveStatement persists a statement snapshot.
func (r *PgxPeriodRepository) SaveStatement(ctx context.Context, statement domain.Statement) error {
	modelStatement := mapping.ToModelStatement(statement)

	query := `
		INSERT INTO statements (` + statementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.Pool.Exec(ctx, query,
		modelStatement.StatementID,
		modelStatement.BusinessID,
		modelStatement.PeriodID,
		modelStatement.StatementType,
		modelStatement.Status,
		modelStatement.GeneratedAt,
		modelStatement.GeneratedBy,
		modelStatement.Body,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert statement "+modelStatement.StatementID, err)
	}
	return nil
}

// MarkStatementsStale invalidates all statements of a period without
// deleting them.
func (r *PgxPeriodRepository) MarkStatementsStale(ctx context.Context, periodID string) error {
	query := `
		UPDATE statements
		SET status = 'STALE'
		WHERE period_id = $1 AND status = 'FINAL';
	`
	if _, err := r.Pool.Exec(ctx, query, periodID); err != nil {
		return apperrors.NewAppError(500, "failed to mark statements stale for period "+periodID, err)
	}
	return nil
}

// ListStatementsByPeriod retrieves all statement snapshots of a period.
func (r *PgxPeriodRepository) ListStatementsByPeriod(ctx context.Context, periodID string) ([]domain.Statement, error) {
	query := `
		SELECT ` + statementColumns + `
		FROM statements
		WHERE period_id = $1
		ORDER BY generated_at DESC, statement_type;
	`
	rows, err := r.Pool.Query(ctx, query, periodID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query statements for period "+periodID, err)
	}
	defer rows.Close()

	statements := []models.Statement{}
	for rows.Next() {
		var m models.Statement
		if err := rows.Scan(
			&m.StatementID,
			&m.BusinessID,
			&m.PeriodID,
			&m.StatementType,
			&m.Status,
			&m.GeneratedAt,
			&m.GeneratedBy,
			&m.Body,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan statement row for period "+periodID, err)
		}
		statements = append(statements, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating statement rows for period "+periodID, err)
	}

	return mapping.ToDomainStatementSlice(statements), nil
}
