package pgsql

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/bahikhata/bahikhata_backend/internal/apperrors"
	"github.com/bahikhata/bahikhata_backend/internal/core/domain"
	portsrepo "github.com/bahikhata/bahikhata_backend/internal/core/ports/repositories"
	"github.com/bahikhata/bahikhata_backend/internal/models"
	"github.com/bahikhata/bahikhata_backend/internal/utils/accounting"
	"github.com/bahikhata/bahikhata_backend/internal/utils/mapping"
	"github.com/bahikhata/bahikhata_backend/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxVoucherRepository struct {
	BaseRepository
	accountRepo portsrepo.AccountRepositoryFacade
}

// newPgxVoucherRepository creates a new repository for voucher and ledger line data.
func newPgxVoucherRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountRepositoryFacade) portsrepo.VoucherRepositoryWithTx {
	return &PgxVoucherRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

// Ensure PgxVoucherRepository implements portsrepo.VoucherRepositoryWithTx
var _ portsrepo.VoucherRepositoryWithTx = (*PgxVoucherRepository)(nil)

const voucherColumns = `voucher_id, business_id, voucher_type, voucher_number, voucher_date, narration, source, status, amount,
	counterparty_name, counterparty_gstin, document_no, tax, original_voucher_id, reversing_voucher_id,
	created_at, created_by, last_updated_at, last_updated_by`

func scanVoucherRow(row pgx.Row) (models.Voucher, error) {
	var m models.Voucher
	err := row.Scan(
		&m.VoucherID,
		&m.BusinessID,
		&m.VoucherType,
		&m.VoucherNumber,
		&m.VoucherDate,
		&m.Narration,
		&m.Source,
		&m.Status,
		&m.Amount,
		&m.CounterpartyName,
		&m.CounterpartyGSTIN,
		&m.DocumentNo,
		&m.Tax,
		&m.OriginalVoucherID,
		&m.ReversingVoucherID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// nextVoucherNumber atomically assigns the next per-business sequence number
// inside the given transaction. The upsert keeps assignment gap-free under
// concurrent postings because the row stays locked until commit.
func (r *PgxVoucherRepository) nextVoucherNumber(ctx context.Context, tx pgx.Tx, businessID string) (int64, error) {
	query := `
		INSERT INTO business_sequences (business_id, next_voucher_number)
		VALUES ($1, 2)
		ON CONFLICT (business_id)
		DO UPDATE SET next_voucher_number = business_sequences.next_voucher_number + 1
		RETURNING next_voucher_number - 1;
	`
	var number int64
	if err := tx.QueryRow(ctx, query, businessID).Scan(&number); err != nil {
		return 0, fmt.Errorf("failed to assign voucher number for business %s: %w", businessID, err)
	}
	return number, nil
}

// SaveVoucher saves a voucher, updates account balances, and saves associated
// ledger lines within a DB transaction. The per-business voucher number is
// assigned here so it is gapless even under concurrent writers.
func (r *PgxVoucherRepository) SaveVoucher(ctx context.Context, voucher domain.Voucher, lines []domain.LedgerLine, balanceChanges map[string]decimal.Decimal) (int64, error) {
	accountRepo := r.accountRepo

	tx, err := r.Begin(ctx)
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	defer r.Rollback(ctx, tx) // Ignored once the transaction is committed

	now := voucher.CreatedAt
	userID := voucher.CreatedBy

	// 1. Assign the sequence number
	voucherNumber, err := r.nextVoucherNumber(ctx, tx, voucher.BusinessID)
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to assign voucher number", err)
	}
	voucher.VoucherNumber = voucherNumber

	// 2. Insert the voucher
	modelVoucher, err := mapping.ToModelVoucher(voucher)
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to map voucher "+voucher.VoucherID, err)
	}
	voucherQuery := `
		INSERT INTO vouchers (` + voucherColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19);
	`
	_, err = tx.Exec(ctx, voucherQuery,
		modelVoucher.VoucherID,
		modelVoucher.BusinessID,
		modelVoucher.VoucherType,
		modelVoucher.VoucherNumber,
		modelVoucher.VoucherDate,
		modelVoucher.Narration,
		modelVoucher.Source,
		modelVoucher.Status,
		modelVoucher.Amount,
		modelVoucher.CounterpartyName,
		modelVoucher.CounterpartyGSTIN,
		modelVoucher.DocumentNo,
		modelVoucher.Tax,
		modelVoucher.OriginalVoucherID,
		modelVoucher.ReversingVoucherID,
		modelVoucher.CreatedAt,
		modelVoucher.CreatedBy,
		modelVoucher.LastUpdatedAt,
		modelVoucher.LastUpdatedBy,
	)
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to insert voucher "+modelVoucher.VoucherID, err)
	}

	// 3. Lock accounts and get current balances
	accountIDs := make([]string, 0, len(balanceChanges))
	for accID := range balanceChanges {
		accountIDs = append(accountIDs, accID)
	}

	lockedAccounts, err := accountRepo.FindAccountsByIDsForUpdate(ctx, tx, accountIDs)
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to lock accounts for update", err)
	}

	// 4. Update account balances
	if err := accountRepo.UpdateAccountBalancesInTx(ctx, tx, balanceChanges, userID, now); err != nil {
		return 0, apperrors.NewAppError(500, "failed to update account balances", err)
	}

	// 5. Insert ledger lines with calculated running balances
	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO ledger_lines (line_id, voucher_id, account_id, amount, side, posting_date, notes, created_at, created_by, last_updated_at, last_updated_by, running_balance)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	currentRunningBalances := make(map[string]decimal.Decimal)
	for accID, lockedAcc := range lockedAccounts {
		currentRunningBalances[accID] = lockedAcc.Balance // Balance before this voucher's changes
	}

	// Sort by LineID for deterministic running balance order within the voucher
	sort.Slice(lines, func(i, j int) bool {
		return lines[i].LineID < lines[j].LineID
	})

	for _, line := range lines {
		modelLine := mapping.ToModelLedgerLine(line)
		modelLine.VoucherID = modelVoucher.VoucherID
		modelLine.CreatedAt = now
		modelLine.LastUpdatedAt = now
		modelLine.CreatedBy = userID
		modelLine.LastUpdatedBy = userID

		lockedAccount, ok := lockedAccounts[line.AccountID]
		if !ok {
			return 0, apperrors.NewAppError(500, "internal error: locked account "+line.AccountID+" not found during line processing", nil)
		}

		signedAmount, err := accounting.CalculateSignedAmount(line, lockedAccount.AccountType)
		if err != nil {
			return 0, apperrors.NewAppError(500, "failed to calculate signed amount for line "+line.LineID, err)
		}

		newRunningBalance := currentRunningBalances[line.AccountID].Add(signedAmount)
		modelLine.RunningBalance = newRunningBalance
		currentRunningBalances[line.AccountID] = newRunningBalance

		batch.Queue(lineQuery,
			modelLine.LineID,
			modelLine.VoucherID,
			modelLine.AccountID,
			modelLine.Amount,
			modelLine.Side,
			modelLine.PostingDate,
			modelLine.Notes,
			modelLine.CreatedAt,
			modelLine.CreatedBy,
			modelLine.LastUpdatedAt,
			modelLine.LastUpdatedBy,
			modelLine.RunningBalance,
		)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return 0, apperrors.NewAppError(500, "failed to execute line batch for voucher "+modelVoucher.VoucherID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return 0, apperrors.NewAppError(500, "failed to commit transaction for voucher "+modelVoucher.VoucherID, err)
	}

	return voucherNumber, nil
}

// FindVoucherByID retrieves a voucher by its ID.
func (r *PgxVoucherRepository) FindVoucherByID(ctx context.Context, voucherID string) (*domain.Voucher, error) {
	query := `
		SELECT ` + voucherColumns + `
		FROM vouchers
		WHERE voucher_id = $1;
	`
	modelVoucher, err := scanVoucherRow(r.Pool.QueryRow(ctx, query, voucherID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find voucher by ID "+voucherID, err)
	}

	domainVoucher, err := mapping.ToDomainVoucher(modelVoucher)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to map voucher "+voucherID, err)
	}
	return &domainVoucher, nil
}

// ListVouchersByBusiness retrieves a paginated list of vouchers for a
// business using token-based pagination.
func (r *PgxVoucherRepository) ListVouchersByBusiness(ctx context.Context, businessID string, limit int, nextToken *string, includeReversals bool) ([]domain.Voucher, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra item to determine if there's a next page
	fetchLimit := limit + 1

	baseQuery := `
		SELECT ` + voucherColumns + `
		FROM vouchers
	`
	filterClause := `WHERE business_id = $1`
	if !includeReversals {
		filterClause += ` AND status != 'REVERSED' AND reversing_voucher_id IS NULL AND original_voucher_id IS NULL`
	}

	// Ordering must be stable: voucher_date DESC with created_at DESC tie-breaker
	orderByClause := `ORDER BY voucher_date DESC, created_at DESC`

	var rows pgx.Rows
	var err error
	args := []interface{}{businessID}

	if nextToken != nil && *nextToken != "" {
		lastVoucherDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}

		cursorClause := `AND (voucher_date, created_at) < ($2, $3)`
		args = append(args, lastVoucherDate, lastCreatedAt)

		query := baseQuery + filterClause + " " + cursorClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	} else {
		query := baseQuery + filterClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	}
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query vouchers for business "+businessID, err)
	}
	defer rows.Close()

	vouchers := make([]models.Voucher, 0, fetchLimit)
	for rows.Next() {
		m, err := scanVoucherRow(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan voucher row for business "+businessID, err)
		}
		vouchers = append(vouchers, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating voucher rows for business "+businessID, err)
	}

	var nextTokenVal *string
	if len(vouchers) > limit {
		lastVoucher := vouchers[limit-1] // The actual last item of the current page
		token := pagination.EncodeToken(lastVoucher.VoucherDate, lastVoucher.CreatedAt)
		nextTokenVal = &token
		vouchers = vouchers[:limit]
	}

	results, err := mapping.ToDomainVoucherSlice(vouchers)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to map voucher rows for business "+businessID, err)
	}
	return results, nextTokenVal, nil
}

// ListVouchersByDateRange retrieves all posted vouchers dated within
// [from, to], without their lines.
func (r *PgxVoucherRepository) ListVouchersByDateRange(ctx context.Context, businessID string, from, to time.Time) ([]domain.Voucher, error) {
	query := `
		SELECT ` + voucherColumns + `
		FROM vouchers
		WHERE business_id = $1 AND voucher_date >= $2 AND voucher_date <= $3 AND status = 'POSTED'
		ORDER BY voucher_date, created_at;
	`
	rows, err := r.Pool.Query(ctx, query, businessID, from, to)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query vouchers by date range for business "+businessID, err)
	}
	defer rows.Close()

	vouchers := []models.Voucher{}
	for rows.Next() {
		m, err := scanVoucherRow(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan voucher row for business "+businessID, err)
		}
		vouchers = append(vouchers, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating voucher rows for business "+businessID, err)
	}

	results, err := mapping.ToDomainVoucherSlice(vouchers)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to map voucher rows for business "+businessID, err)
	}
	return results, nil
}

// ListVoucherNumbers returns the assigned sequence numbers in a window, ascending.
func (r *PgxVoucherRepository) ListVoucherNumbers(ctx context.Context, businessID string, from, to time.Time) ([]int64, error) {
	// Reversed vouchers keep their numbers; only sequence assignment matters here
	query := `
		SELECT voucher_number
		FROM vouchers
		WHERE business_id = $1 AND voucher_date >= $2 AND voucher_date <= $3
		ORDER BY voucher_number;
	`
	rows, err := r.Pool.Query(ctx, query, businessID, from, to)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query voucher numbers for business "+businessID, err)
	}
	defer rows.Close()

	numbers := []int64{}
	for rows.Next() {
		var n int64
		if err := rows.Scan(&n); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan voucher number for business "+businessID, err)
		}
		numbers = append(numbers, n)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating voucher numbers for business "+businessID, err)
	}
	return numbers, nil
}

// LedgerTotals sums all debits and credits posted in a window.
func (r *PgxVoucherRepository) LedgerTotals(ctx context.Context, businessID string, from, to time.Time) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT
			COALESCE(SUM(CASE WHEN l.side = 'DEBIT' THEN l.amount ELSE 0 END), 0) AS total_debits,
			COALESCE(SUM(CASE WHEN l.side = 'CREDIT' THEN l.amount ELSE 0 END), 0) AS total_credits
		FROM ledger_lines l
		JOIN vouchers v ON l.voucher_id = v.voucher_id
		WHERE v.business_id = $1 AND v.voucher_date >= $2 AND v.voucher_date <= $3 AND v.status = 'POSTED';
	`
	var debits, credits decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, businessID, from, to).Scan(&debits, &credits); err != nil {
		return decimal.Zero, decimal.Zero, apperrors.NewAppError(500, "failed to query ledger totals for business "+businessID, err)
	}
	return debits, credits, nil
}

const lineColumns = `line_id, voucher_id, account_id, amount, side, posting_date, notes, created_at, created_by, last_updated_at, last_updated_by, running_balance`

func scanLineRow(row pgx.Row) (models.LedgerLine, error) {
	var m models.LedgerLine
	err := row.Scan(
		&m.LineID,
		&m.VoucherID,
		&m.AccountID,
		&m.Amount,
		&m.Side,
		&m.PostingDate,
		&m.Notes,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.RunningBalance,
	)
	return m, err
}

// FindLinesByVoucherID retrieves all ledger lines associated with a specific voucher.
func (r *PgxVoucherRepository) FindLinesByVoucherID(ctx context.Context, voucherID string) ([]domain.LedgerLine, error) {
	query := `
		SELECT ` + lineColumns + `
		FROM ledger_lines
		WHERE voucher_id = $1
		ORDER BY line_id;
	`
	rows, err := r.Pool.Query(ctx, query, voucherID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query lines for voucher "+voucherID, err)
	}
	defer rows.Close()

	lines := []models.LedgerLine{}
	for rows.Next() {
		m, err := scanLineRow(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan line row for voucher "+voucherID, err)
		}
		lines = append(lines, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating line rows for voucher "+voucherID, err)
	}

	return mapping.ToDomainLedgerLineSlice(lines), nil
}

// FindLinesByVoucherIDs retrieves lines for many vouchers, grouped by voucher ID.
func (r *PgxVoucherRepository) FindLinesByVoucherIDs(ctx context.Context, voucherIDs []string) (map[string][]domain.LedgerLine, error) {
	if len(voucherIDs) == 0 {
		return map[string][]domain.LedgerLine{}, nil
	}

	query := `
		SELECT ` + lineColumns + `
		FROM ledger_lines
		WHERE voucher_id = ANY($1)
		ORDER BY voucher_id, line_id;
	`
	rows, err := r.Pool.Query(ctx, query, voucherIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query lines by voucher IDs", err)
	}
	defer rows.Close()

	grouped := make(map[string][]domain.LedgerLine)
	for rows.Next() {
		m, err := scanLineRow(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan line row", err)
		}
		grouped[m.VoucherID] = append(grouped[m.VoucherID], mapping.ToDomainLedgerLine(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating line rows", err)
	}
	return grouped, nil
}

// ListLinesByAccount retrieves a paginated account statement using
// token-based pagination.
func (r *PgxVoucherRepository) ListLinesByAccount(ctx context.Context, businessID, accountID string, limit int, nextToken *string) ([]domain.LedgerLine, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `
		SELECT l.line_id, l.voucher_id, l.account_id, l.amount, l.side, l.posting_date, l.notes,
		       l.created_at, l.created_by, l.last_updated_at, l.last_updated_by, l.running_balance
		FROM ledger_lines l
		JOIN vouchers v ON l.voucher_id = v.voucher_id
		WHERE l.account_id = $1 AND v.business_id = $2 AND v.status = 'POSTED' AND v.original_voucher_id IS NULL
	`
	orderByClause := `ORDER BY l.posting_date DESC, l.created_at DESC`

	var rows pgx.Rows
	var err error
	args := []interface{}{accountID, businessID}

	if nextToken != nil && *nextToken != "" {
		lastPostingDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}

		cursorClause := `AND (l.posting_date, l.created_at) < ($3, $4)`
		args = append(args, lastPostingDate, lastCreatedAt)

		query := baseQuery + " " + cursorClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	} else {
		query := baseQuery + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	}
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query lines for account "+accountID+" in business "+businessID, err)
	}
	defer rows.Close()

	lines := make([]models.LedgerLine, 0, fetchLimit)
	for rows.Next() {
		m, err := scanLineRow(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan line row for account "+accountID, err)
		}
		lines = append(lines, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating line rows for account "+accountID, err)
	}

	var nextTokenVal *string
	if len(lines) > limit {
		lastLine := lines[limit-1]
		token := pagination.EncodeToken(lastLine.PostingDate, lastLine.CreatedAt)
		nextTokenVal = &token
		lines = lines[:limit]
	}

	return mapping.ToDomainLedgerLineSlice(lines), nextTokenVal, nil
}

// AccountLedgerBalance derives an account's balance from its posted lines as
// of a date. The sign convention matches accounting.CalculateSignedAmount.
// Reversed originals and their reversing vouchers net to zero, so both are
// excluded, matching the reporting queries.
func (r *PgxVoucherRepository) AccountLedgerBalance(ctx context.Context, businessID, accountID string, asOf time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(
			CASE
				WHEN (a.account_type IN ('ASSET', 'EXPENSE')) = (l.side = 'DEBIT') THEN l.amount
				ELSE -l.amount
			END
		), 0)
		FROM ledger_lines l
		JOIN vouchers v ON l.voucher_id = v.voucher_id
		JOIN accounts a ON l.account_id = a.account_id
		WHERE l.account_id = $1 AND v.business_id = $2 AND v.status = 'POSTED'
			AND v.original_voucher_id IS NULL AND l.posting_date <= $3;
	`
	var balance decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, accountID, businessID, asOf).Scan(&balance); err != nil {
		return decimal.Zero, apperrors.NewAppError(500, "failed to derive ledger balance for account "+accountID, err)
	}
	return balance, nil
}

// UpdateVoucherStatusAndLinks updates the status and reversal linkage of a voucher.
func (r *PgxVoucherRepository) UpdateVoucherStatusAndLinks(ctx context.Context, voucherID string, status domain.VoucherStatus, reversingVoucherID *string, originalVoucherID *string, updatedByUserID string, updatedAt time.Time) error {
	query := `
		UPDATE vouchers
		SET status = $1, reversing_voucher_id = $2, original_voucher_id = $3, last_updated_by = $4, last_updated_at = $5
		WHERE voucher_id = $6;
	`
	tag, err := r.Pool.Exec(ctx, query, status, reversingVoucherID, originalVoucherID, updatedByUserID, updatedAt, voucherID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update status for voucher "+voucherID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// UpdateTaxBreakdown overwrites the recorded tax of a voucher.
func (r *PgxVoucherRepository) UpdateTaxBreakdown(ctx context.Context, voucherID string, tax domain.TaxBreakdown, updatedByUserID string, updatedAt time.Time) error {
	modelVoucher, err := mapping.ToModelVoucher(domain.Voucher{Tax: &tax})
	if err != nil {
		return apperrors.NewAppError(500, "failed to marshal tax for voucher "+voucherID, err)
	}

	query := `
		UPDATE vouchers
		SET tax = $1, last_updated_by = $2, last_updated_at = $3
		WHERE voucher_id = $4;
	`
	tag, err := r.Pool.Exec(ctx, query, modelVoucher.Tax, updatedByUserID, updatedAt, voucherID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update tax for voucher "+voucherID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// UpdateVoucherType reclassifies a voucher.
func (r *PgxVoucherRepository) UpdateVoucherType(ctx context.Context, voucherID string, voucherType domain.VoucherType, amount decimal.Decimal, updatedByUserID string, updatedAt time.Time) error {
	query := `
		UPDATE vouchers
		SET voucher_type = $1, amount = $2, last_updated_by = $3, last_updated_at = $4
		WHERE voucher_id = $5;
	`
	tag, err := r.Pool.Exec(ctx, query, voucherType, amount, updatedByUserID, updatedAt, voucherID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update type for voucher "+voucherID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteVoucher removes a voucher and its lines and reverses their balance
// effect, all within one transaction.
func (r *PgxVoucherRepository) DeleteVoucher(ctx context.Context, voucherID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	defer r.Rollback(ctx, tx)

	// 1. Read the lines being removed
	lineQuery := `
		SELECT ` + lineColumns + `
		FROM ledger_lines
		WHERE voucher_id = $1;
	`
	rows, err := tx.Query(ctx, lineQuery, voucherID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to query lines for voucher "+voucherID, err)
	}
	lines := []models.LedgerLine{}
	for rows.Next() {
		m, scanErr := scanLineRow(rows)
		if scanErr != nil {
			rows.Close()
			return apperrors.NewAppError(500, "failed to scan line row for voucher "+voucherID, scanErr)
		}
		lines = append(lines, m)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return apperrors.NewAppError(500, "error iterating line rows for voucher "+voucherID, err)
	}

	// 2. Lock affected accounts and compute the reversing balance deltas
	accountIDs := make([]string, 0, len(lines))
	seen := make(map[string]bool, len(lines))
	for _, l := range lines {
		if !seen[l.AccountID] {
			seen[l.AccountID] = true
			accountIDs = append(accountIDs, l.AccountID)
		}
	}
	lockedAccounts, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, accountIDs)
	if err != nil {
		return apperrors.NewAppError(500, "failed to lock accounts for voucher delete", err)
	}

	reversedChanges := make(map[string]decimal.Decimal, len(accountIDs))
	now := time.Now()
	for _, l := range lines {
		domainLine := mapping.ToDomainLedgerLine(l)
		signedAmount, calcErr := accounting.CalculateSignedAmount(domainLine, lockedAccounts[l.AccountID].AccountType)
		if calcErr != nil {
			return apperrors.NewAppError(500, "failed to calculate signed amount for line "+l.LineID, calcErr)
		}
		reversedChanges[l.AccountID] = reversedChanges[l.AccountID].Sub(signedAmount)
	}
	if err := r.accountRepo.UpdateAccountBalancesInTx(ctx, tx, reversedChanges, "system", now); err != nil {
		return apperrors.NewAppError(500, "failed to reverse account balances for voucher "+voucherID, err)
	}

	// 3. Delete lines, then the voucher
	if _, err := tx.Exec(ctx, `DELETE FROM ledger_lines WHERE voucher_id = $1;`, voucherID); err != nil {
		return apperrors.NewAppError(500, "failed to delete lines for voucher "+voucherID, err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM vouchers WHERE voucher_id = $1;`, voucherID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete voucher "+voucherID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if err := r.Commit(ctx, tx); err != nil {
		return apperrors.NewAppError(500, "failed to commit delete for voucher "+voucherID, err)
	}
	return nil
}
