package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/bahikhata/bahikhata_backend/internal/core/domain"
	portsrepo "github.com/bahikhata/bahikhata_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// reportingRepository implements the ReportingRepository interface
type reportingRepository struct {
	BaseRepository
}

// newReportingRepository creates a new reporting repository
func newReportingRepository(db *pgxpool.Pool) portsrepo.ReportingRepository {
	return &reportingRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

// GetTrialBalanceData retrieves per-account debit/credit sums as of a specific date
func (r *reportingRepository) GetTrialBalanceData(ctx context.Context, businessID string, asOf time.Time) ([]domain.TrialBalanceRow, error) {
	query := `
		SELECT
			a.account_id,
			a.name AS account_name,
			a.account_type,
			SUM(CASE WHEN l.side = 'DEBIT' THEN l.amount ELSE 0 END) AS total_debit,
			SUM(CASE WHEN l.side = 'CREDIT' THEN l.amount ELSE 0 END) AS total_credit
		FROM ledger_lines l
		JOIN accounts a ON l.account_id = a.account_id
		JOIN vouchers v ON l.voucher_id = v.voucher_id
		WHERE l.posting_date <= $1
			AND a.business_id = $2
			AND v.status = 'POSTED'
			AND v.original_voucher_id IS NULL
		GROUP BY a.account_id, a.name, a.account_type
	`

	rows, err := r.Pool.Query(ctx, query, asOf, businessID)
	if err != nil {
		return nil, fmt.Errorf("error querying trial balance data: %w", err)
	}
	defer rows.Close()

	var result []domain.TrialBalanceRow
	for rows.Next() {
		var row domain.TrialBalanceRow
		var accountType string

		if err := rows.Scan(
			&row.AccountID,
			&row.AccountName,
			&accountType,
			&row.Debit,
			&row.Credit,
		); err != nil {
			return nil, fmt.Errorf("error scanning trial balance row: %w", err)
		}

		row.AccountType = domain.AccountType(accountType)
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trial balance rows: %w", err)
	}

	if len(result) == 0 {
		// Return empty slice instead of nil
		return []domain.TrialBalanceRow{}, nil
	}

	return result, nil
}

// GetIncomeStatementData retrieves net amounts of income and expense accounts
// for a period, split by sub-type so the trading account and profit & loss
// statements can be assembled from the same data.
func (r *reportingRepository) GetIncomeStatementData(ctx context.Context, businessID string, from, to time.Time) (*domain.IncomeStatementData, error) {
	query := `
		SELECT
			a.account_type,
			a.sub_type,
			a.account_id,
			a.name,
			SUM(CASE WHEN l.side = 'DEBIT' THEN l.amount ELSE -l.amount END) AS net
		FROM ledger_lines l
		JOIN accounts a ON l.account_id = a.account_id
		JOIN vouchers v ON l.voucher_id = v.voucher_id
		WHERE l.posting_date BETWEEN $1 AND $2
			AND a.business_id = $3
			AND v.status = 'POSTED'
			AND v.original_voucher_id IS NULL
			AND a.account_type IN ('REVENUE', 'EXPENSE')
		GROUP BY a.account_type, a.sub_type, a.account_id, a.name
	`

	rows, err := r.Pool.Query(ctx, query, from, to, businessID)
	if err != nil {
		return nil, fmt.Errorf("error querying income statement data: %w", err)
	}
	defer rows.Close()

	data := &domain.IncomeStatementData{
		DirectIncome:      []domain.AccountAmount{},
		OtherIncome:       []domain.AccountAmount{},
		DirectExpenses:    []domain.AccountAmount{},
		OperatingExpenses: []domain.AccountAmount{},
	}

	for rows.Next() {
		var accountType, subType, accountID, name string
		var netAmount decimal.Decimal

		if err := rows.Scan(&accountType, &subType, &accountID, &name, &netAmount); err != nil {
			return nil, fmt.Errorf("error scanning income statement row: %w", err)
		}

		accountAmount := domain.AccountAmount{
			AccountID: accountID,
			Name:      name,
			SubType:   domain.AccountSubType(subType),
		}

		switch accountType {
		case string(domain.Revenue):
			// Revenue accounts: credits increase, so invert the net sign
			accountAmount.NetAmount = netAmount.Neg()
			if subType == string(domain.SubTypeDirectIncome) {
				data.DirectIncome = append(data.DirectIncome, accountAmount)
			} else {
				data.OtherIncome = append(data.OtherIncome, accountAmount)
			}
		case string(domain.Expense):
			// Expense accounts: debits increase, keep the sign as is
			accountAmount.NetAmount = netAmount
			if subType == string(domain.SubTypeDirectExpense) {
				data.DirectExpenses = append(data.DirectExpenses, accountAmount)
			} else {
				data.OperatingExpenses = append(data.OperatingExpenses, accountAmount)
			}
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating income statement rows: %w", err)
	}

	return data, nil
}

// GetBalanceSheetData retrieves balance sheet data as of a specific date
func (r *reportingRepository) GetBalanceSheetData(ctx context.Context, businessID string, asOf time.Time) ([]domain.AccountAmount, []domain.AccountAmount, []domain.AccountAmount, error) {
	query := `
		SELECT
			a.account_type,
			a.sub_type,
			a.account_id,
			a.name,
			SUM(CASE WHEN l.side = 'DEBIT' THEN l.amount ELSE -l.amount END) AS net
		FROM ledger_lines l
		JOIN accounts a ON l.account_id = a.account_id
		JOIN vouchers v ON l.voucher_id = v.voucher_id
		WHERE l.posting_date <= $1
			AND a.business_id = $2
			AND v.status = 'POSTED'
			AND v.original_voucher_id IS NULL
			AND a.account_type IN ('ASSET', 'LIABILITY', 'EQUITY')
		GROUP BY a.account_type, a.sub_type, a.account_id, a.name
	`

	rows, err := r.Pool.Query(ctx, query, asOf, businessID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("error querying balance sheet data: %w", err)
	}
	defer rows.Close()

	var assets []domain.AccountAmount
	var liabilities []domain.AccountAmount
	var equity []domain.AccountAmount

	for rows.Next() {
		var accountType, subType, accountID, name string
		var netAmount decimal.Decimal

		if err := rows.Scan(&accountType, &subType, &accountID, &name, &netAmount); err != nil {
			return nil, nil, nil, fmt.Errorf("error scanning balance sheet row: %w", err)
		}

		accountAmount := domain.AccountAmount{
			AccountID: accountID,
			Name:      name,
			SubType:   domain.AccountSubType(subType),
			NetAmount: netAmount,
		}

		switch accountType {
		case string(domain.Asset):
			// Asset accounts: debit increases (positive net amount)
			assets = append(assets, accountAmount)
		case string(domain.Liability):
			// Liability accounts: credit increases, invert for display
			accountAmount.NetAmount = netAmount.Neg()
			liabilities = append(liabilities, accountAmount)
		case string(domain.Equity):
			// Equity accounts: credit increases, invert for display
			accountAmount.NetAmount = netAmount.Neg()
			equity = append(equity, accountAmount)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, nil, nil, fmt.Errorf("error iterating balance sheet rows: %w", err)
	}

	// Return empty slices instead of nil
	if assets == nil {
		assets = []domain.AccountAmount{}
	}
	if liabilities == nil {
		liabilities = []domain.AccountAmount{}
	}
	if equity == nil {
		equity = []domain.AccountAmount{}
	}

	return assets, liabilities, equity, nil
}
