package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// StatementType identifies the kind of financial statement.
type StatementType string

const (
	StatementTrialBalance   StatementType = "TRIAL_BALANCE"
	StatementTradingAccount StatementType = "TRADING_ACCOUNT"
	StatementProfitAndLoss  StatementType = "PROFIT_AND_LOSS"
	StatementBalanceSheet   StatementType = "BALANCE_SHEET"
)

// StatementStatus marks a statement snapshot as current or invalidated.
// Reopening a period marks its statements STALE; they are never deleted.
type StatementStatus string

const (
	StatementFinal StatementStatus = "FINAL"
	StatementStale StatementStatus = "STALE"
)

// Statement is a derived, read-only snapshot tied to an accounting period.
type Statement struct {
	StatementID   string          `json:"statementID"` // Primary key (UUID)
	BusinessID    string          `json:"businessID"`
	PeriodID      string          `json:"periodID"`
	StatementType StatementType   `json:"statementType"`
	Status        StatementStatus `json:"status"`
	GeneratedAt   time.Time       `json:"generatedAt"`
	GeneratedBy   string          `json:"generatedBy"`
	Body          json.RawMessage `json:"body"` // Serialized report payload
}

// TrialBalanceRow represents a single account row in a trial balance.
type TrialBalanceRow struct {
	AccountID   string          `json:"accountID"`
	AccountName string          `json:"accountName"`
	AccountType AccountType     `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// TrialBalanceReport lists all account balances as of period end.
type TrialBalanceReport struct {
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal   `json:"totalDebit"`
	TotalCredit decimal.Decimal   `json:"totalCredit"`
}

// Difference returns total debits minus total credits.
func (t TrialBalanceReport) Difference() decimal.Decimal {
	return t.TotalDebit.Sub(t.TotalCredit)
}

// AccountAmount represents an account with its net amount for financial reports.
type AccountAmount struct {
	AccountID string          `json:"accountID"`
	Name      string          `json:"name"`
	SubType   AccountSubType  `json:"subType"`
	NetAmount decimal.Decimal `json:"netAmount"`
}

// TradingAccountReport computes gross profit for inventory-holding businesses.
type TradingAccountReport struct {
	NetSales        decimal.Decimal `json:"netSales"`
	CostOfGoodsSold decimal.Decimal `json:"costOfGoodsSold"`
	GrossProfit     decimal.Decimal `json:"grossProfit"`
}

// PAndLReport represents a profit and loss report.
type PAndLReport struct {
	GrossProfit decimal.Decimal `json:"grossProfit"` // From trading account, or total revenue when absent
	OtherIncome []AccountAmount `json:"otherIncome"`
	Expenses    []AccountAmount `json:"expenses"` // Operating expenses
	NetProfit   decimal.Decimal `json:"netProfit"`
}

// BalanceSheetReport represents a balance sheet report.
type BalanceSheetReport struct {
	Assets           []AccountAmount `json:"assets"`
	Liabilities      []AccountAmount `json:"liabilities"`
	Equity           []AccountAmount `json:"equity"`
	TotalAssets      decimal.Decimal `json:"totalAssets"`
	TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
	TotalEquity      decimal.Decimal `json:"totalEquity"`
	// Discrepancy is assets minus (liabilities + equity). A non-zero value
	// beyond tolerance is reported but does not roll back earlier statements.
	Discrepancy decimal.Decimal `json:"discrepancy"`
}

// IncomeStatementData is the raw per-account data feeding the trading
// account and profit & loss statements.
type IncomeStatementData struct {
	DirectIncome      []AccountAmount `json:"directIncome"`
	OtherIncome       []AccountAmount `json:"otherIncome"`
	DirectExpenses    []AccountAmount `json:"directExpenses"`
	OperatingExpenses []AccountAmount `json:"operatingExpenses"`
}

// FinancialRatios are presentation-only metrics derived from the statements.
type FinancialRatios struct {
	CurrentRatio      *decimal.Decimal `json:"currentRatio,omitempty"`
	QuickRatio        *decimal.Decimal `json:"quickRatio,omitempty"`
	DebtEquity        *decimal.Decimal `json:"debtEquity,omitempty"`
	GrossProfitMargin *decimal.Decimal `json:"grossProfitMargin,omitempty"`
	NetProfitMargin   *decimal.Decimal `json:"netProfitMargin,omitempty"`
}

// ClosingResult is the outcome of a period-closing run.
type ClosingResult struct {
	Period       AccountingPeriod      `json:"period"`
	TrialBalance *TrialBalanceReport   `json:"trialBalance,omitempty"`
	Trading      *TradingAccountReport `json:"trading,omitempty"`
	PAndL        *PAndLReport          `json:"pAndL,omitempty"`
	BalanceSheet *BalanceSheetReport   `json:"balanceSheet,omitempty"`
	Ratios       *FinancialRatios      `json:"ratios,omitempty"`
	StatementIDs []string              `json:"statementIDs"`
	// BalanceSheetBalanced is false when the balance sheet failed to
	// reconcile within tolerance; closing still completes.
	BalanceSheetBalanced bool `json:"balanceSheetBalanced"`
}
