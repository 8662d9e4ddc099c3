package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// AccountClass is the traditional classification of an account.
type AccountClass string

const (
	ClassReal     AccountClass = "REAL"     // tangible assets: cash, bank, stock
	ClassPersonal AccountClass = "PERSONAL" // parties: debtors, creditors
	ClassNominal  AccountClass = "NOMINAL"  // income, expense, gains, losses
)

// AccountSubType refines the account type for statement placement.
// Trading account and ratio computation key off these, not off names.
type AccountSubType string

const (
	SubTypeCash             AccountSubType = "CASH"
	SubTypeBank             AccountSubType = "BANK"
	SubTypeReceivable       AccountSubType = "RECEIVABLE"
	SubTypeStock            AccountSubType = "STOCK"
	SubTypeFixedAsset       AccountSubType = "FIXED_ASSET"
	SubTypePayable          AccountSubType = "PAYABLE"
	SubTypeTaxPayable       AccountSubType = "TAX_PAYABLE"
	SubTypeTaxCredit        AccountSubType = "TAX_CREDIT"
	SubTypeLongTermLiab     AccountSubType = "LONG_TERM_LIABILITY"
	SubTypeCapital          AccountSubType = "CAPITAL"
	SubTypeDirectIncome     AccountSubType = "DIRECT_INCOME"  // sales
	SubTypeOtherIncome      AccountSubType = "OTHER_INCOME"
	SubTypeDirectExpense    AccountSubType = "DIRECT_EXPENSE" // purchases / COGS
	SubTypeOperatingExpense AccountSubType = "OPERATING_EXPENSE"
)

// Account represents a ledger account within the core domain.
// Accounts are created on first reference and never deleted, only deactivated.
type Account struct {
	AccountID  string          `json:"accountID"`  // Primary key (UUID)
	BusinessID string          `json:"businessID"` // FK -> businesses.business_id
	Name       string          `json:"name"`
	AccountType AccountType    `json:"accountType"`
	Class      AccountClass    `json:"class"`
	SubType    AccountSubType  `json:"subType"`
	IsActive   bool            `json:"isActive"`
	Balance    decimal.Decimal `json:"balance"` // Persisted running balance
	AuditFields
}

// IsCurrent reports whether the account counts toward the current ratio.
func (a Account) IsCurrent() bool {
	switch a.SubType {
	case SubTypeCash, SubTypeBank, SubTypeReceivable, SubTypeStock, SubTypeTaxCredit,
		SubTypePayable, SubTypeTaxPayable:
		return true
	}
	return false
}
