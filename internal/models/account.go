package models

import (
	"github.com/shopspring/decimal"
)

// AccountType mirrors the domain account type enum for persistence.
type AccountType string

// AccountClass mirrors the domain account classification for persistence.
type AccountClass string

// AccountSubType mirrors the domain reporting sub-type for persistence.
type AccountSubType string

// Account represents a ledger account row.
type Account struct {
	AccountID   string          `db:"account_id"`
	BusinessID  string          `db:"business_id"`
	Name        string          `db:"name"`
	AccountType AccountType     `db:"account_type"`
	Class       AccountClass    `db:"class"`
	SubType     AccountSubType  `db:"sub_type"`
	IsActive    bool            `db:"is_active"`
	AuditFields                 // Embed common audit fields
	Balance     decimal.Decimal `db:"balance"` // Persisted account balance
}
