package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// VoucherType mirrors the domain voucher type enum for persistence.
type VoucherType string

// VoucherStatus mirrors the domain voucher status enum for persistence.
type VoucherStatus string

// EntrySource mirrors the domain entry source enum for persistence.
type EntrySource string

// EntrySide mirrors the domain debit/credit marker for persistence.
type EntrySide string

// Voucher represents a single balanced business document composed of ledger lines.
type Voucher struct {
	VoucherID          string          `db:"voucher_id"`
	BusinessID         string          `db:"business_id"`
	VoucherType        VoucherType     `db:"voucher_type"`
	VoucherNumber      int64           `db:"voucher_number"`
	VoucherDate        time.Time       `db:"voucher_date"`
	Narration          string          `db:"narration"`
	Source             EntrySource     `db:"source"`
	Status             VoucherStatus   `db:"status"`
	Amount             decimal.Decimal `db:"amount"`
	CounterpartyName   string          `db:"counterparty_name"`
	CounterpartyGSTIN  string          `db:"counterparty_gstin"`
	DocumentNo         string          `db:"document_no"`
	Tax                []byte          `db:"tax"` // JSONB tax breakdown, nil when untaxed
	OriginalVoucherID  *string         `db:"original_voucher_id"`
	ReversingVoucherID *string         `db:"reversing_voucher_id"`
	AuditFields
}

// LedgerLine represents a single line item within a Voucher, affecting one account.
type LedgerLine struct {
	LineID         string          `db:"line_id"`
	VoucherID      string          `db:"voucher_id"`
	AccountID      string          `db:"account_id"`
	Amount         decimal.Decimal `db:"amount"` // Positive value
	Side           EntrySide       `db:"side"`
	PostingDate    time.Time       `db:"posting_date"`
	Notes          string          `db:"notes"`
	AuditFields
	RunningBalance decimal.Decimal `db:"running_balance"` // Balance after this line
}
