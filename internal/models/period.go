package models

import (
	"encoding/json"
	"time"
)

// PeriodType mirrors the domain period granularity enum for persistence.
type PeriodType string

// PeriodStatus mirrors the domain period lifecycle enum for persistence.
type PeriodStatus string

// AccountingPeriod represents an accounting period row.
type AccountingPeriod struct {
	PeriodID     string       `db:"period_id"`
	BusinessID   string       `db:"business_id"`
	PeriodType   PeriodType   `db:"period_type"`
	StartDate    time.Time    `db:"start_date"`
	EndDate      time.Time    `db:"end_date"`
	Status       PeriodStatus `db:"status"`
	ClosedAt     *time.Time   `db:"closed_at"`
	ClosedBy     string       `db:"closed_by"`
	StatementIDs []byte       `db:"statement_ids"` // JSONB array of statement IDs
	ReopenCount  int          `db:"reopen_count"`
	AuditFields
}

// StatementType mirrors the domain statement type enum for persistence.
type StatementType string

// StatementStatus mirrors the domain statement status enum for persistence.
type StatementStatus string

// Statement represents a frozen financial statement snapshot.
type Statement struct {
	StatementID   string          `db:"statement_id"`
	BusinessID    string          `db:"business_id"`
	PeriodID      string          `db:"period_id"`
	StatementType StatementType   `db:"statement_type"`
	Status        StatementStatus `db:"status"`
	GeneratedAt   time.Time       `db:"generated_at"`
	GeneratedBy   string          `db:"generated_by"`
	Body          json.RawMessage `db:"body"` // Full report payload as stored
}
