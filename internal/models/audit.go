package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// IssueKind mirrors the domain audit issue kind enum for persistence.
type IssueKind string

// IssueSeverity mirrors the domain audit issue severity enum for persistence.
type IssueSeverity string

// AuditStatus mirrors the domain audit run verdict enum for persistence.
type AuditStatus string

// AuditRun represents a completed correctness audit row.
type AuditRun struct {
	RunID       string      `db:"run_id"`
	BusinessID  string      `db:"business_id"`
	WindowStart time.Time   `db:"window_start"`
	WindowEnd   time.Time   `db:"window_end"`
	StartedAt   time.Time   `db:"started_at"`
	FinishedAt  time.Time   `db:"finished_at"`
	TotalIssues int         `db:"total_issues"`
	AutoFixed   int         `db:"auto_fixed"`
	Remaining   int         `db:"remaining"`
	Status      AuditStatus `db:"status"`
	TriggeredBy string      `db:"triggered_by"`
}

// AuditIssue represents a single finding attached to an audit run.
type AuditIssue struct {
	IssueID    string           `db:"issue_id"`
	RunID      string           `db:"run_id"`
	Kind       IssueKind        `db:"kind"`
	Severity   IssueSeverity    `db:"severity"`
	VoucherIDs []byte           `db:"voucher_ids"` // JSONB array of voucher IDs
	AccountID  string           `db:"account_id"`
	Detail     string           `db:"detail"`
	Expected   *decimal.Decimal `db:"expected"`
	Actual     *decimal.Decimal `db:"actual"`
	AutoFixable bool            `db:"auto_fixable"`
	FixApplied  bool            `db:"fix_applied"`
	FixDetail   string          `db:"fix_detail"`
}

// ExternalBalance represents a caller-reported real-world balance snapshot.
type ExternalBalance struct {
	BusinessID string          `db:"business_id"`
	AccountID  string          `db:"account_id"`
	AsOf       time.Time       `db:"as_of"`
	Balance    decimal.Decimal `db:"balance"`
	ReportedBy string          `db:"reported_by"`
	ReportedAt time.Time       `db:"reported_at"`
}
