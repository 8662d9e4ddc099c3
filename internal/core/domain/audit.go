package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// IssueKind identifies the category of a ledger consistency issue.
type IssueKind string

const (
	IssueLedgerImbalance   IssueKind = "LEDGER_IMBALANCE"
	IssueTaxMismatch       IssueKind = "TAX_MISMATCH"
	IssueDuplicateEntry    IssueKind = "DUPLICATE_ENTRY"
	IssueSequenceGap       IssueKind = "SEQUENCE_GAP"
	IssueMisclassification IssueKind = "MISCLASSIFICATION"
	IssueReconciliationGap IssueKind = "RECONCILIATION_GAP"
)

// IssueSeverity grades an issue for triage.
type IssueSeverity string

const (
	SeverityWarning  IssueSeverity = "WARNING"
	SeverityError    IssueSeverity = "ERROR"
	SeverityCritical IssueSeverity = "CRITICAL"
)

// Issue is a single finding of the correctness auditor.
type Issue struct {
	IssueID    string        `json:"issueID"` // Primary key (UUID)
	RunID      string        `json:"runID"`   // FK -> AuditRun.runID
	Kind       IssueKind     `json:"kind"`
	Severity   IssueSeverity `json:"severity"`
	VoucherIDs []string      `json:"voucherIDs,omitempty"`
	AccountID  string        `json:"accountID,omitempty"`
	Detail     string        `json:"detail"`

	// Expected vs actual amounts where the issue is numeric.
	Expected *decimal.Decimal `json:"expected,omitempty"`
	Actual   *decimal.Decimal `json:"actual,omitempty"`

	AutoFixable bool   `json:"autoFixable"`
	FixApplied  bool   `json:"fixApplied"`
	FixDetail   string `json:"fixDetail,omitempty"` // Before/after description of the fix
}

// AuditStatus is the deterministic overall outcome of an audit run.
type AuditStatus string

const (
	AuditCorrect        AuditStatus = "CORRECT"
	AuditNeedsAttention AuditStatus = "NEEDS_ATTENTION"
	AuditCritical       AuditStatus = "CRITICAL"
)

// AuditRun is an immutable record of a single auditor pass over a
// business's ledger for a given window.
type AuditRun struct {
	RunID       string      `json:"runID"` // Primary key (UUID)
	BusinessID  string      `json:"businessID"`
	WindowStart time.Time   `json:"windowStart"`
	WindowEnd   time.Time   `json:"windowEnd"`
	StartedAt   time.Time   `json:"startedAt"`
	FinishedAt  time.Time   `json:"finishedAt"`
	TotalIssues int         `json:"totalIssues"`
	AutoFixed   int         `json:"autoFixed"`
	Remaining   int         `json:"remaining"`
	Status      AuditStatus `json:"status"`
	Issues      []Issue     `json:"issues,omitempty"`
	TriggeredBy string      `json:"triggeredBy"`
}

// ExternalBalance is an externally reported balance for a settlement
// account, used by the reconciliation check.
type ExternalBalance struct {
	BusinessID string          `json:"businessID"`
	AccountID  string          `json:"accountID"`
	AsOf       time.Time       `json:"asOf"`
	Balance    decimal.Decimal `json:"balance"`
	ReportedBy string          `json:"reportedBy"` // e.g. bank-sync collaborator
	ReportedAt time.Time       `json:"reportedAt"`
}
