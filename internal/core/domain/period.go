package domain

import "time"

// PeriodType is the granularity of an accounting period.
type PeriodType string

const (
	PeriodMonthly   PeriodType = "MONTHLY"
	PeriodQuarterly PeriodType = "QUARTERLY"
	PeriodAnnual    PeriodType = "ANNUAL"
)

// Finer reports whether p is of finer granularity than other.
func (p PeriodType) Finer(other PeriodType) bool {
	rank := map[PeriodType]int{PeriodMonthly: 0, PeriodQuarterly: 1, PeriodAnnual: 2}
	return rank[p] < rank[other]
}

// PeriodStatus is the closing state of an accounting period.
type PeriodStatus string

const (
	PeriodOpen    PeriodStatus = "OPEN"
	PeriodClosing PeriodStatus = "CLOSING"
	PeriodClosed  PeriodStatus = "CLOSED"
)

// AccountingPeriod is a closeable span of the ledger for one business.
// A business may hold overlapping definitions of different granularity,
// but only one non-reopened CLOSED record per (business, type, span).
type AccountingPeriod struct {
	PeriodID   string       `json:"periodID"` // Primary key (UUID)
	BusinessID string       `json:"businessID"`
	PeriodType PeriodType   `json:"periodType"`
	StartDate  time.Time    `json:"startDate"`
	EndDate    time.Time    `json:"endDate"`
	Status     PeriodStatus `json:"status"`

	// Closing metadata; zero until the first successful close.
	ClosedAt     *time.Time `json:"closedAt,omitempty"`
	ClosedBy     string     `json:"closedBy,omitempty"`
	StatementIDs []string   `json:"statementIDs,omitempty"`
	ReopenCount  int        `json:"reopenCount"`
	AuditFields
}

// Covers reports whether the given date falls within the period span.
func (p AccountingPeriod) Covers(date time.Time) bool {
	return !date.Before(p.StartDate) && !date.After(p.EndDate)
}
