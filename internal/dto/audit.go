package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RunAuditRequest scopes a correctness-audit pass.
type RunAuditRequest struct {
	WindowStart time.Time `json:"windowStart" binding:"required"`
	WindowEnd   time.Time `json:"windowEnd" binding:"required"`
	// AutoFix applies the auto-fixable corrections; when false the run
	// only reports.
	AutoFix bool `json:"autoFix"`
}

// ExternalBalanceRequest reports an externally observed settlement-account
// balance for reconciliation.
type ExternalBalanceRequest struct {
	AccountID  string          `json:"accountID" binding:"required"`
	AsOf       time.Time       `json:"asOf" binding:"required"`
	Balance    decimal.Decimal `json:"balance"`
	ReportedBy string          `json:"reportedBy" binding:"required"`
}
