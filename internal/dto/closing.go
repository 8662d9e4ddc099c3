package dto

import (
	"time"

	"github.com/bahikhata/bahikhata_backend/internal/core/domain"
)

// CreatePeriodRequest defines an accounting period for a business.
type CreatePeriodRequest struct {
	PeriodType domain.PeriodType `json:"periodType" binding:"required,oneof=MONTHLY QUARTERLY ANNUAL"`
	StartDate  time.Time         `json:"startDate" binding:"required"`
	EndDate    time.Time         `json:"endDate" binding:"required"`
}

// CloseOptions tune a period-closing run.
type CloseOptions struct {
	// IncludeBalanceSheet forces balance-sheet generation for non-annual
	// closings.
	IncludeBalanceSheet bool `json:"includeBalanceSheet"`
	// HoldsInventory enables the trading account step.
	HoldsInventory bool `json:"holdsInventory"`
}

// PeriodResponse defines the data returned for an accounting period.
type PeriodResponse struct {
	PeriodID     string              `json:"periodID"`
	PeriodType   domain.PeriodType   `json:"periodType"`
	StartDate    time.Time           `json:"startDate"`
	EndDate      time.Time           `json:"endDate"`
	Status       domain.PeriodStatus `json:"status"`
	ClosedAt     *time.Time          `json:"closedAt,omitempty"`
	ClosedBy     string              `json:"closedBy,omitempty"`
	StatementIDs []string            `json:"statementIDs,omitempty"`
	ReopenCount  int                 `json:"reopenCount"`
}

// ToPeriodResponse converts a domain.AccountingPeriod to its response DTO.
func ToPeriodResponse(p *domain.AccountingPeriod) PeriodResponse {
	return PeriodResponse{
		PeriodID:     p.PeriodID,
		PeriodType:   p.PeriodType,
		StartDate:    p.StartDate,
		EndDate:      p.EndDate,
		Status:       p.Status,
		ClosedAt:     p.ClosedAt,
		ClosedBy:     p.ClosedBy,
		StatementIDs: p.StatementIDs,
		ReopenCount:  p.ReopenCount,
	}
}
