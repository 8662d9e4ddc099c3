package services

import (
	"context"
	"time"

	"github.com/bahikhata/bahikhata_backend/internal/core/domain"
)

// ReturnsSvcFacade assembles regulatory-return sections from posted vouchers.
type ReturnsSvcFacade interface {
	// AssembleOutwardReturn groups the period's posted sales-side vouchers
	// into return sections and cross-checks the summary totals against
	// the sum of its sections before returning it.
	AssembleOutwardReturn(ctx context.Context, businessID string, from, to time.Time) (*domain.ReturnSummary, error)
}
