package services

import (
	"context"

	"github.com/bahikhata/bahikhata_backend/internal/core/domain"
)

// TaxRateResolverSvc maps a supply description to its applicable rate and
// levy type. Resolution is pure lookup over the versioned rate table.
type TaxRateResolverSvc interface {
	// Resolve returns the applicable rate, levy type and split decision
	// for a supply, or ErrUnresolvedRate when no mapping, default or
	// override applies.
	Resolve(ctx context.Context, query domain.RateQuery) (domain.RateDecision, error)
}
