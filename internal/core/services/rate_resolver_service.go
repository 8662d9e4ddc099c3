package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bahikhata/bahikhata_backend/internal/apperrors"
	"github.com/bahikhata/bahikhata_backend/internal/core/domain"
	portssvc "github.com/bahikhata/bahikhata_backend/internal/core/ports/services"
	"github.com/bahikhata/bahikhata_backend/internal/middleware"
	"github.com/bahikhata/bahikhata_backend/internal/utils/validation"
	"github.com/shopspring/decimal"
)

var (
	ErrUnresolvedRate = errors.New("no applicable tax rate found for the supply")
)

// rateResolverService maps a supply description to its applicable rate and
// levy. Resolution is pure lookup over the slab table; precedence is
// explicit override, then HSN code, then category, then the default rate.
type rateResolverService struct {
	table *rateTable
}

// NewRateResolverService creates a new TaxRateResolverSvc.
func NewRateResolverService(defaultRate decimal.Decimal) portssvc.TaxRateResolverSvc {
	return &rateResolverService{table: newRateTable(defaultRate)}
}

// Ensure rateResolverService implements the portssvc.TaxRateResolverSvc interface
var _ portssvc.TaxRateResolverSvc = (*rateResolverService)(nil)

// Resolve returns the applicable rate, levy type and split decision for a supply.
func (s *rateResolverService) Resolve(ctx context.Context, query domain.RateQuery) (domain.RateDecision, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	split := query.Jurisdiction.IntraState()

	// Composition regime charges a flat rate on turnover regardless of the
	// goods supplied, and never splits into components on invoices.
	if query.Regime == domain.RegimeComposition {
		rate, ok := s.table.lookupComposition(query.Bucket)
		if !ok {
			return domain.RateDecision{}, fmt.Errorf("%w: unknown composition bucket %q", ErrUnresolvedRate, query.Bucket)
		}
		return domain.RateDecision{Rate: rate, Levy: domain.LevyComposition, SplitTax: false}, nil
	}

	levy := domain.LevyStandard
	if query.ReverseCharge {
		levy = domain.LevyReverseCharge
	}

	// Explicit override wins over every table row
	if query.Override != nil {
		if query.Override.IsNegative() {
			return domain.RateDecision{}, fmt.Errorf("%w: override rate must not be negative", apperrors.ErrValidation)
		}
		logger.Debug("Rate resolved from explicit override", slog.String("rate", query.Override.String()))
		return domain.RateDecision{Rate: *query.Override, Levy: levy, SplitTax: split}, nil
	}

	// HSN/SAC code beats category keywords
	if query.HSNCode != "" {
		if err := validation.ValidateClassificationCode(query.HSNCode); err != nil {
			return domain.RateDecision{}, fmt.Errorf("%w: %s", apperrors.ErrValidation, err)
		}
		if rate, ok := s.table.lookupHSN(query.HSNCode); ok {
			logger.Debug("Rate resolved from classification code", slog.String("hsn", query.HSNCode), slog.String("rate", rate.String()))
			return domain.RateDecision{Rate: rate, Levy: levy, SplitTax: split}, nil
		}
	}

	if rate, exempt, ok := s.table.lookupCategory(query.Category); ok {
		if exempt {
			return domain.RateDecision{Rate: decimal.Zero, Levy: domain.LevyExempt, SplitTax: split}, nil
		}
		logger.Debug("Rate resolved from category", slog.String("category", query.Category), slog.String("rate", rate.String()))
		return domain.RateDecision{Rate: rate, Levy: levy, SplitTax: split}, nil
	}

	// Fallback slab row
	return domain.RateDecision{Rate: s.table.defaultRate, Levy: levy, SplitTax: split}, nil
}
