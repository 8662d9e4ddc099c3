package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/bahikhata/bahikhata_backend/internal/apperrors"
	"github.com/bahikhata/bahikhata_backend/internal/core/domain"
	portsrepo "github.com/bahikhata/bahikhata_backend/internal/core/ports/repositories"
	portssvc "github.com/bahikhata/bahikhata_backend/internal/core/ports/services"
	"github.com/bahikhata/bahikhata_backend/internal/middleware"
	"github.com/shopspring/decimal"
)

// overseasStateCode is the place-of-supply code reserved for exports.
const overseasStateCode = "96"

// returnsService assembles outward-supply return sections from posted
// vouchers. Assembly is a pure regrouping of ledger data; nothing here
// writes back.
type returnsService struct {
	voucherRepo portsrepo.VoucherRepositoryFacade

	b2cLargeThreshold decimal.Decimal
}

// NewReturnsService creates a new ReturnsSvcFacade.
func NewReturnsService(voucherRepo portsrepo.VoucherRepositoryFacade, b2cLargeThreshold decimal.Decimal) portssvc.ReturnsSvcFacade {
	return &returnsService{voucherRepo: voucherRepo, b2cLargeThreshold: b2cLargeThreshold}
}

// Ensure returnsService implements the portssvc.ReturnsSvcFacade interface
var _ portssvc.ReturnsSvcFacade = (*returnsService)(nil)

// AssembleOutwardReturn groups the period's posted sales-side vouchers into
// return sections and cross-checks the summary totals against the sum of
// its sections.
func (s *returnsService) AssembleOutwardReturn(ctx context.Context, businessID string, from, to time.Time) (*domain.ReturnSummary, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !from.Before(to) {
		return nil, fmt.Errorf("%w: period start must be before its end", apperrors.ErrValidation)
	}

	vouchers, err := s.voucherRepo.ListVouchersByDateRange(ctx, businessID, from, to)
	if err != nil {
		logger.Error("Failed to load vouchers for return assembly", slog.String("error", err.Error()), slog.String("business_id", businessID))
		return nil, fmt.Errorf("failed to load vouchers: %w", err)
	}

	summary := &domain.ReturnSummary{
		BusinessID:  businessID,
		PeriodStart: from,
		PeriodEnd:   to,
		AssembledAt: time.Now().UTC(),
		B2B:         []domain.B2BRow{},
		B2CLarge:    []domain.B2CRow{},
		B2CSmall:    []domain.B2CRow{},
		Notes:       []domain.NoteRow{},
		Exports:     []domain.B2CRow{},
		HSN:         []domain.HSNSummaryRow{},
		DocSeries:   []domain.DocSeriesRow{},
		NilRated:    decimal.Zero,
	}

	b2b := map[string]*domain.B2BRow{}
	b2cLarge := map[string]*domain.B2CRow{}
	b2cSmall := map[string]*domain.B2CRow{}
	exports := map[string]*domain.B2CRow{}
	notes := map[string]*domain.NoteRow{}
	hsn := map[string]*domain.HSNSummaryRow{}
	series := map[domain.VoucherType]*domain.DocSeriesRow{}

	// Running totals accumulated per voucher, cross-checked against the
	// section sums after grouping.
	runningTaxable := decimal.Zero
	runningTax := domain.TaxComponents{}

	for _, v := range vouchers {
		if !salesSide(v.VoucherType) {
			continue
		}
		s.recordSeries(series, v)
		if v.OriginalVoucherID != nil {
			// Reversal vouchers cancel a document; they carry no supply value
			continue
		}

		taxable, components, rate := supplyValues(v)

		switch v.VoucherType {
		case domain.VoucherCreditNote, domain.VoucherDebitNote:
			key := v.CounterpartyGSTIN + "|" + string(v.VoucherType)
			row, ok := notes[key]
			if !ok {
				row = &domain.NoteRow{CounterpartyGSTIN: v.CounterpartyGSTIN, NoteType: v.VoucherType}
				notes[key] = row
			}
			row.NoteCount++
			row.TaxableValue = row.TaxableValue.Add(taxable)
			row.Tax = row.Tax.Add(components)

		default: // SALES
			switch {
			case nilRated(v):
				summary.NilRated = summary.NilRated.Add(taxable)
			case v.Tax != nil && v.Tax.Jurisdiction.PlaceOfSupply == overseasStateCode:
				addB2CRow(exports, v.Tax.Jurisdiction.PlaceOfSupply, rate, taxable, components)
			case v.CounterpartyGSTIN != "":
				row, ok := b2b[v.CounterpartyGSTIN]
				if !ok {
					row = &domain.B2BRow{CounterpartyGSTIN: v.CounterpartyGSTIN}
					b2b[v.CounterpartyGSTIN] = row
				}
				row.InvoiceCount++
				row.TaxableValue = row.TaxableValue.Add(taxable)
				row.Tax = row.Tax.Add(components)
			case v.Tax != nil && !v.Tax.Jurisdiction.IntraState() && v.Amount.GreaterThan(s.b2cLargeThreshold):
				addB2CRow(b2cLarge, v.Tax.Jurisdiction.PlaceOfSupply, rate, taxable, components)
			default:
				place := ""
				if v.Tax != nil {
					place = v.Tax.Jurisdiction.PlaceOfSupply
				}
				addB2CRow(b2cSmall, place, rate, taxable, components)
			}
			runningTaxable = runningTaxable.Add(taxable)
			runningTax = runningTax.Add(components)
		}

		if v.Tax != nil && v.Tax.HSNCode != "" {
			key := v.Tax.HSNCode + "|" + rate.String()
			row, ok := hsn[key]
			if !ok {
				row = &domain.HSNSummaryRow{HSNCode: v.Tax.HSNCode, Rate: rate}
				hsn[key] = row
			}
			row.InvoiceCount++
			// A source that does not track units counts one per document.
			qty := v.Tax.Quantity
			if qty.IsZero() {
				qty = decimal.NewFromInt(1)
			}
			row.Quantity = row.Quantity.Add(qty)
			row.TaxableValue = row.TaxableValue.Add(taxable)
			row.Tax = row.Tax.Add(components)
		}
	}

	summary.B2B = sortedB2B(b2b)
	summary.B2CLarge = sortedB2C(b2cLarge)
	summary.B2CSmall = sortedB2C(b2cSmall)
	summary.Exports = sortedB2C(exports)
	summary.Notes = sortedNotes(notes)
	summary.HSN = sortedHSN(hsn)
	summary.DocSeries = sortedSeries(series)
	summary.TotalTaxableValue = runningTaxable
	summary.TotalTax = runningTax

	if err := crossCheck(summary); err != nil {
		logger.Error("Return cross-check failed", slog.String("error", err.Error()), slog.String("business_id", businessID))
		return nil, err
	}

	logger.Info("Outward return assembled",
		slog.String("business_id", businessID),
		slog.Int("b2b_rows", len(summary.B2B)),
		slog.Int("b2c_large_rows", len(summary.B2CLarge)),
		slog.Int("b2c_small_rows", len(summary.B2CSmall)),
		slog.String("total_taxable", summary.TotalTaxableValue.String()),
	)
	return summary, nil
}

// crossCheck verifies the summary totals equal the sum over the value
// sections. A mismatch means the grouping itself is defective.
func crossCheck(summary *domain.ReturnSummary) error {
	taxable := summary.NilRated
	tax := domain.TaxComponents{}
	for _, r := range summary.B2B {
		taxable = taxable.Add(r.TaxableValue)
		tax = tax.Add(r.Tax)
	}
	for _, rows := range [][]domain.B2CRow{summary.B2CLarge, summary.B2CSmall, summary.Exports} {
		for _, r := range rows {
			taxable = taxable.Add(r.TaxableValue)
			tax = tax.Add(r.Tax)
		}
	}
	if !taxable.Equal(summary.TotalTaxableValue) || !tax.Total().Equal(summary.TotalTax.Total()) {
		return fmt.Errorf("%w: return section sums disagree with summary totals", apperrors.ErrInternal)
	}
	return nil
}

// salesSide reports whether a voucher type belongs in the outward return.
func salesSide(t domain.VoucherType) bool {
	switch t {
	case domain.VoucherSales, domain.VoucherCreditNote, domain.VoucherDebitNote:
		return true
	}
	return false
}

// nilRated reports whether a supply goes to the nil-rated/exempt section.
func nilRated(v domain.Voucher) bool {
	if v.Tax == nil {
		return true
	}
	return v.Tax.Levy == domain.LevyExempt || v.Tax.Rate.IsZero()
}

// supplyValues extracts the reportable taxable value, tax components and
// rate of a voucher. Untaxed vouchers report their full amount at rate 0.
func supplyValues(v domain.Voucher) (decimal.Decimal, domain.TaxComponents, decimal.Decimal) {
	if v.Tax == nil {
		return v.Amount, domain.TaxComponents{}, decimal.Zero
	}
	return v.Tax.TaxableValue, v.Tax.Components, v.Tax.Rate
}

func (s *returnsService) recordSeries(series map[domain.VoucherType]*domain.DocSeriesRow, v domain.Voucher) {
	row, ok := series[v.VoucherType]
	if !ok {
		row = &domain.DocSeriesRow{VoucherType: v.VoucherType, FromNumber: v.VoucherNumber, ToNumber: v.VoucherNumber}
		series[v.VoucherType] = row
	}
	if v.VoucherNumber < row.FromNumber {
		row.FromNumber = v.VoucherNumber
	}
	if v.VoucherNumber > row.ToNumber {
		row.ToNumber = v.VoucherNumber
	}
	row.TotalCount++
	if v.OriginalVoucherID != nil {
		row.Cancelled++
	}
}

func addB2CRow(rows map[string]*domain.B2CRow, place string, rate, taxable decimal.Decimal, components domain.TaxComponents) {
	key := place + "|" + rate.String()
	row, ok := rows[key]
	if !ok {
		row = &domain.B2CRow{PlaceOfSupply: place, Rate: rate}
		rows[key] = row
	}
	row.InvoiceCount++
	row.TaxableValue = row.TaxableValue.Add(taxable)
	row.Tax = row.Tax.Add(components)
}

func sortedB2B(rows map[string]*domain.B2BRow) []domain.B2BRow {
	out := make([]domain.B2BRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CounterpartyGSTIN < out[j].CounterpartyGSTIN })
	return out
}

func sortedB2C(rows map[string]*domain.B2CRow) []domain.B2CRow {
	out := make([]domain.B2CRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PlaceOfSupply != out[j].PlaceOfSupply {
			return out[i].PlaceOfSupply < out[j].PlaceOfSupply
		}
		return out[i].Rate.LessThan(out[j].Rate)
	})
	return out
}

func sortedNotes(rows map[string]*domain.NoteRow) []domain.NoteRow {
	out := make([]domain.NoteRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CounterpartyGSTIN != out[j].CounterpartyGSTIN {
			return out[i].CounterpartyGSTIN < out[j].CounterpartyGSTIN
		}
		return out[i].NoteType < out[j].NoteType
	})
	return out
}

func sortedHSN(rows map[string]*domain.HSNSummaryRow) []domain.HSNSummaryRow {
	out := make([]domain.HSNSummaryRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].HSNCode != out[j].HSNCode {
			return out[i].HSNCode < out[j].HSNCode
		}
		return out[i].Rate.LessThan(out[j].Rate)
	})
	return out
}

func sortedSeries(rows map[domain.VoucherType]*domain.DocSeriesRow) []domain.DocSeriesRow {
	out := make([]domain.DocSeriesRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VoucherType < out[j].VoucherType })
	return out
}
