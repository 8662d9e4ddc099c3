// Package gst holds the pure GST arithmetic: tax extraction and addition,
// intra/inter-state component splitting, document-level aggregation,
// invoice discount reallocation, input-credit set-off and reverse charge.
// Nothing here touches storage; every function is deterministic over its
// inputs and every monetary result is rounded to 2 places (half-up).
package gst

import (
	"fmt"

	"github.com/bahikhata/bahikhata_backend/internal/apperrors"
	"github.com/bahikhata/bahikhata_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	two     = decimal.NewFromInt(2)

	// Tolerance is the rounding tolerance for all balance checks, in
	// currency units.
	Tolerance = decimal.RequireFromString("0.01")
)

// Round rounds a monetary value to 2 decimal places, half away from zero.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// WithinTolerance reports whether two amounts agree within Tolerance.
func WithinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(Tolerance)
}

// Extraction is the result of separating an amount into base and tax.
type Extraction struct {
	Base decimal.Decimal
	Tax  decimal.Decimal
}

// ExtractFromGross recovers the taxable base and tax from a tax-inclusive
// amount: base = gross * 100 / (100 + rate). At rate 0 the base is the
// gross and tax is zero.
func ExtractFromGross(gross, rate decimal.Decimal) (Extraction, error) {
	if gross.IsNegative() {
		return Extraction{}, fmt.Errorf("%w: gross amount must not be negative, got %s", apperrors.ErrValidation, gross)
	}
	if rate.IsNegative() {
		return Extraction{}, fmt.Errorf("%w: rate must not be negative, got %s", apperrors.ErrValidation, rate)
	}
	if rate.IsZero() {
		return Extraction{Base: Round(gross), Tax: decimal.Zero}, nil
	}
	base := Round(gross.Mul(hundred).Div(hundred.Add(rate)))
	return Extraction{Base: base, Tax: gross.Sub(base)}, nil
}

// AddToBase computes tax on a tax-exclusive base: tax = base * rate / 100.
// The returned Extraction carries the same base and the computed tax;
// total is Base.Add(Tax).
func AddToBase(base, rate decimal.Decimal) (Extraction, error) {
	if base.IsNegative() {
		return Extraction{}, fmt.Errorf("%w: base amount must not be negative, got %s", apperrors.ErrValidation, base)
	}
	if rate.IsNegative() {
		return Extraction{}, fmt.Errorf("%w: rate must not be negative, got %s", apperrors.ErrValidation, rate)
	}
	return Extraction{Base: base, Tax: Round(base.Mul(rate).Div(hundred))}, nil
}

// SplitComponents distributes a total tax into its components. For an
// intra-state supply the tax splits into two equal halves (CGST, SGST);
// the second half takes any odd paisa so the halves always sum back to
// the total. For inter-state the whole tax is IGST.
func SplitComponents(totalTax decimal.Decimal, split bool) domain.TaxComponents {
	if !split {
		return domain.TaxComponents{IGST: Round(totalTax)}
	}
	half := Round(totalTax.Div(two))
	return domain.TaxComponents{CGST: half, SGST: Round(totalTax).Sub(half)}
}

// Line is one document line for aggregation and discount reallocation.
type Line struct {
	TaxableValue decimal.Decimal
	Rate         decimal.Decimal
	Quantity     decimal.Decimal
	Components   domain.TaxComponents
}

// RateBucket is the per-rate aggregate of a document's lines.
type RateBucket struct {
	Rate         decimal.Decimal
	TaxableValue decimal.Decimal
	Tax          domain.TaxComponents
	LineCount    int
}

// AggregateLines sums taxable values and tax components per rate,
// preserving a breakdown keyed by rate for reporting. Buckets are
// returned in ascending rate order.
func AggregateLines(lines []Line) []RateBucket {
	byRate := make(map[string]*RateBucket)
	order := make([]string, 0)
	for _, l := range lines {
		key := l.Rate.String()
		b, ok := byRate[key]
		if !ok {
			b = &RateBucket{Rate: l.Rate}
			byRate[key] = b
			order = append(order, key)
		}
		b.TaxableValue = b.TaxableValue.Add(l.TaxableValue)
		b.Tax = b.Tax.Add(l.Components)
		b.LineCount++
	}
	buckets := make([]RateBucket, 0, len(byRate))
	for _, key := range order {
		buckets = append(buckets, *byRate[key])
	}
	for i := 0; i < len(buckets); i++ {
		for j := i + 1; j < len(buckets); j++ {
			if buckets[j].Rate.LessThan(buckets[i].Rate) {
				buckets[i], buckets[j] = buckets[j], buckets[i]
			}
		}
	}
	return buckets
}

// ReallocateInvoiceDiscount redistributes a document-level discount across
// lines in proportion to each line's taxable value, then re-derives each
// line's tax. The last line absorbs the proportioning residue so the sum
// of adjusted taxable values equals exactly the net taxable value.
func ReallocateInvoiceDiscount(lines []Line, discount decimal.Decimal, split bool) ([]Line, error) {
	if discount.IsNegative() {
		return nil, fmt.Errorf("%w: discount must not be negative, got %s", apperrors.ErrValidation, discount)
	}
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.TaxableValue)
	}
	if total.IsZero() {
		if discount.IsZero() {
			return lines, nil
		}
		return nil, fmt.Errorf("%w: cannot apply discount %s to zero-value document", apperrors.ErrValidation, discount)
	}
	if discount.GreaterThan(total) {
		return nil, fmt.Errorf("%w: discount %s exceeds document taxable value %s", apperrors.ErrValidation, discount, total)
	}

	adjusted := make([]Line, len(lines))
	allocated := decimal.Zero
	for i, l := range lines {
		var share decimal.Decimal
		if i == len(lines)-1 {
			share = discount.Sub(allocated)
		} else {
			share = Round(discount.Mul(l.TaxableValue).Div(total))
			allocated = allocated.Add(share)
		}
		netValue := l.TaxableValue.Sub(share)
		ext, err := AddToBase(netValue, l.Rate)
		if err != nil {
			return nil, err
		}
		adjusted[i] = Line{
			TaxableValue: netValue,
			Rate:         l.Rate,
			Quantity:     l.Quantity,
			Components:   SplitComponents(ext.Tax, split),
		}
	}
	return adjusted, nil
}

// SetOffPolicy controls the order in which leftover IGST credit is applied
// to the split components. The ordering determines which component shows a
// liability when credit cannot cover all three; it is policy, not law, and
// should be confirmed against current set-off rules before changing.
type SetOffPolicy struct {
	// IGSTOrder lists the split components, in application order, that
	// receive leftover IGST credit after IGST liability is covered.
	IGSTOrder [2]string
}

// DefaultSetOffPolicy applies leftover IGST credit to CGST first, then SGST.
var DefaultSetOffPolicy = SetOffPolicy{IGSTOrder: [2]string{"CGST", "SGST"}}

// SetOffResult is the outcome of applying input credit to output liability.
type SetOffResult struct {
	Payable      domain.TaxComponents // max(0, output - credit applied), per component
	CreditUsed   domain.TaxComponents
	CarryForward domain.TaxComponents // unused credit, carried to the next period
}

// ApplyInputCredit sets available input credit off against output liability.
// Each component's credit applies to its own liability first; leftover IGST
// credit then applies to the split components in policy order. CGST and
// SGST leftovers only carry forward.
func ApplyInputCredit(output, credit domain.TaxComponents, policy SetOffPolicy) (SetOffResult, error) {
	for _, v := range []decimal.Decimal{output.CGST, output.SGST, output.IGST, credit.CGST, credit.SGST, credit.IGST} {
		if v.IsNegative() {
			return SetOffResult{}, fmt.Errorf("%w: tax components must not be negative", apperrors.ErrValidation)
		}
	}

	payable := map[string]decimal.Decimal{"CGST": output.CGST, "SGST": output.SGST, "IGST": output.IGST}
	avail := map[string]decimal.Decimal{"CGST": credit.CGST, "SGST": credit.SGST, "IGST": credit.IGST}
	used := map[string]decimal.Decimal{}

	// Own-component set-off first.
	for _, comp := range []string{"CGST", "SGST", "IGST"} {
		applied := decimal.Min(payable[comp], avail[comp])
		payable[comp] = payable[comp].Sub(applied)
		avail[comp] = avail[comp].Sub(applied)
		used[comp] = applied
	}

	// Leftover IGST credit cross-applies in policy order.
	for _, comp := range policy.IGSTOrder {
		if avail["IGST"].IsZero() {
			break
		}
		applied := decimal.Min(payable[comp], avail["IGST"])
		payable[comp] = payable[comp].Sub(applied)
		avail["IGST"] = avail["IGST"].Sub(applied)
		used["IGST"] = used["IGST"].Add(applied)
	}

	return SetOffResult{
		Payable:      domain.TaxComponents{CGST: payable["CGST"], SGST: payable["SGST"], IGST: payable["IGST"]},
		CreditUsed:   domain.TaxComponents{CGST: used["CGST"], SGST: used["SGST"], IGST: used["IGST"]},
		CarryForward: domain.TaxComponents{CGST: avail["CGST"], SGST: avail["SGST"], IGST: avail["IGST"]},
	}, nil
}

// ReverseCharge computes tax under the reverse charge mechanism: tax on the
// base amount, payable by the receiving party. It never nets against
// ordinary output tax, so the result stays separate from set-off.
func ReverseCharge(base, rate decimal.Decimal, split bool) (domain.TaxComponents, error) {
	ext, err := AddToBase(base, rate)
	if err != nil {
		return domain.TaxComponents{}, err
	}
	return SplitComponents(ext.Tax, split), nil
}

// RoundOffAmount returns the difference between the rounded grand total and
// the sum of its rounded parts. The difference becomes an explicit round-off
// line on the voucher, never silently absorbed.
func RoundOffAmount(parts []decimal.Decimal, roundedTotal decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range parts {
		sum = sum.Add(Round(p))
	}
	return Round(roundedTotal).Sub(sum)
}
