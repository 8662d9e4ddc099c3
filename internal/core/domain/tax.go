package domain

import (
	"github.com/shopspring/decimal"
)

// TaxRegime is the business's GST registration regime.
type TaxRegime string

const (
	RegimeRegular     TaxRegime = "REGULAR"
	RegimeComposition TaxRegime = "COMPOSITION"
)

// CompositionBucket selects the flat composition rate by business type.
type CompositionBucket string

const (
	BucketTrader       CompositionBucket = "TRADER"
	BucketManufacturer CompositionBucket = "MANUFACTURER"
	BucketFoodService  CompositionBucket = "FOOD_SERVICE"
	BucketService      CompositionBucket = "SERVICE"
)

// LevyType classifies how GST applies to a supply.
type LevyType string

const (
	LevyStandard      LevyType = "STANDARD"
	LevyComposition   LevyType = "COMPOSITION"
	LevyExempt        LevyType = "EXEMPT"
	LevyReverseCharge LevyType = "REVERSE_CHARGE"
)

// JurisdictionPair identifies the supplier state and the place of supply,
// both as 2-digit GST state codes.
type JurisdictionPair struct {
	SupplierState string `json:"supplierState"`
	PlaceOfSupply string `json:"placeOfSupply"`
}

// IntraState reports whether the supply stays within one state, in which
// case tax splits into CGST+SGST; otherwise a single IGST component applies.
func (j JurisdictionPair) IntraState() bool {
	return j.SupplierState != "" && j.SupplierState == j.PlaceOfSupply
}

// TaxComponents holds the component amounts of a tax charge. For an
// intra-state supply CGST and SGST are set; for inter-state only IGST.
type TaxComponents struct {
	CGST decimal.Decimal `json:"cgst"`
	SGST decimal.Decimal `json:"sgst"`
	IGST decimal.Decimal `json:"igst"`
}

// Total sums all components.
func (c TaxComponents) Total() decimal.Decimal {
	return c.CGST.Add(c.SGST).Add(c.IGST)
}

// IsZero reports whether every component is zero.
func (c TaxComponents) IsZero() bool {
	return c.CGST.IsZero() && c.SGST.IsZero() && c.IGST.IsZero()
}

// Add returns component-wise sum.
func (c TaxComponents) Add(o TaxComponents) TaxComponents {
	return TaxComponents{
		CGST: c.CGST.Add(o.CGST),
		SGST: c.SGST.Add(o.SGST),
		IGST: c.IGST.Add(o.IGST),
	}
}

// RateQuery is the input to rate resolution: what is being supplied,
// where, and under which regime.
type RateQuery struct {
	Category      string            `json:"category,omitempty"` // item/service category keyword
	HSNCode       string            `json:"hsnCode,omitempty"`  // explicit classification code; wins over category
	Jurisdiction  JurisdictionPair  `json:"jurisdiction"`
	Regime        TaxRegime         `json:"regime"`
	Bucket        CompositionBucket `json:"bucket,omitempty"` // required for composition regime
	Override      *decimal.Decimal  `json:"override,omitempty"`
	ReverseCharge bool              `json:"reverseCharge"`
}

// RateDecision is the TaxRateResolver's output.
type RateDecision struct {
	Rate     decimal.Decimal `json:"rate"` // percentage, e.g. 18
	Levy     LevyType        `json:"levy"`
	SplitTax bool            `json:"splitTax"` // true -> CGST+SGST, false -> IGST
}

// TaxBreakdown is the computed tax attached to a voucher.
type TaxBreakdown struct {
	TaxableValue  decimal.Decimal  `json:"taxableValue"`
	Rate          decimal.Decimal  `json:"rate"`
	Levy          LevyType         `json:"levy"`
	Components    TaxComponents    `json:"components"`
	RoundOff      decimal.Decimal  `json:"roundOff"`          // explicit round-off line, never silently absorbed
	HSNCode       string           `json:"hsnCode,omitempty"` // HSN/SAC classification code
	Quantity      decimal.Decimal  `json:"quantity"`          // units supplied; zero when the source does not track units
	Jurisdiction  JurisdictionPair `json:"jurisdiction"`
	ReverseCharge bool             `json:"reverseCharge"`
}

// GrossTotal is taxable value plus all tax components plus round-off.
func (t TaxBreakdown) GrossTotal() decimal.Decimal {
	return t.TaxableValue.Add(t.Components.Total()).Add(t.RoundOff)
}
