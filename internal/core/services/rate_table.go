package services

import (
	"strings"

	"github.com/bahikhata/bahikhata_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// rateTable is the versioned slab lookup backing rate resolution. Rows are
// data, not code: changing a slab is a table edit.
type rateTable struct {
	hsnRates         map[string]decimal.Decimal // longest-prefix match on HSN/SAC
	categoryRates    map[string]decimal.Decimal // case-insensitive keyword match
	exemptCategories map[string]bool
	compositionRates map[domain.CompositionBucket]decimal.Decimal
	defaultRate      decimal.Decimal
}

// newRateTable builds the built-in slab table. The default rate is the
// fallback row applied when neither HSN nor category matches.
func newRateTable(defaultRate decimal.Decimal) *rateTable {
	d := func(s string) decimal.Decimal {
		v, _ := decimal.NewFromString(s)
		return v
	}
	return &rateTable{
		hsnRates: map[string]decimal.Decimal{
			// Chapter-level defaults, refined by longer prefixes
			"09":   d("5"),  // coffee, tea, spices
			"10":   d("0"),  // cereals
			"17":   d("5"),  // sugars
			"1905": d("18"), // biscuits, pastries
			"21":   d("12"), // miscellaneous edible preparations
			"2402": d("28"), // cigarettes
			"30":   d("12"), // pharmaceuticals
			"33":   d("18"), // cosmetics
			"3304": d("28"), // beauty preparations
			"52":   d("5"),  // cotton
			"61":   d("5"),  // apparel, knitted
			"62":   d("5"),  // apparel, woven
			"64":   d("18"), // footwear
			"71":   d("3"),  // jewellery, precious metals
			"8415": d("28"), // air conditioners
			"85":   d("18"), // electrical machinery
			"8703": d("28"), // motor cars
			"87":   d("28"), // vehicles
			"9983": d("18"), // professional services (SAC)
			"9985": d("18"), // support services (SAC)
			"9963": d("5"),  // restaurant services (SAC)
		},
		categoryRates: map[string]decimal.Decimal{
			"grocery":     d("5"),
			"food":        d("5"),
			"restaurant":  d("5"),
			"medicine":    d("12"),
			"clothing":    d("5"),
			"apparel":     d("5"),
			"footwear":    d("18"),
			"electronics": d("18"),
			"mobile":      d("18"),
			"services":    d("18"),
			"cement":      d("28"),
			"automobile":  d("28"),
			"luxury":      d("28"),
			"gold":        d("3"),
			"jewellery":   d("3"),
		},
		exemptCategories: map[string]bool{
			"milk":          true,
			"bread":         true,
			"fresh_produce": true,
			"vegetables":    true,
			"fruits":        true,
			"education":     true,
			"healthcare":    true,
			"books":         true,
		},
		compositionRates: map[domain.CompositionBucket]decimal.Decimal{
			domain.BucketTrader:       d("1"),
			domain.BucketManufacturer: d("1"),
			domain.BucketFoodService:  d("5"),
			domain.BucketService:      d("6"),
		},
		defaultRate: defaultRate,
	}
}

// lookupHSN finds the rate for a classification code by longest matching
// prefix.
func (t *rateTable) lookupHSN(code string) (decimal.Decimal, bool) {
	for l := len(code); l >= 2; l-- {
		if rate, ok := t.hsnRates[code[:l]]; ok {
			return rate, true
		}
	}
	return decimal.Zero, false
}

// lookupCategory finds the rate for a category keyword, checking the exempt
// set first.
func (t *rateTable) lookupCategory(category string) (rate decimal.Decimal, exempt, found bool) {
	key := strings.ToLower(strings.TrimSpace(category))
	if key == "" {
		return decimal.Zero, false, false
	}
	if t.exemptCategories[key] {
		return decimal.Zero, true, true
	}
	if r, ok := t.categoryRates[key]; ok {
		return r, false, true
	}
	return decimal.Zero, false, false
}

// lookupComposition finds the flat rate for a composition bucket.
func (t *rateTable) lookupComposition(bucket domain.CompositionBucket) (decimal.Decimal, bool) {
	rate, ok := t.compositionRates[bucket]
	return rate, ok
}
