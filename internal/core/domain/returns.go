package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Regulatory return section rows. The assembler groups posted sales-side
// vouchers for a period into these sections; each row is already
// aggregated to the grain its section reports at.

// B2BRow aggregates supplies to a registered counterparty.
type B2BRow struct {
	CounterpartyGSTIN string          `json:"counterpartyGSTIN"`
	InvoiceCount      int             `json:"invoiceCount"`
	TaxableValue      decimal.Decimal `json:"taxableValue"`
	Tax               TaxComponents   `json:"tax"`
}

// B2CRow aggregates consumer supplies by place of supply and rate.
type B2CRow struct {
	PlaceOfSupply string          `json:"placeOfSupply"`
	Rate          decimal.Decimal `json:"rate"`
	InvoiceCount  int             `json:"invoiceCount"`
	TaxableValue  decimal.Decimal `json:"taxableValue"`
	Tax           TaxComponents   `json:"tax"`
}

// NoteRow aggregates credit/debit notes.
type NoteRow struct {
	CounterpartyGSTIN string          `json:"counterpartyGSTIN,omitempty"` // empty for unregistered
	NoteType          VoucherType     `json:"noteType"`                    // CREDIT_NOTE or DEBIT_NOTE
	NoteCount         int             `json:"noteCount"`
	TaxableValue      decimal.Decimal `json:"taxableValue"`
	Tax               TaxComponents   `json:"tax"`
}

// HSNSummaryRow aggregates quantity and tax by classification code and rate.
type HSNSummaryRow struct {
	HSNCode      string          `json:"hsnCode"`
	Rate         decimal.Decimal `json:"rate"`
	InvoiceCount int             `json:"invoiceCount"`
	Quantity     decimal.Decimal `json:"quantity"` // recorded units, one per document when untracked
	TaxableValue decimal.Decimal `json:"taxableValue"`
	Tax          TaxComponents   `json:"tax"`
}

// DocSeriesRow summarizes the document number range per voucher type.
type DocSeriesRow struct {
	VoucherType VoucherType `json:"voucherType"`
	FromNumber  int64       `json:"fromNumber"`
	ToNumber    int64       `json:"toNumber"`
	TotalCount  int         `json:"totalCount"`
	Cancelled   int         `json:"cancelled"` // reversed vouchers in the series
}

// ReturnSummary is the full assembled return for a period, cross-checked
// against the sum of its sections before being considered final.
type ReturnSummary struct {
	BusinessID  string    `json:"businessID"`
	PeriodStart time.Time `json:"periodStart"`
	PeriodEnd   time.Time `json:"periodEnd"`
	AssembledAt time.Time `json:"assembledAt"`

	B2B       []B2BRow        `json:"b2b"`
	B2CLarge  []B2CRow        `json:"b2cLarge"` // inter-state above threshold
	B2CSmall  []B2CRow        `json:"b2cSmall"`
	Notes     []NoteRow       `json:"notes"`
	Exports   []B2CRow        `json:"exports"`
	NilRated  decimal.Decimal `json:"nilRated"` // nil-rated/exempt taxable value
	HSN       []HSNSummaryRow `json:"hsn"`
	DocSeries []DocSeriesRow  `json:"docSeries"`

	TotalTaxableValue decimal.Decimal `json:"totalTaxableValue"`
	TotalTax          TaxComponents   `json:"totalTax"`
}
