package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionIntent is the structured input produced by the NLP parser,
// OCR pipeline, POS or manual entry. The core trusts its fields and
// validates only numeric sanity and cross-field plausibility.
type TransactionIntent struct {
	IntentType         string           `json:"intentType" binding:"required,oneof=SALE PURCHASE EXPENSE RECEIPT"`
	Amount             decimal.Decimal  `json:"amount" binding:"required"`
	Date               time.Time        `json:"date" binding:"required"`
	PaymentMode        string           `json:"paymentMode" binding:"required,oneof=CASH BANK CREDIT"`
	CounterpartyName   string           `json:"counterpartyName,omitempty"`
	CounterpartyGSTIN  string           `json:"counterpartyGSTIN,omitempty" binding:"omitempty,gstin"`
	ClassificationCode string           `json:"classificationCode,omitempty" binding:"omitempty,hsnsac"` // HSN/SAC
	Quantity           decimal.Decimal  `json:"quantity,omitempty"` // units supplied, when the source tracks them
	Category           string           `json:"category,omitempty"`
	GSTApplicable      bool             `json:"gstApplicable"`
	GSTRate            *decimal.Decimal `json:"gstRate,omitempty"`
	// AmountIncludesTax marks the amount as tax-inclusive; the base is
	// then recovered by reverse extraction.
	AmountIncludesTax bool   `json:"amountIncludesTax"`
	PlaceOfSupply     string `json:"placeOfSupply,omitempty"` // 2-digit state code
	ReverseCharge     bool   `json:"reverseCharge"`
	Source            string `json:"source" binding:"required,oneof=MANUAL POS BANK_SYNC NLP OCR"`
	BusinessID        string `json:"businessID" binding:"required"`
	Narration         string `json:"narration,omitempty"`
	DocumentNo        string `json:"documentNo,omitempty"`
}
