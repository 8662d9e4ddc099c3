package dto

import (
	"time"

	"github.com/bahikhata/bahikhata_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateLineRequest is a caller-supplied ledger line for JOURNAL vouchers.
type CreateLineRequest struct {
	AccountID string          `json:"accountID,omitempty"`
	AccountName string        `json:"accountName,omitempty"` // lazily created when no ID given
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Side      domain.EntrySide `json:"side" binding:"required,oneof=DEBIT CREDIT"`
	Notes     string          `json:"notes,omitempty"`
}

// CreateVoucherRequest creates a classified voucher. For JOURNAL vouchers
// the caller supplies the lines directly; for the other types the posting
// rule table derives them from the amounts and tax breakdown.
type CreateVoucherRequest struct {
	VoucherType  domain.VoucherType `json:"voucherType" binding:"required,oneof=SALES PURCHASE PAYMENT RECEIPT JOURNAL CONTRA CREDIT_NOTE DEBIT_NOTE"`
	Date         time.Time          `json:"date" binding:"required"`
	Narration    string             `json:"narration" binding:"required"`
	Source       domain.EntrySource `json:"source" binding:"required,oneof=MANUAL POS BANK_SYNC NLP OCR"`
	PaymentMode  domain.PaymentMode `json:"paymentMode,omitempty"`

	// Amounts for rule-derived vouchers. TaxableValue excludes tax.
	TaxableValue decimal.Decimal `json:"taxableValue,omitempty"`
	Tax          *domain.TaxBreakdown `json:"tax,omitempty"`

	CounterpartyName  string `json:"counterpartyName,omitempty"`
	CounterpartyGSTIN string `json:"counterpartyGSTIN,omitempty" binding:"omitempty,gstin"`
	DocumentNo        string `json:"documentNo,omitempty"`

	// Expense/receipt target account; lazily created when absent.
	AccountName string `json:"accountName,omitempty"`

	// Lines for JOURNAL and CONTRA vouchers.
	Lines []CreateLineRequest `json:"lines,omitempty"`
}

// LineResponse defines the data returned for a ledger line.
type LineResponse struct {
	LineID    string          `json:"lineID"`
	AccountID string          `json:"accountID"`
	Amount    decimal.Decimal `json:"amount"`
	Side      string          `json:"side"`
	Notes     string          `json:"notes,omitempty"`
}

// VoucherResponse defines the data returned for a voucher.
type VoucherResponse struct {
	VoucherID     string               `json:"voucherID"`
	VoucherType   domain.VoucherType   `json:"voucherType"`
	VoucherNumber int64                `json:"voucherNumber"`
	Date          time.Time            `json:"date"`
	Narration     string               `json:"narration"`
	Status        domain.VoucherStatus `json:"status"`
	Amount        decimal.Decimal      `json:"amount"`
	Tax           *domain.TaxBreakdown `json:"tax,omitempty"`
	Lines         []LineResponse       `json:"lines,omitempty"`
	CreatedAt     time.Time            `json:"createdAt"`
	CreatedBy     string               `json:"createdBy"`
}

// ListVouchersParams holds parameters for listing vouchers.
type ListVouchersParams struct {
	Limit            int     `form:"limit"`
	NextToken        *string `form:"nextToken"`
	IncludeReversals bool    `form:"includeReversals"`
	IncludeLines     bool    `form:"includeLines"`
}

// ListVouchersResponse is a paginated voucher listing.
type ListVouchersResponse struct {
	Vouchers  []VoucherResponse `json:"vouchers"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ListLinesParams holds parameters for listing ledger lines of an account.
type ListLinesParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListLinesResponse is a paginated account statement.
type ListLinesResponse struct {
	Lines     []LineResponse `json:"lines"`
	NextToken *string        `json:"nextToken,omitempty"`
}

// ToLineResponse converts a domain.LedgerLine to its response DTO.
func ToLineResponse(l *domain.LedgerLine) LineResponse {
	return LineResponse{
		LineID:    l.LineID,
		AccountID: l.AccountID,
		Amount:    l.Amount,
		Side:      string(l.Side),
		Notes:     l.Notes,
	}
}

// ToLineResponses converts a slice of ledger lines to response DTOs.
func ToLineResponses(lines []domain.LedgerLine) []LineResponse {
	responses := make([]LineResponse, len(lines))
	for i := range lines {
		responses[i] = ToLineResponse(&lines[i])
	}
	return responses
}

// ToVoucherResponse converts a domain.Voucher to its response DTO.
func ToVoucherResponse(v *domain.Voucher) VoucherResponse {
	return VoucherResponse{
		VoucherID:     v.VoucherID,
		VoucherType:   v.VoucherType,
		VoucherNumber: v.VoucherNumber,
		Date:          v.VoucherDate,
		Narration:     v.Narration,
		Status:        v.Status,
		Amount:        v.Amount,
		Tax:           v.Tax,
		Lines:         ToLineResponses(v.Lines),
		CreatedAt:     v.CreatedAt,
		CreatedBy:     v.CreatedBy,
	}
}
