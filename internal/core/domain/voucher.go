package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// VoucherType identifies the bookkeeping treatment of a voucher.
// Posting rules are keyed by this type; adding a voucher type is a
// table addition, not a new branch.
type VoucherType string

const (
	VoucherSales      VoucherType = "SALES"
	VoucherPurchase   VoucherType = "PURCHASE"
	VoucherPayment    VoucherType = "PAYMENT"
	VoucherReceipt    VoucherType = "RECEIPT"
	VoucherJournal    VoucherType = "JOURNAL"
	VoucherContra     VoucherType = "CONTRA"
	VoucherCreditNote VoucherType = "CREDIT_NOTE"
	VoucherDebitNote  VoucherType = "DEBIT_NOTE"
)

// ReturnType maps a voucher type to its correction (return) counterpart.
// Used by the auditor when reclassifying vouchers whose sign contradicts
// their type.
func (v VoucherType) ReturnType() (VoucherType, bool) {
	switch v {
	case VoucherSales:
		return VoucherCreditNote, true
	case VoucherPurchase:
		return VoucherDebitNote, true
	}
	return "", false
}

// EntrySource records how a voucher entered the system.
type EntrySource string

const (
	SourceManual   EntrySource = "MANUAL"
	SourcePOS      EntrySource = "POS"
	SourceBankSync EntrySource = "BANK_SYNC"
	SourceNLP      EntrySource = "NLP"
	SourceOCR      EntrySource = "OCR"
)

// VoucherStatus indicates the state of a posted voucher.
type VoucherStatus string

const (
	Posted   VoucherStatus = "POSTED"
	Reversed VoucherStatus = "REVERSED"
)

// EntrySide indicates whether a ledger line is a debit or a credit.
type EntrySide string

const (
	Debit  EntrySide = "DEBIT"
	Credit EntrySide = "CREDIT"
)

// PaymentMode distinguishes settlement accounts for sales/purchase/expense legs.
type PaymentMode string

const (
	PayCash   PaymentMode = "CASH"
	PayBank   PaymentMode = "BANK"
	PayCredit PaymentMode = "CREDIT" // on account; settles against the party ledger
)

// LedgerLine is a single line within a voucher, affecting one account.
// Amount is always positive; the side carries the direction.
type LedgerLine struct {
	LineID      string          `json:"lineID"`    // Primary key (UUID)
	VoucherID   string          `json:"voucherID"` // FK -> Voucher.voucherID
	AccountID   string          `json:"accountID"` // FK -> Account.accountID
	Amount      decimal.Decimal `json:"amount"`
	Side        EntrySide       `json:"side"`
	PostingDate time.Time       `json:"postingDate"`
	Notes       string          `json:"notes"`
	// RunningBalance of the account after this line, set by the repository.
	RunningBalance decimal.Decimal `json:"runningBalance"`
	AuditFields
}

// DebitAmount returns the line amount when the line is a debit, zero otherwise.
func (l LedgerLine) DebitAmount() decimal.Decimal {
	if l.Side == Debit {
		return l.Amount
	}
	return decimal.Zero
}

// CreditAmount returns the line amount when the line is a credit, zero otherwise.
func (l LedgerLine) CreditAmount() decimal.Decimal {
	if l.Side == Credit {
		return l.Amount
	}
	return decimal.Zero
}

// Voucher represents a single, balanced financial event composed of ledger lines.
// Vouchers are immutable once posted; corrections are made via reversing
// vouchers, never by editing posted lines.
type Voucher struct {
	VoucherID     string          `json:"voucherID"`     // Primary key (UUID)
	BusinessID    string          `json:"businessID"`    // FK -> businesses.business_id
	VoucherType   VoucherType     `json:"voucherType"`
	VoucherNumber int64           `json:"voucherNumber"` // Per-business monotonic sequence
	VoucherDate   time.Time       `json:"voucherDate"`
	Narration     string          `json:"narration"`
	Source        EntrySource     `json:"source"`
	Status        VoucherStatus   `json:"status"`
	Amount        decimal.Decimal `json:"amount"` // Gross economic value (sum of debits)

	// Counterparty and document linkage; optional.
	CounterpartyName  string `json:"counterpartyName,omitempty"`
	CounterpartyGSTIN string `json:"counterpartyGSTIN,omitempty"`
	DocumentNo        string `json:"documentNo,omitempty"` // Originating invoice/bill number

	Tax *TaxBreakdown `json:"tax,omitempty"`

	// Reversal linkage.
	OriginalVoucherID  *string `json:"originalVoucherID,omitempty"`
	ReversingVoucherID *string `json:"reversingVoucherID,omitempty"`

	Lines []LedgerLine `json:"lines,omitempty"`
	AuditFields
}

// TotalDebits sums the debit side of the voucher's lines.
func (v Voucher) TotalDebits() decimal.Decimal {
	total := decimal.Zero
	for _, l := range v.Lines {
		total = total.Add(l.DebitAmount())
	}
	return total
}

// TotalCredits sums the credit side of the voucher's lines.
func (v Voucher) TotalCredits() decimal.Decimal {
	total := decimal.Zero
	for _, l := range v.Lines {
		total = total.Add(l.CreditAmount())
	}
	return total
}

// Imbalance returns debits minus credits.
func (v Voucher) Imbalance() decimal.Decimal {
	return v.TotalDebits().Sub(v.TotalCredits())
}
