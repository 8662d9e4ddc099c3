package repositories

import (
	"context"
	"time"

	"github.com/bahikhata/bahikhata_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// VoucherReader defines read operations for voucher data.
type VoucherReader interface {
	// FindVoucherByID retrieves a specific voucher by its identifier.
	FindVoucherByID(ctx context.Context, voucherID string) (*domain.Voucher, error)

	// ListVouchersByBusiness retrieves a token-paginated voucher listing.
	ListVouchersByBusiness(ctx context.Context, businessID string, limit int, nextToken *string, includeReversals bool) ([]domain.Voucher, *string, error)

	// ListVouchersByDateRange retrieves all posted vouchers dated within
	// [from, to], without lines. Used by the auditor and return assembler.
	ListVouchersByDateRange(ctx context.Context, businessID string, from, to time.Time) ([]domain.Voucher, error)

	// ListVoucherNumbers returns the assigned sequence numbers in a window,
	// ascending. Used for gap detection.
	ListVoucherNumbers(ctx context.Context, businessID string, from, to time.Time) ([]int64, error)

	// LedgerTotals sums all debits and credits posted in a window.
	LedgerTotals(ctx context.Context, businessID string, from, to time.Time) (debits, credits decimal.Decimal, err error)
}

// LineReader defines read operations for ledger-line data.
type LineReader interface {
	// FindLinesByVoucherID retrieves all lines of one voucher.
	FindLinesByVoucherID(ctx context.Context, voucherID string) ([]domain.LedgerLine, error)

	// FindLinesByVoucherIDs retrieves lines for many vouchers, grouped by voucher ID.
	FindLinesByVoucherIDs(ctx context.Context, voucherIDs []string) (map[string][]domain.LedgerLine, error)

	// ListLinesByAccount retrieves a token-paginated account statement.
	ListLinesByAccount(ctx context.Context, businessID, accountID string, limit int, nextToken *string) ([]domain.LedgerLine, *string, error)

	// AccountLedgerBalance derives an account's balance from its lines as
	// of a date. Used by the reconciliation check.
	AccountLedgerBalance(ctx context.Context, businessID, accountID string, asOf time.Time) (decimal.Decimal, error)
}

// VoucherWriter defines write operations for voucher data.
type VoucherWriter interface {
	// SaveVoucher persists a voucher and its lines, updates account
	// balances and assigns the next per-business voucher number, all
	// within one database transaction. Returns the assigned number.
	SaveVoucher(ctx context.Context, voucher domain.Voucher, lines []domain.LedgerLine, balanceChanges map[string]decimal.Decimal) (int64, error)

	// UpdateVoucherStatusAndLinks updates the status and reversal linkage of a voucher.
	UpdateVoucherStatusAndLinks(ctx context.Context, voucherID string, status domain.VoucherStatus, reversingVoucherID *string, originalVoucherID *string, updatedByUserID string, updatedAt time.Time) error

	// UpdateTaxBreakdown overwrites the recorded tax of a voucher.
	// Used only by the auditor's tax-mismatch auto-fix.
	UpdateTaxBreakdown(ctx context.Context, voucherID string, tax domain.TaxBreakdown, updatedByUserID string, updatedAt time.Time) error

	// UpdateVoucherType reclassifies a voucher. Used only by the
	// auditor's misclassification auto-fix.
	UpdateVoucherType(ctx context.Context, voucherID string, voucherType domain.VoucherType, amount decimal.Decimal, updatedByUserID string, updatedAt time.Time) error

	// DeleteVoucher removes a voucher and its lines and reverses their
	// balance effect, atomically. Used only by the auditor's duplicate fix.
	DeleteVoucher(ctx context.Context, voucherID string) error
}

// VoucherRepositoryFacade combines all voucher repository interfaces.
type VoucherRepositoryFacade interface {
	VoucherReader
	LineReader
	VoucherWriter
}

// VoucherRepositoryWithTx extends the facade with transaction capabilities.
type VoucherRepositoryWithTx interface {
	VoucherRepositoryFacade
	TransactionManager
}
