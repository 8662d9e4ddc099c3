package services

import (
	"context"

	"github.com/bahikhata/bahikhata_backend/internal/core/domain"
	"github.com/bahikhata/bahikhata_backend/internal/dto"
)

// PostingReaderSvc defines read operations for posted vouchers.
type PostingReaderSvc interface {
	// GetVoucherByID retrieves a voucher with its lines.
	GetVoucherByID(ctx context.Context, businessID, voucherID string) (*domain.Voucher, error)

	// ListVouchers retrieves a paginated voucher listing.
	ListVouchers(ctx context.Context, businessID string, params dto.ListVouchersParams) (*dto.ListVouchersResponse, error)

	// ListLinesByAccount retrieves a paginated account statement.
	ListLinesByAccount(ctx context.Context, businessID, accountID string, params dto.ListLinesParams) (*dto.ListLinesResponse, error)
}

// PostingWriterSvc defines the ledger posting operations.
type PostingWriterSvc interface {
	// CreateVoucher converts a classified voucher request into a balanced
	// line set and persists it atomically.
	CreateVoucher(ctx context.Context, businessID string, req dto.CreateVoucherRequest, userID string) (*domain.Voucher, error)

	// PostIntent converts a structured transaction intent (NLP/OCR/POS/
	// manual) into a voucher: resolves the rate, computes the tax
	// breakdown and posts the result.
	PostIntent(ctx context.Context, intent dto.TransactionIntent, userID string) (*domain.Voucher, error)

	// ReverseVoucher posts a reversing voucher for a posted voucher.
	ReverseVoucher(ctx context.Context, businessID, voucherID, userID string) (*domain.Voucher, error)
}

// PostingSvcFacade combines all posting service interfaces.
type PostingSvcFacade interface {
	PostingReaderSvc
	PostingWriterSvc
}
