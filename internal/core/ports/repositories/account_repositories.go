package repositories

import (
	"context"
	"time"

	"github.com/bahikhata/bahikhata_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// AccountReader defines read operations for account data.
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts keyed by ID.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// FindAccountByName retrieves an account by its (business, name) pair.
	FindAccountByName(ctx context.Context, businessID, name string) (*domain.Account, error)

	// ListAccountsByBusiness retrieves all accounts of a business.
	ListAccountsByBusiness(ctx context.Context, businessID string) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data.
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// EnsureAccount inserts the account unless one with the same
	// (business, name) already exists, and returns the surviving row.
	// Backs the lazy create-on-first-reference rule.
	EnsureAccount(ctx context.Context, account domain.Account) (*domain.Account, error)

	// DeactivateAccount flags an account inactive; accounts are never deleted.
	DeactivateAccount(ctx context.Context, businessID, accountID, userID string, at time.Time) error

	// FindAccountsByIDsForUpdate locks account rows inside a transaction.
	FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error)

	// UpdateAccountBalancesInTx applies signed balance deltas inside a transaction.
	UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, userID string, at time.Time) error
}

// AccountRepositoryFacade combines all account repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
