package services

import (
	"context"

	"github.com/bahikhata/bahikhata_backend/internal/core/domain"
	"github.com/bahikhata/bahikhata_backend/internal/dto"
)

// AccountReaderSvc defines read operations for accounts.
type AccountReaderSvc interface {
	// GetAccountByID retrieves an account scoped to a business.
	GetAccountByID(ctx context.Context, businessID, accountID string) (*domain.Account, error)

	// GetAccountsByIDs retrieves multiple accounts keyed by ID.
	GetAccountsByIDs(ctx context.Context, businessID string, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts retrieves all accounts of a business.
	ListAccounts(ctx context.Context, businessID string) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations for accounts.
type AccountWriterSvc interface {
	// CreateAccount creates an account explicitly.
	CreateAccount(ctx context.Context, businessID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error)

	// EnsureAccount returns the account with the given name, creating it
	// with the supplied shape if it does not exist yet.
	EnsureAccount(ctx context.Context, businessID, name string, accountType domain.AccountType, class domain.AccountClass, subType domain.AccountSubType, userID string) (*domain.Account, error)

	// DeactivateAccount flags an account inactive.
	DeactivateAccount(ctx context.Context, businessID, accountID, userID string) error
}

// AccountSvcFacade combines all account service interfaces.
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
