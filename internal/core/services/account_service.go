package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/bahikhata/bahikhata_backend/internal/apperrors"
	"github.com/bahikhata/bahikhata_backend/internal/core/domain"
	portsrepo "github.com/bahikhata/bahikhata_backend/internal/core/ports/repositories"
	portssvc "github.com/bahikhata/bahikhata_backend/internal/core/ports/services"
	"github.com/bahikhata/bahikhata_backend/internal/dto"
	"github.com/bahikhata/bahikhata_backend/internal/middleware"
	"github.com/shopspring/decimal"
)

var (
	ErrAccountNameMissing = errors.New("account name is required")
)

// accountService provides ledger account operations. Most accounts are
// created lazily by the posting engine via EnsureAccount.
type accountService struct {
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates a new AccountSvcFacade.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: accountRepo}
}

// Ensure accountService implements the portssvc.AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// GetAccountByID retrieves an account scoped to a business.
func (s *accountService) GetAccountByID(ctx context.Context, businessID, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.BusinessID != businessID {
		// Obscure existence across businesses
		return nil, apperrors.ErrNotFound
	}
	return account, nil
}

// GetAccountsByIDs retrieves multiple accounts keyed by ID.
func (s *accountService) GetAccountsByIDs(ctx context.Context, businessID string, accountIDs []string) (map[string]domain.Account, error) {
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return nil, err
	}
	for id, acc := range accounts {
		if acc.BusinessID != businessID {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
		}
	}
	return accounts, nil
}

// ListAccounts retrieves all accounts of a business.
func (s *accountService) ListAccounts(ctx context.Context, businessID string) ([]domain.Account, error) {
	return s.accountRepo.ListAccountsByBusiness(ctx, businessID)
}

// CreateAccount creates an account explicitly, for chart setup.
func (s *accountService) CreateAccount(ctx context.Context, businessID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Name == "" {
		return nil, ErrAccountNameMissing
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:   uuid.NewString(),
		BusinessID:  businessID,
		Name:        req.Name,
		AccountType: req.AccountType,
		Class:       req.Class,
		SubType:     req.SubType,
		IsActive:    true,
		Balance:     decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		logger.Error("Failed to save account", slog.String("error", err.Error()), slog.String("business_id", businessID))
		return nil, err
	}

	logger.Info("Account created", slog.String("account_id", account.AccountID), slog.String("name", account.Name), slog.String("business_id", businessID))
	return &account, nil
}

// EnsureAccount returns the account with the given name, creating it with
// the supplied shape if it does not exist yet. Concurrent calls for the
// same name converge on one surviving row.
func (s *accountService) EnsureAccount(ctx context.Context, businessID, name string, accountType domain.AccountType, class domain.AccountClass, subType domain.AccountSubType, userID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if name == "" {
		return nil, ErrAccountNameMissing
	}

	now := time.Now().UTC()
	candidate := domain.Account{
		AccountID:   uuid.NewString(),
		BusinessID:  businessID,
		Name:        name,
		AccountType: accountType,
		Class:       class,
		SubType:     subType,
		IsActive:    true,
		Balance:     decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	account, err := s.accountRepo.EnsureAccount(ctx, candidate)
	if err != nil {
		logger.Error("Failed to ensure account", slog.String("error", err.Error()), slog.String("name", name), slog.String("business_id", businessID))
		return nil, err
	}
	if !account.IsActive {
		return nil, fmt.Errorf("%w: account %q is inactive", apperrors.ErrValidation, name)
	}
	return account, nil
}

// DeactivateAccount flags an account inactive; accounts are never deleted.
func (s *accountService) DeactivateAccount(ctx context.Context, businessID, accountID, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	if err := s.accountRepo.DeactivateAccount(ctx, businessID, accountID, userID, now); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to deactivate account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		}
		return err
	}

	logger.Info("Account deactivated", slog.String("account_id", accountID), slog.String("business_id", businessID))
	return nil
}
