package dto

import (
	"github.com/bahikhata/bahikhata_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest creates a ledger account explicitly. Most accounts
// are lazily created by the posting engine; this exists for chart setup.
type CreateAccountRequest struct {
	Name        string                `json:"name" binding:"required"`
	AccountType domain.AccountType    `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	Class       domain.AccountClass   `json:"class" binding:"required,oneof=REAL PERSONAL NOMINAL"`
	SubType     domain.AccountSubType `json:"subType,omitempty"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID   string                `json:"accountID"`
	Name        string                `json:"name"`
	AccountType domain.AccountType    `json:"accountType"`
	Class       domain.AccountClass   `json:"class"`
	SubType     domain.AccountSubType `json:"subType"`
	IsActive    bool                  `json:"isActive"`
	Balance     decimal.Decimal       `json:"balance"`
}

// ToAccountResponse converts a domain.Account to its response DTO.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:   a.AccountID,
		Name:        a.Name,
		AccountType: a.AccountType,
		Class:       a.Class,
		SubType:     a.SubType,
		IsActive:    a.IsActive,
		Balance:     a.Balance,
	}
}

// ToAccountResponses converts a slice of accounts to response DTOs.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	responses := make([]AccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = ToAccountResponse(&accounts[i])
	}
	return responses
}
