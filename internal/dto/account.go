package dto

import (
	"time"

	"github.com/SscSPs/logistics_ledger/internal/core/domain"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	Code          string `json:"code" binding:"required,max=32"`
	Name          string `json:"name" binding:"required"`
	AccountType   string `json:"accountType" binding:"required,oneof=asset liability equity revenue expense"`
	NormalBalance string `json:"normalBalance" binding:"omitempty,oneof=debit credit"`
	Subtype       string `json:"subtype"`
	Description   string `json:"description"`
	CurrencyCode  string `json:"currencyCode" binding:"omitempty,len=3,uppercase"`
}

// UpdateAccountRequest defines the fields that can be changed on an account. Nil fields are left alone.
type UpdateAccountRequest struct {
	Name        *string `json:"name"`
	AccountType *string `json:"accountType" binding:"omitempty,oneof=asset liability equity revenue expense"`
	Subtype     *string `json:"subtype"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"isActive"`
}

// ListAccountsParams defines query parameters for listing accounts.
type ListAccountsParams struct {
	Type   string `form:"type" binding:"omitempty,oneof=asset liability equity revenue expense"`
	Active *bool  `form:"active"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID     string    `json:"accountID"`
	Code          string    `json:"code"`
	Name          string    `json:"name"`
	AccountType   string    `json:"accountType"`
	NormalBalance string    `json:"normalBalance"`
	Subtype       string    `json:"subtype,omitempty"`
	Description   string    `json:"description,omitempty"`
	CurrencyCode  string    `json:"currencyCode"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO.
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:     acc.AccountID,
		Code:          acc.Code,
		Name:          acc.Name,
		AccountType:   string(acc.AccountType),
		NormalBalance: string(acc.NormalBalance),
		Subtype:       acc.Subtype,
		Description:   acc.Description,
		CurrencyCode:  acc.CurrencyCode,
		IsActive:      acc.IsActive,
		CreatedAt:     acc.CreatedAt,
		CreatedBy:     acc.CreatedBy,
		LastUpdatedAt: acc.LastUpdatedAt,
		LastUpdatedBy: acc.LastUpdatedBy,
	}
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse.
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	responses := make([]AccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = ToAccountResponse(&accounts[i])
	}
	return responses
}
