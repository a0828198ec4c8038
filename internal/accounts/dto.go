package accounts

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/drif-ai/finance/internal/ledger"
)

// CreateAccountRequest adds a node to the chart of accounts.
type CreateAccountRequest struct {
	Code           string `json:"code" validate:"required,max=20"`
	Name           string `json:"name" validate:"required,max=255"`
	Type           string `json:"type" validate:"required"`
	OpeningBalance string `json:"opening_balance" validate:"omitempty"`
}

// Parse converts the request into a domain account plus opening balance.
func (r CreateAccountRequest) Parse() (ledger.Account, decimal.Decimal, error) {
	opening := decimal.Zero
	if r.OpeningBalance != "" {
		var err error
		if opening, err = decimal.NewFromString(r.OpeningBalance); err != nil {
			return ledger.Account{}, decimal.Decimal{}, fmt.Errorf("accounts: invalid opening balance %q", r.OpeningBalance)
		}
	}
	return ledger.Account{
		Code: r.Code,
		Name: r.Name,
		Type: ledger.AccountType(r.Type),
	}, opening, nil
}

// UpdateAccountRequest renames or (de)activates an account.
type UpdateAccountRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	IsActive bool   `json:"is_active"`
}

// AccountResponse is the JSON view of an account.
type AccountResponse struct {
	Code           string `json:"code"`
	Name           string `json:"name"`
	Type           string `json:"type"`
	Balance        string `json:"balance"`
	ContraAsset    bool   `json:"contra_asset"`
	CashEquivalent bool   `json:"cash_equivalent"`
	IsActive       bool   `json:"is_active"`
}

// NewAccountResponse converts a domain account for transport.
func NewAccountResponse(a ledger.Account) AccountResponse {
	return AccountResponse{
		Code:           a.Code,
		Name:           a.Name,
		Type:           string(a.Type),
		Balance:        a.Balance.String(),
		ContraAsset:    a.ContraAsset,
		CashEquivalent: a.CashEquivalent,
		IsActive:       a.IsActive,
	}
}
