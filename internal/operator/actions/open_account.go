package actions

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/bank-server/internal/storage"
)

// OpenAccount creates a new account with a server-assigned number and PIN
// and records the opening amount as the first ledger entry.
type OpenAccount struct {
	Name           string
	NationalID     string
	AccountType    storage.AccountType
	InitialDeposit decimal.Decimal

	// Account is filled with a copy of the created account on success.
	Account *storage.Account
}

func (a *OpenAccount) Perform(ctx context.Context, writer *storage.Writer) error {
	account, err := writer.CreateAccount(a.Name, a.NationalID, a.AccountType, a.InitialDeposit)
	if err != nil {
		return err
	}
	a.Account = account
	return nil
}
