package actions

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/bank-server/internal/storage"
)

// Deposit credits an account after PIN verification.
type Deposit struct {
	AccountNumber string
	PIN           string
	Amount        decimal.Decimal

	// NewBalance is filled on success.
	NewBalance decimal.Decimal
}

func (a *Deposit) Perform(ctx context.Context, writer *storage.Writer) error {
	if _, err := authenticate(writer, a.AccountNumber, a.PIN); err != nil {
		return err
	}
	balance, err := writer.Deposit(a.AccountNumber, a.Amount, "Deposit")
	if err != nil {
		return err
	}
	a.NewBalance = balance
	return nil
}
