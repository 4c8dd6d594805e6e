package actions

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/bank-server/internal/storage"
)

// Withdraw debits an account after PIN verification. The floor check runs
// inside the writer's critical section, so two concurrent withdrawals can
// never both pass it against the same funds.
type Withdraw struct {
	AccountNumber string
	PIN           string
	Amount        decimal.Decimal

	// NewBalance is filled on success.
	NewBalance decimal.Decimal
}

func (a *Withdraw) Perform(ctx context.Context, writer *storage.Writer) error {
	if _, err := authenticate(writer, a.AccountNumber, a.PIN); err != nil {
		return err
	}
	balance, err := writer.Withdraw(a.AccountNumber, a.Amount, "Withdrawal")
	if err != nil {
		return err
	}
	a.NewBalance = balance
	return nil
}
