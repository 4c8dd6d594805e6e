package actions

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/bank-server/internal/storage"
)

// CloseAccount marks an account inactive after PIN verification. Closing is
// terminal; the record is retained for audit only.
type CloseAccount struct {
	AccountNumber string
	PIN           string

	// FinalBalance is filled on success.
	FinalBalance decimal.Decimal
}

func (a *CloseAccount) Perform(ctx context.Context, writer *storage.Writer) error {
	if _, err := authenticate(writer, a.AccountNumber, a.PIN); err != nil {
		return err
	}
	balance, err := writer.Close(a.AccountNumber)
	if err != nil {
		return err
	}
	a.FinalBalance = balance
	return nil
}
