package actions

import (
	"context"
	"errors"

	"github.com/carson-networks/bank-server/internal/storage"
)

// ErrAuthFailed is returned when the request's PIN does not match the
// account's. Callers present it identically to an unknown account so the
// service cannot be used to enumerate account numbers.
var ErrAuthFailed = errors.New("authentication failed")

type IAction interface {
	Perform(ctx context.Context, writer *storage.Writer) error
}

// authenticate looks up an active account inside the writer's critical
// section and checks the PIN.
func authenticate(writer *storage.Writer, number, pin string) (*storage.Account, error) {
	account, ok := writer.Account(number)
	if !ok {
		return nil, storage.ErrNoSuchAccount
	}
	if account.PIN != pin {
		return nil, ErrAuthFailed
	}
	return account, nil
}
