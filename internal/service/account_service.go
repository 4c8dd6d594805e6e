package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/bank-server/internal/operator"
	"github.com/carson-networks/bank-server/internal/operator/actions"
	"github.com/carson-networks/bank-server/internal/storage"
)

// AccountService handles account lifecycle business logic.
type AccountService struct {
	store    *storage.Store
	operator *operator.OperatorDelegator
}

// NewAccountService creates a new AccountService.
func NewAccountService(store *storage.Store, op *operator.OperatorDelegator) *AccountService {
	return &AccountService{store: store, operator: op}
}

// OpenResult is the outcome of a successful account opening. This is the
// only place the server ever discloses a PIN.
type OpenResult struct {
	AccountNumber string
	PIN           string
	Balance       decimal.Decimal
	Message       string
}

// CloseResult is the outcome of a successful account closure.
type CloseResult struct {
	FinalBalance decimal.Decimal
	Message      string
}

// Open validates an account-opening request and creates the account through
// the single-writer queue.
func (s *AccountService) Open(ctx context.Context, name, nationalID string, accountType storage.AccountType, initialDeposit decimal.Decimal) (*OpenResult, error) {
	// Capacity outranks every other rejection. The writer re-checks under
	// the write lock; this pre-check only fixes the rule order.
	if total, _ := s.store.Count(); total >= storage.MaxAccounts {
		return nil, capacityError()
	}
	if name == "" || nationalID == "" {
		return nil, validationError(msgMissingDetails)
	}
	if !accountType.Valid() {
		return nil, validationError(msgInvalidType)
	}
	if err := checkPrecision(initialDeposit); err != nil {
		return nil, err
	}
	if initialDeposit.LessThan(storage.MinBalance) {
		return nil, validationError(fmt.Sprintf("Error: Initial deposit must be at least %s.", storage.MinBalance.StringFixed(2)))
	}

	action := &actions.OpenAccount{
		Name:           name,
		NationalID:     nationalID,
		AccountType:    accountType,
		InitialDeposit: initialDeposit,
	}
	if err := mutate(ctx, s.operator, action); err != nil {
		return nil, err
	}

	account := action.Account
	return &OpenResult{
		AccountNumber: account.Number,
		PIN:           account.PIN,
		Balance:       account.Balance,
		Message: fmt.Sprintf("Account created successfully!\nAccount Number: %s\nPIN: %s\nInitial Balance: %s",
			account.Number, account.PIN, account.Balance.StringFixed(2)),
	}, nil
}

// Close marks an account inactive after PIN verification. Closing is
// terminal: every later operation against the account fails exactly like an
// unknown account.
func (s *AccountService) Close(ctx context.Context, accountNumber, pin string) (*CloseResult, error) {
	action := &actions.CloseAccount{
		AccountNumber: accountNumber,
		PIN:           pin,
	}
	if err := mutate(ctx, s.operator, action); err != nil {
		return nil, err
	}

	return &CloseResult{
		FinalBalance: action.FinalBalance,
		Message:      fmt.Sprintf("Account closed successfully. Remaining balance: %s", action.FinalBalance.StringFixed(2)),
	}, nil
}

// checkPrecision rejects amounts with sub-cent precision. The rule lets the
// withdrawal unit check use exact decimal arithmetic instead of truncating
// to an integer first.
func checkPrecision(amount decimal.Decimal) error {
	if amount.Exponent() < -2 && !amount.Equal(amount.Truncate(2)) {
		return validationError(msgBadPrecision)
	}
	return nil
}
