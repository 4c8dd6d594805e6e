package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/bank-server/internal/operator"
	"github.com/carson-networks/bank-server/internal/operator/actions"
	"github.com/carson-networks/bank-server/internal/storage"
)

// StatementWindow is how many of the most recent transactions a statement
// returns, oldest of the window first.
const StatementWindow = 5

// TellerService handles money movement and account inquiries.
type TellerService struct {
	store    *storage.Store
	operator *operator.OperatorDelegator
}

// NewTellerService creates a new TellerService.
func NewTellerService(store *storage.Store, op *operator.OperatorDelegator) *TellerService {
	return &TellerService{store: store, operator: op}
}

// TellerResult is the outcome of a successful deposit, withdrawal, or
// balance inquiry.
type TellerResult struct {
	Balance decimal.Decimal
	Message string
}

// StatementResult is the outcome of a successful statement request.
type StatementResult struct {
	Balance      decimal.Decimal
	Transactions []storage.Transaction
	Message      string
}

// Withdraw debits an account. Amounts must be at least the minimum
// transaction and an exact decimal multiple of it; no truncation happens
// before the unit check.
func (s *TellerService) Withdraw(ctx context.Context, accountNumber, pin string, amount decimal.Decimal) (*TellerResult, error) {
	if err := checkPrecision(amount); err != nil {
		return nil, err
	}
	if amount.LessThan(storage.MinTransaction) {
		return nil, validationError(fmt.Sprintf("Error: Minimum withdrawal amount is %s.", storage.MinTransaction.StringFixed(2)))
	}
	if !amount.Mod(storage.MinTransaction).IsZero() {
		return nil, validationError(fmt.Sprintf("Error: Withdrawal amount must be in units of %s.", storage.MinTransaction.StringFixed(2)))
	}

	action := &actions.Withdraw{
		AccountNumber: accountNumber,
		PIN:           pin,
		Amount:        amount,
	}
	if err := mutate(ctx, s.operator, action); err != nil {
		return nil, err
	}

	return &TellerResult{
		Balance: action.NewBalance,
		Message: fmt.Sprintf("Withdrawal successful. New balance: %s", action.NewBalance.StringFixed(2)),
	}, nil
}

// Deposit credits an account.
func (s *TellerService) Deposit(ctx context.Context, accountNumber, pin string, amount decimal.Decimal) (*TellerResult, error) {
	if err := checkPrecision(amount); err != nil {
		return nil, err
	}
	if amount.LessThan(storage.MinTransaction) {
		return nil, validationError(fmt.Sprintf("Error: Minimum deposit amount is %s.", storage.MinTransaction.StringFixed(2)))
	}

	action := &actions.Deposit{
		AccountNumber: accountNumber,
		PIN:           pin,
		Amount:        amount,
	}
	if err := mutate(ctx, s.operator, action); err != nil {
		return nil, err
	}

	return &TellerResult{
		Balance: action.NewBalance,
		Message: fmt.Sprintf("Deposit successful. New balance: %s", action.NewBalance.StringFixed(2)),
	}, nil
}

// Balance returns the current balance. Reads are served from a consistent
// copy under the store's read lock and never enter the mutation queue.
func (s *TellerService) Balance(ctx context.Context, accountNumber, pin string) (*TellerResult, error) {
	account, err := s.authenticate(accountNumber, pin)
	if err != nil {
		return nil, err
	}
	return &TellerResult{
		Balance: account.Balance,
		Message: fmt.Sprintf("Current balance: %s", account.Balance.StringFixed(2)),
	}, nil
}

// Statement returns the most recent transactions, oldest of the window
// first, plus the current balance.
func (s *TellerService) Statement(ctx context.Context, accountNumber, pin string) (*StatementResult, error) {
	account, err := s.authenticate(accountNumber, pin)
	if err != nil {
		return nil, err
	}

	transactions := account.Transactions
	if len(transactions) > StatementWindow {
		transactions = transactions[len(transactions)-StatementWindow:]
	}

	return &StatementResult{
		Balance:      account.Balance,
		Transactions: transactions,
		Message:      "Statement retrieved successfully.",
	}, nil
}

func (s *TellerService) authenticate(accountNumber, pin string) (*storage.Account, error) {
	account, ok := s.store.Find(accountNumber)
	if !ok || account.PIN != pin {
		return nil, authError()
	}
	return account, nil
}

func msgInsufficientFunds() string {
	return fmt.Sprintf("Error: Insufficient funds. Minimum balance of %s must be maintained.", storage.MinBalance.StringFixed(2))
}
