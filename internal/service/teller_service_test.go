package service

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/bank-server/internal/operator"
	"github.com/carson-networks/bank-server/internal/storage"
)

func openTestAccount(t *testing.T, svc *Service, deposit string) *OpenResult {
	t.Helper()
	result, err := svc.Account.Open(context.Background(), "Ada Lovelace", "ID-1815", storage.AccountTypeSavings, amount(deposit))
	require.NoError(t, err)
	return result
}

// -- Deposit tests --

func TestDeposit_Success(t *testing.T) {
	svc, _, persister := newTestService(t)
	allowPersistence(persister)
	opened := openTestAccount(t, svc, "1000")

	result, err := svc.Teller.Deposit(context.Background(), opened.AccountNumber, opened.PIN, amount("750.25"))

	require.NoError(t, err)
	assert.True(t, result.Balance.Equal(amount("1750.25")))
	assert.Equal(t, "Deposit successful. New balance: 1750.25", result.Message)
}

func TestDeposit_BelowMinimum(t *testing.T) {
	svc, _, persister := newTestService(t)
	allowPersistence(persister)
	opened := openTestAccount(t, svc, "1000")

	_, err := svc.Teller.Deposit(context.Background(), opened.AccountNumber, opened.PIN, amount("499.99"))

	reqErr, ok := AsRequestError(err)
	require.True(t, ok)
	assert.Equal(t, CategoryValidation, reqErr.Category)
	assert.Equal(t, "Error: Minimum deposit amount is 500.00.", reqErr.Message)
}

func TestDeposit_PersistFailureRollsBackAndReports(t *testing.T) {
	svc, store, persister := newTestService(t)
	persister.On("Save", mock.Anything).Return(nil).Once()
	persister.On("Save", mock.Anything).Return(errors.New("disk full"))

	opened := openTestAccount(t, svc, "1000")

	_, err := svc.Teller.Deposit(context.Background(), opened.AccountNumber, opened.PIN, amount("500"))

	reqErr, ok := AsRequestError(err)
	require.True(t, ok)
	assert.Equal(t, CategoryPersistence, reqErr.Category)
	assert.Equal(t, "Error: Could not save your transaction. Please try again.", reqErr.Message)

	account, found := store.Find(opened.AccountNumber)
	require.True(t, found)
	assert.True(t, account.Balance.Equal(amount("1000")), "unpersisted deposit must not remain in memory")
	assert.Len(t, account.Transactions, 1)
}

func TestDeposit_DurableBeforeAcknowledgment(t *testing.T) {
	// Real file persistence: a restart right after the acknowledged deposit
	// must recover a ledger that contains it.
	path := filepath.Join(t.TempDir(), "bank_data.json")
	snapshots := &storage.FileSnapshots{Path: path}
	store := storage.NewStore(snapshots)
	delegator := operator.NewOperatorDelegator(store)
	delegator.Start()
	t.Cleanup(delegator.Stop)
	svc := NewService(store, delegator)

	opened := openTestAccount(t, svc, "1000")
	_, err := svc.Teller.Deposit(context.Background(), opened.AccountNumber, opened.PIN, amount("500"))
	require.NoError(t, err)

	// Simulated crash: rebuild the store from disk alone.
	snap, err := snapshots.Load()
	require.NoError(t, err)
	recovered := storage.NewStore(snapshots)
	recovered.Restore(snap)

	account, found := recovered.Find(opened.AccountNumber)
	require.True(t, found)
	assert.True(t, account.Balance.Equal(amount("1500")))
	assert.Len(t, account.Transactions, 2)
}

// -- Withdraw tests --

func TestWithdraw_ExactMinimumUnitAtFloorBoundary(t *testing.T) {
	svc, _, persister := newTestService(t)
	allowPersistence(persister)
	opened := openTestAccount(t, svc, "1500")

	result, err := svc.Teller.Withdraw(context.Background(), opened.AccountNumber, opened.PIN, amount("500"))

	require.NoError(t, err)
	assert.True(t, result.Balance.Equal(amount("1000")), "withdrawing down to exactly the floor is allowed")
	assert.Equal(t, "Withdrawal successful. New balance: 1000.00", result.Message)
}

func TestWithdraw_BelowMinimum(t *testing.T) {
	svc, _, persister := newTestService(t)
	allowPersistence(persister)
	opened := openTestAccount(t, svc, "5000")

	_, err := svc.Teller.Withdraw(context.Background(), opened.AccountNumber, opened.PIN, amount("250"))

	reqErr, ok := AsRequestError(err)
	require.True(t, ok)
	assert.Equal(t, "Error: Minimum withdrawal amount is 500.00.", reqErr.Message)
}

func TestWithdraw_MustBeMultipleOfUnit(t *testing.T) {
	svc, _, persister := newTestService(t)
	allowPersistence(persister)
	opened := openTestAccount(t, svc, "5000")

	for _, badAmount := range []string{"750", "750.50", "500.01"} {
		_, err := svc.Teller.Withdraw(context.Background(), opened.AccountNumber, opened.PIN, amount(badAmount))
		reqErr, ok := AsRequestError(err)
		require.True(t, ok, "amount %s must be rejected", badAmount)
		assert.Equal(t, "Error: Withdrawal amount must be in units of 500.00.", reqErr.Message)
	}
}

func TestWithdraw_InsufficientFunds(t *testing.T) {
	svc, _, persister := newTestService(t)
	allowPersistence(persister)
	opened := openTestAccount(t, svc, "1200")

	_, err := svc.Teller.Withdraw(context.Background(), opened.AccountNumber, opened.PIN, amount("500"))

	reqErr, ok := AsRequestError(err)
	require.True(t, ok)
	assert.Equal(t, CategoryValidation, reqErr.Category)
	assert.Equal(t, "Error: Insufficient funds. Minimum balance of 1000.00 must be maintained.", reqErr.Message)
}

func TestWithdraw_ConcurrentOnlyOneSucceeds(t *testing.T) {
	svc, store, persister := newTestService(t)
	allowPersistence(persister)
	// Exactly one 500 withdrawal fits above the 1000 floor.
	opened := openTestAccount(t, svc, "1500")

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.Teller.Withdraw(context.Background(), opened.AccountNumber, opened.PIN, amount("500"))
		}(i)
	}
	wg.Wait()

	successes := 0
	floorRejections := 0
	for _, err := range results {
		if err == nil {
			successes++
			continue
		}
		reqErr, ok := AsRequestError(err)
		require.True(t, ok)
		assert.Equal(t, CategoryValidation, reqErr.Category)
		floorRejections++
	}
	assert.Equal(t, 1, successes, "exactly one withdrawal may win")
	assert.Equal(t, 1, floorRejections)

	account, _ := store.Find(opened.AccountNumber)
	assert.True(t, account.Balance.Equal(amount("1000")), "no lost update")
}

// -- Balance and statement tests --

func TestBalance_Success(t *testing.T) {
	svc, _, persister := newTestService(t)
	allowPersistence(persister)
	opened := openTestAccount(t, svc, "1234.56")

	result, err := svc.Teller.Balance(context.Background(), opened.AccountNumber, opened.PIN)

	require.NoError(t, err)
	assert.True(t, result.Balance.Equal(amount("1234.56")))
	assert.Equal(t, "Current balance: 1234.56", result.Message)
}

func TestStatement_ReturnsWindowOldestFirst(t *testing.T) {
	svc, store, persister := newTestService(t)
	allowPersistence(persister)
	opened := openTestAccount(t, svc, "1000")

	// Seven deposits after the opening entry: eight ledger entries total.
	deposits := []string{"500", "600", "700", "800", "900", "1000", "1100"}
	for _, d := range deposits {
		_, err := svc.Teller.Deposit(context.Background(), opened.AccountNumber, opened.PIN, amount(d))
		require.NoError(t, err)
	}

	result, err := svc.Teller.Statement(context.Background(), opened.AccountNumber, opened.PIN)
	require.NoError(t, err)
	assert.Equal(t, "Statement retrieved successfully.", result.Message)
	require.Len(t, result.Transactions, StatementWindow)

	// Last five deposits, oldest of the window first.
	expected := deposits[len(deposits)-StatementWindow:]
	for i, want := range expected {
		assert.True(t, result.Transactions[i].Amount.Equal(amount(want)),
			"window position %d should be %s", i, want)
	}

	// The full ledger still retains everything up to its own capacity.
	account, _ := store.Find(opened.AccountNumber)
	assert.Len(t, account.Transactions, len(deposits)+1)
}

func TestLedgerInvariant_BalanceEqualsSignedSum(t *testing.T) {
	svc, store, persister := newTestService(t)
	allowPersistence(persister)
	opened := openTestAccount(t, svc, "3000")

	_, err := svc.Teller.Deposit(context.Background(), opened.AccountNumber, opened.PIN, amount("750.50"))
	require.NoError(t, err)
	_, err = svc.Teller.Withdraw(context.Background(), opened.AccountNumber, opened.PIN, amount("1000"))
	require.NoError(t, err)
	_, err = svc.Teller.Deposit(context.Background(), opened.AccountNumber, opened.PIN, amount("500"))
	require.NoError(t, err)

	account, found := store.Find(opened.AccountNumber)
	require.True(t, found)

	sum := decimal.Zero
	for _, txn := range account.Transactions {
		if txn.Kind == storage.TransactionWithdrawal {
			sum = sum.Sub(txn.Amount)
		} else {
			sum = sum.Add(txn.Amount)
		}
	}
	assert.True(t, account.Balance.Equal(sum), "balance %s must equal ledger sum %s", account.Balance, sum)
}
