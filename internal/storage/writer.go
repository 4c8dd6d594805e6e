package storage

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/shopspring/decimal"
)

// Writer applies one mutation to the store and either commits it to the
// durable snapshot or rolls it back. It holds the store's write lock from
// creation until Commit or Rollback, so a committed response always implies
// the snapshot on disk contains the change.
type Writer struct {
	store   *Store
	stashed map[string]*Account
	created []string
	done    bool
}

// stash records the pristine state of an account before its first mutation
// under this writer, for rollback.
func (w *Writer) stash(number string) {
	if _, ok := w.stashed[number]; ok {
		return
	}
	if a, ok := w.store.accounts[number]; ok {
		w.stashed[number] = a.clone()
	}
}

// Account returns a copy of an active account for rule evaluation inside the
// writer's critical section.
func (w *Writer) Account(number string) (*Account, bool) {
	a, ok := w.store.accounts[number]
	if !ok || !a.Active {
		return nil, false
	}
	return a.clone(), true
}

// CreateAccount allocates a fresh account number and PIN, records the account
// with its opening deposit as the first ledger entry, and returns a copy.
func (w *Writer) CreateAccount(name, nationalID string, accountType AccountType, initialDeposit decimal.Decimal) (*Account, error) {
	if len(w.store.accounts) >= MaxAccounts {
		return nil, ErrStoreFull
	}

	a := &Account{
		Number:     w.uniqueAccountNumber(),
		PIN:        randomDigits(PINDigits),
		Name:       name,
		NationalID: nationalID,
		Type:       accountType,
		Balance:    initialDeposit,
		Active:     true,
	}
	a.appendTransaction(Transaction{
		Timestamp:   time.Now(),
		Kind:        TransactionDeposit,
		Amount:      initialDeposit,
		Description: "Initial deposit",
	})

	w.store.accounts[a.Number] = a
	w.store.order = append(w.store.order, a.Number)
	w.created = append(w.created, a.Number)
	return a.clone(), nil
}

// Deposit credits an active account and appends a Deposit entry. Returns the
// new balance.
func (w *Writer) Deposit(number string, amount decimal.Decimal, description string) (decimal.Decimal, error) {
	a, ok := w.store.accounts[number]
	if !ok || !a.Active {
		return decimal.Zero, ErrNoSuchAccount
	}
	w.stash(number)
	a.Balance = a.Balance.Add(amount)
	a.appendTransaction(Transaction{
		Timestamp:   time.Now(),
		Kind:        TransactionDeposit,
		Amount:      amount,
		Description: description,
	})
	return a.Balance, nil
}

// Withdraw debits an active account and appends a Withdrawal entry. The
// minimum-balance floor is enforced here: it is a ledger invariant, not just
// a request-validation rule.
func (w *Writer) Withdraw(number string, amount decimal.Decimal, description string) (decimal.Decimal, error) {
	a, ok := w.store.accounts[number]
	if !ok || !a.Active {
		return decimal.Zero, ErrNoSuchAccount
	}
	if a.Balance.Sub(amount).LessThan(MinBalance) {
		return decimal.Zero, ErrBelowMinBalance
	}
	w.stash(number)
	a.Balance = a.Balance.Sub(amount)
	a.appendTransaction(Transaction{
		Timestamp:   time.Now(),
		Kind:        TransactionWithdrawal,
		Amount:      amount,
		Description: description,
	})
	return a.Balance, nil
}

// Close marks an account inactive. Closing is terminal; the record stays in
// the store for audit. Returns the final balance.
func (w *Writer) Close(number string) (decimal.Decimal, error) {
	a, ok := w.store.accounts[number]
	if !ok || !a.Active {
		return decimal.Zero, ErrNoSuchAccount
	}
	w.stash(number)
	a.Active = false
	return a.Balance, nil
}

// Commit writes the durable snapshot and releases the write lock. If the
// persister fails, the in-memory mutation is rolled back before the error is
// returned, so memory never gets ahead of disk.
func (w *Writer) Commit() error {
	if w.done {
		return nil
	}
	if err := w.store.persist.Save(w.store.export()); err != nil {
		w.rollbackLocked()
		w.done = true
		w.store.mu.Unlock()
		return err
	}
	w.done = true
	w.store.mu.Unlock()
	return nil
}

// Rollback unwinds the writer's mutations and releases the write lock.
func (w *Writer) Rollback() error {
	if w.done {
		return nil
	}
	w.rollbackLocked()
	w.done = true
	w.store.mu.Unlock()
	return nil
}

func (w *Writer) rollbackLocked() {
	for number, pristine := range w.stashed {
		w.store.accounts[number] = pristine
	}
	// Unwind creations newest-first so each one is the tail of the order
	// slice when its turn comes; order must never keep a number whose map
	// entry is gone.
	for i := len(w.created) - 1; i >= 0; i-- {
		number := w.created[i]
		delete(w.store.accounts, number)
		if n := len(w.store.order); n > 0 && w.store.order[n-1] == number {
			w.store.order = w.store.order[:n-1]
		}
	}
}

// uniqueAccountNumber draws random account numbers until one does not collide
// with any account ever created. Checked under the write lock, so uniqueness
// holds atomically with insertion.
func (w *Writer) uniqueAccountNumber() string {
	for {
		number := randomDigits(AccountNumberDigits)
		if _, exists := w.store.accounts[number]; !exists {
			return number
		}
	}
}

func randomDigits(n int) string {
	bound := big.NewInt(10)
	bound.Exp(bound, big.NewInt(int64(n)), nil)
	v, err := rand.Int(rand.Reader, bound)
	if err != nil {
		// crypto/rand only fails if the OS entropy source is broken.
		panic(fmt.Sprintf("storage: random source unavailable: %v", err))
	}
	return fmt.Sprintf("%0*d", n, v)
}
