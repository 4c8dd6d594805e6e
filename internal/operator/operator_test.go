package operator

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/bank-server/internal/operator/actions"
	"github.com/carson-networks/bank-server/internal/storage"
)

// gatePersister can hold a commit open so tests can observe in-flight
// mutations deterministically.
type gatePersister struct {
	mu      sync.Mutex
	armed   bool
	entered chan struct{}
	release chan struct{}
}

func newGatePersister() *gatePersister {
	return &gatePersister{
		entered: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
}

func (p *gatePersister) arm() {
	p.mu.Lock()
	p.armed = true
	p.mu.Unlock()
}

func (p *gatePersister) Save(snap storage.Snapshot) error {
	p.mu.Lock()
	armed := p.armed
	p.armed = false
	p.mu.Unlock()
	if armed {
		p.entered <- struct{}{}
		<-p.release
	}
	return nil
}

func newTestDelegator(t *testing.T) (*OperatorDelegator, *storage.Store, *gatePersister) {
	t.Helper()
	persister := newGatePersister()
	store := storage.NewStore(persister)
	delegator := NewOperatorDelegator(store)
	delegator.Start()
	t.Cleanup(delegator.Stop)
	return delegator, store, persister
}

func openAccount(t *testing.T, delegator *OperatorDelegator, deposit int64) *storage.Account {
	t.Helper()
	action := &actions.OpenAccount{
		Name:           "Ada Lovelace",
		NationalID:     "ID-1815",
		AccountType:    storage.AccountTypeSavings,
		InitialDeposit: decimal.NewFromInt(deposit),
	}
	require.NoError(t, delegator.Process(context.Background(), action))
	return action.Account
}

func TestProcess_SerializesConcurrentMutations(t *testing.T) {
	delegator, store, _ := newTestDelegator(t)
	account := openAccount(t, delegator, 1000)

	const deposits = 50
	var wg sync.WaitGroup
	for i := 0; i < deposits; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			action := &actions.Deposit{
				AccountNumber: account.Number,
				PIN:           account.PIN,
				Amount:        decimal.NewFromInt(500),
			}
			assert.NoError(t, delegator.Process(context.Background(), action))
		}()
	}
	wg.Wait()

	found, ok := store.Find(account.Number)
	require.True(t, ok)
	assert.True(t, found.Balance.Equal(decimal.NewFromInt(1000+deposits*500)),
		"every deposit must be applied exactly once")
	assert.Len(t, found.Transactions, deposits+1)
}

func TestProcess_CancelledWaiterDoesNotAbortAcceptedMutation(t *testing.T) {
	delegator, store, persister := newTestDelegator(t)
	account := openAccount(t, delegator, 1000)

	persister.arm()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		action := &actions.Deposit{
			AccountNumber: account.Number,
			PIN:           account.PIN,
			Amount:        decimal.NewFromInt(500),
		}
		done <- delegator.Process(ctx, action)
	}()

	// Wait until the mutation is inside its commit, then abandon the waiter.
	<-persister.entered
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Process did not return after context cancellation")
	}

	// The mutation must still complete.
	close(persister.release)
	require.Eventually(t, func() bool {
		found, ok := store.Find(account.Number)
		return ok && found.Balance.Equal(decimal.NewFromInt(1500))
	}, 2*time.Second, 10*time.Millisecond, "accepted mutation must complete after the session is gone")
}

func TestProcess_AuthFailureLeavesStoreUntouched(t *testing.T) {
	delegator, store, _ := newTestDelegator(t)
	account := openAccount(t, delegator, 1000)

	action := &actions.Deposit{
		AccountNumber: account.Number,
		PIN:           "000000",
		Amount:        decimal.NewFromInt(500),
	}
	if account.PIN == "000000" {
		action.PIN = "999999"
	}
	err := delegator.Process(context.Background(), action)
	assert.ErrorIs(t, err, actions.ErrAuthFailed)

	found, _ := store.Find(account.Number)
	assert.True(t, found.Balance.Equal(decimal.NewFromInt(1000)))
}
