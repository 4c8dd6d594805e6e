package operator

import (
	"context"
	"sync"

	"github.com/carson-networks/bank-server/internal/operator/actions"
	"github.com/carson-networks/bank-server/internal/storage"
)

// OperatorDelegator owns the mutation queue and the single Operator worker.
// One worker is not a tuning knob: the store has no account-level locks, so
// the queue itself is the single-writer discipline that prevents lost
// updates. Per-account ordering follows queue order.
type OperatorDelegator struct {
	store    *storage.Store
	queue    chan ActionItem
	wg       sync.WaitGroup
	stopOnce sync.Once
}

func NewOperatorDelegator(s *storage.Store) *OperatorDelegator {
	return &OperatorDelegator{
		store: s,
		queue: make(chan ActionItem, 1000),
	}
}

func (d *OperatorDelegator) Start() {
	d.wg.Add(1)
	op := NewOperator(d.store, d.queue)
	go func() {
		defer d.wg.Done()
		op.Run()
	}()
}

// Stop closes the queue and waits for already-accepted mutations to finish.
func (d *OperatorDelegator) Stop() {
	d.stopOnce.Do(func() {
		close(d.queue)
		d.wg.Wait()
	})
}

// Process enqueues an action and waits for its outcome. If ctx is cancelled
// while waiting, Process returns early but the mutation still completes:
// acceptance into the queue is the point of no return.
func (d *OperatorDelegator) Process(ctx context.Context, action actions.IAction) error {
	respCh := make(chan ActionItemResponse, 1)
	item := ActionItem{
		ctx:      ctx,
		action:   action,
		response: respCh,
	}

	d.queue <- item

	select {
	case resp := <-respCh:
		return resp.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
