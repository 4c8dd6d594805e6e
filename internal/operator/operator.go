package operator

import (
	"context"
	"errors"
	"fmt"

	"github.com/carson-networks/bank-server/internal/operator/actions"
	"github.com/carson-networks/bank-server/internal/storage"
)

// ErrPersistFailed wraps durable-snapshot write failures. When it is
// returned the in-memory mutation has already been rolled back, so no
// unpersisted state is ever acknowledged or observable.
var ErrPersistFailed = errors.New("persisting snapshot failed")

// Operator is the worker that processes items from the queue.
type Operator struct {
	store *storage.Store
	queue chan ActionItem
}

func NewOperator(s *storage.Store, queue chan ActionItem) *Operator {
	return &Operator{
		store: s,
		queue: queue,
	}
}

// Run listens to the queue and processes items. Exits when the queue is
// closed. A mutation picked up from the queue always runs to completion;
// the submitting session's disconnect cannot interrupt it.
func (o *Operator) Run() {
	for item := range o.queue {
		o.processItem(item)
	}
}

func (o *Operator) processItem(item ActionItem) {
	writer := o.store.Write()

	err := item.action.Perform(item.ctx, writer)
	if err != nil {
		_ = writer.Rollback()
		item.response <- ActionItemResponse{err: err}
		return
	}

	if err = writer.Commit(); err != nil {
		item.response <- ActionItemResponse{err: fmt.Errorf("%w: %v", ErrPersistFailed, err)}
		return
	}

	item.response <- ActionItemResponse{}
}

type ActionItem struct {
	ctx      context.Context
	action   actions.IAction
	response chan ActionItemResponse
}

type ActionItemResponse struct {
	err error
}
