package service

import (
	"context"
	"errors"

	"github.com/carson-networks/bank-server/internal/operator"
	"github.com/carson-networks/bank-server/internal/operator/actions"
	"github.com/carson-networks/bank-server/internal/storage"
)

// Service holds all business logic services.
type Service struct {
	Account *AccountService
	Teller  *TellerService
}

// NewService creates a new Service over the given store and mutation queue.
func NewService(store *storage.Store, op *operator.OperatorDelegator) *Service {
	return &Service{
		Account: NewAccountService(store, op),
		Teller:  NewTellerService(store, op),
	}
}

// InvalidRequest is the uniform rejection for unrecognized request kinds.
// It never touches the store.
func (s *Service) InvalidRequest() error {
	return validationError(msgInvalidRequest)
}

// mutate runs an action through the single-writer queue and translates the
// low-level failures into the request error taxonomy.
func mutate(ctx context.Context, op *operator.OperatorDelegator, action actions.IAction) error {
	err := op.Process(ctx, action)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrStoreFull):
		return capacityError()
	case errors.Is(err, storage.ErrNoSuchAccount), errors.Is(err, actions.ErrAuthFailed):
		return authError()
	case errors.Is(err, storage.ErrBelowMinBalance):
		return validationError(msgInsufficientFunds())
	case errors.Is(err, operator.ErrPersistFailed):
		return persistenceError()
	default:
		return err
	}
}
