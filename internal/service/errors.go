package service

import "errors"

// Category classifies a rejected request. Every category is recoverable for
// the server: the request mutates nothing and the session keeps running.
type Category int

const (
	// CategoryValidation covers bad amounts, missing fields, and unknown
	// request kinds.
	CategoryValidation Category = iota
	// CategoryAuth covers unknown accounts, closed accounts, and PIN
	// mismatches. All three share one message so account numbers cannot be
	// enumerated by probing.
	CategoryAuth
	// CategoryCapacity means the account ceiling was reached.
	CategoryCapacity
	// CategoryPersistence means the durable snapshot write failed; the
	// in-memory mutation was rolled back and nothing was acknowledged.
	CategoryPersistence
)

// RequestError is a rejected request with a user-facing message that goes
// into the response frame verbatim.
type RequestError struct {
	Category Category
	Message  string
}

func (e *RequestError) Error() string {
	return e.Message
}

// AsRequestError unwraps a RequestError if err carries one.
func AsRequestError(err error) (*RequestError, bool) {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr, true
	}
	return nil, false
}

func validationError(message string) error {
	return &RequestError{Category: CategoryValidation, Message: message}
}

func authError() error {
	return &RequestError{Category: CategoryAuth, Message: msgAuthFailed}
}

func capacityError() error {
	return &RequestError{Category: CategoryCapacity, Message: msgStoreFull}
}

func persistenceError() error {
	return &RequestError{Category: CategoryPersistence, Message: msgPersistFailed}
}
