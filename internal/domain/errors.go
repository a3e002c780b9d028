package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound marks a referenced tenant/property/charge/payment
// document that does not exist. Operations abort without partial
// writes.
var ErrNotFound = errors.New("not found")

// ValidationError is surfaced to the user immediately; the operation is
// aborted before any write happens.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// TransactionError wraps a store-level write conflict or connectivity
// failure. The core never retries; the caller decides whether to
// resubmit.
type TransactionError struct {
	Op  string
	Err error
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("transaction %s failed: %v", e.Op, e.Err)
}

func (e *TransactionError) Unwrap() error {
	return e.Err
}
