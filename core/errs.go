package core

import (
	"errors"
	"fmt"
)

var (
	// ErrRecordNotFound is returned when a response references an unknown
	// dispatch record
	ErrRecordNotFound = errors.New("dispatch record not found")

	// ErrClassifierUnavailable is returned when the compliance classifier
	// cannot run. Subscribers with the compliance filter enabled fail
	// closed on it.
	ErrClassifierUnavailable = errors.New("compliance classifier unavailable")
)

// ValidationError reports a malformed signal or an unknown enum value at
// ingestion, before any state mutation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid signal: %s %s", e.Field, e.Reason)
}

// DeliveryError captures a failed delivery to a single subscriber. One
// subscriber's failure never aborts the batch; the dispatcher collects
// these and reports them to the caller.
type DeliveryError struct {
	RecipientID int64
	SignalID    int64
	Err         error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("failed to deliver signal %d to subscriber %d: %v", e.SignalID, e.RecipientID, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}
