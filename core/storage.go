package core

import (
	"context"
	"time"
)

// RecordFilter narrows the result set of a dispatch record query
type RecordFilter func(record DispatchRecord) bool

// DispatchStorage defines the interface for dispatch record persistence
type DispatchStorage interface {
	// CreateRecord stores a new dispatch record and assigns its ID
	CreateRecord(ctx context.Context, record *DispatchRecord) error

	// UpdateRecord updates an existing dispatch record
	UpdateRecord(ctx context.Context, record *DispatchRecord) error

	// Records retrieves dispatch records based on provided filters
	Records(ctx context.Context, filters ...RecordFilter) ([]*DispatchRecord, error)
}

func WithID(id int64) RecordFilter {
	return func(record DispatchRecord) bool {
		return record.ID == id
	}
}

func WithRecipient(recipientID int64) RecordFilter {
	return func(record DispatchRecord) bool {
		return record.RecipientID == recipientID
	}
}

func WithSignal(signalID int64) RecordFilter {
	return func(record DispatchRecord) bool {
		return record.SignalID == signalID
	}
}

func WithStatus(status DispatchStatus) RecordFilter {
	return func(record DispatchRecord) bool {
		return record.Status == status
	}
}

func WithCreatedBeforeOrEqual(t time.Time) RecordFilter {
	return func(record DispatchRecord) bool {
		return !record.CreatedAt.After(t)
	}
}
