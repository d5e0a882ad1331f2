// Package track records subscriber responses to dispatched signals and
// exposes their status.
package track

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/raykavin/signalcast/core"
)

// Tracker owns the lifecycle of dispatch records after creation. Each
// record moves pending→confirmed or pending→ignored exactly once; a record
// already in a terminal state silently reports that state on any further
// response, which makes at-least-once response delivery safe.
type Tracker struct {
	storage core.DispatchStorage
	log     core.Logger

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

// NewTracker creates a tracker over the given record storage
func NewTracker(storage core.DispatchStorage, log core.Logger) *Tracker {
	return &Tracker{
		storage: storage,
		log:     log,
		locks:   make(map[int64]*sync.Mutex),
	}
}

// lockFor returns the mutex serializing mutations of one record. Distinct
// records never contend.
func (t *Tracker) lockFor(recordID int64) *sync.Mutex {
	t.mu.Lock()
	defer t.mu.Unlock()

	lock, ok := t.locks[recordID]
	if !ok {
		lock = &sync.Mutex{}
		t.locks[recordID] = lock
	}
	return lock
}

// RecordResponse applies a subscriber's response to a dispatch record and
// returns the previous and current status. Unknown records yield
// core.ErrRecordNotFound; terminal records are a no-op reporting the
// existing status twice.
func (t *Tracker) RecordResponse(ctx context.Context, recordID int64, action core.ResponseAction) (core.DispatchStatus, core.DispatchStatus, error) {
	if !action.Valid() {
		return "", "", &core.ValidationError{Field: "action", Reason: "unknown action " + string(action)}
	}

	lock := t.lockFor(recordID)
	lock.Lock()
	defer lock.Unlock()

	record, err := t.record(ctx, recordID)
	if err != nil {
		return "", "", err
	}

	if record.Status.Terminal() {
		// Duplicate button press or retried webhook delivery; never
		// overwrite a terminal state
		return record.Status, record.Status, nil
	}

	previous := record.Status
	switch action {
	case core.ResponseConfirm:
		record.Status = core.DispatchStatusConfirmed
	case core.ResponseIgnore:
		record.Status = core.DispatchStatusIgnored
	}
	record.RespondedAt = time.Now()

	if err := t.storage.UpdateRecord(ctx, record); err != nil {
		return "", "", fmt.Errorf("failed to update dispatch record %d: %w", recordID, err)
	}

	t.log.Infof("subscriber %d %sed %s %s (record %d)",
		record.RecipientID, action, record.Direction, record.Symbol, record.ID)

	return previous, record.Status, nil
}

// Status returns the current state of a dispatch record
func (t *Tracker) Status(ctx context.Context, recordID int64) (core.DispatchStatus, error) {
	record, err := t.record(ctx, recordID)
	if err != nil {
		return "", err
	}
	return record.Status, nil
}

// Record returns the full dispatch record, for audit echoes
func (t *Tracker) Record(ctx context.Context, recordID int64) (*core.DispatchRecord, error) {
	return t.record(ctx, recordID)
}

// RecordFor resolves the dispatch record a subscriber's response refers
// to, given the signal it answered. Notification channels that cannot
// carry a record ID in their callback payload use this to translate
// (responder, signal) into a record.
func (t *Tracker) RecordFor(ctx context.Context, subscriberID, signalID int64) (*core.DispatchRecord, error) {
	records, err := t.storage.Records(ctx,
		core.WithRecipient(subscriberID),
		core.WithSignal(signalID),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query dispatch records: %w", err)
	}
	if len(records) == 0 {
		return nil, core.ErrRecordNotFound
	}
	return records[0], nil
}

// PendingFor returns the subscriber's pending records, most recent first
func (t *Tracker) PendingFor(ctx context.Context, subscriberID int64) ([]*core.DispatchRecord, error) {
	records, err := t.storage.Records(ctx,
		core.WithRecipient(subscriberID),
		core.WithStatus(core.DispatchStatusPending),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending records: %w", err)
	}

	slices.SortFunc(records, func(a, b *core.DispatchRecord) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	return records, nil
}

func (t *Tracker) record(ctx context.Context, recordID int64) (*core.DispatchRecord, error) {
	records, err := t.storage.Records(ctx, core.WithID(recordID))
	if err != nil {
		return nil, fmt.Errorf("failed to query dispatch record %d: %w", recordID, err)
	}
	if len(records) == 0 {
		return nil, core.ErrRecordNotFound
	}
	return records[0], nil
}
