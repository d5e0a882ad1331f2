// Package dispatch fans signals out to eligible subscribers and records
// each delivery.
package dispatch

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/raykavin/signalcast/core"
	"github.com/raykavin/signalcast/filter"
	"github.com/raykavin/signalcast/preference"
	"github.com/raykavin/signalcast/render"
	"github.com/samber/lo"
)

// Controller performs the per-signal fan-out: preference lookup, filter
// evaluation, rendering, delivery, and pending record creation. Subscriber
// deliveries are independent; one failure never aborts the batch.
type Controller struct {
	prefs    *preference.Store
	engine   *filter.Engine
	renderer *render.Renderer
	notifier core.Notifier
	storage  core.DispatchStorage
	alerter  core.Alerter
	log      core.Logger
}

// NewController creates a dispatch controller
func NewController(
	prefs *preference.Store,
	engine *filter.Engine,
	renderer *render.Renderer,
	notifier core.Notifier,
	storage core.DispatchStorage,
	log core.Logger,
) *Controller {
	return &Controller{
		prefs:    prefs,
		engine:   engine,
		renderer: renderer,
		notifier: notifier,
		storage:  storage,
		log:      log,
	}
}

// SetAlerter configures the optional best-effort alert side channel
func (c *Controller) SetAlerter(alerter core.Alerter) {
	c.alerter = alerter
}

// Dispatch delivers the signal to every eligible subscriber, in subscriber
// ID order. It returns the pending records created and the per-subscriber
// delivery failures; a subscriber filtered out produces neither.
func (c *Controller) Dispatch(ctx context.Context, signal core.Signal, subscriberIDs []int64) ([]*core.DispatchRecord, []*core.DeliveryError) {
	ids := lo.Uniq(subscriberIDs)
	slices.Sort(ids)

	records := make([]*core.DispatchRecord, 0, len(ids))
	var failures []*core.DeliveryError

	for _, subscriberID := range ids {
		record, err := c.dispatchOne(ctx, signal, subscriberID)
		if err != nil {
			failure := &core.DeliveryError{
				RecipientID: subscriberID,
				SignalID:    signal.ID,
				Err:         err,
			}
			c.log.WithError(err).Errorf("delivery to subscriber %d failed", subscriberID)
			failures = append(failures, failure)
			continue
		}
		if record == nil {
			// Filtered out; the subscriber observes nothing
			continue
		}
		records = append(records, record)
	}

	return records, failures
}

// dispatchOne handles a single subscriber. A nil record with nil error
// means the signal was filtered for that subscriber.
func (c *Controller) dispatchOne(ctx context.Context, signal core.Signal, subscriberID int64) (*core.DispatchRecord, error) {
	prefs := c.prefs.Get(subscriberID)
	if !c.engine.ShouldDeliver(signal, prefs) {
		c.log.Debugf("signal %d filtered for subscriber %d", signal.ID, subscriberID)
		return nil, nil
	}

	message := c.renderer.Render(signal)

	if err := c.notifier.Send(ctx, subscriberID, message); err != nil {
		return nil, fmt.Errorf("failed to send notification: %w", err)
	}

	record := &core.DispatchRecord{
		SignalID:    signal.ID,
		RecipientID: subscriberID,
		Symbol:      signal.Symbol,
		Direction:   signal.Direction,
		Status:      core.DispatchStatusPending,
		CreatedAt:   time.Now(),
	}

	if err := c.storage.CreateRecord(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create dispatch record: %w", err)
	}

	// Side channel is strictly best-effort; it can neither fail the
	// dispatch nor touch the record
	if c.alerter != nil {
		c.alerter.Alert(subscriberID, core.AlertSignal)
	}

	return record, nil
}
