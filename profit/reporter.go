package profit

import (
	"context"
	"fmt"
	"time"

	"github.com/raykavin/signalcast/core"
)

// Reporter periodically broadcasts a profit summary through the notifier
type Reporter struct {
	ledger   *Ledger
	notifier core.Notifier
	interval time.Duration
	log      core.Logger
}

// NewReporter creates a reporter broadcasting every interval
func NewReporter(ledger *Ledger, notifier core.Notifier, interval time.Duration, log core.Logger) *Reporter {
	return &Reporter{
		ledger:   ledger,
		notifier: notifier,
		interval: interval,
		log:      log,
	}
}

// Start launches the report loop. It returns immediately; the loop stops
// when the context is done.
func (r *Reporter) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				r.notifier.Notify(r.Summary(time.Now()))
				r.log.Debug("profit summary broadcast")
			case <-ctx.Done():
				return
			}
		}
	}()

	r.log.Infof("profit reporter started, interval %s", r.interval)
}

// Summary renders the report text for the given day
func (r *Reporter) Summary(at time.Time) string {
	return fmt.Sprintf(
		"📈 Trading report\nTotal profit today (%s): $%.2f",
		at.Format(dayLayout),
		r.ledger.DayTotal(at),
	)
}
