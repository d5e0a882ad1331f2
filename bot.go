// Package signalcast wires the signal filtering, dispatch, and
// acknowledgement components into a runnable bot.
package signalcast

import (
	"context"
	"sync/atomic"

	"github.com/raykavin/signalcast/compliance"
	"github.com/raykavin/signalcast/core"
	"github.com/raykavin/signalcast/dispatch"
	"github.com/raykavin/signalcast/filter"
	"github.com/raykavin/signalcast/notification"
	"github.com/raykavin/signalcast/preference"
	"github.com/raykavin/signalcast/profit"
	"github.com/raykavin/signalcast/render"
	"github.com/raykavin/signalcast/storage"
	"github.com/raykavin/signalcast/track"
)

// DefaultLog is the default logger instance
var DefaultLog core.Logger

const defaultDatabase = "signalcast.db"

// Bot is the assembled signal dispatch system: preference store, filter
// engine, renderer, dispatcher, acknowledgement tracker, profit ledger,
// and the notification channel they share.
type Bot struct {
	settings   *core.Settings
	storage    core.DispatchStorage
	classifier core.Classifier
	notifier   core.Notifier
	telegram   *notification.Telegram
	source     core.SignalSource
	alerter    core.Alerter

	prefs      *preference.Store
	engine     *filter.Engine
	renderer   *render.Renderer
	dispatcher *dispatch.Controller
	tracker    *track.Tracker
	ledger     *profit.Ledger
	reporter   *profit.Reporter

	lastSignalID int64
	log          core.Logger
}

// NewBot creates a new bot instance with the provided settings and options
func NewBot(settings *core.Settings, options ...Option) (*Bot, error) {
	bot := &Bot{
		settings: settings,
		prefs:    preference.NewStore(),
		ledger:   profit.NewLedger(),
		log:      DefaultLog,
	}

	// Apply custom options
	for _, option := range options {
		option(bot)
	}

	if bot.classifier == nil {
		bot.classifier = compliance.NewKeywordClassifier()
	}

	if err := initializeStorage(bot); err != nil {
		return nil, err
	}

	bot.engine = filter.NewEngine(bot.classifier, bot.log)
	bot.renderer = render.NewRenderer(bot.classifier)
	bot.tracker = track.NewTracker(bot.storage, bot.log)

	if err := initializeNotifications(bot, settings); err != nil {
		return nil, err
	}

	bot.dispatcher = dispatch.NewController(
		bot.prefs,
		bot.engine,
		bot.renderer,
		bot.notifier,
		bot.storage,
		bot.log,
	)
	if bot.alerter != nil {
		bot.dispatcher.SetAlerter(bot.alerter)
	}

	if settings.Report.Enabled {
		bot.reporter = profit.NewReporter(bot.ledger, bot.notifier, settings.Report.Interval, bot.log)
	}

	return bot, nil
}

// initializeStorage sets up the bot's dispatch record storage
func initializeStorage(bot *Bot) error {
	var err error
	if bot.storage == nil {
		bot.storage, err = storage.FromFile(defaultDatabase, bot.log)
		if err != nil {
			return err
		}
	}
	return nil
}

// initializeNotifications builds the Telegram channel when enabled and no
// notifier was injected
func initializeNotifications(bot *Bot, settings *core.Settings) error {
	if bot.notifier != nil {
		return nil
	}

	telegram, err := notification.NewTelegram(settings, bot.prefs, bot.tracker, bot.ledger, bot.log)
	if err != nil {
		return err
	}
	telegram.SetSubmitter(bot)

	bot.telegram = telegram
	bot.notifier = telegram
	if bot.alerter == nil {
		bot.alerter = telegram
	}

	return nil
}

// Preferences returns the bot's preference store
func (b *Bot) Preferences() *preference.Store {
	return b.prefs
}

// Tracker returns the acknowledgement tracker
func (b *Bot) Tracker() *track.Tracker {
	return b.tracker
}

// Ledger returns the profit ledger
func (b *Bot) Ledger() *profit.Ledger {
	return b.ledger
}

// Submit validates an incoming signal, assigns its ID, and fans it out to
// the configured subscribers. Malformed signals are rejected before any
// state mutation.
func (b *Bot) Submit(ctx context.Context, signal core.Signal) ([]*core.DispatchRecord, []*core.DeliveryError, error) {
	if err := signal.Validate(); err != nil {
		return nil, nil, err
	}

	signal.ID = atomic.AddInt64(&b.lastSignalID, 1)
	b.log.Infof("signal %d accepted: %s %s %s", signal.ID, signal.Market, signal.Direction, signal.Symbol)

	records, failures := b.dispatcher.Dispatch(ctx, signal, b.settings.Subscribers)
	for _, failure := range failures {
		b.notifier.OnError(failure)
	}

	return records, failures, nil
}

// Run starts the notification channel, the profit reporter, and the
// signal ingestion loop. It blocks until the context is done or the
// signal source closes.
func (b *Bot) Run(ctx context.Context) error {
	if b.telegram != nil {
		b.telegram.Start()
	}

	if b.reporter != nil {
		b.reporter.Start(ctx)
	}

	if b.source == nil {
		// Command-driven mode: signals arrive only via Submit
		<-ctx.Done()
		return ctx.Err()
	}

	signals, errs := b.source.Signals(ctx)
	for {
		select {
		case signal, ok := <-signals:
			if !ok {
				return nil
			}
			if _, _, err := b.Submit(ctx, signal); err != nil {
				b.log.WithError(err).Error("signal rejected")
			}
		case err, ok := <-errs:
			if ok && err != nil {
				b.notifier.OnError(err)
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
