package signalcast

import (
	"github.com/raykavin/signalcast/core"
)

// Option is a functional option for configuring a Bot instance
type Option func(*Bot)

// WithStorage sets the dispatch record storage for the bot, by default it
// uses a local file called signalcast.db
func WithStorage(storage core.DispatchStorage) Option {
	return func(bot *Bot) {
		bot.storage = storage
	}
}

// WithClassifier sets the compliance classifier, by default the built-in
// keyword classifier is used
func WithClassifier(classifier core.Classifier) Option {
	return func(bot *Bot) {
		bot.classifier = classifier
	}
}

// WithNotifier sets the notification channel, replacing the Telegram
// channel built from settings
func WithNotifier(notifier core.Notifier) Option {
	return func(bot *Bot) {
		bot.notifier = notifier
	}
}

// WithAlerter sets the best-effort alert side channel
func WithAlerter(alerter core.Alerter) Option {
	return func(bot *Bot) {
		bot.alerter = alerter
	}
}

// WithSignalSource sets the inbound signal source consumed by Run
func WithSignalSource(source core.SignalSource) Option {
	return func(bot *Bot) {
		bot.source = source
	}
}

// WithLogger overrides the default logger
func WithLogger(log core.Logger) Option {
	return func(bot *Bot) {
		bot.log = log
	}
}
