package core

import "context"

// Compliance is the verdict of the compliance classifier
type Compliance string

// Available compliance verdicts
const (
	Compliant    Compliance = "compliant"
	NonCompliant Compliance = "non-compliant"
)

// Classifier judges a symbol/description pair against a disallowed-content
// policy. Implementations must be safe for concurrent use; a classifier
// that cannot run returns ErrClassifierUnavailable.
type Classifier interface {
	Classify(symbol, description string) (Compliance, error)
}

// Notifier is the external notification channel. Send must attach the two
// response actions of the message as caller-selectable options; their
// activation later reaches the acknowledgement tracker as a response event.
type Notifier interface {
	Send(ctx context.Context, recipientID int64, message RenderedMessage) error
	Notify(text string)
	OnError(err error)
}

// NotifierWithStart is a notifier that runs its own receive loop
type NotifierWithStart interface {
	Notifier
	Start()
}

// AlertKind selects the canned text of an auxiliary alert
type AlertKind string

// Available alert kinds
const (
	AlertSignal AlertKind = "signal"
	AlertProfit AlertKind = "profit"
)

// Alerter is the best-effort audio/alert side channel triggered after a
// successful dispatch. Failures are logged by the implementation and never
// surface to the caller; hence no error return.
type Alerter interface {
	Alert(recipientID int64, kind AlertKind)
}

// SignalSource delivers fully-formed signals, either from a scheduled
// simulation or from an external feed. The returned channels are closed
// when the context is done.
type SignalSource interface {
	Signals(ctx context.Context) (<-chan Signal, <-chan error)
}

// ResponseSink consumes subscriber response events raised by the
// notification channel. The acknowledgement tracker implements it.
type ResponseSink interface {
	RecordResponse(ctx context.Context, recordID int64, action ResponseAction) (previous, current DispatchStatus, err error)
}
