package core

import "time"

// DispatchStatus is the acknowledgement state of a dispatched signal
type DispatchStatus string

// Available dispatch statuses. Pending is the initial state; confirmed and
// ignored are terminal and never transition further.
const (
	DispatchStatusPending   DispatchStatus = "pending"
	DispatchStatusConfirmed DispatchStatus = "confirmed"
	DispatchStatusIgnored   DispatchStatus = "ignored"
)

// Terminal reports whether the status accepts no further transitions
func (s DispatchStatus) Terminal() bool {
	return s == DispatchStatusConfirmed || s == DispatchStatusIgnored
}

// ResponseAction is a subscriber's reply to a dispatched signal
type ResponseAction string

// Available response actions
const (
	ResponseConfirm ResponseAction = "confirm"
	ResponseIgnore  ResponseAction = "ignore"
)

// Valid reports whether the action is one of the known values
func (a ResponseAction) Valid() bool {
	return a == ResponseConfirm || a == ResponseIgnore
}

// DispatchRecord tracks one delivery of a signal to one subscriber. The
// dispatcher creates it in pending state; the acknowledgement tracker owns
// its lifecycle thereafter and mutates the status exactly once.
type DispatchRecord struct {
	ID          int64          `json:"id" gorm:"primaryKey"`
	SignalID    int64          `json:"signal_id"`
	RecipientID int64          `json:"recipient_id"`
	Symbol      string         `json:"symbol"`
	Direction   Direction      `json:"direction"`
	Status      DispatchStatus `json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	RespondedAt time.Time      `json:"responded_at,omitempty"`
}

// ActionKind distinguishes the two response options attached to a rendered
// message
type ActionKind string

// Available action kinds
const (
	ActionConfirm ActionKind = "confirm"
	ActionIgnore  ActionKind = "ignore"
)

// Action is one caller-selectable response option on a rendered message.
// Confirm carries the symbol and direction so the acknowledgement can echo
// them back for audit; ignore carries only the signal ID.
type Action struct {
	Kind      ActionKind
	SignalID  int64
	Symbol    string
	Direction Direction
}

// RenderedMessage is the display payload produced for an allowed signal.
// Actions always holds exactly the confirm and ignore options, in that order.
type RenderedMessage struct {
	Text    string
	Actions [2]Action
}
