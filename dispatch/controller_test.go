package dispatch

import (
	"context"
	"errors"
	"testing"

	"github.com/raykavin/signalcast/compliance"
	"github.com/raykavin/signalcast/core"
	"github.com/raykavin/signalcast/filter"
	zlog "github.com/raykavin/signalcast/logger/zerolog"
	"github.com/raykavin/signalcast/preference"
	"github.com/raykavin/signalcast/render"
	"github.com/raykavin/signalcast/storage"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func testLogger() core.Logger {
	nop := zerolog.Nop()
	return zlog.NewAdapter(&nop)
}

// captureNotifier records deliveries and can fail selected subscribers
type captureNotifier struct {
	sent    []int64
	failFor map[int64]error
}

func (n *captureNotifier) Send(_ context.Context, recipientID int64, _ core.RenderedMessage) error {
	if err, ok := n.failFor[recipientID]; ok {
		return err
	}
	n.sent = append(n.sent, recipientID)
	return nil
}

func (n *captureNotifier) Notify(string) {}
func (n *captureNotifier) OnError(error) {}

// captureAlerter records alert side-channel calls
type captureAlerter struct {
	alerts []int64
}

func (a *captureAlerter) Alert(recipientID int64, _ core.AlertKind) {
	a.alerts = append(a.alerts, recipientID)
}

func newController(t *testing.T, notifier core.Notifier) (*Controller, *preference.Store, core.DispatchStorage) {
	t.Helper()

	store, err := storage.FromMemory(testLogger())
	require.NoError(t, err)

	prefs := preference.NewStore()
	classifier := compliance.NewKeywordClassifier()
	engine := filter.NewEngine(classifier, testLogger())
	renderer := render.NewRenderer(classifier)

	return NewController(prefs, engine, renderer, notifier, store, testLogger()), prefs, store
}

func forexSignal() core.Signal {
	return core.Signal{
		ID:        1,
		Symbol:    "EURUSD",
		Market:    core.MarketForex,
		Direction: core.DirectionBuy,
		Timeframe: "15min",
		Entry:     "1.0850",
		Stop:      "1.0810",
		Target:    "1.0930",
		Tags:      core.StructuralTags{Liquidity: true},
	}
}

func TestDispatch_DeliversAndRecordsPending(t *testing.T) {
	notifier := &captureNotifier{}
	controller, _, store := newController(t, notifier)

	records, failures := controller.Dispatch(context.Background(), forexSignal(), []int64{200, 100})
	require.Empty(t, failures)
	require.Len(t, records, 2)

	// Deterministic subscriber order regardless of input order
	require.Equal(t, []int64{100, 200}, notifier.sent)

	for _, record := range records {
		require.Equal(t, core.DispatchStatusPending, record.Status)
		require.Equal(t, int64(1), record.SignalID)
		require.Equal(t, "EURUSD", record.Symbol)
		require.Equal(t, core.DirectionBuy, record.Direction)
		require.False(t, record.CreatedAt.IsZero())
	}

	stored, err := store.Records(context.Background())
	require.NoError(t, err)
	require.Len(t, stored, 2)
}

func TestDispatch_FilteredSubscriberObservesNothing(t *testing.T) {
	notifier := &captureNotifier{}
	controller, prefs, store := newController(t, notifier)

	// Subscriber 100 hides forex; 200 keeps defaults
	prefs.SetMarketVisible(100, core.MarketForex, false)

	records, failures := controller.Dispatch(context.Background(), forexSignal(), []int64{100, 200})
	require.Empty(t, failures)
	require.Len(t, records, 1)
	require.Equal(t, int64(200), records[0].RecipientID)
	require.Equal(t, []int64{200}, notifier.sent)

	// No record exists for the filtered subscriber
	stored, err := store.Records(context.Background(), core.WithRecipient(100))
	require.NoError(t, err)
	require.Empty(t, stored)
}

func TestDispatch_DeliveryFailureDoesNotAbortBatch(t *testing.T) {
	cause := errors.New("chat not found")
	notifier := &captureNotifier{failFor: map[int64]error{200: cause}}
	controller, _, store := newController(t, notifier)

	records, failures := controller.Dispatch(context.Background(), forexSignal(), []int64{100, 200, 300})

	require.Len(t, records, 2)
	require.Equal(t, []int64{100, 300}, notifier.sent)

	require.Len(t, failures, 1)
	require.Equal(t, int64(200), failures[0].RecipientID)
	require.Equal(t, int64(1), failures[0].SignalID)
	require.ErrorIs(t, failures[0], cause)

	// Failed delivery leaves no record behind
	stored, err := store.Records(context.Background(), core.WithRecipient(200))
	require.NoError(t, err)
	require.Empty(t, stored)
}

func TestDispatch_DuplicateSubscribersCollapsed(t *testing.T) {
	notifier := &captureNotifier{}
	controller, _, _ := newController(t, notifier)

	records, failures := controller.Dispatch(context.Background(), forexSignal(), []int64{100, 100, 100})
	require.Empty(t, failures)
	require.Len(t, records, 1)
	require.Equal(t, []int64{100}, notifier.sent)
}

func TestDispatch_AlerterFiresAfterDelivery(t *testing.T) {
	notifier := &captureNotifier{failFor: map[int64]error{200: errors.New("blocked")}}
	alerter := &captureAlerter{}
	controller, prefs, _ := newController(t, notifier)
	controller.SetAlerter(alerter)

	prefs.SetMarketVisible(300, core.MarketForex, false)

	controller.Dispatch(context.Background(), forexSignal(), []int64{100, 200, 300})

	// Only the successful delivery triggers the side channel
	require.Equal(t, []int64{100}, alerter.alerts)
}
