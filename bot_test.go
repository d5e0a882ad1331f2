package signalcast

import (
	"bytes"
	"context"
	"testing"

	"github.com/raykavin/signalcast/core"
	"github.com/raykavin/signalcast/notification"
	"github.com/raykavin/signalcast/source"
	"github.com/raykavin/signalcast/storage"
	"github.com/stretchr/testify/require"
)

func newTestBot(t *testing.T, subscribers ...int64) (*Bot, *bytes.Buffer) {
	t.Helper()

	store, err := storage.FromMemory(DefaultLog)
	require.NoError(t, err)

	var out bytes.Buffer
	bot, err := NewBot(
		&core.Settings{Subscribers: subscribers},
		WithStorage(store),
		WithNotifier(notification.NewConsole(&out)),
	)
	require.NoError(t, err)

	return bot, &out
}

func TestBot_SubmitAssignsMonotonicIDs(t *testing.T) {
	bot, _ := newTestBot(t, 1)

	signal, ok := source.Sample(core.MarketForex)
	require.True(t, ok)

	first, _, err := bot.Submit(context.Background(), signal)
	require.NoError(t, err)
	require.Len(t, first, 1)
	require.Equal(t, int64(1), first[0].SignalID)

	second, _, err := bot.Submit(context.Background(), signal)
	require.NoError(t, err)
	require.Len(t, second, 1)
	require.Equal(t, int64(2), second[0].SignalID)
}

func TestBot_SubmitRejectsMalformedSignal(t *testing.T) {
	bot, out := newTestBot(t, 1)

	signal := core.Signal{Symbol: "ES", Market: core.Market("futures"), Direction: core.DirectionBuy}

	records, failures, err := bot.Submit(context.Background(), signal)

	var verr *core.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Empty(t, records)
	require.Empty(t, failures)
	require.Empty(t, out.String())

	// Rejected signals consume no ID
	forex, _ := source.Sample(core.MarketForex)
	accepted, _, err := bot.Submit(context.Background(), forex)
	require.NoError(t, err)
	require.Equal(t, int64(1), accepted[0].SignalID)
}

func TestBot_SubmitHonorsPreferences(t *testing.T) {
	bot, _ := newTestBot(t, 1, 2)

	bot.Preferences().SetMarketVisible(2, core.MarketCrypto, false)

	crypto, _ := source.Sample(core.MarketCrypto)
	records, failures, err := bot.Submit(context.Background(), crypto)
	require.NoError(t, err)
	require.Empty(t, failures)
	require.Len(t, records, 1)
	require.Equal(t, int64(1), records[0].RecipientID)
}

func TestBot_ConfirmFlow(t *testing.T) {
	bot, _ := newTestBot(t, 1)

	forex, _ := source.Sample(core.MarketForex)
	records, _, err := bot.Submit(context.Background(), forex)
	require.NoError(t, err)
	require.Len(t, records, 1)

	// Resolve the record the way a callback would, then confirm it
	record, err := bot.Tracker().RecordFor(context.Background(), 1, records[0].SignalID)
	require.NoError(t, err)
	require.Equal(t, records[0].ID, record.ID)

	previous, current, err := bot.Tracker().RecordResponse(context.Background(), record.ID, core.ResponseConfirm)
	require.NoError(t, err)
	require.Equal(t, core.DispatchStatusPending, previous)
	require.Equal(t, core.DispatchStatusConfirmed, current)

	pending, err := bot.Tracker().PendingFor(context.Background(), 1)
	require.NoError(t, err)
	require.Empty(t, pending)
}
