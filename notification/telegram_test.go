package notification

import (
	"testing"

	"github.com/raykavin/signalcast/core"
	"github.com/stretchr/testify/require"
)

func TestConfirmDataRoundTrip(t *testing.T) {
	action := core.Action{
		Kind:      core.ActionConfirm,
		SignalID:  42,
		Symbol:    "EURUSD",
		Direction: core.DirectionBuy,
	}

	data := encodeConfirmData(action)
	require.Equal(t, "42|EURUSD|buy", data)

	id, ok := decodeSignalID(data)
	require.True(t, ok)
	require.Equal(t, int64(42), id)
}

func TestDecodeSignalID_BareID(t *testing.T) {
	id, ok := decodeSignalID("7")
	require.True(t, ok)
	require.Equal(t, int64(7), id)
}

func TestDecodeSignalID_SymbolWithSeparators(t *testing.T) {
	// Prediction market symbols contain arbitrary text after the first pipe
	id, ok := decodeSignalID("9|ETH Price > $4000 by July 1|yes")
	require.True(t, ok)
	require.Equal(t, int64(9), id)
}

func TestDecodeSignalID_Malformed(t *testing.T) {
	for _, data := range []string{"", "abc", "|EURUSD|buy", "x|y"} {
		_, ok := decodeSignalID(data)
		require.False(t, ok, "data %q", data)
	}
}

func TestFormatVisibility(t *testing.T) {
	prefs := core.DefaultPreferences()
	prefs.MarketVisibility[core.MarketForex] = false

	text := formatVisibility(prefs)
	require.Contains(t, text, "forex: ❌ Hidden")
	require.Contains(t, text, "crypto: ✅ Visible")
	require.Contains(t, text, "prediction-market: ✅ Visible")
}

func TestOnOff(t *testing.T) {
	require.Equal(t, "enabled", onOff(true))
	require.Equal(t, "disabled", onOff(false))
}
