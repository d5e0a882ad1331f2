package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSignalValidate(t *testing.T) {
	signal := Signal{
		Symbol:    "EURUSD",
		Market:    MarketForex,
		Direction: DirectionBuy,
	}
	require.NoError(t, signal.Validate())
}

func TestSignalValidate_EmptySymbol(t *testing.T) {
	signal := Signal{Market: MarketForex, Direction: DirectionBuy}

	var verr *ValidationError
	require.ErrorAs(t, signal.Validate(), &verr)
	require.Equal(t, "symbol", verr.Field)
}

func TestSignalValidate_UnknownMarket(t *testing.T) {
	signal := Signal{Symbol: "ES", Market: Market("futures"), Direction: DirectionBuy}

	var verr *ValidationError
	require.ErrorAs(t, signal.Validate(), &verr)
	require.Equal(t, "market", verr.Field)
	require.Contains(t, verr.Error(), "futures")
}

func TestSignalValidate_UnknownDirection(t *testing.T) {
	signal := Signal{Symbol: "EURUSD", Market: MarketForex, Direction: Direction("hold")}

	var verr *ValidationError
	require.ErrorAs(t, signal.Validate(), &verr)
	require.Equal(t, "direction", verr.Field)
}

func TestStructuralTagsAny(t *testing.T) {
	require.False(t, StructuralTags{}.Any())
	require.True(t, StructuralTags{Liquidity: true}.Any())
	require.True(t, StructuralTags{OrderBlock: true}.Any())
	require.True(t, StructuralTags{FairValueGap: true}.Any())
}

func TestDispatchStatusTerminal(t *testing.T) {
	require.False(t, DispatchStatusPending.Terminal())
	require.True(t, DispatchStatusConfirmed.Terminal())
	require.True(t, DispatchStatusIgnored.Terminal())
}

func TestDefaultPreferences(t *testing.T) {
	prefs := DefaultPreferences()
	for _, market := range Markets() {
		require.True(t, prefs.MarketVisible(market))
	}
	require.False(t, prefs.StrategyFilter)
	require.False(t, prefs.ComplianceFilter)

	// Absent market entries default to visible
	delete(prefs.MarketVisibility, MarketForex)
	require.True(t, prefs.MarketVisible(MarketForex))
}
