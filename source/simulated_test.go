package source

import (
	"context"
	"testing"
	"time"

	"github.com/raykavin/signalcast/core"
	zlog "github.com/raykavin/signalcast/logger/zerolog"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func testLogger() core.Logger {
	nop := zerolog.Nop()
	return zlog.NewAdapter(&nop)
}

func TestSample_EveryMarketCovered(t *testing.T) {
	for _, market := range core.Markets() {
		signal, ok := Sample(market)
		require.True(t, ok, "missing sample for %s", market)
		require.Equal(t, market, signal.Market)
		require.NoError(t, signal.Validate())
		require.Zero(t, signal.ID)
	}
}

func TestSample_UnknownMarket(t *testing.T) {
	_, ok := Sample(core.Market("futures"))
	require.False(t, ok)
}

func TestSimulated_EmitsAndStops(t *testing.T) {
	source := NewSimulated(5*time.Millisecond, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	signals, errs := source.Signals(ctx)

	first, ok := <-signals
	require.True(t, ok)
	require.NoError(t, first.Validate())

	cancel()

	// Both channels close after cancellation
	for range signals {
	}
	for range errs {
	}
}
