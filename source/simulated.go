// Package source provides signal sources for the bot. Live market-data
// feeds are out of scope; the simulated source replays canned signals for
// testing bots end to end.
package source

import (
	"context"
	"time"

	"github.com/raykavin/signalcast/core"
)

// samples holds one representative signal per market. IDs are zero; the
// bot assigns them at ingestion.
var samples = map[core.Market]core.Signal{
	core.MarketForex: {
		Symbol:      "EURUSD",
		Market:      core.MarketForex,
		Direction:   core.DirectionBuy,
		Timeframe:   "15min",
		Entry:       "1.0850",
		Stop:        "1.0820",
		Target:      "1.0900",
		Description: "Strong bullish momentum on lower timeframe. Expect break of structure.",
		Tags:        core.StructuralTags{Liquidity: true, FairValueGap: true},
	},
	core.MarketCrypto: {
		Symbol:      "BTC/USDT",
		Market:      core.MarketCrypto,
		Direction:   core.DirectionSell,
		Timeframe:   "1h",
		Entry:       "65000",
		Stop:        "65500",
		Target:      "64000",
		Description: "Bearish divergence on RSI, anticipating a dump.",
		Tags:        core.StructuralTags{Liquidity: true, OrderBlock: true},
	},
	core.MarketStocks: {
		Symbol:      "AAPL",
		Market:      core.MarketStocks,
		Direction:   core.DirectionBuy,
		Timeframe:   "Daily",
		Entry:       "170",
		Stop:        "165",
		Target:      "178",
		Description: "Upcoming earnings report looks positive. Breakout from resistance.",
		Tags:        core.StructuralTags{Liquidity: true},
	},
	core.MarketMemecoins: {
		Symbol:      "DOGE/USDT",
		Market:      core.MarketMemecoins,
		Direction:   core.DirectionBuy,
		Timeframe:   "30min",
		Entry:       "0.15",
		Stop:        "0.14",
		Target:      "0.18",
		Description: "Social media hype building. Very volatile asset.",
	},
	core.MarketPrediction: {
		Symbol:      "ETH Price > $4000 by July 1",
		Market:      core.MarketPrediction,
		Direction:   core.DirectionYes,
		Entry:       "0.65",
		Target:      "0.90",
		Description: "High probability event predicted by on-chain analysis.",
		Tags:        core.StructuralTags{Liquidity: true},
	},
}

// Sample returns the canned signal for one market
func Sample(market core.Market) (core.Signal, bool) {
	signal, ok := samples[market]
	return signal, ok
}

// Simulated implements core.SignalSource by cycling through the canned
// signals at a fixed interval
type Simulated struct {
	interval time.Duration
	log      core.Logger
}

// NewSimulated creates a simulated source emitting one signal per interval
func NewSimulated(interval time.Duration, log core.Logger) *Simulated {
	return &Simulated{
		interval: interval,
		log:      log,
	}
}

// Signals implements core.SignalSource. Channels are closed when the
// context is done.
func (s *Simulated) Signals(ctx context.Context) (<-chan core.Signal, <-chan error) {
	signals := make(chan core.Signal)
	errs := make(chan error)

	go func() {
		defer close(signals)
		defer close(errs)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		markets := core.Markets()
		next := 0

		for {
			select {
			case <-ticker.C:
				signal := samples[markets[next]]
				next = (next + 1) % len(markets)

				select {
				case signals <- signal:
					s.log.Debugf("simulated %s signal emitted", signal.Market)
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return signals, errs
}
