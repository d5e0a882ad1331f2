package preference

import (
	"sync"
	"testing"

	"github.com/raykavin/signalcast/core"
	"github.com/stretchr/testify/require"
)

func TestStore_UnknownSubscriberGetsDefaults(t *testing.T) {
	store := NewStore()

	prefs := store.Get(100)
	for _, market := range core.Markets() {
		require.True(t, prefs.MarketVisible(market))
	}
	require.False(t, prefs.StrategyFilter)
	require.False(t, prefs.ComplianceFilter)
}

func TestStore_SetMarketVisible(t *testing.T) {
	store := NewStore()

	store.SetMarketVisible(100, core.MarketForex, false)

	prefs := store.Get(100)
	require.False(t, prefs.MarketVisible(core.MarketForex))
	require.True(t, prefs.MarketVisible(core.MarketCrypto))

	// Other subscribers are unaffected
	require.True(t, store.Get(200).MarketVisible(core.MarketForex))
}

func TestStore_Toggles(t *testing.T) {
	store := NewStore()

	require.False(t, store.ToggleMarketVisible(100, core.MarketStocks))
	require.True(t, store.ToggleMarketVisible(100, core.MarketStocks))

	require.True(t, store.ToggleStrategyFilter(100))
	require.False(t, store.ToggleStrategyFilter(100))

	require.True(t, store.ToggleComplianceFilter(100))
	require.True(t, store.Get(100).ComplianceFilter)
	require.False(t, store.ToggleComplianceFilter(100))
}

func TestStore_GetReturnsCopy(t *testing.T) {
	store := NewStore()

	prefs := store.Get(100)
	prefs.MarketVisibility[core.MarketForex] = false
	prefs.StrategyFilter = true

	// Mutating the returned snapshot never leaks back into the store
	fresh := store.Get(100)
	require.True(t, fresh.MarketVisible(core.MarketForex))
	require.False(t, fresh.StrategyFilter)
}

func TestStore_ConcurrentAccess(t *testing.T) {
	store := NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		subscriberID := int64(i % 5)

		wg.Add(2)
		go func() {
			defer wg.Done()
			store.ToggleStrategyFilter(subscriberID)
		}()
		go func() {
			defer wg.Done()
			store.Get(subscriberID)
		}()
	}
	wg.Wait()

	// 10 toggles per subscriber land back at the default
	for id := int64(0); id < 5; id++ {
		require.False(t, store.Get(id).StrategyFilter)
	}
}
