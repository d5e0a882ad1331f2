// Package preference holds per-subscriber filtering settings with
// per-subscriber atomic mutation.
package preference

import (
	"sync"

	"github.com/raykavin/signalcast/core"
)

// Store is the owned keyed store for subscriber preferences. Entries are
// created lazily with every market visible and both filters disabled, so
// every operation is total. Mutations serialize per subscriber only;
// operations on different subscribers never contend on the same lock.
type Store struct {
	mu      sync.RWMutex
	entries map[int64]*entry
}

type entry struct {
	mu    sync.Mutex
	prefs core.Preferences
}

// NewStore creates an empty preference store
func NewStore() *Store {
	return &Store{
		entries: make(map[int64]*entry),
	}
}

// entryFor returns the entry for the subscriber, creating the default one
// on first access.
func (s *Store) entryFor(subscriberID int64) *entry {
	s.mu.RLock()
	e, ok := s.entries[subscriberID]
	s.mu.RUnlock()
	if ok {
		return e
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Re-check under the write lock; another session may have created it
	if e, ok = s.entries[subscriberID]; ok {
		return e
	}

	e = &entry{prefs: core.DefaultPreferences()}
	s.entries[subscriberID] = e
	return e
}

// Get returns a copy of the subscriber's preferences, creating the default
// set on first access. Idempotent.
func (s *Store) Get(subscriberID int64) core.Preferences {
	e := s.entryFor(subscriberID)

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.prefs.Clone()
}

// SetMarketVisible sets the visibility of one market for the subscriber
func (s *Store) SetMarketVisible(subscriberID int64, market core.Market, visible bool) {
	e := s.entryFor(subscriberID)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.prefs.MarketVisibility[market] = visible
}

// SetStrategyFilter enables or disables the strategy filter for the subscriber
func (s *Store) SetStrategyFilter(subscriberID int64, enabled bool) {
	e := s.entryFor(subscriberID)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.prefs.StrategyFilter = enabled
}

// SetComplianceFilter enables or disables the compliance filter for the subscriber
func (s *Store) SetComplianceFilter(subscriberID int64, enabled bool) {
	e := s.entryFor(subscriberID)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.prefs.ComplianceFilter = enabled
}

// ToggleMarketVisible flips the visibility of one market and returns the
// new state
func (s *Store) ToggleMarketVisible(subscriberID int64, market core.Market) bool {
	e := s.entryFor(subscriberID)

	e.mu.Lock()
	defer e.mu.Unlock()

	visible := !e.prefs.MarketVisible(market)
	e.prefs.MarketVisibility[market] = visible
	return visible
}

// ToggleStrategyFilter flips the strategy filter and returns the new state
func (s *Store) ToggleStrategyFilter(subscriberID int64) bool {
	e := s.entryFor(subscriberID)

	e.mu.Lock()
	defer e.mu.Unlock()

	e.prefs.StrategyFilter = !e.prefs.StrategyFilter
	return e.prefs.StrategyFilter
}

// ToggleComplianceFilter flips the compliance filter and returns the new state
func (s *Store) ToggleComplianceFilter(subscriberID int64) bool {
	e := s.entryFor(subscriberID)

	e.mu.Lock()
	defer e.mu.Unlock()

	e.prefs.ComplianceFilter = !e.prefs.ComplianceFilter
	return e.prefs.ComplianceFilter
}
