package core

// Preferences holds one subscriber's filtering settings. A fixed-shape
// record rather than a free-form map, so an unknown key can never silently
// disable a filter.
type Preferences struct {
	MarketVisibility map[Market]bool `json:"market_visibility"`
	StrategyFilter   bool            `json:"strategy_filter"`
	ComplianceFilter bool            `json:"compliance_filter"`
}

// DefaultPreferences returns the settings a subscriber starts with: every
// known market visible, both filters disabled.
func DefaultPreferences() Preferences {
	visibility := make(map[Market]bool, len(Markets()))
	for _, market := range Markets() {
		visibility[market] = true
	}

	return Preferences{
		MarketVisibility: visibility,
	}
}

// MarketVisible reports whether the given market is visible. Markets absent
// from the map default to visible, matching the lazily-created default set.
func (p Preferences) MarketVisible(market Market) bool {
	visible, ok := p.MarketVisibility[market]
	if !ok {
		return true
	}
	return visible
}

// Clone returns a deep copy, so callers can hand preferences across
// goroutines without sharing the visibility map.
func (p Preferences) Clone() Preferences {
	visibility := make(map[Market]bool, len(p.MarketVisibility))
	for market, visible := range p.MarketVisibility {
		visibility[market] = visible
	}

	return Preferences{
		MarketVisibility: visibility,
		StrategyFilter:   p.StrategyFilter,
		ComplianceFilter: p.ComplianceFilter,
	}
}
