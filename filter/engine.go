// Package filter decides, per subscriber, whether a signal should be
// delivered.
package filter

import (
	"github.com/raykavin/signalcast/core"
)

// complianceMarkets lists the markets the compliance filter applies to
var complianceMarkets = map[core.Market]bool{
	core.MarketCrypto:    true,
	core.MarketMemecoins: true,
}

// Engine combines a signal with a subscriber's preferences to yield an
// allow/deny decision. It holds no mutable state and is safe for any
// number of concurrent callers.
type Engine struct {
	classifier core.Classifier
	log        core.Logger
}

// NewEngine creates a filter engine using the given compliance classifier
func NewEngine(classifier core.Classifier, log core.Logger) *Engine {
	return &Engine{
		classifier: classifier,
		log:        log,
	}
}

// ShouldDeliver reports whether the signal passes the subscriber's filters.
// Checks run cheapest first and short-circuit on the first denial:
// market visibility, then structural tags, then the compliance classifier.
func (e *Engine) ShouldDeliver(signal core.Signal, prefs core.Preferences) bool {
	if !prefs.MarketVisible(signal.Market) {
		return false
	}

	if prefs.StrategyFilter && !signal.Tags.Any() {
		return false
	}

	if prefs.ComplianceFilter && complianceMarkets[signal.Market] {
		verdict, err := e.classifier.Classify(signal.Symbol, signal.Description)
		if err != nil {
			// Fail closed: an unavailable classifier denies delivery for
			// subscribers that asked for compliance filtering
			e.log.WithError(err).Warnf("compliance check failed for %s, denying delivery", signal.Symbol)
			return false
		}
		if verdict == core.NonCompliant {
			return false
		}
	}

	return true
}
