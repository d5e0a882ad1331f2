// Package profit keeps simple per-subscriber bookkeeping: logged profits,
// daily totals, and goal progress.
package profit

import (
	"fmt"
	"sync"
	"time"
)

const dayLayout = "2006-01-02"

// Ledger tracks logged profits and goals per subscriber. It performs no
// payment execution; amounts are whatever the subscriber reports.
type Ledger struct {
	mu     sync.RWMutex
	totals map[int64]float64
	goals  map[int64]float64
	byDay  map[int64]map[string]float64
}

// NewLedger creates an empty profit ledger
func NewLedger() *Ledger {
	return &Ledger{
		totals: make(map[int64]float64),
		goals:  make(map[int64]float64),
		byDay:  make(map[int64]map[string]float64),
	}
}

// Log adds a profit amount for the subscriber, bucketed on today's date,
// and returns the new running total.
func (l *Ledger) Log(subscriberID int64, amount float64) float64 {
	return l.LogAt(subscriberID, amount, time.Now())
}

// LogAt adds a profit amount bucketed on the given date
func (l *Ledger) LogAt(subscriberID int64, amount float64, at time.Time) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.totals[subscriberID] += amount

	days, ok := l.byDay[subscriberID]
	if !ok {
		days = make(map[string]float64)
		l.byDay[subscriberID] = days
	}
	days[at.Format(dayLayout)] += amount

	return l.totals[subscriberID]
}

// Total returns the subscriber's running profit total
func (l *Ledger) Total(subscriberID int64) float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.totals[subscriberID]
}

// SetGoal sets the subscriber's profit goal. The amount must be positive.
func (l *Ledger) SetGoal(subscriberID int64, amount float64) error {
	if amount <= 0 {
		return fmt.Errorf("profit goal must be positive, got %.2f", amount)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.goals[subscriberID] = amount
	return nil
}

// Goal returns the subscriber's profit goal, if one was set
func (l *Ledger) Goal(subscriberID int64) (float64, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	goal, ok := l.goals[subscriberID]
	return goal, ok
}

// Progress returns the subscriber's progress towards their goal as a
// percentage. The second return is false when no goal was set.
func (l *Ledger) Progress(subscriberID int64) (float64, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	goal, ok := l.goals[subscriberID]
	if !ok || goal <= 0 {
		return 0, false
	}

	return l.totals[subscriberID] / goal * 100, true
}

// DayTotal returns the combined profit logged by all subscribers on the
// given date, used by the scheduled summary report.
func (l *Ledger) DayTotal(at time.Time) float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	day := at.Format(dayLayout)
	total := 0.0
	for _, days := range l.byDay {
		total += days[day]
	}
	return total
}
