package profit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLedger_LogAccumulates(t *testing.T) {
	ledger := NewLedger()

	require.Equal(t, 150.0, ledger.Log(100, 150))
	require.Equal(t, 225.5, ledger.Log(100, 75.5))
	require.Equal(t, 225.5, ledger.Total(100))

	// Subscribers are independent
	require.Equal(t, 0.0, ledger.Total(200))
}

func TestLedger_GoalAndProgress(t *testing.T) {
	ledger := NewLedger()

	_, ok := ledger.Goal(100)
	require.False(t, ok)

	_, ok = ledger.Progress(100)
	require.False(t, ok)

	require.NoError(t, ledger.SetGoal(100, 1000))

	goal, ok := ledger.Goal(100)
	require.True(t, ok)
	require.Equal(t, 1000.0, goal)

	ledger.Log(100, 250)
	progress, ok := ledger.Progress(100)
	require.True(t, ok)
	require.Equal(t, 25.0, progress)
}

func TestLedger_RejectsNonPositiveGoal(t *testing.T) {
	ledger := NewLedger()

	require.Error(t, ledger.SetGoal(100, 0))
	require.Error(t, ledger.SetGoal(100, -50))

	_, ok := ledger.Goal(100)
	require.False(t, ok)
}

func TestLedger_DayTotal(t *testing.T) {
	ledger := NewLedger()

	today := time.Date(2025, 6, 2, 14, 0, 0, 0, time.UTC)
	yesterday := today.AddDate(0, 0, -1)

	ledger.LogAt(100, 100, today)
	ledger.LogAt(200, 50, today)
	ledger.LogAt(100, 999, yesterday)

	require.Equal(t, 150.0, ledger.DayTotal(today))
	require.Equal(t, 999.0, ledger.DayTotal(yesterday))
	require.Equal(t, 0.0, ledger.DayTotal(today.AddDate(0, 0, 1)))
}
