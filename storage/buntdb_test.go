package storage

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

func newRecord(signalID, recipientID int64, status core.DispatchStatus, createdAt time.Time) *core.DispatchRecord {
	return &core.DispatchRecord{
		SignalID:    signalID,
		RecipientID: recipientID,
		Symbol:      "BTC/USDT",
		Direction:   core.DirectionBuy,
		Status:      status,
		CreatedAt:   createdAt,
	}
}

func TestBuntStorage_CreateAssignsSequentialIDs(t *testing.T) {
	store, err := FromMemory(testLogger())
	require.NoError(t, err)

	first := newRecord(1, 100, core.DispatchStatusPending, time.Now())
	second := newRecord(2, 100, core.DispatchStatusPending, time.Now())

	require.NoError(t, store.CreateRecord(context.Background(), first))
	require.NoError(t, store.CreateRecord(context.Background(), second))

	require.Equal(t, int64(1), first.ID)
	require.Equal(t, int64(2), second.ID)
}

func TestBuntStorage_RecordsWithFilters(t *testing.T) {
	store, err := FromMemory(testLogger())
	require.NoError(t, err)

	now := time.Now()
	records := []*core.DispatchRecord{
		newRecord(1, 100, core.DispatchStatusPending, now.Add(-2*time.Hour)),
		newRecord(1, 200, core.DispatchStatusConfirmed, now.Add(-time.Hour)),
		newRecord(2, 100, core.DispatchStatusPending, now),
	}
	for _, record := range records {
		require.NoError(t, store.CreateRecord(context.Background(), record))
	}

	byRecipient, err := store.Records(context.Background(), core.WithRecipient(100))
	require.NoError(t, err)
	require.Len(t, byRecipient, 2)

	bySignal, err := store.Records(context.Background(), core.WithSignal(1))
	require.NoError(t, err)
	require.Len(t, bySignal, 2)

	pending, err := store.Records(context.Background(),
		core.WithRecipient(100),
		core.WithStatus(core.DispatchStatusPending),
	)
	require.NoError(t, err)
	require.Len(t, pending, 2)

	byID, err := store.Records(context.Background(), core.WithID(records[1].ID))
	require.NoError(t, err)
	require.Len(t, byID, 1)
	require.Equal(t, core.DispatchStatusConfirmed, byID[0].Status)

	older, err := store.Records(context.Background(), core.WithCreatedBeforeOrEqual(now.Add(-30*time.Minute)))
	require.NoError(t, err)
	require.Len(t, older, 2)
}

func TestBuntStorage_RecordsOrderedByCreation(t *testing.T) {
	store, err := FromMemory(testLogger())
	require.NoError(t, err)

	now := time.Now()
	newest := newRecord(3, 100, core.DispatchStatusPending, now)
	oldest := newRecord(1, 100, core.DispatchStatusPending, now.Add(-2*time.Hour))
	middle := newRecord(2, 100, core.DispatchStatusPending, now.Add(-time.Hour))

	for _, record := range []*core.DispatchRecord{newest, oldest, middle} {
		require.NoError(t, store.CreateRecord(context.Background(), record))
	}

	all, err := store.Records(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, int64(1), all[0].SignalID)
	require.Equal(t, int64(2), all[1].SignalID)
	require.Equal(t, int64(3), all[2].SignalID)
}

func TestBuntStorage_UpdateRecord(t *testing.T) {
	store, err := FromMemory(testLogger())
	require.NoError(t, err)

	record := newRecord(1, 100, core.DispatchStatusPending, time.Now())
	require.NoError(t, store.CreateRecord(context.Background(), record))

	record.Status = core.DispatchStatusConfirmed
	record.RespondedAt = time.Now()
	require.NoError(t, store.UpdateRecord(context.Background(), record))

	stored, err := store.Records(context.Background(), core.WithID(record.ID))
	require.NoError(t, err)
	require.Len(t, stored, 1)
	require.Equal(t, core.DispatchStatusConfirmed, stored[0].Status)
	require.False(t, stored[0].RespondedAt.IsZero())
}

func TestBuntStorage_UpdateUnknownRecord(t *testing.T) {
	store, err := FromMemory(testLogger())
	require.NoError(t, err)

	record := newRecord(1, 100, core.DispatchStatusPending, time.Now())
	record.ID = 42
	require.Error(t, store.UpdateRecord(context.Background(), record))
}
