// Package storage provides dispatch record persistence backends
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/raykavin/signalcast/core"
	"github.com/tidwall/buntdb"
)

// BuntStorage implements core.DispatchStorage using BuntDB
type BuntStorage struct {
	lastID int64
	db     *buntdb.DB
	log    core.Logger
}

// FromMemory creates an in-memory storage
func FromMemory(log core.Logger) (core.DispatchStorage, error) {
	return NewBuntStorage(":memory:", log)
}

// FromFile creates a file-based storage
func FromFile(file string, log core.Logger) (core.DispatchStorage, error) {
	return NewBuntStorage(file, log)
}

// NewBuntStorage creates a new BuntDB storage instance
func NewBuntStorage(sourceFile string, log core.Logger) (core.DispatchStorage, error) {
	db, err := buntdb.Open(sourceFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open buntdb: %w", err)
	}

	err = db.CreateIndex("created_index", "*", buntdb.IndexJSON("created_at"))
	if err != nil {
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	return &BuntStorage{
		db:  db,
		log: log,
	}, nil
}

// getID generates a unique ID for dispatch records
func (b *BuntStorage) getID() int64 {
	return atomic.AddInt64(&b.lastID, 1)
}

// CreateRecord stores a new dispatch record in the database
func (b *BuntStorage) CreateRecord(_ context.Context, record *core.DispatchRecord) error {
	return b.db.Update(func(tx *buntdb.Tx) error {
		record.ID = b.getID()
		content, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("failed to marshal dispatch record: %w", err)
		}

		_, _, err = tx.Set(strconv.FormatInt(record.ID, 10), string(content), nil)
		if err != nil {
			return fmt.Errorf("failed to store dispatch record: %w", err)
		}

		return nil
	})
}

// UpdateRecord updates an existing dispatch record in the database
func (b *BuntStorage) UpdateRecord(_ context.Context, record *core.DispatchRecord) error {
	return b.db.Update(func(tx *buntdb.Tx) error {
		id := strconv.FormatInt(record.ID, 10)

		// Check if the record exists
		_, err := tx.Get(id)
		if err != nil {
			return fmt.Errorf("dispatch record not found: %w", err)
		}

		content, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("failed to marshal dispatch record: %w", err)
		}

		_, _, err = tx.Set(id, string(content), nil)
		if err != nil {
			return fmt.Errorf("failed to update dispatch record: %w", err)
		}

		return nil
	})
}

// Records retrieves dispatch records from the database based on provided filters
func (b *BuntStorage) Records(_ context.Context, filters ...core.RecordFilter) ([]*core.DispatchRecord, error) {
	records := make([]*core.DispatchRecord, 0)

	err := b.db.View(func(tx *buntdb.Tx) error {
		err := tx.Ascend("created_index", func(_, value string) bool {
			var record core.DispatchRecord
			err := json.Unmarshal([]byte(value), &record)
			if err != nil {
				b.log.WithError(err).Error("failed to unmarshal dispatch record")
				return true // Continue iteration
			}

			for _, filter := range filters {
				if !filter(record) {
					return true // Skip this record and continue iteration
				}
			}

			records = append(records, &record)
			return true
		})

		if err != nil {
			return fmt.Errorf("failed to iterate over dispatch records: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return records, nil
}

// Close closes the database connection
func (b *BuntStorage) Close() error {
	if b.db != nil {
		return b.db.Close()
	}
	return nil
}
