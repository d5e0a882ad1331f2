package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/raykavin/signalcast/core"
	"github.com/samber/lo"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// SQLStorage implements core.DispatchStorage using a SQL database via GORM
type SQLStorage struct {
	db *gorm.DB
}

// Config holds the configuration for SQL database connections
type Config struct {
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// DefaultConfig returns a default configuration for SQL connections
func DefaultConfig() Config {
	return Config{
		MaxIdleConns:    5,
		MaxOpenConns:    10,
		ConnMaxLifetime: time.Hour,
	}
}

// NewFromSQLite creates a new SQLite storage instance
func NewFromSQLite(dbPath string, config Config, opts ...gorm.Option) (core.DispatchStorage, error) {
	dialect := sqlite.Open(dbPath)
	return newFromSQL(dialect, config, opts...)
}

// newFromSQL creates a new SQL storage instance with the specified configuration
func newFromSQL(dialect gorm.Dialector, config Config, opts ...gorm.Option) (core.DispatchStorage, error) {
	db, err := gorm.Open(dialect, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(config.MaxIdleConns)
	sqlDB.SetMaxOpenConns(config.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(config.ConnMaxLifetime)

	// Auto migrate the dispatch record model
	if err = db.AutoMigrate(&core.DispatchRecord{}); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLStorage{db: db}, nil
}

// CreateRecord creates a new dispatch record in the SQL database
func (s *SQLStorage) CreateRecord(ctx context.Context, record *core.DispatchRecord) error {
	tx := s.db.WithContext(ctx)
	if result := tx.Create(record); result.Error != nil {
		return fmt.Errorf("failed to create dispatch record: %w", result.Error)
	}
	return nil
}

// UpdateRecord updates an existing dispatch record in the SQL database
func (s *SQLStorage) UpdateRecord(ctx context.Context, record *core.DispatchRecord) error {
	tx := s.db.WithContext(ctx)

	// Check if the record exists
	var existing core.DispatchRecord
	if result := tx.First(&existing, record.ID); result.Error != nil {
		return fmt.Errorf("dispatch record not found: %w", result.Error)
	}

	if result := tx.Save(record); result.Error != nil {
		return fmt.Errorf("failed to update dispatch record: %w", result.Error)
	}

	return nil
}

// Records retrieves dispatch records from the SQL database based on provided filters
func (s *SQLStorage) Records(ctx context.Context, filters ...core.RecordFilter) ([]*core.DispatchRecord, error) {
	tx := s.db.WithContext(ctx)

	var records []*core.DispatchRecord
	result := tx.Order("created_at").Find(&records)
	if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to fetch dispatch records: %w", result.Error)
	}

	// Filters apply in memory, matching the document-store backend
	if len(filters) > 0 {
		records = lo.Filter(records, func(record *core.DispatchRecord, _ int) bool {
			for _, filter := range filters {
				if !filter(*record) {
					return false
				}
			}
			return true
		})
	}

	return records, nil
}
