package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/chrisedwards/rangekit/internal/daterange"
)

// rangeRow is the ranges table.
type rangeRow struct {
	Key       string `gorm:"primaryKey"`
	Preset    string
	StartDate string
	EndDate   string
	Timezone  string
	UpdatedAt time.Time
}

func (rangeRow) TableName() string { return "ranges" }

func (r rangeRow) entry() Entry {
	return Entry{
		Key: r.Key,
		Record: daterange.TransportRecord{
			Preset:    r.Preset,
			StartDate: r.StartDate,
			EndDate:   r.EndDate,
			Zone:      r.Timezone,
		},
		UpdatedAt: r.UpdatedAt,
	}
}

// SQLStore keeps ranges in a SQLite database through gorm.
type SQLStore struct {
	db     *gorm.DB
	logger *slog.Logger
}

// OpenSQLStore opens (or creates) the database at dbPath and migrates the
// ranges table.
func OpenSQLStore(dbPath string, log *slog.Logger) (*SQLStore, error) {
	if log == nil {
		log = slog.Default()
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dsn := dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite allows one writer; a single connection keeps writes serialized.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&rangeRow{}); err != nil {
		return nil, fmt.Errorf("migrating ranges table: %w", err)
	}

	log.Debug("range database ready", "path", dbPath)
	return &SQLStore{db: db, logger: log}, nil
}

// Get returns the record stored under key and whether it exists.
func (s *SQLStore) Get(ctx context.Context, key string) (daterange.TransportRecord, bool, error) {
	key, err := normalizeKey(key)
	if err != nil {
		return daterange.TransportRecord{}, false, err
	}
	var row rangeRow
	err = s.db.WithContext(ctx).Where("`key` = ?", key).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return daterange.TransportRecord{}, false, nil
	}
	if err != nil {
		return daterange.TransportRecord{}, false, fmt.Errorf("reading range %q: %w", key, err)
	}
	return row.entry().Record, true, nil
}

// Put upserts rec under key. Writes that hit a locked database are retried.
func (s *SQLStore) Put(ctx context.Context, key string, rec daterange.TransportRecord) error {
	key, err := normalizeKey(key)
	if err != nil {
		return err
	}
	row := rangeRow{
		Key:       key,
		Preset:    rec.Preset,
		StartDate: rec.StartDate,
		EndDate:   rec.EndDate,
		Timezone:  rec.Zone,
		UpdatedAt: time.Now().UTC(),
	}

	err = retry.Do(
		func() error {
			return s.db.WithContext(ctx).Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "key"}},
				UpdateAll: true,
			}).Create(&row).Error
		},
		retry.Context(ctx),
		retry.Attempts(4),
		retry.Delay(50*time.Millisecond),
		retry.MaxDelay(time.Second),
		retry.DelayType(retry.FullJitterBackoffDelay),
		retry.RetryIf(isBusy),
		retry.OnRetry(func(n uint, err error) {
			s.logger.Debug("retrying range write", "key", key, "attempt", n+1, "error", err)
		}),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return fmt.Errorf("writing range %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Missing keys are not an error.
func (s *SQLStore) Delete(ctx context.Context, key string) error {
	key, err := normalizeKey(key)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Where("`key` = ?", key).Delete(&rangeRow{}).Error; err != nil {
		return fmt.Errorf("deleting range %q: %w", key, err)
	}
	return nil
}

// List returns all entries sorted by key.
func (s *SQLStore) List(ctx context.Context) ([]Entry, error) {
	var rows []rangeRow
	if err := s.db.WithContext(ctx).Order("`key`").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("listing ranges: %w", err)
	}
	out := make([]Entry, len(rows))
	for i, r := range rows {
		out[i] = r.entry()
	}
	return out, nil
}

// Close closes the underlying database connection.
func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// isBusy reports whether err is SQLite lock contention.
func isBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "SQLITE_BUSY")
}
