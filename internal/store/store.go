// Package store persists named date ranges as TransportRecords.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/chrisedwards/rangekit/internal/daterange"
)

// Supported drivers.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

// ErrEmptyKey is returned when a range is stored or looked up under a blank key.
var ErrEmptyKey = errors.New("empty range key")

// Entry is a stored record with its key.
type Entry struct {
	Key       string                    `json:"key"`
	Record    daterange.TransportRecord `json:"record"`
	UpdatedAt time.Time                 `json:"updated_at"`
}

// Store saves TransportRecords by key. Implementations are safe for
// concurrent use. Get reports false, not an error, for a missing key.
type Store interface {
	Get(ctx context.Context, key string) (daterange.TransportRecord, bool, error)
	Put(ctx context.Context, key string, rec daterange.TransportRecord) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) ([]Entry, error)
	Close() error
}

// Open returns the store for driver at path. An empty driver means DriverFile.
func Open(driver, path string, logger *slog.Logger) (Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch driver {
	case DriverFile, "":
		s := NewFileStore(path)
		if err := s.Load(); err != nil {
			return nil, fmt.Errorf("loading range file: %w", err)
		}
		return s, nil
	case DriverSQLite:
		return OpenSQLStore(path, logger)
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}

func normalizeKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", ErrEmptyKey
	}
	return key, nil
}
