package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/chrisedwards/rangekit/internal/daterange"
)

const fileVersion = 1

// fileData is the top-level structure of the range file.
type fileData struct {
	Version int              `json:"version"`
	Ranges  map[string]Entry `json:"ranges"`
}

// FileStore keeps ranges in memory and writes the whole set to a JSON file
// on every change. Thread-safe for concurrent access.
type FileStore struct {
	path   string
	mu     sync.RWMutex
	ranges map[string]Entry
	now    func() time.Time
}

// NewFileStore creates a FileStore that persists to the given path.
// Call Load to read existing ranges.
func NewFileStore(path string) *FileStore {
	return &FileStore{
		path:   path,
		ranges: make(map[string]Entry),
		now:    time.Now,
	}
}

// Path returns the backing file.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the range file from disk. Returns nil if the file doesn't exist.
func (s *FileStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	var fd fileData
	if err := json.Unmarshal(data, &fd); err != nil {
		return err
	}

	s.ranges = make(map[string]Entry, len(fd.Ranges))
	for key, e := range fd.Ranges {
		e.Key = key
		s.ranges[key] = e
	}
	return nil
}

// Get returns the record stored under key and whether it exists.
func (s *FileStore) Get(_ context.Context, key string) (daterange.TransportRecord, bool, error) {
	key, err := normalizeKey(key)
	if err != nil {
		return daterange.TransportRecord{}, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.ranges[key]
	return e.Record, ok, nil
}

// Put stores rec under key and writes the file. The in-memory set only
// changes once the write succeeds.
func (s *FileStore) Put(_ context.Context, key string, rec daterange.TransportRecord) error {
	key, err := normalizeKey(key)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.copyRanges()
	next[key] = Entry{Key: key, Record: rec, UpdatedAt: s.now().UTC()}
	if err := s.save(next); err != nil {
		return err
	}
	s.ranges = next
	return nil
}

// Delete removes key and writes the file. Missing keys are not an error.
func (s *FileStore) Delete(_ context.Context, key string) error {
	key, err := normalizeKey(key)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ranges[key]; !ok {
		return nil
	}
	next := s.copyRanges()
	delete(next, key)
	if err := s.save(next); err != nil {
		return err
	}
	s.ranges = next
	return nil
}

// List returns all entries sorted by key.
func (s *FileStore) List(_ context.Context) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, 0, len(s.ranges))
	for _, e := range s.ranges {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// Close is a no-op; every change is already on disk.
func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) copyRanges() map[string]Entry {
	next := make(map[string]Entry, len(s.ranges)+1)
	for k, e := range s.ranges {
		next[k] = e
	}
	return next
}

// save writes ranges to the range file.
func (s *FileStore) save(ranges map[string]Entry) error {
	// Ensure parent directory exists
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(fileData{Version: fileVersion, Ranges: ranges}, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.path, data, 0600)
}
