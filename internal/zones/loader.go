package zones

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/maypok86/otter/v2"
)

var (
	// ErrUnknownZone is returned for identifiers the tz database does not know.
	ErrUnknownZone = errors.New("unknown timezone")

	// ErrZoneNotAllowed is returned for zones rejected by the loader's Filter.
	ErrZoneNotAllowed = errors.New("timezone not allowed")
)

const locationCacheSize = 1024

// Loader loads *time.Location values by IANA name and caches them.
// Safe for concurrent use.
type Loader struct {
	cache  *otter.Cache[string, *time.Location]
	filter *Filter
}

// NewLoader creates a Loader. A nil filter admits every zone.
func NewLoader(filter *Filter) *Loader {
	return &Loader{
		cache: otter.Must(&otter.Options[string, *time.Location]{
			MaximumSize: locationCacheSize,
		}),
		filter: filter,
	}
}

// Load returns the location for name.
// Errors wrap ErrUnknownZone or ErrZoneNotAllowed.
func (l *Loader) Load(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: empty name", ErrUnknownZone)
	}
	if !l.filter.Allowed(name) {
		return nil, fmt.Errorf("%w: %s", ErrZoneNotAllowed, name)
	}
	if loc, ok := l.cache.GetIfPresent(name); ok {
		return loc, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrUnknownZone, name, err)
	}
	l.cache.Set(name, loc)
	return loc, nil
}

// Valid reports whether name loads and passes the filter.
func (l *Loader) Valid(name string) bool {
	_, err := l.Load(name)
	return err == nil
}

// Cached returns the approximate number of cached locations.
func (l *Loader) Cached() int {
	return l.cache.EstimatedSize()
}
