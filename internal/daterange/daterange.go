// Package daterange turns preset and custom date-range selections into
// zone-correct instants, serializes them for transport, realigns them when the
// authoritative timezone changes, and partitions them into keyed buckets.
//
// All operations are pure given the Engine's Clock: no I/O, no shared mutable
// state. Persisting ranges and fetching data are the caller's job.
package daterange

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chrisedwards/rangekit/internal/zones"
)

var (
	// ErrIncompleteRange means a custom range was missing its start or end.
	// The caller must not apply a partial range.
	ErrIncompleteRange = errors.New("custom range needs both a start and an end date")

	// ErrUnknownGranularity is returned for granularities other than Day and Month.
	ErrUnknownGranularity = errors.New("unknown granularity")
)

// DateRange is a resolved, zone-aligned range of whole days.
// Start is the start of its first day and End the end of its last day, both
// expressed in the range's zone (their Location is that zone).
type DateRange struct {
	Start  time.Time
	End    time.Time
	Preset Preset
	Zone   string
}

// IsZero reports whether r is the zero DateRange.
func (r DateRange) IsZero() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

// Location returns the zone the range's instants are expressed in.
func (r DateRange) Location() *time.Location {
	return r.Start.Location()
}

// StartDate returns the zone-local calendar date of Start.
func (r DateRange) StartDate() Date {
	return DateOf(r.Start, r.Location())
}

// EndDate returns the zone-local calendar date of End.
func (r DateRange) EndDate() Date {
	return DateOf(r.End, r.Location())
}

// Days returns the inclusive number of zone-local calendar days in r.
func (r DateRange) Days() int {
	return r.StartDate().DaysUntil(r.EndDate()) + 1
}

// Granularity returns the bucket granularity GranularityFor picks for r.
func (r DateRange) Granularity() Granularity {
	return GranularityFor(r.Days())
}

// Contains reports whether t falls within r, both ends inclusive.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

func (r DateRange) String() string {
	return fmt.Sprintf("%s %s..%s %s", r.Preset, r.StartDate(), r.EndDate(), r.Zone)
}

// Engine resolves, serializes, realigns and buckets date ranges.
// It is safe for concurrent use.
type Engine struct {
	clock    Clock
	resolver *zones.Resolver
	loader   *zones.Loader
	logger   *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the source of "now". Defaults to SystemClock.
func WithClock(c Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithResolver sets the zone resolver used for empty zone arguments.
func WithResolver(r *zones.Resolver) Option {
	return func(e *Engine) { e.resolver = r }
}

// WithLoader sets the location loader, which also enforces any zone filter.
func WithLoader(l *zones.Loader) Option {
	return func(e *Engine) { e.loader = l }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		clock:    SystemClock,
		resolver: zones.NewResolver(""),
		loader:   zones.NewLoader(nil),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ResolveZone returns the effective zone name for zone.
func (e *Engine) ResolveZone(zone string) string {
	return e.resolver.Resolve(zone)
}

// location resolves and loads zone.
func (e *Engine) location(zone string) (string, *time.Location, error) {
	name := e.resolver.Resolve(zone)
	loc, err := e.loader.Load(name)
	if err != nil {
		return "", nil, err
	}
	return name, loc, nil
}

// Today returns the zone-local calendar date of the clock's current instant.
func (e *Engine) Today(zone string) (Date, error) {
	_, loc, err := e.location(zone)
	if err != nil {
		return Date{}, err
	}
	return DateOf(e.clock.Now(), loc), nil
}

// Preset computes the window for p ending today in zone. Custom and unknown
// presets are treated as SevenDay. An empty zone is resolved through the
// Engine's resolver. The only errors come from loading the zone.
func (e *Engine) Preset(p Preset, zone string) (DateRange, error) {
	name, loc, err := e.location(zone)
	if err != nil {
		return DateRange{}, err
	}
	if p == Custom || !p.Valid() {
		p = SevenDay
	}
	today := DateOf(e.clock.Now(), loc)
	return DateRange{
		Start:  p.startFrom(today).StartIn(loc),
		End:    today.EndIn(loc),
		Preset: p,
		Zone:   name,
	}, nil
}
