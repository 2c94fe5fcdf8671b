package daterange

import (
	"fmt"
	"strings"
	"time"
)

// Granularity is the width of a bucket.
type Granularity string

const (
	Day   Granularity = "day"
	Month Granularity = "month"
)

// MaxDayBuckets is the longest span, in days, still bucketed by day.
const MaxDayBuckets = 45

// GranularityFor picks the bucket granularity for an inclusive day span:
// Day up to and including MaxDayBuckets, Month beyond it.
func GranularityFor(days int) Granularity {
	if days <= MaxDayBuckets {
		return Day
	}
	return Month
}

// ParseGranularity parses "day" or "month", case-insensitively.
func ParseGranularity(s string) (Granularity, error) {
	switch g := Granularity(strings.ToLower(strings.TrimSpace(s))); g {
	case Day, Month:
		return g, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownGranularity, s)
	}
}

// Bucket is one keyed sub-interval of a range. Start and End are both
// inclusive; the next bucket starts one nanosecond after End.
type Bucket struct {
	Key   string    `json:"key"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls within b, both ends inclusive.
func (b Bucket) Contains(t time.Time) bool {
	return !t.Before(b.Start) && !t.After(b.End)
}

// PlanBuckets partitions r into ascending, gapless buckets in loc.
//
// Day buckets cover each calendar day from r's start date to its end date and
// are keyed "2006-01-02". Month buckets cover whole calendar months from the
// start date's month to the end date's month and are keyed "2006-01"; the
// first and last month may extend past r's own bounds.
func PlanBuckets(r DateRange, g Granularity, loc *time.Location) ([]Bucket, error) {
	first, last := DateOf(r.Start, loc), DateOf(r.End, loc)
	if last.Before(first) {
		first, last = last, first
	}

	switch g {
	case Day:
		buckets := make([]Bucket, 0, first.DaysUntil(last)+1)
		for d := first; !last.Before(d); d = d.AddDays(1) {
			buckets = append(buckets, Bucket{
				Key:   d.String(),
				Start: d.StartIn(loc),
				End:   d.EndIn(loc),
			})
		}
		return buckets, nil
	case Month:
		var buckets []Bucket
		for m := first.FirstOfMonth(); !last.Before(m); m = m.AddMonths(1) {
			buckets = append(buckets, Bucket{
				Key:   m.MonthKey(),
				Start: m.StartIn(loc),
				End:   m.AddMonths(1).StartIn(loc).Add(-time.Nanosecond),
			})
		}
		return buckets, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownGranularity, g)
	}
}

// KeyFor returns the key of the g-bucket that t falls into in loc, so a record
// timestamp can be joined against PlanBuckets output.
func KeyFor(t time.Time, g Granularity, loc *time.Location) (string, error) {
	d := DateOf(t, loc)
	switch g {
	case Day:
		return d.String(), nil
	case Month:
		return d.MonthKey(), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownGranularity, g)
	}
}

// Buckets plans r's buckets at granularity g in r's own zone.
func (e *Engine) Buckets(r DateRange, g Granularity) ([]Bucket, error) {
	_, loc, err := e.location(r.Zone)
	if err != nil {
		return nil, err
	}
	return PlanBuckets(r, g, loc)
}

// Plan buckets r at the granularity GranularityFor picks for its span.
func (e *Engine) Plan(r DateRange) (Granularity, []Bucket, error) {
	g := r.Granularity()
	buckets, err := e.Buckets(r, g)
	if err != nil {
		return "", nil, err
	}
	return g, buckets, nil
}
