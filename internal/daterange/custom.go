package daterange

import "time"

// Custom builds a whole-day range from two caller-supplied instants, each
// reduced to its calendar date in zone. A zero time.Time counts as absent and
// yields ErrIncompleteRange. An end before the start is swapped, not rejected.
func (e *Engine) Custom(start, end time.Time, zone string) (DateRange, error) {
	if start.IsZero() || end.IsZero() {
		return DateRange{}, ErrIncompleteRange
	}
	name, loc, err := e.location(zone)
	if err != nil {
		return DateRange{}, err
	}
	return customRange(DateOf(start, loc), DateOf(end, loc), name, loc), nil
}

// CustomDates is Custom for calendar labels that are already zone-local.
func (e *Engine) CustomDates(start, end Date, zone string) (DateRange, error) {
	if start.IsZero() || end.IsZero() {
		return DateRange{}, ErrIncompleteRange
	}
	name, loc, err := e.location(zone)
	if err != nil {
		return DateRange{}, err
	}
	return customRange(start, end, name, loc), nil
}

func customRange(start, end Date, zone string, loc *time.Location) DateRange {
	if end.Before(start) {
		start, end = end, start
	}
	return DateRange{
		Start:  start.StartIn(loc),
		End:    end.EndIn(loc),
		Preset: Custom,
		Zone:   zone,
	}
}
