package daterange

import (
	"net/url"
	"strings"
)

// Query parameter names used by TransportRecord.Values.
const (
	QueryPreset = "range"
	QueryFrom   = "from"
	QueryTo     = "to"
	QueryZone   = "tz"
)

// TransportRecord is the persistence- and URL-safe form of a DateRange.
// Dates are zone-local labels, so the record does not depend on DST offsets.
type TransportRecord struct {
	Preset    string `json:"preset" yaml:"preset"`
	StartDate string `json:"start_date" yaml:"start_date"`
	EndDate   string `json:"end_date" yaml:"end_date"`
	Zone      string `json:"timezone" yaml:"timezone"`
}

// Serialize converts r into a TransportRecord. Labels are taken in the
// location r's instants carry, which the Engine sets to r.Zone.
func Serialize(r DateRange) TransportRecord {
	p := r.Preset
	if !p.Valid() {
		p = SevenDay
	}
	return TransportRecord{
		Preset:    p.String(),
		StartDate: r.StartDate().String(),
		EndDate:   r.EndDate().String(),
		Zone:      r.Zone,
	}
}

// Parse rebuilds a DateRange from rec and reports whether it succeeded.
//
// A relative preset ignores the stored dates and is recomputed for today, so
// parsing the same record on a later day gives a later window. Custom (or
// empty) presets rebuild the stored calendar dates in rec.Zone. Unrecognized
// preset tags are read as SevenDay. Malformed records return false instead of
// an error so callers can fall back to their own default.
func (e *Engine) Parse(rec TransportRecord) (DateRange, bool) {
	tag := strings.TrimSpace(rec.Preset)
	p, _ := ParsePreset(tag)
	if tag != "" && p != Custom {
		r, err := e.Preset(p, rec.Zone)
		if err != nil {
			e.logger.Debug("discarding stored range", "preset", tag, "timezone", rec.Zone, "error", err)
			return DateRange{}, false
		}
		return r, true
	}

	if strings.TrimSpace(rec.Zone) == "" {
		e.logger.Debug("discarding stored range", "preset", tag, "error", "missing timezone")
		return DateRange{}, false
	}
	start, err := ParseDate(rec.StartDate)
	if err != nil {
		e.logger.Debug("discarding stored range", "start_date", rec.StartDate, "error", err)
		return DateRange{}, false
	}
	end, err := ParseDate(rec.EndDate)
	if err != nil {
		e.logger.Debug("discarding stored range", "end_date", rec.EndDate, "error", err)
		return DateRange{}, false
	}
	r, err := e.CustomDates(start, end, rec.Zone)
	if err != nil {
		e.logger.Debug("discarding stored range", "timezone", rec.Zone, "error", err)
		return DateRange{}, false
	}
	return r, true
}

// Values encodes rec as URL query parameters.
func (rec TransportRecord) Values() url.Values {
	v := url.Values{}
	v.Set(QueryPreset, rec.Preset)
	if rec.StartDate != "" {
		v.Set(QueryFrom, rec.StartDate)
	}
	if rec.EndDate != "" {
		v.Set(QueryTo, rec.EndDate)
	}
	if rec.Zone != "" {
		v.Set(QueryZone, rec.Zone)
	}
	return v
}

// RecordFromValues decodes the parameters written by Values.
// Missing parameters stay empty; Parse decides whether the result is usable.
func RecordFromValues(v url.Values) TransportRecord {
	return TransportRecord{
		Preset:    v.Get(QueryPreset),
		StartDate: v.Get(QueryFrom),
		EndDate:   v.Get(QueryTo),
		Zone:      v.Get(QueryZone),
	}
}

// ParseQuery decodes a raw query string such as "range=30d&tz=UTC".
// A leading "?" is ignored.
func ParseQuery(raw string) (TransportRecord, error) {
	v, err := url.ParseQuery(strings.TrimPrefix(strings.TrimSpace(raw), "?"))
	if err != nil {
		return TransportRecord{}, err
	}
	return RecordFromValues(v), nil
}
