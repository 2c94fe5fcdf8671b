package daterange

import (
	"fmt"
	"strings"
)

// Preset names a relative date range, or Custom for an explicit one.
type Preset int

const (
	SevenDay Preset = iota
	ThirtyDay
	NinetyDay
	TwelveMonth
	YearToDate
	Custom
)

var presetTags = [...]string{
	SevenDay:    "7d",
	ThirtyDay:   "30d",
	NinetyDay:   "90d",
	TwelveMonth: "12m",
	YearToDate:  "ytd",
	Custom:      "custom",
}

var presetNames = [...]string{
	SevenDay:    "sevenday",
	ThirtyDay:   "thirtyday",
	NinetyDay:   "ninetyday",
	TwelveMonth: "twelvemonth",
	YearToDate:  "yeartodate",
	Custom:      "custom",
}

var presetLabels = [...]string{
	SevenDay:    "Last 7 days",
	ThirtyDay:   "Last 30 days",
	NinetyDay:   "Last 90 days",
	TwelveMonth: "Last 12 months",
	YearToDate:  "Year to date",
	Custom:      "Custom",
}

// Presets returns every preset in menu order.
func Presets() []Preset {
	return []Preset{SevenDay, ThirtyDay, NinetyDay, TwelveMonth, YearToDate, Custom}
}

// ParsePreset maps a wire tag ("7d", "ytd", ...) or enum name ("SevenDay",
// case-insensitive) to a Preset. Unrecognized input yields SevenDay and false.
func ParsePreset(s string) (Preset, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, p := range Presets() {
		if s == presetTags[p] || s == presetNames[p] {
			return p, true
		}
	}
	return SevenDay, false
}

// Valid reports whether p is one of the declared presets.
func (p Preset) Valid() bool {
	return p >= SevenDay && p <= Custom
}

// String returns the wire tag.
func (p Preset) String() string {
	if !p.Valid() {
		return fmt.Sprintf("Preset(%d)", int(p))
	}
	return presetTags[p]
}

// Label returns the human-readable menu label.
func (p Preset) Label() string {
	if !p.Valid() {
		return presetLabels[SevenDay]
	}
	return presetLabels[p]
}

// MarshalText encodes p as its wire tag.
func (p Preset) MarshalText() ([]byte, error) {
	if !p.Valid() {
		p = SevenDay
	}
	return []byte(p.String()), nil
}

// UnmarshalText decodes a wire tag. Unknown tags decode to SevenDay.
func (p *Preset) UnmarshalText(b []byte) error {
	*p, _ = ParsePreset(string(b))
	return nil
}

// startFrom returns the first calendar day of the window that ends on today.
// Custom and unknown values behave as SevenDay.
func (p Preset) startFrom(today Date) Date {
	switch p {
	case ThirtyDay:
		return today.AddDays(-29)
	case NinetyDay:
		return today.AddDays(-89)
	case TwelveMonth:
		return today.AddMonths(-12)
	case YearToDate:
		return NewDate(today.Year, 1, 1)
	default:
		return today.AddDays(-6)
	}
}
