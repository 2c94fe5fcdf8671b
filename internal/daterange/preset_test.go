package daterange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisedwards/rangekit/internal/zones"
)

// newTestEngine pins the clock and makes the resolver ignore the host zone.
func newTestEngine(now time.Time) *Engine {
	return New(
		WithClock(FixedClock(now)),
		WithResolver(zones.NewResolver(zones.FallbackZone).WithSystem(func() string { return "" })),
	)
}

func TestPreset_FixedClockUTC(t *testing.T) {
	now := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	e := newTestEngine(now)

	tests := []struct {
		preset    Preset
		wantStart string
		wantEnd   string
	}{
		{SevenDay, "2025-01-04", "2025-01-10"},
		{ThirtyDay, "2024-12-12", "2025-01-10"},
		{NinetyDay, "2024-10-13", "2025-01-10"},
		{TwelveMonth, "2024-01-10", "2025-01-10"},
		{YearToDate, "2025-01-01", "2025-01-10"},
	}

	for _, tt := range tests {
		t.Run(tt.preset.String(), func(t *testing.T) {
			r, err := e.Preset(tt.preset, "UTC")
			require.NoError(t, err)

			assert.Equal(t, tt.wantStart, r.StartDate().String())
			assert.Equal(t, tt.wantEnd, r.EndDate().String())
			assert.Equal(t, tt.preset, r.Preset)
			assert.Equal(t, "UTC", r.Zone)

			start, _ := ParseDate(tt.wantStart)
			assert.True(t, r.Start.Equal(start.StartIn(time.UTC)), "start should be start of day")
			assert.True(t, r.End.Equal(time.Date(2025, 1, 10, 23, 59, 59, 999999999, time.UTC)), "end should be end of today")
		})
	}
}

func TestPreset_EndIsEndOfTodayInEveryZone(t *testing.T) {
	now := time.Date(2025, 6, 30, 23, 30, 0, 0, time.UTC)
	e := newTestEngine(now)

	for _, zone := range []string{"UTC", "America/Chicago", "Asia/Tokyo", "Pacific/Kiritimati", "Pacific/Pago_Pago"} {
		loc := mustLoad(t, zone)
		today := DateOf(now, loc)
		for _, p := range Presets() {
			r, err := e.Preset(p, zone)
			require.NoError(t, err)
			assert.True(t, r.End.Equal(today.EndIn(loc)), "%s/%s: end = %v", zone, p, r.End)
			assert.False(t, r.End.Before(r.Start), "%s/%s: start after end", zone, p)
		}
	}
}

func TestPreset_TodayDependsOnZone(t *testing.T) {
	// 2025-01-10T03:00Z is Jan 10 in UTC but Jan 9 in Chicago.
	e := newTestEngine(time.Date(2025, 1, 10, 3, 0, 0, 0, time.UTC))

	utc, err := e.Preset(SevenDay, "UTC")
	require.NoError(t, err)
	chicago, err := e.Preset(SevenDay, "America/Chicago")
	require.NoError(t, err)

	assert.Equal(t, "2025-01-10", utc.EndDate().String())
	assert.Equal(t, "2025-01-09", chicago.EndDate().String())
	assert.Equal(t, "2025-01-03", chicago.StartDate().String())
}

func TestPreset_TwelveMonthClipsLeapDay(t *testing.T) {
	e := newTestEngine(time.Date(2024, 2, 29, 12, 0, 0, 0, time.UTC))

	r, err := e.Preset(TwelveMonth, "UTC")
	require.NoError(t, err)
	assert.Equal(t, "2023-02-28", r.StartDate().String())
	assert.Equal(t, "2024-02-29", r.EndDate().String())
}

func TestPreset_CustomAndUnknownFallBackToSevenDay(t *testing.T) {
	e := newTestEngine(time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC))
	want, err := e.Preset(SevenDay, "UTC")
	require.NoError(t, err)

	for _, p := range []Preset{Custom, Preset(42), Preset(-1)} {
		got, err := e.Preset(p, "UTC")
		require.NoError(t, err)
		assert.Equal(t, want, got, "preset %d", int(p))
	}
}

func TestPreset_EmptyZoneUsesResolver(t *testing.T) {
	e := New(
		WithClock(FixedClock(time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC))),
		WithResolver(zones.NewResolver("UTC").WithSystem(func() string { return "Asia/Tokyo" })),
	)

	r, err := e.Preset(SevenDay, "")
	require.NoError(t, err)
	assert.Equal(t, "Asia/Tokyo", r.Zone)
	assert.Equal(t, "Asia/Tokyo", r.Location().String())
}

func TestPreset_InvalidZone(t *testing.T) {
	e := newTestEngine(time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC))

	_, err := e.Preset(SevenDay, "Invalid/Timezone")
	assert.ErrorIs(t, err, zones.ErrUnknownZone)
}

func TestPreset_FilteredZone(t *testing.T) {
	e := New(
		WithClock(FixedClock(time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC))),
		WithLoader(zones.NewLoader(zones.NewFilter([]string{"America/*"}, nil))),
	)

	_, err := e.Preset(SevenDay, "Europe/London")
	assert.ErrorIs(t, err, zones.ErrZoneNotAllowed)
}

func TestParsePreset(t *testing.T) {
	tests := []struct {
		in     string
		want   Preset
		wantOK bool
	}{
		{"7d", SevenDay, true},
		{"30d", ThirtyDay, true},
		{"90D", NinetyDay, true},
		{"12m", TwelveMonth, true},
		{"ytd", YearToDate, true},
		{"custom", Custom, true},
		{"SevenDay", SevenDay, true},
		{"YearToDate", YearToDate, true},
		{" twelvemonth ", TwelveMonth, true},
		{"fortnight", SevenDay, false},
		{"", SevenDay, false},
	}

	for _, tt := range tests {
		got, ok := ParsePreset(tt.in)
		assert.Equal(t, tt.want, got, "ParsePreset(%q)", tt.in)
		assert.Equal(t, tt.wantOK, ok, "ParsePreset(%q) ok", tt.in)
	}
}

func TestPreset_TextRoundTrip(t *testing.T) {
	for _, p := range Presets() {
		b, err := p.MarshalText()
		require.NoError(t, err)

		var got Preset
		require.NoError(t, got.UnmarshalText(b))
		assert.Equal(t, p, got)
		assert.NotEmpty(t, p.Label())
	}

	var p Preset = YearToDate
	require.NoError(t, p.UnmarshalText([]byte("bogus")))
	assert.Equal(t, SevenDay, p)
}
