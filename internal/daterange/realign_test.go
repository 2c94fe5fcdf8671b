package daterange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRealign_CustomKeepsCalendarLabels(t *testing.T) {
	e := newTestEngine(time.Date(2025, 2, 15, 12, 0, 0, 0, time.UTC))

	chicago, err := e.CustomDates(NewDate(2025, 1, 1), NewDate(2025, 1, 31), "America/Chicago")
	require.NoError(t, err)

	ny, err := e.Realign(chicago, "America/New_York")
	require.NoError(t, err)

	assert.Equal(t, "America/New_York", ny.Zone)
	assert.Equal(t, Custom, ny.Preset)
	assert.Equal(t, "2025-01-01", ny.StartDate().String())
	assert.Equal(t, "2025-01-31", ny.EndDate().String())

	// New York midnight comes one hour earlier than Chicago midnight.
	assert.Equal(t, time.Hour, chicago.Start.Sub(ny.Start))
	assert.Equal(t, time.Hour, chicago.End.Sub(ny.End))
	assert.True(t, ny.Start.Equal(time.Date(2025, 1, 1, 5, 0, 0, 0, time.UTC)))
}

func TestRealign_PresetRecomputesToday(t *testing.T) {
	// 2025-01-10T03:00Z: Jan 9 in Chicago, Jan 10 in UTC.
	e := newTestEngine(time.Date(2025, 1, 10, 3, 0, 0, 0, time.UTC))

	chicago, err := e.Preset(SevenDay, "America/Chicago")
	require.NoError(t, err)
	require.Equal(t, "2025-01-09", chicago.EndDate().String())

	utc, err := e.Realign(chicago, "UTC")
	require.NoError(t, err)

	assert.Equal(t, SevenDay, utc.Preset)
	assert.Equal(t, "UTC", utc.Zone)
	assert.Equal(t, "2025-01-04", utc.StartDate().String())
	assert.Equal(t, "2025-01-10", utc.EndDate().String())
}

func TestRealign_SameZoneIsNoOp(t *testing.T) {
	e := newTestEngine(time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC))

	r, err := e.CustomDates(NewDate(2025, 1, 1), NewDate(2025, 1, 5), "Europe/London")
	require.NoError(t, err)

	got, err := e.Realign(r, "Europe/London")
	require.NoError(t, err)
	assert.Equal(t, r, got)
}

func TestRealign_UnknownZone(t *testing.T) {
	e := newTestEngine(time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC))

	r, err := e.Preset(ThirtyDay, "UTC")
	require.NoError(t, err)

	_, err = e.Realign(r, "Nowhere/Land")
	assert.Error(t, err)
}
