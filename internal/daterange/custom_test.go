package daterange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustom_SwapsInvertedDates(t *testing.T) {
	e := newTestEngine(time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC))

	start := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	r, err := e.Custom(start, end, "UTC")
	require.NoError(t, err)

	assert.Equal(t, "2025-03-01", r.StartDate().String())
	assert.Equal(t, "2025-03-10", r.EndDate().String())
	assert.Equal(t, Custom, r.Preset)
	assert.True(t, r.Start.Equal(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, r.End.Equal(time.Date(2025, 3, 10, 23, 59, 59, 999999999, time.UTC)))
}

func TestCustom_WholeDays(t *testing.T) {
	e := newTestEngine(time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC))
	chicago := mustLoad(t, "America/Chicago")

	// Mid-afternoon picks still produce whole-day bounds.
	start := time.Date(2025, 3, 1, 15, 30, 0, 0, chicago)
	end := time.Date(2025, 3, 3, 9, 0, 0, 0, chicago)

	r, err := e.Custom(start, end, "America/Chicago")
	require.NoError(t, err)
	assert.True(t, r.Start.Equal(time.Date(2025, 3, 1, 0, 0, 0, 0, chicago)))
	assert.True(t, r.End.Equal(time.Date(2025, 3, 3, 23, 59, 59, 999999999, chicago)))
	assert.Equal(t, 3, r.Days())
}

func TestCustom_DatesReadInTargetZone(t *testing.T) {
	e := newTestEngine(time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC))

	// 2025-03-10T02:00Z is still March 9 in Chicago.
	instant := time.Date(2025, 3, 10, 2, 0, 0, 0, time.UTC)
	r, err := e.Custom(instant, instant, "America/Chicago")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-09", r.StartDate().String())
	assert.Equal(t, 1, r.Days())
}

func TestCustom_MissingDate(t *testing.T) {
	e := newTestEngine(time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC))
	someDay := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	_, err := e.Custom(time.Time{}, someDay, "UTC")
	assert.ErrorIs(t, err, ErrIncompleteRange)

	_, err = e.Custom(someDay, time.Time{}, "UTC")
	assert.ErrorIs(t, err, ErrIncompleteRange)

	_, err = e.CustomDates(Date{}, NewDate(2025, 3, 1), "UTC")
	assert.ErrorIs(t, err, ErrIncompleteRange)
}

func TestCustomDates(t *testing.T) {
	e := newTestEngine(time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC))

	r, err := e.CustomDates(NewDate(2025, 1, 31), NewDate(2025, 1, 1), "America/New_York")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-01", r.StartDate().String())
	assert.Equal(t, "2025-01-31", r.EndDate().String())
	assert.Equal(t, 31, r.Days())
	assert.Equal(t, Day, r.Granularity())
	assert.True(t, r.Contains(time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)))
	assert.False(t, r.Contains(time.Date(2025, 2, 1, 5, 0, 0, 0, time.UTC)))
}
