package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	d, err := ParseDay(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestParseDay(t *testing.T) {
	d, err := ParseDay(" 2024-07-10 ")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 7, 10, 0, 0, 0, 0, time.UTC), d)

	for _, bad := range []string{"", "2024-13-01", "10/07/2024", "2024-07-10T00:00:00Z"} {
		_, err := ParseDay(bad)
		assert.ErrorIs(t, err, ErrInvalidDay, bad)
	}
}

func TestDay_TruncatesToUTCMidnight(t *testing.T) {
	paris := time.FixedZone("CEST", 2*3600)
	got := Day(time.Date(2024, 7, 10, 23, 30, 0, 0, paris))
	assert.Equal(t, "2024-07-10", FormatDay(got))
	assert.Equal(t, time.UTC, got.Location())
}

func TestDays(t *testing.T) {
	got := Days(day("2024-02-28"), day("2024-03-01"))
	require.Len(t, got, 3)
	assert.Equal(t, "2024-02-29", FormatDay(got[1]))

	assert.Len(t, Days(day("2024-07-10"), day("2024-07-10")), 1)
	assert.Nil(t, Days(day("2024-07-11"), day("2024-07-10")))
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 0, DaysBetween(day("2024-07-10"), day("2024-07-10")))
	assert.Equal(t, 5, DaysBetween(day("2024-07-10"), day("2024-07-15")))
	assert.Equal(t, -1, DaysBetween(day("2024-07-10"), day("2024-07-09")))
	assert.Equal(t, 31, DaysBetween(day("2024-03-15"), day("2024-04-15")))
}

func TestRange(t *testing.T) {
	r := Range{From: day("2024-07-10"), To: day("2024-07-12")}
	assert.True(t, r.Valid())
	assert.True(t, r.Contains(day("2024-07-10")))
	assert.True(t, r.Contains(day("2024-07-12")))
	assert.False(t, r.Contains(day("2024-07-13")))

	assert.False(t, Range{From: day("2024-07-12"), To: day("2024-07-10")}.Valid())
	assert.False(t, Range{To: day("2024-07-10")}.Valid())
}
