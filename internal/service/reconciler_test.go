package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/paillette/internal/model"
	"github.com/iliyamo/paillette/internal/repository"
)

func TestSetAvailability_AssignThenUnavailable(t *testing.T) {
	f := newFixture(t)
	a1 := f.artist("Alice")
	s := f.show("Lyon", "2024-07-10", "2024-07-12", nil,
		RepresentationPlan{Name: "Set A", Dates: days("2024-07-11")})
	rd := f.dateID(s.ID, "Set A", "2024-07-11")

	res, err := f.set(AvailabilityChange{ArtistID: a1, From: d("2024-07-11"), To: d("2024-07-11"), Decision: model.Available, RepresentationDateID: rd})
	require.NoError(t, err)
	assert.Equal(t, "LYO", res.Value)
	assert.Empty(t, res.Removed)
	assert.Equal(t, 1, f.assignmentsOn(a1, "2024-07-11"))

	res, err = f.set(AvailabilityChange{ArtistID: a1, From: d("2024-07-11"), To: d("2024-07-11"), Decision: model.Unavailable})
	require.NoError(t, err)
	assert.Equal(t, "0", res.Value)
	assert.Equal(t, 0, f.count("artist_representation_date", "artist_id = ?", a1))
	assert.Equal(t, 1, f.count("artist_availability", "artist_id = ? AND date = ? AND available = 0", a1, "2024-07-11"))
	assert.Equal(t, 1, f.count("artist_availability", "artist_id = ?", a1))

	require.Len(t, res.Removed, 1)
	assert.Equal(t, Detached{Value: "LYO", PreviousDays: 1, NextDays: 1, ShowID: s.ID}, res.Removed[0])
}

func TestSetAvailability_RangeAssignsEveryPlayingDay(t *testing.T) {
	f := newFixture(t)
	a1 := f.artist("Alice")
	s := f.show("Nantes", "2024-08-01", "2024-08-05", nil,
		RepresentationPlan{Name: "Matinee", Dates: days("2024-08-01", "2024-08-02", "2024-08-04")},
		RepresentationPlan{Name: "Evening", Dates: days("2024-08-03")})
	rd := f.dateID(s.ID, "Matinee", "2024-08-02")

	res, err := f.set(AvailabilityChange{ArtistID: a1, From: d("2024-08-01"), To: d("2024-08-04"), Decision: model.Available, RepresentationDateID: rd})
	require.NoError(t, err)
	assert.Equal(t, "NAN", res.Value)
	assert.Equal(t, 3, f.count("artist_representation_date", "artist_id = ?", a1))
	assert.Equal(t, 0, f.assignmentsOn(a1, "2024-08-03"))
	assert.Equal(t, 4, f.count("artist_availability", "artist_id = ? AND available = 1", a1))
}

func TestSetAvailability_AtMostOneAssignmentPerDay(t *testing.T) {
	f := newFixture(t)
	a1 := f.artist("Alice")
	s1 := f.show("Paris", "2024-09-01", "2024-09-03", nil, RepresentationPlan{Name: "A", Dates: days("2024-09-02")})
	s2 := f.show("Rouen", "2024-09-02", "2024-09-02", nil, RepresentationPlan{Name: "B", Dates: days("2024-09-02")})

	one := AvailabilityChange{ArtistID: a1, From: d("2024-09-02"), To: d("2024-09-02"), Decision: model.Available}
	one.RepresentationDateID = f.dateID(s1.ID, "A", "2024-09-02")
	_, err := f.set(one)
	require.NoError(t, err)

	one.RepresentationDateID = f.dateID(s2.ID, "B", "2024-09-02")
	res, err := f.set(one)
	require.NoError(t, err)
	assert.Equal(t, "ROU", res.Value)
	require.Len(t, res.Removed, 1)
	assert.Equal(t, "PAR", res.Removed[0].Value)
	assert.Equal(t, 1, res.Removed[0].PreviousDays)
	assert.Equal(t, 1, res.Removed[0].NextDays)

	// same call repeated: the show being assigned is not reported as removed
	res, err = f.set(one)
	require.NoError(t, err)
	assert.Empty(t, res.Removed)
	assert.Equal(t, 1, f.assignmentsOn(a1, "2024-09-02"))
}

func TestSetAvailability_UnsetClearsFlags(t *testing.T) {
	f := newFixture(t)
	a1 := f.artist("Alice")

	res, err := f.set(AvailabilityChange{ArtistID: a1, From: d("2024-07-01"), To: d("2024-07-03"), Decision: model.Available})
	require.NoError(t, err)
	assert.Equal(t, "1", res.Value)
	assert.Equal(t, 3, f.count("artist_availability", "artist_id = ?", a1))

	res, err = f.set(AvailabilityChange{ArtistID: a1, From: d("2024-07-02"), Decision: model.Unset})
	require.NoError(t, err)
	assert.Equal(t, "", res.Value)
	assert.Equal(t, 2, f.count("artist_availability", "artist_id = ?", a1))
	assert.Equal(t, 0, f.count("artist_availability", "artist_id = ? AND date = ?", a1, "2024-07-02"))
}

func TestSetAvailability_Rejections(t *testing.T) {
	f := newFixture(t)
	a1 := f.artist("Alice")
	s := f.show("Lille", "2024-07-10", "2024-07-12", nil, RepresentationPlan{Name: "A", Dates: days("2024-07-11")})
	rd := f.dateID(s.ID, "A", "2024-07-11")
	day := d("2024-07-11")

	cases := []struct {
		name string
		ch   AvailabilityChange
		want error
	}{
		{"unknown artist", AvailabilityChange{ArtistID: 999, From: day, To: day, Decision: model.Available}, repository.ErrArtistNotFound},
		{"unknown date", AvailabilityChange{ArtistID: a1, From: day, To: day, Decision: model.Available, RepresentationDateID: 999}, repository.ErrRepresentationDateNotFound},
		{"bad decision", AvailabilityChange{ArtistID: a1, From: day, To: day, Decision: "maybe"}, ErrInvalidDecision},
		{"inverted range", AvailabilityChange{ArtistID: a1, From: d("2024-07-12"), To: d("2024-07-10"), Decision: model.Available}, ErrInvalidRange},
		{"assigned but unavailable", AvailabilityChange{ArtistID: a1, From: day, To: day, Decision: model.Unavailable, RepresentationDateID: rd}, ErrConflictingDecision},
		{"outside the show", AvailabilityChange{ArtistID: a1, From: d("2024-07-11"), To: d("2024-07-13"), Decision: model.Available, RepresentationDateID: rd}, ErrOutOfRange},
		{"date not in range", AvailabilityChange{ArtistID: a1, From: d("2024-07-12"), To: d("2024-07-12"), Decision: model.Available, RepresentationDateID: rd}, ErrOutOfRange},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.set(tc.ch)
			assert.ErrorIs(t, err, tc.want)
		})
	}
	assert.Equal(t, 0, f.count("artist_availability", ""))
	assert.Equal(t, 0, f.count("artist_representation_date", ""))
}

func TestDetached_OneEntryPerShowAtEarliestDay(t *testing.T) {
	removed := []repository.Assignment{
		{ShowID: 1, ShowCode: "AAA", Date: d("2024-07-11"), ShowFrom: d("2024-07-10"), ShowTo: d("2024-07-14")},
		{ShowID: 1, ShowCode: "AAA", Date: d("2024-07-12"), ShowFrom: d("2024-07-10"), ShowTo: d("2024-07-14")},
		{ShowID: 2, ShowCode: "BBB", Date: d("2024-07-12"), ShowFrom: d("2024-07-12"), ShowTo: d("2024-07-12")},
		{ShowID: 3, ShowCode: "CCC", Date: d("2024-07-13"), ShowFrom: d("2024-07-13"), ShowTo: d("2024-07-13")},
	}
	got := detached(removed, 3)
	assert.Equal(t, []Detached{
		{Value: "AAA", PreviousDays: 1, NextDays: 3, ShowID: 1},
		{Value: "BBB", PreviousDays: 0, NextDays: 0, ShowID: 2},
	}, got)
}
