package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/paillette/internal/model"
	"github.com/iliyamo/paillette/internal/repository"
)

func TestCreateShow_WritesGraph(t *testing.T) {
	f := newFixture(t)
	a1, a2 := f.artist("Alice"), f.artist("Bruno")
	van := f.item(model.Vehicle, "Van")
	kit := f.item(model.Sound, "Kit")

	s := f.show("Évreux", "2024-07-10", "2024-07-12",
		Resources{model.Vehicle: {van, van}, model.Sound: {kit}},
		RepresentationPlan{Name: " Set A ", Dates: days("2024-07-10", "2024-07-11", "2024-07-11"), ArtistIDs: []uint64{a1, a2, a1}},
	)
	assert.Equal(t, "EVR", s.Code)

	details, err := f.reps.ListByShow(f.ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, "Set A", details[0].Name)
	require.Len(t, details[0].Dates, 2)
	assert.ElementsMatch(t, []uint64{a1, a2}, details[0].Dates[0].ArtistIDs)

	linked, err := f.equipment.LinkedIDs(f.ctx, model.Vehicle, s.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint64{van}, linked)
	assert.Equal(t, 1, f.count("sound_spectacle", "spectacle_id = ?", s.ID))
}

func TestCreateShow_InvalidRange(t *testing.T) {
	f := newFixture(t)
	err := f.inTx(func(sc Scope) error {
		_, err := f.cascade.CreateShow(f.ctx, sc, model.Show{Place: "Caen", DateFrom: d("2024-07-12"), DateTo: d("2024-07-10")}, nil, nil)
		return err
	})
	assert.ErrorIs(t, err, ErrInvalidRange)
	assert.Equal(t, 0, f.count("spectacle", ""))
}

func TestRebuildShow_ReplacesWholeGraph(t *testing.T) {
	f := newFixture(t)
	a1, a2 := f.artist("Alice"), f.artist("Bruno")
	van := f.item(model.Vehicle, "Van")
	s := f.show("Lyon", "2024-07-10", "2024-07-12", Resources{model.Vehicle: {van}},
		RepresentationPlan{Name: "Set A", Dates: days("2024-07-10", "2024-07-11"), ArtistIDs: []uint64{a1}})

	require.NoError(t, f.rebuild(s, nil,
		RepresentationPlan{Name: "Set A", Dates: days("2024-07-11"), ArtistIDs: []uint64{a2}}))

	details, err := f.reps.ListByShow(f.ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, details, 1)
	require.Len(t, details[0].Dates, 1)
	assert.Equal(t, "2024-07-11", model.FormatDay(details[0].Dates[0].Date))
	assert.Equal(t, []uint64{a2}, details[0].Dates[0].ArtistIDs)

	assert.Equal(t, 0, f.count("artist_representation_date", "artist_id = ?", a1))
	assert.Equal(t, 0, f.count("vehicle_spectacle", "spectacle_id = ?", s.ID))
	assert.Equal(t, 1, f.count("representation", "spectacle_id = ?", s.ID))
}

func TestRebuildShow_Idempotent(t *testing.T) {
	f := newFixture(t)
	a1 := f.artist("Alice")
	kit := f.item(model.Makeup, "Kit")
	res := Resources{model.Makeup: {kit}}
	reps := []RepresentationPlan{
		{Name: "Matinee", Dates: days("2024-07-10"), ArtistIDs: []uint64{a1}},
		{Name: "Evening", Dates: days("2024-07-10", "2024-07-11")},
	}
	s := f.show("Metz", "2024-07-10", "2024-07-11", res, reps...)

	snapshot := func() []int {
		return []int{
			f.count("representation", ""),
			f.count("representation_date", ""),
			f.count("artist_representation_date", ""),
			f.count("makeup_spectacle", ""),
		}
	}
	first := snapshot()
	require.NoError(t, f.rebuild(s, res, reps...))
	require.NoError(t, f.rebuild(s, res, reps...))
	assert.Equal(t, first, snapshot())
	assert.Equal(t, []int{2, 3, 1, 1}, first)
}

func TestRebuildShow_UnknownArtistRollsBack(t *testing.T) {
	f := newFixture(t)
	a1 := f.artist("Alice")
	s := f.show("Lyon", "2024-07-10", "2024-07-12", nil,
		RepresentationPlan{Name: "Set A", Dates: days("2024-07-10"), ArtistIDs: []uint64{a1}})

	changed := s
	changed.Place = "Nice"
	err := f.inTx(func(sc Scope) error {
		_, err := f.cascade.RebuildShow(f.ctx, sc, s.ID, changed, nil,
			[]RepresentationPlan{{Name: "Set B", Dates: days("2024-07-11"), ArtistIDs: []uint64{999}}})
		return err
	})
	assert.ErrorIs(t, err, repository.ErrConstraint)

	got, err := f.shows.GetByID(f.ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lyon", got.Place)
	assert.Equal(t, "LYO", got.Code)
	assert.Equal(t, 1, f.count("artist_representation_date", "artist_id = ?", a1))
	assert.Equal(t, 0, f.count("representation", "name = ?", "Set B"))
}

func TestRebuildShow_UnknownShow(t *testing.T) {
	f := newFixture(t)
	err := f.rebuild(model.Show{ID: 42, Place: "Lyon", DateFrom: d("2024-07-10"), DateTo: d("2024-07-10")}, nil)
	assert.ErrorIs(t, err, repository.ErrShowNotFound)
}

func TestDeleteShow_LeavesNoOrphans(t *testing.T) {
	f := newFixture(t)
	a1 := f.artist("Alice")
	card := f.item(model.Card, "Visa")
	s := f.show("Lyon", "2024-07-10", "2024-07-12", Resources{model.Card: {card}},
		RepresentationPlan{Name: "Set A", Dates: days("2024-07-10", "2024-07-11"), ArtistIDs: []uint64{a1}})
	other := f.show("Nice", "2024-07-10", "2024-07-10", Resources{model.Card: {card}},
		RepresentationPlan{Name: "Solo", Dates: days("2024-07-10")})
	img := model.Image{ShowID: s.ID, Filename: "roadmap.pdf"}
	require.NoError(t, f.images.Create(f.ctx, &img))

	var removed []model.Image
	err := f.inTx(func(sc Scope) error {
		var err error
		removed, err = f.cascade.DeleteShow(f.ctx, sc, s.ID)
		return err
	})
	require.NoError(t, err)
	require.Len(t, removed, 1)
	assert.Equal(t, "roadmap.pdf", removed[0].Filename)

	assert.Equal(t, 0, f.count("spectacle", "id = ?", s.ID))
	assert.Equal(t, 0, f.count("spectacle_image", ""))
	assert.Equal(t, 0, f.count("artist_representation_date", ""))
	assert.Equal(t, 1, f.count("representation", ""))
	assert.Equal(t, 1, f.count("representation_date", ""))
	assert.Equal(t, 1, f.count("card_spectacle", "spectacle_id = ?", other.ID))
	assert.Equal(t, 1, f.count("card_spectacle", ""))
	assert.Equal(t, 1, f.count("artist", ""))
	assert.Equal(t, 1, f.count("card", ""))
}

func TestDeleteShow_Unknown(t *testing.T) {
	f := newFixture(t)
	err := f.inTx(func(sc Scope) error {
		_, err := f.cascade.DeleteShow(f.ctx, sc, 7)
		return err
	})
	assert.ErrorIs(t, err, repository.ErrShowNotFound)
}
