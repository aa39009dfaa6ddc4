package service

import (
	"context"
	"database/sql"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/paillette/internal/database/dbtest"
	"github.com/iliyamo/paillette/internal/model"
	"github.com/iliyamo/paillette/internal/repository"
)

const actor = 1

type fixture struct {
	t   *testing.T
	ctx context.Context
	db  *sql.DB

	persons   *repository.PersonRepo
	artists   *repository.ArtistRepo
	shows     *repository.ShowRepo
	reps      *repository.RepresentationRepo
	equipment *repository.EquipmentRepo
	images    *repository.ImageRepo
	avail     *repository.AvailabilityRepo

	accounts   *Accounts
	cascade    *Cascade
	reconciler *Reconciler
	followups  *Followups
}

func newFixture(t *testing.T) *fixture {
	db := dbtest.Open(t)
	f := &fixture{
		t:         t,
		ctx:       context.Background(),
		db:        db,
		persons:   repository.NewPersonRepo(db),
		artists:   repository.NewArtistRepo(db),
		shows:     repository.NewShowRepo(db),
		reps:      repository.NewRepresentationRepo(db),
		equipment: repository.NewEquipmentRepo(db),
		images:    repository.NewImageRepo(db),
		avail:     repository.NewAvailabilityRepo(db),
	}
	f.accounts = NewAccounts(db, f.persons, f.artists, bcrypt.MinCost)
	f.cascade = NewCascade(f.shows, f.reps, f.equipment, f.images)
	f.reconciler = NewReconciler(f.artists, f.reps, f.avail)
	f.followups = NewFollowups(f.artists, f.avail)
	return f
}

func d(s string) time.Time {
	t, err := model.ParseDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

func id(n uint64) string { return strconv.FormatUint(n, 10) }

func days(ss ...string) []time.Time {
	out := make([]time.Time, 0, len(ss))
	for _, s := range ss {
		out = append(out, d(s))
	}
	return out
}

func (f *fixture) inTx(fn func(Scope) error) error {
	return InTx(f.ctx, f.db, actor, fn)
}

func (f *fixture) artist(name string) uint64 {
	f.t.Helper()
	a, err := f.accounts.CreateArtist(f.ctx, actor, PersonInput{Name: name}, "#aa0000")
	require.NoError(f.t, err)
	return a.ID
}

func (f *fixture) item(c model.Category, name string) uint64 {
	f.t.Helper()
	e := model.Equipment{Category: c, Name: name}
	require.NoError(f.t, f.equipment.Create(f.ctx, &e))
	return e.ID
}

func (f *fixture) show(place, from, to string, res Resources, reps ...RepresentationPlan) model.Show {
	f.t.Helper()
	var s model.Show
	err := f.inTx(func(sc Scope) error {
		var err error
		s, err = f.cascade.CreateShow(f.ctx, sc, model.Show{Place: place, DateFrom: d(from), DateTo: d(to)}, res, reps)
		return err
	})
	require.NoError(f.t, err)
	return s
}

func (f *fixture) rebuild(s model.Show, res Resources, reps ...RepresentationPlan) error {
	return f.inTx(func(sc Scope) error {
		_, err := f.cascade.RebuildShow(f.ctx, sc, s.ID, s, res, reps)
		return err
	})
}

// dateID returns the id of the representation date of showID named rep on day.
func (f *fixture) dateID(showID uint64, rep, day string) uint64 {
	f.t.Helper()
	details, err := f.reps.ListByShow(f.ctx, showID)
	require.NoError(f.t, err)
	for _, r := range details {
		if r.Name != rep {
			continue
		}
		for _, dd := range r.Dates {
			if model.FormatDay(dd.Date) == day {
				return dd.ID
			}
		}
	}
	f.t.Fatalf("no date %s for representation %q of show %d", day, rep, showID)
	return 0
}

func (f *fixture) set(ch AvailabilityChange) (AvailabilityResult, error) {
	var res AvailabilityResult
	err := f.inTx(func(sc Scope) error {
		var err error
		res, err = f.reconciler.SetAvailability(f.ctx, sc, ch)
		return err
	})
	return res, err
}

func (f *fixture) count(table, where string, args ...any) int {
	f.t.Helper()
	return dbtest.Count(f.t, f.db, table, where, args...)
}

// assignmentsOn counts the assignments of artistID on day.
func (f *fixture) assignmentsOn(artistID uint64, day string) int {
	return f.count("artist_representation_date ard JOIN representation_date rd ON rd.id = ard.representation_date_id",
		"ard.artist_id = ? AND rd.date = ?", artistID, day)
}
