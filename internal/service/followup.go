package service

import (
	"context"
	"time"

	"github.com/iliyamo/paillette/internal/filter"
	"github.com/iliyamo/paillette/internal/model"
	"github.com/iliyamo/paillette/internal/repository"
)

// Followups builds the artist-by-day grid of the follow-up calendar.
type Followups struct {
	Artists        *repository.ArtistRepo
	Availabilities *repository.AvailabilityRepo
}

// NewFollowups wires the follow-up builder.
func NewFollowups(a *repository.ArtistRepo, av *repository.AvailabilityRepo) *Followups {
	return &Followups{Artists: a, Availabilities: av}
}

// MaxGridDays bounds the width of a follow-up grid.
const MaxGridDays = 93

// Grid returns one row per visible artist with one cell per day of
// [from, to].  An assignment takes precedence over the explicit availability
// flag of the same day.
func (f *Followups) Grid(ctx context.Context, from, to time.Time) ([]model.ArtistRow, error) {
	span := model.Range{From: from, To: to}
	if !span.Valid() || model.DaysBetween(from, to) >= MaxGridDays {
		return nil, ErrInvalidRange
	}
	return f.build(ctx, from, to)
}

// MaxFilterDays bounds the span a stored filter is evaluated over.  A wider
// filter range is cut after its first MaxFilterDays days.
const MaxFilterDays = 366

// Filtered returns the grid over [from, to] keeping the rows that pass flt.
// The filter is judged on its own range, which need not overlap the grid: a
// filter on August still narrows the July grid.
func (f *Followups) Filtered(ctx context.Context, from, to time.Time, flt filter.Filter) ([]model.ArtistRow, error) {
	rows, err := f.Grid(ctx, from, to)
	if err != nil {
		return nil, err
	}
	win, ok := filter.Window(flt)
	if !ok {
		return rows, nil
	}
	span := model.Range{From: from, To: to}
	if span.Contains(win.From) && span.Contains(win.To) {
		return filter.Apply(flt, rows), nil
	}
	if model.DaysBetween(win.From, win.To) >= MaxFilterDays {
		win.To = model.Day(win.From).AddDate(0, 0, MaxFilterDays-1)
	}
	pool, err := f.build(ctx, win.From, win.To)
	if err != nil {
		return nil, err
	}
	kept := make(map[uint64]bool, len(pool))
	for _, r := range filter.Apply(flt, pool) {
		kept[r.ArtistID] = true
	}
	out := make([]model.ArtistRow, 0, len(rows))
	for _, r := range rows {
		if kept[r.ArtistID] {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *Followups) build(ctx context.Context, from, to time.Time) ([]model.ArtistRow, error) {
	artists, err := f.Artists.ListVisible(ctx)
	if err != nil {
		return nil, err
	}
	flags, err := f.Availabilities.FlagsInRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	assignments, err := f.Availabilities.AssignmentsInRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	type key struct {
		artist uint64
		day    string
	}
	flagged := make(map[key]bool, len(flags))
	for _, fl := range flags {
		flagged[key{fl.ArtistID, model.FormatDay(fl.Date)}] = fl.Available
	}
	// an artist may play several shows on one day; the first one describes
	// the cell, all of them are listed
	assigned := make(map[key][]repository.Assignment, len(assignments))
	for _, a := range assignments {
		k := key{a.ArtistID, model.FormatDay(a.Date)}
		assigned[k] = append(assigned[k], a)
	}

	days := model.Days(from, to)
	rows := make([]model.ArtistRow, 0, len(artists))
	for _, a := range artists {
		row := model.ArtistRow{ArtistID: a.ID, Name: a.Name, Color: a.Color, Days: make([]model.Cell, 0, len(days))}
		for _, d := range days {
			k := key{a.ID, model.FormatDay(d)}
			cell := model.Cell{Date: d, Status: model.StatusUnset}
			if as := assigned[k]; len(as) > 0 {
				cell.Status = model.StatusAssigned
				cell.ShowID = as[0].ShowID
				cell.ShowCode = as[0].ShowCode
				cell.RepresentationDateID = as[0].RepresentationDateID
				cell.ShowIDs = showIDs(as)
			} else if avail, ok := flagged[k]; ok {
				cell.Status = model.StatusUnavailable
				if avail {
					cell.Status = model.StatusAvailable
				}
			}
			row.Days = append(row.Days, cell)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func showIDs(as []repository.Assignment) []uint64 {
	ids := make([]uint64, 0, len(as))
	for _, a := range as {
		ids = append(ids, a.ShowID)
	}
	return repository.Unique(ids)
}
