// Package filter holds the follow-up filter a user keeps for the duration of
// a session.  A Filter is validated when it is built: whatever reaches a
// Store or Apply is well formed, and malformed submissions collapse to None.
package filter

import (
	"strconv"
	"strings"
	"time"

	"github.com/iliyamo/paillette/internal/model"
)

// Kind names accepted by Parse.
const (
	KindAvailability = "availability"
	KindShows        = "shows"
)

// Filter narrows the artist rows of the follow-up grid.  The concrete types
// are None, ByAvailability and ByShows.
type Filter interface {
	// Keep reports whether the row passes the filter.
	Keep(row model.ArtistRow) bool
	kind() string
}

// None keeps every row.
type None struct{}

// ByAvailability keeps artists having at least one day within Range whose
// status is in Statuses.
type ByAvailability struct {
	Statuses []model.Status
	Range    model.Range
}

// ByShows keeps artists assigned to one of ShowIDs on a day within Range.
type ByShows struct {
	ShowIDs []uint64
	Range   model.Range
}

func (None) kind() string           { return "" }
func (ByAvailability) kind() string { return KindAvailability }
func (ByShows) kind() string        { return KindShows }

func (None) Keep(model.ArtistRow) bool { return true }

func (f ByAvailability) Keep(row model.ArtistRow) bool {
	for _, c := range row.Days {
		if !f.Range.Contains(c.Date) {
			continue
		}
		for _, s := range f.Statuses {
			if c.Status == s {
				return true
			}
		}
	}
	return false
}

func (f ByShows) Keep(row model.ArtistRow) bool {
	for _, c := range row.Days {
		if !f.Range.Contains(c.Date) {
			continue
		}
		for _, id := range f.ShowIDs {
			if c.Plays(id) {
				return true
			}
		}
	}
	return false
}

// Window returns the day range f is judged on.  None has no range.
func Window(f Filter) (model.Range, bool) {
	switch v := f.(type) {
	case ByAvailability:
		return v.Range, true
	case ByShows:
		return v.Range, true
	}
	return model.Range{}, false
}

// Parse builds a Filter from a form submission.  It never fails: an unknown
// kind, an empty or non-numeric value list, an unknown status or a missing
// or inverted range yields None, which shows every artist.
func Parse(kind string, values []string, from, to string) Filter {
	f, t := parseDay(from), parseDay(to)
	rng := model.Range{From: f, To: t}
	if !rng.Valid() {
		return None{}
	}
	nums, ok := parseIDs(values)
	if !ok {
		return None{}
	}
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case KindAvailability:
		statuses := make([]model.Status, 0, len(nums))
		for _, n := range nums {
			s := model.Status(n)
			if !s.Valid() {
				return None{}
			}
			statuses = append(statuses, s)
		}
		return ByAvailability{Statuses: statuses, Range: rng}
	case KindShows:
		return ByShows{ShowIDs: nums, Range: rng}
	}
	return None{}
}

func parseDay(s string) time.Time {
	d, err := model.ParseDay(s)
	if err != nil {
		return time.Time{}
	}
	return d
}

func parseIDs(values []string) ([]uint64, bool) {
	var out []uint64
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			n, err := strconv.ParseUint(part, 10, 64)
			if err != nil {
				return nil, false
			}
			out = append(out, n)
		}
	}
	return out, len(out) > 0
}

// Apply returns the rows kept by f.  A nil filter behaves as None.
func Apply(f Filter, rows []model.ArtistRow) []model.ArtistRow {
	if f == nil {
		return rows
	}
	if _, ok := f.(None); ok {
		return rows
	}
	out := make([]model.ArtistRow, 0, len(rows))
	for _, r := range rows {
		if f.Keep(r) {
			out = append(out, r)
		}
	}
	return out
}
