package model

import "time"

// Decision is the availability choice submitted for an artist on a day.
type Decision string

const (
	Available   Decision = "available"
	Unavailable Decision = "unavailable"
	Unset       Decision = "unset"
)

// Valid reports whether d is one of the known decisions.
func (d Decision) Valid() bool {
	return d == Available || d == Unavailable || d == Unset
}

// Status is the resolved state of an artist on one day of the follow-up grid.
// The numeric values are part of the filter wire format.
type Status int

const (
	StatusUnavailable Status = 0
	StatusAvailable   Status = 1
	StatusAssigned    Status = 2
	StatusUnset       Status = 3
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	return s >= StatusUnavailable && s <= StatusUnset
}

// Cell is one (artist, day) entry of the follow-up grid.  When the artist is
// assigned, ShowID/ShowCode/RepresentationDateID describe the first
// assignment of the day and Status is StatusAssigned whatever the explicit
// availability flag says.  ShowIDs lists every show the artist plays that
// day, double bookings included.
type Cell struct {
	Date                 time.Time `json:"date"`
	Status               Status    `json:"status"`
	ShowID               uint64    `json:"show_id,omitempty"`
	ShowCode             string    `json:"show_code,omitempty"`
	RepresentationDateID uint64    `json:"representation_date_id,omitempty"`
	ShowIDs              []uint64  `json:"show_ids,omitempty"`
}

// Plays reports whether the artist is assigned to showID on this day.
func (c Cell) Plays(showID uint64) bool {
	if c.Status != StatusAssigned {
		return false
	}
	if c.ShowID == showID {
		return true
	}
	for _, id := range c.ShowIDs {
		if id == showID {
			return true
		}
	}
	return false
}

// ArtistRow is one line of the follow-up grid.
type ArtistRow struct {
	ArtistID uint64 `json:"artist_id"`
	Name     string `json:"name"`
	Color    string `json:"color"`
	Days     []Cell `json:"days"`
}
