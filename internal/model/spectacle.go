package model

import (
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Show represents a booked event ("spectacle") of the troupe.  It is
// stored in the `spectacle` table.  A show spans an inclusive range of
// calendar days and owns its representations.
//
// Fields:
//
//	ID            – primary key identifier.
//	Code          – 3-letter code derived from Place, shown in calendars.
//	Place         – town or venue of the event.
//	DateFrom      – first day of the event.
//	DateTo        – last day of the event.
//	TravelTime    – free text travel estimate.
//	Configuration – stage configuration notes.
//	Organizer     – organizer name.
//	Comment, Payment, Contact, Planning, Hosting, Meal – free text logistics.
type Show struct {
	ID            uint64    // spectacle.id
	Code          string    // spectacle.code
	Place         string    // spectacle.place
	DateFrom      time.Time // spectacle.date_from
	DateTo        time.Time // spectacle.date_to
	TravelTime    string    // spectacle.travel_time
	Configuration string    // spectacle.configuration
	Organizer     string    // spectacle.organizer
	Comment       string    // spectacle.comment
	Payment       string    // spectacle.payment
	Contact       string    // spectacle.contact
	Planning      string    // spectacle.planning
	Hosting       string    // spectacle.hosting
	Meal          string    // spectacle.meal
}

// Range returns the show's inclusive day range.
func (s Show) Range() Range { return Range{From: s.DateFrom, To: s.DateTo} }

// Representation is a named sub-act of a show.
type Representation struct {
	ID     uint64 // representation.id
	ShowID uint64 // representation.spectacle_id
	Name   string // representation.name
}

// RepresentationDate is one calendar day on which a representation plays.
type RepresentationDate struct {
	ID               uint64    // representation_date.id
	RepresentationID uint64    // representation_date.representation_id
	Date             time.Time // representation_date.date
}

// Image is a roadmap attachment of a show, stored on disk under Filename.
type Image struct {
	ID       uint64 // spectacle_image.id
	ShowID   uint64 // spectacle_image.spectacle_id
	Filename string // spectacle_image.filename
}

// ShowCode derives the 3-letter calendar code of a show from its place:
// accents are stripped, only letters are kept, the result is upper-cased and
// padded with X.  "Évreux" gives "EVR", "Aix" gives "AIX", "" gives "XXX".
func ShowCode(place string) string {
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(stripMarks, place)
	if err != nil {
		plain = place
	}
	var b strings.Builder
	for _, r := range plain {
		if b.Len() == 3 {
			break
		}
		if r < unicode.MaxASCII && unicode.IsLetter(r) {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	for b.Len() < 3 {
		b.WriteByte('X')
	}
	return b.String()
}
