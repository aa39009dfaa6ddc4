package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/paillette/internal/model"
	"github.com/iliyamo/paillette/internal/repository"
)

// Reconciler applies availability and assignment changes for one artist.
type Reconciler struct {
	Artists         *repository.ArtistRepo
	Representations *repository.RepresentationRepo
	Availabilities  *repository.AvailabilityRepo
}

// NewReconciler wires a Reconciler on top of its repositories.
func NewReconciler(a *repository.ArtistRepo, r *repository.RepresentationRepo, av *repository.AvailabilityRepo) *Reconciler {
	return &Reconciler{Artists: a, Representations: r, Availabilities: av}
}

// AvailabilityChange is one submission of the availability form.  A single
// day is expressed with From == To.  RepresentationDateID is zero when the
// artist is not being assigned.
type AvailabilityChange struct {
	ArtistID             uint64
	From                 time.Time
	To                   time.Time
	Decision             model.Decision
	RepresentationDateID uint64
}

// Detached describes a show the artist was removed from by a change.
// PreviousDays counts the show days before the detached day, NextDays the
// show days after it.
type Detached struct {
	Value        string `json:"value"`
	PreviousDays int    `json:"previous_days"`
	NextDays     int    `json:"next_days"`
	ShowID       uint64 `json:"show_id"`
}

// AvailabilityResult carries what a calendar cell needs to be redrawn: the
// show code when the artist was assigned, otherwise the availability flag
// ("1", "0", or "" when unset), plus the shows the artist was detached from.
type AvailabilityResult struct {
	Value   string     `json:"value"`
	Removed []Detached `json:"removed"`
}

// SetAvailability rewrites the assignments and availability flags of an
// artist over the change's day range:
//
//  1. assignments on those days are deleted;
//  2. the requested assignment, if any, is inserted for every day on which
//     the same representation plays;
//  3. availability flags on those days are deleted;
//  4. a fresh flag is inserted per day unless the decision is unset.
//
// An assignment implies availability, so an assignment combined with an
// "unavailable" decision is rejected with ErrConflictingDecision.
func (r *Reconciler) SetAvailability(ctx context.Context, s Scope, ch AvailabilityChange) (AvailabilityResult, error) {
	res := AvailabilityResult{Removed: []Detached{}}
	if !ch.Decision.Valid() {
		return res, ErrInvalidDecision
	}
	if ch.To.IsZero() {
		ch.To = ch.From
	}
	span := model.Range{From: ch.From, To: ch.To}
	if !span.Valid() {
		return res, ErrInvalidRange
	}
	if _, err := r.Artists.GetByIDTx(ctx, s.Tx, ch.ArtistID); err != nil {
		return res, err
	}

	var target repository.DateContext
	if ch.RepresentationDateID != 0 {
		if ch.Decision == model.Unavailable {
			return res, ErrConflictingDecision
		}
		var err error
		target, err = r.Representations.GetDateTx(ctx, s.Tx, ch.RepresentationDateID)
		if err != nil {
			return res, err
		}
		show := target.Show.Range()
		if !show.Contains(span.From) || !show.Contains(span.To) || !span.Contains(target.Date.Date) {
			return res, ErrOutOfRange
		}
	}

	before, err := r.Availabilities.ArtistAssignmentsTx(ctx, s.Tx, ch.ArtistID, span.From, span.To)
	if err != nil {
		return res, fmt.Errorf("load assignments: %w", err)
	}
	if _, err := r.Availabilities.DeleteAssignmentsTx(ctx, s.Tx, ch.ArtistID, span.From, span.To); err != nil {
		return res, fmt.Errorf("delete assignments: %w", err)
	}

	if ch.RepresentationDateID != 0 {
		dates, err := r.Representations.DatesInRangeTx(ctx, s.Tx, target.Date.RepresentationID, span.From, span.To)
		if err != nil {
			return res, fmt.Errorf("load representation dates: %w", err)
		}
		for _, d := range dates {
			if err := r.Representations.AssignTx(ctx, s.Tx, ch.ArtistID, d.ID); err != nil {
				return res, fmt.Errorf("assign artist: %w", err)
			}
		}
		res.Value = target.Show.Code
	}

	if _, err := r.Availabilities.DeleteFlagsTx(ctx, s.Tx, ch.ArtistID, span.From, span.To); err != nil {
		return res, fmt.Errorf("delete availabilities: %w", err)
	}
	if ch.Decision != model.Unset {
		available := ch.Decision == model.Available
		for _, d := range model.Days(span.From, span.To) {
			if err := r.Availabilities.InsertFlagTx(ctx, s.Tx, ch.ArtistID, d, available); err != nil {
				return res, fmt.Errorf("insert availability: %w", err)
			}
		}
		if ch.RepresentationDateID == 0 {
			res.Value = "0"
			if available {
				res.Value = "1"
			}
		}
	}

	res.Removed = detached(before, target.Show.ID)
	zap.L().Debug("availability reconciled",
		zap.Uint64("actor_id", s.ActorID),
		zap.Uint64("artist_id", ch.ArtistID),
		zap.String("from", model.FormatDay(span.From)),
		zap.String("to", model.FormatDay(span.To)),
		zap.String("decision", string(ch.Decision)),
		zap.Int("detached", len(res.Removed)))
	return res, nil
}

// detached reduces the removed assignments to one entry per show, using the
// earliest removed day of each show.  keepShowID is the show the artist is
// (re)assigned to by the same change; it is not reported.
func detached(removed []repository.Assignment, keepShowID uint64) []Detached {
	out := []Detached{}
	seen := map[uint64]bool{}
	for _, a := range removed {
		if a.ShowID == keepShowID || seen[a.ShowID] {
			continue
		}
		seen[a.ShowID] = true
		out = append(out, Detached{
			Value:        a.ShowCode,
			PreviousDays: model.DaysBetween(a.ShowFrom, a.Date),
			NextDays:     model.DaysBetween(a.Date, a.ShowTo),
			ShowID:       a.ShowID,
		})
	}
	return out
}
