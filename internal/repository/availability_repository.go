package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/paillette/internal/model"
)

// AvailabilityRepo manages artist availability flags and reads the
// artist-to-representation-date assignments by calendar day.
type AvailabilityRepo struct{ db *sql.DB }

func NewAvailabilityRepo(db *sql.DB) *AvailabilityRepo { return &AvailabilityRepo{db: db} }

// Assignment is an artist_representation_date row resolved to its day and show.
type Assignment struct {
	ArtistID             uint64
	RepresentationDateID uint64
	RepresentationID     uint64
	Date                 time.Time
	ShowID               uint64
	ShowCode             string
	ShowFrom             time.Time
	ShowTo               time.Time
}

// Flag is an artist_availability row.
type Flag struct {
	ArtistID  uint64
	Date      time.Time
	Available bool
}

const assignmentSelect = `SELECT ard.artist_id, rd.id, rd.representation_id, rd.date,
                                 s.id, s.code, s.date_from, s.date_to
                          FROM artist_representation_date ard
                          JOIN representation_date rd ON rd.id = ard.representation_date_id
                          JOIN representation r ON r.id = rd.representation_id
                          JOIN spectacle s ON s.id = r.spectacle_id`

func (r *AvailabilityRepo) assignments(ctx context.Context, q DBTX, query string, args ...any) ([]Assignment, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Assignment
	for rows.Next() {
		var a Assignment
		if err := rows.Scan(&a.ArtistID, &a.RepresentationDateID, &a.RepresentationID, day(&a.Date),
			&a.ShowID, &a.ShowCode, day(&a.ShowFrom), day(&a.ShowTo)); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ArtistAssignmentsTx returns the assignments of one artist on days within [from, to].
func (r *AvailabilityRepo) ArtistAssignmentsTx(ctx context.Context, tx DBTX, artistID uint64, from, to time.Time) ([]Assignment, error) {
	return r.assignments(ctx, tx,
		assignmentSelect+` WHERE ard.artist_id = ? AND rd.date BETWEEN ? AND ? ORDER BY rd.date, rd.id`,
		artistID, model.FormatDay(from), model.FormatDay(to))
}

// DeleteAssignmentsTx removes the assignments of one artist on days within
// [from, to], matching days through representation_date.date.
func (r *AvailabilityRepo) DeleteAssignmentsTx(ctx context.Context, tx DBTX, artistID uint64, from, to time.Time) (int64, error) {
	res, err := tx.ExecContext(ctx,
		`DELETE FROM artist_representation_date
		 WHERE artist_id = ? AND representation_date_id IN (
		     SELECT rd.id FROM representation_date rd WHERE rd.date BETWEEN ? AND ?)`,
		artistID, model.FormatDay(from), model.FormatDay(to))
	if err != nil {
		return 0, classify(err)
	}
	return res.RowsAffected()
}

// DeleteFlagsTx removes the availability flags of one artist within [from, to].
func (r *AvailabilityRepo) DeleteFlagsTx(ctx context.Context, tx DBTX, artistID uint64, from, to time.Time) (int64, error) {
	res, err := tx.ExecContext(ctx,
		`DELETE FROM artist_availability WHERE artist_id = ? AND date BETWEEN ? AND ?`,
		artistID, model.FormatDay(from), model.FormatDay(to))
	if err != nil {
		return 0, classify(err)
	}
	return res.RowsAffected()
}

// InsertFlagTx records the availability of an artist on one day.
func (r *AvailabilityRepo) InsertFlagTx(ctx context.Context, tx DBTX, artistID uint64, d time.Time, available bool) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO artist_availability (artist_id, date, available) VALUES (?, ?, ?)`,
		artistID, model.FormatDay(d), available)
	return classify(err)
}

// AssignmentsInRange returns every assignment on days within [from, to].
func (r *AvailabilityRepo) AssignmentsInRange(ctx context.Context, from, to time.Time) ([]Assignment, error) {
	return r.assignments(ctx, r.db,
		assignmentSelect+` WHERE rd.date BETWEEN ? AND ? ORDER BY ard.artist_id, rd.date, rd.id`,
		model.FormatDay(from), model.FormatDay(to))
}

// FlagsInRange returns every availability flag within [from, to].
func (r *AvailabilityRepo) FlagsInRange(ctx context.Context, from, to time.Time) ([]Flag, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT artist_id, date, available FROM artist_availability
		 WHERE date BETWEEN ? AND ? ORDER BY artist_id, date`,
		model.FormatDay(from), model.FormatDay(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Flag
	for rows.Next() {
		var f Flag
		if err := rows.Scan(&f.ArtistID, day(&f.Date), &f.Available); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
