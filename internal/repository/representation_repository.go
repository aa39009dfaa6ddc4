package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/paillette/internal/model"
)

// RepresentationRepo manages the dependent graph of a show: representations,
// their dates and the artists assigned to those dates.
type RepresentationRepo struct{ db *sql.DB }

func NewRepresentationRepo(db *sql.DB) *RepresentationRepo { return &RepresentationRepo{db: db} }

// GraphCounts reports how many rows DeleteGraphTx removed per table.
type GraphCounts struct {
	Assignments     int64
	Dates           int64
	Representations int64
}

// DeleteGraphTx removes every representation of the show bottom-up:
// assignments, then dates, then representations, so that no foreign key is
// violated along the way.
func (r *RepresentationRepo) DeleteGraphTx(ctx context.Context, tx DBTX, showID uint64) (GraphCounts, error) {
	var c GraphCounts
	res, err := tx.ExecContext(ctx,
		`DELETE FROM artist_representation_date
		 WHERE representation_date_id IN (
		     SELECT rd.id FROM representation_date rd
		     JOIN representation r ON r.id = rd.representation_id
		     WHERE r.spectacle_id = ?)`, showID)
	if err != nil {
		return c, classify(err)
	}
	c.Assignments, _ = res.RowsAffected()
	res, err = tx.ExecContext(ctx,
		`DELETE FROM representation_date
		 WHERE representation_id IN (SELECT r.id FROM representation r WHERE r.spectacle_id = ?)`, showID)
	if err != nil {
		return c, classify(err)
	}
	c.Dates, _ = res.RowsAffected()
	res, err = tx.ExecContext(ctx, `DELETE FROM representation WHERE spectacle_id = ?`, showID)
	if err != nil {
		return c, classify(err)
	}
	c.Representations, _ = res.RowsAffected()
	return c, nil
}

// CreateTx inserts a representation of showID and returns its ID.
func (r *RepresentationRepo) CreateTx(ctx context.Context, tx DBTX, showID uint64, name string) (uint64, error) {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO representation (spectacle_id, name) VALUES (?, ?)`, showID, name)
	if err != nil {
		return 0, classify(err)
	}
	id, err := res.LastInsertId()
	return uint64(id), err
}

// CreateDateTx inserts one date of a representation and returns its ID.
func (r *RepresentationRepo) CreateDateTx(ctx context.Context, tx DBTX, representationID uint64, d time.Time) (uint64, error) {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO representation_date (representation_id, date) VALUES (?, ?)`,
		representationID, model.FormatDay(d))
	if err != nil {
		return 0, classify(err)
	}
	id, err := res.LastInsertId()
	return uint64(id), err
}

// AssignTx links an artist to a representation date.
func (r *RepresentationRepo) AssignTx(ctx context.Context, tx DBTX, artistID, representationDateID uint64) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO artist_representation_date (artist_id, representation_date_id) VALUES (?, ?)`,
		artistID, representationDateID)
	return classify(err)
}

// DateContext is a representation date together with the show it belongs to.
type DateContext struct {
	Date model.RepresentationDate
	Show model.Show
}

// GetDateTx loads a representation date and its show.  It returns
// ErrRepresentationDateNotFound when the id is unknown.
func (r *RepresentationRepo) GetDateTx(ctx context.Context, tx DBTX, id uint64) (DateContext, error) {
	var dc DateContext
	err := tx.QueryRowContext(ctx,
		`SELECT rd.id, rd.representation_id, rd.date,
		        s.id, s.code, s.place, s.date_from, s.date_to
		 FROM representation_date rd
		 JOIN representation r ON r.id = rd.representation_id
		 JOIN spectacle s ON s.id = r.spectacle_id
		 WHERE rd.id = ?`, id).Scan(
		&dc.Date.ID, &dc.Date.RepresentationID, day(&dc.Date.Date),
		&dc.Show.ID, &dc.Show.Code, &dc.Show.Place, day(&dc.Show.DateFrom), day(&dc.Show.DateTo))
	if errors.Is(err, sql.ErrNoRows) {
		return dc, ErrRepresentationDateNotFound
	}
	return dc, err
}

// DatesInRangeTx returns the dates of a representation falling within [from, to].
func (r *RepresentationRepo) DatesInRangeTx(ctx context.Context, tx DBTX, representationID uint64, from, to time.Time) ([]model.RepresentationDate, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT id, representation_id, date FROM representation_date
		 WHERE representation_id = ? AND date BETWEEN ? AND ?
		 ORDER BY date, id`, representationID, model.FormatDay(from), model.FormatDay(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.RepresentationDate
	for rows.Next() {
		var d model.RepresentationDate
		if err := rows.Scan(&d.ID, &d.RepresentationID, day(&d.Date)); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// DateDetail is a representation date with the artists assigned to it.
type DateDetail struct {
	ID        uint64    `json:"id"`
	Date      time.Time `json:"date"`
	ArtistIDs []uint64  `json:"artist_ids"`
}

// RepresentationDetail is a representation with its dates.
type RepresentationDetail struct {
	ID    uint64       `json:"id"`
	Name  string       `json:"name"`
	Dates []DateDetail `json:"dates"`
}

// ListByShow returns the full dependent graph of a show, ordered by
// representation id then date.
func (r *RepresentationRepo) ListByShow(ctx context.Context, showID uint64) ([]RepresentationDetail, error) {
	return r.ListByShowTx(ctx, r.db, showID)
}

// ListByShowTx is ListByShow inside the caller's transaction.
func (r *RepresentationRepo) ListByShowTx(ctx context.Context, q DBTX, showID uint64) ([]RepresentationDetail, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT r.id, r.name, rd.id, rd.date, ard.artist_id
		 FROM representation r
		 LEFT JOIN representation_date rd ON rd.representation_id = r.id
		 LEFT JOIN artist_representation_date ard ON ard.representation_date_id = rd.id
		 WHERE r.spectacle_id = ?
		 ORDER BY r.id, rd.date, rd.id, ard.artist_id`, showID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RepresentationDetail
	for rows.Next() {
		var (
			repID    uint64
			name     string
			dateID   sql.NullInt64
			date     time.Time
			artistID sql.NullInt64
		)
		if err := rows.Scan(&repID, &name, &dateID, day(&date), &artistID); err != nil {
			return nil, err
		}
		if len(out) == 0 || out[len(out)-1].ID != repID {
			out = append(out, RepresentationDetail{ID: repID, Name: name})
		}
		rep := &out[len(out)-1]
		if !dateID.Valid {
			continue
		}
		if len(rep.Dates) == 0 || rep.Dates[len(rep.Dates)-1].ID != uint64(dateID.Int64) {
			rep.Dates = append(rep.Dates, DateDetail{ID: uint64(dateID.Int64), Date: date})
		}
		if artistID.Valid {
			d := &rep.Dates[len(rep.Dates)-1]
			d.ArtistIDs = append(d.ArtistIDs, uint64(artistID.Int64))
		}
	}
	return out, rows.Err()
}
