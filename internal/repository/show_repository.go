// Package repository contains data access logic for the booking domain.
// This file defines the repository methods for shows ("spectacle" rows).
// Write methods take the caller's transaction: a show is always written
// together with its dependent rows, and the caller commits once.
package repository

import (
	"context"      // context carries request deadlines into queries
	"database/sql" // sql provides DB access and ErrNoRows
	"errors"       // errors matches ErrNoRows
	"time"         // time types the month bounds

	"github.com/iliyamo/paillette/internal/model" // model defines Show and the day format
)

// ShowRepo manages persistence for shows.
type ShowRepo struct {
	db *sql.DB // handle for reads outside a transaction
}

// NewShowRepo constructs a ShowRepo with the given DB handle.
func NewShowRepo(db *sql.DB) *ShowRepo {
	return &ShowRepo{db: db}
}

const showSelect = `SELECT id, code, place, date_from, date_to, travel_time, configuration, organizer,
                           comment, payment, contact, planning, hosting, meal
                    FROM spectacle`

func scanShow(row interface{ Scan(...any) error }) (model.Show, error) {
	var s model.Show
	err := row.Scan(&s.ID, &s.Code, &s.Place, day(&s.DateFrom), day(&s.DateTo), &s.TravelTime,
		&s.Configuration, &s.Organizer, &s.Comment, &s.Payment, &s.Contact, &s.Planning, &s.Hosting, &s.Meal)
	return s, err
}

// CreateTx inserts a new show using the provided transaction.  The code is
// derived from the place and the generated ID is assigned back to s.
func (r *ShowRepo) CreateTx(ctx context.Context, tx DBTX, s *model.Show) error {
	s.Code = model.ShowCode(s.Place) // code follows the place, accents stripped
	const q = `INSERT INTO spectacle (code, place, date_from, date_to, travel_time, configuration, organizer,
                                      comment, payment, contact, planning, hosting, meal)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, s.Code, s.Place, model.FormatDay(s.DateFrom), model.FormatDay(s.DateTo),
		s.TravelTime, s.Configuration, s.Organizer, s.Comment, s.Payment, s.Contact, s.Planning, s.Hosting, s.Meal)
	if err != nil {
		return classify(err)
	}
	id, err := res.LastInsertId() // both drivers report the AUTO_INCREMENT value
	if err != nil {
		return err
	}
	s.ID = uint64(id) // assign back for the dependent rows
	return nil
}

// UpdateTx rewrites the scalar columns of an existing show and recomputes
// its code.  It returns ErrShowNotFound when the row does not exist.  The
// existence check runs first because MySQL reports zero affected rows for
// an UPDATE that changes nothing.
func (r *ShowRepo) UpdateTx(ctx context.Context, tx DBTX, s *model.Show) error {
	if _, err := r.GetByIDTx(ctx, tx, s.ID); err != nil { // ErrShowNotFound for unknown ids
		return err
	}
	s.Code = model.ShowCode(s.Place) // a new place renames the code
	const q = `UPDATE spectacle
               SET code = ?, place = ?, date_from = ?, date_to = ?, travel_time = ?, configuration = ?,
                   organizer = ?, comment = ?, payment = ?, contact = ?, planning = ?, hosting = ?, meal = ?
               WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, s.Code, s.Place, model.FormatDay(s.DateFrom), model.FormatDay(s.DateTo),
		s.TravelTime, s.Configuration, s.Organizer, s.Comment, s.Payment, s.Contact, s.Planning, s.Hosting, s.Meal,
		s.ID)
	return classify(err)
}

// GetByIDTx retrieves a show inside the caller's transaction.  It returns
// ErrShowNotFound if there is no matching row.
func (r *ShowRepo) GetByIDTx(ctx context.Context, tx DBTX, id uint64) (model.Show, error) {
	s, err := scanShow(tx.QueryRowContext(ctx, showSelect+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) { // no show with that id
		return s, ErrShowNotFound
	}
	return s, err
}

// GetByID retrieves a show by its ID.
func (r *ShowRepo) GetByID(ctx context.Context, id uint64) (model.Show, error) {
	return r.GetByIDTx(ctx, r.db, id)
}

// ListOverlapping returns the shows whose date range intersects [from, to],
// ordered by start date.  It backs the monthly calendar.
func (r *ShowRepo) ListOverlapping(ctx context.Context, from, to time.Time) ([]model.Show, error) {
	rows, err := r.db.QueryContext(ctx,
		showSelect+` WHERE NOT (date_to < ? OR date_from > ?) ORDER BY date_from, id`,
		model.FormatDay(from), model.FormatDay(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close() // release the connection
	var out []model.Show
	for rows.Next() {
		s, err := scanShow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// DeleteTx removes the show row itself.  Dependent rows must be gone
// already; otherwise the foreign keys reject the delete with ErrConstraint.
func (r *ShowRepo) DeleteTx(ctx context.Context, tx DBTX, id uint64) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM spectacle WHERE id = ?`, id)
	if err != nil {
		return classify(err)
	}
	if n, _ := res.RowsAffected(); n == 0 { // nothing deleted
		return ErrShowNotFound
	}
	return nil
}
