package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/paillette/internal/model"
)

// ArtistRepo manages the `artist` table.  Artists are never deleted: hiding
// an artist keeps its person, its availabilities and its past assignments.
type ArtistRepo struct{ db *sql.DB }

func NewArtistRepo(db *sql.DB) *ArtistRepo { return &ArtistRepo{db: db} }

const artistSelect = `SELECT a.id, a.person_id, p.name, a.color, a.hidden
                      FROM artist a JOIN person p ON p.id = a.person_id`

func scanArtist(row interface{ Scan(...any) error }) (model.Artist, error) {
	var a model.Artist
	err := row.Scan(&a.ID, &a.PersonID, &a.Name, &a.Color, &a.Hidden)
	return a, err
}

// CreateTx links an existing person as an artist and assigns the new ID.
func (r *ArtistRepo) CreateTx(ctx context.Context, tx DBTX, a *model.Artist) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO artist (person_id, color, hidden) VALUES (?, ?, 0)`, a.PersonID, a.Color)
	if err != nil {
		return classify(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	return nil
}

// GetByIDTx fetches an artist (hidden or not) inside the caller's transaction.
func (r *ArtistRepo) GetByIDTx(ctx context.Context, tx DBTX, id uint64) (model.Artist, error) {
	a, err := scanArtist(tx.QueryRowContext(ctx, artistSelect+` WHERE a.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return a, ErrArtistNotFound
	}
	return a, err
}

// GetByID fetches an artist by id.
func (r *ArtistRepo) GetByID(ctx context.Context, id uint64) (model.Artist, error) {
	return r.GetByIDTx(ctx, r.db, id)
}

// ListVisible returns the artists that are not hidden, ordered by name.
func (r *ArtistRepo) ListVisible(ctx context.Context) ([]model.Artist, error) {
	return r.list(ctx, r.db, artistSelect+` WHERE a.hidden = 0 ORDER BY p.name, a.id`)
}

func (r *ArtistRepo) list(ctx context.Context, q DBTX, query string, args ...any) ([]model.Artist, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Artist
	for rows.Next() {
		a, err := scanArtist(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// UpdateColor changes the display color of an artist.
func (r *ArtistRepo) UpdateColor(ctx context.Context, id uint64, color string) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `UPDATE artist SET color = ? WHERE id = ?`, color, id)
	return err
}

// Hide soft-deletes an artist.
func (r *ArtistRepo) Hide(ctx context.Context, id uint64) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `UPDATE artist SET hidden = 1 WHERE id = ?`, id)
	return classify(err)
}
