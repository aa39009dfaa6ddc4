package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/paillette/internal/model"
)

// ImageRepo manages the `spectacle_image` table.  Files themselves live on
// disk and are handled by the caller.
type ImageRepo struct{ db *sql.DB }

func NewImageRepo(db *sql.DB) *ImageRepo { return &ImageRepo{db: db} }

// Create records an image attached to a show.
func (r *ImageRepo) Create(ctx context.Context, img *model.Image) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO spectacle_image (spectacle_id, filename) VALUES (?, ?)`, img.ShowID, img.Filename)
	if err != nil {
		return classify(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	img.ID = uint64(id)
	return nil
}

// ListByShowTx returns the images of a show.
func (r *ImageRepo) ListByShowTx(ctx context.Context, q DBTX, showID uint64) ([]model.Image, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, spectacle_id, filename FROM spectacle_image WHERE spectacle_id = ? ORDER BY id`, showID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Image
	for rows.Next() {
		var img model.Image
		if err := rows.Scan(&img.ID, &img.ShowID, &img.Filename); err != nil {
			return nil, err
		}
		out = append(out, img)
	}
	return out, rows.Err()
}

// ListByShow is ListByShowTx on the repository's own handle.
func (r *ImageRepo) ListByShow(ctx context.Context, showID uint64) ([]model.Image, error) {
	return r.ListByShowTx(ctx, r.db, showID)
}

// Delete removes one image row of a show and returns it so that the caller
// can remove the file.
func (r *ImageRepo) Delete(ctx context.Context, showID, imageID uint64) (model.Image, error) {
	var img model.Image
	err := r.db.QueryRowContext(ctx,
		`SELECT id, spectacle_id, filename FROM spectacle_image WHERE id = ? AND spectacle_id = ?`,
		imageID, showID).Scan(&img.ID, &img.ShowID, &img.Filename)
	if errors.Is(err, sql.ErrNoRows) {
		return img, ErrImageNotFound
	}
	if err != nil {
		return img, err
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM spectacle_image WHERE id = ?`, imageID); err != nil {
		return img, err
	}
	return img, nil
}

// DeleteByShowTx removes every image row of a show.
func (r *ImageRepo) DeleteByShowTx(ctx context.Context, tx DBTX, showID uint64) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM spectacle_image WHERE spectacle_id = ?`, showID)
	return classify(err)
}
