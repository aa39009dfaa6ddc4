package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/paillette/internal/model"
)

// EquipmentRepo manages the six equipment tables and their links to shows.
// Every SQL identifier comes from model.Category.Tables().
type EquipmentRepo struct{ db *sql.DB }

func NewEquipmentRepo(db *sql.DB) *EquipmentRepo { return &EquipmentRepo{db: db} }

func selectEquipment(t model.CategoryTables) string {
	return `SELECT e.id, e.name, e.color, e.hidden FROM ` + t.Table + ` e`
}

// visibleFor is the single definition of equipment visibility in a
// selection list for a show: an item is offered when it is not hidden, or
// when it is already linked to that show.  Its only argument is the show id.
func visibleFor(t model.CategoryTables) string {
	return `(e.hidden = 0 OR EXISTS (SELECT 1 FROM ` + t.JoinTable + ` l
	          WHERE l.` + t.Column + ` = e.id AND l.spectacle_id = ?))`
}

func (r *EquipmentRepo) list(ctx context.Context, c model.Category, query string, args ...any) ([]model.Equipment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Equipment
	for rows.Next() {
		e := model.Equipment{Category: c}
		if err := rows.Scan(&e.ID, &e.Name, &e.Color, &e.Hidden); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// List returns every item of the category, hidden ones included.
func (r *EquipmentRepo) List(ctx context.Context, c model.Category) ([]model.Equipment, error) {
	return r.list(ctx, c, selectEquipment(c.Tables())+` ORDER BY e.name, e.id`)
}

// ListSelectable returns the items that may be linked to showID.  Pass 0
// for a show that does not exist yet.
func (r *EquipmentRepo) ListSelectable(ctx context.Context, c model.Category, showID uint64) ([]model.Equipment, error) {
	t := c.Tables()
	return r.list(ctx, c, selectEquipment(t)+` WHERE `+visibleFor(t)+` ORDER BY e.name, e.id`, showID)
}

// GetByID fetches one item of the category.
func (r *EquipmentRepo) GetByID(ctx context.Context, c model.Category, id uint64) (model.Equipment, error) {
	e := model.Equipment{Category: c}
	err := r.db.QueryRowContext(ctx, selectEquipment(c.Tables())+` WHERE e.id = ?`, id).
		Scan(&e.ID, &e.Name, &e.Color, &e.Hidden)
	if errors.Is(err, sql.ErrNoRows) {
		return e, ErrEquipmentNotFound
	}
	return e, err
}

// Create inserts a new visible item and assigns its ID.
func (r *EquipmentRepo) Create(ctx context.Context, e *model.Equipment) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO `+e.Category.Tables().Table+` (name, color, hidden) VALUES (?, ?, 0)`, e.Name, e.Color)
	if err != nil {
		return classify(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	return nil
}

// Update renames or recolors an item.
func (r *EquipmentRepo) Update(ctx context.Context, e *model.Equipment) error {
	if _, err := r.GetByID(ctx, e.Category, e.ID); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		`UPDATE `+e.Category.Tables().Table+` SET name = ?, color = ? WHERE id = ?`, e.Name, e.Color, e.ID)
	return classify(err)
}

// Hide soft-deletes an item; its historical links are kept.
func (r *EquipmentRepo) Hide(ctx context.Context, c model.Category, id uint64) error {
	if _, err := r.GetByID(ctx, c, id); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `UPDATE `+c.Tables().Table+` SET hidden = 1 WHERE id = ?`, id)
	return classify(err)
}

// DeleteLinksTx removes every link between the category and showID.
func (r *EquipmentRepo) DeleteLinksTx(ctx context.Context, tx DBTX, c model.Category, showID uint64) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM `+c.Tables().JoinTable+` WHERE spectacle_id = ?`, showID)
	return classify(err)
}

// ReplaceLinksTx replaces the category's links of showID with ids.  Zero
// and duplicate ids are dropped.  An unknown id fails with ErrConstraint.
func (r *EquipmentRepo) ReplaceLinksTx(ctx context.Context, tx DBTX, c model.Category, showID uint64, ids []uint64) error {
	if err := r.DeleteLinksTx(ctx, tx, c, showID); err != nil {
		return err
	}
	t := c.Tables()
	insert := `INSERT INTO ` + t.JoinTable + ` (` + t.Column + `, spectacle_id) VALUES (?, ?)`
	for _, id := range Unique(ids) {
		if _, err := tx.ExecContext(ctx, insert, id, showID); err != nil {
			return classify(err)
		}
	}
	return nil
}

// LinkedIDs returns the ids of the category linked to showID.
func (r *EquipmentRepo) LinkedIDs(ctx context.Context, c model.Category, showID uint64) ([]uint64, error) {
	t := c.Tables()
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+t.Column+` FROM `+t.JoinTable+` WHERE spectacle_id = ? ORDER BY `+t.Column, showID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// Usage is one link between an item and a show overlapping a follow-up range.
type Usage struct {
	EquipmentID uint64    `json:"equipment_id"`
	ShowID      uint64    `json:"show_id"`
	ShowCode    string    `json:"show_code"`
	DateFrom    time.Time `json:"date_from"`
	DateTo      time.Time `json:"date_to"`
}

// UsageInRange lists the links of the category to shows overlapping [from, to].
// Hidden items are included: their history stays visible.
func (r *EquipmentRepo) UsageInRange(ctx context.Context, c model.Category, from, to time.Time) ([]Usage, error) {
	t := c.Tables()
	rows, err := r.db.QueryContext(ctx,
		`SELECT l.`+t.Column+`, s.id, s.code, s.date_from, s.date_to
		 FROM `+t.JoinTable+` l JOIN spectacle s ON s.id = l.spectacle_id
		 WHERE NOT (s.date_to < ? OR s.date_from > ?)
		 ORDER BY l.`+t.Column+`, s.date_from`,
		model.FormatDay(from), model.FormatDay(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Usage
	for rows.Next() {
		var u Usage
		if err := rows.Scan(&u.EquipmentID, &u.ShowID, &u.ShowCode, day(&u.DateFrom), day(&u.DateTo)); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Unique drops zero values and duplicates, keeping the first occurrence order.
func Unique(ids []uint64) []uint64 {
	seen := make(map[uint64]bool, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
