package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/paillette/internal/model"
	"github.com/iliyamo/paillette/internal/repository"
)

// Cascade writes a show together with its whole dependent graph.
type Cascade struct {
	Shows           *repository.ShowRepo
	Representations *repository.RepresentationRepo
	Equipment       *repository.EquipmentRepo
	Images          *repository.ImageRepo
}

// NewCascade wires a Cascade on top of its repositories.
func NewCascade(s *repository.ShowRepo, r *repository.RepresentationRepo, e *repository.EquipmentRepo, i *repository.ImageRepo) *Cascade {
	return &Cascade{Shows: s, Representations: r, Equipment: e, Images: i}
}

// Resources lists, per category, the equipment ids linked to a show.  A
// category missing from the map is linked to nothing.
type Resources map[model.Category][]uint64

// RepresentationPlan is the desired state of one representation.  Zero
// dates and zero artist ids are skipped, duplicates are collapsed.
type RepresentationPlan struct {
	Name      string
	Dates     []time.Time
	ArtistIDs []uint64
}

// CreateShow inserts a show and its dependent graph.
func (c *Cascade) CreateShow(ctx context.Context, s Scope, fields model.Show, res Resources, reps []RepresentationPlan) (model.Show, error) {
	if !fields.Range().Valid() {
		return fields, ErrInvalidRange
	}
	fields.ID = 0
	if err := c.Shows.CreateTx(ctx, s.Tx, &fields); err != nil {
		return fields, fmt.Errorf("create show: %w", err)
	}
	if err := c.rebuild(ctx, s, fields.ID, res, reps); err != nil {
		return fields, err
	}
	return fields, nil
}

// RebuildShow replaces a show: its scalar columns, its equipment links and
// its representations, dates and assignments.  The submission is the full
// desired state; nothing of the previous graph survives.
func (c *Cascade) RebuildShow(ctx context.Context, s Scope, showID uint64, fields model.Show, res Resources, reps []RepresentationPlan) (model.Show, error) {
	if !fields.Range().Valid() {
		return fields, ErrInvalidRange
	}
	fields.ID = showID
	if err := c.Shows.UpdateTx(ctx, s.Tx, &fields); err != nil {
		return fields, err
	}
	if err := c.rebuild(ctx, s, showID, res, reps); err != nil {
		return fields, err
	}
	return fields, nil
}

func (c *Cascade) rebuild(ctx context.Context, s Scope, showID uint64, res Resources, reps []RepresentationPlan) error {
	for _, cat := range model.Categories {
		if err := c.Equipment.ReplaceLinksTx(ctx, s.Tx, cat, showID, res[cat]); err != nil {
			return fmt.Errorf("link %s: %w", cat, err)
		}
	}
	removed, err := c.Representations.DeleteGraphTx(ctx, s.Tx, showID)
	if err != nil {
		return fmt.Errorf("clear representations: %w", err)
	}
	for _, plan := range reps {
		repID, err := c.Representations.CreateTx(ctx, s.Tx, showID, strings.TrimSpace(plan.Name))
		if err != nil {
			return fmt.Errorf("create representation: %w", err)
		}
		artists := repository.Unique(plan.ArtistIDs)
		for _, d := range uniqueDays(plan.Dates) {
			dateID, err := c.Representations.CreateDateTx(ctx, s.Tx, repID, d)
			if err != nil {
				return fmt.Errorf("create representation date: %w", err)
			}
			for _, artistID := range artists {
				if err := c.Representations.AssignTx(ctx, s.Tx, artistID, dateID); err != nil {
					return fmt.Errorf("assign artist %d: %w", artistID, err)
				}
			}
		}
	}
	zap.L().Debug("show graph rebuilt",
		zap.Uint64("actor_id", s.ActorID),
		zap.Uint64("show_id", showID),
		zap.Int64("removed_assignments", removed.Assignments),
		zap.Int64("removed_dates", removed.Dates),
		zap.Int64("removed_representations", removed.Representations),
		zap.Int("representations", len(reps)))
	return nil
}

// DeleteShow removes a show and every row depending on it, in dependency
// order.  It returns the image rows that were removed so that the caller can
// delete the files once the transaction is committed.
func (c *Cascade) DeleteShow(ctx context.Context, s Scope, showID uint64) ([]model.Image, error) {
	if _, err := c.Shows.GetByIDTx(ctx, s.Tx, showID); err != nil {
		return nil, err
	}
	images, err := c.Images.ListByShowTx(ctx, s.Tx, showID)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	if _, err := c.Representations.DeleteGraphTx(ctx, s.Tx, showID); err != nil {
		return nil, fmt.Errorf("clear representations: %w", err)
	}
	for _, cat := range model.Categories {
		if err := c.Equipment.DeleteLinksTx(ctx, s.Tx, cat, showID); err != nil {
			return nil, fmt.Errorf("unlink %s: %w", cat, err)
		}
	}
	if err := c.Images.DeleteByShowTx(ctx, s.Tx, showID); err != nil {
		return nil, fmt.Errorf("delete images: %w", err)
	}
	if err := c.Shows.DeleteTx(ctx, s.Tx, showID); err != nil {
		return nil, err
	}
	zap.L().Debug("show deleted", zap.Uint64("actor_id", s.ActorID), zap.Uint64("show_id", showID))
	return images, nil
}

func uniqueDays(days []time.Time) []time.Time {
	seen := map[string]bool{}
	var out []time.Time
	for _, d := range days {
		if d.IsZero() {
			continue
		}
		k := model.FormatDay(d)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, model.Day(d))
	}
	return out
}
