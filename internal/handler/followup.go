package handler

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/paillette/internal/filter"
	"github.com/iliyamo/paillette/internal/middleware"
	"github.com/iliyamo/paillette/internal/model"
	"github.com/iliyamo/paillette/internal/queue"
	"github.com/iliyamo/paillette/internal/repository"
	"github.com/iliyamo/paillette/internal/service"
)

// FollowupHandler serves the follow-up calendars and the availability form.
type FollowupHandler struct {
	DB         *sql.DB
	Followups  *service.Followups
	Reconciler *service.Reconciler
	Equipment  *repository.EquipmentRepo
	Filters    filter.Store
	Publisher  service.Publisher
}

func NewFollowupHandler(db *sql.DB, f *service.Followups, r *service.Reconciler, e *repository.EquipmentRepo, fs filter.Store, p service.Publisher) *FollowupHandler {
	return &FollowupHandler{DB: db, Followups: f, Reconciler: r, Equipment: e, Filters: fs, Publisher: p}
}

// Grid returns the artist-by-day grid over ?from=&to=, narrowed by the
// filter stored for the current person.
func (h *FollowupHandler) Grid(c echo.Context) error {
	from, to, err := queryRange(c)
	if err != nil {
		return fail(c, err)
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	f := h.currentFilter(c)
	rows, err := h.Followups.Filtered(ctx, from, to, f)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"from":    model.FormatDay(from),
		"to":      model.FormatDay(to),
		"filter":  filter.Describe(f),
		"artists": rows,
	})
}

// currentFilter never fails: a store error degrades to showing everyone.
func (h *FollowupHandler) currentFilter(c echo.Context) filter.Filter {
	f, err := h.Filters.Get(c.Request().Context(), middleware.ActorID(c))
	if err != nil {
		zap.L().Warn("filter store unavailable", zap.Error(err))
		return filter.None{}
	}
	return f
}

// SetFilter stores the submitted filter.  A malformed submission, down to a
// body that does not bind, is stored as no filter at all.
func (h *FollowupHandler) SetFilter(c echo.Context) error {
	var req filterReq
	var f filter.Filter = filter.None{}
	if err := c.Bind(&req); err == nil {
		f = filter.Parse(req.Kind, req.Values, req.From, req.To)
	}
	if err := h.Filters.Set(c.Request().Context(), middleware.ActorID(c), f); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, filter.Describe(f))
}

func (h *FollowupHandler) ClearFilter(c echo.Context) error {
	if err := h.Filters.Clear(c.Request().Context(), middleware.ActorID(c)); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// SetAvailability applies one availability submission for an artist.
func (h *FollowupHandler) SetAvailability(c echo.Context) error {
	var req availabilityReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := req.Validate(); err != nil {
		return fail(c, err)
	}
	change := service.AvailabilityChange{
		ArtistID:             req.Artist,
		Decision:             model.Decision(req.Decision),
		RepresentationDateID: req.RepresentationDate,
	}
	if change.Decision == "" {
		change.Decision = model.Unset
	}
	if req.Date != "" {
		change.From, _ = model.ParseDay(req.Date)
		change.To = change.From
	} else {
		change.From, _ = model.ParseDay(req.From)
		change.To, _ = model.ParseDay(req.To)
	}

	ctx, cancel := withTimeout(c)
	defer cancel()
	actor := middleware.ActorID(c)
	var res service.AvailabilityResult
	err := service.InTx(ctx, h.DB, actor, func(s service.Scope) error {
		var err error
		res, err = h.Reconciler.SetAvailability(ctx, s, change)
		return err
	})
	if err != nil {
		return fail(c, err)
	}
	h.Publisher.Publish(ctx, queue.Event{
		Type:     queue.AvailabilityChanged,
		ActorID:  actor,
		ArtistID: change.ArtistID,
		From:     model.FormatDay(change.From),
		To:       model.FormatDay(change.To),
		Detail:   "value=" + res.Value,
		At:       time.Now().UTC().Format(time.RFC3339),
	})
	if res.Removed == nil {
		res.Removed = []service.Detached{}
	}
	return c.JSON(http.StatusOK, res)
}

type equipmentUsage struct {
	equipmentPart
	Shows []repository.Usage `json:"shows"`
}

// EquipmentUsage lists every item of a category with the shows overlapping
// ?from=&to= it is linked to.
func (h *FollowupHandler) EquipmentUsage(c echo.Context) error {
	cat, err := model.ParseCategory(c.Param("category"))
	if err != nil {
		return fail(c, err)
	}
	from, to, err := queryRange(c)
	if err != nil {
		return fail(c, err)
	}
	if !(model.Range{From: from, To: to}).Valid() {
		return fail(c, service.ErrInvalidRange)
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	items, err := h.Equipment.List(ctx, cat)
	if err != nil {
		return fail(c, err)
	}
	usages, err := h.Equipment.UsageInRange(ctx, cat, from, to)
	if err != nil {
		return fail(c, err)
	}
	byItem := make(map[uint64][]repository.Usage)
	for _, u := range usages {
		byItem[u.EquipmentID] = append(byItem[u.EquipmentID], u)
	}
	out := make([]equipmentUsage, 0, len(items))
	for _, e := range items {
		shows := byItem[e.ID]
		if e.Hidden && len(shows) == 0 {
			continue
		}
		if shows == nil {
			shows = []repository.Usage{}
		}
		out = append(out, equipmentUsage{equipmentPart: equipmentJSON(e), Shows: shows})
	}
	return c.JSON(http.StatusOK, out)
}
