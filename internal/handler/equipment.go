package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/paillette/internal/model"
	"github.com/iliyamo/paillette/internal/repository"
)

// EquipmentHandler serves the six equipment categories.  The category is
// always the :category path parameter.
type EquipmentHandler struct {
	Equipment *repository.EquipmentRepo
}

func NewEquipmentHandler(e *repository.EquipmentRepo) *EquipmentHandler {
	return &EquipmentHandler{Equipment: e}
}

type equipmentPart struct {
	ID       uint64 `json:"id"`
	Category string `json:"category"`
	Name     string `json:"name"`
	Color    string `json:"color"`
	Hidden   bool   `json:"hidden"`
}

func equipmentJSON(e model.Equipment) equipmentPart {
	return equipmentPart{ID: e.ID, Category: e.Category.String(), Name: e.Name, Color: e.Color, Hidden: e.Hidden}
}

func equipmentList(items []model.Equipment) []equipmentPart {
	out := make([]equipmentPart, 0, len(items))
	for _, e := range items {
		out = append(out, equipmentJSON(e))
	}
	return out
}

// List returns every item of the category, hidden ones included.  With
// ?show=<id> it returns only what the show form may offer: visible items
// plus the hidden ones already linked to that show.
func (h *EquipmentHandler) List(c echo.Context) error {
	cat, err := model.ParseCategory(c.Param("category"))
	if err != nil {
		return fail(c, err)
	}
	ctx, cancel := withTimeout(c)
	defer cancel()

	var items []model.Equipment
	if s := c.QueryParam("show"); s != "" {
		showID, perr := strconv.ParseUint(s, 10, 64)
		if perr != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show"})
		}
		items, err = h.Equipment.ListSelectable(ctx, cat, showID)
	} else {
		items, err = h.Equipment.List(ctx, cat)
	}
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, equipmentList(items))
}

func (h *EquipmentHandler) Get(c echo.Context) error {
	cat, err := model.ParseCategory(c.Param("category"))
	if err != nil {
		return fail(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	e, err := h.Equipment.GetByID(ctx, cat, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, equipmentJSON(e))
}

func (h *EquipmentHandler) Create(c echo.Context) error {
	cat, err := model.ParseCategory(c.Param("category"))
	if err != nil {
		return fail(c, err)
	}
	var req equipmentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := req.Validate(); err != nil {
		return fail(c, err)
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	e := model.Equipment{Category: cat, Name: req.Name, Color: normalizeColor(req.Color)}
	if err := h.Equipment.Create(ctx, &e); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, equipmentJSON(e))
}

func (h *EquipmentHandler) Update(c echo.Context) error {
	cat, err := model.ParseCategory(c.Param("category"))
	if err != nil {
		return fail(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var req equipmentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := req.Validate(); err != nil {
		return fail(c, err)
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	e := model.Equipment{ID: id, Category: cat, Name: req.Name, Color: normalizeColor(req.Color)}
	if err := h.Equipment.Update(ctx, &e); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, equipmentJSON(e))
}

// Hide withdraws an item from the selection lists.
func (h *EquipmentHandler) Hide(c echo.Context) error {
	cat, err := model.ParseCategory(c.Param("category"))
	if err != nil {
		return fail(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	if err := h.Equipment.Hide(ctx, cat, id); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
