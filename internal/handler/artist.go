package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/paillette/internal/middleware"
	"github.com/iliyamo/paillette/internal/model"
	"github.com/iliyamo/paillette/internal/service"
)

// ArtistHandler serves the troupe members.
type ArtistHandler struct {
	Accounts *service.Accounts
}

func NewArtistHandler(a *service.Accounts) *ArtistHandler {
	return &ArtistHandler{Accounts: a}
}

type artistPart struct {
	ID       uint64 `json:"id"`
	PersonID uint64 `json:"person_id"`
	Name     string `json:"name"`
	Color    string `json:"color"`
}

func artistJSON(a model.Artist) artistPart {
	return artistPart{ID: a.ID, PersonID: a.PersonID, Name: a.Name, Color: a.Color}
}

// List returns the visible artists.
func (h *ArtistHandler) List(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()
	artists, err := h.Accounts.Artists.ListVisible(ctx)
	if err != nil {
		return fail(c, err)
	}
	out := make([]artistPart, 0, len(artists))
	for _, a := range artists {
		out = append(out, artistJSON(a))
	}
	return c.JSON(http.StatusOK, out)
}

// Create inserts the person and the artist row together.
func (h *ArtistHandler) Create(c echo.Context) error {
	var req artistReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := req.Validate(); err != nil {
		return fail(c, err)
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	a, err := h.Accounts.CreateArtist(ctx, middleware.ActorID(c), req.input(), normalizeColor(req.Color))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, artistJSON(a))
}

func (h *ArtistHandler) UpdateColor(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var req colorReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := req.Validate(); err != nil {
		return fail(c, err)
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	if err := h.Accounts.Artists.UpdateColor(ctx, id, normalizeColor(req.Color)); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Hide removes the artist from the calendars.  Past assignments stay.
func (h *ArtistHandler) Hide(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	if err := h.Accounts.Artists.Hide(ctx, id); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func normalizeColor(s string) string {
	if s == "" || s[0] == '#' {
		return s
	}
	return "#" + s
}
