package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/paillette/internal/model"
	"github.com/iliyamo/paillette/internal/service"
)

// PersonHandler serves the users of the back office.  Artists are persons
// too but never show up here.
type PersonHandler struct {
	Accounts *service.Accounts
}

func NewPersonHandler(a *service.Accounts) *PersonHandler {
	return &PersonHandler{Accounts: a}
}

func personJSON(p model.Person) personPart {
	return personPart{ID: p.ID, Name: p.Name, Mail: p.Mail, Phone: p.Phone}
}

type personDetail struct {
	personPart
	Comment string `json:"comment"`
}

// List returns every person that is not an artist.
func (h *PersonHandler) List(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()
	persons, err := h.Accounts.Persons.ListNonArtists(ctx)
	if err != nil {
		return fail(c, err)
	}
	out := make([]personPart, 0, len(persons))
	for _, p := range persons {
		out = append(out, personJSON(p))
	}
	return c.JSON(http.StatusOK, out)
}

func (h *PersonHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	p, err := h.Accounts.Persons.GetByID(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, personDetail{personPart: personJSON(p), Comment: p.Comment})
}

func (h *PersonHandler) Create(c echo.Context) error {
	var req personReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := req.Validate(); err != nil {
		return fail(c, err)
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	p, err := h.Accounts.CreatePerson(ctx, req.input())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, personJSON(p))
}

func (h *PersonHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var req personReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := req.Validate(); err != nil {
		return fail(c, err)
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	p, err := h.Accounts.UpdatePerson(ctx, id, req.input())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, personJSON(p))
}

func (r personReq) input() service.PersonInput {
	return service.PersonInput{
		Name:     r.Name,
		Mail:     r.Mail,
		Phone:    r.Phone,
		Comment:  r.Comment,
		Password: r.Password,
		Confirm:  r.Confirm,
	}
}
