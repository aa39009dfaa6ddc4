package handler

import (
	"errors"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/iliyamo/paillette/internal/model"
)

var (
	colorPattern = regexp.MustCompile(`^#?[0-9A-Fa-f]{6}$`)
	errBlank     = errors.New("cannot be blank")
)

type loginReq struct {
	Mail     string `json:"mail" form:"mail"`
	Password string `json:"password" form:"password"`
}

func (r loginReq) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Mail, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

type lostPasswordReq struct {
	Mail string `json:"mail" form:"mail"`
}

func (r lostPasswordReq) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Mail, validation.Required, is.Email),
	)
}

type resetPasswordReq struct {
	Token    string `json:"token" form:"token"`
	Password string `json:"password" form:"password"`
	Confirm  string `json:"confirm" form:"confirm"`
}

func (r resetPasswordReq) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Token, validation.Required, is.UUID),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 72)),
		validation.Field(&r.Confirm, validation.Required),
	)
}

type personReq struct {
	Name     string `json:"name" form:"name"`
	Mail     string `json:"mail" form:"mail"`
	Phone    string `json:"phone" form:"phone"`
	Comment  string `json:"comment" form:"comment"`
	Password string `json:"password" form:"password"`
	Confirm  string `json:"confirm" form:"confirm"`
}

func (r personReq) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Mail, is.Email),
		validation.Field(&r.Phone, validation.Length(0, 32)),
		validation.Field(&r.Password, validation.Length(8, 72)),
	)
}

type artistReq struct {
	personReq
	Color string `json:"color" form:"color"`
}

func (r artistReq) Validate() error {
	if err := r.personReq.Validate(); err != nil {
		return err
	}
	return validation.ValidateStruct(&r,
		validation.Field(&r.Color, validation.Required, validation.Match(colorPattern)),
	)
}

type colorReq struct {
	Color string `json:"color" form:"color"`
}

func (r colorReq) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Color, validation.Required, validation.Match(colorPattern)),
	)
}

type equipmentReq struct {
	Name  string `json:"name" form:"name"`
	Color string `json:"color" form:"color"`
}

func (r equipmentReq) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Color, validation.Match(colorPattern)),
	)
}

type availabilityReq struct {
	Artist             uint64 `json:"artist" form:"artist"`
	Date               string `json:"date" form:"date"`
	From               string `json:"from" form:"from"`
	To                 string `json:"to" form:"to"`
	Decision           string `json:"decision" form:"decision"`
	RepresentationDate uint64 `json:"representation_date" form:"representation_date"`
}

func (r availabilityReq) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Artist, validation.Required),
		validation.Field(&r.Date, validation.Date(model.DayLayout)),
		validation.Field(&r.From, validation.Date(model.DayLayout)),
		validation.Field(&r.To, validation.Date(model.DayLayout)),
		validation.Field(&r.Decision, validation.In(string(model.Available), string(model.Unavailable), string(model.Unset))),
	)
	if err != nil {
		return err
	}
	if r.Date == "" && (r.From == "" || r.To == "") {
		return validation.Errors{"date": errBlank}
	}
	return nil
}

type filterReq struct {
	Kind   string   `json:"kind" form:"kind"`
	Values []string `json:"values" form:"values"`
	From   string   `json:"from" form:"from"`
	To     string   `json:"to" form:"to"`
}
