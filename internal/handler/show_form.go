package handler

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/paillette/internal/model"
	"github.com/iliyamo/paillette/internal/service"
)

// showForm is the decoded show submission: scalar fields, equipment ids per
// category and representation groups.
type showForm struct {
	Fields    model.Show
	Resources service.Resources
	Reps      []service.RepresentationPlan
}

type showFieldsReq struct {
	Place    string
	DateFrom string
	DateTo   string
}

func (r showFieldsReq) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Place, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.DateFrom, validation.Required, validation.Date(model.DayLayout)),
		validation.Field(&r.DateTo, validation.Required, validation.Date(model.DayLayout)),
	)
}

// parseShowForm reads a urlencoded or multipart show submission.
//
// Representations arrive as groups of fields sharing a key: <key>-name,
// <key>-dates and <key>-artists.  A group with neither a name nor a date
// is ignored, as are empty entries inside a group.
func parseShowForm(c echo.Context) (showForm, error) {
	values, err := c.FormParams()
	if err != nil {
		return showForm{}, errBadForm
	}
	req := showFieldsReq{
		Place:    strings.TrimSpace(values.Get("place")),
		DateFrom: strings.TrimSpace(values.Get("date_from")),
		DateTo:   strings.TrimSpace(values.Get("date_to")),
	}
	if err := req.Validate(); err != nil {
		return showForm{}, err
	}
	from, _ := model.ParseDay(req.DateFrom)
	to, _ := model.ParseDay(req.DateTo)

	out := showForm{
		Fields: model.Show{
			Place:         req.Place,
			DateFrom:      from,
			DateTo:        to,
			TravelTime:    values.Get("travel_time"),
			Configuration: values.Get("configuration"),
			Organizer:     values.Get("organizer"),
			Comment:       values.Get("comment"),
			Payment:       values.Get("payment"),
			Contact:       values.Get("contact"),
			Planning:      values.Get("planning"),
			Hosting:       values.Get("hosting"),
			Meal:          values.Get("meal"),
		},
		Resources: service.Resources{},
	}
	for _, cat := range model.Categories {
		ids, err := formIDs(values[cat.String()])
		if err != nil {
			return showForm{}, err
		}
		out.Resources[cat] = ids
	}
	if out.Reps, err = parseRepresentations(values); err != nil {
		return showForm{}, err
	}
	return out, nil
}

func parseRepresentations(values url.Values) ([]service.RepresentationPlan, error) {
	seen := map[string]bool{}
	var keys []string
	for k := range values {
		for _, suffix := range []string{"-name", "-dates", "-artists"} {
			if key, ok := strings.CutSuffix(k, suffix); ok && key != "" && !seen[key] {
				seen[key] = true
				keys = append(keys, key)
			}
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		a, errA := strconv.Atoi(keys[i])
		b, errB := strconv.Atoi(keys[j])
		if errA == nil && errB == nil {
			return a < b
		}
		return keys[i] < keys[j]
	})

	var reps []service.RepresentationPlan
	for _, key := range keys {
		name := strings.TrimSpace(values.Get(key + "-name"))
		dates, err := formDays(values[key+"-dates"])
		if err != nil {
			return nil, err
		}
		artists, err := formIDs(values[key+"-artists"])
		if err != nil {
			return nil, err
		}
		if name == "" && len(dates) == 0 {
			continue
		}
		reps = append(reps, service.RepresentationPlan{Name: name, Dates: dates, ArtistIDs: artists})
	}
	return reps, nil
}
