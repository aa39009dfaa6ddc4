package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/paillette/internal/model"
)

func formContext(v url.Values) echo.Context {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(v.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return echo.New().NewContext(req, httptest.NewRecorder())
}

func TestParseRepresentations(t *testing.T) {
	reps, err := parseRepresentations(url.Values{
		"10-name":   {"Late"},
		"10-dates":  {"2024-07-12"},
		"2-name":    {" Early "},
		"2-dates":   {"2024-07-10, 2024-07-11", ""},
		"2-artists": {"3,4", "0"},
		"7-name":    {""},
		"7-artists": {"5"},
		"place":     {"Lyon"},
		"abc-dates": {"2024-07-10"},
	})
	require.NoError(t, err)
	require.Len(t, reps, 3)
	assert.Equal(t, "Early", reps[0].Name)
	assert.Len(t, reps[0].Dates, 2)
	assert.Equal(t, []uint64{3, 4}, reps[0].ArtistIDs)
	assert.Equal(t, "Late", reps[1].Name)
	assert.Equal(t, "", reps[2].Name)
	assert.Len(t, reps[2].Dates, 1)

	_, err = parseRepresentations(url.Values{"1-dates": {"tomorrow"}})
	assert.ErrorIs(t, err, errBadForm)
	_, err = parseRepresentations(url.Values{"1-artists": {"x"}})
	assert.ErrorIs(t, err, errBadForm)
}

func TestParseShowForm(t *testing.T) {
	f, err := parseShowForm(formContext(url.Values{
		"place":     {" Évreux "},
		"date_from": {"2024-07-10"},
		"date_to":   {"2024-07-12"},
		"meal":      {"vegetarian"},
		"sound":     {"2", "2,3"},
		"1-name":    {"Set A"},
	}))
	require.NoError(t, err)
	assert.Equal(t, "Évreux", f.Fields.Place)
	assert.Equal(t, "vegetarian", f.Fields.Meal)
	assert.Equal(t, []uint64{2, 2, 3}, f.Resources[model.Sound])
	assert.Empty(t, f.Resources[model.Costume])
	require.Len(t, f.Reps, 1)

	_, err = parseShowForm(formContext(url.Values{"date_from": {"2024-07-10"}, "date_to": {"2024-07-12"}}))
	assert.Error(t, err)
}

func TestFail(t *testing.T) {
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	require.NoError(t, fail(c, model.ErrUnknownCategory))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
