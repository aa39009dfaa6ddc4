package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/paillette/internal/model"
	"github.com/iliyamo/paillette/internal/repository"
	"github.com/iliyamo/paillette/internal/service"
)

const requestTimeout = 10 * time.Second

func withTimeout(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), requestTimeout)
}

// pathID parses a positive numeric path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

// formIDs collects the positive ids of a repeated or comma separated form
// field.  Empty entries are skipped.
func formIDs(values []string) ([]uint64, error) {
	var out []uint64
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			n, err := strconv.ParseUint(part, 10, 64)
			if err != nil {
				return nil, errBadForm
			}
			if n != 0 {
				out = append(out, n)
			}
		}
	}
	return out, nil
}

// formDays parses a repeated or comma separated list of days.
func formDays(values []string) ([]time.Time, error) {
	var out []time.Time
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			d, err := model.ParseDay(part)
			if err != nil {
				return nil, errBadForm
			}
			out = append(out, d)
		}
	}
	return out, nil
}

// queryRange reads ?from=&to= as a day range.
func queryRange(c echo.Context) (time.Time, time.Time, error) {
	from, err := model.ParseDay(c.QueryParam("from"))
	if err != nil {
		return time.Time{}, time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "invalid from")
	}
	to, err := model.ParseDay(c.QueryParam("to"))
	if err != nil {
		return time.Time{}, time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "invalid to")
	}
	return from, to, nil
}

var errBadForm = errors.New("malformed form")

// fail maps domain errors to HTTP responses.  Unknown errors are logged and
// answered with a generic 500.
func fail(c echo.Context, err error) error {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return c.JSON(he.Code, echo.Map{"error": he.Message})
	}
	var verr validation.Errors
	if errors.As(err, &verr) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "fields": verr})
	}
	switch {
	case errors.Is(err, repository.ErrPersonNotFound),
		errors.Is(err, repository.ErrArtistNotFound),
		errors.Is(err, repository.ErrShowNotFound),
		errors.Is(err, repository.ErrRepresentationDateNotFound),
		errors.Is(err, repository.ErrEquipmentNotFound),
		errors.Is(err, repository.ErrImageNotFound),
		errors.Is(err, model.ErrUnknownCategory):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrEmailExists),
		errors.Is(err, service.ErrPasswordMismatch),
		errors.Is(err, service.ErrConflictingDecision),
		errors.Is(err, service.ErrOutOfRange):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidRange),
		errors.Is(err, service.ErrInvalidDecision),
		errors.Is(err, model.ErrInvalidDay),
		errors.Is(err, errBadForm):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrConstraint):
		zap.L().Warn("constraint violation", zap.String("path", c.Path()), zap.Error(err))
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "save failed"})
	}
	zap.L().Error("request failed", zap.String("path", c.Path()), zap.Error(err))
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
