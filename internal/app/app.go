// Package app wires repositories, services and handlers into an echo
// server.
package app

import (
	"database/sql"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/paillette/internal/config"
	"github.com/iliyamo/paillette/internal/filter"
	"github.com/iliyamo/paillette/internal/handler"
	"github.com/iliyamo/paillette/internal/middleware"
	"github.com/iliyamo/paillette/internal/repository"
	"github.com/iliyamo/paillette/internal/router"
	"github.com/iliyamo/paillette/internal/service"
)

// Deps are the external resources the server runs on.  Redis and Publisher
// are optional.
type Deps struct {
	DB        *sql.DB
	Redis     *redis.Client
	Publisher service.Publisher
	RateLimit config.RateLimitConfig
}

// New builds the echo server for cfg.
func New(cfg config.Config, d Deps) *echo.Echo {
	if d.Publisher == nil {
		d.Publisher = service.NopPublisher{}
	}
	var filters filter.Store = filter.NewMemoryStore()
	if d.Redis != nil {
		filters = filter.NewRedisStore(d.Redis, cfg.FilterTTL)
	}

	persons := repository.NewPersonRepo(d.DB)
	artists := repository.NewArtistRepo(d.DB)
	shows := repository.NewShowRepo(d.DB)
	reps := repository.NewRepresentationRepo(d.DB)
	equipment := repository.NewEquipmentRepo(d.DB)
	images := repository.NewImageRepo(d.DB)
	availabilities := repository.NewAvailabilityRepo(d.DB)

	accounts := service.NewAccounts(d.DB, persons, artists, cfg.BcryptCost)
	cascade := service.NewCascade(shows, reps, equipment, images)
	reconciler := service.NewReconciler(artists, reps, availabilities)
	followups := service.NewFollowups(artists, availabilities)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(zap.L()))
	e.Use(echomw.BodyLimit("12M"))
	e.Static("/uploads", cfg.UploadDir)
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		code := http.StatusInternalServerError
		msg := interface{}("internal error")
		if he, ok := err.(*echo.HTTPError); ok {
			code, msg = he.Code, he.Message
		}
		_ = c.JSON(code, echo.Map{"error": msg})
	}

	router.RegisterRoutes(e, d.DB)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, accounts, d.Publisher), middleware.NewTokenBucket(d.RateLimit, d.Redis))
	router.RegisterBackOffice(e, router.Handlers{
		Auth:      handler.NewAuthHandler(cfg, accounts, d.Publisher),
		Persons:   handler.NewPersonHandler(accounts),
		Artists:   handler.NewArtistHandler(accounts),
		Shows:     handler.NewShowHandler(d.DB, cascade, reps, cfg.UploadDir, d.Publisher),
		Equipment: handler.NewEquipmentHandler(equipment),
		Followups: handler.NewFollowupHandler(d.DB, followups, reconciler, equipment, filters, d.Publisher),
	}, cfg.JWTSecret)
	return e
}
