// Package router registers the HTTP routes of the API.
package router

import (
	"database/sql"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/paillette/internal/handler"
	"github.com/iliyamo/paillette/internal/middleware"
)

// Handlers bundles every handler the router mounts.
type Handlers struct {
	Auth      *handler.AuthHandler
	Persons   *handler.PersonHandler
	Artists   *handler.ArtistHandler
	Shows     *handler.ShowHandler
	Equipment *handler.EquipmentHandler
	Followups *handler.FollowupHandler
}

// RegisterRoutes registers the probes, which need no authentication.
func RegisterRoutes(e *echo.Echo, db *sql.DB) {
	e.GET("/healthz", handler.Health)
	e.GET("/readyz", handler.Ready(db))
}

// RegisterAuth registers the unauthenticated auth endpoints under /v1/auth.
// limiter guards them against credential stuffing.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, limiter echo.MiddlewareFunc) {
	g := e.Group("/v1/auth", limiter)
	g.POST("/login", a.Login)
	g.POST("/lost-password", a.LostPassword)
	g.POST("/reset-password", a.ResetPassword)
}

// RegisterBackOffice registers every endpoint that requires a logged-in
// person.
func RegisterBackOffice(e *echo.Echo, h Handlers, jwtSecret string) {
	v1 := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	v1.GET("/me", h.Auth.Me)

	v1.GET("/persons", h.Persons.List)
	v1.POST("/persons", h.Persons.Create)
	v1.GET("/persons/:id", h.Persons.Get)
	v1.PUT("/persons/:id", h.Persons.Update)

	v1.GET("/artists", h.Artists.List)
	v1.POST("/artists", h.Artists.Create)
	v1.PUT("/artists/:id/color", h.Artists.UpdateColor)
	v1.DELETE("/artists/:id", h.Artists.Hide)

	v1.GET("/shows", h.Shows.ListMonth)
	v1.POST("/shows", h.Shows.Create)
	v1.GET("/shows/:id", h.Shows.Get)
	v1.PUT("/shows/:id", h.Shows.Update)
	v1.DELETE("/shows/:id", h.Shows.Delete)
	v1.POST("/shows/:id/images", h.Shows.UploadImage)
	v1.DELETE("/shows/:id/images/:image", h.Shows.RemoveImage)

	v1.GET("/equipment/:category", h.Equipment.List)
	v1.POST("/equipment/:category", h.Equipment.Create)
	v1.GET("/equipment/:category/:id", h.Equipment.Get)
	v1.PUT("/equipment/:category/:id", h.Equipment.Update)
	v1.DELETE("/equipment/:category/:id", h.Equipment.Hide)

	v1.GET("/followups", h.Followups.Grid)
	v1.POST("/followups/filter", h.Followups.SetFilter)
	v1.DELETE("/followups/filter", h.Followups.ClearFilter)
	v1.GET("/followups/equipment/:category", h.Followups.EquipmentUsage)
	v1.POST("/availabilities", h.Followups.SetAvailability)
}
