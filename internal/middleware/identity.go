package middleware

import "github.com/labstack/echo/v4"

// ActorID returns the id of the authenticated person, or 0 outside JWTAuth.
func ActorID(c echo.Context) uint64 {
	if id, ok := c.Get(actorKey).(uint64); ok {
		return id
	}
	return 0
}
