package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	OwnerHeader = "X-Radar-User"
	ownerKey    = "radar.owner"
)

// Owner copies the caller identity from OwnerHeader into the request context.
// A missing header leaves the request anonymous.
func Owner() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(ownerKey, strings.TrimSpace(c.Request().Header.Get(OwnerHeader)))
			return next(c)
		}
	}
}

func OwnerFrom(c echo.Context) string {
	owner, _ := c.Get(ownerKey).(string)
	return owner
}
