package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// staffOnly lets teachers and admins through. Must run after authenticated.
func staffOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		usr, err := getContextUser(ctx)
		if err != nil {
			return errors.Wrap(err, "getting context user")
		}
		if !usr.IsStaff() {
			return errHttpForbidden
		}
		return next(ctx)
	}
}

// errorKey sets the JSON key single error messages are rendered under.
func errorKey(key string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			ctx.Set(contextErrorKey, key)
			return next(ctx)
		}
	}
}
