package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medisched/user-service/internal/api/middleware"
)

// ctxToken returns the bearer token stored by the Bearer middleware. An empty
// value means the middleware did not run for this route.
func ctxToken(c echo.Context) (string, error) {
	token, _ := c.Get(middleware.TokenKey).(string)
	if token == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
	}
	return token, nil
}
