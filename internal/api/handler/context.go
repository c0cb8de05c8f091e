package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hirewave/portal-gateway/internal/api/middleware"
	"github.com/hirewave/portal-gateway/internal/core/domain"
)

// ctxUser extracts the user attached by the auth gate. Its presence proves
// the gate ran and resolved a session; a protected handler reached without
// it is a wiring bug answered with 401, never a panic.
func ctxUser(c echo.Context) (*domain.User, error) {
	user, _ := c.Get(middleware.ContextKeyUser).(*domain.User)
	if user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication context")
	}
	return user, nil
}

// ctxAccessToken returns the access token the gate resolved for this
// request, or "" on public routes.
func ctxAccessToken(c echo.Context) string {
	token, _ := c.Get(middleware.ContextKeyAccessToken).(string)
	return token
}
