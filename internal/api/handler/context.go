package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kindapp/marketplace/internal/api/middleware"
	"github.com/kindapp/marketplace/internal/core/domain"
)

// ctxClaims extracts the identity injected by the Auth middleware. A missing
// subject means the route was mounted without Auth, reported as 401.
func ctxClaims(c echo.Context) (userID string, role domain.Role, err error) {
	userID, _ = c.Get(middleware.CtxUserID).(string)
	if userID == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	r, _ := c.Get(middleware.CtxRole).(string)
	return userID, domain.Role(r), nil
}

// bindAndValidate decodes the body into req and runs the struct validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domain.Invalid("invalid payload")
	}
	if c.Echo().Validator == nil {
		return nil
	}
	return c.Validate(req)
}
