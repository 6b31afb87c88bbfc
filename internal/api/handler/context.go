package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxTenant extracts the authenticated user's id injected by the Auth
// middleware. Every client/invoice query is scoped to this id; a request
// without it never reaches a service call.
func ctxTenant(c echo.Context) (string, error) {
	userID, _ := c.Get("user_id").(string)
	if userID == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return userID, nil
}
