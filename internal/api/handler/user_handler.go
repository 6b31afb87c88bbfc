package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/crmdesk/crm-system/internal/core/ports"
)

// UserHandler handles HTTP requests for the authenticated user's account.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// Profile handles GET /v1/me.
//
// @Summary      Get the authenticated user's profile
// @Tags         account
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.Profile
// @Failure      401  {object}  errorResponse
// @Router       /v1/me [get]
func (h *UserHandler) Profile(c echo.Context) error {
	userID, err := ctxTenant(c)
	if err != nil {
		return err
	}

	profile, err := h.service.Profile(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

// DeleteAccount handles DELETE /v1/me. Owned clients are removed and their
// invoices detached.
//
// @Summary      Delete the authenticated user's account
// @Tags         account
// @Security     BearerAuth
// @Success      204
// @Failure      401  {object}  errorResponse
// @Router       /v1/me [delete]
func (h *UserHandler) DeleteAccount(c echo.Context) error {
	userID, err := ctxTenant(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteAccount(c.Request().Context(), userID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
