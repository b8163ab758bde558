package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kindapp/marketplace/internal/core/domain"
	"github.com/kindapp/marketplace/internal/core/ports"
)

// UserHandler serves the user directory and provider approvals.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// SearchProviders handles GET /providers.
//
// @Summary      Search active providers
// @Tags         users
// @Produce      json
// @Param        service   query     string  false  "Service contains"
// @Param        location  query     string  false  "Location contains"
// @Success      200       {array}   domain.User
// @Failure      500       {object}  errorResponse
// @Router       /providers [get]
func (h *UserHandler) SearchProviders(c echo.Context) error {
	out, err := h.service.SearchProviders(c.Request().Context(), c.QueryParam("service"), c.QueryParam("location"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /users/:id.
//
// @Summary      Get a user profile
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  domain.User
// @Failure      404  {object}  errorResponse
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	u, err := h.service.GetUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}

// List handles GET /users.
//
// @Summary      List all users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.User
// @Failure      403  {object}  errorResponse
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	out, err := h.service.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// Update handles PUT /users/:id. Users may edit their own profile; only
// admins may edit others or change a role.
//
// @Summary      Update a profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User id"
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	callerID, role, err := ctxClaims(c)
	if err != nil {
		return err
	}

	id := c.Param("id")
	var req updateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if role != domain.RoleAdmin && (callerID != id || req.Role != "") {
		return domain.ErrForbidden
	}

	u, err := h.service.UpdateProfile(c.Request().Context(), id, domain.ProfileUpdate{
		Name:        req.Name,
		Email:       req.Email,
		Role:        req.Role,
		Service:     req.Service,
		Location:    req.Location,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}

// Delete handles DELETE /users/:id.
//
// @Summary      Delete a user and its contact requests
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  errorResponse
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	if err := h.service.DeleteUser(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "User deleted"})
}

// PendingProviders handles GET /admin/pending-providers.
//
// @Summary      List providers awaiting approval
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.User
// @Router       /admin/pending-providers [get]
func (h *UserHandler) PendingProviders(c echo.Context) error {
	out, err := h.service.ListPendingProviders(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// SetProviderStatus handles PUT /admin/providers/:id/status.
//
// @Summary      Approve or reject a provider
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "Provider id"
// @Param        body  body      providerStatusRequest  true  "active or rejected"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /admin/providers/{id}/status [put]
func (h *UserHandler) SetProviderStatus(c echo.Context) error {
	var req providerStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.service.SetProviderStatus(c.Request().Context(), c.Param("id"), req.Status); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: fmt.Sprintf("Provider %s", req.Status)})
}
