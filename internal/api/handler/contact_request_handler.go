package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kindapp/marketplace/internal/core/ports"
)

// ContactRequestHandler serves the contact request store.
type ContactRequestHandler struct {
	service ports.ContactRequestService
}

func NewContactRequestHandler(service ports.ContactRequestService) *ContactRequestHandler {
	return &ContactRequestHandler{service: service}
}

// Create handles POST /contact-requests.
//
// @Summary      Create a contact request
// @Description  Requests are approved on creation.
// @Tags         contact-requests
// @Accept       json
// @Produce      json
// @Param        body  body      createContactRequestRequest  true  "Contact request"
// @Success      201   {object}  createContactRequestResponse
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /contact-requests [post]
func (h *ContactRequestHandler) Create(c echo.Context) error {
	var req createContactRequestRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.service.Create(c.Request().Context(), ports.CreateContactRequestInput{
		ClientID:     req.ClientID,
		ClientName:   req.ClientName,
		ProviderID:   req.ProviderID,
		ProviderName: req.ProviderName,
		Message:      req.Message,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, createContactRequestResponse{
		ID:         res.ID,
		Status:     string(res.Status),
		CreatedAt:  res.CreatedAt,
		ApprovedAt: res.ApprovedAt,
	})
}

// ListAll handles GET /contact-requests.
//
// @Summary      List all contact requests
// @Tags         contact-requests
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.ContactRequest
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /contact-requests [get]
func (h *ContactRequestHandler) ListAll(c echo.Context) error {
	out, err := h.service.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// ListForClient handles GET /contact-requests/client/:clientId.
//
// @Summary      List a client's contact requests
// @Tags         contact-requests
// @Produce      json
// @Param        clientId  path      string  true  "Client id"
// @Success      200       {array}   domain.ContactRequest
// @Failure      500       {object}  errorResponse
// @Router       /contact-requests/client/{clientId} [get]
func (h *ContactRequestHandler) ListForClient(c echo.Context) error {
	out, err := h.service.ListForClient(c.Request().Context(), c.Param("clientId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// ListForProvider handles GET /contact-requests/provider/:providerId.
//
// @Summary      List a provider's approved contact requests
// @Tags         contact-requests
// @Produce      json
// @Param        providerId  path      string  true  "Provider id"
// @Success      200         {array}   domain.ContactRequest
// @Failure      500         {object}  errorResponse
// @Router       /contact-requests/provider/{providerId} [get]
func (h *ContactRequestHandler) ListForProvider(c echo.Context) error {
	out, err := h.service.ListForProvider(c.Request().Context(), c.Param("providerId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// UpdateStatus handles PUT /contact-requests/:id.
//
// @Summary      Approve or reject a contact request
// @Tags         contact-requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                       true  "Contact request id"
// @Param        body  body      contactRequestStatusRequest  true  "approved or rejected"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /contact-requests/{id} [put]
func (h *ContactRequestHandler) UpdateStatus(c echo.Context) error {
	var req contactRequestStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.service.UpdateStatus(c.Request().Context(), c.Param("id"), req.Status); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: fmt.Sprintf("Contact request %s", req.Status)})
}
