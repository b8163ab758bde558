package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kindapp/marketplace/internal/core/ports"
)

// MessageHandler serves conversation threads.
type MessageHandler struct {
	service ports.MessageService
}

func NewMessageHandler(service ports.MessageService) *MessageHandler {
	return &MessageHandler{service: service}
}

// Post handles POST /messages.
//
// @Summary      Post a message to a thread
// @Tags         messages
// @Accept       json
// @Produce      json
// @Param        body  body      postMessageRequest  true  "Message"
// @Success      201   {object}  domain.Message
// @Failure      400   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /messages [post]
func (h *MessageHandler) Post(c echo.Context) error {
	var req postMessageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	msg, err := h.service.Post(c.Request().Context(), ports.PostMessageInput{
		ContactRequestID: req.ContactRequestID,
		SenderID:         req.SenderID,
		SenderName:       req.SenderName,
		SenderRole:       req.SenderRole,
		Text:             req.Message,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, msg)
}

// List handles GET /messages/:contactRequestId.
//
// @Summary      List a thread, oldest first
// @Tags         messages
// @Produce      json
// @Param        contactRequestId  path      string  true  "Contact request id"
// @Success      200               {array}   domain.Message
// @Failure      500               {object}  errorResponse
// @Router       /messages/{contactRequestId} [get]
func (h *MessageHandler) List(c echo.Context) error {
	msgs, err := h.service.List(c.Request().Context(), c.Param("contactRequestId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, msgs)
}

// MarkRead handles PUT /messages/:id/read.
//
// @Summary      Mark a message as read
// @Tags         messages
// @Produce      json
// @Param        id   path      string  true  "Message id"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  errorResponse
// @Router       /messages/{id}/read [put]
func (h *MessageHandler) MarkRead(c echo.Context) error {
	if err := h.service.MarkRead(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Message marked as read"})
}
