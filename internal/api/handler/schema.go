package handler

import (
	"time"

	"github.com/kindapp/marketplace/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// messageResponse acknowledges a state change.
type messageResponse struct {
	Message string `json:"message"`
}

// --- Auth ---

type registerRequest struct {
	Name        string `json:"name"         validate:"required"`
	Email       string `json:"email"        validate:"required,email"`
	Password    string `json:"password"     validate:"required"`
	Role        string `json:"role"         validate:"required"`
	PhoneNumber string `json:"phone_number"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

type meResponse struct {
	User *domain.User `json:"user"`
}

// --- Users ---

type updateUserRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email" validate:"omitempty,email"`
	Role        string `json:"role"`
	Service     string `json:"service"`
	Location    string `json:"location"`
	PhoneNumber string `json:"phone_number"`
}

type providerStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active rejected"`
}

// --- Contact requests ---

type createContactRequestRequest struct {
	ClientID     string `json:"client_id"`
	ClientName   string `json:"client_name"`
	ProviderID   string `json:"provider_id"`
	ProviderName string `json:"provider_name"`
	Message      string `json:"message"`
}

type createContactRequestResponse struct {
	ID         string    `json:"id"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	ApprovedAt time.Time `json:"approved_at"`
}

type contactRequestStatusRequest struct {
	Status string `json:"status"`
}

// --- Messages ---

type postMessageRequest struct {
	ContactRequestID string `json:"contact_request_id"`
	SenderID         string `json:"sender_id"`
	SenderName       string `json:"sender_name"`
	SenderRole       string `json:"sender_role"`
	Message          string `json:"message"`
}
