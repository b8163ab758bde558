package domain

import "time"

// Message is a single entry of a conversation thread, scoped to a contact request.
type Message struct {
	ID               string     `json:"id"`
	ContactRequestID string     `json:"contact_request_id"`
	SenderID         string     `json:"sender_id"`
	SenderName       string     `json:"sender_name"`
	SenderRole       Role       `json:"sender_role"`
	Text             string     `json:"message"`
	CreatedAt        time.Time  `json:"created_at"`
	ReadAt           *time.Time `json:"read_at,omitempty"`
}

// CanSendMessages reports whether r is one of the two conversation roles.
func (r Role) CanSendMessages() bool {
	return r == RoleClient || r == RoleProvider
}
