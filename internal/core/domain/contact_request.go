package domain

import "time"

// RequestStatus is the status of a contact request.
type RequestStatus string

const (
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

// ParseRequestStatus accepts only the two values the status endpoint allows.
func ParseRequestStatus(s string) (RequestStatus, bool) {
	switch RequestStatus(s) {
	case RequestApproved, RequestRejected:
		return RequestStatus(s), true
	}
	return "", false
}

// ContactRequest is a client's first outreach to a provider and the root of a
// conversation. ClientName and ProviderName are snapshots taken from the caller
// at creation time; they are not joined against the user directory.
type ContactRequest struct {
	ID           string        `json:"id"`
	ClientID     string        `json:"client_id"`
	ClientName   string        `json:"client_name"`
	ProviderID   string        `json:"provider_id"`
	ProviderName string        `json:"provider_name"`
	Message      string        `json:"message"`
	Status       RequestStatus `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
	ApprovedAt   *time.Time    `json:"approved_at"`
}

// Involves reports whether userID is one of the two participants.
func (r *ContactRequest) Involves(userID string) bool {
	return r.ClientID == userID || r.ProviderID == userID
}
