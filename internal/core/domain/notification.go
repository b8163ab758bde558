package domain

import "time"

// NotificationKind groups outbound notifications for metrics and logs.
type NotificationKind string

const (
	NotifyProviderRegistered NotificationKind = "provider_registered"
	NotifyProviderStatus     NotificationKind = "provider_status"
	NotifyContactApproved    NotificationKind = "contact_approved"
)

// Notification is one outbound SMS. Delivery is best effort: a single attempt,
// no retry.
type Notification struct {
	ID        string           `json:"id"`
	Kind      NotificationKind `json:"kind"`
	To        []string         `json:"to"`
	Message   string           `json:"message"`
	CreatedAt time.Time        `json:"created_at"`
}
