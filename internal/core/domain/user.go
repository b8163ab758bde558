package domain

import (
	"strings"
	"time"
)

// Role identifies which side of the marketplace an account belongs to.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleProvider Role = "PROVIDER"
	RoleClient   Role = "CLIENT"
)

// ParseRole normalises a free-form role string ("provider", " Client ") into a Role.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	switch r {
	case RoleAdmin, RoleProvider, RoleClient:
		return r, true
	}
	return "", false
}

// UserStatus is only meaningful for providers; clients and admins are always active.
type UserStatus string

const (
	StatusPending  UserStatus = "pending"
	StatusActive   UserStatus = "active"
	StatusRejected UserStatus = "rejected"
)

// providerTransitions lists the admin-driven moves out of pending. Re-applying a
// status (active -> active) is accepted by SetProviderStatus and is not modelled here.
var providerTransitions = map[UserStatus][]UserStatus{
	StatusPending: {StatusActive, StatusRejected},
}

// CanTransitionTo reports whether the approval workflow defines next as a
// successor of s.
func (s UserStatus) CanTransitionTo(next UserStatus) bool {
	for _, allowed := range providerTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// InitialStatus returns the status a freshly registered account starts in.
func InitialStatus(r Role) UserStatus {
	if r == RoleProvider {
		return StatusPending
	}
	return StatusActive
}

// User models an account in the directory.
type User struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	Status       UserStatus `json:"status"`
	Service      string     `json:"service,omitempty"`
	Location     string     `json:"location,omitempty"`
	PhoneNumber  string     `json:"phone_number,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// IsProvider reports whether u is a service provider account.
func (u *User) IsProvider() bool { return u.Role == RoleProvider }

// ProfileUpdate holds the optional fields of a profile edit. Empty fields are left untouched.
type ProfileUpdate struct {
	Name        string
	Email       string
	Role        string
	Service     string
	Location    string
	PhoneNumber string
}

// IsEmpty reports whether the update would change nothing.
func (p ProfileUpdate) IsEmpty() bool {
	return p == ProfileUpdate{}
}
