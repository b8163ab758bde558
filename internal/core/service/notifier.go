package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kindapp/marketplace/internal/core/domain"
	"github.com/kindapp/marketplace/internal/core/ports"
)

// Notifier turns directory and contact request events into SMS notifications
// and hands them to the outbox. Recipients without a phone number are skipped.
type Notifier struct {
	outbox     ports.Outbox
	adminPhone string
	now        func() time.Time
}

// NewNotifier returns a Notifier. An empty adminPhone disables admin alerts.
func NewNotifier(outbox ports.Outbox, adminPhone string) *Notifier {
	return &Notifier{outbox: outbox, adminPhone: strings.TrimSpace(adminPhone), now: time.Now}
}

// ProviderRegistered alerts the admin that a provider is waiting for approval.
func (n *Notifier) ProviderRegistered(ctx context.Context, u *domain.User) {
	msg := fmt.Sprintf("KIND Alert: New provider registered!\nName: %s\nEmail: %s\nPhone: %s\nStatus: Pending approval",
		u.Name, u.Email, orNA(u.PhoneNumber))
	n.enqueue(ctx, domain.NotifyProviderRegistered, n.adminPhone, msg)
}

// ProviderStatusChanged informs the admin and the provider about an approval decision.
func (n *Notifier) ProviderStatusChanged(ctx context.Context, u *domain.User, status domain.UserStatus) {
	statusText := "REJECTED"
	followUp := "Please contact support."
	if status == domain.StatusActive {
		statusText = "APPROVED"
		followUp = "You can now log in."
	}

	adminMsg := fmt.Sprintf("KIND Alert: Provider %s!\nName: %s\nEmail: %s\nService: %s\nStatus: %s",
		statusText, u.Name, u.Email, orNA(u.Service), statusText)
	n.enqueue(ctx, domain.NotifyProviderStatus, n.adminPhone, adminMsg)

	providerMsg := fmt.Sprintf("Hello %s, your provider account on KIND has been %s. %s", u.Name, statusText, followUp)
	n.enqueue(ctx, domain.NotifyProviderStatus, u.PhoneNumber, providerMsg)
}

// ContactApproved informs the admin, the client and the provider that a client
// has been given the provider's contact details. client and provider may be
// empty users when the directory lookup failed.
func (n *Notifier) ContactApproved(ctx context.Context, r *domain.ContactRequest, client, provider *domain.User) {
	adminMsg := fmt.Sprintf("KIND Alert: Contact request approved!\nClient: %s\nProvider: %s\nService: %s",
		r.ClientName, r.ProviderName, orNA(provider.Service))
	n.enqueue(ctx, domain.NotifyContactApproved, n.adminPhone, adminMsg)

	contact := provider.PhoneNumber
	if contact == "" {
		contact = provider.Email
	}
	clientMsg := fmt.Sprintf("Good news! Your request for %s (%s) has been APPROVED. Contact them at: %s.",
		r.ProviderName, orNA(provider.Service), contact)
	n.enqueue(ctx, domain.NotifyContactApproved, client.PhoneNumber, clientMsg)

	providerMsg := fmt.Sprintf("Hello %s, a new client (%s) has been given your contact details.", r.ProviderName, r.ClientName)
	n.enqueue(ctx, domain.NotifyContactApproved, provider.PhoneNumber, providerMsg)
}

func (n *Notifier) enqueue(ctx context.Context, kind domain.NotificationKind, phone, msg string) {
	phone = strings.TrimSpace(phone)
	if phone == "" || n.outbox == nil {
		return
	}
	n.outbox.EnqueueNotification(ctx, domain.Notification{
		ID:        uuid.NewString(),
		Kind:      kind,
		To:        []string{phone},
		Message:   msg,
		CreatedAt: n.now().UTC(),
	})
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
