package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kindapp/marketplace/internal/core/domain"
	"github.com/kindapp/marketplace/internal/core/ports"
)

type contactFixture struct {
	contacts *stubContactRepo
	users    *stubUserRepo
	outbox   *recordingOutbox
	svc      *ContactRequestService
}

func newContactFixture(adminPhone string) *contactFixture {
	contacts := newStubContactRepo()
	users := newStubUserRepo(contacts)
	outbox := &recordingOutbox{}
	svc := NewContactRequestService(contacts, users, NewNotifier(outbox, adminPhone), discardLogger)
	svc.now = stepClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC), time.Minute)
	return &contactFixture{contacts: contacts, users: users, outbox: outbox, svc: svc}
}

func contactInput(clientID, providerID, msg string) ports.CreateContactRequestInput {
	return ports.CreateContactRequestInput{
		ClientID:     clientID,
		ClientName:   "Client " + clientID,
		ProviderID:   providerID,
		ProviderName: "Provider " + providerID,
		Message:      msg,
	}
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestContactRequestService_Create_AutoApproves(t *testing.T) {
	f := newContactFixture("")

	result, err := f.svc.Create(context.Background(), contactInput("C1", "P1", "Need a plumber"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != domain.RequestApproved {
		t.Errorf("expected status approved, got %q", result.Status)
	}
	if !result.ApprovedAt.Equal(result.CreatedAt) {
		t.Errorf("approved_at %v must equal created_at %v", result.ApprovedAt, result.CreatedAt)
	}

	stored := f.contacts.byID[result.ID]
	if stored == nil {
		t.Fatalf("request %s not stored", result.ID)
	}
	if stored.ApprovedAt == nil || !stored.ApprovedAt.Equal(stored.CreatedAt) {
		t.Errorf("stored approved_at mismatch: %+v", stored)
	}
	if stored.ClientName != "Client C1" || stored.ProviderName != "Provider P1" {
		t.Errorf("snapshot names not kept as supplied: %+v", stored)
	}
}

func TestContactRequestService_TimestampsHaveStoredPrecision(t *testing.T) {
	f := newContactFixture("")
	f.svc.now = stepClock(time.Date(2026, 3, 1, 9, 0, 0, 123456789, time.UTC), time.Minute)

	res, err := f.svc.Create(context.Background(), contactInput("C1", "P1", "hi"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2026, 3, 1, 9, 0, 0, 123000000, time.UTC)
	if !res.CreatedAt.Equal(want) || !res.ApprovedAt.Equal(want) {
		t.Errorf("expected millisecond timestamps %v, got created %v approved %v", want, res.CreatedAt, res.ApprovedAt)
	}

	if err := f.svc.UpdateStatus(context.Background(), res.ID, "approved"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := f.contacts.byID[res.ID].ApprovedAt; got == nil || got.Nanosecond()%int(time.Millisecond) != 0 {
		t.Errorf("re-approval must be stored at millisecond precision, got %v", got)
	}
}

func TestContactRequestService_Create_DoesNotNotify(t *testing.T) {
	f := newContactFixture("+254700000000")
	f.users.seed(&domain.User{ID: "C1", Role: domain.RoleClient, PhoneNumber: "+254711111111"})

	if _, err := f.svc.Create(context.Background(), contactInput("C1", "P1", "hi")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := f.outbox.count(); n != 0 {
		t.Errorf("expected no notifications on create, got %d", n)
	}
}

func TestContactRequestService_Create_MissingProviderID(t *testing.T) {
	f := newContactFixture("")
	before, _ := f.svc.ListAll(context.Background())

	_, err := f.svc.Create(context.Background(), contactInput("C1", "", "hello"))
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	after, _ := f.svc.ListAll(context.Background())
	if len(after) != len(before) {
		t.Errorf("no record must be created on validation failure: before=%d after=%d", len(before), len(after))
	}
}

func TestContactRequestService_Create_MissingClientID(t *testing.T) {
	f := newContactFixture("")

	if _, err := f.svc.Create(context.Background(), contactInput("", "P1", "hello")); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestContactRequestService_Create_StoreError(t *testing.T) {
	f := newContactFixture("")
	f.contacts.failErr = errors.New("quota exceeded")

	_, err := f.svc.Create(context.Background(), contactInput("C1", "P1", "hello"))
	if err == nil || errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Listing
// ---------------------------------------------------------------------------

func TestContactRequestService_ListForClientAndProvider(t *testing.T) {
	f := newContactFixture("")
	ctx := context.Background()

	pairs := [][2]string{{"C1", "P1"}, {"C1", "P2"}, {"C2", "P1"}, {"C2", "P2"}, {"C1", "P1"}}
	for _, p := range pairs {
		if _, err := f.svc.Create(ctx, contactInput(p[0], p[1], "msg")); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	// One rejected request must disappear from the provider view only.
	rejected, _ := f.svc.Create(ctx, contactInput("C3", "P1", "msg"))
	if err := f.svc.UpdateStatus(ctx, rejected.ID, "rejected"); err != nil {
		t.Fatalf("reject: %v", err)
	}

	for _, clientID := range []string{"C1", "C2", "C3"} {
		got, err := f.svc.ListForClient(ctx, clientID)
		if err != nil {
			t.Fatalf("list client: %v", err)
		}
		want := 0
		for _, r := range f.contacts.byID {
			if r.ClientID == clientID {
				want++
			}
		}
		if len(got) != want {
			t.Errorf("client %s: expected %d requests, got %d", clientID, want, len(got))
		}
		for i, r := range got {
			if r.ClientID != clientID {
				t.Errorf("client %s: foreign request %s in list", clientID, r.ID)
			}
			if i > 0 && got[i-1].CreatedAt.Before(r.CreatedAt) {
				t.Errorf("client %s: not ordered by created_at desc", clientID)
			}
		}
	}

	got, err := f.svc.ListForProvider(ctx, "P1")
	if err != nil {
		t.Fatalf("list provider: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 approved requests for P1, got %d", len(got))
	}
	for i, r := range got {
		if r.ProviderID != "P1" || r.Status != domain.RequestApproved {
			t.Errorf("unexpected request in provider list: %+v", r)
		}
		if i > 0 && got[i-1].ApprovedAt.Before(*r.ApprovedAt) {
			t.Errorf("provider list not ordered by approved_at desc")
		}
	}
}

func TestContactRequestService_ListAll_EmptyIsNotNil(t *testing.T) {
	f := newContactFixture("")

	got, err := f.svc.ListAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestContactRequestService_ListAll_StoreError(t *testing.T) {
	f := newContactFixture("")
	f.contacts.listErr = errors.New("permission denied")

	if _, err := f.svc.ListAll(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

// ---------------------------------------------------------------------------
// UpdateStatus
// ---------------------------------------------------------------------------

func TestContactRequestService_UpdateStatus_InvalidStatus(t *testing.T) {
	f := newContactFixture("")
	res, _ := f.svc.Create(context.Background(), contactInput("C1", "P1", "hi"))

	for _, status := range []string{"", "pending", "APPROVED", "active"} {
		if err := f.svc.UpdateStatus(context.Background(), res.ID, status); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("status %q: expected ErrValidation, got %v", status, err)
		}
	}
}

func TestContactRequestService_UpdateStatus_NotFound(t *testing.T) {
	f := newContactFixture("")

	if err := f.svc.UpdateStatus(context.Background(), "missing", "approved"); !errors.Is(err, domain.ErrContactRequestNotFound) {
		t.Fatalf("expected ErrContactRequestNotFound, got %v", err)
	}
}

func TestContactRequestService_UpdateStatus_ApprovedNotifiesAllParties(t *testing.T) {
	f := newContactFixture("+254700000000")
	f.users.seed(&domain.User{ID: "C1", Role: domain.RoleClient, PhoneNumber: "+254711111111"})
	f.users.seed(&domain.User{ID: "P1", Role: domain.RoleProvider, Service: "Plumbing", PhoneNumber: "+254722222222"})
	res, _ := f.svc.Create(context.Background(), contactInput("C1", "P1", "hi"))
	createdApproval := *f.contacts.byID[res.ID].ApprovedAt

	if err := f.svc.UpdateStatus(context.Background(), res.ID, "approved"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored := f.contacts.byID[res.ID]
	if stored.ApprovedAt == nil || !stored.ApprovedAt.After(createdApproval) {
		t.Errorf("approved_at must be refreshed, got %v", stored.ApprovedAt)
	}

	got := f.outbox.recipients()
	want := []string{"+254700000000", "+254711111111", "+254722222222"}
	if len(got) != len(want) {
		t.Fatalf("expected recipients %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("recipient %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestContactRequestService_UpdateStatus_MissingParticipantsStillSucceeds(t *testing.T) {
	f := newContactFixture("+254700000000")
	res, _ := f.svc.Create(context.Background(), contactInput("C1", "P1", "hi"))

	if err := f.svc.UpdateStatus(context.Background(), res.ID, "approved"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Only the admin has a phone number.
	if n := f.outbox.count(); n != 1 {
		t.Errorf("expected 1 notification, got %d", n)
	}
}

func TestContactRequestService_UpdateStatus_RejectedClearsApprovalAndIsSilent(t *testing.T) {
	f := newContactFixture("+254700000000")
	res, _ := f.svc.Create(context.Background(), contactInput("C1", "P1", "hi"))

	if err := f.svc.UpdateStatus(context.Background(), res.ID, "rejected"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored := f.contacts.byID[res.ID]
	if stored.Status != domain.RequestRejected {
		t.Errorf("expected rejected, got %s", stored.Status)
	}
	if stored.ApprovedAt != nil {
		t.Errorf("approved_at must be cleared on rejection, got %v", stored.ApprovedAt)
	}
	if n := f.outbox.count(); n != 0 {
		t.Errorf("rejection must not notify, got %d", n)
	}
}
