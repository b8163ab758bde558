package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/kindapp/marketplace/internal/core/domain"
	"github.com/kindapp/marketplace/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubContactRepo struct {
	byID    map[string]*domain.ContactRequest
	seq     int
	listErr error
	failErr error // if set, Create and UpdateStatus return this error
}

func newStubContactRepo() *stubContactRepo {
	return &stubContactRepo{byID: make(map[string]*domain.ContactRequest)}
}

func (r *stubContactRepo) Create(_ context.Context, req *domain.ContactRequest) error {
	if r.failErr != nil {
		return r.failErr
	}
	r.seq++
	req.ID = fmt.Sprintf("cr_%d", r.seq)
	clone := *req
	r.byID[req.ID] = &clone
	return nil
}

func (r *stubContactRepo) FindByID(_ context.Context, id string) (*domain.ContactRequest, error) {
	req, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrContactRequestNotFound
	}
	clone := *req
	return &clone, nil
}

// List applies the same filter and ordering the Mongo repository uses.
func (r *stubContactRepo) List(_ context.Context, f ports.ContactRequestFilter) ([]*domain.ContactRequest, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []*domain.ContactRequest
	for _, req := range r.byID {
		if f.ClientID != "" && req.ClientID != f.ClientID {
			continue
		}
		if f.ProviderID != "" && req.ProviderID != f.ProviderID {
			continue
		}
		if f.Status != "" && req.Status != f.Status {
			continue
		}
		clone := *req
		out = append(out, &clone)
	}
	key := func(c *domain.ContactRequest) time.Time {
		if f.SortBy == ports.SortByApprovedAt && c.ApprovedAt != nil {
			return *c.ApprovedAt
		}
		return c.CreatedAt
	}
	sort.SliceStable(out, func(i, j int) bool { return key(out[i]).After(key(out[j])) })
	return out, nil
}

func (r *stubContactRepo) UpdateStatus(_ context.Context, id string, status domain.RequestStatus, approvedAt *time.Time) error {
	if r.failErr != nil {
		return r.failErr
	}
	req, ok := r.byID[id]
	if !ok {
		return domain.ErrContactRequestNotFound
	}
	req.Status = status
	req.ApprovedAt = approvedAt
	return nil
}

type stubUserRepo struct {
	byID     map[string]*domain.User
	seq      int
	contacts *stubContactRepo
	findErr  error
}

func newStubUserRepo(contacts *stubContactRepo) *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User), contacts: contacts}
}

func (r *stubUserRepo) seed(u *domain.User) *domain.User {
	if u.ID == "" {
		r.seq++
		u.ID = fmt.Sprintf("u_%d", r.seq)
	}
	r.byID[u.ID] = u
	return u
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	for _, existing := range r.byID {
		if existing.Email == u.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	clone := *u
	r.seed(&clone)
	out := clone
	return &out, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.byID {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) List(_ context.Context, f ports.UserFilter) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range r.byID {
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		if f.Status != "" && u.Status != f.Status {
			continue
		}
		if f.Service != "" && !strings.Contains(strings.ToLower(u.Service), strings.ToLower(f.Service)) {
			continue
		}
		if f.Location != "" && !strings.Contains(strings.ToLower(u.Location), strings.ToLower(f.Location)) {
			continue
		}
		clone := *u
		out = append(out, &clone)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, id string, p domain.ProfileUpdate) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if p.Name != "" {
		u.Name = p.Name
	}
	if p.Email != "" {
		u.Email = p.Email
	}
	if p.Role != "" {
		u.Role = domain.Role(p.Role)
	}
	if p.Service != "" {
		u.Service = p.Service
	}
	if p.Location != "" {
		u.Location = p.Location
	}
	if p.PhoneNumber != "" {
		u.PhoneNumber = p.PhoneNumber
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) SetStatus(_ context.Context, id string, status domain.UserStatus) error {
	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Status = status
	return nil
}

func (r *stubUserRepo) DeleteWithContactRequests(_ context.Context, id string) (int64, error) {
	if _, ok := r.byID[id]; !ok {
		return 0, domain.ErrUserNotFound
	}
	var removed int64
	if r.contacts != nil {
		for reqID, req := range r.contacts.byID {
			if req.Involves(id) {
				delete(r.contacts.byID, reqID)
				removed++
			}
		}
	}
	delete(r.byID, id)
	return removed, nil
}

type stubMessageRepo struct {
	msgs      []*domain.Message
	createErr error
}

func (r *stubMessageRepo) Create(_ context.Context, m *domain.Message) error {
	if r.createErr != nil {
		return r.createErr
	}
	m.ID = fmt.Sprintf("m_%d", len(r.msgs)+1)
	clone := *m
	r.msgs = append(r.msgs, &clone)
	return nil
}

func (r *stubMessageRepo) ListByContactRequest(_ context.Context, id string) ([]*domain.Message, error) {
	var out []*domain.Message
	for _, m := range r.msgs {
		if m.ContactRequestID == id {
			clone := *m
			out = append(out, &clone)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *stubMessageRepo) MarkRead(_ context.Context, id string, at time.Time) error {
	for _, m := range r.msgs {
		if m.ID == id {
			t := at
			m.ReadAt = &t
			return nil
		}
	}
	return domain.ErrMessageNotFound
}

// recordingOutbox stands in for the SMS collaborator and counts every enqueue.
type recordingOutbox struct {
	mu   sync.Mutex
	sent []domain.Notification
}

func (o *recordingOutbox) EnqueueNotification(_ context.Context, n domain.Notification) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sent = append(o.sent, n)
}

func (o *recordingOutbox) count() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.sent)
}

func (o *recordingOutbox) recipients() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	var out []string
	for _, n := range o.sent {
		out = append(out, n.To...)
	}
	return out
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

// stepClock returns a clock that advances by step on every call.
func stepClock(start time.Time, step time.Duration) func() time.Time {
	cur := start
	return func() time.Time {
		t := cur
		cur = cur.Add(step)
		return t
	}
}
