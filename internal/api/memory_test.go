package api

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/kindapp/marketplace/internal/core/domain"
	"github.com/kindapp/marketplace/internal/core/ports"
)

// memStore is an in-memory stand-in for the three Mongo repositories, enough
// to drive the router end to end.
type memStore struct {
	mu       sync.Mutex
	seq      int
	users    map[string]*domain.User
	requests map[string]*domain.ContactRequest
	messages []*domain.Message
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[string]*domain.User),
		requests: make(map[string]*domain.ContactRequest),
	}
}

func (s *memStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s%d", prefix, s.seq)
}

type memUsers struct{ *memStore }

func (r memUsers) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u.ID = r.nextID("u_")
	cp := *u
	r.users[u.ID] = &cp
	return u, nil
}

func (r memUsers) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r memUsers) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r memUsers) List(_ context.Context, f ports.UserFilter) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*domain.User{}
	for _, u := range r.users {
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		if f.Status != "" && u.Status != f.Status {
			continue
		}
		if !strings.Contains(strings.ToLower(u.Service), strings.ToLower(f.Service)) ||
			!strings.Contains(strings.ToLower(u.Location), strings.ToLower(f.Location)) {
			continue
		}
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r memUsers) Update(_ context.Context, id string, p domain.ProfileUpdate) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if p.Name != "" {
		u.Name = p.Name
	}
	if p.Service != "" {
		u.Service = p.Service
	}
	if p.Location != "" {
		u.Location = p.Location
	}
	cp := *u
	return &cp, nil
}

func (r memUsers) SetStatus(_ context.Context, id string, status domain.UserStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Status = status
	return nil
}

func (r memUsers) DeleteWithContactRequests(_ context.Context, id string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return 0, domain.ErrUserNotFound
	}
	delete(r.users, id)
	var n int64
	for rid, req := range r.requests {
		if req.Involves(id) {
			delete(r.requests, rid)
			n++
		}
	}
	return n, nil
}

type memRequests struct{ *memStore }

func (r memRequests) Create(_ context.Context, req *domain.ContactRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	req.ID = r.nextID("cr_")
	cp := *req
	r.requests[req.ID] = &cp
	return nil
}

func (r memRequests) FindByID(_ context.Context, id string) (*domain.ContactRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return nil, domain.ErrContactRequestNotFound
	}
	cp := *req
	return &cp, nil
}

func (r memRequests) List(_ context.Context, f ports.ContactRequestFilter) ([]*domain.ContactRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*domain.ContactRequest{}
	for _, req := range r.requests {
		if (f.ClientID != "" && req.ClientID != f.ClientID) ||
			(f.ProviderID != "" && req.ProviderID != f.ProviderID) ||
			(f.Status != "" && req.Status != f.Status) {
			continue
		}
		cp := *req
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r memRequests) UpdateStatus(_ context.Context, id string, status domain.RequestStatus, approvedAt *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return domain.ErrContactRequestNotFound
	}
	req.Status = status
	req.ApprovedAt = approvedAt
	return nil
}

type memMessages struct{ *memStore }

func (r memMessages) Create(_ context.Context, m *domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m.ID = r.nextID("m_")
	cp := *m
	r.messages = append(r.messages, &cp)
	return nil
}

func (r memMessages) ListByContactRequest(_ context.Context, id string) ([]*domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*domain.Message{}
	for _, m := range r.messages {
		if m.ContactRequestID == id {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r memMessages) MarkRead(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.messages {
		if m.ID == id {
			m.ReadAt = &at
			return nil
		}
	}
	return domain.ErrMessageNotFound
}

// memWindow is a sliding-window RateLimitStore keyed in memory.
type memWindow struct {
	mu   sync.Mutex
	hits map[string][]time.Time
}

func (w *memWindow) Window(_ context.Context, id string, window time.Duration, now time.Time) (int, time.Time, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	kept := w.hits[id][:0]
	for _, at := range w.hits[id] {
		if at.After(now.Add(-window)) {
			kept = append(kept, at)
		}
	}
	w.hits[id] = kept
	if len(kept) == 0 {
		return 0, time.Time{}, nil
	}
	return len(kept), kept[0], nil
}

func (w *memWindow) Record(_ context.Context, id string, at time.Time, _ time.Duration) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.hits[id] = append(w.hits[id], at)
	return nil
}

type nopOutbox struct {
	mu   sync.Mutex
	sent []domain.Notification
}

func (o *nopOutbox) EnqueueNotification(_ context.Context, n domain.Notification) {
	o.mu.Lock()
	o.sent = append(o.sent, n)
	o.mu.Unlock()
}
