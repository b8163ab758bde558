// Package poller keeps dashboard notification badges fresh by polling the
// marketplace API. Unread state is a coarse comparison against a last-seen
// marker, not a per-item read flag.
package poller

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Badge is one unread indicator on a dashboard.
type Badge interface {
	Name() string
	Refresh(ctx context.Context) error
	HasUnread() bool
	Unread() int
	MarkSeen(ctx context.Context) error
}

// CountFunc reports the current server-side item count.
type CountFunc func(ctx context.Context) (int, error)

// CountBadge compares a live count with the count seen last.
type CountBadge struct {
	name  string
	key   string
	fetch CountFunc
	store SeenStore
	log   zerolog.Logger

	mu       sync.RWMutex
	current  int
	lastSeen int
	// marks counts local MarkSeen calls. A Refresh drops the marker it
	// loaded when marks moved while it was reading the store.
	marks uint64
}

func NewCountBadge(name, key string, fetch CountFunc, store SeenStore, log zerolog.Logger) *CountBadge {
	return &CountBadge{name: name, key: key, fetch: fetch, store: store, log: log}
}

func (b *CountBadge) Name() string { return b.name }

// Refresh fetches the count. On failure the previous count is kept.
func (b *CountBadge) Refresh(ctx context.Context) error {
	n, err := b.fetch(ctx)
	if err != nil {
		b.log.Warn().Err(err).Str("badge", b.name).Msg("badge refresh failed")
		return err
	}

	b.mu.RLock()
	marks := b.marks
	b.mu.RUnlock()

	lastSeen, ok := b.loadLastSeen(ctx)

	b.mu.Lock()
	b.current = n
	if ok && b.marks == marks {
		b.lastSeen = lastSeen
	}
	b.mu.Unlock()
	return nil
}

func (b *CountBadge) HasUnread() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.current > b.lastSeen
}

func (b *CountBadge) Unread() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return max(b.current-b.lastSeen, 0)
}

// LastSeen returns the count recorded by the last MarkSeen.
func (b *CountBadge) LastSeen() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastSeen
}

// MarkSeen records the current count as seen.
func (b *CountBadge) MarkSeen(ctx context.Context) error {
	b.mu.Lock()
	b.lastSeen = b.current
	b.marks++
	seen := b.lastSeen
	b.mu.Unlock()

	err := b.store.Set(ctx, b.key, strconv.Itoa(seen))

	// A Refresh that read the store before Set landed must not apply it.
	b.mu.Lock()
	b.marks++
	b.mu.Unlock()
	return err
}

func (b *CountBadge) loadLastSeen(ctx context.Context) (int, bool) {
	raw, ok, err := b.store.Get(ctx, b.key)
	if err != nil {
		b.log.Warn().Err(err).Str("badge", b.name).Msg("read last seen count")
		return 0, false
	}
	if !ok {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, true
	}
	return n, true
}

// TimesFunc reports the timestamps of the items a CutoffBadge counts.
// Zero times are ignored.
type TimesFunc func(ctx context.Context) ([]time.Time, error)

// CutoffBadge counts items newer than the moment the user last looked.
// The cutoff is stored as unix milliseconds.
type CutoffBadge struct {
	name  string
	key   string
	fetch TimesFunc
	store SeenStore
	log   zerolog.Logger
	now   func() time.Time

	mu     sync.RWMutex
	times  []time.Time
	cutoff time.Time
	marks  uint64
}

func NewCutoffBadge(name, key string, fetch TimesFunc, store SeenStore, log zerolog.Logger) *CutoffBadge {
	return &CutoffBadge{name: name, key: key, fetch: fetch, store: store, log: log, now: time.Now}
}

func (b *CutoffBadge) Name() string { return b.name }

func (b *CutoffBadge) Refresh(ctx context.Context) error {
	times, err := b.fetch(ctx)
	if err != nil {
		b.log.Warn().Err(err).Str("badge", b.name).Msg("badge refresh failed")
		return err
	}

	b.mu.RLock()
	marks := b.marks
	b.mu.RUnlock()

	cutoff, ok := b.loadCutoff(ctx)

	b.mu.Lock()
	b.times = times
	if ok && b.marks == marks {
		b.cutoff = cutoff
	}
	b.mu.Unlock()
	return nil
}

func (b *CutoffBadge) HasUnread() bool { return b.Unread() > 0 }

func (b *CutoffBadge) Unread() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	n := 0
	for _, t := range b.times {
		if !t.IsZero() && t.After(b.cutoff) {
			n++
		}
	}
	return n
}

// MarkSeen moves the cutoff to now.
func (b *CutoffBadge) MarkSeen(ctx context.Context) error {
	now := b.now()
	b.mu.Lock()
	b.cutoff = now
	b.marks++
	b.mu.Unlock()

	err := b.store.Set(ctx, b.key, strconv.FormatInt(now.UnixMilli(), 10))

	b.mu.Lock()
	b.marks++
	b.mu.Unlock()
	return err
}

func (b *CutoffBadge) loadCutoff(ctx context.Context) (time.Time, bool) {
	raw, ok, err := b.store.Get(ctx, b.key)
	if err != nil {
		b.log.Warn().Err(err).Str("badge", b.name).Msg("read cutoff")
		return time.Time{}, false
	}
	if !ok {
		return time.Time{}, true
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, true
	}
	return time.UnixMilli(ms), true
}
