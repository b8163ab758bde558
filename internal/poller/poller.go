package poller

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultInterval matches the dashboard refresh period.
const DefaultInterval = 30 * time.Second

// ChangeFunc is called after a refresh that changed a badge's unread count.
type ChangeFunc func(b Badge)

// Poller refreshes a set of badges on a fixed interval. Failures are logged
// and retried on the next tick; there is no backoff.
type Poller struct {
	badges   []Badge
	interval time.Duration
	log      zerolog.Logger
	onChange ChangeFunc

	mu     sync.Mutex
	unread map[string]int
	stop   chan struct{}
	done   chan struct{}
	once   sync.Once
}

func New(interval time.Duration, log zerolog.Logger, onChange ChangeFunc, badges ...Badge) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{
		badges:   badges,
		interval: interval,
		log:      log,
		onChange: onChange,
		unread:   make(map[string]int),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start refreshes every badge immediately and then on each tick until ctx is
// cancelled or Stop is called.
func (p *Poller) Start(ctx context.Context) {
	go p.run(ctx)
}

// Stop ends the loop and waits for it to exit. Safe to call more than once,
// but Start must have been called first.
func (p *Poller) Stop() {
	p.once.Do(func() { close(p.stop) })
	<-p.done
}

// Done is closed once the loop has exited.
func (p *Poller) Done() <-chan struct{} { return p.done }

func (p *Poller) run(ctx context.Context) {
	defer close(p.done)

	p.refreshAll(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stop:
			return
		case <-ticker.C:
			p.refreshAll(ctx)
		}
	}
}

func (p *Poller) refreshAll(ctx context.Context) {
	for _, b := range p.badges {
		if err := b.Refresh(ctx); err != nil {
			continue
		}

		n := b.Unread()
		p.mu.Lock()
		prev, seen := p.unread[b.Name()]
		p.unread[b.Name()] = n
		p.mu.Unlock()

		if (!seen || prev != n) && p.onChange != nil {
			p.onChange(b)
		}
	}
	p.log.Debug().Int("badges", len(p.badges)).Msg("badges refreshed")
}
