package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/kindapp/marketplace/internal/core/domain"
	"github.com/kindapp/marketplace/internal/core/ports"
	"github.com/kindapp/marketplace/internal/pkg/metrics"
)

const (
	defaultWorkers  = 4
	defaultBuffer   = 256
	deliveryTimeout = 10 * time.Second
)

// Outbox delivers notifications asynchronously through an SMS gateway. Each
// notification is routed to a worker by hashing its first recipient, so
// messages to the same phone go out in enqueue order. Delivery is attempted
// once; failures are logged and counted, never retried.
type Outbox struct {
	workers []chan domain.Notification
	gateway ports.SMSGateway
	log     zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewOutbox creates an Outbox with numWorkers shards of buffer capacity each.
// Non-positive values fall back to the defaults.
func NewOutbox(numWorkers, buffer int, gateway ports.SMSGateway, log zerolog.Logger) *Outbox {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	o := &Outbox{
		workers: make([]chan domain.Notification, numWorkers),
		gateway: gateway,
		log:     log,
	}
	for i := range o.workers {
		o.workers[i] = make(chan domain.Notification, buffer)
	}
	return o
}

var _ ports.Outbox = (*Outbox)(nil)

// Start launches the workers. Deliveries are not cut short when ctx is
// cancelled; call Close to drain and stop.
func (o *Outbox) Start(ctx context.Context) {
	base := context.WithoutCancel(ctx)
	for i, ch := range o.workers {
		o.wg.Add(1)
		go o.runWorker(base, i, ch)
	}
}

// EnqueueNotification never blocks the caller. When the target shard is full
// or the outbox is closed the notification is dropped.
func (o *Outbox) EnqueueNotification(_ context.Context, n domain.Notification) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	kind := string(n.Kind)
	if o.closed {
		metrics.NotificationsDroppedTotal.WithLabelValues(kind).Inc()
		o.log.Warn().Str("notification_id", n.ID).Msg("outbox closed, notification dropped")
		return
	}

	idx := o.shardIndex(n)
	select {
	case o.workers[idx] <- n:
		metrics.NotificationsEnqueuedTotal.WithLabelValues(kind).Inc()
		metrics.NotificationQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(o.workers[idx])))
	default:
		metrics.NotificationsDroppedTotal.WithLabelValues(kind).Inc()
		o.log.Warn().Str("notification_id", n.ID).Int("worker_id", idx).Msg("outbox shard full, notification dropped")
	}
}

// Close stops accepting notifications and waits for the queued ones to be
// delivered.
func (o *Outbox) Close() {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.closed = true
	for _, ch := range o.workers {
		close(ch)
	}
	o.mu.Unlock()

	o.wg.Wait()
}

// shardIndex maps the first recipient deterministically to a worker index.
func (o *Outbox) shardIndex(n domain.Notification) int {
	key := n.ID
	if len(n.To) > 0 {
		key = n.To[0]
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(o.workers)))
}

func (o *Outbox) runWorker(ctx context.Context, id int, ch <-chan domain.Notification) {
	defer o.wg.Done()
	depth := metrics.NotificationQueueDepth.WithLabelValues(strconv.Itoa(id))

	for n := range ch {
		depth.Set(float64(len(ch)))
		o.deliver(ctx, id, n)
	}
}

func (o *Outbox) deliver(ctx context.Context, worker int, n domain.Notification) {
	ctx, cancel := context.WithTimeout(ctx, deliveryTimeout)
	defer cancel()

	start := time.Now()
	err := o.gateway.Send(ctx, n.To, n.Message)
	elapsed := time.Since(start).Seconds()

	kind := string(n.Kind)
	if err != nil {
		metrics.NotificationsFailedTotal.WithLabelValues(kind).Inc()
		metrics.NotificationDeliveryDuration.WithLabelValues("failure").Observe(elapsed)
		o.log.Error().Err(err).
			Str("notification_id", n.ID).
			Str("kind", kind).
			Int("worker_id", worker).
			Msg("notification delivery failed")
		return
	}

	metrics.NotificationsDeliveredTotal.WithLabelValues(kind).Inc()
	metrics.NotificationDeliveryDuration.WithLabelValues("success").Observe(elapsed)
	o.log.Debug().Str("notification_id", n.ID).Str("kind", kind).Int("worker_id", worker).Msg("notification delivered")
}
