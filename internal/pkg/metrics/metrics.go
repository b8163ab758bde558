// Package metrics defines and registers all custom Prometheus metrics for the
// marketplace API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default registry at package init through
// promauto; the /metrics endpoint exposes them alongside the echo request metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "marketplace"

// ── Contact request metrics ───────────────────────────────────────────────────

// ContactRequestsCreatedTotal counts contact requests stored by POST /contact-requests.
var ContactRequestsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "contact_requests_created_total",
		Help:      "Total number of contact requests created.",
	},
)

// ContactRequestStatusUpdatesTotal counts explicit status changes.
// Label:
//   - status: "approved" or "rejected"
var ContactRequestStatusUpdatesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "contact_request_status_updates_total",
		Help:      "Total number of contact request status updates, by new status.",
	},
	[]string{"status"},
)

// MessagesPostedTotal counts thread messages.
// Label:
//   - sender_role: "CLIENT" or "PROVIDER"
var MessagesPostedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "messages_posted_total",
		Help:      "Total number of messages posted to conversation threads.",
	},
	[]string{"sender_role"},
)

// ── Directory metrics ─────────────────────────────────────────────────────────

// ProviderStatusChangesTotal counts admin approve/reject decisions, repeats included.
var ProviderStatusChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "provider_status_changes_total",
		Help:      "Total number of provider status decisions, by status.",
	},
	[]string{"status"},
)

// ── Notification metrics ──────────────────────────────────────────────────────

// NotificationsEnqueuedTotal counts notifications accepted by the outbox.
// Label:
//   - kind: notification kind (e.g. "contact_approved")
var NotificationsEnqueuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_enqueued_total",
		Help:      "Total number of notifications accepted by the outbox.",
	},
	[]string{"kind"},
)

// NotificationsDroppedTotal counts notifications rejected because a worker queue was full
// or the outbox was already closed.
var NotificationsDroppedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_dropped_total",
		Help:      "Total number of notifications dropped before delivery.",
	},
	[]string{"kind"},
)

// NotificationsDeliveredTotal counts notifications the SMS gateway accepted.
var NotificationsDeliveredTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_delivered_total",
		Help:      "Total number of notifications accepted by the SMS gateway.",
	},
	[]string{"kind"},
)

// NotificationsFailedTotal counts single delivery attempts that failed. There is no retry.
var NotificationsFailedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_failed_total",
		Help:      "Total number of notification delivery attempts that failed.",
	},
	[]string{"kind"},
)

// NotificationQueueDepth tracks pending notifications per outbox worker.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var NotificationQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "notification_queue_depth",
		Help:      "Current number of notifications pending in each outbox worker channel.",
	},
	[]string{"worker_id"},
)

// NotificationDeliveryDuration measures one gateway round trip.
var NotificationDeliveryDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "notification_delivery_duration_seconds",
		Help:      "Duration of a single SMS gateway call.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"result"},
)

// ── HTTP metrics ──────────────────────────────────────────────────────────────

// RateLimitedTotal counts requests rejected by the sliding-window limiter.
var RateLimitedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of requests rejected by rate limiting, by route.",
	},
	[]string{"route"},
)
