// Package metrics defines and registers the custom Prometheus metrics of the
// Fineko API. It is the single source of truth for metric names, labels and
// help strings. Metrics register with the default registry on import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "fineko"

// ── Login handshake ───────────────────────────────────────────────────────────

// LoginsTotal counts identity events that produced a temporary session.
// Labels:
//   - channel: "bot" or "widget"
//   - user: "new" or "existing"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of successful identity events, by channel and user novelty.",
	},
	[]string{"channel", "user"},
)

// CredentialsIssuedTotal counts permanent credentials.
// Label:
//   - flow: "select", "create" or "switch"
var CredentialsIssuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "credentials_issued_total",
		Help:      "Total number of permanent credentials issued, by flow.",
	},
	[]string{"flow"},
)

// AuthRejectionsTotal counts requests refused by the auth layer.
// Label:
//   - reason: "unauthenticated", "expired" or "forbidden"
var AuthRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_rejections_total",
		Help:      "Total number of requests rejected for missing or insufficient credentials.",
	},
	[]string{"reason"},
)

// SessionsCreatedTotal counts server-side sessions.
// Label:
//   - type: "temp" or "group_link"
var SessionsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_created_total",
		Help:      "Total number of server-side sessions created, by type.",
	},
	[]string{"type"},
)

// ── Telegram ──────────────────────────────────────────────────────────────────

// WebhookUpdatesTotal counts bot updates.
// Label:
//   - command: "start", "link", "ignored" or "duplicate"
var WebhookUpdatesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "webhook_updates_total",
		Help:      "Total number of Telegram updates handled, by command.",
	},
	[]string{"command"},
)

// OutboundMessagesTotal counts bot message deliveries.
// Label:
//   - result: "sent", "failed" or "dropped"
var OutboundMessagesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "outbound_messages_total",
		Help:      "Total number of outbound bot messages, by delivery result.",
	},
	[]string{"result"},
)

// OutboundQueueDepth tracks messages waiting in each dispatcher worker channel.
var OutboundQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "outbound_queue_depth",
		Help:      "Current number of messages pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ── Collaborators ─────────────────────────────────────────────────────────────

// UpstreamRequestDuration measures calls to external collaborators.
// Labels:
//   - upstream: "telegram", "content" or "backend"
//   - outcome: "ok" or "error"
var UpstreamRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upstream_request_duration_seconds",
		Help:      "Duration of calls to external collaborators.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"upstream", "outcome"},
)
