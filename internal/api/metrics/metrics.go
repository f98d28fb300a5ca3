// Package metrics defines and registers all custom Prometheus metrics for the
// ClinicHub API. It is the single source of truth for metric names, labels,
// and help strings. Metrics register with the default registry on import
// through promauto; HTTP request metrics come from the echoprometheus
// middleware.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "clinichub"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginAttemptsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials" or "error"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// TokensRevokedTotal counts explicit logouts.
var TokensRevokedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_revoked_total",
		Help:      "Total number of access tokens revoked through logout.",
	},
)

// AuthRejectionsTotal counts requests stopped by the auth gate.
// Label:
//   - reason: "unauthenticated" or "forbidden"
var AuthRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_rejections_total",
		Help:      "Total number of requests rejected by authentication or role checks.",
	},
	[]string{"reason"},
)

// DenylistUnavailableTotal counts tokens accepted because the revocation
// denylist could not be reached.
var DenylistUnavailableTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "denylist_unavailable_total",
		Help:      "Total number of tokens accepted without a revocation check because the denylist was unavailable.",
	},
)

// ── Record metrics ────────────────────────────────────────────────────────────

// RecordsCreatedTotal counts newly created clinical records.
// Label:
//   - entity: "appointment", "prescription", "medical_record", "stock_item", "billing"
var RecordsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "records_created_total",
		Help:      "Total number of records created, by entity.",
	},
	[]string{"entity"},
)

// ── Relay metrics ─────────────────────────────────────────────────────────────

var RelayRooms = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "relay",
		Name:      "rooms",
		Help:      "Current number of signaling rooms with at least one peer.",
	},
)

var RelayPeers = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "relay",
		Name:      "peers",
		Help:      "Current number of connected signaling peers.",
	},
)

var RelayMessagesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "relay",
		Name:      "messages_relayed_total",
		Help:      "Total number of signaling messages delivered to a peer.",
	},
)

var RelaySendFailuresTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "relay",
		Name:      "send_failures_total",
		Help:      "Total number of peers dropped after a failed send.",
	},
)

// RelayObserver feeds relay.Hub events into the relay metrics.
type RelayObserver struct{}

func (RelayObserver) RoomOpened() { RelayRooms.Inc() }
func (RelayObserver) RoomClosed() { RelayRooms.Dec() }
func (RelayObserver) PeerJoined() { RelayPeers.Inc() }
func (RelayObserver) PeerLeft()   { RelayPeers.Dec() }
func (RelayObserver) Relayed()    { RelayMessagesTotal.Inc() }
func (RelayObserver) SendFailed() { RelaySendFailuresTotal.Inc() }
