package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the demo backend.
type Metrics struct {
	EndpointLatency *prometheus.HistogramVec
	Logins          *prometheus.CounterVec
	OTPFailures     prometheus.Counter
	InvitesCreated  prometheus.Counter
	InvitesDisabled prometheus.Counter
	AdminsAdded     prometheus.Counter
	AdminsRemoved   prometheus.Counter
	ActiveSessions  prometheus.Gauge
}

// New creates and registers all collectors with the default registerer.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers the collectors with reg. Tests pass a fresh
// prometheus.NewRegistry() to avoid duplicate registration panics.
func NewWith(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		EndpointLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "invitedesk_endpoint_latency_seconds",
			Help:    "Latency of endpoints in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		// outcome: token, challenge, setup, rejected
		Logins: f.NewCounterVec(prometheus.CounterOpts{
			Name: "invitedesk_logins_total",
			Help: "Total number of login attempts by outcome",
		}, []string{"outcome"}),
		OTPFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "invitedesk_otp_failures_total",
			Help: "Total number of rejected one-time passwords",
		}),
		InvitesCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "invitedesk_invites_created_total",
			Help: "Total number of invite codes generated",
		}),
		InvitesDisabled: f.NewCounter(prometheus.CounterOpts{
			Name: "invitedesk_invites_disabled_total",
			Help: "Total number of invite codes disabled",
		}),
		AdminsAdded: f.NewCounter(prometheus.CounterOpts{
			Name: "invitedesk_admins_added_total",
			Help: "Total number of administrators added",
		}),
		AdminsRemoved: f.NewCounter(prometheus.CounterOpts{
			Name: "invitedesk_admins_removed_total",
			Help: "Total number of administrators removed",
		}),
		ActiveSessions: f.NewGauge(prometheus.GaugeOpts{
			Name: "invitedesk_active_sessions",
			Help: "Sessions issued and not yet expired",
		}),
	}
}

func (m *Metrics) ObserveLogin(outcome string) {
	m.Logins.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveEndpointLatency(endpoint string, seconds float64) {
	m.EndpointLatency.WithLabelValues(endpoint).Observe(seconds)
}

func (m *Metrics) IncrementOTPFailures() {
	m.OTPFailures.Inc()
}

func (m *Metrics) AddInvitesCreated(n int) {
	m.InvitesCreated.Add(float64(n))
}

func (m *Metrics) IncrementInvitesDisabled() {
	m.InvitesDisabled.Inc()
}

func (m *Metrics) IncrementAdminsAdded() {
	m.AdminsAdded.Inc()
}

func (m *Metrics) IncrementAdminsRemoved() {
	m.AdminsRemoved.Inc()
}

func (m *Metrics) SetActiveSessions(n int) {
	m.ActiveSessions.Set(float64(n))
}
