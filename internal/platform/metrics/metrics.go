package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "church_roster"

// Metrics is safe to use as a nil pointer; every method is then a no-op.
type Metrics struct {
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	loginAttempts  *prometheus.CounterVec
	registrations  *prometheus.CounterVec
	membersAdded   prometheus.Counter
	membersDeleted prometheus.Counter
	sessionsSwept  prometheus.Counter
}

func New(promRegistry prometheus.Registerer) *Metrics {
	promautoFactory := promauto.With(promRegistry)
	return &Metrics{
		httpRequests: promautoFactory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern, method and status",
		}, []string{"route", "method", "status"}),
		httpDuration: promautoFactory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		loginAttempts: promautoFactory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "login_attempts_total",
			Help:      "administrator login attempts by result",
		}, []string{"result"}),
		registrations: promautoFactory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "admin_registrations_total",
			Help:      "administrator registrations by result",
		}, []string{"result"}),
		membersAdded: promautoFactory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "members_added_total",
			Help:      "member records created",
		}),
		membersDeleted: promautoFactory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "members_deleted_total",
			Help:      "member records deleted",
		}),
		sessionsSwept: promautoFactory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_swept_total",
			Help:      "expired in-memory sessions removed by the sweeper",
		}),
	}
}

func (m *Metrics) ObserveRequest(route, method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

func (m *Metrics) LoginAttempt(result string) {
	if m == nil {
		return
	}
	m.loginAttempts.WithLabelValues(result).Inc()
}

func (m *Metrics) Registration(result string) {
	if m == nil {
		return
	}
	m.registrations.WithLabelValues(result).Inc()
}

func (m *Metrics) MemberAdded() {
	if m == nil {
		return
	}
	m.membersAdded.Inc()
}

func (m *Metrics) MemberDeleted() {
	if m == nil {
		return
	}
	m.membersDeleted.Inc()
}

func (m *Metrics) SessionsSwept(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.sessionsSwept.Add(float64(n))
}
