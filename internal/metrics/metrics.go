// Package metrics defines the prometheus instrumentation for the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registration outcome labels.
const (
	OutcomeRegistered        = "registered"
	OutcomeEventFull         = "event_full"
	OutcomeAlreadyRegistered = "already_registered"
	OutcomeRejected          = "rejected"
	OutcomeError             = "error"
)

type Metrics struct {
	RegistrationAttempts *prometheus.CounterVec
	HTTPRequests         *prometheus.CounterVec
}

// New registers the collectors with reg and returns them. Tests pass a
// fresh prometheus.NewRegistry to avoid duplicate registration panics.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RegistrationAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "eventregistry_registration_attempts_total",
			Help: "Registration attempts by outcome",
		}, []string{"outcome"}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "eventregistry_http_requests_total",
			Help: "HTTP requests by method and status code",
		}, []string{"method", "status"}),
	}
}

// ObserveRegistration records one registration attempt.
func (m *Metrics) ObserveRegistration(outcome string) {
	m.RegistrationAttempts.WithLabelValues(outcome).Inc()
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(method, status string) {
	m.HTTPRequests.WithLabelValues(method, status).Inc()
}
