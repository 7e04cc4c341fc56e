// Package metrics holds the Prometheus counters for login, registration and
// record changes. A nil *Recorder is valid and records nothing.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gradebook"

// Outcome labels.
const (
	OutcomeResolved     = "resolved"
	OutcomeRejected     = "rejected"
	OutcomeInvalidInput = "invalid_input"
	OutcomeCreated      = "created"
	OutcomeTaken        = "taken"
	OutcomeDeleted      = "deleted"
	OutcomeNotFound     = "not_found"
	OutcomeError        = "error"
)

type Recorder struct {
	registry *prometheus.Registry

	AuthAttempts    *prometheus.CounterVec
	Registrations   *prometheus.CounterVec
	RecordMutations *prometheus.CounterVec
}

// New creates a Recorder backed by its own registry, so tests and multiple
// instances never collide on the global one.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		AuthAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_attempts_total",
			Help:      "Login attempts by outcome.",
		}, []string{"outcome"}),
		Registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registrations_total",
			Help:      "Registration attempts by outcome.",
		}, []string{"outcome"}),
		RecordMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "record_mutations_total",
			Help:      "Student record changes by operation and outcome.",
		}, []string{"op", "outcome"}),
	}

	r.registry.MustRegister(
		r.AuthAttempts,
		r.Registrations,
		r.RecordMutations,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{Namespace: namespace}),
	)
	return r
}

func (r *Recorder) Auth(outcome string) {
	if r == nil {
		return
	}
	r.AuthAttempts.WithLabelValues(outcome).Inc()
}

func (r *Recorder) Registration(outcome string) {
	if r == nil {
		return
	}
	r.Registrations.WithLabelValues(outcome).Inc()
}

func (r *Recorder) RecordMutation(op, outcome string) {
	if r == nil {
		return
	}
	r.RecordMutations.WithLabelValues(op, outcome).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
