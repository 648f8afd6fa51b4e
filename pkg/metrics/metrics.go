// Package metrics exposes Prometheus collectors for form submissions.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "authform"

// Submissions records submission attempts per form and outcome.
type Submissions struct {
	total    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewSubmissions builds the collectors and registers them on reg. A nil reg
// leaves them unregistered.
func NewSubmissions(reg prometheus.Registerer) (*Submissions, error) {
	s := &Submissions{
		total: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Count of form submissions by outcome",
		}, []string{"form", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "submission_duration_seconds",
			Help:      "Time spent waiting for the authentication API",
			Buckets:   prometheus.DefBuckets,
		}, []string{"form"}),
	}
	if reg == nil {
		return s, nil
	}
	for _, c := range []prometheus.Collector{s.total, s.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Observe records one submission outcome and, for network attempts, its
// duration.
func (s *Submissions) Observe(form, outcome string, elapsed time.Duration) {
	if s == nil {
		return
	}
	s.total.WithLabelValues(form, outcome).Inc()
	if elapsed > 0 {
		s.duration.WithLabelValues(form).Observe(elapsed.Seconds())
	}
}

// Total exposes the counter vector, mostly for tests.
func (s *Submissions) Total() *prometheus.CounterVec {
	return s.total
}
