package submission

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds Prometheus metrics for the review workflow.
type Metrics struct {
	CreatesTotal *prometheus.CounterVec
	ReviewsTotal *prometheus.CounterVec
}

// NewMetrics registers and returns submission metrics on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		CreatesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wrench_template_submissions_total",
			Help: "Template submission creations by outcome.",
		}, []string{"outcome"}),
		ReviewsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wrench_template_reviews_total",
			Help: "Review decisions by action and outcome (applied, noop, error).",
		}, []string{"action", "outcome"}),
	}

	reg.MustRegister(
		m.CreatesTotal,
		m.ReviewsTotal,
	)

	return m
}

func (m *Metrics) incCreate(outcome string) {
	if m == nil {
		return
	}
	m.CreatesTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) incReview(action Action, outcome string) {
	if m == nil {
		return
	}
	m.ReviewsTotal.WithLabelValues(string(action), outcome).Inc()
}
