package plan

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds Prometheus metrics for the evaluation subsystem.
type Metrics struct {
	ItemsEvaluated *prometheus.CounterVec
	RunsTotal      prometheus.Counter
	DueNowPerRun   prometheus.Histogram
}

// NewMetrics registers and returns plan metrics on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ItemsEvaluated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wrench_items_evaluated_total",
			Help: "Total service items evaluated, by resulting status.",
		}, []string{"status"}),
		RunsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wrench_plan_runs_total",
			Help: "Total planning runs.",
		}),
		DueNowPerRun: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "wrench_plan_due_now_items",
			Help:    "Items due now per planning run.",
			Buckets: prometheus.LinearBuckets(0, 1, 13), // 0 .. 12 items
		}),
	}

	reg.MustRegister(
		m.ItemsEvaluated,
		m.RunsTotal,
		m.DueNowPerRun,
	)

	return m
}

// ObserveRun records one completed planning run.
func (m *Metrics) ObserveRun(r *Results) {
	m.RunsTotal.Inc()
	m.DueNowPerRun.Observe(float64(len(r.DueNow)))
	m.ItemsEvaluated.WithLabelValues(string(StatusDueNow)).Add(float64(len(r.DueNow)))
	m.ItemsEvaluated.WithLabelValues(string(StatusDueSoon)).Add(float64(len(r.DueSoon)))
	m.ItemsEvaluated.WithLabelValues(string(StatusOK)).Add(float64(len(r.OK)))
	m.ItemsEvaluated.WithLabelValues(string(StatusNA)).Add(float64(len(r.NA)))
}
