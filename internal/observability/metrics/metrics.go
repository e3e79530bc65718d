package metrics

import "github.com/prometheus/client_golang/prometheus"

// LeadMetrics exposes counters/histograms for the lead pipeline.
type LeadMetrics struct {
	createdTotal   *prometheus.CounterVec
	statusSetTotal *prometheus.CounterVec
	deletedTotal   prometheus.Counter
	persistSeconds *prometheus.HistogramVec
}

func NewLeadMetrics(reg prometheus.Registerer) *LeadMetrics {
	m := &LeadMetrics{
		createdTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "plumbing",
			Subsystem: "leads",
			Name:      "created_total",
			Help:      "Total leads created, by intake source",
		}, []string{"source"}),
		statusSetTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "plumbing",
			Subsystem: "leads",
			Name:      "status_set_total",
			Help:      "Total staff status updates, by resulting status",
		}, []string{"status"}),
		deletedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "plumbing",
			Subsystem: "leads",
			Name:      "deleted_total",
			Help:      "Total leads deleted by staff",
		}),
		persistSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "plumbing",
			Subsystem: "intake",
			Name:      "persist_seconds",
			Help:      "Latency of the detached intake store write",
			Buckets:   prometheus.DefBuckets,
		}, []string{"path"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.createdTotal, m.statusSetTotal, m.deletedTotal, m.persistSeconds)
	return m
}

func (m *LeadMetrics) ObserveCreated(source string) {
	if m == nil {
		return
	}
	if source == "" {
		source = "unknown"
	}
	m.createdTotal.WithLabelValues(source).Inc()
}

func (m *LeadMetrics) ObserveStatusSet(status string) {
	if m == nil {
		return
	}
	m.statusSetTotal.WithLabelValues(status).Inc()
}

func (m *LeadMetrics) ObserveDeleted() {
	if m == nil {
		return
	}
	m.deletedTotal.Inc()
}

func (m *LeadMetrics) ObservePersist(path string, seconds float64) {
	if m == nil {
		return
	}
	m.persistSeconds.WithLabelValues(path).Observe(seconds)
}
