package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "jaideeclear"

// QuoteMetrics exposes counters/histograms for the quote request flow.
type QuoteMetrics struct {
	submissionsTotal *prometheus.CounterVec
	validationErrors *prometheus.CounterVec
	sinkDuration     *prometheus.HistogramVec
}

func NewQuoteMetrics(reg prometheus.Registerer) *QuoteMetrics {
	m := &QuoteMetrics{
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "quotes",
			Name:      "submissions_total",
			Help:      "Quote form submissions by outcome",
		}, []string{"outcome", "source"}),
		validationErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "quotes",
			Name:      "validation_errors_total",
			Help:      "Validation failures per form field",
		}, []string{"field"}),
		sinkDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "quotes",
			Name:      "sink_duration_seconds",
			Help:      "Latency of each submission sink",
			Buckets:   prometheus.DefBuckets,
		}, []string{"sink", "status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissionsTotal, m.validationErrors, m.sinkDuration)
	return m
}

func (m *QuoteMetrics) ObserveSubmission(outcome, source string) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(outcome, source).Inc()
}

func (m *QuoteMetrics) ObserveValidationError(field string) {
	if m == nil {
		return
	}
	m.validationErrors.WithLabelValues(field).Inc()
}

func (m *QuoteMetrics) ObserveSink(sink string, ok bool, seconds float64) {
	if m == nil {
		return
	}
	status := "ok"
	if !ok {
		status = "error"
	}
	m.sinkDuration.WithLabelValues(sink, status).Observe(seconds)
}
