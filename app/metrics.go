package app

import (
	"strconv"
	"time"

	"github.com/iov-one/vault/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects statistics of executed calls.
type Metrics struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics returns metrics registered with given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vault",
			Name:      "tx_total",
			Help:      "Number of executed calls by message path and result.",
		}, []string{"path", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "vault",
			Name:      "tx_duration_seconds",
			Help:      "Time it took to execute a call.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"path"}),
	}
	reg.MustRegister(m.calls, m.duration)
	return m
}

// observe records a single call. A nil Metrics is valid and records
// nothing.
func (m *Metrics) observe(path string, err error, took time.Duration) {
	if m == nil {
		return
	}
	m.calls.WithLabelValues(path, resultLabel(err)).Inc()
	m.duration.WithLabelValues(path).Observe(took.Seconds())
}

// resultLabel is "ok" for a successful call and the error code otherwise.
func resultLabel(err error) string {
	if err == nil {
		return "ok"
	}
	code, _ := errors.Report(err, false)
	return strconv.FormatUint(uint64(code), 10)
}
