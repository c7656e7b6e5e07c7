package transport

import (
	"errors"
	"time"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	statusSuccess  = "success"
	statusNotFound = "not_found"
	statusError    = "error"
)

// Metrics holds the Prometheus metrics for RPC calls. A nil *Metrics
// records nothing.
type Metrics struct {
	callsTotal      *prometheus.CounterVec
	callDuration    *prometheus.HistogramVec
	accountsFetched prometheus.Counter
	bytesFetched    prometheus.Counter
}

// NewMetrics creates and registers the RPC metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		callsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "snsrecords_rpc_calls_total",
				Help: "Total number of RPC calls",
			},
			[]string{"method", "status"},
		),
		callDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "snsrecords_rpc_call_duration_seconds",
				Help:    "RPC call duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		accountsFetched: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "snsrecords_rpc_accounts_fetched_total",
				Help: "Total number of existing accounts returned by RPC",
			},
		),
		bytesFetched: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "snsrecords_rpc_bytes_fetched_total",
				Help: "Total account bytes returned by RPC",
			},
		),
	}
}

func (m *Metrics) recordCall(method string, err error, d time.Duration) {
	if m == nil {
		return
	}
	status := statusSuccess
	switch {
	case errors.Is(err, rpc.ErrNotFound):
		status = statusNotFound
	case err != nil:
		status = statusError
	}
	m.callsTotal.WithLabelValues(method, status).Inc()
	m.callDuration.WithLabelValues(method).Observe(d.Seconds())
}

func (m *Metrics) recordAccounts(n, size int) {
	if m == nil {
		return
	}
	m.accountsFetched.Add(float64(n))
	m.bytesFetched.Add(float64(size))
}
