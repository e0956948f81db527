// Package metrics defines the custom Prometheus metrics for the GSRS API.
// Request-level metrics (latency, status codes) come from the echoprometheus
// middleware; the counters here describe user operations.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "gsrs"

// Metrics holds the user operation counters.
type Metrics struct {
	// UsersCreatedTotal counts create-user calls that succeeded.
	// Label:
	//   - outcome: "inserted" (new record) or "existing" (duplicate policy short-circuit)
	UsersCreatedTotal *prometheus.CounterVec

	// UserLookupsTotal counts read operations.
	// Labels:
	//   - operation: "list" or "get"
	//   - result: "found", "not_found" or "error"
	UserLookupsTotal *prometheus.CounterVec
}

// New creates the metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		UsersCreatedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "users_created_total",
				Help:      "Total number of successful create-user calls, by outcome.",
			},
			[]string{"outcome"},
		),
		UserLookupsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "user_lookups_total",
				Help:      "Total number of user read operations, by operation and result.",
			},
			[]string{"operation", "result"},
		),
	}
}
