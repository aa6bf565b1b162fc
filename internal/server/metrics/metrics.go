// Package metrics exposes Prometheus collectors for authentication and
// prediction traffic. Collectors are registered with the default registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Login outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeInvalid = "invalid"
	OutcomeLocked  = "locked"
	OutcomeLockout = "lockout"
	OutcomeError   = "error"
)

var (
	LoginAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "salarygate_login_attempts_total",
			Help: "Authentication attempts by outcome",
		},
		[]string{"outcome"},
	)

	AccountOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "salarygate_account_operations_total",
			Help: "Account management operations by operation and result",
		},
		[]string{"operation", "result"},
	)

	Predictions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "salarygate_predictions_total",
			Help: "Salary predictions by result",
		},
		[]string{"result"},
	)

	PredictionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "salarygate_prediction_duration_seconds",
			Help:    "Time spent encoding inputs and evaluating the model",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(LoginAttempts, AccountOperations, Predictions, PredictionDuration)
}

// ObserveOperation counts one account operation.
func ObserveOperation(operation string, ok bool) {
	result := "ok"
	if !ok {
		result = "failed"
	}
	AccountOperations.WithLabelValues(operation, result).Inc()
}
