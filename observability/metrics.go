// Package observability exposes Prometheus instrumentation for the vesting
// engine's runtime state. It is purely additive: core/vesting never imports
// it, keeping the engine dependency-light per its design notes. A host
// process (cmd/vesting-cli) wires this package alongside the engine.
package observability

import (
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

type vestingMetrics struct {
	availableAmount *prometheus.GaugeVec
	releasedAmount  *prometheus.GaugeVec
	isPaused        *prometheus.GaugeVec
	operations      *prometheus.CounterVec
}

var (
	vestingMetricsOnce sync.Once
	vestingRegistry    *vestingMetrics
)

// Vesting returns the process-wide metrics registry tracking vesting account
// state, registering it with the default Prometheus registerer on first use.
func Vesting() *vestingMetrics {
	vestingMetricsOnce.Do(func() {
		vestingRegistry = &vestingMetrics{
			availableAmount: prometheus.NewGaugeVec(prometheus.GaugeOpts{
				Namespace: "vestingchain",
				Subsystem: "vesting",
				Name:      "available_amount",
				Help:      "Currently withdrawable amount for a vesting account, as a float approximation of the 256-bit value.",
			}, []string{"account"}),
			releasedAmount: prometheus.NewGaugeVec(prometheus.GaugeOpts{
				Namespace: "vestingchain",
				Subsystem: "vesting",
				Name:      "released_amount",
				Help:      "Cumulative amount released for a vesting account.",
			}, []string{"account"}),
			isPaused: prometheus.NewGaugeVec(prometheus.GaugeOpts{
				Namespace: "vestingchain",
				Subsystem: "vesting",
				Name:      "is_paused",
				Help:      "1 if the vesting account is currently paused, 0 otherwise.",
			}, []string{"account"}),
			operations: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "vestingchain",
				Subsystem: "vesting",
				Name:      "operations_total",
				Help:      "Count of engine operations segmented by account, operation and outcome.",
			}, []string{"account", "operation", "outcome"}),
		}
		prometheus.MustRegister(
			vestingRegistry.availableAmount,
			vestingRegistry.releasedAmount,
			vestingRegistry.isPaused,
			vestingRegistry.operations,
		)
	})
	return vestingRegistry
}

// RecordAvailable sets the available-amount gauge for account. amount is a
// decimal string (as produced by Amount.String()); float precision loss at
// the extreme of the 256-bit domain is acceptable for a monitoring gauge.
func (m *vestingMetrics) RecordAvailable(account, amount string) {
	if m == nil {
		return
	}
	m.availableAmount.WithLabelValues(normalizeAccount(account)).Set(parseApprox(amount))
}

// RecordReleased sets the released-amount gauge for account.
func (m *vestingMetrics) RecordReleased(account, amount string) {
	if m == nil {
		return
	}
	m.releasedAmount.WithLabelValues(normalizeAccount(account)).Set(parseApprox(amount))
}

// RecordPaused sets the pause gauge for account.
func (m *vestingMetrics) RecordPaused(account string, paused bool) {
	if m == nil {
		return
	}
	value := 0.0
	if paused {
		value = 1.0
	}
	m.isPaused.WithLabelValues(normalizeAccount(account)).Set(value)
}

// RecordOperation increments the operation counter for account/operation,
// split by outcome ("ok" or the failure's error message).
func (m *vestingMetrics) RecordOperation(account, operation, outcome string) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(normalizeAccount(account), operation, outcome).Inc()
}

func normalizeAccount(account string) string {
	trimmed := strings.TrimSpace(account)
	if trimmed == "" {
		return "unknown"
	}
	return trimmed
}

// parseApprox renders a decimal string as a float64, returning 0 on a
// parse failure rather than propagating an error into a metrics call.
func parseApprox(s string) float64 {
	var whole, frac float64
	var sign float64 = 1
	rest := s
	if strings.HasPrefix(rest, "-") {
		sign = -1
		rest = rest[1:]
	}
	for _, r := range rest {
		if r < '0' || r > '9' {
			return 0
		}
		whole = whole*10 + float64(r-'0')
	}
	return sign * (whole + frac)
}
