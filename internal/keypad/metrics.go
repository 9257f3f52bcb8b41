package keypad

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// Metric instruments, initialized once via InitMetrics().
var (
	keysCounter   metric.Int64Counter
	termsCounter  metric.Int64Counter
	errorCounter  metric.Int64Counter
	keysHistogram metric.Float64Histogram
	resultGauge   metric.Float64Gauge
)

// InitMetrics registers the OTel instruments for the keypad.
// Call this once at startup (after observability.InitMetrics).
func InitMetrics() error {
	meter := otel.Meter("calculator")

	var err error

	keysCounter, err = meter.Int64Counter("calculator.keys.total",
		metric.WithDescription("Total number of keys pressed"),
		metric.WithUnit("{key}"),
	)
	if err != nil {
		return fmt.Errorf("creating keys counter: %w", err)
	}

	termsCounter, err = meter.Int64Counter("calculator.terms.total",
		metric.WithDescription("Total number of formula terms evaluated"),
		metric.WithUnit("{term}"),
	)
	if err != nil {
		return fmt.Errorf("creating terms counter: %w", err)
	}

	errorCounter, err = meter.Int64Counter("calculator.errors.total",
		metric.WithDescription("Total number of calculator errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return fmt.Errorf("creating error counter: %w", err)
	}

	keysHistogram, err = meter.Float64Histogram("calculator.keys.duration",
		metric.WithDescription("Time spent applying a batch of keys in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.5, 1, 5, 10),
	)
	if err != nil {
		return fmt.Errorf("creating keys histogram: %w", err)
	}

	resultGauge, err = meter.Float64Gauge("calculator.last_result",
		metric.WithDescription("The last result shown after an equal key or evaluation"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("creating result gauge: %w", err)
	}

	return nil
}

// RegisterSessionGauge exposes the number of open sessions on the Prometheus
// registry served at /metrics.
func RegisterSessionGauge(reg prometheus.Registerer, store *Store) error {
	gauge := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "calculator_sessions_active",
		Help: "Number of open calculator sessions.",
	}, func() float64 {
		return float64(store.Len())
	})

	if err := reg.Register(gauge); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			return nil
		}
		return fmt.Errorf("registering session gauge: %w", err)
	}
	return nil
}
