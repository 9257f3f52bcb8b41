package main

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"go-chi-calculator/internal/keypad"
	"go-chi-calculator/internal/observability"
)

// initMetrics initialises all metric providers and application-specific
// metric instruments. Add new domain InitMetrics calls here as the project grows.
func initMetrics(ctx context.Context, serviceName string, store *keypad.Store) (func(context.Context) error, error) {
	shutdown, err := observability.InitMetrics(ctx, serviceName)
	if err != nil {
		return nil, err
	}

	if err := keypad.InitMetrics(); err != nil {
		return nil, err
	}

	if err := keypad.RegisterSessionGauge(prometheus.DefaultRegisterer, store); err != nil {
		return nil, err
	}

	return shutdown, nil
}
