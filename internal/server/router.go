package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"go-chi-calculator/internal/handlers"
	"go-chi-calculator/internal/keypad"
	"go-chi-calculator/internal/observability"
)

func NewRouter(calc *keypad.Handler) http.Handler {

	r := chi.NewRouter()

	r.Use(observability.RequestIDMiddleware)
	r.Use(observability.TracingMiddleware)
	r.Use(observability.LoggingMiddleware)
	r.Use(middleware.Recoverer)

	r.Get("/health", handlers.Health)

	r.Handle("/metrics", observability.PrometheusHandler())

	keypad.RegisterRoutes(r, calc)

	return r
}
