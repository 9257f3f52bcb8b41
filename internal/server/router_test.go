package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go-chi-calculator/internal/keypad"
	"go-chi-calculator/internal/observability"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func newTestRouter(t *testing.T) (http.Handler, *keypad.Store) {
	t.Helper()

	observability.Logger = zap.NewNop()
	if err := keypad.InitMetrics(); err != nil {
		t.Fatalf("initializing calculator metrics: %v", err)
	}

	store := keypad.NewStore(10, time.Minute, zap.NewNop())
	return NewRouter(keypad.NewHandler(store)), store
}

func TestNewRouterHealthEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	if body := w.Body.String(); body != "ok" {
		t.Fatalf("expected body %q, got %q", "ok", body)
	}
}

func TestNewRouterEvaluateSetsHeaderAndOmitsRequestIDInBody(t *testing.T) {
	router, _ := newTestRouter(t)

	body := []byte(`{"terms":[{"operator":"","operand":"5"},{"operator":"+","operand":"3"}]}`)
	req := httptest.NewRequest(http.MethodPost, "/calculator/evaluate", bytes.NewReader(body))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	requestID := w.Result().Header.Get("X-Request-ID")
	if requestID == "" {
		t.Fatal("expected X-Request-ID header to be set")
	}
	if _, err := uuid.Parse(requestID); err != nil {
		t.Fatalf("expected valid UUID in X-Request-ID, got %q: %v", requestID, err)
	}

	var payload map[string]any
	if err := json.NewDecoder(w.Result().Body).Decode(&payload); err != nil {
		t.Fatalf("decoding JSON response: %v", err)
	}

	if _, ok := payload["request_id"]; ok {
		t.Fatal("did not expect request_id field in success JSON body")
	}

	if got, ok := payload["result"].(string); !ok || got != "8" {
		t.Fatalf("expected result %q, got %#v", "8", payload["result"])
	}
}

func TestNewRouterSessionLifecycle(t *testing.T) {
	router, store := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/calculator/sessions", nil))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, w.Code)
	}

	var created keypad.Display
	if err := json.NewDecoder(w.Body).Decode(&created); err != nil {
		t.Fatalf("decoding JSON response: %v", err)
	}

	keys := strings.NewReader(`{"keys":["1","2","3","4","×","2","="]}`)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/calculator/sessions/"+created.ID+"/keys", keys))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	var display keypad.Display
	if err := json.NewDecoder(w.Body).Decode(&display); err != nil {
		t.Fatalf("decoding JSON response: %v", err)
	}
	if display.Operand != "2,468" {
		t.Fatalf("expected operand %q, got %q", "2,468", display.Operand)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/calculator/sessions/"+created.ID, nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, w.Code)
	}
	if store.Len() != 0 {
		t.Fatalf("expected no sessions, got %d", store.Len())
	}
}

func TestNewRouterMetricsExposesSessionGauge(t *testing.T) {
	router, store := newTestRouter(t)

	if err := keypad.RegisterSessionGauge(prometheus.DefaultRegisterer, store); err != nil {
		t.Fatalf("registering session gauge on default registry: %v", err)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if !strings.Contains(w.Body.String(), "calculator_sessions_active") {
		t.Fatal("expected calculator_sessions_active in /metrics output")
	}
}
