package keypad

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go-chi-calculator/internal/calculator"
	"go-chi-calculator/internal/handlers"
	"go-chi-calculator/internal/observability"
	"go-chi-calculator/internal/operand"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// tracer is the calculator's dedicated OpenTelemetry tracer.
var tracer = otel.Tracer("calculator")

// maxBodyBytes bounds the JSON body of the keys and evaluate requests.
const maxBodyBytes = 64 << 10

// Handler serves keypad sessions held in a Store.
type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

// ---------------------------------------------------------------------------
// Sessions
// ---------------------------------------------------------------------------

// CreateSession handles POST /calculator/sessions
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx, span, logger := startSpan(r, "calculator.session.create")
	defer span.End()

	display, err := h.store.Create()
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "create_session", "could not create session", err, statusFor(err), w)
		return
	}

	span.SetAttributes(attribute.String("session.id", display.ID))
	span.SetStatus(codes.Ok, "")

	logger.Info("session created",
		zap.String("session_id", display.ID),
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
	)

	handlers.WriteJSON(w, http.StatusCreated, display)
}

// GetSession handles GET /calculator/sessions/{id}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	ctx, span, logger := startSpan(r, "calculator.session.get")
	defer span.End()

	id := chi.URLParam(r, "id")
	span.SetAttributes(attribute.String("session.id", id))

	display, err := h.store.Get(id)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "get_session", err.Error(), err, statusFor(err), w)
		return
	}

	span.SetStatus(codes.Ok, "")
	handlers.WriteJSON(w, http.StatusOK, display)
}

// DeleteSession handles DELETE /calculator/sessions/{id}
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	ctx, span, logger := startSpan(r, "calculator.session.delete")
	defer span.End()

	id := chi.URLParam(r, "id")
	span.SetAttributes(attribute.String("session.id", id))

	if err := h.store.Delete(id); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "delete_session", err.Error(), err, statusFor(err), w)
		return
	}

	span.SetStatus(codes.Ok, "")
	logger.Info("session deleted",
		zap.String("session_id", id),
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
	)
	w.WriteHeader(http.StatusNoContent)
}

// PressKeys handles POST /calculator/sessions/{id}/keys. The whole batch is
// validated before any key is applied.
func (h *Handler) PressKeys(w http.ResponseWriter, r *http.Request) {
	ctx, span, logger := startSpan(r, "calculator.session.keys")
	defer span.End()

	id := chi.URLParam(r, "id")
	span.SetAttributes(attribute.String("session.id", id))

	var req KeysRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "keys", "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	if len(req.Keys) == 0 {
		observability.RecordError(ctx, span, logger, errorCounter, "keys", "no keys provided", fmt.Errorf("keys array is empty"), http.StatusBadRequest, w)
		return
	}

	kinds := make([]KeyKind, len(req.Keys))
	for i, k := range req.Keys {
		kinds[i] = Classify(k)
		if kinds[i] == KindUnknown {
			err := fmt.Errorf("%w %q at position %d", ErrUnknownKey, k, i)
			observability.RecordError(ctx, span, logger, errorCounter, "keys", err.Error(), err, http.StatusBadRequest, w)
			return
		}
	}

	span.SetAttributes(attribute.Int("keys.count", len(req.Keys)))

	start := time.Now()
	var arithErr error
	display, err := h.store.Do(id, func(s *Session) error {
		for _, k := range req.Keys {
			if err := s.Press(k); err != nil {
				return err
			}
		}
		arithErr = s.Err()
		return nil
	})
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0 // ms

	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "keys", err.Error(), err, statusFor(err), w)
		return
	}

	for _, kind := range kinds {
		keysCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind.String())))
	}
	keysHistogram.Record(ctx, elapsed)

	last := kinds[len(kinds)-1]
	switch {
	case display.Operand == calculator.NotANumber && arithErr != nil:
		span.AddEvent("arithmetic.invalid", trace.WithAttributes(attribute.String("error", arithErr.Error())))
		errorCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", "keys")))
		logger.Warn("invalid arithmetic",
			zap.String("session_id", id),
			zap.Error(arithErr),
		)
	case last == KindEqual:
		recordResult(ctx, display.Operand)
	}

	span.SetAttributes(
		attribute.String("display.operator", display.Operator),
		attribute.String("display.operand", display.Operand),
	)
	span.SetStatus(codes.Ok, "")

	logger.Info("keys applied",
		zap.String("session_id", id),
		zap.Strings("keys", req.Keys),
		zap.String("operand", display.Operand),
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
		zap.Float64("duration_ms", elapsed),
	)

	handlers.WriteJSON(w, http.StatusOK, display)
}

// ---------------------------------------------------------------------------
// Evaluate: one child span per formula term
// ---------------------------------------------------------------------------

// Evaluate handles POST /calculator/evaluate. It feeds the terms through a
// fresh Manager and reports the history line of each one. Invalid arithmetic
// is part of a normal response: the result is NaN and the error is set.
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	ctx, span, logger := startSpan(r, "calculator.evaluate")
	defer span.End()

	var req EvaluateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "evaluate", "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	if len(req.Terms) == 0 {
		observability.RecordError(ctx, span, logger, errorCounter, "evaluate", "no terms provided", fmt.Errorf("terms array is empty"), http.StatusBadRequest, w)
		return
	}

	span.SetAttributes(attribute.Int("evaluate.terms_count", len(req.Terms)))

	manager := calculator.NewManager(calculator.WithLogger(logger))
	results := make([]EvaluatedTerm, 0, len(req.Terms))

	for i, term := range req.Terms {
		_, termSpan := tracer.Start(ctx, fmt.Sprintf("calculator.evaluate.term.%d", i),
			trace.WithAttributes(
				attribute.Int("evaluate.term.index", i),
				attribute.String("evaluate.term.operator", term.Operator),
				attribute.String("evaluate.term.operand", term.Operand),
			),
		)

		op, opd := manager.AddFormula(term.Operator, term.Operand)
		recorded := op != "" || opd != ""

		line := ""
		if recorded {
			line = historyLine(op, opd)
			termsCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("operator", term.Operator)))
		}

		termSpan.SetAttributes(attribute.Bool("evaluate.term.recorded", recorded))
		termSpan.SetStatus(codes.Ok, "")
		termSpan.End()

		results = append(results, EvaluatedTerm{
			Operator: term.Operator,
			Operand:  term.Operand,
			History:  line,
		})
	}

	resp := EvaluateResponse{
		Terms:    results,
		Recorded: len(manager.Terms()),
		Result:   manager.CalculateFormula(),
	}

	if err := manager.Err(); err != nil {
		resp.Error = err.Error()

		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid arithmetic")
		errorCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", "evaluate")))
	} else {
		recordResult(ctx, resp.Result)
		span.SetStatus(codes.Ok, "")
	}

	span.AddEvent("evaluate.complete", trace.WithAttributes(
		attribute.String("result", resp.Result),
		attribute.Int("total_terms", len(req.Terms)),
		attribute.Int("recorded_terms", resp.Recorded),
	))

	logger.Info("evaluation completed",
		zap.Int("terms", len(req.Terms)),
		zap.Int("recorded", resp.Recorded),
		zap.String("result", resp.Result),
		zap.String("error", resp.Error),
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
	)

	handlers.WriteJSON(w, http.StatusOK, resp)
}

func startSpan(r *http.Request, name string) (context.Context, trace.Span, *zap.Logger) {
	ctx := r.Context()
	ctx, span := tracer.Start(ctx, name,
		trace.WithAttributes(
			attribute.String("request.id", observability.RequestIDFromContext(ctx)),
		),
	)
	return ctx, span, observability.LoggerWithTrace(ctx)
}

// recordResult feeds a display value into the last-result gauge.
func recordResult(ctx context.Context, display string) {
	d, err := decimal.NewFromString(operand.RemoveComma(display))
	if err != nil {
		return
	}
	resultGauge.Record(ctx, d.InexactFloat64())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrTooManySessions):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrUnknownKey):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
