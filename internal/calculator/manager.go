// Package calculator holds the formula state behind the keypad: the operand
// being typed, the pending operator and the running left-to-right result.
package calculator

import (
	"fmt"
	"strings"

	"go-chi-calculator/internal/operand"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	// NotANumber is displayed in place of any invalid result.
	NotANumber = "NaN"

	// MaxOperandDigits caps the digits (sign and point excluded) of a typed
	// operand. Keystrokes past it are ignored.
	MaxOperandDigits = 15

	// MaxResultDigits caps the integer digits of the running value. Larger
	// results are reported as ErrOverflow.
	MaxResultDigits = 20

	// DivisionScale is the number of fractional digits kept by division and
	// multiplication, rounded half away from zero.
	DivisionScale = 20

	// DisplayScale is the number of fractional digits shown by
	// CalculateFormula, rounded half away from zero with trailing zeros
	// trimmed.
	DisplayScale = 10
)

var resultLimit = decimal.New(1, MaxResultDigits)

// Term is one (operator, operand) step of the formula.
type Term struct {
	Operator Operator
	Operand  string
}

// Manager accumulates formula terms and evaluates them strictly left to
// right. It is not safe for concurrent use.
type Manager struct {
	logger *zap.Logger

	terms []Term
	value decimal.Decimal
	err   error
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used for recorded terms and invalid arithmetic.
func WithLogger(logger *zap.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager returns a Manager in the empty state.
func NewManager(opts ...Option) *Manager {
	m := &Manager{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AddFormula appends a term and folds it into the running value. It returns
// the pair exactly as given so the caller can render a history line, or an
// empty pair when nothing was recorded: either both arguments were empty or
// the operator is not recognised.
func (m *Manager) AddFormula(operatorValue, operandValue string) (string, string) {
	if operatorValue == "" && operandValue == "" {
		return "", ""
	}

	op, err := ParseOperator(operatorValue)
	if err != nil {
		m.logger.Warn("formula term ignored",
			zap.String("operator", operatorValue),
			zap.String("operand", operandValue),
			zap.Error(err),
		)
		return "", ""
	}

	m.terms = append(m.terms, Term{Operator: op, Operand: operandValue})
	m.apply(op, operandValue)

	m.logger.Debug("formula term added",
		zap.Stringer("operator", op),
		zap.String("operand", operandValue),
		zap.Int("terms", len(m.terms)),
	)

	return operatorValue, operandValue
}

func (m *Manager) apply(op Operator, raw string) {
	rhs, err := parseOperand(raw)

	// None starts over, which also recovers from an earlier error.
	if op == None {
		m.value, m.err = decimal.Zero, nil
		m.set(rhs, err)
		return
	}

	if m.err != nil {
		return
	}
	if err == nil {
		rhs, err = op.Apply(m.value, rhs)
	}
	m.set(rhs, err)
}

// set stores result as the running value unless err is set or result is out
// of range, in which case the value becomes invalid.
func (m *Manager) set(result decimal.Decimal, err error) {
	if err == nil && result.Abs().Cmp(resultLimit) >= 0 {
		err = fmt.Errorf("%w: %s", ErrOverflow, result)
	}
	if err != nil {
		m.err = err
		m.logInvalid(err)
		return
	}
	m.value = result
}

func (m *Manager) logInvalid(err error) {
	if err == nil {
		return
	}
	m.logger.Warn("invalid arithmetic", zap.Error(err))
}

func parseOperand(raw string) (decimal.Decimal, error) {
	plain := operand.RemoveComma(raw)
	if plain == "" {
		return decimal.Zero, nil
	}
	if !operand.IsNumber(plain) {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidOperand, raw)
	}
	// "5." is a complete operand on the display.
	plain = strings.TrimSuffix(plain, ".")
	if strings.HasPrefix(plain, ".") || strings.HasPrefix(plain, "-.") {
		plain = strings.Replace(plain, ".", "0.", 1)
	}

	d, err := decimal.NewFromString(plain)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q: %v", ErrInvalidOperand, raw, err)
	}
	return d, nil
}

// CalculateFormula returns the running value as a grouped display string,
// or NotANumber if any term so far produced invalid arithmetic.
func (m *Manager) CalculateFormula() string {
	if m.err != nil {
		return NotANumber
	}
	return operand.FormatInput(m.value.Round(DisplayScale).String())
}

// ClearFormula drops every term and returns to the empty state.
func (m *Manager) ClearFormula() {
	m.terms = nil
	m.value = decimal.Zero
	m.err = nil
}

// AddOperandsLabel appends a typed digit, "00" or "." to current and returns
// the new operand. Input that would give a second decimal point, exceed
// MaxOperandDigits or is not a digit at all leaves current unchanged.
func (m *Manager) AddOperandsLabel(current, input string) string {
	cur := operand.RemoveComma(current)
	if cur == "" || cur == NotANumber {
		cur = operand.Zero
	}

	var next string
	switch {
	case input == ".":
		if strings.Contains(cur, ".") {
			return current
		}
		next = cur + "."
	case isDigits(input):
		sign, unsigned := "", cur
		if strings.HasPrefix(cur, "-") {
			sign, unsigned = "-", cur[1:]
		}
		if unsigned == operand.Zero {
			unsigned = strings.TrimLeft(input, "0")
			if unsigned == "" {
				unsigned = operand.Zero
			}
		} else {
			unsigned += input
		}
		next = sign + unsigned
	default:
		return current
	}

	if countDigits(next) > MaxOperandDigits {
		return current
	}
	return next
}

// ChangeSign toggles the leading minus of current. Zero and non-numeric
// operands are returned unchanged.
func (m *Manager) ChangeSign(current string) string {
	cur := strings.TrimSpace(current)
	if !operand.IsNumber(cur) || operand.IsZero(cur) {
		return current
	}
	if after, ok := strings.CutPrefix(cur, "-"); ok {
		return after
	}
	return "-" + cur
}

// Terms returns a copy of the terms recorded since the last clear.
func (m *Manager) Terms() []Term {
	out := make([]Term, len(m.terms))
	copy(out, m.terms)
	return out
}

// Err returns the error that made the running value invalid, if any.
func (m *Manager) Err() error {
	return m.err
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	return strings.Trim(s, "0123456789") == ""
}

func countDigits(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			n++
		}
	}
	return n
}
