// Package keypad drives a calculator.Manager the way the calculator screen
// does: it keeps the operator and operand labels plus the history lines, and
// serves sessions of it over HTTP.
package keypad

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go-chi-calculator/internal/calculator"
	"go-chi-calculator/internal/operand"
)

// Function keys.
const (
	KeyEqual      = "="
	KeyAllClear   = "AC"
	KeyClearEntry = "CE"
	KeySignToggle = "±"
)

var ErrUnknownKey = errors.New("unknown key")

// KeyKind groups keys by how a Session handles them.
type KeyKind int

const (
	KindUnknown KeyKind = iota
	KindOperand
	KindOperator
	KindEqual
	KindAllClear
	KindClearEntry
	KindSignToggle
)

func (k KeyKind) String() string {
	switch k {
	case KindOperand:
		return "operand"
	case KindOperator:
		return "operator"
	case KindEqual:
		return "equal"
	case KindAllClear:
		return "all_clear"
	case KindClearEntry:
		return "clear_entry"
	case KindSignToggle:
		return "sign_toggle"
	default:
		return "unknown"
	}
}

// Classify reports which kind of key k is.
func Classify(k string) KeyKind {
	switch k {
	case "0", "1", "2", "3", "4", "5", "6", "7", "8", "9", "00", ".":
		return KindOperand
	case KeyEqual:
		return KindEqual
	case KeyAllClear:
		return KindAllClear
	case KeyClearEntry:
		return KindClearEntry
	case KeySignToggle, "+/-":
		return KindSignToggle
	case "":
		return KindUnknown
	}
	if _, err := calculator.ParseOperator(k); err == nil {
		return KindOperator
	}
	return KindUnknown
}

// Session is one calculator screen. It is not safe for concurrent use; Store
// serializes access to the sessions it holds.
type Session struct {
	id      string
	manager *calculator.Manager

	operator string
	operand  string
	history  []string

	lastUsed time.Time
}

func newSession(id string, manager *calculator.Manager, now time.Time) *Session {
	return &Session{
		id:       id,
		manager:  manager,
		operand:  operand.Zero,
		lastUsed: now,
	}
}

// Press handles a single key. Unknown keys return ErrUnknownKey and leave
// the session untouched.
func (s *Session) Press(key string) error {
	switch Classify(key) {
	case KindOperand:
		s.setOperand(s.manager.AddOperandsLabel(s.operandValue(), key))
	case KindOperator:
		op, _ := calculator.ParseOperator(key)
		s.addFormula()
		s.operator = op.String()
		s.operand = operand.Zero
	case KindEqual:
		s.addFormula()
		s.setOperand(s.manager.CalculateFormula())
		s.operator = ""
	case KindAllClear:
		s.operator = ""
		s.operand = operand.Zero
		s.history = nil
		s.manager.ClearFormula()
	case KindClearEntry:
		s.operand = operand.Zero
	case KindSignToggle:
		s.setOperand(s.manager.ChangeSign(s.operandValue()))
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return nil
}

func (s *Session) addFormula() {
	op, opd := s.manager.AddFormula(s.operator, s.operandValue())
	if op == "" && opd == "" {
		return
	}
	s.history = append(s.history, historyLine(op, opd))
}

func historyLine(op, opd string) string {
	return strings.TrimSpace(op + " " + operand.FormatInput(opd))
}

func (s *Session) operandValue() string {
	return operand.RemoveComma(s.operand)
}

func (s *Session) setOperand(v string) {
	s.operand = operand.FormatInput(v)
}

// Err returns the arithmetic error behind a NaN on the display, if any.
func (s *Session) Err() error {
	return s.manager.Err()
}

// Display returns a snapshot of the labels and history.
func (s *Session) Display() Display {
	history := make([]string, len(s.history))
	copy(history, s.history)
	return Display{
		ID:       s.id,
		Operator: s.operator,
		Operand:  s.operand,
		History:  history,
	}
}
