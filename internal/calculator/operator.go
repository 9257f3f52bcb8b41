package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Operator is the pending arithmetic action between two operands.
type Operator int

const (
	// None means no operator is pending. A term carrying it starts the
	// running value over at its operand.
	None Operator = iota
	Add
	Subtract
	Multiply
	Divide
)

var operatorSymbols = map[string]Operator{
	"":  None,
	"+": Add,
	"-": Subtract,
	"−": Subtract,
	"*": Multiply,
	"×": Multiply,
	"x": Multiply,
	"/": Divide,
	"÷": Divide,
}

// ParseOperator maps a keypad symbol to its Operator. Both the ASCII and the
// typographic symbols are accepted.
func ParseOperator(symbol string) (Operator, error) {
	op, ok := operatorSymbols[symbol]
	if !ok {
		return None, fmt.Errorf("%w: %q", ErrUnknownOperator, symbol)
	}
	return op, nil
}

// String returns the symbol shown on the operator label.
func (o Operator) String() string {
	switch o {
	case Add:
		return "+"
	case Subtract:
		return "−"
	case Multiply:
		return "×"
	case Divide:
		return "÷"
	default:
		return ""
	}
}

// Apply combines the running value lhs with rhs. None discards lhs.
func (o Operator) Apply(lhs, rhs decimal.Decimal) (decimal.Decimal, error) {
	switch o {
	case None:
		return rhs, nil
	case Add:
		return lhs.Add(rhs), nil
	case Subtract:
		return lhs.Sub(rhs), nil
	case Multiply:
		return lhs.Mul(rhs).Round(DivisionScale), nil
	case Divide:
		if rhs.IsZero() {
			return decimal.Zero, fmt.Errorf("%w: %s ÷ %s", ErrDivisionByZero, lhs, rhs)
		}
		return lhs.DivRound(rhs, DivisionScale), nil
	default:
		return decimal.Zero, fmt.Errorf("%w: %d", ErrUnknownOperator, int(o))
	}
}
