package calculator

import "errors"

// Invalid arithmetic never escapes the string operations of Manager. It is
// reported as NotANumber on the display and kept on Manager.Err for logging.
var (
	ErrDivisionByZero  = errors.New("division by zero")
	ErrOverflow        = errors.New("result out of range")
	ErrInvalidOperand  = errors.New("invalid operand")
	ErrUnknownOperator = errors.New("unknown operator")
)
