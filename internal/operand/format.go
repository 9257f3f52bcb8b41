// Package operand converts operands between their raw keypad form and the
// grouped form shown on the display.
package operand

import "strings"

// Separator is the grouping separator inserted into the integer part.
const Separator = ","

// Zero is the display value of an empty operand.
const Zero = "0"

// FormatInput groups the integer part of raw in threes and leaves the
// fractional part as typed, including a trailing decimal point. Leading zeros
// are dropped. Anything that is not a plain signed decimal is returned as is.
func FormatInput(raw string) string {
	plain := RemoveComma(raw)
	if plain == "" {
		return Zero
	}

	sign, intPart, frac, hasPoint, ok := split(plain)
	if !ok {
		return raw
	}

	intPart = strings.TrimLeft(intPart, "0")
	if intPart == "" {
		intPart = Zero
	}

	var b strings.Builder
	b.WriteString(sign)
	b.WriteString(group(intPart))
	if hasPoint {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}

// RemoveComma strips grouping separators so the value can be parsed.
func RemoveComma(formatted string) string {
	return strings.ReplaceAll(strings.TrimSpace(formatted), Separator, "")
}

// split breaks a separator-free decimal into its parts. ok is false when s
// holds anything other than an optional "-", digits and at most one ".".
func split(s string) (sign, intPart, frac string, hasPoint, ok bool) {
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}

	intPart, frac, hasPoint = strings.Cut(s, ".")
	if !digits(intPart) || !digits(frac) {
		return "", "", "", false, false
	}
	if intPart == "" && frac == "" && !hasPoint && sign != "" {
		// a lone "-" is not a number
		return "", "", "", false, false
	}
	return sign, intPart, frac, hasPoint, true
}

func digits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func group(s string) string {
	if len(s) <= 3 {
		return s
	}

	var parts []string
	for i := len(s); i > 0; i -= 3 {
		start := max(i-3, 0)
		parts = append([]string{s[start:i]}, parts...)
	}
	return strings.Join(parts, Separator)
}

// IsNumber reports whether s, separators aside, is a plain signed decimal
// such as "-1,234." or "0.5".
func IsNumber(s string) bool {
	plain := RemoveComma(s)
	if plain == "" {
		return false
	}
	_, intPart, frac, _, ok := split(plain)
	return ok && intPart+frac != ""
}

// IsZero reports whether s is a number whose digits are all zero.
func IsZero(s string) bool {
	if !IsNumber(s) {
		return false
	}
	return strings.Trim(RemoveComma(s), "-0.") == ""
}
