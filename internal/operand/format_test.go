package operand

import "testing"

func TestFormatInput(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{raw: "", want: "0"},
		{raw: "0", want: "0"},
		{raw: "05", want: "5"},
		{raw: "123", want: "123"},
		{raw: "1234", want: "1,234"},
		{raw: "1234567", want: "1,234,567"},
		{raw: "-1234567.891", want: "-1,234,567.891"},
		{raw: "1234.", want: "1,234."},
		{raw: "0.000", want: "0.000"},
		{raw: ".5", want: "0.5"},
		{raw: "1,2,3,4", want: "1,234"},
		{raw: "NaN", want: "NaN"},
		{raw: "-", want: "-"},
		{raw: "1.2.3", want: "1.2.3"},
	}

	for _, tc := range tests {
		t.Run(tc.raw, func(t *testing.T) {
			if got := FormatInput(tc.raw); got != tc.want {
				t.Fatalf("FormatInput(%q): expected %q, got %q", tc.raw, tc.want, got)
			}
		})
	}
}

func TestFormatInputIsIdempotent(t *testing.T) {
	for _, raw := range []string{"9876543210.12", "-1000", "42."} {
		once := FormatInput(raw)
		if twice := FormatInput(once); twice != once {
			t.Fatalf("FormatInput not idempotent for %q: %q then %q", raw, once, twice)
		}
	}
}

func TestRemoveComma(t *testing.T) {
	if got := RemoveComma(" -1,234,567.5 "); got != "-1234567.5" {
		t.Fatalf("expected %q, got %q", "-1234567.5", got)
	}
}

func TestRemoveCommaUndoesFormatInput(t *testing.T) {
	for _, raw := range []string{"0", "7", "1000", "123456789", "-52000.0500", "3.", "0.25", "100000000000000"} {
		if got, want := RemoveComma(FormatInput(raw)), RemoveComma(raw); got != want {
			t.Fatalf("round trip of %q: expected %q, got %q", raw, want, got)
		}
	}
}

func TestIsNumberAndIsZero(t *testing.T) {
	tests := []struct {
		in       string
		isNumber bool
		isZero   bool
	}{
		{in: "0", isNumber: true, isZero: true},
		{in: "-0.00", isNumber: true, isZero: true},
		{in: "0.", isNumber: true, isZero: true},
		{in: "1,000", isNumber: true},
		{in: "-.5", isNumber: true},
		{in: ".", isNumber: false},
		{in: "-", isNumber: false},
		{in: "", isNumber: false},
		{in: "NaN", isNumber: false},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			if got := IsNumber(tc.in); got != tc.isNumber {
				t.Fatalf("IsNumber(%q): expected %t, got %t", tc.in, tc.isNumber, got)
			}
			if got := IsZero(tc.in); got != tc.isZero {
				t.Fatalf("IsZero(%q): expected %t, got %t", tc.in, tc.isZero, got)
			}
		})
	}
}
