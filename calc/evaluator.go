// Package calc evaluates untrusted arithmetic expressions. Input is
// normalized, filtered through denylist and character-allowlist guards, and
// parsed by a grammar that supports exactly + - * / ^ %, parentheses, unary
// minus, and the constants pi and e. Results are canonicalized to at most
// twelve decimal places rendered as the shortest round-tripping decimal.
package calc

import (
	"math"
	"strconv"
)

const (
	// roundShift scales values so that rounding happens at the twelfth
	// decimal place, absorbing float representation noise such as
	// 0.1+0.2 = 0.30000000000000004.
	roundShift = 1e12
	// roundEpsilon nudges values sitting exactly on a rounding boundary
	// upward before rounding (machine epsilon for float64).
	roundEpsilon = 2.220446049250313e-16
	// roundLimit is the magnitude above which rounding at twelve decimal
	// places is a no-op and scaling would overflow.
	roundLimit = 1e15
)

// Evaluate turns untrusted text into a canonical decimal string or a typed
// rejection. Every guard short-circuits; the input never reaches the parser
// unless it is plain arithmetic.
func Evaluate(raw string) Outcome {
	expr := Normalize(raw)
	if expr == "" {
		return rejected(KindEmptyExpression)
	}
	if _, hit := deniedToken(expr); hit {
		return rejected(KindUnsupportedConstruct)
	}
	if !allAllowed(expr) {
		return rejected(KindInvalidCharacters)
	}

	value, err := evalExpr(expr)
	if err != nil {
		return rejected(KindEvaluationFailure)
	}
	if math.IsInf(value, 0) || math.IsNaN(value) {
		return rejected(KindNonFinite)
	}
	return ok(canonical(value))
}

// canonical rounds to twelve decimal places and renders the shortest decimal
// representation without trailing zeros. Re-evaluating the returned string
// yields the same string. Plain 'f' notation is used for every magnitude:
// exponent forms would not survive a round trip through the grammar, which
// has no scientific notation.
func canonical(v float64) string {
	if math.Abs(v) < roundLimit {
		v = math.Round((v+math.Copysign(roundEpsilon, v))*roundShift) / roundShift
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
