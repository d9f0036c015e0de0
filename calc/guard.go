package calc

import "strings"

// denylist holds identifiers that unlock non-arithmetic capability in
// general-purpose expression engines (symbolic ops, unit conversion,
// matrix constructors, serialization, importing). The character allowlist
// below is the primary guard; this scan is defense in depth for anything
// that would slip through a wider grammar.
var denylist = []string{
	"import",
	"createunit",
	"evaluate",
	"compile",
	"parse",
	"simplify",
	"derivative",
	"rationalize",
	"unit",
	"matrix",
	"sparse",
	"concat",
	"range",
	"format",
	"json",
	"config",
	"chain",
	"typed",
}

// deniedToken reports the first denylisted identifier contained in expr,
// matched case-insensitively.
func deniedToken(expr string) (string, bool) {
	lowered := strings.ToLower(expr)
	for _, token := range denylist {
		if strings.Contains(lowered, token) {
			return token, true
		}
	}
	return "", false
}

// allowedRune bounds the grammar to arithmetic: digits, operators, parens,
// whitespace, dot, and the letters spelling the constants pi and e.
func allowedRune(r rune) bool {
	switch {
	case r >= '0' && r <= '9':
		return true
	case r == '+' || r == '-' || r == '*' || r == '/':
		return true
	case r == '(' || r == ')' || r == '.' || r == '^' || r == '%':
		return true
	case r == ' ' || r == '\t' || r == '\n' || r == '\r':
		return true
	}
	switch r {
	case 'p', 'i', 'e', 'P', 'I', 'E':
		return true
	}
	return false
}

func allAllowed(expr string) bool {
	for _, r := range expr {
		if !allowedRune(r) {
			return false
		}
	}
	return true
}
