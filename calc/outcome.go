package calc

// ErrorKind classifies why an expression was rejected.
type ErrorKind int

const (
	// KindOK marks a successful evaluation.
	KindOK ErrorKind = iota
	// KindEmptyExpression is returned for empty or whitespace-only input.
	KindEmptyExpression
	// KindUnsupportedConstruct is returned when input contains a denylisted identifier.
	KindUnsupportedConstruct
	// KindInvalidCharacters is returned when input contains characters outside the allowlist.
	KindInvalidCharacters
	// KindEvaluationFailure is returned for malformed arithmetic (unbalanced parens, dangling operators).
	KindEvaluationFailure
	// KindNonFinite is returned when the result is infinite or NaN, e.g. division by zero.
	KindNonFinite
)

// String returns the stable identifier of the kind, used in logs.
func (k ErrorKind) String() string {
	switch k {
	case KindOK:
		return "ok"
	case KindEmptyExpression:
		return "empty_expression"
	case KindUnsupportedConstruct:
		return "unsupported_construct"
	case KindInvalidCharacters:
		return "invalid_characters"
	case KindEvaluationFailure:
		return "evaluation_failure"
	case KindNonFinite:
		return "non_finite"
	}
	return "unknown"
}

// Message returns the user-facing description of the kind.
func (k ErrorKind) Message() string {
	switch k {
	case KindEmptyExpression:
		return "empty expression"
	case KindUnsupportedConstruct:
		return "unsupported construct"
	case KindInvalidCharacters:
		return "invalid characters"
	case KindEvaluationFailure:
		return "malformed expression"
	case KindNonFinite:
		return "result is not a finite number"
	}
	return ""
}

// Outcome is the tagged result of evaluating one expression.
// Either Value is set (Kind == KindOK) or Kind names the rejection.
type Outcome struct {
	Value string
	Kind  ErrorKind
}

// OK reports whether the evaluation succeeded.
func (o Outcome) OK() bool {
	return o.Kind == KindOK
}

// ErrorText renders a rejection as the human-readable string shown to users.
func (o Outcome) ErrorText() string {
	if o.OK() {
		return ""
	}
	return "Error: " + o.Kind.Message()
}

func ok(value string) Outcome {
	return Outcome{Value: value, Kind: KindOK}
}

func rejected(kind ErrorKind) Outcome {
	return Outcome{Kind: kind}
}
