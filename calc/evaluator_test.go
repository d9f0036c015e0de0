package calc

import "testing"

func TestEvaluateArithmetic(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"addition", "2+2", "4"},
		{"precedence", "2+3*4", "14"},
		{"parens", "(2+3)*4", "20"},
		{"power", "2^10", "1024"},
		{"power right assoc", "2^3^2", "512"},
		{"modulo", "10%3", "1"},
		{"unary minus", "-5+2", "-3"},
		{"unary minus power", "-2^2", "-4"},
		{"float noise", "0.1+0.2", "0.3"},
		{"glyph multiply", "12×(3+4)", "84"},
		{"glyph divide", "10÷4", "2.5"},
		{"unicode minus", "7−2", "5"},
		{"grouping commas", "1,000+24", "1024"},
		{"pi", "pi", "3.14159265359"},
		{"pi uppercase", "PI", "3.14159265359"},
		{"euler", "e", "2.718281828459"},
		{"pi arithmetic", "2*pi", "6.28318530718"},
		{"leading dot", ".5*2", "1"},
		{"whitespace", "  1 + 2  ", "3"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Evaluate(tc.in)
			if !got.OK() {
				t.Fatalf("Evaluate(%q) rejected with %s", tc.in, got.Kind)
			}
			if got.Value != tc.want {
				t.Fatalf("Evaluate(%q) = %q, want %q", tc.in, got.Value, tc.want)
			}
		})
	}
}

func TestEvaluateRejections(t *testing.T) {
	cases := []struct {
		name string
		in   string
		kind ErrorKind
	}{
		{"empty", "", KindEmptyExpression},
		{"whitespace only", "   ", KindEmptyExpression},
		{"division by zero", "10/0", KindNonFinite},
		{"modulo by zero", "5%0", KindNonFinite},
		{"denylist import", "import(1)", KindUnsupportedConstruct},
		{"denylist case insensitive", "SimPlify(2+2)", KindUnsupportedConstruct},
		{"denylist unit", "5 unit", KindUnsupportedConstruct},
		{"invalid letters", "2+x", KindInvalidCharacters},
		{"invalid brackets", "[1,2]", KindInvalidCharacters},
		{"invalid quote", `"2+2"`, KindInvalidCharacters},
		{"unbalanced parens", "(2+3", KindEvaluationFailure},
		{"dangling operator", "2+", KindEvaluationFailure},
		{"double dot", "1.2.3", KindEvaluationFailure},
		{"unknown constant", "pie", KindEvaluationFailure},
		{"bare paren", ")", KindEvaluationFailure},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Evaluate(tc.in)
			if got.OK() {
				t.Fatalf("Evaluate(%q) = Ok(%q), want rejection %s", tc.in, got.Value, tc.kind)
			}
			if got.Kind != tc.kind {
				t.Fatalf("Evaluate(%q) rejected with %s, want %s", tc.in, got.Kind, tc.kind)
			}
		})
	}
}

func TestEvaluateLargeMagnitudePlainDecimal(t *testing.T) {
	// Results of any magnitude must render without exponent notation: the
	// grammar has no scientific notation, so an exponent form could never be
	// fed back through Evaluate.
	cases := []struct {
		in   string
		want string
	}{
		{"10^21", "1000000000000000000000"},
		{"2^70", "1180591620717411303424"},
		{"-10^22", "-10000000000000000000000"},
	}
	for _, tc := range cases {
		got := Evaluate(tc.in)
		if !got.OK() {
			t.Fatalf("Evaluate(%q) rejected with %s", tc.in, got.Kind)
		}
		if got.Value != tc.want {
			t.Fatalf("Evaluate(%q) = %q, want %q", tc.in, got.Value, tc.want)
		}
	}
}

func TestEvaluateIdempotentRounding(t *testing.T) {
	inputs := []string{"pi", "e", "0.1+0.2", "1/3", "2^0.5", "10/4", "-2^2", "10^21", "10^25", "2^70"}
	for _, in := range inputs {
		first := Evaluate(in)
		if !first.OK() {
			t.Fatalf("Evaluate(%q) rejected with %s", in, first.Kind)
		}
		second := Evaluate(first.Value)
		if !second.OK() {
			t.Fatalf("Evaluate(%q) rejected with %s", first.Value, second.Kind)
		}
		if second.Value != first.Value {
			t.Fatalf("Evaluate(%q) = %q, re-evaluation gave %q", in, first.Value, second.Value)
		}
	}
}

func TestOutcomeErrorText(t *testing.T) {
	out := Evaluate("10/0")
	if got, want := out.ErrorText(), "Error: result is not a finite number"; got != want {
		t.Fatalf("ErrorText() = %q, want %q", got, want)
	}
	if Evaluate("2+2").ErrorText() != "" {
		t.Fatal("ErrorText() should be empty for successful outcomes")
	}
}

func TestNormalize(t *testing.T) {
	if got := Normalize(" 12×4 ÷ 2 — 1,000 "); got != "12*4 / 2 - 1000" {
		t.Fatalf("Normalize = %q", got)
	}
}
