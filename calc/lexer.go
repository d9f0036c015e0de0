package calc

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokenNumber tokenKind = iota
	tokenIdent
	tokenOperator
	tokenLParen
	tokenRParen
	tokenEOF
)

type token struct {
	kind tokenKind
	text string
	num  float64
	pos  int
}

// lex splits a normalized expression into tokens. Input has already passed
// the character allowlist, so anything unexpected here is a syntax error.
func lex(expr string) ([]token, error) {
	runes := []rune(expr)
	tokens := make([]token, 0, len(runes))

	i := 0
	for i < len(runes) {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r >= '0' && r <= '9' || r == '.':
			start := i
			seenDot := false
			for i < len(runes) && (runes[i] >= '0' && runes[i] <= '9' || runes[i] == '.') {
				if runes[i] == '.' {
					if seenDot {
						return nil, fmt.Errorf("unexpected '.' at position %d", i)
					}
					seenDot = true
				}
				i++
			}
			text := string(runes[start:i])
			num, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return nil, fmt.Errorf("bad number %q at position %d", text, start)
			}
			tokens = append(tokens, token{kind: tokenNumber, text: text, num: num, pos: start})
		case unicode.IsLetter(r):
			start := i
			for i < len(runes) && unicode.IsLetter(runes[i]) {
				i++
			}
			text := strings.ToLower(string(runes[start:i]))
			tokens = append(tokens, token{kind: tokenIdent, text: text, pos: start})
		case r == '(':
			tokens = append(tokens, token{kind: tokenLParen, text: "(", pos: i})
			i++
		case r == ')':
			tokens = append(tokens, token{kind: tokenRParen, text: ")", pos: i})
			i++
		case r == '+' || r == '-' || r == '*' || r == '/' || r == '^' || r == '%':
			tokens = append(tokens, token{kind: tokenOperator, text: string(r), pos: i})
			i++
		default:
			return nil, fmt.Errorf("unexpected %q at position %d", string(r), i)
		}
	}

	tokens = append(tokens, token{kind: tokenEOF, pos: len(runes)})
	return tokens, nil
}
