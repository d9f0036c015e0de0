package calc

import (
	"fmt"
	"math"
)

// constants supported by the grammar, matched case-insensitively.
var constants = map[string]float64{
	"pi": math.Pi,
	"e":  math.E,
}

// parser is a recursive-descent evaluator over the token stream. The grammar
// is restricted by construction to the supported operator set, so there is no
// larger engine capability surface to guard against:
//
//	expr    := term (('+'|'-') term)*
//	term    := unary (('*'|'/'|'%') unary)*
//	unary   := ('+'|'-') unary | power
//	power   := primary ('^' unary)?
//	primary := number | constant | '(' expr ')'
//
// '^' associates right and binds tighter than unary minus, so -2^2 == -4.
type parser struct {
	tokens []token
	pos    int
}

func evalExpr(expr string) (float64, error) {
	tokens, err := lex(expr)
	if err != nil {
		return 0, err
	}
	p := &parser{tokens: tokens}
	v, err := p.parseExpr()
	if err != nil {
		return 0, err
	}
	if tok := p.peek(); tok.kind != tokenEOF {
		return 0, fmt.Errorf("unexpected %q at position %d", tok.text, tok.pos)
	}
	return v, nil
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	tok := p.tokens[p.pos]
	if tok.kind != tokenEOF {
		p.pos++
	}
	return tok
}

func (p *parser) parseExpr() (float64, error) {
	lhs, err := p.parseTerm()
	if err != nil {
		return 0, err
	}
	for {
		tok := p.peek()
		if tok.kind != tokenOperator || (tok.text != "+" && tok.text != "-") {
			return lhs, nil
		}
		p.next()
		rhs, err := p.parseTerm()
		if err != nil {
			return 0, err
		}
		if tok.text == "+" {
			lhs += rhs
		} else {
			lhs -= rhs
		}
	}
}

func (p *parser) parseTerm() (float64, error) {
	lhs, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	for {
		tok := p.peek()
		if tok.kind != tokenOperator || (tok.text != "*" && tok.text != "/" && tok.text != "%") {
			return lhs, nil
		}
		p.next()
		rhs, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		switch tok.text {
		case "*":
			lhs *= rhs
		case "/":
			// Division by zero follows float semantics and is rejected
			// later as a non-finite result.
			lhs /= rhs
		case "%":
			lhs = math.Mod(lhs, rhs)
		}
	}
}

func (p *parser) parseUnary() (float64, error) {
	tok := p.peek()
	if tok.kind == tokenOperator && (tok.text == "-" || tok.text == "+") {
		p.next()
		v, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		if tok.text == "-" {
			return -v, nil
		}
		return v, nil
	}
	return p.parsePower()
}

func (p *parser) parsePower() (float64, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return 0, err
	}
	tok := p.peek()
	if tok.kind == tokenOperator && tok.text == "^" {
		p.next()
		exp, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		return math.Pow(base, exp), nil
	}
	return base, nil
}

func (p *parser) parsePrimary() (float64, error) {
	tok := p.next()
	switch tok.kind {
	case tokenNumber:
		return tok.num, nil
	case tokenIdent:
		if v, known := constants[tok.text]; known {
			return v, nil
		}
		return 0, fmt.Errorf("unknown identifier %q at position %d", tok.text, tok.pos)
	case tokenLParen:
		v, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		closing := p.next()
		if closing.kind != tokenRParen {
			return 0, fmt.Errorf("missing ')' at position %d", closing.pos)
		}
		return v, nil
	case tokenEOF:
		return 0, fmt.Errorf("unexpected end of expression at position %d", tok.pos)
	default:
		return 0, fmt.Errorf("unexpected %q at position %d", tok.text, tok.pos)
	}
}
