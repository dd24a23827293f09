package calc

import (
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrEmpty          = errors.New("empty expression")
	ErrDivisionByZero = errors.New("division by zero")
	ErrOutOfRange     = errors.New("numeric result out of range")
)

// maxDepth bounds parenthesis and unary nesting.
const maxDepth = 200

// Eval parses and evaluates expr.
func Eval(expr string) (float64, error) {
	if strings.TrimSpace(expr) == "" {
		return 0, ErrEmpty
	}
	toks, err := lex(expr)
	if err != nil {
		return 0, err
	}
	p := &parser{toks: toks}
	v, err := p.expr()
	if err != nil {
		return 0, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return 0, errors.Errorf("unexpected %s at position %d", t, t.pos)
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, ErrOutOfRange
	}
	return v, nil
}

// Format renders integral values without a fraction and everything else with
// the shortest decimal that round-trips.
func Format(v float64) string {
	if v == 0 {
		v = 0 // drop negative zero
	}
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

type parser struct {
	toks  []token
	pos   int
	depth int
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) enter() error {
	p.depth++
	if p.depth > maxDepth {
		return errors.New("expression nested too deeply")
	}
	return nil
}

func (p *parser) leave() { p.depth-- }

func (p *parser) expr() (float64, error) {
	left, err := p.term()
	if err != nil {
		return 0, err
	}
	for {
		switch p.peek().kind {
		case tokPlus:
			p.next()
			right, err := p.term()
			if err != nil {
				return 0, err
			}
			left += right
		case tokMinus:
			p.next()
			right, err := p.term()
			if err != nil {
				return 0, err
			}
			left -= right
		default:
			return left, nil
		}
	}
}

func (p *parser) term() (float64, error) {
	left, err := p.unary()
	if err != nil {
		return 0, err
	}
	for {
		op := p.peek().kind
		if op != tokStar && op != tokSlash && op != tokFloorDiv && op != tokPercent {
			return left, nil
		}
		p.next()
		right, err := p.unary()
		if err != nil {
			return 0, err
		}
		switch op {
		case tokStar:
			left *= right
		case tokSlash:
			if right == 0 {
				return 0, ErrDivisionByZero
			}
			left /= right
		case tokFloorDiv:
			if right == 0 {
				return 0, ErrDivisionByZero
			}
			left = math.Floor(left / right)
		case tokPercent:
			if right == 0 {
				return 0, ErrDivisionByZero
			}
			// sign follows the divisor
			m := math.Mod(left, right)
			if m != 0 && (m < 0) != (right < 0) {
				m += right
			}
			left = m
		}
	}
}

func (p *parser) unary() (float64, error) {
	switch p.peek().kind {
	case tokPlus, tokMinus:
		if err := p.enter(); err != nil {
			return 0, err
		}
		defer p.leave()
		op := p.next()
		v, err := p.unary()
		if err != nil {
			return 0, err
		}
		if op.kind == tokMinus {
			return -v, nil
		}
		return v, nil
	}
	return p.power()
}

func (p *parser) power() (float64, error) {
	base, err := p.primary()
	if err != nil {
		return 0, err
	}
	if p.peek().kind != tokPow {
		return base, nil
	}
	p.next()
	if err := p.enter(); err != nil {
		return 0, err
	}
	defer p.leave()
	exp, err := p.unary()
	if err != nil {
		return 0, err
	}
	if base == 0 && exp < 0 {
		return 0, errors.New("zero cannot be raised to a negative power")
	}
	if base < 0 && exp != math.Trunc(exp) {
		return 0, errors.New("negative number cannot be raised to a fractional power")
	}
	v := math.Pow(base, exp)
	if math.IsInf(v, 0) {
		return 0, ErrOutOfRange
	}
	return v, nil
}

func (p *parser) primary() (float64, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		return t.num, nil
	case tokLParen:
		if err := p.enter(); err != nil {
			return 0, err
		}
		defer p.leave()
		v, err := p.expr()
		if err != nil {
			return 0, err
		}
		if closing := p.next(); closing.kind != tokRParen {
			return 0, errors.Errorf("expected \")\" but found %s at position %d", closing, closing.pos)
		}
		return v, nil
	default:
		return 0, errors.Errorf("unexpected %s at position %d", t, t.pos)
	}
}
