// Package calc evaluates arithmetic expressions over a fixed grammar:
//
//	expr    := term (('+' | '-') term)*
//	term    := unary (('*' | '/' | '//' | '%') unary)*
//	unary   := ('+' | '-') unary | power
//	power   := primary ('**' unary)?
//	primary := NUMBER | '(' expr ')'
//
// There is no name resolution of any kind: identifiers, strings, calls and
// attribute access are rejected by the lexer or parser.
package calc

import (
	"fmt"
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/pkg/errors"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokFloorDiv
	tokPercent
	tokPow
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	text string
	num  float64
	pos  int
}

func (t token) String() string {
	if t.kind == tokEOF {
		return "end of input"
	}
	return fmt.Sprintf("%q", t.text)
}

func lex(src string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case isDigit(c) || (c == '.' && i+1 < len(src) && isDigit(src[i+1])):
			start := i
			for i < len(src) && (isDigit(src[i]) || src[i] == '.') {
				i++
			}
			if i < len(src) && (src[i] == 'e' || src[i] == 'E') {
				j := i + 1
				if j < len(src) && (src[j] == '+' || src[j] == '-') {
					j++
				}
				if j < len(src) && isDigit(src[j]) {
					for j < len(src) && isDigit(src[j]) {
						j++
					}
					i = j
				}
			}
			text := src[start:i]
			v, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return nil, errors.Errorf("invalid number %q at position %d", text, start)
			}
			toks = append(toks, token{kind: tokNumber, text: text, num: v, pos: start})
		case c == '*':
			if i+1 < len(src) && src[i+1] == '*' {
				toks = append(toks, token{kind: tokPow, text: "**", pos: i})
				i += 2
				continue
			}
			toks = append(toks, token{kind: tokStar, text: "*", pos: i})
			i++
		case c == '/':
			if i+1 < len(src) && src[i+1] == '/' {
				toks = append(toks, token{kind: tokFloorDiv, text: "//", pos: i})
				i += 2
				continue
			}
			toks = append(toks, token{kind: tokSlash, text: "/", pos: i})
			i++
		case c == '+':
			toks = append(toks, token{kind: tokPlus, text: "+", pos: i})
			i++
		case c == '-':
			toks = append(toks, token{kind: tokMinus, text: "-", pos: i})
			i++
		case c == '%':
			toks = append(toks, token{kind: tokPercent, text: "%", pos: i})
			i++
		case c == '(':
			toks = append(toks, token{kind: tokLParen, text: "(", pos: i})
			i++
		case c == ')':
			toks = append(toks, token{kind: tokRParen, text: ")", pos: i})
			i++
		default:
			r, size := utf8.DecodeRuneInString(src[i:])
			if r == '_' || unicode.IsLetter(r) {
				start := i
				for i < len(src) {
					r, size = utf8.DecodeRuneInString(src[i:])
					if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
						break
					}
					i += size
				}
				return nil, errors.Errorf("names are not allowed: %q at position %d", src[start:i], start)
			}
			return nil, errors.Errorf("unexpected character %q at position %d", r, i)
		}
	}
	toks = append(toks, token{kind: tokEOF, pos: len(src)})
	return toks, nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
