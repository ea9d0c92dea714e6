// parser.go — Wisp recursive-descent parser
//
// Grammar, ignoring gaps (whitespace and # comments):
//
//	program → expr EOF
//	expr    → atom applySuffix*
//	atom    → STRING | NUMBER | WORD
//	applySuffix → "(" ( expr ( "," expr )* )? ")"
//
// Application binds left, so f(1)(2) parses as (f(1))(2). There is no
// operator grammar: "+"(1, 2) is an ordinary application of the word "+".
package wisp

import (
	"fmt"
)

// ExprKind selects which fields of an Expr are meaningful.
type ExprKind int

const (
	ExprLiteral     ExprKind = iota // Lit
	ExprIdentifier                  // Name
	ExprApplication                 // Fn, Args
)

// Span is a half-open byte range [StartByte, EndByte) into the source the
// expression was parsed from.
type Span struct {
	StartByte int
	EndByte   int
}

// Expr is a node of the Wisp syntax tree. One struct covers all three node
// kinds; evaluation never mutates a node, so a parsed tree can be shared
// and re-evaluated freely.
type Expr struct {
	Kind ExprKind
	Lit  Value   // ExprLiteral
	Name string  // ExprIdentifier
	Fn   *Expr   // ExprApplication operator
	Args []*Expr // ExprApplication operands
	Span Span
}

// Parse parses a complete program: exactly one expression, with nothing but
// gaps after it.
func Parse(src string) (*Expr, error) {
	return parseMode(src, false)
}

// ParseInteractive parses like Parse, but when the source stops mid-
// expression the diagnostic has Kind DiagIncomplete, so a REPL can keep
// reading lines instead of reporting an error. See IsIncomplete.
func ParseInteractive(src string) (*Expr, error) {
	return parseMode(src, true)
}

func parseMode(src string, interactive bool) (*Expr, error) {
	var lx *Lexer
	if interactive {
		lx = NewLexerInteractive(src)
	} else {
		lx = NewLexer(src)
	}
	toks, err := lx.Scan()
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks, src: src, interactive: interactive}
	return p.program()
}

type parser struct {
	toks        []Token
	i           int
	src         string
	interactive bool
}

func (p *parser) atEnd() bool { return p.toks[p.i].Type == EOF }
func (p *parser) peek() Token { return p.toks[p.i] }
func (p *parser) prev() Token { return p.toks[p.i-1] }

func (p *parser) match(tt TokenType) bool {
	if p.toks[p.i].Type != tt {
		return false
	}
	p.i++
	return true
}

// errAtTok builds a syntax diagnostic anchored at tok. Stopping short at end
// of input in interactive mode is not a mistake yet, just missing text, so
// it gets DiagIncomplete instead.
func (p *parser) errAtTok(tok Token, msg string) error {
	kind := DiagSyntax
	if tok.Type == EOF && p.interactive {
		kind = DiagIncomplete
	}
	line, col := posAt(p.src, tok.StartByte)
	return &Error{Kind: kind, Msg: msg, Line: line, Col: col}
}

func tokSpan(tok Token) Span {
	return Span{StartByte: tok.StartByte, EndByte: tok.EndByte}
}

func (p *parser) program() (*Expr, error) {
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if !p.atEnd() {
		return nil, p.errAtTok(p.peek(), "unexpected text after program")
	}
	return e, nil
}

func (p *parser) parseExpr() (*Expr, error) {
	tok := p.peek()
	var e *Expr
	switch tok.Type {
	case STRING:
		p.i++
		e = &Expr{Kind: ExprLiteral, Lit: Str(tok.Literal.(string)), Span: tokSpan(tok)}
	case NUMBER:
		p.i++
		e = &Expr{Kind: ExprLiteral, Lit: Num(tok.Literal.(int64)), Span: tokSpan(tok)}
	case WORD:
		p.i++
		e = &Expr{Kind: ExprIdentifier, Name: tok.Lexeme, Span: tokSpan(tok)}
	case EOF:
		return nil, p.errAtTok(tok, "unexpected end of input")
	default:
		return nil, p.errAtTok(tok, fmt.Sprintf("unexpected token '%s'", tok.Lexeme))
	}
	return p.parseApplySuffix(e)
}

// parseApplySuffix wraps e in applications as long as a "(" follows, one
// wrap per argument list.
func (p *parser) parseApplySuffix(e *Expr) (*Expr, error) {
	for p.match(LROUND) {
		var args []*Expr
		if !p.match(RROUND) {
			for {
				a, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				args = append(args, a)
				if p.match(COMMA) {
					continue
				}
				if p.match(RROUND) {
					break
				}
				return nil, p.errAtTok(p.peek(), "expected ',' or ')'")
			}
		}
		e = &Expr{
			Kind: ExprApplication,
			Fn:   e,
			Args: args,
			Span: Span{StartByte: e.Span.StartByte, EndByte: p.prev().EndByte},
		}
	}
	return e, nil
}
