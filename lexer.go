// lexer.go — Wisp scanner
package wisp

import (
	"strconv"
)

// TokenType represents the kind of token.
type TokenType int

const (
	EOF TokenType = iota

	// Punctuation
	LROUND // "("
	RROUND // ")"
	COMMA  // ","

	// Atoms
	STRING // quoted literal, no escapes
	NUMBER // decimal integer run
	WORD   // anything else: identifiers, operators, digit runs with a tail
)

// Token is a lexical token with optional literal value and precise
// positions: Line/Col locate the first byte (Col is 0-based within the
// line), StartByte/EndByte give the half-open byte range in the source.
type Token struct {
	Type      TokenType
	Lexeme    string
	Literal   interface{} // string for STRING, int64 for NUMBER
	Line      int
	Col       int
	StartByte int
	EndByte   int
}

// Lexer scans a Wisp source string into tokens.
type Lexer struct {
	src         string
	start       int // start index of current token
	cur         int // current index
	line        int // 1-based
	col         int // 0-based column within line
	tokens      []Token
	interactive bool

	// precise token start position
	tokStartLine int
	tokStartCol  int
}

// NewLexer creates a lexer for the given source.
func NewLexer(src string) *Lexer {
	return &Lexer{src: src, line: 1}
}

// NewLexerInteractive creates a REPL-friendly lexer: a string still open at
// end of input reports DiagIncomplete instead of a plain syntax error, so
// the caller can prompt for the rest.
func NewLexerInteractive(src string) *Lexer {
	return &Lexer{src: src, line: 1, interactive: true}
}

func (l *Lexer) isAtEnd() bool { return l.cur >= len(l.src) }

func (l *Lexer) peek() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	return l.src[l.cur], true
}

func (l *Lexer) advance() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	ch := l.src[l.cur]
	l.cur++
	if ch == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
	return ch, true
}

func (l *Lexer) addToken(tt TokenType, lit interface{}) Token {
	tok := Token{
		Type:      tt,
		Lexeme:    l.src[l.start:l.cur],
		Literal:   lit,
		Line:      l.tokStartLine,
		Col:       l.tokStartCol,
		StartByte: l.start,
		EndByte:   l.cur,
	}
	l.tokens = append(l.tokens, tok)
	l.start = l.cur
	return tok
}

// err builds a syntax diagnostic at the current scan position (1-based col).
func (l *Lexer) err(msg string) error {
	return &Error{Kind: DiagSyntax, Msg: msg, Line: l.line, Col: l.col + 1}
}

// skipGaps applies the one skipping rule: consume any run of whitespace, or
// a '#' comment through end of line, and repeat until neither matches. A
// token directly after a comment's newline (or after EOF-terminated comment)
// is found on the next scan step.
func (l *Lexer) skipGaps() {
	for !l.isAtEnd() {
		ch, _ := l.peek()
		switch ch {
		case ' ', '\t', '\r', '\n':
			l.advance()
		case '#':
			for {
				b, ok := l.peek()
				if !ok || b == '\n' {
					break
				}
				l.advance()
			}
		default:
			return
		}
	}
}

// isWordByte reports whether b can appear inside a word token. Words are
// maximal runs of anything that is not whitespace or structural.
func isWordByte(b byte) bool {
	switch b {
	case ' ', '\t', '\r', '\n', '(', ')', ',', '#', '"':
		return false
	}
	return true
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

// scanToken produces the next token (EOF included) or a diagnostic.
func (l *Lexer) scanToken() (Token, error) {
	l.skipGaps()
	l.tokStartLine = l.line
	l.tokStartCol = l.col
	l.start = l.cur

	if l.isAtEnd() {
		return l.addToken(EOF, nil), nil
	}

	ch, _ := l.advance()

	switch ch {
	case '(':
		return l.addToken(LROUND, nil), nil
	case ')':
		return l.addToken(RROUND, nil), nil
	case ',':
		return l.addToken(COMMA, nil), nil
	}

	// Strings: everything up to the next '"' is taken verbatim, newlines
	// included. There are no escape sequences, so a string can never
	// contain a double quote.
	if ch == '"' {
		for {
			b, ok := l.peek()
			if !ok {
				if l.interactive {
					return Token{}, &Error{Kind: DiagIncomplete, Msg: "unterminated string", Line: l.line, Col: l.col + 1}
				}
				return Token{}, l.err("unterminated string")
			}
			l.advance()
			if b == '"' {
				return l.addToken(STRING, l.src[l.start+1:l.cur-1]), nil
			}
		}
	}

	// Everything else is a word run. A run consisting solely of decimal
	// digits is a number literal; any other run — "12a", "-5", "x" — is a
	// word. The digits-then-boundary check is what keeps "12a" one WORD
	// token rather than a number glued to a word.
	for {
		b, ok := l.peek()
		if !ok || !isWordByte(b) {
			break
		}
		l.advance()
	}
	lex := l.src[l.start:l.cur]
	if allDigits(lex) {
		v, convErr := strconv.ParseInt(lex, 10, 64)
		if convErr != nil {
			return Token{}, &Error{Kind: DiagSyntax, Msg: "invalid integer literal", Line: l.tokStartLine, Col: l.tokStartCol + 1}
		}
		return l.addToken(NUMBER, v), nil
	}
	return l.addToken(WORD, lex), nil
}

// Scan tokenizes the entire source and returns tokens (EOF included).
func (l *Lexer) Scan() ([]Token, error) {
	for {
		tok, err := l.scanToken()
		if err != nil {
			return nil, err
		}
		if tok.Type == EOF {
			return l.tokens, nil
		}
	}
}
