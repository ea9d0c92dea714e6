// lexer_test.go
package wisp

import (
	"reflect"
	"testing"
)

func toks(t *testing.T, src string) []Token {
	t.Helper()
	l := NewLexer(src)
	ts, err := l.Scan()
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	return ts
}

func typesWithoutEOF(tokens []Token) []TokenType {
	if len(tokens) == 0 {
		return nil
	}
	end := len(tokens)
	if tokens[end-1].Type == EOF {
		end--
	}
	out := make([]TokenType, 0, end)
	for i := 0; i < end; i++ {
		out = append(out, tokens[i].Type)
	}
	return out
}

func wantTypes(t *testing.T, src string, want []TokenType) []Token {
	t.Helper()
	got := toks(t, src)
	gotTypes := typesWithoutEOF(got)
	if !reflect.DeepEqual(gotTypes, want) {
		t.Fatalf("\nsource:\n%s\nwant types:\n%v\ngot types:\n%v\n", src, want, gotTypes)
	}
	return got
}

func wantLexError(t *testing.T, src, sub string) error {
	t.Helper()
	_, err := NewLexer(src).Scan()
	if err == nil {
		t.Fatalf("expected lex error for %q, got nil", src)
	}
	mustContain(t, err.Error(), sub)
	return err
}

func Test_Lexer_Application_Shape(t *testing.T) {
	got := wantTypes(t, `+(1, 2)`, []TokenType{
		WORD, LROUND, NUMBER, COMMA, NUMBER, RROUND,
	})
	if got[0].Lexeme != "+" {
		t.Fatalf("operator lexeme = %q, want %q", got[0].Lexeme, "+")
	}
	if got[2].Literal.(int64) != 1 || got[4].Literal.(int64) != 2 {
		t.Fatalf("number literals not parsed: %v, %v", got[2].Literal, got[4].Literal)
	}
}

func Test_Lexer_Words_Are_Maximal_Runs(t *testing.T) {
	// A digit run with a tail is one word, not a number glued to a word.
	got := wantTypes(t, "123abc", []TokenType{WORD})
	if got[0].Lexeme != "123abc" {
		t.Fatalf("lexeme = %q, want %q", got[0].Lexeme, "123abc")
	}

	// Dots, dashes and operator characters are word bytes.
	wantTypes(t, "12.5", []TokenType{WORD})
	wantTypes(t, "-5", []TokenType{WORD})
	wantTypes(t, ">=", []TokenType{WORD})
	wantTypes(t, "define(x,4)", []TokenType{WORD, LROUND, WORD, COMMA, NUMBER, RROUND})
}

func Test_Lexer_Numbers(t *testing.T) {
	got := wantTypes(t, "123", []TokenType{NUMBER})
	if got[0].Literal.(int64) != 123 {
		t.Fatalf("literal = %v, want 123", got[0].Literal)
	}
	got = wantTypes(t, "0", []TokenType{NUMBER})
	if got[0].Literal.(int64) != 0 {
		t.Fatalf("literal = %v, want 0", got[0].Literal)
	}
}

func Test_Lexer_Number_Overflow(t *testing.T) {
	wantLexError(t, "99999999999999999999", "invalid integer literal")
}

func Test_Lexer_Comments(t *testing.T) {
	got := wantTypes(t, "# one\n# two\n7", []TokenType{NUMBER})
	if got[0].Line != 3 {
		t.Fatalf("token line = %d, want 3", got[0].Line)
	}

	// Comment with no trailing newline.
	wantTypes(t, "7 # done", []TokenType{NUMBER})

	// '#' ends a word without needing whitespace.
	wantTypes(t, "a#b\nc", []TokenType{WORD, WORD})

	// Gaps repeat: whitespace, comment, whitespace, comment.
	wantTypes(t, "  # x\n\t# y\n  ok", []TokenType{WORD})
}

func Test_Lexer_Strings(t *testing.T) {
	got := wantTypes(t, `"a b"`, []TokenType{STRING})
	if got[0].Literal.(string) != "a b" {
		t.Fatalf("literal = %q, want %q", got[0].Literal, "a b")
	}

	got = wantTypes(t, `""`, []TokenType{STRING})
	if got[0].Literal.(string) != "" {
		t.Fatalf("literal = %q, want empty", got[0].Literal)
	}

	// No escape sequences: a backslash is just a byte in the string.
	got = wantTypes(t, `"a\nb"`, []TokenType{STRING})
	if got[0].Literal.(string) != `a\nb` {
		t.Fatalf("literal = %q, want %q", got[0].Literal, `a\nb`)
	}

	// Strings may span lines; the token is anchored at the opening quote.
	got = wantTypes(t, "\"a\nb\"", []TokenType{STRING})
	if got[0].Literal.(string) != "a\nb" {
		t.Fatalf("literal = %q, want %q", got[0].Literal, "a\nb")
	}
	if got[0].Line != 1 {
		t.Fatalf("string token line = %d, want 1", got[0].Line)
	}

	// '#' inside a string is not a comment.
	got = wantTypes(t, `"#nope"`, []TokenType{STRING})
	if got[0].Literal.(string) != "#nope" {
		t.Fatalf("literal = %q, want %q", got[0].Literal, "#nope")
	}
}

func Test_Lexer_Unterminated_String(t *testing.T) {
	err := wantLexError(t, `"abc`, "unterminated string")
	if IsIncomplete(err) {
		t.Fatalf("plain lexer should not report incomplete")
	}

	_, err = NewLexerInteractive(`"abc`).Scan()
	if err == nil {
		t.Fatalf("expected lex error, got nil")
	}
	if !IsIncomplete(err) {
		t.Fatalf("interactive lexer should report incomplete, got: %v", err)
	}
}

func Test_Lexer_Positions(t *testing.T) {
	src := "do(\n  x,\n  12)"
	got := toks(t, src)

	// do LROUND x COMMA 12 RROUND EOF
	if len(got) != 7 {
		t.Fatalf("token count = %d, want 7", len(got))
	}

	if got[0].Line != 1 || got[0].Col != 0 || got[0].StartByte != 0 || got[0].EndByte != 2 {
		t.Fatalf("'do' position off: %+v", got[0])
	}
	if got[2].Line != 2 || got[2].Col != 2 || got[2].StartByte != 6 {
		t.Fatalf("'x' position off: %+v", got[2])
	}
	if got[4].Line != 3 || got[4].Col != 2 || got[4].StartByte != 11 || got[4].EndByte != 13 {
		t.Fatalf("'12' position off: %+v", got[4])
	}
	if got[6].Type != EOF || got[6].StartByte != len(src) {
		t.Fatalf("EOF position off: %+v", got[6])
	}
}
