// errors.go — Wisp diagnostics
//
// WHAT THIS MODULE DOES
// =====================
// Defines the single diagnostic type the whole interpreter reports through:
// `*Error`, a kinded error with an optional source attachment. When a source
// is attached, Error() renders a Python-style snippet with a header line,
// one line of context on each side, and a caret pointing at the failing
// column:
//
//	TYPE ERROR at 2:5: not a function
//
//	   1 | define(x, 4)
//	   2 |     x(1)
//	     |     ^
//	   3 | x
//
// Coordinates are 1-based. Caret padding is byte-accurate and preserves
// tabs, so the caret lines up in terminals regardless of tab width.
//
// PUBLIC:  DiagKind (DiagSyntax, DiagReference, DiagType, DiagRange,
//          DiagIncomplete), SourceRef, Error, IsIncomplete.
//
// DEPENDED ON BY: lexer.go and parser.go (syntax diagnostics),
// interpreter_exec.go (runtime diagnostics via the trampoline),
// cmd/wisp (IsIncomplete drives the REPL continuation prompt).
package wisp

import (
	"errors"
	"fmt"
	"strings"
)

// DiagKind classifies a diagnostic. The set is closed.
type DiagKind int

const (
	// DiagSyntax covers malformed source and malformed special-form usage.
	DiagSyntax DiagKind = iota
	// DiagReference is an identifier with no binding in the scope chain.
	DiagReference
	// DiagType is a value of the wrong kind: applying a non-function,
	// wrong argument count, unsuitable operator operands.
	DiagType
	// DiagRange is a value outside an operation's domain: an array index
	// out of range, division by zero.
	DiagRange
	// DiagIncomplete marks an interactive parse that ran out of input while
	// the text so far is a prefix of a well-formed program. It is a syntax
	// diagnostic; IsIncomplete is how the REPL asks for a second line.
	DiagIncomplete
)

// String returns the header label used when rendering.
func (k DiagKind) String() string {
	switch k {
	case DiagSyntax, DiagIncomplete:
		return "SYNTAX ERROR"
	case DiagReference:
		return "REFERENCE ERROR"
	case DiagType:
		return "TYPE ERROR"
	case DiagRange:
		return "RANGE ERROR"
	default:
		return "ERROR"
	}
}

// SourceRef names a source text for diagnostic rendering. Name may be empty
// for anonymous input (the header then omits the "in <name>" part).
type SourceRef struct {
	Name string
	Src  string
}

// Error is the diagnostic every public entry point returns. Line and Col are
// 1-based; Src is optional and enables the caret snippet.
type Error struct {
	Kind DiagKind
	Msg  string
	Src  *SourceRef
	Line int
	Col  int
}

func (e *Error) Error() string {
	if e.Src == nil {
		if e.Line > 0 {
			return fmt.Sprintf("%s at %d:%d: %s", e.Kind, e.Line, e.Col, e.Msg)
		}
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	}
	return prettyErrorStringLabeled(e.Src.Src, e.Kind.String(), e.Src.Name, e.Line, e.Col, e.Msg)
}

// IsIncomplete reports whether err is a DiagIncomplete parse diagnostic,
// i.e. the input ended mid-construct and more text could complete it.
func IsIncomplete(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == DiagIncomplete
}

// attachSrc fills in the source attachment on an *Error that lacks one.
// Other error types pass through untouched.
func attachSrc(err error, sr *SourceRef) error {
	var e *Error
	if errors.As(err, &e) && e.Src == nil {
		e.Src = sr
	}
	return err
}

// posAt maps a byte offset into src to 1-based (line, col).
func posAt(src string, b int) (int, int) {
	if b < 0 {
		b = 0
	}
	if b > len(src) {
		b = len(src)
	}
	line := 1 + strings.Count(src[:b], "\n")
	lastNL := strings.LastIndex(src[:b], "\n")
	if lastNL < 0 {
		return line, b + 1
	}
	return line, b - lastNL
}

/* ===========================
   PRIVATE: snippet rendering
   =========================== */

// prettyErrorStringLabeled builds the header + snippet + caret string.
// It shows at most one previous and one next line when available.
// Coordinates are treated as 1-based and clamped to the source bounds.
func prettyErrorStringLabeled(src, header, name string, line, col int, msg string) string {
	lines := strings.Split(src, "\n")
	if line < 1 {
		line = 1
	}
	if col < 1 {
		col = 1
	}
	if line > len(lines) {
		line = len(lines)
	}
	lineTxt := lines[line-1]

	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "%s in %s at %d:%d: %s\n\n", header, name, line, col, msg)
	} else {
		fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)
	}
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lineTxt)
	fmt.Fprintf(&b, "     | %s^\n", caretPad(lineTxt, col-1))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}

// caretPad builds the padding under lineTxt up to col bytes. Tabs in the
// source line are echoed as tabs so the caret column matches the rendered
// code line; every other byte pads as a space.
func caretPad(lineTxt string, col int) string {
	if col < 0 {
		col = 0
	}
	var b strings.Builder
	for i := 0; i < col; i++ {
		if i < len(lineTxt) && lineTxt[i] == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}
