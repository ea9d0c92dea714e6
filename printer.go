package wisp

import (
	"fmt"
	"strconv"
	"strings"
)

/* ---------- globals & tiny helpers ---------- */

var MaxInlineWidth = 80 // width threshold for single-line arrays

func quoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

/* ---------- small writer with indentation ---------- */

type out struct {
	b     *strings.Builder
	depth int
}

func (o *out) write(s string) { o.b.WriteString(s) }
func (o *out) nl()            { o.b.WriteByte('\n') }
func (o *out) pad() {
	for i := 0; i < o.depth; i++ {
		o.b.WriteString("  ")
	}
}
func (o *out) withIndent(fn func()) { o.depth++; fn(); o.depth-- }

/* ---------- runtime value printer ---------- */

// FormatValue returns the canonical rendering of a runtime Value: what
// print emits and what the REPL echoes. Strings come back quoted and
// escaped; arrays render inline up to MaxInlineWidth and wrap one element
// per line beyond that. Functions and natives render as opaque handles.
func FormatValue(v Value) string {
	var b strings.Builder
	o := out{b: &b}
	writeValue(&o, v)
	return b.String()
}

func writeValue(o *out, v Value) {
	switch v.Tag {

	case VTBool:
		if v.Data.(bool) {
			o.write("true")
		} else {
			o.write("false")
		}

	case VTNum:
		o.write(strconv.FormatInt(v.Data.(int64), 10))

	case VTStr:
		o.write(quoteString(v.Data.(string)))

	case VTArray:
		xs := v.Data.([]Value)
		if oneline := arrayOneLine(xs); oneline != "" && len(oneline) <= MaxInlineWidth {
			o.write(oneline)
			return
		}
		o.write("[")
		o.nl()
		o.withIndent(func() {
			for i, it := range xs {
				o.pad()
				writeValue(o, it)
				if i < len(xs)-1 {
					o.write(",")
				}
				o.nl()
			}
		})
		o.pad()
		o.write("]")

	case VTFun:
		f := v.Data.(*Fun)
		o.write(fmt.Sprintf("<fun/%d>", len(f.Params)))

	case VTNative:
		o.write("<builtin " + v.Data.(*Native).Name + ">")
	}
}

// arrayOneLine renders xs on one line, or returns "" when some element is
// itself multiline and the array has to wrap.
func arrayOneLine(xs []Value) string {
	if len(xs) == 0 {
		return "[]"
	}
	parts := make([]string, 0, len(xs))
	for _, it := range xs {
		s := FormatValue(it)
		if strings.Contains(s, "\n") {
			return ""
		}
		parts = append(parts, s)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
