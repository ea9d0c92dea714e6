// interpreter.go — public API surface of the Wisp runtime.
//
// OVERVIEW
// ========
// This file exposes the public surface of the interpreter: the runtime value
// model (Value, ValueTag, constructors), closures (Fun) and host functions
// (Native), lexical environments (Env), and the Interpreter with its
// Eval*/Apply/RegisterNative entry points.
//
// Execution internals — the tree evaluator, the special forms, the panic
// trampoline that turns aborts into *Error — live in interpreter_exec.go.
// Built-ins live in builtin_core.go, value rendering in printer.go.
//
// Scope model:
//   - Core holds the built-ins; programs cannot assign into it.
//   - Global is the persistent program scope (REPL state), child of Core.
//   - EvalSource/EvalNamedSource run in a fresh child of Global.
//   - EvalPersistentSource runs directly in Global.
package wisp

import (
	"fmt"
	"io"
	"os"
	"strconv"
)

// ValueTag enumerates the runtime kinds a Value may hold.
// The tag determines the dynamic type of Value.Data.
type ValueTag int

const (
	VTBool   ValueTag = iota // bool
	VTNum                    // int64
	VTStr                    // string
	VTArray                  // []Value
	VTFun                    // *Fun (user-defined closure)
	VTNative                 // *Native (registered host function)
)

// Value is the universal runtime carrier used by the interpreter.
//
// Invariants:
//   - Numbers are int64; there is no fractional kind.
//   - The zero Value is not a valid runtime value; use the constructors.
//
// Equality as seen by the == built-in compares arrays element-wise and
// functions by identity (see valueEquals in builtin_core.go).
type Value struct {
	Tag  ValueTag
	Data interface{}
}

// String renders a compact debug representation. Program-facing rendering
// is FormatValue (printer.go).
func (v Value) String() string {
	switch v.Tag {
	case VTBool:
		return fmt.Sprintf("%v", v.Data.(bool))
	case VTNum:
		return strconv.FormatInt(v.Data.(int64), 10)
	case VTStr:
		return fmt.Sprintf("%q", v.Data.(string))
	case VTArray:
		return fmt.Sprintf("<array len=%d>", len(v.Data.([]Value)))
	case VTFun:
		return "<fun>"
	case VTNative:
		return "<builtin>"
	default:
		return "<unknown>"
	}
}

// True and False are the singleton boolean Values. False doubles as the
// result of forms with nothing better to yield: a finished while, an empty
// do.
var (
	True  = Value{Tag: VTBool, Data: true}
	False = Value{Tag: VTBool, Data: false}
)

// Primitive constructors for convenience.
func Bool(b bool) Value {
	if b {
		return True
	}
	return False
}

func Num(n int64) Value    { return Value{Tag: VTNum, Data: n} }
func Str(s string) Value   { return Value{Tag: VTStr, Data: s} }
func Arr(xs []Value) Value { return Value{Tag: VTArray, Data: xs} }

// Fun represents a user-defined function: parameter names, an unevaluated
// body, and the environment captured where the fun form ran. Src carries
// the defining source so errors raised inside the body point into the
// right text even when the call happens elsewhere.
type Fun struct {
	Params []string
	Body   *Expr
	Env    *Env
	Src    *SourceRef
}

// FunVal wraps *Fun into a Value (Tag=VTFun).
func FunVal(f *Fun) Value { return Value{Tag: VTFun, Data: f} }

// HostFunc is the implementation signature for registered host functions.
// Arity is checked before the call, so args has the declared length (any
// length for variadic natives). Implementations report failures through
// Interpreter.Fail rather than returning errors.
type HostFunc func(ip *Interpreter, args []Value) Value

// Native is a host function exposed as a Wisp value. Arity -1 accepts any
// number of arguments.
type Native struct {
	Name  string
	Arity int
	Fn    HostFunc
}

// NativeVal wraps *Native into a Value (Tag=VTNative).
func NativeVal(n *Native) Value { return Value{Tag: VTNative, Data: n} }

// Env is a lexical environment frame with a parent link. Lookups walk
// parent-ward. Use Define to bind in the current frame, Set to update the
// nearest existing binding, and Get to retrieve.
type Env struct {
	parent           *Env
	table            map[string]Value
	sealParentWrites bool
}

// NewEnv creates a new lexical frame with the given parent (which may be nil).
func NewEnv(parent *Env) *Env { return &Env{parent: parent, table: make(map[string]Value)} }

// SealParentWrites stops Set from climbing past this frame. The interpreter
// seals Global so program code cannot re-assign built-ins living in Core.
func (e *Env) SealParentWrites() { e.sealParentWrites = true }

// Define binds name to v in the current frame, shadowing any outer binding.
func (e *Env) Define(name string, v Value) {
	e.table[name] = v
}

// Set updates the nearest existing binding of name to v. If no visible
// binding exists, Set returns an error (it does not implicitly define).
func (e *Env) Set(name string, v Value) error {
	if _, ok := e.table[name]; ok {
		e.table[name] = v
		return nil
	}
	// A sealed frame does not climb; report a friendlier message when the
	// name exists in an ancestor (the Core builtins).
	if e.sealParentWrites {
		for p := e.parent; p != nil; p = p.parent {
			if _, ok := p.table[name]; ok {
				return fmt.Errorf("cannot assign to builtin: %s", name)
			}
		}
		return fmt.Errorf("undefined variable: %s", name)
	}
	if e.parent != nil {
		return e.parent.Set(name, v)
	}
	return fmt.Errorf("undefined variable: %s", name)
}

// Get retrieves the nearest visible binding for name or returns an error.
func (e *Env) Get(name string) (Value, error) {
	if v, ok := e.table[name]; ok {
		return v, nil
	}
	if e.parent != nil {
		return e.parent.Get(name)
	}
	return Value{}, fmt.Errorf("undefined variable: %s", name)
}

// Bindings returns a copy of the names bound directly in this frame,
// parents excluded. REPL tooling uses it to dump state.
func (e *Env) Bindings() map[string]Value {
	out := make(map[string]Value, len(e.table))
	for k, v := range e.table {
		out[k] = v
	}
	return out
}

////////////////////////////////////////////////////////////////////////////////
//                               PUBLIC INTERPRETER
////////////////////////////////////////////////////////////////////////////////

// Interpreter is the entry point for evaluating Wisp programs.
//
// Public fields:
//   - Core   — built-in environment; parent of Global. Populated by
//     NewInterpreter and sealed against assignment from program code.
//   - Global — persistent program environment (REPL/suite state).
//   - Out    — sink for the print built-in. Defaults to os.Stdout; point it
//     at a buffer to capture program output.
//
// Behavior summary:
//   - EvalSource/EvalNamedSource run in a fresh child of Global (ephemeral).
//   - EvalPersistentSource runs in Global (definitions persist).
//   - EvalExpr runs a parsed expression in an environment you pass.
//   - Apply invokes a function Value from host code.
//
// An Interpreter is not safe for concurrent use; give each goroutine its own.
type Interpreter struct {
	Core   *Env
	Global *Env
	Out    io.Writer

	// Active source and call site, used to anchor runtime diagnostics.
	currentSrc *SourceRef
	callSpan   Span
}

// NewInterpreter constructs an engine with core built-ins installed and an
// empty Global (child of Core). The result is ready for Eval*/Apply.
func NewInterpreter() *Interpreter {
	ip := &Interpreter{Out: os.Stdout}
	ip.Core = NewEnv(nil)
	ip.Global = NewEnv(ip.Core)
	ip.Global.SealParentWrites()
	registerCoreBuiltins(ip)
	return ip
}

// EvalSource parses and evaluates a program in a fresh child of Global.
// Definitions land in that ephemeral child; Global is unchanged. Returns
// the resulting Value, or a *Error (as error) that renders with a caret
// snippet into src.
func (ip *Interpreter) EvalSource(src string) (Value, error) {
	return ip.evalIn(&SourceRef{Src: src}, NewEnv(ip.Global))
}

// EvalNamedSource is EvalSource with a display name (usually a file path)
// attached to diagnostics.
func (ip *Interpreter) EvalNamedSource(name, src string) (Value, error) {
	return ip.evalIn(&SourceRef{Name: name, Src: src}, NewEnv(ip.Global))
}

// EvalPersistentSource parses and evaluates a program in Global (REPL
// style): definitions persist into later calls.
func (ip *Interpreter) EvalPersistentSource(src string) (Value, error) {
	return ip.evalIn(&SourceRef{Name: "<repl>", Src: src}, ip.Global)
}

// EvalExpr evaluates an already parsed expression in env. A nil env means a
// fresh child of Global. With no source text to resolve spans against,
// diagnostics render as kind and message only, no position or snippet.
func (ip *Interpreter) EvalExpr(e *Expr, env *Env) (Value, error) {
	if env == nil {
		env = NewEnv(ip.Global)
	}
	return ip.runWithSource(nil, e, env)
}

// Apply invokes a function Value (closure or native) with the given
// arguments. Arity is checked exactly; there is no partial application.
func (ip *Interpreter) Apply(fn Value, args []Value) (Value, error) {
	return ip.runTrampoline(func() Value {
		return ip.applyAt(fn, args, Span{})
	})
}

// RegisterNative installs a host function into Core under name. Arity -1
// accepts any argument count. Registration replaces an existing binding,
// so hosts can override built-ins before evaluating programs.
func (ip *Interpreter) RegisterNative(name string, arity int, fn HostFunc) {
	ip.Core.Define(name, NativeVal(&Native{Name: name, Arity: arity, Fn: fn}))
}

// Fail aborts the current evaluation with a type error at the active call
// site. For use inside HostFunc implementations; it never returns.
func (ip *Interpreter) Fail(msg string) {
	ip.fail(msg)
}
