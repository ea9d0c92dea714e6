// interpreter_exec.go — PRIVATE: execution engine for Wisp.
//   - Walks the Expr tree directly; there is no compile step.
//   - Runtime failures abort via panic(rtErr) and surface exactly once, as a
//     *Error, at the trampoline in runTrampoline. Everything in between is
//     plain Go control flow.
//   - No exported identifiers here. The public facade lives in interpreter.go.
package wisp

import (
	"fmt"
)

// rtErr is the panic payload for runtime aborts. It carries the kind, the
// span of the offending expression, and the source it belongs to; the
// trampoline turns it into a *Error with line/col filled in.
type rtErr struct {
	kind DiagKind
	msg  string
	src  *SourceRef
	span Span
}

// fail aborts with a type error at the active call site.
func (ip *Interpreter) fail(msg string) {
	ip.failKind(DiagType, msg)
}

// failKind aborts at the active call site with the given kind.
func (ip *Interpreter) failKind(kind DiagKind, msg string) {
	panic(rtErr{kind: kind, msg: msg, src: ip.currentSrc, span: ip.callSpan})
}

// failAt aborts anchored at a specific expression span.
func (ip *Interpreter) failAt(kind DiagKind, span Span, msg string) {
	panic(rtErr{kind: kind, msg: msg, src: ip.currentSrc, span: span})
}

////////////////////////////////////////////////////////////////////////////////
//                      CORE EXECUTION PLUMBING (PRIVATE)
////////////////////////////////////////////////////////////////////////////////

// evalIn parses sr.Src and evaluates the program in env.
func (ip *Interpreter) evalIn(sr *SourceRef, env *Env) (Value, error) {
	root, err := Parse(sr.Src)
	if err != nil {
		return Value{}, attachSrc(err, sr)
	}
	return ip.runWithSource(sr, root, env)
}

// runWithSource makes sr the active source for the duration of the run, so
// aborts raised while evaluating e resolve their positions against the
// right text. Nested runs (a native re-entering Eval*) restore the outer
// source on the way out.
func (ip *Interpreter) runWithSource(sr *SourceRef, e *Expr, env *Env) (Value, error) {
	prev := ip.currentSrc
	ip.currentSrc = sr
	defer func() { ip.currentSrc = prev }()
	return ip.runTrampoline(func() Value {
		return ip.eval(e, env)
	})
}

// runTrampoline runs fn and converts abort panics into errors. Panics that
// are not interpreter aborts keep unwinding; a host bug should stay loud.
func (ip *Interpreter) runTrampoline(fn func() Value) (out Value, err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		switch sig := r.(type) {
		case rtErr:
			e := &Error{Kind: sig.kind, Msg: sig.msg, Src: sig.src}
			if e.Src == nil {
				e.Src = ip.currentSrc
			}
			if e.Src != nil {
				e.Line, e.Col = posAt(e.Src.Src, sig.span.StartByte)
			}
			out, err = Value{}, e
		case *Error:
			if sig.Src == nil {
				sig.Src = ip.currentSrc
			}
			out, err = Value{}, sig
		default:
			panic(r)
		}
	}()
	return fn(), nil
}

////////////////////////////////////////////////////////////////////////////////
//                              TREE EVALUATOR
////////////////////////////////////////////////////////////////////////////////

// eval is the recursive core. Host stack depth tracks Wisp nesting depth;
// there is no separate call-stack structure.
func (ip *Interpreter) eval(e *Expr, env *Env) Value {
	switch e.Kind {
	case ExprLiteral:
		return e.Lit

	case ExprIdentifier:
		v, err := env.Get(e.Name)
		if err != nil {
			ip.failAt(DiagReference, e.Span, err.Error())
		}
		return v

	case ExprApplication:
		// Forms route on the bare operator word before anything is
		// evaluated or looked up, which is what keeps if/while lazy.
		if e.Fn.Kind == ExprIdentifier {
			if form, ok := specialForms[e.Fn.Name]; ok {
				return form(ip, e, env)
			}
		}
		fn := ip.eval(e.Fn, env)
		args := make([]Value, len(e.Args))
		for i, a := range e.Args {
			args[i] = ip.eval(a, env)
		}
		return ip.applyAt(fn, args, e.Span)
	}
	panic(fmt.Sprintf("bad ExprKind %d", e.Kind))
}

// truthy implements the condition rule: the boolean false is the only
// falsy value. 0, "" and empty arrays all count as true.
func truthy(v Value) bool {
	return v.Tag != VTBool || v.Data.(bool)
}

////////////////////////////////////////////////////////////////////////////////
//                               SPECIAL FORMS
////////////////////////////////////////////////////////////////////////////////

// formFn evaluates one special-form application. It receives the whole
// application node and decides which arguments to evaluate, and when.
type formFn func(ip *Interpreter, e *Expr, env *Env) Value

// specialForms routes applications whose operator is one of these bare
// words. The words are forms, not values: they never reach Env lookup in
// operator position, cannot be passed around, and cannot be shadowed.
// Populated in init: the handlers call eval, which reads this map back, so
// a map literal here would be an initialization cycle.
var specialForms = map[string]formFn{}

func init() {
	specialForms["if"] = (*Interpreter).formIf
	specialForms["while"] = (*Interpreter).formWhile
	specialForms["do"] = (*Interpreter).formDo
	specialForms["define"] = (*Interpreter).formDefine
	specialForms["set"] = (*Interpreter).formSet
	specialForms["fun"] = (*Interpreter).formFun
}

func (ip *Interpreter) formIf(e *Expr, env *Env) Value {
	if len(e.Args) != 3 {
		ip.failAt(DiagSyntax, e.Span, "incorrect use of if")
	}
	if truthy(ip.eval(e.Args[0], env)) {
		return ip.eval(e.Args[1], env)
	}
	return ip.eval(e.Args[2], env)
}

func (ip *Interpreter) formWhile(e *Expr, env *Env) Value {
	if len(e.Args) != 2 {
		ip.failAt(DiagSyntax, e.Span, "incorrect use of while")
	}
	for truthy(ip.eval(e.Args[0], env)) {
		ip.eval(e.Args[1], env)
	}
	return False
}

func (ip *Interpreter) formDo(e *Expr, env *Env) Value {
	out := False
	for _, a := range e.Args {
		out = ip.eval(a, env)
	}
	return out
}

// formDefine binds in the local frame, shadowing outer bindings rather
// than overwriting them. That rule is what makes closures and recursion
// behave: an inner define never leaks into the enclosing scope.
func (ip *Interpreter) formDefine(e *Expr, env *Env) Value {
	if len(e.Args) != 2 || e.Args[0].Kind != ExprIdentifier {
		ip.failAt(DiagSyntax, e.Span, "incorrect use of define")
	}
	v := ip.eval(e.Args[1], env)
	env.Define(e.Args[0].Name, v)
	return v
}

// formSet updates the nearest existing binding, walking the scope chain.
// Unlike define it never creates a binding, and it refuses to touch Core.
func (ip *Interpreter) formSet(e *Expr, env *Env) Value {
	if len(e.Args) != 2 || e.Args[0].Kind != ExprIdentifier {
		ip.failAt(DiagSyntax, e.Span, "incorrect use of set")
	}
	v := ip.eval(e.Args[1], env)
	if err := env.Set(e.Args[0].Name, v); err != nil {
		ip.failAt(DiagReference, e.Args[0].Span, err.Error())
	}
	return v
}

func (ip *Interpreter) formFun(e *Expr, env *Env) Value {
	if len(e.Args) == 0 {
		ip.failAt(DiagSyntax, e.Span, "functions need a body")
	}
	params := make([]string, len(e.Args)-1)
	for i, a := range e.Args[:len(e.Args)-1] {
		if a.Kind != ExprIdentifier {
			ip.failAt(DiagSyntax, a.Span, "parameter names must be words")
		}
		params[i] = a.Name
	}
	return FunVal(&Fun{
		Params: params,
		Body:   e.Args[len(e.Args)-1],
		Env:    env,
		Src:    ip.currentSrc,
	})
}

////////////////////////////////////////////////////////////////////////////////
//                           CALL ENGINE: APPLY
////////////////////////////////////////////////////////////////////////////////

// applyAt invokes fn with already-evaluated args. span is the application
// expression, used to anchor arity and not-a-function diagnostics and any
// abort a native raises.
func (ip *Interpreter) applyAt(fn Value, args []Value, span Span) Value {
	switch fn.Tag {
	case VTFun:
		f := fn.Data.(*Fun)
		if len(args) != len(f.Params) {
			ip.failAt(DiagType, span, fmt.Sprintf("wrong number of arguments: want %d, got %d", len(f.Params), len(args)))
		}
		frame := NewEnv(f.Env)
		for i, p := range f.Params {
			frame.Define(p, args[i])
		}
		// The body evaluates against the source it was defined in, which
		// matters when a closure escapes its defining Eval* call. Deferred
		// restore: a body abort must not leave the stale source behind for
		// whatever the host evaluates next.
		prevSrc := ip.currentSrc
		ip.currentSrc = f.Src
		defer func() { ip.currentSrc = prevSrc }()
		return ip.eval(f.Body, frame)

	case VTNative:
		n := fn.Data.(*Native)
		if n.Arity >= 0 && len(args) != n.Arity {
			ip.failAt(DiagType, span, fmt.Sprintf("%s expects %d arguments, got %d", n.Name, n.Arity, len(args)))
		}
		prevSpan := ip.callSpan
		ip.callSpan = span
		defer func() { ip.callSpan = prevSpan }()
		return n.Fn(ip, args)

	default:
		ip.failAt(DiagType, span, "not a function")
		return Value{}
	}
}
