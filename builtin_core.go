package wisp

import (
	"fmt"
)

// ---- core built-ins ----------------------------------------------------

// registerCoreBuiltins installs the boolean names, the operators, and the
// array/output natives into Core. Everything here is visible from every
// scope; the seal on Global keeps program code from assigning over any of
// it.
func registerCoreBuiltins(ip *Interpreter) {
	// Booleans are ordinary bindings, not literals: the lexer sees them
	// as words and lookup finds them here.
	ip.Core.Define("true", True)
	ip.Core.Define("false", False)

	// +(a, b) -> Num | Str — add numbers or concatenate strings
	ip.RegisterNative("+", 2, opAdd)
	// -(a, b) -> Num
	ip.RegisterNative("-", 2, opSub)
	// *(a, b) -> Num
	ip.RegisterNative("*", 2, opMul)
	// /(a, b) -> Num — integer division; zero divisor is a range error
	ip.RegisterNative("/", 2, opDiv)
	// ==(a, b) -> Bool — deep for arrays, identity for functions
	ip.RegisterNative("==", 2, opEq)
	// <(a, b) -> Bool — numeric order, or lexicographic for two strings
	ip.RegisterNative("<", 2, opLess)
	// >(a, b) -> Bool
	ip.RegisterNative(">", 2, opGreater)

	// print(v) -> v — write FormatValue(v) plus newline to ip.Out
	ip.RegisterNative("print", 1, bPrint)
	// array(...) -> Array — any number of elements, zero included
	ip.RegisterNative("array", -1, bArray)
	// length(a) -> Num
	ip.RegisterNative("length", 1, bLength)
	// element(a, i) -> Value — zero-based; out of range is a range error
	ip.RegisterNative("element", 2, bElement)
}

// ---- operators ---------------------------------------------------------

// numOperands unwraps both operands of op as numbers or aborts.
func numOperands(ip *Interpreter, op string, args []Value) (int64, int64) {
	if args[0].Tag != VTNum || args[1].Tag != VTNum {
		ip.fail(fmt.Sprintf("operands to %s must be numbers", op))
	}
	return args[0].Data.(int64), args[1].Data.(int64)
}

func opAdd(ip *Interpreter, args []Value) Value {
	a, b := args[0], args[1]
	if a.Tag == VTNum && b.Tag == VTNum {
		return Num(a.Data.(int64) + b.Data.(int64))
	}
	if a.Tag == VTStr && b.Tag == VTStr {
		return Str(a.Data.(string) + b.Data.(string))
	}
	ip.fail("operands to + must be two numbers or two strings")
	return Value{}
}

func opSub(ip *Interpreter, args []Value) Value {
	a, b := numOperands(ip, "-", args)
	return Num(a - b)
}

func opMul(ip *Interpreter, args []Value) Value {
	a, b := numOperands(ip, "*", args)
	return Num(a * b)
}

func opDiv(ip *Interpreter, args []Value) Value {
	a, b := numOperands(ip, "/", args)
	if b == 0 {
		ip.failKind(DiagRange, "division by zero")
	}
	return Num(a / b)
}

func opEq(_ *Interpreter, args []Value) Value {
	return Bool(valueEquals(args[0], args[1]))
}

// valueEquals is the == rule: scalars by value, arrays element-wise,
// functions and natives by identity. Values of different tags are never
// equal.
func valueEquals(a, b Value) bool {
	if a.Tag != b.Tag {
		return false
	}
	switch a.Tag {
	case VTBool:
		return a.Data.(bool) == b.Data.(bool)
	case VTNum:
		return a.Data.(int64) == b.Data.(int64)
	case VTStr:
		return a.Data.(string) == b.Data.(string)
	case VTArray:
		xs, ys := a.Data.([]Value), b.Data.([]Value)
		if len(xs) != len(ys) {
			return false
		}
		for i := range xs {
			if !valueEquals(xs[i], ys[i]) {
				return false
			}
		}
		return true
	case VTFun:
		return a.Data.(*Fun) == b.Data.(*Fun)
	case VTNative:
		return a.Data.(*Native) == b.Data.(*Native)
	}
	return false
}

func opLess(ip *Interpreter, args []Value) Value {
	a, b := args[0], args[1]
	if a.Tag == VTNum && b.Tag == VTNum {
		return Bool(a.Data.(int64) < b.Data.(int64))
	}
	if a.Tag == VTStr && b.Tag == VTStr {
		return Bool(a.Data.(string) < b.Data.(string))
	}
	ip.fail("operands to < must be two numbers or two strings")
	return Value{}
}

func opGreater(ip *Interpreter, args []Value) Value {
	a, b := args[0], args[1]
	if a.Tag == VTNum && b.Tag == VTNum {
		return Bool(a.Data.(int64) > b.Data.(int64))
	}
	if a.Tag == VTStr && b.Tag == VTStr {
		return Bool(a.Data.(string) > b.Data.(string))
	}
	ip.fail("operands to > must be two numbers or two strings")
	return Value{}
}

// ---- output and arrays -------------------------------------------------

func bPrint(ip *Interpreter, args []Value) Value {
	fmt.Fprintln(ip.Out, FormatValue(args[0]))
	return args[0]
}

func bArray(_ *Interpreter, args []Value) Value {
	return Arr(append([]Value(nil), args...))
}

func bLength(ip *Interpreter, args []Value) Value {
	if args[0].Tag != VTArray {
		ip.fail("length expects an array")
	}
	return Num(int64(len(args[0].Data.([]Value))))
}

func bElement(ip *Interpreter, args []Value) Value {
	if args[0].Tag != VTArray {
		ip.fail("element expects an array")
	}
	if args[1].Tag != VTNum {
		ip.fail("element expects a number index")
	}
	xs := args[0].Data.([]Value)
	i := args[1].Data.(int64)
	if i < 0 || i >= int64(len(xs)) {
		ip.failKind(DiagRange, "array index out of range")
	}
	return xs[i]
}
