// Package synth turns wave configurations into ray-marching shader source.
//
// Generated arithmetic is built as a small expression tree and serialized
// to GLSL instead of formatted inline; the tree also evaluates itself in
// Go, which is what the parity tests lean on.
package synth

import (
	"fmt"
	"math"
	"strconv"
)

// Node is one node of a generated arithmetic expression. appendExpr
// serializes the node to GLSL text deterministically: identical trees
// always produce identical bytes.
type Node interface {
	appendExpr(b []byte) []byte
	// Eval evaluates the node with the given variable bindings. It exists
	// for validation; the GPU only ever sees the serialized text.
	Eval(vars map[string]float64) float64
}

// String returns the GLSL text of the expression.
func exprString(n Node) string { return string(n.appendExpr(nil)) }

// Const is a floating point literal, serialized in exponent notation with
// fixed precision so output is byte-stable across runs.
type Const float64

func (c Const) appendExpr(b []byte) []byte {
	if c < 0 {
		b = append(b, '(')
		b = strconv.AppendFloat(b, float64(c), 'e', 6, 64)
		return append(b, ')')
	}
	return strconv.AppendFloat(b, float64(c), 'e', 6, 64)
}

func (c Const) Eval(map[string]float64) float64 { return float64(c) }

// Var references a variable in scope at the expression's insertion point
// (r, phi, cos_theta, sin_theta).
type Var string

func (v Var) appendExpr(b []byte) []byte { return append(b, v...) }

func (v Var) Eval(vars map[string]float64) float64 {
	val, ok := vars[string(v)]
	if !ok {
		panic(fmt.Sprintf("synth: unbound variable %q", v))
	}
	return val
}

// Call is a builtin function application. Only functions with identical
// GLSL and Go semantics are allowed.
type Call struct {
	Fn   string
	Args []Node
}

func (c Call) appendExpr(b []byte) []byte {
	b = append(b, c.Fn...)
	b = append(b, '(')
	for i, a := range c.Args {
		if i > 0 {
			b = append(b, ',', ' ')
		}
		b = a.appendExpr(b)
	}
	return append(b, ')')
}

func (c Call) Eval(vars map[string]float64) float64 {
	switch c.Fn {
	case "exp":
		return math.Exp(c.Args[0].Eval(vars))
	case "sqrt":
		return math.Sqrt(c.Args[0].Eval(vars))
	case "abs":
		return math.Abs(c.Args[0].Eval(vars))
	case "pow":
		return math.Pow(c.Args[0].Eval(vars), c.Args[1].Eval(vars))
	default:
		panic(fmt.Sprintf("synth: unsupported function %q", c.Fn))
	}
}

// Sum adds its operands. Serialized inside parentheses so it can sit in
// any context without precedence surprises.
type Sum []Node

func (s Sum) appendExpr(b []byte) []byte {
	b = append(b, '(')
	for i, n := range s {
		if i > 0 {
			b = append(b, " + "...)
		}
		b = n.appendExpr(b)
	}
	return append(b, ')')
}

func (s Sum) Eval(vars map[string]float64) float64 {
	total := 0.0
	for _, n := range s {
		total += n.Eval(vars)
	}
	return total
}

// Product multiplies its operands.
type Product []Node

func (p Product) appendExpr(b []byte) []byte {
	for i, n := range p {
		if i > 0 {
			b = append(b, '*')
		}
		b = n.appendExpr(b)
	}
	return b
}

func (p Product) Eval(vars map[string]float64) float64 {
	total := 1.0
	for _, n := range p {
		total *= n.Eval(vars)
	}
	return total
}

// Pow is base^exp for a base known to be non-negative (rho-derived
// quantities). Serialized as a plain pow call.
type Pow struct {
	Base Node
	Exp  int
}

func (p Pow) appendExpr(b []byte) []byte {
	if p.Exp == 0 {
		return append(b, "1.0"...)
	}
	b = append(b, "pow("...)
	b = p.Base.appendExpr(b)
	b = append(b, ", "...)
	b = strconv.AppendInt(b, int64(p.Exp), 10)
	return append(b, ".0)"...)
}

func (p Pow) Eval(vars map[string]float64) float64 {
	return math.Pow(p.Base.Eval(vars), float64(p.Exp))
}

// SignedPow is base^exp for a base that can be negative (cos_theta,
// sin_theta). GLSL pow is undefined for negative bases, so odd powers are
// emitted as sign(x)*pow(abs(x), e) and even powers as pow(abs(x), e).
type SignedPow struct {
	Base Node
	Exp  int
}

func (p SignedPow) appendExpr(b []byte) []byte {
	if p.Exp == 0 {
		return append(b, "1.0"...)
	}
	if p.Exp%2 == 1 {
		b = append(b, "(sign("...)
		b = p.Base.appendExpr(b)
		b = append(b, ")*pow(abs("...)
		b = p.Base.appendExpr(b)
		b = append(b, "), "...)
		b = strconv.AppendInt(b, int64(p.Exp), 10)
		return append(b, ".0))"...)
	}
	b = append(b, "pow(abs("...)
	b = p.Base.appendExpr(b)
	b = append(b, "), "...)
	b = strconv.AppendInt(b, int64(p.Exp), 10)
	return append(b, ".0)"...)
}

func (p SignedPow) Eval(vars map[string]float64) float64 {
	x := p.Base.Eval(vars)
	if p.Exp == 0 {
		return 1
	}
	v := math.Pow(math.Abs(x), float64(p.Exp))
	if p.Exp%2 == 1 && math.Signbit(x) {
		return -v
	}
	return v
}
