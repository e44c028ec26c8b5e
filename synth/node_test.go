package synth

import (
	"math"
	"testing"
)

func TestNodeSerialization(t *testing.T) {
	tests := []struct {
		name string
		node Node
		want string
	}{
		{"constant", Const(2), "2.000000e+00"},
		{"negative constant parenthesized", Const(-0.5), "(-5.000000e-01)"},
		{"variable", Var("r"), "r"},
		{"call", Call{"exp", []Node{Var("r")}}, "exp(r)"},
		{"sum", Sum{Const(1), Var("r")}, "(1.000000e+00 + r)"},
		{"product", Product{Const(2), Var("r")}, "2.000000e+00*r"},
		{"pow", Pow{Base: Var("r"), Exp: 3}, "pow(r, 3.0)"},
		{"pow zero exponent", Pow{Base: Var("r"), Exp: 0}, "1.0"},
		{"signed pow even", SignedPow{Base: Var("cos_theta"), Exp: 2}, "pow(abs(cos_theta), 2.0)"},
		{"signed pow odd", SignedPow{Base: Var("cos_theta"), Exp: 3}, "(sign(cos_theta)*pow(abs(cos_theta), 3.0))"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exprString(tt.node); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNodeEval(t *testing.T) {
	vars := map[string]float64{"r": 2, "cos_theta": -0.5}
	tests := []struct {
		name string
		node Node
		want float64
	}{
		{"sum", Sum{Const(1), Var("r")}, 3},
		{"product", Product{Const(3), Var("r")}, 6},
		{"exp", Call{"exp", []Node{Const(0)}}, 1},
		{"pow", Pow{Base: Var("r"), Exp: 3}, 8},
		// Negative base: odd power keeps the sign, even power drops it.
		{"signed pow odd", SignedPow{Base: Var("cos_theta"), Exp: 3}, -0.125},
		{"signed pow even", SignedPow{Base: Var("cos_theta"), Exp: 2}, 0.25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.node.Eval(vars); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUnboundVariablePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for unbound variable")
		}
	}()
	Var("nope").Eval(map[string]float64{})
}
