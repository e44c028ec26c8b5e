package main

import "math"

// Edit is one resolved parameter change from any input source (keyboard,
// websocket control, settings file). The core consumes only these, never
// raw pointer or button state.
type Edit struct {
	Param string  `json:"param"`
	Value float64 `json:"value"`
}

// ParamState is the externally visible value of one parameter, broadcast
// to control clients after edits are applied.
type ParamState struct {
	Name       string  `json:"name"`
	Value      float64 `json:"value"`
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
	Structural bool    `json:"structural"`
}

// paramDef describes one editable parameter, mirroring the slider table of
// the UI layer: range, display precision and whether an edit forces a
// program rebuild.
type paramDef struct {
	name       string
	min, max   float64
	decimals   int
	structural bool
	get        func() float64
	set        func(float64)
	// classify, when set, decides structural-ness per edit instead of the
	// static flag. Wave amplitude uses it: only edits crossing the
	// dead-wave threshold change the generated text's shape.
	classify func(old, new float64) bool
}

func clampF(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// roundTo quantizes v to the parameter's display precision, so an edit
// stream and a slider produce identical values.
func roundTo(v float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Round(v*scale) / scale
}
