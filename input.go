package main

import (
	"math"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// input turns keyboard and mouse state into resolved parameter edits and a
// turntable camera rotation. Up/Down select a parameter, Left/Right nudge
// it; dragging with the left button rotates the view.
type input struct {
	log     *zap.Logger
	session *Session
	edits   chan<- Edit

	selected int

	dragging     bool
	lastX, lastY float64
	prevDX       float64
	prevDY       float64
	rotX, rotY   float64
}

func newInput(session *Session, edits chan<- Edit, log *zap.Logger) *input {
	return &input{log: log, session: session, edits: edits}
}

func (in *input) install(window *glfw.Window) {
	window.SetKeyCallback(in.onKey)
	window.SetMouseButtonCallback(in.onMouseButton)
	window.SetCursorPosCallback(in.onCursorPos)
}

func (in *input) onKey(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if action != glfw.Press && action != glfw.Repeat {
		return
	}
	params := in.session.params
	switch key {
	case glfw.KeyEscape:
		w.SetShouldClose(true)
	case glfw.KeyUp:
		in.selected = (in.selected + len(params) - 1) % len(params)
		in.logSelection()
	case glfw.KeyDown:
		in.selected = (in.selected + 1) % len(params)
		in.logSelection()
	case glfw.KeyLeft:
		in.nudge(-1)
	case glfw.KeyRight:
		in.nudge(1)
	}
}

func (in *input) logSelection() {
	p := in.session.params[in.selected]
	in.log.Info("selected parameter",
		zap.String("param", p.name),
		zap.Float64("value", p.get()))
}

func (in *input) nudge(direction float64) {
	p := in.session.params[in.selected]
	step := math.Max(math.Pow(10, float64(-p.decimals)), (p.max-p.min)/50)
	in.edits <- Edit{Param: p.name, Value: p.get() + direction*step}
}

func (in *input) onMouseButton(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	if button != glfw.MouseButtonLeft {
		return
	}
	switch action {
	case glfw.Press:
		in.dragging = true
		in.lastX, in.lastY = w.GetCursorPos()
	case glfw.Release:
		in.dragging = false
	}
}

func (in *input) onCursorPos(w *glfw.Window, x, y float64) {
	if !in.dragging {
		return
	}
	width, height := w.GetSize()
	dx := (x - in.lastX) / float64(width) * 2
	dy := -(y - in.lastY) / float64(height) * 2
	in.lastX, in.lastY = x, y

	// Smooth the deltas a little so the turntable does not jitter.
	sx := in.prevDX*0.5 + dx*0.5
	sy := in.prevDY*0.5 + dy*0.5
	in.prevDX, in.prevDY = sx, sy

	in.rotX += sx * 2
	in.rotY += sy * 2
	in.rotY = clampF(in.rotY, -math.Pi/2, math.Pi/2)
}

// transform builds the turntable view matrix: yaw, pitch, then a pullback
// by the camera distance along the rotated view axis.
func (in *input) transform(distance float64) mgl32.Mat4 {
	s1, c1 := math.Sincos(in.rotX)
	s2, c2 := math.Sincos(in.rotY)
	r := distance
	return mgl32.Mat4{
		float32(c1), 0, float32(s1), 0,
		float32(-s1 * s2), float32(c2), float32(c1 * s2), 0,
		float32(-c2 * s1), float32(-s2), float32(c2 * c1), 0,
		float32(-c2 * s1 * r), float32(-s2 * r), float32(c2 * c1 * r), 1,
	}
}
