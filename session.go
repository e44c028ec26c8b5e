package main

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"orbitalviz/config"
	"orbitalviz/orbital"
	"orbitalviz/synth"
)

// Backend abstracts the GPU collaborator so rebuild sequencing is testable
// without a GL context. The real implementation wraps the renderer.
type Backend interface {
	Build(src synth.Source) (Program, error)
	CreateTarget(width, height int, filtering bool) Target
}

// Program is one live ray-marching program. The session owns exactly one.
type Program interface {
	Use()
	SetTime(float32)
	SetPhase(float32)
	SetColor(r, g, b float32)
	SetRayLength(float32)
	SetTransform(mgl32.Mat4)
	SetAmplitude(wave int, v float32)
	Destroy()
}

// Target is the offscreen render target. The session owns exactly one; it
// is resized independently of program rebuilds.
type Target interface {
	Matches(width, height int, filtering bool) bool
	Destroy()
}

// Session holds all editable state and the two GPU resources derived from
// it. Structural edits rebuild the program inline, before the next draw;
// continuous edits only change values written as uniforms each frame.
// Single-threaded: Apply and the frame loop run on the same goroutine.
type Session struct {
	log     *zap.Logger
	backend Backend

	// Continuous parameters.
	time       float64
	phase      float64
	resolution float64
	filtering  float64 // 0 or 1, slider semantics
	r, g, b    float64
	distance   float64

	// Structural parameters.
	sampleCount  float64
	complexColor float64
	absorption   float64
	cutoff       float64
	waves        [synth.MaxWaves]synth.Wave
	waveGroups   [synth.MaxWaves]float64

	// Cached per-wave coefficients; refreshed only for touched waves.
	funcs [synth.MaxWaves]orbital.WaveFunction

	params []*paramDef
	byName map[string]*paramDef

	program  Program
	target   Target
	source   synth.Source
	rebuilds int
}

// NewSession builds the initial program from the configured parameters.
func NewSession(cfg config.Settings, backend Backend, log *zap.Logger) (*Session, error) {
	s := &Session{
		log:          log,
		backend:      backend,
		resolution:   cfg.Render.Resolution,
		r:            cfg.Render.R,
		g:            cfg.Render.G,
		b:            cfg.Render.B,
		distance:     cfg.Render.Distance,
		sampleCount:  float64(cfg.Render.SampleCount),
		absorption:   cfg.Render.Absorption,
		cutoff:       cfg.Render.Cutoff,
		byName:       make(map[string]*paramDef),
	}
	if cfg.Render.Filtering {
		s.filtering = 1
	}
	if cfg.Render.ComplexColor {
		s.complexColor = 1
	}
	for i := range s.waves {
		if i >= len(cfg.Waves) {
			s.waves[i] = synth.Wave{N: 1}
			s.refreshWave(i)
			continue
		}
		w := cfg.Waves[i]
		s.waves[i] = synth.Wave{
			N:           w.N,
			L:           w.L,
			M:           w.M,
			Amplitude:   w.Amplitude,
			Phase:       w.Phase,
			Translation: w.Translation,
			Group:       w.Group,
		}
		s.clampWave(i)
		s.waveGroups[i] = float64(s.waves[i].Group)
		s.refreshWave(i)
	}
	s.registerParams()

	if err := s.rebuild(); err != nil {
		return nil, err
	}
	return s, nil
}

// clampWave forces quantum numbers into the valid domain; l depends on n
// and m on l, so edits to either can invalidate the others.
func (s *Session) clampWave(i int) {
	w := &s.waves[i]
	if w.N < 1 {
		w.N = 1
	}
	if w.L > w.N-1 {
		w.L = w.N - 1
	}
	if w.L < 0 {
		w.L = 0
	}
	if w.M > w.L {
		w.M = w.L
	}
	if w.M < -w.L {
		w.M = -w.L
	}
}

// refreshWave recomputes the cached coefficients of one wave.
func (s *Session) refreshWave(i int) {
	w := s.waves[i]
	s.funcs[i] = orbital.NewWaveFunction(w.N, w.L, w.M, w.Phase, 1.0)
}

func (s *Session) registerParams() {
	add := func(p *paramDef) {
		s.params = append(s.params, p)
		s.byName[p.name] = p
	}
	fptr := func(v *float64) (func() float64, func(float64)) {
		return func() float64 { return *v }, func(x float64) { *v = x }
	}

	var defs []*paramDef
	get, set := fptr(&s.phase)
	defs = append(defs, &paramDef{name: "phase", min: 0, max: 5, decimals: 3, get: get, set: set})
	defs = append(defs, &paramDef{name: "samples", min: 5, max: 150, decimals: 0, structural: true,
		get: func() float64 { return s.sampleCount }, set: func(v float64) { s.sampleCount = v }})
	get, set = fptr(&s.resolution)
	defs = append(defs, &paramDef{name: "resolution", min: 0.01, max: 1, decimals: 2, get: get, set: set})
	get, set = fptr(&s.filtering)
	defs = append(defs, &paramDef{name: "filtering", min: 0, max: 1, decimals: 0, get: get, set: set})
	get, set = fptr(&s.r)
	defs = append(defs, &paramDef{name: "r", min: 0, max: 2, decimals: 3, get: get, set: set})
	get, set = fptr(&s.g)
	defs = append(defs, &paramDef{name: "g", min: 0, max: 2, decimals: 3, get: get, set: set})
	get, set = fptr(&s.b)
	defs = append(defs, &paramDef{name: "b", min: 0, max: 2, decimals: 3, get: get, set: set})
	get, set = fptr(&s.complexColor)
	defs = append(defs, &paramDef{name: "complexColor", min: 0, max: 1, decimals: 0, structural: true, get: get, set: set})
	get, set = fptr(&s.absorption)
	defs = append(defs, &paramDef{name: "absorption", min: 0, max: 1, decimals: 3, structural: true, get: get, set: set})
	get, set = fptr(&s.cutoff)
	defs = append(defs, &paramDef{name: "cutoff", min: 0, max: 0.15, decimals: 4, structural: true, get: get, set: set})
	get, set = fptr(&s.distance)
	defs = append(defs, &paramDef{name: "distance", min: 0.2, max: 150, decimals: 4, get: get, set: set})
	for _, p := range defs {
		add(p)
	}

	for i := range s.waves {
		i := i
		w := &s.waves[i]
		add(&paramDef{
			name: fmt.Sprintf("wave%d.amplitude", i), min: 0, max: 2, decimals: 3,
			get: func() float64 { return w.Amplitude },
			set: func(v float64) { w.Amplitude = v },
			classify: func(old, new float64) bool {
				return (math.Abs(old) <= synth.AmplitudeEpsilon) != (math.Abs(new) <= synth.AmplitudeEpsilon)
			},
		})
		add(&paramDef{
			name: fmt.Sprintf("wave%d.phase", i), min: 0, max: 2 * math.Pi, decimals: 3, structural: true,
			get: func() float64 { return w.Phase },
			set: func(v float64) { w.Phase = v; s.refreshWave(i) },
		})
		add(&paramDef{
			name: fmt.Sprintf("wave%d.n", i), min: 1, max: 12, decimals: 0, structural: true,
			get: func() float64 { return float64(w.N) },
			set: func(v float64) { w.N = int(v); s.clampWave(i); s.refreshWave(i) },
		})
		add(&paramDef{
			name: fmt.Sprintf("wave%d.l", i), min: 0, max: 11, decimals: 0, structural: true,
			get: func() float64 { return float64(w.L) },
			set: func(v float64) { w.L = int(v); s.clampWave(i); s.refreshWave(i) },
		})
		add(&paramDef{
			name: fmt.Sprintf("wave%d.m", i), min: -11, max: 11, decimals: 0, structural: true,
			get: func() float64 { return float64(w.M) },
			set: func(v float64) { w.M = int(v); s.clampWave(i); s.refreshWave(i) },
		})
		add(&paramDef{
			name: fmt.Sprintf("wave%d.translation", i), min: -5, max: 5, decimals: 3, structural: true,
			get: func() float64 { return w.Translation },
			set: func(v float64) { w.Translation = v },
		})
		add(&paramDef{
			name: fmt.Sprintf("wave%d.group", i), min: 0, max: 1, decimals: 0, structural: true,
			get: func() float64 { return s.waveGroups[i] },
			set: func(v float64) { s.waveGroups[i] = v; w.Group = int(v) },
		})
	}
}

// Apply applies one edit. Continuous parameters just store the new value;
// structural parameters drive a full resynthesize-and-rebuild before the
// frame is drawn. A returned error means a build failure, which signals a
// synthesizer defect and is not recoverable here.
func (s *Session) Apply(e Edit) error {
	def, ok := s.byName[e.Param]
	if !ok {
		s.log.Warn("unknown parameter", zap.String("param", e.Param))
		return nil
	}
	v := roundTo(clampF(e.Value, def.min, def.max), def.decimals)
	old := def.get()
	if v == old {
		return nil
	}
	def.set(v)

	structural := def.structural
	if def.classify != nil {
		structural = def.classify(old, v)
	}
	if !structural {
		return nil
	}
	return s.rebuild()
}

func (s *Session) options() synth.Options {
	return synth.Options{
		SampleCount:  int(s.sampleCount),
		ComplexColor: s.complexColor > 0.5,
		Absorption:   s.absorption,
		Cutoff:       s.cutoff,
	}
}

// rebuild regenerates the whole source (the text is monolithic, so even
// untouched waves are resynthesized) and swaps programs. The old program
// is destroyed only after the new one built successfully, so a failed
// build never leaves the session without a usable program.
func (s *Session) rebuild() error {
	src := synth.Synthesize(s.waves[:], s.funcs[:], s.options())
	prog, err := s.backend.Build(src)
	if err != nil {
		return fmt.Errorf("program rebuild: %w", err)
	}
	if s.program != nil {
		s.program.Destroy()
	}
	s.program = prog
	s.source = src
	s.rebuilds++
	s.log.Info("volume program rebuilt",
		zap.Int("samples", int(s.sampleCount)),
		zap.Int("rebuilds", s.rebuilds))
	return nil
}

// EnsureTarget resizes the render target to the window framebuffer scaled
// by the resolution parameter. Independent of program rebuilds.
func (s *Session) EnsureTarget(fbWidth, fbHeight int) {
	w := int(float64(fbWidth) * s.resolution)
	h := int(float64(fbHeight) * s.resolution)
	filtering := s.filtering > 0.5
	if s.target != nil && s.target.Matches(w, h, filtering) {
		return
	}
	if s.target != nil {
		s.target.Destroy()
	}
	s.target = s.backend.CreateTarget(w, h, filtering)
}

// Advance steps the animated values by one frame.
func (s *Session) Advance(dt float64) {
	s.time += dt
	s.phase += dt
}

// ApplyUniforms binds the live program and writes every continuous input.
func (s *Session) ApplyUniforms(transform mgl32.Mat4) {
	p := s.program
	p.Use()
	p.SetTime(float32(s.time))
	p.SetPhase(float32(s.phase))
	p.SetColor(float32(s.r), float32(s.g), float32(s.b))
	p.SetRayLength(float32(s.distance * 2))
	p.SetTransform(transform)
	for i := range s.waves {
		p.SetAmplitude(i, float32(s.waves[i].Amplitude))
	}
}

// Program returns the live program. Never nil after NewSession succeeds.
func (s *Session) Program() Program { return s.program }

// Target returns the live render target; nil until the first EnsureTarget.
func (s *Session) Target() Target { return s.target }

// Distance returns the camera distance parameter.
func (s *Session) Distance() float64 { return s.distance }

// Snapshot returns the current value of every parameter.
func (s *Session) Snapshot() []ParamState {
	states := make([]ParamState, len(s.params))
	for i, p := range s.params {
		states[i] = ParamState{
			Name:       p.name,
			Value:      p.get(),
			Min:        p.min,
			Max:        p.max,
			Structural: p.structural || p.classify != nil,
		}
	}
	return states
}

// Close releases the session-owned GPU resources.
func (s *Session) Close() {
	if s.program != nil {
		s.program.Destroy()
		s.program = nil
	}
	if s.target != nil {
		s.target.Destroy()
		s.target = nil
	}
}
