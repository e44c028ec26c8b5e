package synth

import (
	"fmt"
	"math"
	"strings"

	"orbitalviz/orbital"
)

// MaxWaves bounds the number of simultaneously live waves.
const MaxWaves = 2

// AmplitudeEpsilon is the dead-wave threshold: a wave whose |amplitude| is
// at or below it contributes nothing and is eliminated from the generated
// text entirely.
const AmplitudeEpsilon = 0.001

// Wave is the structural configuration of one wave. Waves sharing a Group
// are summed coherently (superposition); waves in different groups have
// their densities added (molecule).
type Wave struct {
	N, L, M     int
	Amplitude   float64
	Phase       float64
	Translation float64
	Group       int
}

// Options are the structural constants baked into the program text.
// SampleCount and Cutoff are compile-time constants on purpose: rebuilding
// on change buys loop unrolling in the per-sample inner loop.
type Options struct {
	SampleCount  int
	ComplexColor bool
	Absorption   float64
	Cutoff       float64
}

// Source is a complete shader source pair. It is a pure function of the
// structural parameters and is regenerated wholesale, never diffed.
type Source struct {
	Vertex   string
	Fragment string
}

// BuildWaveFunctions computes the closed-form coefficients for each wave.
// The session keeps the result cached per wave and recomputes only touched
// entries before resynthesizing.
func BuildWaveFunctions(waves []Wave) []orbital.WaveFunction {
	funcs := make([]orbital.WaveFunction, len(waves))
	for i, w := range waves {
		funcs[i] = orbital.NewWaveFunction(w.N, w.L, w.M, w.Phase, 1.0)
	}
	return funcs
}

// AmplitudeExpression builds the real amplitude factor of one wave as an
// expression over r, cos_theta and sin_theta. Exposed so validation can
// evaluate the exact text the shader sees.
func AmplitudeExpression(w orbital.WaveFunction) Node {
	rhoScale := 2 / (float64(w.N) * w.BohrRadius)
	rho := Product{Const(rhoScale), Var("r")}

	factors := Product{
		Const(w.Normalization),
		Call{"exp", []Node{Product{Const(-rhoScale / 2), Var("r")}}},
	}
	if w.L > 0 {
		factors = append(factors, Pow{Base: rho, Exp: w.L})
	}

	var radial Sum
	for i := 0; i <= w.N-w.L-1; i++ {
		c := w.Laguerre[i]
		if c == 0 {
			continue
		}
		if i == 0 {
			radial = append(radial, Const(c))
		} else {
			radial = append(radial, Product{Const(c), Pow{Base: rho, Exp: i}})
		}
	}
	factors = append(factors, radial)

	am := w.M
	if am < 0 {
		am = -am
	}
	if am > 0 {
		factors = append(factors, SignedPow{Base: Var("sin_theta"), Exp: am})
	}

	var angular Sum
	for i := 0; i <= w.L; i++ {
		c := w.Angular[i]
		if c == 0 {
			continue
		}
		if i == 0 {
			angular = append(angular, Const(c))
		} else {
			angular = append(angular, Product{Const(c), SignedPow{Base: Var("cos_theta"), Exp: i}})
		}
	}
	factors = append(factors, angular)
	return factors
}

// PhaseExpression builds the complex phase of one wave over phi.
func PhaseExpression(w orbital.WaveFunction) Node {
	return Sum{Product{Const(float64(w.M)), Var("phi")}, Const(w.PhaseOffset)}
}

// brightness keeps perceived cloud intensity roughly level across n; the
// probability density otherwise collapses visually for large orbitals.
func brightness(n int) float64 {
	return 1 + 2*math.Pow(float64(n), 2.5)
}

// Synthesize assembles the complete shader source for the given waves.
// funcs[i] must hold the coefficients of waves[i]. Waves at or below
// AmplitudeEpsilon are omitted from the text; identical inputs always
// produce byte-identical output.
func Synthesize(waves []Wave, funcs []orbital.WaveFunction, opts Options) Source {
	if len(waves) > MaxWaves {
		panic(fmt.Sprintf("synth: %d waves exceeds limit %d", len(waves), MaxWaves))
	}
	if len(funcs) != len(waves) {
		panic(fmt.Sprintf("synth: %d coefficient sets for %d waves", len(funcs), len(waves)))
	}
	if opts.SampleCount < 1 {
		panic(fmt.Sprintf("synth: invalid sample count %d", opts.SampleCount))
	}

	type retained struct {
		index int
		slot  int // accumulator slot, one per distinct group
	}
	var live []retained
	slotOf := make([]int, 0, MaxWaves) // group id per slot, in first-seen order
	for i, w := range waves {
		if math.Abs(w.Amplitude) <= AmplitudeEpsilon {
			continue
		}
		slot := -1
		for s, g := range slotOf {
			if g == w.Group {
				slot = s
				break
			}
		}
		if slot < 0 {
			slot = len(slotOf)
			slotOf = append(slotOf, w.Group)
		}
		live = append(live, retained{index: i, slot: slot})
	}

	var b strings.Builder
	fmt.Fprintf(&b, "#version 410 core\n\n")
	fmt.Fprintf(&b, "const int SAMPLE_COUNT = %d;\n", opts.SampleCount)
	fmt.Fprintf(&b, "const float ABSORPTION_MUL = %e;\n", opts.Absorption)
	fmt.Fprintf(&b, "const float CUTOFF = %e;\n", opts.Cutoff)
	complexColor := 0
	if opts.ComplexColor {
		complexColor = 1
	}
	fmt.Fprintf(&b, "#define COMPLEX_COLOR %d\n\n", complexColor)

	b.WriteString(fragmentPrelude)
	for _, rw := range live {
		fmt.Fprintf(&b, "uniform float u_amplitude_%d;\n", rw.index)
	}

	// Field evaluation, regenerated per structural parameter set.
	b.WriteString("\nfloat orbitalDensity(vec3 p, out float out_re, out float out_im) {\n")
	if len(live) == 0 {
		b.WriteString("	out_re = 0.0;\n	out_im = 0.0;\n	return 0.0;\n}\n")
	} else {
		b.WriteString("	vec3 cart_p;\n	float r, phi, cos_theta, theta, sin_theta;\n")
		for s := range slotOf {
			fmt.Fprintf(&b, "	float total_re_%d = 0.0;\n	float total_im_%d = 0.0;\n", s, s)
		}
		for _, rw := range live {
			w := waves[rw.index]
			fn := funcs[rw.index]
			fmt.Fprintf(&b, "\n	cart_p = p + vec3(0.0, 0.0, %e);\n", w.Translation)
			b.WriteString("	r = max(sqrt(dot(cart_p, cart_p)), 1.0e-6);\n")
			b.WriteString("	phi = atan2(cart_p.y, cart_p.x);\n")
			b.WriteString("	cos_theta = clamp(cart_p.z/r, -1.0, 1.0);\n")
			b.WriteString("	theta = acos(cos_theta);\n")
			b.WriteString("	sin_theta = sin(theta);\n")
			fmt.Fprintf(&b, "	float a_%d = %s;\n", rw.index, exprString(AmplitudeExpression(fn)))
			fmt.Fprintf(&b, "	float p_%d = %s;\n", rw.index, exprString(PhaseExpression(fn)))
			weight := fmt.Sprintf("u_amplitude_%d*%e", rw.index, brightness(w.N))
			fmt.Fprintf(&b, "	total_re_%d += a_%d*cos(p_%d)*%s;\n", rw.slot, rw.index, rw.index, weight)
			fmt.Fprintf(&b, "	total_im_%d += a_%d*sin(p_%d)*%s;\n", rw.slot, rw.index, rw.index, weight)
		}
		// Groups are coherent internally; densities add across groups.
		b.WriteString("\n	float total_amplitude = 0.0;\n")
		for s := range slotOf {
			fmt.Fprintf(&b, "	total_amplitude += total_re_%d*total_re_%d + total_im_%d*total_im_%d;\n", s, s, s, s)
		}
		b.WriteString("	out_re = ")
		for s := range slotOf {
			if s > 0 {
				b.WriteString(" + ")
			}
			fmt.Fprintf(&b, "total_re_%d", s)
		}
		b.WriteString(";\n	out_im = ")
		for s := range slotOf {
			if s > 0 {
				b.WriteString(" + ")
			}
			fmt.Fprintf(&b, "total_im_%d", s)
		}
		b.WriteString(";\n	return total_amplitude*total_amplitude;\n}\n")
	}

	b.WriteString(fragmentMain)
	return Source{Vertex: vertexSource, Fragment: b.String()}
}
