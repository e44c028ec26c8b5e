package orbital

import (
	"fmt"
	"math"
)

// WaveFunction holds the precomputed closed-form pieces of one hydrogen
// orbital |nlm>. Coefficient storage is deliberately a fixed array: the
// quantum number range is bounded upstream, so overflow is a defect.
type WaveFunction struct {
	N, L, M int

	// PhaseOffset is added to the azimuthal phase m*phi.
	PhaseOffset float64
	BohrRadius  float64

	Normalization float64
	// Laguerre holds rho power series coefficients of L(n-l-1, 2l+1, rho);
	// only indices 0..(n-l-1) are meaningful.
	Laguerre [MaxPolyTerms]float64
	// Angular holds cos(theta) power series coefficients of the spherical
	// harmonic factor; only indices 0..l are meaningful.
	Angular [MaxPolyTerms]float64
}

// NewWaveFunction precomputes normalization and series coefficients for the
// orbital |nlm>. Quantum numbers outside the valid domain panic: the
// parameter layer clamps them before they reach here.
func NewWaveFunction(n, l, m int, phaseOffset, bohrRadius float64) WaveFunction {
	if n <= 0 || l < 0 || l > n-1 || m < -l || m > l {
		panic(fmt.Sprintf("orbital: invalid quantum numbers n=%d l=%d m=%d", n, l, m))
	}
	if bohrRadius <= 0 {
		panic(fmt.Sprintf("orbital: invalid Bohr radius %v", bohrRadius))
	}

	w := WaveFunction{
		N:           n,
		L:           l,
		M:           m,
		PhaseOffset: phaseOffset,
		BohrRadius:  bohrRadius,
	}
	w.Normalization = math.Sqrt(math.Pow(2/(float64(n)*bohrRadius), 3) *
		factorial(n-l-1) / (2 * float64(n) * factorial(n+l)))

	copy(w.Laguerre[:], LaguerreCoefficients(n-l-1, 2*l+1))
	copy(w.Angular[:], SphericalCoefficients(l, m))
	return w
}

// Eval evaluates the wave function at spherical coordinates (r, theta, phi)
// and returns the complex value amplitude*exp(i*phase). It is standalone
// (no rendering context) and serves as the oracle the synthesized shader
// text is validated against.
func (w *WaveFunction) Eval(r, theta, phi float64) complex128 {
	rho := 2 * r / (float64(w.N) * w.BohrRadius)

	amplitude := w.Normalization
	amplitude *= math.Exp(-rho/2) * math.Pow(rho, float64(w.L))
	amplitude *= evalSeries(w.Laguerre[:w.N-w.L], rho)

	am := w.M
	if am < 0 {
		am = -am
	}
	cosTheta := math.Cos(theta)
	sinTheta := math.Sin(theta)
	amplitude *= signedPow(sinTheta, am) * evalSeriesSigned(w.Angular[:w.L+1], cosTheta)

	phase := float64(w.M)*phi + w.PhaseOffset
	return complex(amplitude*math.Cos(phase), amplitude*math.Sin(phase))
}

// signedPow raises a possibly negative base to an integer power as
// sign(x)^(i mod 2) * |x|^i, mirroring what the generated shader text does
// so the oracle and the GPU agree bit-for-bit in spirit.
func signedPow(x float64, i int) float64 {
	if i == 0 {
		return 1
	}
	p := math.Pow(math.Abs(x), float64(i))
	if i%2 == 1 && x < 0 {
		return -p
	}
	return p
}

// evalSeriesSigned evaluates sum(coeffs[i]*x^i) term by term using the
// sign-corrected power, matching the synthesized expression exactly.
func evalSeriesSigned(coeffs []float64, x float64) float64 {
	sum := 0.0
	for i, c := range coeffs {
		if c == 0 {
			continue
		}
		sum += c * signedPow(x, i)
	}
	return sum
}
