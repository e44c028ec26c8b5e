// Package orbital computes closed-form hydrogen wave function coefficients.
//
// A hydrogen orbital |nlm> factors as
//
//	psi_nlm(r, theta, phi) = C * E * L * Y, where
//	  C = sqrt[(2/(n*a0))^3 * (n-l-1)! / (2n(n+l)!)]
//	  E = exp(-rho/2) * rho^l
//	  L = generalized Laguerre polynomial L(n-l-1, 2l+1, rho)
//	  Y = spherical harmonic Y(l, m, theta, phi)
//	  rho = 2r/(n*a0)
//
// The package is pure math with no rendering dependencies; the shader
// synthesizer and the test oracle both consume it.
package orbital

import "fmt"

// MaxPolyTerms bounds every power series in the pipeline. Quantum numbers
// are clamped by the parameter layer (n <= 12), so n-l and l always fit.
// Exceeding it is a programming error, not an input error.
const MaxPolyTerms = 30

func factorial(n int) float64 {
	f := 1.0
	for i := 2; i <= n; i++ {
		f *= float64(i)
	}
	return f
}

// binomial returns C(n, k) as a float64. The UI-bounded quantum number
// range keeps every value used here well inside float64 precision.
func binomial(n, k int) float64 {
	if k < 0 || k > n {
		return 0
	}
	if k > n-k {
		k = n - k
	}
	c := 1.0
	for i := 0; i < k; i++ {
		c = c * float64(n-i) / float64(i+1)
	}
	return c
}

// LaguerreCoefficients returns the power series coefficients c[0..degree]
// of the generalized Laguerre polynomial L(degree, order, rho), so that
// sum(c[i]*rho^i) evaluates the polynomial:
//
//	c[i] = (-1)^i * C(degree+order, degree-i) / i!
func LaguerreCoefficients(degree, order int) []float64 {
	if degree < 0 || order < 0 {
		panic(fmt.Sprintf("orbital: invalid Laguerre parameters degree=%d order=%d", degree, order))
	}
	if degree >= MaxPolyTerms {
		panic(fmt.Sprintf("orbital: Laguerre degree %d exceeds term bound %d", degree, MaxPolyTerms))
	}

	coeffs := make([]float64, degree+1)
	sign := 1.0
	for i := 0; i <= degree; i++ {
		coeffs[i] = sign * binomial(degree+order, degree-i) / factorial(i)
		sign = -sign
	}
	return coeffs
}

// evalSeries evaluates sum(coeffs[i]*x^i) by Horner's rule.
func evalSeries(coeffs []float64, x float64) float64 {
	sum := 0.0
	for i := len(coeffs) - 1; i >= 0; i-- {
		sum = sum*x + coeffs[i]
	}
	return sum
}
