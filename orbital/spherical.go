package orbital

import (
	"fmt"
	"math"
)

// SphericalCoefficients returns the cos(theta) power series factor of the
// normalized spherical harmonic Y(l, m). The returned coefficients expand
//
//	N(l,m) * d^|m|/dx^|m| P_l(x)  evaluated at x = cos(theta),
//
// where P_l is the Legendre polynomial and N is the orthonormal magnitude
// sqrt[(2l+1)/(4pi) * (l-|m|)!/(l+|m|)!]. The sin(theta)^|m| magnitude
// factor and the exp(i*m*phi) azimuthal phase are applied by the caller.
func SphericalCoefficients(l, m int) []float64 {
	if l < 0 || l >= MaxPolyTerms {
		panic(fmt.Sprintf("orbital: angular momentum l=%d outside term bound %d", l, MaxPolyTerms))
	}
	am := m
	if am < 0 {
		am = -am
	}
	if am > l {
		panic(fmt.Sprintf("orbital: |m|=%d exceeds l=%d", am, l))
	}

	// Legendre polynomial P_l as an explicit power series:
	// P_l(x) = 2^-l * sum_k (-1)^k C(l,k) C(2l-2k,l) x^(l-2k)
	coeffs := make([]float64, l+1)
	scale := math.Pow(2, float64(-l))
	sign := 1.0
	for k := 0; 2*k <= l; k++ {
		coeffs[l-2*k] = sign * scale * binomial(l, k) * binomial(2*l-2*k, l)
		sign = -sign
	}

	// Differentiate |m| times to get the polynomial part of P_l^|m|.
	for d := 0; d < am; d++ {
		for i := 0; i+1 < len(coeffs); i++ {
			coeffs[i] = coeffs[i+1] * float64(i+1)
		}
		coeffs = coeffs[:len(coeffs)-1]
	}

	norm := math.Sqrt(float64(2*l+1) / (4 * math.Pi) * factorial(l-am) / factorial(l+am))
	for i := range coeffs {
		coeffs[i] *= norm
	}
	return coeffs
}
