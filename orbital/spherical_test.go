package orbital

import (
	"math"
	"testing"
)

func TestSphericalCoefficients(t *testing.T) {
	invSqrt4Pi := 1 / math.Sqrt(4*math.Pi)
	tests := []struct {
		name string
		l, m int
		want []float64
	}{
		{
			name: "Y(0,0) is the constant 1/sqrt(4pi)",
			l:    0, m: 0,
			want: []float64{invSqrt4Pi},
		},
		{
			name: "Y(1,0) polynomial is sqrt(3/4pi)*x",
			l:    1, m: 0,
			want: []float64{0, math.Sqrt(3 / (4 * math.Pi))},
		},
		{
			name: "Y(1,1) polynomial is the constant sqrt(3/8pi)",
			l:    1, m: 1,
			want: []float64{math.Sqrt(3 / (8 * math.Pi))},
		},
		{
			name: "Y(2,0) polynomial is sqrt(5/4pi)*(3x^2-1)/2",
			l:    2, m: 0,
			want: []float64{
				-0.5 * math.Sqrt(5/(4*math.Pi)),
				0,
				1.5 * math.Sqrt(5/(4*math.Pi)),
			},
		},
		{
			name: "Y(2,1) polynomial is sqrt(5/24pi)*3x",
			l:    2, m: 1,
			want: []float64{0, 3 * math.Sqrt(5/(24*math.Pi))},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SphericalCoefficients(tt.l, tt.m)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d coefficients %v, want %d", len(got), got, len(tt.want))
			}
			for i := range got {
				if math.Abs(got[i]-tt.want[i]) > 1e-12 {
					t.Errorf("coefficient %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

// Only |m| enters the polynomial factor; the sign lives in the azimuthal
// phase handled by the assembler.
func TestSphericalNegativeMMatchesPositive(t *testing.T) {
	for l := 1; l <= 6; l++ {
		for m := 1; m <= l; m++ {
			pos := SphericalCoefficients(l, m)
			neg := SphericalCoefficients(l, -m)
			if len(pos) != len(neg) {
				t.Fatalf("l=%d m=%d: length mismatch", l, m)
			}
			for i := range pos {
				if pos[i] != neg[i] {
					t.Errorf("l=%d m=%d: coefficient %d differs: %v vs %v", l, m, i, pos[i], neg[i])
				}
			}
		}
	}
}

func TestSphericalInvalidMPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for |m| > l")
		}
	}()
	SphericalCoefficients(1, 2)
}
