package selector

import (
	"math"
	"testing"
)

const tol = 1e-9

func TestSineEndpointsAndPeak(t *testing.T) {
	const (
		sMax = 90.
		vMax = 10.
	)
	if v := Sine(0, sMax, vMax); math.Abs(v) > tol {
		t.Errorf("expected zero speed at start, got %g", v)
	}
	if v := Sine(sMax, sMax, vMax); math.Abs(v) > 1e-9*vMax {
		t.Errorf("expected zero speed at end, got %g", v)
	}
	if v := Sine(sMax/2, sMax, vMax); math.Abs(v-vMax) > tol {
		t.Errorf("expected vMax at midpoint, got %g", v)
	}
}

func TestSineNegativeDisplacement(t *testing.T) {
	const (
		sMax = -90.
		vMax = 10.
	)
	if v := Sine(sMax/2, sMax, vMax); math.Abs(v-vMax) > tol {
		t.Errorf("expected vMax at midpoint of a negative move, got %g", v)
	}
	for _, x := range []float64{0, sMax / 4, sMax / 2, 3 * sMax / 4, sMax} {
		if v := Sine(x, sMax, vMax); v < -tol {
			t.Errorf("speed must be non-negative, got %g at offset %g", v, x)
		}
	}
}

func TestGaussPeakAndSymmetry(t *testing.T) {
	const (
		sMax = 90.
		vMax = 5.
	)
	if v := Gauss(sMax/2, sMax, vMax); math.Abs(v-vMax) > tol {
		t.Errorf("expected vMax at midpoint, got %g", v)
	}
	left := Gauss(sMax/4, sMax, vMax)
	right := Gauss(3*sMax/4, sMax, vMax)
	if math.Abs(left-right) > tol {
		t.Errorf("expected symmetry about the midpoint, got %g vs %g", left, right)
	}
	// endpoints are +/- 3 sigma out: ~1.1% of vMax
	if v := Gauss(0, sMax, vMax); v > 0.02*vMax {
		t.Errorf("expected near-zero speed at start, got %g", v)
	}
}

func TestTriangleContinuousAtBreakpoint(t *testing.T) {
	const (
		sMax = 90.
		vMax = 10.
		eps  = 1e-9
	)
	below := Triangle(sMax/2-eps, sMax, vMax)
	at := Triangle(sMax/2, sMax, vMax)
	above := Triangle(sMax/2+eps, sMax, vMax)
	if math.Abs(at-vMax) > tol {
		t.Errorf("expected vMax at breakpoint, got %g", at)
	}
	if math.Abs(below-at) > 1e-6 || math.Abs(above-at) > 1e-6 {
		t.Errorf("profile discontinuous at breakpoint: %g, %g, %g", below, at, above)
	}
}

func TestTriangleEndpoints(t *testing.T) {
	const (
		sMax = 90.
		vMax = 10.
	)
	if v := Triangle(0, sMax, vMax); v != 0 {
		t.Errorf("expected zero speed at start, got %g", v)
	}
	if v := Triangle(sMax, sMax, vMax); math.Abs(v) > tol {
		t.Errorf("expected zero speed at end, got %g", v)
	}
}

func TestProfilesZeroDisplacement(t *testing.T) {
	for _, p := range []Profile{Sine, Gauss, Triangle} {
		if v := p(0, 0, 10); v != 0 {
			t.Errorf("expected zero speed for zero displacement, got %g", v)
		}
	}
}

func TestParseProfile(t *testing.T) {
	cases := []struct {
		name string
		want Profile
		ok   bool
	}{
		{"sine", Sine, true},
		{"gauss", Gauss, true},
		{"gaussian", Gauss, true},
		{"triangle", Triangle, true},
		{"", nil, true},
		{"trapezoid", nil, false},
	}
	for _, c := range cases {
		got, err := ParseProfile(c.name)
		if c.ok && err != nil {
			t.Errorf("ParseProfile(%q): %v", c.name, err)
			continue
		}
		if !c.ok {
			if err == nil {
				t.Errorf("expected error for %q", c.name)
			}
			continue
		}
		// compare by behavior at a probe point; func values can't be compared
		if (got == nil) != (c.want == nil) {
			t.Errorf("ParseProfile(%q) nil-ness mismatch", c.name)
			continue
		}
		if got != nil && got(22.5, 90, 10) != c.want(22.5, 90, 10) {
			t.Errorf("ParseProfile(%q) resolved to the wrong profile", c.name)
		}
	}
}
