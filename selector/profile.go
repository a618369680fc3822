package selector

import (
	"fmt"
	"math"
	"strings"
)

// Profile maps progress through a move to an instantaneous speed.  x is the
// offset from the start of the move, sMax the total signed displacement and
// vMax the configured full speed.  Profiles are pure functions; they return
// a non-negative speed that is zero (or near zero) at both ends of the
// travel, which is what keeps the stage from jerking the optics it carries.
type Profile func(x, sMax, vMax float64) float64

// Sine follows half a sine wave: v = vMax * sin(pi * x/sMax)
func Sine(x, sMax, vMax float64) float64 {
	if sMax == 0 {
		return 0
	}
	return vMax * math.Sin(math.Pi*x/sMax)
}

// Gauss follows a Gaussian centered at the midpoint with sigma = sMax/6, so
// the travel spans +/- 3 sigma and the endpoints command ~1% of vMax
func Gauss(x, sMax, vMax float64) float64 {
	if sMax == 0 {
		return 0
	}
	z := 6 * (x/sMax - 0.5) // (x - sMax/2) / (sMax/6), in units of sigma
	return vMax * math.Exp(-0.5*z*z)
}

// Triangle ramps linearly from 0 to vMax over the first half of the travel
// and back down over the second half
func Triangle(x, sMax, vMax float64) float64 {
	if sMax == 0 {
		return 0
	}
	r := x / sMax
	if r <= 0.5 {
		return 2 * r * vMax
	}
	return 2 * (1 - r) * vMax
}

// ParseProfile resolves a configuration string to a Profile.  The empty
// string means no profile (single full-speed moves).
func ParseProfile(name string) (Profile, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return nil, nil
	case "sine", "sin":
		return Sine, nil
	case "gauss", "gaussian":
		return Gauss, nil
	case "triangle", "tri":
		return Triangle, nil
	default:
		return nil, fmt.Errorf("selector: unknown velocity profile %q", name)
	}
}
