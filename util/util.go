// Package util contains misc internal utilities.
package util

// Limiter holds a min/max pair describing the allowed range of a value
type Limiter struct {
	Min float64 `yaml:"Min"`
	Max float64 `yaml:"Max"`
}

// Check returns true if min <= v <= max.  The zero value of Limiter rejects
// everything except zero; populate both bounds.
func (l Limiter) Check(v float64) bool {
	return v >= l.Min && v <= l.Max
}

// Clamp limits v to the range [low, high]
func Clamp(v, low, high float64) float64 {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}
