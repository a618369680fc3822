// Package mathx provides small numeric helpers shared by the device adapters.
package mathx

import "math"

// Round rounds a float to the nearest "unit" (0.1 for tenth, 0.01 for
// hundredth, and so on).  Rounding is half away from zero and correct for
// negative values, which matter for stages whose travel spans zero.
func Round(x, unit float64) float64 {
	return math.Round(x/unit) * unit
}
