package zaber

import (
	"errors"
	"fmt"
	"strings"
)

// Units enumerates the physical units understood by the driver.  Linear
// stages use millimetres, rotary stages (e.g. a mode selector wheel) use
// degrees; the Native units are raw microsteps and microsteps/second.
type Units int

const (
	// Native is raw microsteps
	Native Units = iota

	// Millimetres for linear stages
	Millimetres

	// Degrees for rotary stages
	Degrees

	// NativeVelocity is raw microsteps per second
	NativeVelocity

	// MillimetresPerSecond for linear stages
	MillimetresPerSecond

	// DegreesPerSecond for rotary stages
	DegreesPerSecond
)

// ErrUnitDimension is generated when a velocity unit is used where a length
// unit belongs, or vice versa.
var ErrUnitDimension = errors.New("zaber: unit has the wrong dimension for this argument")

// maxspeedScale converts microsteps/second to the value stored in the
// device's maxspeed setting, per the ASCII protocol manual.
const maxspeedScale = 1.6384

func (u Units) String() string {
	switch u {
	case Native:
		return "native"
	case Millimetres:
		return "mm"
	case Degrees:
		return "deg"
	case NativeVelocity:
		return "native/s"
	case MillimetresPerSecond:
		return "mm/s"
	case DegreesPerSecond:
		return "deg/s"
	default:
		return fmt.Sprintf("Units(%d)", int(u))
	}
}

// Velocity returns true if the unit has dimensions of speed
func (u Units) Velocity() bool {
	switch u {
	case NativeVelocity, MillimetresPerSecond, DegreesPerSecond:
		return true
	default:
		return false
	}
}

// ParseUnits resolves a configuration string to a Units value.  Recognized
// spellings: native, mm, millimetres, deg, degrees, native/s, mm/s, deg/s.
func ParseUnits(s string) (Units, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "native", "microsteps":
		return Native, nil
	case "mm", "millimetres", "millimeters":
		return Millimetres, nil
	case "deg", "degrees":
		return Degrees, nil
	case "native/s", "microsteps/s":
		return NativeVelocity, nil
	case "mm/s":
		return MillimetresPerSecond, nil
	case "deg/s", "degrees/s":
		return DegreesPerSecond, nil
	default:
		return Native, fmt.Errorf("zaber: unknown unit %q", s)
	}
}

// toNativeLength converts a length in u to microsteps.  scale is the
// device's microsteps per physical unit (mm or degree, whichever the
// deployment uses).
func toNativeLength(v float64, u Units, scale float64) (float64, error) {
	switch u {
	case Native:
		return v, nil
	case Millimetres, Degrees:
		return v * scale, nil
	default:
		return 0, ErrUnitDimension
	}
}

// fromNativeLength converts microsteps to a length in u
func fromNativeLength(v float64, u Units, scale float64) (float64, error) {
	switch u {
	case Native:
		return v, nil
	case Millimetres, Degrees:
		return v / scale, nil
	default:
		return 0, ErrUnitDimension
	}
}

// toNativeVelocity converts a speed in u to microsteps/second
func toNativeVelocity(v float64, u Units, scale float64) (float64, error) {
	switch u {
	case NativeVelocity:
		return v, nil
	case MillimetresPerSecond, DegreesPerSecond:
		return v * scale, nil
	default:
		return 0, ErrUnitDimension
	}
}
