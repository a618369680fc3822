package zaber

import "testing"

func TestParseUnitsRoundTrip(t *testing.T) {
	for _, u := range []Units{Native, Millimetres, Degrees, NativeVelocity, MillimetresPerSecond, DegreesPerSecond} {
		got, err := ParseUnits(u.String())
		if err != nil {
			t.Errorf("ParseUnits(%q): %v", u.String(), err)
			continue
		}
		if got != u {
			t.Errorf("ParseUnits(%q) = %v, want %v", u.String(), got, u)
		}
	}
}

func TestParseUnitsUnknown(t *testing.T) {
	if _, err := ParseUnits("furlongs"); err == nil {
		t.Error("expected error for unknown unit")
	}
}

func TestLengthConversion(t *testing.T) {
	const scale = 12800 // microsteps per degree
	native, err := toNativeLength(90, Degrees, scale)
	if err != nil {
		t.Fatal(err)
	}
	if native != 90*scale {
		t.Errorf("expected %f microsteps, got %f", 90.*scale, native)
	}
	back, err := fromNativeLength(native, Degrees, scale)
	if err != nil {
		t.Fatal(err)
	}
	if back != 90 {
		t.Errorf("expected round trip to 90, got %f", back)
	}
}

func TestNativeLengthPassesThrough(t *testing.T) {
	native, err := toNativeLength(1234, Native, 12800)
	if err != nil {
		t.Fatal(err)
	}
	if native != 1234 {
		t.Errorf("native units should not be scaled, got %f", native)
	}
}

func TestVelocityConversion(t *testing.T) {
	const scale = 100
	perSec, err := toNativeVelocity(2.5, DegreesPerSecond, scale)
	if err != nil {
		t.Fatal(err)
	}
	if perSec != 250 {
		t.Errorf("expected 250 microsteps/s, got %f", perSec)
	}
}

func TestDimensionMismatchRejected(t *testing.T) {
	if _, err := toNativeLength(1, DegreesPerSecond, 100); err != ErrUnitDimension {
		t.Errorf("expected ErrUnitDimension for velocity unit as length, got %v", err)
	}
	if _, err := toNativeVelocity(1, Degrees, 100); err != ErrUnitDimension {
		t.Errorf("expected ErrUnitDimension for length unit as velocity, got %v", err)
	}
}
