package selector_test

import (
	"math"
	"testing"

	"github.com/obskit/zaberselect/selector"
	"github.com/obskit/zaberselect/zaber"
)

func newMotor(sim *zaber.Sim) *selector.Motor {
	return &selector.Motor{
		Port:       "/dev/ttyUSB0",
		Basis:      10,
		Speed:      5,
		LengthUnit: zaber.Degrees,
		SpeedUnit:  zaber.DegreesPerSecond,
		Open:       sim.Opener(),
		Log:        quiet(),
	}
}

func TestMoveByUsesDefaults(t *testing.T) {
	sim := zaber.NewSim()
	m := newMotor(sim)
	if err := m.MoveBy(30); err != nil {
		t.Fatal(err)
	}
	moves := sim.Moves()
	if len(moves) != 1 {
		t.Fatalf("expected one move, got %d", len(moves))
	}
	if moves[0].Amount != 30 {
		t.Errorf("expected +30, got %g", moves[0].Amount)
	}
	if moves[0].Velocity != 5 {
		t.Errorf("expected default speed 5, got %g", moves[0].Velocity)
	}
}

func TestMoveByAtOverridesSpeed(t *testing.T) {
	sim := zaber.NewSim()
	m := newMotor(sim)
	if err := m.MoveByAt(-15, 2.5, zaber.Degrees, zaber.DegreesPerSecond); err != nil {
		t.Fatal(err)
	}
	moves := sim.Moves()
	if moves[0].Amount != -15 || moves[0].Velocity != 2.5 {
		t.Errorf("expected -15 at 2.5, got %+v", moves[0])
	}
}

func TestMoveToIssuesAbsoluteMove(t *testing.T) {
	sim := zaber.NewSim()
	sim.SetPosition(25)
	m := newMotor(sim)
	if err := m.MoveTo(100); err != nil {
		t.Fatal(err)
	}
	moves := sim.Moves()
	if len(moves) != 1 {
		t.Fatalf("expected one move, got %d", len(moves))
	}
	if !moves[0].Absolute {
		t.Error("expected an absolute move")
	}
	if math.Abs(sim.Position()-100) > 1e-12 {
		t.Errorf("expected to land at 100, got %g", sim.Position())
	}
}

func TestToBasis(t *testing.T) {
	sim := zaber.NewSim()
	sim.SetPosition(-40)
	m := newMotor(sim)
	if err := m.ToBasis(); err != nil {
		t.Fatal(err)
	}
	if got := sim.Position(); got != m.Basis {
		t.Errorf("expected the basis position %g, got %g", m.Basis, got)
	}
}

func TestCheckPosition(t *testing.T) {
	sim := zaber.NewSim()
	sim.SetPosition(62.5)
	m := newMotor(sim)
	pos, err := m.CheckPosition()
	if err != nil {
		t.Fatal(err)
	}
	if pos != 62.5 {
		t.Errorf("expected 62.5, got %g", pos)
	}
}
