// Package selector adapts a Zaber stage into a mode selector for an
// observatory automation framework: a mapping from symbolic mode names
// (e.g. spectroscopy, photometry) to stage positions, driven through the
// framework's mode and motion capability contracts.
package selector

import (
	"github.com/obskit/zaberselect/generichttp/motion"
	"github.com/obskit/zaberselect/mathx"
)

const (
	// DefaultSteps is how many constant-velocity segments a profiled move
	// is cut into when Steps is unset.  More segments track the profile
	// curve more closely at the cost of more serial round trips.
	DefaultSteps = 100

	// Undefined is reported by GetMode when the physical position matches
	// no configured mode.  It is telemetry, not a fault: an observer can
	// park the stage anywhere.
	Undefined = "undefined"
)

// Mode is one entry of the mode table
type Mode struct {
	Name     string  `yaml:"Name"`
	Position float64 `yaml:"Position"`
}

// ModeSelector maps symbolic mode names to stage positions.  The mode table
// is fixed at construction; the current mode is always re-derived from the
// physical position, never cached.
type ModeSelector struct {
	Motor

	// Modes is the mode table; ListModes reports it in this order
	Modes []Mode

	// Profile shapes the velocity of SetMode moves; nil means a single
	// move at the full configured speed
	Profile Profile

	// Steps is the number of segments per profiled move, DefaultSteps
	// when zero
	Steps int
}

// ListModes lists the configured mode names in configuration order
func (s *ModeSelector) ListModes() []string {
	names := make([]string, len(s.Modes))
	for i, m := range s.Modes {
		names[i] = m.Name
	}
	return names
}

func (s *ModeSelector) modePosition(name string) (float64, bool) {
	for _, m := range s.Modes {
		if m.Name == name {
			return m.Position, true
		}
	}
	return 0, false
}

// GetMode reads the stage position back and reverse-maps it into the mode
// table.  Matching is to the nearest whole position unit, since a profiled
// move accumulates rounding and need not land exactly.  When nothing
// matches, Undefined is returned and a warning is logged.
func (s *ModeSelector) GetMode() (string, error) {
	pos, err := s.CheckPosition()
	if err != nil {
		return "", err
	}
	for _, m := range s.Modes {
		if mathx.Round(pos, 1) == mathx.Round(m.Position, 1) {
			return m.Name, nil
		}
	}
	s.logger().Printf("position %g matches no mode, available modes are %v", pos, s.ListModes())
	return Undefined, nil
}

// SetMode drives the stage to the named mode.  An unknown name is a typed
// error and issues no motion.  If the stage is already at the mode the move
// is skipped.
func (s *ModeSelector) SetMode(name string) error {
	target, ok := s.modePosition(name)
	if !ok {
		return ErrUnknownMode{Mode: name, Available: s.ListModes()}
	}
	current, err := s.GetMode()
	if err != nil {
		return err
	}
	if current == name {
		s.logger().Printf("mode %s already selected", name)
		return nil
	}
	s.logger().Printf("moving mode selector to %s", name)
	if s.Profile == nil {
		err = s.MoveTo(target)
	} else {
		err = s.ProfileMoveTo(target, s.Profile)
	}
	if err != nil {
		return err
	}
	s.logger().Printf("mode %s ready", name)
	return nil
}

// ProfileMoveTo moves to position in Steps short relative moves whose
// commanded speeds follow profile, so the stage accelerates and decelerates
// smoothly instead of slamming between modes.  Each segment is commanded at
// the mean of the profile over the segment; the stage never executes a true
// continuous-velocity move, the staircase of short constant-velocity
// segments approximates one.
func (s *ModeSelector) ProfileMoveTo(position float64, profile Profile) error {
	steps := s.Steps
	if steps <= 0 {
		steps = DefaultSteps
	}
	current, err := s.CheckPosition()
	if err != nil {
		return err
	}
	sMax := position - current
	if sMax == 0 {
		return nil
	}
	ds := sMax / float64(steps)
	for i := 0; i < steps; i++ {
		x := float64(i) * ds
		v := (profile(x, sMax, s.Speed) + profile(x+ds, sMax, s.Speed)) / 2
		if err := s.MoveByAt(ds, v, s.LengthUnit, s.SpeedUnit); err != nil {
			return err
		}
	}
	return nil
}

// EnableLed turns the stage's indicator LED on or off.  Called once at
// startup; not part of steady-state control flow.
func (s *ModeSelector) EnableLed(on bool) error {
	dev, done, err := s.deviceSession()
	if err != nil {
		return err
	}
	defer done()
	v := 0.
	if on {
		v = 1
	}
	return dev.SetSetting("system.led.enable", v)
}

// The methods below fill out the framework's motion capability contract
// (generichttp/motion).  GetPos/MoveAbs/MoveRel/Home and the velocity pair
// have real behavior; the remainder are deliberate stubs that report not
// implemented rather than pretending, so the framework's polling loops get
// an honest answer and keep running.

// GetPos gets the current position of the stage; the axis argument is
// ignored, there is only one
func (s *ModeSelector) GetPos(axis string) (float64, error) {
	return s.CheckPosition()
}

// MoveAbs moves the stage to an absolute position
func (s *ModeSelector) MoveAbs(axis string, pos float64) error {
	return s.MoveTo(pos)
}

// MoveRel moves the stage a relative amount
func (s *ModeSelector) MoveRel(axis string, dist float64) error {
	return s.MoveBy(dist)
}

// Home returns the stage to its basis position
func (s *ModeSelector) Home(axis string) error {
	return s.ToBasis()
}

// SetVelocity sets the default speed used for subsequent moves
func (s *ModeSelector) SetVelocity(axis string, v float64) error {
	s.Speed = v
	return nil
}

// GetVelocity gets the default speed used for moves
func (s *ModeSelector) GetVelocity(axis string) (float64, error) {
	return s.Speed, nil
}

// Initialize is a stub; the stage needs no initialization sequence
func (s *ModeSelector) Initialize(axis string) error {
	s.logger().Print("initialize: ", ErrNotImplemented)
	return ErrNotImplemented
}

// Park is a stub; the stage has no park position distinct from its modes
func (s *ModeSelector) Park(axis string) error {
	s.logger().Print("park: ", ErrNotImplemented)
	return ErrNotImplemented
}

// Stop is a stub; moves run to completion once issued
func (s *ModeSelector) Stop(axis string) error {
	s.logger().Print("stop: ", ErrNotImplemented)
	return ErrNotImplemented
}

// GetStatus is a stub and always reports StatusError, the contract's
// "status unavailable" value
func (s *ModeSelector) GetStatus(axis string) (motion.Status, error) {
	s.logger().Print("motion status: ", ErrNotImplemented)
	return motion.StatusError, nil
}

// GetReady is a stub and always reports ready
func (s *ModeSelector) GetReady(axis string) (bool, error) {
	s.logger().Print("ready: ", ErrNotImplemented)
	return true, nil
}
