package selector

import (
	"log"

	"github.com/obskit/zaberselect/zaber"
)

// Motor exposes raw motion primitives for a single-device, single-axis
// stage on a named serial port.
//
// Every operation opens its own driver session: acquire the port, enumerate
// the chain, assert exactly one device, talk to axis 1, release.  Nothing
// is cached between operations, so a crashed or power-cycled stage costs
// nothing to recover from; the connection pool inside the driver absorbs
// the latency of the repeated opens.
type Motor struct {
	// Port is the serial port the stage is on, e.g. /dev/ttyUSB0
	Port string

	// Basis is the home/reference position, in LengthUnit
	Basis float64

	// Speed is the default speed for moves, in SpeedUnit.  Zero defers to
	// the device's own speed setting.
	Speed float64

	// LengthUnit is the default unit for positions and move lengths
	LengthUnit zaber.Units

	// SpeedUnit is the default unit for speeds
	SpeedUnit zaber.Units

	// Open opens driver sessions; zaber.ASCIIOpener for hardware, or a
	// simulator's Opener
	Open zaber.Opener

	// Log receives operational logging; nil falls back to the process-wide
	// default logger
	Log *log.Logger
}

func (m *Motor) logger() *log.Logger {
	if m.Log != nil {
		return m.Log
	}
	return log.Default()
}

// session opens a driver session and resolves the single expected device's
// first axis.  The returned func releases the session and must be called on
// every path.
func (m *Motor) session() (zaber.Axis, func(), error) {
	dev, done, err := m.deviceSession()
	if err != nil {
		return nil, nil, err
	}
	return dev.Axis(1), done, nil
}

func (m *Motor) deviceSession() (zaber.Device, func(), error) {
	conn, err := m.Open(m.Port)
	if err != nil {
		return nil, nil, err
	}
	devs, err := conn.DetectDevices()
	if err != nil {
		conn.Close()
		return nil, nil, err
	}
	switch {
	case len(devs) == 0:
		conn.Close()
		return nil, nil, ErrNoDevice{Port: m.Port}
	case len(devs) > 1:
		conn.Close()
		return nil, nil, ErrAmbiguousDevice{Port: m.Port, Count: len(devs)}
	}
	return devs[0], func() { conn.Close() }, nil
}

// MoveBy moves the stage by length at the default speed and units, blocking
// until the move completes
func (m *Motor) MoveBy(length float64) error {
	return m.MoveByAt(length, m.Speed, m.LengthUnit, m.SpeedUnit)
}

// MoveByAt moves the stage by length in lengthUnit at speed in speedUnit
func (m *Motor) MoveByAt(length, speed float64, lengthUnit, speedUnit zaber.Units) error {
	ax, done, err := m.session()
	if err != nil {
		return err
	}
	defer done()
	return ax.MoveRelative(length, lengthUnit, speed, speedUnit)
}

// CheckPosition returns the current position in the default length unit
func (m *Motor) CheckPosition() (float64, error) {
	return m.CheckPositionIn(m.LengthUnit)
}

// CheckPositionIn returns the current position in the requested unit
func (m *Motor) CheckPositionIn(unit zaber.Units) (float64, error) {
	ax, done, err := m.session()
	if err != nil {
		return 0, err
	}
	defer done()
	return ax.Position(unit)
}

// MoveTo moves the stage to position at the default speed and units
func (m *Motor) MoveTo(position float64) error {
	return m.MoveToAt(position, m.Speed, m.LengthUnit, m.SpeedUnit)
}

// MoveToAt moves the stage to position in lengthUnit at speed in speedUnit.
// The driver's absolute move is used, so the command lands correctly even if
// something else moved the stage since it was last read.
func (m *Motor) MoveToAt(position, speed float64, lengthUnit, speedUnit zaber.Units) error {
	ax, done, err := m.session()
	if err != nil {
		return err
	}
	defer done()
	return ax.MoveAbsolute(position, lengthUnit, speed, speedUnit)
}

// ToBasis moves the stage to its configured basis position
func (m *Motor) ToBasis() error {
	return m.MoveTo(m.Basis)
}
