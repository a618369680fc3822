/*Package zaber speaks the Zaber ASCII protocol to a chain of stepper motor
devices on a serial port.

Requests look like "/<device> <axis> <command...>\n" and every addressed
device answers with a reply of the form

	@<device> <axis> <flag> <BUSY|IDLE> <warning> <data...>

terminated by \r\n.  The flag is OK when the command was accepted and RJ
when it was rejected, in which case the data field carries the reason.
A bare "/" broadcast is answered by every device on the chain, which is how
enumeration works.

The package exposes the driver boundary as the Connection/Device/Axis
interfaces so that consumers can be tested against the simulator in this
package (see Sim) instead of hardware.  Open returns the real protocol
implementation.

Devices work in native units (microsteps and microsteps/second); conversion
to physical units goes through a microstep scale supplied when opening the
connection, see Units.
*/
package zaber

import "fmt"

// Connection is a session with a device chain on one port.  It must be
// closed when the operation it was opened for is complete.
type Connection interface {
	// DetectDevices enumerates the devices present on the chain
	DetectDevices() ([]Device, error)

	// Close releases the connection
	Close() error
}

// Device is one controller on the chain
type Device interface {
	// Address returns the device's address on the chain, 1-99
	Address() int

	// Axis returns the nth axis of the device, 1-indexed
	Axis(n int) Axis

	// SetSetting writes a device-scope setting, e.g. system.led.enable
	SetSetting(name string, value float64) error
}

// Axis is a single axis of a device
type Axis interface {
	// MoveRelative moves the axis by amount, blocking until idle.
	// A velocity of zero keeps the device's current speed setting.
	MoveRelative(amount float64, lengthUnit Units, velocity float64, velocityUnit Units) error

	// MoveAbsolute moves the axis to position, blocking until idle
	MoveAbsolute(position float64, lengthUnit Units, velocity float64, velocityUnit Units) error

	// Position returns the current position in the requested unit
	Position(unit Units) (float64, error)

	// Home drives the axis to its reference position, blocking until idle
	Home() error

	// Stop aborts motion on the axis
	Stop() error
}

// Opener opens a Connection to the named port.  Both the ASCII protocol
// implementation and the simulator provide one, so consumers can hold an
// Opener and stay ignorant of which they are talking to.
type Opener func(port string) (Connection, error)

// ErrBadReply is generated when a reply from the device cannot be parsed
type ErrBadReply struct {
	Resp string
}

func (e ErrBadReply) Error() string {
	return fmt.Sprintf("zaber: malformed reply %q", e.Resp)
}

// ErrCommandRejected is generated when the device answers a command with RJ
type ErrCommandRejected struct {
	Command string
	Reason  string
}

func (e ErrCommandRejected) Error() string {
	return fmt.Sprintf("zaber: command %q rejected: %s", e.Command, e.Reason)
}
