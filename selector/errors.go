package selector

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotImplemented is reported by the capability stubs that have no real
// behavior on this device.
var ErrNotImplemented = errors.New("selector: not implemented for this device")

// ErrUnknownMode is generated when a mode name is not in the mode table
type ErrUnknownMode struct {
	Mode      string
	Available []string
}

func (e ErrUnknownMode) Error() string {
	return fmt.Sprintf("unknown mode %q, available modes are %s", e.Mode, strings.Join(e.Available, ", "))
}

// ErrNoDevice is generated when enumeration finds nothing on the port
type ErrNoDevice struct {
	Port string
}

func (e ErrNoDevice) Error() string {
	return fmt.Sprintf("no device found on port %s", e.Port)
}

// ErrAmbiguousDevice is generated when enumeration finds more than one
// device on a port configured for exactly one
type ErrAmbiguousDevice struct {
	Port  string
	Count int
}

func (e ErrAmbiguousDevice) Error() string {
	return fmt.Sprintf("expected exactly one device on port %s, found %d", e.Port, e.Count)
}
