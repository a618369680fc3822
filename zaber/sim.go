package zaber

import "sync"

// Sim is an in-memory stand-in for a device chain, used by the tests and by
// the server's mock mode.  It treats units as pass-through: positions and
// velocities are stored exactly as commanded, so a Sim behaves like a
// device whose microstep scale is 1.
//
// The zero value is not useful; create with NewSim.
type Sim struct {
	// NumDevices is how many devices enumeration reports.  Values other
	// than 1 exercise the adapter's discovery fault handling.
	NumDevices int

	mu       sync.Mutex
	position float64
	moves    []SimMove
	settings map[string]float64
}

// SimMove records one commanded move
type SimMove struct {
	// Amount is the signed displacement, in the commanded length unit
	Amount float64

	// Absolute is true when the move was commanded as an absolute position
	Absolute bool

	// Velocity is the commanded speed, zero meaning "device default"
	Velocity float64
}

// NewSim returns a Sim presenting a single idle device at position zero
func NewSim() *Sim {
	return &Sim{NumDevices: 1, settings: map[string]float64{}}
}

// Opener returns an Opener whose connections all share this Sim's state,
// mirroring how repeated serial opens reach the same physical stage.
func (s *Sim) Opener() Opener {
	return func(port string) (Connection, error) {
		return simConn{s: s}, nil
	}
}

// Position returns the simulated axis position
func (s *Sim) Position() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.position
}

// SetPosition places the simulated axis, for test arrangement
func (s *Sim) SetPosition(v float64) {
	s.mu.Lock()
	s.position = v
	s.mu.Unlock()
}

// Moves returns a copy of the commanded move log
func (s *Sim) Moves() []SimMove {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]SimMove, len(s.moves))
	copy(out, s.moves)
	return out
}

// Setting returns a device setting previously written with SetSetting
func (s *Sim) Setting(name string) (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.settings[name]
	return v, ok
}

type simConn struct {
	s *Sim
}

func (c simConn) DetectDevices() ([]Device, error) {
	devs := make([]Device, c.s.NumDevices)
	for i := range devs {
		devs[i] = simDevice{s: c.s, addr: i + 1}
	}
	return devs, nil
}

func (c simConn) Close() error {
	return nil
}

type simDevice struct {
	s    *Sim
	addr int
}

func (d simDevice) Address() int {
	return d.addr
}

func (d simDevice) Axis(n int) Axis {
	return simAxis{s: d.s}
}

func (d simDevice) SetSetting(name string, value float64) error {
	d.s.mu.Lock()
	d.s.settings[name] = value
	d.s.mu.Unlock()
	return nil
}

type simAxis struct {
	s *Sim
}

func (a simAxis) MoveRelative(amount float64, lengthUnit Units, velocity float64, velocityUnit Units) error {
	a.s.mu.Lock()
	a.s.position += amount
	a.s.moves = append(a.s.moves, SimMove{Amount: amount, Velocity: velocity})
	a.s.mu.Unlock()
	return nil
}

func (a simAxis) MoveAbsolute(position float64, lengthUnit Units, velocity float64, velocityUnit Units) error {
	a.s.mu.Lock()
	a.s.moves = append(a.s.moves, SimMove{Amount: position - a.s.position, Absolute: true, Velocity: velocity})
	a.s.position = position
	a.s.mu.Unlock()
	return nil
}

func (a simAxis) Position(unit Units) (float64, error) {
	return a.s.Position(), nil
}

func (a simAxis) Home() error {
	a.s.mu.Lock()
	a.s.moves = append(a.s.moves, SimMove{Amount: -a.s.position, Absolute: true})
	a.s.position = 0
	a.s.mu.Unlock()
	return nil
}

func (a simAxis) Stop() error {
	return nil
}
