package zaber

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/obskit/zaberselect/comm"
	"github.com/tarm/serial"
)

const (
	// Terminator is the request and reply terminator
	Terminator = '\n'

	// replyMarker is the first byte of a command reply
	replyMarker = '@'

	flagOK       = "OK"
	flagRejected = "RJ"
	statusBusy   = "BUSY"

	// pollInterval is how often a moving axis is pinged for idleness
	pollInterval = 100 * time.Millisecond
)

// reply is one parsed response line from a device
type reply struct {
	Address int
	Axis    int
	Flag    string
	Busy    bool
	Warning string
	Data    string
}

func parseReply(raw string) (reply, error) {
	if len(raw) == 0 || raw[0] != replyMarker {
		return reply{}, ErrBadReply{Resp: raw}
	}
	fields := strings.Fields(raw[1:])
	if len(fields) < 5 {
		return reply{}, ErrBadReply{Resp: raw}
	}
	addr, err := strconv.Atoi(fields[0])
	if err != nil {
		return reply{}, ErrBadReply{Resp: raw}
	}
	ax, err := strconv.Atoi(fields[1])
	if err != nil {
		return reply{}, ErrBadReply{Resp: raw}
	}
	return reply{
		Address: addr,
		Axis:    ax,
		Flag:    fields[2],
		Busy:    fields[3] == statusBusy,
		Warning: fields[4],
		Data:    strings.Join(fields[5:], " "),
	}, nil
}

// makeSerConf makes a new serial.Config with correct parity, baud, etc, set.
// The read timeout doubles as the end-of-enumeration marker for broadcasts.
func makeSerConf(addr string) *serial.Config {
	return &serial.Config{
		Name:        addr,
		Baud:        115200,
		Size:        8,
		Parity:      serial.ParityNone,
		StopBits:    serial.Stop1,
		ReadTimeout: 500 * time.Millisecond}
}

// pools caches one comm.Pool per port.  Consumers open and close a
// Connection around every operation; the pool keeps the OS device node
// alive between operations and frees it after a period of disuse, so the
// scoped-open pattern does not pay for a fresh open(2) per call.
var (
	pools   = map[string]*comm.Pool{}
	poolsMu sync.Mutex
)

func poolFor(port string) *comm.Pool {
	poolsMu.Lock()
	defer poolsMu.Unlock()
	p, ok := pools[port]
	if !ok {
		p = comm.NewPool(1, 30*time.Second, comm.SerialConnMaker(makeSerConf(port)))
		pools[port] = p
	}
	return p
}

// Open opens a session with the device chain on the named serial port.
// scale is the device's microsteps per physical unit (mm or degree,
// whichever the deployment's Units use); see Units.
func Open(port string, scale float64) (Connection, error) {
	p := poolFor(port)
	raw, err := p.Get()
	if err != nil {
		return nil, err
	}
	return &conn{
		pool:  p,
		raw:   raw,
		wrap:  comm.NewTerminator(raw, Terminator, Terminator),
		scale: scale,
	}, nil
}

// ASCIIOpener returns an Opener bound to the given microstep scale
func ASCIIOpener(scale float64) Opener {
	return func(port string) (Connection, error) {
		return Open(port, scale)
	}
}

type conn struct {
	pool  *comm.Pool
	raw   io.ReadWriter
	wrap  io.ReadWriter
	scale float64

	// err holds the first transport fault; a faulted connection is
	// destroyed instead of returned to the pool at Close
	err error
}

// Close gives the underlying connection back to the port's pool
func (c *conn) Close() error {
	c.pool.ReturnWithError(c.raw, c.err)
	return nil
}

// DetectDevices broadcasts to the chain and collects one reply per device.
// Enumeration ends when the read times out; zero replies means an empty
// (or absent) chain and is not an error at this layer.
func (c *conn) DetectDevices() ([]Device, error) {
	if _, err := io.WriteString(c.wrap, "/"); err != nil {
		c.err = err
		return nil, err
	}
	var devs []Device
	buf := make([]byte, 256)
	for {
		n, err := c.wrap.Read(buf)
		if err != nil {
			// timeout: every device that exists has answered
			break
		}
		r, err := parseReply(string(buf[:n]))
		if err != nil {
			// unread replies may still be in flight; do not let this
			// connection back into the pool
			c.err = err
			return nil, err
		}
		devs = append(devs, &device{c: c, addr: r.Address})
	}
	return devs, nil
}

// txrxRaw sends one command and parses the single reply
func (c *conn) txrxRaw(cmd string) (reply, error) {
	if _, err := io.WriteString(c.wrap, cmd); err != nil {
		c.err = err
		return reply{}, err
	}
	buf := make([]byte, 256)
	n, err := c.wrap.Read(buf)
	if err != nil {
		c.err = err
		return reply{}, err
	}
	return parseReply(string(buf[:n]))
}

// txrx is txrxRaw plus OK/RJ handling
func (c *conn) txrx(cmd string) (reply, error) {
	r, err := c.txrxRaw(cmd)
	if err != nil {
		return r, err
	}
	if r.Flag != flagOK {
		return r, ErrCommandRejected{Command: cmd, Reason: r.Data}
	}
	return r, nil
}

type device struct {
	c    *conn
	addr int
}

func (d *device) Address() int {
	return d.addr
}

func (d *device) Axis(n int) Axis {
	return &axis{c: d.c, dev: d.addr, idx: n}
}

func (d *device) SetSetting(name string, value float64) error {
	v := strconv.FormatFloat(value, 'f', -1, 64)
	_, err := d.c.txrx(fmt.Sprintf("/%d 0 set %s %s", d.addr, name, v))
	return err
}

type axis struct {
	c   *conn
	dev int
	idx int
}

func (a *axis) command(cmd string) (reply, error) {
	return a.c.txrx(fmt.Sprintf("/%d %d %s", a.dev, a.idx, cmd))
}

func (a *axis) Position(unit Units) (float64, error) {
	r, err := a.command("get pos")
	if err != nil {
		return 0, err
	}
	native, err := strconv.ParseFloat(r.Data, 64)
	if err != nil {
		return 0, ErrBadReply{Resp: r.Data}
	}
	return fromNativeLength(native, unit, a.c.scale)
}

func (a *axis) MoveRelative(amount float64, lengthUnit Units, velocity float64, velocityUnit Units) error {
	return a.move("move rel", amount, lengthUnit, velocity, velocityUnit)
}

func (a *axis) MoveAbsolute(position float64, lengthUnit Units, velocity float64, velocityUnit Units) error {
	return a.move("move abs", position, lengthUnit, velocity, velocityUnit)
}

func (a *axis) move(verb string, amount float64, lengthUnit Units, velocity float64, velocityUnit Units) error {
	steps, err := toNativeLength(amount, lengthUnit, a.c.scale)
	if err != nil {
		return err
	}
	if err := a.setSpeed(velocity, velocityUnit); err != nil {
		return err
	}
	if _, err := a.command(fmt.Sprintf("%s %d", verb, int64(math.Round(steps)))); err != nil {
		return err
	}
	return a.waitUntilIdle()
}

// setSpeed writes the axis maxspeed setting, which governs the following
// move.  A velocity of zero leaves the device's current setting alone.
func (a *axis) setSpeed(velocity float64, unit Units) error {
	if velocity == 0 {
		return nil
	}
	perSec, err := toNativeVelocity(velocity, unit, a.c.scale)
	if err != nil {
		return err
	}
	_, err = a.command(fmt.Sprintf("set maxspeed %d", int64(math.Round(perSec*maxspeedScale))))
	return err
}

// waitUntilIdle polls the axis until its status leaves BUSY.  The driver
// offers only blocking moves; callers that want concurrency own it.
func (a *axis) waitUntilIdle() error {
	for {
		r, err := a.c.txrx(fmt.Sprintf("/%d %d", a.dev, a.idx))
		if err != nil {
			return err
		}
		if !r.Busy {
			return nil
		}
		time.Sleep(pollInterval)
	}
}

func (a *axis) Home() error {
	if _, err := a.command("home"); err != nil {
		return err
	}
	return a.waitUntilIdle()
}

func (a *axis) Stop() error {
	_, err := a.command("stop")
	return err
}
