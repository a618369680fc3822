/*Package comm provides connection plumbing for lab hardware.

Most devices in this repository speak a line-oriented ASCII protocol over
RS232 or a terminal server.  The pieces here are composed the same way for
all of them:

 1. a CreationFunc encapsulates how to open the transport (serial port or
    TCP socket)
 2. a Pool owns the connection(s), handing them out one at a time and
    closing them after a period of disuse
 3. the Terminator and Timeout wrappers adapt a raw connection to the
    framing and patience the device wants

Consumers take a connection from the pool around each logical operation and
return it when done, so a wedged connection never outlives the operation
that wedged it.
*/
package comm

import (
	"bufio"
	"errors"
	"io"
	"net"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/tarm/serial"
)

// ErrTimeoutUnsupported is generated when NewTimeout is used on a connection
// that has no deadline support (e.g. a serial port; use the Config's
// ReadTimeout there instead).
var ErrTimeoutUnsupported = errors.New("comm: connection does not support deadlines")

// CreationFunc is a function which returns a new "connection" to something.
// A closure should be used to encapsulate the variables and functions needed.
type CreationFunc func() (io.ReadWriteCloser, error)

// SerialConnMaker returns a CreationFunc that opens the serial port
// described by cfg.
func SerialConnMaker(cfg *serial.Config) CreationFunc {
	return func() (io.ReadWriteCloser, error) {
		return serial.OpenPort(cfg)
	}
}

// BackingOffTCPConnMaker returns a CreationFunc that dials addr with an
// exponential backoff, up to timeout total elapsed time.  Some devices do
// not tolerate connection thrash after a close, so a failed dial is retried
// rather than surfaced immediately.
func BackingOffTCPConnMaker(addr string, timeout time.Duration) CreationFunc {
	return func() (io.ReadWriteCloser, error) {
		var conn net.Conn
		op := func() error {
			var err error
			conn, err = net.DialTimeout("tcp", addr, timeout)
			return err
		}
		err := backoff.Retry(op, &backoff.ExponentialBackOff{
			InitialInterval:     25 * time.Millisecond,
			RandomizationFactor: 0.,
			Multiplier:          2.,
			MaxInterval:         1 * time.Second,
			MaxElapsedTime:      timeout,
			Clock:               backoff.SystemClock})
		if err != nil {
			return nil, err
		}
		return conn, nil
	}
}

type deadliner interface {
	SetReadDeadline(time.Time) error
	SetWriteDeadline(time.Time) error
}

type timeoutWrapper struct {
	rw      io.ReadWriter
	d       deadliner
	timeout time.Duration
}

func (t timeoutWrapper) Read(p []byte) (int, error) {
	t.d.SetReadDeadline(time.Now().Add(t.timeout))
	return t.rw.Read(p)
}

func (t timeoutWrapper) Write(p []byte) (int, error) {
	t.d.SetWriteDeadline(time.Now().Add(t.timeout))
	return t.rw.Write(p)
}

// NewTimeout wraps rw such that each Read or Write carries a deadline of
// now+timeout.  If the connection does not support deadlines,
// ErrTimeoutUnsupported is returned.
func NewTimeout(rw io.ReadWriter, timeout time.Duration) (io.ReadWriter, error) {
	d, ok := rw.(deadliner)
	if !ok {
		return rw, ErrTimeoutUnsupported
	}
	return timeoutWrapper{rw: rw, d: d, timeout: timeout}, nil
}

type terminator struct {
	rw  io.ReadWriter
	buf *bufio.Reader
	rx  byte
	tx  byte
}

func (t *terminator) Write(p []byte) (int, error) {
	n, err := t.rw.Write(append(p, t.tx))
	if n > len(p) {
		n = len(p)
	}
	return n, err
}

func (t *terminator) Read(p []byte) (int, error) {
	data, err := t.buf.ReadBytes(t.rx)
	if err != nil {
		return copy(p, data), err
	}
	// strip the terminator, and a \r if the device sends \r\n
	data = data[:len(data)-1]
	if len(data) > 0 && data[len(data)-1] == '\r' {
		data = data[:len(data)-1]
	}
	return copy(p, data), nil
}

// NewTerminator wraps rw such that writes have tx appended and reads consume
// through rx, returning the payload with the terminator (and a preceding
// carriage return, if any) stripped.  The wrapper buffers the read side, so
// it must live as long as the underlying connection is being read through it.
func NewTerminator(rw io.ReadWriter, rx, tx byte) io.ReadWriter {
	return &terminator{rw: rw, buf: bufio.NewReader(rw), rx: rx, tx: tx}
}
