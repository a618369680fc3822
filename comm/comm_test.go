package comm_test

import (
	"bytes"
	"io"
	"net"
	"testing"
	"time"

	"github.com/obskit/zaberselect/comm"
)

// pipeMaker returns a maker whose connections are loopbacks, and a counter
// of how many were made.
func pipeMaker() (comm.CreationFunc, *int) {
	made := 0
	maker := func() (io.ReadWriteCloser, error) {
		c1, _ := net.Pipe()
		made++
		return c1, nil
	}
	return maker, &made
}

func TestPoolReusesIdleConnections(t *testing.T) {
	maker, made := pipeMaker()
	pool := comm.NewPool(1, time.Minute, maker)
	for i := 0; i < 3; i++ {
		conn, err := pool.Get()
		if err != nil {
			t.Fatal("could not get connection:", err)
		}
		pool.Put(conn)
	}
	if *made != 1 {
		t.Errorf("expected 1 connection to be made, got %d", *made)
	}
	if pool.Size() != 1 {
		t.Errorf("expected pool size 1, got %d", pool.Size())
	}
}

func TestPoolDestroyedConnectionsAreRemade(t *testing.T) {
	maker, made := pipeMaker()
	pool := comm.NewPool(1, time.Minute, maker)
	conn, err := pool.Get()
	if err != nil {
		t.Fatal("could not get connection:", err)
	}
	pool.Destroy(conn)
	if pool.Size() != 0 {
		t.Errorf("expected empty pool after destroy, got size %d", pool.Size())
	}
	conn, err = pool.Get()
	if err != nil {
		t.Fatal("could not get connection:", err)
	}
	pool.Put(conn)
	if *made != 2 {
		t.Errorf("expected 2 connections to be made, got %d", *made)
	}
}

func TestPoolReturnWithError(t *testing.T) {
	maker, _ := pipeMaker()
	pool := comm.NewPool(1, time.Minute, maker)
	conn, _ := pool.Get()
	pool.ReturnWithError(conn, io.EOF)
	if pool.Size() != 0 {
		t.Errorf("errored connection should be destroyed, pool size %d", pool.Size())
	}
	conn, _ = pool.Get()
	pool.ReturnWithError(conn, nil)
	if pool.Size() != 1 {
		t.Errorf("clean connection should be pooled, pool size %d", pool.Size())
	}
}

func TestPoolBlocksWhenExhausted(t *testing.T) {
	maker, _ := pipeMaker()
	pool := comm.NewPool(1, time.Minute, maker)
	held, err := pool.Get()
	if err != nil {
		t.Fatal("could not get connection:", err)
	}
	got := make(chan io.ReadWriter, 1)
	go func() {
		rw, _ := pool.Get()
		got <- rw
	}()
	select {
	case <-got:
		t.Fatal("pool handed out more connections than its size")
	case <-time.After(50 * time.Millisecond):
	}
	pool.Put(held)
	select {
	case <-got:
	case <-time.After(time.Second):
		t.Fatal("blocked Get never received the returned connection")
	}
}

func TestPoolReclaimsIdleConnections(t *testing.T) {
	maker, _ := pipeMaker()
	pool := comm.NewPool(1, 10*time.Millisecond, maker)
	conn, _ := pool.Get()
	pool.Put(conn)
	time.Sleep(100 * time.Millisecond)
	if pool.Size() != 0 {
		t.Errorf("expected idle connections to be reclaimed, pool size %d", pool.Size())
	}
}

type rwBuffer struct {
	in  *bytes.Buffer
	out *bytes.Buffer
}

func (r rwBuffer) Read(p []byte) (int, error)  { return r.in.Read(p) }
func (r rwBuffer) Write(p []byte) (int, error) { return r.out.Write(p) }

func TestTerminatorFraming(t *testing.T) {
	raw := rwBuffer{in: bytes.NewBufferString("@01 0 OK IDLE -- 0\r\n"), out: &bytes.Buffer{}}
	wrap := comm.NewTerminator(raw, '\n', '\n')
	n, err := io.WriteString(wrap, "/get pos")
	if err != nil {
		t.Fatal(err)
	}
	if n != len("/get pos") {
		t.Errorf("expected write length %d, got %d", len("/get pos"), n)
	}
	if got := raw.out.String(); got != "/get pos\n" {
		t.Errorf("expected terminated write, got %q", got)
	}
	buf := make([]byte, 64)
	n, err = wrap.Read(buf)
	if err != nil {
		t.Fatal(err)
	}
	if got := string(buf[:n]); got != "@01 0 OK IDLE -- 0" {
		t.Errorf("expected stripped reply, got %q", got)
	}
}

func TestTimeoutRequiresDeadlineSupport(t *testing.T) {
	raw := rwBuffer{in: &bytes.Buffer{}, out: &bytes.Buffer{}}
	_, err := comm.NewTimeout(raw, time.Second)
	if err != comm.ErrTimeoutUnsupported {
		t.Errorf("expected ErrTimeoutUnsupported for plain buffer, got %v", err)
	}
	c1, _ := net.Pipe()
	defer c1.Close()
	_, err = comm.NewTimeout(c1, time.Second)
	if err != nil {
		t.Errorf("expected net.Pipe to support deadlines, got %v", err)
	}
}
