package mcp2221

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"tinygo.org/x/drivers"
)

var _ drivers.I2C = (*Bridge)(nil)

type peripheral struct {
	writes [][]byte
	data   []byte // returned by reads
}

// fakeChip emulates the bridge's I2C engine well enough to drive the
// transfer state machine.
type fakeChip struct {
	mu      sync.Mutex
	state   byte
	periph  map[uint8]*peripheral
	reports []report

	// pending write
	wAddr  uint8
	wTotal int
	wBuf   []byte

	// pending read
	rBuf []byte

	notReady int  // 0x40 polls answered with "no data" before data flows
	busyOnce bool // refuse the next write chunk once
	cancels  int
	divider  byte
}

func newFakeChip() *fakeChip {
	return &fakeChip{periph: map[uint8]*peripheral{}}
}

func (f *fakeChip) exchange(ctx context.Context, req, rsp *report) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reports = append(f.reports, *req)
	rsp[0] = req[0]

	switch req[0] {
	case cmdStatus:
		if req[2] == subCancel {
			f.state = stateIdle
			f.cancels++
		}
		if req[3] == subSetSpeed {
			f.divider = req[4]
		}
		rsp[statusStateIndex] = f.state

	case cmdWrite, cmdWriteNoStop:
		if f.busyOnce {
			f.busyOnce = false
			rsp[1] = 0x01
			return nil
		}
		total := int(req[1]) | int(req[2])<<8
		addr := req[3] >> 1
		if f.wBuf == nil || f.wAddr != addr {
			f.wAddr, f.wTotal, f.wBuf = addr, total, []byte{}
		}
		n := f.wTotal - len(f.wBuf)
		if n > chunkMax {
			n = chunkMax
		}
		f.wBuf = append(f.wBuf, req[4:4+n]...)
		if len(f.wBuf) < f.wTotal {
			f.state = 0x41
			return nil
		}
		p, ok := f.periph[addr]
		switch {
		case !ok:
			f.state = stateAddrNACK
		case req[0] == cmdWriteNoStop:
			p.writes = append(p.writes, f.wBuf)
			f.state = stateWritingNoStop
		default:
			p.writes = append(p.writes, f.wBuf)
			f.state = stateIdle
		}
		f.wBuf = nil

	case cmdRead, cmdReadRepStart:
		total := int(req[1]) | int(req[2])<<8
		p, ok := f.periph[req[3]>>1]
		if !ok {
			f.state = stateAddrNACK
			return nil
		}
		f.rBuf = append([]byte(nil), p.data[:total]...)
		f.state = 0x55

	case cmdReadGetData:
		if f.state == stateAddrNACK {
			rsp[2] = stateAddrNACK
			return nil
		}
		if f.notReady > 0 {
			f.notReady--
			rsp[3] = readErrorCount
			return nil
		}
		n := len(f.rBuf)
		if n > chunkMax {
			n = chunkMax
		}
		rsp[3] = byte(n)
		copy(rsp[4:], f.rBuf[:n])
		f.rBuf = f.rBuf[n:]
		if len(f.rBuf) == 0 {
			f.state = stateIdle
		}
	}
	return nil
}

func (f *fakeChip) cmds() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []byte
	for _, r := range f.reports {
		out = append(out, r[0])
	}
	return out
}

func testBridge(f *fakeChip) *Bridge {
	b := newBridge(f, nil, time.Second)
	b.poll = time.Microsecond
	return b
}

func TestWrite_Chunked(t *testing.T) {
	f := newFakeChip()
	p := &peripheral{}
	f.periph[0x49] = p
	b := testBridge(f)

	w := make([]byte, 100)
	for i := range w {
		w[i] = byte(i)
	}
	if err := b.Tx(0x49, w, nil); err != nil {
		t.Fatal(err)
	}
	if len(p.writes) != 1 || !bytes.Equal(p.writes[0], w) {
		t.Fatalf("peripheral saw %d writes", len(p.writes))
	}

	var chunks []report
	for _, r := range f.reports {
		if r[0] == cmdWrite {
			chunks = append(chunks, r)
		}
	}
	if len(chunks) != 2 {
		t.Fatalf("%d write reports, want 2", len(chunks))
	}
	for _, c := range chunks {
		if c[1] != 100 || c[2] != 0 || c[3] != 0x49<<1 {
			t.Fatalf("header % x", c[:4])
		}
	}
	if chunks[1][4] != 60 {
		t.Fatalf("second chunk starts at %d", chunks[1][4])
	}
}

func TestWrite_RetriesBusyChunk(t *testing.T) {
	f := newFakeChip()
	f.periph[0x36] = &peripheral{}
	f.busyOnce = true
	b := testBridge(f)
	if err := b.Tx(0x36, []byte{0x0E, 0x05}, nil); err != nil {
		t.Fatal(err)
	}
	if n := len(f.periph[0x36].writes); n != 1 {
		t.Fatalf("%d writes", n)
	}
}

func TestWrite_ZeroLength(t *testing.T) {
	f := newFakeChip()
	f.periph[0x30] = &peripheral{}
	b := testBridge(f)
	if err := b.Tx(0x30, nil, nil); err != nil {
		t.Fatal(err)
	}
	if got := f.periph[0x30].writes; len(got) != 1 || len(got[0]) != 0 {
		t.Fatalf("writes = %v", got)
	}
}

func TestRead(t *testing.T) {
	f := newFakeChip()
	data := make([]byte, 70)
	for i := range data {
		data[i] = byte(0xA0 + i)
	}
	f.periph[0x49] = &peripheral{data: data}
	f.notReady = 2
	b := testBridge(f)

	r := make([]byte, 70)
	if err := b.Tx(0x49, nil, r); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(r, data) {
		t.Fatalf("read % x", r)
	}
}

func TestWriteThenRead_RepeatedStart(t *testing.T) {
	f := newFakeChip()
	f.periph[0x49] = &peripheral{data: []byte{0x55}}
	b := testBridge(f)

	r := make([]byte, 1)
	if err := b.Tx(0x49, []byte{0x00, 0x01}, r); err != nil {
		t.Fatal(err)
	}
	if r[0] != 0x55 {
		t.Fatalf("r = % x", r)
	}
	cmds := f.cmds()
	var seenNoStop, seenRep bool
	for _, c := range cmds {
		switch c {
		case cmdWriteNoStop:
			seenNoStop = true
		case cmdReadRepStart:
			seenRep = seenNoStop
		case cmdWrite, cmdRead:
			t.Fatalf("combined transfer used cmd %#x", c)
		}
	}
	if !seenRep {
		t.Fatalf("cmds % x: want write-no-stop then repeated-start read", cmds)
	}
}

func TestNACK(t *testing.T) {
	f := newFakeChip()
	b := testBridge(f)

	if err := b.Tx(0x20, []byte{1}, nil); !errors.Is(err, ErrNACK) {
		t.Fatalf("write err = %v", err)
	}
	if f.cancels == 0 || f.state != stateIdle {
		t.Fatal("engine not reset after NACK")
	}
	if err := b.Tx(0x20, nil, make([]byte, 2)); !errors.Is(err, ErrNACK) {
		t.Fatalf("read err = %v", err)
	}
}

func TestStateError(t *testing.T) {
	for _, s := range []byte{0x12, 0x17, 0x23, 0x44, 0x52, 0x62} {
		if !errors.Is(stateError(s), ErrTimeout) {
			t.Errorf("state %#x not a timeout", s)
		}
	}
	if stateError(0x25) != ErrNACK || stateError(0x00) != nil || stateError(0x45) != nil {
		t.Fatal("state map")
	}
}

func TestCancelledContext(t *testing.T) {
	f := newFakeChip()
	f.periph[0x49] = &peripheral{}
	b := testBridge(f)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := b.TxContext(ctx, 0x49, []byte{1}, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
	if len(f.periph[0x49].writes) != 0 {
		t.Fatal("cancelled transfer reached the peripheral")
	}
}

func TestSetSpeedAndCancel(t *testing.T) {
	f := newFakeChip()
	b := testBridge(f)
	if err := b.setSpeed(context.Background(), 100000); err != nil {
		t.Fatal(err)
	}
	if f.divider != 117 {
		t.Fatalf("divider = %d", f.divider)
	}
	if err := b.Cancel(); err != nil || f.cancels != 1 {
		t.Fatalf("Cancel = %v, cancels %d", err, f.cancels)
	}
}

func TestClose(t *testing.T) {
	calls := 0
	b := newBridge(newFakeChip(), func() error { calls++; return nil }, time.Second)
	_ = b.Close()
	_ = b.Close()
	if calls != 1 {
		t.Fatalf("closer called %d times", calls)
	}
	if err := b.Tx(0x49, []byte{1}, nil); !errors.Is(err, ErrClosed) {
		t.Fatalf("Tx after Close = %v", err)
	}
	if err := b.Cancel(); !errors.Is(err, ErrClosed) {
		t.Fatalf("Cancel after Close = %v", err)
	}
}

func TestConfigDefaults(t *testing.T) {
	var c Config
	c.defaults()
	if c.VID != VendorID || c.PID != ProductID || c.Speed != DefaultSpeed || c.Timeout != DefaultTimeout {
		t.Fatalf("defaults %+v", c)
	}
	if _, err := Open(Config{Speed: 1000}); !errors.Is(err, ErrSpeed) {
		t.Fatalf("Open with 1kHz = %v", err)
	}
}
