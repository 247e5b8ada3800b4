package mcp2221

import (
	"context"
	"time"
)

const reportSize = 64

type report [reportSize]byte

// link carries one command report and its response.
type link interface {
	exchange(ctx context.Context, req, rsp *report) error
}

const (
	cmdStatus       byte = 0x10 // also "set parameters"
	cmdWrite        byte = 0x90
	cmdRead         byte = 0x91
	cmdReadRepStart byte = 0x93
	cmdWriteNoStop  byte = 0x94
	cmdReadGetData  byte = 0x40

	subCancel       byte = 0x10
	subSetSpeed     byte = 0x20
	speedChangeBusy byte = 0x21

	readErrorCount   byte = 0x7F
	statusStateIndex      = 8
)

const (
	chunkMax     = 60
	maxPolls     = 50
	pollInterval = 300 * time.Microsecond
)

// Engine states reported by the bridge. Only the ones acted on are named.
const (
	stateIdle            byte = 0x00
	stateStartTimeout    byte = 0x12
	stateRepStartTimeout byte = 0x17
	stateAddrTimeout     byte = 0x23
	stateAddrNACK        byte = 0x25
	stateWriteTimeout    byte = 0x44
	stateWritingNoStop   byte = 0x45
	stateReadTimeout     byte = 0x52
	stateStopTimeout     byte = 0x62
)

func stateError(s byte) error {
	switch s {
	case stateAddrNACK:
		return ErrNACK
	case stateStartTimeout, stateRepStartTimeout, stateAddrTimeout,
		stateWriteTimeout, stateReadTimeout, stateStopTimeout:
		return ErrTimeout
	}
	return nil
}

// transferHeader fills the common header of write and read commands.
func transferHeader(m *report, cmd byte, n int, addr uint8, read bool) {
	m[0] = cmd
	m[1] = byte(n)
	m[2] = byte(n >> 8)
	m[3] = addr << 1
	if read {
		m[3] |= 0x01
	}
}

// session runs one bridge operation. It holds the caller's context.
type session struct {
	ctx     context.Context
	l       link
	timeout time.Duration
	poll    time.Duration
}

func (s *session) send(req *report) (*report, error) {
	ctx := s.ctx
	if _, ok := ctx.Deadline(); !ok && s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	rsp := new(report)
	if err := s.l.exchange(ctx, req, rsp); err != nil {
		if cerr := s.ctx.Err(); cerr != nil {
			return nil, cerr
		}
		return nil, err
	}
	return rsp, nil
}

func (s *session) wait() error {
	t := time.NewTimer(s.poll)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	}
}

func (s *session) status() (byte, error) {
	var m report
	m[0] = cmdStatus
	rsp, err := s.send(&m)
	if err != nil {
		return 0, err
	}
	return rsp[statusStateIndex], nil
}

func (s *session) cancel() error {
	var m report
	m[0] = cmdStatus
	m[2] = subCancel
	if _, err := s.send(&m); err != nil {
		return err
	}
	return s.wait()
}

func (s *session) setSpeed(hz uint32) error {
	var m report
	m[0] = cmdStatus
	m[3] = subSetSpeed
	m[4] = byte(clockHz/hz - 3)
	for i := 0; i < 2; i++ {
		rsp, err := s.send(&m)
		if err != nil {
			return err
		}
		if rsp[3] != speedChangeBusy {
			return nil
		}
		// A stuck transfer blocks the speed change.
		if err := s.cancel(); err != nil {
			return err
		}
	}
	return ErrBusy
}

// idle makes sure the engine is ready for a new transfer.
func (s *session) idle(allowNoStop bool) error {
	st, err := s.status()
	if err != nil {
		return err
	}
	if st == stateIdle || (allowNoStop && st == stateWritingNoStop) {
		return nil
	}
	return s.cancel()
}

func (s *session) write(addr uint8, w []byte, stop bool) error {
	if err := s.idle(false); err != nil {
		return err
	}
	cmd := cmdWrite
	if !stop {
		cmd = cmdWriteNoStop
	}
	// A zero-length write still addresses the peripheral.
	for pos := 0; ; {
		n := len(w) - pos
		if n > chunkMax {
			n = chunkMax
		}
		var m report
		transferHeader(&m, cmd, len(w), addr, false)
		copy(m[4:], w[pos:pos+n])
		if err := s.sendChunk(&m); err != nil {
			return err
		}
		pos += n
		if pos >= len(w) {
			break
		}
	}
	return s.settle(cmd == cmdWriteNoStop)
}

// sendChunk retries a report the bridge refused because the previous chunk
// is still on the wire.
func (s *session) sendChunk(m *report) error {
	for i := 0; i < maxPolls; i++ {
		rsp, err := s.send(m)
		if err != nil {
			return err
		}
		if rsp[1] == 0 {
			return nil
		}
		if err := stateError(rsp[2]); err != nil {
			s.cancel()
			return err
		}
		if err := s.wait(); err != nil {
			return err
		}
	}
	return ErrBusy
}

// settle polls status until the write has left the engine.
func (s *session) settle(noStop bool) error {
	for i := 0; i < maxPolls; i++ {
		st, err := s.status()
		if err != nil {
			return err
		}
		if st == stateIdle || (noStop && st == stateWritingNoStop) {
			return nil
		}
		if err := stateError(st); err != nil {
			s.cancel()
			return err
		}
		if err := s.wait(); err != nil {
			return err
		}
	}
	return ErrTimeout
}

func (s *session) read(addr uint8, r []byte, repStart bool) error {
	if err := s.idle(repStart); err != nil {
		return err
	}
	cmd := cmdRead
	if repStart {
		cmd = cmdReadRepStart
	}
	var m report
	transferHeader(&m, cmd, len(r), addr, true)
	if err := s.sendChunk(&m); err != nil {
		return err
	}

	for pos := 0; pos < len(r); {
		n, err := s.fetch(r[pos:])
		if err != nil {
			return err
		}
		pos += n
	}
	return nil
}

// fetch collects the next chunk of read data into dst.
func (s *session) fetch(dst []byte) (int, error) {
	for i := 0; i < maxPolls; i++ {
		var m report
		m[0] = cmdReadGetData
		rsp, err := s.send(&m)
		if err != nil {
			return 0, err
		}
		if err := stateError(rsp[2]); err != nil {
			s.cancel()
			return 0, err
		}
		n := int(rsp[3])
		if rsp[1] != 0 || n == 0 || rsp[3] == readErrorCount {
			if err := s.wait(); err != nil {
				return 0, err
			}
			continue
		}
		if n > chunkMax {
			n = chunkMax
		}
		return copy(dst, rsp[4:4+n]), nil
	}
	s.cancel()
	return 0, ErrTimeout
}
