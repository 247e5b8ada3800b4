// Package sim emulates Seesaw boards behind an I2C bus. It models enough of
// the firmware (status, GPIO latches and pulls, ADC, PWM, encoder, pixel
// buffer) for tools and tests to run without hardware.
package sim

import (
	"context"
	"encoding/binary"
	"errors"
	"image/color"
	"sync"

	"seesaw-go/drivers/seesaw"
)

var ErrNoDevice = errors.New("sim: no device at address")

// Bus holds the simulated boards, keyed by address.
type Bus struct {
	mu     sync.Mutex
	boards map[uint16]*Board
}

func NewBus() *Bus { return &Bus{boards: map[uint16]*Board{}} }

// Attach places a board for desc at addr (the descriptor's default address
// if zero) and returns it.
func (b *Bus) Attach(desc seesaw.Descriptor, addr uint16) *Board {
	if addr == 0 {
		addr = desc.DefaultAddr
	}
	bd := newBoard(desc)
	b.mu.Lock()
	b.boards[addr] = bd
	b.mu.Unlock()
	return bd
}

func (b *Bus) Tx(addr uint16, w, r []byte) error {
	b.mu.Lock()
	bd := b.boards[addr]
	b.mu.Unlock()
	if bd == nil {
		return ErrNoDevice
	}
	bd.tx(w, r)
	return nil
}

func (b *Bus) TxContext(ctx context.Context, addr uint16, w, r []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.Tx(addr, w, r)
}

// Board is one simulated Seesaw.
type Board struct {
	mu   sync.Mutex
	desc seesaw.Descriptor
	hwid byte
	sel  seesaw.Reg

	resets  int
	dir     uint32 // 1 = output
	latch   uint32
	pullEn  uint32
	ext     map[uint8]bool // externally driven input levels; survive reset
	intEn   uint32
	intFlag uint32

	analog map[uint8]uint16 // by channel register offset; survive reset
	pwm    map[uint8]uint8  // by output index

	position int32
	delta    int32
	encInt   bool

	pixPin   uint8
	pixSpeed uint8
	pixBuf   []byte
	shown    []byte

	tempRaw uint32
	regs    map[seesaw.Reg][]byte // registers without modelled behaviour
}

func newBoard(desc seesaw.Descriptor) *Board {
	b := &Board{desc: desc, hwid: byte(desc.HardwareID), ext: map[uint8]bool{}, analog: map[uint8]uint16{}}
	b.powerOn()
	return b
}

func (b *Board) powerOn() {
	b.dir, b.latch, b.pullEn, b.intEn, b.intFlag = 0, 0, 0, 0, 0
	b.pwm = map[uint8]uint8{}
	b.position, b.delta, b.encInt = 0, 0, false
	b.pixPin, b.pixSpeed, b.pixBuf, b.shown = 0, 1, nil, nil
	b.tempRaw = 25 << 16
	b.regs = map[seesaw.Reg][]byte{}
}

func (b *Board) tx(w, r []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(w) >= 2 {
		b.sel = seesaw.Reg{w[0], w[1]}
		if len(w) > 2 || isCommand(b.sel) {
			b.write(b.sel, w[2:])
		}
	}
	if r != nil {
		for i := range r {
			r[i] = 0
		}
		copy(r, b.read(b.sel))
	}
}

var (
	regHWID     = seesaw.R(seesaw.ModuleStatus, 0x01)
	regVersion  = seesaw.R(seesaw.ModuleStatus, 0x02)
	regOptions  = seesaw.R(seesaw.ModuleStatus, 0x03)
	regTemp     = seesaw.R(seesaw.ModuleStatus, 0x04)
	regSWReset  = seesaw.R(seesaw.ModuleStatus, 0x7F)
	regPWM      = seesaw.R(seesaw.ModuleTimer, 0x01)
	regNeoShow  = seesaw.R(seesaw.ModuleNeopixel, 0x05)
	regEncDelta = seesaw.R(seesaw.ModuleEncoder, 0x40)
)

// isCommand reports registers that act on an empty payload.
func isCommand(r seesaw.Reg) bool { return r == regNeoShow }

func u32(p []byte) uint32 {
	var b [4]byte
	copy(b[:], p)
	return binary.BigEndian.Uint32(b[:])
}

func be32(v uint32) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	return b[:]
}

func (b *Board) write(reg seesaw.Reg, p []byte) {
	switch reg.Module() {
	case seesaw.ModuleStatus:
		if reg == regSWReset && len(p) > 0 && p[0] == 0xFF {
			b.resets++
			b.powerOn()
		}
		return
	case seesaw.ModuleGPIO:
		b.writeGPIO(reg.Func(), u32(p))
		return
	case seesaw.ModuleTimer:
		if reg == regPWM && len(p) >= 2 {
			b.pwm[p[0]] = p[1]
		}
		return
	case seesaw.ModuleEncoder:
		switch reg.Func() {
		case 0x10:
			b.encInt = true
		case 0x20:
			b.encInt = false
		case 0x30:
			b.position = int32(u32(p))
		}
		return
	case seesaw.ModuleNeopixel:
		b.writeNeopixel(reg.Func(), p)
		return
	}
	b.regs[reg] = append([]byte(nil), p...)
}

func (b *Board) writeGPIO(fn byte, m uint32) {
	switch fn {
	case 0x02:
		b.dir |= m
	case 0x03:
		b.dir &^= m
	case 0x05:
		b.latch |= m
	case 0x06:
		b.latch &^= m
	case 0x07:
		b.latch ^= m
	case 0x08:
		b.intEn |= m
	case 0x09:
		b.intEn &^= m
	case 0x0B:
		b.pullEn |= m
	case 0x0C:
		b.pullEn &^= m
	}
}

func (b *Board) writeNeopixel(fn byte, p []byte) {
	switch fn {
	case 0x01:
		if len(p) > 0 {
			b.pixPin = p[0]
		}
	case 0x02:
		if len(p) > 0 {
			b.pixSpeed = p[0]
		}
	case 0x03:
		if len(p) >= 2 {
			b.pixBuf = make([]byte, int(p[0])<<8|int(p[1]))
		}
	case 0x04:
		if len(p) < 2 {
			return
		}
		off := int(p[0])<<8 | int(p[1])
		if off < len(b.pixBuf) {
			copy(b.pixBuf[off:], p[2:])
		}
	case 0x05:
		b.shown = append(b.shown[:0], b.pixBuf...)
	}
}

func (b *Board) levels() uint32 {
	v := b.dir & b.latch
	for pin := uint8(0); pin < 32; pin++ {
		m := uint32(1) << pin
		if b.dir&m != 0 {
			continue
		}
		if lvl, ok := b.ext[pin]; ok {
			if lvl {
				v |= m
			}
		} else if b.pullEn&m != 0 && b.latch&m != 0 {
			v |= m
		}
	}
	return v
}

func (b *Board) read(reg seesaw.Reg) []byte {
	switch reg {
	case regHWID:
		return []byte{b.hwid}
	case regVersion:
		return be32(uint32(b.desc.ProductID)<<16 | 1<<11 | 1<<7 | 24)
	case regOptions:
		return be32(b.options())
	case regTemp:
		return be32(b.tempRaw)
	case regEncDelta:
		d := b.delta
		b.delta = 0
		return be32(uint32(d))
	}
	switch reg.Module() {
	case seesaw.ModuleGPIO:
		switch reg.Func() {
		case 0x04:
			return be32(b.levels())
		case 0x0A:
			f := b.intFlag
			b.intFlag = 0
			return be32(f)
		}
	case seesaw.ModuleADC:
		v := b.analog[reg.Func()-0x07]
		return []byte{byte(v >> 8), byte(v)}
	case seesaw.ModuleEncoder:
		if reg.Func() == 0x30 {
			return be32(uint32(b.position))
		}
	}
	return b.regs[reg]
}

func (b *Board) options() uint32 {
	m := uint32(1)<<seesaw.ModuleStatus | 1<<seesaw.ModuleGPIO
	switch b.desc.ProductID {
	case 0:
		m |= 1<<seesaw.ModuleADC | 1<<seesaw.ModuleTimer
	case 4991:
		m |= 1<<seesaw.ModuleEncoder | 1<<seesaw.ModuleNeopixel
	case 4980:
		m |= 1 << seesaw.ModuleNeopixel
	default:
		m |= 1<<seesaw.ModuleTimer | 1<<seesaw.ModuleADC
	}
	return m
}

// ---- Test-side controls ----

// Resets counts software resets seen by the board.
func (b *Board) Resets() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.resets
}

// SetHardwareID makes the board report id, as a different chip would.
func (b *Board) SetHardwareID(id byte) {
	b.mu.Lock()
	b.hwid = id
	b.mu.Unlock()
}

// Drive forces an input pin to level, as a button or sensor would. A pin
// with an interrupt enabled latches its flag on change.
func (b *Board) Drive(pin uint8, level bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	before := b.levels()
	b.ext[pin] = level
	if changed := before ^ b.levels(); changed&b.intEn != 0 {
		b.intFlag |= changed & b.intEn
	}
}

// Release stops driving pin.
func (b *Board) Release(pin uint8) {
	b.mu.Lock()
	delete(b.ext, pin)
	b.mu.Unlock()
}

// SetAnalog sets the conversion result of ADC channel ch.
func (b *Board) SetAnalog(ch uint8, v uint16) {
	b.mu.Lock()
	b.analog[ch] = v
	b.mu.Unlock()
}

// PWM returns the duty cycle last written to output out.
func (b *Board) PWM(out uint8) uint8 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pwm[out]
}

// Turn moves the encoder by n detents.
func (b *Board) Turn(n int32) {
	b.mu.Lock()
	b.position += n
	b.delta += n
	b.mu.Unlock()
}

// Output reports the latch and direction of pin.
func (b *Board) Output(pin uint8) (isOutput, high bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	m := uint32(1) << pin
	return b.dir&m != 0, b.latch&m != 0
}

// Pixels returns the colours last latched by a show command.
func (b *Board) Pixels() []color.RGBA {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]color.RGBA, len(b.shown)/3)
	for i := range out {
		p := b.shown[3*i:]
		out[i] = color.RGBA{R: p[0], G: p[1], B: p[2], A: 0xFF}
	}
	return out
}

// NeopixelPin returns the configured pixel output pin.
func (b *Board) NeopixelPin() uint8 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pixPin
}
