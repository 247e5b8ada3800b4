package seesaw

// HardwareID is the value of the status hardware-id register. It selects the
// pin tables used by the ADC and Timer modules.
type HardwareID uint8

const (
	HardwareSAMD09    HardwareID = 0x55
	HardwareATtiny817 HardwareID = 0x87
)

func (h HardwareID) String() string {
	switch h {
	case HardwareSAMD09:
		return "SAMD09"
	case HardwareATtiny817:
		return "ATtiny817"
	}
	return "unknown(0x" + hex8(uint8(h)) + ")"
}

// Descriptor holds the constants of one device type.
type Descriptor struct {
	Name        string
	DefaultAddr uint16
	HardwareID  HardwareID
	ProductID   uint16
}

// Config controls per-instance settings. All fields are optional.
type Config struct {
	// Address defaults to the descriptor's DefaultAddr if zero.
	Address uint16
}

// Device is one physical Seesaw peripheral: a 7-bit address on a Transport.
// It owns its address on that transport until Close.
type Device struct {
	t    *Transport
	addr uint16
	desc Descriptor

	closed bool
}

// New binds a device to a transport. It does not touch the bus. It fails
// with ErrAddressInUse if another open Device already owns the address.
func New(t *Transport, desc Descriptor, cfg Config) (*Device, error) {
	addr := cfg.Address
	if addr == 0 {
		addr = desc.DefaultAddr
	}
	addr &= 0x7F
	if err := t.claim(addr); err != nil {
		return nil, err
	}
	return &Device{t: t, addr: addr, desc: desc}, nil
}

func (d *Device) Addr() uint16           { return d.addr }
func (d *Device) Descriptor() Descriptor { return d.desc }
func (d *Device) Transport() *Transport  { return d.t }

// Close releases the address so another Device may be bound to it. The
// peripheral itself is left untouched. The Device must not be used after
// Close.
func (d *Device) Close() error {
	if !d.closed {
		d.closed = true
		d.t.unclaim(d.addr)
	}
	return nil
}
