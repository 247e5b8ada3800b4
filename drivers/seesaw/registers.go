package seesaw

// Module is the base address of a Seesaw register block. The firmware also
// reports the set of compiled-in modules as a bitmask indexed by this value
// (see Capabilities).
type Module uint8

const (
	ModuleStatus    Module = 0x00
	ModuleGPIO      Module = 0x01
	ModuleSercom0   Module = 0x02
	ModuleTimer     Module = 0x08
	ModuleADC       Module = 0x09
	ModuleDAC       Module = 0x0A
	ModuleInterrupt Module = 0x0B
	ModuleDAP       Module = 0x0C
	ModuleEEPROM    Module = 0x0D
	ModuleNeopixel  Module = 0x0E
	ModuleTouch     Module = 0x0F
	ModuleKeypad    Module = 0x10
	ModuleEncoder   Module = 0x11
	ModuleSpectrum  Module = 0x12
)

// knownModules lists every module in register order.
var knownModules = [...]Module{
	ModuleStatus, ModuleGPIO, ModuleSercom0, ModuleTimer, ModuleADC,
	ModuleDAC, ModuleInterrupt, ModuleDAP, ModuleEEPROM, ModuleNeopixel,
	ModuleTouch, ModuleKeypad, ModuleEncoder, ModuleSpectrum,
}

func (m Module) String() string {
	switch m {
	case ModuleStatus:
		return "status"
	case ModuleGPIO:
		return "gpio"
	case ModuleSercom0:
		return "sercom0"
	case ModuleTimer:
		return "timer"
	case ModuleADC:
		return "adc"
	case ModuleDAC:
		return "dac"
	case ModuleInterrupt:
		return "interrupt"
	case ModuleDAP:
		return "dap"
	case ModuleEEPROM:
		return "eeprom"
	case ModuleNeopixel:
		return "neopixel"
	case ModuleTouch:
		return "touch"
	case ModuleKeypad:
		return "keypad"
	case ModuleEncoder:
		return "encoder"
	case ModuleSpectrum:
		return "spectrum"
	}
	return "unknown"
}

// Reg addresses one register: module base followed by function id.
type Reg [2]byte

// R builds a register address.
func R(m Module, fn byte) Reg { return Reg{byte(m), fn} }

func (r Reg) Module() Module { return Module(r[0]) }
func (r Reg) Func() byte     { return r[1] }

// Offset returns the register n function slots after r. Used for
// channel-indexed blocks such as the ADC.
func (r Reg) Offset(n uint8) Reg { return Reg{r[0], r[1] + n} }

// --- Status (0x00) ---
var (
	regStatusHWID    = R(ModuleStatus, 0x01) // R, 8 bits
	regStatusVersion = R(ModuleStatus, 0x02) // R, 32 bits: product id + date code
	regStatusOptions = R(ModuleStatus, 0x03) // R, 32 bits: module bitmask
	regStatusTemp    = R(ModuleStatus, 0x04) // R, 32 bits: 16.16 fixed point °C
	regStatusSWReset = R(ModuleStatus, 0x7F) // W, 8 bits: write 0xFF
)

// --- GPIO (0x01), all 32-bit pin masks ---
var (
	regGPIODirSet    = R(ModuleGPIO, 0x02)
	regGPIODirClr    = R(ModuleGPIO, 0x03)
	regGPIOBulk      = R(ModuleGPIO, 0x04)
	regGPIOBulkSet   = R(ModuleGPIO, 0x05)
	regGPIOBulkClr   = R(ModuleGPIO, 0x06)
	regGPIOBulkTgl   = R(ModuleGPIO, 0x07)
	regGPIOIntEnSet  = R(ModuleGPIO, 0x08)
	regGPIOIntEnClr  = R(ModuleGPIO, 0x09)
	regGPIOIntFlag   = R(ModuleGPIO, 0x0A)
	regGPIOPullEnSet = R(ModuleGPIO, 0x0B)
	regGPIOPullEnClr = R(ModuleGPIO, 0x0C)
)

// --- Timer (0x08) ---
var (
	regTimerPWM = R(ModuleTimer, 0x01) // W, 16 bits: pin, value
)

// --- ADC (0x09) ---
var (
	regADCChannel0 = R(ModuleADC, 0x07) // R, 16 bits; channel n at 0x07+n
)

// --- Neopixel (0x0E) ---
var (
	regNeopixelPin   = R(ModuleNeopixel, 0x01) // W, 8 bits
	regNeopixelSpeed = R(ModuleNeopixel, 0x02) // W, 8 bits: 0 = 400kHz, 1 = 800kHz
	regNeopixelLen   = R(ModuleNeopixel, 0x03) // W, 16 bits: buffer length in bytes
	regNeopixelBuf   = R(ModuleNeopixel, 0x04) // W, 2-byte offset then data
	regNeopixelShow  = R(ModuleNeopixel, 0x05) // W, no payload
)

// --- Encoder (0x11) ---
var (
	regEncoderIntSet   = R(ModuleEncoder, 0x10) // W, 8 bits
	regEncoderIntClr   = R(ModuleEncoder, 0x20) // W, 8 bits
	regEncoderPosition = R(ModuleEncoder, 0x30) // R/W, signed 32 bits
	regEncoderDelta    = R(ModuleEncoder, 0x40) // R, signed 32 bits
)
