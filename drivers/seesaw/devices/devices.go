// Package devices provides ready-made Seesaw board types. Each type embeds
// *seesaw.Device together with the modules its firmware carries, so the
// module methods are called directly on the board value.
package devices

import "seesaw-go/drivers/seesaw"

var (
	GenericDescriptor = seesaw.Descriptor{
		Name:        "generic",
		DefaultAddr: 0x49,
		HardwareID:  seesaw.HardwareSAMD09,
	}
	RotaryEncoderDescriptor = seesaw.Descriptor{
		Name:        "rotary_encoder",
		DefaultAddr: 0x36,
		HardwareID:  seesaw.HardwareSAMD09,
		ProductID:   4991,
	}
	NeoKey1x4Descriptor = seesaw.Descriptor{
		Name:        "neokey_1x4",
		DefaultAddr: 0x30,
		HardwareID:  seesaw.HardwareSAMD09,
		ProductID:   4980,
	}
	ArcadeButton1x4Descriptor = seesaw.Descriptor{
		Name:        "arcade_button_1x4",
		DefaultAddr: 0x3A,
		HardwareID:  seesaw.HardwareATtiny817,
		ProductID:   5296,
	}
)

// Catalog lists every known board descriptor.
var Catalog = []seesaw.Descriptor{
	GenericDescriptor,
	RotaryEncoderDescriptor,
	NeoKey1x4Descriptor,
	ArcadeButton1x4Descriptor,
}

// Lookup returns the descriptor with the given name.
func Lookup(name string) (seesaw.Descriptor, bool) {
	for _, d := range Catalog {
		if d.Name == name {
			return d, true
		}
	}
	return seesaw.Descriptor{}, false
}
