package seesaw

import (
	"bytes"
	"context"
	"errors"
	"image/color"
	"testing"
)

func TestNeopixel_Enable(t *testing.T) {
	d, f := testDevice(HardwareSAMD09)
	p := NewNeopixel(d, NeopixelConfig{Pin: 3, Count: 4})
	if err := p.EnableNeopixel(context.Background()); err != nil {
		t.Fatal(err)
	}
	ops := f.snapshot()
	if len(ops) != 6 {
		t.Fatalf("ops = %+v", ops)
	}
	if !bytes.Equal(ops[0].data, []byte{0x0E, 0x01, 3}) {
		t.Fatalf("pin write % x", ops[0].data)
	}
	if ops[2].kind != opDelay || ops[2].d != NeopixelSettle {
		t.Fatalf("missing settle after pin: %+v", ops[2])
	}
	if !bytes.Equal(ops[3].data, []byte{0x0E, 0x03, 0x00, 12}) {
		t.Fatalf("length write % x", ops[3].data)
	}
	if ops[5].d != NeopixelSettle {
		t.Fatalf("missing settle after length: %+v", ops[5])
	}
}

func TestNeopixel_Frames(t *testing.T) {
	d, f := testDevice(HardwareSAMD09)
	p := NewNeopixel(d, NeopixelConfig{Pin: 6, Count: 100})
	ctx := context.Background()

	if err := p.SetNthNeopixelColor(ctx, 90, color.RGBA{R: 1, G: 2, B: 3, A: 0xFF}); err != nil {
		t.Fatal(err)
	}
	// Offset 270 = 0x010E; alpha is dropped, trailing byte is zero.
	want := []byte{0x0E, 0x04, 0x01, 0x0E, 1, 2, 3, 0}
	if w := f.writes(); !bytes.Equal(w[0], want) {
		t.Fatalf("frame % x, want % x", w[0], want)
	}

	f.reset()
	if err := p.SyncNeopixel(ctx); err != nil {
		t.Fatal(err)
	}
	ops := f.snapshot()
	if len(ops) != 3 || !bytes.Equal(ops[0].data, []byte{0x0E, 0x05}) {
		t.Fatalf("show ops = %+v", ops)
	}
	if ops[1].d != TransactionDelay || ops[2].d != TransactionDelay {
		t.Fatalf("show delays %v %v", ops[1].d, ops[2].d)
	}
}

func TestNeopixel_RangeErrorsSendNothing(t *testing.T) {
	d, f := testDevice(HardwareSAMD09)
	p := NewNeopixel(d, NeopixelConfig{Pin: 3, Count: 4})
	ctx := context.Background()

	if err := p.SetNthNeopixelColor(ctx, 4, color.RGBA{}); !errors.Is(err, ErrPixelRange) {
		t.Fatalf("n == count: %v", err)
	}
	if err := p.SetNeopixelColors(ctx, make([]color.RGBA, 3)); !errors.Is(err, ErrPixelRange) {
		t.Fatalf("short slice: %v", err)
	}
	if err := p.SetNeopixelColors(ctx, make([]color.RGBA, 5)); !errors.Is(err, ErrPixelRange) {
		t.Fatalf("long slice: %v", err)
	}
	if err := p.SetNeopixelSpeed(ctx, NeopixelSpeed(2)); !errors.Is(err, ErrInvalidSpeed) {
		t.Fatalf("speed: %v", err)
	}
	if ops := f.snapshot(); len(ops) != 0 {
		t.Fatalf("argument errors produced traffic: %+v", ops)
	}
}

func TestNeopixel_SetColors(t *testing.T) {
	d, f := testDevice(HardwareSAMD09)
	p := NewNeopixel(d, NeopixelConfig{Pin: 3, Count: 4})
	if p.NeopixelCount() != 4 {
		t.Fatalf("count = %d", p.NeopixelCount())
	}
	cs := []color.RGBA{{R: 0xFF}, {G: 0xFF}, {B: 0xFF}, {R: 1, G: 1, B: 1}}
	if err := p.SetNeopixelColors(context.Background(), cs); err != nil {
		t.Fatal(err)
	}
	w := f.writes()
	if len(w) != 4 {
		t.Fatalf("%d writes", len(w))
	}
	for i, c := range cs {
		want := []byte{0x0E, 0x04, 0, byte(3 * i), c.R, c.G, c.B, 0}
		if !bytes.Equal(w[i], want) {
			t.Fatalf("pixel %d: % x, want % x", i, w[i], want)
		}
	}

	if NewNeopixel(d, NeopixelConfig{}).NeopixelCount() != 1 {
		t.Fatal("zero count should default to 1")
	}
}

func TestNeopixel_Speed(t *testing.T) {
	d, f := testDevice(HardwareSAMD09)
	p := NewNeopixel(d, NeopixelConfig{})
	if err := p.SetNeopixelSpeed(context.Background(), Khz400); err != nil {
		t.Fatal(err)
	}
	ops := f.snapshot()
	if !bytes.Equal(ops[0].data, []byte{0x0E, 0x02, 0x00}) || ops[len(ops)-1].d != NeopixelSettle {
		t.Fatalf("speed ops = %+v", ops)
	}
}
