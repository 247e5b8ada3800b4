package mcp2221

import (
	"context"
	"fmt"

	"github.com/google/gousb"
)

// usbLink talks to the bridge's HID interface over its interrupt endpoints.
type usbLink struct {
	ctx  *gousb.Context
	dev  *gousb.Device
	cfg  *gousb.Config
	intf *gousb.Interface

	in  *gousb.InEndpoint
	out *gousb.OutEndpoint
}

func openUSB(vid, pid uint16) (*usbLink, error) {
	ctx := gousb.NewContext()
	dev, err := ctx.OpenDeviceWithVIDPID(gousb.ID(vid), gousb.ID(pid))
	if err != nil {
		ctx.Close()
		return nil, fmt.Errorf("mcp2221: usb open: %w", err)
	}
	if dev == nil {
		ctx.Close()
		return nil, ErrNotFound
	}
	// The HID interface is normally bound to the kernel driver.
	_ = dev.SetAutoDetach(true)

	u := &usbLink{ctx: ctx, dev: dev}
	if err := u.claim(); err != nil {
		u.Close()
		return nil, err
	}
	return u, nil
}

func (u *usbLink) claim() error {
	cfg, err := u.dev.Config(1)
	if err != nil {
		return fmt.Errorf("mcp2221: usb config: %w", err)
	}
	u.cfg = cfg
	intf, err := cfg.Interface(hidInterface, 0)
	if err != nil {
		return fmt.Errorf("mcp2221: claim interface %d: %w", hidInterface, err)
	}
	u.intf = intf

	var inAddr, outAddr int
	for _, ep := range intf.Setting.Endpoints {
		if ep.TransferType != gousb.TransferTypeInterrupt {
			continue
		}
		if ep.Direction == gousb.EndpointDirectionIn && inAddr == 0 {
			inAddr = ep.Number
		}
		if ep.Direction == gousb.EndpointDirectionOut && outAddr == 0 {
			outAddr = ep.Number
		}
	}
	if inAddr == 0 || outAddr == 0 {
		return fmt.Errorf("mcp2221: interrupt endpoints not found on interface %d", hidInterface)
	}
	if u.in, err = intf.InEndpoint(inAddr); err != nil {
		return fmt.Errorf("mcp2221: in endpoint: %w", err)
	}
	if u.out, err = intf.OutEndpoint(outAddr); err != nil {
		return fmt.Errorf("mcp2221: out endpoint: %w", err)
	}
	return nil
}

func (u *usbLink) exchange(ctx context.Context, req, rsp *report) error {
	if _, err := u.out.WriteContext(ctx, req[:]); err != nil {
		return fmt.Errorf("mcp2221: usb write cmd 0x%02x: %w", req[0], err)
	}
	n, err := u.in.ReadContext(ctx, rsp[:])
	if err != nil {
		return fmt.Errorf("mcp2221: usb read cmd 0x%02x: %w", req[0], err)
	}
	if n < reportSize {
		return fmt.Errorf("mcp2221: short report (%d of %d bytes)", n, reportSize)
	}
	if rsp[0] != req[0] {
		return fmt.Errorf("mcp2221: response to cmd 0x%02x echoes 0x%02x", req[0], rsp[0])
	}
	return nil
}

func (u *usbLink) Close() error {
	if u.intf != nil {
		u.intf.Close()
	}
	var err error
	if u.cfg != nil {
		err = u.cfg.Close()
	}
	if u.dev != nil {
		if cerr := u.dev.Close(); err == nil {
			err = cerr
		}
	}
	if u.ctx != nil {
		if cerr := u.ctx.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
