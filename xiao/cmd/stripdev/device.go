package main

import (
	"fmt"
	"machine"

	"libdb.so/stripctl/ledwire"
	"tinygo.org/x/drivers/ws2812"
)

// Device stores the current state of the controller.
type Device struct {
	serial SerialReadWriter
	strip  ws2812.Device

	// numLEDs is negotiated by the init packet and sizes every frame.
	numLEDs int
}

// NewDevice creates a new controller bound to the given serial port and
// strip data pin.
func NewDevice(serial machine.Serialer, stripPin machine.Pin) *Device {
	stripPin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	return &Device{
		serial: WrapSerial(serial),
		strip:  ws2812.New(stripPin),
	}
}

// Run runs the controller loop forever.
func (d *Device) Run() {
	for {
		p, err := d.readPacket()
		if err != nil {
			d.reportError(err)
			continue
		}

		if err := d.handlePacket(p); err != nil {
			d.reportError(err)
			continue
		}

		d.sendPacket(ledwire.AckPacket{For: p.Type()})
	}
}

func (d *Device) handlePacket(p ledwire.HostPacket) error {
	switch p := p.(type) {
	case ledwire.InitPacket:
		if p.NumLEDs < 1 {
			return fmt.Errorf("invalid number of LEDs: %d", p.NumLEDs)
		}
		d.numLEDs = int(p.NumLEDs)
		d.blackout()
		d.log(fmt.Sprintf("initialized for %d LEDs", d.numLEDs))

	case ledwire.FramePacket:
		if d.numLEDs == 0 {
			return fmt.Errorf("frame before init")
		}
		for _, b := range p.Pix {
			d.strip.WriteByte(b)
		}

	case ledwire.BlackoutPacket:
		if d.numLEDs == 0 {
			return fmt.Errorf("blackout before init")
		}
		d.blackout()

	default:
		return fmt.Errorf("unhandled packet type: %T", p)
	}

	return nil
}

func (d *Device) readPacket() (ledwire.HostPacket, error) {
	// The onboard LED doubles as an activity indicator while a packet is
	// being received.
	statusLEDOn(255, 255, 255)

	p, err := ledwire.ReadHostPacket(d.serial, ledwire.ReadContext{
		NumLEDs: uint16(d.numLEDs),
	})

	statusLEDOff()
	return p, err
}

func (d *Device) blackout() {
	for i := 0; i < 3*d.numLEDs; i++ {
		d.strip.WriteByte(0)
	}
}

func (d *Device) log(msg string) {
	d.sendPacket(ledwire.LogPacket{Message: msg})
}

func (d *Device) reportError(err error) {
	d.sendPacket(ledwire.ErrorPacket{Message: err.Error()})
}

func (d *Device) sendPacket(p ledwire.DevicePacket) {
	ledwire.WriteDevicePacket(d.serial, p)
}
