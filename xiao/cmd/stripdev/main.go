// Command stripdev is the controller firmware for a Seeed XIAO RP2040
// driving a ws2812 strip. It reads host packets from the USB serial port,
// pushes frames to the strip and acknowledges every packet so the host can
// pace itself.
package main

import "machine"

// stripPin is the data pin the LED strip is attached to.
const stripPin = machine.GPIO2

func main() {
	d := NewDevice(machine.Serial, stripPin)
	d.Run()
}
