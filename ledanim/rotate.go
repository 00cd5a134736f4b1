package ledanim

import "libdb.so/stripctl/led"

// rotateForward circularly shifts the strip one position toward higher
// indices; the last LED wraps around to index 0.
func rotateForward(leds led.LEDs) {
	last := leds[len(leds)-1]
	copy(leds[1:], leds[:len(leds)-1])
	leds[0] = last
}

// rotateBackward circularly shifts the strip one position toward lower
// indices; the first LED wraps around to the last index.
func rotateBackward(leds led.LEDs) {
	first := leds[0]
	copy(leds, leds[1:])
	leds[len(leds)-1] = first
}

// rotateBits rotates the low width bits of b left by one; the top bit wraps
// around to bit 0. Bits at or above width are cleared.
func rotateBits(b uint32, width int) uint32 {
	if width <= 1 {
		return b
	}
	mask := uint32(uint64(1)<<width - 1)
	return (b<<1 | b>>(width-1)) & mask
}
