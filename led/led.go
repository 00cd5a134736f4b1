// Package led provides the color and pixel buffer types shared by the
// animator, the daemon and the wire protocol.
package led

import (
	"io"
	"unsafe"

	"github.com/lucasb-eyer/go-colorful"
)

// RGBColor is the color of a single LED, stored in RGB channel order.
// Colors compare by value, so == is a per-channel equality check.
type RGBColor [3]uint8

// Black is the off color.
var Black = RGBColor{}

// RGB builds an RGBColor from its channels.
func RGB(r, g, b uint8) RGBColor {
	return RGBColor{r, g, b}
}

// FromHSV converts a hue in degrees [0, 360) with saturation and value in
// [0, 1] to an RGBColor.
func FromHSV(h, s, v float64) RGBColor {
	r, g, b := colorful.Hsv(h, s, v).RGB255()
	return RGBColor{r, g, b}
}

// Scale returns the color dimmed to n/255 of its intensity.
func (c RGBColor) Scale(n uint8) RGBColor {
	return RGBColor{
		uint8(uint16(c[0]) * uint16(n) / 255),
		uint8(uint16(c[1]) * uint16(n) / 255),
		uint8(uint16(c[2]) * uint16(n) / 255),
	}
}

// Hex returns the color as a #rrggbb string.
func (c RGBColor) Hex() string {
	return c.asColorful().Hex()
}

// MarshalText implements encoding.TextMarshaler. Colors marshal as #rrggbb
// strings.
func (c RGBColor) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. It accepts #rgb and
// #rrggbb strings.
func (c *RGBColor) UnmarshalText(text []byte) error {
	parsed, err := colorful.Hex(string(text))
	if err != nil {
		return err
	}
	r, g, b := parsed.RGB255()
	*c = RGBColor{r, g, b}
	return nil
}

func (c RGBColor) asColorful() colorful.Color {
	return colorful.Color{
		R: float64(c[0]) / 255,
		G: float64(c[1]) / 255,
		B: float64(c[2]) / 255,
	}
}

// LEDs describes a strip of LEDs. It is a preallocated slice of RGBColor.
type LEDs []RGBColor

// NewLEDs creates a new strip of LEDs. Colors are initialized to black
// (off).
func NewLEDs(numLEDs int) LEDs {
	return make(LEDs, numLEDs)
}

// Fill sets every LED in the strip to the given color.
func (l LEDs) Fill(c RGBColor) {
	for i := range l {
		l[i] = c
	}
}

// Set sets the color of the LED at the given index.
func (l LEDs) Set(i int, c RGBColor) {
	l[i] = c
}

// SetRange sets the color of the LEDs in the given range.
func (l LEDs) SetRange(start, end int, c RGBColor) {
	for i := start; i < end; i++ {
		l[i] = c
	}
}

// WriteTo implements io.WriterTo. It writes the LED strip to the given writer
// as a series of RGBColor values.
func (l LEDs) WriteTo(w io.Writer) (int64, error) {
	var written int64
	for _, c := range l {
		n, err := w.Write(c[:])
		written += int64(n)
		if err != nil {
			return written, err
		}
	}
	return written, nil
}

// AsPixels returns the LED strip as a slice of uint8 values. Each LED is
// represented by three values, one for each color channel.
func (l LEDs) AsPixels() []uint8 {
	return unsafe.Slice((*uint8)(unsafe.Pointer(&l[0])), 3*len(l))
}
