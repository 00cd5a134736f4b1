package led

import (
	"bytes"
	"testing"
)

func TestScale(t *testing.T) {
	tests := []struct {
		name  string
		color RGBColor
		n     uint8
		want  RGBColor
	}{
		{"full", RGB(255, 128, 10), 255, RGB(255, 128, 10)},
		{"off", RGB(255, 128, 10), 0, RGB(0, 0, 0)},
		{"half", RGB(255, 100, 2), 127, RGB(127, 49, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.color.Scale(tt.n); got != tt.want {
				t.Errorf("Scale(%d) = %v, want %v", tt.n, got, tt.want)
			}
		})
	}
}

func TestFromHSV(t *testing.T) {
	if got := FromHSV(0, 1, 1); got != RGB(255, 0, 0) {
		t.Errorf("FromHSV(0, 1, 1) = %v, want red", got)
	}
	if got := FromHSV(120, 1, 1); got != RGB(0, 255, 0) {
		t.Errorf("FromHSV(120, 1, 1) = %v, want green", got)
	}
	if got := FromHSV(240, 1, 1); got != RGB(0, 0, 255) {
		t.Errorf("FromHSV(240, 1, 1) = %v, want blue", got)
	}
}

func TestColorText(t *testing.T) {
	var c RGBColor
	if err := c.UnmarshalText([]byte("#ff8000")); err != nil {
		t.Fatalf("UnmarshalText() error = %v", err)
	}
	if c != RGB(255, 128, 0) {
		t.Errorf("UnmarshalText() = %v, want (255, 128, 0)", c)
	}
	if got := c.Hex(); got != "#ff8000" {
		t.Errorf("Hex() = %q, want %q", got, "#ff8000")
	}

	if err := c.UnmarshalText([]byte("not-a-color")); err == nil {
		t.Error("UnmarshalText() accepted invalid input")
	}
}

func TestLEDs(t *testing.T) {
	l := NewLEDs(4)
	for i, c := range l {
		if c != Black {
			t.Fatalf("new leds[%d] = %v, want black", i, c)
		}
	}

	l.Fill(RGB(1, 2, 3))
	l.Set(0, RGB(9, 9, 9))
	l.SetRange(2, 4, RGB(4, 5, 6))

	want := LEDs{{9, 9, 9}, {1, 2, 3}, {4, 5, 6}, {4, 5, 6}}
	for i := range want {
		if l[i] != want[i] {
			t.Errorf("leds[%d] = %v, want %v", i, l[i], want[i])
		}
	}

	var buf bytes.Buffer
	n, err := l.WriteTo(&buf)
	if err != nil {
		t.Fatalf("WriteTo() error = %v", err)
	}
	if n != 12 || buf.Len() != 12 {
		t.Errorf("WriteTo() wrote %d bytes, want 12", n)
	}
	if !bytes.Equal(buf.Bytes(), l.AsPixels()) {
		t.Error("WriteTo() output differs from AsPixels()")
	}
}
