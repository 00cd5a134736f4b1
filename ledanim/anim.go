// Package ledanim animates a strip of LEDs one frame at a time.
//
// An Animator is a small state machine bound to a caller-owned pixel buffer.
// Mode setters only record what animation should run next; every call to
// Step then advances that animation by exactly one frame and writes the
// result into the buffer. The caller decides when frames happen, so the tick
// cadence is also the animation speed.
package ledanim

import (
	"log/slog"

	"github.com/pkg/errors"
	"libdb.so/stripctl/led"
)

// direction tracks which way a bi-directional animation is currently
// sweeping.
type direction uint8

const (
	dirForward direction = iota
	dirReverse
)

// Animator sequences animations on a single LED strip.
//
// It is not safe for concurrent use: setters and Step must be called from
// the same goroutine, usually a frame loop. Separate animators are fully
// independent.
type Animator struct {
	leds   led.LEDs
	logger *slog.Logger

	mode   Mode
	fresh  bool // next Step runs the mode's init branch
	color  led.RGBColor
	bitmap uint32
	dir    direction
	dim    int
}

// New creates an animator bound to the given buffer. The buffer is owned by
// the caller and must outlive the animator; the animator writes into it on
// every Step but never resizes it. The logger receives diagnostics and may
// be nil for the default logger.
//
// The animator starts in ModeOff, so the first Step blanks the strip.
func New(leds led.LEDs, logger *slog.Logger) (*Animator, error) {
	if len(leds) == 0 {
		return nil, errors.New("LED buffer must not be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Animator{
		leds:   leds,
		logger: logger,
		mode:   ModeOff,
		fresh:  true,
	}, nil
}

// Len returns the number of LEDs in the strip.
func (a *Animator) Len() int {
	return len(a.leds)
}

// Mode returns the currently active mode. The rainbow modes hand off to the
// matching chase mode during their first Step, so Mode reports the chase
// mode from then on.
func (a *Animator) Mode() Mode {
	return a.mode
}

func (a *Animator) set(m Mode, c led.RGBColor) {
	a.mode = m
	a.color = c
	a.fresh = true
}

// SetOff turns every LED off.
func (a *Animator) SetOff() {
	a.set(ModeOff, led.Black)
}

// SetSolid lights the whole strip with a single color.
func (a *Animator) SetSolid(c led.RGBColor) {
	a.set(ModeOn, c)
}

// SetChaseForward runs a single lit LED from the start of the strip to the
// end, wrapping around.
func (a *Animator) SetChaseForward(c led.RGBColor) {
	a.set(ModeChaseForward, c)
}

// SetChaseReverse runs a single lit LED from the end of the strip back to
// the start, wrapping around.
func (a *Animator) SetChaseReverse(c led.RGBColor) {
	a.set(ModeChaseReverse, c)
}

// SetRainbowForward loads the strip with a hue gradient and then runs it
// forward as a chase.
func (a *Animator) SetRainbowForward() {
	a.set(ModeRainbowForward, led.Black)
}

// SetRainbowReverse loads the strip with a hue gradient and then runs it in
// reverse as a chase.
func (a *Animator) SetRainbowReverse() {
	a.set(ModeRainbowReverse, led.Black)
}

// SetBounce runs a single lit LED back and forth between both ends of the
// strip.
func (a *Animator) SetBounce(c led.RGBColor) {
	a.set(ModeBounce, c)
}

// SetBitmap displays a static bit pattern: LED i is lit with the given color
// when bit i of bitmap is set. Bits at or beyond min(Len, 32) are ignored.
func (a *Animator) SetBitmap(c led.RGBColor, bitmap uint32) {
	a.set(ModeBitmap, c)
	a.bitmap = bitmap
}

// SetProgress displays a progress bar as a bitmap: the percentage is clamped
// to [0, 100] and converted to a number of lit LEDs counted from index 0.
func (a *Animator) SetProgress(c led.RGBColor, percent int) {
	if percent > 100 {
		percent = 100
	}
	if percent < 0 {
		percent = 0
	}
	lit := len(a.leds) * percent / 100
	a.set(ModeBitmap, c)
	a.bitmap = uint32(uint64(1)<<min(lit, 32) - 1)
}

// SetMarquee displays the given bit pattern like SetBitmap and then scrolls
// it circularly by one LED per Step.
func (a *Animator) SetMarquee(c led.RGBColor, bitmap uint32) {
	a.set(ModeMarquee, c)
	a.bitmap = bitmap
}

// SetBreathe fades the whole strip between the given color and a dim floor,
// easing in and out at both ends of the cycle.
func (a *Animator) SetBreathe(c led.RGBColor) {
	a.set(ModeBreathe, c)
	a.dir = dirForward
	a.dim = 0
}

// Step advances the current animation by one frame, writing the result into
// the strip's buffer. The first Step after a setter runs that mode's
// one-time initialization; every later Step advances the steady state.
func (a *Animator) Step() {
	fresh := a.fresh
	a.fresh = false

	switch a.mode {
	case ModeUndefined:
		// Nothing assigned yet.

	case ModeOff:
		if fresh {
			a.leds.Fill(led.Black)
		}

	case ModeOn:
		if fresh {
			a.leds.Fill(a.color)
		}

	case ModeChaseForward:
		if fresh {
			a.leds.Fill(led.Black)
			a.leds[0] = a.color
		} else {
			rotateForward(a.leds)
		}

	case ModeChaseReverse:
		if fresh {
			a.leds.Fill(led.Black)
			a.leds[len(a.leds)-1] = a.color
		} else {
			rotateBackward(a.leds)
		}

	case ModeRainbowForward:
		// Only the gradient needs loading; from here on this is a chase.
		a.fillRainbow()
		a.mode = ModeChaseForward

	case ModeRainbowReverse:
		a.fillRainbow()
		a.mode = ModeChaseReverse

	case ModeBounce:
		a.stepBounce(fresh)

	case ModeBitmap:
		if fresh {
			a.renderBitmap()
		}

	case ModeMarquee:
		if !fresh {
			a.bitmap = rotateBits(a.bitmap, min(len(a.leds), 32))
		}
		a.renderBitmap()

	case ModeBreathe:
		a.stepBreathe(fresh)

	default:
		a.logger.Warn(
			"ignoring step in unrecognized mode",
			"mode", uint8(a.mode))
	}
}

// stepBounce alternates forward and reverse chase runs. The lit LED holds
// its position for one extra frame at each end, so a full cycle takes
// 2*len(leds) frames and stays in sync with a plain chase.
func (a *Animator) stepBounce(fresh bool) {
	if fresh {
		a.leds.Fill(led.Black)
		a.leds[0] = a.color
		a.dir = dirForward
		return
	}

	if a.dir == dirForward {
		if a.leds[len(a.leds)-1] == a.color {
			a.dir = dirReverse
		} else {
			rotateForward(a.leds)
		}
	} else {
		if a.leds[0] == a.color {
			a.dir = dirForward
		} else {
			rotateBackward(a.leds)
		}
	}
}

// stepBreathe fills the strip with the base color scaled by the current
// dimming table entry, then walks the table index one step. At either end of
// the table the direction flips and the index holds for one extra frame.
func (a *Animator) stepBreathe(fresh bool) {
	if fresh {
		a.dir = dirForward
		a.dim = 0
	}

	a.leds.Fill(a.color.Scale(dimming[a.dim]))

	switch {
	case a.dir == dirForward && a.dim == len(dimming)-1:
		a.dir = dirReverse
	case a.dir == dirForward:
		a.dim++
	case a.dim == 0:
		a.dir = dirForward
	default:
		a.dim--
	}
}

// renderBitmap draws the current bitmap onto the strip. Only the low
// min(len(leds), 32) bits are ever read.
func (a *Animator) renderBitmap() {
	a.leds.Fill(led.Black)
	m := min(len(a.leds), 32)
	for i := 0; i < m; i++ {
		if a.bitmap&(1<<uint(i)) != 0 {
			a.leds[i] = a.color
		}
	}
}

// fillRainbow loads the strip with a full hue gradient at full saturation
// and value, spreading the 256-step hue wheel across the strip.
func (a *Animator) fillRainbow() {
	delta := 256 / len(a.leds)
	for i := range a.leds {
		hue := float64(i*delta) * 360 / 256
		a.leds[i] = led.FromHSV(hue, 1, 1)
	}
}
