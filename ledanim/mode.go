package ledanim

import "fmt"

// Mode is the animation currently assigned to a strip.
type Mode uint8

const (
	ModeUndefined Mode = iota
	ModeOff
	ModeOn
	ModeChaseForward
	ModeChaseReverse
	ModeRainbowForward
	ModeRainbowReverse
	ModeBounce
	ModeBitmap
	ModeMarquee
	ModeBreathe
)

// String returns a string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeUndefined:
		return "undefined"
	case ModeOff:
		return "off"
	case ModeOn:
		return "solid"
	case ModeChaseForward:
		return "chase-forward"
	case ModeChaseReverse:
		return "chase-reverse"
	case ModeRainbowForward:
		return "rainbow-forward"
	case ModeRainbowReverse:
		return "rainbow-reverse"
	case ModeBounce:
		return "bounce"
	case ModeBitmap:
		return "bitmap"
	case ModeMarquee:
		return "marquee"
	case ModeBreathe:
		return "breathe"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

// ParseMode parses the string representation of a mode, as produced by
// Mode.String.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "off":
		return ModeOff, nil
	case "solid", "on":
		return ModeOn, nil
	case "chase-forward":
		return ModeChaseForward, nil
	case "chase-reverse":
		return ModeChaseReverse, nil
	case "rainbow-forward":
		return ModeRainbowForward, nil
	case "rainbow-reverse":
		return ModeRainbowReverse, nil
	case "bounce":
		return ModeBounce, nil
	case "bitmap":
		return ModeBitmap, nil
	case "marquee":
		return ModeMarquee, nil
	case "breathe":
		return ModeBreathe, nil
	default:
		return ModeUndefined, fmt.Errorf("unknown mode %q", s)
	}
}
