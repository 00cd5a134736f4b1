package ledanim

import "testing"

func TestParseMode(t *testing.T) {
	// Every named mode must survive a String/ParseMode round trip; "on" is an
	// accepted alias for "solid".
	modes := []Mode{
		ModeOff, ModeOn, ModeChaseForward, ModeChaseReverse,
		ModeRainbowForward, ModeRainbowReverse, ModeBounce,
		ModeBitmap, ModeMarquee, ModeBreathe,
	}
	for _, m := range modes {
		parsed, err := ParseMode(m.String())
		if err != nil {
			t.Errorf("ParseMode(%q) error = %v", m.String(), err)
			continue
		}
		if parsed != m {
			t.Errorf("ParseMode(%q) = %v, want %v", m.String(), parsed, m)
		}
	}

	if m, err := ParseMode("on"); err != nil || m != ModeOn {
		t.Errorf(`ParseMode("on") = %v, %v; want %v, nil`, m, err, ModeOn)
	}
	if _, err := ParseMode("disco"); err == nil {
		t.Error(`ParseMode("disco") did not return an error`)
	}
}
