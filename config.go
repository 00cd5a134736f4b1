package stripctl

import (
	"fmt"
	"io"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
	"libdb.so/stripctl/led"
	"libdb.so/stripctl/ledanim"
)

// Config is the configuration for the stripctl daemon.
type Config struct {
	// Device is the path to the serial device of the LED controller.
	// This is usually /dev/ttyUSB0 or /dev/ttyACM0.
	Device string `toml:"device"`
	// Baud is the baud rate for the serial connection.
	Baud int `toml:"baud"`
	// Rate is the animation tick rate in frames per second.
	Rate int `toml:"rate"`
	// Strips is a list of animated segments of the LED chain.
	Strips []StripConfig `toml:"strip"`
}

// StripConfig configures one animated segment of the LED chain.
type StripConfig struct {
	// Range is the half-open [start, end) range of LEDs the segment covers.
	Range [2]int `toml:"range"`
	// Mode is the animation to run, named as in ledanim.ParseMode, plus
	// "progress" for a progress bar.
	Mode string `toml:"mode"`
	// Color is the animation's base color as a #rrggbb string. Ignored by
	// the rainbow modes.
	Color led.RGBColor `toml:"color,omitempty"`
	// Bitmap is the bit pattern for the bitmap and marquee modes. Bit i
	// lights LED i of the segment.
	Bitmap uint32 `toml:"bitmap,omitempty"`
	// Percent is the fill percentage for the progress mode.
	Percent int `toml:"percent,omitempty"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Device == "" {
		return errors.New("no serial device configured")
	}
	if c.Rate <= 0 {
		return errors.New("tick rate must be positive")
	}
	if c.NumLEDs() == 0 {
		return errors.New("no LED strips configured")
	}

	for i, strip := range c.Strips {
		if strip.Range[0] < 0 || strip.Range[1] <= strip.Range[0] {
			return fmt.Errorf("strip %d has invalid range %v", i, strip.Range)
		}
		if err := strip.validateMode(); err != nil {
			return errors.Wrapf(err, "strip %d", i)
		}

		// Segments drive disjoint parts of the chain; overlaps would make
		// two animators fight over the same LEDs.
		for j, other := range c.Strips[:i] {
			if strip.Range[0] < other.Range[1] && other.Range[0] < strip.Range[1] {
				return fmt.Errorf("strip %d range %v overlaps strip %d range %v",
					i, strip.Range, j, other.Range)
			}
		}
	}

	return nil
}

func (s StripConfig) validateMode() error {
	if s.Mode == "progress" {
		return nil
	}
	_, err := ledanim.ParseMode(s.Mode)
	return err
}

// NumLEDs returns the total number of LEDs on the chain, which is the
// highest configured range end.
func (c *Config) NumLEDs() int {
	var numLEDs int
	for _, strip := range c.Strips {
		if strip.Range[1] > numLEDs {
			numLEDs = strip.Range[1]
		}
	}
	return numLEDs
}

// ParseConfig parses a configuration from a reader.
func ParseConfig(r io.Reader) (*Config, error) {
	var config Config
	if err := toml.NewDecoder(r).Decode(&config); err != nil {
		return nil, err
	}
	return &config, nil
}
