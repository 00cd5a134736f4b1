package stripctl

import (
	"strings"
	"testing"

	"libdb.so/stripctl/led"
	"libdb.so/stripctl/ledanim"
)

const sampleConfig = `
device = "/dev/ttyACM0"
baud = 115200
rate = 30

[[strip]]
range = [0, 24]
mode = "rainbow-forward"

[[strip]]
range = [24, 30]
mode = "progress"
color = "#00ff00"
percent = 50

[[strip]]
range = [30, 62]
mode = "marquee"
color = "#ff0000"
bitmap = 0b1001
`

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig(strings.NewReader(sampleConfig))
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if cfg.Device != "/dev/ttyACM0" || cfg.Baud != 115200 || cfg.Rate != 30 {
		t.Errorf("unexpected connection settings: %+v", cfg)
	}
	if got := cfg.NumLEDs(); got != 62 {
		t.Errorf("NumLEDs() = %d, want 62", got)
	}
	if len(cfg.Strips) != 3 {
		t.Fatalf("len(Strips) = %d, want 3", len(cfg.Strips))
	}
	if cfg.Strips[1].Color != led.RGB(0, 255, 0) {
		t.Errorf("Strips[1].Color = %v, want green", cfg.Strips[1].Color)
	}
	if cfg.Strips[2].Bitmap != 0b1001 {
		t.Errorf("Strips[2].Bitmap = %#b, want 0b1001", cfg.Strips[2].Bitmap)
	}
}

func TestConfigValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Device: "/dev/ttyACM0",
			Baud:   115200,
			Rate:   30,
			Strips: []StripConfig{
				{Range: [2]int{0, 10}, Mode: "solid", Color: led.RGB(255, 0, 0)},
				{Range: [2]int{10, 20}, Mode: "breathe", Color: led.RGB(0, 0, 255)},
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"no device", func(c *Config) { c.Device = "" }, true},
		{"zero rate", func(c *Config) { c.Rate = 0 }, true},
		{"no strips", func(c *Config) { c.Strips = nil }, true},
		{"empty range", func(c *Config) { c.Strips[0].Range = [2]int{5, 5} }, true},
		{"negative range", func(c *Config) { c.Strips[0].Range = [2]int{-1, 10} }, true},
		{"overlapping ranges", func(c *Config) { c.Strips[1].Range = [2]int{9, 20} }, true},
		{"unknown mode", func(c *Config) { c.Strips[0].Mode = "disco" }, true},
		{"progress mode", func(c *Config) { c.Strips[0].Mode = "progress"; c.Strips[0].Percent = 40 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestStripConfigApply(t *testing.T) {
	tests := []struct {
		name string
		cfg  StripConfig
		want ledanim.Mode
	}{
		{"solid", StripConfig{Mode: "solid", Color: led.RGB(255, 0, 0)}, ledanim.ModeOn},
		{"bounce", StripConfig{Mode: "bounce", Color: led.RGB(255, 0, 0)}, ledanim.ModeBounce},
		{"progress", StripConfig{Mode: "progress", Color: led.RGB(255, 0, 0), Percent: 50}, ledanim.ModeBitmap},
		{"marquee", StripConfig{Mode: "marquee", Color: led.RGB(255, 0, 0), Bitmap: 0b11}, ledanim.ModeMarquee},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			anim, err := ledanim.New(led.NewLEDs(10), nil)
			if err != nil {
				t.Fatalf("ledanim.New() error = %v", err)
			}
			if err := tt.cfg.Apply(anim); err != nil {
				t.Fatalf("Apply() error = %v", err)
			}
			if anim.Mode() != tt.want {
				t.Errorf("Mode() = %v, want %v", anim.Mode(), tt.want)
			}
		})
	}

	anim, err := ledanim.New(led.NewLEDs(10), nil)
	if err != nil {
		t.Fatalf("ledanim.New() error = %v", err)
	}
	if err := (StripConfig{Mode: "disco"}).Apply(anim); err == nil {
		t.Error("Apply() with an unknown mode did not return an error")
	}
}
