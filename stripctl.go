// Package stripctl implements a daemon that renders per-tick LED strip
// animations and streams the resulting frames to a serial LED controller.
package stripctl

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"go.bug.st/serial"
	"golang.org/x/sync/errgroup"
	"libdb.so/stripctl/led"
	"libdb.so/stripctl/ledanim"
	"libdb.so/stripctl/ledwire"
)

// Strip is one animated segment of the LED chain. Its animator writes into
// a sub-slice of the daemon's frame buffer.
type Strip struct {
	Config StripConfig
	Anim   *ledanim.Animator
}

// Daemon is the main stripctl daemon. It owns the frame loop: every tick it
// advances each strip's animation by one step and transmits the combined
// frame to the controller.
type Daemon struct {
	cfg     *Config
	logger  *slog.Logger
	control chan func([]*Strip)
}

// NewDaemon creates a new stripctl daemon.
func NewDaemon(cfg *Config, logger *slog.Logger) (*Daemon, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	return &Daemon{
		cfg:     cfg,
		logger:  logger,
		control: make(chan func([]*Strip)),
	}, nil
}

// Control runs f on the daemon's frame loop. The loop owns every animator,
// so mode changes made through f stay serialized with the per-frame Step
// calls. Control blocks until the loop picks f up or ctx is canceled.
func (d *Daemon) Control(ctx context.Context, f func(strips []*Strip)) error {
	select {
	case d.control <- f:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run starts the daemon. It blocks until the given context is canceled.
func (d *Daemon) Run(ctx context.Context) error {
	return (&internalDaemon{Daemon: d}).Run(ctx)
}

type internalDaemon struct {
	*Daemon
	port serial.Port
}

func (d *internalDaemon) Run(ctx context.Context) error {
	port, err := serial.Open(d.cfg.Device, &serial.Mode{
		BaudRate: d.cfg.Baud,
	})
	if err != nil {
		return errors.Wrap(err, "failed to open serial port")
	}
	defer port.Close()

	d.port = port

	errg, ctx := errgroup.WithContext(ctx)
	errg.Go(func() error {
		<-ctx.Done()
		d.logger.Debug("closing serial port")
		if err := port.Close(); err != nil {
			return errors.Wrap(err, "failed to close serial port")
		}
		return ctx.Err()
	})

	devPackets := make(chan ledwire.DevicePacket)
	errg.Go(func() error {
		return d.frameLoop(ctx, devPackets)
	})
	errg.Go(func() error {
		return d.readPackets(ctx, devPackets)
	})

	return errg.Wait()
}

func (d *internalDaemon) frameLoop(ctx context.Context, packets <-chan ledwire.DevicePacket) error {
	d.logger.Debug("waiting 100ms for the read loop to start...")
	time.Sleep(100 * time.Millisecond)

	numLEDs := d.cfg.NumLEDs()

	d.logger.Debug("sending init packet", "num_leds", numLEDs)
	if !d.writePacket(ledwire.InitPacket{NumLEDs: uint16(numLEDs)}) {
		return errors.New("failed to initialize LED controller")
	}

	leds := led.NewLEDs(numLEDs)
	strips, err := d.makeStrips(leds)
	if err != nil {
		return err
	}

	frameTicker := time.NewTicker(time.Second / time.Duration(d.cfg.Rate))
	defer frameTicker.Stop()

	// Frames are paced by the controller: each one is sent only after the
	// previous packet was acked, starting with the init packet's ack.
	var nextFrame <-chan time.Time

eventLoop:
	for {
		select {
		case <-ctx.Done():
			break eventLoop

		case f := <-d.control:
			f(strips)

		case p := <-packets:
			switch p := p.(type) {
			case ledwire.AckPacket:
				d.logger.Debug(
					"received ack from controller",
					"acked_for", p.For)
				nextFrame = frameTicker.C

			case ledwire.ErrorPacket:
				d.logger.Warn(
					"received error from controller",
					"message", p.Message)
				return errors.New("controller reported error")

			case ledwire.LogPacket:
				d.logger.Info(
					"received log message from controller",
					"message", p.Message)

			default:
				return fmt.Errorf("received unknown packet from controller: %s", p.Type())
			}

		case <-nextFrame:
			for _, strip := range strips {
				strip.Anim.Step()
			}

			d.writePacket(ledwire.FramePacket{
				Pix: leds.AsPixels(),
			})

			// Hold the frame scheduler until the controller acks.
			nextFrame = nil
		}
	}

	return nil
}

// makeStrips builds one animator per configured strip, each bound to its
// sub-slice of the frame buffer, and applies the configured initial mode.
func (d *internalDaemon) makeStrips(leds led.LEDs) ([]*Strip, error) {
	strips := make([]*Strip, len(d.cfg.Strips))
	for i, cfg := range d.cfg.Strips {
		anim, err := ledanim.New(leds[cfg.Range[0]:cfg.Range[1]], d.logger)
		if err != nil {
			return nil, errors.Wrapf(err, "strip %d", i)
		}
		if err := cfg.Apply(anim); err != nil {
			return nil, errors.Wrapf(err, "strip %d", i)
		}
		strips[i] = &Strip{Config: cfg, Anim: anim}
	}
	return strips, nil
}

func (d *internalDaemon) readPackets(ctx context.Context, dst chan<- ledwire.DevicePacket) error {
	if err := d.port.SetReadTimeout(serial.NoTimeout); err != nil {
		return errors.Wrap(err, "failed to reset read timeout")
	}

	for ctx.Err() == nil {
		p, err := ledwire.ReadDevicePacket(d.port)
		if err != nil {
			// A short read indicates a timeout. This is expected.
			// Ignore the error and try again.
			if errors.Is(err, io.EOF) {
				continue
			}
			return errors.Wrap(err, "failed to read packet")
		}

		d.logger.Debug(
			"received packet from controller",
			"type", p.Type())

		select {
		case <-ctx.Done():
			return ctx.Err()
		case dst <- p:
			// ok
		}
	}

	return ctx.Err()
}

func (d *internalDaemon) writePacket(p ledwire.HostPacket) bool {
	d.logger.Debug(
		"writing packet",
		"type", p.Type())

	if err := ledwire.WriteHostPacket(d.port, p); err != nil {
		d.logger.Warn(
			"failed to write packet",
			"packet", p.Type(),
			"error", err)
		return false
	}

	return true
}

// Apply assigns the strip's configured animation to the animator. The
// pseudo-mode "progress" maps to the bitmap animation with the bit pattern
// derived from Percent.
func (s StripConfig) Apply(a *ledanim.Animator) error {
	if s.Mode == "progress" {
		a.SetProgress(s.Color, s.Percent)
		return nil
	}

	mode, err := ledanim.ParseMode(s.Mode)
	if err != nil {
		return err
	}

	switch mode {
	case ledanim.ModeOff:
		a.SetOff()
	case ledanim.ModeOn:
		a.SetSolid(s.Color)
	case ledanim.ModeChaseForward:
		a.SetChaseForward(s.Color)
	case ledanim.ModeChaseReverse:
		a.SetChaseReverse(s.Color)
	case ledanim.ModeRainbowForward:
		a.SetRainbowForward()
	case ledanim.ModeRainbowReverse:
		a.SetRainbowReverse()
	case ledanim.ModeBounce:
		a.SetBounce(s.Color)
	case ledanim.ModeBitmap:
		a.SetBitmap(s.Color, s.Bitmap)
	case ledanim.ModeMarquee:
		a.SetMarquee(s.Color, s.Bitmap)
	case ledanim.ModeBreathe:
		a.SetBreathe(s.Color)
	default:
		return fmt.Errorf("mode %v cannot be assigned", mode)
	}
	return nil
}
