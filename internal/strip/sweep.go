package strip

import (
	"time"

	"github.com/callebjorkell/led-server/internal/ws2812"
	log "github.com/sirupsen/logrus"
)

// Sweep walks a single white pixel across the strip as a readiness
// indicator at startup. It transmits ephemeral frames and leaves the
// committed state untouched. If another caller queues for the strip while
// the sweep is running, the sweep yields between frames instead of making
// the caller wait out the whole walk.
func (c *Controller) Sweep(brightness uint8, stepDelay time.Duration) error {
	done := c.queue.Queue()
	defer done()

	log.Infof("Running startup sweep over %d LEDs", len(c.pixels))
	white := ws2812.Color{R: brightness, G: brightness, B: brightness}
	frame := make([]ws2812.Color, len(c.pixels))

	for i := range c.pixels {
		if c.queue.IsInterrupted() {
			log.Debug("Sweep interrupted, handing over the strip")
			return nil
		}

		for j := range frame {
			frame[j] = ws2812.Color{}
		}
		frame[i] = white

		if err := c.transmit(frame); err != nil {
			return err
		}
		time.Sleep(stepDelay)
	}

	return nil
}
