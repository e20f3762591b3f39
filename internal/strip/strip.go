package strip

import (
	"errors"
	"fmt"

	"github.com/callebjorkell/led-server/internal/ws2812"
	log "github.com/sirupsen/logrus"
)

// ErrIndexOutOfRange is returned when a single LED operation addresses a
// slot outside the configured strip.
var ErrIndexOutOfRange = errors.New("LED index out of range")

// TransmitError wraps a bus failure. The in-memory state is rolled back
// before it is returned, so the reported color always matches the last
// frame that actually made it onto the wire.
type TransmitError struct {
	Err error
}

func (e *TransmitError) Error() string {
	return fmt.Sprintf("transmit failed: %v", e.Err)
}

func (e *TransmitError) Unwrap() error {
	return e.Err
}

// Transport is the serial peripheral the encoded frames are written to.
// Transmit blocks until the whole frame has been clocked out.
type Transport interface {
	Transmit(data []byte) error
}

// Controller holds the authoritative color assignment for the strip and
// mediates every mutate-and-transmit transaction. The whole strip is
// re-encoded and re-sent on any change; the wire protocol has no partial
// update.
type Controller struct {
	queue Queue
	enc   *ws2812.Encoder
	bus   Transport

	// Committed state. Only touched with a queue turn held, and only
	// after the matching frame was transmitted successfully.
	pixels  []ws2812.Color
	uniform bool
	color   ws2812.Color
	updates uint64
}

// Snapshot is a consistent copy of the committed strip state.
type Snapshot struct {
	Pixels  []ws2812.Color
	Uniform bool
	Color   ws2812.Color
	Updates uint64
}

// New creates a controller for a strip of numLeds LEDs, dark until the
// first update.
func New(bus Transport, enc *ws2812.Encoder, numLeds int) *Controller {
	return &Controller{
		enc:     enc,
		bus:     bus,
		pixels:  make([]ws2812.Color, numLeds),
		uniform: true,
	}
}

// Len returns the configured LED count.
func (c *Controller) Len() int {
	return len(c.pixels)
}

// SetAll paints every LED in the given color. Channel values are clamped to
// 0-255. The new state is committed only after the frame was transmitted.
func (c *Controller) SetAll(r, g, b int) error {
	color := ws2812.Color{R: ws2812.Clamp(r), G: ws2812.Clamp(g), B: ws2812.Clamp(b)}

	done := c.queue.Queue()
	defer done()

	next := make([]ws2812.Color, len(c.pixels))
	for i := range next {
		next[i] = color
	}
	if err := c.transmit(next); err != nil {
		return err
	}

	c.pixels = next
	c.uniform = true
	c.color = color
	c.updates++
	log.Debugf("Set all %d LEDs to #%02x%02x%02x", len(next), color.R, color.G, color.B)
	return nil
}

// SetOne paints a single LED, leaving the rest of the strip as it was. The
// index is validated before anything is mutated or transmitted.
func (c *Controller) SetOne(index, r, g, b int) error {
	if index < 0 || index >= len(c.pixels) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, index, len(c.pixels))
	}
	color := ws2812.Color{R: ws2812.Clamp(r), G: ws2812.Clamp(g), B: ws2812.Clamp(b)}

	done := c.queue.Queue()
	defer done()

	next := make([]ws2812.Color, len(c.pixels))
	copy(next, c.pixels)
	next[index] = color
	if err := c.transmit(next); err != nil {
		return err
	}

	c.pixels = next
	c.uniform = false
	c.updates++
	log.Debugf("Set LED %d to #%02x%02x%02x", index, color.R, color.G, color.B)
	return nil
}

// Snapshot returns the state as of the last committed transaction.
func (c *Controller) Snapshot() Snapshot {
	done := c.queue.Queue()
	defer done()

	pixels := make([]ws2812.Color, len(c.pixels))
	copy(pixels, c.pixels)
	return Snapshot{
		Pixels:  pixels,
		Uniform: c.uniform,
		Color:   c.color,
		Updates: c.updates,
	}
}

func (c *Controller) transmit(pixels []ws2812.Color) error {
	if err := c.bus.Transmit(c.enc.Frame(pixels)); err != nil {
		transmitFailures.Inc()
		return &TransmitError{Err: err}
	}
	updatesTotal.Inc()
	return nil
}
