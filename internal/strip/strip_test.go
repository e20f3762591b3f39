package strip

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/callebjorkell/led-server/internal/ws2812"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBus struct {
	mu     sync.Mutex
	frames [][]byte
	err    error
}

func (f *fakeBus) Transmit(data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return f.err
	}
	f.frames = append(f.frames, append([]byte(nil), data...))
	return nil
}

func (f *fakeBus) sent() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([][]byte(nil), f.frames...)
}

func (f *fakeBus) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.err = err
}

func newTestController(numLeds int) (*Controller, *fakeBus, *ws2812.Encoder) {
	bus := &fakeBus{}
	enc := ws2812.NewEncoder(3)
	return New(bus, enc, numLeds), bus, enc
}

func TestSetAllClampsChannels(t *testing.T) {
	c, bus, _ := newTestController(16)

	require.NoError(t, c.SetAll(-10, 300, 128))

	s := c.Snapshot()
	assert.True(t, s.Uniform)
	assert.Equal(t, ws2812.Color{R: 0, G: 255, B: 128}, s.Color)
	for _, p := range s.Pixels {
		assert.Equal(t, ws2812.Color{R: 0, G: 255, B: 128}, p)
	}
	assert.Len(t, bus.sent(), 1)
}

func TestSetOneRoundTrip(t *testing.T) {
	c, _, _ := newTestController(16)

	require.NoError(t, c.SetAll(1, 2, 3))
	require.NoError(t, c.SetOne(5, 10, 20, 30))

	s := c.Snapshot()
	assert.False(t, s.Uniform)
	assert.Equal(t, uint64(2), s.Updates)
	for i, p := range s.Pixels {
		if i == 5 {
			assert.Equal(t, ws2812.Color{R: 10, G: 20, B: 30}, p)
		} else {
			assert.Equal(t, ws2812.Color{R: 1, G: 2, B: 3}, p)
		}
	}
}

func TestSetOneValidatesIndex(t *testing.T) {
	tt := []struct {
		name  string
		index int
	}{
		{"negative index", -1},
		{"index equal to length", 16},
		{"index past the end", 1000},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			c, bus, _ := newTestController(16)
			require.NoError(t, c.SetAll(7, 7, 7))
			before := c.Snapshot()

			err := c.SetOne(tc.index, 1, 2, 3)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrIndexOutOfRange))

			// Nothing mutated, nothing transmitted.
			assert.Equal(t, before, c.Snapshot())
			assert.Len(t, bus.sent(), 1)
		})
	}
}

func TestTransmitFailureRollsBack(t *testing.T) {
	c, bus, _ := newTestController(16)
	require.NoError(t, c.SetAll(10, 20, 30))
	before := c.Snapshot()

	bus.fail(errors.New("spi went away"))

	err := c.SetAll(200, 200, 200)
	require.Error(t, err)
	var te *TransmitError
	assert.True(t, errors.As(err, &te))

	// The reported state still matches the last frame on the wire.
	assert.Equal(t, before, c.Snapshot())

	err = c.SetOne(3, 1, 1, 1)
	require.Error(t, err)
	assert.True(t, errors.As(err, &te))
	assert.Equal(t, before, c.Snapshot())
}

func TestSetAllIsIdempotent(t *testing.T) {
	c, bus, _ := newTestController(16)

	require.NoError(t, c.SetAll(12, 34, 56))
	first := c.Snapshot()
	require.NoError(t, c.SetAll(12, 34, 56))
	second := c.Snapshot()

	assert.Equal(t, first.Pixels, second.Pixels)
	assert.Equal(t, first.Color, second.Color)

	frames := bus.sent()
	require.Len(t, frames, 2)
	assert.Equal(t, frames[0], frames[1])
}

func TestConcurrentSetAllCommitsExactlyOne(t *testing.T) {
	c, bus, enc := newTestController(16)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		assert.NoError(t, c.SetAll(255, 0, 0))
	}()
	go func() {
		defer wg.Done()
		assert.NoError(t, c.SetAll(0, 0, 255))
	}()
	wg.Wait()

	s := c.Snapshot()
	red := ws2812.Color{R: 255}
	blue := ws2812.Color{B: 255}
	assert.Contains(t, []ws2812.Color{red, blue}, s.Color)
	for _, p := range s.Pixels {
		assert.Equal(t, s.Color, p)
	}

	// The last frame on the wire encodes the committed state, never a
	// mixture of the two writes.
	frames := bus.sent()
	require.Len(t, frames, 2)
	assert.Equal(t, enc.Frame(s.Pixels), frames[1])
}

func TestSweepLeavesStateUntouched(t *testing.T) {
	c, bus, _ := newTestController(8)

	require.NoError(t, c.Sweep(64, 0))

	frames := bus.sent()
	assert.Len(t, frames, 8)

	s := c.Snapshot()
	assert.Equal(t, uint64(0), s.Updates)
	for _, p := range s.Pixels {
		assert.Equal(t, ws2812.Color{}, p)
	}
}

func TestSweepLightsOneLEDPerStep(t *testing.T) {
	c, bus, enc := newTestController(4)

	require.NoError(t, c.Sweep(100, 0))

	for i, frame := range bus.sent() {
		pixels := make([]ws2812.Color, 4)
		pixels[i] = ws2812.Color{R: 100, G: 100, B: 100}
		assert.Equal(t, enc.Frame(pixels), frame)
	}
}

func TestSweepYieldsToQueuedCaller(t *testing.T) {
	const n = 500
	c, bus, _ := newTestController(n)

	sweepDone := make(chan error, 1)
	go func() {
		sweepDone <- c.Sweep(64, 2*time.Millisecond)
	}()

	// Wait for the sweep to put its first frame on the wire.
	require.Eventually(t, func() bool {
		return len(bus.sent()) > 0
	}, time.Second, time.Millisecond)

	// A real update queued mid-sweep makes the sweep hand over the strip
	// instead of walking all the way to the end.
	require.NoError(t, c.SetAll(1, 2, 3))
	require.NoError(t, <-sweepDone)

	// Sweep frames plus the one committed update, well short of n.
	assert.Less(t, len(bus.sent()), n)
	assert.Equal(t, ws2812.Color{R: 1, G: 2, B: 3}, c.Snapshot().Color)
}

func TestSweepPropagatesTransmitError(t *testing.T) {
	c, bus, _ := newTestController(8)
	bus.fail(errors.New("spi went away"))

	err := c.Sweep(64, 0)
	require.Error(t, err)
	var te *TransmitError
	assert.True(t, errors.As(err, &te))
}
