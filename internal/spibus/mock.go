//go:build !pi

package spibus

import (
	"sync"

	log "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/physic"
)

// Bus is a stand-in for the SPI peripheral on machines without one, so the
// rest of the stack can run during development.
type Bus struct {
	mu     sync.Mutex
	frames int
}

func Open(port string, clock physic.Frequency) (*Bus, error) {
	log.Infof("No SPI on this build, using a mock bus (port %q, clock %v)", port, clock)
	return &Bus{}, nil
}

func (b *Bus) Transmit(data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.frames++
	log.Debugf("Mock SPI transmit of %d bytes (frame %d)", len(data), b.frames)
	return nil
}

func (b *Bus) Close() error {
	log.Debug("Mock SPI closed")
	return nil
}
