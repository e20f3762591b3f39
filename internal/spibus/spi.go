//go:build pi

package spibus

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// Bus is the physical SPI peripheral the LED frames are clocked out on.
// There is exactly one per process; the strip controller serializes access.
type Bus struct {
	port spi.PortCloser
	conn spi.Conn
}

// Open claims the SPI port and configures it for WS2812B signaling. An
// empty port name selects the first available port.
func Open(port string, clock physic.Frequency) (*Bus, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("initialize periph host: %w", err)
	}

	p, err := spireg.Open(port)
	if err != nil {
		return nil, fmt.Errorf("open SPI port %q: %w", port, err)
	}

	conn, err := p.Connect(clock, spi.Mode0, 8)
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("configure SPI port %q: %w", port, err)
	}

	log.Infof("Opened SPI port %q at %v", port, clock)
	return &Bus{port: p, conn: conn}, nil
}

// Transmit clocks the frame out, blocking until the last byte has left.
func (b *Bus) Transmit(data []byte) error {
	return b.conn.Tx(data, nil)
}

// Close releases the SPI port. Must be called exactly once at shutdown so
// the peripheral is left clean for the next process.
func (b *Bus) Close() error {
	return b.port.Close()
}
