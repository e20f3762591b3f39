package ws2812

// Encoder turns a strip's pixel colors into the byte stream that produces
// valid WS2812B signaling when clocked out over SPI. The expansion of all
// 256 channel values is precomputed once at construction; the table is
// read-only afterwards and safe for concurrent use.
type Encoder struct {
	lut      [256][BytesPerChannel]byte
	preamble []byte
}

// NewEncoder builds an encoder that prefixes every frame with preambleBytes
// zero bytes. The zeros keep the line low long enough for the strip's latch
// to treat what follows as a new frame.
func NewEncoder(preambleBytes int) *Encoder {
	e := &Encoder{
		preamble: make([]byte, preambleBytes),
	}
	for b := 0; b < 256; b++ {
		w := bitWriter{}
		expandChannel(byte(b), &w)
		copy(e.lut[b][:], w.bytes())
	}
	return e
}

// FrameSize is the number of bytes Frame produces for a strip of n LEDs.
func (e *Encoder) FrameSize(n int) int {
	return len(e.preamble) + n*3*BytesPerChannel
}

// Frame encodes the pixels into a freshly allocated, transmit-ready byte
// sequence: preamble first, then each LED's channels in the GRB order the
// chipset expects. The GRB reordering is mandated by the hardware and must
// not be changed.
func (e *Encoder) Frame(pixels []Color) []byte {
	out := make([]byte, 0, e.FrameSize(len(pixels)))
	out = append(out, e.preamble...)
	for _, p := range pixels {
		out = append(out, e.lut[p.G][:]...)
		out = append(out, e.lut[p.R][:]...)
		out = append(out, e.lut[p.B][:]...)
	}
	return out
}
