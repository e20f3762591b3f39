package ws2812

// WS2812B bit timing approximated on a byte-oriented SPI bus. With the SPI
// clock at roughly 2.4 MHz, three SPI bit periods cover one WS2812B bit
// period (~1.25 µs), so each logical bit becomes a three-bit symbol where
// the length of the leading high pulse carries the value.
const (
	symbolZero = 0b100 // short high pulse
	symbolOne  = 0b110 // long high pulse

	symbolBits     = 3
	bitsPerChannel = 8 * symbolBits
	// BytesPerChannel is the packed size of one expanded color channel.
	BytesPerChannel = bitsPerChannel / 8
)

// Color is a single LED color in the conventional RGB order used by the
// API. The wire order differs, see Frame.
type Color struct {
	R uint8
	G uint8
	B uint8
}

// Clamp squeezes v into the 0-255 channel range. Out of range input is
// clamped to the nearest bound, never rejected.
func Clamp(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// expandChannel writes the symbol stream for a single channel byte, most
// significant bit first.
func expandChannel(b byte, w *bitWriter) {
	for i := 7; i >= 0; i-- {
		if b&(1<<uint(i)) != 0 {
			w.writeBits(symbolOne, symbolBits)
		} else {
			w.writeBits(symbolZero, symbolBits)
		}
	}
}

// bitWriter packs individual bits into bytes, most significant bit first.
type bitWriter struct {
	buf   []byte
	acc   byte
	count uint
}

// writeBits appends the low n bits of v, most significant first.
func (w *bitWriter) writeBits(v byte, n uint) {
	for i := n; i > 0; i-- {
		w.acc = w.acc<<1 | (v>>(i-1))&1
		w.count++
		if w.count == 8 {
			w.buf = append(w.buf, w.acc)
			w.acc = 0
			w.count = 0
		}
	}
}

// bytes flushes any partial byte, left justified with zero padding in the
// low bits, and returns the packed stream.
func (w *bitWriter) bytes() []byte {
	if w.count > 0 {
		w.buf = append(w.buf, w.acc<<(8-w.count))
		w.acc = 0
		w.count = 0
	}
	return w.buf
}
