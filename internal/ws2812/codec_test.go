package ws2812

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestClamp(t *testing.T) {
	tt := []struct {
		name  string
		input int
		want  uint8
	}{
		{"negative clamps to zero", -10, 0},
		{"far negative clamps to zero", -100000, 0},
		{"zero passes", 0, 0},
		{"in range passes", 128, 128},
		{"max passes", 255, 255},
		{"over max clamps to max", 300, 255},
		{"far over max clamps to max", 1 << 20, 255},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Clamp(tc.input))
		})
	}
}

func TestExpandChannel(t *testing.T) {
	tt := []struct {
		name  string
		input byte
		want  []byte
	}{
		{"all zero bits", 0x00, []byte{0x92, 0x49, 0x24}},
		{"all one bits", 0xff, []byte{0xdb, 0x6d, 0xb6}},
		{"alternating from one", 0xaa, []byte{0xd3, 0x4d, 0x34}},
		{"high bit only", 0x80, []byte{0xd2, 0x49, 0x24}},
		{"low bit only", 0x01, []byte{0x92, 0x49, 0x26}},
		{"low nibble", 0x0f, []byte{0x92, 0x4d, 0xb6}},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			w := bitWriter{}
			expandChannel(tc.input, &w)
			assert.Equal(t, tc.want, w.bytes())
		})
	}
}

// Every one of the 256 channel values must expand to exactly 24 bits where
// bit i of the input (MSB first) selects symbol 110 or 100.
func TestExpandChannelSymbolRule(t *testing.T) {
	for b := 0; b < 256; b++ {
		w := bitWriter{}
		expandChannel(byte(b), &w)
		packed := w.bytes()
		assert.Len(t, packed, BytesPerChannel)

		for i := 0; i < 8; i++ {
			want := byte(symbolZero)
			if b&(1<<uint(7-i)) != 0 {
				want = symbolOne
			}
			for j := 0; j < symbolBits; j++ {
				pos := i*symbolBits + j
				got := packed[pos/8] >> uint(7-pos%8) & 1
				assert.Equalf(t, want>>uint(symbolBits-1-j)&1, got,
					"byte 0x%02x, input bit %d, symbol bit %d", b, i, j)
			}
		}
	}
}

func TestBitWriterPacksMSBFirst(t *testing.T) {
	w := bitWriter{}
	w.writeBits(0b1, 1)
	w.writeBits(0b0110, 4)
	w.writeBits(0b101, 3)
	assert.Equal(t, []byte{0b10110101}, w.bytes())
}

func TestBitWriterPadsPartialByte(t *testing.T) {
	w := bitWriter{}
	w.writeBits(0b101, 3)
	// Remaining bits are left justified and zero padded.
	assert.Equal(t, []byte{0b10100000}, w.bytes())
}
