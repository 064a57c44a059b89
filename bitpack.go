package postings

import (
	"encoding/binary"
	"fmt"
	"math/bits"
)

// BitPack is fixed-width bit packing over blocks of 32-bit words. Each block
// is a one-byte selector followed by wordBits/8 payload bytes; every integer
// in the block is stored at the same width, chosen as the quantized width of
// the widest integer in the prefix Encode scans. That prefix always covers
// the integers the block holds and can reach past them, so a wide value just
// beyond a block can widen it. Widths are quantized so that rounding
// up never reduces the block's capacity: a 9-bit-wide block is stored at 10
// bits because three 9-bit and three 10-bit fields both fit a 32-bit lane.
// Values within a block are interleaved across the block's 32-bit lanes in
// SIMD lane order.
type BitPack struct {
	wordBits int
}

// NewBitPack returns a bitpack codec over blocks of wordBits bits.
// wordBits must be one of 32, 64, 128 or 256.
func NewBitPack(wordBits int) (*BitPack, error) {
	switch wordBits {
	case 32, 64, 128, 256:
		return &BitPack{wordBits: wordBits}, nil
	default:
		return nil, fmt.Errorf("bitpack: unsupported block width %d", wordBits)
	}
}

// bitpackWidthFor maps the bits needed to the quantized width actually used.
var bitpackWidthFor = [33]uint{
	1, 1, 2, 3, 4, 5, 6, 8, 8, 10, 10, 16, 16, 16, 16, 16, 16,
	32, 32, 32, 32, 32, 32, 32, 32, 32, 32, 32, 32, 32, 32, 32, 32,
}

// bitpackSelectorFor maps a quantized width to its selector byte.
var bitpackSelectorFor = map[uint]byte{1: 0, 2: 1, 3: 2, 4: 3, 5: 4, 6: 5, 8: 6, 10: 7, 16: 8, 32: 9}

// bitpackWidthOf maps a selector byte back to its width.
var bitpackWidthOf = [10]uint{1, 2, 3, 4, 5, 6, 8, 10, 16, 32}

func bitpackBitsNeeded(v uint32) uint {
	if n := uint(bits.Len32(v)); n > 1 {
		return n
	}
	return 1
}

// Encode emits selector-prefixed blocks. The width scan stops as soon as
// the widest value seen cannot cover any more integers, which keeps every
// integer the block will actually hold inside the scanned prefix.
func (b *BitPack) Encode(dst []byte, src []uint32) int {
	lanes := b.wordBits / 32
	used := 0
	for pos := 0; pos < len(src); {
		rem := len(src) - pos
		widest := uint(1)
		for i := 0; i < rem; i++ {
			if w := bitpackBitsNeeded(src[pos+i]); w > widest {
				widest = w
			}
			if widest*uint(i) > uint(b.wordBits) {
				break
			}
		}
		width := bitpackWidthFor[widest]

		blockBytes := 1 + b.wordBits/8
		if used+blockBytes > len(dst) {
			return 0
		}
		dst[used] = bitpackSelectorFor[width]
		for i := used + 1; i < used+blockBytes; i++ {
			dst[i] = 0
		}

		count := 32 / int(width) * lanes
		if rem < count {
			count = rem
		}
		payload := dst[used+1:]
		for i := 0; i < count; i++ {
			lane := i % lanes
			slot := uint(i / lanes)
			at := payload[4*lane:]
			word := binary.LittleEndian.Uint32(at)
			binary.LittleEndian.PutUint32(at, word|src[pos+i]<<(width*slot))
		}

		used += blockBytes
		pos += count
	}
	return used
}

// Decode expands whole blocks, so up to one block's capacity minus one in
// slack integers may be written past count.
func (b *BitPack) Decode(dst []uint32, count int, src []byte) {
	lanes := b.wordBits / 32
	out := 0
	for pos := 0; out < count; pos += 1 + b.wordBits/8 {
		width := bitpackWidthOf[src[pos]]
		mask := uint32(1)<<width - 1
		if width == 32 {
			mask = ^uint32(0)
		}
		payload := src[pos+1:]
		total := 32 / int(width) * lanes
		for i := 0; i < total; i++ {
			lane := i % lanes
			slot := uint(i / lanes)
			word := binary.LittleEndian.Uint32(payload[4*lane:])
			dst[out] = word >> (width * slot) & mask
			out++
		}
	}
}
