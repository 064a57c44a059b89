package postings

import (
	"encoding/binary"
	"math/bits"

	"github.com/sargasso-search/postings/internal/bitmath"
)

// Simple16 extends Simple-9 to all sixteen selector values of the 4-bit
// tag, adding heterogeneous payload shapes such as seven 2-bit values
// followed by fourteen 1-bit values. Packing is greedy: at each position the
// encoder takes the lowest-numbered selector that fits the next run of
// integers. Values of 2^28 and above are not representable.
type Simple16 struct{}

// NewSimple16 returns the Simple-16 codec.
func NewSimple16() Simple16 { return Simple16{} }

// simple16IntsPacked is the payload count for each selector.
var simple16IntsPacked = [16]int{28, 21, 21, 21, 14, 9, 8, 7, 6, 6, 5, 5, 4, 3, 2, 1}

// simple16Widths lists each selector's per-position field widths.
var simple16Widths = [16][]uint{
	{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
	{2, 2, 2, 2, 2, 2, 2, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
	{1, 1, 1, 1, 1, 1, 1, 2, 2, 2, 2, 2, 2, 2, 1, 1, 1, 1, 1, 1, 1},
	{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 2, 2, 2, 2, 2, 2, 2},
	{2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2},
	{4, 3, 3, 3, 3, 3, 3, 3, 3},
	{3, 4, 4, 4, 4, 3, 3, 3},
	{4, 4, 4, 4, 4, 4, 4},
	{5, 5, 5, 5, 4, 4},
	{4, 4, 5, 5, 5, 5},
	{6, 6, 6, 5, 5},
	{5, 5, 6, 6, 6},
	{7, 7, 7, 7},
	{10, 9, 9},
	{14, 14},
	{28},
}

// simple16CanPack maps (width row, offset within word) to the bitmap of
// selectors that can still hold a value of that width at that offset.
var simple16CanPack = [12][28]uint16{
	{0xffff, 0x7fff, 0x3fff, 0x1fff, 0x0fff, 0x03ff, 0x00ff, 0x007f, 0x003f, 0x001f, 0x001f, 0x001f, 0x001f, 0x001f, 0x000f, 0x000f, 0x000f, 0x000f, 0x000f, 0x000f, 0x000f, 0x0001, 0x0001, 0x0001, 0x0001, 0x0001, 0x0001, 0x0001},
	{0xfff2, 0x7ff2, 0x3ff2, 0x1ff2, 0x0ff2, 0x03f2, 0x00f2, 0x0074, 0x0034, 0x0014, 0x0014, 0x0014, 0x0014, 0x0014, 0x0008, 0x0008, 0x0008, 0x0008, 0x0008, 0x0008, 0x0008, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000},
	{0xffe0, 0x7fe0, 0x3fe0, 0x1fe0, 0x0fe0, 0x03e0, 0x00e0, 0x0060, 0x0020, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000},
	{0xffa0, 0x7fc0, 0x3fc0, 0x1fc0, 0x0fc0, 0x0380, 0x0080, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000},
	{0xfd00, 0x7d00, 0x3f00, 0x1f00, 0x0e00, 0x0200, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000},
	{0xf400, 0x7400, 0x3c00, 0x1800, 0x0800, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000},
	{0xf000, 0x7000, 0x3000, 0x1000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000},
	{0xe000, 0x6000, 0x2000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000},
	{0xe000, 0x4000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000},
	{0xc000, 0x4000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000},
	{0x8000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000},
	{0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000},
}

// simple16InvalidMasks[i] is the set of selectors that pack at most i values.
var simple16InvalidMasks = [29]uint16{
	0x0000, 0x8000, 0xc000, 0xe000, 0xf000, 0xfc00, 0xff00, 0xff80, 0xffc0, 0xffe0, 0xffe0, 0xffe0, 0xffe0, 0xffe0,
	0xfff0, 0xfff0, 0xfff0, 0xfff0, 0xfff0, 0xfff0, 0xfff0, 0xfffe, 0xfffe, 0xfffe, 0xfffe, 0xfffe, 0xfffe, 0xfffe, 0xffff,
}

// simple16Row maps a value's bit length to its row in simple16CanPack.
// Lengths above 28 hit the all-zero overflow row.
var simple16Row = [33]int{
	0, 0, 1, 2, 3, 4, 5, 6, 7, 7, 8, 9, 9, 9, 9, 10, 10, 10, 10, 10, 10, 10, 10, 10, 10, 10, 10, 10, 10,
	11, 11, 11, 11,
}

// Encode packs greedily, one 32-bit word at a time. It returns 0 on
// overflow and on any value of 2^28 or above.
func (Simple16) Encode(dst []byte, src []uint32) int {
	used := 0
	for pos := 0; pos < len(src); {
		if used+4 > len(dst) {
			return 0
		}

		remaining := len(src) - pos
		if remaining > 28 {
			remaining = 28
		}
		var last uint16
		bitmask := uint16(0xFFFF)
		for offset := 0; offset < remaining && bitmask != 0; offset++ {
			bitmask &= simple16CanPack[simple16Row[bitmath.CeilLog2(src[pos+offset])]][offset]
			last |= bitmask & simple16InvalidMasks[offset+1]
		}
		if last == 0 {
			return 0
		}

		selector := bits.TrailingZeros16(last)
		packed := simple16IntsPacked[selector]
		if pos+packed > len(src) {
			packed = len(src) - pos
		}

		var word uint32
		shift := uint(0)
		for offset := 0; offset < packed; offset++ {
			word |= src[pos+offset] << shift
			shift += simple16Widths[selector][offset]
		}
		binary.LittleEndian.PutUint32(dst[used:], word<<4|uint32(selector))
		used += 4
		pos += packed
	}
	return used
}

// Decode walks each word's selector row, emitting the full payload count;
// up to 27 slack integers may be written past count.
func (Simple16) Decode(dst []uint32, count int, src []byte) {
	out := 0
	for pos := 0; out < count; pos += 4 {
		word := binary.LittleEndian.Uint32(src[pos:])
		value := word >> 4
		for _, width := range simple16Widths[word&0xF] {
			dst[out] = value & (1<<width - 1)
			out++
			value >>= width
		}
	}
}
