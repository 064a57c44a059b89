package postings

import (
	"encoding/binary"

	"github.com/sargasso-search/postings/internal/bitmath"
)

// Simple9 packs integers into 32-bit words, each carrying a 4-bit selector
// and 28 data bits holding one of nine payload shapes: 28 1-bit values down
// to a single 28-bit value. Values of 2^28 and above are not representable.
//
// Where classic Simple-9 packs greedily, this encoder chooses selectors by
// reverse dynamic programming: for each position i from the end it records
// the minimum number of words needed to encode i..end and the selector that
// achieves it, then emits forward along the recorded path. Greedy packing
// produces pathological selector runs on postings with widely varying d-gap
// widths; the DP path is never worse and often strictly better.
//
// The DP scratch arrays grow to the longest input seen and are reused, so a
// single Simple9 instance is not safe for concurrent Encode calls.
type Simple9 struct {
	blocksNeeded []int64
	masks        []uint8
}

// NewSimple9 returns a Simple-9 codec with empty scratch arrays.
func NewSimple9() *Simple9 { return &Simple9{} }

// simple9IntsPacked is the payload count for each selector.
var simple9IntsPacked = [9]int{28, 14, 9, 7, 5, 4, 3, 2, 1}

// simple9Shift holds, per selector, the bit position of each packed value
// within the 28 data bits (the cumulative sum of prior widths).
var simple9Shift = [9][28]uint{
	{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23, 24, 25, 26, 27},
	{0, 2, 4, 6, 8, 10, 12, 14, 16, 18, 20, 22, 24, 26, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28},
	{0, 3, 6, 9, 12, 15, 18, 21, 24, 27, 27, 27, 27, 27, 27, 27, 27, 27, 27, 27, 27, 27, 27, 27, 27, 27, 27, 27},
	{0, 4, 8, 12, 16, 20, 24, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28},
	{0, 5, 10, 15, 20, 25, 25, 25, 25, 25, 25, 25, 25, 25, 25, 25, 25, 25, 25, 25, 25, 25, 25, 25, 25, 25, 25, 25},
	{0, 7, 14, 21, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28},
	{0, 9, 18, 27, 27, 27, 27, 27, 27, 27, 27, 27, 27, 27, 27, 27, 27, 27, 27, 27, 27, 27, 27, 27, 27, 27, 27, 27},
	{0, 14, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28},
	{0, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28},
}

// simple9CanPack maps (width row, offset within word) to the bitmap of
// selectors that can still hold a value of that width at that offset.
var simple9CanPack = [10][28]uint16{
	{0x01ff, 0x00ff, 0x007f, 0x003f, 0x001f, 0x000f, 0x000f, 0x0007, 0x0007, 0x0003, 0x0003, 0x0003, 0x0003, 0x0003, 0x0001, 0x0001, 0x0001, 0x0001, 0x0001, 0x0001, 0x0001, 0x0001, 0x0001, 0x0001, 0x0001, 0x0001, 0x0001, 0x0001},
	{0x01fe, 0x00fe, 0x007e, 0x003e, 0x001e, 0x000e, 0x000e, 0x0006, 0x0006, 0x0002, 0x0002, 0x0002, 0x0002, 0x0002, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000},
	{0x01fc, 0x00fc, 0x007c, 0x003c, 0x001c, 0x000c, 0x000c, 0x0004, 0x0004, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000},
	{0x01f8, 0x00f8, 0x0078, 0x0038, 0x0018, 0x0008, 0x0008, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000},
	{0x01f0, 0x00f0, 0x0070, 0x0030, 0x0010, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000},
	{0x01e0, 0x00e0, 0x0060, 0x0020, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000},
	{0x01c0, 0x00c0, 0x0040, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000},
	{0x0180, 0x0080, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000},
	{0x0100, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000},
	{0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000},
}

// simple9InvalidMasks[i] is the set of selectors that pack at most i values,
// used to collect selectors already fully satisfied by a short prefix.
var simple9InvalidMasks = [29]uint16{
	0x0000, 0x0100, 0x0180, 0x01c0, 0x01e0, 0x01f0, 0x01f0, 0x01f8, 0x01f8, 0x01fc, 0x01fc, 0x01fc, 0x01fc, 0x01fc,
	0x01fe, 0x01fe, 0x01fe, 0x01fe, 0x01fe, 0x01fe, 0x01fe, 0x01fe, 0x01fe, 0x01fe, 0x01fe, 0x01fe, 0x01fe, 0x01fe, 0x01ff,
}

// simple9Row maps a value's bit length to its row in simple9CanPack.
// Lengths above 28 hit the all-zero overflow row.
var simple9Row = [33]int{
	0, 0, 1, 2, 3, 4, 5, 5, 6, 6, 7, 7, 7, 7, 7, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8,
	9, 9, 9, 9,
}

// Encode runs the reverse DP over src, then packs forward along the
// recorded selector path. It returns 0 on overflow, on any value of 2^28 or
// above, and on empty input.
func (s *Simple9) Encode(dst []byte, src []uint32) int {
	if len(src) > len(s.masks) {
		s.blocksNeeded = make([]int64, len(src))
		s.masks = make([]uint8, len(src))
	}

	// The DP needs at least two elements; short inputs pack directly.
	if len(src) <= 1 {
		if len(src) == 0 {
			return 0
		}
		if bitmath.CeilLog2(src[0]) > 28 {
			return 0
		}
		if len(dst) < 4 {
			return 0
		}
		binary.LittleEndian.PutUint32(dst, src[0]<<4|8)
		return 4
	}

	// The DP seeds the final position as pack-by-self, so its width is
	// never run through the can-pack tables; reject it here.
	if bitmath.CeilLog2(src[len(src)-1]) > 28 {
		return 0
	}

	for i := range src {
		s.blocksNeeded[i] = -1
		s.masks[i] = 255
	}
	s.blocksNeeded[len(src)-1] = 0
	s.masks[len(src)-1] = 8

	for pos := len(src) - 2; pos >= 0; pos-- {
		remaining := len(src) - pos
		if remaining > 28 {
			remaining = 28
		}
		var last uint16
		bitmask := uint16(0xFFFF)
		for offset := 0; offset < remaining && bitmask != 0; offset++ {
			bitmask &= simple9CanPack[simple9Row[bitmath.CeilLog2(src[pos+offset])]][offset]
			last |= bitmask & simple9InvalidMasks[offset+1]
		}
		if last == 0 {
			return 0
		}

		for selector := 0; selector < 9; selector++ {
			if last&(1<<uint(selector)) == 0 {
				continue
			}
			packed := simple9IntsPacked[selector]
			switch {
			case pos+packed >= len(src):
				s.blocksNeeded[pos] = 1
				s.masks[pos] = uint8(selector)
			case s.blocksNeeded[pos] == -1 || s.blocksNeeded[pos] > s.blocksNeeded[pos+packed]+1:
				s.blocksNeeded[pos] = s.blocksNeeded[pos+packed] + 1
				s.masks[pos] = uint8(selector)
			}
		}
		if s.masks[pos] == 255 {
			return 0
		}
	}

	used := 0
	for pos := 0; pos < len(src); {
		if used+4 > len(dst) {
			return 0
		}
		selector := s.masks[pos]
		packed := simple9IntsPacked[selector]
		if pos+packed > len(src) {
			packed = len(src) - pos
		}
		var word uint32
		for offset := 0; offset < packed; offset++ {
			word |= src[pos+offset] << simple9Shift[selector][offset]
		}
		binary.LittleEndian.PutUint32(dst[used:], word<<4|uint32(selector))
		used += 4
		pos += packed
	}
	return used
}

// Decode switches on each word's selector with a fully unrolled mask-and-
// shift sequence per case. Unused high bits of a data word are ignored; a
// word always emits its full payload count, so up to 27 slack integers may
// be written past count.
func (s *Simple9) Decode(dst []uint32, count int, src []byte) {
	out := 0
	for pos := 0; out < count; pos += 4 {
		word := binary.LittleEndian.Uint32(src[pos:])
		value := word >> 4
		switch word & 0xF {
		case 0:
			dst[out] = value & 0x1
			dst[out+1] = value >> 0x1 & 0x1
			dst[out+2] = value >> 0x2 & 0x1
			dst[out+3] = value >> 0x3 & 0x1
			dst[out+4] = value >> 0x4 & 0x1
			dst[out+5] = value >> 0x5 & 0x1
			dst[out+6] = value >> 0x6 & 0x1
			dst[out+7] = value >> 0x7 & 0x1
			dst[out+8] = value >> 0x8 & 0x1
			dst[out+9] = value >> 0x9 & 0x1
			dst[out+10] = value >> 0xA & 0x1
			dst[out+11] = value >> 0xB & 0x1
			dst[out+12] = value >> 0xC & 0x1
			dst[out+13] = value >> 0xD & 0x1
			dst[out+14] = value >> 0xE & 0x1
			dst[out+15] = value >> 0xF & 0x1
			dst[out+16] = value >> 0x10 & 0x1
			dst[out+17] = value >> 0x11 & 0x1
			dst[out+18] = value >> 0x12 & 0x1
			dst[out+19] = value >> 0x13 & 0x1
			dst[out+20] = value >> 0x14 & 0x1
			dst[out+21] = value >> 0x15 & 0x1
			dst[out+22] = value >> 0x16 & 0x1
			dst[out+23] = value >> 0x17 & 0x1
			dst[out+24] = value >> 0x18 & 0x1
			dst[out+25] = value >> 0x19 & 0x1
			dst[out+26] = value >> 0x1A & 0x1
			dst[out+27] = value >> 0x1B & 0x1
			out += 28
		case 1:
			dst[out] = value & 0x3
			dst[out+1] = value >> 0x2 & 0x3
			dst[out+2] = value >> 0x4 & 0x3
			dst[out+3] = value >> 0x6 & 0x3
			dst[out+4] = value >> 0x8 & 0x3
			dst[out+5] = value >> 0xA & 0x3
			dst[out+6] = value >> 0xC & 0x3
			dst[out+7] = value >> 0xE & 0x3
			dst[out+8] = value >> 0x10 & 0x3
			dst[out+9] = value >> 0x12 & 0x3
			dst[out+10] = value >> 0x14 & 0x3
			dst[out+11] = value >> 0x16 & 0x3
			dst[out+12] = value >> 0x18 & 0x3
			dst[out+13] = value >> 0x1A & 0x3
			out += 14
		case 2:
			dst[out] = value & 0x7
			dst[out+1] = value >> 0x3 & 0x7
			dst[out+2] = value >> 0x6 & 0x7
			dst[out+3] = value >> 0x9 & 0x7
			dst[out+4] = value >> 0xC & 0x7
			dst[out+5] = value >> 0xF & 0x7
			dst[out+6] = value >> 0x12 & 0x7
			dst[out+7] = value >> 0x15 & 0x7
			dst[out+8] = value >> 0x18 & 0x7
			out += 9
		case 3:
			dst[out] = value & 0xF
			dst[out+1] = value >> 0x4 & 0xF
			dst[out+2] = value >> 0x8 & 0xF
			dst[out+3] = value >> 0xC & 0xF
			dst[out+4] = value >> 0x10 & 0xF
			dst[out+5] = value >> 0x14 & 0xF
			dst[out+6] = value >> 0x18 & 0xF
			out += 7
		case 4:
			dst[out] = value & 0x1F
			dst[out+1] = value >> 0x5 & 0x1F
			dst[out+2] = value >> 0xA & 0x1F
			dst[out+3] = value >> 0xF & 0x1F
			dst[out+4] = value >> 0x14 & 0x1F
			out += 5
		case 5:
			dst[out] = value & 0x7F
			dst[out+1] = value >> 0x7 & 0x7F
			dst[out+2] = value >> 0xE & 0x7F
			dst[out+3] = value >> 0x15 & 0x7F
			out += 4
		case 6:
			dst[out] = value & 0x1FF
			dst[out+1] = value >> 0x9 & 0x1FF
			dst[out+2] = value >> 0x12 & 0x1FF
			out += 3
		case 7:
			dst[out] = value & 0x3FFF
			dst[out+1] = value >> 0xE & 0x3FFF
			out += 2
		case 8:
			dst[out] = value & 0xFFFFFFF
			out++
		}
	}
}
