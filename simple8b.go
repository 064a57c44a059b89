package postings

import (
	"encoding/binary"
	"math/bits"
)

// Simple8b packs integers into 64-bit words carrying a 4-bit selector and 60
// data bits. Selectors 0 and 1 encode runs of the value 1 — 240 and 120 ones
// respectively — using no data bits at all; selectors 2 through 15 pack 60
// 1-bit values down to a single 60-bit value. The encoder is greedy
// width-first, with a run-of-ones scan ahead of the width selectors.
type Simple8b struct{}

// NewSimple8b returns the Simple-8b codec.
func NewSimple8b() Simple8b { return Simple8b{} }

// simple8bIntsPacked is the payload count for each selector; selectors 0 and
// 1 are the run-of-ones forms.
var simple8bIntsPacked = [16]int{240, 120, 60, 30, 20, 15, 12, 10, 8, 7, 6, 5, 4, 3, 2, 1}

// simple8bWidth is each width selector's bits per integer (0 for the runs).
var simple8bWidth = [16]uint{0, 0, 1, 2, 3, 4, 5, 6, 7, 8, 10, 12, 15, 20, 30, 60}

// Encode packs greedily. A run of at least 240 ones takes one word holding
// only the selector; a run of 120..239 takes one word for its first 120 ones
// and the encoder continues on the rest. It returns 0 on overflow and on
// empty input.
func (Simple8b) Encode(dst []byte, src []uint32) int {
	used := 0
	for pos := 0; pos < len(src); {
		if used+8 > len(dst) {
			return 0
		}

		run := 0
		for pos+run < len(src) && run < 240 && src[pos+run] == 1 {
			run++
		}
		switch {
		case run >= 240:
			binary.LittleEndian.PutUint64(dst[used:], 0)
			pos += 240
		case run >= 120:
			binary.LittleEndian.PutUint64(dst[used:], 1)
			pos += 120
		default:
			selector := -1
			packed := 0
			for s := 2; s < 16; s++ {
				packed = simple8bIntsPacked[s]
				if pos+packed > len(src) {
					packed = len(src) - pos
				}
				if simple8bFits(src[pos:pos+packed], simple8bWidth[s]) {
					selector = s
					break
				}
			}
			if selector < 0 {
				return 0
			}
			var word uint64
			width := simple8bWidth[selector]
			for offset := 0; offset < packed; offset++ {
				word |= uint64(src[pos+offset]) << (width * uint(offset))
			}
			binary.LittleEndian.PutUint64(dst[used:], word<<4|uint64(selector))
			pos += packed
		}
		used += 8
	}
	return used
}

func simple8bFits(values []uint32, width uint) bool {
	for _, v := range values {
		if uint(bits.Len32(v)) > width {
			return false
		}
	}
	return true
}

// Decode expands each word's full payload count, so up to 239 slack
// integers may be written past count (a run word always emits its run).
func (Simple8b) Decode(dst []uint32, count int, src []byte) {
	out := 0
	for pos := 0; out < count; pos += 8 {
		word := binary.LittleEndian.Uint64(src[pos:])
		selector := word & 0xF
		switch selector {
		case 0:
			for i := 0; i < 240; i++ {
				dst[out] = 1
				out++
			}
		case 1:
			for i := 0; i < 120; i++ {
				dst[out] = 1
				out++
			}
		default:
			value := word >> 4
			width := simple8bWidth[selector]
			mask := uint64(1)<<width - 1
			for i := 0; i < simple8bIntsPacked[selector]; i++ {
				dst[out] = uint32(value & mask)
				out++
				value >>= width
			}
		}
	}
}
