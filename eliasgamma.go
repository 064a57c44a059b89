package postings

import (
	"math/bits"

	"github.com/sargasso-search/postings/internal/bitmath"
)

// EliasGamma encodes each value v >= 1 as floor(log2(v)) zero bits followed
// by the binary of v. The bit stream is written least-significant-bit-first
// per byte, and the binary part is stored "inverted": the high bit of v is
// moved to the low position so it terminates the unary run. Storing low-end
// first means the encoder can report a length in bytes and the stream can be
// truncated at any byte boundary.
//
// The byte stream is opaque: it round-trips only through this codec's own
// reader, which finds each unary terminator with a trailing-zero count over
// 64-bit little-endian windows loaded from the same byte positions the
// writer used. A naive high-to-low bit reader will not decode it.
//
// Zero is not representable; Encode returns 0 if src contains a zero.
type EliasGamma struct{}

// NewEliasGamma returns the Elias gamma codec.
func NewEliasGamma() EliasGamma { return EliasGamma{} }

// Encode zeroes dst, then ORs each value's terminator-and-payload pattern
// into a 64-bit window at the current bit offset. The unary zeros need no
// write at all.
func (EliasGamma) Encode(dst []byte, src []uint32) int {
	for i := range dst {
		dst[i] = 0
	}

	var into uint64
	for _, v := range src {
		if v == 0 {
			return 0
		}
		n := uint(bits.Len32(v)) - 1

		// The unary run of n zeros is already in place.
		into += uint64(n)

		// Move the high bit to the low end so it terminates the unary run.
		zigzag := uint64(v&^(1<<n))<<1 | 1
		if !bitmath.OrBits(dst, into, zigzag, n+1) {
			return 0
		}
		into += uint64(n) + 1
	}
	return int((into + 7) / 8)
}

// Decode reads count values. Each unary run length comes from a hardware
// trailing-zero count on the current 64-bit window, with an explicit branch
// for runs and payloads that split a window.
func (EliasGamma) Decode(dst []uint32, count int, src []byte) {
	var window uint64
	remaining := 0 // decoded bits left in window
	off := 0       // byte offset of the next window load

	for i := 0; i < count; i++ {
		var unary int
		if window != 0 {
			tz := bits.TrailingZeros64(window)
			unary = tz
			window >>= uint(tz)
			remaining -= tz
		} else {
			// The unary run splits a window.
			unary = remaining
			window = bitmath.LoadWord(src, off)
			off += 8
			tz := bits.TrailingZeros64(window)
			unary += tz
			window >>= uint(tz)
			remaining = 64 - tz
		}

		if remaining > unary {
			dst[i] = uint32(bitmath.Extract(window, unary+1)>>1) | 1<<uint(unary)
			remaining -= unary + 1
			window >>= uint(unary + 1)
		} else {
			// The payload splits a window.
			low := uint32(window)
			window = bitmath.LoadWord(src, off)
			off += 8
			low |= uint32(bitmath.Extract(window, unary-remaining+1) << uint(remaining))
			dst[i] = low>>1 | 1<<uint(unary)
			used := unary - remaining + 1
			remaining = 64 - used
			window >>= uint(used)
		}
	}
}
