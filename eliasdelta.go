package postings

import (
	"math/bits"

	"github.com/sargasso-search/postings/internal/bitmath"
)

// EliasDelta encodes each value v >= 1 by Elias-gamma coding its bit length
// n = floor(log2(v)) + 1, then appending the low n-1 bits of v. The length
// field uses the same inverted, low-end-first layout as EliasGamma, and the
// same zeroed-destination trick, so the stream is byte-truncatable and
// likewise opaque to anything but this codec's own reader.
//
// Zero is not representable; Encode returns 0 if src contains a zero.
type EliasDelta struct{}

// NewEliasDelta returns the Elias delta codec.
func NewEliasDelta() EliasDelta { return EliasDelta{} }

// Encode writes gamma-of-length then the raw payload for each value.
func (EliasDelta) Encode(dst []byte, src []uint32) int {
	for i := range dst {
		dst[i] = 0
	}

	var into uint64
	for _, v := range src {
		if v == 0 {
			return 0
		}
		// n is the length of v in bits; unary is floor(log2(n)).
		n := uint(bits.Len32(v))
		unary := uint(bits.Len32(uint32(n))) - 1

		// Unary run of zeros for the gamma-coded length.
		into += uint64(unary)

		// Length field, high bit moved to the low end.
		zigzag := uint64(n&^(1<<unary))<<1 | 1
		if !bitmath.OrBits(dst, into, zigzag, unary+1) {
			return 0
		}
		into += uint64(unary) + 1

		// Payload: v without its high bit, not inverted.
		payload := uint64(v) &^ (1 << (n - 1))
		if !bitmath.OrBits(dst, into, payload, n-1) {
			return 0
		}
		into += uint64(n) - 1
	}
	return int((into + 7) / 8)
}

// Decode reads count values: the gamma-coded length first, then a
// bit-extract of the payload, each with an explicit branch for the
// window-splitting case.
func (EliasDelta) Decode(dst []uint32, count int, src []byte) {
	var window uint64
	remaining := 0
	off := 0

	for i := 0; i < count; i++ {
		// Unary part of the length's gamma code.
		var unary int
		if window != 0 {
			tz := bits.TrailingZeros64(window)
			unary = tz
			window >>= uint(tz)
			remaining -= tz
		} else {
			window = bitmath.LoadWord(src, off)
			off += 8
			tz := bits.TrailingZeros64(window)
			unary = remaining + tz
			window >>= uint(tz)
			remaining = 64 - tz
		}

		// Binary part of the length's gamma code.
		var length int
		if remaining > unary {
			length = int(bitmath.Extract(window, unary+1)>>1) | 1<<uint(unary)
			remaining -= unary + 1
			window >>= uint(unary + 1)
		} else {
			low := window
			window = bitmath.LoadWord(src, off)
			off += 8
			low |= bitmath.Extract(window, unary-remaining+1) << uint(remaining)
			length = int(low>>1) | 1<<uint(unary)
			used := unary - remaining + 1
			remaining = 64 - used
			window >>= uint(used)
		}

		// The payload is length-1 bits with an implicit high bit.
		if remaining >= length {
			dst[i] = uint32(bitmath.Extract(window, length-1)) | 1<<uint(length-1)
			remaining -= length - 1
			window >>= uint(length - 1)
		} else {
			low := uint32(window)
			window = bitmath.LoadWord(src, off)
			off += 8
			low |= uint32(bitmath.Extract(window, length-remaining-1) << uint(remaining))
			dst[i] = low | 1<<uint(length-1)
			used := length - remaining - 1
			remaining = 64 - used
			window >>= uint(used)
		}
	}
}
