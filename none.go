package postings

import "encoding/binary"

// None is the identity codec: integers are stored as raw little-endian
// 32-bit words. It exists as the reference point for compression ratio and
// throughput measurements, and as the trivial codec for test fixtures.
type None struct{}

// NewNone returns the identity codec.
func NewNone() None { return None{} }

// Encode copies src into dst as little-endian 32-bit words.
func (None) Encode(dst []byte, src []uint32) int {
	used := 4 * len(src)
	if used > len(dst) {
		return 0
	}
	for i, v := range src {
		binary.LittleEndian.PutUint32(dst[4*i:], v)
	}
	return used
}

// Decode reads every 32-bit word in src; count is not consulted because the
// byte length fixes the integer count exactly.
func (None) Decode(dst []uint32, count int, src []byte) {
	for i := 0; i+4 <= len(src); i += 4 {
		dst[i/4] = binary.LittleEndian.Uint32(src[i:])
	}
}

// DecodeDispatch decodes count d-gaps and dispatches running document ids.
func (None) DecodeDispatch(acc Accumulator, impact uint16, count int, src []byte) {
	var sum uint32
	for i := 0; i+4 <= len(src); i += 4 {
		sum += binary.LittleEndian.Uint32(src[i:])
		acc.AddRSV(sum, impact)
	}
}
