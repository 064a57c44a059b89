package postings

import (
	"bytes"
	"fmt"
	"testing"
)

// codecCase describes one codec's representable range for the shared
// property tests: the smallest encodable value and the widest encodable bit
// length.
type codecCase struct {
	name     string
	codec    Codec
	minValue uint32
	maxBits  uint
}

func codecCases() []codecCase {
	bitpack32, _ := NewBitPack(32)
	bitpack256, _ := NewBitPack(256)
	return []codecCase{
		{"none", NewNone(), 0, 32},
		{"varbyte", NewVarByte(), 0, 32},
		{"streamvbyte", NewStreamVByte(), 0, 32},
		{"eliasgamma", NewEliasGamma(), 1, 32},
		{"eliasdelta", NewEliasDelta(), 1, 32},
		{"simple9", NewSimple9(), 0, 28},
		{"simple16", NewSimple16(), 0, 28},
		{"simple8b", NewSimple8b(), 0, 32},
		{"bitpack32", bitpack32, 0, 32},
		{"bitpack256", bitpack256, 0, 32},
	}
}

// encodeDecode round-trips src through c and fails the test on mismatch.
func encodeDecode(t *testing.T, c Codec, src []uint32) []byte {
	t.Helper()
	buf := make([]byte, 10*len(src)+64)
	n := c.Encode(buf, src)
	if n == 0 {
		t.Fatalf("Encode refused %d integers", len(src))
	}

	out := make([]uint32, len(src)+DecodeSlack)
	c.Decode(out, len(src), buf[:n])
	for i := range src {
		if out[i] != src[i] {
			t.Fatalf("round-trip mismatch at %d: got %d, want %d", i, out[i], src[i])
		}
	}
	return buf[:n]
}

// TestRoundTripBitLadder encodes 1024 copies of 2^k - 1 for every k the
// codec can represent.
func TestRoundTripBitLadder(t *testing.T) {
	for _, tc := range codecCases() {
		t.Run(tc.name, func(t *testing.T) {
			for k := uint(0); k <= tc.maxBits; k++ {
				v := uint32(uint64(1)<<k - 1)
				if v < tc.minValue {
					continue
				}
				src := make([]uint32, 1024)
				for i := range src {
					src[i] = v
				}
				encodeDecode(t, tc.codec, src)
			}
		})
	}
}

// TestRoundTripAlternating interleaves the narrowest and widest values the
// codec accepts, the worst case for the Simple family's selector choice.
func TestRoundTripAlternating(t *testing.T) {
	for _, tc := range codecCases() {
		t.Run(tc.name, func(t *testing.T) {
			narrow := tc.minValue
			if narrow == 0 {
				narrow = 1
			}
			wide := uint32(uint64(1)<<tc.maxBits - 1)
			src := make([]uint32, 999)
			for i := range src {
				if i%2 == 0 {
					src[i] = narrow
				} else {
					src[i] = wide
				}
			}
			encodeDecode(t, tc.codec, src)
		})
	}
}

// TestRoundTripMixed uses a deterministic pseudo-random d-gap-like stream:
// mostly small gaps with occasional wide outliers.
func TestRoundTripMixed(t *testing.T) {
	for _, tc := range codecCases() {
		t.Run(tc.name, func(t *testing.T) {
			state := uint32(0x2545F491)
			limit := uint32(uint64(1)<<tc.maxBits - 1)
			src := make([]uint32, 4096)
			for i := range src {
				state = state*1664525 + 1013904223
				v := state >> 17 % 37
				if state%97 == 0 {
					v = state % limit
				}
				if v < tc.minValue {
					v = tc.minValue
				}
				if v > limit {
					v = limit
				}
				src[i] = v
			}
			encodeDecode(t, tc.codec, src)
		})
	}
}

// TestRoundTripShort covers lengths around the codecs' block boundaries.
func TestRoundTripShort(t *testing.T) {
	lengths := []int{1, 2, 3, 4, 5, 7, 9, 14, 27, 28, 29, 56, 60, 61}
	for _, tc := range codecCases() {
		t.Run(tc.name, func(t *testing.T) {
			for _, n := range lengths {
				src := make([]uint32, n)
				for i := range src {
					src[i] = uint32(i%7) + tc.minValue + 1
				}
				encodeDecode(t, tc.codec, src)
			}
		})
	}
}

// TestSingleOne encodes the single-element sequence {1} with every codec.
func TestSingleOne(t *testing.T) {
	for _, tc := range codecCases() {
		t.Run(tc.name, func(t *testing.T) {
			encodeDecode(t, tc.codec, []uint32{1})
		})
	}
}

// TestEmptyInput verifies every codec returns 0 for an empty sequence and
// that a zero-count decode of an empty buffer does not fault.
func TestEmptyInput(t *testing.T) {
	for _, tc := range codecCases() {
		t.Run(tc.name, func(t *testing.T) {
			buf := make([]byte, 64)
			if n := tc.codec.Encode(buf, nil); n != 0 {
				t.Errorf("Encode(empty) = %d, want 0", n)
			}
			out := make([]uint32, DecodeSlack)
			tc.codec.Decode(out, 0, nil)
		})
	}
}

// TestEncodeMonotone checks that re-encoding into a buffer of exactly the
// used size succeeds with identical bytes.
func TestEncodeMonotone(t *testing.T) {
	src := []uint32{1, 7, 300, 2, 90000, 1, 1, 1, 5, 40, 1000000, 3}
	for _, tc := range codecCases() {
		t.Run(tc.name, func(t *testing.T) {
			big := make([]byte, 10*len(src)+64)
			n := tc.codec.Encode(big, src)
			if n == 0 {
				t.Fatal("Encode refused the sequence")
			}
			exact := make([]byte, n)
			if m := tc.codec.Encode(exact, src); m != n {
				t.Fatalf("Encode with exact buffer = %d, want %d", m, n)
			}
			if !bytes.Equal(exact, big[:n]) {
				t.Error("exact-buffer encoding differs from large-buffer encoding")
			}
		})
	}
}

// TestEncodeOverflow checks the 0 return on a too-small buffer and recovery
// with a larger one.
func TestEncodeOverflow(t *testing.T) {
	src := []uint32{5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5}
	for _, tc := range codecCases() {
		t.Run(tc.name, func(t *testing.T) {
			if n := tc.codec.Encode(make([]byte, 1), src); n != 0 {
				t.Errorf("Encode into 1 byte = %d, want 0", n)
			}
			if n := tc.codec.Encode(make([]byte, 10*len(src)+64), src); n == 0 {
				t.Error("Encode into a large buffer still refused")
			}
		})
	}
}

// TestDispatchCodecs checks that every DispatchCodec's scatter path agrees
// with decode-then-integrate.
func TestDispatchCodecs(t *testing.T) {
	gaps := []uint32{2, 1, 2, 2, 4, 2, 4, 2, 100, 1, 65536}
	for _, tc := range codecCases() {
		dc, ok := tc.codec.(DispatchCodec)
		if !ok {
			continue
		}
		t.Run(tc.name, func(t *testing.T) {
			buf := make([]byte, 10*len(gaps)+64)
			n := dc.Encode(buf, gaps)
			if n == 0 {
				t.Fatal("Encode refused the sequence")
			}

			var acc recordingAccumulator
			dc.DecodeDispatch(&acc, 7, len(gaps), buf[:n])

			var sum uint32
			for i, gap := range gaps {
				sum += gap
				if i >= len(acc.calls) {
					t.Fatalf("dispatch stopped after %d of %d values", len(acc.calls), len(gaps))
				}
				if acc.calls[i] != (rsvCall{sum, 7}) {
					t.Errorf("call %d = %+v, want {%d 7}", i, acc.calls[i], sum)
				}
			}
		})
	}
}

func ExampleCodecs() {
	for _, d := range Codecs() {
		fmt.Println(d.Short, d.Name)
	}
	// Output:
	// -cn None
	// -cv Variable Byte
	// -cs Stream VByte
	// -cg Elias Gamma
	// -cd Elias Delta
	// -c9 Simple-9 Packed
	// -c6 Simple-16
	// -c8 Simple-8b
	// -cb Bitpack-32
	// -cB Bitpack-256
}
