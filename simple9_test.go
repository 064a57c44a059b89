package postings

import (
	"encoding/binary"
	"testing"
)

// TestSimple9TwentyEightOnes packs 28 ones into a single word: selector 0
// with every data bit set, word value 0xFFFFFFF0.
func TestSimple9TwentyEightOnes(t *testing.T) {
	codec := NewSimple9()
	src := make([]uint32, 28)
	for i := range src {
		src[i] = 1
	}

	buf := make([]byte, 16)
	n := codec.Encode(buf, src)
	if n != 4 {
		t.Fatalf("Encode used %d bytes, want 4", n)
	}
	if word := binary.LittleEndian.Uint32(buf); word != 0xFFFFFFF0 {
		t.Errorf("word = %#08x, want 0xFFFFFFF0", word)
	}

	out := make([]uint32, len(src)+DecodeSlack)
	codec.Decode(out, len(src), buf[:n])
	for i := range src {
		if out[i] != 1 {
			t.Errorf("Decode[%d] = %d, want 1", i, out[i])
		}
	}
}

func TestSimple9SingleInteger(t *testing.T) {
	codec := NewSimple9()
	buf := make([]byte, 8)
	n := codec.Encode(buf, []uint32{1234567})
	if n != 4 {
		t.Fatalf("Encode used %d bytes, want 4", n)
	}
	if word := binary.LittleEndian.Uint32(buf); word != 1234567<<4|8 {
		t.Errorf("word = %#08x, want selector 8", word)
	}
}

func TestSimple9BitWidthRefusal(t *testing.T) {
	codec := NewSimple9()
	buf := make([]byte, 64)

	if n := codec.Encode(buf, []uint32{1 << 28}); n != 0 {
		t.Errorf("Encode(2^28) = %d, want 0", n)
	}
	if n := codec.Encode(buf, []uint32{1<<28 - 1}); n == 0 {
		t.Error("Encode(2^28-1) refused")
	}
	if n := codec.Encode(buf, []uint32{1, 2, 3, 1 << 28}); n != 0 {
		t.Errorf("Encode with trailing 2^28 = %d, want 0", n)
	}
	if n := codec.Encode(buf, []uint32{1 << 28, 1, 2, 3}); n != 0 {
		t.Errorf("Encode with leading 2^28 = %d, want 0", n)
	}
}

func TestSimple9EmptyInput(t *testing.T) {
	codec := NewSimple9()
	if n := codec.Encode(make([]byte, 64), nil); n != 0 {
		t.Errorf("Encode(empty) = %d, want 0", n)
	}
}

// TestSimple9ScratchGrowth reuses one instance across growing inputs so the
// scratch arrays are exercised at and beyond their high-water mark.
func TestSimple9ScratchGrowth(t *testing.T) {
	codec := NewSimple9()
	for _, n := range []int{2, 1000, 10, 2000, 2000, 5} {
		src := make([]uint32, n)
		for i := range src {
			src[i] = uint32(i%300 + 1)
		}
		encodeDecode(t, codec, src)
	}
}

// TestSimple9PackedBeatsGreedyShape uses the classic pathological input for
// greedy Simple-9: a wide value after a run the greedy packer would have
// split badly. The DP path must still round-trip exactly.
func TestSimple9PackedBeatsGreedyShape(t *testing.T) {
	src := []uint32{
		1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
		1<<14 - 1, 1<<14 - 1,
		1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
		1<<28 - 1,
	}
	encodeDecode(t, NewSimple9(), src)
}
