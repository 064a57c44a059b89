package postings

import (
	"encoding/binary"
	"testing"
)

// TestSimple8bRunsOfOnes covers the boundaries of the two run selectors:
// a run of at least 240 takes a word holding only selector 0, 120..239 a
// word holding selector 1 for its first 120 ones.
func TestSimple8bRunsOfOnes(t *testing.T) {
	tests := []struct {
		run       int
		wantWords int
	}{
		{1, 1},
		{119, 2},  // 60 + 59 through the 1-bit selector
		{120, 1},  // selector 1
		{239, 3},  // 120 + 60 + 59
		{240, 1},  // selector 0
		{241, 2},  // 240 + 1
		{480, 2},  // 240 + 240
	}
	codec := NewSimple8b()
	for _, tt := range tests {
		src := make([]uint32, tt.run)
		for i := range src {
			src[i] = 1
		}
		buf := make([]byte, 8*tt.wantWords+8)
		n := codec.Encode(buf, src)
		if n != 8*tt.wantWords {
			t.Errorf("run %d: used %d bytes, want %d words", tt.run, n, tt.wantWords)
			continue
		}

		out := make([]uint32, tt.run+DecodeSlack)
		codec.Decode(out, tt.run, buf[:n])
		for i := 0; i < tt.run; i++ {
			if out[i] != 1 {
				t.Fatalf("run %d: Decode[%d] = %d, want 1", tt.run, i, out[i])
			}
		}
	}
}

func TestSimple8bRunSelectorWords(t *testing.T) {
	codec := NewSimple8b()

	src := make([]uint32, 240)
	for i := range src {
		src[i] = 1
	}
	buf := make([]byte, 16)
	if n := codec.Encode(buf, src); n != 8 {
		t.Fatalf("Encode(240 ones) used %d bytes, want 8", n)
	}
	if word := binary.LittleEndian.Uint64(buf); word != 0 {
		t.Errorf("240-run word = %#x, want selector 0 with empty payload", word)
	}

	if n := codec.Encode(buf, src[:120]); n != 8 {
		t.Fatalf("Encode(120 ones) used %d bytes, want 8", n)
	}
	if word := binary.LittleEndian.Uint64(buf); word != 1 {
		t.Errorf("120-run word = %#x, want selector 1 with empty payload", word)
	}
}

// TestSimple8bRunInterrupted checks a run broken by a non-one value falls
// back to the width selectors.
func TestSimple8bRunInterrupted(t *testing.T) {
	src := make([]uint32, 300)
	for i := range src {
		src[i] = 1
	}
	src[150] = 9
	encodeDecode(t, NewSimple8b(), src)
}

func TestSimple8bWidths(t *testing.T) {
	// One maximal value per width selector.
	values := []uint32{
		1, 3, 7, 15, 31, 63, 127, 255, 1023, 4095, 32767, 1<<20 - 1, 1<<30 - 1, 0xFFFFFFFF,
	}
	for _, v := range values {
		src := []uint32{v, v, v}
		encodeDecode(t, NewSimple8b(), src)
	}
}

func TestSimple8bSixtyBitWord(t *testing.T) {
	codec := NewSimple8b()
	buf := make([]byte, 8)
	n := codec.Encode(buf, []uint32{0xFFFFFFFF})
	if n != 8 {
		t.Fatalf("Encode used %d bytes, want 8", n)
	}
	word := binary.LittleEndian.Uint64(buf)
	if word&0xF != 15 {
		t.Errorf("selector = %d, want 15", word&0xF)
	}
	if word>>4 != 0xFFFFFFFF {
		t.Errorf("payload = %#x, want 0xFFFFFFFF", word>>4)
	}
}
