package postings

import (
	"bytes"
	"testing"
)

func TestVarByteEncodeBytes(t *testing.T) {
	tests := []struct {
		name string
		src  []uint32
		want []byte
	}{
		{"one", []uint32{1}, []byte{0x81}},
		{"zero", []uint32{0}, []byte{0x80}},
		{"seven bit max", []uint32{127}, []byte{0xFF}},
		{"two bytes", []uint32{128}, []byte{0x01, 0x80}},
		{"three bytes", []uint32{16384}, []byte{0x01, 0x00, 0x80}},
		{"1905", []uint32{1905}, []byte{0x0E, 0xF1}},
		{"mixed", []uint32{1, 128, 16384}, []byte{0x81, 0x01, 0x80, 0x01, 0x00, 0x80}},
		{"max uint32", []uint32{0xFFFFFFFF}, []byte{0x0F, 0x7F, 0x7F, 0x7F, 0xFF}},
	}
	codec := NewVarByte()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := make([]byte, 16)
			n := codec.Encode(buf, tt.src)
			if n != len(tt.want) {
				t.Fatalf("Encode used %d bytes, want %d", n, len(tt.want))
			}
			if !bytes.Equal(buf[:n], tt.want) {
				t.Errorf("Encode = % x, want % x", buf[:n], tt.want)
			}

			out := make([]uint32, len(tt.src)+DecodeSlack)
			codec.Decode(out, len(tt.src), buf[:n])
			for i, v := range tt.src {
				if out[i] != v {
					t.Errorf("Decode[%d] = %d, want %d", i, out[i], v)
				}
			}
		})
	}
}

func TestVarByteLen(t *testing.T) {
	tests := []struct {
		v    uint32
		want int
	}{
		{0, 1}, {127, 1}, {128, 2}, {1<<14 - 1, 2}, {1 << 14, 3},
		{1<<21 - 1, 3}, {1 << 21, 4}, {1<<28 - 1, 4}, {1 << 28, 5}, {0xFFFFFFFF, 5},
	}
	for _, tt := range tests {
		if got := varByteLen(tt.v); got != tt.want {
			t.Errorf("varByteLen(%d) = %d, want %d", tt.v, got, tt.want)
		}
	}
}

func TestVarByteOverflowBoundary(t *testing.T) {
	codec := NewVarByte()
	src := []uint32{1, 128} // needs 3 bytes
	if n := codec.Encode(make([]byte, 2), src); n != 0 {
		t.Errorf("Encode into 2 bytes = %d, want 0", n)
	}
	if n := codec.Encode(make([]byte, 3), src); n != 3 {
		t.Errorf("Encode into 3 bytes = %d, want 3", n)
	}
}
