package postings

import (
	"encoding/binary"

	"golang.org/x/sys/cpu"
)

// StreamVByte is the SIMD-oriented byte-aligned scheme of Lemire, Kurz and
// Rupp. The control stream comes first: one byte per block of four integers,
// two bits per integer recording its byte length minus one. The data stream
// follows, concatenating the minimum-length little-endian representation of
// each integer. Decoding a block is a single 16-byte permutation through a
// 256-entry shuffle table indexed by the control byte.
type StreamVByte struct{}

// NewStreamVByte returns the stream-vbyte codec.
func NewStreamVByte() StreamVByte { return StreamVByte{} }

// svbLength[ctrl] is the total data bytes consumed by one control byte.
var svbLength [256]uint8

// svbShuffle[ctrl] maps the 16 output bytes of a block (four little-endian
// uint32 values) to data-stream byte indexes; 0xFF selects a zero byte. This
// is the permutation a pshufb-style kernel applies.
var svbShuffle [256][16]uint8

// decodeQuad decodes one full block of four integers from data, returning
// the data bytes consumed. Selected at init: the shuffle-table kernel when
// the CPU has a byte-shuffle unit, the scalar fallback otherwise.
var decodeQuad func(dst []uint32, ctrl byte, data []byte) int

func init() {
	for ctrl := 0; ctrl < 256; ctrl++ {
		pos := uint8(0)
		for field := 0; field < 4; field++ {
			length := uint8(ctrl>>(2*field))&0x3 + 1
			for b := uint8(0); b < 4; b++ {
				if b < length {
					svbShuffle[ctrl][4*field+int(b)] = pos + b
				} else {
					svbShuffle[ctrl][4*field+int(b)] = 0xFF
				}
			}
			pos += length
		}
		svbLength[ctrl] = pos
	}

	decodeQuad = decodeQuadScalar
	if cpu.X86.HasSSSE3 || cpu.ARM64.HasASIMD {
		decodeQuad = decodeQuadShuffle
	}
}

// svbValueLen returns the data-stream length of v in bytes (1..4).
func svbValueLen(v uint32) int {
	switch {
	case v < 1<<8:
		return 1
	case v < 1<<16:
		return 2
	case v < 1<<24:
		return 3
	default:
		return 4
	}
}

// Encode emits ceil(len(src)/4) control bytes followed by the data stream.
func (StreamVByte) Encode(dst []byte, src []uint32) int {
	if len(src) == 0 {
		return 0
	}
	ctrlLen := (len(src) + 3) / 4
	total := ctrlLen
	for _, v := range src {
		total += svbValueLen(v)
	}
	if total > len(dst) {
		return 0
	}

	dataPos := ctrlLen
	for i := 0; i < len(src); i += 4 {
		var ctrl byte
		for j := 0; j < 4 && i+j < len(src); j++ {
			v := src[i+j]
			n := svbValueLen(v)
			ctrl |= byte(n-1) << uint(2*j)
			dst[dataPos] = byte(v)
			if n > 1 {
				dst[dataPos+1] = byte(v >> 8)
			}
			if n > 2 {
				dst[dataPos+2] = byte(v >> 16)
			}
			if n > 3 {
				dst[dataPos+3] = byte(v >> 24)
			}
			dataPos += n
		}
		dst[i/4] = ctrl
	}
	return total
}

// Decode reads count integers: full blocks through the selected quad kernel,
// the tail (and any block whose 16-byte window would overrun the data
// stream) through the scalar path.
func (StreamVByte) Decode(dst []uint32, count int, src []byte) {
	ctrlLen := (count + 3) / 4
	data := src[ctrlLen:]

	out := 0
	dataPos := 0
	for ; out+4 <= count; out += 4 {
		ctrl := src[out/4]
		if dataPos+16 <= len(data) {
			dataPos += decodeQuad(dst[out:], ctrl, data[dataPos:])
		} else {
			dataPos += decodeQuadScalar(dst[out:], ctrl, data[dataPos:])
		}
	}
	if out < count {
		ctrl := src[out/4]
		decodeTail(dst[out:], ctrl, data[dataPos:], count-out)
	}
}

// decodeQuadShuffle permutes a 16-byte window of the data stream into four
// little-endian integers via the shuffle table, the way the SIMD kernel
// does with a single byte-shuffle instruction.
func decodeQuadShuffle(dst []uint32, ctrl byte, data []byte) int {
	shuffle := &svbShuffle[ctrl]
	var block [16]byte
	for i := 0; i < 16; i++ {
		if idx := shuffle[i]; idx != 0xFF {
			block[i] = data[idx]
		}
	}
	dst[0] = binary.LittleEndian.Uint32(block[0:])
	dst[1] = binary.LittleEndian.Uint32(block[4:])
	dst[2] = binary.LittleEndian.Uint32(block[8:])
	dst[3] = binary.LittleEndian.Uint32(block[12:])
	return int(svbLength[ctrl])
}

// decodeQuadScalar decodes one block a value at a time.
func decodeQuadScalar(dst []uint32, ctrl byte, data []byte) int {
	pos := 0
	for j := 0; j < 4; j++ {
		n := int(ctrl>>uint(2*j))&0x3 + 1
		dst[j] = svbReadValue(data[pos:], n)
		pos += n
	}
	return pos
}

// decodeTail decodes the final short block of n (< 4) integers.
func decodeTail(dst []uint32, ctrl byte, data []byte, n int) {
	pos := 0
	for j := 0; j < n; j++ {
		length := int(ctrl>>uint(2*j))&0x3 + 1
		dst[j] = svbReadValue(data[pos:], length)
		pos += length
	}
}

func svbReadValue(data []byte, n int) uint32 {
	v := uint32(data[0])
	if n > 1 {
		v |= uint32(data[1]) << 8
	}
	if n > 2 {
		v |= uint32(data[2]) << 16
	}
	if n > 3 {
		v |= uint32(data[3]) << 24
	}
	return v
}

// DecodeDispatch decodes count d-gaps and dispatches running document ids,
// scattering straight into the accumulator instead of a buffer.
func (StreamVByte) DecodeDispatch(acc Accumulator, impact uint16, count int, src []byte) {
	ctrlLen := (count + 3) / 4
	data := src[ctrlLen:]

	var sum uint32
	dataPos := 0
	for out := 0; out < count; out++ {
		ctrl := src[out/4]
		n := int(ctrl>>uint(2*(out%4)))&0x3 + 1
		sum += svbReadValue(data[dataPos:], n)
		dataPos += n
		acc.AddRSV(sum, impact)
	}
}
