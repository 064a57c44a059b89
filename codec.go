package postings

// DecodeSlack is the number of extra integers a decode output buffer must
// provide beyond the requested count. Decoders work in whole blocks and may
// over-produce by up to one block; the largest block in the family is a
// 256-bit bitpack block at width 1 (256 integers, so up to 255 slack),
// followed by the Simple-8b run word (240 integers). Callers allocate
// count + DecodeSlack.
const DecodeSlack = 512

// Codec is the contract shared by every compression scheme in this package.
//
// Encoded buffers are opaque: they carry no self-describing framing, so the
// integer count must travel out of band (in this system, in the impact
// segment header).
type Codec interface {
	// Encode writes the compressed form of src into dst and returns the
	// number of bytes used. It returns 0 if the encoding would not fit in
	// dst, if any element of src is outside the codec's representable range,
	// or, for the Simple family, if src is empty. On failure dst's contents
	// are unspecified.
	Encode(dst []byte, src []uint32) int

	// Decode writes at least count integers into dst, reading the bytes of
	// src. It may write up to one block of slack past count; dst must have
	// room for count + DecodeSlack values. Decode has no error return:
	// src must be bytes produced by a prior Encode of the same or a longer
	// sequence, and behaviour on corrupt input is undefined.
	Decode(dst []uint32, count int, src []byte)
}

// Accumulator receives (document id, impact) contributions during query
// processing. Implementations maintain a running score per document.
type Accumulator interface {
	AddRSV(docID uint32, impact uint16)
}

// DispatchCodec is implemented by codecs that can push decoded values
// straight into an accumulator without materializing the integer slice.
// The encoded stream is interpreted as d-gaps: each decoded value is added
// to a running sum starting at zero and the sum is dispatched.
type DispatchCodec interface {
	Codec

	// DecodeDispatch decodes count d-gaps from src and calls
	// acc.AddRSV(prefixSum, impact) for each.
	DecodeDispatch(acc Accumulator, impact uint16, count int, src []byte)
}
