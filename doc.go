// Package postings provides high-throughput integer compression codecs for
// search-engine postings lists, together with the decode adapters that turn a
// decoded stream into accumulator updates at query time.
//
// Every codec compresses finite sequences of unsigned 32-bit integers:
// document-identifier lists, term-frequency lists, and the d-gap streams of
// impact-ordered postings segments. The encoded buffers carry no framing; the
// caller must remember how many integers were encoded and hand that count
// back at decode time.
//
// Basic usage:
//
//	codec := postings.NewSimple9()
//	buf := make([]byte, 4*len(ids))
//	n := codec.Encode(buf, ids)
//	if n == 0 {
//	    // buffer too small, or an integer outside the codec's range
//	}
//	out := make([]uint32, len(ids)+postings.DecodeSlack)
//	codec.Decode(out, len(ids), buf[:n])
//
// At query time the D1 adapter integrates d-gaps and feeds an accumulator:
//
//	dec := postings.NewDecoderD1(documentCount)
//	dec.DecodeAndProcess(codec, impact, count, segment, acc)
//
// The codecs are stateless value objects except Simple-9 packed, which keeps
// grow-only scratch arrays; a single Simple-9 instance must not be used for
// concurrent Encode calls. Distinct codec instances are safe to use from
// distinct goroutines.
package postings
