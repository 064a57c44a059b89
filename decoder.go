package postings

// The decode adapters sit between a codec and the query layer's
// accumulators. Each is built once per query with the collection's document
// count and reuses its internal buffer across every impact segment, so the
// hot loop performs no allocation. The impact-header iteration drives them:
// for each (impact, byte range, integer count) triple the caller decodes and
// then processes, or uses the combined form.

// DecoderD0 decodes absolute document-id sequences and dispatches each value
// unchanged. It is used with codecs whose input was not delta encoded.
type DecoderD0 struct {
	n   int
	buf []uint32
}

// NewDecoderD0 returns an adapter able to decode postings for a collection
// of at most maxIntegers documents.
func NewDecoderD0(maxIntegers int) *DecoderD0 {
	return &DecoderD0{buf: make([]uint32, maxIntegers+DecodeSlack)}
}

// Decode fills the internal buffer with count integers from src.
func (d *DecoderD0) Decode(c Codec, count int, src []byte) {
	c.Decode(d.buf, count, src)
	d.n = count
}

// Process dispatches every buffered document id at the given impact.
func (d *DecoderD0) Process(impact uint16, acc Accumulator) {
	for _, doc := range d.buf[:d.n] {
		acc.AddRSV(doc, impact)
	}
}

// DecodeAndProcess is Decode followed by Process.
func (d *DecoderD0) DecodeAndProcess(c Codec, impact uint16, count int, src []byte, acc Accumulator) {
	d.Decode(c, count, src)
	d.Process(impact, acc)
}

// DecoderD1 decodes d-gap sequences and dispatches the running cumulative
// sum, reconstructing absolute document ids. The sum starts at zero.
type DecoderD1 struct {
	n   int
	buf []uint32
}

// NewDecoderD1 returns an adapter able to decode postings for a collection
// of at most maxIntegers documents.
func NewDecoderD1(maxIntegers int) *DecoderD1 {
	return &DecoderD1{buf: make([]uint32, maxIntegers+DecodeSlack)}
}

// Decode fills the internal buffer with count d-gaps from src.
func (d *DecoderD1) Decode(c Codec, count int, src []byte) {
	c.Decode(d.buf, count, src)
	d.n = count
}

// Process integrates the buffered d-gaps and dispatches each prefix sum at
// the given impact.
func (d *DecoderD1) Process(impact uint16, acc Accumulator) {
	var sum uint32
	for _, gap := range d.buf[:d.n] {
		sum += gap
		acc.AddRSV(sum, impact)
	}
}

// DecodeAndProcess is Decode followed by Process.
func (d *DecoderD1) DecodeAndProcess(c Codec, impact uint16, count int, src []byte, acc Accumulator) {
	d.Decode(c, count, src)
	d.Process(impact, acc)
}

// DecoderNone adapts codecs that scatter decoded values straight into the
// accumulator themselves; it forwards without an intermediate buffer.
type DecoderNone struct {
	codec DispatchCodec
}

// NewDecoderNone returns the forwarding adapter for c.
func NewDecoderNone(c DispatchCodec) *DecoderNone {
	return &DecoderNone{codec: c}
}

// DecodeAndProcess forwards to the codec's decode-and-dispatch path.
func (d *DecoderNone) DecodeAndProcess(impact uint16, count int, src []byte, acc Accumulator) {
	d.codec.DecodeDispatch(acc, impact, count, src)
}
