package index

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/sargasso-search/postings"
)

// Posting is one (document id, impact) pair handed to the Writer. Document
// ids run from 1 and must be unique per term.
type Posting struct {
	DocID  uint32
	Impact uint16
}

// Writer builds the three index files from term postings. Postings are
// bucketed by impact, the buckets ordered by descending impact, and each
// bucket's strictly increasing document ids turned into d-gaps before
// encoding.
type Writer struct {
	codec postings.Descriptor
	keys  []string
	terms map[string][]Posting
}

// NewWriter returns a Writer that encodes postings with the given codec.
func NewWriter(codec postings.Descriptor) *Writer {
	return &Writer{
		codec: codec,
		terms: make(map[string][]Posting),
	}
}

// SetKeys records the primary-key list; document ids index it from 1.
func (w *Writer) SetKeys(keys []string) {
	w.keys = keys
}

// Add appends postings for term.
func (w *Writer) Add(term string, plist ...Posting) {
	w.terms[term] = append(w.terms[term], plist...)
}

// Write encodes everything and writes the three files under dir.
func (w *Writer) Write(dir string) error {
	if err := w.writeKeys(filepath.Join(dir, keysFile)); err != nil {
		return fmt.Errorf("writing primary keys: %w", err)
	}

	blob := w.preamble()
	var vocab []Term

	names := make([]string, 0, len(w.terms))
	for name := range w.terms {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		offset := uint64(len(blob))
		segments := impactOrder(w.terms[name])
		for _, seg := range segments {
			encoded, err := w.encodeSegment(seg.docs)
			if err != nil {
				return fmt.Errorf("term %q impact %d: %w", name, seg.impact, err)
			}
			var header [16]byte
			binary.LittleEndian.PutUint32(header[0:], uint32(seg.impact))
			binary.LittleEndian.PutUint32(header[4:], uint32(len(encoded)))
			binary.LittleEndian.PutUint32(header[8:], uint32(len(seg.docs)))
			blob = append(blob, header[:]...)
			blob = append(blob, encoded...)
		}
		blob = append(blob, 0, 0, 0, 0) // zero document-id sentinel
		vocab = append(vocab, Term{Name: name, Offset: offset, Impacts: uint32(len(segments))})
	}

	if err := w.writeVocab(filepath.Join(dir, vocabFile), vocab); err != nil {
		return fmt.Errorf("writing vocabulary: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, postingsFile), blob, 0o644); err != nil {
		return fmt.Errorf("writing postings: %w", err)
	}
	return nil
}

type segment struct {
	impact uint16
	docs   []uint32
}

// impactOrder buckets postings by impact, descending, with each bucket's
// document ids ascending.
func impactOrder(plist []Posting) []segment {
	buckets := make(map[uint16][]uint32)
	for _, p := range plist {
		buckets[p.Impact] = append(buckets[p.Impact], p.DocID)
	}
	impacts := make([]int, 0, len(buckets))
	for impact := range buckets {
		impacts = append(impacts, int(impact))
	}
	sort.Sort(sort.Reverse(sort.IntSlice(impacts)))

	segments := make([]segment, 0, len(impacts))
	for _, impact := range impacts {
		docs := buckets[uint16(impact)]
		sort.Slice(docs, func(i, j int) bool { return docs[i] < docs[j] })
		segments = append(segments, segment{impact: uint16(impact), docs: docs})
	}
	return segments
}

// encodeSegment turns ascending document ids into d-gaps and encodes them,
// growing the buffer on overflow.
func (w *Writer) encodeSegment(docs []uint32) ([]byte, error) {
	gaps := make([]uint32, len(docs))
	prev := uint32(0)
	for i, doc := range docs {
		if doc <= prev {
			return nil, fmt.Errorf("document ids not strictly increasing at %d", doc)
		}
		gaps[i] = doc - prev
		prev = doc
	}

	for size := 5*len(gaps) + 64; ; size *= 2 {
		buf := make([]byte, size)
		if n := w.codec.Codec.Encode(buf, gaps); n > 0 {
			return buf[:n], nil
		}
		if size > 64*(len(gaps)+1)*4 {
			return nil, fmt.Errorf("codec %s refused the segment", w.codec.Name)
		}
	}
}

func (w *Writer) preamble() []byte {
	blob := append([]byte{}, postingsMagic[:]...)
	blob = binary.LittleEndian.AppendUint32(blob, 1)
	blob = binary.LittleEndian.AppendUint32(blob, uint32(len(w.codec.Long)))
	return append(blob, w.codec.Long...)
}

func (w *Writer) writeKeys(path string) error {
	buf := binary.LittleEndian.AppendUint32(nil, uint32(len(w.keys)))
	for _, key := range w.keys {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(key)))
		buf = append(buf, key...)
	}
	return os.WriteFile(path, buf, 0o644)
}

func (w *Writer) writeVocab(path string, vocab []Term) error {
	buf := binary.LittleEndian.AppendUint32(nil, uint32(len(vocab)))
	for _, t := range vocab {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(t.Name)))
		buf = append(buf, t.Name...)
		buf = binary.LittleEndian.AppendUint64(buf, t.Offset)
		buf = binary.LittleEndian.AppendUint32(buf, t.Impacts)
	}
	return os.WriteFile(path, buf, 0o644)
}
