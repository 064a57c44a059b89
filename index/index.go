// Package index reads and writes the three-file impact-ordered index: a
// primary-key list, an alphabetically sorted vocabulary, and a postings blob
// of codec-encoded impact segments.
//
// The postings blob begins with a small preamble naming the codec (by its
// registry long flag), then concatenates each term's segments. A segment is
// a 16-byte little-endian header — impact score, encoded byte length,
// integer count, and a zero end marker — followed by the encoded d-gaps; a
// term's final segment is followed by a zero document-id sentinel. Impact
// scores lie in [1,1024] with one segment per distinct impact, so a list has
// at most 1024 segments.
package index

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/sargasso-search/postings"
)

// File names within an index directory.
const (
	keysFile     = "keys.bin"
	vocabFile    = "vocab.bin"
	postingsFile = "postings.bin"
)

// postingsMagic opens the postings blob preamble.
var postingsMagic = [4]byte{'P', 'I', 'D', 'X'}

// MaxImpact is the largest allowable impact score; MinImpact the smallest.
const (
	MinImpact = 1
	MaxImpact = 1024
)

// Term is one vocabulary entry: the term bytes, the absolute offset of its
// first segment header in the postings blob, and its segment count.
type Term struct {
	Name    string
	Offset  uint64
	Impacts uint32
}

// Segment is one decoded segment reference: the impact score, the number of
// integers encoded, and the encoded byte range (a view into the blob).
type Segment struct {
	Impact uint16
	Count  int
	Data   []byte
}

// Index is a loaded three-file index.
type Index struct {
	keys  []string
	terms []Term
	blob  []byte
	codec postings.Descriptor
}

// Load reads the three files under dir into memory.
func Load(dir string) (*Index, error) {
	keysRaw, err := os.ReadFile(filepath.Join(dir, keysFile))
	if err != nil {
		return nil, fmt.Errorf("reading primary keys: %w", err)
	}
	vocabRaw, err := os.ReadFile(filepath.Join(dir, vocabFile))
	if err != nil {
		return nil, fmt.Errorf("reading vocabulary: %w", err)
	}
	blob, err := os.ReadFile(filepath.Join(dir, postingsFile))
	if err != nil {
		return nil, fmt.Errorf("reading postings: %w", err)
	}

	idx := &Index{blob: blob}
	if err := idx.parseKeys(keysRaw); err != nil {
		return nil, fmt.Errorf("parsing primary keys: %w", err)
	}
	if err := idx.parseVocab(vocabRaw); err != nil {
		return nil, fmt.Errorf("parsing vocabulary: %w", err)
	}
	if err := idx.parsePreamble(); err != nil {
		return nil, fmt.Errorf("parsing postings preamble: %w", err)
	}
	return idx, nil
}

func (idx *Index) parseKeys(raw []byte) error {
	r := reader{buf: raw}
	count := r.uint32()
	idx.keys = make([]string, 0, count)
	for i := uint32(0); i < count; i++ {
		idx.keys = append(idx.keys, string(r.bytes(int(r.uint32()))))
	}
	return r.err
}

func (idx *Index) parseVocab(raw []byte) error {
	r := reader{buf: raw}
	count := r.uint32()
	idx.terms = make([]Term, 0, count)
	for i := uint32(0); i < count; i++ {
		name := string(r.bytes(int(r.uint32())))
		offset := r.uint64()
		impacts := r.uint32()
		idx.terms = append(idx.terms, Term{Name: name, Offset: offset, Impacts: impacts})
	}
	return r.err
}

func (idx *Index) parsePreamble() error {
	r := reader{buf: idx.blob}
	var magic [4]byte
	copy(magic[:], r.bytes(4))
	if r.err != nil || magic != postingsMagic {
		return fmt.Errorf("bad magic %q", magic)
	}
	if version := r.uint32(); version != 1 {
		return fmt.Errorf("unsupported version %d", version)
	}
	flag := string(r.bytes(int(r.uint32())))
	if r.err != nil {
		return r.err
	}
	codec, ok := postings.Lookup(flag)
	if !ok {
		return fmt.Errorf("unknown codec %q", flag)
	}
	idx.codec = codec
	return nil
}

// DocumentCount returns the number of documents in the collection.
func (idx *Index) DocumentCount() int { return len(idx.keys) }

// PrimaryKey returns the name of document docID (ids run from 1).
func (idx *Index) PrimaryKey(docID uint32) string { return idx.keys[docID-1] }

// Codec returns the registry entry the postings were encoded with.
func (idx *Index) Codec() postings.Descriptor { return idx.codec }

// Term finds a vocabulary entry by binary search over the sorted terms.
func (idx *Index) Term(name string) (Term, bool) {
	i := sort.Search(len(idx.terms), func(i int) bool { return idx.terms[i].Name >= name })
	if i < len(idx.terms) && idx.terms[i].Name == name {
		return idx.terms[i], true
	}
	return Term{}, false
}

// Segments walks the term's impact segments in blob order (descending
// impact), calling fn with each. It stops at the zero document-id sentinel.
func (idx *Index) Segments(t Term, fn func(Segment) error) error {
	pos := t.Offset
	for seg := uint32(0); seg < t.Impacts; seg++ {
		if pos+16 > uint64(len(idx.blob)) {
			return fmt.Errorf("term %q: segment header out of range", t.Name)
		}
		impact := binary.LittleEndian.Uint32(idx.blob[pos:])
		length := binary.LittleEndian.Uint32(idx.blob[pos+4:])
		count := binary.LittleEndian.Uint32(idx.blob[pos+8:])
		end := binary.LittleEndian.Uint32(idx.blob[pos+12:])
		if end != 0 {
			return fmt.Errorf("term %q: bad end marker %d", t.Name, end)
		}
		if impact < MinImpact || impact > MaxImpact {
			return fmt.Errorf("term %q: impact %d out of range", t.Name, impact)
		}
		pos += 16
		if pos+uint64(length) > uint64(len(idx.blob)) {
			return fmt.Errorf("term %q: segment data out of range", t.Name)
		}
		if count > 0 {
			err := fn(Segment{
				Impact: uint16(impact),
				Count:  int(count),
				Data:   idx.blob[pos : pos+uint64(length)],
			})
			if err != nil {
				return err
			}
		}
		pos += uint64(length)
	}
	if pos+4 > uint64(len(idx.blob)) || binary.LittleEndian.Uint32(idx.blob[pos:]) != 0 {
		return fmt.Errorf("term %q: missing sentinel", t.Name)
	}
	return nil
}

// reader is a little-endian cursor that records the first failure rather
// than returning an error at every read.
type reader struct {
	buf []byte
	pos int
	err error
}

func (r *reader) bytes(n int) []byte {
	if r.err != nil || n < 0 || r.pos+n > len(r.buf) {
		if r.err == nil {
			r.err = fmt.Errorf("truncated at offset %d", r.pos)
		}
		return nil
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b
}

func (r *reader) uint32() uint32 {
	b := r.bytes(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (r *reader) uint64() uint64 {
	b := r.bytes(8)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}
