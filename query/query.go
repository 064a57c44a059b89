// Package query provides the accumulator the decode adapters feed during
// query processing: a flat score-per-document table with top-k extraction.
package query

import "sort"

// Hit is one ranked result.
type Hit struct {
	DocID uint32
	Score uint16
}

// Results accumulates (document id, impact) contributions and extracts the
// top k documents. It implements postings.Accumulator.
type Results struct {
	scores []uint16
	k      int
}

// NewResults returns an accumulator for a collection of documents documents,
// returning at most k hits. Document ids run 1..documents; id 0 is the
// postings sentinel and never scores.
func NewResults(documents, k int) *Results {
	return &Results{
		scores: make([]uint16, documents+1),
		k:      k,
	}
}

// AddRSV adds impact to the document's running score.
func (r *Results) AddRSV(docID uint32, impact uint16) {
	r.scores[docID] += impact
}

// Reset zeroes every accumulator for reuse across queries.
func (r *Results) Reset() {
	for i := range r.scores {
		r.scores[i] = 0
	}
}

// TopK returns up to k hits ordered by descending score, ties broken by
// descending document id.
func (r *Results) TopK() []Hit {
	hits := make([]Hit, 0, r.k)
	for doc, score := range r.scores {
		if score == 0 {
			continue
		}
		hits = append(hits, Hit{DocID: uint32(doc), Score: score})
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].DocID > hits[j].DocID
	})
	if len(hits) > r.k {
		hits = hits[:r.k]
	}
	return hits
}
