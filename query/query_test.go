package query

import "testing"

func TestResultsTopK(t *testing.T) {
	r := NewResults(20, 5)
	for _, doc := range []uint32{2, 3, 5, 7, 11, 13, 17, 19} {
		r.AddRSV(doc, 1)
	}

	hits := r.TopK()
	want := []uint32{19, 17, 13, 11, 7}
	if len(hits) != len(want) {
		t.Fatalf("got %d hits, want %d", len(hits), len(want))
	}
	for i, doc := range want {
		if hits[i].DocID != doc || hits[i].Score != 1 {
			t.Errorf("hit %d = %+v, want doc %d score 1", i, hits[i], doc)
		}
	}
}

func TestResultsAccumulates(t *testing.T) {
	r := NewResults(10, 10)
	r.AddRSV(4, 100)
	r.AddRSV(4, 50)
	r.AddRSV(9, 120)

	hits := r.TopK()
	if len(hits) != 2 {
		t.Fatalf("got %d hits, want 2", len(hits))
	}
	if hits[0].DocID != 4 || hits[0].Score != 150 {
		t.Errorf("hit 0 = %+v, want doc 4 score 150", hits[0])
	}
	if hits[1].DocID != 9 || hits[1].Score != 120 {
		t.Errorf("hit 1 = %+v, want doc 9 score 120", hits[1])
	}
}

func TestResultsReset(t *testing.T) {
	r := NewResults(10, 10)
	r.AddRSV(3, 5)
	r.Reset()
	if hits := r.TopK(); len(hits) != 0 {
		t.Errorf("got %d hits after Reset, want 0", len(hits))
	}
}
