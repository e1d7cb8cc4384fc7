// Package edgebound implements the sparse-region data structures the cloud
// search and bounded recurrences share: a single (id, lb, rb) interval
// ("Bound"), an ordered collection of them in either row or antidiagonal
// orientation ("Set"), and an append-only per-row accumulator used only
// during cloud construction ("Rows"). The sorted-slice-plus-binary-search
// idiom below is adapted from the teacher's interval.BEDUnion, generalized
// from BED's chromosome-keyed genomic intervals to the DP matrix's
// row/diagonal-keyed column intervals.
package edgebound

import (
	"sort"

	"github.com/pkg/errors"
)

// Orientation distinguishes a Set whose Bound.ID is a matrix row from one
// whose Bound.ID is an antidiagonal index.
type Orientation int

const (
	Row Orientation = iota
	Diag
)

func (o Orientation) String() string {
	if o == Row {
		return "row"
	}
	return "diag"
}

// Bound is a single half-open interval [LB, RB) of columns (Row
// orientation) or of query rows i (Diag orientation, column j = ID - i)
// active on row-or-diagonal ID.
type Bound struct {
	ID, LB, RB int
}

// Len returns the number of cells the bound covers.
func (b Bound) Len() int {
	return b.RB - b.LB
}

// Set is an ordered collection of Bounds plus the dimensions and
// orientation needed to interpret them. The zero Set is not usable; build
// one with New.
type Set struct {
	Lq, Lt int
	Orient Orientation
	Bounds []Bound

	finalized bool
	idIndex   map[int][2]int // id -> [start, end) slice range into Bounds
}

// New returns an empty Set for a box of dimensions (lq, lt) in the given
// orientation.
func New(lq, lt int, orient Orientation) *Set {
	return &Set{Lq: lq, Lt: lt, Orient: orient}
}

// Reuse clears s for reuse against a (possibly different) box, without
// releasing the underlying Bounds slice's capacity. This matches the
// per-worker buffer-reuse lifecycle described for the core: Sets are
// allocated once and reshaped per query.
func (s *Set) Reuse(lq, lt int, orient Orientation) {
	s.Lq, s.Lt, s.Orient = lq, lt, orient
	s.Bounds = s.Bounds[:0]
	s.finalized = false
	for k := range s.idIndex {
		delete(s.idIndex, k)
	}
}

// Add appends a bound. It does not maintain sort order; call Finalize
// before doing any ID-indexed lookup.
func (s *Set) Add(b Bound) {
	s.Bounds = append(s.Bounds, b)
	s.finalized = false
}

// Len returns the number of bounds currently stored.
func (s *Set) Len() int {
	return len(s.Bounds)
}

// Sort orders Bounds by (ID, LB), matching the invariant required of a
// finalized Set.
func (s *Set) Sort() {
	sort.Slice(s.Bounds, func(i, j int) bool {
		a, b := s.Bounds[i], s.Bounds[j]
		if a.ID != b.ID {
			return a.ID < b.ID
		}
		return a.LB < b.LB
	})
}

// Merge coalesces touching or overlapping bounds that share an ID. Assumes
// Bounds is already sorted by (ID, LB), as produced by Sort.
func (s *Set) Merge() {
	if len(s.Bounds) == 0 {
		return
	}
	out := s.Bounds[:1]
	for _, b := range s.Bounds[1:] {
		last := &out[len(out)-1]
		if b.ID == last.ID && b.LB <= last.RB {
			if b.RB > last.RB {
				last.RB = b.RB
			}
			continue
		}
		out = append(out, b)
	}
	s.Bounds = out
}

// Finalize sorts, merges, and rebuilds the id -> slice-range index. It must
// be called after any sequence of Add calls and before BoundsForID,
// CountCells, or Validate rely on the sorted/merged invariant.
func (s *Set) Finalize() {
	s.Sort()
	s.Merge()
	if s.idIndex == nil {
		s.idIndex = make(map[int][2]int)
	} else {
		for k := range s.idIndex {
			delete(s.idIndex, k)
		}
	}
	start := 0
	for i := 1; i <= len(s.Bounds); i++ {
		if i == len(s.Bounds) || s.Bounds[i].ID != s.Bounds[start].ID {
			s.idIndex[s.Bounds[start].ID] = [2]int{start, i}
			start = i
		}
	}
	s.finalized = true
}

// BoundsForID returns the slice of Bounds sharing the given id. The Set
// must have been Finalize'd since its last mutation.
func (s *Set) BoundsForID(id int) []Bound {
	if !s.finalized {
		panic("edgebound: BoundsForID called before Finalize")
	}
	r, ok := s.idIndex[id]
	if !ok {
		return nil
	}
	return s.Bounds[r[0]:r[1]]
}

// IDs returns the sorted, distinct set of ids present in s. The Set must
// have been Finalize'd.
func (s *Set) IDs() []int {
	if !s.finalized {
		panic("edgebound: IDs called before Finalize")
	}
	ids := make([]int, 0, len(s.idIndex))
	for id := range s.idIndex {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// CountCells sums the number of cells covered, assuming s is sorted and
// merged (i.e. Finalize'd) so that no cell is double-counted.
func (s *Set) CountCells() int {
	n := 0
	for _, b := range s.Bounds {
		n += b.Len()
	}
	return n
}

// Contains reports whether cell (id, col) is covered by some bound sharing
// id. The Set must have been Finalize'd.
func (s *Set) Contains(id, col int) bool {
	bs := s.BoundsForID(id)
	idx := sort.Search(len(bs), func(i int) bool { return bs[i].RB > col })
	return idx < len(bs) && bs[idx].LB <= col
}

// Validate checks the invariants §3/§8 require of a finalized Set: bounds
// sorted by (id, lb); same-id bounds non-overlapping; 0<=lb<rb; and, for
// Row orientation, rb<=Lt+1 and 0<=id<=Lq, or for Diag orientation
// 0<=id<=Lq+Lt. This is a programmer-error check for tests and debug
// assertions, never called from the core's hot paths.
func (s *Set) Validate() error {
	maxID := s.Lq
	if s.Orient == Diag {
		maxID = s.Lq + s.Lt
	}
	var prevID, prevRB int
	havePrev := false
	for i, b := range s.Bounds {
		if b.LB >= b.RB {
			return errors.Errorf("edgebound: bound %d (%+v) has lb>=rb", i, b)
		}
		if b.LB < 0 {
			return errors.Errorf("edgebound: bound %d (%+v) has lb<0", i, b)
		}
		if s.Orient == Row && b.RB > s.Lt+1 {
			return errors.Errorf("edgebound: bound %d (%+v) out of column range [0, %d]", i, b, s.Lt+1)
		}
		if b.ID < 0 || b.ID > maxID {
			return errors.Errorf("edgebound: bound %d (%+v) id out of range [0, %d]", i, b, maxID)
		}
		if havePrev {
			if b.ID < prevID || (b.ID == prevID && b.LB < prevRB) {
				return errors.Errorf("edgebound: bound %d (%+v) out of sorted/non-overlapping order", i, b)
			}
		}
		prevID, prevRB, havePrev = b.ID, b.RB, true
	}
	return nil
}

// Clone returns a deep copy of s.
func (s *Set) Clone() *Set {
	c := &Set{Lq: s.Lq, Lt: s.Lt, Orient: s.Orient, finalized: s.finalized}
	c.Bounds = append([]Bound(nil), s.Bounds...)
	if s.idIndex != nil {
		c.idIndex = make(map[int][2]int, len(s.idIndex))
		for k, v := range s.idIndex {
			c.idIndex[k] = v
		}
	}
	return c
}
