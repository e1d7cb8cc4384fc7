// Package sparse implements the restricted DP matrix BoundedFwdBck sweeps
// over: a flat M/I/D score buffer addressed only within a padded "outer"
// cloud, built by widening the caller's "inner" cloud one cell on every
// side. Reads outside the outer cloud return -Inf; writes outside the
// inner cloud are silently dropped, which is what lets a row sweep always
// read its M(r-1,c-1)/I(r-1,c)/D(r,c-1) neighbors without a bounds check.
package sparse

import (
	"github.com/grailbio/fbpruner/edgebound"
	"github.com/grailbio/fbpruner/logsum"
	"github.com/grailbio/fbpruner/prof"
)

// Matrix is a row-oriented sparse DP matrix scoped to an outer cloud
// derived from a caller-supplied inner cloud.
type Matrix struct {
	Lq, Lt int
	Inner  *edgebound.Set
	Outer  *edgebound.Set

	// data holds Lq+1 rows of M/I/D, each row's outer cloud split into one
	// or more disjoint intervals (a row may fragment into several outer
	// intervals when its inner intervals are far enough apart that
	// widening by one cell doesn't bridge the gap). Rows may legitimately
	// have zero outer intervals (quiescent rows).
	offsets [][]rowOffset // per-row: outer intervals + their base offsets
	data    [3][]float64  // [state][flat index]
}

type rowOffset struct {
	lb, rb int // outer interval; rb==lb means empty
	base   int // data[][base + (c-lb)] holds column c
}

// NewMatrix builds a Matrix whose inner cloud is exactly inner. Outer is
// derived by widening every inner bound by one column on each side,
// clamping to [0, Lt+1), then merging any resulting overlaps.
func NewMatrix(inner *edgebound.Set) *Matrix {
	lq, lt := inner.Lq, inner.Lt
	outer := edgebound.New(lq, lt, edgebound.Row)
	for _, b := range inner.Bounds {
		lb, rb := b.LB-1, b.RB+1
		if lb < 0 {
			lb = 0
		}
		if rb > lt+1 {
			rb = lt + 1
		}
		outer.Add(edgebound.Bound{ID: b.ID, LB: lb, RB: rb})
	}
	outer.Finalize()

	m := &Matrix{Lq: lq, Lt: lt, Inner: inner, Outer: outer}
	m.offsets = make([][]rowOffset, lq+1)
	total := 0
	for r := 0; r <= lq; r++ {
		bs := outer.BoundsForID(r)
		ros := make([]rowOffset, len(bs))
		for k, b := range bs {
			ros[k] = rowOffset{lb: b.LB, rb: b.RB, base: total}
			total += b.RB - b.LB
		}
		m.offsets[r] = ros
	}
	for st := 0; st < 3; st++ {
		m.data[st] = make([]float64, total)
		for i := range m.data[st] {
			m.data[st][i] = logsum.NegInf
		}
	}
	return m
}

func (m *Matrix) index(r, c int) (int, bool) {
	if r < 0 || r > m.Lq {
		return 0, false
	}
	for _, ro := range m.offsets[r] {
		if c >= ro.lb && c < ro.rb {
			return ro.base + (c - ro.lb), true
		}
	}
	return 0, false
}

// At returns the score at (r, c) for the given state, or -Inf if (r, c)
// falls outside the outer cloud.
func (m *Matrix) At(state prof.State, r, c int) float64 {
	idx, ok := m.index(r, c)
	if !ok {
		return logsum.NegInf
	}
	return m.data[state][idx]
}

// Set stores v at (r, c) for the given state. It is a no-op if (r, c) is
// outside the inner cloud (including if it is only in the outer padding).
func (m *Matrix) Set(state prof.State, r, c int, v float64) {
	if !m.Inner.Contains(r, c) {
		return
	}
	idx, ok := m.index(r, c)
	if !ok {
		return
	}
	m.data[state][idx] = v
}

// InnerBoundsForRow returns the inner cloud's intervals for row r, in
// increasing lb order, as BoundedFwdBck needs for its column sweep.
func (m *Matrix) InnerBoundsForRow(r int) []edgebound.Bound {
	return m.Inner.BoundsForID(r)
}
