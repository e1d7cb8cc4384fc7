// Package reorient converts the diagonal-oriented EdgebSets CloudSearch
// produces into a single row-oriented EdgebSet, taking the union of the
// forward and backward clouds. It is grounded on the teacher-adjacent
// reference's EDGEBOUNDS_Merge_Reorient_Naive: a dense-matrix oracle
// (Naive) for tests, and a direct diagonal-walk (Linear) for production
// use.
package reorient

import "github.com/grailbio/fbpruner/edgebound"

// Merge returns the row-oriented union of fwd and bck using the linear,
// direct diagonal-walk implementation. This is the production entry
// point.
func Merge(fwd, bck *edgebound.Set, lq, lt int) *edgebound.Set {
	return mergeLinear(fwd, bck, lq, lt)
}

// MergeNaive returns the same union as Merge, computed instead via a
// dense L_q x L_t boolean mask. It exists as a test oracle: production
// code should never call it, since its cost is O(L_q*L_t) regardless of
// cloud size.
func MergeNaive(fwd, bck *edgebound.Set, lq, lt int) *edgebound.Set {
	return mergeNaive(fwd, bck, lq, lt)
}

// diagToRC converts a diagonal-oriented Bound's (id, lb, rb) into the
// (row, column) cells it represents, returned as parallel rows and cols
// slices: id is the antidiagonal d,
// and [lb, rb) is a range of query rows i, each with column j = d - i.
// Since j decreases as i increases, a diagonal bound maps to one (row,
// column) cell per row, not a row-spanning column interval.
func diagToRC(b edgebound.Bound) (rows []int, cols []int) {
	n := b.RB - b.LB
	rows = make([]int, n)
	cols = make([]int, n)
	for k := 0; k < n; k++ {
		i := b.LB + k
		rows[k] = i
		cols[k] = b.ID - i
	}
	return rows, cols
}

func mergeNaive(fwd, bck *edgebound.Set, lq, lt int) *edgebound.Set {
	mask := make([][]bool, lq+1)
	for i := range mask {
		mask[i] = make([]bool, lt+1)
	}
	paint := func(s *edgebound.Set) {
		if s == nil {
			return
		}
		for _, b := range s.Bounds {
			rows, cols := diagToRC(b)
			for k := range rows {
				i, j := rows[k], cols[k]
				if i >= 0 && i <= lq && j >= 0 && j <= lt {
					mask[i][j] = true
				}
			}
		}
	}
	paint(fwd)
	paint(bck)

	out := edgebound.New(lq, lt, edgebound.Row)
	for i := 1; i <= lq; i++ {
		row := mask[i]
		lb := -1
		for j := 1; j <= lt+1; j++ {
			active := j <= lt && row[j]
			if active && lb == -1 {
				lb = j
			} else if !active && lb != -1 {
				out.Add(edgebound.Bound{ID: i, LB: lb, RB: j})
				lb = -1
			}
		}
	}
	out.Finalize()
	return out
}

// mergeLinear accumulates diag-derived (row, col) cells per row without a
// dense matrix, then lets Rows coalesce adjacent columns into intervals.
func mergeLinear(fwd, bck *edgebound.Set, lq, lt int) *edgebound.Set {
	rows := edgebound.NewRows(lq, lt, edgebound.DefaultRMax, edgebound.DefaultTolerance)
	push := func(s *edgebound.Set) {
		if s == nil {
			return
		}
		for _, b := range s.Bounds {
			bRows, cols := diagToRC(b)
			for k := range bRows {
				i, j := bRows[k], cols[k]
				if i >= 1 && i <= lq && j >= 1 && j <= lt {
					rows.Push(i, j)
				}
			}
		}
	}
	push(fwd)
	push(bck)
	return rows.ToSet()
}
