package edgebound

import "fmt"

// DefaultRMax is the default per-row interval-count limit for Rows. It is
// deliberately generous: with reasonable X-drop pruning a row cloud rarely
// fragments into more than a handful of intervals, so hitting this limit
// almost always indicates a pruning-parameter or caller bug rather than a
// legitimately wide cloud.
const DefaultRMax = 128

// DefaultTolerance is the default column gap, inclusive, within which a new
// point extends the last interval on a row instead of starting a new one.
const DefaultTolerance = 0

// Rows is a row-indexed append buffer used only during cloud construction
// to accumulate an antidiagonal sweep's output directly in row-oriented
// form, as an alternative to (or alongside) the diagonal-oriented Set that
// CloudSearch also emits. Row r's intervals are built incrementally by
// repeated calls to Push(r, j): the column j either extends the row's
// current last interval, or starts a new one.
//
// RMax bounds the number of intervals any single row may hold. Overflow is
// a hard error: the caller is expected to either raise RMax or conclude the
// pruning parameters are producing a pathologically fragmented cloud.
type Rows struct {
	Lq, Lt    int
	RMax      int
	Tolerance int
	rows      [][]Bound
}

// NewRows allocates a Rows accumulator for a box of dimensions (lq, lt).
func NewRows(lq, lt, rmax, tolerance int) *Rows {
	return &Rows{
		Lq:        lq,
		Lt:        lt,
		RMax:      rmax,
		Tolerance: tolerance,
		rows:      make([][]Bound, lq+1),
	}
}

// Reuse clears r for a (possibly resized) box without releasing the
// underlying per-row slice capacities.
func (r *Rows) Reuse(lq, lt int) {
	r.Lq, r.Lt = lq, lt
	if cap(r.rows) >= lq+1 {
		r.rows = r.rows[:lq+1]
		for i := range r.rows {
			r.rows[i] = r.rows[i][:0]
		}
	} else {
		r.rows = make([][]Bound, lq+1)
	}
}

// Push records column j as active on row. It extends the row's last
// interval when j falls within Tolerance of its right edge, otherwise
// starts a new interval. It panics with a diagnostic naming the offending
// row if the row would exceed RMax intervals — per §7, overflow must fail
// fast rather than silently truncate the cloud.
func (r *Rows) Push(row, j int) {
	bounds := r.rows[row]
	if n := len(bounds); n > 0 {
		last := &bounds[n-1]
		if j >= last.LB && j < last.RB {
			return
		}
		if j >= last.RB && j-last.RB <= r.Tolerance {
			last.RB = j + 1
			return
		}
	}
	if len(bounds) >= r.RMax {
		panic(fmt.Sprintf(
			"edgebound.Rows: row %d exceeded RMax=%d intervals (offending column %d, current intervals %v); raise RMax",
			row, r.RMax, j, bounds))
	}
	r.rows[row] = append(bounds, Bound{ID: row, LB: j, RB: j + 1})
}

// PushInterval records the whole half-open interval [lb, rb) as active on
// row, via one extension check against the row's last interval rather
// than one Push per column.
func (r *Rows) PushInterval(row, lb, rb int) {
	if lb >= rb {
		return
	}
	bounds := r.rows[row]
	if n := len(bounds); n > 0 {
		last := &bounds[n-1]
		if lb >= last.LB && lb <= last.RB+r.Tolerance && last.ID == row {
			if rb > last.RB {
				last.RB = rb
			}
			return
		}
	}
	if len(bounds) >= r.RMax {
		panic(fmt.Sprintf(
			"edgebound.Rows: row %d exceeded RMax=%d intervals (offending interval [%d,%d)); raise RMax",
			row, r.RMax, lb, rb))
	}
	r.rows[row] = append(bounds, Bound{ID: row, LB: lb, RB: rb})
}

// ToSet flattens the accumulated per-row intervals into a finalized,
// row-oriented Set.
func (r *Rows) ToSet() *Set {
	s := New(r.Lq, r.Lt, Row)
	for _, bounds := range r.rows {
		for _, b := range bounds {
			s.Add(b)
		}
	}
	s.Finalize()
	return s
}
