// Package cloud implements the antidiagonal Cloud Search: the X-drop
// AntidiagPruner (§4.2) and the forward/backward sweeps that use it to
// trace out a small high-scoring region of the DP matrix around a Viterbi
// seed (§4.3).
package cloud

import (
	"github.com/grailbio/fbpruner/edgebound"
	"github.com/pkg/errors"
)

// PruneMode selects which AntidiagPruner variant CloudSearch applies every
// antidiagonal. Both directions of a single search must use the same mode.
type PruneMode int

const (
	// PruneModeEdgetrim trims each surviving input interval from its two
	// ends only; it never splits an interval in two. This is the default.
	PruneModeEdgetrim PruneMode = iota
	// PruneModeBifurcate additionally splits an interval wherever a run of
	// cells dips below the secondary, more lenient threshold
	// (totalLimit - Beta), producing zero or more output intervals per
	// input interval.
	PruneModeBifurcate
)

// Params configures the X-drop pruner shared by Forward and Backward.
type Params struct {
	Alpha float64 // primary X-drop, in nats; must be > 0.
	Beta  float64 // secondary X-drop, used only by PruneModeBifurcate.
	Gamma int     // number of free-pass antidiagonals after the seed.
	Mode  PruneMode
}

// Interval is a half-open [LB, RB) range of query rows (i) active on a
// single antidiagonal. Unlike edgebound.Bound it carries no ID, since the
// antidiagonal index is implicit in the sweep's current iteration.
type Interval struct {
	LB, RB int
}

// TestObserver lets a test inspect every antidiagonal a sweep visits,
// without the production call path paying for anything beyond a nil
// check. It plays the role the original implementation gave to a
// process-wide "debugger" global (§9); here it is just an optional,
// explicitly passed-in value.
type TestObserver struct {
	// OnAntidiag, if non-nil, is called once per surviving antidiagonal
	// with its diagonal index and final (pruned, widened, clamped)
	// interval list.
	OnAntidiag func(d int, intervals []Interval)
}

func (o *TestObserver) notify(d int, ivs []Interval) {
	if o != nil && o.OnAntidiag != nil {
		o.OnAntidiag(d, ivs)
	}
}

// Result is what Forward and Backward return: the diagonal-oriented
// EdgebSet describing every cell the sweep visited, and the running
// maximum cell score (informational only — not a final alignment score).
type Result struct {
	Bounds   *edgebound.Set
	TotalMax float64
}

func clampDiag(d, lq, lt int) (le, reExclusive int) {
	le = d - lt
	if le < 1 {
		le = 1
	}
	re := d - 1
	if re > lq {
		re = lq
	}
	return le, re + 1
}

// shiftForwardSeed moves an on-the-edge forward seed strictly interior, per
// §4.3's edge policy.
func shiftForwardSeed(i0, j0 int) (int, int) {
	if i0 == 0 || j0 == 0 {
		return 1, 1
	}
	return i0, j0
}

// shiftBackwardSeed moves an on-the-edge backward seed strictly interior.
func shiftBackwardSeed(i1, j1, lq, lt int) (int, int) {
	if i1 == lq || j1 == lt {
		return lq - 1, lt - 1
	}
	return i1, j1
}

func validateSeed(i, j, lq, lt int) error {
	if i < 1 || i > lq || j < 1 || j > lt {
		return errors.Errorf("cloud: seed (%d,%d) out of box [1,%d]x[1,%d]", i, j, lq, lt)
	}
	return nil
}

// widenClamp widens every interval by one cell on the given side
// (widenRight extends RB, otherwise LB) and clamps to [le, reExclusive), dropping any
// interval that becomes empty.
func widenClamp(ivs []Interval, widenRight bool, le, reExclusive int) []Interval {
	out := ivs[:0]
	for _, iv := range ivs {
		lb, rb := iv.LB, iv.RB
		if widenRight {
			rb++
		} else {
			lb--
		}
		if lb < le {
			lb = le
		}
		if rb > reExclusive {
			rb = reExclusive
		}
		if lb < rb {
			out = append(out, Interval{LB: lb, RB: rb})
		}
	}
	return out
}

func max3(a, b, c float64) float64 {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}

