package cloud

import (
	"github.com/grailbio/fbpruner/edgebound"
	"github.com/grailbio/fbpruner/logsum"
	"github.com/grailbio/fbpruner/prof"
	"github.com/grailbio/fbpruner/seq"
)

// Forward sweeps antidiagonals from the seed (i0, j0) toward (Lq, Lt),
// computing M/I/D log-probabilities restricted to the surviving,
// X-drop-pruned intervals. rows, if non-nil, additionally receives each
// surviving cell in row-oriented form; reorient.Merge does not read it and
// works from the returned diagonal Set instead.
func Forward(p *prof.Profile, s *seq.Sequence, i0, j0 int, params Params, rows *edgebound.Rows, obs *TestObserver) (*Result, error) {
	lq, lt := s.Len(), p.Len
	i0, j0 = shiftForwardSeed(i0, j0)
	if err := validateSeed(i0, j0, lq, lt); err != nil {
		return nil, err
	}

	buf := newBuffer(lq, lt)
	bounds := edgebound.New(lq, lt, edgebound.Diag)

	d0 := i0 + j0
	dEnd := lq + lt
	totalMax := negInf

	var twoBack, oneBack []Interval
	cur := []Interval{{LB: i0, RB: i0 + 1}}

	d := d0
	for ; d <= dEnd; d++ {
		if d > d0 {
			cur = prune(oneBack, buf, d-1, &totalMax, params, d-d0-1)
			if len(cur) == 0 {
				break
			}
			le, re := clampDiag(d, lq, lt)
			cur = widenClamp(cur, true, le, re)
			if len(cur) == 0 {
				break
			}
		}

		bPrev := negInf
		if d == d0 {
			bPrev = 0
		}
		for _, iv := range cur {
			for i := iv.LB; i < iv.RB; i++ {
				j := d - i
				a := s.At(i)

				mVal := p.MatchScore(j, a) + logsum.Logsum(
					logsum.Logsum(buf.at(d-2, prof.StateM, i-1)+p.T(j-1, prof.TMM), buf.at(d-2, prof.StateI, i-1)+p.T(j-1, prof.TIM)),
					logsum.Logsum(buf.at(d-2, prof.StateD, i-1)+p.T(j-1, prof.TDM), bPrev))
				iVal := p.InsertScore(j, a) + logsum.Logsum(
					buf.at(d-1, prof.StateM, i-1)+p.T(j, prof.TMI),
					buf.at(d-1, prof.StateI, i-1)+p.T(j, prof.TII))
				dVal := logsum.Logsum(
					buf.at(d-1, prof.StateM, i)+p.T(j-1, prof.TMD),
					buf.at(d-1, prof.StateD, i)+p.T(j-1, prof.TDD))

				buf.set(d, prof.StateM, i, mVal)
				buf.set(d, prof.StateI, i, iVal)
				buf.set(d, prof.StateD, i, dVal)
			}
			bounds.Add(edgebound.Bound{ID: d, LB: iv.LB, RB: iv.RB})
			if rows != nil {
				for i := iv.LB; i < iv.RB; i++ {
					rows.Push(i, d-i)
				}
			}
		}
		obs.notify(d, cur)

		if d-2 >= d0 {
			buf.scrub(d-2, twoBack)
		}
		twoBack, oneBack = oneBack, cur
	}

	// Scrub the final two live antidiagonals (d-1 and d-2, whether the loop
	// ran to dEnd or stopped early), leaving the whole buffer at -Inf.
	if oneBack != nil {
		buf.scrub(d-1, oneBack)
	}
	if twoBack != nil {
		buf.scrub(d-2, twoBack)
	}

	bounds.Finalize()
	return &Result{Bounds: bounds, TotalMax: totalMax}, nil
}

// Backward sweeps antidiagonals from the seed (i1, j1) toward (0, 0); see
// Forward for the shared pruning/buffer mechanics. The recurrence mirrors
// Forward's: the end-state bonus feeds M and D (never I), matching the E
// accumulation formula of §4.6, and lookbacks are at d+1 and d+2.
func Backward(p *prof.Profile, s *seq.Sequence, i1, j1 int, params Params, rows *edgebound.Rows, obs *TestObserver) (*Result, error) {
	lq, lt := s.Len(), p.Len
	i1, j1 = shiftBackwardSeed(i1, j1, lq, lt)
	if err := validateSeed(i1, j1, lq, lt); err != nil {
		return nil, err
	}

	buf := newBuffer(lq, lt)
	bounds := edgebound.New(lq, lt, edgebound.Diag)

	dStart := i1 + j1

	totalMax := negInf

	var twoBack, oneBack []Interval
	cur := []Interval{{LB: i1, RB: i1 + 1}}

	d := dStart
	for ; d >= 0; d-- {
		if d < dStart {
			cur = prune(oneBack, buf, d+1, &totalMax, params, dStart-d-1)
			if len(cur) == 0 {
				break
			}
			le, re := clampDiag(d, lq, lt)
			cur = widenClamp(cur, false, le, re)
			if len(cur) == 0 {
				break
			}
		}

		ePrev := negInf
		if d == dStart {
			ePrev = 0
		}
		for _, iv := range cur {
			for i := iv.LB; i < iv.RB; i++ {
				j := d - i
				var iNext1, mNext2 float64
				var aNext int8
				if i+1 <= lq {
					aNext = s.At(i + 1)
					mNext2 = buf.at(d+2, prof.StateM, i+1)
					iNext1 = buf.at(d+1, prof.StateI, i+1)
				} else {
					mNext2, iNext1 = negInf, negInf
				}

				var mscNext, iscNext float64
				if i+1 <= lq && j+1 <= lt {
					mscNext = p.MatchScore(j+1, aNext)
				} else {
					mscNext = negInf
				}
				if i+1 <= lq {
					iscNext = p.InsertScore(j, aNext)
				} else {
					iscNext = negInf
				}

				dRight := buf.at(d+1, prof.StateD, i)

				mVal := logsum.Logsum4(
					p.T(j, prof.TMM)+mscNext+mNext2,
					p.T(j, prof.TMI)+iscNext+iNext1,
					p.T(j, prof.TMD)+dRight,
					ePrev+p.SpecialTrans[prof.SE][prof.Move])
				iVal := logsum.Logsum(
					p.T(j, prof.TIM)+mscNext+mNext2,
					p.T(j, prof.TII)+iscNext+iNext1)
				dVal := logsum.Logsum3(
					p.T(j, prof.TDM)+mscNext+mNext2,
					p.T(j, prof.TDD)+dRight,
					ePrev+p.SpecialTrans[prof.SE][prof.Move])

				buf.set(d, prof.StateM, i, mVal)
				buf.set(d, prof.StateI, i, iVal)
				buf.set(d, prof.StateD, i, dVal)
			}
			bounds.Add(edgebound.Bound{ID: d, LB: iv.LB, RB: iv.RB})
			if rows != nil {
				for i := iv.LB; i < iv.RB; i++ {
					rows.Push(i, d-i)
				}
			}
		}
		obs.notify(d, cur)

		if d+2 <= dStart {
			buf.scrub(d+2, twoBack)
		}
		twoBack, oneBack = oneBack, cur
	}

	if oneBack != nil {
		buf.scrub(d+1, oneBack)
	}
	if twoBack != nil {
		buf.scrub(d+2, twoBack)
	}

	bounds.Finalize()
	return &Result{Bounds: bounds, TotalMax: totalMax}, nil
}
