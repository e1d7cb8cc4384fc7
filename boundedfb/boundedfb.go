// Package boundedfb implements Bounded Forward and Bounded Backward: the
// HMMER-style Forward/Backward recurrences restricted to the sparse
// matrix's inner cloud, producing a single final score in nats.
package boundedfb

import (
	"github.com/grailbio/fbpruner/logsum"
	"github.com/grailbio/fbpruner/prof"
	"github.com/grailbio/fbpruner/seq"
	"github.com/grailbio/fbpruner/sparse"
)

// Specials holds the five flanking-state scores for every row 0..Lq of a
// Bounded Forward or Bounded Backward sweep.
type Specials struct {
	N, B, E, C, J []float64
}

func newSpecials(lq int) Specials {
	s := Specials{
		N: make([]float64, lq+1),
		B: make([]float64, lq+1),
		E: make([]float64, lq+1),
		C: make([]float64, lq+1),
		J: make([]float64, lq+1),
	}
	for r := range s.N {
		s.N[r], s.B[r], s.E[r], s.C[r], s.J[r] = logsum.NegInf, logsum.NegInf, logsum.NegInf, logsum.NegInf, logsum.NegInf
	}
	return s
}

// Forward runs Bounded Forward over mx, a sparse matrix already shaped to
// the cloud to search, returning the row-major special-state trace and
// the final Forward score in nats (= C(Lq) + tCT).
func Forward(p *prof.Profile, s *seq.Sequence, mx *sparse.Matrix) (Specials, float64) {
	lq := mx.Lq
	sp := newSpecials(lq)
	sp.N[0] = 0
	sp.B[0] = p.SpecialTrans[prof.SN][prof.Move]

	for r := 1; r <= lq; r++ {
		a := s.At(r)
		eAcc := logsum.NegInf
		for _, iv := range mx.InnerBoundsForRow(r) {
			for c := iv.LB; c < iv.RB; c++ {
				mVal := p.MatchScore(c, a) + logsum.Logsum4(
					mx.At(prof.StateM, r-1, c-1)+p.T(c-1, prof.TMM),
					mx.At(prof.StateI, r-1, c-1)+p.T(c-1, prof.TIM),
					mx.At(prof.StateD, r-1, c-1)+p.T(c-1, prof.TDM),
					sp.B[r-1]+p.SpecialTrans[prof.SB][prof.Move])
				iVal := p.InsertScore(c, a) + logsum.Logsum(
					mx.At(prof.StateM, r-1, c)+p.T(c, prof.TMI),
					mx.At(prof.StateI, r-1, c)+p.T(c, prof.TII))
				dVal := logsum.Logsum(
					mx.At(prof.StateM, r, c-1)+p.T(c-1, prof.TMD),
					mx.At(prof.StateD, r, c-1)+p.T(c-1, prof.TDD))

				mx.Set(prof.StateM, r, c, mVal)
				mx.Set(prof.StateI, r, c, iVal)
				mx.Set(prof.StateD, r, c, dVal)

				eAcc = logsum.Logsum3(eAcc, mVal+p.SpecialTrans[prof.SE][prof.Move], dVal+p.SpecialTrans[prof.SE][prof.Move])
			}
		}
		sp.E[r] = eAcc
		sp.J[r] = logsum.Logsum(sp.J[r-1]+p.SpecialTrans[prof.SJ][prof.Loop], sp.E[r]+p.SpecialTrans[prof.SE][prof.Loop])
		sp.C[r] = logsum.Logsum(sp.C[r-1]+p.SpecialTrans[prof.SC][prof.Loop], sp.E[r]+p.SpecialTrans[prof.SE][prof.Move])
		sp.N[r] = sp.N[r-1] + p.SpecialTrans[prof.SN][prof.Loop]
		sp.B[r] = logsum.Logsum(sp.N[r]+p.SpecialTrans[prof.SN][prof.Move], sp.J[r]+p.SpecialTrans[prof.SJ][prof.Move])
	}

	return sp, sp.C[lq] + p.SpecialTrans[prof.SC][prof.Move]
}

// Backward runs Bounded Backward over mx, sweeping rows from Lq down to 0
// and, within a row, columns from rb-1 down to lb. Unlike Forward's E(r),
// which accumulates from that row's own M/D cells, Backward's E(r) is an
// input to the M/D recurrence and is itself derived from B(r) one row
// ahead: B(r) sums tBM plus the match emission of residue r+1 over row
// r+1's M-cells (the state a B(r) token immediately enters), so B, N, J,
// C, E for row r must all be finalized
// before row r's M/I/D cells are computed. It returns the row-major
// special-state trace and the final Backward score (= N(0)).
func Backward(p *prof.Profile, s *seq.Sequence, mx *sparse.Matrix) (Specials, float64) {
	lq, lt := mx.Lq, mx.Lt
	sp := newSpecials(lq)

	tBM := p.SpecialTrans[prof.SB][prof.Move]
	tNN, tNB := p.SpecialTrans[prof.SN][prof.Loop], p.SpecialTrans[prof.SN][prof.Move]
	tJJ, tJB := p.SpecialTrans[prof.SJ][prof.Loop], p.SpecialTrans[prof.SJ][prof.Move]
	tCC, tCT := p.SpecialTrans[prof.SC][prof.Loop], p.SpecialTrans[prof.SC][prof.Move]
	tEC, tEJ := p.SpecialTrans[prof.SE][prof.Move], p.SpecialTrans[prof.SE][prof.Loop]
	tME, tDE := p.SpecialTrans[prof.SE][prof.Move], p.SpecialTrans[prof.SE][prof.Move]

	sp.C[lq] = tCT
	sp.E[lq] = logsum.Logsum(sp.C[lq]+tEC, sp.J[lq]+tEJ) // J(lq) is -Inf: no row lq+1 to re-enter from
	mx.Set(prof.StateM, lq, lt, sp.E[lq]+tME)
	mx.Set(prof.StateD, lq, lt, sp.E[lq]+tDE)

	for r := lq; r >= 0; r-- {
		if r < lq {
			mAcc := logsum.NegInf
			for _, iv := range mx.InnerBoundsForRow(r + 1) {
				for c := iv.LB; c < iv.RB; c++ {
					mAcc = logsum.Logsum(mAcc, p.MatchScore(c, s.At(r+1))+mx.At(prof.StateM, r+1, c))
				}
			}
			sp.B[r] = mAcc + tBM
			sp.N[r] = logsum.Logsum(sp.N[r+1]+tNN, sp.B[r]+tNB)
			sp.J[r] = logsum.Logsum(sp.J[r+1]+tJJ, sp.B[r]+tJB)
			sp.C[r] = sp.C[r+1] + tCC
			sp.E[r] = logsum.Logsum(sp.C[r]+tEC, sp.J[r]+tEJ)
		}
		if r == 0 {
			break
		}

		ivs := mx.InnerBoundsForRow(r)
		for k := len(ivs) - 1; k >= 0; k-- {
			iv := ivs[k]
			for c := iv.RB - 1; c >= iv.LB; c-- {
				if r == lq && c == lt {
					continue // base case, set above
				}
				var aNext int8
				if r+1 <= lq {
					aNext = s.At(r + 1)
				}
				mscNext, iscNext := logsum.NegInf, logsum.NegInf
				if r+1 <= lq && c+1 <= lt {
					mscNext = p.MatchScore(c+1, aNext)
				}
				if r+1 <= lq {
					iscNext = p.InsertScore(c, aNext)
				}

				mNext := mx.At(prof.StateM, r+1, c+1)
				iNext := mx.At(prof.StateI, r+1, c)
				dRight := mx.At(prof.StateD, r, c+1)

				mVal := logsum.Logsum4(
					p.T(c, prof.TMM)+mscNext+mNext,
					p.T(c, prof.TMI)+iscNext+iNext,
					p.T(c, prof.TMD)+dRight,
					sp.E[r]+tME)
				iVal := logsum.Logsum(
					p.T(c, prof.TIM)+mscNext+mNext,
					p.T(c, prof.TII)+iscNext+iNext)
				dVal := logsum.Logsum3(
					p.T(c, prof.TDM)+mscNext+mNext,
					p.T(c, prof.TDD)+dRight,
					sp.E[r]+tDE)

				mx.Set(prof.StateM, r, c, mVal)
				mx.Set(prof.StateI, r, c, iVal)
				mx.Set(prof.StateD, r, c, dVal)
			}
		}
	}

	return sp, sp.N[0]
}
