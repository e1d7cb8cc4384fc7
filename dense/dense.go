// Package dense implements unrestricted Forward, Backward, and Viterbi
// over the full L_q x L_t matrix. It exists only as a reference oracle
// for tests: the production path never visits every cell, only the
// sparse row cloud BoundedFwdBck is handed by CloudReorient.
package dense

import (
	"github.com/grailbio/fbpruner/logsum"
	"github.com/grailbio/fbpruner/prof"
	"github.com/grailbio/fbpruner/seq"
)

// Matrix is a fully dense M/I/D score table, one row per query position
// 0..Lq and one column per profile position 0..Lt.
type Matrix struct {
	Lq, Lt  int
	M, I, D [][]float64
}

func newMatrix(lq, lt int) *Matrix {
	mx := &Matrix{Lq: lq, Lt: lt}
	mx.M = newTable(lq, lt)
	mx.I = newTable(lq, lt)
	mx.D = newTable(lq, lt)
	return mx
}

func newTable(lq, lt int) [][]float64 {
	t := make([][]float64, lq+1)
	for r := range t {
		row := make([]float64, lt+1)
		for c := range row {
			row[c] = logsum.NegInf
		}
		t[r] = row
	}
	return t
}

// At returns the score of the given state at (r, c).
func (mx *Matrix) At(state prof.State, r, c int) float64 {
	switch state {
	case prof.StateM:
		return mx.M[r][c]
	case prof.StateI:
		return mx.I[r][c]
	default:
		return mx.D[r][c]
	}
}

// Forward runs unrestricted Forward over the whole (Lq, Lt) box, returning
// the filled matrix, the per-row special-state trace, and the final score
// in nats (= C(Lq) + tCT).
func Forward(p *prof.Profile, s *seq.Sequence) (*Matrix, Specials, float64) {
	lq, lt := s.Len(), p.Len
	mx := newMatrix(lq, lt)
	sp := newSpecials(lq)
	sp.N[0] = 0
	sp.B[0] = p.SpecialTrans[prof.SN][prof.Move]

	for r := 1; r <= lq; r++ {
		a := s.At(r)
		eAcc := logsum.NegInf
		for c := 1; c <= lt; c++ {
			mVal := p.MatchScore(c, a) + logsum.Logsum4(
				mx.M[r-1][c-1]+p.T(c-1, prof.TMM),
				mx.I[r-1][c-1]+p.T(c-1, prof.TIM),
				mx.D[r-1][c-1]+p.T(c-1, prof.TDM),
				sp.B[r-1]+p.SpecialTrans[prof.SB][prof.Move])
			iVal := p.InsertScore(c, a) + logsum.Logsum(
				mx.M[r-1][c]+p.T(c, prof.TMI),
				mx.I[r-1][c]+p.T(c, prof.TII))
			dVal := logsum.Logsum(
				mx.M[r][c-1]+p.T(c-1, prof.TMD),
				mx.D[r][c-1]+p.T(c-1, prof.TDD))

			mx.M[r][c] = mVal
			mx.I[r][c] = iVal
			mx.D[r][c] = dVal

			eAcc = logsum.Logsum3(eAcc, mVal+p.SpecialTrans[prof.SE][prof.Move], dVal+p.SpecialTrans[prof.SE][prof.Move])
		}
		sp.E[r] = eAcc
		sp.J[r] = logsum.Logsum(sp.J[r-1]+p.SpecialTrans[prof.SJ][prof.Loop], sp.E[r]+p.SpecialTrans[prof.SE][prof.Loop])
		sp.C[r] = logsum.Logsum(sp.C[r-1]+p.SpecialTrans[prof.SC][prof.Loop], sp.E[r]+p.SpecialTrans[prof.SE][prof.Move])
		sp.N[r] = sp.N[r-1] + p.SpecialTrans[prof.SN][prof.Loop]
		sp.B[r] = logsum.Logsum(sp.N[r]+p.SpecialTrans[prof.SN][prof.Move], sp.J[r]+p.SpecialTrans[prof.SJ][prof.Move])
	}

	return mx, sp, sp.C[lq] + p.SpecialTrans[prof.SC][prof.Move]
}

// Backward runs unrestricted Backward over the whole (Lq, Lt) box; see
// boundedfb.Backward for the derivation this mirrors exactly, without any
// sparse-cloud restriction.
func Backward(p *prof.Profile, s *seq.Sequence) (*Matrix, Specials, float64) {
	lq, lt := s.Len(), p.Len
	mx := newMatrix(lq, lt)
	sp := newSpecials(lq)

	tBM := p.SpecialTrans[prof.SB][prof.Move]
	tNN, tNB := p.SpecialTrans[prof.SN][prof.Loop], p.SpecialTrans[prof.SN][prof.Move]
	tJJ, tJB := p.SpecialTrans[prof.SJ][prof.Loop], p.SpecialTrans[prof.SJ][prof.Move]
	tCC, tCT := p.SpecialTrans[prof.SC][prof.Loop], p.SpecialTrans[prof.SC][prof.Move]
	tEC, tEJ := p.SpecialTrans[prof.SE][prof.Move], p.SpecialTrans[prof.SE][prof.Loop]
	tME, tDE := p.SpecialTrans[prof.SE][prof.Move], p.SpecialTrans[prof.SE][prof.Move]

	sp.C[lq] = tCT
	sp.E[lq] = logsum.Logsum(sp.C[lq]+tEC, sp.J[lq]+tEJ)
	mx.M[lq][lt] = sp.E[lq] + tME
	mx.D[lq][lt] = sp.E[lq] + tDE

	for r := lq; r >= 0; r-- {
		if r < lq {
			mAcc := logsum.NegInf
			for c := 1; c <= lt; c++ {
				mAcc = logsum.Logsum(mAcc, p.MatchScore(c, s.At(r+1))+mx.M[r+1][c])
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
		for c := lt; c >= 1; c-- {
			if r == lq && c == lt {
				continue
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

			mNext := logsum.NegInf
			iNext := logsum.NegInf
			if r+1 <= lq && c+1 <= lt {
				mNext = mx.M[r+1][c+1]
			}
			if r+1 <= lq {
				iNext = mx.I[r+1][c]
			}
			dRight := logsum.NegInf
			if c+1 <= lt {
				dRight = mx.D[r][c+1]
			}

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

			mx.M[r][c] = mVal
			mx.I[r][c] = iVal
			mx.D[r][c] = dVal
		}
	}

	return mx, sp, sp.N[0]
}

// Viterbi runs the unrestricted max-plus traceback over the whole (Lq, Lt)
// box, returning the best-scoring alignment (the seed CloudSearch
// orients from) and its score in nats. The score is that of the whole
// path: the N-state prefix, the B, E and C transitions, and the C-state
// suffix; paths through J are not considered. The returned Trace records every
// traceback step as a match-state cell: callers only need the first and
// last cells (via Trace.Endpoints) to orient a cloud search, so the I/D
// legs of the true HMMER traceback are not reconstructed here.

func Viterbi(p *prof.Profile, s *seq.Sequence) (prof.Trace, float64) {
	lq, lt := s.Len(), p.Len
	mx := newMatrix(lq, lt)
	type back struct {
		state prof.State
		r, c  int
		valid bool
	}
	trace := make([][]back, lq+1)
	for r := range trace {
		trace[r] = make([]back, lt+1)
	}

	tNN, tNB := p.SpecialTrans[prof.SN][prof.Loop], p.SpecialTrans[prof.SN][prof.Move]
	for r := 1; r <= lq; r++ {
		a := s.At(r)
		n := float64(r-1)*tNN + tNB // B(r-1) reached through the N loop
		for c := 1; c <= lt; c++ {
			cands := []float64{
				mx.M[r-1][c-1] + p.T(c-1, prof.TMM),
				mx.I[r-1][c-1] + p.T(c-1, prof.TIM),
				mx.D[r-1][c-1] + p.T(c-1, prof.TDM),
				n + p.SpecialTrans[prof.SB][prof.Move],
			}
			bestIdx, bestVal := argmax(cands)
			mx.M[r][c] = p.MatchScore(c, a) + bestVal
			switch bestIdx {
			case 0:
				trace[r][c] = back{prof.StateM, r - 1, c - 1, true}
			case 1:
				trace[r][c] = back{prof.StateI, r - 1, c - 1, true}
			case 2:
				trace[r][c] = back{prof.StateD, r - 1, c - 1, true}
			}

			iCands := []float64{mx.M[r-1][c] + p.T(c, prof.TMI), mx.I[r-1][c] + p.T(c, prof.TII)}
			_, iBest := argmax(iCands)
			mx.I[r][c] = p.InsertScore(c, a) + iBest

			dCands := []float64{mx.M[r][c-1] + p.T(c-1, prof.TMD), mx.D[r][c-1] + p.T(c-1, prof.TDD)}
			_, dBest := argmax(dCands)
			mx.D[r][c] = dBest
		}
	}

	tME, tEC := p.SpecialTrans[prof.SE][prof.Move], p.SpecialTrans[prof.SE][prof.Move]
	tCC, tCT := p.SpecialTrans[prof.SC][prof.Loop], p.SpecialTrans[prof.SC][prof.Move]
	bestScore := logsum.NegInf
	bestR, bestC := 0, 0
	for r := 1; r <= lq; r++ {
		for c := 1; c <= lt; c++ {
			v := mx.M[r][c] + tME + tEC + float64(lq-r)*tCC + tCT
			if v > bestScore {
				bestScore, bestR, bestC = v, r, c
			}
		}
	}
	if bestR == 0 {
		return nil, logsum.NegInf
	}

	var t prof.Trace
	r, c := bestR, bestC
	for r > 0 && c > 0 {
		t = append(prof.Trace{{State: prof.StateM, I: r, J: c}}, t...)
		b := trace[r][c]
		if !b.valid {
			break
		}
		r, c = b.r, b.c
	}
	return t, bestScore
}

func argmax(vals []float64) (int, float64) {
	best := 0
	for i := 1; i < len(vals); i++ {
		if vals[i] > vals[best] {
			best = i
		}
	}
	return best, vals[best]
}

// Specials mirrors boundedfb.Specials for the dense oracle.
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
