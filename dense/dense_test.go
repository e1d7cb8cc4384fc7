package dense

import (
	"testing"

	"github.com/grailbio/fbpruner/prof"
	"github.com/grailbio/fbpruner/seq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniformProfile(length int) *prof.Profile {
	p := prof.New("test", length, true)
	for k := 0; k <= length; k++ {
		for a := 0; a < seq.K; a++ {
			p.Match[k][a] = -0.5
			p.Insert[k][a] = -1.5
		}
		for t := prof.Trans(0); t < 7; t++ {
			p.Trans[k][t] = -1.0
		}
	}
	p.SpecialTrans[prof.SN][prof.Loop] = -2
	p.SpecialTrans[prof.SN][prof.Move] = -0.15
	p.SpecialTrans[prof.SB][prof.Move] = 0
	p.SpecialTrans[prof.SE][prof.Loop] = -3
	p.SpecialTrans[prof.SE][prof.Move] = -0.05
	p.SpecialTrans[prof.SJ][prof.Loop] = -2
	p.SpecialTrans[prof.SJ][prof.Move] = -0.15
	p.SpecialTrans[prof.SC][prof.Loop] = -2
	p.SpecialTrans[prof.SC][prof.Move] = -0.15
	return p
}

func uniformSequence(t *testing.T, length int) *seq.Sequence {
	t.Helper()
	raw := make([]byte, length)
	for i := range raw {
		raw[i] = 'A'
	}
	s, err := seq.New("s", "", raw)
	require.NoError(t, err)
	return s
}

func TestDenseForwardAndBackwardTotalsAgree(t *testing.T) {
	p := uniformProfile(6)
	s := uniformSequence(t, 6)
	_, _, fwdTotal := Forward(p, s)
	_, _, bckTotal := Backward(p, s)
	assert.InDelta(t, fwdTotal, bckTotal, 1e-6)
}

func TestDenseViterbiFindsAPath(t *testing.T) {
	p := uniformProfile(6)
	s := uniformSequence(t, 6)
	trace, score := Viterbi(p, s)
	require.NotEmpty(t, trace)
	beg, end, err := trace.Endpoints()
	require.NoError(t, err)
	assert.True(t, beg.I <= end.I && beg.J <= end.J)
	assert.Greater(t, score, float64(-1e6))
}

func TestDenseViterbiScoreNeverExceedsForwardTotal(t *testing.T) {
	p := uniformProfile(6)
	s := uniformSequence(t, 6)
	_, vScore := Viterbi(p, s)
	_, _, fTotal := Forward(p, s)
	// The Viterbi path's contribution to the E-state sum is one term among
	// the logsum; the total can only be >= any single path's score.
	assert.LessOrEqual(t, vScore, fTotal+1e-9)
}
