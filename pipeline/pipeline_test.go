package pipeline

import (
	"testing"

	"github.com/grailbio/fbpruner/cloud"
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

func diagonalSeed(n int) prof.Trace {
	tr := make(prof.Trace, 0, n)
	for k := 1; k <= n; k++ {
		tr = append(tr, prof.Cell{State: prof.StateM, I: k, J: k})
	}
	return tr
}

func testParams() cloud.Params {
	return cloud.Params{Alpha: 8, Beta: 4, Gamma: 2, Mode: cloud.PruneModeEdgetrim}
}

func TestRunProducesFiniteScores(t *testing.T) {
	p := uniformProfile(10)
	s := uniformSequence(t, 10)
	seed := diagonalSeed(10)
	params := testParams()

	res, err := Run(p, s, seed, params, nil)
	require.NoError(t, err)
	assert.Greater(t, res.ForwardNats, float64(-1e6))
	assert.Greater(t, res.BackwardNats, float64(-1e6))
}

func TestRunCloudCellsNeverExceedFull(t *testing.T) {
	p := uniformProfile(10)
	s := uniformSequence(t, 10)
	seed := diagonalSeed(10)
	params := testParams()

	res, err := Run(p, s, seed, params, nil)
	require.NoError(t, err)
	assert.LessOrEqual(t, res.CloudCells, res.FullCells)
	assert.Greater(t, res.CloudCells, 0)
}

func TestRunRejectsSeedWithNoMatchCell(t *testing.T) {
	p := uniformProfile(10)
	s := uniformSequence(t, 10)
	params := testParams()

	_, err := Run(p, s, prof.Trace{{State: prof.StateI, I: 1, J: 1}}, params, nil)
	assert.Error(t, err)
}

func TestRunReusesBuffersAcrossCalls(t *testing.T) {
	p := uniformProfile(8)
	s := uniformSequence(t, 8)
	seed := diagonalSeed(8)
	params := testParams()
	buf := NewBuffers(8, 8)

	res1, err := Run(p, s, seed, params, buf)
	require.NoError(t, err)
	res2, err := Run(p, s, seed, params, buf)
	require.NoError(t, err)
	assert.InDelta(t, res1.ForwardNats, res2.ForwardNats, 1e-9)
}
