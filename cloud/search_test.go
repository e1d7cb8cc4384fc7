package cloud

import (
	"testing"

	"github.com/grailbio/fbpruner/edgebound"
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
			p.Insert[k][a] = -0.5
		}
		for t := prof.Trans(0); t < 7; t++ {
			p.Trans[k][t] = -1.0
		}
	}
	p.SpecialTrans[prof.SE][prof.Move] = 0
	p.SpecialTrans[prof.SE][prof.Loop] = -1
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

func TestForwardSeedIsFirstEmittedAntidiag(t *testing.T) {
	p := uniformProfile(6)
	s := uniformSequence(t, 6)
	res, err := Forward(p, s, 3, 3, Params{Alpha: 1000, Gamma: 0, Mode: PruneModeEdgetrim}, nil, nil)
	require.NoError(t, err)
	require.NoError(t, res.Bounds.Validate())

	seedBounds := res.Bounds.BoundsForID(6)
	require.Len(t, seedBounds, 1)
	assert.Equal(t, 3, seedBounds[0].LB)
	assert.Equal(t, 4, seedBounds[0].RB)
}

func TestForwardGrowsThenStopsAtBoxEdge(t *testing.T) {
	p := uniformProfile(6)
	s := uniformSequence(t, 6)
	res, err := Forward(p, s, 3, 3, Params{Alpha: 1000, Gamma: 0, Mode: PruneModeEdgetrim}, nil, nil)
	require.NoError(t, err)

	ids := res.Bounds.IDs()
	require.NotEmpty(t, ids)
	lastD := ids[len(ids)-1]
	assert.LessOrEqual(t, lastD, 12) // Lq+Lt

	for _, d := range ids {
		for _, b := range res.Bounds.BoundsForID(d) {
			assert.True(t, b.LB >= 1 && b.RB <= 7, "bound %+v out of [1,7) box for d=%d", b, d)
		}
	}
}

func TestForwardShiftsEdgeSeedInterior(t *testing.T) {
	p := uniformProfile(6)
	s := uniformSequence(t, 6)
	res, err := Forward(p, s, 0, 0, Params{Alpha: 1000, Gamma: 0, Mode: PruneModeEdgetrim}, nil, nil)
	require.NoError(t, err)
	seedBounds := res.Bounds.BoundsForID(2)
	require.Len(t, seedBounds, 1)
	assert.Equal(t, 1, seedBounds[0].LB)
	assert.Equal(t, 2, seedBounds[0].RB)
}

func TestForwardRejectsSeedOutsideBox(t *testing.T) {
	p := uniformProfile(6)
	s := uniformSequence(t, 6)
	_, err := Forward(p, s, 100, 100, Params{Alpha: 10, Gamma: 0}, nil, nil)
	assert.Error(t, err)
}

func TestForwardPopulatesRows(t *testing.T) {
	p := uniformProfile(6)
	s := uniformSequence(t, 6)
	rows := edgebound.NewRows(6, 6, edgebound.DefaultRMax, edgebound.DefaultTolerance)
	_, err := Forward(p, s, 3, 3, Params{Alpha: 1000, Gamma: 0, Mode: PruneModeEdgetrim}, rows, nil)
	require.NoError(t, err)
	rowSet := rows.ToSet()
	assert.NotZero(t, rowSet.CountCells())
}

func TestBackwardSeedIsFirstEmittedAntidiag(t *testing.T) {
	p := uniformProfile(6)
	s := uniformSequence(t, 6)
	res, err := Backward(p, s, 3, 3, Params{Alpha: 1000, Gamma: 0, Mode: PruneModeEdgetrim}, nil, nil)
	require.NoError(t, err)
	require.NoError(t, res.Bounds.Validate())

	seedBounds := res.Bounds.BoundsForID(6)
	require.Len(t, seedBounds, 1)
	assert.Equal(t, 3, seedBounds[0].LB)
	assert.Equal(t, 4, seedBounds[0].RB)
}

func TestBackwardShiftsEdgeSeedInterior(t *testing.T) {
	p := uniformProfile(6)
	s := uniformSequence(t, 6)
	res, err := Backward(p, s, 6, 6, Params{Alpha: 1000, Gamma: 0, Mode: PruneModeEdgetrim}, nil, nil)
	require.NoError(t, err)
	seedBounds := res.Bounds.BoundsForID(10)
	require.Len(t, seedBounds, 1)
	assert.Equal(t, 5, seedBounds[0].LB)
	assert.Equal(t, 6, seedBounds[0].RB)
}

func TestBackwardReachesBoxCorner(t *testing.T) {
	p := uniformProfile(6)
	s := uniformSequence(t, 6)
	res, err := Backward(p, s, 3, 3, Params{Alpha: 1000, Gamma: 0, Mode: PruneModeEdgetrim}, nil, nil)
	require.NoError(t, err)
	ids := res.Bounds.IDs()
	require.NotEmpty(t, ids)
	// d=2 is (i,j)=(1,1), the smallest antidiagonal inside the box; d=1 and
	// d=0 fall entirely outside it and are never reached.
	assert.Equal(t, 2, ids[0])
}

func TestForwardObserverSeesEveryAntidiag(t *testing.T) {
	p := uniformProfile(6)
	s := uniformSequence(t, 6)
	seen := 0
	obs := &TestObserver{OnAntidiag: func(d int, ivs []Interval) { seen++ }}
	_, err := Forward(p, s, 3, 3, Params{Alpha: 1000, Gamma: 0, Mode: PruneModeEdgetrim}, nil, obs)
	require.NoError(t, err)
	assert.Greater(t, seen, 1)
}

func TestForwardBifurcateModeProducesValidBounds(t *testing.T) {
	p := uniformProfile(10)
	s := uniformSequence(t, 10)
	res, err := Forward(p, s, 5, 5, Params{Alpha: 3, Beta: 1, Gamma: 1, Mode: PruneModeBifurcate}, nil, nil)
	require.NoError(t, err)
	require.NoError(t, res.Bounds.Validate())
}
