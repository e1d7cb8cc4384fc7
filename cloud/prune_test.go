package cloud

import (
	"testing"

	"github.com/grailbio/fbpruner/prof"
	"github.com/stretchr/testify/assert"
)

func setCells(b *buffer, d int, vals map[int]float64) {
	for i, v := range vals {
		b.set(d, prof.StateM, i, v)
	}
}

func TestPruneEdgetrimTrimsEnds(t *testing.T) {
	b := newBuffer(10, 10)
	setCells(b, 4, map[int]float64{2: -10, 3: -1, 4: -0.5, 5: -1, 6: -10})
	prev := []Interval{{LB: 2, RB: 7}}
	totalMax := -0.5
	out := prune(prev, b, 4, &totalMax, Params{Alpha: 2, Gamma: 0, Mode: PruneModeEdgetrim}, 0)
	assert.Equal(t, []Interval{{LB: 3, RB: 6}}, out)
}

func TestPruneDropsFullyBelowThreshold(t *testing.T) {
	b := newBuffer(10, 10)
	setCells(b, 4, map[int]float64{2: -20, 3: -19})
	prev := []Interval{{LB: 2, RB: 4}}
	totalMax := -0.5
	out := prune(prev, b, 4, &totalMax, Params{Alpha: 2, Gamma: 0, Mode: PruneModeEdgetrim}, 0)
	assert.Empty(t, out)
}

func TestPruneRespectsGammaFreePass(t *testing.T) {
	b := newBuffer(10, 10)
	setCells(b, 4, map[int]float64{2: -50, 3: -50})
	prev := []Interval{{LB: 2, RB: 4}}
	totalMax := -0.5
	out := prune(prev, b, 4, &totalMax, Params{Alpha: 2, Gamma: 3, Mode: PruneModeEdgetrim}, 1)
	assert.Equal(t, prev, out)
}

func TestPruneBifurcateSplitsOnDeepDip(t *testing.T) {
	b := newBuffer(20, 20)
	setCells(b, 4, map[int]float64{
		2: -0.5, 3: -0.5, 4: -10, 5: -0.5, 6: -0.5,
	})
	prev := []Interval{{LB: 2, RB: 7}}
	totalMax := -0.5
	out := prune(prev, b, 4, &totalMax, Params{Alpha: 4, Beta: 1, Gamma: 0, Mode: PruneModeBifurcate}, 0)
	assert.Equal(t, []Interval{{LB: 2, RB: 4}, {LB: 5, RB: 7}}, out)
}

func TestPruneBifurcateBridgesShallowDip(t *testing.T) {
	b := newBuffer(20, 20)
	setCells(b, 4, map[int]float64{
		2: -0.5, 3: -0.5, 4: -3, 5: -0.5, 6: -0.5,
	})
	prev := []Interval{{LB: 2, RB: 7}}
	totalMax := -0.5
	out := prune(prev, b, 4, &totalMax, Params{Alpha: 4, Beta: 2, Gamma: 0, Mode: PruneModeBifurcate}, 0)
	assert.Equal(t, []Interval{{LB: 2, RB: 7}}, out)
}
