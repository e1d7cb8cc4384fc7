package cloud

import (
	"testing"

	"github.com/grailbio/fbpruner/logsum"
	"github.com/grailbio/fbpruner/prof"
	"github.com/stretchr/testify/assert"
)

func TestBufferReuseIsAllNegInf(t *testing.T) {
	b := newBuffer(4, 4)
	for d := 0; d < 3; d++ {
		for st := prof.StateM; st <= prof.StateD; st++ {
			for i := 0; i <= 8; i++ {
				assert.Equal(t, logsum.NegInf, b.at(d, st, i))
			}
		}
	}
}

func TestBufferSetAndScrub(t *testing.T) {
	b := newBuffer(4, 4)
	b.set(5, prof.StateM, 2, -1.5)
	assert.Equal(t, -1.5, b.at(5, prof.StateM, 2))
	b.scrub(5, []Interval{{LB: 2, RB: 3}})
	assert.Equal(t, logsum.NegInf, b.at(5, prof.StateM, 2))
}

func TestBufferIsCleanDetectsStrayCell(t *testing.T) {
	b := newBuffer(4, 4)
	b.set(5, prof.StateI, 3, -2.0)
	live := map[int][]Interval{5: {{LB: 3, RB: 4}}}
	assert.True(t, b.isClean(live))

	b.set(5, prof.StateI, 1, -9.0)
	assert.False(t, b.isClean(live))
}

func TestBufferReuseResizesLarger(t *testing.T) {
	b := newBuffer(2, 2)
	b.Reuse(10, 10)
	assert.Equal(t, 22, b.width)
	for st := prof.StateM; st <= prof.StateD; st++ {
		assert.Equal(t, logsum.NegInf, b.at(0, st, 21))
	}
}
