package score

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBitsConvertsNatsToBits(t *testing.T) {
	assert.InDelta(t, 1.0, Bits(math.Ln2), 1e-12)
	assert.Equal(t, 0.0, Bits(0))
}

func TestNullModelIsNegative(t *testing.T) {
	n := NullModel(100)
	assert.Less(t, n, 0.0)
}

func TestNullModelGrowsMoreNegativeWithLength(t *testing.T) {
	short := NullModel(10)
	long := NullModel(1000)
	assert.Less(t, long, short)
}

func TestEValueDecreasesWithBitScore(t *testing.T) {
	tail := ExpTail{Mu: 10, Lambda: 0.5}
	low := EValue(10, 1000, tail)
	high := EValue(20, 1000, tail)
	assert.Greater(t, low, high)
}

func TestEValueScalesWithDBSize(t *testing.T) {
	tail := ExpTail{Mu: 10, Lambda: 0.5}
	small := EValue(15, 100, tail)
	large := EValue(15, 10000, tail)
	assert.InDelta(t, large, small*100, 1e-6)
}

func TestEValueAtMuIsDBSize(t *testing.T) {
	tail := ExpTail{Mu: 10, Lambda: 0.5}
	e := EValue(10, 1000, tail)
	assert.InDelta(t, 1000.0, e, 1e-6)
}
