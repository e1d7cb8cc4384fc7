package edgebound

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRowsExtendsAdjacentColumns(t *testing.T) {
	r := NewRows(5, 20, DefaultRMax, 0)
	r.Push(2, 3)
	r.Push(2, 4)
	r.Push(2, 5)
	s := r.ToSet()
	assert.Equal(t, []Bound{{ID: 2, LB: 3, RB: 6}}, s.BoundsForID(2))
}

func TestRowsStartsNewIntervalOnGap(t *testing.T) {
	r := NewRows(5, 20, DefaultRMax, 0)
	r.Push(2, 3)
	r.Push(2, 10)
	s := r.ToSet()
	assert.Equal(t, []Bound{{ID: 2, LB: 3, RB: 4}, {ID: 2, LB: 10, RB: 11}}, s.BoundsForID(2))
}

func TestRowsOverflowPanics(t *testing.T) {
	r := NewRows(1, 100, 2, 0)
	r.Push(0, 0)
	r.Push(0, 10)
	assert.Panics(t, func() { r.Push(0, 20) })
}

func TestRowsPushIntervalMerges(t *testing.T) {
	r := NewRows(5, 20, DefaultRMax, 1)
	r.PushInterval(0, 0, 3)
	r.PushInterval(0, 4, 6) // gap of 1, within tolerance
	s := r.ToSet()
	assert.Equal(t, []Bound{{ID: 0, LB: 0, RB: 6}}, s.BoundsForID(0))
}
