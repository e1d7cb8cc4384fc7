package cloud

import (
	"github.com/grailbio/fbpruner/logsum"
	"github.com/grailbio/fbpruner/prof"
)

// buffer is the rolling 3-antidiagonal M/I/D score store described in §3
// and §9: three slots indexed by (d mod 3), each wide enough to hold every
// row index that can appear on any antidiagonal of the box. A flat,
// integer-indexed slot array is used instead of swapped pointers so the
// three slots are never separately owned (§9 "pointer aliasing").
type buffer struct {
	lq, lt int
	width  int
	slots  [3][3][]float64 // [d%3][state][row]
}

func newBuffer(lq, lt int) *buffer {
	b := &buffer{}
	b.Reuse(lq, lt)
	return b
}

// Reuse reshapes b for a (possibly different) box and resets every cell to
// -Inf, satisfying the "matrix must appear clean at the start of each
// sweep" requirement (§9 open question) without needing a separate
// "clean" flag.
func (b *buffer) Reuse(lq, lt int) {
	b.lq, b.lt = lq, lt
	width := lq + lt + 2
	if width > b.width {
		for m := range b.slots {
			for st := range b.slots[m] {
				b.slots[m][st] = make([]float64, width)
			}
		}
		b.width = width
	}
	for m := range b.slots {
		for st := range b.slots[m] {
			row := b.slots[m][st][:b.width]
			for i := range row {
				row[i] = logsum.NegInf
			}
		}
	}
}

func slotOf(d int) int {
	m := d % 3
	if m < 0 {
		m += 3
	}
	return m
}

func (b *buffer) at(d int, st prof.State, i int) float64 {
	return b.slots[slotOf(d)][st][i]
}

func (b *buffer) set(d int, st prof.State, i int, v float64) {
	b.slots[slotOf(d)][st][i] = v
}

// scrub resets every state of every cell in ivs on antidiagonal d back to
// -Inf, maintaining the scrubbing invariant once those cells can no longer
// be read as a lookback neighbor (§3, §8 property 6).
func (b *buffer) scrub(d int, ivs []Interval) {
	slot := slotOf(d)
	for st := 0; st < 3; st++ {
		row := b.slots[slot][st]
		for _, iv := range ivs {
			for i := iv.LB; i < iv.RB; i++ {
				row[i] = logsum.NegInf
			}
		}
	}
}

// isClean reports whether every cell of every slot is -Inf except those
// covered by the supplied live antidiagonals' intervals. It exists for
// tests of the scrubbing invariant (§8 property 6) and is never called
// from production code.
func (b *buffer) isClean(live map[int][]Interval) bool {
	slotDiag := [3]int{-1, -1, -1}
	for d := range live {
		slotDiag[slotOf(d)] = d
	}
	for m := 0; m < 3; m++ {
		var ivs []Interval
		if slotDiag[m] != -1 {
			ivs = live[slotDiag[m]]
		}
		for st := 0; st < 3; st++ {
			for i, v := range b.slots[m][st] {
				if v == logsum.NegInf {
					continue
				}
				if !coveredBy(ivs, i) {
					return false
				}
			}
		}
	}
	return true
}

func coveredBy(ivs []Interval, i int) bool {
	for _, iv := range ivs {
		if i >= iv.LB && i < iv.RB {
			return true
		}
	}
	return false
}
