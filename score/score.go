// Package score converts the core's raw nats-denominated Bounded Forward
// score into the bit score and e-value a caller reports: subtracting a
// null model, converting to bits, and evaluating a pre-fit exponential
// tail. It is strictly downstream of the core and never feeds back into
// it.
package score

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Bits converts a nats log-probability to bits.
func Bits(nats float64) float64 {
	return nats / math.Ln2
}

// NullModel returns the standard one-state null model log-probability, in
// nats, for a sequence of length lq: HMMER's p1 geometric null, with
// p1 = lq/(lq+1).
func NullModel(lq int) float64 {
	p1 := float64(lq) / float64(lq+1)
	return float64(lq)*math.Log(p1) + math.Log(1-p1)
}

// ExpTail is a pre-fit Gumbel-style exponential tail for a profile's
// score distribution, as produced offline by the calibration procedure
// this package's Non-goals exclude (§1): Mu is the tail's location and
// Lambda its rate, both in bit-score units.
type ExpTail struct {
	Mu     float64
	Lambda float64
}

// EValue returns the expected number of chance hits at bitScore or better
// in a database of dbSize sequences, under tail.
func EValue(bitScore float64, dbSize int, tail ExpTail) float64 {
	dist := distuv.Exponential{Rate: tail.Lambda}
	survival := 1 - dist.CDF(bitScore-tail.Mu)
	return float64(dbSize) * survival
}
