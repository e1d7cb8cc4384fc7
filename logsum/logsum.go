// Package logsum implements the numerically stable log-sum-exp operation
// that the cloud search and bounded Forward/Backward recurrences use to
// combine log-space path probabilities.
package logsum

import (
	"math"
	"sync"
)

// NegInf is the sentinel used throughout the core for "impossible": any
// additive identity under Logsum, and absorbing under ordinary addition.
var NegInf = math.Inf(-1)

const (
	tableMax  = 16.0
	tableStep = 0.001
	tableLen  = int(tableMax/tableStep) + 2
)

var (
	tableOnce sync.Once
	table     []float64
)

// buildTable lazily fills the log1p(exp(-x)) lookup table on x in [0, 16]
// with tableStep resolution. Table-based and closed-form Logsum must agree
// to within the 0.001 nat tolerance the spec allows.
func buildTable() {
	table = make([]float64, tableLen)
	for i := range table {
		x := float64(i) * tableStep
		table[i] = math.Log1p(math.Exp(-x))
	}
}

// UseTable switches the package-level Logsum implementation to the
// precomputed lookup table instead of the closed-form math.Log1p/math.Exp
// call. Safe to call at most once, before any Logsum call; it exists for
// benchmarking and for parity tests between the two implementations.
func UseTable() {
	tableOnce.Do(buildTable)
	impl = tableLogsum
}

var impl = closedFormLogsum

// Logsum returns the numerically stable log(e^a + e^b). It returns a when
// b is -Inf, and b when a is -Inf, without evaluating exp on either wing.
func Logsum(a, b float64) float64 {
	if math.IsInf(a, -1) {
		return b
	}
	if math.IsInf(b, -1) {
		return a
	}
	return impl(a, b)
}

func closedFormLogsum(a, b float64) float64 {
	hi, lo := a, b
	if lo > hi {
		hi, lo = lo, hi
	}
	return hi + math.Log1p(math.Exp(lo-hi))
}

func tableLogsum(a, b float64) float64 {
	hi, lo := a, b
	if lo > hi {
		hi, lo = lo, hi
	}
	diff := hi - lo
	if diff >= tableMax {
		return hi
	}
	pos := diff / tableStep
	idx := int(pos)
	frac := pos - float64(idx)
	lo0, hi0 := table[idx], table[idx+1]
	return hi + lo0 + frac*(hi0-lo0)
}

// Logsum3 folds three values: Logsum(Logsum(a, b), c). Exposed directly so
// hot call sites (the E-state accumulator in boundedfb) avoid a slice
// allocation that a variadic Logsum would otherwise force.
func Logsum3(a, b, c float64) float64 {
	return Logsum(Logsum(a, b), c)
}

// Logsum4 folds four values: Logsum(Logsum(a, b), Logsum(c, d)).
func Logsum4(a, b, c, d float64) float64 {
	return Logsum(Logsum(a, b), Logsum(c, d))
}
