package cloud

import (
	"github.com/grailbio/fbpruner/logsum"
	"github.com/grailbio/fbpruner/prof"
)

var negInf = logsum.NegInf

// prune implements the AntidiagPruner of §4.2. prevIntervals are the final
// (already widened/clamped) intervals emitted for antidiagonal d1 = d-1;
// buf holds those intervals' M/I/D values at d1. totalMax is updated
// in-place. dCnt counts antidiagonals traversed since the seed (0 at the
// first antidiagonal after the seed).
func prune(prevIntervals []Interval, buf *buffer, d1 int, totalMax *float64, params Params, dCnt int) []Interval {
	diagMax := negInf
	for _, iv := range prevIntervals {
		for i := iv.LB; i < iv.RB; i++ {
			m := max3(buf.at(d1, prof.StateM, i), buf.at(d1, prof.StateI, i), buf.at(d1, prof.StateD, i))
			if m > diagMax {
				diagMax = m
			}
		}
	}
	if diagMax > *totalMax {
		*totalMax = diagMax
	}

	if dCnt < params.Gamma {
		out := make([]Interval, len(prevIntervals))
		copy(out, prevIntervals)
		return out
	}

	totalLimit := *totalMax - params.Alpha
	switch params.Mode {
	case PruneModeBifurcate:
		return pruneBifurcate(prevIntervals, buf, d1, totalLimit, params.Beta)
	default:
		return pruneEdgetrim(prevIntervals, buf, d1, totalLimit)
	}
}

// pruneEdgetrim trims each input interval from its two ends only, per
// §4.2 step 4; an interval with no surviving cell is dropped entirely.
// Bifurcation is never performed under this mode.
func pruneEdgetrim(prevIntervals []Interval, buf *buffer, d1 int, totalLimit float64) []Interval {
	var out []Interval
	for _, iv := range prevIntervals {
		lb := -1
		for i := iv.LB; i < iv.RB; i++ {
			if cellMax(buf, d1, i) >= totalLimit {
				lb = i
				break
			}
		}
		if lb == -1 {
			continue
		}
		rb := -1
		for i := iv.RB - 1; i >= iv.LB; i-- {
			if cellMax(buf, d1, i) >= totalLimit {
				rb = i + 1
				break
			}
		}
		out = append(out, Interval{LB: lb, RB: rb})
	}
	return out
}

// pruneBifurcate first trims exactly as pruneEdgetrim does, then splits the
// trimmed interval wherever a run of cells falls below the secondary,
// more lenient threshold (totalLimit - beta): a dip that fails the lenient
// threshold breaks the interval in two, while a shallower dip that only
// fails the primary threshold is bridged over. This is this
// implementation's resolution of §9's open question on beta's role.
func pruneBifurcate(prevIntervals []Interval, buf *buffer, d1 int, totalLimit, beta float64) []Interval {
	trimmed := pruneEdgetrim(prevIntervals, buf, d1, totalLimit)
	lenientLimit := totalLimit - beta
	var out []Interval
	for _, iv := range trimmed {
		runStart := -1
		for i := iv.LB; i < iv.RB; i++ {
			if cellMax(buf, d1, i) >= lenientLimit {
				if runStart == -1 {
					runStart = i
				}
				continue
			}
			if runStart != -1 {
				out = append(out, Interval{LB: runStart, RB: i})
				runStart = -1
			}
		}
		if runStart != -1 {
			out = append(out, Interval{LB: runStart, RB: iv.RB})
		}
	}
	return out
}

func cellMax(buf *buffer, d, i int) float64 {
	return max3(buf.at(d, prof.StateM, i), buf.at(d, prof.StateI, i), buf.at(d, prof.StateD, i))
}
