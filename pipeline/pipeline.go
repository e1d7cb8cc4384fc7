// Package pipeline wires the core's five components (LogSum, AntidiagPruner,
// CloudSearch, CloudReorient, BoundedFwdBck) into the single entry point a
// caller drives per (query, target, seed) tuple. Buffers is the explicit
// per-worker handle a caller passes to Run, following the teacher's
// bamprovider pattern of an explicit reusable provider struct instead of
// global or goroutine-local state; it currently holds no allocations, and
// Run allocates its buffers per call.
package pipeline

import (
	"github.com/grailbio/fbpruner/boundedfb"
	"github.com/grailbio/fbpruner/cloud"
	"github.com/grailbio/fbpruner/edgebound"
	"github.com/grailbio/fbpruner/prof"
	"github.com/grailbio/fbpruner/reorient"
	"github.com/grailbio/fbpruner/seq"
	"github.com/grailbio/fbpruner/sparse"
	"github.com/pkg/errors"
)

// Buffers holds the per-worker reusable state a repeated call to Run can
// carry across queries instead of reallocating. CloudReorient
// (reorient.Merge) is the component of record for turning the forward and
// backward sweeps' diagonal EdgebSets into the row cloud BoundedFwdBck runs
// over; cloud.Forward/cloud.Backward's optional *edgebound.Rows parameter
// is an alternate row-oriented accumulator that path doesn't need, so Run
// passes nil for it rather than populating a Rows buffer nothing consumes.
// Buffers keeps the call sites' NewBuffers/reuse call shape stable for
// whatever per-worker state joins it; it has no GrowTo method.
type Buffers struct{}

// NewBuffers allocates a Buffers for boxes up to (lq, lt). lq and lt are
// unused today but kept in the signature so call sites do not need to
// change when Buffers grows state sized by the box.
func NewBuffers(lq, lt int) *Buffers {
	return &Buffers{}
}

func (b *Buffers) reuse(lq, lt int) {}

// Result packages everything pipeline.Run produces for one (query,
// target, seed) tuple.
type Result struct {
	Row          *edgebound.Set
	Matrix       *sparse.Matrix
	ForwardNats  float64
	BackwardNats float64
	CloudCells   int
	FullCells    int
}

// Run implements the core's §2 data flow: extracts seed's first/last
// match cell, runs cloud.Forward/cloud.Backward, merges the resulting
// diagonal EdgebSets with reorient.Merge, builds a sparse.Matrix over the
// merged row cloud, and runs boundedfb.Forward/boundedfb.Backward over it.
func Run(p *prof.Profile, s *seq.Sequence, seed prof.Trace, params cloud.Params, reuse *Buffers) (*Result, error) {
	beg, end, err := seed.Endpoints()
	if err != nil {
		return nil, errors.Wrap(err, "pipeline: invalid seed")
	}

	lq, lt := s.Len(), p.Len
	if reuse == nil {
		reuse = NewBuffers(lq, lt)
	} else {
		reuse.reuse(lq, lt)
	}

	fwdResult, err := cloud.Forward(p, s, beg.I, beg.J, params, nil, nil)
	if err != nil {
		return nil, errors.Wrap(err, "pipeline: cloud forward")
	}
	bckResult, err := cloud.Backward(p, s, end.I, end.J, params, nil, nil)
	if err != nil {
		return nil, errors.Wrap(err, "pipeline: cloud backward")
	}

	row := reorient.Merge(fwdResult.Bounds, bckResult.Bounds, lq, lt)
	mx := sparse.NewMatrix(row)

	fwdMx := mx
	_, fwdScore := boundedfb.Forward(p, s, fwdMx)

	bckMx := sparse.NewMatrix(row)
	_, bckScore := boundedfb.Backward(p, s, bckMx)

	return &Result{
		Row:          row,
		Matrix:       fwdMx,
		ForwardNats:  fwdScore,
		BackwardNats: bckScore,
		CloudCells:   row.CountCells(),
		FullCells:    lq * lt,
	}, nil
}
