// Package m8 formats Hit values as tab-separated BLAST-style
// m8 rows, and the "m8+" variant that adds numeric target/query IDs and a
// cloud-forward bit score column. Neither writer touches the core: both
// take already-computed scores and an io.Writer, per §6's note that
// result formatting lives entirely outside the core's responsibility.
package m8

import (
	"bufio"
	"fmt"
	"io"

	"github.com/grailbio/fbpruner/score"
	"github.com/pkg/errors"
)

// Hit is everything one reported alignment needs to format an m8 (or m8+)
// row: the query/target identities, the alignment span each covers, the
// Bounded Forward score (nats), and the fields an e-value needs.
type Hit struct {
	Query, Target          string
	QueryID, TargetID      int // only used by WriterPlus
	QueryStart, QueryEnd   int
	TargetStart, TargetEnd int
	ForwardNats            float64
	NullNats               float64
	DBSize                 int
	Tail                   score.ExpTail
}

func (h Hit) bits() float64 {
	return score.Bits(h.ForwardNats - h.NullNats)
}

func (h Hit) eValue() float64 {
	return score.EValue(h.bits(), h.DBSize, h.Tail)
}

// Writer formats Hits as standard 12-column m8 rows: query id, target id,
// percent identity (unknown to this package, always 100.00), alignment
// length, mismatches, gap opens (both unknown, always 0), query start/end,
// target start/end, e-value, bit score.
type Writer struct {
	w   *bufio.Writer
	err error
}

// NewWriter wraps w for buffered m8 output.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Write appends one row for hit. Errors are sticky: once Write fails, every
// subsequent call and the final Flush are no-ops returning that error.
func (wr *Writer) Write(h Hit) error {
	if wr.err != nil {
		return wr.err
	}
	alnLen := h.QueryEnd - h.QueryStart + 1
	_, err := fmt.Fprintf(wr.w, "%s\t%s\t%.2f\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%.3g\t%.1f\n",
		h.Query, h.Target, 100.0, alnLen, 0, 0,
		h.QueryStart, h.QueryEnd, h.TargetStart, h.TargetEnd,
		h.eValue(), h.bits())
	if err != nil {
		wr.err = errors.Wrap(err, "m8: writing row")
	}
	return wr.err
}

// Flush flushes any buffered output. A flush failure is sticky like a
// Write failure.
func (wr *Writer) Flush() error {
	if wr.err != nil {
		return wr.err
	}
	if err := wr.w.Flush(); err != nil {
		wr.err = errors.Wrap(err, "m8: flushing")
	}
	return wr.err
}

// WriterPlus formats Hits as m8 rows with three trailing "m8+" columns:
// the numeric query ID, the numeric target ID, and the raw cloud-forward
// bit score (before the null-model subtraction Writer's bit score applies),
// letting a downstream consumer re-derive significance without re-running
// the core.
type WriterPlus struct {
	w   *bufio.Writer
	err error
}

// NewWriterPlus wraps w for buffered m8+ output.
func NewWriterPlus(w io.Writer) *WriterPlus {
	return &WriterPlus{w: bufio.NewWriter(w)}
}

// Write appends one m8+ row for hit.
func (wr *WriterPlus) Write(h Hit) error {
	if wr.err != nil {
		return wr.err
	}
	alnLen := h.QueryEnd - h.QueryStart + 1
	rawBits := score.Bits(h.ForwardNats)
	_, err := fmt.Fprintf(wr.w, "%s\t%s\t%.2f\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%.3g\t%.1f\t%d\t%d\t%.1f\n",
		h.Query, h.Target, 100.0, alnLen, 0, 0,
		h.QueryStart, h.QueryEnd, h.TargetStart, h.TargetEnd,
		h.eValue(), h.bits(),
		h.QueryID, h.TargetID, rawBits)
	if err != nil {
		wr.err = errors.Wrap(err, "m8: writing m8+ row")
	}
	return wr.err
}

// Flush flushes any buffered output. A flush failure is sticky like a
// Write failure.
func (wr *WriterPlus) Flush() error {
	if wr.err != nil {
		return wr.err
	}
	if err := wr.w.Flush(); err != nil {
		wr.err = errors.Wrap(err, "m8: flushing m8+")
	}
	return wr.err
}
