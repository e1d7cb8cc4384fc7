// Package prof defines the profile-HMM data model the core searches
// against: per-position match/insert emissions, per-position M/I/D
// transitions, and the five special flanking states that wrap the profile.
// All values are natural-log probabilities; impossible transitions and
// emissions are logsum.NegInf.
package prof

import (
	"github.com/grailbio/fbpruner/logsum"
	"github.com/grailbio/fbpruner/seq"
	"github.com/pkg/errors"
)

// Trans indexes the seven per-position M/I/D transition log-probabilities.
type Trans int

const (
	TMM Trans = iota
	TMI
	TMD
	TIM
	TII
	TDM
	TDD
	numTrans
)

// Special names the five flanking states that surround the profile's
// match/insert/delete core.
type Special int

const (
	SN Special = iota
	SB
	SE
	SC
	SJ
	numSpecial
)

// SpecialMove indexes the {loop, move} pair of log-probabilities each
// special state carries.
type SpecialMove int

const (
	Loop SpecialMove = iota
	Move
	numMoves
)

// Profile holds a profile-HMM of length Len, 1-indexed per the spec's DP
// convention: position 0 is the begin/padding row, valid positions are
// [1, Len].
type Profile struct {
	Name    string
	Len     int // L_t
	IsLocal bool

	// Match[k][a] and Insert[k][a] are log-odds emission scores for
	// position k (1..Len) and residue code a (0..seq.K-1). Index 0 is
	// unused padding matching the 1-based position convention.
	Match  [][]float64
	Insert [][]float64

	// Trans[k][t] is the log-probability of transition t leaving position
	// k (1..Len-1 for M/D transitions that must land on a later position,
	// though all k in [0, Len] are allocated for simplicity of indexing).
	Trans [][]float64

	// SpecialTrans[s][m] is the log-probability of special state s taking
	// its loop (self-transition) or move (advance) transition.
	SpecialTrans [numSpecial][numMoves]float64
}

// New allocates a Profile of the given length with every cell set to
// logsum.NegInf, ready for a parser to fill in.
func New(name string, length int, isLocal bool) *Profile {
	p := &Profile{Name: name, Len: length, IsLocal: isLocal}
	p.Match = newEmissionTable(length)
	p.Insert = newEmissionTable(length)
	p.Trans = make([][]float64, length+1)
	for k := range p.Trans {
		row := make([]float64, numTrans)
		for t := range row {
			row[t] = logsum.NegInf
		}
		p.Trans[k] = row
	}
	for s := 0; s < int(numSpecial); s++ {
		p.SpecialTrans[s][Loop] = logsum.NegInf
		p.SpecialTrans[s][Move] = logsum.NegInf
	}
	return p
}

func newEmissionTable(length int) [][]float64 {
	t := make([][]float64, length+1)
	for k := range t {
		row := make([]float64, seq.K)
		for a := range row {
			row[a] = logsum.NegInf
		}
		t[k] = row
	}
	return t
}

// MatchScore returns the match emission log-odds for position k, residue a.
func (p *Profile) MatchScore(k int, a int8) float64 {
	return p.Match[k][a]
}

// InsertScore returns the insert emission log-odds for position k, residue a.
func (p *Profile) InsertScore(k int, a int8) float64 {
	return p.Insert[k][a]
}

// T returns the transition log-probability t leaving position k.
func (p *Profile) T(k int, t Trans) float64 {
	return p.Trans[k][t]
}

// Validate checks that the profile's tables are shaped consistently. It is
// a programmer-error check, called from parsers and tests, never from the
// hot recurrence loops.
func (p *Profile) Validate() error {
	if p.Len <= 0 {
		return errors.Errorf("prof: profile %q has non-positive length %d", p.Name, p.Len)
	}
	if len(p.Match) != p.Len+1 || len(p.Insert) != p.Len+1 || len(p.Trans) != p.Len+1 {
		return errors.Errorf("prof: profile %q table length mismatch with Len=%d", p.Name, p.Len)
	}
	for k, row := range p.Match {
		if len(row) != seq.K {
			return errors.Errorf("prof: profile %q match row %d has width %d, want %d", p.Name, k, len(row), seq.K)
		}
	}
	return nil
}

// State names one of the three core DP states: match, insert, delete.
type State int

const (
	StateM State = iota
	StateI
	StateD
)

// Cell is a single point in a traceback/seed alignment: a state and the
// (query row, profile column) position it occupies.
type Cell struct {
	State State
	I, J  int
}

// Trace is an ordered seed alignment. The core only reads the first and
// last Cells with State == StateM; everything in between (and any non-M
// cells) exists purely for the upstream Viterbi traceback's own bookkeeping
// and is ignored here.
type Trace []Cell

// Endpoints returns the first and last match cells of the trace, which
// orient the forward and backward cloud sweeps respectively.
func (t Trace) Endpoints() (beg, end Cell, err error) {
	foundBeg := false
	for _, c := range t {
		if c.State != StateM {
			continue
		}
		if !foundBeg {
			beg = c
			foundBeg = true
		}
		end = c
	}
	if !foundBeg {
		return Cell{}, Cell{}, errors.New("prof: trace contains no match-state cell")
	}
	return beg, end, nil
}
