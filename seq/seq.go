// Package seq holds the core's Sequence type: an immutable, alphabet-coded
// residue array produced by the FASTA collaborator and consumed by cloud
// search and the bounded recurrences.
package seq

import "github.com/pkg/errors"

// AminoAlphabet is the 20 standard amino acid residues plus the anonymous
// residue 'X', in the order profile emission columns are indexed.
const AminoAlphabet = "ACDEFGHIKLMNPQRSTVWYX"

// K is the number of distinct residue codes, including the anonymous
// residue. Profile emission rows have exactly K columns.
const K = len(AminoAlphabet)

var codeOf [256]int8

func init() {
	for i := range codeOf {
		codeOf[i] = -1
	}
	for i := 0; i < len(AminoAlphabet); i++ {
		codeOf[AminoAlphabet[i]] = int8(i)
	}
}

// Encode maps a residue byte to its alphabet index, or -1 if it is not a
// recognized residue.
func Encode(b byte) int8 {
	return codeOf[b]
}

// Sequence is an ordered, 1-indexed (by convention of the recurrences that
// consume it) array of residue codes. Index 0 is unused padding so that
// callers can index Residues[i] for i in [1, Len()] without an off-by-one
// translation at every call site, matching the 1-based (i, j) convention
// used throughout the spec's DP recurrences.
type Sequence struct {
	Name        string
	Description string
	Residues    []int8 // Residues[0] is padding; valid data is [1, Len()].
}

// New builds a Sequence from raw residue bytes. Unrecognized bytes are an
// error: the core never silently substitutes a residue.
func New(name, description string, raw []byte) (*Sequence, error) {
	residues := make([]int8, len(raw)+1)
	for i, b := range raw {
		c := Encode(b)
		if c < 0 {
			return nil, errors.Errorf("seq: unrecognized residue %q at position %d of %q", b, i, name)
		}
		residues[i+1] = c
	}
	return &Sequence{Name: name, Description: description, Residues: residues}, nil
}

// Len returns the number of residues (excluding the index-0 padding).
func (s *Sequence) Len() int {
	return len(s.Residues) - 1
}

// At returns the residue code at 1-based position i.
func (s *Sequence) At(i int) int8 {
	return s.Residues[i]
}
