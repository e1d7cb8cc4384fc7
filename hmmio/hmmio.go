// Package hmmio parses the HMMER3/f ASCII .hmm text format into a
// prof.Profile. It reads the header block (NAME/LENG/ALPH), the COMPO
// background-composition block, and the per-position match/insert/transition
// triples, converting HMMER's stored values (negated natural-log
// probabilities, with '*' marking an impossible event) into the natural-log
// scores prof.Profile expects.
package hmmio

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/grailbio/fbpruner/logsum"
	"github.com/grailbio/fbpruner/prof"
	"github.com/grailbio/fbpruner/seq"
	"github.com/pkg/errors"
)

// transOrder is the column order HMMER3/f writes a node's seven transition
// scores in, which matches prof.Trans's own iota order exactly.
var transOrder = [7]prof.Trans{prof.TMM, prof.TMI, prof.TMD, prof.TIM, prof.TII, prof.TDM, prof.TDD}

// ReadProfile parses a single HMMER3/f record from r. Only the first record
// in r is read; callers with multi-model .hmm files should split on the
// "//" record terminator themselves before calling ReadProfile on each
// piece.
func ReadProfile(r io.Reader) (*prof.Profile, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(nil, 1<<20)

	var name string
	var length int
	var sawLength bool

	for scanner.Scan() {
		line := scanner.Text()
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "NAME":
			if len(fields) < 2 {
				return nil, errors.Errorf("hmmio: malformed NAME line %q", line)
			}
			name = fields[1]
		case "LENG":
			if len(fields) < 2 {
				return nil, errors.Errorf("hmmio: malformed LENG line %q", line)
			}
			n, err := strconv.Atoi(fields[1])
			if err != nil {
				return nil, errors.Wrapf(err, "hmmio: parsing LENG %q", line)
			}
			length, sawLength = n, true
		case "HMM":
			if !sawLength {
				return nil, errors.New("hmmio: HMM header line seen before LENG")
			}
			return readBody(scanner, name, length)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "hmmio: reading header")
	}
	return nil, errors.New("hmmio: no HMM header line found")
}

// readBody parses everything from the line after "HMM ..." (the one
// transition-label line, COMPO, node 0's insert and transition lines, and
// one 3-line block per position) up to the last position's block; the
// record terminator "//" is not read.
func readBody(scanner *bufio.Scanner, name string, length int) (*prof.Profile, error) {
	p := prof.New(name, length, true)

	// Skip the "m->m m->i m->d ..." transition-label line.
	if !scanner.Scan() {
		return nil, errors.New("hmmio: truncated record after HMM header")
	}

	if !scanner.Scan() {
		return nil, errors.New("hmmio: truncated record before COMPO")
	}
	compoFields := strings.Fields(scanner.Text())
	if len(compoFields) == 0 || compoFields[0] != "COMPO" {
		return nil, errors.Errorf("hmmio: expected COMPO line, got %q", scanner.Text())
	}
	// COMPO's own values are background composition, not a profile position;
	// the score package derives its null model independently, so COMPO is
	// parsed here only to validate the record shape and advance the scanner.
	if _, err := parseScores(compoFields[1:], seq.K); err != nil {
		return nil, errors.Wrap(err, "hmmio: parsing COMPO line")
	}

	// Node 0's insert-emission and transition lines, immediately following
	// COMPO.
	insert0, err := scanLineScores(scanner, seq.K)
	if err != nil {
		return nil, errors.Wrap(err, "hmmio: parsing node 0 insert line")
	}
	copy(p.Insert[0], insert0)
	trans0, err := scanLineScores(scanner, 7)
	if err != nil {
		return nil, errors.Wrap(err, "hmmio: parsing node 0 transition line")
	}
	for i, t := range transOrder {
		p.Trans[0][t] = trans0[i]
	}

	for k := 1; k <= length; k++ {
		if !scanner.Scan() {
			return nil, errors.Errorf("hmmio: truncated record at node %d match line", k)
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) < 1+seq.K {
			return nil, errors.Errorf("hmmio: node %d match line has %d fields, want at least %d", k, len(fields), 1+seq.K)
		}
		matchScores, err := parseScores(fields[1:1+seq.K], seq.K)
		if err != nil {
			return nil, errors.Wrapf(err, "hmmio: node %d match line", k)
		}
		copy(p.Match[k], matchScores)

		insertScores, err := scanLineScores(scanner, seq.K)
		if err != nil {
			return nil, errors.Wrapf(err, "hmmio: node %d insert line", k)
		}
		copy(p.Insert[k], insertScores)

		transScores, err := scanLineScores(scanner, 7)
		if err != nil {
			return nil, errors.Wrapf(err, "hmmio: node %d transition line", k)
		}
		for i, t := range transOrder {
			p.Trans[k][t] = transScores[i]
		}
	}

	if err := p.Validate(); err != nil {
		return nil, errors.Wrap(err, "hmmio: built an invalid profile")
	}
	return p, nil
}

func scanLineScores(scanner *bufio.Scanner, n int) ([]float64, error) {
	if !scanner.Scan() {
		return nil, errors.New("hmmio: unexpected end of record")
	}
	return parseScores(strings.Fields(scanner.Text()), n)
}

// parseScores converts the first n whitespace-separated HMMER score tokens
// into natural-log scores: each token is either '*' (impossible, -> -Inf)
// or a negated natural-log probability (-> negate back to ln p).
func parseScores(fields []string, n int) ([]float64, error) {
	if len(fields) < n {
		return nil, errors.Errorf("hmmio: expected %d score fields, got %d", n, len(fields))
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		tok := fields[i]
		if tok == "*" {
			out[i] = logsum.NegInf
			continue
		}
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "hmmio: parsing score field %q", tok)
		}
		out[i] = -v
	}
	return out, nil
}
