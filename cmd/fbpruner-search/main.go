// Copyright 2020 Grail Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package main

/*
fbpruner-search runs pruned cloud Forward/Backward for a single profile
against every sequence in a FASTA file, given a Viterbi seed cell pair, and
writes m8 (or m8+) hits to stdout. It exists to prove the core's wiring
compiles and runs end to end; the real database-scale search is driven by
the MMseqs2-orchestrated shell pipeline this command does not replace.
*/

import (
	"flag"
	"fmt"
	"os"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/fbpruner/cloud"
	"github.com/grailbio/fbpruner/encoding/fasta"
	"github.com/grailbio/fbpruner/hmmio"
	"github.com/grailbio/fbpruner/m8"
	"github.com/grailbio/fbpruner/pipeline"
	"github.com/grailbio/fbpruner/prof"
	"github.com/grailbio/fbpruner/score"
	"github.com/grailbio/fbpruner/seq"
)

var (
	hmmPath    = flag.String("hmm", "", "Input HMMER3/f .hmm profile path")
	fastaPath  = flag.String("fasta", "", "Input FASTA query path")
	seedI0     = flag.Int("seed-i0", 0, "Seed's first match cell, query row (1-based)")
	seedJ0     = flag.Int("seed-j0", 0, "Seed's first match cell, profile column (1-based)")
	seedI1     = flag.Int("seed-i1", 0, "Seed's last match cell, query row (1-based)")
	seedJ1     = flag.Int("seed-j1", 0, "Seed's last match cell, profile column (1-based)")
	alpha      = flag.Float64("alpha", 8.0, "Primary X-drop, in nats")
	beta       = flag.Float64("beta", 4.0, "Secondary X-drop (bifurcate mode only), in nats")
	gamma      = flag.Int("gamma", 2, "Free-pass antidiagonals after the seed")
	bifurcate  = flag.Bool("bifurcate", false, "Use PruneModeBifurcate instead of the default edgetrim")
	dbSize     = flag.Int("db-size", 1, "Database size for e-value scaling")
	tailMu     = flag.Float64("tail-mu", 0.0, "Pre-fit exponential tail location, in bits")
	tailLambda = flag.Float64("tail-lambda", 1.0, "Pre-fit exponential tail rate, in bits")
	plus       = flag.Bool("plus", false, "Write m8+ rows instead of standard m8")
)

func fbprunerSearchUsage() {
	fmt.Printf("Usage: %s -hmm profile.hmm -fasta query.fasta -seed-i0 I -seed-j0 J -seed-i1 I -seed-j1 J\n", os.Args[0])
	fmt.Printf("Other options:\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = fbprunerSearchUsage
	shutdown := grail.Init()
	defer shutdown()

	if *hmmPath == "" || *fastaPath == "" {
		log.Fatalf("-hmm and -fasta are required")
	}

	p, err := readProfile(*hmmPath)
	if err != nil {
		log.Panicf("%v", err)
	}
	seqs, err := readQueries(*fastaPath)
	if err != nil {
		log.Panicf("%v", err)
	}

	mode := cloud.PruneModeEdgetrim
	if *bifurcate {
		mode = cloud.PruneModeBifurcate
	}
	params := cloud.Params{Alpha: *alpha, Beta: *beta, Gamma: *gamma, Mode: mode}
	seed := prof.Trace{
		{State: prof.StateM, I: *seedI0, J: *seedJ0},
		{State: prof.StateM, I: *seedI1, J: *seedJ1},
	}
	tail := score.ExpTail{Mu: *tailMu, Lambda: *tailLambda}

	w := m8.NewWriter(os.Stdout)
	wp := m8.NewWriterPlus(os.Stdout)
	reuse := pipeline.NewBuffers(0, 0)

	for _, s := range seqs {
		res, err := pipeline.Run(p, s, seed, params, reuse)
		if err != nil {
			log.Error.Printf("skipping %s: %v", s.Name, err)
			continue
		}
		hit := m8.Hit{
			Query:       s.Name,
			Target:      p.Name,
			QueryStart:  seed[0].I,
			QueryEnd:    seed[1].I,
			TargetStart: seed[0].J,
			TargetEnd:   seed[1].J,
			ForwardNats: res.ForwardNats,
			NullNats:    score.NullModel(s.Len()),
			DBSize:      *dbSize,
			Tail:        tail,
		}
		if *plus {
			err = wp.Write(hit)
		} else {
			err = w.Write(hit)
		}
		if err != nil {
			log.Panicf("%v", err)
		}
	}

	var flushErr error
	if *plus {
		flushErr = wp.Flush()
	} else {
		flushErr = w.Flush()
	}
	if flushErr != nil {
		log.Panicf("%v", flushErr)
	}
	log.Debug.Printf("exiting")
}

func readProfile(path string) (*prof.Profile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return hmmio.ReadProfile(f)
}

func readQueries(path string) ([]*seq.Sequence, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return fasta.ReadSequences(f)
}
