/*
 * Licensed to the Apache Software Foundation (ASF) under one or more
 * contributor license agreements.  See the NOTICE file distributed with
 * this work for additional information regarding copyright ownership.
 * The ASF licenses this file to You under the Apache License, Version 2.0
 * (the "License"); you may not use this file except in compliance with
 * the License.  You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// thetadump builds a theta sketch from newline-delimited input and reports
// its cardinality estimate. Given a second input, it also reports the
// Jaccard similarity between the two streams.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/cardinalitylab/thetasketch/theta"
)

func main() {
	lgK := flag.Uint("lgk", uint(theta.DefaultLgK), "log2 of nominal entries")
	seed := flag.Uint64("seed", theta.DefaultSeed, "hash seed")
	alpha := flag.Bool("alpha", false, "use the Alpha update sketch variant instead of QuickSelect")
	second := flag.String("compare", "", "path to a second input file; report Jaccard similarity against it")
	printItems := flag.Bool("items", false, "include retained hash values in the summary")
	flag.Parse()

	args := flag.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: thetadump [flags] <input-file>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	sketch, err := buildSketch(args[0], uint8(*lgK), *seed, *alpha)
	if err != nil {
		fmt.Fprintln(os.Stderr, "thetadump:", err)
		os.Exit(1)
	}
	fmt.Print(sketch.String(*printItems))

	if *second == "" {
		return
	}

	otherSketch, err := buildSketch(*second, uint8(*lgK), *seed, *alpha)
	if err != nil {
		fmt.Fprintln(os.Stderr, "thetadump:", err)
		os.Exit(1)
	}

	result, err := theta.Jaccard(sketch.Compact(false), otherSketch.Compact(false), *seed)
	if err != nil {
		fmt.Fprintln(os.Stderr, "thetadump: jaccard:", err)
		os.Exit(1)
	}
	fmt.Printf("\njaccard similarity: %.6f (95%% interval [%.6f, %.6f])\n",
		result.Estimate, result.LowerBound, result.UpperBound)
}

// updateSketch is the subset of theta.Sketch both update variants satisfy,
// plus the single UpdateString entry point thetadump needs.
type updateSketch interface {
	theta.Sketch
	UpdateString(value string) error
}

func buildSketch(path string, lgK uint8, seed uint64, useAlpha bool) (updateSketch, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var sketch updateSketch
	if useAlpha {
		sketch, err = theta.NewAlphaUpdateSketch(
			theta.WithUpdateSketchLgK(lgK),
			theta.WithUpdateSketchSeed(seed),
		)
	} else {
		sketch, err = theta.NewQuickSelectUpdateSketch(
			theta.WithUpdateSketchLgK(lgK),
			theta.WithUpdateSketchSeed(seed),
		)
	}
	if err != nil {
		return nil, err
	}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		if err := sketch.UpdateString(line); err != nil && err != theta.ErrDuplicateKey {
			return nil, fmt.Errorf("updating sketch from %s: %w", path, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return sketch, nil
}
