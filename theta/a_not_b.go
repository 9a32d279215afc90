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

package theta

import (
	"fmt"
	"iter"
	"slices"

	"github.com/cardinalitylab/thetasketch/internal"
)

// ANotB computes the set difference of two Theta sketches: every retained
// hash of a that theta still admits and that does not also appear in b.
func ANotB(a, b Sketch, seed uint64, ordered bool) (*CompactSketch, error) {
	seedHash, err := internal.ComputeSeedHash(int64(seed))
	if err != nil {
		return nil, err
	}

	if a.IsEmpty() {
		return NewCompactSketch(a, ordered), nil
	}
	if a.NumRetained() > 0 && b.IsEmpty() {
		return NewCompactSketch(a, ordered), nil
	}

	if err := checkANotBSeedHash("A", a, uint16(seedHash)); err != nil {
		return nil, err
	}
	if err := checkANotBSeedHash("B", b, uint16(seedHash)); err != nil {
		return nil, err
	}

	theta := min(a.Theta64(), b.Theta64())
	entries, err := diffEntries(a, b, theta)
	if err != nil {
		return nil, err
	}

	isEmpty := a.IsEmpty()
	if len(entries) == 0 && theta == MaxTheta {
		isEmpty = true
	}

	if ordered && !a.IsOrdered() {
		slices.Sort(entries)
	}

	return newCompactSketchFromEntries(
		isEmpty,
		a.IsOrdered() || ordered,
		uint16(seedHash),
		theta,
		entries,
	), nil
}

func checkANotBSeedHash(label string, sketch Sketch, expected uint16) error {
	actual, err := sketch.SeedHash()
	if err != nil {
		return err
	}
	if actual != expected {
		return fmt.Errorf("sketch %s seed hash mismatch: expected %d, got %d", label, expected, actual)
	}
	return nil
}

// diffEntries picks the cheapest available strategy for the three shapes
// ANotB can see: b contributes nothing, both sides are already ordered (a
// linear merge beats hashing), or general unordered inputs (hash lookup).
func diffEntries(a, b Sketch, theta uint64) ([]uint64, error) {
	switch {
	case b.NumRetained() == 0:
		var entries []uint64
		for entry := range a.All() {
			if entry < theta {
				entries = append(entries, entry)
			}
		}
		return entries, nil
	case a.IsOrdered() && b.IsOrdered():
		return diffViaMerge(a, b, theta), nil
	default:
		return diffViaHashtable(a, b, theta)
	}
}

// diffViaMerge walks two already-sorted hash streams in lockstep, the way a
// merge-sort conquer step would, instead of materializing one side into a
// lookup structure. Valid only when both a and b are ordered.
func diffViaMerge(a, b Sketch, theta uint64) []uint64 {
	nextB, stopB := iter.Pull(b.All())
	defer stopB()
	bHash, bOk := nextB()

	var entries []uint64
	for aHash := range a.All() {
		if aHash >= theta {
			break // a is ordered: every later hash is >= theta too
		}
		for bOk && bHash < aHash {
			bHash, bOk = nextB()
		}
		if bOk && bHash == aHash {
			continue
		}
		entries = append(entries, aHash)
	}
	return entries
}

// diffViaHashtable handles the general case by indexing b's entries and
// probing it once per a entry.
func diffViaHashtable(a, b Sketch, theta uint64) ([]uint64, error) {
	lgSize := internal.LgSizeFromCount(b.NumRetained(), rebuildThreshold)

	table := NewHashtable(lgSize, lgSize, ResizeX1, 1, 0, 0, false)

	for entry := range b.All() {
		if entry < theta {
			idx, err := table.Find(entry)
			if err != nil && err == ErrKeyNotFoundAndNoEmptySlots {
				return nil, err
			}

			table.Insert(idx, entry)
		} else if b.IsOrdered() {
			break // Early stop
		}
	}

	// Scan A and look up B
	var entries []uint64
	for entry := range a.All() {
		if entry < theta {
			_, err := table.Find(entry)
			if err != nil && err == ErrKeyNotFound {
				entries = append(entries, entry)
			}
		} else if a.IsOrdered() {
			break // Early stop
		}
	}

	return entries, nil
}
