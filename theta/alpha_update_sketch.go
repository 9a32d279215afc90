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
	"strings"

	"github.com/cardinalitylab/thetasketch/internal"
)

// MinAlphaLgK is the smallest lgNomLongs the Alpha variant will accept. Alpha's
// improved-variance bias profile is only sound at this scale or larger.
const MinAlphaLgK uint8 = 9

// AlphaUpdateSketch is an update Theta sketch that trades QuickSelect's hard
// rebuild-to-exact-k cutoff for a continuously decremented theta: once the
// table has taken its (k+1)-th distinct entry, every further insert multiplies
// theta by k/(k+1). This gives better variance at the cost of allowing stored
// entries to go "dirty" (theta drops below a hash that was valid when stored)
// between rebuilds.
type AlphaUpdateSketch struct {
	table        *Hashtable
	inSketchMode bool
}

// NewAlphaUpdateSketch creates a new Alpha update sketch with the given options.
func NewAlphaUpdateSketch(opts ...UpdateSketchOptionFunc) (*AlphaUpdateSketch, error) {
	options := &updateSketchOptions{
		lgK:  DefaultLgK,
		rf:   DefaultResizeFactor,
		p:    1.0,
		seed: DefaultSeed,
	}
	for _, opt := range opts {
		opt(options)
	}

	if options.lgK < MinAlphaLgK {
		return nil, fmt.Errorf("alpha variant requires lg_k >= %d: %d", MinAlphaLgK, options.lgK)
	}
	if options.lgK > MaxLgK {
		return nil, fmt.Errorf("lg_k must not be greater than %d: %d", MaxLgK, options.lgK)
	}
	if options.p <= 0 || options.p > 1 {
		return nil, fmt.Errorf("sampling probability must be between 0 and 1")
	}

	options.lgCurSize = startingSubMultiple(options.lgK+1, MinLgArrLongs, uint8(options.rf))
	options.theta = startingThetaFromP(options.p)

	return &AlphaUpdateSketch{
		table: NewHashtable(
			options.lgCurSize, options.lgK, options.rf, options.p, options.theta, options.seed, true,
		),
	}, nil
}

// IsEmpty returns true if this sketch represents an empty set
// (not the same as no retained entries!)
func (s *AlphaUpdateSketch) IsEmpty() bool {
	return s.table.isEmpty
}

// IsOrdered returns true if retained entries are ordered
func (s *AlphaUpdateSketch) IsOrdered() bool {
	return s.NumRetained() <= 1
}

// Theta64 returns theta as a positive integer between 0 and math.MaxInt64
func (s *AlphaUpdateSketch) Theta64() uint64 {
	if s.IsEmpty() {
		return MaxTheta
	}
	return s.table.theta
}

// Theta returns theta as a fraction from 0 to 1 (effective sampling rate)
func (s *AlphaUpdateSketch) Theta() float64 {
	return float64(s.Theta64()) / float64(MaxTheta)
}

// NumRawRetained returns the raw number of non-zero slots in the hash table,
// which may include dirty entries (hash >= theta) that a rebuild has not yet
// evicted. This is getRetainedEntries(valid=false).
func (s *AlphaUpdateSketch) NumRawRetained() uint32 {
	return s.table.numEntries
}

// NumRetained returns the number of valid retained entries, rescanning the
// table to exclude dirty slots. This is getRetainedEntries(valid=true), and is
// what Estimate/LowerBound/UpperBound rely on.
func (s *AlphaUpdateSketch) NumRetained() uint32 {
	theta := s.table.theta
	count := uint32(0)
	for _, entry := range s.table.entries {
		if entry != 0 && entry < theta {
			count++
		}
	}
	return count
}

// SeedHash returns hash of the seed that was used to hash the input
func (s *AlphaUpdateSketch) SeedHash() (uint16, error) {
	seedHash, err := internal.ComputeSeedHash(int64(s.table.seed))
	if err != nil {
		return 0, err
	}
	return uint16(seedHash), nil
}

// Estimate returns estimate of the distinct count of the input stream
func (s *AlphaUpdateSketch) Estimate() float64 {
	return float64(s.NumRetained()) / s.Theta()
}

// LowerBound returns the approximate lower error bound given a number of standard deviations.
func (s *AlphaUpdateSketch) LowerBound(numStdDevs uint8) (float64, error) {
	return estimateLowerBound(s.NumRetained(), s.IsEstimationMode(), s.Theta(), numStdDevs)
}

// UpperBound returns the approximate upper error bound given a number of standard deviations.
func (s *AlphaUpdateSketch) UpperBound(numStdDevs uint8) (float64, error) {
	return estimateUpperBound(s.NumRetained(), s.IsEstimationMode(), s.Theta(), numStdDevs)
}

// IsEstimationMode returns true if the sketch is in estimation mode
// (as opposed to exact mode)
func (s *AlphaUpdateSketch) IsEstimationMode() bool {
	return s.Theta64() < MaxTheta && !s.IsEmpty()
}

// LgK returns configured nominal number of entries in the sketch
func (s *AlphaUpdateSketch) LgK() uint8 {
	return s.table.lgNomSize
}

// ResizeFactor returns a configured resize factor of the sketch
func (s *AlphaUpdateSketch) ResizeFactor() ResizeFactor {
	return s.table.rf
}

// String returns a human-readable summary of this sketch as a string.
func (s *AlphaUpdateSketch) String(shouldPrintItems bool) string {
	seedHash, _ := s.SeedHash()
	lb, _ := s.LowerBound(2)
	ub, _ := s.UpperBound(2)

	var result strings.Builder
	result.WriteString("### Alpha theta sketch summary:\n")
	result.WriteString(fmt.Sprintf("   num valid entries    : %d\n", s.NumRetained()))
	result.WriteString(fmt.Sprintf("   num raw entries      : %d\n", s.NumRawRetained()))
	result.WriteString(fmt.Sprintf("   in sketch mode?      : %t\n", s.inSketchMode))
	result.WriteString(fmt.Sprintf("   seed hash            : %d\n", seedHash))
	result.WriteString(fmt.Sprintf("   empty?               : %t\n", s.IsEmpty()))
	result.WriteString(fmt.Sprintf("   estimation mode?     : %t\n", s.IsEstimationMode()))
	result.WriteString(fmt.Sprintf("   theta (fraction)     : %f\n", s.Theta()))
	result.WriteString(fmt.Sprintf("   estimate             : %f\n", s.Estimate()))
	result.WriteString(fmt.Sprintf("   lower bound 95%% conf : %f\n", lb))
	result.WriteString(fmt.Sprintf("   upper bound 95%% conf : %f\n", ub))
	result.WriteString("### End sketch summary\n")

	if shouldPrintItems {
		result.WriteString("### Retained entries\n")
		for hash := range s.All() {
			result.WriteString(fmt.Sprintf("%d\n", hash))
		}
		result.WriteString("### End retained entries\n")
	}

	return result.String()
}

// insert admits an already-screened hash into the table, returning
// ErrDuplicateKey if it is already present, and applies the Alpha theta-decrement policy described in SPEC_FULL.md.
func (s *AlphaUpdateSketch) insert(hash uint64) error {
	index, err := s.table.Find(hash)
	if err == nil {
		return ErrDuplicateKey
	}
	if err != ErrKeyNotFound {
		return err
	}

	s.table.entries[index] = hash
	s.table.numEntries++

	k := uint32(1) << s.table.lgNomSize
	if !s.inSketchMode && s.table.numEntries > k {
		s.inSketchMode = true
	}

	if s.inSketchMode {
		alpha := float64(k) / float64(k+1)
		newTheta := uint64(float64(s.table.theta) * alpha)
		if newTheta == 0 {
			newTheta = 1
		}
		s.table.theta = newTheta
	}

	if s.table.numEntries > computeCapacity(s.table.lgCurSize, s.table.lgNomSize) {
		if s.table.lgCurSize <= s.table.lgNomSize {
			s.table.resize()
		} else {
			before := s.table.numEntries
			s.rebuildDirty()
			if s.table.numEntries >= before {
				// Rebuilding the dirty cache did not shrink it: force a
				// size-increasing rebuild to recover (rare lockup case).
				s.table.resize()
			}
		}
	}

	return nil
}

// rebuildDirty evicts dirty entries (hash >= theta) from the table in place,
// leaving only valid entries behind.
func (s *AlphaUpdateSketch) rebuildDirty() {
	t := s.table
	size := 1 << t.lgCurSize
	newEntries := make([]uint64, size)
	count := uint32(0)
	for _, entry := range t.entries {
		if entry != 0 && entry < t.theta {
			idx, _ := find(newEntries, t.lgCurSize, entry)
			newEntries[idx] = entry
			count++
		}
	}
	t.entries = newEntries
	t.numEntries = count
}

// UpdateUint64 updates this sketch with a given unsigned 64-bit integer.
func (s *AlphaUpdateSketch) UpdateUint64(value uint64) error {
	return s.UpdateInt64(int64(value))
}

// UpdateInt64 updates this sketch with a given signed 64-bit integer.
func (s *AlphaUpdateSketch) UpdateInt64(value int64) error {
	hash, err := s.table.HashInt64AndScreen(value)
	if err != nil {
		return err
	}
	return s.insert(hash)
}

// UpdateUint32 updates this sketch with a given unsigned 32-bit integer.
func (s *AlphaUpdateSketch) UpdateUint32(value uint32) error {
	return s.UpdateInt64(int64(value))
}

// UpdateInt32 updates this sketch with a given signed 32-bit integer.
func (s *AlphaUpdateSketch) UpdateInt32(value int32) error {
	hash, err := s.table.HashInt32AndScreen(value)
	if err != nil {
		return err
	}
	return s.insert(hash)
}

// UpdateString updates this sketch with a given string.
func (s *AlphaUpdateSketch) UpdateString(value string) error {
	if value == "" {
		return ErrUpdateEmptyString
	}
	hash, err := s.table.HashStringAndScreen(value)
	if err != nil {
		return err
	}
	return s.insert(hash)
}

// UpdateBytes updates this sketch with given data.
func (s *AlphaUpdateSketch) UpdateBytes(data []byte) error {
	hash, err := s.table.HashBytesAndScreen(data)
	if err != nil {
		return err
	}
	return s.insert(hash)
}

// Trim evicts every dirty entry (hash >= theta) when the raw entry count
// exceeds the nominal size k; it does not cut the table down to exactly k.
func (s *AlphaUpdateSketch) Trim() {
	if s.table.numEntries > uint32(1<<s.table.lgNomSize) {
		s.rebuildDirty()
	}
}

// Reset resets the sketch to the initial empty state.
func (s *AlphaUpdateSketch) Reset() {
	s.table.Reset()
	s.inSketchMode = false
}

// All returns an iterator over valid hash values in this sketch, skipping
// any slot that has gone dirty since it was last rebuilt.
func (s *AlphaUpdateSketch) All() iter.Seq[uint64] {
	theta := s.table.theta
	return func(yield func(uint64) bool) {
		for _, entry := range s.table.entries {
			if entry != 0 && entry < theta {
				if !yield(entry) {
					return
				}
			}
		}
	}
}

// Compact converts this sketch to its immutable compact form.
func (s *AlphaUpdateSketch) Compact(ordered bool) *CompactSketch {
	return NewCompactSketch(s, ordered)
}

// CompactOrdered converts this sketch to its immutable, ordered compact form.
func (s *AlphaUpdateSketch) CompactOrdered() *CompactSketch {
	return s.Compact(true)
}
