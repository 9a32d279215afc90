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
	"encoding/binary"
	"math"

	"github.com/cardinalitylab/thetasketch/internal"
)

const updateSketchPreLongs uint8 = 3

// marshalHashtable serializes the full mutable state of a table-backed update
// sketch: the raw hash table array in storage order (including empty and
// dirty slots), not just the retained entries. This lets a decoded sketch
// resume taking updates, unlike a compact sketch's image. Shared by both the
// QuickSelect and Alpha variants, which differ only in the family byte.
func marshalHashtable(t *Hashtable, family uint8, seedHash uint16) []byte {
	arrSize := 1 << t.lgCurSize
	out := make([]byte, 24+8*arrSize)

	out[0] = updateSketchPreLongs | uint8(t.rf)<<6
	out[1] = UncompressedSerialVersion
	out[2] = family
	out[3] = t.lgNomSize
	out[4] = t.lgCurSize

	flags := byte(0)
	if t.isEmpty {
		flags |= 1 << serializationFlagIsEmpty
	}
	out[5] = flags

	binary.LittleEndian.PutUint16(out[6:8], seedHash)
	binary.LittleEndian.PutUint32(out[8:12], t.numEntries)
	binary.LittleEndian.PutUint32(out[12:16], math.Float32bits(t.p))
	binary.LittleEndian.PutUint64(out[16:24], t.theta)

	for i, entry := range t.entries {
		binary.LittleEndian.PutUint64(out[24+i*8:32+i*8], entry)
	}

	return out
}

// unmarshalHashtable is the inverse of marshalHashtable, validating that the
// image's family byte matches what the caller expects.
func unmarshalHashtable(data []byte, family uint8, seed uint64) (*Hashtable, error) {
	if err := validateMemorySize(data, 24); err != nil {
		return nil, err
	}
	if err := CheckSerialVersionEqual(data[1], UncompressedSerialVersion); err != nil {
		return nil, err
	}
	if err := CheckSketchFamilyEqual(data[2], family); err != nil {
		return nil, err
	}

	lgNomSize := data[3]
	lgCurSize := data[4]
	isEmpty := data[5]&(1<<serializationFlagIsEmpty) != 0

	seedHash := binary.LittleEndian.Uint16(data[6:8])
	expectedSeedHash, err := internal.ComputeSeedHash(int64(seed))
	if err != nil {
		return nil, err
	}
	if err := CheckSeedHashEqual(seedHash, uint16(expectedSeedHash)); err != nil {
		return nil, err
	}

	numEntries := binary.LittleEndian.Uint32(data[8:12])
	p := math.Float32frombits(binary.LittleEndian.Uint32(data[12:16]))
	theta := binary.LittleEndian.Uint64(data[16:24])

	arrSize := 1 << lgCurSize
	if err := validateMemorySize(data, 24+8*arrSize); err != nil {
		return nil, err
	}

	entries := make([]uint64, arrSize)
	for i := range entries {
		entries[i] = binary.LittleEndian.Uint64(data[24+i*8 : 32+i*8])
	}

	rf := ResizeFactor(data[0] >> 6)

	return &Hashtable{
		entries:    entries,
		theta:      theta,
		seed:       seed,
		numEntries: numEntries,
		p:          p,
		lgCurSize:  lgCurSize,
		lgNomSize:  lgNomSize,
		rf:         rf,
		isEmpty:    isEmpty,
	}, nil
}

// MarshalBinary serializes the full mutable state of the sketch, including
// the raw hash table array, so a decoded sketch can resume taking updates.
func (s *QuickSelectUpdateSketch) MarshalBinary() ([]byte, error) {
	seedHash, err := s.SeedHash()
	if err != nil {
		return nil, err
	}
	return marshalHashtable(s.table, FamilyQuickSelect, seedHash), nil
}

// DecodeUpdateSketch deserializes a QuickSelectUpdateSketch image produced by MarshalBinary,
// resuming it in its exact pre-serialization state.
func DecodeUpdateSketch(data []byte, seed uint64) (*QuickSelectUpdateSketch, error) {
	table, err := unmarshalHashtable(data, FamilyQuickSelect, seed)
	if err != nil {
		return nil, err
	}
	return &QuickSelectUpdateSketch{table: table}, nil
}
