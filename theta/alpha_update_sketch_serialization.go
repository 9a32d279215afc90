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

// MarshalBinary serializes the full mutable state of the sketch, including
// the raw hash table array (which may hold dirty entries), so a decoded
// sketch can resume taking updates.
func (s *AlphaUpdateSketch) MarshalBinary() ([]byte, error) {
	seedHash, err := s.SeedHash()
	if err != nil {
		return nil, err
	}
	return marshalHashtable(s.table, FamilyAlpha, seedHash), nil
}

// DecodeAlphaUpdateSketch deserializes an AlphaUpdateSketch image produced by
// MarshalBinary. The sketch-mode flag isn't carried on the wire; it's
// recovered from whether theta has already drifted below its initial,
// p-derived value, which is the only way theta ever moves for this variant.
func DecodeAlphaUpdateSketch(data []byte, seed uint64) (*AlphaUpdateSketch, error) {
	table, err := unmarshalHashtable(data, FamilyAlpha, seed)
	if err != nil {
		return nil, err
	}

	k := uint32(1) << table.lgNomSize
	inSketchMode := table.theta != startingThetaFromP(table.p) || table.numEntries > k

	return &AlphaUpdateSketch{
		table:        table,
		inSketchMode: inSketchMode,
	}, nil
}
