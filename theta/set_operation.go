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

// MatchPolicy decides what happens to the retained hash when Union or
// Intersection discovers that an incoming hash already has a matching entry
// in the accumulator. Plain theta sketches carry no payload beyond the hash
// itself, so a match is always the same 64-bit value on both sides; the hook
// exists so a caller building tuple-style semantics on top of this package
// can plug in a policy that resolves auxiliary state instead of just the
// hash (e.g. summing counters, keeping the most recent observation).
type MatchPolicy interface {
	// Resolve is called with a pointer to the entry already held by the
	// accumulator and the matching value from the incoming sketch, and
	// decides what the accumulator's entry should become.
	Resolve(kept *uint64, incoming uint64)
}

// keepFirstPolicy is the default MatchPolicy: since a match means the two
// hashes are identical, there is nothing to resolve.
type keepFirstPolicy struct{}

func (*keepFirstPolicy) Resolve(kept *uint64, incoming uint64) {}

// replaceWithIncomingPolicy overwrites the accumulator's entry with the
// incoming value on every match. For bare hash entries this is a no-op
// (the values are equal by definition of "match"), but it gives callers
// composing this package with a payload-carrying wrapper a ready-made
// "last write wins" policy instead of having to write their own.
type replaceWithIncomingPolicy struct{}

func (*replaceWithIncomingPolicy) Resolve(kept *uint64, incoming uint64) {
	*kept = incoming
}
