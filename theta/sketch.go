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
)

// Cardinality is the subset of a sketch's behavior concerned with answering
// "how many distinct items": a point estimate plus the confidence interval
// around it. It is split out of Sketch so code that only ever reports an
// estimate (a metrics exporter, say) can depend on the narrower contract.
type Cardinality interface {
	// Estimate returns estimate of the distinct count of the input stream
	Estimate() float64

	// LowerBound returns the approximate lower error bound given a number of standard deviations.
	// This parameter is similar to the number of standard deviations of the normal distribution
	// and corresponds to approximately 67%, 95% and 99% confidence intervals.
	// numStdDevs number of Standard Deviations (1, 2 or 3)
	LowerBound(numStdDevs uint8) (float64, error)

	// UpperBound returns the approximate upper error bound given a number of standard deviations.
	// This parameter is similar to the number of standard deviations of the normal distribution
	// and corresponds to approximately 67%, 95% and 99% confidence intervals.
	// numStdDevs number of Standard Deviations (1, 2 or 3)
	UpperBound(numStdDevs uint8) (float64, error)

	// IsEstimationMode returns true if the sketch is in estimation mode
	// (as opposed to exact mode)
	IsEstimationMode() bool
}

// Summary describes a sketch's internal sampling state: what fraction of
// the hash space it still admits, how many entries it kept to get there,
// and enough identity/ordering metadata for set operations and
// serialization to trust its retained entries.
type Summary interface {
	// IsEmpty returns true if this sketch represents an empty set
	// (not the same as no retained entries!)
	IsEmpty() bool

	// Theta returns theta as a fraction from 0 to 1 (effective sampling rate)
	Theta() float64

	// Theta64 returns theta as a positive integer between 0 and math.MaxInt64
	Theta64() uint64

	// NumRetained returns the number of retained entries in the sketch
	NumRetained() uint32

	// SeedHash returns hash of the seed that was used to hash the input
	SeedHash() (uint16, error)

	// IsOrdered returns true if retained entries are ordered
	IsOrdered() bool
}

// Sketch is a generalization of the Kth Minimum Value (KMV) sketch, and is
// the common contract implemented by every concrete variant this package
// ships: update sketches (QuickSelect, Alpha) and compact sketches alike.
type Sketch interface {
	Cardinality
	Summary

	// String returns a human-readable summary of this sketch as a string
	// If shouldPrintItems is true, include the list of items retained by the sketch
	String(shouldPrintItems bool) string

	// All returns hash values in the sketch.
	All() iter.Seq[uint64]
}

// describeSummary renders the "### Theta sketch summary" block shared by
// every concrete Sketch's String() method. floatVerb lets a caller match its
// own pre-existing output exactly ("f" or "g") rather than forcing a single
// format on every implementation. extraLines are inserted after the common
// fields and before the closing marker, for fields specific to one variant
// (an update sketch's current/nominal table size, for example).
func describeSummary(sk Sketch, floatVerb string, extraLines []string, shouldPrintItems bool) string {
	seedHash, _ := sk.SeedHash()
	lb, _ := sk.LowerBound(2)
	ub, _ := sk.UpperBound(2)
	floatFmt := "%" + floatVerb

	var result strings.Builder
	result.WriteString("### Theta sketch summary:\n")
	fmt.Fprintf(&result, "   num retained entries : %d\n", sk.NumRetained())
	fmt.Fprintf(&result, "   seed hash            : %d\n", seedHash)
	fmt.Fprintf(&result, "   empty?               : %t\n", sk.IsEmpty())
	fmt.Fprintf(&result, "   ordered?             : %t\n", sk.IsOrdered())
	fmt.Fprintf(&result, "   estimation mode?     : %t\n", sk.IsEstimationMode())
	fmt.Fprintf(&result, "   theta (fraction)     : "+floatFmt+"\n", sk.Theta())
	fmt.Fprintf(&result, "   theta (raw 64-bit)   : %d\n", sk.Theta64())
	fmt.Fprintf(&result, "   estimate             : "+floatFmt+"\n", sk.Estimate())
	fmt.Fprintf(&result, "   lower bound 95%% conf : "+floatFmt+"\n", lb)
	fmt.Fprintf(&result, "   upper bound 95%% conf : "+floatFmt+"\n", ub)

	for _, line := range extraLines {
		result.WriteString(line)
		result.WriteString("\n")
	}
	result.WriteString("### End sketch summary\n")

	if shouldPrintItems {
		result.WriteString("### Retained entries\n")
		for entry := range sk.All() {
			fmt.Fprintf(&result, "%d\n", entry)
		}
		result.WriteString("### End retained entries\n")
	}

	return result.String()
}
