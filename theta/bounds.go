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

import "github.com/cardinalitylab/thetasketch/bounds"

// Estimator supplies the confidence-interval statistics behind every
// sketch's LowerBound/UpperBound methods. It defaults to a normal
// approximation and can be swapped out package-wide, e.g. in tests that
// want to assert against a fixed, simplified bound.
var Estimator bounds.Estimator = bounds.NormalApproximation{}

func estimateLowerBound(numRetained uint32, isEstimationMode bool, theta float64, numStdDevs uint8) (float64, error) {
	if !isEstimationMode {
		return float64(numRetained), nil
	}
	return Estimator.LowerBound(uint64(numRetained), theta, uint(numStdDevs))
}

func estimateUpperBound(numRetained uint32, isEstimationMode bool, theta float64, numStdDevs uint8) (float64, error) {
	if !isEstimationMode {
		return float64(numRetained), nil
	}
	return Estimator.UpperBound(uint64(numRetained), theta, uint(numStdDevs))
}
