package bounds

import (
	"math"

	"github.com/cardinalitylab/thetasketch/internal/binomialproportionsbounds"
)

// RatioBounds computes a confidence interval for the ratio successCount/totalCount,
// treating totalCount as the number of independent trials and successCount as the
// number of observed successes (a binomial-proportion model). This is the shape
// needed to bound a Jaccard-similarity ratio |A∩B|/|A∪B|: each of the totalCount
// union entries independently "succeeds" by also landing in the intersection.
func RatioBounds(successCount, totalCount uint32, numStdDevs float64) (lower, estimate, upper float64, err error) {
	if totalCount == 0 {
		return 0, 0, 0, nil
	}

	n := uint64(totalCount)
	k := uint64(successCount)

	lower, err = binomialproportionsbounds.ApproximateLowerBoundOnP(n, k, numStdDevs)
	if err != nil {
		return 0, 0, 0, err
	}
	upper, err = binomialproportionsbounds.ApproximateUpperBoundOnP(n, k, numStdDevs)
	if err != nil {
		return 0, 0, 0, err
	}
	estimate = float64(k) / float64(n)

	return clamp01(lower), clamp01(estimate), clamp01(upper), nil
}

func clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}
