package sector

// sanitizeK clamps k to [0, maxResults].
//
// k <= 0 clamps to 0: "no results" is an explicit contract here, not a
// request for everything. k beyond maxResults clamps down to maxResults.
func sanitizeK(k, maxResults int) int {
	if k <= 0 {
		return 0
	}
	if k > maxResults {
		return maxResults
	}
	return k
}

// limitResults applies k-limiting to a result slice.
//
// Usage:
//
//	return limitResults(results, requestedK)
func limitResults(results []SpatialResult, k int) []SpatialResult {
	k = sanitizeK(k, len(results))
	return results[:k]
}

// autocutResults applies the autocut algorithm to an ascending-distance
// result slice to find a natural cutoff point.
//
// Parameters:
//   - results: slice of SpatialResult to analyze
//   - cutoff: number of extrema to find before cutting (-1 disables autocut)
//
// Returns the sliced results up to the autocut point. If cutoff is -1,
// returns results unchanged (no-op).
func autocutResults(results []SpatialResult, cutoff int) []SpatialResult {
	// No-op if cutoff is -1 or no results
	if cutoff == -1 || len(results) == 0 {
		return results
	}

	scores := make([]float32, len(results))
	for i, result := range results {
		scores[i] = result.Distance
	}

	cutIndex := Autocut(scores, cutoff)

	return results[:cutIndex]
}

// Autocut determines the optimal cutoff point in a score distribution.
//
// It analyzes the normalized difference between actual scores and an ideal
// linear distribution to find local maxima (extrema), and returns the index
// before the Nth extremum where N is the cutOff parameter. The idea: a sharp
// jump in distance marks the boundary between "actually close" results and
// the long tail.
//
// Parameters:
//   - yValues: slice of score values (distances, ascending)
//   - cutOff: number of extrema to encounter before cutting
//
// Returns the index at which to cut the results.
func Autocut(yValues []float32, cutOff int) int {
	if len(yValues) <= 1 {
		return len(yValues)
	}

	diff := make([]float32, len(yValues))
	step := 1. / (float32(len(yValues)) - 1.)

	for i := range yValues {
		xValue := 0. + float32(i)*step
		yValueNorm := (yValues[i] - yValues[0]) / (yValues[len(yValues)-1] - yValues[0])
		diff[i] = yValueNorm - xValue
	}

	extremaCount := 0
	for i := range diff {
		if i == 0 {
			continue // we want the index _before_ the extrema
		}

		if i == len(diff)-1 && len(diff) > 1 { // for last element there is no "next" point
			if diff[i] > diff[i-1] && diff[i] > diff[i-2] {
				extremaCount += 1
				if extremaCount >= cutOff {
					return i
				}
			}
		} else {
			if diff[i] > diff[i-1] && diff[i] > diff[i+1] {
				extremaCount += 1
				if extremaCount >= cutOff {
					return i
				}
			}
		}
	}
	return len(yValues)
}
