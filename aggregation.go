package sector

import (
	"fmt"
	"sort"
)

// ScoreAggregationKind defines the type of score aggregation strategy.
type ScoreAggregationKind string

const (
	// SumAggregation sums all distances for the same point
	SumAggregation ScoreAggregationKind = "sum"

	// MaxAggregation takes the maximum distance for the same point
	MaxAggregation ScoreAggregationKind = "max"

	// MeanAggregation averages all distances for the same point
	MeanAggregation ScoreAggregationKind = "mean"
)

// ScoreAggregation defines how to merge results when the same point appears
// in the result lists of several queries of a batch search.
//
// A batch search concatenates per-query results, so a point close to more
// than one query shows up once per query with a different distance. The
// aggregation strategy deduplicates by point index, combines the distances,
// and re-sorts.
//
// Distances rank lower = better, so results come back ascending.
type ScoreAggregation interface {
	// Kind returns the kind of aggregation strategy
	Kind() ScoreAggregationKind

	// Aggregate deduplicates results by point index, combines the distances
	// of each unique point, and returns the deduplicated results sorted by
	// combined distance (ascending, ties by point index).
	Aggregate(results []SpatialResult) []SpatialResult
}

// Singleton aggregation instances; stateless and safe for concurrent use.
var (
	sumAgg  = &sumAggregation{}
	maxAgg  = &maxAggregation{}
	meanAgg = &meanAggregation{}
)

// NewScoreAggregation returns the singleton aggregation instance for the given kind.
// Returns an error if the kind is not recognized.
func NewScoreAggregation(kind ScoreAggregationKind) (ScoreAggregation, error) {
	switch kind {
	case SumAggregation:
		return sumAgg, nil
	case MaxAggregation:
		return maxAgg, nil
	case MeanAggregation:
		return meanAgg, nil
	default:
		return nil, fmt.Errorf("unknown aggregation kind: %s", kind)
	}
}

// DefaultScoreAggregation returns the default aggregation strategy (Sum).
func DefaultScoreAggregation() ScoreAggregation {
	return sumAgg
}

// collectScores groups the distances of each unique point index,
// preserving nothing about order - the caller re-sorts.
func collectScores(results []SpatialResult) map[int][]float32 {
	scores := make(map[int][]float32)
	for _, r := range results {
		scores[r.Index] = append(scores[r.Index], r.Distance)
	}
	return scores
}

// sortAggregated orders results ascending by distance, breaking ties by
// point index so batch searches stay deterministic across runs.
func sortAggregated(results []SpatialResult) []SpatialResult {
	sort.Slice(results, func(i, j int) bool {
		if results[i].Distance != results[j].Distance {
			return results[i].Distance < results[j].Distance
		}
		return results[i].Index < results[j].Index
	})
	return results
}

// sumAggregation sums all distances for the same point.
//
// Use case: emphasize points that are close to the whole query batch at
// once; a point missing from one query's result list accumulates nothing
// for it and naturally ranks behind points seen by every query.
type sumAggregation struct{}

func (s *sumAggregation) Kind() ScoreAggregationKind {
	return SumAggregation
}

func (s *sumAggregation) Aggregate(results []SpatialResult) []SpatialResult {
	if len(results) == 0 {
		return results
	}

	aggregated := make([]SpatialResult, 0, len(results))
	for index, scores := range collectScores(results) {
		sum := float32(0)
		for _, score := range scores {
			sum += score
		}
		aggregated = append(aggregated, SpatialResult{Index: index, Distance: sum})
	}

	return sortAggregated(aggregated)
}

// maxAggregation takes the maximum (worst) distance for the same point.
//
// Use case: conservative ranking by worst case - only points close to ALL
// queries of the batch rank well.
type maxAggregation struct{}

func (m *maxAggregation) Kind() ScoreAggregationKind {
	return MaxAggregation
}

func (m *maxAggregation) Aggregate(results []SpatialResult) []SpatialResult {
	if len(results) == 0 {
		return results
	}

	aggregated := make([]SpatialResult, 0, len(results))
	for index, scores := range collectScores(results) {
		max := scores[0]
		for _, score := range scores[1:] {
			if score > max {
				max = score
			}
		}
		aggregated = append(aggregated, SpatialResult{Index: index, Distance: max})
	}

	return sortAggregated(aggregated)
}

// meanAggregation averages all distances for the same point.
//
// Use case: balanced ranking that weighs every query of the batch equally.
type meanAggregation struct{}

func (a *meanAggregation) Kind() ScoreAggregationKind {
	return MeanAggregation
}

func (a *meanAggregation) Aggregate(results []SpatialResult) []SpatialResult {
	if len(results) == 0 {
		return results
	}

	aggregated := make([]SpatialResult, 0, len(results))
	for index, scores := range collectScores(results) {
		sum := float32(0)
		for _, score := range scores {
			sum += score
		}
		aggregated = append(aggregated, SpatialResult{Index: index, Distance: sum / float32(len(scores))})
	}

	return sortAggregated(aggregated)
}
