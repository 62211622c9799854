package sector

import (
	"fmt"
	"sort"
)

// Compile-time checks to ensure flatIndexSearch implements SpatialSearch
var _ SpatialSearch = (*flatIndexSearch)(nil)

// flatIndexSearch implements the SpatialSearch interface for the flat index.
//
// Both modes are single passes over the snapshot:
//  1. Compute the distance from the query to every stored point
//  2. k-nearest mode: stable-sort ascending and keep the first k
//     radius mode: keep every point strictly inside the radius, in index order
//
// Equal distances keep ascending index order, since that is the scan order.
type flatIndexSearch struct {
	index           *FlatIndex
	queries         [][]float32
	pointIndices    []int
	k               int
	radius          float32
	filterIndices   []int
	cutoff          int
	aggregationKind ScoreAggregationKind
}

// WithQuery sets the query point(s) - supports single or batch queries
func (s *flatIndexSearch) WithQuery(queries ...[]float32) SpatialSearch {
	s.queries = queries
	s.pointIndices = nil // Clear point-based search
	return s
}

// WithPoint sets stored point index(es) to search from - supports single or batch
func (s *flatIndexSearch) WithPoint(indices ...int) SpatialSearch {
	s.pointIndices = indices
	s.queries = nil // Clear query-based search
	return s
}

// WithK sets the number of results to return per query.
// Defaults to 10 if not set; k <= 0 yields an empty result set.
func (s *flatIndexSearch) WithK(k int) SpatialSearch {
	s.k = k
	return s
}

// WithRadius switches the search to radius mode: every point strictly closer
// than radius is returned, in index order. A negative radius restores
// k-nearest mode.
func (s *flatIndexSearch) WithRadius(radius float32) SpatialSearch {
	s.radius = radius
	return s
}

// WithPointIDs restricts results to the given point indices (optional)
func (s *flatIndexSearch) WithPointIDs(indices ...int) SpatialSearch {
	s.filterIndices = indices
	return s
}

// WithAutocut applies knee-detection truncation to k-nearest results.
// No-op in radius mode.
func (s *flatIndexSearch) WithAutocut(cutoff int) SpatialSearch {
	s.cutoff = cutoff
	return s
}

// WithScoreAggregation sets the strategy for merging results when the same
// point is returned by more than one query in a batch search.
func (s *flatIndexSearch) WithScoreAggregation(kind ScoreAggregationKind) SpatialSearch {
	s.aggregationKind = kind
	return s
}

// Execute performs the configured search and returns results.
func (s *flatIndexSearch) Execute() ([]SpatialResult, error) {
	if len(s.queries) > 0 && len(s.pointIndices) > 0 {
		return nil, fmt.Errorf("cannot specify both queries and point indices")
	}
	if len(s.queries) == 0 && len(s.pointIndices) == 0 {
		return nil, fmt.Errorf("must specify either queries or point indices")
	}

	s.index.mu.RLock()
	defer s.index.mu.RUnlock()

	queries, err := resolveQueries(s.index.store, s.index.dim, s.queries, s.pointIndices)
	if err != nil {
		return nil, err
	}

	filter := NewPointFilter(s.filterIndices)
	defer ReturnPointFilter(filter)

	var allResults []SpatialResult
	for _, query := range queries {
		var results []SpatialResult
		if s.radius >= 0 {
			results = s.scanRadius(query, s.radius, filter)
		} else {
			results = s.scanNearest(query, s.k, filter)
		}
		allResults = append(allResults, results...)
	}

	return finishSearch(allResults, len(queries), s.radius, s.k, s.cutoff, s.aggregationKind)
}

// scanNearest is the exhaustive k-nearest pass. Callers hold the read lock.
func (s *flatIndexSearch) scanNearest(query []float32, k int, filter *PointFilter) []SpatialResult {
	n := s.index.store.Len()
	if k <= 0 || n == 0 {
		return nil
	}

	results := make([]SpatialResult, 0, n)
	buf := make([]float32, s.index.dim)
	for i := 0; i < n; i++ {
		if filter.ShouldSkip(i) {
			continue
		}
		dist := s.index.distance.Calculate(query, s.index.store.At(i, buf))
		results = append(results, SpatialResult{Index: i, Distance: dist})
	}

	// Stable keeps equal distances in ascending index order.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Distance < results[j].Distance
	})

	return limitResults(results, k)
}

// scanRadius is the exhaustive radius pass. Callers hold the read lock.
func (s *flatIndexSearch) scanRadius(query []float32, radius float32, filter *PointFilter) []SpatialResult {
	n := s.index.store.Len()

	var results []SpatialResult
	buf := make([]float32, s.index.dim)
	for i := 0; i < n; i++ {
		if filter.ShouldSkip(i) {
			continue
		}
		dist := s.index.distance.Calculate(query, s.index.store.At(i, buf))
		if dist < radius {
			results = append(results, SpatialResult{Index: i, Distance: dist})
		}
	}

	return results
}
