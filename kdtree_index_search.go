package sector

import (
	"fmt"
	"math"
)

// defaultK is the number of results a k-nearest search returns when the
// caller never sets one explicitly.
const defaultK = 10

// infDistance initializes "no result yet" running bests.
var infDistance = float32(math.Inf(1))

// Compile-time checks to ensure kdtreeIndexSearch implements SpatialSearch
var _ SpatialSearch = (*kdtreeIndexSearch)(nil)

// kdtreeIndexSearch implements the SpatialSearch interface for the k-d tree index.
//
// Every query mode runs the same branch-and-bound traversal: descend into the
// child on the query's side of the splitting hyperplane first, then visit the
// far child only if the hyperplane is closer than the current pruning bound
// (the running worst retained distance in k-nearest mode, the fixed radius in
// radius mode). Visiting the near side first tightens the bound early, which
// is what makes the pruning effective.
type kdtreeIndexSearch struct {
	index           *KDTreeIndex
	queries         [][]float32
	pointIndices    []int
	k               int
	radius          float32
	filterIndices   []int
	cutoff          int
	aggregationKind ScoreAggregationKind
}

// WithQuery sets the query point(s) - supports single or batch queries
func (s *kdtreeIndexSearch) WithQuery(queries ...[]float32) SpatialSearch {
	s.queries = queries
	s.pointIndices = nil // Clear point-based search
	return s
}

// WithPoint sets stored point index(es) to search from - supports single or batch
func (s *kdtreeIndexSearch) WithPoint(indices ...int) SpatialSearch {
	s.pointIndices = indices
	s.queries = nil // Clear query-based search
	return s
}

// WithK sets the number of results to return per query.
// Defaults to 10 if not set; k <= 0 yields an empty result set.
func (s *kdtreeIndexSearch) WithK(k int) SpatialSearch {
	s.k = k
	return s
}

// WithRadius switches the search to radius mode: every point strictly closer
// than radius is returned, in traversal order. A negative radius restores
// k-nearest mode.
func (s *kdtreeIndexSearch) WithRadius(radius float32) SpatialSearch {
	s.radius = radius
	return s
}

// WithPointIDs restricts results to the given point indices (optional)
func (s *kdtreeIndexSearch) WithPointIDs(indices ...int) SpatialSearch {
	s.filterIndices = indices
	return s
}

// WithAutocut applies knee-detection truncation to k-nearest results.
// No-op in radius mode, where results are unordered.
func (s *kdtreeIndexSearch) WithAutocut(cutoff int) SpatialSearch {
	s.cutoff = cutoff
	return s
}

// WithScoreAggregation sets the strategy for merging results when the same
// point is returned by more than one query in a batch search.
func (s *kdtreeIndexSearch) WithScoreAggregation(kind ScoreAggregationKind) SpatialSearch {
	s.aggregationKind = kind
	return s
}

// Execute performs the configured search and returns results.
//
// In k-nearest mode results are ascending by distance; equal distances keep
// the order the traversal visited them in. In radius mode results come back
// in traversal order. An empty index yields an empty result set.
func (s *kdtreeIndexSearch) Execute() ([]SpatialResult, error) {
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
	buf := make([]float32, s.index.dim)
	for _, query := range queries {
		var results []SpatialResult
		if s.radius >= 0 {
			results = s.index.rangeSearch(query, s.radius, filter, buf)
		} else {
			results = s.index.knnSearch(query, s.k, filter, buf)
		}
		allResults = append(allResults, results...)
	}

	return finishSearch(allResults, len(queries), s.radius, s.k, s.cutoff, s.aggregationKind)
}

// resolveQueries validates query dimensionality and materializes point-based
// queries into coordinate slices. Callers hold the index read lock.
func resolveQueries(store PointStore, dim int, queries [][]float32, pointIndices []int) ([][]float32, error) {
	if len(pointIndices) > 0 {
		resolved := make([][]float32, 0, len(pointIndices))
		n := store.Len()
		for _, pi := range pointIndices {
			if pi < 0 || pi >= n {
				return nil, fmt.Errorf("point index %d out of range [0, %d)", pi, n)
			}
			point := make([]float32, dim)
			decoded := store.At(pi, point)
			copy(point, decoded)
			resolved = append(resolved, point)
		}
		return resolved, nil
	}

	for i, q := range queries {
		if len(q) != dim {
			return nil, fmt.Errorf("query %d dimension mismatch: expected %d, got %d", i, dim, len(q))
		}
	}
	return queries, nil
}

// finishSearch applies the shared post-processing for batch aggregation,
// k-limiting and autocut. radius < 0 means k-nearest mode.
func finishSearch(results []SpatialResult, queryCount int, radius float32, k, cutoff int, aggregationKind ScoreAggregationKind) ([]SpatialResult, error) {
	if queryCount > 1 {
		agg, err := NewScoreAggregation(aggregationKind)
		if err != nil {
			return nil, err
		}
		results = agg.Aggregate(results)
		if radius < 0 {
			results = limitResults(results, k)
		}
	}

	if radius < 0 {
		results = autocutResults(results, cutoff)
	}
	return results, nil
}

// knnSearch runs a k-nearest traversal. Callers hold the read lock; buf is a
// dim-sized scratch buffer for decoding stored points.
func (idx *KDTreeIndex) knnSearch(query []float32, k int, filter *PointFilter, buf []float32) []SpatialResult {
	if k <= 0 || idx.root == nil {
		return nil
	}

	queue := newCandidateQueue(k)
	idx.knnRecursive(query, idx.root, queue, filter, buf)

	results := make([]SpatialResult, queue.size())
	copy(results, queue.results())
	return results
}

// rangeSearch runs a radius traversal, collecting every point strictly
// closer than radius in traversal order.
func (idx *KDTreeIndex) rangeSearch(query []float32, radius float32, filter *PointFilter, buf []float32) []SpatialResult {
	var results []SpatialResult
	idx.rangeRecursive(query, idx.root, radius, filter, &results, buf)
	return results
}

// nnRecursive is the single-best traversal behind NearestNeighbor.
//
// The running best distance is the pruning bound: the far child is visited
// only while the splitting hyperplane is strictly closer than the best, so a
// pruned subtree provably contains no closer point.
func (idx *KDTreeIndex) nnRecursive(query []float32, node *kdNode, best *SpatialResult, buf []float32) {
	if node == nil {
		return
	}

	point := idx.store.At(node.index, buf)

	dist := idx.distance.Calculate(query, point)
	if dist < best.Distance {
		best.Index = node.index
		best.Distance = dist
	}

	// buf is reused by the recursive calls below; take what we need from the
	// decoded point first.
	planeDist := idx.distance.AxisDistance(query, point, node.axis)
	near, far := node.left, node.right
	if query[node.axis] >= point[node.axis] {
		near, far = far, near
	}

	idx.nnRecursive(query, near, best, buf)

	if planeDist < best.Distance {
		idx.nnRecursive(query, far, best, buf)
	}
}

// knnRecursive is the k-nearest traversal. Every visited, filter-eligible
// point is offered to the bounded queue; the far child is visited while the
// queue is not yet full or the hyperplane is strictly closer than the worst
// retained distance.
func (idx *KDTreeIndex) knnRecursive(query []float32, node *kdNode, queue *candidateQueue, filter *PointFilter, buf []float32) {
	if node == nil {
		return
	}

	point := idx.store.At(node.index, buf)

	if filter.IsEligible(node.index) {
		dist := idx.distance.Calculate(query, point)
		queue.push(SpatialResult{Index: node.index, Distance: dist})
	}

	planeDist := idx.distance.AxisDistance(query, point, node.axis)
	near, far := node.left, node.right
	if query[node.axis] >= point[node.axis] {
		near, far = far, near
	}

	idx.knnRecursive(query, near, queue, filter, buf)

	if !queue.full() || planeDist < queue.worst() {
		idx.knnRecursive(query, far, queue, filter, buf)
	}
}

// rangeRecursive is the radius traversal. The fixed radius plays the role of
// the pruning bound.
func (idx *KDTreeIndex) rangeRecursive(query []float32, node *kdNode, radius float32, filter *PointFilter, results *[]SpatialResult, buf []float32) {
	if node == nil {
		return
	}

	point := idx.store.At(node.index, buf)

	dist := idx.distance.Calculate(query, point)
	if dist < radius && filter.IsEligible(node.index) {
		*results = append(*results, SpatialResult{Index: node.index, Distance: dist})
	}

	planeDist := idx.distance.AxisDistance(query, point, node.axis)
	near, far := node.left, node.right
	if query[node.axis] >= point[node.axis] {
		near, far = far, near
	}

	idx.rangeRecursive(query, near, radius, filter, results, buf)

	if planeDist < radius {
		idx.rangeRecursive(query, far, radius, filter, results, buf)
	}
}
