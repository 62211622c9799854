package sector

// SpatialIndexKind represents the type of indexing strategy used for spatial search.
// Different index types offer different tradeoffs between build cost and query speed.
type SpatialIndexKind string

var (
	// KDTreeIndexKind partitions points with a balanced k-d tree built by
	// recursive median splits. Queries are branch-and-bound traversals that
	// prune subtrees which provably cannot improve the current answer.
	KDTreeIndexKind SpatialIndexKind = "kdtree"

	// FlatIndexKind performs exhaustive search by comparing the query against
	// every stored point. Always exact, O(n) per query.
	FlatIndexKind SpatialIndexKind = "flat"
)

// SpatialResult represents a single search hit. Index is the position of the
// point in the slice passed to Build; it is the stable identifier for that
// point until the next Build or Clear.
type SpatialResult struct {
	Index    int
	Distance float32
}

// SpatialSearch encapsulates the search context for a spatial index.
//
// A search runs in one of two modes:
//   - k-nearest mode (default): the k closest points, ascending by distance.
//   - radius mode (WithRadius): every point strictly closer than the radius,
//     in traversal order.
type SpatialSearch interface {
	// WithQuery sets the query point(s) - supports single or batch queries
	WithQuery(queries ...[]float32) SpatialSearch

	// WithPoint sets stored point index(es) to search from - supports single or batch
	WithPoint(indices ...int) SpatialSearch

	// WithK sets the number of results to return per query.
	// k <= 0 yields an empty result set.
	WithK(k int) SpatialSearch

	// WithRadius switches the search to radius mode: every point whose
	// distance to the query is strictly less than radius is returned,
	// in traversal order.
	WithRadius(radius float32) SpatialSearch

	// WithPointIDs restricts results to the given point indices (optional)
	WithPointIDs(indices ...int) SpatialSearch

	// WithAutocut applies knee-detection truncation to k-nearest results.
	// cutoff is the number of score extrema to pass before cutting;
	// -1 (the default) disables autocut.
	WithAutocut(cutoff int) SpatialSearch

	// WithScoreAggregation sets the strategy used to merge results when the
	// same point is returned by more than one query in a batch search.
	WithScoreAggregation(kind ScoreAggregationKind) SpatialSearch

	// Execute the search and return the results
	Execute() ([]SpatialResult, error)
}

// SpatialIndex is the interface for a static spatial index.
//
// An index is a snapshot structure: Build consumes a full point set and
// replaces whatever the index held before. There is no incremental insert
// or delete; rebuild to change the contents.
type SpatialIndex interface {
	// Build indexes a snapshot of the given points, fully replacing any
	// previously built state. Points are copied; the caller's slices are
	// not retained. An empty (or nil) point set builds an empty index.
	Build(points [][]float32) error

	// Clear releases the tree and the point snapshot, returning the index
	// to its empty state.
	Clear()

	// Len returns the number of indexed points.
	Len() int

	// NewSearch creates a new search builder
	NewSearch() SpatialSearch

	// Dimensions returns the dimensionality of points stored in this index
	Dimensions() int

	// DistanceKind returns the distance metric used for similarity measurement
	DistanceKind() DistanceKind

	// Kind returns the type of spatial index
	Kind() SpatialIndexKind
}
