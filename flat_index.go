// WHAT IS A FLAT INDEX?
// A flat index is the exhaustive counterpart to the k-d tree: points are
// stored as-is and every query compares against all of them. No partitioning,
// no pruning, no way to be wrong.
//
// TIME COMPLEXITY:
//   - Build: O(n) - copying the snapshot is the whole job
//   - Search: O(n*d) per query, where n = points and d = dimensionality
//
// WHEN TO USE:
// Use the flat index for small point sets, for high-dimensional data where
// k-d tree pruning stops paying for itself, or as the ground-truth oracle
// when checking another index.

package sector

import (
	"fmt"
	"sync"
)

// Compile-time checks to ensure FlatIndex implements SpatialIndex
var _ SpatialIndex = (*FlatIndex)(nil)

// FlatIndex is a static brute-force spatial index.
//
// It shares the snapshot lifecycle of KDTreeIndex: Build replaces the whole
// point set, queries return indices into the most recent snapshot, Clear
// empties the index.
//
// Thread-safety: guarded by a read-write mutex. Queries run concurrently
// with each other; Build and Clear take the write lock.
type FlatIndex struct {
	// dim is the dimensionality of points stored in this index.
	dim int

	// distanceKind specifies the distance function used for similarity measurement.
	distanceKind DistanceKind

	// distance is the actual distance calculator
	distance Distance

	// store holds the immutable point snapshot taken by the last Build.
	store PointStore

	mu sync.RWMutex
}

// NewFlatIndex creates an empty flat index with the specified dimensionality
// and distance metric, storing points at full precision.
//
// Returns an error if dim <= 0 or the distance kind is invalid.
func NewFlatIndex(dim int, distanceKind DistanceKind) (*FlatIndex, error) {
	return NewFlatIndexWithPrecision(dim, distanceKind, FullPrecision)
}

// NewFlatIndexWithPrecision creates an empty flat index whose point snapshot
// is stored at the given precision.
func NewFlatIndexWithPrecision(dim int, distanceKind DistanceKind, precision StorePrecision) (*FlatIndex, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("dimension must be positive")
	}

	distance, err := NewDistance(distanceKind)
	if err != nil {
		return nil, err
	}

	store, err := NewPointStore(precision, dim)
	if err != nil {
		return nil, err
	}

	return &FlatIndex{
		dim:          dim,
		distanceKind: distanceKind,
		distance:     distance,
		store:        store,
	}, nil
}

// Build indexes a snapshot of the given points, fully replacing any
// previously built state. Point i of the slice becomes result index i.
//
// The points are validated first; on a dimension mismatch the index is left
// unchanged.
func (idx *FlatIndex) Build(points [][]float32) error {
	for i, p := range points {
		if len(p) != idx.dim {
			return fmt.Errorf("point %d dimension mismatch: expected %d, got %d", i, idx.dim, len(p))
		}
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.store.Load(points)
	return nil
}

// Clear releases the point snapshot, returning the index to its empty state.
func (idx *FlatIndex) Clear() {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.store.Clear()
}

// NearestNeighbor returns the index of the stored point closest to query,
// together with the distance to it. When several points tie for closest,
// the lowest index wins.
//
// Returns ErrEmptyIndex when the index holds no points, and an error when
// the query dimensionality does not match the index.
func (idx *FlatIndex) NearestNeighbor(query []float32) (int, float32, error) {
	if len(query) != idx.dim {
		return -1, 0, fmt.Errorf("query dimension mismatch: expected %d, got %d", idx.dim, len(query))
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	n := idx.store.Len()
	if n == 0 {
		return -1, 0, ErrEmptyIndex
	}

	best := SpatialResult{Index: -1, Distance: infDistance}
	buf := make([]float32, idx.dim)
	for i := 0; i < n; i++ {
		dist := idx.distance.Calculate(query, idx.store.At(i, buf))
		if dist < best.Distance {
			best.Index = i
			best.Distance = dist
		}
	}

	return best.Index, best.Distance, nil
}

// Len returns the number of indexed points.
func (idx *FlatIndex) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.store.Len()
}

// NewSearch creates a new search builder for this index.
func (idx *FlatIndex) NewSearch() SpatialSearch {
	return &flatIndexSearch{
		index:           idx,
		k:               defaultK,
		cutoff:          -1, // Default no autocut
		radius:          -1, // Default k-nearest mode
		aggregationKind: SumAggregation,
	}
}

// Dimensions returns the dimensionality of points stored in this index.
func (idx *FlatIndex) Dimensions() int {
	return idx.dim
}

// DistanceKind returns the distance metric used by this index.
func (idx *FlatIndex) DistanceKind() DistanceKind {
	return idx.distanceKind
}

// Kind returns the type of this index. Always FlatIndexKind.
func (idx *FlatIndex) Kind() SpatialIndexKind {
	return FlatIndexKind
}

// StorePrecision returns the storage precision of the point snapshot.
func (idx *FlatIndex) StorePrecision() StorePrecision {
	return idx.store.Precision()
}
