// WHAT IS A K-D TREE?
// A k-d tree is a binary tree that partitions points by cycling through
// coordinate axes: the node at depth d splits its subtree on axis d mod D by
// the median point along that axis. Everything in the left subtree sits at or
// below the split value on that axis, everything in the right subtree at or
// above it.
//
// HOW BUILD WORKS:
// Build keeps a mutable array of point indices and recursively:
// 1. Picks the split axis from the current depth (depth mod D)
// 2. Moves the median-by-axis index to the middle of the range with a
//    linear-time selection (quickselect, not a full sort)
// 3. Creates a node for the median and recurses on the two halves
//
// Because the split is by element count rather than by coordinate value, the
// tree depth is O(log n) regardless of point ordering or duplicates.
//
// TIME COMPLEXITY:
//   - Build: O(n log n) expected (linear selection per level, log n levels)
//   - Nearest-neighbor / k-nearest / radius query: O(log n) for well-spread
//     low-dimensional data, degrading toward O(n) as dimensionality grows
//
// GUARANTEES & TRADE-OFFS:
// ✓ Pros:
//   - Exact results - branch-and-bound pruning never skips a viable subtree
//   - Balanced by construction, predictable recursion depth
//   - No training phase beyond the build itself
//
// ✗ Cons:
//   - Static: changing the point set means rebuilding
//   - Pruning loses its bite in high dimensions (use FlatIndex to compare)
//
// WHEN TO USE:
// Use the k-d tree for low-dimensional spatial data (2D/3D coordinates,
// small feature spaces) that is built once and queried many times.

package sector

import (
	"errors"
	"fmt"
	"sync"
)

// ErrEmptyIndex is returned by NearestNeighbor when the index holds no points.
var ErrEmptyIndex = errors.New("index is empty")

// Compile-time checks to ensure KDTreeIndex implements SpatialIndex
var _ SpatialIndex = (*KDTreeIndex)(nil)

// kdNode is a single tree node. It references a point by its position in the
// point store and owns its child subtrees outright; nodes are never shared
// between subtrees, so releasing the root releases the whole tree.
type kdNode struct {
	index int // position of the point in the store
	axis  int // split dimension, depth mod D
	left  *kdNode
	right *kdNode
}

// KDTreeIndex is a static, exact spatial index over a fixed-dimension point set.
//
// The index has two observable states: empty (no Build yet, after Clear, or
// built from an empty point set) and built. Build is the only transition and
// fully replaces prior contents; queries are valid in both states.
//
// Thread-safety: guarded by a read-write mutex. Queries run concurrently
// with each other; Build and Clear take the write lock.
type KDTreeIndex struct {
	// dim is the dimensionality of points stored in this index.
	// Every built point and every query must have exactly this many coordinates.
	dim int

	// distanceKind specifies the distance function used for similarity measurement.
	distanceKind DistanceKind

	// distance is the actual distance calculator
	distance Distance

	// store holds the immutable point snapshot taken by the last Build.
	// Query results are indices into this snapshot.
	store PointStore

	// root of the tree; nil while the index is empty.
	root *kdNode

	mu sync.RWMutex
}

// NewKDTreeIndex creates an empty k-d tree index with the specified
// dimensionality and distance metric, storing points at full precision.
//
// Returns an error if dim <= 0 or the distance kind is invalid.
//
// Example:
//
//	idx, err := NewKDTreeIndex(3, Euclidean)
//	if err != nil { log.Fatal(err) }
//	if err := idx.Build(points); err != nil { log.Fatal(err) }
func NewKDTreeIndex(dim int, distanceKind DistanceKind) (*KDTreeIndex, error) {
	return NewKDTreeIndexWithPrecision(dim, distanceKind, FullPrecision)
}

// NewKDTreeIndexWithPrecision creates an empty k-d tree index whose point
// snapshot is stored at the given precision. HalfPrecision and Int8Precision
// trade coordinate accuracy for a smaller snapshot; queries stay exact with
// respect to the rounded coordinates actually stored.
func NewKDTreeIndexWithPrecision(dim int, distanceKind DistanceKind, precision StorePrecision) (*KDTreeIndex, error) {
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

	return &KDTreeIndex{
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
// unchanged. An empty (or nil) slice builds an empty index.
//
// Time Complexity: O(n log n) expected
func (idx *KDTreeIndex) Build(points [][]float32) error {
	for i, p := range points {
		if len(p) != idx.dim {
			return fmt.Errorf("point %d dimension mismatch: expected %d, got %d", i, idx.dim, len(p))
		}
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	// Discard prior state before constructing the new snapshot.
	idx.root = nil
	idx.store.Load(points)

	indices := make([]int, len(points))
	for i := range indices {
		indices[i] = i
	}

	idx.root = idx.buildRecursive(indices, 0)
	return nil
}

// Clear releases the tree and the point snapshot, returning the index to its
// empty state.
func (idx *KDTreeIndex) Clear() {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.root = nil
	idx.store.Clear()
}

// buildRecursive builds the subtree over the given index range at the given
// depth. The range is partitioned in place around its median-by-axis element.
func (idx *KDTreeIndex) buildRecursive(indices []int, depth int) *kdNode {
	n := len(indices)
	if n <= 0 {
		return nil
	}

	axis := depth % idx.dim
	mid := (n - 1) / 2

	idx.selectByAxis(indices, mid, axis)

	node := &kdNode{
		index: indices[mid],
		axis:  axis,
	}
	node.left = idx.buildRecursive(indices[:mid], depth+1)
	node.right = idx.buildRecursive(indices[mid+1:], depth+1)

	return node
}

// selectByAxis partially orders indices so that the element at position kth
// is where a full sort by axis coordinate would put it, with every element
// before it <= and every element after it >= on that axis. Expected linear
// time (quickselect with three-way partitioning, which also handles
// duplicate coordinates without degenerating).
func (idx *KDTreeIndex) selectByAxis(indices []int, kth, axis int) {
	coord := func(i int) float32 {
		return idx.store.Coordinate(indices[i], axis)
	}

	lo, hi := 0, len(indices) // half-open window containing kth
	for hi-lo > 1 {
		// Median-of-three pivot guards against already-ordered input.
		mid := lo + (hi-lo)/2
		pivot := medianOfThree(coord(lo), coord(mid), coord(hi-1))

		// Three-way partition: [lo,lt) < pivot, [lt,gt) == pivot, [gt,hi) > pivot.
		lt, gt := lo, hi
		for i := lo; i < gt; {
			c := coord(i)
			switch {
			case c < pivot:
				indices[i], indices[lt] = indices[lt], indices[i]
				lt++
				i++
			case c > pivot:
				gt--
				indices[i], indices[gt] = indices[gt], indices[i]
			default:
				i++
			}
		}

		switch {
		case kth < lt:
			hi = lt
		case kth >= gt:
			lo = gt
		default:
			return // kth landed inside the == pivot run
		}
	}
}

func medianOfThree(a, b, c float32) float32 {
	if a > b {
		a, b = b, a
	}
	if b > c {
		b = c
	}
	if a > b {
		b = a
	}
	return b
}

// Validate checks the split invariant at every node: a left child must not
// exceed its parent on the parent's split axis, a right child must not fall
// below it. Each present child is checked against its immediate parent;
// median partitioning makes the invariant transitive, so local checks
// suffice. Intended as a self-test aid, not part of any query path.
func (idx *KDTreeIndex) Validate() bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.validateRecursive(idx.root)
}

func (idx *KDTreeIndex) validateRecursive(node *kdNode) bool {
	if node == nil {
		return true
	}

	v := idx.store.Coordinate(node.index, node.axis)
	if node.left != nil && idx.store.Coordinate(node.left.index, node.axis) > v {
		return false
	}
	if node.right != nil && idx.store.Coordinate(node.right.index, node.axis) < v {
		return false
	}

	return idx.validateRecursive(node.left) && idx.validateRecursive(node.right)
}

// NearestNeighbor returns the index of the stored point closest to query,
// together with the distance to it.
//
// Returns ErrEmptyIndex when the index holds no points, and an error when
// the query dimensionality does not match the index.
func (idx *KDTreeIndex) NearestNeighbor(query []float32) (int, float32, error) {
	if len(query) != idx.dim {
		return -1, 0, fmt.Errorf("query dimension mismatch: expected %d, got %d", idx.dim, len(query))
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if idx.root == nil {
		return -1, 0, ErrEmptyIndex
	}

	best := SpatialResult{Index: -1, Distance: infDistance}
	idx.nnRecursive(query, idx.root, &best, make([]float32, idx.dim))

	return best.Index, best.Distance, nil
}

// Len returns the number of indexed points.
func (idx *KDTreeIndex) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.store.Len()
}

// NewSearch creates a new search builder for this index.
func (idx *KDTreeIndex) NewSearch() SpatialSearch {
	return &kdtreeIndexSearch{
		index:           idx,
		k:               defaultK,
		cutoff:          -1, // Default no autocut
		radius:          -1, // Default k-nearest mode
		aggregationKind: SumAggregation,
	}
}

// Dimensions returns the dimensionality of points stored in this index.
func (idx *KDTreeIndex) Dimensions() int {
	return idx.dim
}

// DistanceKind returns the distance metric used by this index.
func (idx *KDTreeIndex) DistanceKind() DistanceKind {
	return idx.distanceKind
}

// Kind returns the type of this index. Always KDTreeIndexKind.
func (idx *KDTreeIndex) Kind() SpatialIndexKind {
	return KDTreeIndexKind
}

// StorePrecision returns the storage precision of the point snapshot.
func (idx *KDTreeIndex) StorePrecision() StorePrecision {
	return idx.store.Precision()
}
