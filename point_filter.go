package sector

import (
	"sync"

	"github.com/RoaringBitmap/roaring"
)

// PointFilter provides efficient point index filtering for spatial search.
// It uses roaring bitmaps for fast membership testing during search operations.
type PointFilter struct {
	bitmap *roaring.Bitmap
}

// pointFilterPool is a sync.Pool for PointFilter to reduce allocations
var pointFilterPool = sync.Pool{
	New: func() interface{} {
		return &PointFilter{
			bitmap: roaring.New(),
		}
	},
}

// NewPointFilter creates a new filter from a list of point indices.
// If the index list is empty, returns nil (no filtering).
// The filter should be returned to the pool using ReturnPointFilter when done.
func NewPointFilter(indices []int) *PointFilter {
	if len(indices) == 0 {
		return nil
	}

	filter := pointFilterPool.Get().(*PointFilter)
	filter.bitmap.Clear() // Reset bitmap from pool

	for _, index := range indices {
		if index < 0 {
			continue
		}
		filter.bitmap.Add(uint32(index))
	}

	return filter
}

// ReturnPointFilter returns a filter to the pool for reuse.
// This should be called after the filter is no longer needed to reduce allocations.
// Do not use the filter after calling this method.
func ReturnPointFilter(filter *PointFilter) {
	if filter != nil {
		pointFilterPool.Put(filter)
	}
}

// IsEligible checks if a point index is eligible for search results.
// If filter is nil, all points are eligible.
// Otherwise, checks if the index exists in the filter bitmap.
func (f *PointFilter) IsEligible(index int) bool {
	if f == nil {
		return true
	}
	if index < 0 {
		return false
	}
	return f.bitmap.Contains(uint32(index))
}

// ShouldSkip returns true if the point should be skipped (not eligible).
// This is a convenience method for use in loops with continue statements.
func (f *PointFilter) ShouldSkip(index int) bool {
	return !f.IsEligible(index)
}

// Count returns the number of eligible points.
// Returns 0 if filter is nil (meaning all points are eligible).
func (f *PointFilter) Count() uint64 {
	if f == nil {
		return 0 // All points eligible, no specific count
	}
	return f.bitmap.GetCardinality()
}

// IsEmpty returns true if no points are eligible.
// Returns false if filter is nil (all points eligible).
func (f *PointFilter) IsEmpty() bool {
	if f == nil {
		return false
	}
	return f.bitmap.IsEmpty()
}
