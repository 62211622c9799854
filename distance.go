package sector

import (
	"errors"
	"math"
)

// ErrUnknownDistanceKind is returned when an unknown distance kind is provided to NewDistance.
var ErrUnknownDistanceKind = errors.New("unknown distance kind")

// DistanceKind represents the distance metric used for point comparisons.
// The library is built around exact Euclidean geometry: the k-d tree's
// pruning bound (distance from a query to a splitting hyperplane) is only
// valid for metrics where per-axis distance lower-bounds full distance,
// which is what Euclidean gives us.
type DistanceKind string

const (
	// Euclidean (L2) distance measures the straight-line distance between two points.
	// Formula: sqrt(sum((a[i] - b[i])^2))
	Euclidean DistanceKind = "l2"
)

// Singleton instance of the distance strategy.
// Stateless and safe for concurrent use across goroutines.
var euclideanDistanceImpl = euclidean{}

// Distance is the interface for computing distances between points.
type Distance interface {
	// Calculate computes the distance between two points a and b.
	// The points must have the same dimensionality.
	// Returns a float32 representing the distance (lower values = closer).
	Calculate(a, b []float32) float32

	// CalculateBatch computes distances from multiple query points to a single
	// target point. More efficient than calling Calculate in a loop when a
	// caller already holds a batch of queries.
	//
	// Returns a slice of distances where result[i] is the distance from
	// queries[i] to target. All points must share the same dimensionality.
	CalculateBatch(queries [][]float32, target []float32) []float32

	// AxisDistance computes the distance between two points along a single
	// axis, i.e. |a[axis] - b[axis]|. This is the distance from a query to
	// the splitting hyperplane of a tree node and is the quantity every
	// branch-and-bound pruning decision compares against.
	AxisDistance(a, b []float32, axis int) float32
}

// NewDistance returns a singleton Distance implementation for the specified metric type.
// The returned instance is stateless and safe for concurrent use across goroutines.
// Returns ErrUnknownDistanceKind if the distance kind is not recognized.
//
// Example:
//
//	dist, err := NewDistance(Euclidean)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	d := dist.Calculate([]float32{1, 2, 3}, []float32{4, 5, 6})
func NewDistance(t DistanceKind) (Distance, error) {
	switch t {
	case Euclidean:
		return euclideanDistanceImpl, nil
	default:
		return nil, ErrUnknownDistanceKind
	}
}

// euclidean implements the Distance interface using Euclidean (L2) distance.
type euclidean struct{}

// Calculate computes the Euclidean (L2) distance between two points.
// Formula: sqrt(sum((a[i] - b[i])^2))
// Time complexity: O(d) where d is the point dimension
func (e euclidean) Calculate(a, b []float32) float32 {
	var sum float32
	for i := range a {
		diff := a[i] - b[i]
		sum += diff * diff
	}
	return float32(math.Sqrt(float64(sum)))
}

func (e euclidean) CalculateBatch(queries [][]float32, target []float32) []float32 {
	results := make([]float32, len(queries))
	for i, query := range queries {
		var sum float32
		for j := range query {
			diff := query[j] - target[j]
			sum += diff * diff
		}
		results[i] = float32(math.Sqrt(float64(sum)))
	}
	return results
}

func (e euclidean) AxisDistance(a, b []float32, axis int) float32 {
	diff := a[axis] - b[axis]
	if diff < 0 {
		return -diff
	}
	return diff
}

// Norm computes the L2 norm (Euclidean length) of a point treated as a
// vector from the origin.
//
// Example:
//
//	v := []float32{3, 4}
//	length := Norm(v)  // Returns 5.0
func Norm(v []float32) float32 {
	var sum float32
	for _, x := range v {
		sum += x * x
	}
	return float32(math.Sqrt(float64(sum)))
}
