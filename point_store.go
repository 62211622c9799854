package sector

import (
	"fmt"
	"math"

	"github.com/x448/float16"
)

// StorePrecision represents the storage precision of a point snapshot.
type StorePrecision string

const (
	// FullPrecision stores coordinates as 32-bit floats (4 bytes each).
	// This is the default and keeps queries bit-exact with the input data.
	FullPrecision StorePrecision = "float32"

	// HalfPrecision stores coordinates as IEEE 754 half floats (2 bytes each),
	// halving snapshot memory at the cost of ~3 decimal digits of precision.
	// Queries are exact with respect to the rounded coordinates.
	HalfPrecision StorePrecision = "float16"

	// Int8Precision stores coordinates as 8-bit integers (1 byte each) using
	// a min/max scale learned from the snapshot at load time. Greatest
	// compression, coarsest rounding.
	Int8Precision StorePrecision = "int8"
)

// PointStore holds the immutable point snapshot an index is built over.
//
// A store is loaded exactly once per Build and read many times per query, so
// the interface is shaped for cheap coordinate reads: At decodes a whole
// point into a caller-owned scratch buffer, Coordinate decodes a single
// axis value without touching the rest of the point.
//
// Implementations are not synchronized; the owning index serializes Load and
// Clear against reads.
type PointStore interface {
	// Load replaces the store contents with a snapshot of the given points.
	// All points must share the store's dimensionality; the caller is
	// responsible for validating that before loading.
	Load(points [][]float32)

	// Clear drops the snapshot.
	Clear()

	// Len returns the number of stored points.
	Len() int

	// Dim returns the dimensionality of stored points.
	Dim() int

	// At decodes point i into dst and returns it. dst must have length Dim.
	// Full-precision stores may return an internal slice instead of filling
	// dst; callers must treat the result as read-only either way.
	At(i int, dst []float32) []float32

	// Coordinate returns the value of point i along the given axis.
	Coordinate(i, axis int) float32

	// Precision returns the storage precision of this store.
	Precision() StorePrecision
}

// NewPointStore creates a point store of the given precision and dimensionality.
func NewPointStore(precision StorePrecision, dim int) (PointStore, error) {
	switch precision {
	case FullPrecision:
		return &fullPrecisionStore{dim: dim}, nil
	case HalfPrecision:
		return &halfPrecisionStore{dim: dim}, nil
	case Int8Precision:
		return &int8Store{dim: dim}, nil
	default:
		return nil, fmt.Errorf("unsupported store precision: %s", precision)
	}
}

// fullPrecisionStore keeps coordinates as float32 in one contiguous slice.
type fullPrecisionStore struct {
	dim  int
	data []float32
}

func (s *fullPrecisionStore) Load(points [][]float32) {
	s.data = make([]float32, 0, len(points)*s.dim)
	for _, p := range points {
		s.data = append(s.data, p...)
	}
}

func (s *fullPrecisionStore) Clear()   { s.data = nil }
func (s *fullPrecisionStore) Len() int { return len(s.data) / maxInt(s.dim, 1) }
func (s *fullPrecisionStore) Dim() int { return s.dim }

func (s *fullPrecisionStore) At(i int, dst []float32) []float32 {
	return s.data[i*s.dim : (i+1)*s.dim]
}

func (s *fullPrecisionStore) Coordinate(i, axis int) float32 {
	return s.data[i*s.dim+axis]
}

func (s *fullPrecisionStore) Precision() StorePrecision { return FullPrecision }

// halfPrecisionStore keeps coordinates as float16 bit patterns.
//
// Memory: 2 bytes per coordinate (50% savings vs float32)
// Accuracy: IEEE 754 half precision (1 sign, 5 exp, 10 mantissa bits)
type halfPrecisionStore struct {
	dim  int
	data []uint16
}

func (s *halfPrecisionStore) Load(points [][]float32) {
	s.data = make([]uint16, 0, len(points)*s.dim)
	for _, p := range points {
		for _, v := range p {
			s.data = append(s.data, float16.Fromfloat32(v).Bits())
		}
	}
}

func (s *halfPrecisionStore) Clear()   { s.data = nil }
func (s *halfPrecisionStore) Len() int { return len(s.data) / maxInt(s.dim, 1) }
func (s *halfPrecisionStore) Dim() int { return s.dim }

func (s *halfPrecisionStore) At(i int, dst []float32) []float32 {
	base := i * s.dim
	for j := 0; j < s.dim; j++ {
		dst[j] = float16.Frombits(s.data[base+j]).Float32()
	}
	return dst
}

func (s *halfPrecisionStore) Coordinate(i, axis int) float32 {
	return float16.Frombits(s.data[i*s.dim+axis]).Float32()
}

func (s *halfPrecisionStore) Precision() StorePrecision { return HalfPrecision }

// int8Store keeps coordinates as 8-bit integers under a min/max scale
// learned from the snapshot during Load.
//
// Memory: 1 byte per coordinate (75% savings vs float32)
// Accuracy: 256 levels across the [min, max] coordinate range
type int8Store struct {
	dim   int
	data  []int8
	min   float32
	scale float32
}

func (s *int8Store) Load(points [][]float32) {
	// Learn the global coordinate range first.
	min := float32(math.Inf(1))
	max := float32(math.Inf(-1))
	for _, p := range points {
		for _, v := range p {
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
	}

	s.min = min
	s.scale = (max - min) / 255
	if len(points) == 0 {
		s.min = 0
		s.scale = 0
	}

	s.data = make([]int8, 0, len(points)*s.dim)
	for _, p := range points {
		for _, v := range p {
			s.data = append(s.data, s.quantize(v))
		}
	}
}

func (s *int8Store) quantize(v float32) int8 {
	if s.scale == 0 {
		// Degenerate range: every coordinate equals min.
		return -128
	}
	q := int(math.Round(float64((v-s.min)/s.scale))) - 128
	if q < -128 {
		q = -128
	} else if q > 127 {
		q = 127
	}
	return int8(q)
}

func (s *int8Store) dequantize(q int8) float32 {
	return float32(int(q)+128)*s.scale + s.min
}

func (s *int8Store) Clear() {
	s.data = nil
	s.min = 0
	s.scale = 0
}

func (s *int8Store) Len() int { return len(s.data) / maxInt(s.dim, 1) }
func (s *int8Store) Dim() int { return s.dim }

func (s *int8Store) At(i int, dst []float32) []float32 {
	base := i * s.dim
	for j := 0; j < s.dim; j++ {
		dst[j] = s.dequantize(s.data[base+j])
	}
	return dst
}

func (s *int8Store) Coordinate(i, axis int) float32 {
	return s.dequantize(s.data[i*s.dim+axis])
}

func (s *int8Store) Precision() StorePrecision { return Int8Precision }

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
