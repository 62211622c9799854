package sector

import (
	"math/rand"
	"testing"
)

// randomPoints generates n points of the given dimensionality with
// coordinates in [-50, 50).
func randomPoints(rng *rand.Rand, n, dim int) [][]float32 {
	points := make([][]float32, n)
	for i := range points {
		p := make([]float32, dim)
		for j := range p {
			p[j] = rng.Float32()*100 - 50
		}
		points[i] = p
	}
	return points
}

func TestNewKDTreeIndex(t *testing.T) {
	tests := []struct {
		name         string
		dim          int
		distanceKind DistanceKind
		wantErr      bool
	}{
		{
			name:         "valid 2D index",
			dim:          2,
			distanceKind: Euclidean,
		},
		{
			name:         "valid high-dimensional index",
			dim:          128,
			distanceKind: Euclidean,
		},
		{
			name:         "zero dimension",
			dim:          0,
			distanceKind: Euclidean,
			wantErr:      true,
		},
		{
			name:         "negative dimension",
			dim:          -3,
			distanceKind: Euclidean,
			wantErr:      true,
		},
		{
			name:         "invalid distance kind",
			dim:          2,
			distanceKind: "cosine",
			wantErr:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, err := NewKDTreeIndex(tt.dim, tt.distanceKind)
			if tt.wantErr {
				if err == nil {
					t.Fatal("NewKDTreeIndex() expected error but got none")
				}
				return
			}

			if err != nil {
				t.Fatalf("NewKDTreeIndex() unexpected error: %v", err)
			}
			if idx == nil {
				t.Fatal("NewKDTreeIndex() returned nil")
			}
			if idx.Dimensions() != tt.dim {
				t.Errorf("Dimensions() = %d, want %d", idx.Dimensions(), tt.dim)
			}
			if idx.DistanceKind() != tt.distanceKind {
				t.Errorf("DistanceKind() = %v, want %v", idx.DistanceKind(), tt.distanceKind)
			}
			if idx.Kind() != KDTreeIndexKind {
				t.Errorf("Kind() = %v, want %v", idx.Kind(), KDTreeIndexKind)
			}
			if idx.StorePrecision() != FullPrecision {
				t.Errorf("StorePrecision() = %v, want %v", idx.StorePrecision(), FullPrecision)
			}
			if idx.Len() != 0 {
				t.Errorf("Len() on fresh index = %d, want 0", idx.Len())
			}
		})
	}
}

func TestNewKDTreeIndexWithPrecision(t *testing.T) {
	for _, precision := range []StorePrecision{FullPrecision, HalfPrecision, Int8Precision} {
		t.Run(string(precision), func(t *testing.T) {
			idx, err := NewKDTreeIndexWithPrecision(3, Euclidean, precision)
			if err != nil {
				t.Fatalf("NewKDTreeIndexWithPrecision() error: %v", err)
			}
			if idx.StorePrecision() != precision {
				t.Errorf("StorePrecision() = %v, want %v", idx.StorePrecision(), precision)
			}
		})
	}

	t.Run("unsupported precision", func(t *testing.T) {
		if _, err := NewKDTreeIndexWithPrecision(3, Euclidean, "float64"); err == nil {
			t.Fatal("expected error for unsupported precision")
		}
	})
}

func TestKDTreeIndexBuildValidate(t *testing.T) {
	tests := []struct {
		name string
		dim  int
		n    int
	}{
		{name: "empty set", dim: 2, n: 0},
		{name: "single point", dim: 2, n: 1},
		{name: "two points", dim: 2, n: 2},
		{name: "small 2D set", dim: 2, n: 17},
		{name: "3D set", dim: 3, n: 100},
		{name: "1D set", dim: 1, n: 64},
		{name: "larger 5D set", dim: 5, n: 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng := rand.New(rand.NewSource(42))
			idx, err := NewKDTreeIndex(tt.dim, Euclidean)
			if err != nil {
				t.Fatalf("NewKDTreeIndex() error: %v", err)
			}

			if err := idx.Build(randomPoints(rng, tt.n, tt.dim)); err != nil {
				t.Fatalf("Build() error: %v", err)
			}

			if idx.Len() != tt.n {
				t.Errorf("Len() = %d, want %d", idx.Len(), tt.n)
			}
			if !idx.Validate() {
				t.Error("Validate() = false after Build, want true")
			}
		})
	}
}

func TestKDTreeIndexBuildDuplicates(t *testing.T) {
	// Heavy duplication stresses the median partition: equal axis values
	// must still yield a valid split and O(log n) depth.
	points := make([][]float32, 0, 120)
	for i := 0; i < 40; i++ {
		points = append(points, []float32{1, 1}, []float32{1, 2}, []float32{2, 1})
	}

	idx, err := NewKDTreeIndex(2, Euclidean)
	if err != nil {
		t.Fatalf("NewKDTreeIndex() error: %v", err)
	}
	if err := idx.Build(points); err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	if !idx.Validate() {
		t.Error("Validate() = false for duplicate-heavy set, want true")
	}
	if idx.Len() != len(points) {
		t.Errorf("Len() = %d, want %d", idx.Len(), len(points))
	}
}

func TestKDTreeIndexBuildDimensionMismatch(t *testing.T) {
	idx, err := NewKDTreeIndex(2, Euclidean)
	if err != nil {
		t.Fatalf("NewKDTreeIndex() error: %v", err)
	}

	if err := idx.Build([][]float32{{1, 2}, {3, 4}}); err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	// A bad rebuild must fail and leave the previous snapshot intact.
	if err := idx.Build([][]float32{{1, 2}, {3, 4, 5}}); err == nil {
		t.Fatal("Build() with mismatched point expected error but got none")
	}

	if idx.Len() != 2 {
		t.Errorf("Len() after failed Build = %d, want 2", idx.Len())
	}
	if got, _, err := idx.NearestNeighbor([]float32{3, 4}); err != nil || got != 1 {
		t.Errorf("NearestNeighbor() after failed Build = (%d, %v), want (1, nil)", got, err)
	}
}

func TestKDTreeIndexRebuildReplacesSnapshot(t *testing.T) {
	idx, err := NewKDTreeIndex(2, Euclidean)
	if err != nil {
		t.Fatalf("NewKDTreeIndex() error: %v", err)
	}

	first := [][]float32{{0, 0}, {10, 10}, {20, 20}, {30, 30}, {40, 40}}
	if err := idx.Build(first); err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	second := [][]float32{{100, 100}, {200, 200}}
	if err := idx.Build(second); err != nil {
		t.Fatalf("rebuild error: %v", err)
	}

	if idx.Len() != len(second) {
		t.Fatalf("Len() after rebuild = %d, want %d", idx.Len(), len(second))
	}
	if !idx.Validate() {
		t.Error("Validate() = false after rebuild, want true")
	}

	// No stale indices: every result must reference the second snapshot.
	results, err := idx.NewSearch().WithQuery([]float32{0, 0}).WithK(10).Execute()
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if len(results) != len(second) {
		t.Fatalf("got %d results, want %d", len(results), len(second))
	}
	for _, r := range results {
		if r.Index < 0 || r.Index >= len(second) {
			t.Errorf("result index %d out of range of rebuilt snapshot", r.Index)
		}
	}

	// The old nearest point (0,0) is gone; (100,100) is now closest to origin.
	nearest, _, err := idx.NearestNeighbor([]float32{0, 0})
	if err != nil {
		t.Fatalf("NearestNeighbor() error: %v", err)
	}
	if nearest != 0 {
		t.Errorf("NearestNeighbor() = %d, want 0 (the rebuilt (100,100))", nearest)
	}
}

func TestKDTreeIndexClear(t *testing.T) {
	idx, err := NewKDTreeIndex(2, Euclidean)
	if err != nil {
		t.Fatalf("NewKDTreeIndex() error: %v", err)
	}

	if err := idx.Build([][]float32{{1, 1}, {2, 2}}); err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	idx.Clear()

	if idx.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", idx.Len())
	}
	if !idx.Validate() {
		t.Error("Validate() on cleared index = false, want true")
	}
	if _, _, err := idx.NearestNeighbor([]float32{0, 0}); err != ErrEmptyIndex {
		t.Errorf("NearestNeighbor() after Clear error = %v, want ErrEmptyIndex", err)
	}
}

func TestKDTreeIndexValidateDetectsCorruption(t *testing.T) {
	idx, err := NewKDTreeIndex(1, Euclidean)
	if err != nil {
		t.Fatalf("NewKDTreeIndex() error: %v", err)
	}

	points := [][]float32{{0}, {1}, {2}, {3}, {4}, {5}, {6}}
	if err := idx.Build(points); err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if !idx.Validate() {
		t.Fatal("Validate() = false on healthy tree")
	}

	// Swap the root's subtrees: values below the median land on the right.
	idx.root.left, idx.root.right = idx.root.right, idx.root.left

	if idx.Validate() {
		t.Error("Validate() = true on corrupted tree, want false")
	}
}

func TestKDTreeIndexValidatePrecisions(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	points := randomPoints(rng, 200, 3)

	for _, precision := range []StorePrecision{FullPrecision, HalfPrecision, Int8Precision} {
		t.Run(string(precision), func(t *testing.T) {
			idx, err := NewKDTreeIndexWithPrecision(3, Euclidean, precision)
			if err != nil {
				t.Fatalf("NewKDTreeIndexWithPrecision() error: %v", err)
			}
			if err := idx.Build(points); err != nil {
				t.Fatalf("Build() error: %v", err)
			}
			if !idx.Validate() {
				t.Error("Validate() = false, want true")
			}
		})
	}
}
