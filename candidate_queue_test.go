package sector

import "testing"

func TestCandidateQueuePush(t *testing.T) {
	tests := []struct {
		name      string
		capacity  int
		pushes    []SpatialResult
		wantOrder []int
	}{
		{
			name:     "ascending insert order preserved",
			capacity: 5,
			pushes: []SpatialResult{
				{Index: 0, Distance: 1},
				{Index: 1, Distance: 2},
				{Index: 2, Distance: 3},
			},
			wantOrder: []int{0, 1, 2},
		},
		{
			name:     "descending insert order reversed",
			capacity: 5,
			pushes: []SpatialResult{
				{Index: 0, Distance: 3},
				{Index: 1, Distance: 2},
				{Index: 2, Distance: 1},
			},
			wantOrder: []int{2, 1, 0},
		},
		{
			name:     "overflow drops worst",
			capacity: 2,
			pushes: []SpatialResult{
				{Index: 0, Distance: 5},
				{Index: 1, Distance: 1},
				{Index: 2, Distance: 3},
			},
			wantOrder: []int{1, 2},
		},
		{
			name:     "equal distances keep insertion order",
			capacity: 4,
			pushes: []SpatialResult{
				{Index: 7, Distance: 2},
				{Index: 3, Distance: 2},
				{Index: 9, Distance: 1},
				{Index: 1, Distance: 2},
			},
			wantOrder: []int{9, 7, 3, 1},
		},
		{
			name:     "overflow with ties keeps earliest",
			capacity: 2,
			pushes: []SpatialResult{
				{Index: 5, Distance: 2},
				{Index: 6, Distance: 2},
				{Index: 7, Distance: 2},
			},
			wantOrder: []int{5, 6},
		},
		{
			name:     "capacity one tracks the best",
			capacity: 1,
			pushes: []SpatialResult{
				{Index: 0, Distance: 4},
				{Index: 1, Distance: 2},
				{Index: 2, Distance: 3},
			},
			wantOrder: []int{1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := newCandidateQueue(tt.capacity)
			for _, r := range tt.pushes {
				q.push(r)
			}

			results := q.results()
			if len(results) != len(tt.wantOrder) {
				t.Fatalf("size = %d, want %d", len(results), len(tt.wantOrder))
			}

			for i, want := range tt.wantOrder {
				if results[i].Index != want {
					t.Errorf("results[%d].Index = %d, want %d (results: %v)", i, results[i].Index, want, results)
				}
			}

			// Read-out must be ascending by distance.
			for i := 1; i < len(results); i++ {
				if results[i].Distance < results[i-1].Distance {
					t.Errorf("results not ascending at %d: %v", i, results)
				}
			}
		})
	}
}

func TestCandidateQueueWorst(t *testing.T) {
	q := newCandidateQueue(3)

	q.push(SpatialResult{Index: 0, Distance: 2})
	if q.worst() != 2 {
		t.Errorf("worst() = %v, want 2", q.worst())
	}

	q.push(SpatialResult{Index: 1, Distance: 5})
	if q.worst() != 5 {
		t.Errorf("worst() = %v, want 5", q.worst())
	}

	q.push(SpatialResult{Index: 2, Distance: 1})
	q.push(SpatialResult{Index: 3, Distance: 3})
	// Capacity 3: the 5 should have been truncated away.
	if q.worst() != 3 {
		t.Errorf("worst() after overflow = %v, want 3", q.worst())
	}
}

func TestCandidateQueueFull(t *testing.T) {
	q := newCandidateQueue(2)

	if q.full() {
		t.Error("full() on empty queue = true, want false")
	}

	q.push(SpatialResult{Index: 0, Distance: 1})
	if q.full() {
		t.Error("full() with one of two = true, want false")
	}

	q.push(SpatialResult{Index: 1, Distance: 2})
	if !q.full() {
		t.Error("full() at capacity = false, want true")
	}

	q.push(SpatialResult{Index: 2, Distance: 0.5})
	if !q.full() || q.size() != 2 {
		t.Errorf("after overflow: full() = %v, size = %d, want true, 2", q.full(), q.size())
	}
}
