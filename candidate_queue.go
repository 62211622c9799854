package sector

// candidateQueue is the fixed-capacity ordered accumulator used by k-nearest
// search. It keeps at most capacity results sorted ascending by distance.
//
// Inserts are an O(size) scan-and-shift: a new result lands immediately
// before the first retained result with a strictly larger distance, so
// equal-distance results keep their insertion order (the order search
// visited them in). After an insert that overflows capacity, the tail
// (worst) result is dropped.
//
// For the small k values k-nearest search runs with, the linear insert beats
// a heap in practice and keeps read-out trivially ordered.
type candidateQueue struct {
	capacity int
	items    []SpatialResult
}

// newCandidateQueue creates a queue retaining at most capacity results.
// capacity must be >= 1; callers handle the k <= 0 contract before building one.
func newCandidateQueue(capacity int) *candidateQueue {
	return &candidateQueue{
		capacity: capacity,
		items:    make([]SpatialResult, 0, capacity+1),
	}
}

// push offers a result to the queue. The result is kept only if it ranks
// within the best capacity results seen so far.
func (q *candidateQueue) push(r SpatialResult) {
	pos := len(q.items)
	for i := range q.items {
		if r.Distance < q.items[i].Distance {
			pos = i
			break
		}
	}

	q.items = append(q.items, SpatialResult{})
	copy(q.items[pos+1:], q.items[pos:])
	q.items[pos] = r

	if len(q.items) > q.capacity {
		q.items = q.items[:q.capacity]
	}
}

// size returns the number of retained results.
func (q *candidateQueue) size() int {
	return len(q.items)
}

// full reports whether the queue has reached capacity.
func (q *candidateQueue) full() bool {
	return len(q.items) >= q.capacity
}

// worst returns the largest retained distance. Only valid when size() > 0.
func (q *candidateQueue) worst() float32 {
	return q.items[len(q.items)-1].Distance
}

// results returns the retained results ascending by distance. The returned
// slice aliases the queue's storage.
func (q *candidateQueue) results() []SpatialResult {
	return q.items
}
