package negamax

import (
	"sync"

	"golang.org/x/sync/errgroup"
)

// WorkDeque is a double-ended queue for work stealing.
// The owner pops from the front (best ranked first), other workers steal
// from the back. It stores indices into the shared root-candidate array.
type WorkDeque struct {
	mu      sync.Mutex
	indices []int
	front   int
	back    int
}

// NewWorkDeque creates a work deque with the given indices
func NewWorkDeque(indices []int) *WorkDeque {
	return &WorkDeque{indices: indices, back: len(indices)}
}

// Pop removes and returns the index at the front.
func (d *WorkDeque) Pop() (int, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.front >= d.back {
		return -1, false
	}
	idx := d.indices[d.front]
	d.front++
	return idx, true
}

// Steal removes and returns the index at the back.
func (d *WorkDeque) Steal() (int, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.front >= d.back {
		return -1, false
	}
	d.back--
	return d.indices[d.back], true
}

// Size returns the current size of the deque
func (d *WorkDeque) Size() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.back - d.front
}

// dealRoundRobin splits indices 0..n-1 over k deques: 0, k, 2k... go to the
// first, 1, k+1... to the second and so on, keeping rank order inside each.
func dealRoundRobin(n, k int) []*WorkDeque {
	parts := make([][]int, k)
	for i := 0; i < n; i++ {
		parts[i%k] = append(parts[i%k], i)
	}
	deques := make([]*WorkDeque, k)
	for i := range parts {
		deques[i] = NewWorkDeque(parts[i])
	}
	return deques
}

// next returns the next index for worker w: its own front first, then the
// back of the other deques.
func next(deques []*WorkDeque, w int) (int, bool) {
	if idx, ok := deques[w].Pop(); ok {
		return idx, true
	}
	for i := 1; i < len(deques); i++ {
		if idx, ok := deques[(w+i)%len(deques)].Steal(); ok {
			return idx, true
		}
	}
	return -1, false
}

// runPool deals n root indices over one deque per worker and runs every
// worker to completion. fn is called once per index, from the goroutine of
// the worker that took it. runPool returns once all workers have joined.
func runPool(n, workers int, fn func(worker, idx int, first bool)) error {
	if workers > n {
		workers = n
	}
	if workers < 1 {
		return nil
	}
	deques := dealRoundRobin(n, workers)
	g := errgroup.Group{}
	for w := 0; w < workers; w++ {
		w := w
		g.Go(func() error {
			first := true
			for {
				idx, ok := next(deques, w)
				if !ok {
					return nil
				}
				fn(w, idx, first)
				first = false
			}
		})
	}
	return g.Wait()
}
