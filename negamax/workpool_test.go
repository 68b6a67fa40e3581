package negamax

import (
	"sync"
	"testing"

	"github.com/matryer/is"
)

func TestWorkDeque(t *testing.T) {
	is := is.New(t)
	d := NewWorkDeque([]int{0, 3, 6, 9})
	is.Equal(d.Size(), 4)

	idx, ok := d.Pop()
	is.True(ok)
	is.Equal(idx, 0)
	idx, ok = d.Steal()
	is.True(ok)
	is.Equal(idx, 9)
	idx, _ = d.Pop()
	is.Equal(idx, 3)
	idx, _ = d.Steal()
	is.Equal(idx, 6)

	_, ok = d.Pop()
	is.True(!ok)
	_, ok = d.Steal()
	is.True(!ok)
	is.Equal(d.Size(), 0)
}

func TestDealRoundRobin(t *testing.T) {
	is := is.New(t)
	deques := dealRoundRobin(7, 3)
	is.Equal(len(deques), 3)
	is.Equal(deques[0].indices, []int{0, 3, 6})
	is.Equal(deques[1].indices, []int{1, 4})
	is.Equal(deques[2].indices, []int{2, 5})
}

func TestRunPoolVisitsEveryIndexOnce(t *testing.T) {
	is := is.New(t)
	for _, workers := range []int{1, 2, 5, 40} {
		var mu sync.Mutex
		seen := map[int]int{}
		firsts := 0
		err := runPool(33, workers, func(w, idx int, first bool) {
			mu.Lock()
			defer mu.Unlock()
			seen[idx]++
			if first {
				firsts++
			}
		})
		is.NoErr(err)
		is.Equal(len(seen), 33)
		for _, n := range seen {
			is.Equal(n, 1)
		}
		// a worker whose deque was emptied by thieves before it started
		// never sees a first index.
		is.True(firsts >= 1 && firsts <= min(workers, 33))
	}
	is.NoErr(runPool(0, 4, func(int, int, bool) { t.Fatal("no work expected") }))
}
