package negamax

import (
	"sync"
	"testing"

	"github.com/matryer/is"
	"lukechampine.com/frand"

	"github.com/domino14/gomoku/board"
	"github.com/domino14/gomoku/zobrist"
)

func TestTTableEntry(t *testing.T) {
	is := is.New(t)
	tt := NewTranspositionTable(7, 0)
	is.True(tt.Stats().Capacity >= 1<<16)

	var hash uint64 = 9409641586937047728
	tt.store(hash, 10, 4, TTExact, 1234)

	v, ok := tt.lookup(hash, 10, 4, -100, 100)
	is.True(ok)
	is.Equal(v, 1234)

	// a shallower request is satisfied by a deeper entry, not vice versa
	_, ok = tt.lookup(hash, 10, 2, -100, 100)
	is.True(ok)
	_, ok = tt.lookup(hash, 10, 6, -100, 100)
	is.True(!ok)

	// a different move count is a different position
	_, ok = tt.lookup(hash, 11, 4, -100, 100)
	is.True(!ok)
	_, ok = tt.lookup(hash+1, 10, 4, -100, 100)
	is.True(!ok)

	st := tt.Stats()
	is.Equal(st.Lookups, uint64(5))
	is.Equal(st.Hits, uint64(2))
	is.Equal(st.Created, uint64(1))
	is.Equal(st.Entries, int64(1))
}

func TestTTableBounds(t *testing.T) {
	is := is.New(t)
	tt := NewTranspositionTable(DefaultChains, 0)
	tt.store(1, 3, 5, TTLower, 500)
	tt.store(2, 3, 5, TTUpper, -500)

	// lower bound: usable only when it causes a cutoff
	_, ok := tt.lookup(1, 3, 5, 0, 1000)
	is.True(!ok)
	v, ok := tt.lookup(1, 3, 5, 0, 400)
	is.True(ok)
	is.Equal(v, 500)

	// upper bound: usable only when it fails low
	_, ok = tt.lookup(2, 3, 5, -1000, 0)
	is.True(!ok)
	v, ok = tt.lookup(2, 3, 5, -400, 0)
	is.True(ok)
	is.Equal(v, -500)
}

func TestTTableNewestWins(t *testing.T) {
	is := is.New(t)
	tt := NewTranspositionTable(DefaultChains, 0)
	tt.store(42, 8, 2, TTExact, 1)
	tt.store(42, 8, 2, TTExact, 2)
	v, ok := tt.lookup(42, 8, 2, -10, 10)
	is.True(ok)
	is.Equal(v, 2)
	is.Equal(tt.ChainLengths(), []int{2})
}

func TestTTableCapacity(t *testing.T) {
	is := is.New(t)
	tt := NewTranspositionTable(DefaultChains, 0)
	tt.capacity = 3
	for i := 0; i < 5; i++ {
		tt.store(uint64(i), 0, 1, TTExact, i)
	}
	st := tt.Stats()
	is.Equal(st.Created, uint64(3))
	is.Equal(st.Skipped, uint64(2))
	is.Equal(st.Entries, int64(3))
	_, ok := tt.lookup(4, 0, 1, 0, 0)
	is.True(!ok)

	tt.Clear()
	is.Equal(tt.Stats().Entries, int64(0))
	is.Equal(len(tt.ChainLengths()), 0)
	tt.store(4, 0, 1, TTExact, 4)
	_, ok = tt.lookup(4, 0, 1, 0, 0)
	is.True(ok)
}

func TestTTableConcurrent(t *testing.T) {
	is := is.New(t)
	tt := NewTranspositionTable(31, 0)
	const perWorker = 2000
	keys := make([][]uint64, 8)
	var wg sync.WaitGroup
	for w := range keys {
		keys[w] = make([]uint64, perWorker)
		for i := range keys[w] {
			keys[w][i] = frand.Uint64n(1 << 63)
		}
		wg.Add(1)
		w := w
		go func() {
			defer wg.Done()
			for i, k := range keys[w] {
				tt.store(k, w, 3, TTExact, i)
				tt.lookup(k, w, 3, 0, 0)
			}
		}()
	}
	wg.Wait()

	is.Equal(tt.Stats().Created, uint64(len(keys)*perWorker))
	total := 0
	for _, n := range tt.ChainLengths() {
		total += n
	}
	is.Equal(total, len(keys)*perWorker)
	for w := range keys {
		_, ok := tt.lookup(keys[w][0], w, 3, 0, 0)
		is.True(ok)
	}
}

// Position hashes must spread over every bin, including the upper half
// selected by the top bit.
func TestTTableUsesAllBins(t *testing.T) {
	is := is.New(t)
	tt := NewTranspositionTable(31, 0)
	z := zobrist.New()
	for i := 0; i < 20000; i++ {
		var b board.Board
		for n := frand.Intn(30) + 1; n > 0; n-- {
			p := board.Pos{X: frand.Intn(board.Width), Y: frand.Intn(board.Height)}
			b.Set(p, board.Role(n%2).Piece())
		}
		tt.store(z.Hash(&b), b.CountPieces(), 2, TTExact, i)
	}

	used, upper := 0, 0
	for i := range tt.bins {
		for j := range tt.bins[i] {
			if len(tt.bins[i][j].entries) > 0 {
				used++
				if i >= 128 {
					upper++
				}
				break
			}
		}
	}
	is.Equal(used, 256)
	is.Equal(upper, 128)
}
