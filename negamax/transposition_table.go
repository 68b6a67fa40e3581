package negamax

import (
	"sync"
	"sync/atomic"

	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"
)

const (
	TTExact = 0x01
	TTLower = 0x02
	TTUpper = 0x03
)

// DefaultChains is the number of chains per bin. It should be prime, so
// that hash mod P spreads well.
const DefaultChains = 1021

// DefaultMemoryFraction bounds the table to this fraction of system memory.
const DefaultMemoryFraction = 0.25

const (
	numBins   = 256
	entrySize = 16
)

// 16 bytes (entrySize)
type TableEntry struct {
	hash      uint64
	score     int32
	moveCount int16
	depth     int8
	flag      uint8
}

// satisfies applies the depth and bound rule to an entry for the same
// position.
func (t TableEntry) satisfies(depth, α, β int) bool {
	if int(t.depth) < depth {
		return false
	}
	switch t.flag {
	case TTExact:
		return true
	case TTLower:
		return int(t.score) >= β
	case TTUpper:
		return int(t.score) <= α
	}
	return false
}

type chain struct {
	sync.Mutex
	entries []TableEntry
}

// TranspositionTable caches bounded search values by position. It is split
// into 256 bins by the top byte of the hash, each holding a fixed number of
// chains selected by hash mod P. Every chain has its own lock, so workers
// only contend when they touch the same chain.
//
// There is no eviction: once the memory budget is used up, further stores
// are skipped.
type TranspositionTable struct {
	bins     [numBins][]chain
	nchains  uint64
	capacity int64
	size     atomic.Int64

	created atomic.Uint64
	lookups atomic.Uint64
	hits    atomic.Uint64
	skipped atomic.Uint64
}

// NewTranspositionTable allocates a table with the given chains per bin,
// limited to fractionOfMemory of the system's memory.
func NewTranspositionTable(chains int, fractionOfMemory float64) *TranspositionTable {
	t := &TranspositionTable{}
	t.Reset(chains, fractionOfMemory)
	return t
}

func (t *TranspositionTable) chainFor(hash uint64) *chain {
	return &t.bins[hash>>56][hash%t.nchains]
}

func (t *TranspositionTable) lookup(hash uint64, moveCount, depth, α, β int) (int, bool) {
	t.lookups.Add(1)
	c := t.chainFor(hash)
	c.Lock()
	defer c.Unlock()
	// newest entries are at the end.
	for i := len(c.entries) - 1; i >= 0; i-- {
		e := c.entries[i]
		if e.hash != hash || int(e.moveCount) != moveCount {
			continue
		}
		if e.satisfies(depth, α, β) {
			t.hits.Add(1)
			return int(e.score), true
		}
	}
	return 0, false
}

func (t *TranspositionTable) store(hash uint64, moveCount, depth int, flag uint8, score int) {
	if t.size.Add(1) > t.capacity {
		t.size.Add(-1)
		t.skipped.Add(1)
		return
	}
	c := t.chainFor(hash)
	c.Lock()
	c.entries = append(c.entries, TableEntry{
		hash:      hash,
		score:     int32(score),
		moveCount: int16(moveCount),
		depth:     int8(depth),
		flag:      flag,
	})
	c.Unlock()
	t.created.Add(1)
}

// Reset drops every entry and re-sizes the table. It must not be called
// while a search is using the table.
func (t *TranspositionTable) Reset(chains int, fractionOfMemory float64) {
	if chains < 1 {
		chains = DefaultChains
	}
	totalMem := memory.TotalMemory()
	t.capacity = int64(fractionOfMemory * float64(totalMem) / entrySize)
	// always keep room for a shallow search, even with a zero fraction.
	if t.capacity < 1<<16 {
		t.capacity = 1 << 16
	}
	if t.nchains != uint64(chains) {
		t.nchains = uint64(chains)
		for i := range t.bins {
			t.bins[i] = make([]chain, chains)
		}
	} else {
		t.Clear()
	}
	t.size.Store(0)

	log.Info().Int("chains-per-bin", chains).
		Int64("max-entries", t.capacity).
		Int64("estimated-max-memory-bytes", t.capacity*entrySize).
		Uint64("total-system-memory-bytes", totalMem).
		Msg("transposition-table-size")

	t.created.Store(0)
	t.lookups.Store(0)
	t.hits.Store(0)
	t.skipped.Store(0)
}

// Clear frees every chain's entries but keeps the table's shape.
func (t *TranspositionTable) Clear() {
	for i := range t.bins {
		for j := range t.bins[i] {
			c := &t.bins[i][j]
			c.Lock()
			c.entries = nil
			c.Unlock()
		}
	}
	t.size.Store(0)
}

// TableStats is a snapshot of the table counters.
type TableStats struct {
	Entries  int64
	Capacity int64
	Created  uint64
	Lookups  uint64
	Hits     uint64
	Skipped  uint64
}

func (t *TranspositionTable) Stats() TableStats {
	return TableStats{
		Entries:  t.size.Load(),
		Capacity: t.capacity,
		Created:  t.created.Load(),
		Lookups:  t.lookups.Load(),
		Hits:     t.hits.Load(),
		Skipped:  t.skipped.Load(),
	}
}

// ChainLengths returns the length of every non-empty chain.
func (t *TranspositionTable) ChainLengths() []int {
	var lens []int
	for i := range t.bins {
		for j := range t.bins[i] {
			c := &t.bins[i][j]
			c.Lock()
			if n := len(c.entries); n > 0 {
				lens = append(lens, n)
			}
			c.Unlock()
		}
	}
	return lens
}
