package negamax

import (
	"context"
	"errors"
	"math"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/domino14/gomoku/board"
	"github.com/domino14/gomoku/movegen"
	"github.com/domino14/gomoku/scoring"
	"github.com/domino14/gomoku/zobrist"
)

const (
	DefaultWidth      = 16
	DefaultStartDepth = 4
	DefaultMaxDepth   = 12
	DefaultTimerSlice = 5 * time.Millisecond

	// defaultGrowth estimates how much longer a depth+2 iteration takes,
	// until there are measurements.
	defaultGrowth = 6.0
)

var (
	ErrNoMoves = errors.New("no free cell to play")
)

// Request describes the position to solve.
type Request struct {
	Board     board.Board
	Side      board.Role
	MoveCount int
	// Last is the previous stone, or board.NoPos.
	Last   board.Pos
	Budget time.Duration
}

// Result is the chosen move. Depth is the deepest completed iteration, 0 if
// none completed and Move is the pre-seeded candidate.
type Result struct {
	Move    board.Pos
	Value   int
	Depth   int
	Nodes   uint64
	Elapsed time.Duration
}

type rootMove struct {
	pos   board.Pos
	value int
}

// best is the shared best value and move of one depth iteration.
type best struct {
	sync.Mutex
	α    int
	move board.Pos
}

// offer records v for p if it beats the current best. It returns the best
// value after the update.
func (b *best) offer(p board.Pos, v int) int {
	b.Lock()
	defer b.Unlock()
	if v > b.α {
		b.α = v
		b.move = p
	}
	return b.α
}

func (b *best) alpha() int {
	b.Lock()
	defer b.Unlock()
	return b.α
}

type Solver struct {
	zobrist *zobrist.Zobrist
	ttable  *TranspositionTable

	threads    int
	width      int
	startDepth int
	maxDepth   int
	timerSlice time.Duration

	transpositionTableOptim bool

	cancelled atomic.Bool
	nodes     atomic.Uint64
}

// NewSolver creates a solver with default settings. tt may be shared
// between solvers that do not search at the same time; if nil, a table is
// created.
func NewSolver(tt *TranspositionTable) *Solver {
	if tt == nil {
		tt = NewTranspositionTable(DefaultChains, DefaultMemoryFraction)
	}
	return &Solver{
		zobrist:                 zobrist.New(),
		ttable:                  tt,
		threads:                 int(math.Max(1, float64(runtime.NumCPU()-1))),
		width:                   DefaultWidth,
		startDepth:              DefaultStartDepth,
		maxDepth:                DefaultMaxDepth,
		timerSlice:              DefaultTimerSlice,
		transpositionTableOptim: true,
	}
}

func (s *Solver) SetThreads(threads int) {
	s.threads = max(1, threads)
}

func (s *Solver) SetWidth(width int) {
	s.width = min(max(1, width), movegen.MaxWidth)
}

// SetDepths sets the first and the deepest iteration. Iterations go up two
// plies at a time.
func (s *Solver) SetDepths(start, maxDepth int) {
	s.startDepth = max(1, start)
	s.maxDepth = max(s.startDepth, maxDepth)
}

func (s *Solver) SetTimerSlice(d time.Duration) {
	if d > 0 {
		s.timerSlice = d
	}
}

func (s *Solver) SetTranspositionTableOptim(tt bool) {
	s.transpositionTableOptim = tt
}

func (s *Solver) TranspositionTable() *TranspositionTable {
	return s.ttable
}

// Close drops the transposition table entries.
func (s *Solver) Close() {
	s.ttable.Clear()
}

// rootCandidates ranks the root moves. If no legal candidate exists it falls
// back to the best free cell, ignoring bans.
func (s *Solver) rootCandidates(b *board.Board, bs *scoring.BoardScore, side board.Role) ([]rootMove, error) {
	cands := movegen.Generate(b, &bs.Points[side], side, s.width, nil)
	if len(cands) == 0 {
		p, ok := movegen.Best(b, &bs.Points[side])
		if !ok {
			return nil, ErrNoMoves
		}
		log.Debug().Str("move", p.String()).Msg("no-legal-candidates-fallback")
		cands = []board.Pos{p}
	}
	return lo.Map(cands, func(p board.Pos, _ int) rootMove {
		return rootMove{pos: p, value: bs.Points[side][p.X][p.Y]}
	}), nil
}

// Solve searches req's position by iterative deepening until the budget
// runs out, ctx is cancelled, the result is decided or the maximum depth is
// done. A legal move is always returned unless the board is full. A Solver
// runs one Solve at a time.
func (s *Solver) Solve(ctx context.Context, req Request) (Result, error) {
	tstart := time.Now()
	b := req.Board
	bs := scoring.Rescan(&b)

	roots, err := s.rootCandidates(&b, bs, req.Side)
	if err != nil {
		return Result{}, err
	}
	res := Result{Move: roots[0].pos, Value: roots[0].value}
	if req.Budget <= 0 {
		res.Elapsed = time.Since(tstart)
		return res, nil
	}

	s.cancelled.Store(false)
	s.nodes.Store(0)
	key := s.zobrist.Hash(&b)

	workers := make([]*worker, min(s.threads, len(roots)))
	for i := range workers {
		workers[i] = newWorker(s)
	}
	log.Debug().Int("threads", len(workers)).
		Strs("roots", lo.Map(roots, func(m rootMove, _ int) string { return m.pos.String() })).
		Msg("solve-config")

	g := &errgroup.Group{}
	done := make(chan struct{})
	g.Go(func() error {
		return s.timer(ctx, tstart, req.Budget, done)
	})

	var durations []float64
	for depth := s.startDepth; depth <= s.maxDepth; depth += 2 {
		if s.cancelled.Load() {
			break
		}
		if len(durations) > 0 {
			est := time.Duration(durations[len(durations)-1] * growth(durations))
			if time.Since(tstart)+est > req.Budget {
				log.Debug().Int("depth", depth).Dur("estimate", est).Msg("next-iteration-will-not-fit")
				break
			}
		}
		log.Debug().Int("depth", depth).Msg("deepening-iteratively")
		itStart := time.Now()
		v, move, values, ok := s.searchRoot(key, &b, bs, req, roots, workers, depth)
		if !ok {
			log.Debug().Int("depth", depth).Msg("iteration-cancelled")
			break
		}
		durations = append(durations, max(float64(time.Since(itStart)), 1))
		res.Move, res.Value, res.Depth = move, v, depth
		for i := range roots {
			roots[i].value = values[i]
		}
		sort.SliceStable(roots, func(i, j int) bool {
			return roots[i].value > roots[j].value
		})
		log.Debug().Int("value", v).Int("depth", depth).Str("move", move.String()).Msg("best-val")
		if v >= scoring.ScoreInf || v <= -scoring.ScoreInf {
			break
		}
	}
	close(done)
	if err := g.Wait(); err != nil {
		return res, err
	}

	res.Nodes = s.nodes.Load()
	res.Elapsed = time.Since(tstart)
	tts := s.ttable.Stats()
	log.Info().
		Str("move", res.Move.String()).
		Int("value", res.Value).
		Int("depth", res.Depth).
		Uint64("nodes", res.Nodes).
		Uint64("ttable-created", tts.Created).
		Uint64("ttable-lookups", tts.Lookups).
		Uint64("ttable-hits", tts.Hits).
		Uint64("ttable-skipped", tts.Skipped).
		Float64("time-elapsed-sec", res.Elapsed.Seconds()).
		Msg("solve-returning")
	return res, nil
}

// searchRoot runs one depth iteration over the root candidates with the
// worker pool. ok is false if the iteration was cancelled.
func (s *Solver) searchRoot(key uint64, b *board.Board, bs *scoring.BoardScore,
	req Request, roots []rootMove, workers []*worker, depth int) (int, board.Pos, []int, bool) {

	shared := &best{α: -scoring.ScoreInf, move: roots[0].pos}
	values := make([]int, len(roots))
	for _, w := range workers {
		w.reset(b, bs)
	}
	β := scoring.ScoreInf

	_ = runPool(len(roots), len(workers), func(wi, idx int, first bool) {
		if s.cancelled.Load() {
			return
		}
		w := workers[wi]
		p := roots[idx].pos
		α := shared.alpha()
		var v int
		if first {
			v = w.child(key, req.MoveCount, req.Side, p, depth, α, β)
		} else {
			v = w.child(key, req.MoveCount, req.Side, p, depth, α, α+1)
			if v > α && v < β {
				v = w.child(key, req.MoveCount, req.Side, p, depth, α, β)
			}
		}
		if s.cancelled.Load() {
			return
		}
		values[idx] = v
		shared.offer(p, v)
	})
	for _, w := range workers {
		w.flushNodes()
	}
	if s.cancelled.Load() {
		return 0, board.NoPos, nil, false
	}
	log.Debug().Uint64("nodes", lo.SumBy(workers, func(w *worker) uint64 { return w.nodes })).
		Int("depth", depth).Msg("iteration-done")
	return shared.α, shared.move, values, true
}

// growth is the geometric mean of the ratios between consecutive iteration
// durations.
func growth(durations []float64) float64 {
	if len(durations) < 2 {
		return defaultGrowth
	}
	ratios := make([]float64, len(durations)-1)
	for i := 1; i < len(durations); i++ {
		ratios[i-1] = durations[i] / durations[i-1]
	}
	return stat.GeometricMean(ratios, nil)
}

// timer sets the cancel flag once the budget is spent or ctx is done, and
// returns when done is closed.
func (s *Solver) timer(ctx context.Context, tstart time.Time, budget time.Duration, done <-chan struct{}) error {
	ticker := time.NewTicker(s.timerSlice)
	defer ticker.Stop()
	lastLog := tstart
	var lastNodes uint64
	ctxDone := ctx.Done()
	for {
		select {
		case <-done:
			return nil
		case <-ctxDone:
			s.cancelled.Store(true)
			ctxDone = nil
		case now := <-ticker.C:
			if now.Sub(tstart) >= budget {
				s.cancelled.Store(true)
			}
			if now.Sub(lastLog) >= time.Second {
				nodes := s.nodes.Load()
				log.Debug().Uint64("nps", uint64(float64(nodes-lastNodes)/now.Sub(lastLog).Seconds())).
					Msg("nodes-per-second")
				lastNodes, lastLog = nodes, now
			}
		}
	}
}
