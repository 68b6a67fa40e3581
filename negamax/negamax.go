package negamax

import (
	"github.com/domino14/gomoku/board"
	"github.com/domino14/gomoku/movegen"
	"github.com/domino14/gomoku/rules"
	"github.com/domino14/gomoku/scoring"
)

// thanks Wikipedia:
/*
function negamax(node, depth, α, β, color) is
    if depth = 0 or node is a terminal node then
        return color × the heuristic value of node

    childNodes := generateMoves(node)
    childNodes := orderMoves(childNodes)
    value := −∞
    foreach child in childNodes do
        value := max(value, −negamax(child, depth − 1, −β, −α, −color))
        α := max(α, value)
        if α ≥ β then
            break (* cut-off *)
    return value
**/

// nodeFlushInterval is how many nodes a worker counts locally before adding
// them to the solver total.
const nodeFlushInterval = 1024

// worker holds one search thread's private position. Nothing in it is
// shared; the solver it points to holds the shared state.
type worker struct {
	s     *Solver
	board board.Board
	score scoring.BoardScore
	// candidate buffers, one per remaining depth
	bufs [][]board.Pos
	// nodes searched in this Solve; pending are not yet in the solver total
	nodes   uint64
	pending uint64
}

func newWorker(s *Solver) *worker {
	return &worker{s: s}
}

// reset copies the root position into the worker.
func (w *worker) reset(b *board.Board, bs *scoring.BoardScore) {
	w.board = *b
	w.score = *bs
}

func (w *worker) buf(depth int) []board.Pos {
	for len(w.bufs) <= depth {
		w.bufs = append(w.bufs, make([]board.Pos, 0, movegen.MaxWidth))
	}
	return w.bufs[depth][:0]
}

func (w *worker) countNode() {
	w.nodes++
	w.pending++
	if w.pending == nodeFlushInterval {
		w.flushNodes()
	}
}

func (w *worker) flushNodes() {
	w.s.nodes.Add(w.pending)
	w.pending = 0
}

// undoToken restores a worker's position after a stone is applied.
type undoToken struct {
	w    *worker
	p    board.Pos
	role board.Role
}

func (u undoToken) release() {
	u.w.score.Remove(u.p, u.role)
	u.w.board.Set(u.p, board.Free)
}

// apply places a stone for role at p, updating the board, the scores and the
// hash key. The returned token must be released to undo it.
func (w *worker) apply(key uint64, p board.Pos, role board.Role) (uint64, undoToken) {
	w.board.Set(p, role.Piece())
	w.score.Place(p, role)
	return w.s.zobrist.Toggle(key, p, role), undoToken{w: w, p: p, role: role}
}

// child searches the position after side plays p, and returns its value
// from side's point of view.
func (w *worker) child(key uint64, moveCount int, side board.Role, p board.Pos,
	depth, α, β int) int {

	childKey, u := w.apply(key, p, side)
	defer u.release()
	w.countNode()
	return -w.negamax(childKey, moveCount+1, side.Opponent(), depth-1, -β, -α, p)
}

// negamax searches the worker's position with side to move. last is the
// stone just placed by the opponent, or board.NoPos at the root of a fresh
// game. Interior nodes are fail-hard and return α; leaves and lost
// positions return their static value.
//
// If the solver is cancelled the node returns the best value found so far
// and stores nothing, so a cancelled search never leaves partial results in
// the table.
func (w *worker) negamax(key uint64, moveCount int, side board.Role,
	depth, α, β int, last board.Pos) int {

	if winner, ok := rules.Judge(&w.board, last); ok && winner != side {
		return -scoring.ScoreInf
	}
	if depth <= 0 {
		return w.score.Total[side]
	}
	s := w.s
	if s.transpositionTableOptim {
		if v, ok := s.ttable.lookup(key, moveCount, depth, α, β); ok {
			return v
		}
	}

	children := movegen.Generate(&w.board, &w.score.Points[side], side,
		s.width, w.buf(depth))

	flag := uint8(TTUpper)
	for i, p := range children {
		if s.cancelled.Load() {
			return α
		}
		var value int
		if i == 0 {
			value = w.child(key, moveCount, side, p, depth, α, β)
		} else {
			value = w.child(key, moveCount, side, p, depth, α, α+1)
			if value > α && value < β {
				value = w.child(key, moveCount, side, p, depth, α, β)
			}
		}
		if value > α {
			α = value
			flag = TTExact
		}
		if α >= β {
			flag = TTLower
			break
		}
	}
	if s.cancelled.Load() {
		return α
	}
	if s.transpositionTableOptim {
		s.ttable.store(key, moveCount, depth, flag, α)
	}
	return α
}
