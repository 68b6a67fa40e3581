package player

import (
	"lukechampine.com/frand"

	"github.com/domino14/gomoku/board"
	"github.com/domino14/gomoku/movegen"
	"github.com/domino14/gomoku/scoring"
)

var centre = board.Pos{X: (board.Width - 1) / 2, Y: (board.Height - 1) / 2}

// openingMove takes the centre, or a random free diagonal neighbour of it.
func openingMove(b *board.Board) (board.Pos, bool) {
	if b.IsFree(centre) {
		return centre, true
	}
	var free []board.Pos
	for _, d := range [4][2]int{{-1, -1}, {1, 1}, {1, -1}, {-1, 1}} {
		p := board.Pos{X: centre.X + d[0], Y: centre.Y + d[1]}
		if b.IsFree(p) {
			free = append(free, p)
		}
	}
	if len(free) == 0 {
		return board.NoPos, false
	}
	return free[frand.Intn(len(free))], true
}

// staticWidth is how many ranked cells are considered for a static move.
const staticWidth = 40

// bestStaticMove picks one of the legal cells sharing the best point score
// for side, at random.
func bestStaticMove(b *board.Board, bs *scoring.BoardScore, side board.Role) (board.Pos, bool) {
	points := &bs.Points[side]
	cands := movegen.Generate(b, points, side, staticWidth, nil)
	if len(cands) == 0 {
		return movegen.Best(b, points)
	}
	top := points[cands[0].X][cands[0].Y]
	n := 1
	for n < len(cands) && points[cands[n].X][cands[n].Y] == top {
		n++
	}
	return cands[frand.Intn(n)], true
}
