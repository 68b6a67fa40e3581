// Package movegen picks the candidate cells the search expands at a node.
//
// Candidates are the free cells with the highest point score for the side to
// move. Black candidates that would be forbidden are dropped, but the ban
// check is expensive, so it only runs for cells that would make the cut.
package movegen

import (
	"github.com/domino14/gomoku/board"
	"github.com/domino14/gomoku/rules"
	"github.com/domino14/gomoku/scoring"
)

// MaxWidth caps the number of candidates kept per node.
const MaxWidth = 64

// Generate appends to dst[:0] up to width candidates for role, best first,
// and returns the result. Cells are scanned column by column; among equal
// scores the earlier cell wins. b is modified during ban checks and restored
// before Generate returns.
func Generate(b *board.Board, points *scoring.PointGrid, role board.Role,
	width int, dst []board.Pos) []board.Pos {

	if width > MaxWidth {
		width = MaxWidth
	}
	dst = dst[:0]
	if width <= 0 {
		return dst
	}
	var vals [MaxWidth]int

	for x := 0; x < board.Width; x++ {
		for y := 0; y < board.Height; y++ {
			if b[x][y] != board.Free {
				continue
			}
			v := points[x][y]
			n := len(dst)
			if n == width && v <= vals[n-1] {
				continue
			}
			p := board.Pos{X: x, Y: y}
			if role == rules.Restricted && rules.CheckBan(b, p) {
				continue
			}
			// insertion point: after every entry >= v.
			i := n
			for i > 0 && vals[i-1] < v {
				i--
			}
			if n < width {
				dst = append(dst, board.Pos{})
				n++
			}
			copy(dst[i+1:n], dst[i:n-1])
			copy(vals[i+1:n], vals[i:n-1])
			dst[i] = p
			vals[i] = v
		}
	}
	return dst
}

// Best returns the free cell with the highest value in points, ignoring
// bans. ok is false when the board is full.
func Best(b *board.Board, points *scoring.PointGrid) (board.Pos, bool) {
	best, bestVal, found := board.NoPos, 0, false
	for x := 0; x < board.Width; x++ {
		for y := 0; y < board.Height; y++ {
			if b[x][y] != board.Free {
				continue
			}
			if !found || points[x][y] > bestVal {
				best, bestVal, found = board.Pos{X: x, Y: y}, points[x][y], true
			}
		}
	}
	return best, found
}
