// Package scoring evaluates gomoku positions.
//
// The board is divided into groups of five cells in a line. Each group is
// scored from the number of pieces each side has in it. A board score per
// side is the sum over all groups; a point score per cell is the sum over the
// groups containing that cell, and is used to rank candidate moves.
package scoring

import (
	"github.com/domino14/gomoku/board"
)

const (
	// ScoreInf is larger than any reachable position score.
	ScoreInf = 100000000

	// an empty group still has potential for either side.
	scoreVoid = 7
	// a group holding both colors can never become five.
	scoreMixed = 1
)

var ownScores = [6]int{0, 35, 800, 15000, 800000, 10000000}
var oppScores = [6]int{0, 20, 500, 4000, 300000, 10000000}

// NumGroups is the number of 5-cell windows on the board.
const NumGroups = (board.Width-4)*board.Height +
	board.Width*(board.Height-4) +
	2*(board.Width-4)*(board.Height-4)

// maxGroupsPerCell: 4 lines, 5 offsets each.
const maxGroupsPerCell = 20

// GroupValue scores a group from the piece counts of one side (own) and the
// other side (opp). If negateOpp is set, a group holding only opponent
// pieces scores negatively; this is used for the board score, whereas the
// point score ranks cells that block the opponent as highly as it should.
func GroupValue(own, opp int, negateOpp bool) int {
	switch {
	case own > 0 && opp > 0:
		return scoreMixed
	case own > 0:
		return ownScores[own]
	case opp > 0:
		if negateOpp {
			return -oppScores[opp]
		}
		return oppScores[opp]
	}
	return scoreVoid
}

type group struct {
	cells [5]board.Pos
}

type cellGroupList struct {
	n   int
	idx [maxGroupsPerCell]int
}

var (
	groups     [NumGroups]group
	cellGroups [board.Width][board.Height]cellGroupList
)

func init() {
	// {dx, dy, nx, ny, x offset, y offset}; the anti-diagonal starts 4 rows
	// down and climbs.
	lines := [4][6]int{
		{1, 0, board.Width - 4, board.Height, 0, 0},
		{0, 1, board.Width, board.Height - 4, 0, 0},
		{1, 1, board.Width - 4, board.Height - 4, 0, 0},
		{1, -1, board.Width - 4, board.Height - 4, 0, 4},
	}
	n := 0
	for _, l := range lines {
		for x0 := 0; x0 < l[2]; x0++ {
			for y0 := 0; y0 < l[3]; y0++ {
				x, y := x0+l[4], y0+l[5]
				for k := 0; k < 5; k++ {
					groups[n].cells[k] = board.Pos{X: x, Y: y}
					cg := &cellGroups[x][y]
					cg.idx[cg.n] = n
					cg.n++
					x += l[0]
					y += l[1]
				}
				n++
			}
		}
	}
}

// GroupScore is the score state of one group. It is a pure function of
// Pieces.
type GroupScore struct {
	Pieces [board.NumRoles]int
	Board  [board.NumRoles]int
	Point  [board.NumRoles]int
}

func (g *GroupScore) rescore() {
	b, w := g.Pieces[board.RoleBlack], g.Pieces[board.RoleWhite]
	g.Board[board.RoleBlack] = GroupValue(b, w, true)
	g.Board[board.RoleWhite] = GroupValue(w, b, true)
	g.Point[board.RoleBlack] = GroupValue(b, w, false)
	g.Point[board.RoleWhite] = GroupValue(w, b, false)
}

// PointGrid holds a per-cell score for one side.
type PointGrid [board.Width][board.Height]int

// BoardScore is the evaluation state of a board. It is a plain value, so
// copying it gives an independent evaluator for another board copy.
type BoardScore struct {
	Groups [NumGroups]GroupScore
	Points [board.NumRoles]PointGrid
	Total  [board.NumRoles]int
}

// Rescan computes a BoardScore from scratch.
func Rescan(b *board.Board) *BoardScore {
	bs := &BoardScore{}
	bs.Rescan(b)
	return bs
}

func (bs *BoardScore) Rescan(b *board.Board) {
	*bs = BoardScore{}
	for i := range groups {
		gs := &bs.Groups[i]
		for _, p := range groups[i].cells {
			if role, ok := board.RoleOf(b.At(p)); ok {
				gs.Pieces[role]++
			}
		}
		gs.rescore()
		for r := 0; r < board.NumRoles; r++ {
			bs.Total[r] += gs.Board[r]
		}
		for _, p := range groups[i].cells {
			for r := 0; r < board.NumRoles; r++ {
				bs.Points[r][p.X][p.Y] += gs.Point[r]
			}
		}
	}
}

// Place updates the scores for a stone of role being put at p. Only the
// groups containing p are touched.
func (bs *BoardScore) Place(p board.Pos, role board.Role) {
	bs.delta(p, role, 1)
}

// Remove undoes Place.
func (bs *BoardScore) Remove(p board.Pos, role board.Role) {
	bs.delta(p, role, -1)
}

func (bs *BoardScore) delta(p board.Pos, role board.Role, d int) {
	cg := &cellGroups[p.X][p.Y]
	for k := 0; k < cg.n; k++ {
		gi := cg.idx[k]
		gs := &bs.Groups[gi]
		oldBoard, oldPoint := gs.Board, gs.Point
		gs.Pieces[role] += d
		gs.rescore()
		for r := 0; r < board.NumRoles; r++ {
			bs.Total[r] += gs.Board[r] - oldBoard[r]
			dp := gs.Point[r] - oldPoint[r]
			if dp == 0 {
				continue
			}
			for _, c := range groups[gi].cells {
				bs.Points[r][c.X][c.Y] += dp
			}
		}
	}
}

// GroupsAt returns the number of groups containing p.
func GroupsAt(p board.Pos) int {
	return cellGroups[p.X][p.Y].n
}
