package scoring

import (
	"testing"

	"github.com/matryer/is"
	"lukechampine.com/frand"

	"github.com/domino14/gomoku/board"
)

func TestGroupCount(t *testing.T) {
	is := is.New(t)
	is.Equal(NumGroups, 572)
	is.Equal(GroupsAt(board.Pos{X: 0, Y: 0}), 3)
	is.Equal(GroupsAt(board.Pos{X: 7, Y: 7}), 20)
	total := 0
	for x := 0; x < board.Width; x++ {
		for y := 0; y < board.Height; y++ {
			total += GroupsAt(board.Pos{X: x, Y: y})
		}
	}
	is.Equal(total, NumGroups*5)
}

func TestGroupValue(t *testing.T) {
	is := is.New(t)
	is.Equal(GroupValue(0, 0, true), scoreVoid)
	is.Equal(GroupValue(2, 1, true), scoreMixed)
	is.Equal(GroupValue(3, 0, true), 15000)
	is.Equal(GroupValue(0, 3, true), -4000)
	is.Equal(GroupValue(0, 3, false), 4000)
	// a four outweighs threes in every group through a cell
	is.True(GroupValue(4, 0, true) > maxGroupsPerCell*GroupValue(3, 0, true))
}

func TestEmptyBoard(t *testing.T) {
	is := is.New(t)
	var b board.Board
	bs := Rescan(&b)
	is.Equal(bs.Total[board.RoleBlack], NumGroups*scoreVoid)
	is.Equal(bs.Total[board.RoleWhite], NumGroups*scoreVoid)
	is.Equal(bs.Points[board.RoleBlack][0][0], 3*scoreVoid)
	is.Equal(bs.Points[board.RoleWhite][7][7], 20*scoreVoid)
}

func TestSingleStone(t *testing.T) {
	is := is.New(t)
	var b board.Board
	p := board.Pos{X: 7, Y: 7}
	bs := Rescan(&b)
	b.Set(p, board.Black)
	bs.Place(p, board.RoleBlack)

	is.Equal(bs.Total[board.RoleBlack], (NumGroups-20)*scoreVoid+20*35)
	is.Equal(bs.Total[board.RoleWhite], (NumGroups-20)*scoreVoid-20*20)
	is.Equal(bs.Points[board.RoleBlack][7][7], 20*35)
	is.Equal(bs.Points[board.RoleWhite][7][7], 20*20)
	is.Equal(*bs, *Rescan(&b))
}

// Incremental updates must always agree with a full rescan.
func TestDeltaConsistency(t *testing.T) {
	is := is.New(t)
	var b board.Board
	bs := Rescan(&b)
	type placed struct {
		p    board.Pos
		role board.Role
	}
	var stack []placed
	role := board.RoleBlack
	for i := 0; i < 400; i++ {
		if len(stack) > 0 && frand.Intn(3) == 0 {
			last := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			b.Set(last.p, board.Free)
			bs.Remove(last.p, last.role)
		} else {
			p := board.Pos{X: frand.Intn(board.Width), Y: frand.Intn(board.Height)}
			if !b.IsFree(p) {
				continue
			}
			b.Set(p, role.Piece())
			bs.Place(p, role)
			stack = append(stack, placed{p, role})
			role = role.Opponent()
		}
		if i%25 == 0 {
			is.Equal(*bs, *Rescan(&b))
		}
	}
	is.Equal(*bs, *Rescan(&b))

	// unwinding everything returns to the empty-board evaluation.
	for len(stack) > 0 {
		last := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		b.Set(last.p, board.Free)
		bs.Remove(last.p, last.role)
	}
	var empty board.Board
	is.Equal(*bs, *Rescan(&empty))
}

func BenchmarkPlaceRemove(b *testing.B) {
	var bd board.Board
	bs := Rescan(&bd)
	p := board.Pos{X: 7, Y: 7}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		bs.Place(p, board.RoleBlack)
		bs.Remove(p, board.RoleBlack)
	}
}
