package rules

import (
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/gomoku/board"
)

func pos(x, y int) board.Pos {
	return board.Pos{X: x, Y: y}
}

func place(b *board.Board, c board.Cell, ps ...board.Pos) {
	for _, p := range ps {
		b.Set(p, c)
	}
}

func TestOpenFourExtensionIsLegalAndWins(t *testing.T) {
	is := is.New(t)
	var b board.Board
	place(&b, board.Black, pos(5, 7), pos(6, 7), pos(7, 7), pos(8, 7))

	is.True(!CheckBan(&b, pos(4, 7)))
	is.True(!CheckBan(&b, pos(9, 7)))
	is.True(IsLegal(&b, pos(9, 7), board.RoleBlack))

	b.Set(pos(9, 7), board.Black)
	winner, ok := Judge(&b, pos(9, 7))
	is.True(ok)
	is.Equal(winner, board.RoleBlack)
}

func TestDoubleThreeBanned(t *testing.T) {
	is := is.New(t)
	var b board.Board
	// two open twos crossing at H8
	place(&b, board.Black, pos(5, 7), pos(6, 7), pos(7, 5), pos(7, 6))
	is.True(CheckBan(&b, pos(7, 7)))
	is.True(!IsLegal(&b, pos(7, 7), board.RoleBlack))
	// white is never restricted
	is.True(IsLegal(&b, pos(7, 7), board.RoleWhite))
}

func TestSingleOpenThreeAllowed(t *testing.T) {
	is := is.New(t)
	var b board.Board
	place(&b, board.Black, pos(5, 7), pos(6, 7))
	is.True(!CheckBan(&b, pos(7, 7)))
}

func TestBlockedThreeDoesNotCount(t *testing.T) {
	is := is.New(t)
	var b board.Board
	place(&b, board.Black, pos(5, 7), pos(6, 7), pos(7, 5), pos(7, 6))
	place(&b, board.White, pos(4, 7))
	// the horizontal three is closed on the left, so only the vertical
	// three is open.
	is.True(!CheckBan(&b, pos(7, 7)))
}

func TestDoubleFourBanned(t *testing.T) {
	is := is.New(t)
	var b board.Board
	// two open threes that both become fours at H8
	place(&b, board.Black, pos(4, 7), pos(5, 7), pos(6, 7), pos(7, 4), pos(7, 5), pos(7, 6))
	is.True(CheckBan(&b, pos(7, 7)))
}

func TestOverlineBanned(t *testing.T) {
	is := is.New(t)
	var b board.Board
	place(&b, board.Black, pos(2, 7), pos(3, 7), pos(4, 7), pos(6, 7), pos(7, 7), pos(8, 7))
	is.True(CheckBan(&b, pos(5, 7)))
	is.True(IsLegal(&b, pos(5, 7), board.RoleWhite))
}

func TestExactFiveOverridesBans(t *testing.T) {
	is := is.New(t)
	var b board.Board
	// a vertical and a diagonal two through H8, plus four in a row to its left.
	place(&b, board.Black, pos(7, 5), pos(7, 6), pos(5, 5), pos(6, 6))
	place(&b, board.Black, pos(4, 7), pos(5, 7), pos(6, 7))
	// without the fifth stone, H8 makes a four and two open threes.
	is.True(CheckBan(&b, pos(7, 7)))

	b.Set(pos(3, 7), board.Black)
	is.True(!CheckBan(&b, pos(7, 7)))
}

func TestCheckBanOccupiedAndRestores(t *testing.T) {
	is := is.New(t)
	var b board.Board
	place(&b, board.Black, pos(5, 7), pos(6, 7), pos(7, 5), pos(7, 6))
	place(&b, board.White, pos(0, 0))
	before := b
	is.True(!CheckBan(&b, pos(0, 0)))
	is.True(!CheckBan(&b, pos(5, 7)))
	_ = CheckBan(&b, pos(7, 7))
	is.Equal(b, before)
}

func TestJudge(t *testing.T) {
	is := is.New(t)
	var b board.Board
	_, ok := Judge(&b, board.NoPos)
	is.True(!ok)
	_, ok = Judge(&b, pos(7, 7))
	is.True(!ok)

	// four on the anti-diagonal is not a win
	place(&b, board.White, pos(3, 11), pos(4, 10), pos(5, 9), pos(6, 8))
	_, ok = Judge(&b, pos(6, 8))
	is.True(!ok)

	b.Set(pos(7, 7), board.White)
	winner, ok := Judge(&b, pos(7, 7))
	is.True(ok)
	is.Equal(winner, board.RoleWhite)

	// an overline still counts as a win for the side that made it
	b.Set(pos(8, 6), board.White)
	winner, ok = Judge(&b, pos(8, 6))
	is.True(ok)
	is.Equal(winner, board.RoleWhite)
}
