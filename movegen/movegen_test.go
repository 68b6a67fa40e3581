package movegen

import (
	"testing"

	"github.com/matryer/is"
	"lukechampine.com/frand"

	"github.com/domino14/gomoku/board"
	"github.com/domino14/gomoku/rules"
	"github.com/domino14/gomoku/scoring"
)

func setup(t *testing.T, coords string) (*board.Board, *scoring.BoardScore) {
	t.Helper()
	ps, err := board.ParsePositions(coords)
	if err != nil {
		t.Fatal(err)
	}
	b := &board.Board{}
	b.PlaceAll(board.RoleBlack, ps)
	return b, scoring.Rescan(b)
}

func TestEmptyBoard(t *testing.T) {
	is := is.New(t)
	b, bs := setup(t, "")
	cands := Generate(b, &bs.Points[board.RoleBlack], board.RoleBlack, 8, nil)
	is.Equal(len(cands), 8)
	// the first cell lying in all 20 groups, in scan order.
	is.Equal(cands[0], board.Pos{X: 4, Y: 4})
	is.Equal(cands[1], board.Pos{X: 4, Y: 5})
}

func TestCandidateBound(t *testing.T) {
	is := is.New(t)
	b, bs := setup(t, "H8 I9 J10 G7 H9 G9")
	before := *b
	for _, width := range []int{0, 1, 5, 20, MaxWidth, 200} {
		for r := board.RoleBlack; r < board.NumRoles; r++ {
			cands := Generate(b, &bs.Points[r], r, width, nil)
			limit := min(width, MaxWidth)
			is.True(len(cands) <= limit)
			seen := map[board.Pos]bool{}
			for i, p := range cands {
				is.True(b.IsFree(p))
				is.True(!seen[p])
				seen[p] = true
				if i > 0 {
					prev := cands[i-1]
					is.True(bs.Points[r][prev.X][prev.Y] >= bs.Points[r][p.X][p.Y])
				}
			}
		}
	}
	is.Equal(*b, before)
}

func TestNoBannedCandidates(t *testing.T) {
	is := is.New(t)
	var b board.Board
	for _, p := range []board.Pos{{X: 5, Y: 7}, {X: 6, Y: 7}, {X: 7, Y: 5}, {X: 7, Y: 6}} {
		b.Set(p, board.Black)
	}
	bs := scoring.Rescan(&b)
	banned := board.Pos{X: 7, Y: 7}
	is.True(rules.CheckBan(&b, banned))

	cands := Generate(&b, &bs.Points[board.RoleBlack], board.RoleBlack, MaxWidth, nil)
	is.True(len(cands) > 0)
	for _, p := range cands {
		is.True(p != banned)
		is.True(!rules.CheckBan(&b, p))
	}
	// white may take the same cell
	wc := Generate(&b, &bs.Points[board.RoleWhite], board.RoleWhite, MaxWidth, nil)
	found := false
	for _, p := range wc {
		found = found || p == banned
	}
	is.True(found)
}

func TestTiesKeepScanOrder(t *testing.T) {
	is := is.New(t)
	var b board.Board
	var points scoring.PointGrid
	cands := Generate(&b, &points, board.RoleWhite, 3, nil)
	is.Equal(cands, []board.Pos{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: 2}})

	points[3][4] = 10
	points[1][1] = 10
	cands = Generate(&b, &points, board.RoleWhite, 3, nil)
	is.Equal(cands, []board.Pos{{X: 1, Y: 1}, {X: 3, Y: 4}, {X: 0, Y: 0}})
}

func TestFullBoard(t *testing.T) {
	is := is.New(t)
	var b board.Board
	for x := 0; x < board.Width; x++ {
		for y := 0; y < board.Height; y++ {
			b[x][y] = board.White
		}
	}
	var points scoring.PointGrid
	cands := Generate(&b, &points, board.RoleBlack, 10, make([]board.Pos, 0, 10))
	is.Equal(len(cands), 0)
	_, ok := Best(&b, &points)
	is.True(!ok)

	b[4][9] = board.Free
	p, ok := Best(&b, &points)
	is.True(ok)
	is.Equal(p, board.Pos{X: 4, Y: 9})
}

func TestReusesDestination(t *testing.T) {
	is := is.New(t)
	b, bs := setup(t, "H8 H9")
	buf := make([]board.Pos, 0, MaxWidth)
	cands := Generate(b, &bs.Points[board.RoleBlack], board.RoleBlack, 10, buf)
	is.True(&cands[0] == &buf[:1][0])
}

func BenchmarkGenerate(bm *testing.B) {
	var b board.Board
	for i := 0; i < 30; i++ {
		p := board.Pos{X: frand.Intn(board.Width), Y: frand.Intn(board.Height)}
		if b.IsFree(p) {
			b.Set(p, board.Role(i%2).Piece())
		}
	}
	bs := scoring.Rescan(&b)
	buf := make([]board.Pos, 0, MaxWidth)
	bm.ResetTimer()
	for i := 0; i < bm.N; i++ {
		buf = Generate(&b, &bs.Points[board.RoleBlack], board.RoleBlack, 16, buf)
	}
}
