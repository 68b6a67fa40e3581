// Package rules decides wins and forbidden moves.
//
// Black is the restricted side: it may not make a double three, a double
// four or an overline, unless the same stone also completes exactly five.
// Ban detection matches fixed templates along each of the four lines through
// the candidate stone. Template alphabet (for black):
//
//	*  black stone
//	+  free
//	#  free, and a black stone there must not itself be banned
//	x  barrier: white, off the board, or a free cell that is banned for black
//	-  anything but a black stone (free, white, off the board)
package rules

import (
	"github.com/domino14/gomoku/board"
)

// Restricted is the side subject to the forbidden-move rule.
const Restricted = board.RoleBlack

// usage: directions[line] = {dx, dy}
var directions = [4][2]int{
	{1, 0},
	{0, 1},
	{1, 1},
	{1, -1},
}

var (
	patOpen4 = []string{"-#****#-"}
	patDash4 = []string{"-**#**-", "-***#*-", "-*#***-", "x****#-", "-#****x"}
	// patOpen3[0] and patOpen3[1] describe the same three from either end;
	// only one of them is counted.
	patOpen3 = []string{"+***#+", "+#***+", "+**#*+", "+*#**+"}
)

// countLine counts the stones contiguous with p (inclusive) along a line.
func countLine(b *board.Board, p board.Pos, line int) int {
	c := b.At(p)
	dx, dy := directions[line][0], directions[line][1]
	n := 1
	for _, s := range [2]int{1, -1} {
		x, y := p.X+s*dx, p.Y+s*dy
		for board.InBounds(x, y) && b[x][y] == c {
			n++
			x += s * dx
			y += s * dy
		}
	}
	return n
}

// Judge reports the winner if the stone at last is part of a run of five or
// more. A free or off-board last position never wins.
func Judge(b *board.Board, last board.Pos) (board.Role, bool) {
	if !last.Valid() {
		return 0, false
	}
	role, ok := board.RoleOf(b.At(last))
	if !ok {
		return 0, false
	}
	for line := 0; line < 4; line++ {
		if countLine(b, last, line) >= 5 {
			return role, true
		}
	}
	return 0, false
}

// CheckBan reports whether black may not play at p. An occupied cell is
// never reported as banned. The board is modified while checking and
// restored before returning, so concurrent calls need independent boards.
func CheckBan(b *board.Board, p board.Pos) bool {
	if !b.IsFree(p) {
		return false
	}
	b.Set(p, board.Black)
	defer b.Set(p, board.Free)

	overline := false
	for line := 0; line < 4; line++ {
		n := countLine(b, p, line)
		if n == 5 {
			// five wins; no ban applies.
			return false
		}
		if n > 5 {
			overline = true
		}
	}
	if overline {
		return true
	}

	threes, fours := 0, 0
	for line := 0; line < 4; line++ {
		threes += countOpen3(b, p, line)
		fours += countOpen4(b, p, line) + countDash4(b, p, line)
		if threes >= 2 || fours >= 2 {
			return true
		}
	}
	return false
}

// IsLegal reports whether role may place a stone at p.
func IsLegal(b *board.Board, p board.Pos, role board.Role) bool {
	if !b.IsFree(p) {
		return false
	}
	return role != Restricted || !CheckBan(b, p)
}

func charMatch(b *board.Board, x, y int, ch byte) bool {
	in := board.InBounds(x, y)
	switch ch {
	case '*':
		return in && b[x][y] == board.Black
	case '+', '#':
		return in && b[x][y] == board.Free
	case 'x', '-':
		return !in || b[x][y] != board.Black
	}
	return false
}

// patMatch finds the first window offset >= start at which pat matches the
// line through p. Windows always cover p itself: offsets run from -5 to
// 6-len(pat).
func patMatch(b *board.Board, p board.Pos, line int, pat string, start int) (int, bool) {
	dx, dy := directions[line][0], directions[line][1]
	l := len(pat)
	for i := start; i+l-1 <= 5; i++ {
		matched := true
		for j := 0; j < l; j++ {
			if !charMatch(b, p.X+dx*(i+j), p.Y+dy*(i+j), pat[j]) {
				matched = false
				break
			}
		}
		if !matched {
			continue
		}
		if patCellsLegal(b, p, line, pat, i) {
			return i, true
		}
	}
	return 0, false
}

// patCellsLegal checks the '#' and 'x' cells of a matched window, which need
// a recursive ban check.
func patCellsLegal(b *board.Board, p board.Pos, line int, pat string, i int) bool {
	dx, dy := directions[line][0], directions[line][1]
	for j := 0; j < len(pat); j++ {
		q := board.Pos{X: p.X + dx*(i+j), Y: p.Y + dy*(i+j)}
		switch pat[j] {
		case '#':
			if CheckBan(b, q) {
				return false
			}
		case 'x':
			if q.Valid() && b.At(q) != board.White && !CheckBan(b, q) {
				return false
			}
		}
	}
	return true
}

func countPattern(b *board.Board, p board.Pos, line int, pats []string) int {
	count := 0
	for _, pat := range pats {
		start := -5
		for {
			i, ok := patMatch(b, p, line, pat, start)
			if !ok {
				break
			}
			count++
			start = i + 1
		}
	}
	return count
}

func countOpen4(b *board.Board, p board.Pos, line int) int {
	return countPattern(b, p, line, patOpen4)
}

func countDash4(b *board.Board, p board.Pos, line int) int {
	return countPattern(b, p, line, patDash4)
}

// countOpen3 counts threes through p that turn into an open four when the
// '#' cell is filled.
func countOpen3(b *board.Board, p board.Pos, line int) int {
	dx, dy := directions[line][0], directions[line][1]
	count := 0
	for k := 0; k < len(patOpen3); k++ {
		if k == 1 && count > 0 {
			continue
		}
		pat := patOpen3[k]
		start := -5
		for {
			i, ok := patMatch(b, p, line, pat, start)
			if !ok {
				break
			}
			for j := 0; j < len(pat); j++ {
				if pat[j] != '#' {
					continue
				}
				q := board.Pos{X: p.X + dx*(i+j), Y: p.Y + dy*(i+j)}
				b.Set(q, board.Black)
				if countOpen4(b, q, line) > 0 {
					count++
				}
				b.Set(q, board.Free)
			}
			start = i + 1
		}
	}
	return count
}
