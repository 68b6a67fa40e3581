// Package board holds the gomoku board representation: a fixed 15x15 grid
// of cells, the two roles, and coordinate helpers.
package board

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	Width  = 15
	Height = 15

	NumCells = Width * Height
)

// Cell is the state of a single intersection.
type Cell uint8

const (
	Free Cell = iota
	Black
	White
)

// Role identifies a side. Black moves first and is the restricted side.
type Role int

const (
	RoleBlack Role = 0
	RoleWhite Role = 1

	NumRoles = 2
)

// Piece returns the cell value a stone of this role occupies.
func (r Role) Piece() Cell {
	return Cell(r + 1)
}

func (r Role) Opponent() Role {
	return r ^ 1
}

func (r Role) String() string {
	switch r {
	case RoleBlack:
		return "black"
	case RoleWhite:
		return "white"
	}
	return "role(" + strconv.Itoa(int(r)) + ")"
}

// RoleOf returns the role owning a stone. ok is false for a free cell.
func RoleOf(c Cell) (Role, bool) {
	switch c {
	case Black:
		return RoleBlack, true
	case White:
		return RoleWhite, true
	}
	return 0, false
}

var (
	ErrBadCoord = errors.New("bad coordinate")
)

// Pos is a board coordinate. X is the column (A..O), Y the row index counted
// from the top of the display.
type Pos struct {
	X, Y int
}

// NoPos marks "no last move", e.g. at the start of a game.
var NoPos = Pos{X: -1, Y: -1}

func InBounds(x, y int) bool {
	return x >= 0 && x < Width && y >= 0 && y < Height
}

func (p Pos) Valid() bool {
	return InBounds(p.X, p.Y)
}

// Index is the cell index used by the hash and the snapshot format.
func (p Pos) Index() int {
	return p.X*Height + p.Y
}

// String renders the position as shown on the display, e.g. "H8".
func (p Pos) String() string {
	if !p.Valid() {
		return "--"
	}
	return fmt.Sprintf("%c%d", 'A'+p.X, Height-p.Y)
}

// ParsePos parses a coordinate such as "H8" or "h8". The row number n maps
// to y = Height - n, so row 15 is the top line of the display.
func ParsePos(s string) (Pos, error) {
	s = strings.TrimSpace(strings.ToUpper(s))
	if len(s) < 2 {
		return NoPos, fmt.Errorf("%w: %q", ErrBadCoord, s)
	}
	col := int(s[0] - 'A')
	row, err := strconv.Atoi(s[1:])
	if err != nil {
		return NoPos, fmt.Errorf("%w: %q", ErrBadCoord, s)
	}
	p := Pos{X: col, Y: Height - row}
	if !p.Valid() {
		return NoPos, fmt.Errorf("%w: %q is off the board", ErrBadCoord, s)
	}
	return p, nil
}

// ParsePositions parses a whitespace-separated list of coordinates.
func ParsePositions(s string) ([]Pos, error) {
	fields := strings.Fields(s)
	ps := make([]Pos, 0, len(fields))
	for _, f := range fields {
		p, err := ParsePos(f)
		if err != nil {
			return nil, err
		}
		ps = append(ps, p)
	}
	return ps, nil
}

// Board is a value type; assigning it copies the whole grid, which is how
// search workers get their private copies.
type Board [Width][Height]Cell

func (b *Board) At(p Pos) Cell {
	return b[p.X][p.Y]
}

func (b *Board) Set(p Pos, c Cell) {
	b[p.X][p.Y] = c
}

func (b *Board) Clear() {
	*b = Board{}
}

// IsFree is false for occupied or off-board positions.
func (b *Board) IsFree(p Pos) bool {
	return p.Valid() && b[p.X][p.Y] == Free
}

// CountPieces returns the number of stones on the board.
func (b *Board) CountPieces() int {
	n := 0
	for x := 0; x < Width; x++ {
		for y := 0; y < Height; y++ {
			if b[x][y] != Free {
				n++
			}
		}
	}
	return n
}

func (b *Board) Full() bool {
	return b.CountPieces() == NumCells
}

// ToDisplayText renders the board with box-drawing characters. Black is
// shown as a filled circle, white as a hollow one; last, if valid, is
// bracketed.
func (b *Board) ToDisplayText(last Pos) string {
	var sb strings.Builder
	sb.WriteString("   ┌")
	for i := 0; i < Width; i++ {
		sb.WriteString("─┬")
	}
	sb.WriteString("─┐\n")
	for y := 0; y < Height; y++ {
		fmt.Fprintf(&sb, " %2d├", Height-y)
		for x := 0; x < Width; x++ {
			sep := "─"
			if last.Valid() && last.X == x && last.Y == y {
				sep = "["
			} else if last.Valid() && last.X == x-1 && last.Y == y {
				sep = "]"
			}
			sb.WriteString(sep)
			switch b[x][y] {
			case Black:
				sb.WriteString("●")
			case White:
				sb.WriteString("○")
			default:
				sb.WriteString("┼")
			}
		}
		if last.Valid() && last.X == Width-1 && last.Y == y {
			sb.WriteString("]┤\n")
		} else {
			sb.WriteString("─┤\n")
		}
	}
	sb.WriteString("   └")
	for i := 0; i < Width; i++ {
		sb.WriteString("─┴")
	}
	sb.WriteString("─┘\n    ")
	for i := 0; i < Width; i++ {
		fmt.Fprintf(&sb, " %c", 'A'+i)
	}
	sb.WriteString("\n")
	return sb.String()
}

// PlaceAll places stones alternately starting with first. It is a helper for
// setting up positions; it does not check legality.
func (b *Board) PlaceAll(first Role, ps []Pos) {
	r := first
	for _, p := range ps {
		b.Set(p, r.Piece())
		r = r.Opponent()
	}
}
