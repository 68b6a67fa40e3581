// Package game tracks a gomoku game: the board, whose turn it is, the move
// history and the outcome. A Game doesn't care how it is played; engine and
// human players drive it from the outside.
package game

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/domino14/gomoku/board"
	"github.com/domino14/gomoku/rules"
)

var (
	ErrOccupied      = errors.New("cell is occupied")
	ErrForbidden     = errors.New("forbidden move for black")
	ErrGameOver      = errors.New("game is over")
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrBadPosition   = errors.New("impossible position")
)

type PlayState int

const (
	Playing PlayState = iota
	Won
	Draw
)

func (s PlayState) String() string {
	switch s {
	case Playing:
		return "playing"
	case Won:
		return "won"
	case Draw:
		return "draw"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Turn is one stone placed in the game.
type Turn struct {
	Pos  board.Pos
	Role board.Role
}

type Game struct {
	board   board.Board
	history []Turn
	state   PlayState
	winner  board.Role
	// base is the number of stones that came from a snapshot. Their order
	// is unknown, so they have no last move and cannot be undone.
	base int
}

func NewGame() *Game {
	return &Game{}
}

// Board returns a copy of the current board.
func (g *Game) Board() board.Board {
	return g.board
}

// OnTurn is the role to move. Black always moves first.
func (g *Game) OnTurn() board.Role {
	return board.Role(len(g.history) % board.NumRoles)
}

func (g *Game) MoveCount() int {
	return len(g.history)
}

// Last returns the most recent stone, or board.NoPos if nothing has been
// played since the start or since a snapshot was loaded.
func (g *Game) Last() board.Pos {
	if len(g.history) <= g.base {
		return board.NoPos
	}
	return g.history[len(g.history)-1].Pos
}

func (g *Game) Playing() PlayState {
	return g.state
}

// Winner reports the winning role once the game is won.
func (g *Game) Winner() (board.Role, bool) {
	return g.winner, g.state == Won
}

// History returns a copy of the moves played so far.
func (g *Game) History() []Turn {
	return append([]Turn(nil), g.history...)
}

// MovesBy returns the stones placed by role, in order.
func (g *Game) MovesBy(role board.Role) []board.Pos {
	turns := lo.Filter(g.history, func(t Turn, _ int) bool { return t.Role == role })
	return lo.Map(turns, func(t Turn, _ int) board.Pos { return t.Pos })
}

// Play places a stone for the side on turn.
func (g *Game) Play(p board.Pos) error {
	if g.state != Playing {
		return ErrGameOver
	}
	if !p.Valid() {
		return fmt.Errorf("%w: %v", board.ErrBadCoord, p)
	}
	if !g.board.IsFree(p) {
		return fmt.Errorf("%w: %v", ErrOccupied, p)
	}
	role := g.OnTurn()
	if !rules.IsLegal(&g.board, p, role) {
		return fmt.Errorf("%w: %v", ErrForbidden, p)
	}
	g.board.Set(p, role.Piece())
	g.history = append(g.history, Turn{Pos: p, Role: role})
	g.updateState()
	log.Debug().Str("role", role.String()).Str("pos", p.String()).
		Int("move", len(g.history)).Str("state", g.state.String()).Msg("played")
	return nil
}

// Undo takes back the last stone. Stones loaded from a snapshot stay.
func (g *Game) Undo() (Turn, error) {
	if len(g.history) <= g.base {
		return Turn{}, ErrNothingToUndo
	}
	t := g.history[len(g.history)-1]
	g.history = g.history[:len(g.history)-1]
	g.board.Set(t.Pos, board.Free)
	g.state = Playing
	g.updateState()
	return t, nil
}

func (g *Game) updateState() {
	g.state = Playing
	if winner, ok := rules.Judge(&g.board, g.Last()); ok {
		g.state = Won
		g.winner = winner
		return
	}
	if g.board.Full() {
		g.state = Draw
	}
}

// Snapshot packs the current board.
func (g *Game) Snapshot() board.Snapshot {
	return board.Deflate(&g.board)
}

// LoadSnapshot replaces the game with the position in s. The move order is
// lost: the history is rebuilt with black and white stones interleaved in
// board order, so the side on turn follows from the stone counts.
func (g *Game) LoadSnapshot(s board.Snapshot) error {
	b, err := board.Inflate(s)
	if err != nil {
		return err
	}
	var stones [board.NumRoles][]board.Pos
	for x := 0; x < board.Width; x++ {
		for y := 0; y < board.Height; y++ {
			p := board.Pos{X: x, Y: y}
			if role, ok := board.RoleOf(b.At(p)); ok {
				stones[role] = append(stones[role], p)
			}
		}
	}
	nb, nw := len(stones[board.RoleBlack]), len(stones[board.RoleWhite])
	if nb != nw && nb != nw+1 {
		return fmt.Errorf("%w: %d black and %d white stones", ErrBadPosition, nb, nw)
	}
	history := make([]Turn, 0, nb+nw)
	for i := 0; i < nb; i++ {
		history = append(history, Turn{Pos: stones[board.RoleBlack][i], Role: board.RoleBlack})
		if i < nw {
			history = append(history, Turn{Pos: stones[board.RoleWhite][i], Role: board.RoleWhite})
		}
	}
	g.board = b
	g.history = history
	g.base = len(history)
	g.state = Playing
	// the last stone is arbitrary here, so look for a five anywhere.
	for _, t := range history {
		if winner, ok := rules.Judge(&g.board, t.Pos); ok {
			g.state = Won
			g.winner = winner
			return nil
		}
	}
	if g.board.Full() {
		g.state = Draw
	}
	return nil
}

// ToDisplayText renders the board and a status line.
func (g *Game) ToDisplayText() string {
	status := fmt.Sprintf("move %d, %s to play", len(g.history)+1, g.OnTurn())
	switch g.state {
	case Won:
		status = fmt.Sprintf("%s wins after %d moves", g.winner, len(g.history))
	case Draw:
		status = "draw: the board is full"
	}
	last := ""
	if l := g.Last(); l.Valid() {
		last = fmt.Sprintf("last: %s  ", l)
	}
	var stones strings.Builder
	for r := board.RoleBlack; r < board.NumRoles; r++ {
		if moves := g.MovesBy(r); len(moves) > 0 {
			fmt.Fprintf(&stones, "%s: %s\n", r, strings.Join(
				lo.Map(moves, func(p board.Pos, _ int) string { return p.String() }), " "))
		}
	}
	return g.board.ToDisplayText(g.Last()) + stones.String() + last + status + "\n"
}
