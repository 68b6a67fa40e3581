// Package player is an automatic player of gomoku. It plays the opening
// from a small book and searches every later move.
package player

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/domino14/gomoku/config"
	"github.com/domino14/gomoku/game"
	"github.com/domino14/gomoku/negamax"
	"github.com/domino14/gomoku/scoring"
)

type Level int

const (
	// Greedy plays the cell with the best point score, without searching.
	Greedy Level = iota
	// Search runs the parallel negamax search.
	Search
)

func ParseLevel(s string) (Level, error) {
	switch s {
	case "greedy":
		return Greedy, nil
	case "search":
		return Search, nil
	}
	return 0, fmt.Errorf("unknown ai level %q", s)
}

func (l Level) String() string {
	if l == Greedy {
		return "greedy"
	}
	return "search"
}

// AIPlayer picks moves for whichever side is on turn.
type AIPlayer struct {
	solver *negamax.Solver
	budget time.Duration
	level  Level
}

// NewAIPlayer builds a player and its transposition table from cfg.
func NewAIPlayer(cfg *config.Config) (*AIPlayer, error) {
	level, err := ParseLevel(cfg.GetString(config.ConfigAILevel))
	if err != nil {
		return nil, err
	}
	tt := negamax.NewTranspositionTable(cfg.GetInt(config.ConfigTTChains),
		cfg.GetFloat64(config.ConfigTTMemoryFraction))
	p := &AIPlayer{solver: negamax.NewSolver(tt), level: level}
	p.Configure(cfg)
	return p, nil
}

// Configure applies the search settings in cfg. The transposition table
// keeps its shape.
func (p *AIPlayer) Configure(cfg *config.Config) {
	if threads := cfg.GetInt(config.ConfigThreads); threads > 0 {
		p.solver.SetThreads(threads)
	}
	p.solver.SetWidth(cfg.GetInt(config.ConfigSearchWidth))
	p.solver.SetDepths(cfg.GetInt(config.ConfigStartDepth), cfg.GetInt(config.ConfigMaxDepth))
	p.solver.SetTimerSlice(cfg.GetDuration(config.ConfigTimerSlice))
	p.budget = cfg.GetDuration(config.ConfigTimeBudget)
	if level, err := ParseLevel(cfg.GetString(config.ConfigAILevel)); err == nil {
		p.level = level
	}
}

func (p *AIPlayer) Solver() *negamax.Solver {
	return p.solver
}

// Close frees the transposition table.
func (p *AIPlayer) Close() {
	p.solver.Close()
}

// BestMove picks a move for the side on turn in g.
func (p *AIPlayer) BestMove(ctx context.Context, g *game.Game) (negamax.Result, error) {
	if g.Playing() != game.Playing {
		return negamax.Result{}, game.ErrGameOver
	}
	b := g.Board()
	side := g.OnTurn()

	switch {
	case g.MoveCount() == 0:
		return negamax.Result{Move: centre}, nil
	case g.MoveCount() == 1 || p.level == Greedy:
		if p.level == Greedy && g.MoveCount() == 1 {
			if m, ok := openingMove(&b); ok {
				return negamax.Result{Move: m}, nil
			}
		}
		bs := scoring.Rescan(&b)
		m, ok := bestStaticMove(&b, bs, side)
		if !ok {
			return negamax.Result{}, negamax.ErrNoMoves
		}
		log.Debug().Str("move", m.String()).Str("level", p.level.String()).Msg("static-move")
		return negamax.Result{Move: m, Value: bs.Points[side][m.X][m.Y]}, nil
	}

	return p.solver.Solve(ctx, negamax.Request{
		Board:     b,
		Side:      side,
		MoveCount: g.MoveCount(),
		Last:      g.Last(),
		Budget:    p.budget,
	})
}
