package shell

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/domino14/gomoku/board"
	"github.com/domino14/gomoku/config"
	"github.com/domino14/gomoku/game"
)

func (sc *ShellController) help(cmd *shellcmd) (*Response, error) {
	var sb strings.Builder
	if len(cmd.args) == 0 {
		usage(&sb, "standard")
	} else {
		usageTopic(&sb, cmd.args[0])
	}
	return msg(sb.String()), nil
}

func (sc *ShellController) aiControls(role board.Role) bool {
	if role == board.RoleBlack {
		return sc.cfg.GetBool(config.ConfigAIBlack)
	}
	return sc.cfg.GetBool(config.ConfigAIWhite)
}

// engineMove lets the engine play for the side on turn.
func (sc *ShellController) engineMove(*shellcmd) (*Response, error) {
	line, err := sc.playEngine()
	if err != nil {
		return nil, err
	}
	return msg(sc.game.ToDisplayText() + line), nil
}

func (sc *ShellController) playEngine() (string, error) {
	role := sc.game.OnTurn()
	res, err := sc.aiplayer.BestMove(context.Background(), sc.game)
	if err != nil {
		return "", err
	}
	if err := sc.game.Play(res.Move); err != nil {
		return "", err
	}
	return sc.printer.Sprintf("%s plays %s (value %d, depth %d, %d nodes in %v)",
		role, res.Move, res.Value, res.Depth, res.Nodes, res.Elapsed.Round(time.Millisecond)), nil
}

// replyIfEngine plays one engine move if the engine controls the side on
// turn and the game is still going.
func (sc *ShellController) replyIfEngine() (string, error) {
	if sc.game.Playing() != game.Playing || !sc.aiControls(sc.game.OnTurn()) {
		return "", nil
	}
	return sc.playEngine()
}

func (sc *ShellController) newGame(*shellcmd) (*Response, error) {
	sc.game = game.NewGame()
	line, err := sc.replyIfEngine()
	if err != nil {
		return nil, err
	}
	return msg(sc.game.ToDisplayText() + line), nil
}

func (sc *ShellController) show(*shellcmd) (*Response, error) {
	return msg(sc.game.ToDisplayText()), nil
}

func (sc *ShellController) play(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: play <coordinate>, e.g. play H8")
	}
	p, err := board.ParsePos(cmd.args[0])
	if err != nil {
		return nil, err
	}
	if err := sc.game.Play(p); err != nil {
		return nil, err
	}
	line, err := sc.replyIfEngine()
	if err != nil {
		return nil, err
	}
	return msg(sc.game.ToDisplayText() + line), nil
}

func (sc *ShellController) undo(cmd *shellcmd) (*Response, error) {
	n := 1
	if len(cmd.args) > 0 {
		var err error
		n, err = strconv.Atoi(cmd.args[0])
		if err != nil || n < 1 {
			return nil, errors.New("usage: undo [number of moves]")
		}
	}
	for i := 0; i < n; i++ {
		if _, err := sc.game.Undo(); err != nil {
			return nil, err
		}
	}
	return msg(sc.game.ToDisplayText()), nil
}

func (sc *ShellController) autoplay(cmd *shellcmd) (*Response, error) {
	n := board.NumCells
	if len(cmd.args) > 0 {
		var err error
		n, err = strconv.Atoi(cmd.args[0])
		if err != nil || n < 1 {
			return nil, errors.New("usage: autoplay [number of moves]")
		}
	}
	var lines []string
	for i := 0; i < n && sc.game.Playing() == game.Playing; i++ {
		line, err := sc.playEngine()
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return msg(sc.game.ToDisplayText() + strings.Join(lines, "\n")), nil
}

func (sc *ShellController) set(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 2 {
		return nil, errors.New("usage: set <setting> <value>")
	}
	key, value := cmd.args[0], cmd.args[1]
	if err := sc.cfg.SetFromString(key, value); err != nil {
		return nil, err
	}
	sc.aiplayer.Configure(sc.cfg)
	if key == config.ConfigDebug {
		if sc.cfg.GetBool(config.ConfigDebug) {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		} else {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
		}
	}
	return msg(fmt.Sprintf("set %s to %v", key, sc.cfg.Get(key))), nil
}

func (sc *ShellController) settings(*shellcmd) (*Response, error) {
	out, err := yaml.Marshal(sc.cfg.SanitizedSettings())
	if err != nil {
		return nil, err
	}
	return msg(strings.TrimRight(string(out), "\n")), nil
}

func (sc *ShellController) save(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: save <file>")
	}
	snap := sc.game.Snapshot()
	data, err := snap.MarshalBinary()
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(cmd.args[0], data, 0o644); err != nil {
		return nil, err
	}
	return msg("saved board to " + cmd.args[0]), nil
}

func (sc *ShellController) load(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: load <file>")
	}
	data, err := os.ReadFile(cmd.args[0])
	if err != nil {
		return nil, err
	}
	var snap board.Snapshot
	if err := snap.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	g := game.NewGame()
	if err := g.LoadSnapshot(snap); err != nil {
		return nil, err
	}
	sc.game = g
	return msg(sc.game.ToDisplayText()), nil
}

func (sc *ShellController) ttstats(*shellcmd) (*Response, error) {
	tt := sc.aiplayer.Solver().TranspositionTable()
	st := tt.Stats()
	var sb strings.Builder
	sb.WriteString(sc.printer.Sprintf("entries:  %d / %d\n", st.Entries, st.Capacity))
	sb.WriteString(sc.printer.Sprintf("created:  %d\n", st.Created))
	sb.WriteString(sc.printer.Sprintf("lookups:  %d\n", st.Lookups))
	sb.WriteString(sc.printer.Sprintf("hits:     %d\n", st.Hits))
	sb.WriteString(sc.printer.Sprintf("skipped:  %d\n", st.Skipped))

	lens := tt.ChainLengths()
	if len(lens) == 0 {
		sb.WriteString("the table is empty")
		return msg(sb.String()), nil
	}
	data := make([]float64, len(lens))
	for i, n := range lens {
		data[i] = float64(n)
	}
	sb.WriteString(sc.printer.Sprintf("chain lengths over %d non-empty chains:\n", len(lens)))
	if err := histogram.Fprint(&sb, histogram.Hist(10, data), histogram.Linear(40)); err != nil {
		return nil, err
	}
	return msg(strings.TrimRight(sb.String(), "\n")), nil
}
