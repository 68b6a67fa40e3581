package shell

import (
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/domino14/gomoku/config"
)

// ShellCompleter completes command names, setting names and help topics.
type ShellCompleter struct {
	sc *ShellController
}

func NewShellCompleter(sc *ShellController) *ShellCompleter {
	return &ShellCompleter{sc: sc}
}

var commandNames = []string{
	"new", "show", "play", "go", "undo", "autoplay", "set", "settings",
	"save", "load", "ttstats", "help", "exit",
}

var helpTopics = []string{"play", "set", "rules"}

var boolValues = []string{"true", "false"}

// Do implements the readline.AutoComplete interface
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])

	// Parse the line using shellquote to handle quoted strings properly
	fields, err := shellquote.Split(text)
	if err != nil {
		fields = strings.Fields(text)
	}
	endsWithSpace := len(text) > 0 && text[len(text)-1] == ' '

	var prefix string
	if !endsWithSpace && len(fields) > 0 {
		prefix = fields[len(fields)-1]
	}
	argIdx := len(fields)
	if !endsWithSpace {
		argIdx--
	}

	var completions []string
	switch {
	case argIdx <= 0:
		completions = commandNames
	case fields[0] == "help" && argIdx == 1:
		completions = helpTopics
	case fields[0] == "set" && argIdx == 1:
		completions = config.Keys
	case fields[0] == "set" && argIdx == 2:
		if c.sc != nil {
			if _, ok := c.sc.cfg.Get(fields[1]).(bool); ok {
				completions = boolValues
			}
		}
	}

	var out [][]rune
	for _, cand := range completions {
		if strings.HasPrefix(cand, prefix) {
			out = append(out, []rune(cand[len(prefix):]+" "))
		}
	}
	return out, len([]rune(prefix))
}
