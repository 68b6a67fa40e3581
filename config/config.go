package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigDebug            = "debug"
	ConfigThreads          = "threads"
	ConfigSearchWidth      = "search-width"
	ConfigStartDepth       = "start-depth"
	ConfigMaxDepth         = "max-depth"
	ConfigTimeBudget       = "time-budget"
	ConfigTimerSlice       = "timer-slice"
	ConfigTTChains         = "tt-chains"
	ConfigTTMemoryFraction = "tt-memory-fraction"
	ConfigAIBlack          = "ai-black"
	ConfigAIWhite          = "ai-white"
	ConfigAILevel          = "ai-level"
	ConfigHistoryFile      = "history-file"
	ConfigCPUProfile       = "cpu-profile"
	ConfigFile             = "config"
)

type Config struct {
	*viper.Viper
	args []string
}

// Keys lists every setting, in display order.
var Keys = []string{
	ConfigDebug, ConfigThreads, ConfigSearchWidth, ConfigStartDepth,
	ConfigMaxDepth, ConfigTimeBudget, ConfigTimerSlice, ConfigTTChains,
	ConfigTTMemoryFraction, ConfigAIBlack, ConfigAIWhite, ConfigAILevel, ConfigHistoryFile,
	ConfigCPUProfile,
}

type setting struct {
	def   any
	usage string
}

var settings = map[string]setting{
	ConfigDebug:            {false, "debug logging on"},
	ConfigThreads:          {0, "search threads; 0 means one less than the number of CPUs"},
	ConfigSearchWidth:      {16, "candidate moves searched per node"},
	ConfigStartDepth:       {4, "depth of the first search iteration"},
	ConfigMaxDepth:         {12, "deepest search iteration"},
	ConfigTimeBudget:       {5 * time.Second, "thinking time per move"},
	ConfigTimerSlice:       {5 * time.Millisecond, "how often the search timer checks the clock"},
	ConfigTTChains:         {1021, "transposition table chains per bin (a prime)"},
	ConfigTTMemoryFraction: {0.25, "fraction of system memory the transposition table may use"},
	ConfigAIBlack:          {false, "the engine plays black"},
	ConfigAIWhite:          {true, "the engine plays white"},
	ConfigAILevel:          {"search", "engine strength: greedy or search"},
	ConfigHistoryFile:      {"/tmp/gomoku-history", "shell history file"},
	ConfigCPUProfile:       {"", "write a CPU profile to this file"},
}

// Load reads the configuration from, in increasing priority: defaults, a
// config file, GOMOKU_* environment variables and command-line flags.
func (c *Config) Load(args []string) error {
	c.Viper = viper.New()

	fs := pflag.NewFlagSet("gomoku", pflag.ContinueOnError)
	for _, k := range Keys {
		st := settings[k]
		c.SetDefault(k, st.def)
		switch d := st.def.(type) {
		case bool:
			fs.Bool(k, d, st.usage)
		case int:
			fs.Int(k, d, st.usage)
		case float64:
			fs.Float64(k, d, st.usage)
		case time.Duration:
			fs.Duration(k, d, st.usage)
		case string:
			fs.String(k, d, st.usage)
		}
	}
	fs.String(ConfigFile, "", "read settings from this file (yaml, toml or json)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := c.BindPFlags(fs); err != nil {
		return err
	}
	c.args = fs.Args()

	c.SetEnvPrefix("GOMOKU")
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()

	if f := c.GetString(ConfigFile); f != "" {
		c.SetConfigFile(f)
		if err := c.ReadInConfig(); err != nil {
			return err
		}
	}
	return nil
}

// Args returns the command-line arguments left after the flags.
func (c *Config) Args() []string {
	return c.args
}

// DefaultConfig returns a config with defaults and environment overrides
// only.
func DefaultConfig() *Config {
	c := &Config{}
	if err := c.Load(nil); err != nil {
		panic(err)
	}
	return c
}

// SanitizedSettings returns the settings that can be shown or saved.
func (c *Config) SanitizedSettings() map[string]any {
	m := make(map[string]any, len(Keys))
	for _, k := range Keys {
		m[k] = c.Get(k)
	}
	return m
}

var (
	ErrUnknownSetting = errors.New("unknown setting")
	ErrBadValue       = errors.New("bad value")
)

// SetFromString sets key from its string form, as typed in the shell. The
// value must parse as the type of the key's default.
func (c *Config) SetFromString(key, value string) error {
	st, ok := settings[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSetting, key)
	}
	var v any
	var err error
	switch st.def.(type) {
	case bool:
		v, err = cast.ToBoolE(value)
	case int:
		v, err = cast.ToIntE(value)
	case float64:
		v, err = cast.ToFloat64E(value)
	case time.Duration:
		v, err = cast.ToDurationE(value)
	default:
		v = value
	}
	if err != nil {
		return fmt.Errorf("%w for %s: %v", ErrBadValue, key, err)
	}
	c.Set(key, v)
	return nil
}

// CPUProfilePath expands a leading ~ in the profile path.
func (c *Config) CPUProfilePath() string {
	p := c.GetString(ConfigCPUProfile)
	if strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = home + p[1:]
		}
	}
	return p
}
