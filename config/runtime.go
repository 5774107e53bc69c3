package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/luca-patrignani/crapsim/dice"
	"github.com/luca-patrignani/crapsim/simulation"
)

// LevelTrace is the level selected by CRAPSIM_LOG_LEVEL=trace.
const LevelTrace = simulation.LevelTrace

// Runtime holds the options that change how a simulation is run but not its
// rules.
type Runtime struct {
	Seed           int64  `env:"CRAPSIM_SEED"`
	Workers        int    `env:"CRAPSIM_WORKERS" envDefault:"1"`
	RandomSource   string `env:"CRAPSIM_RANDOM_SOURCE" envDefault:"math"`
	LogLevel       string `env:"CRAPSIM_LOG_LEVEL" envDefault:"info"`
	TraceDir       string `env:"CRAPSIM_TRACE_DIR" envDefault:"."`
	ResultsDB      string `env:"CRAPSIM_RESULTS_DB"`
	Ledger         bool   `env:"CRAPSIM_LEDGER"`
	MaxRollsPerRun int    `env:"CRAPSIM_MAX_ROLLS_PER_RUN" envDefault:"10000000"`
}

// LoadRuntime loads dotenvPath into the environment, if the file exists, and
// reads the runtime options from it.
func LoadRuntime(dotenvPath string) (Runtime, error) {
	if dotenvPath != "" {
		if err := godotenv.Load(dotenvPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Runtime{}, fmt.Errorf("load %s: %w", dotenvPath, err)
		}
	}
	return parseRuntime(env.Options{})
}

func parseRuntime(opts env.Options) (Runtime, error) {
	var r Runtime
	if err := env.ParseWithOptions(&r, opts); err != nil {
		return Runtime{}, fmt.Errorf("parse env: %w", err)
	}
	if err := r.Validate(); err != nil {
		return Runtime{}, err
	}
	return r, nil
}

// Validate checks the options that env cannot.
func (r Runtime) Validate() error {
	if r.Workers < 1 {
		return fmt.Errorf("%w: CRAPSIM_WORKERS=%d must be positive", ErrInvalidValue, r.Workers)
	}
	if r.MaxRollsPerRun < 1 {
		return fmt.Errorf("%w: CRAPSIM_MAX_ROLLS_PER_RUN=%d must be positive", ErrInvalidValue, r.MaxRollsPerRun)
	}
	if _, err := r.Source(); err != nil {
		return fmt.Errorf("%w: CRAPSIM_RANDOM_SOURCE: %w", ErrInvalidValue, err)
	}
	if _, err := r.Level(); err != nil {
		return fmt.Errorf("%w: CRAPSIM_LOG_LEVEL: %w", ErrInvalidValue, err)
	}
	return nil
}

// Source returns the kind of dice source to roll with.
func (r Runtime) Source() (dice.Kind, error) {
	return dice.ParseKind(r.RandomSource)
}

// Level returns the log level. Besides the slog names it accepts trace.
func (r Runtime) Level() (slog.Level, error) {
	if strings.EqualFold(strings.TrimSpace(r.LogLevel), "trace") {
		return LevelTrace, nil
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(r.LogLevel))); err != nil {
		return 0, err
	}
	return l, nil
}
