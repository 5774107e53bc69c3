package simulation

import (
	"log/slog"

	"github.com/luca-patrignani/crapsim/dice"
	"github.com/luca-patrignani/crapsim/ledger"
)

// Option configures a Simulation.
type Option func(*Simulation)

// WithID replaces the generated simulation ID.
func WithID(id string) Option {
	return func(s *Simulation) {
		if id != "" {
			s.id = id
		}
	}
}

// WithWorkers sets the number of goroutines sharing the runs.
func WithWorkers(n int) Option {
	return func(s *Simulation) {
		s.workers = n
	}
}

// WithSource rolls the dice of worker i with dice.NewSource(kind, seed, i).
func WithSource(kind dice.Kind, seed int64) Option {
	return func(s *Simulation) {
		s.sources = func(stream int) (dice.Source, error) {
			return dice.NewSource(kind, seed, stream)
		}
	}
}

// WithSourceFactory gives full control over the dice of each worker.
func WithSourceFactory(f SourceFactory) Option {
	return func(s *Simulation) {
		if f != nil {
			s.sources = f
		}
	}
}

// WithMaxRollsPerRun bounds the length of a single run.
func WithMaxRollsPerRun(n int) Option {
	return func(s *Simulation) {
		s.maxRolls = n
	}
}

// WithTally reports progress every TallyEvery runs.
func WithTally(f TallyFunc) Option {
	return func(s *Simulation) {
		s.tally = f
	}
}

// WithLedger records every run in l.
func WithLedger(l *ledger.Ledger) Option {
	return func(s *Simulation) {
		s.ledger = l
	}
}

// WithTracer traces the strategies that have Trace set.
func WithTracer(f TracerFactory) Option {
	return func(s *Simulation) {
		s.newTracer = f
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Simulation) {
		if l != nil {
			s.logger = l
		}
	}
}
