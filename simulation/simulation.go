// Package simulation drives a craps table with a set of strategies through a
// number of independent runs and aggregates the results.
package simulation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/luca-patrignani/crapsim/dice"
	"github.com/luca-patrignani/crapsim/domain/craps"
	"github.com/luca-patrignani/crapsim/ledger"
)

// MaxStrategies is the number of StrategyN sections a settings file may
// hold.
const MaxStrategies = 24

// LevelTrace is below slog.LevelDebug. Every roll is logged at this level.
const LevelTrace = slog.LevelDebug - 4

// TallyEvery is the number of runs between two progress reports.
const TallyEvery = 100

// DefaultMaxRollsPerRun bounds a single run.
const DefaultMaxRollsPerRun = 10_000_000

// ErrRunawayRun is returned when a run does not end within the roll guard.
var ErrRunawayRun = errors.New("run did not end")

// TableConfig holds the Table section.
type TableConfig struct {
	Odds         craps.TableOdds
	MinimumWager int
	MaximumWager int
}

// DefaultTableConfig returns the table used when the Table section is
// missing.
func DefaultTableConfig() TableConfig {
	return TableConfig{
		Odds:         craps.Odds3X4X5X,
		MinimumWager: craps.DefaultMinimumWager,
		MaximumWager: craps.DefaultMaximumWager,
	}
}

func (c TableConfig) NewTable() (*craps.Table, error) {
	return craps.NewTable(c.Odds, c.MinimumWager, c.MaximumWager)
}

// Config is everything a simulation needs to run.
type Config struct {
	Table      TableConfig
	Strategies []craps.StrategyConfig
	Runs       int
}

// SourceFactory returns the dice source of one worker.
type SourceFactory func(stream int) (dice.Source, error)

// TracerFactory returns the tracer of a strategy with Trace set. A tracer
// that is also an io.Closer is closed when the simulation ends.
type TracerFactory func(view craps.StrategyView) (craps.Tracer, error)

// TallyFunc reports progress. It is called from the worker goroutines.
type TallyFunc func(done, total int)

// Simulation runs strategies at one table.
type Simulation struct {
	id  string
	cfg Config

	workers   int
	sources   SourceFactory
	maxRolls  int
	tally     TallyFunc
	ledger    *ledger.Ledger
	newTracer TracerFactory
	logger    *slog.Logger

	// strategies as configured, used for the muster.
	strategies []*craps.Strategy
}

// New validates cfg and prepares the simulation. Every strategy is built
// once so that setting errors surface before any roll.
func New(cfg Config, opts ...Option) (*Simulation, error) {
	s := &Simulation{
		id:       uuid.NewString(),
		cfg:      cfg,
		workers:  1,
		maxRolls: DefaultMaxRollsPerRun,
		logger:   slog.Default(),
	}
	s.sources = func(stream int) (dice.Source, error) {
		return dice.NewSource(dice.KindMath, 0, stream)
	}
	for _, opt := range opts {
		opt(s)
	}

	if cfg.Runs < 1 {
		return nil, fmt.Errorf("%w: runs %d must be positive", craps.ErrInvalidSetting, cfg.Runs)
	}
	if len(cfg.Strategies) == 0 || len(cfg.Strategies) > MaxStrategies {
		return nil, fmt.Errorf("%w: %d strategies, want 1-%d", craps.ErrInvalidSetting, len(cfg.Strategies), MaxStrategies)
	}
	if s.workers < 1 {
		return nil, fmt.Errorf("%w: workers %d must be positive", craps.ErrInvalidSetting, s.workers)
	}
	if s.maxRolls < 1 {
		return nil, fmt.Errorf("%w: max rolls per run %d must be positive", craps.ErrInvalidSetting, s.maxRolls)
	}
	table, err := cfg.Table.NewTable()
	if err != nil {
		return nil, fmt.Errorf("table: %w", err)
	}
	s.strategies, err = s.newStrategies(table, cfg.Strategies)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Simulation) newStrategies(table *craps.Table, configs []craps.StrategyConfig) ([]*craps.Strategy, error) {
	strategies := make([]*craps.Strategy, 0, len(configs))
	for _, sc := range configs {
		st, err := craps.NewStrategy(sc, table, craps.WithLogger(s.logger))
		if err != nil {
			return nil, err
		}
		strategies = append(strategies, st)
	}
	return strategies, nil
}

func (s *Simulation) ID() string     { return s.id }
func (s *Simulation) Runs() int      { return s.cfg.Runs }
func (s *Simulation) Config() Config { return s.cfg }

// Muster lists the settings of every strategy after the sanity check.
func (s *Simulation) Muster() []StrategyMuster {
	out := make([]StrategyMuster, len(s.strategies))
	for i, st := range s.strategies {
		out[i] = StrategyMuster{Name: st.Name(), Settings: st.Muster()}
	}
	return out
}

// StrategyMuster is the muster of one strategy.
type StrategyMuster struct {
	Name     string
	Settings []craps.Setting
}

// traced reports whether any strategy writes a trace.
func (s *Simulation) traced() bool {
	if s.newTracer == nil {
		return false
	}
	for _, sc := range s.cfg.Strategies {
		if sc.Trace {
			return true
		}
	}
	return false
}

// Workers returns the number of workers Run uses. Traces are written in roll
// order, so tracing runs on a single worker.
func (s *Simulation) Workers() int {
	if s.traced() {
		return 1
	}
	return min(s.workers, s.cfg.Runs)
}

// Run plays all runs and returns the aggregated result. Runs are split
// between workers, each with its own dice, table and strategies. The context
// is checked between runs.
func (s *Simulation) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	workers := s.Workers()
	s.logger.Info("starting simulation", "id", s.id, "runs", s.cfg.Runs, "strategies", len(s.cfg.Strategies), "workers", workers)

	parts := make([]partial, workers)
	var done atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	for w := range workers {
		first := w * s.cfg.Runs / workers
		last := (w + 1) * s.cfg.Runs / workers
		g.Go(func() error {
			wk, err := s.newWorker(w)
			if err != nil {
				return err
			}
			defer wk.close(s.logger)
			if err := wk.play(ctx, first, last, &done); err != nil {
				return fmt.Errorf("worker %d: %w", w, err)
			}
			parts[w] = wk.partial()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{
		ID:         s.id,
		Runs:       s.cfg.Runs,
		Workers:    workers,
		Table:      s.cfg.Table,
		Strategies: make([]StrategyResult, len(s.strategies)),
	}
	for i, st := range s.strategies {
		res.Strategies[i] = StrategyResult{Config: st.Config()}
	}
	for w, p := range parts {
		res.Dice = res.Dice.Merge(p.dice)
		for i, stats := range p.stats {
			sr := &res.Strategies[i]
			if w == 0 {
				sr.Statistics = stats
				continue
			}
			sr.Statistics = sr.Statistics.Merge(stats)
		}
	}
	res.Elapsed = time.Since(start)
	s.logger.Info("simulation finished", "id", s.id, "rolls", res.Dice.Total(), "elapsed", res.Elapsed)
	return res, nil
}

// partial is what one worker contributes to the result.
type partial struct {
	stats []craps.Statistics
	dice  dice.Histogram
}

type worker struct {
	sim        *Simulation
	index      int
	dice       *dice.Dice
	table      *craps.Table
	strategies []*craps.Strategy
	closers    []io.Closer
}

func (s *Simulation) newWorker(index int) (*worker, error) {
	src, err := s.sources(index)
	if err != nil {
		return nil, fmt.Errorf("dice source %d: %w", index, err)
	}
	table, err := s.cfg.Table.NewTable()
	if err != nil {
		return nil, fmt.Errorf("table: %w", err)
	}
	// Sanity checked settings, so that adjustments are logged only once.
	configs := make([]craps.StrategyConfig, len(s.strategies))
	for i, st := range s.strategies {
		configs[i] = st.Config()
	}
	strategies, err := s.newStrategies(table, configs)
	if err != nil {
		return nil, err
	}
	w := &worker{sim: s, index: index, dice: dice.New(src), table: table, strategies: strategies}
	if s.newTracer != nil {
		for _, st := range strategies {
			if !st.Config().Trace {
				continue
			}
			tr, err := s.newTracer(st)
			if err != nil {
				w.close(s.logger)
				return nil, fmt.Errorf("trace strategy %q: %w", st.Name(), err)
			}
			st.SetTracer(tr)
			if c, ok := tr.(io.Closer); ok {
				w.closers = append(w.closers, c)
			}
		}
	}
	return w, nil
}

func (w *worker) close(logger *slog.Logger) {
	for _, c := range w.closers {
		if err := c.Close(); err != nil {
			logger.Error("closing tracer", "worker", w.index, "error", err)
		}
	}
	w.closers = nil
}

// play runs [first, last).
func (w *worker) play(ctx context.Context, first, last int, done *atomic.Int64) error {
	total := w.sim.cfg.Runs
	for run := first; run < last; run++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		rolls, err := w.playRun(ctx, run)
		if err != nil {
			return fmt.Errorf("run %d: %w", run, err)
		}

		rec := ledger.RunRecord{Run: run, Rolls: rolls, Outcomes: make([]craps.RunOutcome, 0, len(w.strategies))}
		for _, st := range w.strategies {
			rec.Outcomes = append(rec.Outcomes, st.UpdateStatistics())
			st.Reset()
		}
		w.table.Reset()
		w.sim.logger.Debug("run finished", "run", run, "worker", w.index, "rolls", rolls)

		if w.sim.ledger != nil {
			if _, err := w.sim.ledger.Append(rec, w.index); err != nil {
				return fmt.Errorf("record run %d: %w", run, err)
			}
		}
		if n := int(done.Add(1)); w.sim.tally != nil && n%TallyEvery == 0 {
			w.sim.tally(n, total)
		}
	}
	return nil
}

// playRun rolls until no strategy is still playing. Every run has at least
// one roll.
func (w *worker) playRun(ctx context.Context, run int) (int, error) {
	logger := w.sim.logger
	traceRolls := logger.Enabled(ctx, LevelTrace)
	for rolls := 1; ; rolls++ {
		for _, st := range w.strategies {
			if err := st.MakeBets(w.table); err != nil {
				return rolls, err
			}
		}
		r := w.dice.Roll()
		if traceRolls {
			logger.Log(ctx, LevelTrace, "roll", "run", run, "worker", w.index, "roll", r.String(), "point", w.table.Point())
		}
		for _, st := range w.strategies {
			if err := st.ResolveBets(w.table, r); err != nil {
				return rolls, err
			}
		}
		for _, st := range w.strategies {
			st.QualifyTheShooter(w.table, r)
		}
		for _, st := range w.strategies {
			st.ModifyBets(w.table)
		}
		for _, st := range w.strategies {
			st.FinalizeBets()
		}
		w.table.Update(r)

		if !w.stillPlaying() {
			return rolls, nil
		}
		if rolls >= w.sim.maxRolls {
			return rolls, fmt.Errorf("%w after %d rolls", ErrRunawayRun, rolls)
		}
	}
}

func (w *worker) stillPlaying() bool {
	for _, st := range w.strategies {
		if st.StillPlaying() {
			return true
		}
	}
	return false
}

func (w *worker) partial() partial {
	p := partial{stats: make([]craps.Statistics, len(w.strategies)), dice: w.dice.History()}
	for i, st := range w.strategies {
		p.stats[i] = st.Statistics()
	}
	return p
}
