package simulation

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/luca-patrignani/crapsim/dice"
	"github.com/luca-patrignani/crapsim/domain/craps"
	"github.com/luca-patrignani/crapsim/ledger"
)

var quiet = WithLogger(slog.New(slog.DiscardHandler))

// scripted gives every worker the same fixed roll sequence.
func scripted(values ...int) Option {
	return WithSourceFactory(func(int) (dice.Source, error) {
		return dice.NewScriptedRolls(values...), nil
	})
}

// fieldConfig bets the field for three rolls: 9 wins, 5 loses, 12 pays 3 to 1.
func fieldConfig(name string) craps.StrategyConfig {
	cfg := craps.DefaultStrategyConfig()
	cfg.Name = name
	cfg.FieldBet = true
	cfg.PlayForNumberOfRolls = 3
	return cfg
}

func newTestSimulation(t *testing.T, cfg Config, opts ...Option) *Simulation {
	t.Helper()
	sim, err := New(cfg, append([]Option{quiet}, opts...)...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return sim
}

func TestRun_ScriptedRolls(t *testing.T) {
	for _, workers := range []int{1, 2, 4} {
		cfg := Config{
			Table:      DefaultTableConfig(),
			Strategies: []craps.StrategyConfig{fieldConfig("Field")},
			Runs:       4,
		}
		sim := newTestSimulation(t, cfg, scripted(9, 5, 12), WithWorkers(workers))

		res, err := sim.Run(context.Background())
		if err != nil {
			t.Fatalf("%d workers: unexpected error: %v", workers, err)
		}
		if res.Workers != workers {
			t.Fatalf("expected %d workers, got %d", workers, res.Workers)
		}
		st := res.Strategies[0].Statistics
		if st.Measure != craps.MeasureBankroll || st.Runs != 4 || st.Wins != 4 {
			t.Fatalf("%d workers: unexpected statistics %+v", workers, st)
		}
		if st.WinMin != 1030 || st.WinMax != 1030 || st.WinAverage() != 1030 {
			t.Fatalf("%d workers: expected every run to end at 1030, got %+v", workers, st)
		}
		for _, v := range []int{9, 5, 12} {
			if res.Dice.Count(v) != 4 {
				t.Fatalf("%d workers: expected four rolls of %d, got %d", workers, v, res.Dice.Count(v))
			}
		}
		if res.Dice.Total() != 12 {
			t.Fatalf("%d workers: expected 12 rolls, got %d", workers, res.Dice.Total())
		}
	}
}

func TestRun_StrategiesShareRolls(t *testing.T) {
	pass := craps.DefaultStrategyConfig()
	pass.Name = "Pass"
	pass.PassBet = true
	pass.StandardOdds = 0
	pass.PlayForNumberOfRolls = 3
	cfg := Config{
		Table:      DefaultTableConfig(),
		Strategies: []craps.StrategyConfig{fieldConfig("Field"), pass},
		Runs:       2,
	}
	sim := newTestSimulation(t, cfg, scripted(9, 5, 12))

	res, err := sim.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The pass bet is still waiting on the nine; it counts towards the
	// final bankroll.
	st := res.Strategies[1].Statistics
	if st.Wins != 2 || st.WinMax != 1000 {
		t.Fatalf("unexpected pass statistics %+v", st)
	}
	if res.Dice.Total() != 6 {
		t.Fatalf("both strategies must see the same 3 rolls per run, got %d rolls", res.Dice.Total())
	}
}

func TestRun_RunawayRun(t *testing.T) {
	cfg := fieldConfig("Forever")
	cfg.PlayForNumberOfRolls = 0
	sim := newTestSimulation(t, Config{
		Table:      DefaultTableConfig(),
		Strategies: []craps.StrategyConfig{cfg},
		Runs:       1,
	}, scripted(9, 5), WithMaxRollsPerRun(50))

	if _, err := sim.Run(context.Background()); !errors.Is(err, ErrRunawayRun) {
		t.Fatalf("expected ErrRunawayRun, got %v", err)
	}
}

func TestRun_Canceled(t *testing.T) {
	sim := newTestSimulation(t, Config{
		Table:      DefaultTableConfig(),
		Strategies: []craps.StrategyConfig{fieldConfig("Field")},
		Runs:       10,
	}, scripted(9, 5, 12))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := sim.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRun_Tally(t *testing.T) {
	var (
		mu    sync.Mutex
		calls [][2]int
	)
	sim := newTestSimulation(t, Config{
		Table:      DefaultTableConfig(),
		Strategies: []craps.StrategyConfig{fieldConfig("Field")},
		Runs:       250,
	}, scripted(9, 5, 12), WithTally(func(done, total int) {
		mu.Lock()
		defer mu.Unlock()
		calls = append(calls, [2]int{done, total})
	}))

	if _, err := sim.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(calls) != 2 || calls[0] != [2]int{100, 250} || calls[1] != [2]int{200, 250} {
		t.Fatalf("unexpected tally calls %v", calls)
	}
}

func TestRun_Ledger(t *testing.T) {
	l := ledger.NewLedger("sim-test")
	sim := newTestSimulation(t, Config{
		Table:      DefaultTableConfig(),
		Strategies: []craps.StrategyConfig{fieldConfig("Field")},
		Runs:       4,
	}, scripted(9, 5, 12), WithID("sim-test"), WithLedger(l), WithWorkers(2))

	if sim.ID() != "sim-test" {
		t.Fatalf("unexpected ID %q", sim.ID())
	}
	if _, err := sim.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.Len() != 5 {
		t.Fatalf("expected genesis and 4 runs, got %d blocks", l.Len())
	}
	if err := l.Verify(); err != nil {
		t.Fatalf("ledger verification failed: %v", err)
	}
	latest, _ := l.GetLatest()
	if latest.Run.Rolls != 3 || len(latest.Run.Outcomes) != 1 || latest.Run.Outcomes[0].Value != 1030 {
		t.Fatalf("unexpected run record %+v", latest.Run)
	}
}

type countingTracer struct {
	mu       sync.Mutex
	made     int
	resolved int
	closed   bool
}

func (c *countingTracer) BetsMade(craps.TableState) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.made++
	return nil
}

func (c *countingTracer) BetsResolved(dice.Roll) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resolved++
	return nil
}

func (c *countingTracer) Close() error {
	c.closed = true
	return nil
}

func TestRun_TracingUsesOneWorker(t *testing.T) {
	traced := fieldConfig("Traced")
	traced.Trace = true
	tr := &countingTracer{}
	var names []string
	sim := newTestSimulation(t, Config{
		Table:      DefaultTableConfig(),
		Strategies: []craps.StrategyConfig{fieldConfig("Plain"), traced},
		Runs:       4,
	}, scripted(9, 5, 12), WithWorkers(4), WithTracer(func(view craps.StrategyView) (craps.Tracer, error) {
		names = append(names, view.Name())
		return tr, nil
	}))

	if sim.Workers() != 1 {
		t.Fatalf("expected tracing to force one worker, got %d", sim.Workers())
	}
	if _, err := sim.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(names) != 1 || names[0] != "Traced" {
		t.Fatalf("expected only the traced strategy to get a tracer, got %v", names)
	}
	if tr.made != 12 || tr.resolved != 12 {
		t.Fatalf("expected 12 traced rolls, got %d made and %d resolved", tr.made, tr.resolved)
	}
	if !tr.closed {
		t.Fatal("expected the tracer to be closed")
	}
}

func TestRun_TracerError(t *testing.T) {
	traced := fieldConfig("Traced")
	traced.Trace = true
	boom := errors.New("no space left")
	sim := newTestSimulation(t, Config{
		Table:      DefaultTableConfig(),
		Strategies: []craps.StrategyConfig{traced},
		Runs:       1,
	}, scripted(9, 5, 12), WithTracer(func(craps.StrategyView) (craps.Tracer, error) {
		return nil, boom
	}))

	if _, err := sim.Run(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected the tracer error, got %v", err)
	}
}

func TestRun_SeededSourceIsDeterministic(t *testing.T) {
	elementary := craps.DefaultStrategyConfig()
	elementary.InitialBankroll = 100
	craps.ApplyPredefined(&elementary, craps.Elementary)
	field := fieldConfig("Field")
	field.PlayForNumberOfRolls = 20

	for _, kind := range []dice.Kind{dice.KindMath, dice.KindKyber} {
		run := func() *Result {
			sim := newTestSimulation(t, Config{
				Table:      DefaultTableConfig(),
				Strategies: []craps.StrategyConfig{elementary, field},
				Runs:       30,
			}, WithSource(kind, 42), WithWorkers(3))
			res, err := sim.Run(context.Background())
			if err != nil {
				t.Fatalf("%s: unexpected error: %v", kind, err)
			}
			return res
		}
		a, b := run(), run()
		if a.Dice != b.Dice {
			t.Fatalf("%s: dice differ between seeded simulations", kind)
		}
		for i := range a.Strategies {
			if a.Strategies[i].Statistics != b.Strategies[i].Statistics {
				t.Fatalf("%s: statistics of %s differ: %+v vs %+v", kind, a.Strategies[i].Name(),
					a.Strategies[i].Statistics, b.Strategies[i].Statistics)
			}
			if a.Strategies[i].Statistics.Runs != 30 {
				t.Fatalf("%s: expected 30 runs, got %d", kind, a.Strategies[i].Statistics.Runs)
			}
		}
	}
}

func TestNew_Invalid(t *testing.T) {
	valid := []craps.StrategyConfig{fieldConfig("Field")}
	many := make([]craps.StrategyConfig, MaxStrategies+1)
	for i := range many {
		many[i] = fieldConfig("Field")
	}
	broken := fieldConfig("Broken")
	broken.StandardWager = 0

	tests := []struct {
		name string
		cfg  Config
		opts []Option
	}{
		{"no runs", Config{Table: DefaultTableConfig(), Strategies: valid}, nil},
		{"no strategies", Config{Table: DefaultTableConfig(), Runs: 1}, nil},
		{"too many strategies", Config{Table: DefaultTableConfig(), Strategies: many, Runs: 1}, nil},
		{"table minimum", Config{Table: TableConfig{Odds: craps.Odds1X, MaximumWager: 100}, Strategies: valid, Runs: 1}, nil},
		{"broken strategy", Config{Table: DefaultTableConfig(), Strategies: []craps.StrategyConfig{broken}, Runs: 1}, nil},
		{"no workers", Config{Table: DefaultTableConfig(), Strategies: valid, Runs: 1}, []Option{WithWorkers(0)}},
		{"no roll guard", Config{Table: DefaultTableConfig(), Strategies: valid, Runs: 1}, []Option{WithMaxRollsPerRun(0)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg, append([]Option{quiet}, tt.opts...)...)
			if !errors.Is(err, craps.ErrInvalidSetting) {
				t.Fatalf("expected ErrInvalidSetting, got %v", err)
			}
		})
	}
}

func TestSimulation_Muster(t *testing.T) {
	martingale := fieldConfig("Martingale")
	martingale.WagerProgression = craps.Martingale
	martingale.FieldBetUnits = 2
	sim := newTestSimulation(t, Config{
		Table:      DefaultTableConfig(),
		Strategies: []craps.StrategyConfig{fieldConfig("Field"), martingale},
		Runs:       1,
	})

	muster := sim.Muster()
	if len(muster) != 2 || muster[0].Name != "Field" || muster[1].Name != "Martingale" {
		t.Fatalf("unexpected muster %+v", muster)
	}
	for _, s := range muster[1].Settings {
		if s.Key == "Field Bet Units" && s.Value != "1" {
			t.Fatalf("muster should show sanity checked settings, got field units %s", s.Value)
		}
	}
}
