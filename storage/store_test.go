package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/luca-patrignani/crapsim/dice"
	"github.com/luca-patrignani/crapsim/domain/craps"
	"github.com/luca-patrignani/crapsim/ledger"
	"github.com/luca-patrignani/crapsim/simulation"
)

func openTempStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "crapsim.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return store
}

func testResult(id string) *simulation.Result {
	var h dice.Histogram
	h.Add(7, 600)
	h.Add(6, 500)
	h.Add(12, 30)
	cfg := craps.DefaultStrategyConfig()
	cfg.Name = "Elementary"
	craps.ApplyPredefined(&cfg, craps.Elementary)
	return &simulation.Result{
		ID:      id,
		Runs:    100,
		Workers: 4,
		Table:   simulation.TableConfig{Odds: craps.Odds5X, MinimumWager: 10, MaximumWager: 2000},
		Strategies: []simulation.StrategyResult{{
			Config: cfg,
			Statistics: craps.Statistics{
				Measure: craps.MeasureRolls, Runs: 100, Wins: 40, Losses: 60, Pushes: 3, Returns: 1,
				WinMin: 5, WinMax: 300, WinSum: 4000, LossMin: 2, LossMax: 250, LossSum: 3000, MaxBankroll: 2400,
			},
		}},
		Dice:    h,
		Elapsed: 1234 * time.Millisecond,
	}
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open(" "); err == nil {
		t.Fatal("expected empty path error")
	}
}

// TestSaveLoadResultRoundTrip verifies that a saved result reads back unchanged.
func TestSaveLoadResultRoundTrip(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()
	want := testResult("sim-1")

	if err := store.SaveResult(ctx, want); err != nil {
		t.Fatalf("save result: %v", err)
	}
	got, err := store.LoadResult(ctx, "sim-1")
	if err != nil {
		t.Fatalf("load result: %v", err)
	}

	if got.Runs != want.Runs || got.Workers != want.Workers || got.Table != want.Table || got.Elapsed != want.Elapsed {
		t.Fatalf("summary = %+v, want %+v", got, want)
	}
	if got.Dice != want.Dice {
		t.Fatalf("dice = %+v, want %+v", got.Dice, want.Dice)
	}
	if len(got.Strategies) != 1 {
		t.Fatalf("expected 1 strategy, got %d", len(got.Strategies))
	}
	if got.Strategies[0].Statistics != want.Strategies[0].Statistics {
		t.Fatalf("statistics = %+v, want %+v", got.Strategies[0].Statistics, want.Strategies[0].Statistics)
	}
	if got.Strategies[0].Config != want.Strategies[0].Config {
		t.Fatalf("settings = %+v, want %+v", got.Strategies[0].Config, want.Strategies[0].Config)
	}
}

// TestSaveResultDuplicate verifies that a simulation ID cannot be saved twice.
func TestSaveResultDuplicate(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	if err := store.SaveResult(ctx, testResult("sim-1")); err != nil {
		t.Fatalf("save result: %v", err)
	}
	if err := store.SaveResult(ctx, testResult("sim-1")); !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

// TestLoadResultNotFound verifies the error for an unknown simulation.
func TestLoadResultNotFound(t *testing.T) {
	store := openTempStore(t)

	if _, err := store.LoadResult(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := store.LoadLedger(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// TestSaveLoadLedgerRoundTrip verifies that a stored ledger still verifies after reading it back.
func TestSaveLoadLedgerRoundTrip(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	l := ledger.NewLedger("sim-1")
	for run := range 3 {
		rec := ledger.RunRecord{Run: run, Rolls: 10 + run, Outcomes: []craps.RunOutcome{
			{Strategy: "Elementary", Won: run%2 == 0, Rolls: 10 + run, Bankroll: 1000 + run, Value: 10 + run},
		}}
		if _, err := l.Append(rec, run%2, map[string]string{"source": "math"}); err != nil {
			t.Fatalf("append run %d: %v", run, err)
		}
	}
	if err := store.SaveLedger(ctx, l); err != nil {
		t.Fatalf("save ledger: %v", err)
	}

	got, err := store.LoadLedger(ctx, "sim-1")
	if err != nil {
		t.Fatalf("load ledger: %v", err)
	}
	if got.Len() != 4 {
		t.Fatalf("expected 4 blocks, got %d", got.Len())
	}
	latest, _ := got.GetLatest()
	want, _ := l.GetLatest()
	if latest.Hash != want.Hash || latest.Metadata.Extra["source"] != "math" {
		t.Fatalf("latest block = %+v, want %+v", latest, want)
	}

	if err := store.SaveLedger(ctx, l); !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

// TestCanceledContext verifies that no work is done once the context is done.
func TestCanceledContext(t *testing.T) {
	store := openTempStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := store.SaveResult(ctx, testResult("sim-1")); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
