package tracker

import (
	"bytes"
	"encoding/csv"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/luca-patrignani/crapsim/dice"
	"github.com/luca-patrignani/crapsim/domain/craps"
)

// newTracedStrategy returns a pass line strategy with single odds at a
// 3-4-5x table.
func newTracedStrategy(t *testing.T, name string) (*craps.Strategy, *craps.Table) {
	t.Helper()
	table, err := craps.NewTable(craps.Odds3X4X5X, 5, 5000)
	if err != nil {
		t.Fatalf("unexpected error creating table: %v", err)
	}
	cfg := craps.DefaultStrategyConfig()
	cfg.Name = name
	cfg.InitialBankroll = 200
	cfg.PassBet = true
	s, err := craps.NewStrategy(cfg, table, craps.WithLogger(slog.New(slog.DiscardHandler)))
	if err != nil {
		t.Fatalf("unexpected error creating strategy: %v", err)
	}
	return s, table
}

// play runs the roll cycle once per roll.
func play(t *testing.T, s *craps.Strategy, table *craps.Table, rolls ...dice.Roll) {
	t.Helper()
	for _, r := range rolls {
		if err := s.MakeBets(table); err != nil {
			t.Fatalf("make bets: %v", err)
		}
		if err := s.ResolveBets(table, r); err != nil {
			t.Fatalf("resolve bets: %v", err)
		}
		s.QualifyTheShooter(table, r)
		s.ModifyBets(table)
		s.FinalizeBets()
		table.Update(r)
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return records
}

// TestFileNames verifies that trace file names drop blanks and punctuation from the strategy name.
func TestFileNames(t *testing.T) {
	tests := []struct {
		name       string
		basics     string
		singleBets string
	}{
		{"Elementary", "CrapSimElementaryBasics.csv", "CrapSimElementarySingleBets.csv"},
		{"Don't Pass (3-4-5x)", "CrapSimDontPass345xBasics.csv", "CrapSimDontPass345xSingleBets.csv"},
		{"Mr. Field", "CrapSimMrFieldBasics.csv", "CrapSimMrFieldSingleBets.csv"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			basics, singleBets := FileNames(tt.name)
			if basics != tt.basics || singleBets != tt.singleBets {
				t.Fatalf("expected %s and %s, got %s and %s", tt.basics, tt.singleBets, basics, singleBets)
			}
		})
	}
}

// TestTrackerRecordsPassLineWithOdds verifies the trace of a point made with odds behind it.
func TestTrackerRecordsPassLineWithOdds(t *testing.T) {
	dir := t.TempDir()
	s, table := newTracedStrategy(t, "Pass (Odds)")
	tr, err := Create(dir, s)
	if err != nil {
		t.Fatalf("unexpected error creating tracker: %v", err)
	}
	s.SetTracer(tr)

	play(t, s, table, dice.Easy(4), dice.Easy(4))
	if err := tr.Close(); err != nil {
		t.Fatalf("unexpected error closing tracker: %v", err)
	}

	basics := readCSV(t, filepath.Join(dir, "CrapSimPassOddsBasics.csv"))
	wantBasics := [][]string{
		basicsHeader,
		{"1", "10", "1", "200", "1", "0", "190", "4", "190"},
		{"2", "10", "1", "190", "0", "4", "180", "4", "230"},
	}
	if !reflect.DeepEqual(basics, wantBasics) {
		t.Fatalf("unexpected basics trace:\n got %v\nwant %v", basics, wantBasics)
	}

	bets := readCSV(t, filepath.Join(dir, "CrapSimPassOddsSingleBets.csv"))
	wantBets := [][]string{
		singleBetsHeader,
		{"1", "10", "0", "0", "0", "0", "0", "0", "10", "0", "4", "0", "0", "0", "0"},
		{"2", "10", "10", "4", "0", "0", "0", "0", "0", "0", "0", "0", "0", "0", "0"},
	}
	if !reflect.DeepEqual(bets, wantBets) {
		t.Fatalf("unexpected single bets trace:\n got %v\nwant %v", bets, wantBets)
	}
}

// TestTrackerWriters verifies that a tracker over plain writers flushes on demand.
func TestTrackerWriters(t *testing.T) {
	s, table := newTracedStrategy(t, "Buffered")
	var basics, bets bytes.Buffer
	tr, err := New(s, &basics, &bets)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.SetTracer(tr)

	play(t, s, table, dice.Easy(7))
	if err := tr.Flush(); err != nil {
		t.Fatalf("unexpected error flushing: %v", err)
	}

	want := "sequence,wager,odds,beginning_bankroll,come_out,point,bankroll_after_betting,roll,bankroll_after_roll\n" +
		"1,10,1,200,1,0,190,7,210\n"
	if basics.String() != want {
		t.Fatalf("unexpected basics trace %q", basics.String())
	}
	if err := tr.Close(); err != nil {
		t.Fatalf("closing a tracker without files should succeed: %v", err)
	}
}

// TestTrackerResolvedBeforeMade verifies that an out of order call is reported.
func TestTrackerResolvedBeforeMade(t *testing.T) {
	s, _ := newTracedStrategy(t, "Out Of Order")
	tr, err := New(s, &bytes.Buffer{}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := tr.BetsResolved(dice.Easy(6)); err == nil {
		t.Fatal("expected error")
	}
}

// TestCreateMissingDirectory verifies that an unwritable trace directory fails the factory.
func TestCreateMissingDirectory(t *testing.T) {
	s, _ := newTracedStrategy(t, "Nowhere")
	factory := Factory(filepath.Join(t.TempDir(), "missing"))

	tr, err := factory(s)
	if err == nil || !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected a not exist error, got %v", err)
	}
	if tr != nil {
		t.Fatalf("expected no tracer, got %v", tr)
	}
}
