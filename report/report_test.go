package report

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/pterm/pterm"
	"golang.org/x/text/language"

	"github.com/luca-patrignani/crapsim/dice"
	"github.com/luca-patrignani/crapsim/domain/craps"
	"github.com/luca-patrignani/crapsim/simulation"
)

func TestMain(m *testing.M) {
	pterm.DisableStyling()
	os.Exit(m.Run())
}

func testResult() *simulation.Result {
	var h dice.Histogram
	for _, v := range []int{7, 7, 6, 8, 2} {
		h.Record(v)
	}
	elementary := craps.DefaultStrategyConfig()
	elementary.Name = "Elementary"
	timed := craps.DefaultStrategyConfig()
	timed.Name = "Timed Field"
	return &simulation.Result{
		ID:      "sim-1",
		Runs:    2000,
		Workers: 2,
		Table:   simulation.DefaultTableConfig(),
		Strategies: []simulation.StrategyResult{
			{Config: elementary, Statistics: craps.Statistics{
				Measure: craps.MeasureRolls, Runs: 2000, Wins: 500, Losses: 1500,
				WinMin: 12, WinMax: 4321, WinSum: 500 * 150, LossMin: 3, LossMax: 900, LossSum: 1500 * 60,
				MaxBankroll: 12345,
			}},
			{Config: timed, Statistics: craps.Statistics{
				Measure: craps.MeasureBankroll, Runs: 2000, Wins: 1000, Losses: 1000, Returns: 7,
			}},
		},
		Dice:    h,
		Elapsed: 1500 * time.Millisecond,
	}
}

// TestResults verifies that both measures get their own table with grouped numbers.
func TestResults(t *testing.T) {
	var out bytes.Buffer
	c := NewContext(&out, language.English)

	if err := c.Results(testResult()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := out.String()
	for _, want := range []string{"Elementary", "Timed Field", "2,000", "1,500", "25.00", "4,321", "12,345", "Rolls at Win Avg", "Bankroll at Loss Avg", "2,000 runs in 1.5s"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in report:\n%s", want, got)
		}
	}
}

// TestResultsHeaderOnce verifies that a context prints each results header a single time.
func TestResultsHeaderOnce(t *testing.T) {
	var out bytes.Buffer
	c := NewContext(&out, language.English)

	for range 2 {
		if err := c.Results(testResult()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if n := strings.Count(out.String(), "Rolls at Win Avg"); n != 1 {
		t.Fatalf("expected the header once, got %d times", n)
	}
	if n := strings.Count(out.String(), "Elementary"); n != 2 {
		t.Fatalf("expected a row per call, got %d", n)
	}

	// A new context starts over.
	out.Reset()
	if err := NewContext(&out, language.English).Results(testResult()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "Rolls at Win Avg") {
		t.Fatal("a new context should print the header")
	}
}

// TestDice verifies the dice history table.
func TestDice(t *testing.T) {
	var out bytes.Buffer
	c := NewContext(&out, language.English)

	if err := c.Dice(testResult().Dice); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := out.String()
	for _, want := range []string{"Dice History", "40.00", "20.00", "Total", "100.00"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in dice history:\n%s", want, got)
		}
	}
}

// TestDiceEmpty verifies that an empty history renders without a chart.
func TestDiceEmpty(t *testing.T) {
	var out bytes.Buffer
	if err := NewContext(&out, language.English).Dice(dice.Histogram{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(out.String(), "100.00") {
		t.Fatalf("an empty history should not total 100%%:\n%s", out.String())
	}
}

// TestMuster verifies that every setting of every strategy is listed.
func TestMuster(t *testing.T) {
	var out bytes.Buffer
	c := NewContext(&out, language.English)

	musters := []simulation.StrategyMuster{
		{Name: "Elementary", Settings: []craps.Setting{{Key: "Pass Bet", Value: "true"}, {Key: "Standard Odds", Value: "1.0"}}},
		{Name: "Field", Settings: []craps.Setting{{Key: "Field Bet", Value: "true"}}},
	}
	if err := c.Muster(musters); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := out.String()
	for _, want := range []string{"Muster", "Elementary", "Pass Bet", "Standard Odds", "1.0", "Field Bet"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in muster:\n%s", want, got)
		}
	}
}

// TestTallyLine verifies the progress line with digit grouping.
func TestTallyLine(t *testing.T) {
	c := NewContext(&bytes.Buffer{}, language.English)

	if got := c.TallyLine(1200, 10000); got != "Completed 1,200 out of 10,000 runs" {
		t.Fatalf("unexpected tally %q", got)
	}
}
