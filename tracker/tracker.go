// Package tracker writes a per roll trace of a strategy to a pair of CSV
// files, one with the bankroll and the table, one with the line and field
// bets before and after each roll.
package tracker

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/luca-patrignani/crapsim/dice"
	"github.com/luca-patrignani/crapsim/domain/craps"
)

var basicsHeader = []string{
	"sequence", "wager", "odds", "beginning_bankroll", "come_out", "point",
	"bankroll_after_betting", "roll", "bankroll_after_roll",
}

var singleBetsHeader = []string{
	"sequence",
	"before_pass", "before_pass_odds", "before_pass_point",
	"before_dont_pass", "before_dont_pass_odds", "before_dont_pass_point", "before_field",
	"after_pass", "after_pass_odds", "after_pass_point",
	"after_dont_pass", "after_dont_pass_odds", "after_dont_pass_point", "after_field",
}

// FileNames returns the names of the two trace files of a strategy. Blanks
// and the characters .()-' are dropped from the name.
func FileNames(strategy string) (basics, singleBets string) {
	name := strings.Map(func(r rune) rune {
		if strings.ContainsRune(" .()-'", r) {
			return -1
		}
		return r
	}, strategy)
	return "CrapSim" + name + "Basics.csv", "CrapSim" + name + "SingleBets.csv"
}

// singleBets is the wager and point of the bets traced one by one.
type singleBets struct {
	pass, passOdds, passPoint             int
	dontPass, dontPassOdds, dontPassPoint int
	field                                 int
}

func snapshot(bets []craps.Bet, onlyUp bool) singleBets {
	var s singleBets
	for _, b := range bets {
		if onlyUp && b.IsResolved() {
			continue
		}
		switch b.Type() {
		case craps.Pass:
			s.pass, s.passPoint = b.Wager(), b.Point()
		case craps.PassOdds:
			s.passOdds = b.Wager()
		case craps.DontPass:
			s.dontPass, s.dontPassPoint = b.Wager(), b.Point()
		case craps.DontPassOdds:
			s.dontPassOdds = b.Wager()
		case craps.Field:
			s.field = b.Wager()
		}
	}
	return s
}

func (s singleBets) fields() []string {
	return ints(s.pass, s.passOdds, s.passPoint, s.dontPass, s.dontPassOdds, s.dontPassPoint, s.field)
}

func ints(values ...int) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strconv.Itoa(v)
	}
	return out
}

// Tracker traces one strategy. It implements craps.Tracer.
type Tracker struct {
	view       craps.StrategyView
	basics     *csv.Writer
	singleBets *csv.Writer
	closers    []io.Closer

	sequence int
	made     []string
	before   singleBets
}

// New returns a tracker writing to basics and singleBets. Both writers get a
// header row.
func New(view craps.StrategyView, basics, singleBets io.Writer) (*Tracker, error) {
	t := &Tracker{view: view, basics: csv.NewWriter(basics), singleBets: csv.NewWriter(singleBets)}
	if err := t.basics.Write(basicsHeader); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	if err := t.singleBets.Write(singleBetsHeader); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	return t, nil
}

// Create opens the trace files of view's strategy in dir, truncating
// earlier traces.
func Create(dir string, view craps.StrategyView) (*Tracker, error) {
	basicsName, betsName := FileNames(view.Name())
	basics, err := os.Create(filepath.Join(dir, basicsName))
	if err != nil {
		return nil, fmt.Errorf("create trace: %w", err)
	}
	bets, err := os.Create(filepath.Join(dir, betsName))
	if err != nil {
		basics.Close()
		return nil, fmt.Errorf("create trace: %w", err)
	}
	t, err := New(view, basics, bets)
	if err != nil {
		basics.Close()
		bets.Close()
		return nil, err
	}
	t.closers = []io.Closer{basics, bets}
	return t, nil
}

// Factory returns a tracer factory creating trace files in dir.
func Factory(dir string) func(craps.StrategyView) (craps.Tracer, error) {
	return func(view craps.StrategyView) (craps.Tracer, error) {
		t, err := Create(dir, view)
		if err != nil {
			return nil, err
		}
		return t, nil
	}
}

// BetsMade records the strategy and the table once its bets are down.
func (t *Tracker) BetsMade(table craps.TableState) error {
	t.sequence++
	t.before = snapshot(t.view.Bets(), false)
	comeOut := 0
	if table.ComingOut {
		comeOut = 1
	}
	t.made = []string{
		strconv.Itoa(t.sequence),
		strconv.Itoa(t.view.StandardWager()),
		strconv.FormatFloat(t.view.Odds(), 'f', -1, 64),
		strconv.Itoa(t.view.BankrollBeforeBetting()),
		strconv.Itoa(comeOut),
		strconv.Itoa(table.Point),
		strconv.Itoa(t.view.Bankroll()),
	}
	return nil
}

// BetsResolved completes the record of the roll and writes it. Bets that
// were settled by the roll are left out of the after columns.
func (t *Tracker) BetsResolved(r dice.Roll) error {
	if t.made == nil {
		return errors.New("bets resolved before any were made")
	}
	row := append(t.made, strconv.Itoa(r.Value()), strconv.Itoa(t.view.Bankroll()))
	if err := t.basics.Write(row); err != nil {
		return fmt.Errorf("write trace: %w", err)
	}
	after := snapshot(t.view.Bets(), true)
	bets := append([]string{strconv.Itoa(t.sequence)}, t.before.fields()...)
	if err := t.singleBets.Write(append(bets, after.fields()...)); err != nil {
		return fmt.Errorf("write trace: %w", err)
	}
	t.made = nil
	return nil
}

// Flush writes buffered rows to the underlying writers.
func (t *Tracker) Flush() error {
	t.basics.Flush()
	t.singleBets.Flush()
	return errors.Join(t.basics.Error(), t.singleBets.Error())
}

// Close flushes the trace and closes the files opened by Create.
func (t *Tracker) Close() error {
	err := t.Flush()
	for _, c := range t.closers {
		err = errors.Join(err, c.Close())
	}
	t.closers = nil
	return err
}
