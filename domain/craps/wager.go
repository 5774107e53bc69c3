package craps

import (
	"fmt"
	"math"

	"github.com/luca-patrignani/crapsim/dice"
)

// WagerProgression sizes the next bet from the result of the last one.
type WagerProgression int

const (
	NoWagerProgression WagerProgression = iota
	OneThreeTwoSix
	Fibonacci
	Martingale
	Paroli
)

var wagerProgressionNames = []string{"NO_METHOD", "1_3_2_6", "FIBONACCI", "MARTINGALE", "PAROLI"}

func ParseWagerProgression(s string) (WagerProgression, error) {
	return parseName[WagerProgression]("wager progression method", wagerProgressionNames, s)
}

func (p WagerProgression) String() string {
	return nameOf(wagerProgressionNames, p)
}

// Wager sizes bets in units of the standard wager and keeps them inside the
// table limits and the bankroll.
type Wager struct {
	standard  int
	tableMin  int
	tableMax  int
	fullWager bool

	progression WagerProgression
	units       int
	previous1   int
	previous2   int

	modification      BetModification
	modificationLimit int
	wins              int
}

func NewWager(standard int) (*Wager, error) {
	if standard < 1 {
		return nil, fmt.Errorf("%w: standard wager %d must be positive", ErrInvalidSetting, standard)
	}
	w := &Wager{
		standard: standard,
		tableMin: 1,
		tableMax: math.MaxInt,
	}
	w.Reset()
	return w, nil
}

// SetTableLimits fails when the standard wager is outside [min, max].
func (w *Wager) SetTableLimits(minimum, maximum int) error {
	if w.standard < minimum || w.standard > maximum {
		return fmt.Errorf("%w: standard wager %d outside table limits %d-%d", ErrInvalidSetting, w.standard, minimum, maximum)
	}
	w.tableMin = minimum
	w.tableMax = maximum
	return nil
}

func (w *Wager) SetFullWager(b bool) { w.fullWager = b }

func (w *Wager) SetProgression(p WagerProgression) { w.progression = p }

func (w *Wager) StandardWager() int                   { return w.standard }
func (w *Wager) Units() int                           { return w.units }
func (w *Wager) FullWager() bool                      { return w.fullWager }
func (w *Wager) Progression() WagerProgression        { return w.progression }
func (w *Wager) UsesProgression() bool                { return w.progression != NoWagerProgression }
func (w *Wager) TableLimits() (minimum, maximum int) { return w.tableMin, w.tableMax }

// BetWager is the wager for a flat bet at the current progression units.
func (w *Wager) BetWager(bankroll int) int {
	return w.check(w.standard*w.units, bankroll, w.tableMin)
}

// BetUnitsWager is the wager for a flat bet of a fixed number of units.
func (w *Wager) BetUnitsWager(bankroll, units int) int {
	return w.check(w.standard*max(units, 1), bankroll, w.tableMin)
}

// PlaceBetUnitsWager is the wager for a place bet on point. Zero or negative
// units follow the progression. With full wagers the amount is rounded up
// so that the bet pays whole units.
func (w *Wager) PlaceBetUnitsWager(bankroll, units, point int) (int, error) {
	if !dice.IsPointNumber(point) {
		return 0, fmt.Errorf("place wager on %d: %w", point, ErrUnknownPoint)
	}
	if units <= 0 {
		units = w.units
	}
	amount := w.standard * units
	if w.fullWager {
		amount = placeFullPayoff(point, amount)
	}
	return w.check(amount, bankroll, w.tableMin), nil
}

// OddsBetWager is the odds behind a line bet of wager on point. With full
// wagers the amount is rounded down so that the bet pays whole units.
func (w *Wager) OddsBetWager(bankroll, wager, point int, odds float64) (int, error) {
	if !dice.IsPointNumber(point) {
		return 0, fmt.Errorf("odds wager on %d: %w", point, ErrUnknownPoint)
	}
	amount := int(float64(wager) * odds)
	if w.fullWager {
		amount = oddsFullPayoff(point, amount)
	}
	return w.check(amount, bankroll, 1), nil
}

// check caps amount at the table maximum and the bankroll. A bet the
// bankroll cannot cover falls back to the standard wager; zero means no bet.
func (w *Wager) check(amount, bankroll, minimum int) int {
	amount = min(amount, w.tableMax)
	if amount > bankroll {
		amount = min(w.standard, bankroll)
	}
	if amount < minimum || amount <= 0 {
		return 0
	}
	return amount
}

func oddsFullPayoff(point, amount int) int {
	var m int
	switch point {
	case 4, 10:
		m = 1
	case 5, 9:
		m = 2
	default:
		m = 5
	}
	return amount - amount%m
}

func placeFullPayoff(point, amount int) int {
	m := 5
	if point == 6 || point == 8 {
		m = 6
	}
	if r := amount % m; r != 0 {
		amount += m - r
	}
	return amount
}

// Progress advances the progression after a decided bet and returns the
// units for the next one.
func (w *Wager) Progress(state BetState) int {
	if state != Won && state != Lost {
		return w.units
	}
	switch w.progression {
	case NoWagerProgression:
	case Martingale:
		if state == Lost {
			w.units *= 2
		} else {
			w.units = 1
		}
	case Fibonacci:
		if state == Won {
			w.resetUnits()
			break
		}
		w.units = w.previous1 + w.previous2
		w.previous2 = w.previous1
		w.previous1 = w.units
	case OneThreeTwoSix:
		if state == Lost {
			w.units = 1
			break
		}
		switch w.units {
		case 1:
			w.units = 3
		case 3:
			w.units = 2
		case 2:
			w.units = 6
		default:
			w.units = 1
		}
	case Paroli:
		if state == Lost {
			w.units = 1
		} else {
			w.units++
		}
	}
	return w.units
}

func (w *Wager) resetUnits() {
	w.units = 1
	w.previous1 = 1
	w.previous2 = 0
}

// Reset readies the wager for a new run.
func (w *Wager) Reset() {
	w.resetUnits()
	w.wins = 0
}
