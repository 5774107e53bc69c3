package craps

import (
	"fmt"

	"github.com/luca-patrignani/crapsim/dice"
)

const (
	DefaultMinimumWager = 5
	DefaultMaximumWager = 5000
	// BarRoll is the come out craps number that pushes don't bets.
	BarRoll = 12
)

// TableOdds is the odds policy posted at the table.
type TableOdds int

const (
	Odds1X TableOdds = iota
	Odds2X
	OddsFullDouble
	Odds3X
	Odds3X4X5X
	Odds5X
	Odds10X
	Odds20X
	Odds100X
)

var tableOddsNames = []string{"1X", "2X", "FULL_DOUBLE", "3X", "3X_4X_5X", "5X", "10X", "20X", "100X"}

func ParseTableOdds(s string) (TableOdds, error) {
	return parseName[TableOdds]("table odds", tableOddsNames, s)
}

func (o TableOdds) String() string {
	return nameOf(tableOddsNames, o)
}

// TableState is a read only snapshot of the table.
type TableState struct {
	ComingOut  bool
	Point      int
	NewShooter bool
}

// Table tracks the puck, the point and the shooter. The point is non zero
// exactly when the puck is on.
type Table struct {
	minimumWager int
	maximumWager int
	odds         TableOdds
	point        int
	puckOn       bool
	newShooter   bool
}

func NewTable(odds TableOdds, minimumWager, maximumWager int) (*Table, error) {
	if int(odds) < 0 || int(odds) >= len(tableOddsNames) {
		return nil, fmt.Errorf("%w: table odds %d", ErrUnknownMethod, odds)
	}
	if minimumWager < 1 {
		return nil, fmt.Errorf("%w: minimum wager %d must be positive", ErrInvalidSetting, minimumWager)
	}
	if maximumWager < minimumWager {
		return nil, fmt.Errorf("%w: maximum wager %d below minimum %d", ErrInvalidSetting, maximumWager, minimumWager)
	}
	return &Table{
		minimumWager: minimumWager,
		maximumWager: maximumWager,
		odds:         odds,
		newShooter:   true,
	}, nil
}

// Update moves the table to its next state after roll r.
func (t *Table) Update(r dice.Roll) {
	if !t.puckOn {
		if !r.IsCraps() && !r.IsNatural() {
			t.point = r.Value()
			t.puckOn = true
		}
		return
	}
	switch {
	case r.IsSeven():
		t.point = 0
		t.puckOn = false
		t.newShooter = true
	case r.Is(t.point):
		t.point = 0
		t.puckOn = false
		t.newShooter = false
	}
}

// Reset brings a new shooter to a come out roll.
func (t *Table) Reset() {
	t.point = 0
	t.puckOn = false
	t.newShooter = true
}

func (t *Table) IsComingOut() bool { return !t.puckOn }
func (t *Table) PuckOn() bool      { return t.puckOn }
func (t *Table) Point() int        { return t.point }
func (t *Table) NewShooter() bool  { return t.newShooter }
func (t *Table) MinimumWager() int { return t.minimumWager }
func (t *Table) MaximumWager() int { return t.maximumWager }
func (t *Table) Odds() TableOdds   { return t.odds }

// Bar describes the don't bet bar number.
func (t *Table) Bar() string { return fmt.Sprintf("Bar %d", BarRoll) }

func (t *Table) State() TableState {
	return TableState{ComingOut: !t.puckOn, Point: t.point, NewShooter: t.newShooter}
}

// MaxOdds returns the largest odds multiple allowed behind a bet on point.
func (t *Table) MaxOdds(point int) (float64, error) {
	if !dice.IsPointNumber(point) {
		return 0, fmt.Errorf("max odds for %d: %w", point, ErrUnknownPoint)
	}
	switch t.odds {
	case Odds1X:
		return 1, nil
	case Odds2X:
		return 2, nil
	case OddsFullDouble:
		if point == 6 || point == 8 {
			return 2.5, nil
		}
		return 2, nil
	case Odds3X:
		return 3, nil
	case Odds3X4X5X:
		switch point {
		case 4, 10:
			return 3, nil
		case 5, 9:
			return 4, nil
		default:
			return 5, nil
		}
	case Odds5X:
		return 5, nil
	case Odds10X:
		return 10, nil
	case Odds20X:
		return 20, nil
	case Odds100X:
		return 100, nil
	}
	return 0, fmt.Errorf("%w: table odds %d", ErrUnknownMethod, t.odds)
}
