package craps

import (
	"fmt"

	"github.com/luca-patrignani/crapsim/dice"
)

// BetType identifies one of the bets on the layout.
type BetType int

const (
	Pass BetType = iota
	DontPass
	Come
	DontCome
	PassOdds
	DontPassOdds
	ComeOdds
	DontComeOdds
	Put
	PutOdds
	Place
	Big
	Hard
	Field
	Any7
	AnyCraps
	Craps2
	Craps3
	Yo11
	Craps12
)

var betTypeNames = []string{
	"Pass", "Don't Pass", "Come", "Don't Come",
	"Pass Odds", "Don't Pass Odds", "Come Odds", "Don't Come Odds",
	"Put", "Put Odds", "Place", "Big", "Hard Way", "Field",
	"Any 7", "Any Craps", "Craps 2", "Craps 3", "Yo 11", "Craps 12",
}

func (t BetType) String() string {
	return nameOf(betTypeNames, t)
}

// IsOdds reports whether the bet is an odds bet behind a line bet.
func (t BetType) IsOdds() bool {
	switch t {
	case PassOdds, DontPassOdds, ComeOdds, DontComeOdds, PutOdds:
		return true
	}
	return false
}

// IsOneRoll reports whether the bet is always decided by the next roll.
func (t BetType) IsOneRoll() bool {
	switch t {
	case Field, Any7, AnyCraps, Craps2, Craps3, Yo11, Craps12:
		return true
	}
	return false
}

// IsModifiable reports whether a winning bet of this type stays up and can
// be collected, pressed or regressed.
func (t BetType) IsModifiable() bool {
	switch t {
	case Place, Big, Hard:
		return true
	}
	return false
}

// BetState is where a bet is in its lifecycle.
type BetState int

const (
	Unresolved BetState = iota
	Won
	Lost
	Returned
	Pushed
)

var betStateNames = []string{"Unresolved", "Won", "Lost", "Returned", "Pushed"}

func (s BetState) String() string {
	return nameOf(betStateNames, s)
}

// Bet is a single wager on the layout.
type Bet struct {
	typ         BetType
	wager       int
	point       int
	state       BetState
	oddsBetMade bool
	// working keeps come odds and place bets in action on the come out.
	working bool
	// inPlaceOf marks a come bet made instead of a place bet.
	inPlaceOf bool
}

func NewBet(typ BetType, wager, point int) *Bet {
	return &Bet{typ: typ, wager: wager, point: point}
}

func (b *Bet) Type() BetType            { return b.typ }
func (b *Bet) Wager() int               { return b.wager }
func (b *Bet) Point() int               { return b.point }
func (b *Bet) State() BetState          { return b.state }
func (b *Bet) OddsBetMade() bool        { return b.oddsBetMade }
func (b *Bet) ComeOddsAreWorking() bool { return b.working }

// OnTheComeOut reports whether a line bet is still waiting for its point.
func (b *Bet) OnTheComeOut() bool { return b.point == 0 }

// IsResolved reports Won, Lost or Returned. A pushed bet stays in action.
func (b *Bet) IsResolved() bool {
	switch b.state {
	case Won, Lost, Returned:
		return true
	}
	return false
}

// CalculatePayoff returns the winnings of the bet, not counting the wager.
func (b *Bet) CalculatePayoff() (int, error) {
	return Payoff(b.typ, b.point, b.wager)
}

func (b *Bet) String() string {
	return fmt.Sprintf("%s %d on %d (%s)", b.typ, b.wager, b.point, b.state)
}

// outcome is the effect of one roll on one bet.
type outcome struct {
	bet   *Bet
	state BetState
	// point is set when the roll establishes the bet's point or names the
	// winning number of a one roll bet.
	point int
}

func (o outcome) changed() bool {
	return o.state != Unresolved || o.point != 0
}

// evaluate works out what roll r does to the bet without touching it.
func (b *Bet) evaluate(t *Table, r dice.Roll) (outcome, error) {
	o := outcome{bet: b, state: Unresolved}
	v := r.Value()
	switch b.typ {
	case Pass, Come:
		if b.OnTheComeOut() {
			switch {
			case r.IsCraps():
				o.state = Lost
			case r.IsNatural():
				o.state = Won
			default:
				o.point = v
			}
			break
		}
		switch {
		case r.IsSeven():
			o.state = Lost
		case r.Is(b.point):
			o.state = Won
		}
	case DontPass, DontCome:
		if b.OnTheComeOut() {
			switch {
			case r.Is(BarRoll):
				o.state = Pushed
			case r.IsCraps():
				o.state = Won
			case r.IsNatural():
				o.state = Lost
			default:
				o.point = v
			}
			break
		}
		switch {
		case r.IsSeven():
			o.state = Won
		case r.Is(b.point):
			o.state = Lost
		}
	case Put:
		switch {
		case r.IsSeven():
			o.state = Lost
		case r.Is(b.point):
			o.state = Won
		}
	case PassOdds, PutOdds:
		if t.IsComingOut() {
			return o, fmt.Errorf("%s on %d: %w", b.typ, b.point, ErrOddsOnComeOut)
		}
		switch {
		case r.IsSeven():
			o.state = Lost
		case r.Is(b.point):
			o.state = Won
		}
	case DontPassOdds:
		if t.IsComingOut() {
			return o, fmt.Errorf("%s on %d: %w", b.typ, b.point, ErrOddsOnComeOut)
		}
		switch {
		case r.IsSeven():
			o.state = Won
		case r.Is(b.point):
			o.state = Lost
		}
	case ComeOdds:
		switch {
		case r.IsSeven() && t.IsComingOut() && !b.working:
			o.state = Returned
		case r.IsSeven():
			o.state = Lost
		case r.Is(b.point) && t.IsComingOut() && !b.working:
			o.state = Returned
		case r.Is(b.point):
			o.state = Won
		}
	case DontComeOdds:
		switch {
		case r.IsSeven():
			o.state = Won
		case r.Is(b.point):
			o.state = Lost
		}
	case Place:
		if t.IsComingOut() && !b.working {
			break
		}
		switch {
		case r.IsSeven():
			o.state = Lost
		case r.Is(b.point):
			o.state = Won
		}
	case Hard:
		switch {
		case r.IsSeven():
			o.state = Lost
		case r.Is(b.point) && r.IsHard():
			o.state = Won
		case r.Is(b.point):
			o.state = Lost
		}
	case Big:
		switch {
		case r.IsSeven():
			o.state = Lost
		case r.Is(b.point):
			o.state = Won
		}
	case Field, Any7, AnyCraps, Craps2, Craps3, Yo11, Craps12:
		o.state = Lost
		if oneRollWins(b.typ, r) {
			o.state = Won
			o.point = v
		}
	default:
		return o, fmt.Errorf("resolve %s: %w", b.typ, ErrInvalidPayoff)
	}
	return o, nil
}

func oneRollWins(typ BetType, r dice.Roll) bool {
	switch typ {
	case Field:
		return r.IsFieldNumber()
	case Any7:
		return r.IsSeven()
	case AnyCraps:
		return r.IsCraps()
	case Craps2:
		return r.Is(2)
	case Craps3:
		return r.Is(3)
	case Yo11:
		return r.Is(11)
	case Craps12:
		return r.Is(12)
	}
	return false
}
