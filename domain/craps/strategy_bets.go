package craps

import "fmt"

// placeOrder is the order place numbers are covered after the preferred one.
var placeOrder = [...]int{8, 6, 5, 9, 4, 10}

// MakeBets puts the strategy's bets on the layout for the next roll.
func (s *Strategy) MakeBets(t *Table) error {
	if !s.StillPlaying() {
		return nil
	}
	s.money.MarkBeforeBetting()
	if s.shooter.ShooterQualified() {
		if err := s.makeBets(t); err != nil {
			return fmt.Errorf("strategy %q: %w", s.cfg.Name, err)
		}
	}
	s.money.MarkAfterBetting()
	if s.tracer != nil {
		if err := s.tracer.BetsMade(t.State()); err != nil {
			return fmt.Errorf("trace strategy %q: %w", s.cfg.Name, err)
		}
	}
	return nil
}

func (s *Strategy) makeBets(t *Table) error {
	s.makePassBet(t)
	s.makeComeBet(t)
	s.makeDontPassBet(t)
	s.makeDontComeBet(t)
	if err := s.makeOddsBets(t); err != nil {
		return err
	}
	if err := s.makePlaceBets(t); err != nil {
		return err
	}
	if err := s.makePutBet(t); err != nil {
		return err
	}
	s.makeHardWayBets()
	s.makeBigBets()
	s.makeOneRollBets()
	return nil
}

// add takes the wager from the bankroll and puts b on the layout.
func (s *Strategy) add(b *Bet) {
	s.money.Decrement(b.wager)
	s.made[b.countedAs()]++
	s.bets = append(s.bets, b)
}

// countedAs is the counter a bet is held against.
func (b *Bet) countedAs() BetType {
	if b.inPlaceOf {
		return Place
	}
	return b.typ
}

// flat puts up a bet of the current progression units, if the bankroll
// allows.
func (s *Strategy) flat(typ BetType, point int) *Bet {
	w := s.wager.BetWager(s.money.Bankroll())
	if w == 0 {
		return nil
	}
	b := NewBet(typ, w, point)
	s.add(b)
	return b
}

func (s *Strategy) has(typ BetType, point int) bool {
	for _, b := range s.bets {
		if b.typ == typ && b.point == point {
			return true
		}
	}
	return false
}

func (s *Strategy) makePassBet(t *Table) {
	if s.cfg.PassBet && t.IsComingOut() && s.made[Pass] == 0 {
		s.flat(Pass, 0)
	}
}

func (s *Strategy) makeDontPassBet(t *Table) {
	if s.cfg.DontPassBet && t.IsComingOut() && s.made[DontPass] == 0 {
		s.flat(DontPass, 0)
	}
}

func (s *Strategy) makeComeBet(t *Table) {
	if !t.IsComingOut() && s.made[Come] < s.cfg.ComeBets {
		s.flat(Come, 0)
	}
}

func (s *Strategy) makeDontComeBet(t *Table) {
	if !t.IsComingOut() && s.made[DontCome] < s.cfg.DontComeBets {
		s.flat(DontCome, 0)
	}
}

// makeOddsBets takes odds behind every line bet that has a point and no
// odds yet. Don't bets lay the amount that wins the computed odds wager.
func (s *Strategy) makeOddsBets(t *Table) error {
	if s.odds == 0 {
		return nil
	}
	for _, b := range s.bets {
		var typ BetType
		switch b.typ {
		case Pass:
			typ = PassOdds
		case DontPass:
			typ = DontPassOdds
		case Come:
			typ = ComeOdds
		case DontCome:
			typ = DontComeOdds
		case Put:
			typ = PutOdds
		default:
			continue
		}
		if b.state != Unresolved || b.OnTheComeOut() || b.oddsBetMade {
			continue
		}
		maxOdds, err := t.MaxOdds(b.point)
		if err != nil {
			return err
		}
		w, err := s.wager.OddsBetWager(s.money.Bankroll(), b.wager, b.point, min(maxOdds, s.odds))
		if err != nil {
			return err
		}
		if w == 0 {
			continue
		}
		if typ == DontPassOdds || typ == DontComeOdds {
			if w, err = layWager(b.point, w); err != nil {
				return err
			}
			if w > s.money.Bankroll() {
				continue
			}
		}
		odds := NewBet(typ, w, b.point)
		if typ == ComeOdds {
			odds.working = s.cfg.ComeOddsWorking
		}
		b.oddsBetMade = true
		s.add(odds)
	}
	return nil
}

func (s *Strategy) makePlaceBets(t *Table) error {
	if s.cfg.PlaceBets == 0 || t.IsComingOut() {
		return nil
	}
	if s.cfg.PlaceAfterCome {
		if s.made[Come] < s.cfg.ComeBets || s.made[Place] >= s.cfg.PlaceBets {
			return nil
		}
		if s.sixOrEightCovered() {
			if b := s.flatInPlaceOf(); b != nil {
				s.add(b)
			}
			return nil
		}
		_, err := s.makePlaceBet()
		return err
	}
	for n := 0; n < s.cfg.PlaceBetsMadeAtOnce && s.made[Place] < s.cfg.PlaceBets; n++ {
		ok, err := s.makePlaceBet()
		if err != nil || !ok {
			return err
		}
	}
	return nil
}

// flatInPlaceOf builds a come bet that stands in for a place bet.
func (s *Strategy) flatInPlaceOf() *Bet {
	w := s.wager.BetWager(s.money.Bankroll())
	if w == 0 {
		return nil
	}
	b := NewBet(Come, w, 0)
	b.inPlaceOf = true
	return b
}

func (s *Strategy) makePlaceBet() (bool, error) {
	n := s.placeNumber()
	if n == 0 {
		return false, nil
	}
	w, err := s.wager.PlaceBetUnitsWager(s.money.Bankroll(), s.cfg.PlaceBetUnits, n)
	if err != nil || w == 0 {
		return false, err
	}
	b := NewBet(Place, w, n)
	b.working = s.cfg.PlaceWorking
	s.add(b)
	return true, nil
}

// placeNumber is the next uncovered place number, or 0 when all are covered.
func (s *Strategy) placeNumber() int {
	if !s.has(Place, s.cfg.PlacePreferred) {
		return s.cfg.PlacePreferred
	}
	for _, n := range placeOrder {
		if !s.has(Place, n) {
			return n
		}
	}
	return 0
}

func (s *Strategy) sixOrEightCovered() bool {
	for _, b := range s.bets {
		if b.point == 6 || b.point == 8 {
			return true
		}
	}
	return false
}

func (s *Strategy) makePutBet(t *Table) error {
	if !s.cfg.PutBet || t.IsComingOut() || s.made[Put] > 0 {
		return nil
	}
	if s.flat(Put, t.Point()) == nil {
		return nil
	}
	return s.makeOddsBets(t)
}

func (s *Strategy) makeHardWayBets() {
	for _, hw := range []struct {
		allowed bool
		number  int
	}{
		{s.cfg.Hard4Bet, 4}, {s.cfg.Hard6Bet, 6}, {s.cfg.Hard8Bet, 8}, {s.cfg.Hard10Bet, 10},
	} {
		if hw.allowed && !s.has(Hard, hw.number) {
			if s.flat(Hard, hw.number) == nil {
				return
			}
		}
	}
}

func (s *Strategy) makeBigBets() {
	if s.cfg.Big6Bet && !s.has(Big, 6) {
		if s.flat(Big, 6) == nil {
			return
		}
	}
	if s.cfg.Big8Bet && !s.has(Big, 8) {
		s.flat(Big, 8)
	}
}

func (s *Strategy) makeOneRollBets() {
	if s.cfg.FieldBet && s.made[Field] == 0 {
		w := s.wager.BetWager(s.money.Bankroll())
		if s.cfg.FieldBetUnits > 1 {
			w = s.wager.BetUnitsWager(s.money.Bankroll(), s.cfg.FieldBetUnits)
		}
		if w > 0 {
			s.add(NewBet(Field, w, 0))
		}
	}
	for _, prop := range []struct {
		allowed bool
		typ     BetType
	}{
		{s.cfg.Any7Bet, Any7}, {s.cfg.AnyCrapsBet, AnyCraps}, {s.cfg.Craps2Bet, Craps2},
		{s.cfg.Craps3Bet, Craps3}, {s.cfg.Yo11Bet, Yo11}, {s.cfg.Craps12Bet, Craps12},
	} {
		if prop.allowed && s.made[prop.typ] == 0 {
			s.flat(prop.typ, 0)
		}
	}
}
