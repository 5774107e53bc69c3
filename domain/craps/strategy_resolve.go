package craps

import (
	"fmt"

	"github.com/luca-patrignani/crapsim/dice"
)

// ResolveBets settles every bet against roll r. t is the table as it was
// when the bets were made. Outcomes are worked out for all bets before any
// of them is changed.
func (s *Strategy) ResolveBets(t *Table, r dice.Roll) error {
	if !s.StillPlaying() {
		return nil
	}
	s.rolls++

	outcomes := make([]outcome, 0, len(s.bets))
	for _, b := range s.bets {
		o, err := b.evaluate(t, r)
		if err != nil {
			return fmt.Errorf("strategy %q: %w", s.cfg.Name, err)
		}
		if o.changed() {
			outcomes = append(outcomes, o)
		}
	}

	net := 0
	for _, o := range outcomes {
		b := o.bet
		if o.point != 0 {
			b.point = o.point
		}
		b.state = o.state
		switch b.state {
		case Won:
			payoff, err := b.CalculatePayoff()
			if err != nil {
				return fmt.Errorf("strategy %q: %w", s.cfg.Name, err)
			}
			s.money.Increment(b.wager + payoff)
			net += payoff
		case Lost:
			net -= b.wager
		case Returned:
			s.money.Increment(b.wager)
		}
		if !b.typ.IsOdds() {
			s.wager.Progress(b.state)
		}
	}
	s.money.MarkAfterResolving()
	s.progressOdds(net)

	if s.tracer != nil {
		if err := s.tracer.BetsResolved(r); err != nil {
			return fmt.Errorf("trace strategy %q: %w", s.cfg.Name, err)
		}
	}
	return nil
}

// progressOdds raises the odds multiple after a winning roll and drops it
// back to the standard odds after a losing one.
func (s *Strategy) progressOdds(net int) {
	if s.odds == 0 {
		return
	}
	switch {
	case net < 0:
		s.odds = s.cfg.StandardOdds
	case net > 0:
		switch s.cfg.OddsProgression {
		case NoOddsProgression:
		case Arithmetic:
			s.odds = min(s.odds+1, maxOddsMultiple)
		case Geometric:
			s.odds = min(s.odds*2, maxOddsMultiple)
		}
	}
}

// QualifyTheShooter feeds roll r to the shooter gate. t must not have been
// updated with r yet.
func (s *Strategy) QualifyTheShooter(t *Table, r dice.Roll) {
	s.shooter.QualifyTheShooter(t, r)
}

// ModifyBets applies the bet modification method to this roll's winners.
func (s *Strategy) ModifyBets(t *Table) {
	if s.wager.ModifyBets(&s.money, t, s.bets) {
		s.logger.Debug("bet modification stopped betting", "strategy", s.cfg.Name, "rolls", s.rolls)
		s.shooter.SitOut()
	}
}

// FinalizeBets removes Won, Lost and Returned bets from the layout and puts
// Pushed bets back in action.
func (s *Strategy) FinalizeBets() {
	kept := s.bets[:0]
	for _, b := range s.bets {
		switch b.state {
		case Won, Lost, Returned:
			s.made[b.countedAs()]--
			if b.state == Returned {
				s.stats.Returns++
			}
			continue
		case Pushed:
			s.stats.Pushes++
			b.state = Unresolved
		}
		kept = append(kept, b)
	}
	clear(s.bets[len(kept):])
	s.bets = kept
}
