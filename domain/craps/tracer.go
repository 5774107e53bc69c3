package craps

import "github.com/luca-patrignani/crapsim/dice"

// StrategyView is the read only side of a strategy given to observers.
type StrategyView interface {
	Name() string
	StandardWager() int
	Odds() float64
	Bankroll() int
	BankrollBeforeBetting() int
	// Bets returns copies of the bets on the layout.
	Bets() []Bet
}

// Tracer is told about every roll a strategy plays. Errors abort the run.
type Tracer interface {
	BetsMade(t TableState) error
	BetsResolved(r dice.Roll) error
}
