package simulation

import (
	"time"

	"github.com/luca-patrignani/crapsim/dice"
	"github.com/luca-patrignani/crapsim/domain/craps"
)

// Result is the aggregated outcome of a simulation.
type Result struct {
	ID         string
	Runs       int
	Workers    int
	Table      TableConfig
	Strategies []StrategyResult
	Dice       dice.Histogram
	Elapsed    time.Duration
}

// StrategyResult holds the statistics of one strategy over all runs.
type StrategyResult struct {
	Config     craps.StrategyConfig
	Statistics craps.Statistics
}

func (r StrategyResult) Name() string { return r.Config.Name }

// Measure tells whether the strategy was judged on rolls or on bankroll.
func (r StrategyResult) Measure() craps.Measure { return r.Statistics.Measure }
