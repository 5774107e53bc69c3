package craps

import (
	"fmt"

	"github.com/luca-patrignani/crapsim/dice"
)

// OddsProgression grows the odds multiple after winning rolls.
type OddsProgression int

const (
	NoOddsProgression OddsProgression = iota
	Arithmetic
	Geometric
)

var oddsProgressionNames = []string{"NO_METHOD", "ARITHMETIC", "GEOMETRIC"}

func ParseOddsProgression(s string) (OddsProgression, error) {
	return parseName[OddsProgression]("odds progression method", oddsProgressionNames, s)
}

func (p OddsProgression) String() string {
	return nameOf(oddsProgressionNames, p)
}

// Limits on the number of bets of one kind a strategy may keep up.
const (
	MaxComeBets  = 6
	MaxPlaceBets = 6
)

// StrategyConfig holds every setting of a strategy.
type StrategyConfig struct {
	Name        string
	Description string

	InitialBankroll             int
	StandardWager               int
	FullWager                   bool
	SignificantWinningsMultiple float64
	SignificantWinnings         int
	PlayForNumberOfRolls        int

	PassBet             bool
	DontPassBet         bool
	ComeBets            int
	DontComeBets        int
	PlaceBets           int
	PlaceBetsMadeAtOnce int
	PlaceAfterCome      bool
	PlacePreferred      int
	PlaceBetUnits       int
	PlaceWorking        bool
	PutBet              bool
	FieldBet            bool
	FieldBetUnits       int
	Big6Bet             bool
	Big8Bet             bool
	Hard4Bet            bool
	Hard6Bet            bool
	Hard8Bet            bool
	Hard10Bet           bool
	Any7Bet             bool
	AnyCrapsBet         bool
	Craps2Bet           bool
	Craps3Bet           bool
	Yo11Bet             bool
	Craps12Bet          bool

	StandardOdds     float64
	ComeOddsWorking  bool
	OddsProgression  OddsProgression
	WagerProgression WagerProgression

	Qualification                 Qualification
	QualificationCount            int
	QualificationTarget           int
	QualificationStopsWithShooter bool

	BetModification      BetModification
	BetModificationCount int

	Trace bool
}

// DefaultStrategyConfig returns the settings used for keys a strategy leaves
// out.
func DefaultStrategyConfig() StrategyConfig {
	return StrategyConfig{
		InitialBankroll:             1000,
		StandardWager:               10,
		SignificantWinningsMultiple: DefaultSignificantWinningsMultiple,
		PlacePreferred:              8,
		PlaceBetUnits:               1,
		FieldBetUnits:               1,
		StandardOdds:                1.0,
	}
}

// MakesBets reports whether the configuration allows at least one bet.
func (c StrategyConfig) MakesBets() bool {
	return c.PassBet || c.DontPassBet || c.ComeBets > 0 || c.DontComeBets > 0 ||
		c.PlaceBets > 0 || c.PutBet || c.FieldBet || c.Big6Bet || c.Big8Bet ||
		c.Hard4Bet || c.Hard6Bet || c.Hard8Bet || c.Hard10Bet ||
		c.Any7Bet || c.AnyCrapsBet || c.Craps2Bet || c.Craps3Bet || c.Yo11Bet || c.Craps12Bet
}

// Validate checks ranges that do not depend on the table.
func (c StrategyConfig) Validate() error {
	switch {
	case c.Name == "":
		return fmt.Errorf("%w: strategy name is empty", ErrInvalidSetting)
	case c.StandardWager < 1:
		return fmt.Errorf("%w: standard wager %d must be positive", ErrInvalidSetting, c.StandardWager)
	case c.InitialBankroll < 1:
		return fmt.Errorf("%w: initial bankroll %d must be positive", ErrInvalidSetting, c.InitialBankroll)
	case c.PlayForNumberOfRolls < 0:
		return fmt.Errorf("%w: play for number of rolls %d is negative", ErrInvalidSetting, c.PlayForNumberOfRolls)
	case c.ComeBets < 0 || c.ComeBets > MaxComeBets:
		return fmt.Errorf("%w: come bets %d must be 0-%d", ErrInvalidSetting, c.ComeBets, MaxComeBets)
	case c.DontComeBets < 0 || c.DontComeBets > MaxComeBets:
		return fmt.Errorf("%w: don't come bets %d must be 0-%d", ErrInvalidSetting, c.DontComeBets, MaxComeBets)
	case c.PlaceBets < 0 || c.PlaceBets > MaxPlaceBets:
		return fmt.Errorf("%w: place bets %d must be 0-%d", ErrInvalidSetting, c.PlaceBets, MaxPlaceBets)
	case c.PlaceBets > 0 && !dice.IsPointNumber(c.PlacePreferred):
		return fmt.Errorf("%w: preferred place number %d", ErrInvalidSetting, c.PlacePreferred)
	case c.PlaceBetUnits < 0:
		return fmt.Errorf("%w: place bet units %d is negative", ErrInvalidSetting, c.PlaceBetUnits)
	case c.FieldBetUnits < 0:
		return fmt.Errorf("%w: field bet units %d is negative", ErrInvalidSetting, c.FieldBetUnits)
	case c.StandardOdds != 0 && c.StandardOdds < 1:
		return fmt.Errorf("%w: standard odds %.2f must be 0 or at least 1", ErrInvalidSetting, c.StandardOdds)
	case !c.MakesBets():
		return fmt.Errorf("%w: strategy %q makes no bets", ErrInvalidSetting, c.Name)
	}
	return nil
}
