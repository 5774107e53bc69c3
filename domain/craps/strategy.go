package craps

import (
	"fmt"
	"log/slog"
	"strconv"
)

const betTypeCount = int(Craps12) + 1

// maxOddsMultiple caps odds progressions at the most generous table.
const maxOddsMultiple = 100

// Strategy is one player at the table: a bankroll, a way of sizing bets, a
// shooter gate and the bets currently on the layout.
type Strategy struct {
	cfg     StrategyConfig
	money   Money
	wager   *Wager
	shooter *QualifiedShooter

	odds  float64
	bets  []*Bet
	made  [betTypeCount]int
	rolls int
	stats Statistics

	tracer Tracer
	logger *slog.Logger
}

// Option configures a Strategy.
type Option func(*Strategy)

func WithLogger(l *slog.Logger) Option {
	return func(s *Strategy) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewStrategy validates cfg against the table and builds the strategy.
func NewStrategy(cfg StrategyConfig, t *Table, opts ...Option) (*Strategy, error) {
	s := &Strategy{logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("strategy %q: %w", cfg.Name, err)
	}
	cfg = s.sanityCheck(cfg)

	money, err := NewMoney(cfg.InitialBankroll, cfg.SignificantWinningsMultiple, cfg.SignificantWinnings)
	if err != nil {
		return nil, fmt.Errorf("strategy %q: %w", cfg.Name, err)
	}
	wager, err := NewWager(cfg.StandardWager)
	if err != nil {
		return nil, fmt.Errorf("strategy %q: %w", cfg.Name, err)
	}
	if err := wager.SetTableLimits(t.MinimumWager(), t.MaximumWager()); err != nil {
		return nil, fmt.Errorf("strategy %q: %w", cfg.Name, err)
	}
	wager.SetFullWager(cfg.FullWager)
	wager.SetProgression(cfg.WagerProgression)
	if err := wager.SetModification(cfg.BetModification, cfg.BetModificationCount); err != nil {
		return nil, fmt.Errorf("strategy %q: %w", cfg.Name, err)
	}
	shooter, err := NewQualifiedShooter(cfg.Qualification, cfg.QualificationCount, cfg.QualificationTarget, cfg.QualificationStopsWithShooter)
	if err != nil {
		return nil, fmt.Errorf("strategy %q: %w", cfg.Name, err)
	}

	s.cfg = cfg
	s.money = money
	s.wager = wager
	s.shooter = shooter
	s.stats.Measure = MeasureRolls
	if cfg.PlayForNumberOfRolls > 0 {
		s.stats.Measure = MeasureBankroll
	}
	s.Reset()
	return s, nil
}

// sanityCheck fixes up settings that conflict with each other.
func (s *Strategy) sanityCheck(cfg StrategyConfig) StrategyConfig {
	if cfg.WagerProgression != NoWagerProgression {
		if cfg.FieldBetUnits != 1 {
			s.logger.Info("field bet units follow the wager progression", "strategy", cfg.Name, "setting", "FieldBetUnits", "was", cfg.FieldBetUnits)
			cfg.FieldBetUnits = 1
		}
		if cfg.PlaceBetUnits != 0 {
			s.logger.Info("place bet units follow the wager progression", "strategy", cfg.Name, "setting", "PlaceBetUnits", "was", cfg.PlaceBetUnits)
			cfg.PlaceBetUnits = 0
		}
	}
	if cfg.PlaceBetsMadeAtOnce > cfg.PlaceBets {
		s.logger.Info("place bets made at once clamped to place bets", "strategy", cfg.Name, "setting", "PlaceBetsMadeAtOnce", "was", cfg.PlaceBetsMadeAtOnce)
		cfg.PlaceBetsMadeAtOnce = cfg.PlaceBets
	}
	if cfg.PlaceBets > 0 && cfg.PlaceBetsMadeAtOnce <= 0 {
		cfg.PlaceBetsMadeAtOnce = 1
	}
	return cfg
}

// SetTracer attaches a tracer; nil detaches it.
func (s *Strategy) SetTracer(t Tracer) { s.tracer = t }

func (s *Strategy) Name() string                { return s.cfg.Name }
func (s *Strategy) Description() string         { return s.cfg.Description }
func (s *Strategy) Config() StrategyConfig      { return s.cfg }
func (s *Strategy) StandardWager() int          { return s.wager.StandardWager() }
func (s *Strategy) Odds() float64               { return s.odds }
func (s *Strategy) Bankroll() int               { return s.money.Bankroll() }
func (s *Strategy) BankrollBeforeBetting() int  { return s.money.BeforeBetting() }
func (s *Strategy) Rolls() int                  { return s.rolls }
func (s *Strategy) Statistics() Statistics      { return s.stats }
func (s *Strategy) ShooterQualified() bool      { return s.shooter.ShooterQualified() }
func (s *Strategy) Units() int                  { return s.wager.Units() }
func (s *Strategy) Made(typ BetType) int        { return s.made[typ] }
func (s *Strategy) ModificationWins() int       { return s.wager.ModificationWins() }

// Bets returns copies of the bets on the layout in the order they were made.
func (s *Strategy) Bets() []Bet {
	out := make([]Bet, len(s.bets))
	for i, b := range s.bets {
		out[i] = *b
	}
	return out
}

// StillPlaying reports whether the strategy takes part in the next roll.
func (s *Strategy) StillPlaying() bool {
	if s.cfg.PlayForNumberOfRolls > 0 && s.rolls >= s.cfg.PlayForNumberOfRolls {
		return false
	}
	if len(s.bets) > 0 {
		return true
	}
	return s.money.Bankroll() >= s.wager.StandardWager() && !s.money.HasSignificantWinnings()
}

// outstanding is the sum of wagers still on the layout.
func (s *Strategy) outstanding() int {
	total := 0
	for _, b := range s.bets {
		total += b.wager
	}
	return total
}

// UpdateStatistics records the run that just ended. Bets left on the layout
// by a fixed number of rolls count towards the final bankroll.
func (s *Strategy) UpdateStatistics() RunOutcome {
	o := RunOutcome{Strategy: s.cfg.Name, Rolls: s.rolls, Bankroll: s.money.Bankroll()}
	if s.stats.Measure == MeasureBankroll {
		o.Bankroll += s.outstanding()
		o.Won = o.Bankroll >= s.money.Initial()
		o.Value = o.Bankroll
	} else {
		o.Won = s.money.HasSignificantWinnings()
		o.Value = s.rolls
	}
	s.stats.record(o)
	s.stats.MaxBankroll = max(s.stats.MaxBankroll, s.money.Max())
	return o
}

// Reset readies the strategy for a new run. Statistics are kept.
func (s *Strategy) Reset() {
	s.money.Reset()
	s.wager.Reset()
	s.shooter.Reset()
	s.bets = nil
	s.made = [betTypeCount]int{}
	s.rolls = 0
	s.odds = s.cfg.StandardOdds
}

// Setting is one line of a strategy muster.
type Setting struct {
	Key   string
	Value string
}

// Muster lists every setting of the strategy.
func (s *Strategy) Muster() []Setting {
	c := s.cfg
	b := strconv.FormatBool
	i := strconv.Itoa
	settings := []Setting{
		{"Name", c.Name},
		{"Description", c.Description},
		{"Initial Bankroll", i(c.InitialBankroll)},
		{"Standard Wager", i(c.StandardWager)},
		{"Full Wager", b(c.FullWager)},
		{"Significant Winnings", i(s.money.SignificantWinnings())},
		{"Play For Number Of Rolls", i(c.PlayForNumberOfRolls)},
		{"Pass Bet", b(c.PassBet)},
		{"Don't Pass Bet", b(c.DontPassBet)},
		{"Come Bets", i(c.ComeBets)},
		{"Don't Come Bets", i(c.DontComeBets)},
		{"Place Bets", i(c.PlaceBets)},
		{"Place Bets Made At Once", i(c.PlaceBetsMadeAtOnce)},
		{"Place After Come", b(c.PlaceAfterCome)},
		{"Place Preferred", i(c.PlacePreferred)},
		{"Place Bet Units", i(c.PlaceBetUnits)},
		{"Place Working", b(c.PlaceWorking)},
		{"Put Bet", b(c.PutBet)},
		{"Field Bet", b(c.FieldBet)},
		{"Field Bet Units", i(c.FieldBetUnits)},
		{"Big 6 Bet", b(c.Big6Bet)},
		{"Big 8 Bet", b(c.Big8Bet)},
		{"Hard 4 Bet", b(c.Hard4Bet)},
		{"Hard 6 Bet", b(c.Hard6Bet)},
		{"Hard 8 Bet", b(c.Hard8Bet)},
		{"Hard 10 Bet", b(c.Hard10Bet)},
		{"Any 7 Bet", b(c.Any7Bet)},
		{"Any Craps Bet", b(c.AnyCrapsBet)},
		{"Craps 2 Bet", b(c.Craps2Bet)},
		{"Craps 3 Bet", b(c.Craps3Bet)},
		{"Yo 11 Bet", b(c.Yo11Bet)},
		{"Craps 12 Bet", b(c.Craps12Bet)},
		{"Standard Odds", strconv.FormatFloat(c.StandardOdds, 'f', 1, 64)},
		{"Come Odds Working", b(c.ComeOddsWorking)},
		{"Odds Progression Method", c.OddsProgression.String()},
		{"Wager Progression Method", c.WagerProgression.String()},
		{"Qualified Shooter Method", c.Qualification.String()},
		{"Qualified Shooter Count", i(s.shooter.Count())},
	}
	if c.Qualification == AfterNXInARow {
		settings = append(settings,
			Setting{"Qualified Shooter Target", i(c.QualificationTarget)},
			Setting{"Qualified Shooter Stops With Shooter", b(c.QualificationStopsWithShooter)},
		)
	}
	settings = append(settings,
		Setting{"Bet Modification Method", c.BetModification.String()},
		Setting{"Bet Modification Count", i(c.BetModificationCount)},
		Setting{"Trace", b(c.Trace)},
	)
	return settings
}
