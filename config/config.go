// Package config reads the settings file of a simulation and the runtime
// options taken from the environment.
//
// The settings file is YAML with one mapping per section:
//
//	Table:
//	  Type: 3X_4X_5X
//	  MinimumWager: 5
//	DefaultStrategy:
//	  InitialBankroll: 1000
//	  StandardWager: 10
//	Strategy1:
//	  Predefined: Elementary
//	Simulation:
//	  Runs: 10000
//	  Muster: true
//
// Section and key names are matched without regard to case.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/luca-patrignani/crapsim/domain/craps"
	"github.com/luca-patrignani/crapsim/simulation"
)

var (
	// ErrMissingSetting is returned when a required section or key is absent.
	ErrMissingSetting = errors.New("missing setting")
	// ErrInvalidValue is returned when a value cannot be used for its key.
	ErrInvalidValue = errors.New("invalid value")
)

// Settings is the content of a settings file.
type Settings struct {
	Table      simulation.TableConfig
	Strategies []craps.StrategyConfig
	Runs       int
	Muster     bool
	Tally      bool
}

// Simulation returns the configuration of the simulation driver.
func (s Settings) Simulation() simulation.Config {
	return simulation.Config{Table: s.Table, Strategies: s.Strategies, Runs: s.Runs}
}

// Load reads and parses the settings file at path.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("read settings: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return Settings{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse builds the settings from the YAML document in data.
func Parse(data []byte) (Settings, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Settings{}, fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	sections, err := readSections(&doc)
	if err != nil {
		return Settings{}, err
	}

	var s Settings
	if s.Table, err = parseTable(sections.get("Table")); err != nil {
		return Settings{}, err
	}
	if err := parseSimulation(sections.get("Simulation"), &s); err != nil {
		return Settings{}, err
	}
	defaults, err := parseDefaultStrategy(sections.get("DefaultStrategy"))
	if err != nil {
		return Settings{}, err
	}
	for n := 1; n <= simulation.MaxStrategies; n++ {
		sec := sections.get("Strategy" + strconv.Itoa(n))
		if sec == nil {
			continue
		}
		sc, err := parseStrategy(sec, defaults)
		if err != nil {
			return Settings{}, err
		}
		s.Strategies = append(s.Strategies, sc)
	}
	if len(s.Strategies) == 0 {
		return Settings{}, fmt.Errorf("%w: no Strategy1 to Strategy%d section", ErrMissingSetting, simulation.MaxStrategies)
	}
	return s, nil
}

func parseTable(sec *section) (simulation.TableConfig, error) {
	t := simulation.DefaultTableConfig()
	if typ, ok, err := sec.string("Type"); err != nil {
		return t, err
	} else if ok && typ != "" {
		odds, err := craps.ParseTableOdds(typ)
		if err != nil {
			return t, sec.invalid("Type", err)
		}
		t.Odds = odds
	}
	if _, err := sec.intInto("MinimumWager", &t.MinimumWager); err != nil {
		return t, err
	}
	if _, err := sec.intInto("MaximumWager", &t.MaximumWager); err != nil {
		return t, err
	}
	if t.MinimumWager < 1 || t.MaximumWager < t.MinimumWager {
		return t, fmt.Errorf("%w: [Table] wagers %d-%d", ErrInvalidValue, t.MinimumWager, t.MaximumWager)
	}
	return t, sec.unused()
}

func parseSimulation(sec *section, s *Settings) error {
	if sec == nil {
		return fmt.Errorf("%w: [Simulation] section", ErrMissingSetting)
	}
	ok, err := sec.intInto("Runs", &s.Runs)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: [Simulation] Runs", ErrMissingSetting)
	}
	if s.Runs <= 0 {
		return sec.invalid("Runs", errors.New("number of runs must be positive"))
	}
	if _, err := sec.boolInto("Muster", &s.Muster); err != nil {
		return err
	}
	if _, err := sec.boolInto("Tally", &s.Tally); err != nil {
		return err
	}
	return sec.unused()
}

// defaultStrategy holds the DefaultStrategy section, which applies to every
// strategy that leaves these keys out.
type defaultStrategy struct {
	InitialBankroll             int
	StandardWager               int
	SignificantWinningsMultiple float64
	SignificantWinnings         int
	PlayForNumberOfRolls        int
}

func parseDefaultStrategy(sec *section) (defaultStrategy, error) {
	c := craps.DefaultStrategyConfig()
	d := defaultStrategy{
		InitialBankroll:             c.InitialBankroll,
		StandardWager:               c.StandardWager,
		SignificantWinningsMultiple: c.SignificantWinningsMultiple,
		SignificantWinnings:         c.SignificantWinnings,
		PlayForNumberOfRolls:        c.PlayForNumberOfRolls,
	}
	fields := []struct {
		key string
		dst *int
	}{
		{"InitialBankroll", &d.InitialBankroll},
		{"StandardWager", &d.StandardWager},
		{"SignificantWinnings", &d.SignificantWinnings},
		{"PlayForNumberOfRolls", &d.PlayForNumberOfRolls},
	}
	for _, f := range fields {
		if _, err := sec.intInto(f.key, f.dst); err != nil {
			return d, err
		}
	}
	if _, err := sec.floatInto("SWM", &d.SignificantWinningsMultiple); err != nil {
		return d, err
	}
	return d, sec.unused()
}

func (d defaultStrategy) apply(c *craps.StrategyConfig) {
	c.InitialBankroll = d.InitialBankroll
	c.StandardWager = d.StandardWager
	c.SignificantWinningsMultiple = d.SignificantWinningsMultiple
	c.SignificantWinnings = d.SignificantWinnings
	c.PlayForNumberOfRolls = d.PlayForNumberOfRolls
}

// parseStrategy builds a strategy from built in defaults, the DefaultStrategy
// section, the Predefined strategy and finally the keys of the section.
func parseStrategy(sec *section, defaults defaultStrategy) (craps.StrategyConfig, error) {
	c := craps.DefaultStrategyConfig()
	defaults.apply(&c)

	if name, ok, err := sec.string("Predefined"); err != nil {
		return c, err
	} else if ok && name != "" {
		p, err := craps.ParsePredefined(name)
		if err != nil {
			return c, sec.invalid("Predefined", err)
		}
		craps.ApplyPredefined(&c, p)
	}

	if err := sec.each(strategyKeys, &c); err != nil {
		return c, err
	}
	if err := sec.unused(); err != nil {
		return c, err
	}
	if c.Name == "" {
		c.Name = sec.name
	}
	return c, nil
}

// strategyKey reads one key of a StrategyN section into the configuration.
type strategyKey struct {
	key  string
	read func(sec *section, key string, c *craps.StrategyConfig) error
}

func intKey(field func(*craps.StrategyConfig) *int) func(*section, string, *craps.StrategyConfig) error {
	return func(sec *section, key string, c *craps.StrategyConfig) error {
		_, err := sec.intInto(key, field(c))
		return err
	}
}

func boolKey(field func(*craps.StrategyConfig) *bool) func(*section, string, *craps.StrategyConfig) error {
	return func(sec *section, key string, c *craps.StrategyConfig) error {
		_, err := sec.boolInto(key, field(c))
		return err
	}
}

func floatKey(field func(*craps.StrategyConfig) *float64) func(*section, string, *craps.StrategyConfig) error {
	return func(sec *section, key string, c *craps.StrategyConfig) error {
		_, err := sec.floatInto(key, field(c))
		return err
	}
}

func stringKey(field func(*craps.StrategyConfig) *string) func(*section, string, *craps.StrategyConfig) error {
	return func(sec *section, key string, c *craps.StrategyConfig) error {
		v, ok, err := sec.string(key)
		if ok {
			*field(c) = v
		}
		return err
	}
}

// methodKey parses an enumeration name; a blank value keeps the current one.
func methodKey[T any](parse func(string) (T, error), field func(*craps.StrategyConfig) *T) func(*section, string, *craps.StrategyConfig) error {
	return func(sec *section, key string, c *craps.StrategyConfig) error {
		v, ok, err := sec.string(key)
		if err != nil || !ok || v == "" {
			return err
		}
		m, err := parse(v)
		if err != nil {
			return sec.invalid(key, err)
		}
		*field(c) = m
		return nil
	}
}

// lineBetKey accepts true/false as well as a count, as older settings files
// give the pass and don't pass bets as 0 or 1.
func lineBetKey(field func(*craps.StrategyConfig) *bool) func(*section, string, *craps.StrategyConfig) error {
	return func(sec *section, key string, c *craps.StrategyConfig) error {
		node, ok := sec.lookup(key)
		if !ok {
			return nil
		}
		var n int
		if err := node.Decode(&n); err == nil {
			if n < 0 {
				return sec.invalid(key, errors.New("negative count"))
			}
			*field(c) = n > 0
			return nil
		}
		_, err := sec.boolInto(key, field(c))
		return err
	}
}

func qualificationKey(sec *section, key string, c *craps.StrategyConfig) error {
	v, ok, err := sec.string(key)
	if err != nil || !ok || v == "" {
		return err
	}
	q, target, err := craps.ParseQualification(v)
	if err != nil {
		return sec.invalid(key, err)
	}
	c.Qualification = q
	if target != 0 {
		c.QualificationTarget = target
	}
	return nil
}

// strategyKeys are read in order; QualifiedShooterTarget comes after the
// method so that it overrides a number carried by the method name.
var strategyKeys = []strategyKey{
	{"Name", stringKey(func(c *craps.StrategyConfig) *string { return &c.Name })},
	{"Description", stringKey(func(c *craps.StrategyConfig) *string { return &c.Description })},
	{"InitialBankroll", intKey(func(c *craps.StrategyConfig) *int { return &c.InitialBankroll })},
	{"StandardWager", intKey(func(c *craps.StrategyConfig) *int { return &c.StandardWager })},
	{"FullWager", boolKey(func(c *craps.StrategyConfig) *bool { return &c.FullWager })},
	{"SWM", floatKey(func(c *craps.StrategyConfig) *float64 { return &c.SignificantWinningsMultiple })},
	{"SignificantWinnings", intKey(func(c *craps.StrategyConfig) *int { return &c.SignificantWinnings })},
	{"PlayForNumberOfRolls", intKey(func(c *craps.StrategyConfig) *int { return &c.PlayForNumberOfRolls })},
	{"PassBet", lineBetKey(func(c *craps.StrategyConfig) *bool { return &c.PassBet })},
	{"DontPassBet", lineBetKey(func(c *craps.StrategyConfig) *bool { return &c.DontPassBet })},
	{"ComeBets", intKey(func(c *craps.StrategyConfig) *int { return &c.ComeBets })},
	{"DontComeBets", intKey(func(c *craps.StrategyConfig) *int { return &c.DontComeBets })},
	{"PlaceBets", intKey(func(c *craps.StrategyConfig) *int { return &c.PlaceBets })},
	{"PlaceBetsMadeAtOnce", intKey(func(c *craps.StrategyConfig) *int { return &c.PlaceBetsMadeAtOnce })},
	{"PlaceAfterCome", boolKey(func(c *craps.StrategyConfig) *bool { return &c.PlaceAfterCome })},
	{"PlacePreferred", intKey(func(c *craps.StrategyConfig) *int { return &c.PlacePreferred })},
	{"PlaceBetUnits", intKey(func(c *craps.StrategyConfig) *int { return &c.PlaceBetUnits })},
	{"PlaceWorking", boolKey(func(c *craps.StrategyConfig) *bool { return &c.PlaceWorking })},
	{"PutBet", boolKey(func(c *craps.StrategyConfig) *bool { return &c.PutBet })},
	{"FieldBet", boolKey(func(c *craps.StrategyConfig) *bool { return &c.FieldBet })},
	{"FieldBetUnits", intKey(func(c *craps.StrategyConfig) *int { return &c.FieldBetUnits })},
	{"Big6Bet", boolKey(func(c *craps.StrategyConfig) *bool { return &c.Big6Bet })},
	{"Big8Bet", boolKey(func(c *craps.StrategyConfig) *bool { return &c.Big8Bet })},
	{"Hard4Bet", boolKey(func(c *craps.StrategyConfig) *bool { return &c.Hard4Bet })},
	{"Hard6Bet", boolKey(func(c *craps.StrategyConfig) *bool { return &c.Hard6Bet })},
	{"Hard8Bet", boolKey(func(c *craps.StrategyConfig) *bool { return &c.Hard8Bet })},
	{"Hard10Bet", boolKey(func(c *craps.StrategyConfig) *bool { return &c.Hard10Bet })},
	{"Any7Bet", boolKey(func(c *craps.StrategyConfig) *bool { return &c.Any7Bet })},
	{"AnyCrapsBet", boolKey(func(c *craps.StrategyConfig) *bool { return &c.AnyCrapsBet })},
	{"Craps2Bet", boolKey(func(c *craps.StrategyConfig) *bool { return &c.Craps2Bet })},
	{"Craps3Bet", boolKey(func(c *craps.StrategyConfig) *bool { return &c.Craps3Bet })},
	{"Yo11Bet", boolKey(func(c *craps.StrategyConfig) *bool { return &c.Yo11Bet })},
	{"Craps12Bet", boolKey(func(c *craps.StrategyConfig) *bool { return &c.Craps12Bet })},
	{"StandardOdds", floatKey(func(c *craps.StrategyConfig) *float64 { return &c.StandardOdds })},
	{"ComeOddsWorking", boolKey(func(c *craps.StrategyConfig) *bool { return &c.ComeOddsWorking })},
	{"OddsProgressionMethod", methodKey(craps.ParseOddsProgression, func(c *craps.StrategyConfig) *craps.OddsProgression { return &c.OddsProgression })},
	{"WagerProgressionMethod", methodKey(craps.ParseWagerProgression, func(c *craps.StrategyConfig) *craps.WagerProgression { return &c.WagerProgression })},
	{"QualifiedShooterMethod", qualificationKey},
	{"QualifiedShooterMethodCount", intKey(func(c *craps.StrategyConfig) *int { return &c.QualificationCount })},
	{"QualifiedShooterTarget", intKey(func(c *craps.StrategyConfig) *int { return &c.QualificationTarget })},
	{"QualifiedShooterStopsWithShooter", boolKey(func(c *craps.StrategyConfig) *bool { return &c.QualificationStopsWithShooter })},
	{"BetModificationMethod", methodKey(craps.ParseBetModification, func(c *craps.StrategyConfig) *craps.BetModification { return &c.BetModification })},
	{"BetModificationCount", intKey(func(c *craps.StrategyConfig) *int { return &c.BetModificationCount })},
	{"Trace", boolKey(func(c *craps.StrategyConfig) *bool { return &c.Trace })},
}

func (sec *section) each(keys []strategyKey, c *craps.StrategyConfig) error {
	if sec == nil {
		return nil
	}
	for _, k := range keys {
		if err := k.read(sec, k.key, c); err != nil {
			return err
		}
	}
	return nil
}

// sectionNames are the sections a settings file may hold besides StrategyN.
var sectionNames = []string{"Table", "DefaultStrategy", "Simulation"}

func knownSection(name string) bool {
	for _, s := range sectionNames {
		if strings.EqualFold(s, name) {
			return true
		}
	}
	lower := strings.ToLower(name)
	if !strings.HasPrefix(lower, "strategy") {
		return false
	}
	suffix := lower[len("strategy"):]
	n, err := strconv.Atoi(suffix)
	return err == nil && strconv.Itoa(n) == suffix && n >= 1 && n <= simulation.MaxStrategies
}
