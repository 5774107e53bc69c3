package craps

// Predefined names a ready made strategy.
type Predefined int

const (
	NoPredefined Predefined = iota
	Elementary
	Conservative
	Conventional
	Aggressive
)

var predefinedNames = []string{"", "Elementary", "Conservative", "Conventional", "Aggressive"}

func ParsePredefined(s string) (Predefined, error) {
	return parseName[Predefined]("predefined strategy", predefinedNames, s)
}

func (p Predefined) String() string {
	return nameOf(predefinedNames, p)
}

// ApplyPredefined overwrites the bet selection of c with predefined strategy
// p and names it. Money settings are left alone.
func ApplyPredefined(c *StrategyConfig, p Predefined) {
	switch p {
	case NoPredefined:
		return
	case Elementary:
		c.Description = "Pass only, single odds to start"
		c.PassBet = true
		c.ComeBets = 0
		c.PlaceBets = 0
		c.StandardOdds = 1.0
	case Conservative:
		c.Description = "Pass and one Come, single odds to start"
		c.PassBet = true
		c.ComeBets = 1
		c.PlaceBets = 0
		c.StandardOdds = 1.0
	case Conventional:
		c.Description = "Pass and two Comes, single odds to start"
		c.PassBet = true
		c.ComeBets = 2
		c.PlaceBets = 0
		c.StandardOdds = 1.0
	case Aggressive:
		c.Description = "Pass and either: 1) three Comes or 2) two Comes and one Place, double odds to start"
		c.PassBet = true
		c.ComeBets = 2
		c.PlaceBets = 1
		c.PlaceAfterCome = true
		c.StandardOdds = 2.0
	}
	c.Name = p.String()
	c.OddsProgression = Arithmetic
}
