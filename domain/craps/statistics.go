package craps

// Measure is what a strategy's runs are judged on.
type Measure int

const (
	// MeasureRolls judges a run by whether the strategy left with
	// significant winnings and records how many rolls it took.
	MeasureRolls Measure = iota
	// MeasureBankroll plays a fixed number of rolls and records the final
	// bankroll.
	MeasureBankroll
)

func (m Measure) String() string {
	if m == MeasureBankroll {
		return "Bankroll"
	}
	return "Rolls"
}

// Statistics aggregates the runs of one strategy.
type Statistics struct {
	Measure Measure
	Runs    int
	Wins    int
	Losses  int
	// Pushes and Returns count bets, not runs.
	Pushes  int
	Returns int

	WinMin  int
	WinMax  int
	WinSum  int64
	LossMin int
	LossMax int
	LossSum int64

	MaxBankroll int
}

// RunOutcome is the result of one run for one strategy.
type RunOutcome struct {
	Strategy string
	Won      bool
	Rolls    int
	Bankroll int
	// Value is the measured quantity: rolls or final bankroll.
	Value int
}

func (s *Statistics) record(o RunOutcome) {
	s.Runs++
	if o.Won {
		if s.Wins == 0 || o.Value < s.WinMin {
			s.WinMin = o.Value
		}
		s.WinMax = max(s.WinMax, o.Value)
		s.WinSum += int64(o.Value)
		s.Wins++
	} else {
		if s.Losses == 0 || o.Value < s.LossMin {
			s.LossMin = o.Value
		}
		s.LossMax = max(s.LossMax, o.Value)
		s.LossSum += int64(o.Value)
		s.Losses++
	}
}

func (s Statistics) WinPercent() float64 {
	if s.Runs == 0 {
		return 0
	}
	return float64(s.Wins) * 100 / float64(s.Runs)
}

func (s Statistics) WinAverage() float64 {
	if s.Wins == 0 {
		return 0
	}
	return float64(s.WinSum) / float64(s.Wins)
}

func (s Statistics) LossAverage() float64 {
	if s.Losses == 0 {
		return 0
	}
	return float64(s.LossSum) / float64(s.Losses)
}

// Merge combines statistics of the same strategy gathered by different
// workers.
func (s Statistics) Merge(o Statistics) Statistics {
	if o.Wins > 0 && (s.Wins == 0 || o.WinMin < s.WinMin) {
		s.WinMin = o.WinMin
	}
	if o.Losses > 0 && (s.Losses == 0 || o.LossMin < s.LossMin) {
		s.LossMin = o.LossMin
	}
	s.WinMax = max(s.WinMax, o.WinMax)
	s.LossMax = max(s.LossMax, o.LossMax)
	s.WinSum += o.WinSum
	s.LossSum += o.LossSum
	s.Runs += o.Runs
	s.Wins += o.Wins
	s.Losses += o.Losses
	s.Pushes += o.Pushes
	s.Returns += o.Returns
	s.MaxBankroll = max(s.MaxBankroll, o.MaxBankroll)
	return s
}
