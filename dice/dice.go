// Package dice provides the two dice thrown at a craps table, the
// randomness sources behind them and a per-value roll histogram.
package dice

// Die is a single six sided die.
type Die struct {
	src  Source
	face int
}

func (d *Die) Roll() int {
	d.face = d.src.Intn(Faces) + 1
	return d.face
}

// Face returns the last rolled face, or 0 before the first roll.
func (d *Die) Face() int {
	return d.face
}

// Dice is the pair thrown by the shooter. Both dice share one source so that
// every strategy at the table sees the same sequence of rolls.
type Dice struct {
	die1    Die
	die2    Die
	last    Roll
	history Histogram
}

func New(src Source) *Dice {
	return &Dice{die1: Die{src: src}, die2: Die{src: src}}
}

// Roll throws both dice and records the total in the history.
func (d *Dice) Roll() Roll {
	d.last = Roll{Die1: d.die1.Roll(), Die2: d.die2.Roll()}
	d.history.Record(d.last.Value())
	return d.last
}

func (d *Dice) Last() Roll {
	return d.last
}

// History returns a copy of the rolls counted so far.
func (d *Dice) History() Histogram {
	return d.history
}
