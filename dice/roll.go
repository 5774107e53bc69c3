package dice

import (
	"errors"
	"fmt"
)

// Faces is the number of faces on a die.
const Faces = 6

// ErrInvalidFace is returned when a die face is outside 1..6.
var ErrInvalidFace = errors.New("invalid die face")

// Roll is the outcome of a single throw of the two dice.
type Roll struct {
	Die1 int
	Die2 int
}

// NewRoll builds a roll from two die faces.
func NewRoll(die1, die2 int) (Roll, error) {
	if die1 < 1 || die1 > Faces || die2 < 1 || die2 > Faces {
		return Roll{}, fmt.Errorf("%w: %d,%d", ErrInvalidFace, die1, die2)
	}
	return Roll{Die1: die1, Die2: die2}, nil
}

// Easy returns an easy (non matching) roll totalling value, or the only
// possible pair when value is 2 or 12.
func Easy(value int) Roll {
	d1 := max(1, value-Faces)
	return Roll{Die1: d1, Die2: value - d1}
}

// Hard returns the matching pair totalling value. value must be even.
func Hard(value int) Roll {
	return Roll{Die1: value / 2, Die2: value / 2}
}

func (r Roll) Value() int {
	return r.Die1 + r.Die2
}

func (r Roll) Is(value int) bool {
	return r.Value() == value
}

func (r Roll) IsSeven() bool {
	return r.Value() == 7
}

// IsCraps reports a 2, 3 or 12.
func (r Roll) IsCraps() bool {
	switch r.Value() {
	case 2, 3, 12:
		return true
	}
	return false
}

// IsNatural reports a 7 or 11.
func (r Roll) IsNatural() bool {
	switch r.Value() {
	case 7, 11:
		return true
	}
	return false
}

func (r Roll) IsPointNumber() bool {
	return IsPointNumber(r.Value())
}

func (r Roll) IsFieldNumber() bool {
	return IsFieldNumber(r.Value())
}

// IsHard reports whether both dice show the same face.
func (r Roll) IsHard() bool {
	return r.Die1 == r.Die2
}

func (r Roll) String() string {
	return fmt.Sprintf("%d (%d+%d)", r.Value(), r.Die1, r.Die2)
}

// IsPointNumber reports whether n is one of 4, 5, 6, 8, 9, 10.
func IsPointNumber(n int) bool {
	switch n {
	case 4, 5, 6, 8, 9, 10:
		return true
	}
	return false
}

// IsFieldNumber reports whether n is one of 2, 3, 4, 9, 10, 11, 12.
func IsFieldNumber(n int) bool {
	switch n {
	case 2, 3, 4, 9, 10, 11, 12:
		return true
	}
	return false
}

// PointNumbers lists the point numbers in ascending order.
var PointNumbers = [...]int{4, 5, 6, 8, 9, 10}
