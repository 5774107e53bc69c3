package craps

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/luca-patrignani/crapsim/dice"
)

// Qualification is the rule a shooter must satisfy before a strategy bets.
type Qualification int

const (
	NoQualification Qualification = iota
	FiveCount
	AfterPointEstablished
	AfterPointMade
	AfterLosingField
	AfterNonSevenRolls
	AfterNXInARow
)

var qualificationNames = []string{
	"NO_METHOD", "5COUNT", "AFTER_POINT_ESTABLISHED", "AFTER_POINT_MADE",
	"AFTER_LOSING_FIELD", "AFTER_NON_SEVEN_ROLLS", "AFTER_N_X_IN_A_ROW",
}

// Default counts for the counting methods.
const (
	DefaultLosingFieldCount = 3
	DefaultNonSevenCount    = 5
	DefaultInARowCount      = 2
)

// ParseQualification accepts the method names above. The in a row method may
// also carry its number, as in AFTER_N_6S_IN_A_ROW, which is returned as
// target (0 otherwise).
func ParseQualification(s string) (q Qualification, target int, err error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	if strings.HasPrefix(name, "AFTER_N_") && strings.HasSuffix(name, "S_IN_A_ROW") {
		n := strings.TrimSuffix(strings.TrimPrefix(name, "AFTER_N_"), "S_IN_A_ROW")
		x, err := strconv.Atoi(n)
		if err != nil {
			return 0, 0, fmt.Errorf("%w: qualification method %q", ErrUnknownMethod, s)
		}
		if err := validInARowTarget(x); err != nil {
			return 0, 0, err
		}
		return AfterNXInARow, x, nil
	}
	q, err = parseName[Qualification]("qualification method", qualificationNames, name)
	return q, 0, err
}

func (q Qualification) String() string {
	return nameOf(qualificationNames, q)
}

func validInARowTarget(x int) error {
	if x < 2 || x > 12 || x == 7 {
		return fmt.Errorf("%w: in a row number %d must be 2-12 and not 7", ErrInvalidSetting, x)
	}
	return nil
}

// QualifiedShooter gates a strategy's betting. It is re-evaluated after every
// roll against the table as it was before the roll.
type QualifiedShooter struct {
	method           Qualification
	count            int
	target           int
	stopsWithShooter bool

	counter   int
	qualified bool
	// sittingOut keeps the gate closed until the shooter sevens out.
	sittingOut bool
}

// NewQualifiedShooter builds the gate. count is the N of the counting
// methods (0 selects the default); target is the X of AfterNXInARow.
func NewQualifiedShooter(method Qualification, count, target int, stopsWithShooter bool) (*QualifiedShooter, error) {
	if int(method) < 0 || int(method) >= len(qualificationNames) {
		return nil, fmt.Errorf("%w: qualification method %d", ErrUnknownMethod, method)
	}
	if count < 0 {
		return nil, fmt.Errorf("%w: qualification count %d is negative", ErrInvalidSetting, count)
	}
	if count == 0 {
		switch method {
		case AfterLosingField:
			count = DefaultLosingFieldCount
		case AfterNonSevenRolls:
			count = DefaultNonSevenCount
		case AfterNXInARow:
			count = DefaultInARowCount
		}
	}
	if method == AfterNXInARow {
		if err := validInARowTarget(target); err != nil {
			return nil, err
		}
	}
	return &QualifiedShooter{
		method:           method,
		count:            count,
		target:           target,
		stopsWithShooter: stopsWithShooter,
	}, nil
}

func (q *QualifiedShooter) Method() Qualification  { return q.method }
func (q *QualifiedShooter) Count() int             { return q.count }
func (q *QualifiedShooter) Target() int            { return q.target }
func (q *QualifiedShooter) StopsWithShooter() bool { return q.stopsWithShooter }

// ShooterQualified reports the gate after the last evaluated roll.
func (q *QualifiedShooter) ShooterQualified() bool {
	if q.sittingOut {
		return false
	}
	return q.method == NoQualification || q.qualified
}

// QualifyTheShooter updates the gate with roll r. t must not have been
// updated with r yet.
func (q *QualifiedShooter) QualifyTheShooter(t *Table, r dice.Roll) {
	if !t.IsComingOut() && r.IsSeven() {
		q.Reset()
		return
	}
	switch q.method {
	case NoQualification:
	case FiveCount:
		switch {
		case q.counter == 0:
			if t.NewShooter() && t.IsComingOut() && r.IsPointNumber() {
				q.counter = 1
			}
		case q.counter < 4:
			q.counter++
		case q.counter == 4:
			if r.IsPointNumber() {
				q.counter = 5
				q.qualified = true
			}
		}
	case AfterPointEstablished:
		if t.NewShooter() && t.IsComingOut() && r.IsPointNumber() {
			q.qualified = true
		}
	case AfterPointMade:
		if !t.IsComingOut() && r.Is(t.Point()) {
			q.qualified = true
		}
	case AfterLosingField:
		q.qualified = false
		if r.IsFieldNumber() {
			q.counter = 0
			break
		}
		q.counter++
		if q.counter >= q.count {
			q.qualified = true
			q.counter = 0
		}
	case AfterNonSevenRolls:
		if r.IsSeven() {
			q.restart()
			break
		}
		q.counter++
		if q.counter >= q.count {
			q.qualified = true
		}
	case AfterNXInARow:
		if !q.stopsWithShooter {
			q.qualified = false
		}
		if !r.Is(q.target) {
			q.counter = 0
			break
		}
		q.counter++
		if q.counter >= q.count {
			q.qualified = true
			if !q.stopsWithShooter {
				q.counter = 0
			}
		}
	}
}

// Reset closes the gate until a shooter qualifies again.
func (q *QualifiedShooter) Reset() {
	q.restart()
	q.sittingOut = false
}

// SitOut closes the gate for the rest of the current shooter, whatever the
// method.
func (q *QualifiedShooter) SitOut() {
	q.restart()
	q.sittingOut = true
}

func (q *QualifiedShooter) restart() {
	q.counter = 0
	q.qualified = false
}
