package craps

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownPoint is returned when a point number is required and the
	// argument is not one of 4, 5, 6, 8, 9, 10.
	ErrUnknownPoint = errors.New("not a point number")
	// ErrInvalidPayoff is returned by the payoff calculator for a bet type and
	// point that cannot win.
	ErrInvalidPayoff = errors.New("no payoff for bet")
	// ErrOddsOnComeOut is returned when a line odds bet is still on the
	// layout during a come out roll.
	ErrOddsOnComeOut = errors.New("odds bet resolved on the come out roll")
	// ErrInvalidSetting is returned for out of range table or strategy
	// settings.
	ErrInvalidSetting = errors.New("invalid setting")
	// ErrUnknownMethod is returned when a method or type name is not
	// recognised.
	ErrUnknownMethod = errors.New("unknown method")
)

// parseName maps a configuration name onto its position in names, ignoring
// case and surrounding blanks.
func parseName[T ~int](kind string, names []string, s string) (T, error) {
	s = strings.TrimSpace(s)
	for i, n := range names {
		if strings.EqualFold(n, s) {
			return T(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %s %q", ErrUnknownMethod, kind, s)
}

func nameOf[T ~int](names []string, v T) string {
	if int(v) < 0 || int(v) >= len(names) {
		return fmt.Sprintf("%d", int(v))
	}
	return names[v]
}
