package craps

import (
	"fmt"

	"github.com/luca-patrignani/crapsim/dice"
)

// ratio is a payoff of num to den.
type ratio struct {
	num, den int
}

func (r ratio) of(wager int) int {
	return wager * r.num / r.den
}

var (
	evenMoney = ratio{1, 1}

	trueOdds  = map[int]ratio{4: {2, 1}, 10: {2, 1}, 5: {3, 2}, 9: {3, 2}, 6: {6, 5}, 8: {6, 5}}
	layOdds   = map[int]ratio{4: {1, 2}, 10: {1, 2}, 5: {2, 3}, 9: {2, 3}, 6: {5, 6}, 8: {5, 6}}
	placeOdds = map[int]ratio{4: {9, 5}, 10: {9, 5}, 5: {7, 5}, 9: {7, 5}, 6: {7, 6}, 8: {7, 6}}
	hardOdds  = map[int]ratio{4: {7, 1}, 10: {7, 1}, 6: {9, 1}, 8: {9, 1}}
	fieldOdds = map[int]ratio{2: {2, 1}, 3: {1, 1}, 4: {1, 1}, 9: {1, 1}, 10: {1, 1}, 11: {1, 1}, 12: {3, 1}}
)

// oneRollOdds pays the proposition bets. A zero point is accepted for a bet
// that has not been decided yet.
var oneRollOdds = map[BetType]struct {
	pays    ratio
	winning []int
}{
	Any7:     {ratio{4, 1}, []int{7}},
	AnyCraps: {ratio{7, 1}, []int{2, 3, 12}},
	Craps2:   {ratio{30, 1}, []int{2}},
	Craps3:   {ratio{15, 1}, []int{3}},
	Yo11:     {ratio{15, 1}, []int{11}},
	Craps12:  {ratio{30, 1}, []int{12}},
}

// Payoff returns what a winning bet of typ on point pays for wager, not
// counting the wager itself.
func Payoff(typ BetType, point, wager int) (int, error) {
	r, ok := payoffRatio(typ, point)
	if !ok {
		return 0, fmt.Errorf("%s on %d: %w", typ, point, ErrInvalidPayoff)
	}
	return r.of(wager), nil
}

func payoffRatio(typ BetType, point int) (ratio, bool) {
	switch typ {
	case Pass, DontPass, Come, DontCome, Put:
		return evenMoney, true
	case PassOdds, ComeOdds, PutOdds:
		r, ok := trueOdds[point]
		return r, ok
	case DontPassOdds, DontComeOdds:
		r, ok := layOdds[point]
		return r, ok
	case Place:
		r, ok := placeOdds[point]
		return r, ok
	case Field:
		r, ok := fieldOdds[point]
		return r, ok
	case Hard:
		r, ok := hardOdds[point]
		return r, ok
	case Big:
		if point == 6 || point == 8 {
			return evenMoney, true
		}
	case Any7, AnyCraps, Craps2, Craps3, Yo11, Craps12:
		p := oneRollOdds[typ]
		if point == 0 {
			return p.pays, true
		}
		for _, w := range p.winning {
			if w == point {
				return p.pays, true
			}
		}
	}
	return ratio{}, false
}

// layWager is what must be laid behind a don't bet on point to win wager.
func layWager(point, wager int) (int, error) {
	if !dice.IsPointNumber(point) {
		return 0, fmt.Errorf("lay odds on %d: %w", point, ErrUnknownPoint)
	}
	return trueOdds[point].of(wager), nil
}
