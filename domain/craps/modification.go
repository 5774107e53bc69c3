package craps

import "fmt"

// BetModification decides what happens to place, big and hard way bets after
// they win.
type BetModification int

const (
	NoBetModification BetModification = iota
	CollectPressRegress
	ClassicRegression
	Press
	TakeDownAfterHits
)

var betModificationNames = []string{"NO_METHOD", "COLLECT_PRESS_REGRESS", "CLASSIC_REGRESSION", "PRESS", "TAKE_DOWN_AFTER_HITS"}

func ParseBetModification(s string) (BetModification, error) {
	return parseName[BetModification]("bet modification method", betModificationNames, s)
}

func (m BetModification) String() string {
	return nameOf(betModificationNames, m)
}

// SetModification selects the bet modification method. limit is the number
// of hits for Press and TakeDownAfterHits.
func (w *Wager) SetModification(m BetModification, limit int) error {
	if (m == Press || m == TakeDownAfterHits) && limit < 1 {
		return fmt.Errorf("%w: %s needs a count of at least 1, got %d", ErrInvalidSetting, m, limit)
	}
	w.modification = m
	w.modificationLimit = limit
	return nil
}

func (w *Wager) Modification() BetModification { return w.modification }
func (w *Wager) ModificationLimit() int         { return w.modificationLimit }

// ModificationWins is the number of winning rolls counted since the last
// reset of the modification method.
func (w *Wager) ModificationWins() int { return w.wins }

// ModifyBets applies the modification method to the bets after a roll has
// been resolved and before resolved bets are removed. Winning bets that are
// re-armed go back to Unresolved with a new wager taken from money; bets
// taken down are Returned and credited. It reports true when the strategy
// should stop betting until the shooter qualifies again.
func (w *Wager) ModifyBets(money *Money, t *Table, bets []*Bet) bool {
	if w.modification == NoBetModification {
		return false
	}

	var won, up []*Bet
	for _, b := range bets {
		if !b.typ.IsModifiable() {
			continue
		}
		switch b.state {
		case Won:
			won = append(won, b)
		case Unresolved:
			up = append(up, b)
		}
	}
	if t.IsComingOut() && len(won) == 0 && len(up) == 0 {
		w.wins = 0
	}
	if len(won) == 0 {
		return false
	}
	w.wins++

	switch w.modification {
	case CollectPressRegress:
		switch w.wins {
		case 1:
			w.rearm(money, won, same)
		case 2:
			w.rearm(money, won, double)
		default:
			w.rearm(money, won, w.half)
			w.wins = 0
		}
	case ClassicRegression:
		if w.wins == 1 {
			for _, b := range up {
				if reduced := w.half(b.wager); reduced < b.wager {
					money.Increment(b.wager - reduced)
					b.wager = reduced
				}
			}
			w.rearm(money, won, w.half)
			return false
		}
		takeDown(money, up)
		w.wins = 0
		return true
	case Press:
		if w.wins <= w.modificationLimit {
			w.rearm(money, won, double)
			break
		}
		w.rearm(money, won, same)
		w.wins = 0
	case TakeDownAfterHits:
		if w.wins <= w.modificationLimit {
			w.rearm(money, won, same)
			break
		}
		takeDown(money, up)
		w.wins = 0
	}
	return false
}

func same(wager int) int   { return wager }
func double(wager int) int { return 2 * wager }

// half regresses a wager, never below the standard wager.
func (w *Wager) half(wager int) int {
	return min(wager, max(wager/2, w.standard))
}

// rearm puts winning bets back up at size(wager). A bet the bankroll cannot
// cover at the new size is tried at its old size, then left to be collected.
func (w *Wager) rearm(money *Money, won []*Bet, size func(int) int) {
	for _, b := range won {
		amount := min(size(b.wager), w.tableMax)
		if w.fullWager && b.typ == Place {
			amount = placeFullPayoff(b.point, amount)
		}
		if amount > money.Bankroll() {
			amount = b.wager
		}
		if amount > money.Bankroll() || amount < w.tableMin {
			continue
		}
		money.Decrement(amount)
		b.wager = amount
		b.state = Unresolved
	}
}

func takeDown(money *Money, bets []*Bet) {
	for _, b := range bets {
		money.Increment(b.wager)
		b.state = Returned
	}
}
