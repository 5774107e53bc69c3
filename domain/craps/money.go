package craps

import "fmt"

// DefaultSignificantWinningsMultiple doubles the initial bankroll.
const DefaultSignificantWinningsMultiple = 2.0

// Money is a strategy's bankroll bookkeeping.
type Money struct {
	initial  int
	bankroll int
	max      int

	significantWinningsMultiple float64
	significantWinnings         int

	beforeBetting  int
	afterBetting   int
	afterResolving int
}

// NewMoney starts a bankroll of initial units. The strategy stops once the
// bankroll reaches initial times multiple or, when winnings is positive,
// initial plus winnings.
func NewMoney(initial int, multiple float64, winnings int) (Money, error) {
	if initial < 1 {
		return Money{}, fmt.Errorf("%w: initial bankroll %d must be positive", ErrInvalidSetting, initial)
	}
	if multiple <= 1 {
		return Money{}, fmt.Errorf("%w: significant winnings multiple %.2f must exceed 1", ErrInvalidSetting, multiple)
	}
	if winnings < 0 {
		return Money{}, fmt.Errorf("%w: significant winnings %d is negative", ErrInvalidSetting, winnings)
	}
	m := Money{
		initial:                     initial,
		significantWinningsMultiple: multiple,
		significantWinnings:         winnings,
	}
	m.Reset()
	return m, nil
}

func (m *Money) Initial() int  { return m.initial }
func (m *Money) Bankroll() int { return m.bankroll }
func (m *Money) Max() int      { return m.max }

func (m *Money) Increment(n int) {
	m.bankroll += n
	m.max = max(m.max, m.bankroll)
}

func (m *Money) Decrement(n int) {
	m.bankroll -= n
}

// SignificantWinnings returns the bankroll at which the strategy quits while
// ahead.
func (m *Money) SignificantWinnings() int {
	if m.significantWinnings > 0 {
		return m.initial + m.significantWinnings
	}
	return int(float64(m.initial) * m.significantWinningsMultiple)
}

func (m *Money) HasSignificantWinnings() bool {
	return m.bankroll >= m.SignificantWinnings()
}

func (m *Money) MarkBeforeBetting()  { m.beforeBetting = m.bankroll }
func (m *Money) MarkAfterBetting()   { m.afterBetting = m.bankroll }
func (m *Money) MarkAfterResolving() { m.afterResolving = m.bankroll }

func (m *Money) BeforeBetting() int  { return m.beforeBetting }
func (m *Money) AfterBetting() int   { return m.afterBetting }
func (m *Money) AfterResolving() int { return m.afterResolving }

func (m *Money) Reset() {
	m.bankroll = m.initial
	m.max = m.initial
	m.beforeBetting = m.initial
	m.afterBetting = m.initial
	m.afterResolving = m.initial
}
