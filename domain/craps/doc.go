// Package craps implements the betting engine of the craps simulator: the
// table, the bets and their payoffs, bet sizing and the strategies that play
// them.
//
// # Core Types
//
// Table: the puck, the point and the shooter, updated once per roll.
//
// Bet: one wager on the layout with its type, point and state.
//
// Wager: sizes bets from a standard unit, keeps them inside the table limits
// and the bankroll, and applies wager progressions and bet modifications.
//
// QualifiedShooter: decides whether a strategy bets on the current shooter.
//
// Strategy: a bankroll, a Wager, a QualifiedShooter and the bets on the
// layout.
//
// # Roll Cycle
//
// Every roll goes through the same steps for every strategy at the table:
//
//	MakeBets → roll → ResolveBets → QualifyTheShooter → ModifyBets → FinalizeBets → Table.Update
//
// A run ends when no strategy is StillPlaying. UpdateStatistics records the
// run and Reset prepares the next one.
package craps
