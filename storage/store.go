// Package storage keeps simulation results and run ledgers in a SQLite
// database.
package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/luca-patrignani/crapsim/dice"
	"github.com/luca-patrignani/crapsim/domain/craps"
	"github.com/luca-patrignani/crapsim/ledger"
	"github.com/luca-patrignani/crapsim/simulation"
)

var (
	// ErrNotFound is returned when no simulation has the requested ID.
	ErrNotFound = errors.New("simulation not found")
	// ErrAlreadyExists is returned when a simulation ID is saved twice.
	ErrAlreadyExists = errors.New("simulation already exists")
)

//go:embed schema.sql
var schema string

// Store persists simulations in SQLite.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

// Open opens the database at path and creates the tables it lacks.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{sqlDB: sqlDB, now: time.Now}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// SaveResult stores the summary, the statistics of every strategy and the
// dice history of res in one transaction.
func (s *Store) SaveResult(ctx context.Context, res *simulation.Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if res == nil || strings.TrimSpace(res.ID) == "" {
		return fmt.Errorf("simulation id is required")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO simulations (
		   id, runs, workers, table_odds, minimum_wager, maximum_wager, elapsed_ms, created_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		res.ID,
		res.Runs,
		res.Workers,
		res.Table.Odds.String(),
		res.Table.MinimumWager,
		res.Table.MaximumWager,
		res.Elapsed.Milliseconds(),
		s.now().UTC().UnixMilli(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("insert simulation: %w", err)
	}

	for i, sr := range res.Strategies {
		settings, err := json.Marshal(sr.Config)
		if err != nil {
			return fmt.Errorf("marshal settings of %q: %w", sr.Name(), err)
		}
		st := sr.Statistics
		_, err = tx.ExecContext(ctx,
			`INSERT INTO strategy_results (
			   simulation_id, position, name, measure, runs, wins, losses, pushes, returns,
			   win_min, win_max, win_sum, loss_min, loss_max, loss_sum, max_bankroll, settings_json
			 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			res.ID, i, sr.Name(), int(st.Measure), st.Runs, st.Wins, st.Losses, st.Pushes, st.Returns,
			st.WinMin, st.WinMax, st.WinSum, st.LossMin, st.LossMax, st.LossSum, st.MaxBankroll, string(settings),
		)
		if err != nil {
			return fmt.Errorf("insert result of %q: %w", sr.Name(), err)
		}
	}

	for v := 2; v <= 12; v++ {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO dice_counts (simulation_id, value, count) VALUES (?, ?, ?)`,
			res.ID, v, res.Dice.Count(v),
		); err != nil {
			return fmt.Errorf("insert dice count: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit result: %w", err)
	}
	return nil
}

// LoadResult reads back a result saved with SaveResult.
func (s *Store) LoadResult(ctx context.Context, id string) (*simulation.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res := &simulation.Result{ID: id}
	var odds string
	var elapsed int64
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT runs, workers, table_odds, minimum_wager, maximum_wager, elapsed_ms
		 FROM simulations WHERE id = ?`, id,
	).Scan(&res.Runs, &res.Workers, &odds, &res.Table.MinimumWager, &res.Table.MaximumWager, &elapsed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get simulation: %w", err)
	}
	if res.Table.Odds, err = craps.ParseTableOdds(odds); err != nil {
		return nil, fmt.Errorf("simulation %s: %w", id, err)
	}
	res.Elapsed = time.Duration(elapsed) * time.Millisecond

	if res.Strategies, err = s.loadStrategies(ctx, id); err != nil {
		return nil, err
	}
	if res.Dice, err = s.loadDice(ctx, id); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Store) loadStrategies(ctx context.Context, id string) ([]simulation.StrategyResult, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT measure, runs, wins, losses, pushes, returns,
		        win_min, win_max, win_sum, loss_min, loss_max, loss_sum, max_bankroll, settings_json
		 FROM strategy_results WHERE simulation_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("list strategy results: %w", err)
	}
	defer rows.Close()

	var out []simulation.StrategyResult
	for rows.Next() {
		var sr simulation.StrategyResult
		var measure int
		var settings string
		st := &sr.Statistics
		if err := rows.Scan(&measure, &st.Runs, &st.Wins, &st.Losses, &st.Pushes, &st.Returns,
			&st.WinMin, &st.WinMax, &st.WinSum, &st.LossMin, &st.LossMax, &st.LossSum, &st.MaxBankroll, &settings); err != nil {
			return nil, fmt.Errorf("scan strategy result: %w", err)
		}
		st.Measure = craps.Measure(measure)
		if err := json.Unmarshal([]byte(settings), &sr.Config); err != nil {
			return nil, fmt.Errorf("unmarshal settings: %w", err)
		}
		out = append(out, sr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate strategy results: %w", err)
	}
	return out, nil
}

func (s *Store) loadDice(ctx context.Context, id string) (dice.Histogram, error) {
	var h dice.Histogram
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT value, count FROM dice_counts WHERE simulation_id = ?`, id)
	if err != nil {
		return h, fmt.Errorf("list dice counts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var value, count int
		if err := rows.Scan(&value, &count); err != nil {
			return h, fmt.Errorf("scan dice count: %w", err)
		}
		h.Add(value, count)
	}
	if err := rows.Err(); err != nil {
		return h, fmt.Errorf("iterate dice counts: %w", err)
	}
	return h, nil
}

// SaveLedger stores every block of l. The chain is verified first.
func (s *Store) SaveLedger(ctx context.Context, l *ledger.Ledger) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := l.Verify(); err != nil {
		return fmt.Errorf("verify ledger: %w", err)
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO ledger_blocks (
		   simulation_id, block_index, timestamp, prev_hash, hash, run_json, metadata_json
		 ) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare block insert: %w", err)
	}
	defer stmt.Close()

	for _, b := range l.Blocks() {
		run, err := json.Marshal(b.Run)
		if err != nil {
			return fmt.Errorf("marshal block %d: %w", b.Index, err)
		}
		meta, err := json.Marshal(b.Metadata)
		if err != nil {
			return fmt.Errorf("marshal block %d: %w", b.Index, err)
		}
		if _, err := stmt.ExecContext(ctx, l.SimulationID(), b.Index, b.Timestamp, b.PrevHash, b.Hash, string(run), string(meta)); err != nil {
			if isUniqueViolation(err) {
				return ErrAlreadyExists
			}
			return fmt.Errorf("insert block %d: %w", b.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit ledger: %w", err)
	}
	return nil
}

// LoadLedger reads back the ledger of a simulation and verifies it.
func (s *Store) LoadLedger(ctx context.Context, id string) (*ledger.Ledger, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT block_index, timestamp, prev_hash, hash, run_json, metadata_json
		 FROM ledger_blocks WHERE simulation_id = ? ORDER BY block_index`, id)
	if err != nil {
		return nil, fmt.Errorf("list ledger blocks: %w", err)
	}
	defer rows.Close()

	var blocks []ledger.Block
	for rows.Next() {
		var b ledger.Block
		var run, meta string
		if err := rows.Scan(&b.Index, &b.Timestamp, &b.PrevHash, &b.Hash, &run, &meta); err != nil {
			return nil, fmt.Errorf("scan ledger block: %w", err)
		}
		if err := json.Unmarshal([]byte(run), &b.Run); err != nil {
			return nil, fmt.Errorf("unmarshal block %d: %w", b.Index, err)
		}
		if err := json.Unmarshal([]byte(meta), &b.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshal block %d: %w", b.Index, err)
		}
		blocks = append(blocks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ledger blocks: %w", err)
	}
	if len(blocks) == 0 {
		return nil, ErrNotFound
	}
	return ledger.FromBlocks(blocks)
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
