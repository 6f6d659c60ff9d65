package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/tictactoe-solver/internal/entity"
	"github.com/rocketscienceinc/tictactoe-solver/internal/tablebase"
)

type TableBaseRepository interface {
	Save(ctx context.Context, entries []tablebase.Entry) error
	LoadAll(ctx context.Context) ([]tablebase.Entry, error)
	Count(ctx context.Context) (int, error)
}

type tableBaseRepository struct {
	conn *sql.DB
}

func NewTableBaseRepository(conn *sql.DB) TableBaseRepository {
	return &tableBaseRepository{
		conn: conn,
	}
}

// Save - replaces the stored table with entries in one transaction.
func (that *tableBaseRepository) Save(ctx context.Context, entries []tablebase.Entry) error {
	tx, err := that.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("can't begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint: errcheck // no-op after commit

	if _, err = tx.ExecContext(ctx, `DELETE FROM tablebase`); err != nil {
		return fmt.Errorf("can't clear tablebase: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO tablebase (encoding, first_to_move, outcome, best_moves) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("can't prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		_, err = stmt.ExecContext(ctx, e.Encoding, e.FirstToMove, int(e.Outcome), joinMoves(e.BestMoves))
		if err != nil {
			return fmt.Errorf("can't save entry %d: %w", e.Encoding, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("can't commit tablebase: %w", err)
	}

	return nil
}

func (that *tableBaseRepository) LoadAll(ctx context.Context) ([]tablebase.Entry, error) {
	query := `SELECT encoding, first_to_move, outcome, best_moves FROM tablebase ORDER BY encoding, first_to_move DESC`

	rows, err := that.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("can't query tablebase: %w", err)
	}
	defer rows.Close()

	var entries []tablebase.Entry
	for rows.Next() {
		var (
			e       tablebase.Entry
			outcome int
			moves   string
		)

		if err = rows.Scan(&e.Encoding, &e.FirstToMove, &outcome, &moves); err != nil {
			return nil, fmt.Errorf("can't scan tablebase row: %w", err)
		}

		e.Outcome = entity.Outcome(outcome) //nolint: gosec // stored values are -1, 0 or 1
		if e.BestMoves, err = splitMoves(moves); err != nil {
			return nil, fmt.Errorf("can't parse moves of %d: %w", e.Encoding, err)
		}

		entries = append(entries, e)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("can't read tablebase: %w", err)
	}

	return entries, nil
}

func (that *tableBaseRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := that.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM tablebase`).Scan(&n); err != nil {
		return 0, fmt.Errorf("can't count tablebase: %w", err)
	}

	return n, nil
}

func joinMoves(moves []int) string {
	parts := make([]string, len(moves))
	for i, m := range moves {
		parts[i] = strconv.Itoa(m)
	}

	return strings.Join(parts, ",")
}

func splitMoves(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}

	parts := strings.Split(s, ",")
	moves := make([]int, 0, len(parts))
	for _, p := range parts {
		m, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		moves = append(moves, m)
	}

	return moves, nil
}
