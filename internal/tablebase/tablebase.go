// Package tablebase precomputes the outcome and the best moves of every reachable
// position, stored once per symmetry class.
package tablebase

import (
	"context"
	"fmt"
	"slices"

	"github.com/rocketscienceinc/tictactoe-solver/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solver/internal/entity"
	"github.com/rocketscienceinc/tictactoe-solver/internal/solver"
	"github.com/rocketscienceinc/tictactoe-solver/internal/symmetry"
)

// Entries are built with these marks; lookups translate any caller marks through the encoding.
const (
	firstMark  entity.Mark = 1
	secondMark entity.Mark = 2
)

type Key struct {
	Encoding    int
	FirstToMove bool
}

// Entry describes one canonical position. BestMoves are cells of the canonical board.
type Entry struct {
	Key
	Outcome   entity.Outcome
	BestMoves []int
}

type Table struct {
	entries map[Key]Entry
}

func New(entries []Entry) *Table {
	table := &Table{entries: make(map[Key]Entry, len(entries))}
	for _, e := range entries {
		table.entries[e.Key] = e
	}

	return table
}

func (that *Table) Len() int {
	return len(that.entries)
}

// Entries - returns the stored entries ordered by key.
func (that *Table) Entries() []Entry {
	out := make([]Entry, 0, len(that.entries))
	for _, e := range that.entries {
		out = append(out, e)
	}

	slices.SortFunc(out, func(a, b Entry) int {
		if a.Encoding != b.Encoding {
			return a.Encoding - b.Encoding
		}
		if a.FirstToMove == b.FirstToMove {
			return 0
		}
		if a.FirstToMove {
			return -1
		}
		return 1
	})

	return out
}

// Lookup - returns the entry for pos with its best moves expressed as cells of pos.Board.
func (that *Table) Lookup(pos entity.Position) (Entry, error) {
	encoding, op := symmetry.Canonical(pos.Board, pos.First, pos.Second)

	key := Key{Encoding: encoding, FirstToMove: pos.FirstToMove()}
	stored, ok := that.entries[key]
	if !ok {
		return Entry{}, fmt.Errorf("%w: encoding %d", apperror.ErrPositionNotFound, encoding)
	}

	moves := make([]int, 0, len(stored.BestMoves))
	for _, m := range stored.BestMoves {
		cell, err := symmetry.NewIndex(m, op)
		if err != nil {
			return Entry{}, fmt.Errorf("failed to map move %d: %w", m, err)
		}
		moves = append(moves, cell)
	}
	slices.Sort(moves)

	return Entry{Key: key, Outcome: stored.Outcome, BestMoves: moves}, nil
}

type evaluator interface {
	EvaluateMoves(ctx context.Context, pos entity.Position, variant entity.Variant) ([]solver.MoveEval, error)
}

type builder struct {
	solver  evaluator
	entries map[Key]Entry
	seen    map[Key]struct{}
}

// Build - walks every position reachable from the empty board, for either side
// starting, and solves each symmetry class once.
func Build(ctx context.Context, s evaluator) (*Table, error) {
	b := &builder{
		solver:  s,
		entries: make(map[Key]Entry),
		seen:    make(map[Key]struct{}),
	}

	for _, start := range []entity.Mark{firstMark, secondMark} {
		pos := entity.NewPosition(entity.Board{}, start, firstMark, secondMark)
		if err := b.walk(ctx, pos); err != nil {
			return nil, err
		}
	}

	return &Table{entries: b.entries}, nil
}

func (that *builder) walk(ctx context.Context, pos *entity.Position) error {
	key := Key{Encoding: symmetry.Encode(pos.Board, firstMark, secondMark), FirstToMove: pos.FirstToMove()}
	if _, ok := that.seen[key]; ok {
		return nil
	}
	that.seen[key] = struct{}{}

	if pos.Board.HasWinningLine() || pos.Board.IsFull() {
		return nil
	}

	if err := that.solveClass(ctx, *pos); err != nil {
		return err
	}

	for _, cell := range pos.Board.EmptyCells() {
		pos.ApplyMove(cell)
		err := that.walk(ctx, pos)
		pos.UndoMove(cell)

		if err != nil {
			return err
		}
	}

	return nil
}

func (that *builder) solveClass(ctx context.Context, pos entity.Position) error {
	encoding, _ := symmetry.Canonical(pos.Board, firstMark, secondMark)

	key := Key{Encoding: encoding, FirstToMove: pos.FirstToMove()}
	if _, ok := that.entries[key]; ok {
		return nil
	}

	rep := *entity.NewPosition(symmetry.Decode(encoding, firstMark, secondMark), pos.Turn, firstMark, secondMark)

	evals, err := that.solver.EvaluateMoves(ctx, rep, entity.VariantPruned)
	if err != nil {
		return fmt.Errorf("failed to evaluate encoding %d: %w", encoding, err)
	}

	best := solver.BestMoves(rep, evals)
	moves := make([]int, 0, len(best))
	for _, e := range best {
		moves = append(moves, e.Cell)
	}

	that.entries[key] = Entry{Key: key, Outcome: best[0].Outcome, BestMoves: moves}

	return nil
}
