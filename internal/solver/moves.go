package solver

import (
	"context"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-solver/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solver/internal/entity"
)

// TieBreak decides between moves that lead to the same outcome.
type TieBreak string

const (
	TieBreakLeftmost  TieBreak = "leftmost"
	TieBreakRightmost TieBreak = "rightmost"
	TieBreakRandom    TieBreak = "random"
)

func ParseTieBreak(s string) (TieBreak, error) {
	switch TieBreak(s) {
	case TieBreakLeftmost, TieBreakRightmost, TieBreakRandom:
		return TieBreak(s), nil
	case "":
		return TieBreakLeftmost, nil
	default:
		return "", fmt.Errorf("%w: %q", apperror.ErrUnknownTieBreak, s)
	}
}

// MoveEval is the outcome reached by playing one cell.
type MoveEval struct {
	Cell    int            `json:"cell"`
	Outcome entity.Outcome `json:"outcome"`
	Visited uint32         `json:"visited"`
}

// EvaluateMoves - solves the position after each legal move, in ascending cell order.
// A move that completes a line is reported as a win without searching.
func (that *Solver) EvaluateMoves(ctx context.Context, pos entity.Position, variant entity.Variant) ([]MoveEval, error) {
	if pos.Board.HasWinningLine() {
		return nil, apperror.ErrGameFinished
	}

	cells := pos.Board.EmptyCells()
	evals := make([]MoveEval, 0, len(cells))
	for _, cell := range cells {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		b, err := solveChild(pos, cell, variant)
		if err != nil {
			return nil, err
		}

		evals = append(evals, MoveEval{Cell: cell, Outcome: b.outcome, Visited: b.visited})
	}

	return evals, nil
}

// BestMoves - returns the evaluations sharing the best outcome for the side to move.
func BestMoves(pos entity.Position, evals []MoveEval) []MoveEval {
	if len(evals) == 0 {
		return nil
	}

	forFirst := pos.FirstToMove()
	best := evals[0].Outcome
	for _, e := range evals[1:] {
		if e.Outcome.Better(best, forFirst) {
			best = e.Outcome
		}
	}

	moves := make([]MoveEval, 0, len(evals))
	for _, e := range evals {
		if e.Outcome == best {
			moves = append(moves, e)
		}
	}

	return moves
}

// Pick - chooses one of the equally good candidates.
func (that *Solver) Pick(candidates []MoveEval, tieBreak TieBreak) (MoveEval, error) {
	if len(candidates) == 0 {
		return MoveEval{}, apperror.ErrBoardFull
	}

	switch tieBreak {
	case TieBreakLeftmost:
		return candidates[0], nil
	case TieBreakRightmost:
		return candidates[len(candidates)-1], nil
	case TieBreakRandom:
		return candidates[that.intn(len(candidates))], nil
	default:
		return MoveEval{}, fmt.Errorf("%w: %q", apperror.ErrUnknownTieBreak, tieBreak)
	}
}

// BestMove - evaluates every legal move and picks one with the best outcome for the side to move.
func (that *Solver) BestMove(ctx context.Context, pos entity.Position, variant entity.Variant, tieBreak TieBreak) (MoveEval, []MoveEval, error) {
	evals, err := that.EvaluateMoves(ctx, pos, variant)
	if err != nil {
		return MoveEval{}, nil, fmt.Errorf("failed to evaluate moves: %w", err)
	}

	move, err := that.Pick(BestMoves(pos, evals), tieBreak)
	if err != nil {
		return MoveEval{}, evals, err
	}

	return move, evals, nil
}
