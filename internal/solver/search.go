package solver

import (
	"github.com/rocketscienceinc/tictactoe-solver/internal/entity"
)

// search owns one position for the lifetime of a top-level call.
// Every ply mutates that position in place and restores it before returning.
type search struct {
	pos     entity.Position
	visited uint32
}

// play - applies cell for the side to move, then either reports the immediate win
// or runs explore on the child position. The move is undone on every exit path.
func (that *search) play(cell int, explore func() entity.Outcome) (bool, entity.Outcome) {
	mover := that.pos.Turn

	that.pos.ApplyMove(cell)
	defer that.pos.UndoMove(cell)

	if that.pos.Board.HasWinningLine() {
		return true, entity.WinFor(mover, that.pos.First)
	}

	return false, explore()
}

// plain - exhaustive minimax. Only the side to move's own win short-circuits a ply.
func (that *search) plain() entity.Outcome {
	that.visited++

	side := that.pos.Turn
	win := entity.WinFor(side, that.pos.First)

	moved, foundDraw := false, false
	for cell := range entity.BoardSize {
		if that.pos.Board[cell] != entity.Empty {
			continue
		}
		moved = true

		won, z := that.play(cell, that.plain)
		if won || z == win {
			return z
		}

		if z == entity.Draw {
			foundDraw = true
		}
	}

	if !moved || foundDraw {
		return entity.Draw
	}

	return entity.LossFor(side, that.pos.First)
}

// pruned - minimax with draw carry-flags. A child receives the flags as they stand
// before it is entered; a draw found at this ply ends the ply when the opposing
// side already holds a draw.
func (that *search) pruned(firstHasDraw, secondHasDraw bool) entity.Outcome {
	that.visited++

	side := that.pos.Turn
	firstToMove := that.pos.FirstToMove()
	win := entity.WinFor(side, that.pos.First)

	moved := false
	for cell := range entity.BoardSize {
		if that.pos.Board[cell] != entity.Empty {
			continue
		}
		moved = true

		won, z := that.play(cell, func() entity.Outcome {
			return that.pruned(firstHasDraw, secondHasDraw)
		})
		if won || z == win {
			return z
		}

		if z != entity.Draw {
			continue
		}

		if firstToMove {
			if secondHasDraw {
				return entity.Draw
			}
			firstHasDraw = true
		} else {
			if firstHasDraw {
				return entity.Draw
			}
			secondHasDraw = true
		}
	}

	if !moved {
		return entity.Draw
	}

	if (firstToMove && firstHasDraw) || (!firstToMove && secondHasDraw) {
		return entity.Draw
	}

	return entity.LossFor(side, that.pos.First)
}

// RunPlainSearch - solves the position with the exhaustive search and reports
// the outcome together with the number of visited nodes.
func RunPlainSearch(board entity.Board, startTurn, firstMark, secondMark entity.Mark) entity.Result {
	s := &search{pos: *entity.NewPosition(board, startTurn, firstMark, secondMark)}
	outcome := s.plain()

	return entity.Result{Outcome: outcome, Visited: s.visited, Variant: entity.VariantPlain}
}

// RunPrunedSearch - same contract as RunPlainSearch using the draw-flag search.
func RunPrunedSearch(board entity.Board, startTurn, firstMark, secondMark entity.Mark) entity.Result {
	s := &search{pos: *entity.NewPosition(board, startTurn, firstMark, secondMark)}
	outcome := s.pruned(false, false)

	return entity.Result{Outcome: outcome, Visited: s.visited, Variant: entity.VariantPruned}
}
