package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-solver/internal/apperror"
)

// Position is a board together with the side to move and the two caller-chosen marks.
type Position struct {
	Board  Board `json:"board"`
	Turn   Mark  `json:"turn"`
	First  Mark  `json:"first_mark"`
	Second Mark  `json:"second_mark"`
}

func NewPosition(board Board, turn, first, second Mark) *Position {
	return &Position{
		Board:  board,
		Turn:   turn,
		First:  first,
		Second: second,
	}
}

// ApplyMove - places the side to move at cell and passes the turn. The cell must be empty.
func (that *Position) ApplyMove(cell int) {
	that.Board[cell] = that.Turn
	that.Turn = that.Opponent(that.Turn)
}

// UndoMove - reverts the most recent ApplyMove at cell.
func (that *Position) UndoMove(cell int) {
	that.Board[cell] = Empty
	that.Turn = that.Opponent(that.Turn)
}

func (that *Position) Opponent(mark Mark) Mark {
	if mark == that.First {
		return that.Second
	}
	return that.First
}

func (that *Position) FirstToMove() bool {
	return that.Turn == that.First
}

// Validate - checks the preconditions the search itself never checks.
func (that *Position) Validate() error {
	if that.First == Empty || that.Second == Empty {
		return apperror.ErrInvalidMark
	}

	if that.First == that.Second {
		return apperror.ErrSameMarks
	}

	if that.Turn != that.First && that.Turn != that.Second {
		return fmt.Errorf("%w: got %d", apperror.ErrInvalidTurn, that.Turn)
	}

	for i, cell := range that.Board {
		if cell != Empty && cell != that.First && cell != that.Second {
			return fmt.Errorf("%w: cell %d holds %d", apperror.ErrInvalidCellValue, i, cell)
		}
	}

	// the side that has placed more marks cannot be the one to move
	diff := that.Board.Count(that.First) - that.Board.Count(that.Second)
	switch {
	case diff == 1 && that.Turn != that.Second,
		diff == -1 && that.Turn != that.First,
		diff > 1 || diff < -1:
		return fmt.Errorf("%w: mark counts differ by %d", apperror.ErrInvalidTurn, diff)
	}

	if that.Board.HasWinningLine() {
		return apperror.ErrGameFinished
	}

	return nil
}

func (that *Position) String() string {
	return fmt.Sprintf("next %d:\n%s", that.Turn, that.Board)
}
