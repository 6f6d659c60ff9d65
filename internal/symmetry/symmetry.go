// Package symmetry maps boards onto the 8 rotations and reflections of the square
// and gives every class of equivalent boards one canonical encoding.
package symmetry

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-solver/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solver/internal/entity"
)

// Op indexes the symmetries of the square:
//
//	0 identity
//	1 rotate right (clockwise)
//	2 rotate 180
//	3 rotate left
//	4 flip left-right
//	5 flip, then rotate right
//	6 flip, then rotate 180
//	7 flip, then rotate left
type Op int

const OpCount = 8

// MaxEncoding is one past the largest base-3 board encoding.
const MaxEncoding = 19683

var ErrInvalidOp = errors.New("symmetry op must be in [0, 7]")

var inverse = [OpCount]Op{0, 3, 2, 1, 4, 5, 6, 7}

// newIndex[op][i] is where the cell at i lands after op.
var newIndex = [OpCount][entity.BoardSize]int{
	{0, 1, 2, 3, 4, 5, 6, 7, 8},
	{2, 5, 8, 1, 4, 7, 0, 3, 6},
	{8, 7, 6, 5, 4, 3, 2, 1, 0},
	{6, 3, 0, 7, 4, 1, 8, 5, 2},
	{2, 1, 0, 5, 4, 3, 8, 7, 6},
	{8, 5, 2, 7, 4, 1, 6, 3, 0},
	{6, 7, 8, 3, 4, 5, 0, 1, 2},
	{0, 3, 6, 1, 4, 7, 2, 5, 8},
}

func (op Op) Valid() bool {
	return op >= 0 && op < OpCount
}

func (op Op) Inverse() Op {
	return inverse[op]
}

// NewIndex - returns where cell moves to under op.
func NewIndex(cell int, op Op) (int, error) {
	if !op.Valid() {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidOp, op)
	}
	if cell < 0 || cell >= entity.BoardSize {
		return 0, fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	return newIndex[op][cell], nil
}

// OldIndex - returns the cell that op moved onto cell.
func OldIndex(cell int, op Op) (int, error) {
	if !op.Valid() {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidOp, op)
	}

	return NewIndex(cell, inverse[op])
}

// Transform - returns the board after op.
func Transform(board entity.Board, op Op) entity.Board {
	var out entity.Board
	for i, cell := range board {
		out[newIndex[op][i]] = cell
	}

	return out
}

// Variants - returns the board under each op, in op order.
func Variants(board entity.Board) [OpCount]entity.Board {
	var out [OpCount]entity.Board
	for op := range Op(OpCount) {
		out[op] = Transform(board, op)
	}

	return out
}

// Encode - packs the board into base 3: digit 0 empty, 1 first mark, 2 second mark,
// cell i weighted by 3^i. Cells holding any other value encode as empty.
func Encode(board entity.Board, first, second entity.Mark) int {
	n, weight := 0, 1
	for _, cell := range board {
		switch cell {
		case first:
			n += weight
		case second:
			n += 2 * weight
		}
		weight *= 3
	}

	return n
}

func Decode(n int, first, second entity.Mark) entity.Board {
	var board entity.Board
	for i := range board {
		switch n % 3 {
		case 1:
			board[i] = first
		case 2:
			board[i] = second
		}
		n /= 3
	}

	return board
}

// Canonical - returns the smallest encoding among the board's symmetric variants and the
// op that maps that representative back onto the board.
func Canonical(board entity.Board, first, second entity.Mark) (int, Op) {
	best, bestOp := -1, Op(0)
	for op, variant := range Variants(board) {
		n := Encode(variant, first, second)
		if best == -1 || n < best {
			best, bestOp = n, Op(op)
		}
	}

	return best, bestOp.Inverse()
}
