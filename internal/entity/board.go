package entity

import (
	"strconv"
	"strings"
)

// Mark is the value held by a board cell. Empty is reserved; the two side marks are chosen by the caller.
type Mark byte

const (
	Empty Mark = 0

	BoardSize = 9
)

var WinCombos = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Board is a row-major 3x3 grid: cells 0-2 are the top row, 6-8 the bottom row.
type Board [BoardSize]Mark

// HasWinningLine - reports whether any row, column or diagonal holds three equal non-empty marks.
func (that *Board) HasWinningLine() bool {
	return that.Winner() != Empty
}

// Winner - returns the mark that completes a line, or Empty.
func (that *Board) Winner() Mark {
	for _, combo := range WinCombos {
		a := that[combo[0]]
		if a != Empty && that[combo[1]] == a && that[combo[2]] == a {
			return a
		}
	}

	return Empty
}

func (that *Board) IsFull() bool {
	for _, cell := range that {
		if cell == Empty {
			return false
		}
	}

	return true
}

// EmptyCells - returns the free cells in ascending order.
func (that *Board) EmptyCells() []int {
	cells := make([]int, 0, BoardSize)
	for i, cell := range that {
		if cell == Empty {
			cells = append(cells, i)
		}
	}

	return cells
}

// Count - returns how many cells hold the given mark.
func (that *Board) Count(mark Mark) int {
	n := 0
	for _, cell := range that {
		if cell == mark {
			n++
		}
	}

	return n
}

func (that Board) String() string {
	var s strings.Builder
	for row := range 3 {
		for col := range 3 {
			if col > 0 {
				s.WriteByte(' ')
			}
			s.WriteString(strconv.Itoa(int(that[3*row+col])))
		}
		if row < 2 {
			s.WriteByte('\n')
		}
	}

	return s.String()
}
