package pkg

import (
	"fmt"
	"math"

	"github.com/rocketscienceinc/tictactoe-solver/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solver/internal/entity"
)

// Marks are used when a request leaves the marks out.
type Marks struct {
	First  entity.Mark
	Second entity.Mark
}

// PositionRequest is the JSON shape of a position shared by the HTTP and websocket APIs.
type PositionRequest struct {
	Board      [entity.BoardSize]int `json:"board"`
	Turn       int                   `json:"turn,omitempty"`
	FirstMark  int                   `json:"first_mark,omitempty"`
	SecondMark int                   `json:"second_mark,omitempty"`
	Variant    string                `json:"variant,omitempty"`
	TieBreak   string                `json:"tie_break,omitempty"`
}

// ToPosition - converts the request, filling absent marks from defaults and an absent turn with the first mark.
func (that *PositionRequest) ToPosition(defaults Marks) (entity.Position, error) {
	first, second := defaults.First, defaults.Second

	if that.FirstMark != 0 {
		m, err := toMark(that.FirstMark)
		if err != nil {
			return entity.Position{}, fmt.Errorf("%w: first mark %d", apperror.ErrInvalidMark, that.FirstMark)
		}
		first = m
	}

	if that.SecondMark != 0 {
		m, err := toMark(that.SecondMark)
		if err != nil {
			return entity.Position{}, fmt.Errorf("%w: second mark %d", apperror.ErrInvalidMark, that.SecondMark)
		}
		second = m
	}

	turn := first
	if that.Turn != 0 {
		m, err := toMark(that.Turn)
		if err != nil {
			return entity.Position{}, fmt.Errorf("%w: got %d", apperror.ErrInvalidTurn, that.Turn)
		}
		turn = m
	}

	var board entity.Board
	for i, v := range that.Board {
		m, err := toMark(v)
		if err != nil {
			return entity.Position{}, fmt.Errorf("%w: cell %d holds %d", apperror.ErrInvalidCellValue, i, v)
		}
		board[i] = m
	}

	return *entity.NewPosition(board, turn, first, second), nil
}

func toMark(v int) (entity.Mark, error) {
	if v < 0 || v > math.MaxUint8 {
		return 0, apperror.ErrInvalidCellValue
	}

	return entity.Mark(v), nil
}
