package pkg

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-solver/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solver/internal/entity"
)

func TestPositionRequest_ToPosition(t *testing.T) {
	defaults := Marks{First: 1, Second: 2}

	t.Run("Absent marks and turn take the defaults", func(t *testing.T) {
		// Given: a request naming only the board
		var req PositionRequest
		require.NoError(t, json.Unmarshal([]byte(`{"board":[1,2,0,0,0,0,0,0,0]}`), &req))

		// When: converting it
		pos, err := req.ToPosition(defaults)

		// Then: the first mark moves
		require.NoError(t, err)
		assert.Equal(t, *entity.NewPosition(entity.Board{1, 2}, 1, 1, 2), pos)
	})

	t.Run("Explicit marks", func(t *testing.T) {
		req := PositionRequest{
			Board:      [9]int{88, 0, 0, 0, 79},
			Turn:       79,
			FirstMark:  88,
			SecondMark: 79,
			Variant:    "plain",
		}

		pos, err := req.ToPosition(defaults)

		require.NoError(t, err)
		assert.Equal(t, *entity.NewPosition(entity.Board{88, 0, 0, 0, 79}, 79, 88, 79), pos)
	})

	t.Run("Values outside a byte", func(t *testing.T) {
		_, err := (&PositionRequest{Board: [9]int{256}}).ToPosition(defaults)
		require.ErrorIs(t, err, apperror.ErrInvalidCellValue)

		_, err = (&PositionRequest{FirstMark: -1}).ToPosition(defaults)
		require.ErrorIs(t, err, apperror.ErrInvalidMark)

		_, err = (&PositionRequest{Turn: 300}).ToPosition(defaults)
		require.ErrorIs(t, err, apperror.ErrInvalidTurn)
	})
}
