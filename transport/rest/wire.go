package rest

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-solver/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solver/internal/entity"
)

const (
	rawRequestSize  = entity.BoardSize + 4
	rawResponseSize = 3

	rawVariantPlain  = 0
	rawVariantPruned = 1
)

var ErrRawRequestSize = errors.New("raw request must be 13 bytes")

// decodeRawRequest - reads 9 board bytes followed by the turn, the first mark,
// the second mark and the variant byte.
func decodeRawRequest(buf []byte) (entity.Position, entity.Variant, error) {
	if len(buf) != rawRequestSize {
		return entity.Position{}, "", fmt.Errorf("%w: got %d", ErrRawRequestSize, len(buf))
	}

	var board entity.Board
	for i := range board {
		board[i] = entity.Mark(buf[i])
	}

	tail := buf[entity.BoardSize:]
	pos := entity.NewPosition(board, entity.Mark(tail[0]), entity.Mark(tail[1]), entity.Mark(tail[2]))

	var variant entity.Variant
	switch tail[3] {
	case rawVariantPlain:
		variant = entity.VariantPlain
	case rawVariantPruned:
		variant = entity.VariantPruned
	default:
		return entity.Position{}, "", fmt.Errorf("%w: byte %d", apperror.ErrUnknownVariant, tail[3])
	}

	return *pos, variant, nil
}

// encodeRawResponse - writes the outcome as a signed byte followed by the visit count, high byte first.
func encodeRawResponse(result entity.Result) [rawResponseSize]byte {
	count := entity.EncodeVisitCount(result.Visited)

	return [rawResponseSize]byte{byte(result.Outcome), count[0], count[1]}
}
