package solver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-solver/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solver/internal/entity"
)

func TestParseTieBreak(t *testing.T) {
	tb, err := ParseTieBreak("")
	require.NoError(t, err)
	assert.Equal(t, TieBreakLeftmost, tb)

	tb, err = ParseTieBreak("random")
	require.NoError(t, err)
	assert.Equal(t, TieBreakRandom, tb)

	_, err = ParseTieBreak("middle")
	require.ErrorIs(t, err, apperror.ErrUnknownTieBreak)
}

func TestSolver_EvaluateMoves(t *testing.T) {
	ctx := context.Background()
	s := New()

	t.Run("Empty board: every move draws", func(t *testing.T) {
		// Given: the empty board
		pos := *entity.NewPosition(entity.Board{}, 1, 1, 2)

		// When: evaluating every move with the pruned search
		evals, err := s.EvaluateMoves(ctx, pos, entity.VariantPruned)

		// Then: nine draws with the per-child counts
		require.NoError(t, err)
		require.Len(t, evals, 9)

		visited := []uint32{1273, 1648, 1906, 2081, 1397, 2185, 2317, 3188, 2376}
		for i, e := range evals {
			assert.Equal(t, i, e.Cell)
			assert.Equal(t, entity.Draw, e.Outcome)
			assert.Equal(t, visited[i], e.Visited)
		}
	})

	t.Run("Plain counts sum to the root count", func(t *testing.T) {
		pos := *entity.NewPosition(entity.Board{}, 1, 1, 2)

		evals, err := s.EvaluateMoves(ctx, pos, entity.VariantPlain)
		require.NoError(t, err)

		total := uint32(1)
		for _, e := range evals {
			total += e.Visited
		}
		assert.Equal(t, uint32(66275), total)
	})

	t.Run("Winning moves are found", func(t *testing.T) {
		// Given: the corner opening answered on the edge
		pos := *entity.NewPosition(entity.Board{1, 2, 0, 0, 0, 0, 0, 0, 0}, 1, 1, 2)

		// When: evaluating and keeping the best moves
		evals, err := s.EvaluateMoves(ctx, pos, entity.VariantPruned)
		require.NoError(t, err)
		best := BestMoves(pos, evals)

		// Then: cells 3, 4 and 6 win for the first side
		cells := make([]int, 0, len(best))
		for _, e := range best {
			cells = append(cells, e.Cell)
			assert.Equal(t, entity.FirstWins, e.Outcome)
		}
		assert.Equal(t, []int{3, 4, 6}, cells)
	})

	t.Run("Completing a line needs no search", func(t *testing.T) {
		pos := *entity.NewPosition(entity.Board{1, 1, 0, 2, 2, 0, 0, 0, 0}, 1, 1, 2)

		evals, err := s.EvaluateMoves(ctx, pos, entity.VariantPruned)
		require.NoError(t, err)

		assert.Equal(t, MoveEval{Cell: 2, Outcome: entity.FirstWins}, evals[0])
	})

	t.Run("Finished game", func(t *testing.T) {
		pos := *entity.NewPosition(entity.Board{1, 1, 1, 2, 2}, 2, 1, 2)

		_, err := s.EvaluateMoves(ctx, pos, entity.VariantPruned)

		require.ErrorIs(t, err, apperror.ErrGameFinished)
	})
}

func TestSolver_BestMove(t *testing.T) {
	ctx := context.Background()
	pos := *entity.NewPosition(entity.Board{1, 2, 0, 0, 0, 0, 0, 0, 0}, 1, 1, 2)

	t.Run("Leftmost and rightmost", func(t *testing.T) {
		s := New()

		left, evals, err := s.BestMove(ctx, pos, entity.VariantPruned, TieBreakLeftmost)
		require.NoError(t, err)
		assert.Len(t, evals, 7)
		assert.Equal(t, 3, left.Cell)

		right, _, err := s.BestMove(ctx, pos, entity.VariantPruned, TieBreakRightmost)
		require.NoError(t, err)
		assert.Equal(t, 6, right.Cell)
	})

	t.Run("Random stays among the best moves", func(t *testing.T) {
		s := New(WithSeed(7))

		for range 20 {
			move, _, err := s.BestMove(ctx, pos, entity.VariantPruned, TieBreakRandom)
			require.NoError(t, err)
			assert.Contains(t, []int{3, 4, 6}, move.Cell)
			assert.Equal(t, entity.FirstWins, move.Outcome)
		}
	})

	t.Run("Second side picks its draws", func(t *testing.T) {
		// Given: the center opening, second to move
		s := New()
		center := *entity.NewPosition(entity.Board{0, 0, 0, 0, 1, 0, 0, 0, 0}, 2, 1, 2)

		// When: picking the leftmost best move
		move, _, err := s.BestMove(ctx, center, entity.VariantPruned, TieBreakLeftmost)

		// Then: only the corners hold the draw, so cell 0 is chosen
		require.NoError(t, err)
		assert.Equal(t, 0, move.Cell)
		assert.Equal(t, entity.Draw, move.Outcome)
	})

	t.Run("Pick from nothing", func(t *testing.T) {
		_, err := New().Pick(nil, TieBreakLeftmost)

		require.ErrorIs(t, err, apperror.ErrBoardFull)
	})
}
