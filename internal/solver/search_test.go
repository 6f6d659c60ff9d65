package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-solver/internal/entity"
)

func TestRunSearch_Scenarios(t *testing.T) {
	tests := []struct {
		name       string
		board      entity.Board
		turn       entity.Mark
		outcome    entity.Outcome
		plainSeen  uint32
		prunedSeen uint32
	}{
		{
			name:       "empty board, first starts",
			board:      entity.Board{},
			turn:       1,
			outcome:    entity.Draw,
			plainSeen:  66275,
			prunedSeen: 11294,
		},
		{
			name:       "empty board, second starts",
			board:      entity.Board{},
			turn:       2,
			outcome:    entity.Draw,
			plainSeen:  66275,
			prunedSeen: 11294,
		},
		{
			name:       "immediate win for the side to move",
			board:      entity.Board{1, 1, 0, 2, 2, 0, 0, 0, 0},
			turn:       1,
			outcome:    entity.FirstWins,
			plainSeen:  1,
			prunedSeen: 1,
		},
		{
			name:       "second side completes its row",
			board:      entity.Board{1, 1, 0, 2, 2, 0, 0, 0, 0},
			turn:       2,
			outcome:    entity.SecondWins,
			plainSeen:  6,
			prunedSeen: 6,
		},
		{
			name:       "full board",
			board:      entity.Board{1, 2, 1, 1, 2, 2, 2, 1, 1},
			turn:       1,
			outcome:    entity.Draw,
			plainSeen:  1,
			prunedSeen: 1,
		},
		{
			name:       "first to move cannot stop the fork",
			board:      entity.Board{0, 0, 0, 0, 0, 2, 1, 1, 2},
			turn:       1,
			outcome:    entity.SecondWins,
			plainSeen:  42,
			prunedSeen: 42,
		},
		{
			name:       "first to move loses after the side fork",
			board:      entity.Board{0, 0, 0, 1, 2, 1, 0, 2, 0},
			turn:       1,
			outcome:    entity.SecondWins,
			plainSeen:  46,
			prunedSeen: 43,
		},
		{
			name:       "second to move loses",
			board:      entity.Board{0, 0, 0, 0, 0, 1, 0, 2, 1},
			turn:       2,
			outcome:    entity.FirstWins,
			plainSeen:  168,
			prunedSeen: 151,
		},
		{
			name:       "center opening",
			board:      entity.Board{0, 0, 0, 0, 1, 0, 0, 0, 0},
			turn:       2,
			outcome:    entity.Draw,
			plainSeen:  5638,
			prunedSeen: 1397,
		},
		{
			name:       "center opening answered in the corner",
			board:      entity.Board{2, 0, 0, 0, 1, 0, 0, 0, 0},
			turn:       1,
			outcome:    entity.Draw,
			plainSeen:  1070,
			prunedSeen: 410,
		},
		{
			name:       "corner opening answered on the edge",
			board:      entity.Board{1, 2, 0, 0, 0, 0, 0, 0, 0},
			turn:       1,
			outcome:    entity.FirstWins,
			plainSeen:  622,
			prunedSeen: 330,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Given: a position with marks 1 and 2
			board := tt.board

			// When: running both searches
			plain := RunPlainSearch(board, tt.turn, 1, 2)
			pruned := RunPrunedSearch(board, tt.turn, 1, 2)

			// Then: both report the same outcome with their own visit counts
			assert.Equal(t, tt.outcome, plain.Outcome)
			assert.Equal(t, tt.plainSeen, plain.Visited)
			assert.Equal(t, entity.VariantPlain, plain.Variant)

			assert.Equal(t, tt.outcome, pruned.Outcome)
			assert.Equal(t, tt.prunedSeen, pruned.Visited)
			assert.Equal(t, entity.VariantPruned, pruned.Variant)

			// the caller's board is never touched
			assert.Equal(t, tt.board, board)
		})
	}
}

func TestRunSearch_MarkValues(t *testing.T) {
	t.Run("Arbitrary marks give the same results", func(t *testing.T) {
		// Given: marks 88 and 79 instead of 1 and 2
		var board entity.Board

		// When: solving the empty board
		plain := RunPlainSearch(board, 88, 88, 79)
		pruned := RunPrunedSearch(board, 88, 88, 79)

		// Then: the counts do not depend on the mark values
		assert.Equal(t, entity.Result{Outcome: entity.Draw, Visited: 66275, Variant: entity.VariantPlain}, plain)
		assert.Equal(t, entity.Result{Outcome: entity.Draw, Visited: 11294, Variant: entity.VariantPruned}, pruned)
	})

	t.Run("Immediate win with custom marks", func(t *testing.T) {
		board := entity.Board{88, 88, 0, 79, 79, 0, 0, 0, 0}

		result := RunPrunedSearch(board, 88, 88, 79)

		assert.Equal(t, entity.FirstWins, result.Outcome)
		assert.Equal(t, uint32(1), result.Visited)
	})
}

func TestRunSearch_Repeatable(t *testing.T) {
	// Given: the same position solved twice
	board := entity.Board{0, 0, 0, 0, 1, 0, 0, 0, 0}

	// When: nothing is shared between calls
	first := RunPrunedSearch(board, 2, 1, 2)
	second := RunPrunedSearch(board, 2, 1, 2)

	// Then: the results are identical
	assert.Equal(t, first, second)
}

// negamax is an independent reference: it scores every move and keeps the best for the mover.
func negamax(board entity.Board, turn, first, second entity.Mark) entity.Outcome {
	next := second
	if turn == second {
		next = first
	}

	best, moved := entity.Draw, false
	for cell := range entity.BoardSize {
		if board[cell] != entity.Empty {
			continue
		}

		child := board
		child[cell] = turn

		var v entity.Outcome
		if child.HasWinningLine() {
			v = entity.WinFor(turn, first)
		} else {
			v = negamax(child, next, first, second)
		}

		if !moved || v.Better(best, turn == first) {
			best, moved = v, true
		}
	}

	return best
}

type reachable struct {
	board entity.Board
	turn  entity.Mark
}

// reachablePositions - every non-terminal position reachable from the empty board when start moves first.
func reachablePositions(start entity.Mark) []reachable {
	seen := make(map[reachable]struct{})
	var out []reachable

	var walk func(board entity.Board, turn entity.Mark)
	walk = func(board entity.Board, turn entity.Mark) {
		key := reachable{board: board, turn: turn}
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}

		if board.HasWinningLine() || board.IsFull() {
			return
		}
		out = append(out, key)

		for _, cell := range board.EmptyCells() {
			child := board
			child[cell] = turn
			walk(child, 3-turn)
		}
	}
	walk(entity.Board{}, start)

	return out
}

func TestRunSearch_MatchesNegamax(t *testing.T) {
	if testing.Short() {
		t.Skip("exhaustive check")
	}

	for _, start := range []entity.Mark{1, 2} {
		positions := reachablePositions(start)
		require.NotEmpty(t, positions)

		for _, p := range positions {
			want := negamax(p.board, p.turn, 1, 2)

			plain := RunPlainSearch(p.board, p.turn, 1, 2)
			pruned := RunPrunedSearch(p.board, p.turn, 1, 2)

			require.Equal(t, want, plain.Outcome, "plain %v turn %d", p.board, p.turn)
			require.Equal(t, want, pruned.Outcome, "pruned %v turn %d", p.board, p.turn)
			require.LessOrEqual(t, pruned.Visited, plain.Visited, "%v turn %d", p.board, p.turn)
		}
	}
}
