package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-solver/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solver/internal/entity"
	"github.com/rocketscienceinc/tictactoe-solver/testing/suite"
)

func TestResultKey(t *testing.T) {
	// Given: the same board written with different marks
	a := *entity.NewPosition(entity.Board{1, 2}, 1, 1, 2)
	b := *entity.NewPosition(entity.Board{88, 79}, 88, 88, 79)

	// Then: both share a key that names the variant, the mode and the side to move
	assert.Equal(t, "solve:pruned:sequential:7:first", ResultKey(a, entity.VariantPruned, entity.ModeSequential))
	assert.Equal(t, ResultKey(a, entity.VariantPruned, entity.ModeSequential), ResultKey(b, entity.VariantPruned, entity.ModeSequential))
	assert.Equal(t, "solve:plain:parallel:7:second",
		ResultKey(*entity.NewPosition(a.Board, 2, 1, 2), entity.VariantPlain, entity.ModeParallel))

	// Then: sequential and parallel searches never share an entry
	assert.NotEqual(t, ResultKey(a, entity.VariantPruned, entity.ModeSequential), ResultKey(a, entity.VariantPruned, entity.ModeParallel))
}

func TestMemoryResultRepository(t *testing.T) {
	ctx := context.Background()
	pos := *entity.NewPosition(entity.Board{0, 0, 0, 0, 1}, 2, 1, 2)
	result := entity.Result{Outcome: entity.Draw, Visited: 1397, Variant: entity.VariantPruned}

	t.Run("Save and Get", func(t *testing.T) {
		repo := NewMemoryResultRepository(time.Hour, entity.ModeSequential)

		// When: saving a result
		require.NoError(t, repo.Save(ctx, pos, result))

		// Then: it is returned for the same variant only
		got, err := repo.Get(ctx, pos, entity.VariantPruned)
		require.NoError(t, err)
		assert.Equal(t, result, got)

		_, err = repo.Get(ctx, pos, entity.VariantPlain)
		require.ErrorIs(t, err, apperror.ErrResultNotFound)
	})

	t.Run("Entries expire", func(t *testing.T) {
		// Given: a repository with a controllable clock
		repo := NewMemoryResultRepository(time.Minute, entity.ModeSequential)
		mem, ok := repo.(*memoryResult)
		require.True(t, ok)

		now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		mem.now = func() time.Time { return now }

		require.NoError(t, repo.Save(ctx, pos, result))

		// When: the ttl passes
		now = now.Add(2 * time.Minute)

		// Then: the entry is gone
		_, err := repo.Get(ctx, pos, entity.VariantPruned)
		require.ErrorIs(t, err, apperror.ErrResultNotFound)
	})

	t.Run("Zero ttl keeps entries", func(t *testing.T) {
		repo := NewMemoryResultRepository(0, entity.ModeSequential)

		require.NoError(t, repo.Save(ctx, pos, result))

		got, err := repo.Get(ctx, pos, entity.VariantPruned)
		require.NoError(t, err)
		assert.Equal(t, result, got)
	})
}

func TestRedisResultRepository(t *testing.T) {
	pos := *entity.NewPosition(entity.Board{1, 2}, 1, 1, 2)

	t.Run("Save_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		repo := NewRedisResultRepository(st.Storage, time.Hour, entity.ModeSequential)

		// Given: a solved position
		result := entity.Result{Outcome: entity.FirstWins, Visited: 330, Variant: entity.VariantPruned}

		// When: Save is called
		err := repo.Save(ctx, pos, result)

		// Then: the result is stored under its key with a ttl
		require.NoError(t, err)

		ttl, err := st.Storage.TTL(ctx, ResultKey(pos, entity.VariantPruned, entity.ModeSequential)).Result()
		require.NoError(t, err)
		assert.True(t, ttl > 0)

		got, err := repo.Get(ctx, pos, entity.VariantPruned)
		require.NoError(t, err)
		assert.Equal(t, result, got)
	})

	t.Run("Get_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		repo := NewRedisResultRepository(st.Storage, time.Hour, entity.ModeSequential)

		// When: Get is called for a position never saved
		_, err := repo.Get(ctx, pos, entity.VariantPlain)

		// Then: ErrResultNotFound is returned
		require.ErrorIs(t, err, apperror.ErrResultNotFound)
	})

	t.Run("Get_OtherModeMiss", func(t *testing.T) {
		ctx, st := suite.New(t)

		// Given: one Redis shared by a parallel and a sequential instance
		parallel := NewRedisResultRepository(st.Storage, time.Hour, entity.ModeParallel)
		sequential := NewRedisResultRepository(st.Storage, time.Hour, entity.ModeSequential)

		// When: the parallel instance caches its count for the empty board
		empty := *entity.NewPosition(entity.Board{}, 1, 1, 2)
		err := parallel.Save(ctx, empty, entity.Result{Outcome: entity.Draw, Visited: 18372, Variant: entity.VariantPruned})
		require.NoError(t, err)

		// Then: the sequential instance does not see it
		_, err = sequential.Get(ctx, empty, entity.VariantPruned)
		require.ErrorIs(t, err, apperror.ErrResultNotFound)

		got, err := parallel.Get(ctx, empty, entity.VariantPruned)
		require.NoError(t, err)
		assert.Equal(t, uint32(18372), got.Visited)
	})
}
