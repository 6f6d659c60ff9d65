package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-solver/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solver/internal/entity"
	"github.com/rocketscienceinc/tictactoe-solver/internal/symmetry"
)

type ResultRepository interface {
	Save(ctx context.Context, pos entity.Position, result entity.Result) error
	Get(ctx context.Context, pos entity.Position, variant entity.Variant) (entity.Result, error)
}

// ResultKey - builds the cache key of a search. Marks are folded into the base-3
// encoding, so positions that differ only in mark values share an entry.
// The mode is part of the key because parallel searches count visits differently.
func ResultKey(pos entity.Position, variant entity.Variant, mode entity.Mode) string {
	side := "second"
	if pos.FirstToMove() {
		side = "first"
	}

	return fmt.Sprintf("solve:%s:%s:%d:%s", variant, mode, symmetry.Encode(pos.Board, pos.First, pos.Second), side)
}

type redisResult struct {
	client *redis.Client
	ttl    time.Duration
	mode   entity.Mode
}

func NewRedisResultRepository(client *redis.Client, ttl time.Duration, mode entity.Mode) ResultRepository {
	return &redisResult{
		client: client,
		ttl:    ttl,
		mode:   mode,
	}
}

func (that *redisResult) Save(ctx context.Context, pos entity.Position, result entity.Result) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("could not marshal result: %w", err)
	}

	err = that.client.Set(ctx, ResultKey(pos, result.Variant, that.mode), resultJSON, that.ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to set result: %w", err)
	}

	return nil
}

func (that *redisResult) Get(ctx context.Context, pos entity.Position, variant entity.Variant) (entity.Result, error) {
	key := ResultKey(pos, variant, that.mode)

	response, err := that.client.Get(ctx, key).Result()

	if errors.Is(err, redis.Nil) {
		return entity.Result{}, apperror.ErrResultNotFound
	}

	if err != nil {
		return entity.Result{}, fmt.Errorf("failed to get result: %w", err)
	}

	var result entity.Result
	if err = json.Unmarshal([]byte(response), &result); err != nil {
		return entity.Result{}, fmt.Errorf("failed to unmarshal result: %w", err)
	}

	return result, nil
}

type memoryEntry struct {
	result    entity.Result
	expiresAt time.Time
}

// memoryResult keeps results in process when no Redis is configured.
type memoryResult struct {
	entries *xsync.MapOf[string, memoryEntry]
	ttl     time.Duration
	mode    entity.Mode
	now     func() time.Time
}

func NewMemoryResultRepository(ttl time.Duration, mode entity.Mode) ResultRepository {
	return &memoryResult{
		entries: xsync.NewMapOf[string, memoryEntry](),
		ttl:     ttl,
		mode:    mode,
		now:     time.Now,
	}
}

func (that *memoryResult) Save(_ context.Context, pos entity.Position, result entity.Result) error {
	key := ResultKey(pos, result.Variant, that.mode)
	entry := memoryEntry{result: result}
	if that.ttl > 0 {
		entry.expiresAt = that.now().Add(that.ttl)
	}

	that.entries.Store(key, entry)

	return nil
}

func (that *memoryResult) Get(_ context.Context, pos entity.Position, variant entity.Variant) (entity.Result, error) {
	key := ResultKey(pos, variant, that.mode)
	entry, ok := that.entries.Load(key)
	if !ok {
		return entity.Result{}, apperror.ErrResultNotFound
	}

	if !entry.expiresAt.IsZero() && that.now().After(entry.expiresAt) {
		that.entries.Delete(key)
		return entity.Result{}, apperror.ErrResultNotFound
	}

	return entry.result, nil
}
