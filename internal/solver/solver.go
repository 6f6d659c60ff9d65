package solver

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"

	"github.com/rocketscienceinc/tictactoe-solver/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solver/internal/entity"
)

type Option func(*Solver)

// WithParallel - evaluates the root moves in separate goroutines.
// The outcome is unchanged; Visited becomes 1 plus the sum over every root child
// because the root no longer stops at the first winning move.
func WithParallel(parallel bool) Option {
	return func(s *Solver) {
		s.parallel = parallel
	}
}

// WithSeed - fixes the source used by the random tie-break.
func WithSeed(seed uint64) Option {
	return func(s *Solver) {
		s.rng = rand.New(rand.NewSource(seed))
	}
}

// Solver runs searches over independent copies of the given positions and is safe for concurrent use.
type Solver struct {
	parallel bool

	rngMu sync.Mutex
	rng   *rand.Rand
}

func New(opts ...Option) *Solver {
	s := &Solver{}
	for _, opt := range opts {
		opt(s)
	}

	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano()))) //nolint: gosec // seed only
	}

	return s
}

// Solve - runs one top-level search of the requested variant.
func (that *Solver) Solve(ctx context.Context, pos entity.Position, variant entity.Variant) (entity.Result, error) {
	if err := ctx.Err(); err != nil {
		return entity.Result{}, err
	}

	if that.parallel {
		return that.solveParallel(ctx, pos, variant)
	}

	switch variant {
	case entity.VariantPlain:
		return RunPlainSearch(pos.Board, pos.Turn, pos.First, pos.Second), nil
	case entity.VariantPruned:
		return RunPrunedSearch(pos.Board, pos.Turn, pos.First, pos.Second), nil
	default:
		return entity.Result{}, fmt.Errorf("%w: %q", apperror.ErrUnknownVariant, variant)
	}
}

type branch struct {
	won     bool
	outcome entity.Outcome
	visited uint32
}

// solveChild - plays cell on a copy of pos and solves the resulting position from scratch.
func solveChild(pos entity.Position, cell int, variant entity.Variant) (branch, error) {
	mover := pos.Turn
	pos.ApplyMove(cell)

	if pos.Board.HasWinningLine() {
		return branch{won: true, outcome: entity.WinFor(mover, pos.First)}, nil
	}

	s := &search{pos: pos}
	switch variant {
	case entity.VariantPlain:
		return branch{outcome: s.plain(), visited: s.visited}, nil
	case entity.VariantPruned:
		return branch{outcome: s.pruned(false, false), visited: s.visited}, nil
	default:
		return branch{}, fmt.Errorf("%w: %q", apperror.ErrUnknownVariant, variant)
	}
}

func (that *Solver) solveParallel(ctx context.Context, pos entity.Position, variant entity.Variant) (entity.Result, error) {
	var branches [entity.BoardSize]branch

	cells := pos.Board.EmptyCells()

	g, ctx := errgroup.WithContext(ctx)
	for _, cell := range cells {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			b, err := solveChild(pos, cell, variant)
			if err != nil {
				return err
			}

			branches[cell] = b
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return entity.Result{}, fmt.Errorf("failed to solve root moves: %w", err)
	}

	// the root flags of the pruned search start cleared and the opposing flag is
	// never raised at the root itself, so both variants combine like the plain search
	result := entity.Result{Outcome: entity.Draw, Visited: 1, Variant: variant}
	if len(cells) == 0 {
		return result, nil
	}

	win := entity.WinFor(pos.Turn, pos.First)
	resolved, foundDraw := false, false
	for _, cell := range cells {
		b := branches[cell]
		result.Visited += b.visited

		if resolved {
			continue
		}

		switch {
		case b.won || b.outcome == win:
			result.Outcome = b.outcome
			resolved = true
		case b.outcome == entity.Draw:
			foundDraw = true
		}
	}

	if !resolved {
		if foundDraw {
			result.Outcome = entity.Draw
		} else {
			result.Outcome = entity.LossFor(pos.Turn, pos.First)
		}
	}

	return result, nil
}

func (that *Solver) intn(n int) int {
	that.rngMu.Lock()
	defer that.rngMu.Unlock()

	return that.rng.Intn(n)
}
