package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/tictactoe-solver/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solver/internal/entity"
	"github.com/rocketscienceinc/tictactoe-solver/internal/solver"
	"github.com/rocketscienceinc/tictactoe-solver/internal/tablebase"
)

const (
	SourceSearch    = "search"
	SourceTableBase = "tablebase"
)

type resultRepo interface {
	Save(ctx context.Context, pos entity.Position, result entity.Result) error
	Get(ctx context.Context, pos entity.Position, variant entity.Variant) (entity.Result, error)
}

type tableBaseRepo interface {
	Save(ctx context.Context, entries []tablebase.Entry) error
	LoadAll(ctx context.Context) ([]tablebase.Entry, error)
	Count(ctx context.Context) (int, error)
}

type searcher interface {
	Solve(ctx context.Context, pos entity.Position, variant entity.Variant) (entity.Result, error)
	EvaluateMoves(ctx context.Context, pos entity.Position, variant entity.Variant) ([]solver.MoveEval, error)
	Pick(candidates []solver.MoveEval, tieBreak solver.TieBreak) (solver.MoveEval, error)
}

// BestMove is the move chosen for the side to move.
type BestMove struct {
	Cell       int               `json:"cell"`
	Outcome    entity.Outcome    `json:"outcome"`
	Candidates []int             `json:"candidates"`
	Scores     []solver.MoveEval `json:"scores,omitempty"`
	Source     string            `json:"source"`
}

type SolverManager struct {
	logger *slog.Logger

	results resultRepo
	solver  searcher
	variant entity.Variant

	tableMu sync.RWMutex
	table   *tablebase.Table
}

func NewSolverManager(logger *slog.Logger, results resultRepo, solver searcher, variant entity.Variant) *SolverManager {
	return &SolverManager{
		logger: logger.With("component", "solver-manager"),

		results: results,
		solver:  solver,
		variant: variant,
	}
}

// Solve - validates the position, answers from the cache when possible and runs the search otherwise.
// An empty variant selects the configured default.
func (that *SolverManager) Solve(ctx context.Context, pos entity.Position, variant entity.Variant) (entity.Result, error) {
	log := that.logger.With("method", "Solve")

	if variant == "" {
		variant = that.variant
	}

	if _, err := entity.ParseVariant(string(variant)); err != nil {
		return entity.Result{}, err
	}

	if err := pos.Validate(); err != nil {
		return entity.Result{}, fmt.Errorf("invalid position: %w", err)
	}

	cached, err := that.results.Get(ctx, pos, variant)
	switch {
	case err == nil:
		log.Debug("result served from cache", "variant", variant)
		return cached, nil
	case !errors.Is(err, apperror.ErrResultNotFound):
		log.Error("failed to read cached result", "error", err)
	}

	result, err := that.solver.Solve(ctx, pos, variant)
	if err != nil {
		return entity.Result{}, fmt.Errorf("failed to solve position: %w", err)
	}

	if err = that.results.Save(ctx, pos, result); err != nil {
		log.Error("failed to cache result", "error", err)
	}

	log.Debug("position solved", "variant", variant, "outcome", result.Outcome, "visited", result.Visited)

	return result, nil
}

// BestMove - picks a move for the side to move, from the tablebase when one is loaded.
func (that *SolverManager) BestMove(ctx context.Context, pos entity.Position, tieBreak solver.TieBreak) (*BestMove, error) {
	log := that.logger.With("method", "BestMove")

	if err := pos.Validate(); err != nil {
		return nil, fmt.Errorf("invalid position: %w", err)
	}

	if pos.Board.IsFull() {
		return nil, apperror.ErrBoardFull
	}

	if table := that.tableBase(); table != nil {
		entry, err := table.Lookup(pos)
		if err == nil {
			return that.pick(entry.BestMoves, entry.Outcome, nil, tieBreak, SourceTableBase)
		}

		log.Warn("position missing from tablebase", "error", err)
	}

	evals, err := that.solver.EvaluateMoves(ctx, pos, that.variant)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate moves: %w", err)
	}

	best := solver.BestMoves(pos, evals)
	cells := make([]int, 0, len(best))
	for _, e := range best {
		cells = append(cells, e.Cell)
	}

	return that.pick(cells, best[0].Outcome, evals, tieBreak, SourceSearch)
}

func (that *SolverManager) pick(
	cells []int,
	outcome entity.Outcome,
	scores []solver.MoveEval,
	tieBreak solver.TieBreak,
	source string,
) (*BestMove, error) {
	candidates := make([]solver.MoveEval, 0, len(cells))
	for _, cell := range cells {
		candidates = append(candidates, solver.MoveEval{Cell: cell, Outcome: outcome})
	}

	move, err := that.solver.Pick(candidates, tieBreak)
	if err != nil {
		return nil, fmt.Errorf("failed to pick move: %w", err)
	}

	return &BestMove{
		Cell:       move.Cell,
		Outcome:    outcome,
		Candidates: cells,
		Scores:     scores,
		Source:     source,
	}, nil
}

// LoadTableBase - reads the stored tablebase, building and saving it first when the store is empty and build is set.
func (that *SolverManager) LoadTableBase(ctx context.Context, repo tableBaseRepo, build bool) error {
	log := that.logger.With("method", "LoadTableBase")

	count, err := repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count tablebase entries: %w", err)
	}

	if count == 0 {
		if !build {
			log.Info("tablebase is empty and building is disabled")
			return nil
		}

		table, err := tablebase.Build(ctx, that.solver)
		if err != nil {
			return fmt.Errorf("failed to build tablebase: %w", err)
		}

		if err = repo.Save(ctx, table.Entries()); err != nil {
			return fmt.Errorf("failed to save tablebase: %w", err)
		}

		log.Info("tablebase built", "entries", table.Len())
	}

	entries, err := repo.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load tablebase: %w", err)
	}

	that.SetTableBase(tablebase.New(entries))
	log.Info("tablebase loaded", "entries", len(entries))

	return nil
}

func (that *SolverManager) SetTableBase(table *tablebase.Table) {
	that.tableMu.Lock()
	defer that.tableMu.Unlock()

	that.table = table
}

func (that *SolverManager) tableBase() *tablebase.Table {
	that.tableMu.RLock()
	defer that.tableMu.RUnlock()

	return that.table
}
