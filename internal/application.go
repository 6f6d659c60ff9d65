package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/rocketscienceinc/tictactoe-solver/internal/config"
	"github.com/rocketscienceinc/tictactoe-solver/internal/entity"
	"github.com/rocketscienceinc/tictactoe-solver/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-solver/internal/repository"
	"github.com/rocketscienceinc/tictactoe-solver/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-solver/internal/solver"
	"github.com/rocketscienceinc/tictactoe-solver/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-solver/transport/rest"
	"github.com/rocketscienceinc/tictactoe-solver/transport/websocket"
)

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	variant, err := entity.ParseVariant(conf.Solver.Variant)
	if err != nil {
		return fmt.Errorf("invalid solver variant: %w", err)
	}

	defaults := pkg.Marks{
		First:  entity.Mark(conf.Solver.FirstMark),
		Second: entity.Mark(conf.Solver.SecondMark),
	}

	results, closeResults, err := newResultRepository(ctx, conf)
	if err != nil {
		return err
	}

	defer func() {
		if err = closeResults(); err != nil {
			log.Error("could not close result storage", "error", err)
		}
	}()

	sqliteStorage, err := storage.NewSQLiteStorage(conf.SQLiteStoragePath)
	if err != nil {
		return fmt.Errorf("could not open sqlite storage: %w", err)
	}

	defer func() {
		if err = sqliteStorage.Close(); err != nil {
			log.Error("could not close sqlite storage", "error", err)
		}
	}()

	if err = sqliteStorage.Init(ctx); err != nil {
		return fmt.Errorf("could not init sqlite storage: %w", err)
	}

	searcher := solver.New(solver.WithParallel(conf.Solver.Parallel))
	solverUseCase := usecase.NewSolverManager(logger, results, searcher, variant)

	tableBaseRepo := repository.NewTableBaseRepository(sqliteStorage.Connection)
	if err = solverUseCase.LoadTableBase(ctx, tableBaseRepo, conf.TableBase.BuildOnStart); err != nil {
		return fmt.Errorf("could not load tablebase: %w", err)
	}

	group, ctx := errgroup.WithContext(ctx)

	// run HTTP server
	group.Go(func() error {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)

		if err := rest.Start(ctx, conf.HTTPPort, rest.NewHandlers(logger, solverUseCase, defaults)); err != nil {
			return fmt.Errorf("HTTP server error: %w", err)
		}

		return nil
	})

	// run Websocket server
	group.Go(func() error {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)

		wsServer := websocket.New(logger, solverUseCase, defaults)
		if err := wsServer.Start(ctx, conf.SocketPort); err != nil {
			return fmt.Errorf("WebSocket server error: %w", err)
		}

		return nil
	})

	// a failed server stops the other one
	group.Go(func() error {
		<-ctx.Done()
		log.Info("Application context canceled, shutting down")

		return nil
	})

	return group.Wait() //nolint: wrapcheck // already wrapped
}

func newResultRepository(ctx context.Context, conf *config.Config) (repository.ResultRepository, func() error, error) {
	if !conf.Redis.Enabled {
		return repository.NewMemoryResultRepository(conf.Redis.TTL, entity.ModeFor(conf.Solver.Parallel)), func() error { return nil }, nil
	}

	redisStorage, err := storage.NewRedisStorage(ctx, conf.Redis.GetRedisAddr())
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	return repository.NewRedisResultRepository(redisStorage.Connection, conf.Redis.TTL, entity.ModeFor(conf.Solver.Parallel)), redisStorage.Close, nil
}
