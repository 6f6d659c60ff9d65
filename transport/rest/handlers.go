package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/rocketscienceinc/tictactoe-solver/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solver/internal/entity"
	"github.com/rocketscienceinc/tictactoe-solver/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-solver/internal/solver"
	"github.com/rocketscienceinc/tictactoe-solver/internal/usecase"
)

const maxBodySize = 4 << 10

type Handlers interface {
	PingHandler(w http.ResponseWriter, _ *http.Request)

	Solve(w http.ResponseWriter, r *http.Request)
	SolveRaw(w http.ResponseWriter, r *http.Request)
	BestMove(w http.ResponseWriter, r *http.Request)
}

type solverUseCase interface {
	Solve(ctx context.Context, pos entity.Position, variant entity.Variant) (entity.Result, error)
	BestMove(ctx context.Context, pos entity.Position, tieBreak solver.TieBreak) (*usecase.BestMove, error)
}

type handlers struct {
	logger   *slog.Logger
	solver   solverUseCase
	defaults pkg.Marks
}

func NewHandlers(logger *slog.Logger, solver solverUseCase, defaults pkg.Marks) Handlers {
	return &handlers{
		logger:   logger,
		solver:   solver,
		defaults: defaults,
	}
}

type solveResponse struct {
	Outcome entity.Outcome `json:"outcome"`
	Result  string         `json:"result"`
	Visited uint32         `json:"visited"`
	Variant entity.Variant `json:"variant"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (that *handlers) Solve(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "Solve")

	var req pkg.PositionRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req); err != nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	pos, err := req.ToPosition(that.defaults)
	if err != nil {
		that.writeError(w, log, err)
		return
	}

	result, err := that.solver.Solve(r.Context(), pos, entity.Variant(req.Variant))
	if err != nil {
		that.writeError(w, log, err)
		return
	}

	that.writeJSON(w, http.StatusOK, solveResponse{
		Outcome: result.Outcome,
		Result:  result.Outcome.String(),
		Visited: result.Visited,
		Variant: result.Variant,
	})
}

// SolveRaw - binary form of Solve: 13 request bytes in, 3 response bytes out.
func (that *handlers) SolveRaw(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "SolveRaw")

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	pos, variant, err := decodeRawRequest(body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := that.solver.Solve(r.Context(), pos, variant)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			log.Error("failed to solve raw request", "error", err)
		}
		http.Error(w, err.Error(), status)
		return
	}

	resp := encodeRawResponse(result)

	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	if _, err = w.Write(resp[:]); err != nil {
		log.Error("failed to write response", "error", err)
	}
}

func (that *handlers) BestMove(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "BestMove")

	var req pkg.PositionRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req); err != nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	pos, err := req.ToPosition(that.defaults)
	if err != nil {
		that.writeError(w, log, err)
		return
	}

	tieBreak, err := solver.ParseTieBreak(req.TieBreak)
	if err != nil {
		that.writeError(w, log, err)
		return
	}

	move, err := that.solver.BestMove(r.Context(), pos, tieBreak)
	if err != nil {
		that.writeError(w, log, err)
		return
	}

	that.writeJSON(w, http.StatusOK, move)
}

func (that *handlers) writeError(w http.ResponseWriter, log *slog.Logger, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error("request failed", "error", err)
		that.writeJSON(w, status, errorResponse{Error: "Internal Server Error"})
		return
	}

	that.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (that *handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to encode response", "error", err)
	}
}

var badRequestErrors = []error{
	apperror.ErrInvalidMark,
	apperror.ErrSameMarks,
	apperror.ErrInvalidTurn,
	apperror.ErrInvalidCell,
	apperror.ErrInvalidCellValue,
	apperror.ErrGameFinished,
	apperror.ErrBoardFull,
	apperror.ErrUnknownVariant,
	apperror.ErrUnknownTieBreak,
}

func statusFor(err error) int {
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			return http.StatusBadRequest
		}
	}

	return http.StatusInternalServerError
}
