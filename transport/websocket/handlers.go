package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-solver/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solver/internal/entity"
	"github.com/rocketscienceinc/tictactoe-solver/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-solver/internal/solver"
)

var clientErrors = []error{
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

func (that *Server) handleSolve(ctx context.Context, msg *Message, conn *websocket.Conn) error {
	log := that.logger.With("method", "handleSolve")

	var req pkg.PositionRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		return that.sendError(conn, msg.Action, "invalid payload")
	}

	pos, err := req.ToPosition(that.defaults)
	if err != nil {
		return that.sendError(conn, msg.Action, err.Error())
	}

	result, err := that.solver.Solve(ctx, pos, entity.Variant(req.Variant))
	if err != nil {
		return that.sendFailure(log, conn, msg.Action, err)
	}

	return that.sendMessage(conn, msg.Action, ResponsePayload{Result: &result})
}

func (that *Server) handleBestMove(ctx context.Context, msg *Message, conn *websocket.Conn) error {
	log := that.logger.With("method", "handleBestMove")

	var req pkg.PositionRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		return that.sendError(conn, msg.Action, "invalid payload")
	}

	pos, err := req.ToPosition(that.defaults)
	if err != nil {
		return that.sendError(conn, msg.Action, err.Error())
	}

	tieBreak, err := solver.ParseTieBreak(req.TieBreak)
	if err != nil {
		return that.sendError(conn, msg.Action, err.Error())
	}

	move, err := that.solver.BestMove(ctx, pos, tieBreak)
	if err != nil {
		return that.sendFailure(log, conn, msg.Action, err)
	}

	return that.sendMessage(conn, msg.Action, ResponsePayload{BestMove: move})
}

// sendFailure - reports client errors verbatim and hides everything else.
func (that *Server) sendFailure(log *slog.Logger, conn *websocket.Conn, action string, err error) error {
	for _, target := range clientErrors {
		if errors.Is(err, target) {
			return that.sendError(conn, action, err.Error())
		}
	}

	log.Error("request failed", "error", err)

	return that.sendError(conn, action, "internal error")
}
