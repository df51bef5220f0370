package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-console/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-console/internal/entity"
	"github.com/rocketscienceinc/tictactoe-console/internal/pkg"
)

type botService interface {
	MakeTurn(ctx context.Context, board *entity.Board) (entity.Move, error)
}

// GameSession owns the board of one game. The human always moves first.
type GameSession struct {
	id     string
	logger *slog.Logger
	bot    botService

	board   *entity.Board
	turns   int
	outcome entity.Outcome
}

func NewGameSession(logger *slog.Logger, bot botService) *GameSession {
	id := pkg.GenerateSessionID()

	return &GameSession{
		id:      id,
		logger:  logger.With("component", "session", "sessionID", id),
		bot:     bot,
		board:   entity.NewBoard(),
		outcome: entity.InProgress,
	}
}

func (that *GameSession) ID() string {
	return that.id
}

// Board - returns a copy, callers can't change the session board through it.
func (that *GameSession) Board() *entity.Board {
	return that.board.Clone()
}

func (that *GameSession) Outcome() entity.Outcome {
	return that.outcome
}

func (that *GameSession) IsFinished() bool {
	return that.outcome != entity.InProgress
}

func (that *GameSession) Turns() int {
	return that.turns
}

// HumanTurn - applies an already validated human move.
func (that *GameSession) HumanTurn(move entity.Move) (entity.Outcome, error) {
	if that.IsFinished() {
		return that.outcome, apperror.ErrGameFinished
	}

	if err := that.board.ApplyMove(move, entity.Human); err != nil {
		return that.outcome, fmt.Errorf("failed make turn: %w", err)
	}

	that.commit(entity.Human, move)

	return that.outcome, nil
}

// OpponentTurn - lets the bot answer on the current board.
func (that *GameSession) OpponentTurn(ctx context.Context) (entity.Move, entity.Outcome, error) {
	if that.IsFinished() {
		return entity.Move{}, that.outcome, apperror.ErrGameFinished
	}

	move, err := that.bot.MakeTurn(ctx, that.board)
	if err != nil {
		return entity.Move{}, that.outcome, fmt.Errorf("bot failed to make turn: %w", err)
	}

	that.commit(entity.Opponent, move)

	return move, that.outcome, nil
}

func (that *GameSession) commit(side entity.Side, move entity.Move) {
	that.turns++
	that.outcome = that.board.Outcome()

	that.logger.Debug("turn made",
		"side", side.String(),
		"move", move.String(),
		"board", that.board.String(),
		"outcome", that.outcome.String(),
	)

	if that.IsFinished() {
		that.logger.Info("game finished", "outcome", that.outcome.String(), "turns", that.turns)
	}
}
