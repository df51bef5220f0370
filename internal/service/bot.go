package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-console/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-console/internal/entity"
	"github.com/rocketscienceinc/tictactoe-console/internal/repository"
	"github.com/rocketscienceinc/tictactoe-console/internal/tictactoe"
)

var ErrStaleCachedMove = errors.New("cached move does not fit the board")

type BotService interface {
	MakeTurn(ctx context.Context, board *entity.Board) (entity.Move, error)
}

type moveCache interface {
	Save(ctx context.Context, board *entity.Board, result tictactoe.Result) error
	GetByBoard(ctx context.Context, board *entity.Board) (tictactoe.Result, error)
	DeleteByBoard(ctx context.Context, board *entity.Board) error
}

type botService struct {
	logger *slog.Logger
	cache  moveCache
}

// NewBotService - cache may be nil, the bot then searches on every turn.
func NewBotService(logger *slog.Logger, cache moveCache) BotService {
	return &botService{
		logger: logger.With("component", "bot"),
		cache:  cache,
	}
}

// MakeTurn - finds the optimal opponent move and applies it to the board.
func (that *botService) MakeTurn(ctx context.Context, board *entity.Board) (entity.Move, error) {
	if board.IsTerminal() {
		return entity.Move{}, fmt.Errorf("bot can't move: %w", apperror.ErrNoLegalMove)
	}

	result, found := that.cachedResult(ctx, board)
	if !found {
		var err error
		if result, err = that.search(board); err != nil {
			return entity.Move{}, err
		}

		that.storeResult(ctx, board, result)
	}

	if err := board.ApplyMove(result.Move, entity.Opponent); err != nil {
		return entity.Move{}, fmt.Errorf("bot failed to make turn: %w", err)
	}

	return result.Move, nil
}

func (that *botService) search(board *entity.Board) (tictactoe.Result, error) {
	searcher := tictactoe.NewSearcher()

	result, err := searcher.FindBestMove(board)
	if err != nil {
		return tictactoe.Result{}, fmt.Errorf("failed to find best move: %w", err)
	}

	that.logger.Debug("search finished",
		"board", board.String(),
		"move", result.Move.String(),
		"value", result.Value,
		"nodes", searcher.Stats().Nodes,
	)

	return result, nil
}

func (that *botService) cachedResult(ctx context.Context, board *entity.Board) (tictactoe.Result, bool) {
	if that.cache == nil {
		return tictactoe.Result{}, false
	}

	log := that.logger.With("method", "cachedResult", "board", board.String())

	result, err := that.cache.GetByBoard(ctx, board)
	if errors.Is(err, repository.ErrMoveNotFound) {
		return tictactoe.Result{}, false
	}

	if err != nil {
		log.Warn("failed to read move cache", "error", err)
		return tictactoe.Result{}, false
	}

	if !result.Move.InRange() || board.At(result.Move) != entity.EmptyCell {
		log.Warn("dropping cached move", "move", result.Move.String(), "error", ErrStaleCachedMove)

		if err = that.cache.DeleteByBoard(ctx, board); err != nil {
			log.Warn("failed to delete cached move", "error", err)
		}

		return tictactoe.Result{}, false
	}

	log.Debug("move cache hit", "move", result.Move.String())

	return result, true
}

func (that *botService) storeResult(ctx context.Context, board *entity.Board, result tictactoe.Result) {
	if that.cache == nil {
		return
	}

	if err := that.cache.Save(ctx, board, result); err != nil {
		that.logger.Warn("failed to save move cache", "board", board.String(), "error", err)
	}
}
